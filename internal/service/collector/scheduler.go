package collector

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// Start 스케줄러 시작 (매 거래일 RunAt KST 실행)
func (s *Service) Start(ctx context.Context) error {
	runAt, err := parseRunAt(s.cfg.RunAt)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if s.status.Running {
		s.mu.Unlock()
		return fmt.Errorf("collector already running")
	}
	s.status.Running = true
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.mu.Unlock()

	log.Info().Str("run_at", s.cfg.RunAt).Int("stocks", len(s.cfg.StockCodes)).Msg("Starting collector")

	s.wg.Add(1)
	go s.runScheduler(runAt)
	return nil
}

// Stop 스케줄러 중지, 진행 중 수집은 취소된다.
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.status.Running {
		s.mu.Unlock()
		return
	}
	s.status.Running = false
	cancel := s.cancel
	s.mu.Unlock()

	log.Info().Msg("Stopping collector")
	cancel()
	s.wg.Wait()
	log.Info().Msg("Collector stopped")
}

func (s *Service) runScheduler(runAt time.Duration) {
	defer s.wg.Done()

	for {
		next := nextRun(s.now(), runAt)
		s.mu.Lock()
		s.status.NextRunAt = next
		s.mu.Unlock()

		log.Info().Time("next_run_at", next).Msg("Collection scheduled")

		timer := time.NewTimer(time.Until(next))
		select {
		case <-timer.C:
			if err := s.CollectAll(s.ctx); err != nil {
				log.Error().Err(err).Msg("Scheduled collection failed")
			}
		case <-s.ctx.Done():
			timer.Stop()
			return
		}
	}
}

// parseRunAt "HH:MM" → 자정 이후 경과 시간
func parseRunAt(v string) (time.Duration, error) {
	t, err := time.Parse("15:04", v)
	if err != nil {
		return 0, fmt.Errorf("invalid collector run time %q: %w", v, err)
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}

// nextRun now 이후 첫 평일 runAt (KST)
func nextRun(now time.Time, runAt time.Duration) time.Time {
	local := now.In(KST)
	day := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, KST)
	next := day.Add(runAt)
	if !next.After(local) {
		next = day.AddDate(0, 0, 1).Add(runAt)
	}
	for isWeekend(next) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

func isWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
