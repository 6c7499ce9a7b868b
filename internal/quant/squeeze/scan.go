package squeeze

import (
	"sort"
)

// Scan 후보 종목 스캔
// minScore 미만은 제외, 점수 내림차순(동점은 종목코드 순), 최대 limit개.
// 기록이 ChangeWindow보다 적은 종목은 평가하지 않는다.
func (s *Scorer) Scan(inputs []Input, minScore, limit int) ([]*Assessment, error) {
	candidates := make([]*Assessment, 0)
	for _, in := range inputs {
		if len(in.Records) < s.cfg.ChangeWindow {
			continue
		}
		a, err := s.Assess(in)
		if err != nil {
			return nil, err
		}
		if a.SqueezeScore >= minScore {
			candidates = append(candidates, a)
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].SqueezeScore != candidates[j].SqueezeScore {
			return candidates[i].SqueezeScore > candidates[j].SqueezeScore
		}
		return candidates[i].StockCode < candidates[j].StockCode
	})

	if limit > 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates, nil
}
