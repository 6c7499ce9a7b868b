package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
)

// MemoryStore in-process TTL 캐시
// 만료 항목은 조회 시 무시되고 janitor가 주기적으로 정리한다.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry

	// Metrics
	hits   atomic.Int64
	misses atomic.Int64

	now  func() time.Time
	stop chan struct{}
	once sync.Once
}

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// NewMemoryStore creates a memory store; cleanupInterval <= 0 disables the janitor
func NewMemoryStore(cleanupInterval time.Duration) *MemoryStore {
	s := &MemoryStore{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
		stop:    make(chan struct{}),
	}
	if cleanupInterval > 0 {
		go s.janitor(cleanupInterval)
	}
	return s
}

// Get 캐시 조회
func (s *MemoryStore) Get(_ context.Context, key string, dst any) (bool, error) {
	s.mu.RLock()
	entry, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok || !s.now().Before(entry.expiresAt) {
		s.misses.Add(1)
		return false, nil
	}
	if err := json.Unmarshal(entry.data, dst); err != nil {
		s.misses.Add(1)
		return false, fmt.Errorf("decode cache entry %s: %w", key, err)
	}
	s.hits.Add(1)
	return true, nil
}

// Set 캐시 저장
func (s *MemoryStore) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode cache entry %s: %w", key, err)
	}

	s.mu.Lock()
	s.entries[key] = memoryEntry{data: data, expiresAt: s.now().Add(ttl)}
	s.mu.Unlock()
	return nil
}

// Stats returns cache statistics
func (s *MemoryStore) Stats() Stats {
	s.mu.RLock()
	size := len(s.entries)
	s.mu.RUnlock()
	return newStats("memory", size, s.hits.Load(), s.misses.Load())
}

// Close janitor 종료
func (s *MemoryStore) Close() error {
	s.once.Do(func() { close(s.stop) })
	return nil
}

// DeleteExpired 만료 항목 제거, 제거 건수 반환
func (s *MemoryStore) DeleteExpired() int {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, entry := range s.entries {
		if !now.Before(entry.expiresAt) {
			delete(s.entries, key)
			removed++
		}
	}
	return removed
}

func (s *MemoryStore) janitor(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			if removed := s.DeleteExpired(); removed > 0 {
				log.Debug().Int("removed", removed).Msg("Cache janitor swept expired entries")
			}
		}
	}
}
