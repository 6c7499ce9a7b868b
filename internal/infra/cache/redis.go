package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/wonny/quantdiag/internal/pkg/config"
)

// RedisStore Redis 캐시 (JSON, SET ... EX)
// 여러 API 인스턴스가 같은 계산 결과를 공유할 때 사용한다.
type RedisStore struct {
	client *redis.Client

	hits   atomic.Int64
	misses atomic.Int64
}

// NewRedisStore 연결 후 PING 확인
func NewRedisStore(ctx context.Context, cfg config.RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		PoolTimeout:  cfg.PoolTimeout,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", cfg.Addr(), err)
	}
	return NewRedisStoreFromClient(client), nil
}

// NewRedisStoreFromClient 기존 클라이언트 사용
func NewRedisStoreFromClient(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Get 캐시 조회
func (s *RedisStore) Get(ctx context.Context, key string, dst any) (bool, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		s.misses.Add(1)
		return false, nil
	}
	if err != nil {
		s.misses.Add(1)
		return false, fmt.Errorf("redis get %s: %w", key, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		s.misses.Add(1)
		return false, fmt.Errorf("decode cache entry %s: %w", key, err)
	}
	s.hits.Add(1)
	return true, nil
}

// Set 캐시 저장 (TTL 만료로만 제거)
func (s *RedisStore) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode cache entry %s: %w", key, err)
	}
	if err := s.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Stats returns hit/miss counters of this process (size is not tracked)
func (s *RedisStore) Stats() Stats {
	return newStats("redis", 0, s.hits.Load(), s.misses.Load())
}

// Ping 연결 확인 (health check)
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close 연결 종료
func (s *RedisStore) Close() error {
	return s.client.Close()
}
