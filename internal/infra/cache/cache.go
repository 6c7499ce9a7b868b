package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/wonny/quantdiag/internal/pkg/config"
)

// ==============================================================================
// Indicator cache side-table
// ==============================================================================

// Family 지표 계열 (계열별 TTL 적용)
type Family string

const (
	FamilyTechnical Family = "technical"
	FamilyRegime    Family = "regime"
	FamilySqueeze   Family = "squeeze"
	FamilyScreener  Family = "screener"
	FamilyDiagnosis Family = "diagnosis"
)

const keyPrefix = "quantdiag"

// ErrUnknownBackend 지원하지 않는 캐시 백엔드
var ErrUnknownBackend = errors.New("unknown cache backend")

// Key (entityID, evaluationDate, indicatorSetVersion)
// 같은 키는 같은 입력으로 계산된 값을 가리킨다.
type Key struct {
	Family   Family
	EntityID string // 종목코드, 시장, 또는 스크리너 이름
	Date     time.Time
	Version  string
}

// String "quantdiag:technical:v1:005930:2024-03-04"
func (k Key) String() string {
	return strings.Join([]string{
		keyPrefix,
		string(k.Family),
		k.Version,
		k.EntityID,
		k.Date.Format("2006-01-02"),
	}, ":")
}

// Store 캐시 저장소
// 값은 JSON으로 저장되므로 Get은 항상 복사본을 dst에 채운다.
type Store interface {
	// Get 캐시 조회, 없거나 만료되면 false
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Stats() Stats
	Close() error
}

// Stats holds cache statistics
type Stats struct {
	Backend string  `json:"backend"`
	Size    int     `json:"size"`
	Hits    int64   `json:"hits"`
	Misses  int64   `json:"misses"`
	HitRate float64 `json:"hit_rate"` // percentage
}

func newStats(backend string, size int, hits, misses int64) Stats {
	hitRate := float64(0)
	if total := hits + misses; total > 0 {
		hitRate = float64(hits) / float64(total) * 100
	}
	return Stats{Backend: backend, Size: size, Hits: hits, Misses: misses, HitRate: hitRate}
}

// Policy 계열별 TTL
type Policy struct {
	Version string
	TTLs    map[Family]time.Duration
}

// NewPolicy 설정에서 TTL 정책 생성
func NewPolicy(cfg config.CacheConfig) Policy {
	return Policy{
		Version: cfg.Version,
		TTLs: map[Family]time.Duration{
			FamilyTechnical: cfg.TechnicalTTL,
			FamilySqueeze:   cfg.TechnicalTTL,
			FamilyDiagnosis: cfg.TechnicalTTL,
			FamilyRegime:    cfg.RegimeTTL,
			FamilyScreener:  cfg.ScreenerTTL,
		},
	}
}

// TTL 계열 TTL (미지정 시 1분)
func (p Policy) TTL(f Family) time.Duration {
	if ttl, ok := p.TTLs[f]; ok && ttl > 0 {
		return ttl
	}
	return time.Minute
}

// Key 현재 버전으로 키 생성
func (p Policy) Key(f Family, entityID string, date time.Time) Key {
	return Key{Family: f, EntityID: entityID, Date: date, Version: p.Version}
}

// New 설정된 백엔드로 Store 생성 (memory | redis)
func New(ctx context.Context, cfg config.CacheConfig, redisCfg config.RedisConfig) (Store, error) {
	switch cfg.Backend {
	case "", "memory":
		return NewMemoryStore(cfg.CleanupInterval), nil
	case "redis":
		s, err := NewRedisStore(ctx, redisCfg)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}
