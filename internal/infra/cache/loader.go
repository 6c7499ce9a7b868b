package cache

import (
	"context"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

// Loader read-through 캐시
// 같은 키의 동시 계산은 singleflight로 한 번만 수행한다.
// 캐시 장애는 계산 실패로 전파하지 않는다.
type Loader struct {
	store  Store
	policy Policy
	sf     singleflight.Group
}

// NewLoader creates a read-through loader
func NewLoader(store Store, policy Policy) *Loader {
	return &Loader{store: store, policy: policy}
}

// Store 하위 저장소
func (l *Loader) Store() Store {
	return l.store
}

// Policy TTL 정책
func (l *Loader) Policy() Policy {
	return l.policy
}

// Load 캐시에 있으면 반환, 없으면 compute 결과를 계열 TTL로 저장 후 반환
func Load[T any](ctx context.Context, l *Loader, key Key, compute func(ctx context.Context) (T, error)) (T, error) {
	k := key.String()

	var cached T
	if ok, err := l.store.Get(ctx, k, &cached); err != nil {
		log.Warn().Err(err).Str("key", k).Msg("Cache read failed, computing")
	} else if ok {
		return cached, nil
	}

	v, err, shared := l.sf.Do(k, func() (interface{}, error) {
		value, err := compute(ctx)
		if err != nil {
			return value, err
		}
		if err := l.store.Set(ctx, k, value, l.policy.TTL(key.Family)); err != nil {
			log.Warn().Err(err).Str("key", k).Msg("Cache write failed")
		}
		return value, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	if shared {
		log.Debug().Str("key", k).Msg("Cache computation shared")
	}
	return v.(T), nil
}
