// Package cache stores rendered schedule responses keyed by a fingerprint of
// the request that produced them.
package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/iwvelando/loan-amortization/pkg/constants"
)

// Backend names accepted by New.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendNone   = "none"
)

// Repository is a string key/value store for computed schedules.
type Repository interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key string, value string) error
}

// Key returns prefix followed by the hex xxhash64 of payload.
func Key(prefix string, payload []byte) string {
	return prefix + strconv.FormatUint(xxhash.Sum64(payload), 16)
}

// ScheduleKey is Key with the schedule cache prefix.
func ScheduleKey(payload []byte) string {
	return Key(constants.CacheKeyPrefix, payload)
}

// New builds the repository for backend. It returns nil for BackendNone.
func New(backend, redisAddress string, ttl time.Duration) (Repository, error) {
	switch backend {
	case "", BackendMemory:
		return NewMemoryCache(ttl), nil
	case BackendRedis:
		if redisAddress == "" {
			return nil, fmt.Errorf("redis cache backend requires an address")
		}
		return NewRedisCache(redisAddress, ttl), nil
	case BackendNone:
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", backend)
	}
}
