// Package session keeps two processes from editing the same hotel data at
// once. The lock lives in redis; without redis a no-op guard is used.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// ErrLocked is returned when another session holds the lock.
var ErrLocked = errors.New("hotel data is locked by another session")

// ErrNotOwner is returned when the lock expired or was taken over.
var ErrNotOwner = errors.New("lock is not held by this session")

// Guard is a single-writer lock over one data set.
type Guard interface {
	Acquire(ctx context.Context) error
	Refresh(ctx context.Context) error
	Release(ctx context.Context) error
}

// NopGuard never blocks. Used when no redis is configured.
type NopGuard struct{}

func (NopGuard) Acquire(context.Context) error { return nil }
func (NopGuard) Refresh(context.Context) error { return nil }
func (NopGuard) Release(context.Context) error { return nil }

var (
	refreshScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0`)

	releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)
)

// RedisGuard holds the lock as a redis key set with NX and a TTL. The
// value is a random owner token so only the holder can refresh or release.
type RedisGuard struct {
	client *redis.Client
	key    string
	token  string
	ttl    time.Duration
	logger *zerolog.Logger
}

// NewRedisGuard builds a guard for resource, typically the data directory.
func NewRedisGuard(client *redis.Client, resource string, ttl time.Duration, logger *zerolog.Logger) *RedisGuard {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &RedisGuard{
		client: client,
		key:    "hotel:lock:" + resource,
		token:  uuid.NewString(),
		ttl:    ttl,
		logger: logger,
	}
}

func (g *RedisGuard) Acquire(ctx context.Context) error {
	ok, err := g.client.SetNX(ctx, g.key, g.token, g.ttl).Result()
	if err != nil {
		return fmt.Errorf("acquire lock %s: %w", g.key, err)
	}
	if !ok {
		ttl, _ := g.client.PTTL(ctx, g.key).Result()
		g.logger.Warn().Str("key", g.key).Dur("expires_in", ttl).Msg("Lock held by another session")
		return fmt.Errorf("%s: %w", g.key, ErrLocked)
	}
	g.logger.Debug().Str("key", g.key).Str("owner", g.token).Msg("Lock acquired")
	return nil
}

// Refresh extends the TTL while the lock is still ours.
func (g *RedisGuard) Refresh(ctx context.Context) error {
	n, err := refreshScript.Run(ctx, g.client, []string{g.key}, g.token, g.ttl.Milliseconds()).Int()
	if err != nil {
		return fmt.Errorf("refresh lock %s: %w", g.key, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", g.key, ErrNotOwner)
	}
	return nil
}

// Release deletes the key only if this session still owns it.
func (g *RedisGuard) Release(ctx context.Context) error {
	n, err := releaseScript.Run(ctx, g.client, []string{g.key}, g.token).Int()
	if err != nil {
		return fmt.Errorf("release lock %s: %w", g.key, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", g.key, ErrNotOwner)
	}
	g.logger.Debug().Str("key", g.key).Msg("Lock released")
	return nil
}

// KeepAlive refreshes the guard every interval until ctx is done.
func KeepAlive(ctx context.Context, g Guard, interval time.Duration, logger *zerolog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := g.Refresh(ctx); err != nil && ctx.Err() == nil {
				logger.Error().Err(err).Msg("Failed to refresh session lock")
			}
		}
	}
}
