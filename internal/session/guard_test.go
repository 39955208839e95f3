package session

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisGuard_SingleOwner(t *testing.T) {
	ctx := context.Background()
	mr, client := newClient(t)

	first := NewRedisGuard(client, "data", time.Minute, nil)
	second := NewRedisGuard(client, "data", time.Minute, nil)

	require.NoError(t, first.Acquire(ctx))
	assert.ErrorIs(t, second.Acquire(ctx), ErrLocked)
	assert.ErrorIs(t, second.Release(ctx), ErrNotOwner)
	assert.True(t, mr.Exists("hotel:lock:data"))

	require.NoError(t, first.Release(ctx))
	assert.False(t, mr.Exists("hotel:lock:data"))

	require.NoError(t, second.Acquire(ctx))
}

func TestRedisGuard_Expiry(t *testing.T) {
	ctx := context.Background()
	mr, client := newClient(t)

	first := NewRedisGuard(client, "data", time.Minute, nil)
	second := NewRedisGuard(client, "data", time.Minute, nil)
	require.NoError(t, first.Acquire(ctx))

	mr.FastForward(30 * time.Second)
	require.NoError(t, first.Refresh(ctx))
	mr.FastForward(45 * time.Second)
	assert.ErrorIs(t, second.Acquire(ctx), ErrLocked, "refresh pushed the expiry")

	mr.FastForward(time.Minute)
	require.NoError(t, second.Acquire(ctx))
	assert.ErrorIs(t, first.Refresh(ctx), ErrNotOwner)
	assert.ErrorIs(t, first.Release(ctx), ErrNotOwner)
}

func TestRedisGuard_DistinctResources(t *testing.T) {
	ctx := context.Background()
	_, client := newClient(t)

	require.NoError(t, NewRedisGuard(client, "a", time.Minute, nil).Acquire(ctx))
	require.NoError(t, NewRedisGuard(client, "b", time.Minute, nil).Acquire(ctx))
}

func TestRedisGuard_ServerDown(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer client.Close()
	mr.Close()

	err = NewRedisGuard(client, "data", time.Minute, nil).Acquire(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrLocked)
}

type countingGuard struct {
	NopGuard
	refreshes atomic.Int32
}

func (g *countingGuard) Refresh(context.Context) error {
	g.refreshes.Add(1)
	return nil
}

func TestKeepAlive(t *testing.T) {
	g := &countingGuard{}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	logger := zerolog.Nop()
	go func() {
		KeepAlive(ctx, g, 5*time.Millisecond, &logger)
		close(done)
	}()

	assert.Eventually(t, func() bool { return g.refreshes.Load() >= 2 }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("KeepAlive did not stop")
	}
}

func TestNopGuard(t *testing.T) {
	var g Guard = NopGuard{}
	ctx := context.Background()
	assert.NoError(t, g.Acquire(ctx))
	assert.NoError(t, g.Refresh(ctx))
	assert.NoError(t, g.Release(ctx))
}
