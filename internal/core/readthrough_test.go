package core

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestReadThrough_InvalidateDuringLoadKeepsCacheEmpty(t *testing.T) {
	env := newTestEnv(t)
	reads := NewReadThrough(env.cache, time.Minute, zap.NewNop())
	ctx := context.Background()

	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan string)
	go func() {
		v, err := fetch(ctx, reads, "catalog:test", func(context.Context) (string, error) {
			close(started)
			<-release
			return "before write", nil
		})
		assert.NoError(t, err)
		done <- v
	}()

	<-started
	reads.invalidate(ctx, "catalog:test")
	close(release)
	assert.Equal(t, "before write", <-done)
	assert.False(t, env.redis.Exists("catalog:test"), "a load overlapping an invalidate is not cached")

	v, err := fetch(ctx, reads, "catalog:test", func(context.Context) (string, error) {
		return "after write", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "after write", v)
	assert.True(t, env.redis.Exists("catalog:test"))
}

func TestReadThrough_CancelledCallerDoesNotFailOthers(t *testing.T) {
	env := newTestEnv(t)
	reads := NewReadThrough(env.cache, time.Minute, zap.NewNop())

	var once sync.Once
	started := make(chan struct{})
	release := make(chan struct{})
	load := func(ctx context.Context) (string, error) {
		once.Do(func() { close(started) })
		<-release
		return "value", ctx.Err()
	}

	cancelled, cancel := context.WithCancel(context.Background())
	first := make(chan error)
	go func() {
		_, err := fetch(cancelled, reads, "catalog:shared", load)
		first <- err
	}()
	<-started

	second := make(chan string)
	go func() {
		v, err := fetch(context.Background(), reads, "catalog:shared", load)
		assert.NoError(t, err)
		second <- v
	}()

	cancel()
	assert.ErrorIs(t, <-first, context.Canceled)
	close(release)
	assert.Equal(t, "value", <-second)
	assert.True(t, env.redis.Exists("catalog:shared"))
}
