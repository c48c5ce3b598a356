package core

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/example/storefront/pkg/cache"
)

// CatalogCacheTTL is the base lifetime of cached catalog reads.
const CatalogCacheTTL = 15 * time.Minute

// ReadThrough is a cache-aside helper. Concurrent misses for the same key
// share one load, which runs detached from the callers' cancellation.
// A load that overlaps an invalidate of its key never leaves its value in
// the cache.
type ReadThrough struct {
	cache  cache.Cache
	ttl    time.Duration
	sfg    singleflight.Group
	logger *zap.Logger

	mu  sync.Mutex
	gen map[string]uint64
}

func NewReadThrough(c cache.Cache, ttl time.Duration, logger *zap.Logger) *ReadThrough {
	return &ReadThrough{cache: c, ttl: ttl, logger: logger, gen: make(map[string]uint64)}
}

func (r *ReadThrough) generation(key string) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.gen[key]
}

func fetch[T any](ctx context.Context, r *ReadThrough, key string, load func(ctx context.Context) (T, error)) (T, error) {
	ch := r.sfg.DoChan(key, func() (interface{}, error) {
		ctx := context.WithoutCancel(ctx)
		gen := r.generation(key)

		cached, err := cache.GetJSON[T](ctx, r.cache, key)
		if err == nil {
			return *cached, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			r.logger.Warn("cache get error", zap.String("key", key), zap.Error(err))
		}

		loaded, err := load(ctx)
		if err != nil {
			return nil, err
		}
		r.store(ctx, key, gen, loaded)
		return loaded, nil
	})

	var zero T
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		return res.Val.(T), nil
	}
}

// store caches value unless key was invalidated after gen was read. The
// generation is checked again after the write so an invalidate racing with
// the set still wins.
func (r *ReadThrough) store(ctx context.Context, key string, gen uint64, value interface{}) {
	if r.generation(key) != gen {
		return
	}
	if err := cache.SetJSON(ctx, r.cache, key, value, r.ttl); err != nil {
		r.logger.Warn("cache set error", zap.String("key", key), zap.Error(err))
		return
	}
	if r.generation(key) != gen {
		if err := r.cache.Delete(ctx, key); err != nil {
			r.logger.Warn("cache invalidation error", zap.String("key", key), zap.Error(err))
		}
	}
}

func (r *ReadThrough) invalidate(ctx context.Context, keys ...string) {
	r.mu.Lock()
	for _, key := range keys {
		r.gen[key]++
		r.sfg.Forget(key)
	}
	r.mu.Unlock()
	if err := r.cache.Delete(ctx, keys...); err != nil {
		r.logger.Warn("cache invalidation error", zap.Strings("keys", keys), zap.Error(err))
	}
}
