package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/flowbridge/pkg/observability"
)

// Instrumented reports the hits, misses and writes of a Cache to the
// registered observability.CacheHooks.
type Instrumented struct {
	inner Cache
}

// NewInstrumented wraps c.
func NewInstrumented(c Cache) *Instrumented {
	return &Instrumented{inner: c}
}

// Unwrap returns the wrapped cache.
func (c *Instrumented) Unwrap() Cache { return c.inner }

func (c *Instrumented) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, hit, err := c.inner.Get(ctx, key)
	if err != nil {
		return nil, false, err
	}
	if hit {
		observability.Cache().OnCacheHit(ctx, KeyType(key))
	} else {
		observability.Cache().OnCacheMiss(ctx, KeyType(key))
	}
	return data, hit, nil
}

func (c *Instrumented) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if err := c.inner.Set(ctx, key, data, ttl); err != nil {
		return err
	}
	observability.Cache().OnCacheSet(ctx, KeyType(key), len(data))
	return nil
}

func (c *Instrumented) Delete(ctx context.Context, key string) error {
	return c.inner.Delete(ctx, key)
}

// Clear clears the wrapped cache if it supports it.
func (c *Instrumented) Clear(ctx context.Context) error {
	cl, ok := c.inner.(Clearer)
	if !ok {
		return fmt.Errorf("cache %T cannot be cleared", c.inner)
	}
	return cl.Clear(ctx)
}

func (c *Instrumented) Close() error { return c.inner.Close() }

var (
	_ Cache   = (*Instrumented)(nil)
	_ Clearer = (*Instrumented)(nil)
)
