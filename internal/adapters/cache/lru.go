// Package cache provides an in-process implementation of ports.Cache.
package cache

import (
	"context"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru"

	"github.com/jsamuelsen/foodgram/internal/domain"
	"github.com/jsamuelsen/foodgram/internal/ports"
)

type entry struct {
	value     []byte
	expiresAt time.Time
}

func (e entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

// LRU is a bounded cache with per-entry expiry.
type LRU struct {
	items *lru.Cache
	now   func() time.Time
}

var _ ports.Cache = (*LRU)(nil)

// NewLRU creates a cache holding at most size entries.
func NewLRU(size int) (*LRU, error) {
	items, err := lru.New(size)
	if err != nil {
		return nil, fmt.Errorf("creating lru cache: %w", err)
	}

	return &LRU{items: items, now: time.Now}, nil
}

func (c *LRU) Get(_ context.Context, key string) ([]byte, error) {
	raw, ok := c.items.Get(key)
	if !ok {
		return nil, domain.NewNotFoundError("cache entry", key)
	}

	e, ok := raw.(entry)
	if !ok || e.expired(c.now()) {
		c.items.Remove(key)
		return nil, domain.NewNotFoundError("cache entry", key)
	}

	return e.value, nil
}

func (c *LRU) Set(_ context.Context, key string, value []byte, ttlSeconds int) error {
	e := entry{value: value}
	if ttlSeconds > 0 {
		e.expiresAt = c.now().Add(time.Duration(ttlSeconds) * time.Second)
	}

	c.items.Add(key, e)

	return nil
}

func (c *LRU) Delete(_ context.Context, key string) error {
	c.items.Remove(key)
	return nil
}

// Len returns the number of entries, expired ones included.
func (c *LRU) Len() int {
	return c.items.Len()
}
