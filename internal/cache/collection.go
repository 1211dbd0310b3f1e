// Package cache keeps an in-memory copy of an entity list that is only ever
// changed by merging rows the store has already accepted.
package cache

import (
	"context"
	"slices"
	"sync"

	"golang.org/x/sync/singleflight"
)

// FetchFunc loads the full list from the store.
type FetchFunc[T any] func(ctx context.Context) ([]T, error)

// Collection is a write-through cache of one entity list.
//
// The list is fetched lazily on first read. Mutations are applied by the
// caller after the store call succeeds, using the canonical row the store
// returned; a failed store call therefore never touches the cache. Mutations
// made before the first load are dropped, since that load will see them.
type Collection[T any] struct {
	mu     sync.RWMutex
	items  []T
	loaded bool

	key   func(T) string
	fetch FetchFunc[T]
	group singleflight.Group
}

// New creates a collection keyed by key and filled by fetch.
func New[T any](key func(T) string, fetch FetchFunc[T]) *Collection[T] {
	return &Collection[T]{key: key, fetch: fetch}
}

// Items returns a copy of the cached list, loading it on first use.
func (c *Collection[T]) Items(ctx context.Context) ([]T, error) {
	c.mu.RLock()
	if c.loaded {
		out := slices.Clone(c.items)
		c.mu.RUnlock()
		return out, nil
	}
	c.mu.RUnlock()

	return c.Refresh(ctx)
}

// Refresh reloads the list from the store. On error the previous list is
// kept and the error returned. Concurrent refreshes share one fetch.
func (c *Collection[T]) Refresh(ctx context.Context) ([]T, error) {
	v, err, _ := c.group.Do("refresh", func() (interface{}, error) {
		items, err := c.fetch(ctx)
		if err != nil {
			return nil, err
		}
		if items == nil {
			items = []T{}
		}

		c.mu.Lock()
		c.items = items
		c.loaded = true
		c.mu.Unlock()
		return items, nil
	})
	if err != nil {
		return nil, err
	}
	return slices.Clone(v.([]T)), nil
}

// Loaded reports whether the list has been fetched.
func (c *Collection[T]) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}

// Prepend inserts a newly created row at the front.
func (c *Collection[T]) Prepend(item T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.loaded {
		return
	}
	c.items = slices.Insert(c.items, 0, item)
}

// Upsert replaces the row with the same key in place, or prepends it.
func (c *Collection[T]) Upsert(item T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.loaded {
		return
	}
	id := c.key(item)
	if i := slices.IndexFunc(c.items, func(x T) bool { return c.key(x) == id }); i >= 0 {
		c.items[i] = item
		return
	}
	c.items = slices.Insert(c.items, 0, item)
}

// Remove drops the row with key id.
func (c *Collection[T]) Remove(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.loaded {
		return
	}
	c.items = slices.DeleteFunc(c.items, func(x T) bool { return c.key(x) == id })
}

// Invalidate forgets the list so the next read fetches it again.
func (c *Collection[T]) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = nil
	c.loaded = false
}
