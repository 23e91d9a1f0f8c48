// Package cache provides keyed, file-backed records persisted with gache.
package cache

import (
	"sync"
	"time"

	"github.com/keypoint-cli/keypoint/filesystem"
	"github.com/metafates/gache"
	"github.com/samber/mo"
)

type data[K comparable, V any] struct {
	Records map[K]V `json:"records"`
}

// Keyed is a map persisted as a single JSON file. Safe for concurrent use.
type Keyed[K comparable, V any] struct {
	internal *gache.Cache[*data[K, V]]
	mu       sync.RWMutex
}

// New opens the cache file at path. A zero lifetime never expires.
func New[K comparable, V any](path string, lifetime time.Duration) *Keyed[K, V] {
	return &Keyed[K, V]{
		internal: gache.New[*data[K, V]](&gache.Options{
			Path:       path,
			Lifetime:   lifetime,
			FileSystem: &filesystem.GacheFs{},
		}),
	}
}

func (c *Keyed[K, V]) load() (map[K]V, error) {
	d, expired, err := c.internal.Get()
	if err != nil {
		return nil, err
	}

	if expired || d == nil || d.Records == nil {
		return make(map[K]V), nil
	}
	return d.Records, nil
}

// Get returns the record stored under key.
func (c *Keyed[K, V]) Get(key K) mo.Option[V] {
	c.mu.RLock()
	defer c.mu.RUnlock()

	records, err := c.load()
	if err != nil {
		return mo.None[V]()
	}

	if v, ok := records[key]; ok {
		return mo.Some(v)
	}
	return mo.None[V]()
}

// All returns every record.
func (c *Keyed[K, V]) All() (map[K]V, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.load()
}

func (c *Keyed[K, V]) Set(key K, value V) error {
	return c.Update(func(records map[K]V) {
		records[key] = value
	})
}

func (c *Keyed[K, V]) Delete(key K) error {
	return c.Update(func(records map[K]V) {
		delete(records, key)
	})
}

// Update applies fn to the records and persists the result atomically with
// respect to other callers.
func (c *Keyed[K, V]) Update(fn func(records map[K]V)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	records, err := c.load()
	if err != nil {
		return err
	}

	fn(records)
	return c.internal.Set(&data[K, V]{Records: records})
}

// Clear removes every record.
func (c *Keyed[K, V]) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.internal.Set(&data[K, V]{Records: make(map[K]V)})
}
