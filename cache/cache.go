// Package cache provides the key-value store backing the folder index.
package cache

// Cache is a string-keyed key-value store.
// Set overwrites an existing key and Remove ignores a missing key.
type Cache[V any] interface {
	Get(key string) (value V, found bool)
	Set(key string, value V)
	Remove(key string)
}

// Memory is an in-process Cache backed by a map.
// It is not safe for concurrent use.
type Memory[V any] struct {
	entries map[string]V
}

var _ Cache[int] = (*Memory[int])(nil)

// NewMemory creates an empty Memory cache.
func NewMemory[V any]() *Memory[V] {
	return &Memory[V]{entries: map[string]V{}}
}

func (c *Memory[V]) Get(key string) (value V, found bool) {
	value, found = c.entries[key]
	return value, found
}

func (c *Memory[V]) Set(key string, value V) {
	c.entries[key] = value
}

func (c *Memory[V]) Remove(key string) {
	delete(c.entries, key)
}

// Len returns the number of keys held.
func (c *Memory[V]) Len() int {
	return len(c.entries)
}
