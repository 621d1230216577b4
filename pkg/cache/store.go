package cache

import "sync"

// Store is a keyed store for process-wide state. The in-memory implementation is lost on restart; a durable
// implementation can be swapped in without touching callers.
type Store[K comparable, V any] interface {
	// Get returns the value stored for the key, if any.
	Get(key K) (V, bool)

	// Set stores the value for the key, replacing any existing value.
	Set(key K, value V)

	// Delete removes the key. Deleting a missing key is a no-op.
	Delete(key K)
}

// Memory is an in-memory Store safe for concurrent use.
type Memory[K comparable, V any] struct {
	mu    sync.RWMutex
	items map[K]V
}

// NewMemory creates an empty in-memory store.
func NewMemory[K comparable, V any]() *Memory[K, V] {
	return &Memory[K, V]{items: make(map[K]V)}
}

// Get returns the value stored for the key, if any.
func (m *Memory[K, V]) Get(key K) (V, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.items[key]
	return v, ok
}

// Set stores the value for the key.
func (m *Memory[K, V]) Set(key K, value V) {
	m.mu.Lock()
	m.items[key] = value
	m.mu.Unlock()
}

// Delete removes the key.
func (m *Memory[K, V]) Delete(key K) {
	m.mu.Lock()
	delete(m.items, key)
	m.mu.Unlock()
}

// Len returns the number of stored keys.
func (m *Memory[K, V]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}
