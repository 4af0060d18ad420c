package lister

import "sync"

// Store is the key/value persistence contract the lister remembers limit and
// sort preferences through. Implementations degrade to a false return on any
// failure (unavailable backend, quota) and never panic or error; callers that
// care about persistence must check the flag.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string) bool
	Remove(key string) bool
}

// MemoryStore is an in-memory Store, mostly useful for tests and for hosts
// that do not need persistence across restarts. Safe for concurrent use.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]string
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string]string)}
}

func (m *MemoryStore) Get(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.items[key]
	return value, ok
}

func (m *MemoryStore) Set(key, value string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = value
	return true
}

func (m *MemoryStore) Remove(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, key)
	return true
}
