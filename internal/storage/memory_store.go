package storage

import (
	"sync"
	"time"
)

type memoryItem struct {
	value  string
	expiry time.Time
}

// memoryStore keeps items in process memory; useful for one-shot runs and tests.
type memoryStore struct {
	mu     sync.Mutex
	items  map[string]memoryItem
	ttl    time.Duration
	closed bool
	now    func() time.Time
}

func newMemoryStore(opts Options) *memoryStore {
	return &memoryStore{
		items: make(map[string]memoryItem),
		ttl:   opts.ItemTTL,
		now:   time.Now,
	}
}

func (m *memoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.items = nil
	return nil
}

func (m *memoryStore) GetItem(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return "", false, ErrClosed
	}

	item, ok := m.items[key]
	if !ok {
		return "", false, nil
	}
	if !item.expiry.After(m.now()) {
		delete(m.items, key)
		return "", false, nil
	}
	return item.value, true, nil
}

func (m *memoryStore) SetItem(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	m.items[key] = memoryItem{value: value, expiry: m.now().Add(m.ttl)}
	return nil
}

func (m *memoryStore) RemoveItem(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	delete(m.items, key)
	return nil
}
