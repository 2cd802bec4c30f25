// Package cachestore provides concrete ports.CacheStore backends for the
// comparison cache facade.
package cachestore

import (
	"context"
	"sync"

	"github.com/TomokiIshimine/llm-qualitative-sort/internal/domain"
)

// MemoryStore is a sync.Map-backed, process-lifetime cache backend. It never
// returns an error.
type MemoryStore struct {
	data sync.Map
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Get implements ports.CacheStore.
func (m *MemoryStore) Get(_ context.Context, key string) (domain.ComparisonResult, bool, error) {
	v, ok := m.data.Load(key)
	if !ok {
		return domain.ComparisonResult{}, false, nil
	}
	return v.(domain.ComparisonResult), true, nil
}

// Put implements ports.CacheStore.
func (m *MemoryStore) Put(_ context.Context, key string, result domain.ComparisonResult) error {
	m.data.Store(key, result)
	return nil
}

// Len reports the number of distinct keys currently cached, mainly useful
// in tests asserting cache-hit behavior.
func (m *MemoryStore) Len() int {
	n := 0
	m.data.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}
