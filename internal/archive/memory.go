package archive

import (
	"context"
	"sync"
)

// MemoryIndex is an in-process Index for local runs and tests.
type MemoryIndex struct {
	mu      sync.RWMutex
	records map[string]Record
	order   []string // oldest first
}

// NewMemoryIndex creates an empty MemoryIndex.
func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{records: make(map[string]Record)}
}

func (m *MemoryIndex) Put(_ context.Context, r Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[r.ID]; !ok {
		m.order = append(m.order, r.ID)
	}
	m.records[r.ID] = r
	return nil
}

func (m *MemoryIndex) Get(_ context.Context, id string) (Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.records[id]
	if !ok {
		return Record{}, ErrNotFound
	}
	return r, nil
}

func (m *MemoryIndex) List(_ context.Context, f Filter) ([]Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	limit := f.limit()
	out := []Record{}
	for i := len(m.order) - 1; i >= 0 && len(out) < limit; i-- {
		r := m.records[m.order[i]]
		if f.ScenarioID != "" && r.ScenarioID != f.ScenarioID {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (m *MemoryIndex) Ping(context.Context) error { return nil }
