package store

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// Memory is an in-process Store used by tests and by deployments that do
// not configure a database.
type Memory struct {
	mu       sync.RWMutex
	datasets map[uuid.UUID]*Dataset
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{datasets: make(map[uuid.UUID]*Dataset)}
}

func (m *Memory) Save(ctx context.Context, d *Dataset) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *d
	m.datasets[d.ID] = &cp
	return nil
}

func (m *Memory) Get(ctx context.Context, id uuid.UUID) (*Dataset, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.datasets[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (m *Memory) List(ctx context.Context) ([]Info, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	infos := make([]Info, 0, len(m.datasets))
	for _, d := range m.datasets {
		infos = append(infos, Info{
			ID:        d.ID,
			Name:      d.Name,
			Source:    d.Source,
			RowCount:  d.Table.Len(),
			CreatedAt: d.CreatedAt,
		})
	}
	sort.Slice(infos, func(i, j int) bool {
		if !infos[i].CreatedAt.Equal(infos[j].CreatedAt) {
			return infos[i].CreatedAt.After(infos[j].CreatedAt)
		}
		return infos[i].Name < infos[j].Name
	})
	return infos, nil
}

func (m *Memory) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.datasets[id]; !ok {
		return ErrNotFound
	}
	delete(m.datasets, id)
	return nil
}
