// internal/storage/memory.go
package storage

import (
	"context"
	"sort"
	"sync"

	"github.com/Bets-Dmytro/Lab3-IoT/internal/data"
)

// MemoryStore keeps rows in a map. It backs the service when no database is
// configured and the handler tests.
type MemoryStore struct {
	mu     sync.RWMutex
	rows   map[int64]data.StoredAgentData
	nextID int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		rows:   make(map[int64]data.StoredAgentData),
		nextID: 1,
	}
}

func (s *MemoryStore) InsertBatch(_ context.Context, records []data.ProcessedAgentData) ([]data.StoredAgentData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	inserted := make([]data.StoredAgentData, 0, len(records))
	for _, record := range records {
		row := record.Row()
		row.ID = s.nextID
		s.nextID++
		s.rows[row.ID] = row
		inserted = append(inserted, row)
	}
	return inserted, nil
}

func (s *MemoryStore) Get(_ context.Context, id int64) (*data.StoredAgentData, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row, ok := s.rows[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &row, nil
}

func (s *MemoryStore) List(_ context.Context) ([]data.StoredAgentData, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := make([]data.StoredAgentData, 0, len(s.rows))
	for _, row := range s.rows {
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })
	return rows, nil
}

func (s *MemoryStore) Update(_ context.Context, id int64, record data.ProcessedAgentData) (*data.StoredAgentData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.rows[id]; !ok {
		return nil, ErrNotFound
	}
	row := record.Row()
	row.ID = id
	s.rows[id] = row
	return &row, nil
}

func (s *MemoryStore) Delete(_ context.Context, id int64) (*data.StoredAgentData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.rows[id]
	if !ok {
		return nil, ErrNotFound
	}
	delete(s.rows, id)
	return &row, nil
}
