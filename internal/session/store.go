// Package session owns the signed-in principal and its persisted record.
//
// Manager is the only writer. Every change to the principal is written to the
// Store before it becomes visible in memory, so a crash never leaves the two
// disagreeing.
package session

import (
	"context"
	"errors"
	"sync"
)

// ErrNoRecord is returned by Store.Load when nothing has been saved
var ErrNoRecord = errors.New("no session record")

// Store persists the serialized session record
type Store interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, record []byte) error
	Clear(ctx context.Context) error
}

// MemoryStore keeps the record in process memory
type MemoryStore struct {
	mu     sync.Mutex
	record []byte
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Load(_ context.Context) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.record == nil {
		return nil, ErrNoRecord
	}
	return append([]byte(nil), s.record...), nil
}

func (s *MemoryStore) Save(_ context.Context, record []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record = append([]byte(nil), record...)
	return nil
}

func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record = nil
	return nil
}
