// Package session defines the persisted learning-session document and the
// stores that hold it.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"tutor/internal/level"
	"tutor/internal/mastery"
)

var ErrNotFound = errors.New("session not found")

// Session is the durable state of one learning session.
type Session struct {
	ID            string               `json:"id"`
	Subject       string               `json:"subject"`
	Level         level.Track          `json:"level"`
	Performance   *mastery.Performance `json:"performance"`
	TotalCorrect  int                  `json:"total_correct"`
	TotalAttempts int                  `json:"total_attempts"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
}

// Store persists session documents.
type Store interface {
	Create(ctx context.Context, s *Session) error
	// Get returns ErrNotFound for an unknown id.
	Get(ctx context.Context, id string) (*Session, error)
	Update(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
	Close() error
}

// MemoryStore keeps sessions in process memory.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string][]byte)}
}

// Sessions are stored encoded so callers never share maps with the store.
func (m *MemoryStore) Create(ctx context.Context, s *Session) error {
	return m.put(s, false)
}

func (m *MemoryStore) Update(ctx context.Context, s *Session) error {
	return m.put(s, true)
}

func (m *MemoryStore) put(s *Session, mustExist bool) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	_, exists := m.sessions[s.ID]
	if mustExist && !exists {
		return ErrNotFound
	}
	if !mustExist && exists {
		return errors.New("session already exists")
	}
	m.sessions[s.ID] = data
	return nil
}

func (m *MemoryStore) Get(ctx context.Context, id string) (*Session, error) {
	m.mu.RLock()
	data, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

func (m *MemoryStore) Close() error { return nil }
