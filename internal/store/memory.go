package store

import (
	"sync"
	"time"
)

// Memory is an in-memory store for testing.
type Memory struct {
	mu      sync.RWMutex
	entries []Entry
}

// NewMemory creates a new in-memory store.
func NewMemory() *Memory {
	return &Memory{}
}

// Record appends an evaluation.
func (m *Memory) Record(e Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e.ID = int64(len(m.entries) + 1)
	e.Ts = time.Now().UTC().Format(time.RFC3339Nano)
	m.entries = append(m.entries, e)
	return nil
}

// Lookup returns the newest entry for digest evaluated by engine.
func (m *Memory) Lookup(digest uint64, engine string) (*Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for i := len(m.entries) - 1; i >= 0; i-- {
		if e := m.entries[i]; e.Digest == digest && e.Engine == engine {
			return &e, nil
		}
	}
	return nil, nil
}

// History returns up to limit entries, newest first.
func (m *Memory) History(limit int) ([]Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := len(m.entries)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]Entry, 0, n)
	for i := len(m.entries) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, m.entries[i])
	}
	return out, nil
}

// Close is a no-op for memory store.
func (m *Memory) Close() error {
	return nil
}
