package keystore

import (
	"context"
	"sync"
)

// Memory is an in-memory Store used by tests and throwaway sessions.
type Memory struct {
	mu     sync.RWMutex
	values map[string]string

	// FailReads, when set, makes every GetString return this error.
	FailReads error
}

var _ Store = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{values: make(map[string]string)}
}

func (m *Memory) GetString(ctx context.Context, key string) (string, error) {
	if m.FailReads != nil {
		return "", m.FailReads
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.values[key], nil
}

func (m *Memory) Set(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *Memory) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

func (m *Memory) Close() error { return nil }
