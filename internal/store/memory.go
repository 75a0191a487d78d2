package store

import (
	"context"
	"slices"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// Memory is an in-process Store.
type Memory struct {
	mu     sync.RWMutex
	values map[string]string
	rounds []Round
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{values: make(map[string]string)}
}

func (m *Memory) Get(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.values[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.values[key] = value
	return nil
}

func (m *Memory) RecordRound(_ context.Context, r Round) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	r.Answers = slices.Clone(r.Answers)
	r.Found = slices.Clone(r.Found)

	m.mu.Lock()
	defer m.mu.Unlock()

	m.rounds = append(m.rounds, r)
	return nil
}

func (m *Memory) RecentRounds(_ context.Context, limit int) ([]Round, error) {
	m.mu.RLock()
	out := slices.Clone(m.rounds)
	m.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartedAt.After(out[j].StartedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *Memory) Close() error { return nil }
