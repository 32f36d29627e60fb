package stablemap

import (
	"bytes"
	"context"
	"maps"
	"slices"
	"sync"
)

// Memory is an in-process Engine.
// It retains all data in memory and loses it on Close.
type Memory struct {
	mu   sync.RWMutex
	data map[MemoryID]map[string][]byte
}

// NewMemory creates an empty in-memory engine.
func NewMemory() *Memory {
	return &Memory{data: make(map[MemoryID]map[string][]byte)}
}

// Get implements Engine.
func (m *Memory) Get(_ context.Context, mem MemoryID, key []byte) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.data[mem][string(key)]
	if !ok {
		return nil, false, nil
	}
	return bytes.Clone(v), true, nil
}

// Set implements Engine.
func (m *Memory) Set(_ context.Context, mem MemoryID, key, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	part, ok := m.data[mem]
	if !ok {
		part = make(map[string][]byte)
		m.data[mem] = part
	}
	part[string(key)] = bytes.Clone(value)
	return nil
}

// Delete implements Engine.
func (m *Memory) Delete(_ context.Context, mem MemoryID, key []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.data[mem], string(key))
	return nil
}

// Ascend implements Engine.
func (m *Memory) Ascend(ctx context.Context, mem MemoryID, fn func(key, value []byte) error) error {
	m.mu.RLock()
	part := m.data[mem]
	keys := slices.Sorted(maps.Keys(part))
	values := make([][]byte, len(keys))
	for i, k := range keys {
		values[i] = part[k]
	}
	m.mu.RUnlock()

	for i, k := range keys {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn([]byte(k), values[i]); err != nil {
			return err
		}
	}
	return nil
}

// Len implements Engine.
func (m *Memory) Len(_ context.Context, mem MemoryID) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data[mem]), nil
}

// Close drops all data.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = make(map[MemoryID]map[string][]byte)
	return nil
}
