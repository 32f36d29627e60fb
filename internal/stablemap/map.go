package stablemap

import (
	"context"
	"errors"
	"fmt"

	"github.com/roach88/userstore/internal/codec"
)

// Map is a typed ordered map stored in one partition of an Engine.
// Iteration order is the byte order of encoded keys.
type Map[K, V any] struct {
	engine Engine
	mem    MemoryID
	keys   codec.Codec[K]
	values codec.Codec[V]
}

// NewMap binds a typed map to partition mem of engine.
func NewMap[K, V any](engine Engine, mem MemoryID, keys codec.Codec[K], values codec.Codec[V]) *Map[K, V] {
	return &Map[K, V]{engine: engine, mem: mem, keys: keys, values: values}
}

// Get returns the value stored under key.
// A missing key returns the zero value and false.
func (m *Map[K, V]) Get(ctx context.Context, key K) (V, bool, error) {
	var zero V

	k, err := m.keys.Encode(key)
	if err != nil {
		return zero, false, err
	}

	raw, ok, err := m.engine.Get(ctx, m.mem, k)
	if err != nil || !ok {
		return zero, false, err
	}

	v, err := m.values.Decode(raw)
	if err != nil {
		return zero, false, fmt.Errorf("memory %d: %w", m.mem, err)
	}
	return v, true, nil
}

// Contains reports whether key is present.
func (m *Map[K, V]) Contains(ctx context.Context, key K) (bool, error) {
	k, err := m.keys.Encode(key)
	if err != nil {
		return false, err
	}
	_, ok, err := m.engine.Get(ctx, m.mem, k)
	return ok, err
}

// Insert stores value under key, replacing any previous value.
func (m *Map[K, V]) Insert(ctx context.Context, key K, value V) error {
	k, err := m.keys.Encode(key)
	if err != nil {
		return err
	}
	v, err := m.values.Encode(value)
	if err != nil {
		return err
	}
	return m.engine.Set(ctx, m.mem, k, v)
}

// Remove deletes key. Removing a missing key is not an error.
func (m *Map[K, V]) Remove(ctx context.Context, key K) error {
	k, err := m.keys.Encode(key)
	if err != nil {
		return err
	}
	return m.engine.Delete(ctx, m.mem, k)
}

// Len returns the number of entries.
func (m *Map[K, V]) Len(ctx context.Context) (int, error) {
	return m.engine.Len(ctx, m.mem)
}

// Iter calls fn for each entry in ascending key order.
// Iteration stops early when fn returns false.
func (m *Map[K, V]) Iter(ctx context.Context, fn func(key K, value V) bool) error {
	err := m.engine.Ascend(ctx, m.mem, func(rawKey, rawValue []byte) error {
		k, err := m.keys.Decode(rawKey)
		if err != nil {
			return fmt.Errorf("memory %d: key: %w", m.mem, err)
		}
		v, err := m.values.Decode(rawValue)
		if err != nil {
			return fmt.Errorf("memory %d: value: %w", m.mem, err)
		}
		if !fn(k, v) {
			return errStop
		}
		return nil
	})
	if errors.Is(err, errStop) {
		return nil
	}
	return err
}
