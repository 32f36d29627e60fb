package stablemap

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cockroachdb/pebble"
)

// Pebble is an Engine backed by a pebble database directory.
//
// Key layout: [memory id:1][key]. Each partition is a contiguous key range,
// so iteration uses bounded iterators instead of filtering.
type Pebble struct {
	db *pebble.DB
}

// OpenPebble creates or opens a pebble database in dir.
// Pebble's own log output goes to logger, or slog.Default() when nil.
func OpenPebble(dir string, logger *slog.Logger) (*Pebble, error) {
	db, err := pebble.Open(dir, &pebble.Options{Logger: newPebbleLogger(logger)})
	if err != nil {
		return nil, fmt.Errorf("failed to open pebble: %w", err)
	}
	return &Pebble{db: db}, nil
}

// Close flushes and closes the database.
func (p *Pebble) Close() error {
	return p.db.Close()
}

// Get implements Engine.
func (p *Pebble) Get(_ context.Context, mem MemoryID, key []byte) ([]byte, bool, error) {
	val, closer, err := p.db.Get(prefixed(mem, key))
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get entry: %w", err)
	}
	defer closer.Close()

	return bytes.Clone(val), true, nil
}

// Set implements Engine.
func (p *Pebble) Set(_ context.Context, mem MemoryID, key, value []byte) error {
	if err := p.db.Set(prefixed(mem, key), value, pebble.Sync); err != nil {
		return fmt.Errorf("set entry: %w", err)
	}
	return nil
}

// Delete implements Engine.
func (p *Pebble) Delete(_ context.Context, mem MemoryID, key []byte) error {
	if err := p.db.Delete(prefixed(mem, key), pebble.Sync); err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	return nil
}

// Ascend implements Engine.
func (p *Pebble) Ascend(ctx context.Context, mem MemoryID, fn func(key, value []byte) error) error {
	iter, err := p.db.NewIter(partitionBounds(mem))
	if err != nil {
		return fmt.Errorf("new iterator: %w", err)
	}
	defer iter.Close()

	for iter.First(); iter.Valid(); iter.Next() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(iter.Key()[1:], iter.Value()); err != nil {
			return err
		}
	}
	if err := iter.Error(); err != nil {
		return fmt.Errorf("iterate entries: %w", err)
	}
	return nil
}

// Len implements Engine.
func (p *Pebble) Len(ctx context.Context, mem MemoryID) (int, error) {
	count := 0
	err := p.Ascend(ctx, mem, func(_, _ []byte) error {
		count++
		return nil
	})
	return count, err
}

func prefixed(mem MemoryID, key []byte) []byte {
	buf := make([]byte, 1+len(key))
	buf[0] = byte(mem)
	copy(buf[1:], key)
	return buf
}

// partitionBounds covers every key whose first byte is mem.
func partitionBounds(mem MemoryID) *pebble.IterOptions {
	opts := &pebble.IterOptions{LowerBound: []byte{byte(mem)}}
	if mem < 0xFF {
		opts.UpperBound = []byte{byte(mem) + 1}
	}
	return opts
}
