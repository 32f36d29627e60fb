package stablemap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// MemoryID identifies one partition of an engine.
type MemoryID uint8

// Engine kinds accepted by Open.
const (
	KindSQLite = "sqlite"
	KindPebble = "pebble"
	KindMemory = "memory"
)

// Kinds lists the engine kinds accepted by Open.
var Kinds = []string{KindSQLite, KindPebble, KindMemory}

// ErrUnknownEngine is returned by Open for an unrecognised kind.
var ErrUnknownEngine = errors.New("stablemap: unknown engine")

// errStop ends an Ascend early without reporting an error.
var errStop = errors.New("stablemap: stop iteration")

// Engine is an ordered byte-keyed store partitioned by MemoryID.
//
// Slices passed to the Ascend callback are only valid for the duration of
// the call, and the callback must not call back into the engine. Slices
// returned by Get are owned by the caller.
type Engine interface {
	Get(ctx context.Context, mem MemoryID, key []byte) (value []byte, ok bool, err error)
	Set(ctx context.Context, mem MemoryID, key, value []byte) error
	Delete(ctx context.Context, mem MemoryID, key []byte) error
	Ascend(ctx context.Context, mem MemoryID, fn func(key, value []byte) error) error
	Len(ctx context.Context, mem MemoryID) (int, error)
	Close() error
}

// Open opens an engine of the given kind. path is ignored for the memory
// engine. logger receives engine diagnostics and may be nil.
func Open(kind, path string, logger *slog.Logger) (Engine, error) {
	switch kind {
	case KindSQLite:
		return OpenSQLite(path)
	case KindPebble:
		return OpenPebble(path, logger)
	case KindMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("%w %q: must be one of %v", ErrUnknownEngine, kind, Kinds)
	}
}
