// Package state holds the store's persistent maps and serializes access
// to them.
package state

import (
	"sync"

	"github.com/roach88/userstore/internal/codec"
	"github.com/roach88/userstore/internal/principal"
	"github.com/roach88/userstore/internal/stablemap"
	"github.com/roach88/userstore/internal/user"
)

// UserMapMemoryID is the engine partition holding user records.
const UserMapMemoryID stablemap.MemoryID = 0

// UserMap maps each owner to its ordered record sequence.
type UserMap = stablemap.Map[principal.Principal, []user.Record]

// State contains every map the store persists.
type State struct {
	Users *UserMap
}

// New binds the store's maps to their partitions of engine.
func New(engine stablemap.Engine) *State {
	return &State{
		Users: stablemap.NewMap(engine, UserMapMemoryID, codec.PrincipalKey{}, codec.JSON[[]user.Record]{}),
	}
}

// Holder owns a State and gives callers scoped access to it.
// Readers may run together; a mutation excludes everyone else.
type Holder struct {
	mu    sync.RWMutex
	state *State
}

// NewHolder wraps s.
func NewHolder(s *State) *Holder {
	return &Holder{state: s}
}

// Read runs fn with shared access to the state.
func (h *Holder) Read(fn func(*State) error) error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return fn(h.state)
}

// Mutate runs fn with exclusive access to the state.
func (h *Holder) Mutate(fn func(*State) error) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return fn(h.state)
}
