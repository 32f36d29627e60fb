// Package service implements the store's call surface: fetching, appending,
// listing and renaming user records on behalf of a caller.
//
// Missing users and empty pages are ordinary results, not errors. Errors
// are returned only for anonymous callers (ErrAnonymousCaller) and for
// storage failures, including corrupt stored bytes (codec.ErrCorrupt) and
// text that cannot be stored without loss (codec.ErrInvalidUTF8). Records
// are stored exactly as given.
package service

import (
	"context"
	"log/slog"

	"github.com/roach88/userstore/internal/principal"
	"github.com/roach88/userstore/internal/state"
	"github.com/roach88/userstore/internal/user"
)

// Status messages returned by mutating calls.
const (
	StatusUserAdded       = "user data added successfully"
	StatusUsernameUpdated = "Username updated successfully"
	StatusUserNotFound    = "User not found."
)

// Service runs calls against a state holder.
type Service struct {
	state  *state.Holder
	logger *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// New creates a Service over h.
func New(h *state.Holder, opts ...Option) *Service {
	s := &Service{state: h, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetUserData returns the caller's records, or an empty slice if none exist.
func (s *Service) GetUserData(ctx context.Context, caller principal.Principal) ([]user.Record, error) {
	if err := CallerIsNotAnonymous(caller); err != nil {
		return nil, err
	}

	var records []user.Record
	err := s.state.Read(func(st *state.State) error {
		var err error
		records, _, err = st.Users.Get(ctx, caller)
		return err
	})
	if err != nil {
		return nil, wrap("get user data", err)
	}

	if records == nil {
		records = []user.Record{}
	}
	s.logger.Debug("get user data", "caller", caller, "records", len(records))
	return records, nil
}

// AddUserData appends rec to the caller's records, creating them if absent.
func (s *Service) AddUserData(ctx context.Context, caller principal.Principal, rec user.Record) (string, error) {
	if err := CallerIsNotAnonymous(caller); err != nil {
		return "", err
	}

	var count int
	err := s.state.Mutate(func(st *state.State) error {
		records, _, err := st.Users.Get(ctx, caller)
		if err != nil {
			return err
		}
		records = append(records, rec)
		count = len(records)
		return st.Users.Insert(ctx, caller, records)
	})
	if err != nil {
		return "", wrap("add user data", err)
	}

	s.logger.Debug("added user data", "caller", caller, "records", count)
	return StatusUserAdded, nil
}

// ListAllUsers returns one page of every owner's record sequence, in owner
// key order, together with the total number of owners.
func (s *Service) ListAllUsers(ctx context.Context, caller principal.Principal, params user.PaginationParams) (user.PaginationResponse[[]user.Record], error) {
	if err := CallerIsNotAnonymous(caller); err != nil {
		return user.PaginationResponse[[]user.Record]{}, err
	}

	var all [][]user.Record
	err := s.state.Read(func(st *state.State) error {
		return st.Users.Iter(ctx, func(_ principal.Principal, records []user.Record) bool {
			if records == nil {
				records = []user.Record{}
			}
			all = append(all, records)
			return true
		})
	})
	if err != nil {
		return user.PaginationResponse[[]user.Record]{}, wrap("list all users", err)
	}

	resp := user.Paginate(all, params)
	s.logger.Debug("listed users", "caller", caller,
		"page", params.Page, "page_size", params.PageSize,
		"items", len(resp.Items), "total", resp.TotalItems)
	return resp, nil
}

// SetUsername sets the name on every record of the caller.
// Returns StatusUserNotFound when the caller has no records.
// Unlike the other calls it accepts the anonymous caller.
func (s *Service) SetUsername(ctx context.Context, caller principal.Principal, name string) (string, error) {
	status := StatusUserNotFound
	err := s.state.Mutate(func(st *state.State) error {
		records, _, err := st.Users.Get(ctx, caller)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			return nil
		}
		for i := range records {
			records[i].SetUsername(name)
		}
		status = StatusUsernameUpdated
		return st.Users.Insert(ctx, caller, records)
	})
	if err != nil {
		return "", wrap("set username", err)
	}

	s.logger.Debug("set username", "caller", caller, "status", status)
	return status, nil
}
