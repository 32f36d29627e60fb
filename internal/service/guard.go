package service

import (
	"errors"
	"fmt"

	"github.com/roach88/userstore/internal/principal"
)

// ErrAnonymousCaller is returned when a call requires an authenticated caller.
var ErrAnonymousCaller = errors.New("anonymous caller not allowed")

// CallerIsNotAnonymous rejects the anonymous principal.
func CallerIsNotAnonymous(caller principal.Principal) error {
	if caller.IsAnonymous() {
		return ErrAnonymousCaller
	}
	return nil
}

func wrap(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}
