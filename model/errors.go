// SPDX-License-Identifier: Unlicense OR MIT

package model

import (
	"errors"
	"fmt"
)

// Reported errors — spec.md §7 "user actions that can fail".
var (
	// ErrOutOfWorld is returned by AddItem when bounds exceed WorldLimit.
	ErrOutOfWorld = errors.New("model: item bounds exceed world bounds")
	// ErrInvalidBounds is returned when bounds are non-finite or empty.
	ErrInvalidBounds = errors.New("model: item bounds are non-finite or empty")
	// ErrSnapshotVersionMismatch is returned by Apply for an
	// unrecognised snapshot format tag.
	ErrSnapshotVersionMismatch = errors.New("model: snapshot format tag not recognised")
)

// FatalError reports an engineering-contract violation — spec.md §7
// "engineering contracts that must not be broken": unbalanced batches,
// invariant violations, use-after-destroy, observer re-entrancy. These
// are always programming errors and are raised with panic, never
// returned.
type FatalError struct {
	Reason string
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("model: fatal: %s", e.Reason)
}

func fatalf(format string, args ...any) {
	panic(&FatalError{Reason: fmt.Sprintf(format, args...)})
}
