// SPDX-License-Identifier: Unlicense OR MIT

package canvas

import "github.com/alexdremov/notate-sub003/model"

// Sentinel errors for user actions that can fail, per spec.md §7.
// Aliased from package model, which owns the checks that produce them,
// so a consumer of this package's facade never needs to import model
// directly to compare errors.
var (
	ErrOutOfWorld              = model.ErrOutOfWorld
	ErrInvalidBounds           = model.ErrInvalidBounds
	ErrSnapshotVersionMismatch = model.ErrSnapshotVersionMismatch
)

// FatalError reports an engineering-contract violation — unbalanced
// batches, use-after-destroy, observer re-entrancy — raised with panic,
// never returned, per spec.md §7.
type FatalError = model.FatalError
