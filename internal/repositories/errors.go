package repositories

import "errors"

var (
	// ErrNotFound is wrapped by every lookup that matches no row.
	ErrNotFound = errors.New("record not found")
	// ErrStatusConflict means a conditional status update matched no row in the expected state.
	ErrStatusConflict = errors.New("order is not in the expected status")
)
