// Package sentinel holds the storage-level error facts shared by every store.
//
// Stores return these, wrapped or not, and services decide what they mean for
// the caller: a missing transaction becomes 404, a reading saved twice for the
// same checkout is re-read rather than reported. Input validation never uses
// these; it goes through pkg/domain-errors.
package sentinel

import "errors"

var (
	// ErrNotFound: no row or object under the requested key.
	ErrNotFound = errors.New("not found")
	// ErrConflict: a unique key is already taken.
	ErrConflict = errors.New("conflict")
	// ErrInvalidState: the record exists but cannot move to the requested state.
	ErrInvalidState = errors.New("invalid state")
)
