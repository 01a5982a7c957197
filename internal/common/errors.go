// Package common defines sentinel errors shared by the store, importer and
// CLI layers of mustardseed. Callers should use errors.Is to match these
// values; concrete errors wrap them with fmt.Errorf("...: %w", ...).
package common

import "errors"

var (
	// ErrValidation is returned when an entry has an empty field after trimming
	// or a field that is not valid UTF-8.
	ErrValidation = errors.New("validation error")

	// ErrNotFound is returned when a delete targets a key or view index
	// that does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a rename would collide with another
	// entry's website and username.
	ErrConflict = errors.New("conflict")

	// ErrDecode marks a persisted blob that is present but cannot be decoded
	// as a list of entries.
	ErrDecode = errors.New("decode error")

	// ErrIO marks failures of the blob store or of the import row source.
	ErrIO = errors.New("i/o error")
)
