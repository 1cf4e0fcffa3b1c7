package art

import "errors"

// Error taxonomy for the tree. All surfaced errors satisfy errors.Is
// against one of these sentinels, following the wrap-and-compare idiom
// (see DESIGN.md: grounded on scigolib-hdf5/internal/utils/errors.go,
// not the teacher, whose errors are ad hoc strings).
var (
	// ErrKeyNotFound is returned by lookups for absent keys.
	ErrKeyNotFound = errors.New("art: key not found")
	// ErrKeyExists is returned by Add when the key is already present.
	ErrKeyExists = errors.New("art: key already exists")
	// ErrEmptyKey is returned by mutating operations and point lookup
	// when the encoded (pre-escape) key has zero length.
	ErrEmptyKey = errors.New("art: key must not be empty")
	// ErrFormatError indicates structurally invalid data encountered
	// while un-escaping a key or inferring the free map on reload.
	ErrFormatError = errors.New("art: format error")
	// ErrPatternError indicates a malformed regex/wildcard pattern.
	ErrPatternError = errors.New("art: pattern error")
)
