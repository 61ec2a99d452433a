package flate

import "errors"

// Sentinel errors, following the plain stdlib errors/fmt.Errorf("%w: ...")
// style used throughout the retrieved pack (no error-handling library
// appears anywhere in it). Names mirror spec.md §7's error taxonomy.
var (
	// ErrStreamError means the session driver was called in a state that
	// violates its own invariants (e.g. Write after Close, or Params
	// called with a level outside 0-9).
	ErrStreamError = errors.New("flate: inconsistent or inapplicable stream state")

	// ErrBufError means a WriteFlush call could make no progress: it
	// brought no new input and asked for a flush ranked no higher than the
	// previous call's (see rank).
	ErrBufError = errors.New("flate: internal buffer state error")

	// ErrDataError is reserved for the decode side (out of scope here);
	// kept as a sentinel because the trees subsystem interface spec.md
	// §6.2 names assumes its presence in the shared error taxonomy.
	ErrDataError = errors.New("flate: invalid data")
)
