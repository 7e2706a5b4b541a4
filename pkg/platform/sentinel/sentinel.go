package sentinel

import "errors"

// Store-level facts. Account, revocation and document stores return these
// (optionally wrapped with fmt.Errorf %w) and services translate them into
// domain errors:
//   - ErrNotFound: no record for the key
//   - ErrConflict: a uniqueness rule or version check rejected the write
//   - ErrInvalidState: the record is in the wrong state for the operation
//   - ErrUnavailable: the backing service could not be reached in time
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInvalidState = errors.New("invalid state")
	ErrUnavailable  = errors.New("unavailable")
)
