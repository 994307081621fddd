package voice

import (
	"errors"
	"fmt"
)

// Error taxonomy for the synthesis pipeline. Every failure surfaced by the
// engine wraps exactly one of these sentinels so transports can map it to an
// external status with errors.Is, never collapsing distinct kinds into a
// generic failure.
var (
	// ErrValidation marks caller errors (missing or empty required input).
	ErrValidation = errors.New("invalid request")

	// ErrNotFound marks references to a voice sample that does not exist.
	ErrNotFound = errors.New("voice sample not found")

	// ErrStorage marks disk I/O failures in the sample store.
	ErrStorage = errors.New("sample storage failed")

	// ErrSynthesis marks local or multilingual backends failing to produce audio.
	ErrSynthesis = errors.New("synthesis failed")

	// ErrUpstream marks the remote delegate failing or returning an invalid
	// response, kept distinct from ErrSynthesis so callers can tell "our
	// synthesis failed" from "the delegate failed".
	ErrUpstream = errors.New("upstream synthesis service failed")
)

// BackendError annotates a backend failure with the identity of the backend
// that produced it.
func BackendError(kind error, backend string, err error) error {
	return fmt.Errorf("%w: backend %s: %w", kind, backend, err)
}
