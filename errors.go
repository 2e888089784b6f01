package pir

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument reports malformed serialized input, a payload exceeding
// the plaintext capacity, or an empty/oversized vector. Matched with errors.Is.
var ErrInvalidArgument = errors.New("pir: invalid argument")

// ErrBackend reports a fault raised by the homomorphic backend during an
// otherwise well-formed operation. The backend's message is preserved in the
// error string.
var ErrBackend = errors.New("pir: backend fault")

func invalidf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{ErrInvalidArgument}, args...)...)
}

// guard converts a backend panic into a returned error, so that no fault
// crosses the package boundary unmanaged. Used as `defer guard(&err)` in every
// operation that calls into the backend.
func guard(err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("%w: %v", ErrBackend, r)
	}
}
