package engine

import (
	"errors"
	"fmt"
)

// NotFoundError reports a handle that does not resolve to a live
// obligation. It is the only failure the read API can produce; rejection
// outcomes inside a cycle are domain events, never errors.
type NotFoundError struct {
	Handle Handle
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("obligation handle %d not found", e.Handle)
}

// IsNotFound reports whether err is a NotFoundError.
// Uses errors.As to handle wrapped errors.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
