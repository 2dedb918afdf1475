package api

import (
	"errors"
	"fmt"
)

// StatusError is a rejected write: the collaborator answered, but with a
// non-success status. Transport failures are returned as plain wrapped
// errors, so callers can tell the two apart with errors.As.
type StatusError struct {
	Op      string
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: status %d: %s", e.Op, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: status %d", e.Op, e.Code)
}

// IsRejected reports whether err is a collaborator rejection rather than
// a transport failure.
func IsRejected(err error) bool {
	var se *StatusError
	return errors.As(err, &se)
}
