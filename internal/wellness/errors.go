package wellness

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when the backend answers 404.
var ErrNotFound = errors.New("not found")

// NetworkError wraps any failed backend call. Status is zero when no response arrived.
type NetworkError struct {
	Op     string
	Status int
	Detail string
	Err    error
}

func (e *NetworkError) Error() string {
	switch {
	case e.Status != 0 && e.Detail != "":
		return fmt.Sprintf("%s: API error %d: %s", e.Op, e.Status, e.Detail)
	case e.Status != 0:
		return fmt.Sprintf("%s: API error %d", e.Op, e.Status)
	default:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// IsNetworkError reports whether err came from a failed backend call.
func IsNetworkError(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}
