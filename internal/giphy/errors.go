package giphy

import (
	"fmt"
	"net/http"
)

// MappingError reports a raw item that lacks a field every Gif needs.
type MappingError struct {
	Index int
	ID    string
	Field string
}

func (e *MappingError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("item %d (%s): missing %s", e.Index, e.ID, e.Field)
	}
	return fmt.Sprintf("item %d: missing %s", e.Index, e.Field)
}

// NetworkError wraps transport failures and non-2xx responses.
type NetworkError struct {
	Op         string
	StatusCode int
	Msg        string
	Err        error
}

func (e *NetworkError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	case e.Msg != "":
		return fmt.Sprintf("%s: HTTP %d: %s", e.Op, e.StatusCode, e.Msg)
	default:
		return fmt.Sprintf("%s: HTTP %d", e.Op, e.StatusCode)
	}
}

func (e *NetworkError) Unwrap() error { return e.Err }

// Retryable reports whether repeating the same request may succeed.
func (e *NetworkError) Retryable() bool {
	if e.Err != nil {
		return true
	}
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}
