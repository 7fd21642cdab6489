package apperrors

import "fmt"

// Remote carries a backend error response. Detail is the server's
// human-readable message and is surfaced verbatim when present.
type Remote struct {
	Status int
	Detail string
}

func (e *Remote) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("request failed with status %d", e.Status)
}
