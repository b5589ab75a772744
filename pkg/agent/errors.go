package agent

import (
	"errors"
	"fmt"
)

// Port failure taxonomy. Every node except finalize_summary absorbs these,
// logs them and emits an empty update; finalize propagates.
var (
	ErrModelUnavailable = errors.New("model unavailable")
	ErrModelTimeout     = errors.New("model timeout")
	ErrSearchFailure    = errors.New("web search failed")
	ErrRetrievalFailure = errors.New("vector retrieval failed")
)

// MalformedOutputError reports that a structured completion did not parse.
type MalformedOutputError struct {
	Raw string
	Err error
}

func (e *MalformedOutputError) Error() string {
	return fmt.Sprintf("malformed model output: %v (content: %s)", e.Err, e.Raw)
}

func (e *MalformedOutputError) Unwrap() error { return e.Err }
