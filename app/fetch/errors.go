package fetch

import "fmt"

// TransportError covers network failures, timeouts and non-2xx upstream
// responses. Status is 0 when the request never produced a response.
type TransportError struct {
	Status  int
	Message string
}

func (e *TransportError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("upstream returned %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("transport error: %s", e.Message)
}

// ParseError covers malformed upstream payloads (XML, ICS, JSON shape).
type ParseError struct {
	Source string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse %s: %v", e.Source, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
