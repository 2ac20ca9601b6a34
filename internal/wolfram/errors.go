package wolfram

import "fmt"

// TransportError reports a failed upstream call: network failure, non-2xx
// status, undecodable XML, or a result flagged as an error.
type TransportError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("wolfram %s (status %d): %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("wolfram %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
