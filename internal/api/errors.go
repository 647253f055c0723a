package api

import "fmt"

// StatusError is a non-2xx response. Error returns only the detail, which
// is what the user sees.
type StatusError struct {
	Op         string
	StatusCode int
	Detail     string
}

func (e *StatusError) Error() string { return e.Detail }

// TransportError means no response was received.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string { return e.Err.Error() }
func (e *TransportError) Unwrap() error { return e.Err }

// ProtocolError is a 2xx response whose body could not be decoded.
type ProtocolError struct {
	Op  string
	Err error
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("invalid response from server: %v", e.Err)
}
func (e *ProtocolError) Unwrap() error { return e.Err }
