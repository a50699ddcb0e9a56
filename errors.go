package clueaccess

import (
	"errors"
	"fmt"
)

// ConnectionError reports a failure to reach or authenticate against the
// database. Addr carries host, port and database name only; credentials
// never appear in the message.
type ConnectionError struct {
	Stage string // "open", "ping" or "orm"
	Addr  string
	Err   error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connect %s: %s: %v", e.Addr, e.Stage, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// IsConnectionError reports whether err is a *ConnectionError, unwrapping
// as needed.
func IsConnectionError(err error) bool {
	var ce *ConnectionError
	return errors.As(err, &ce)
}
