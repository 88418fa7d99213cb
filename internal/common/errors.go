package common

import (
	"errors"
	"fmt"
)

// Error kinds reported by ErrorKind.
const (
	KindConnection = "connection"
	KindQuery      = "query"
	KindUnknown    = "unknown"
)

// ConfigError is returned for general configuration loading and validation errors.
type ConfigError struct {
	Op     string
	Reason string
	Err    error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("configuration error during '%s': %s", e.Op, e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// DatabaseConnectionError is returned when a connection to a database cannot be
// established or verified (network, DNS, authentication).
type DatabaseConnectionError struct {
	Database string
	Reason   string
	Err      error
}

func (e *DatabaseConnectionError) Error() string {
	return fmt.Sprintf("failed to connect to database '%s': %s", e.Database, e.Reason)
}

func (e *DatabaseConnectionError) Unwrap() error {
	return e.Err
}

// DatabaseOperationError is returned when a query fails after the connection
// was established.
type DatabaseOperationError struct {
	Database string
	Op       string
	Reason   string
	Err      error
}

func (e *DatabaseOperationError) Error() string {
	return fmt.Sprintf("database operation error on '%s' (%s): %s", e.Database, e.Op, e.Reason)
}

func (e *DatabaseOperationError) Unwrap() error {
	return e.Err
}

// FileIOError is returned for file I/O related errors.
type FileIOError struct {
	Op     string
	Reason string
	Err    error
}

func (e *FileIOError) Error() string {
	return fmt.Sprintf("file I/O error during '%s': %s", e.Op, e.Reason)
}

func (e *FileIOError) Unwrap() error {
	return e.Err
}

// TransformError is returned when a stored document cannot be rendered as JSON.
type TransformError struct {
	Reason string
	Err    error
}

func (e *TransformError) Error() string {
	return fmt.Sprintf("transform error: %s", e.Reason)
}

func (e *TransformError) Unwrap() error {
	return e.Err
}

// ErrorKind classifies a fetch error as a connection or query failure.
func ErrorKind(err error) string {
	var connErr *DatabaseConnectionError
	if errors.As(err, &connErr) {
		return KindConnection
	}
	var opErr *DatabaseOperationError
	if errors.As(err, &opErr) {
		return KindQuery
	}
	return KindUnknown
}
