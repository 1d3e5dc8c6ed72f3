package repositories

import "fmt"

type NotFoundError struct {
	entityName string
}

func NewNotFoundError(entityName string) *NotFoundError {
	return &NotFoundError{entityName: entityName}
}

func (m *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", m.entityName)
}

func (e *NotFoundError) Is(err error) bool {
	_, ok := err.(*NotFoundError)
	return ok
}

// WriteError wraps an underlying storage failure during an insert, update or
// delete. Callers treat it as fatal for the operation; there are no retries.
type WriteError struct {
	op    string
	cause error
}

func NewWriteError(op string, cause error) *WriteError {
	return &WriteError{op: op, cause: cause}
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("storage write failed during %s: %v", e.op, e.cause)
}

func (e *WriteError) Unwrap() error {
	return e.cause
}

func (e *WriteError) Is(err error) bool {
	_, ok := err.(*WriteError)
	return ok
}

// ReadError wraps an underlying storage failure during a query or scan.
type ReadError struct {
	op    string
	cause error
}

func NewReadError(op string, cause error) *ReadError {
	return &ReadError{op: op, cause: cause}
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("storage read failed during %s: %v", e.op, e.cause)
}

func (e *ReadError) Unwrap() error {
	return e.cause
}

func (e *ReadError) Is(err error) bool {
	_, ok := err.(*ReadError)
	return ok
}
