package models

import (
	"errors"
	"fmt"
)

// The five error kinds the core raises. Each is a distinct type so the HTTP
// layer can map it to a specific response with errors.As.

// NotFoundError means the requested id does not resolve to an active record.
type NotFoundError struct {
	Kind string
	ID   int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with id = %d does not exist", e.Kind, e.ID)
}

// DuplicateEntityError means a uniqueness constraint among active records
// would be violated. Field names the offending field.
type DuplicateEntityError struct {
	Field string
	Value string
}

func (e *DuplicateEntityError) Error() string {
	return fmt.Sprintf("cannot do operation: %s %s is already in use", e.Field, e.Value)
}

// InvalidChainStateError means a relink would create a cycle or a
// self-reference. The operation is rejected before any write.
type InvalidChainStateError struct {
	Reason string
}

func (e *InvalidChainStateError) Error() string {
	return "invalid chain state: " + e.Reason
}

// ContentPolicyError means a post or comment failed content validation.
type ContentPolicyError struct {
	Field  string
	Reason string
}

func (e *ContentPolicyError) Error() string {
	return fmt.Sprintf("content policy violation on %s: %s", e.Field, e.Reason)
}

// StoreError wraps an operational store failure. It is logged with full
// context where it happens and re-raised opaque; the core never turns a
// store failure into an empty-looking success.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store operation %s failed: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// ErrInvalidSortField is returned when a requested sort field is not in the
// closed enumeration of sortable fields for the record kind.
var ErrInvalidSortField = errors.New("invalid sort field")
