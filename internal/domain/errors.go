package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors
var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidFormat     = errors.New("invalid backup format")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// StoreError represents a failed store operation on a specific entity.
type StoreError struct {
	Op     string // Operation: "get", "create", "update", "delete", etc.
	Entity string // Entity kind: "project", "category", "subcategory", "task"
	ID     uint   // Optional: specific entity ID
	Err    error  // Underlying error
}

func (e *StoreError) Error() string {
	if e.ID != 0 {
		return fmt.Sprintf("store %s %s [%d]: %v", e.Op, e.Entity, e.ID, e.Err)
	}
	return fmt.Sprintf("store %s %s: %v", e.Op, e.Entity, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// TxError represents a multi-step mutation whose transaction did not commit.
// No partial state is visible after one of these.
type TxError struct {
	Op  string
	Err error
}

func (e *TxError) Error() string {
	return fmt.Sprintf("transaction %s: %v", e.Op, e.Err)
}

func (e *TxError) Unwrap() error {
	return e.Err
}
