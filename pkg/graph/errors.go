package graph

import (
	"errors"
	"fmt"
)

// Common sentinel errors
var (
	ErrSelfLoop     = errors.New("self-loops are not allowed")
	ErrEdgeNotFound = errors.New("edge not found")
)

// GraphError provides structured error information for graph mutations.
type GraphError struct {
	Op    string // Operation that failed (e.g., "AddEdge", "RemoveEdge")
	U, V  uint64
	Cause error
}

// Error implements the error interface.
func (e *GraphError) Error() string {
	return fmt.Sprintf("%s (%d, %d): %v", e.Op, e.U, e.V, e.Cause)
}

// Unwrap returns the underlying cause for error chain support.
func (e *GraphError) Unwrap() error {
	return e.Cause
}

func newGraphError(op string, u, v uint64, cause error) error {
	return &GraphError{Op: op, U: u, V: v, Cause: cause}
}
