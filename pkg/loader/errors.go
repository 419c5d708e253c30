package loader

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingColumn is returned when the header lacks a required column
	ErrMissingColumn = errors.New("missing required column")
	// ErrInvalidValue is returned for values that cannot be parsed
	ErrInvalidValue = errors.New("invalid value")
	// ErrInvalidOptions is returned for unusable windowing options
	ErrInvalidOptions = errors.New("invalid loader options")
)

// ParseError locates a failure in the input
type ParseError struct {
	Line   int
	Column string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("line %d: %s: %v", e.Line, e.Column, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
