package schema

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError is a failed check of one keyed value.
type ValidationError struct {
	Key    string
	Reason string
	// Value is the rejected input, nil when the key was missing.
	Value any
	// Err is the conversion failure behind Reason, if any.
	Err error
}

func (e *ValidationError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("field %q: %s", e.Key, e.Reason)
	}
	return fmt.Sprintf("field %q: %s (got %T)", e.Key, e.Reason, e.Value)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// ElementError locates a conversion failure inside a slice or sequence.
type ElementError struct {
	Index int
	Err   error
}

func (e *ElementError) Error() string {
	return fmt.Sprintf("element %d: %v", e.Index, e.Err)
}

func (e *ElementError) Unwrap() error { return e.Err }

// AggregateError collects every failure of one Validate call.
type AggregateError struct {
	Errors []error
}

func (e *AggregateError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d validation errors:\n", len(e.Errors))
	for i, err := range e.Errors {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, err)
	}
	return sb.String()
}

func (e *AggregateError) Unwrap() []error { return e.Errors }

// ValidationErrors returns the collected failures when err wraps an
// AggregateError, and nil otherwise.
func ValidationErrors(err error) []error {
	var aggr *AggregateError
	if errors.As(err, &aggr) {
		return aggr.Errors
	}
	return nil
}
