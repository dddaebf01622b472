package subscription

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is returned when a mutation receives unusable input.
var ErrInvalidInput = errors.New("invalid input")

// InputError describes which field of a mutation was rejected.
type InputError struct {
	Field   string
	Message string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid input: %s %s", e.Field, e.Message)
}

// Unwrap lets errors.Is match ErrInvalidInput.
func (e *InputError) Unwrap() error {
	return ErrInvalidInput
}

// ParseError reports a document that could not be read as a subscription list.
// Offset is the byte offset of the failure, or -1 when unknown.
type ParseError struct {
	Reason string
	Offset int64
	Err    error
}

func (e *ParseError) Error() string {
	msg := "parse subscription document: " + e.Reason
	if e.Offset >= 0 {
		msg = fmt.Sprintf("%s (at byte %d)", msg, e.Offset)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
