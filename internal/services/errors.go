package services

import (
	"errors"
	"fmt"
)

type ErrorKind string

const (
	KindUnauthorized       ErrorKind = "unauthorized"
	KindUpstream           ErrorKind = "upstream_error"
	KindInvalidModelOutput ErrorKind = "invalid_model_output"
	KindPersistence        ErrorKind = "persistence_error"
)

// GenerationError is the only error type SuggestionGenerator.Generate
// returns. Message is safe to show to the caller; Err keeps the cause.
type GenerationError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *GenerationError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

func newGenerationError(kind ErrorKind, message string, err error) *GenerationError {
	return &GenerationError{Kind: kind, Message: message, Err: err}
}

// KindOf returns the kind of a generation failure, or "" when err did not
// come from the generator.
func KindOf(err error) ErrorKind {
	var genErr *GenerationError
	if errors.As(err, &genErr) {
		return genErr.Kind
	}
	return ""
}
