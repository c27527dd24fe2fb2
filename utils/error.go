package utils

import (
	"errors"
	"fmt"
)

var ErrorRecordNotFound = errors.New("record not found")

// ErrorKind classifies domain failures. Everything that is not one of the
// expected kinds is treated as Internal by the HTTP layer.
type ErrorKind string

const (
	ErrorKindNotFound     ErrorKind = "NotFound"
	ErrorKindForbidden    ErrorKind = "Forbidden"
	ErrorKindInvalidInput ErrorKind = "InvalidInput"
	ErrorKindConflict     ErrorKind = "Conflict"
	ErrorKindInternal     ErrorKind = "Internal"
)

type DomainError struct {
	Kind    ErrorKind
	Message string
	// Meta carries actionable detail for the caller, e.g. the available
	// quantity on an insufficient-quantity conflict.
	Meta map[string]string
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func NewNotFound(format string, args ...any) *DomainError {
	return &DomainError{Kind: ErrorKindNotFound, Message: fmt.Sprintf(format, args...)}
}

func NewForbidden(format string, args ...any) *DomainError {
	return &DomainError{Kind: ErrorKindForbidden, Message: fmt.Sprintf(format, args...)}
}

func NewInvalidInput(format string, args ...any) *DomainError {
	return &DomainError{Kind: ErrorKindInvalidInput, Message: fmt.Sprintf(format, args...)}
}

func NewConflict(format string, args ...any) *DomainError {
	return &DomainError{Kind: ErrorKindConflict, Message: fmt.Sprintf(format, args...)}
}

func (e *DomainError) WithMeta(key, value string) *DomainError {
	if e.Meta == nil {
		e.Meta = map[string]string{}
	}
	e.Meta[key] = value
	return e
}

// KindOf returns the domain kind of err, or Internal for anything unclassified
// (storage errors, collaborator failures).
func KindOf(err error) ErrorKind {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Kind
	}
	if errors.Is(err, ErrorRecordNotFound) {
		return ErrorKindNotFound
	}
	return ErrorKindInternal
}

func MetaOf(err error) map[string]string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Meta
	}
	return nil
}
