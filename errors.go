package ppcp

import (
	"errors"
	"fmt"
)

// ErrValidation is matched by every error produced locally before a request is sent.
var ErrValidation = errors.New("validation")

// MissingFieldError reports a required field that is absent.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return "missing required parameter: " + e.Field
}

func (e *MissingFieldError) Is(target error) bool { return target == ErrValidation }

// InvalidEnumError reports a value outside of an enumeration, e.g. an unknown intent.
type InvalidEnumError struct {
	Field string
	Value string
}

func (e *InvalidEnumError) Error() string {
	return fmt.Sprintf("invalid %s: %q", e.Field, e.Value)
}

func (e *InvalidEnumError) Is(target error) bool { return target == ErrValidation }

// InvalidValueError reports a present value with a wrong format,
// such as an unknown currency code or a non-decimal amount.
type InvalidValueError struct {
	Field string
	Value string
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("malformed %s: %q", e.Field, e.Value)
}

func (e *InvalidValueError) Is(target error) bool { return target == ErrValidation }

// NoSuchReferenceError is returned when a reference selector matches no element.
type NoSuchReferenceError struct {
	ID string
}

func (e *NoSuchReferenceError) Error() string {
	return fmt.Sprintf("no element with reference %q", e.ID)
}

func (e *NoSuchReferenceError) Is(target error) bool { return target == ErrValidation }

// NoSuchFieldError is returned when a path segment does not exist in the order.
type NoSuchFieldError struct {
	Segment string
}

func (e *NoSuchFieldError) Error() string {
	return fmt.Sprintf("no such field: %q", e.Segment)
}

func (e *NoSuchFieldError) Is(target error) bool { return target == ErrValidation }

// PathError reports a path that can not be parsed.
type PathError struct {
	Path   string
	Reason string
}

func (e *PathError) Error() string {
	return fmt.Sprintf("bad path %q: %s", e.Path, e.Reason)
}

func (e *PathError) Is(target error) bool { return target == ErrValidation }
