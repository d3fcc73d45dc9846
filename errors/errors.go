/*
Package errors defines the error taxonomy of the style mapping engine.

Errors indicating a programmer or configuration mistake (a malformed selector,
an invalid rule) are returned from the mutating API. Errors happening while a
rule is evaluated against a concrete widget are absorbed by the engine; they
are still expressed as MappingErrors so that they can be traced uniformly.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind classifies mapping errors.
type Kind int8

const (
	KindUnknown    Kind = iota
	KindSelector        // malformed or empty selector text
	KindValidation      // rule rejected at add-time
	KindMatching        // failure evaluating a selector against a widget
	KindResolution      // failure while merging rule properties
)

func (k Kind) String() string {
	switch k {
	case KindSelector:
		return "selector"
	case KindValidation:
		return "validation"
	case KindMatching:
		return "matching"
	case KindResolution:
		return "resolution"
	}
	return "unknown"
}

// MappingError is the error type of the engine.
type MappingError struct {
	Kind     Kind
	Selector string // raw selector text, if any
	Message  string
	Err      error // wrapped cause, may be nil
}

func (e *MappingError) Error() string {
	s := e.Kind.String() + " error"
	if e.Selector != "" {
		s += fmt.Sprintf(" in %q", e.Selector)
	}
	if e.Message != "" {
		s += ": " + e.Message
	}
	if e.Err != nil {
		if e.Message == "" {
			s += ": " + e.Err.Error()
		} else {
			s += " (" + e.Err.Error() + ")"
		}
	}
	return s
}

// Unwrap returns the wrapped cause.
func (e *MappingError) Unwrap() error {
	return e.Err
}

// Is reports a match for a target MappingError of the same kind with empty
// Selector and Message, which makes sentinels like ErrSelector usable with
// errors.Is.
func (e *MappingError) Is(target error) bool {
	t, ok := target.(*MappingError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Selector == "" && t.Message == "" && t.Err == nil
}

// Sentinels for use with errors.Is.
var (
	ErrSelector   = &MappingError{Kind: KindSelector}
	ErrValidation = &MappingError{Kind: KindValidation}
	ErrMatching   = &MappingError{Kind: KindMatching}
)

// Selector creates a selector (parse) error.
func Selector(sel string, format string, args ...interface{}) *MappingError {
	return &MappingError{Kind: KindSelector, Selector: sel, Message: fmt.Sprintf(format, args...)}
}

// Validation creates a validation error, optionally wrapping a cause.
func Validation(sel string, cause error, format string, args ...interface{}) *MappingError {
	return &MappingError{
		Kind:     KindValidation,
		Selector: sel,
		Message:  fmt.Sprintf(format, args...),
		Err:      cause,
	}
}

// Matching creates an error for a failed match attempt. The recovered value
// of a panic is wrapped if it is an error.
func Matching(sel string, recovered interface{}) *MappingError {
	e := &MappingError{Kind: KindMatching, Selector: sel}
	if err, ok := recovered.(error); ok {
		e.Err = err
	} else {
		e.Message = fmt.Sprint(recovered)
	}
	return e
}

// Resolution creates an error for a failed merge.
func Resolution(recovered interface{}) *MappingError {
	e := &MappingError{Kind: KindResolution}
	if err, ok := recovered.(error); ok {
		e.Err = err
	} else {
		e.Message = fmt.Sprint(recovered)
	}
	return e
}

// IsKind checks if err is (or wraps) a MappingError of kind k.
func IsKind(err error, k Kind) bool {
	var merr *MappingError
	if stderrors.As(err, &merr) {
		return merr.Kind == k
	}
	return false
}
