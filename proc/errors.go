package proc

import (
	"errors"
	"fmt"
)

// Kind classifies the failures this package can report.
type Kind int

const (
	// KindMalformedField means a field had the wrong type, overflowed its
	// declared width, or contained an unexpected token.
	KindMalformedField Kind = iota + 1
	// KindMissingMandatoryField means a record was shorter than the format's
	// minimum column count, or a required key was absent.
	KindMissingMandatoryField
	// KindUnrecognizedEnumCode means a code outside a closed, stable
	// enumeration (such as the TCP state table) was encountered.
	KindUnrecognizedEnumCode
	// KindVanished means the subject process or file disappeared between
	// enumeration and read.
	KindVanished
	// KindIoFailure is an opaque passthrough for any other read failure.
	KindIoFailure
	// KindUnsupportedOnKernel means a field or file was requested that the
	// feature context marks unavailable on the running kernel.
	KindUnsupportedOnKernel
)

func (k Kind) String() string {
	switch k {
	case KindMalformedField:
		return "malformed field"
	case KindMissingMandatoryField:
		return "missing mandatory field"
	case KindUnrecognizedEnumCode:
		return "unrecognized enum code"
	case KindVanished:
		return "vanished"
	case KindIoFailure:
		return "io failure"
	case KindUnsupportedOnKernel:
		return "unsupported on this kernel"
	default:
		return "unknown"
	}
}

// Error is the classified error returned by parsers, converters and readers.
// Source names the file or table the bytes came from; Field names the
// offending field when one is known.
type Error struct {
	Kind   Kind
	Source string
	Field  string
	Err    error
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Source != "" {
		msg = e.Source + ": " + msg
	}
	if e.Field != "" {
		msg += ": field " + e.Field
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the Kind carried by err, or zero if err is not a *Error.
func KindOf(err error) Kind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return 0
}

// IsVanished reports whether err means the subject disappeared mid-read.
func IsVanished(err error) bool { return KindOf(err) == KindVanished }

func malformed(source, field string, err error) *Error {
	return &Error{Kind: KindMalformedField, Source: source, Field: field, Err: err}
}

func malformedf(source, field, format string, args ...any) *Error {
	return malformed(source, field, fmt.Errorf(format, args...))
}

func missing(source, field string) *Error {
	return &Error{Kind: KindMissingMandatoryField, Source: source, Field: field}
}

func badEnum(source, field string, raw any) *Error {
	return &Error{
		Kind:   KindUnrecognizedEnumCode,
		Source: source,
		Field:  field,
		Err:    fmt.Errorf("code %v not in enumeration", raw),
	}
}
