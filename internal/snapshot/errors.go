package snapshot

import (
	"errors"
	"fmt"
)

// ErrorKind classifies why an adapter could not produce a live value.
type ErrorKind string

const (
	// KindNone marks a result that came from the live source.
	KindNone ErrorKind = ""
	// SourceUnavailable covers network, timeout and HTTP status failures.
	SourceUnavailable ErrorKind = "source_unavailable"
	// SourceMalformed covers responses missing the fields we extract.
	SourceMalformed ErrorKind = "source_malformed"
	// ParseFailure covers extracted values that are non-numeric or out of range.
	ParseFailure ErrorKind = "parse_failure"
)

// SourceError attaches an ErrorKind to an underlying cause.
type SourceError struct {
	Kind ErrorKind
	Err  error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

// Unavailable wraps err as SourceUnavailable.
func Unavailable(err error) error {
	return &SourceError{Kind: SourceUnavailable, Err: err}
}

// Malformed wraps err as SourceMalformed.
func Malformed(err error) error {
	return &SourceError{Kind: SourceMalformed, Err: err}
}

// Unparsable wraps err as ParseFailure.
func Unparsable(err error) error {
	return &SourceError{Kind: ParseFailure, Err: err}
}

// KindOf reports the kind carried by err. Errors without one count as
// SourceUnavailable; a nil error is KindNone.
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindNone
	}
	var se *SourceError
	if errors.As(err, &se) {
		return se.Kind
	}
	return SourceUnavailable
}
