// Package errs defines the error-kind taxonomy every codec package
// propagates to its caller. It follows a sentinel-error convention:
// package-level errors.New values, wrapped with fmt.Errorf("...: %w", ...)
// for context, checkable with errors.Is/errors.As at the top level.
package errs

import (
	"errors"
	"fmt"
)

// Kind classifies why an operation failed.
type Kind uint8

const (
	// KindInvalidParameter: null/empty geometry, option out of range.
	KindInvalidParameter Kind = iota
	// KindUnsupportedVersion: header version newer than implementation.
	KindUnsupportedVersion
	// KindUnsupportedFeature: flag set for a feature not compiled in.
	KindUnsupportedFeature
	// KindCorruptBitstream: frequency table invalid, symbol out of
	// alphabet, index out of range.
	KindCorruptBitstream
	// KindBufferUnderflow: read past end of decoder buffer.
	KindBufferUnderflow
	// KindNonManifold: mesh with non-manifold edges passed to EdgeBreaker.
	KindNonManifold
	// KindInternal: any invariant violation (indicative of a bug).
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindInvalidParameter:
		return "InvalidParameter"
	case KindUnsupportedVersion:
		return "UnsupportedVersion"
	case KindUnsupportedFeature:
		return "UnsupportedFeature"
	case KindCorruptBitstream:
		return "CorruptBitstream"
	case KindBufferUnderflow:
		return "BufferUnderflow"
	case KindNonManifold:
		return "NonManifold"
	case KindInternal:
		return "InternalError"
	default:
		return "Unknown"
	}
}

// Error wraps an underlying cause with the Kind the caller should switch
// on. Error never crosses a package boundary as a panic.
type Error struct {
	Kind Kind
	Op   string // the operation that failed, e.g. "edgebreaker.Decode"
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// Is lets errors.Is(err, someSentinel) match any *Error sharing the same
// Kind, regardless of Op or wrapped message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// New builds an *Error for op/kind wrapping msg.
func New(op string, kind Kind, msg string) *Error {
	return &Error{Op: op, Kind: kind, Err: errors.New(msg)}
}

// Wrap builds an *Error for op/kind wrapping an existing error.
func Wrap(op string, kind Kind, err error) *Error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Kind: kind, Err: err}
}

// Is reports whether the first *Error in err's chain carries the given
// Kind; *Error values further down the chain are not examined.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// Sentinel instances for errors.Is comparisons against a fixed kind,
// for the handful of kinds that are raised without extra context.
var (
	ErrBufferUnderflow  = New("buffer", KindBufferUnderflow, "read past end of buffer")
	ErrInvalidState     = New("buffer", KindInvalidParameter, "invalid buffer state")
	ErrNonManifold      = New("corner", KindNonManifold, "non-manifold edge")
	ErrCorruptBitstream = New("bitstream", KindCorruptBitstream, "corrupt bitstream")
)
