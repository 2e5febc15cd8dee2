// Copyright 2026 The gofits Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fits

import "fmt"

// KeyNotFoundError is returned by CardList lookups that have no
// default value to fall back to.
type KeyNotFoundError struct {
	Key string
}

func (e *KeyNotFoundError) Error() string {
	return fmt.Sprintf("fits: key not found %q", e.Key)
}

// ErrUnknownHDUType is returned by the variant dispatcher when neither
// data nor mandatory keys are supplied, or no rule in §4.2 applies.
type ErrUnknownHDUType struct {
	Reason string
}

func (e *ErrUnknownHDUType) Error() string {
	if e.Reason == "" {
		return "fits: could not determine HDU variant"
	}
	return "fits: could not determine HDU variant: " + e.Reason
}

// ErrHeaderTruncatedType is returned when the stream reaches EOF before an
// END card is seen.
type ErrHeaderTruncatedType struct{}

func (e *ErrHeaderTruncatedType) Error() string {
	return "fits: header truncated before END card"
}

// MalformedFieldError is returned when a TFORM string does not match
// the binary-table field grammar, or names an unknown type code.
type MalformedFieldError struct {
	Column int
	Reason string
}

func (e *MalformedFieldError) Error() string {
	return fmt.Sprintf("fits: malformed field descriptor at column %d: %s", e.Column, e.Reason)
}

// ShapeMismatchError records a header/geometry discrepancy found (and
// auto-repaired) by the Verifier.
type ShapeMismatchError struct {
	Key      string
	Expected interface{}
	Actual   interface{}
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("fits: %s mismatch: header=%v data=%v", e.Key, e.Expected, e.Actual)
}

// StreamError wraps an I/O error encountered while reading or writing
// a FITS stream.
type StreamError struct {
	Op  string
	Err error
}

func (e *StreamError) Error() string {
	return fmt.Sprintf("fits: stream error during %s: %v", e.Op, e.Err)
}

func (e *StreamError) Unwrap() error { return e.Err }

// ErrUnknownHDU and ErrHeaderTruncated are zero-value instances of the
// two error types. The package returns fresh values, never these, so
// callers match the type with errors.As; == and errors.Is against
// these values do not match.
var (
	ErrUnknownHDU      = &ErrUnknownHDUType{}
	ErrHeaderTruncated = &ErrHeaderTruncatedType{}
)
