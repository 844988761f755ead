// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors matched with errors.Is.
var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrUnsupportedMethod = errors.New("unsupported method")
	ErrLookup            = errors.New("lookup inconsistency")
)

// InvalidInputError reports a malformed observation or argument. It is
// fatal for the call that returns it.
type InvalidInputError struct {
	// Index is the position of the offending observation in its batch.
	// It is meaningful only when Indexed is set.
	Index   int
	Indexed bool
	Reason  string
}

func (e *InvalidInputError) Error() string {
	if e.Indexed {
		return fmt.Sprintf("invalid input at observation %d: %s", e.Index, e.Reason)
	}
	return "invalid input: " + e.Reason
}

// Is matches ErrInvalidInput.
func (e *InvalidInputError) Is(target error) bool {
	return target == ErrInvalidInput
}

// AtIndex returns a copy of e tied to a batch position.
func (e *InvalidInputError) AtIndex(i int) *InvalidInputError {
	return &InvalidInputError{Index: i, Indexed: true, Reason: e.Reason}
}

// UnsupportedMethodError reports an unknown ranking, averaging or
// calibration name.
type UnsupportedMethodError struct {
	// Kind is what was being selected, e.g. "method" or "calibration".
	Kind string
	Name string
	// Supported lists the accepted names.
	Supported []string
}

func (e *UnsupportedMethodError) Error() string {
	return fmt.Sprintf("%s=%q not available (supported: %s)", e.Kind, e.Name, strings.Join(e.Supported, ", "))
}

// Is matches ErrUnsupportedMethod.
func (e *UnsupportedMethodError) Is(target error) bool {
	return target == ErrUnsupportedMethod
}

// LookupError is the recoverable diagnostic raised when an ID expected in a
// sequence cannot be resolved. The caller skips the ID and continues.
type LookupError struct {
	ID     ItemID
	Reason string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("lookup of %q failed: %s", e.ID, e.Reason)
}

// Is matches ErrLookup.
func (e *LookupError) Is(target error) bool {
	return target == ErrLookup
}
