// SPDX-License-Identifier: MIT
// Package transform: sentinel error set.
// Constructors return these sentinels wrapped with positional context;
// callers match them via errors.Is. Transform/Inverse never return errors:
// every bound problem is rejected before a policy exists.

package transform

import (
	"errors"
	"fmt"
)

// NOTE ON NAMING
// --------------
// Every message is prefixed with "transform: ...". Detection sites wrap with
// boundErrorf so the failing (row, col) survives into logs.

var (
	// ErrNilBounds is returned when a lower or upper bound matrix is nil.
	ErrNilBounds = errors.New("transform: nil bound matrix")

	// ErrEmptyBounds is returned when a bound matrix has zero rows or columns.
	ErrEmptyBounds = errors.New("transform: empty bound matrix")

	// ErrShapeMismatch indicates lower/upper shapes that cannot be broadcast
	// against each other (per axis the sizes must match or one must be 1).
	ErrShapeMismatch = errors.New("transform: bound shapes are not broadcastable")

	// ErrNaNInf signals a NaN or ±Inf bound value.
	ErrNaNInf = errors.New("transform: NaN or Inf bound")

	// ErrInvertedBounds signals an effective pair with upper < lower.
	// A pair with upper == lower is legal and fixes the coordinate.
	ErrInvertedBounds = errors.New("transform: upper bound below lower bound")
)

// boundErrorf wraps a sentinel with the constructor tag and bound position.
// Complexity: O(1).
func boundErrorf(tag string, row, col int, err error) error {
	return fmt.Errorf("%s(%d,%d): %w", tag, row, col, err)
}
