// SPDX-License-Identifier: MIT
// Package: transform
//
// Purpose:
//  - Single source of truth for bound validation and the broadcast rule.
//  - Return plain sentinels wrapped with the constructor tag and position.
//
// Note:
//  - Each composite validator follows a fixed sequence
//    NotNil → NonEmpty → Finite → Broadcastable → Ordered.

package transform

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// broadcastIndex resolves index i against an axis of length n: indices past
// the end reuse the last valid index.
// Complexity: O(1).
func broadcastIndex(i, n int) int {
	if i < n {
		return i
	}

	return n - 1
}

// validateBoundMatrix checks one bound matrix: non-nil, non-empty, finite.
//
// Returns: its shape on success.
// Errors: ErrNilBounds, ErrEmptyBounds, ErrNaNInf (with position).
// Complexity: O(r*c).
func validateBoundMatrix(tag string, m mat.Matrix) (rows, cols int, err error) {
	if m == nil {
		return 0, 0, boundErrorf(tag, -1, -1, ErrNilBounds)
	}
	if d, ok := m.(*mat.Dense); ok && d == nil {
		return 0, 0, boundErrorf(tag, -1, -1, ErrNilBounds)
	}
	rows, cols = m.Dims()
	if rows == 0 || cols == 0 {
		return 0, 0, boundErrorf(tag, rows, cols, ErrEmptyBounds)
	}

	var i, j int
	var v float64
	for i = 0; i < rows; i++ {
		for j = 0; j < cols; j++ {
			v = m.At(i, j)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return 0, 0, boundErrorf(tag, i, j, ErrNaNInf)
			}
		}
	}

	return rows, cols, nil
}

// broadcastShape returns the effective shape of two bound matrices.
// Per axis the sizes must be equal, or one of them must be 1.
//
// Errors: ErrShapeMismatch.
// Complexity: O(1).
func broadcastShape(lr, lc, ur, uc int) (rows, cols int, err error) {
	rows, err = broadcastAxis(lr, ur)
	if err != nil {
		return 0, 0, err
	}
	cols, err = broadcastAxis(lc, uc)
	if err != nil {
		return 0, 0, err
	}

	return rows, cols, nil
}

func broadcastAxis(a, b int) (int, error) {
	switch {
	case a == b:
		return a, nil
	case a == 1:
		return b, nil
	case b == 1:
		return a, nil
	}

	return 0, ErrShapeMismatch
}

// expand materializes m at rows×cols using the broadcast rule.
// Complexity: O(rows*cols).
func expand(m mat.Matrix, rows, cols int) *mat.Dense {
	mr, mc := m.Dims()
	out := mat.NewDense(rows, cols, nil)

	var i, j int
	for i = 0; i < rows; i++ {
		for j = 0; j < cols; j++ {
			out.Set(i, j, m.At(broadcastIndex(i, mr), broadcastIndex(j, mc)))
		}
	}

	return out
}

// validateOrdered rejects any effective pair with upper < lower.
// Equal pairs are accepted (degenerate, fixed coordinate).
//
// Errors: ErrInvertedBounds (with position).
// Complexity: O(rows*cols).
func validateOrdered(tag string, lower, upper *mat.Dense) error {
	rows, cols := lower.Dims()

	var i, j int
	for i = 0; i < rows; i++ {
		for j = 0; j < cols; j++ {
			if upper.At(i, j) < lower.At(i, j) {
				return boundErrorf(tag, i, j, ErrInvertedBounds)
			}
		}
	}

	return nil
}

// resolveBounds is the composite validator used by every BoxConstraint
// constructor. It returns expanded, independent copies of both matrices.
//
// Implementation:
//   - Stage 1: validate lower and upper individually.
//   - Stage 2: compute the broadcast shape.
//   - Stage 3: expand both to that shape (copies; caller data is never kept).
//   - Stage 4: reject inverted pairs.
//
// Complexity: O(rows*cols).
func resolveBounds(tag string, lower, upper mat.Matrix) (lo, up *mat.Dense, err error) {
	lr, lc, err := validateBoundMatrix(tag+": lower", lower)
	if err != nil {
		return nil, nil, err
	}
	ur, uc, err := validateBoundMatrix(tag+": upper", upper)
	if err != nil {
		return nil, nil, err
	}
	rows, cols, err := broadcastShape(lr, lc, ur, uc)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: lower %dx%d, upper %dx%d: %w", tag, lr, lc, ur, uc, err)
	}

	lo = expand(lower, rows, cols)
	up = expand(upper, rows, cols)
	if err = validateOrdered(tag, lo, up); err != nil {
		return nil, nil, err
	}

	return lo, up, nil
}
