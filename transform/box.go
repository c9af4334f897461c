// SPDX-License-Identifier: MIT

// Package transform - BoxConstraint policy.
//
// Purpose:
//   - Own the effective lower/upper bound matrices (validated, broadcast,
//     copied) and the precomputed per-pair map parameters.
//   - Implement Policy, Inverter and StatsReporter.
//
// Lifetime:
//   - Immutable after construction. WithBounds builds a new policy; there is
//     no setter, so concurrent Transform calls never race with a rebind.
package transform

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Constructor tags used in error wrappers.
const (
	ctxNewBox    = "NewBoxConstraint"
	ctxNewScalar = "NewScalarBoxConstraint"
	ctxRebind    = "BoxConstraint.WithBounds"
)

// BoxConstraint maps coordinates into per-position [lower, upper] boxes.
//   - lower, upper hold the effective bounds (rows×cols after broadcasting
//     lower against upper).
//   - segs holds one precomputed segment per effective pair, row-major.
//   - minWidth caches min(upper-lower) for InitialStepSize.
type BoxConstraint struct {
	lower, upper *mat.Dense // effective bounds, never handed out
	rows, cols   int        // effective bound shape
	segs         []segment  // len == rows*cols; segs[i*cols+j]
	minWidth     float64    // narrowest effective box width
	opts         Options    // resolved options
}

// Compile-time assertions for the policy contract and optional capabilities.
var (
	_ Policy        = (*BoxConstraint)(nil)
	_ Inverter      = (*BoxConstraint)(nil)
	_ StatsReporter = (*BoxConstraint)(nil)
)

// NewBoxConstraint builds a box policy from lower and upper bound matrices.
// MAIN DESCRIPTION:
//   - Validates, broadcasts and copies the bounds, then precomputes the map
//     parameters of every effective pair.
//
// Implementation:
//   - Stage 1: resolve options.
//   - Stage 2: resolveBounds (nil/empty/finite/broadcastable/ordered).
//   - Stage 3: build segments and cache the narrowest width.
//
// Behavior highlights:
//   - lower and upper may differ in shape when broadcastable per axis
//     (equal, or 1). The effective shape is the per-axis maximum.
//   - Pairs with lower == upper are accepted and pin the coordinate.
//   - The caller's matrices are copied; later mutation does not leak in.
//
// Errors:
//   - ErrNilBounds, ErrEmptyBounds, ErrNaNInf, ErrShapeMismatch,
//     ErrInvertedBounds (wrapped with position).
//
// Complexity:
//   - Time O(rows*cols), Space O(rows*cols).
func NewBoxConstraint(lower, upper mat.Matrix, opts ...Option) (*BoxConstraint, error) {
	return newBoxConstraint(ctxNewBox, lower, upper, gatherOptions(opts...))
}

// NewScalarBoxConstraint builds a box policy from a single bound pair that
// is broadcast across every coordinate.
// Complexity: O(1).
func NewScalarBoxConstraint(lower, upper float64, opts ...Option) (*BoxConstraint, error) {
	lo := mat.NewDense(1, 1, []float64{lower})
	up := mat.NewDense(1, 1, []float64{upper})

	return newBoxConstraint(ctxNewScalar, lo, up, gatherOptions(opts...))
}

func newBoxConstraint(tag string, lower, upper mat.Matrix, o Options) (*BoxConstraint, error) {
	lo, up, err := resolveBounds(tag, lower, upper)
	if err != nil {
		return nil, err
	}

	rows, cols := lo.Dims()
	segs := make([]segment, rows*cols)
	widths := make([]float64, rows*cols)

	var i, j, k int
	var l, u float64
	for i = 0; i < rows; i++ {
		for j = 0; j < cols; j++ {
			k = i*cols + j
			l, u = lo.At(i, j), up.At(i, j)
			segs[k] = newSegment(l, u)
			widths[k] = u - l
		}
	}

	return &BoxConstraint{
		lower:    lo,
		upper:    up,
		rows:     rows,
		cols:     cols,
		segs:     segs,
		minWidth: floats.Min(widths),
		opts:     o,
	}, nil
}

// WithBounds returns a new policy with the given bounds and the receiver's
// options. The receiver is unchanged.
func (b *BoxConstraint) WithBounds(lower, upper mat.Matrix) (*BoxConstraint, error) {
	return newBoxConstraint(ctxRebind, lower, upper, b.opts)
}

// Lower returns a copy of the effective lower bounds.
func (b *BoxConstraint) Lower() *mat.Dense { return mat.DenseCopyOf(b.lower) }

// Upper returns a copy of the effective upper bounds.
func (b *BoxConstraint) Upper() *mat.Dense { return mat.DenseCopyOf(b.upper) }

// Shape returns the effective bound shape.
func (b *BoxConstraint) Shape() (rows, cols int) { return b.rows, b.cols }

// segmentAt resolves the bound pair for coordinate (i,j) by the broadcast rule.
// Complexity: O(1).
func (b *BoxConstraint) segmentAt(i, j int) segment {
	return b.segs[broadcastIndex(i, b.rows)*b.cols+broadcastIndex(j, b.cols)]
}

// Transform maps every element of x into its broadcast-resolved box.
// MAIN DESCRIPTION:
//   - Periodic fold, mirror fold and quadratic easing per element; identity
//     in the interior. See fold for the stage details.
//
// Behavior highlights:
//   - x is never modified; the result is a new matrix of x's shape.
//   - Finite input always lands in [lower, upper]; a fixed pair returns lower.
//   - NaN/±Inf elements become NaN; other elements are unaffected.
//
// Complexity:
//   - Time O(rows(x)*cols(x)), Space O(rows(x)*cols(x)).
func (b *BoxConstraint) Transform(x mat.Matrix) *mat.Dense {
	out, _ := b.TransformWithStats(x)

	return out
}

// TransformWithStats is Transform plus per-stage element counts.
func (b *BoxConstraint) TransformWithStats(x mat.Matrix) (*mat.Dense, Stats) {
	return b.opts.applyElements(x, func(i, j int, v float64) (float64, stage) {
		return b.segmentAt(i, j).fold(v)
	})
}

// Inverse maps feasible coordinates back into the pre-image
// [lower-al, upper+au]; Transform(Inverse(y)) == y for y inside the box.
// Fixed pairs map to lower.
// Complexity: O(rows(y)*cols(y)).
func (b *BoxConstraint) Inverse(y mat.Matrix) *mat.Dense {
	out, _ := b.opts.applyElements(y, func(i, j int, v float64) (float64, stage) {
		return b.segmentAt(i, j).unfold(v), 0
	})

	return out
}

// InitialStepSize returns stepFactor × min(upper − lower) over every
// effective bound pair (0.3 × narrowest width by default).
// A degenerate pair makes the result 0.
// Complexity: O(1).
func (b *BoxConstraint) InitialStepSize() float64 {
	return b.opts.stepFactor * b.minWidth
}
