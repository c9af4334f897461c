// SPDX-License-Identifier: MIT

// Package transform: the policy contract and optional capabilities.
// Implementations share only these method sets, never a base type.
package transform

import "gonum.org/v1/gonum/mat"

// Policy is the operation shape an optimizer depends on.
//
// Contract:
//   - Transform never mutates x and always returns a newly allocated matrix
//     of the same shape (an empty *mat.Dense for an empty x).
//   - InitialStepSize is called once at setup to seed the mutation scale.
//   - Implementations are safe for concurrent use.
type Policy interface {
	// Transform maps every element of x into the feasible region.
	Transform(x mat.Matrix) *mat.Dense

	// InitialStepSize returns a heuristic initial mutation scale.
	InitialStepSize() float64
}

// Inverter is an optional capability: map feasible coordinates back to a
// pre-image, so that Transform(Inverse(y)) == y for feasible y.
// Discover it with a type assertion on a Policy.
type Inverter interface {
	Inverse(y mat.Matrix) *mat.Dense
}

// StatsReporter is implemented by policies that can report which stages of
// the map were applied while transforming.
type StatsReporter interface {
	TransformWithStats(x mat.Matrix) (*mat.Dense, Stats)
}

// Stats counts, per Transform call, how many elements went through each
// stage. A single element may be counted in Wrapped, Mirrored and Eased at
// once; Interior, Fixed and NonFinite are exclusive.
type Stats struct {
	Total     int // elements visited
	Interior  int // identity region, untouched
	Wrapped   int // periodic fold applied
	Mirrored  int // mirror fold applied
	Eased     int // quadratic easing applied
	Fixed     int // degenerate pair (lower == upper)
	NonFinite int // NaN or ±Inf coordinate
}

// stage is a bit set of the map stages applied to one element.
type stage uint8

const (
	stageWrapped stage = 1 << iota
	stageMirrored
	stageEased
	stageFixed
	stageNonFinite
)

// record adds one element with the given stage set.
func (s *Stats) record(st stage) {
	s.Total++
	if st == 0 {
		s.Interior++
		return
	}
	if st&stageWrapped != 0 {
		s.Wrapped++
	}
	if st&stageMirrored != 0 {
		s.Mirrored++
	}
	if st&stageEased != 0 {
		s.Eased++
	}
	if st&stageFixed != 0 {
		s.Fixed++
	}
	if st&stageNonFinite != 0 {
		s.NonFinite++
	}
}

// Add returns the field-wise sum of s and o.
func (s Stats) Add(o Stats) Stats {
	return Stats{
		Total:     s.Total + o.Total,
		Interior:  s.Interior + o.Interior,
		Wrapped:   s.Wrapped + o.Wrapped,
		Mirrored:  s.Mirrored + o.Mirrored,
		Eased:     s.Eased + o.Eased,
		Fixed:     s.Fixed + o.Fixed,
		NonFinite: s.NonFinite + o.NonFinite,
	}
}
