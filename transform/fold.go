// SPDX-License-Identifier: MIT

// Package transform - per-element boundary map.
//
// Purpose:
//   - Precompute, once per effective bound pair, every quantity the map needs
//     (margins, pre-image, period) so the hot loop is branch-light.
//   - Keep fold (forward map) and unfold (inverse) side by side so their
//     piecewise regions stay in sync.
//
// Regions of the forward map for a pair l < u:
//
//	  wrap  │ mirror │  ease  │ identity │  ease  │ mirror │  wrap
//	────────┼────────┼────────┼──────────┼────────┼────────┼────────
//	      xlow     l-al     l+al       u-au     u+au      xup
//
// Complexity quicksheet:
//   - newSegment: O(1); fold: O(1); unfold: O(1).
package transform

import "math"

// marginDivisor sets the easing margin (1+|bound|)/marginDivisor.
const marginDivisor = 20.0

// segment holds the precomputed map parameters of one bound pair.
type segment struct {
	lower, upper float64 // hard bounds, lower <= upper
	al, au       float64 // easing margins at lower/upper, 0 < al,au <= (upper-lower)/2
	xlow         float64 // left end of the pre-image: lower - 2*al - diff
	xup          float64 // right end of the pre-image: upper + 2*au + diff
	period       float64 // xup - xlow == 2*(2*diff + al + au)
	fixed        bool    // lower == upper: coordinate is pinned to lower
}

// newSegment derives the map parameters for the pair [lower, upper].
// Implementation:
//   - Stage 1: half-range diff; a zero-width pair is marked fixed and
//     nothing else is computed (margins would be zero, easing divides by them).
//   - Stage 2: margins capped by diff.
//   - Stage 3: pre-image ends and period.
//
// Inputs:
//   - lower <= upper, both finite (enforced by resolveBounds).
//
// Complexity:
//   - Time O(1), Space O(1).
func newSegment(lower, upper float64) segment {
	diff := upper/2 - lower/2 // halves first: upper-lower may exceed MaxFloat64
	if diff == 0 {
		return segment{lower: lower, upper: upper, fixed: true}
	}

	al := math.Min(diff, (1+math.Abs(lower))/marginDivisor)
	au := math.Min(diff, (1+math.Abs(upper))/marginDivisor)

	return segment{
		lower:  lower,
		upper:  upper,
		al:     al,
		au:     au,
		xlow:   lower - 2*al - diff,    // may be -Inf near -MaxFloat64; no finite v wraps then
		xup:    upper + 2*au + diff,    // may be +Inf near MaxFloat64
		period: 2 * (2*diff + al + au), // +Inf makes Mod the identity, which is exact
	}
}

// fold maps v into [lower, upper] and reports the stages it went through.
// Implementation:
//   - Stage 0: fixed pair ⇒ lower; NaN/±Inf ⇒ NaN (no period position exists).
//   - Stage 1: periodic fold into [xlow, xup]. The distance past the end is
//     reduced with math.Mod, which is exact, so no integer period count can
//     overflow for extreme magnitudes. The result is anchored on whichever
//     pre-image end is finite.
//   - Stage 2: mirror across lower-al / upper+au.
//   - Stage 3: quadratic easing inside the margins, identity elsewhere.
//   - Stage 4: clamp; only rounding at extreme magnitudes can trigger it, or
//     bounds whose pre-image does not fit in float64.
//
// Behavior highlights:
//   - Continuous with continuous first derivative at lower+al and upper-au:
//     with d = v-(lower-al), the parabola lower + d·(d/(4al)) equals
//     lower+al with slope 1 at v = lower+al.
//   - Periodic with period r and mirror-symmetric around lower-al / upper+au.
//
// Complexity:
//   - Time O(1), Space O(1).
func (s segment) fold(v float64) (float64, stage) {
	if s.fixed {
		return s.lower, stageFixed
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return math.NaN(), stageNonFinite
	}

	var st stage

	// Periodic fold: result lands in (xlow, xup] from below, [xlow, xup) from above.
	if v < s.xlow {
		v = s.wrapBelow(v)
		st |= stageWrapped
	} else if v > s.xup {
		v = s.wrapAbove(v)
		st |= stageWrapped
	}

	// Mirror fold. After mirroring at one edge v is at most the box midpoint
	// away from it, so the other edge cannot be crossed.
	lo := s.lower - s.al
	hi := s.upper + s.au
	if v < lo {
		v = lo + (lo - v)
		st |= stageMirrored
	} else if v > hi {
		v = hi - (v - hi)
		st |= stageMirrored
	}

	// Boundary easing. |d| <= 2a keeps d*(d/(4a)) finite; d*d is not for
	// bounds beyond ~1e154.
	var d float64
	switch {
	case v < s.lower+s.al:
		d = v - lo
		v = s.lower + d*(d/(4*s.al))
		st |= stageEased
	case v > s.upper-s.au:
		d = v - hi
		v = s.upper - d*(d/(4*s.au))
		st |= stageEased
	}

	// !(v >= lower) also catches NaN left by a pre-image beyond float64 range.
	if !(v >= s.lower) {
		v = s.lower
	} else if v > s.upper {
		v = s.upper
	}

	return v, st
}

// wrapBelow returns the point of (xlow, xup] congruent to v < xlow.
func (s segment) wrapBelow(v float64) float64 {
	m := modDiff(s.xlow, v, s.period)
	if math.IsInf(s.xup, 1) {
		return s.xlow + (s.period - m)
	}

	return s.xup - m
}

// wrapAbove returns the point of [xlow, xup) congruent to v > xup.
func (s segment) wrapAbove(v float64) float64 {
	m := modDiff(v, s.xup, s.period)
	if math.IsInf(s.xlow, -1) {
		return s.xup - (s.period - m)
	}

	return s.xlow + m
}

// modDiff returns (a-b) mod p for a > b. When a-b overflows, both operands
// are reduced into [0, p) first.
func modDiff(a, b, p float64) float64 {
	if d := a - b; !math.IsInf(d, 0) {
		return math.Mod(d, p)
	}
	m := posMod(a, p) - posMod(b, p)
	if m < 0 {
		m += p
	}

	return m
}

func posMod(x, p float64) float64 {
	m := math.Mod(x, p)
	if m < 0 {
		m += p
	}

	return m
}

// unfold is the inverse of the easing stage: it maps y back into
// [lower-al, upper+au] such that fold(unfold(y)) == y for y in [lower, upper].
// Implementation:
//   - Stage 0: fixed pair ⇒ lower.
//   - Stage 1: lower margin ⇒ (lower-al) + 2·sqrt(al)·sqrt(|y-lower|).
//   - Stage 2: upper margin ⇒ (upper+au) - 2·sqrt(au)·sqrt(|upper-y|).
//   - Stage 3: identity elsewhere.
//
// Complexity:
//   - Time O(1), Space O(1).
func (s segment) unfold(y float64) float64 {
	if s.fixed {
		return s.lower
	}

	switch {
	case y < s.lower+s.al:
		return (s.lower - s.al) + 2*math.Sqrt(s.al)*math.Sqrt(math.Abs(y-s.lower))
	case y > s.upper-s.au:
		return (s.upper + s.au) - 2*math.Sqrt(s.au)*math.Sqrt(math.Abs(s.upper-y))
	}

	return y
}
