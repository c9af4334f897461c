// SPDX-License-Identifier: MIT

package transform

// Test-Bridge (White-Box) for the Per-Element Kernels
//
// Purpose:
//   - Expose UNEXPORTED segment math (fold, unfold, parameters) and the
//     broadcast rule to transform_test ONLY.
//   - Check scalar properties of the map without building matrices.
//
// Build Policy:
//   - The _test.go suffix keeps this file out of production builds; no build
//     tag is needed.
//   - File is in package transform, so it can access private symbols.
//
// Provided Surface:
//   - FoldScalar / UnfoldScalar: one bound pair, one value.
//   - SegmentParams: precomputed margins, pre-image and period.
//   - ExportedBroadcastIndex: alias of broadcastIndex.
//
// Behavior & Determinism:
//   - Thin pass-through wrappers; no side effects.

// FoldScalar applies the forward map of the pair [lower, upper] to v.
func FoldScalar(lower, upper, v float64) float64 {
	out, _ := newSegment(lower, upper).fold(v)

	return out
}

// UnfoldScalar applies the inverse map of the pair [lower, upper] to y.
func UnfoldScalar(lower, upper, y float64) float64 {
	return newSegment(lower, upper).unfold(y)
}

// SegmentParams returns the precomputed margins, pre-image and period.
func SegmentParams(lower, upper float64) (al, au, xlow, xup, period float64) {
	s := newSegment(lower, upper)

	return s.al, s.au, s.xlow, s.xup, s.period
}

// ExportedBroadcastIndex exposes broadcastIndex.
var ExportedBroadcastIndex = broadcastIndex
