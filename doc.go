// Package boxfold keeps CMA-ES candidate solutions inside box constraints
// by transforming coordinates instead of rejecting or penalizing them.
//
// 🚀 What is boxfold?
//
//	A small library plus CLI that brings together:
//		• Policies: Identity (unconstrained) and BoxConstraint ([lower, upper])
//		• A smooth, periodic boundary map: fold, mirror, quadratic easing
//		• Bound broadcasting: one pair, per-row, per-column or full arrays
//		• Initial step size heuristic: 0.3 × narrowest box width
//		• Optional inverse, per-stage statistics, Prometheus metrics
//
// ✨ Why choose boxfold?
//
//   - Every finite candidate becomes feasible; no resampling loop.
//   - Interior points pass through unchanged, so the optimizer's geometry
//     is untouched away from the boundary.
//   - Immutable policies: safe to share across goroutines.
//
// Packages:
//
//	transform/   : Policy, Identity, BoxConstraint, options and errors
//	instrument/  : Prometheus decorator for any transform.Policy
//	internal/    : koanf-backed config and zap logger for the CLI
//	cmd/boxfold/ : transform / inverse / stepsize commands
//
// Quick ASCII example (bounds [0, 2]):
//
//	x:  -3.3   -0.1    0     1     2    5.5
//	y:   1.1  0.0125 0.0125  1  1.9625  1.1
//
//	go get github.com/katalvlaran/boxfold/transform
package boxfold
