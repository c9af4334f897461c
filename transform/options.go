// SPDX-License-Identifier: MIT

// Package transform: functional configuration for policies.
// This file defines:
//   - Option / Options (functional options with internal state),
//   - documented defaults (constants),
//   - WithX constructors with strong validation (panic on nonsensical values),
//   - gatherOptions helper (internal).
//
// Design goals:
//   - Deterministic behavior: results never depend on the worker count.
//   - No dead switches: each option impacts behavior and is covered by tests.
//   - Safe by construction: panic only on invalid parameters (programmer error).
package transform

import "math"

// ---------- Defaults (single source of truth) ----------

const (
	// DefaultStepFactor scales the narrowest box width into InitialStepSize.
	DefaultStepFactor = 0.3

	// DefaultWorkers runs the elementwise loop on the calling goroutine.
	DefaultWorkers = 1

	// DefaultParallelThreshold is the minimum number of elements before the
	// loop is split across workers; smaller arrays are not worth the fan-out.
	DefaultParallelThreshold = 4096
)

// ---------- Internal panic messages (no magic strings) ----------

const (
	panicWorkersInvalid    = "transform: WithWorkers: n must be >= 1"
	panicStepFactorInvalid = "transform: WithStepFactor: factor must be finite and > 0"
	panicThresholdInvalid  = "transform: WithParallelThreshold: n must be >= 0"
)

// Option mutates internal options. Safe to apply repeatedly (last wins).
type Option func(*Options)

// Options stores the effective configuration after applying Option setters.
// Fields are unexported; public constructors accept ...Option.
type Options struct {
	stepFactor        float64 // > 0; DefaultStepFactor
	workers           int     // >= 1; DefaultWorkers
	parallelThreshold int     // >= 0; DefaultParallelThreshold
}

// WithStepFactor sets the factor applied to the narrowest bound width by
// BoxConstraint.InitialStepSize.
// Implementation:
//   - Stage 1: validate factor is finite and > 0.
//   - Stage 2: return a setter.
//
// Errors:
//   - Panics with a stable message on invalid factor.
//
// Complexity:
//   - Time O(1), Space O(1).
func WithStepFactor(factor float64) Option {
	if math.IsNaN(factor) || math.IsInf(factor, 0) || factor <= 0 {
		panic(panicStepFactorInvalid)
	}

	return func(o *Options) { o.stepFactor = factor }
}

// WithWorkers splits the elementwise loop of Transform/Inverse over n
// goroutines once the array holds at least the parallel threshold.
// Implementation:
//   - Stage 1: validate n >= 1.
//   - Stage 2: return a setter.
//
// Behavior highlights:
//   - Output is bitwise identical for every n; elements are independent.
//
// Complexity:
//   - Time O(1), Space O(1).
func WithWorkers(n int) Option {
	if n < 1 {
		panic(panicWorkersInvalid)
	}

	return func(o *Options) { o.workers = n }
}

// WithParallelThreshold sets the minimum element count for the parallel path.
// Zero means "always split when workers > 1".
func WithParallelThreshold(n int) Option {
	if n < 0 {
		panic(panicThresholdInvalid)
	}

	return func(o *Options) { o.parallelThreshold = n }
}

// defaultOptions returns Options populated from the Default* constants.
func defaultOptions() Options {
	return Options{
		stepFactor:        DefaultStepFactor,
		workers:           DefaultWorkers,
		parallelThreshold: DefaultParallelThreshold,
	}
}

// gatherOptions applies opts over the defaults in order; nil options are skipped.
// Complexity: O(len(opts)).
func gatherOptions(opts ...Option) Options {
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	return o
}

// parallel reports whether an array with n elements should be split.
func (o Options) parallel(n int) bool {
	return o.workers > 1 && n > 1 && n >= o.parallelThreshold
}
