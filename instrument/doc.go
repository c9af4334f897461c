// SPDX-License-Identifier: MIT

// Package instrument decorates a transform.Policy with Prometheus metrics.
//
// 📊 Metrics (default namespace "boxfold"):
//
//	boxfold_transform_calls_total              counter
//	boxfold_transform_elements_total{stage}    counter vec
//	boxfold_transform_duration_seconds         histogram
//
// The stage label takes the values total, interior, wrapped, mirrored,
// eased, fixed and non_finite. Only "total" is populated when the wrapped
// policy does not implement transform.StatsReporter.
//
// 🚀 Usage:
//
//	reg := prometheus.NewRegistry()
//	p, err := instrument.Wrap(box, reg)
//	if err != nil { … }
//	y := p.Transform(x)
//
// The decorator adds no locking of its own; Prometheus collectors are safe
// for concurrent use, so p is as concurrency-safe as the wrapped policy.
package instrument
