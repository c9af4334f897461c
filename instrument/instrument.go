// SPDX-License-Identifier: MIT

package instrument

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/boxfold/transform"
)

// DefaultNamespace prefixes every metric name.
const DefaultNamespace = "boxfold"

const subsystem = "transform"

// Stage label values of the elements counter.
const (
	StageTotal     = "total"
	StageInterior  = "interior"
	StageWrapped   = "wrapped"
	StageMirrored  = "mirrored"
	StageEased     = "eased"
	StageFixed     = "fixed"
	StageNonFinite = "non_finite"
)

// Sentinel errors.
var (
	// ErrNilPolicy is returned when Wrap receives no policy.
	ErrNilPolicy = errors.New("instrument: nil policy")

	// ErrNilRegisterer is returned when Wrap receives no registerer.
	ErrNilRegisterer = errors.New("instrument: nil registerer")
)

// Option configures Wrap.
type Option func(*options)

type options struct {
	namespace   string
	constLabels prometheus.Labels
}

// WithNamespace replaces DefaultNamespace. An empty namespace drops the prefix.
func WithNamespace(ns string) Option {
	return func(o *options) { o.namespace = ns }
}

// WithConstLabels attaches constant labels to every metric, e.g. to tell
// several wrapped policies apart in one registry.
func WithConstLabels(l prometheus.Labels) Option {
	return func(o *options) { o.constLabels = l }
}

// Policy is a transform.Policy that records metrics for every Transform.
type Policy struct {
	inner    transform.Policy
	reporter transform.StatsReporter // nil when inner reports no stats

	calls    prometheus.Counter
	elements *prometheus.CounterVec
	duration prometheus.Histogram
}

var (
	_ transform.Policy        = (*Policy)(nil)
	_ transform.StatsReporter = (*Policy)(nil)
)

// Wrap returns p decorated with the three transform metrics registered on reg.
// Implementation:
//   - Stage 1: validate inputs and resolve options.
//   - Stage 2: build collectors.
//   - Stage 3: register them; the first failure is returned and nothing
//     stays half-registered.
//
// Errors:
//   - ErrNilPolicy, ErrNilRegisterer, or the registry's error (e.g.
//     prometheus.AlreadyRegisteredError when the same namespace and labels
//     are wrapped twice on one registry).
func Wrap(p transform.Policy, reg prometheus.Registerer, opts ...Option) (*Policy, error) {
	if p == nil {
		return nil, ErrNilPolicy
	}
	if reg == nil {
		return nil, ErrNilRegisterer
	}

	o := options{namespace: DefaultNamespace}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	ip := &Policy{
		inner: p,
		calls: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   o.namespace,
			Subsystem:   subsystem,
			Name:        "calls_total",
			Help:        "Number of Transform calls.",
			ConstLabels: o.constLabels,
		}),
		elements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   o.namespace,
			Subsystem:   subsystem,
			Name:        "elements_total",
			Help:        "Number of transformed elements by map stage.",
			ConstLabels: o.constLabels,
		}, []string{"stage"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace:   o.namespace,
			Subsystem:   subsystem,
			Name:        "duration_seconds",
			Help:        "Wall time of one Transform call.",
			ConstLabels: o.constLabels,
			Buckets:     prometheus.ExponentialBuckets(1e-6, 4, 12),
		}),
	}
	if sr, ok := p.(transform.StatsReporter); ok {
		ip.reporter = sr
	}

	collectors := []prometheus.Collector{ip.calls, ip.elements, ip.duration}
	var i int
	for i = 0; i < len(collectors); i++ {
		if err := reg.Register(collectors[i]); err != nil {
			for _, c := range collectors[:i] {
				reg.Unregister(c)
			}
			return nil, fmt.Errorf("instrument: register: %w", err)
		}
	}

	return ip, nil
}

// Unwrap returns the decorated policy.
func (p *Policy) Unwrap() transform.Policy { return p.inner }

// Transform delegates to the wrapped policy and records the call.
func (p *Policy) Transform(x mat.Matrix) *mat.Dense {
	out, _ := p.TransformWithStats(x)

	return out
}

// TransformWithStats delegates to the wrapped policy and records the call.
// For a policy without stats the result carries only Total.
func (p *Policy) TransformWithStats(x mat.Matrix) (*mat.Dense, transform.Stats) {
	timer := prometheus.NewTimer(p.duration)
	defer timer.ObserveDuration()

	var (
		out   *mat.Dense
		stats transform.Stats
	)
	if p.reporter != nil {
		out, stats = p.reporter.TransformWithStats(x)
	} else {
		out = p.inner.Transform(x)
		r, c := out.Dims()
		stats.Total = r * c
	}

	p.calls.Inc()
	p.observe(stats)

	return out, stats
}

// InitialStepSize delegates to the wrapped policy.
func (p *Policy) InitialStepSize() float64 { return p.inner.InitialStepSize() }

// observe adds the stage counts to the elements counter.
func (p *Policy) observe(s transform.Stats) {
	p.elements.WithLabelValues(StageTotal).Add(float64(s.Total))
	if p.reporter == nil {
		return
	}
	p.elements.WithLabelValues(StageInterior).Add(float64(s.Interior))
	p.elements.WithLabelValues(StageWrapped).Add(float64(s.Wrapped))
	p.elements.WithLabelValues(StageMirrored).Add(float64(s.Mirrored))
	p.elements.WithLabelValues(StageEased).Add(float64(s.Eased))
	p.elements.WithLabelValues(StageFixed).Add(float64(s.Fixed))
	p.elements.WithLabelValues(StageNonFinite).Add(float64(s.NonFinite))
}
