// SPDX-License-Identifier: MIT

package main

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/katalvlaran/boxfold/instrument"
	"github.com/katalvlaran/boxfold/transform"
)

// ioFlags are shared by transform and inverse.
type ioFlags struct {
	in     string
	format string
}

func (f *ioFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.in, "in", "", "input CSV file (default stdin)")
	cmd.Flags().StringVar(&f.format, "format", formatCSV, "output format: csv|yaml")
}

func (a *app) newTransformCmd() *cobra.Command {
	var f ioFlags
	cmd := &cobra.Command{
		Use:   "transform",
		Short: "Fold points into the configured bounds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(f.format); err != nil {
				return err
			}
			p, err := a.policy()
			if err != nil {
				return err
			}
			x, err := a.readInput(f.in)
			if err != nil {
				return err
			}

			reg := prometheus.NewRegistry()
			ip, err := instrument.Wrap(p, reg)
			if err != nil {
				return err
			}
			y, stats := ip.TransformWithStats(x)
			a.logger.Debug("transform done",
				zap.Int("total", stats.Total),
				zap.Int("interior", stats.Interior),
				zap.Int("wrapped", stats.Wrapped),
				zap.Int("mirrored", stats.Mirrored),
				zap.Int("eased", stats.Eased),
				zap.Int("fixed", stats.Fixed),
				zap.Int("non_finite", stats.NonFinite),
			)
			a.logMetrics(reg)

			return writePoints(a.stdout, f.format, y)
		},
	}
	f.register(cmd)

	return cmd
}

func (a *app) newInverseCmd() *cobra.Command {
	var f ioFlags
	cmd := &cobra.Command{
		Use:   "inverse",
		Short: "Map feasible points back to pre-images of transform",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(f.format); err != nil {
				return err
			}
			p, err := a.policy()
			if err != nil {
				return err
			}
			inv, ok := p.(transform.Inverter)
			if !ok {
				return fmt.Errorf("policy %T has no inverse", p)
			}
			y, err := a.readInput(f.in)
			if err != nil {
				return err
			}

			return writePoints(a.stdout, f.format, inv.Inverse(y))
		},
	}
	f.register(cmd)

	return cmd
}

func (a *app) newStepSizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stepsize",
		Short: "Print the initial step size of the configured policy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.policy()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(a.stdout, "%g\n", p.InitialStepSize())

			return err
		},
	}
}

// logMetrics writes every gathered sample at debug level.
func (a *app) logMetrics(g prometheus.Gatherer) {
	if !a.logger.Core().Enabled(zap.DebugLevel) {
		return
	}
	mfs, err := g.Gather()
	if err != nil {
		a.logger.Warn("gather metrics", zap.Error(err))
		return
	}
	for _, mf := range mfs {
		for _, m := range mf.GetMetric() {
			a.logger.Debug("metric",
				zap.String("name", mf.GetName()),
				zap.Any("labels", labelMap(m.GetLabel())),
				zap.Float64("value", metricValue(mf.GetType(), m)),
			)
		}
	}
}

func labelMap(pairs []*dto.LabelPair) map[string]string {
	out := make(map[string]string, len(pairs))
	for _, lp := range pairs {
		out[lp.GetName()] = lp.GetValue()
	}

	return out
}

// metricValue returns the counter/gauge value, or the sample sum of a histogram.
func metricValue(t dto.MetricType, m *dto.Metric) float64 {
	switch t {
	case dto.MetricType_COUNTER:
		return m.GetCounter().GetValue()
	case dto.MetricType_GAUGE:
		return m.GetGauge().GetValue()
	case dto.MetricType_HISTOGRAM:
		return m.GetHistogram().GetSampleSum()
	}

	return 0
}
