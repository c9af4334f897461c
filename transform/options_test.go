// SPDX-License-Identifier: MIT

package transform_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/boxfold/transform"
)

// TestOptions_Panics pins the stable panic messages of invalid options.
func TestOptions_Panics(t *testing.T) {
	assert.PanicsWithValue(t, "transform: WithWorkers: n must be >= 1", func() { transform.WithWorkers(0) })
	assert.PanicsWithValue(t, "transform: WithStepFactor: factor must be finite and > 0", func() { transform.WithStepFactor(0) })
	assert.PanicsWithValue(t, "transform: WithStepFactor: factor must be finite and > 0", func() { transform.WithStepFactor(math.NaN()) })
	assert.PanicsWithValue(t, "transform: WithStepFactor: factor must be finite and > 0", func() { transform.WithStepFactor(math.Inf(1)) })
	assert.PanicsWithValue(t, "transform: WithParallelThreshold: n must be >= 0", func() { transform.WithParallelThreshold(-1) })
}

// TestOptions_NilSkippedLastWins: nil options are ignored and later options override.
func TestOptions_NilSkippedLastWins(t *testing.T) {
	b, err := transform.NewScalarBoxConstraint(0, 2, nil, transform.WithStepFactor(2), transform.WithStepFactor(0.5))
	require.NoError(t, err)

	assert.InDelta(t, 1.0, b.InitialStepSize(), 1e-15)
}

// TestOptions_ParallelMatchesSequential: the worker count never changes the result.
func TestOptions_ParallelMatchesSequential(t *testing.T) {
	lower := mat.NewDense(1, 7, []float64{0, -1, 10, 3, 3, -100, 1e-3})
	upper := mat.NewDense(1, 7, []float64{2, 1, 10.5, 3, 4, 100, 2e-3})

	seq, err := transform.NewBoxConstraint(lower, upper)
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(99))
	x := randomDense(rng, 61, 7, 1e4)
	x.Set(3, 2, math.NaN())
	wantY, wantStats := seq.TransformWithStats(x)
	wantInv := seq.Inverse(wantY)

	for _, workers := range []int{2, 3, 8, 1000} {
		par, err := transform.NewBoxConstraint(lower, upper,
			transform.WithWorkers(workers),
			transform.WithParallelThreshold(0),
		)
		require.NoError(t, err)

		gotY, gotStats := par.TransformWithStats(x)
		// NaN != NaN under ==; compare raw bit patterns instead.
		if diff := cmp.Diff(bits(wantY), bits(gotY)); diff != "" {
			t.Fatalf("workers=%d transform mismatch (-want +got):\n%s", workers, diff)
		}
		assert.Equal(t, wantStats, gotStats, "workers=%d", workers)

		if diff := cmp.Diff(bits(wantInv), bits(par.Inverse(wantY))); diff != "" {
			t.Fatalf("workers=%d inverse mismatch (-want +got):\n%s", workers, diff)
		}
	}
}

// TestOptions_ThresholdKeepsSmallInputSequential still yields identical output.
func TestOptions_ThresholdKeepsSmallInputSequential(t *testing.T) {
	b, err := transform.NewScalarBoxConstraint(0, 2, transform.WithWorkers(4))
	require.NoError(t, err)

	y := b.Transform(mat.NewDense(1, 3, []float64{1, 5.5, -0.1}))
	assert.InDeltaSlice(t, []float64{1, 1.1, 0.0125}, y.RawRowView(0), 1e-9)
}

// bits flattens m into IEEE-754 bit patterns for exact comparison.
func bits(m *mat.Dense) []uint64 {
	r, c := m.Dims()
	out := make([]uint64, 0, r*c)

	var i, j int
	for i = 0; i < r; i++ {
		for j = 0; j < c; j++ {
			out = append(out, math.Float64bits(m.At(i, j)))
		}
	}

	return out
}

// TestOptions_ParallelCoversEveryChunk: uneven chunks each transform their
// own range and report their own counts.
func TestOptions_ParallelCoversEveryChunk(t *testing.T) {
	b, err := transform.NewScalarBoxConstraint(0, 2,
		transform.WithWorkers(3),
		transform.WithParallelThreshold(0),
	)
	require.NoError(t, err)

	x := mat.NewDense(1, 7, []float64{5.5, 5.5, 5.5, 5.5, 5.5, 5.5, 5.5})
	y, stats := b.TransformWithStats(x)

	assert.InDeltaSlice(t, []float64{1.1, 1.1, 1.1, 1.1, 1.1, 1.1, 1.1}, y.RawRowView(0), 1e-9)
	assert.Equal(t, transform.Stats{Total: 7, Wrapped: 7}, stats)
}
