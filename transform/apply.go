// SPDX-License-Identifier: MIT

// Package transform - elementwise driver shared by every policy.
//
// Purpose:
//   - Copy the input once into a fresh row-major *mat.Dense and rewrite that
//     copy in place; the caller's matrix is never touched.
//   - Keep a fixed i→j visiting order inside each chunk; chunks cover disjoint
//     element ranges, so the parallel path writes no shared cell and the
//     result does not depend on the worker count.
package transform

import (
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"
)

// elementFunc maps element (i,j) with value v to its new value and stage set.
type elementFunc func(i, j int, v float64) (float64, stage)

// applyElements returns f applied to every element of x plus the stage counts.
// Implementation:
//   - Stage 1: empty input ⇒ empty result (gonum forbids zero-sized NewDense).
//   - Stage 2: copy x into a fresh Dense.
//   - Stage 3: sequential loop, or split [0, r*c) into o.workers chunks run
//     through an errgroup; per-chunk Stats are merged after Wait.
//
// Inputs:
//   - x: any non-nil mat.Matrix (transposes and views included).
//
// Complexity:
//   - Time O(r*c), Space O(r*c) for the result (+O(workers) for stats).
func (o Options) applyElements(x mat.Matrix, f elementFunc) (*mat.Dense, Stats) {
	r, c := x.Dims()
	if r == 0 || c == 0 {
		return &mat.Dense{}, Stats{}
	}

	out := mat.DenseCopyOf(x)
	raw := out.RawMatrix()
	n := r * c
	if !o.parallel(n) {
		return out, applyRange(raw.Data, raw.Stride, c, 0, n, f)
	}

	workers := o.workers
	if workers > n {
		workers = n
	}
	chunk := (n + workers - 1) / workers
	partial := make([]Stats, workers)

	// w, from and to are scoped per iteration; each goroutine keeps its own.
	var g errgroup.Group
	for w := 0; w < workers; w++ {
		from := w * chunk
		if from >= n {
			break
		}
		to := min(from+chunk, n)
		g.Go(func() error {
			partial[w] = applyRange(raw.Data, raw.Stride, c, from, to, f)
			return nil
		})
	}
	_ = g.Wait() // workers never fail

	var total Stats
	for _, s := range partial {
		total = total.Add(s)
	}

	return out, total
}

// applyRange rewrites flat elements [from, to) of a row-major buffer.
// k is the logical index i*cols+j; the storage offset honors stride.
// Complexity: O(to-from).
func applyRange(data []float64, stride, cols, from, to int, f elementFunc) Stats {
	var (
		st   Stats
		k    int     // logical element index
		i, j int     // coordinates of k
		off  int     // storage offset of (i,j)
		nv   float64 // new value
		s    stage   // stages applied to this element
	)
	i, j = from/cols, from%cols
	for k = from; k < to; k++ {
		off = i*stride + j
		nv, s = f(i, j, data[off])
		data[off] = nv
		st.record(s)

		j++
		if j == cols {
			i, j = i+1, 0
		}
	}

	return st
}
