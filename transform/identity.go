// SPDX-License-Identifier: MIT

package transform

import "gonum.org/v1/gonum/mat"

// identityStepSize is the fixed step size of the unconstrained policy.
const identityStepSize = 1.0

// Identity is the policy for unconstrained problems: Transform and Inverse
// return a copy of their input and InitialStepSize is always 1.
// The zero value is ready to use.
type Identity struct{}

var (
	_ Policy        = Identity{}
	_ Inverter      = Identity{}
	_ StatsReporter = Identity{}
)

// Transform returns a new matrix equal to x.
// Complexity: O(rows*cols).
func (Identity) Transform(x mat.Matrix) *mat.Dense {
	out, _ := Identity{}.TransformWithStats(x)

	return out
}

// TransformWithStats returns a copy of x; every element counts as interior.
func (Identity) TransformWithStats(x mat.Matrix) (*mat.Dense, Stats) {
	r, c := x.Dims()
	if r == 0 || c == 0 {
		return &mat.Dense{}, Stats{}
	}

	return mat.DenseCopyOf(x), Stats{Total: r * c, Interior: r * c}
}

// Inverse returns a new matrix equal to y.
func (Identity) Inverse(y mat.Matrix) *mat.Dense {
	return Identity{}.Transform(y)
}

// InitialStepSize returns 1.
func (Identity) InitialStepSize() float64 { return identityStepSize }
