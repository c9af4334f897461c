// SPDX-License-Identifier: MIT

// Package transform maps unconstrained search points into box-constrained
// coordinates for CMA-ES-family optimizers.
//
// 🚀 What is a transformation policy?
//
//	An optimizer samples candidates in R^n and never learns about bounds.
//	Right before the objective is evaluated, every candidate is passed
//	through a Policy which returns a feasible point. The optimizer also asks
//	the policy once for an initial mutation scale (InitialStepSize).
//
// ✨ Policies:
//   - Identity      : no constraints; Transform copies, step size is 1.
//   - BoxConstraint : per-coordinate [lower, upper] box; smooth folding map
//     that is the identity deep inside the box.
//
// ⚙️ The boundary map (per element, bound pair l < u):
//
//	diff = (u-l)/2
//	al   = min(diff, (1+|l|)/20)        au = min(diff, (1+|u|)/20)
//	pre-image [xlow, xup] = [l-2al-diff, u+2au+diff], period r = xup-xlow
//
//	1. periodic fold into [xlow, xup] (shift by k·r, never clamp)
//	2. mirror across l-al or u+au
//	3. quadratic easing inside the margins [l-al, l+al] and [u-au, u+au]
//
//	       u ┤            ╭──╮
//	         │          ╱      ╲
//	         │        ╱          ╲        (one period of the map)
//	       l ┤──╮   ╱              ╲   ╭──
//	            ╰─╯                  ╰─╯
//
// Bounds smaller than the coordinate array are broadcast: a position (i,j)
// beyond the last bound row/column reuses that last row/column. A pair with
// l == u fixes the coordinate at l.
//
// Usage:
//
//	box, err := transform.NewScalarBoxConstraint(0, 2)
//	if err != nil {
//	  // ErrInvertedBounds, ErrNaNInf, ...
//	}
//	sigma := box.InitialStepSize()      // 0.6
//	y := box.Transform(candidate)        // every element in [0, 2]
//
// Policies are immutable after construction and safe for concurrent use.
// BoxConstraint.WithBounds returns a new policy instead of mutating bounds.
//
// Complexity: Transform and Inverse are O(rows·cols); construction is
// O(bound elements).
package transform
