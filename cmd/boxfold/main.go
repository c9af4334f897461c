// SPDX-License-Identifier: MIT

// Command boxfold maps candidate points into box constraints from the
// command line.
//
//	boxfold transform --in points.csv         # fold rows into the configured box
//	boxfold inverse --format yaml < feasible.csv
//	boxfold stepsize                          # initial CMA-ES step size
//
// Bounds and transform options come from boxfold.yaml (see --config) and
// BOXFOLD__* environment variables.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newApp(os.Stdin, os.Stdout, os.Stderr).newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
