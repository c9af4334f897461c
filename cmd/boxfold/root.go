// SPDX-License-Identifier: MIT

package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/katalvlaran/boxfold/internal/config"
	"github.com/katalvlaran/boxfold/internal/logging"
	"github.com/katalvlaran/boxfold/transform"
)

// errNoBounds is returned when a box policy is requested without bounds.
var errNoBounds = errors.New("no bounds configured (set bounds.lower/upper or pass --identity)")

// app carries state shared by all subcommands of one invocation.
type app struct {
	stdin          io.Reader
	stdout, stderr io.Writer

	// flags
	cfgPath  string
	verbose  bool
	identity bool

	cfg    config.Config
	logger *zap.Logger

	// newLogger is replaced in tests.
	newLogger func(level string, json bool) (*zap.Logger, error)
}

func newApp(stdin io.Reader, stdout, stderr io.Writer) *app {
	return &app{
		stdin:     stdin,
		stdout:    stdout,
		stderr:    stderr,
		newLogger: func(level string, json bool) (*zap.Logger, error) { return logging.New(level, json) },
	}
}

func (a *app) newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "boxfold",
		Short: "Map candidate points into box constraints",
		Long: `boxfold applies the boundary transformation used by CMA-ES to keep
candidate solutions inside [lower, upper] boxes. Points are read as CSV rows.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	root.SetIn(a.stdin)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgPath, "config", "boxfold.yaml", "YAML config file (optional)")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")
	pf.BoolVar(&a.identity, "identity", false, "use the identity policy (no bounds)")

	root.AddCommand(
		a.newTransformCmd(),
		a.newInverseCmd(),
		a.newStepSizeCmd(),
	)

	return root
}

// setup loads configuration and builds the logger.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(a.cfgPath)
	if err != nil {
		return err
	}
	if a.verbose {
		cfg.Log.Level = "debug"
	}
	if err = cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	a.logger, err = a.newLogger(cfg.Log.Level, cfg.Log.JSON)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	a.logger.Debug("configuration loaded",
		zap.String("path", a.cfgPath),
		zap.Int("workers", cfg.Transform.Workers),
		zap.Float64("step_factor", cfg.Transform.StepFactor),
		zap.Bool("identity", a.identity),
	)

	return nil
}

// policy builds the configured policy: Identity, or a BoxConstraint from
// the config bounds.
func (a *app) policy() (transform.Policy, error) {
	if a.identity {
		return transform.Identity{}, nil
	}
	if !a.cfg.Bounds.HasBounds() {
		return nil, errNoBounds
	}
	lower, upper, err := a.cfg.Bounds.Matrices()
	if err != nil {
		return nil, err
	}
	box, err := transform.NewBoxConstraint(lower, upper, a.cfg.Options()...)
	if err != nil {
		return nil, err
	}
	r, c := box.Shape()
	a.logger.Debug("box policy ready", zap.Int("rows", r), zap.Int("cols", c))

	return box, nil
}
