// SPDX-License-Identifier: MIT

// Package config loads boxfold settings from a YAML file overlaid with
// BOXFOLD__-prefixed environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"go.uber.org/zap/zapcore"
	"gonum.org/v1/gonum/mat"
	yamlv3 "gopkg.in/yaml.v3"

	"github.com/katalvlaran/boxfold/transform"
)

// EnvPrefix marks environment variables read by Load. Nesting uses "__":
// BOXFOLD__TRANSFORM__WORKERS=4 sets transform.workers, and
// BOXFOLD__BOUNDS__UPPER='[[2, 2]]' sets the upper bound rows.
const EnvPrefix = "BOXFOLD__"

// Sentinel errors.
var (
	// ErrMissingBounds is returned by Matrices when lower or upper is absent.
	ErrMissingBounds = errors.New("config: missing bounds")

	// ErrRaggedBounds is returned when bound rows differ in length.
	ErrRaggedBounds = errors.New("config: ragged bounds")

	// ErrInvalidValue is returned by Validate for out-of-range settings.
	ErrInvalidValue = errors.New("config: invalid value")
)

// Config is the full file/env configuration.
type Config struct {
	Bounds    BoundsConfig    `koanf:"bounds"`
	Transform TransformConfig `koanf:"transform"`
	Log       LogConfig       `koanf:"log"`
}

// BoundsConfig holds bound matrices as lists of rows.
type BoundsConfig struct {
	Lower [][]float64 `koanf:"lower"`
	Upper [][]float64 `koanf:"upper"`
}

// TransformConfig maps onto transform options.
type TransformConfig struct {
	Workers           int     `koanf:"workers"`            // >= 1
	StepFactor        float64 `koanf:"step_factor"`        // > 0
	ParallelThreshold int     `koanf:"parallel_threshold"` // >= 0
}

// LogConfig selects the CLI logger.
type LogConfig struct {
	Level string `koanf:"level"` // debug|info|warn|error
	JSON  bool   `koanf:"json"`
}

// defaults seeds every key before the file and env layers, so an explicit
// zero in either layer survives to Validate.
func defaults() map[string]interface{} {
	return map[string]interface{}{
		"transform.workers":            transform.DefaultWorkers,
		"transform.step_factor":        transform.DefaultStepFactor,
		"transform.parallel_threshold": transform.DefaultParallelThreshold,
		"log.level":                    "info",
		"log.json":                     false,
	}
}

// Load layers defaults, YAML at path (skipped when the file does not exist or
// path is empty) and environment variables, in that order.
// It does not validate; call Validate.
func Load(path string) (Config, error) {
	k := koanf.New(".")
	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return Config{}, fmt.Errorf("config: load defaults: %w", err)
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil &&
			!errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("config: load %s: %w", path, err)
		}
	}

	if err := k.Load(env.ProviderWithValue(EnvPrefix, ".", envKeyValue), nil); err != nil {
		return Config{}, fmt.Errorf("config: load env: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal: %w", err)
	}

	return cfg, nil
}

// envKeyValue turns BOXFOLD__TRANSFORM__STEP_FACTOR into transform.step_factor.
// Bound lists are parsed as YAML flow sequences, e.g.
// BOXFOLD__BOUNDS__LOWER='[[0, 0], [1, 1]]'; an unparsable list is passed on
// as a string and fails in Unmarshal.
func envKeyValue(key, value string) (string, interface{}) {
	key = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(key, EnvPrefix)), "__", ".")
	if key != "bounds.lower" && key != "bounds.upper" {
		return key, value
	}

	var rows [][]float64
	if err := yamlv3.Unmarshal([]byte(value), &rows); err != nil {
		return key, value
	}

	return key, rows
}

// Validate reports the first out-of-range setting or malformed bound list.
// Missing bounds are not an error here; only Matrices requires them.
func (c Config) Validate() error {
	if c.Transform.Workers < 1 {
		return fmt.Errorf("%w: transform.workers = %d, want >= 1", ErrInvalidValue, c.Transform.Workers)
	}
	sf := c.Transform.StepFactor
	if math.IsNaN(sf) || math.IsInf(sf, 0) || sf <= 0 {
		return fmt.Errorf("%w: transform.step_factor = %g, want finite > 0", ErrInvalidValue, sf)
	}
	if c.Transform.ParallelThreshold < 0 {
		return fmt.Errorf("%w: transform.parallel_threshold = %d, want >= 0", ErrInvalidValue, c.Transform.ParallelThreshold)
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: log.level = %q", ErrInvalidValue, c.Log.Level)
	}
	if _, err := rowsShape("bounds.lower", c.Bounds.Lower); err != nil {
		return err
	}
	if _, err := rowsShape("bounds.upper", c.Bounds.Upper); err != nil {
		return err
	}

	return nil
}

// Options converts the transform section into transform options.
// Call Validate first; invalid values make the option constructors panic.
func (c Config) Options() []transform.Option {
	return []transform.Option{
		transform.WithWorkers(c.Transform.Workers),
		transform.WithStepFactor(c.Transform.StepFactor),
		transform.WithParallelThreshold(c.Transform.ParallelThreshold),
	}
}

// HasBounds reports whether both bound lists are present.
func (b BoundsConfig) HasBounds() bool {
	return len(b.Lower) > 0 && len(b.Upper) > 0
}

// Matrices converts the row lists into dense matrices.
// Errors: ErrMissingBounds, ErrRaggedBounds.
func (b BoundsConfig) Matrices() (lower, upper *mat.Dense, err error) {
	if lower, err = rowsToDense("bounds.lower", b.Lower); err != nil {
		return nil, nil, err
	}
	if upper, err = rowsToDense("bounds.upper", b.Upper); err != nil {
		return nil, nil, err
	}

	return lower, upper, nil
}

// rowsShape returns the column count of a rectangular row list (0 when empty).
func rowsShape(key string, rows [][]float64) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	cols := len(rows[0])
	for i, r := range rows {
		if len(r) == 0 || len(r) != cols {
			return 0, fmt.Errorf("%w: %s row %d has %d values, want %d", ErrRaggedBounds, key, i, len(r), cols)
		}
	}

	return cols, nil
}

func rowsToDense(key string, rows [][]float64) (*mat.Dense, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingBounds, key)
	}
	cols, err := rowsShape(key, rows)
	if err != nil {
		return nil, err
	}

	data := make([]float64, 0, len(rows)*cols)
	for _, r := range rows {
		data = append(data, r...)
	}

	return mat.NewDense(len(rows), cols, data), nil
}
