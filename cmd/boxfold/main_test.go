// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gopkg.in/yaml.v3"
)

const boxYAML = `
bounds:
  lower: [[0]]
  upper: [[2]]
transform:
  workers: 2
  parallel_threshold: 1
`

// run executes the CLI with args and stdin, capturing stdout and logs.
func run(t *testing.T, cfgBody, stdin string, args ...string) (string, *observer.ObservedLogs, error) {
	t.Helper()
	cfgPath := filepath.Join(t.TempDir(), "boxfold.yaml")
	if cfgBody != "" {
		require.NoError(t, os.WriteFile(cfgPath, []byte(cfgBody), 0o600))
	}

	var stdout, stderr bytes.Buffer
	a := newApp(strings.NewReader(stdin), &stdout, &stderr)

	var logs *observer.ObservedLogs
	a.newLogger = func(level string, _ bool) (*zap.Logger, error) {
		lvl, err := zapcore.ParseLevel(level)
		if err != nil {
			return nil, err
		}
		var core zapcore.Core
		core, logs = observer.New(lvl)

		return zap.New(core), nil
	}

	root := a.newRootCmd()
	root.SetArgs(append([]string{"--config", cfgPath}, args...))
	err := root.Execute()

	return stdout.String(), logs, err
}

func parseCSV(t *testing.T, s string) [][]float64 {
	t.Helper()
	m, err := readPoints(strings.NewReader(s))
	require.NoError(t, err)

	r, _ := m.Dims()
	out := make([][]float64, r)
	for i := 0; i < r; i++ {
		out[i] = m.RawRowView(i)
	}

	return out
}

var approx = cmpopts.EquateApprox(0, 1e-9)

// TestTransform_CSV folds stdin rows into the configured box.
func TestTransform_CSV(t *testing.T) {
	out, _, err := run(t, boxYAML, "1, 0, 2\n# comment\n5.5,-0.1,1\n", "transform")
	require.NoError(t, err)

	want := [][]float64{{1, 0.0125, 1.9625}, {1.1, 0.0125, 1}}
	if diff := cmp.Diff(want, parseCSV(t, out), approx); diff != "" {
		t.Fatalf("transform mismatch (-want +got):\n%s", diff)
	}
}

// TestTransform_YAMLFromFile reads --in and writes YAML.
func TestTransform_YAMLFromFile(t *testing.T) {
	in := filepath.Join(t.TempDir(), "points.csv")
	require.NoError(t, os.WriteFile(in, []byte("-3.3,3.3\n"), 0o600))

	out, _, err := run(t, boxYAML, "", "transform", "--in", in, "--format", "yaml")
	require.NoError(t, err)

	var doc pointsDoc
	require.NoError(t, yaml.Unmarshal([]byte(out), &doc))
	if diff := cmp.Diff([][]float64{{1.1, 1.0}}, doc.Points, approx); diff != "" {
		t.Fatalf("yaml mismatch (-want +got):\n%s", diff)
	}
}

// TestInverse_RoundTrip: transform(inverse(y)) == y.
func TestInverse_RoundTrip(t *testing.T) {
	in := "0,0.01,1\n1.99,2,0.2\n"
	inv, _, err := run(t, boxYAML, in, "inverse")
	require.NoError(t, err)

	back, _, err := run(t, boxYAML, inv, "transform")
	require.NoError(t, err)

	if diff := cmp.Diff(parseCSV(t, in), parseCSV(t, back), approx); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

// TestStepSize prints the box and identity step sizes.
func TestStepSize(t *testing.T) {
	out, _, err := run(t, boxYAML, "", "stepsize")
	require.NoError(t, err)
	assert.Equal(t, "0.6\n", out)

	out, _, err = run(t, "", "", "stepsize", "--identity")
	require.NoError(t, err)
	assert.Equal(t, "1\n", out)
}

// TestTransform_Errors covers missing bounds, bad input and bad flags.
func TestTransform_Errors(t *testing.T) {
	_, _, err := run(t, "", "1\n", "transform")
	assert.ErrorIs(t, err, errNoBounds)

	_, _, err = run(t, boxYAML, "", "transform")
	assert.ErrorIs(t, err, errNoPoints)

	_, _, err = run(t, boxYAML, "1,2\n3\n", "transform")
	assert.Error(t, err, "ragged rows")

	_, _, err = run(t, boxYAML, "1,abc\n", "transform")
	assert.ErrorContains(t, err, "row 1 col 2")

	_, _, err = run(t, boxYAML, "1\n", "transform", "--format", "json")
	assert.ErrorContains(t, err, "unknown format")

	_, _, err = run(t, "bounds:\n  lower: [[3]]\n  upper: [[1]]\n", "", "stepsize")
	assert.ErrorContains(t, err, "upper bound below lower bound")
}

// TestTransform_VerboseLogsStatsAndMetrics checks the debug records.
func TestTransform_VerboseLogsStatsAndMetrics(t *testing.T) {
	_, logs, err := run(t, boxYAML, "1,0,5.5,-0.1\n", "transform", "--verbose")
	require.NoError(t, err)

	done := logs.FilterMessage("transform done").All()
	require.Len(t, done, 1)
	fields := done[0].ContextMap()
	assert.EqualValues(t, 4, fields["total"])
	assert.EqualValues(t, 1, fields["wrapped"])
	assert.EqualValues(t, 2, fields["eased"])

	calls := logs.FilterMessage("metric").FilterField(zap.String("name", "boxfold_transform_calls_total")).All()
	require.Len(t, calls, 1)
	assert.EqualValues(t, 1.0, calls[0].ContextMap()["value"])
}

// TestTransform_QuietByDefault logs nothing at debug level without --verbose.
func TestTransform_QuietByDefault(t *testing.T) {
	_, logs, err := run(t, boxYAML, "1\n", "transform")
	require.NoError(t, err)
	assert.Zero(t, logs.FilterMessage("transform done").Len())
}
