// SPDX-License-Identifier: MIT

package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"
	"gopkg.in/yaml.v3"
)

const (
	formatCSV  = "csv"
	formatYAML = "yaml"
)

var errNoPoints = errors.New("no input points")

func checkFormat(f string) error {
	switch f {
	case formatCSV, formatYAML:
		return nil
	}

	return fmt.Errorf("unknown format %q (want csv or yaml)", f)
}

// readInput reads points from path, or from stdin when path is empty.
func (a *app) readInput(path string) (*mat.Dense, error) {
	if path == "" {
		return readPoints(a.stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return readPoints(f)
}

// readPoints parses CSV rows of floats into a matrix. Every row must have
// the same number of fields; lines starting with '#' are skipped.
func readPoints(r io.Reader) (*mat.Dense, error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read points: %w", err)
	}
	if len(records) == 0 {
		return nil, errNoPoints
	}

	rows, cols := len(records), len(records[0])
	data := make([]float64, 0, rows*cols)
	for i, rec := range records {
		for j, field := range rec {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, fmt.Errorf("read points: row %d col %d: %w", i+1, j+1, err)
			}
			data = append(data, v)
		}
	}

	return mat.NewDense(rows, cols, data), nil
}

// pointsDoc is the YAML output document.
type pointsDoc struct {
	Points [][]float64 `yaml:"points"`
}

// writePoints writes m as CSV rows or as a YAML document.
func writePoints(w io.Writer, format string, m *mat.Dense) error {
	r, _ := m.Dims()
	rows := make([][]float64, r)
	var i int
	for i = 0; i < r; i++ {
		rows[i] = m.RawRowView(i)
	}

	if format == formatYAML {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(pointsDoc{Points: rows}); err != nil {
			return err
		}

		return enc.Close()
	}

	cw := csv.NewWriter(w)
	rec := make([]string, 0)
	for _, row := range rows {
		rec = rec[:0]
		for _, v := range row {
			rec = append(rec, strconv.FormatFloat(v, 'g', -1, 64))
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()

	return cw.Error()
}
