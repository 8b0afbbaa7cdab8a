// SPDX-License-Identifier: MIT

package main

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/katalvlaran/lvformula/design"
	"github.com/katalvlaran/lvformula/formula"
	"github.com/katalvlaran/lvformula/matrix"
)

const (
	formatText = "text"
	formatCSV  = "csv"
	formatJSON = "json"
)

// errUnknownFormat is returned for a --format value outside text/csv/json.
var errUnknownFormat = errors.New("designmat: unknown output format")

// report is what every writer renders.
type report struct {
	formula *formula.Formula
	scheme  string
	m       *design.Matrix
}

type writeFunc func(io.Writer, report) error

func writerFor(format string) (writeFunc, error) {
	switch strings.ToLower(format) {
	case formatText:
		return writeText, nil
	case formatCSV:
		return writeCSV, nil
	case formatJSON:
		return writeJSON, nil
	}

	return nil, fmt.Errorf("%q: %w", format, errUnknownFormat)
}

// header lists response columns first, then the model columns.
func (r report) header() []string {
	var out []string
	if r.m.Y != nil {
		out = append(out, r.m.Responses...)
	}

	return append(out, r.m.Columns...)
}

// row returns response values followed by the model row i.
func (r report) row(i int) ([]float64, error) {
	x, err := r.m.X.Row(i)
	if err != nil {
		return nil, err
	}
	if r.m.Y == nil {
		return x, nil
	}
	y, err := r.m.Y.Row(i)
	if err != nil {
		return nil, err
	}

	return append(y, x...), nil
}

func formatFloat(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }

func writeText(w io.Writer, r report) error {
	fmt.Fprintf(w, "formula: %s\ncontrast: %s\nrows: %d  columns: %d\n", r.formula, r.scheme, r.m.Rows(), r.m.Cols())
	for _, t := range r.m.Terms {
		fmt.Fprintf(w, "term %-12s columns [%d, %d)\n", t.Label, t.Start, t.End)
	}
	fmt.Fprintln(w)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, strings.Join(r.header(), "\t")+"\t")
	for i := 0; i < r.m.Rows(); i++ {
		vals, err := r.row(i)
		if err != nil {
			return err
		}
		cells := make([]string, len(vals))
		for j, v := range vals {
			cells[j] = formatFloat(v)
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t")+"\t")
	}

	return tw.Flush()
}

func writeCSV(w io.Writer, r report) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(r.header()); err != nil {
		return err
	}
	for i := 0; i < r.m.Rows(); i++ {
		vals, err := r.row(i)
		if err != nil {
			return err
		}
		rec := make([]string, len(vals))
		for j, v := range vals {
			rec[j] = formatFloat(v)
		}
		if err = cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()

	return cw.Error()
}

// jsonReport is the --format json document.
type jsonReport struct {
	Formula   string            `json:"formula"`
	Contrast  string            `json:"contrast"`
	Columns   []string          `json:"columns"`
	Terms     []design.TermSpan `json:"terms"`
	Assign    []int             `json:"assign"`
	Responses []string          `json:"responses,omitempty"`
	X         [][]float64       `json:"x"`
	Y         [][]float64       `json:"y,omitempty"`
}

func writeJSON(w io.Writer, r report) error {
	x, err := toRows(r.m.X)
	if err != nil {
		return err
	}
	doc := jsonReport{
		Formula:  r.formula.String(),
		Contrast: r.scheme,
		Columns:  r.m.Columns,
		Terms:    r.m.Terms,
		Assign:   r.m.Assign,
		X:        x,
	}
	if r.m.Y != nil {
		doc.Responses = r.m.Responses
		if doc.Y, err = toRows(r.m.Y); err != nil {
			return err
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(doc)
}

func toRows(m *matrix.Dense) ([][]float64, error) {
	out := make([][]float64, m.Rows())
	var err error
	for i := range out {
		if out[i], err = m.Row(i); err != nil {
			return nil, err
		}
	}

	return out, nil
}
