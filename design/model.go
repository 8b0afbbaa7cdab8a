// SPDX-License-Identifier: MIT

package design

import (
	"fmt"
	"slices"

	"github.com/katalvlaran/lvformula/matrix"
	"gonum.org/v1/gonum/mat"
)

// InterceptColumn names the all-ones column.
const InterceptColumn = "(Intercept)"

// TermSpan locates one model term inside X: columns [Start, End).
type TermSpan struct {
	Label   string   `json:"label"`
	Factors []string `json:"factors"`
	Start   int      `json:"start"`
	End     int      `json:"end"`
}

// Width is the number of columns the term contributes.
func (s TermSpan) Width() int { return s.End - s.Start }

// Coding records how one categorical factor was turned into numbers.
type Coding struct {
	Scheme   string
	Levels   []string
	Baseline string

	// Contrasts is the k×(k−1) matrix of the scheme; row i encodes Levels[i].
	Contrasts *matrix.Dense
	Suffixes  []string

	// Centered reports whether every contrast column sums to zero over the
	// levels (Sum, Helmert).
	Centered bool

	// FullIn lists the labels of the terms in which the factor was coded by
	// one indicator per level instead of contrasts.
	FullIn []string
}

// Matrix is a design matrix with the bookkeeping fitting and term-testing
// routines need.
//
// X is n×p with the intercept (if any) in column 0 followed by the terms in
// order. Assign maps every column to its index in Terms, −1 for the
// intercept. Y is n×r with one column per response, nil when the formula
// has none or the encoded table lacks them.
type Matrix struct {
	X         *matrix.Dense
	Columns   []string
	Terms     []TermSpan
	Assign    []int
	Intercept bool

	Responses []string
	Y         *matrix.Dense

	Codings map[string]Coding
}

// Rows is n, the number of observations.
func (m *Matrix) Rows() int { return m.X.Rows() }

// Cols is p, the number of model columns.
func (m *Matrix) Cols() int { return m.X.Cols() }

// Gonum copies X into a gonum matrix for gonum-based fitting code.
func (m *Matrix) Gonum() (*mat.Dense, error) {
	g, err := matrix.ToGonum(m.X)
	if err != nil {
		return nil, fmt.Errorf("Gonum: %w", err)
	}

	return g, nil
}

// GonumY copies Y into a gonum matrix; nil without error when there is no
// response.
func (m *Matrix) GonumY() (*mat.Dense, error) {
	if m.Y == nil {
		return nil, nil
	}
	g, err := matrix.ToGonum(m.Y)
	if err != nil {
		return nil, fmt.Errorf("GonumY: %w", err)
	}

	return g, nil
}

// Gram returns XᵀX (p×p), the left-hand side of the normal equations.
func (m *Matrix) Gram() (*matrix.Dense, error) {
	xtx, err := matrix.CrossProduct(m.X)
	if err != nil {
		return nil, fmt.Errorf("Gram: %w", err)
	}

	return xtx, nil
}

// CrossY returns XᵀY (p×r), the right-hand side of the normal equations.
//
// Errors: ErrTypeMismatch when the matrix carries no response.
func (m *Matrix) CrossY() (*matrix.Dense, error) {
	if m.Y == nil {
		return nil, fmt.Errorf("CrossY: no response: %w", ErrTypeMismatch)
	}
	xt, err := matrix.Transpose(m.X)
	if err != nil {
		return nil, fmt.Errorf("CrossY: %w", err)
	}
	xty, err := matrix.Mul(xt, m.Y)
	if err != nil {
		return nil, fmt.Errorf("CrossY: %w", err)
	}

	return xty, nil
}

// Predict returns Xβ, one linear predictor per row. beta must hold one
// coefficient per column, in Columns order.
func (m *Matrix) Predict(beta []float64) ([]float64, error) {
	eta, err := matrix.MatVec(m.X, beta)
	if err != nil {
		return nil, fmt.Errorf("Predict: %w", err)
	}

	return eta, nil
}

// ColumnIndex returns the position of the named column, or −1.
func (m *Matrix) ColumnIndex(name string) int { return slices.Index(m.Columns, name) }

// Term returns the span of the term with the given label.
func (m *Matrix) Term(label string) (TermSpan, bool) {
	for _, s := range m.Terms {
		if s.Label == label {
			return s, true
		}
	}

	return TermSpan{}, false
}

// TermBlock copies the columns of one term out of X.
//
// Errors: ErrInvalidFormula when no term carries label.
func (m *Matrix) TermBlock(label string) (*matrix.Dense, error) {
	s, ok := m.Term(label)
	if !ok {
		return nil, fmt.Errorf("TermBlock: no term %q: %w", label, ErrInvalidFormula)
	}
	rows := make([]int, m.X.Rows())
	for i := range rows {
		rows[i] = i
	}
	cols := make([]int, s.Width())
	for j := range cols {
		cols[j] = s.Start + j
	}

	return m.X.Induced(rows, cols)
}
