// SPDX-License-Identifier: MIT

package contrast

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/katalvlaran/lvformula/matrix"
)

// Scheme maps the levels of one categorical factor to contrast columns.
type Scheme interface {
	// Name is the lower-case scheme identifier ("treatment", "sum", ...).
	Name() string

	// Coding returns the k×(k−1) contrast matrix for levels, with baseline
	// the index of the reference level, and one column suffix per column.
	Coding(levels []string, baseline int) (*matrix.Dense, []string, error)

	// AllowsFullCoding reports whether the builder may use the full k-column
	// indicator set in place of the contrasts when the model requires it.
	AllowsFullCoding() bool
}

// BaselineOverride is implemented by schemes that pick the reference level
// per column instead of using the column's declared baseline.
type BaselineOverride interface {
	BaselineFor(column string) (level string, ok bool)
}

// Compile-time conformance.
var (
	_ Scheme           = Treatment{}
	_ Scheme           = Sum{}
	_ Scheme           = Helmert{}
	_ BaselineOverride = Treatment{}
)

// Scheme names accepted by ByName.
const (
	NameTreatment = "treatment"
	NameSum       = "sum"
	NameHelmert   = "helmert"
)

// ByName returns the zero-configured scheme called name (case-insensitive).
func ByName(name string) (Scheme, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case NameTreatment:
		return Treatment{}, nil
	case NameSum:
		return Sum{}, nil
	case NameHelmert:
		return Helmert{}, nil
	}

	return nil, fmt.Errorf("%q: %w", name, ErrUnknownScheme)
}

// Treatment is dummy coding: each non-baseline level gets an indicator column
// and the baseline row is all zeros. Column suffixes are the level labels.
//
// Baseline optionally overrides the reference level per column name.
type Treatment struct {
	Baseline map[string]string
}

func (Treatment) Name() string { return NameTreatment }

func (Treatment) AllowsFullCoding() bool { return true }

// BaselineFor reports the overriding reference level for column, if any.
func (t Treatment) BaselineFor(column string) (string, bool) {
	lvl, ok := t.Baseline[column]

	return lvl, ok
}

func (t Treatment) Coding(levels []string, baseline int) (*matrix.Dense, []string, error) {
	if err := checkLevels(levels, baseline); err != nil {
		return nil, nil, codingErrorf(NameTreatment, err)
	}
	k := len(levels)
	c, err := matrix.NewDense(k, k-1)
	if err != nil {
		return nil, nil, codingErrorf(NameTreatment, err)
	}
	suffixes := make([]string, 0, k-1)
	col := 0
	for i, lvl := range levels {
		if i == baseline {
			continue
		}
		if err = c.Set(i, col, 1); err != nil {
			return nil, nil, codingErrorf(NameTreatment, err)
		}
		suffixes = append(suffixes, lvl)
		col++
	}

	return c, suffixes, nil
}

// Sum is deviation (effect) coding: non-baseline levels get identity rows in
// level order and the baseline row is all −1. With levels [male female] and
// baseline male this encodes male as −1 and female as +1. Suffixes are the
// 1-based contrast indices.
type Sum struct{}

func (Sum) Name() string { return NameSum }

func (Sum) AllowsFullCoding() bool { return false }

func (Sum) Coding(levels []string, baseline int) (*matrix.Dense, []string, error) {
	if err := checkLevels(levels, baseline); err != nil {
		return nil, nil, codingErrorf(NameSum, err)
	}
	k := len(levels)
	c, err := matrix.NewDense(k, k-1)
	if err != nil {
		return nil, nil, codingErrorf(NameSum, err)
	}
	col := 0
	for i := range levels {
		for j := 0; j < k-1; j++ {
			v := 0.0
			switch {
			case i == baseline:
				v = -1
			case j == col:
				v = 1
			}
			if err = c.Set(i, j, v); err != nil {
				return nil, nil, codingErrorf(NameSum, err)
			}
		}
		if i != baseline {
			col++
		}
	}

	return c, indexSuffixes(k - 1), nil
}

// Helmert compares level i (i ≥ 1) with the mean of levels 0..i−1: column
// j has −1 in rows 0..j−1, j in row j and 0 below. The level order alone
// drives the coding; the baseline is validated but otherwise unused.
type Helmert struct{}

func (Helmert) Name() string { return NameHelmert }

func (Helmert) AllowsFullCoding() bool { return false }

func (Helmert) Coding(levels []string, baseline int) (*matrix.Dense, []string, error) {
	if err := checkLevels(levels, baseline); err != nil {
		return nil, nil, codingErrorf(NameHelmert, err)
	}
	k := len(levels)
	c, err := matrix.NewDense(k, k-1)
	if err != nil {
		return nil, nil, codingErrorf(NameHelmert, err)
	}
	for j := 1; j < k; j++ {
		for i := 0; i < j; i++ {
			if err = c.Set(i, j-1, -1); err != nil {
				return nil, nil, codingErrorf(NameHelmert, err)
			}
		}
		if err = c.Set(j, j-1, float64(j)); err != nil {
			return nil, nil, codingErrorf(NameHelmert, err)
		}
	}

	return c, indexSuffixes(k - 1), nil
}

// Indicator is the full k×k identity coding used when a factor must carry
// one column per level. Suffixes are the level labels.
func Indicator(levels []string) (*matrix.Dense, []string, error) {
	k := len(levels)
	if k < 1 {
		return nil, nil, fmt.Errorf("Indicator: %w", ErrTooFewLevels)
	}
	c, err := matrix.NewDense(k, k)
	if err != nil {
		return nil, nil, fmt.Errorf("Indicator: %w", err)
	}
	for i := 0; i < k; i++ {
		if err = c.Set(i, i, 1); err != nil {
			return nil, nil, fmt.Errorf("Indicator: %w", err)
		}
	}
	suffixes := make([]string, k)
	copy(suffixes, levels)

	return c, suffixes, nil
}

func checkLevels(levels []string, baseline int) error {
	if len(levels) < 2 {
		return fmt.Errorf("%d level(s): %w", len(levels), ErrTooFewLevels)
	}
	if baseline < 0 || baseline >= len(levels) {
		return fmt.Errorf("baseline %d of %d levels: %w", baseline, len(levels), ErrBaselineOutOfRange)
	}

	return nil
}

func indexSuffixes(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = strconv.Itoa(i + 1)
	}

	return out
}

// centeredTol bounds |Σ column| for Centered; codings hold small integers.
const centeredTol = 1e-9

// Centered reports whether every column of the contrast matrix c sums to zero
// over the levels, as Sum and Helmert columns do and Treatment columns do not.
func Centered(c *matrix.Dense) (bool, error) {
	sums, err := matrix.ColSums(c)
	if err != nil {
		return false, fmt.Errorf("Centered: %w", err)
	}
	got, err := matrix.NewDenseFromRows([][]float64{sums})
	if err != nil {
		return false, fmt.Errorf("Centered: %w", err)
	}
	zero, err := matrix.NewDense(1, len(sums))
	if err != nil {
		return false, fmt.Errorf("Centered: %w", err)
	}

	return matrix.AllClose(got, zero, 0, centeredTol)
}
