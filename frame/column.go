// SPDX-License-Identifier: MIT

package frame

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// Kind is the statically declared type of a column.
type Kind int

const (
	// Numeric columns hold finite real values and contribute one model column.
	Numeric Kind = iota
	// Categorical columns hold labels from a declared, ordered level set.
	Categorical
)

// String returns "numeric" or "categorical".
func (k Kind) String() string {
	switch k {
	case Numeric:
		return "numeric"
	case Categorical:
		return "categorical"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Column is an immutable, explicitly typed attribute of a dataset.
//
// Numeric columns keep their values; Categorical columns keep the declared
// level set, the baseline (reference) level and one level code per row.
// Constructors copy their inputs and accessors return copies, so a Column can
// be shared across goroutines without coordination.
type Column struct {
	name string
	kind Kind

	nums []float64 // Numeric only

	levels   []string // Categorical only, declared order
	baseline int      // index into levels
	codes    []int    // per-row index into levels
}

// CategoricalOption customizes NewCategorical.
type CategoricalOption func(*categoricalConfig)

type categoricalConfig struct {
	baseline    string
	hasBaseline bool
}

// WithBaseline designates level as the reference level. Without it the first
// declared level is the baseline.
func WithBaseline(level string) CategoricalOption {
	return func(c *categoricalConfig) {
		c.baseline = level
		c.hasBaseline = true
	}
}

// NewNumeric declares a Numeric column.
//
// Errors:
//   - ErrEmptyName; ErrTypeMismatch when a value is NaN or ±Inf.
func NewNumeric(name string, values []float64) (*Column, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, columnErrorf(name, fmt.Errorf("row %d: %g: %w", i, v, ErrTypeMismatch))
		}
	}
	nums := make([]float64, len(values))
	copy(nums, values)

	return &Column{name: name, kind: Numeric, nums: nums}, nil
}

// NewCategorical declares a Categorical column with an explicit level set.
// Every value must be one of levels.
//
// Errors:
//   - ErrEmptyName.
//   - ErrInvalidLevels: no levels, empty or duplicated labels, unknown baseline.
//   - ErrTypeMismatch: a value outside the declared level set.
func NewCategorical(name string, values, levels []string, opts ...CategoricalOption) (*Column, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	var cfg categoricalConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	if len(levels) == 0 {
		return nil, columnErrorf(name, fmt.Errorf("no levels declared: %w", ErrInvalidLevels))
	}
	index := make(map[string]int, len(levels))
	for i, l := range levels {
		if l == "" {
			return nil, columnErrorf(name, fmt.Errorf("level %d is empty: %w", i, ErrInvalidLevels))
		}
		if _, dup := index[l]; dup {
			return nil, columnErrorf(name, fmt.Errorf("level %q declared twice: %w", l, ErrInvalidLevels))
		}
		index[l] = i
	}

	baseline := 0
	if cfg.hasBaseline {
		b, ok := index[cfg.baseline]
		if !ok {
			return nil, columnErrorf(name, fmt.Errorf("baseline %q is not a level: %w", cfg.baseline, ErrInvalidLevels))
		}
		baseline = b
	}

	codes := make([]int, len(values))
	for i, v := range values {
		code, ok := index[v]
		if !ok {
			return nil, columnErrorf(name, fmt.Errorf("row %d: %q not in levels: %w", i, v, ErrTypeMismatch))
		}
		codes[i] = code
	}

	lv := make([]string, len(levels))
	copy(lv, levels)

	return &Column{name: name, kind: Categorical, levels: lv, baseline: baseline, codes: codes}, nil
}

// LevelsOf returns the distinct values in order of first appearance. It is an
// explicit convenience for callers that want the data to dictate level order.
func LevelsOf(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0)
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}

	return out
}

// Name returns the column name.
func (c *Column) Name() string { return c.name }

// Kind returns the declared kind.
func (c *Column) Kind() Kind { return c.kind }

// Len returns the number of rows.
func (c *Column) Len() int {
	if c.kind == Numeric {
		return len(c.nums)
	}

	return len(c.codes)
}

// Values returns a copy of a Numeric column's values (nil for Categorical).
func (c *Column) Values() []float64 {
	if c.kind != Numeric {
		return nil
	}
	out := make([]float64, len(c.nums))
	copy(out, c.nums)

	return out
}

// Value returns row i of a Numeric column. Panics on out-of-range i or a
// Categorical column, mirroring slice indexing.
func (c *Column) Value(i int) float64 {
	if c.kind != Numeric {
		panic(fmt.Sprintf("frame: Value on %s column %q", c.kind, c.name))
	}

	return c.nums[i]
}

// Levels returns a copy of the declared levels (nil for Numeric).
func (c *Column) Levels() []string {
	if c.kind != Categorical {
		return nil
	}
	out := make([]string, len(c.levels))
	copy(out, c.levels)

	return out
}

// NumLevels returns the number of declared levels (0 for Numeric).
func (c *Column) NumLevels() int { return len(c.levels) }

// Baseline returns the reference level label ("" for Numeric).
func (c *Column) Baseline() string {
	if c.kind != Categorical {
		return ""
	}

	return c.levels[c.baseline]
}

// BaselineIndex returns the index of the reference level (-1 for Numeric).
func (c *Column) BaselineIndex() int {
	if c.kind != Categorical {
		return -1
	}

	return c.baseline
}

// Code returns the level index of row i. Panics like slice indexing.
func (c *Column) Code(i int) int {
	if c.kind != Categorical {
		panic(fmt.Sprintf("frame: Code on %s column %q", c.kind, c.name))
	}

	return c.codes[i]
}

// Label returns the level label of row i.
func (c *Column) Label(i int) string { return c.levels[c.Code(i)] }

// Counts returns the number of rows observed per declared level.
func (c *Column) Counts() []int {
	if c.kind != Categorical {
		return nil
	}
	out := make([]int, len(c.levels))
	for _, code := range c.codes {
		out[code]++
	}

	return out
}

// Mean returns the arithmetic mean of a Numeric column (NaN when empty or
// Categorical).
func (c *Column) Mean() float64 {
	if c.kind != Numeric || len(c.nums) == 0 {
		return math.NaN()
	}

	return stat.Mean(c.nums, nil)
}

// SameLevels reports whether o is Categorical with the identical ordered
// level set and baseline.
func (c *Column) SameLevels(o *Column) bool {
	if c.kind != Categorical || o.kind != Categorical {
		return false
	}
	if len(c.levels) != len(o.levels) || c.baseline != o.baseline {
		return false
	}
	for i := range c.levels {
		if c.levels[i] != o.levels[i] {
			return false
		}
	}

	return true
}

// Validate re-checks the column's invariants. Constructors already enforce
// them; Validate exists for consumers that receive columns from elsewhere.
func (c *Column) Validate() error {
	switch c.kind {
	case Numeric:
		for i, v := range c.nums {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return columnErrorf(c.name, fmt.Errorf("row %d: %w", i, ErrTypeMismatch))
			}
		}
	case Categorical:
		for i, code := range c.codes {
			if code < 0 || code >= len(c.levels) {
				return columnErrorf(c.name, fmt.Errorf("row %d: unlabeled value: %w", i, ErrTypeMismatch))
			}
		}
	default:
		return columnErrorf(c.name, fmt.Errorf("kind %s: %w", c.kind, ErrTypeMismatch))
	}

	return nil
}

// subset copies the given rows into a new column; levels are kept even when
// some end up unobserved.
func (c *Column) subset(rows []int) *Column {
	out := &Column{name: c.name, kind: c.kind, levels: c.levels, baseline: c.baseline}
	if c.kind == Numeric {
		out.nums = make([]float64, len(rows))
		for k, r := range rows {
			out.nums[k] = c.nums[r]
		}

		return out
	}
	out.codes = make([]int, len(rows))
	for k, r := range rows {
		out.codes[k] = c.codes[r]
	}

	return out
}
