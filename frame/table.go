// SPDX-License-Identifier: MIT

package frame

import (
	"fmt"
)

// Table is an immutable, ordered set of equal-length typed columns.
type Table struct {
	cols  []*Column
	index map[string]int
	rows  int
}

// NewTable assembles columns into a table.
//
// Errors:
//   - ErrDuplicateColumn when two columns share a name.
//   - ErrLengthMismatch when column lengths differ.
func NewTable(cols ...*Column) (*Table, error) {
	t := &Table{
		cols:  make([]*Column, 0, len(cols)),
		index: make(map[string]int, len(cols)),
	}
	for i, c := range cols {
		if c == nil {
			return nil, fmt.Errorf("NewTable: column %d is nil: %w", i, ErrEmptyName)
		}
		if _, dup := t.index[c.name]; dup {
			return nil, columnErrorf(c.name, ErrDuplicateColumn)
		}
		if i == 0 {
			t.rows = c.Len()
		} else if c.Len() != t.rows {
			return nil, columnErrorf(c.name, fmt.Errorf("%d rows, want %d: %w", c.Len(), t.rows, ErrLengthMismatch))
		}
		t.index[c.name] = len(t.cols)
		t.cols = append(t.cols, c)
	}

	return t, nil
}

// Rows returns the number of observations.
func (t *Table) Rows() int { return t.rows }

// NumCols returns the number of columns.
func (t *Table) NumCols() int { return len(t.cols) }

// Names returns the column names in declaration order.
func (t *Table) Names() []string {
	out := make([]string, len(t.cols))
	for i, c := range t.cols {
		out[i] = c.name
	}

	return out
}

// Has reports whether the table holds a column called name.
func (t *Table) Has(name string) bool {
	_, ok := t.index[name]

	return ok
}

// Column looks a column up by name.
//
// Errors:
//   - ErrUnknownColumn.
func (t *Table) Column(name string) (*Column, error) {
	i, ok := t.index[name]
	if !ok {
		return nil, columnErrorf(name, ErrUnknownColumn)
	}

	return t.cols[i], nil
}

// Columns returns the columns in declaration order (the slice is a copy; the
// columns themselves are immutable).
func (t *Table) Columns() []*Column {
	out := make([]*Column, len(t.cols))
	copy(out, t.cols)

	return out
}

// Subset returns a new table with the given rows, in the given order.
// Categorical columns keep their declared level sets.
//
// Errors:
//   - ErrOutOfRange for an index outside [0, Rows()).
func (t *Table) Subset(rows []int) (*Table, error) {
	for _, r := range rows {
		if r < 0 || r >= t.rows {
			return nil, fmt.Errorf("Subset: row %d: %w", r, ErrOutOfRange)
		}
	}
	out := &Table{
		cols:  make([]*Column, len(t.cols)),
		index: t.index, // read-only after construction
		rows:  len(rows),
	}
	for i, c := range t.cols {
		out.cols[i] = c.subset(rows)
	}

	return out, nil
}

// Filter keeps the rows for which keep returns true.
func (t *Table) Filter(keep func(row int) bool) *Table {
	rows := make([]int, 0, t.rows)
	for r := 0; r < t.rows; r++ {
		if keep(r) {
			rows = append(rows, r)
		}
	}
	out, _ := t.Subset(rows) // indices are in range by construction

	return out
}

// ReferenceGrid builds the table of every level combination of the
// categorical columns, with each numeric column held at its mean. The first
// categorical column varies fastest. When names is non-empty only those
// columns are carried into the grid.
//
// The grid is the row set an external estimated-marginal-means routine
// predicts on; encode it with the same design Plan as the training data.
//
// Errors:
//   - ErrUnknownColumn for a name not in the table.
//   - ErrTypeMismatch when a numeric column is empty (its mean is undefined).
func ReferenceGrid(t *Table, names ...string) (*Table, error) {
	cols := t.cols
	if len(names) > 0 {
		cols = make([]*Column, 0, len(names))
		for _, n := range names {
			c, err := t.Column(n)
			if err != nil {
				return nil, fmt.Errorf("ReferenceGrid: %w", err)
			}
			cols = append(cols, c)
		}
	}

	size := 1
	for _, c := range cols {
		if c.kind == Categorical {
			size *= len(c.levels)
		}
	}

	out := make([]*Column, 0, len(cols))
	stride := 1
	for _, c := range cols {
		switch c.kind {
		case Numeric:
			if len(c.nums) == 0 {
				return nil, columnErrorf(c.name, fmt.Errorf("ReferenceGrid: mean of empty column: %w", ErrTypeMismatch))
			}
			mean := c.Mean()
			vals := make([]float64, size)
			for i := range vals {
				vals[i] = mean
			}
			out = append(out, &Column{name: c.name, kind: Numeric, nums: vals})
		case Categorical:
			k := len(c.levels)
			codes := make([]int, size)
			for i := range codes {
				codes[i] = (i / stride) % k
			}
			stride *= k
			out = append(out, &Column{name: c.name, kind: Categorical, levels: c.levels, baseline: c.baseline, codes: codes})
		}
	}

	return NewTable(out...)
}
