// SPDX-License-Identifier: MIT

package frame

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// ReadCSV ingests a header-first CSV stream, typing every column from s.
// Columns present in the file but absent from the schema are ignored; the
// resulting table lists columns in schema order.
//
// Errors:
//   - ErrUnknownColumn when a schema column is missing from the header.
//   - ErrTypeMismatch for unparsable numbers, labels outside declared levels,
//     or missing values when the schema declares no NA spellings.
func ReadCSV(r io.Reader, s *Schema) (*Table, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("ReadCSV: empty input: %w", ErrTypeMismatch)
		}
		return nil, fmt.Errorf("ReadCSV: header: %w", err)
	}
	pos := make(map[string]int, len(header))
	for i, h := range header {
		pos[strings.TrimSpace(h)] = i
	}
	fields := make([]int, len(s.Columns))
	for i, c := range s.Columns {
		p, ok := pos[c.Name]
		if !ok {
			return nil, columnErrorf(c.Name, fmt.Errorf("ReadCSV: not in header: %w", ErrUnknownColumn))
		}
		fields[i] = p
	}

	na := make(map[string]struct{}, len(s.NAValues))
	for _, v := range s.NAValues {
		na[v] = struct{}{}
	}

	cells := make([][]string, len(s.Columns))
	line := 1
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("ReadCSV: line %d: %w", line, err)
		}
		if omitRow(rec, fields, na) {
			continue
		}
		for i, f := range fields {
			cells[i] = append(cells[i], strings.TrimSpace(rec[f]))
		}
	}

	cols := make([]*Column, len(s.Columns))
	for i, cs := range s.Columns {
		if cols[i], err = cs.build(cells[i], parseFloat); err != nil {
			return nil, fmt.Errorf("ReadCSV: %w", err)
		}
	}

	return NewTable(cols...)
}

// omitRow reports whether a record carries a declared NA spelling in any
// schema column (list-wise deletion).
func omitRow(rec []string, fields []int, na map[string]struct{}) bool {
	if len(na) == 0 {
		return false
	}
	for _, f := range fields {
		if _, ok := na[strings.TrimSpace(rec[f])]; ok {
			return true
		}
	}

	return false
}

// parseFloat accepts finite decimal numbers only.
func parseFloat(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("non-finite %q", s)
	}

	return v, nil
}
