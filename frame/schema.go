// SPDX-License-Identifier: MIT

package frame

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Schema declares, ahead of ingestion, the kind of every column a dataset
// file provides. Column types are never sniffed from the values.
//
// Example (YAML):
//
//	na_values: ["NA", ""]
//	columns:
//	  - name: rt
//	    kind: numeric
//	  - name: gender
//	    kind: categorical
//	    levels: [male, female]
//	    baseline: male
type Schema struct {
	// NAValues lists cell spellings treated as missing. Rows with a missing
	// value in any declared column are omitted. Empty means "no missing
	// values allowed": such a cell is a type mismatch.
	NAValues []string `yaml:"na_values" validate:"omitempty,unique"`

	Columns []ColumnSpec `yaml:"columns" validate:"required,min=1,unique=Name,dive"`
}

// ColumnSpec is one declared column.
type ColumnSpec struct {
	Name string `yaml:"name" validate:"required"`
	Kind string `yaml:"kind" validate:"required,oneof=numeric categorical"`

	// Levels fixes the level order of a categorical column. When omitted the
	// sorted distinct observed values are used.
	Levels []string `yaml:"levels" validate:"omitempty,unique,dive,required"`

	// Baseline names the reference level (default: first level).
	Baseline string `yaml:"baseline"`
}

var schemaValidate = validator.New()

// ParseSchema decodes and validates a YAML schema.
//
// Errors:
//   - ErrInvalidSchema wrapping the YAML or validation failure.
func ParseSchema(r io.Reader) (*Schema, error) {
	var s Schema
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSchema, err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}

	return &s, nil
}

// LoadSchema reads and validates a YAML schema file.
func LoadSchema(path string) (*Schema, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("LoadSchema: %w", err)
	}
	defer f.Close()

	return ParseSchema(f)
}

// Validate checks struct tags plus the cross-field rules tags cannot express.
func (s *Schema) Validate() error {
	if err := schemaValidate.Struct(s); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSchema, err)
	}
	for _, c := range s.Columns {
		if c.Kind == Numeric.String() && (len(c.Levels) > 0 || c.Baseline != "") {
			return fmt.Errorf("%w: numeric column %q declares levels", ErrInvalidSchema, c.Name)
		}
		if c.Baseline != "" && len(c.Levels) > 0 && !contains(c.Levels, c.Baseline) {
			return fmt.Errorf("%w: column %q baseline %q is not a level", ErrInvalidSchema, c.Name, c.Baseline)
		}
	}

	return nil
}

// kind maps the textual kind onto Kind; Validate already restricted it.
func (c ColumnSpec) kind() Kind {
	if c.Kind == Categorical.String() {
		return Categorical
	}

	return Numeric
}

// build turns raw cell strings into a typed column.
func (c ColumnSpec) build(cells []string, parse func(string) (float64, error)) (*Column, error) {
	if c.kind() == Numeric {
		vals := make([]float64, len(cells))
		for i, cell := range cells {
			v, err := parse(cell)
			if err != nil {
				return nil, columnErrorf(c.Name, fmt.Errorf("row %d: %q: %w", i, cell, ErrTypeMismatch))
			}
			vals[i] = v
		}

		return NewNumeric(c.Name, vals)
	}

	levels := c.Levels
	if len(levels) == 0 {
		levels = LevelsOf(cells)
		sort.Strings(levels)
	}
	var opts []CategoricalOption
	if c.Baseline != "" {
		opts = append(opts, WithBaseline(c.Baseline))
	}

	return NewCategorical(c.Name, cells, levels, opts...)
}

func contains(ss []string, s string) bool {
	for _, x := range ss {
		if x == s {
			return true
		}
	}

	return false
}
