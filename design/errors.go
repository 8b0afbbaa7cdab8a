// SPDX-License-Identifier: MIT

package design

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/lvformula/formula"
	"github.com/katalvlaran/lvformula/frame"
)

// Sentinel errors. Match with errors.Is; messages carry the details.
var (
	// ErrInvalidFormula: unparsable formula, a term naming a column the table
	// does not have, or a model without any column.
	ErrInvalidFormula = formula.ErrInvalidFormula

	// ErrDegenerateFactor: a categorical factor with fewer than two declared
	// levels, or a declared level with no observation.
	ErrDegenerateFactor = errors.New("design: degenerate factor")

	// ErrTypeMismatch: a column inconsistent with its declared kind or levels,
	// or a new table whose columns differ from the compiled ones.
	ErrTypeMismatch = frame.ErrTypeMismatch

	// ErrRankDeficiency: the design matrix has linearly dependent columns.
	ErrRankDeficiency = errors.New("design: rank-deficient design matrix")
)

// Operation tags for error context.
const (
	opCompile  = "Compile"
	opEncode   = "Plan.Encode"
	opBuild    = "Build"
	opBuildAll = "BuildAll"
)

// designErrorf prefixes err with an operation tag, keeping the chain intact.
func designErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}
