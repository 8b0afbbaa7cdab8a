// SPDX-License-Identifier: MIT

package design

import (
	"context"
	"fmt"
	"runtime"

	"github.com/katalvlaran/lvformula/contrast"
	"github.com/katalvlaran/lvformula/formula"
	"github.com/katalvlaran/lvformula/frame"
	"github.com/katalvlaran/lvformula/matrix"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Build compiles f against tbl, encodes tbl and verifies that the columns of
// X are linearly independent.
//
// MAIN DESCRIPTION:
//   - Numeric variables contribute their values; categorical factors
//     contribute contrast or indicator columns chosen by the marginality rule;
//     interactions are row-wise products of their factors' columns.
//   - The intercept column (if any) comes first, then the terms in order.
//
// Errors:
//   - ErrInvalidFormula, ErrDegenerateFactor, ErrTypeMismatch from Compile.
//   - ErrRankDeficiency when rank(X) < p, unless WithAllowRankDeficient.
//
// No partial result is returned together with an error.
func Build(f *formula.Formula, tbl *frame.Table, scheme contrast.Scheme, opts ...Option) (*Matrix, error) {
	p, err := Compile(f, tbl, scheme, opts...)
	if err != nil {
		return nil, designErrorf(opBuild, err)
	}
	m, err := p.Encode(tbl)
	if err != nil {
		return nil, designErrorf(opBuild, err)
	}
	if err = p.checkRank(m); err != nil {
		return nil, designErrorf(opBuild, err)
	}

	return m, nil
}

// BuildString parses src and calls Build.
func BuildString(src string, tbl *frame.Table, scheme contrast.Scheme, opts ...Option) (*Matrix, error) {
	f, err := formula.Parse(src)
	if err != nil {
		return nil, designErrorf(opBuild, err)
	}

	return Build(f, tbl, scheme, opts...)
}

// BuildAll builds one design matrix per formula concurrently over the shared,
// read-only tbl. Results keep the order of formulas. The first failure
// cancels the remaining builds and is returned alone.
func BuildAll(ctx context.Context, tbl *frame.Table, scheme contrast.Scheme, formulas []*formula.Formula, opts ...Option) ([]*Matrix, error) {
	if err := ctx.Err(); err != nil {
		return nil, designErrorf(opBuildAll, err)
	}
	out := make([]*Matrix, len(formulas))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, f := range formulas {
		i, f := i, f
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			m, err := Build(f, tbl, scheme, opts...)
			if err != nil {
				return fmt.Errorf("formula %d: %w", i, err)
			}
			out[i] = m

			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, designErrorf(opBuildAll, err)
	}

	return out, nil
}

// Encode evaluates the plan on tbl. The table must carry every predictor of
// the plan with the same kind and level set as the table the plan was
// compiled from; responses are encoded when present and skipped otherwise.
// Unlike Build, Encode neither requires every level to be observed nor checks
// the rank, so single prediction rows and reference grids encode fine.
//
// Errors: ErrInvalidFormula for a missing column, ErrTypeMismatch for a
// column whose kind or levels differ.
func (p *Plan) Encode(tbl *frame.Table) (*Matrix, error) {
	if tbl == nil {
		return nil, designErrorf(opEncode, fmt.Errorf("nil table: %w", ErrTypeMismatch))
	}
	n := tbl.Rows()
	if n == 0 {
		return nil, designErrorf(opEncode, fmt.Errorf("table has no rows: %w", ErrTypeMismatch))
	}

	vars := p.formula.Variables()
	cols := make(map[string]*frame.Column, len(vars))
	for _, v := range vars {
		col, err := p.lookup(tbl, v)
		if err != nil {
			return nil, designErrorf(opEncode, err)
		}
		cols[v] = col
	}

	x, err := matrix.NewDense(n, len(p.columns))
	if err != nil {
		return nil, designErrorf(opEncode, err)
	}
	vals := make([]float64, n)
	j := 0
	if p.intercept {
		for i := range vals {
			vals[i] = 1
		}
		if err = x.SetCol(j, vals); err != nil {
			return nil, designErrorf(opEncode, err)
		}
		j++
	}
	for _, tp := range p.terms {
		for _, combo := range tp.combos {
			for i := range vals {
				vals[i] = 1
			}
			for fi, fc := range tp.factors {
				col := cols[fc.name]
				for i := range vals {
					if fc.categorical {
						vals[i] *= fc.rows[col.Code(i)][combo[fi]]
					} else {
						vals[i] *= col.Value(i)
					}
				}
			}
			if err = x.SetCol(j, vals); err != nil {
				return nil, designErrorf(opEncode, err)
			}
			j++
		}
	}

	y, err := p.encodeResponses(tbl)
	if err != nil {
		return nil, designErrorf(opEncode, err)
	}

	codings := make(map[string]Coding, len(p.codings))
	for v, c := range p.codings {
		c.Levels = append([]string(nil), c.Levels...)
		c.Suffixes = append([]string(nil), c.Suffixes...)
		c.FullIn = append([]string(nil), c.FullIn...)
		c.Contrasts = c.Contrasts.Clone().(*matrix.Dense)
		codings[v] = c
	}

	return &Matrix{
		X:         x,
		Columns:   append([]string(nil), p.columns...),
		Terms:     cloneSpans(p.spans),
		Assign:    append([]int(nil), p.assign...),
		Intercept: p.intercept,
		Responses: append([]string(nil), p.responses...),
		Y:         y,
		Codings:   codings,
	}, nil
}

// lookup fetches name from tbl and checks it against the compiled column.
func (p *Plan) lookup(tbl *frame.Table, name string) (*frame.Column, error) {
	col, err := resolve(tbl, name)
	if err != nil {
		return nil, err
	}
	ref := p.refs[name]
	if col.Kind() != ref.Kind() {
		return nil, fmt.Errorf("column %q is %s, compiled as %s: %w", name, col.Kind(), ref.Kind(), ErrTypeMismatch)
	}
	if col.Kind() == frame.Categorical && !col.SameLevels(ref) {
		return nil, fmt.Errorf("column %q levels %v differ from compiled %v: %w",
			name, col.Levels(), ref.Levels(), ErrTypeMismatch)
	}

	return col, nil
}

// encodeResponses fills Y: numeric responses as-is, two-level categorical
// responses as 0 for the baseline and 1 for the other level. It returns nil
// when there is no response or tbl lacks any of them.
func (p *Plan) encodeResponses(tbl *frame.Table) (*matrix.Dense, error) {
	if len(p.responses) == 0 {
		return nil, nil
	}
	for _, r := range p.responses {
		if !tbl.Has(r) {
			return nil, nil
		}
	}

	y, err := matrix.NewDense(tbl.Rows(), len(p.responses))
	if err != nil {
		return nil, err
	}
	vals := make([]float64, tbl.Rows())
	for j, r := range p.responses {
		col, err := p.lookup(tbl, r)
		if err != nil {
			return nil, err
		}
		for i := range vals {
			switch col.Kind() {
			case frame.Categorical:
				vals[i] = 1
				if col.Code(i) == col.BaselineIndex() {
					vals[i] = 0
				}
			default:
				vals[i] = col.Value(i)
			}
		}
		if err = y.SetCol(j, vals); err != nil {
			return nil, err
		}
	}

	return y, nil
}

// checkRank enforces full column rank unless the caller opted out.
func (p *Plan) checkRank(m *Matrix) error {
	var rankOpts []matrix.Option
	if p.opts.rankTol > 0 {
		rankOpts = append(rankOpts, matrix.WithRankTolerance(p.opts.rankTol))
	}
	rank, err := matrix.Rank(m.X, rankOpts...)
	if err != nil {
		return err
	}
	cols := m.Cols()
	if rank == cols {
		p.opts.logger.Debug("design: built",
			zap.Int("rows", m.Rows()),
			zap.Int("columns", cols))
		return nil
	}
	if p.opts.allowRankDeficient {
		p.opts.logger.Warn("design: rank-deficient design matrix kept",
			zap.String("formula", p.formula.String()),
			zap.Int("rank", rank),
			zap.Int("columns", cols))
		return nil
	}

	return fmt.Errorf("rank %d < %d columns for %q: %w", rank, cols, p.formula.String(), ErrRankDeficiency)
}
