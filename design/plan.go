// SPDX-License-Identifier: MIT

package design

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/katalvlaran/lvformula/contrast"
	"github.com/katalvlaran/lvformula/formula"
	"github.com/katalvlaran/lvformula/frame"
	"github.com/katalvlaran/lvformula/matrix"
	"go.uber.org/zap"
)

// factorCode is one variable inside one term, with its resolved coding.
type factorCode struct {
	name        string
	categorical bool
	full        bool        // one column per level
	baseline    int         // categorical: reference level index
	rows        [][]float64 // categorical: k rows of the chosen coding
	suffixes    []string    // categorical: one per coding column
}

func (fc factorCode) width() int {
	if !fc.categorical {
		return 1
	}

	return len(fc.suffixes)
}

// termPlan is a term with its factor codings and the column combinations it
// expands to. combos[c][i] is the coding column of factor i used by output
// column c.
type termPlan struct {
	label        string
	factors      []factorCode
	dropBaseline bool
	names        []string
	combos       [][]int
}

// Plan is a compiled formula: resolved terms, per-factor codings and column
// names. It encodes any table whose columns match the training table's
// kinds and level sets, which is how prediction rows and reference grids get
// the same columns as the fitted design. A Plan is immutable and safe for
// concurrent use.
type Plan struct {
	formula   *formula.Formula
	scheme    string
	intercept bool
	terms     []termPlan
	columns   []string
	assign    []int
	spans     []TermSpan
	responses []string
	refs      map[string]*frame.Column
	codings   map[string]Coding
	opts      Options
}

// Compile resolves f against tbl and fixes every coding decision.
//
// Implementation:
//   - Stage 1: expand '.', apply term ordering, reject an empty model.
//   - Stage 2: resolve names; validate kinds and categorical level usage.
//   - Stage 3: per factor, obtain the scheme's contrasts and the indicator set.
//   - Stage 4: per term and factor, choose contrasts or indicators (marginality),
//     decide whether the intercept absorbs a cell, enumerate the columns.
//
// A nil scheme means Treatment{}.
//
// Terms keep formula order and containment is tested against the terms
// before each one in that order. R sorts terms by degree first; here
// "y ~ a:b + a" codes a:b before a is seen and fails the rank check in Build.
// WithTermOrderByDegree gives the R behaviour.
//
// Errors: ErrInvalidFormula, ErrDegenerateFactor, ErrTypeMismatch.
func Compile(f *formula.Formula, tbl *frame.Table, scheme contrast.Scheme, opts ...Option) (*Plan, error) {
	o := gatherOptions(opts...)
	if f == nil {
		return nil, designErrorf(opCompile, fmt.Errorf("nil formula: %w", ErrInvalidFormula))
	}
	if tbl == nil {
		return nil, designErrorf(opCompile, fmt.Errorf("nil table: %w", ErrTypeMismatch))
	}
	if scheme == nil {
		scheme = contrast.Treatment{}
	}

	// Stage 1
	ef, err := f.Expand(tbl.Names())
	if err != nil {
		return nil, designErrorf(opCompile, err)
	}
	if o.byDegree {
		ef = ef.OrderByDegree()
	}
	if !ef.Intercept && len(ef.Terms) == 0 {
		return nil, designErrorf(opCompile, fmt.Errorf("%q has no model columns: %w", ef.String(), ErrInvalidFormula))
	}
	if tbl.Rows() == 0 {
		return nil, designErrorf(opCompile, fmt.Errorf("table has no rows: %w", ErrTypeMismatch))
	}

	// Stage 2
	refs := make(map[string]*frame.Column)
	for _, v := range ef.Variables() {
		col, err := resolve(tbl, v)
		if err != nil {
			return nil, designErrorf(opCompile, err)
		}
		if col.Kind() == frame.Categorical {
			if err = checkFactor(col); err != nil {
				return nil, designErrorf(opCompile, err)
			}
		}
		refs[v] = col
	}
	for _, r := range ef.Response {
		col, err := resolve(tbl, r)
		if err != nil {
			return nil, designErrorf(opCompile, err)
		}
		if col.Kind() == frame.Categorical && col.NumLevels() != 2 {
			return nil, designErrorf(opCompile, fmt.Errorf(
				"response %q has %d levels, only numeric or two-level responses are encodable: %w",
				r, col.NumLevels(), ErrTypeMismatch))
		}
		refs[r] = col
	}

	// Stage 3
	contrasts := make(map[string]factorCode)
	indicators := make(map[string]factorCode)
	for _, v := range ef.Variables() {
		col := refs[v]
		if col.Kind() != frame.Categorical {
			continue
		}
		if contrasts[v], indicators[v], err = codeFactor(col, scheme); err != nil {
			return nil, designErrorf(opCompile, err)
		}
	}

	// Stage 4
	p := &Plan{
		formula:   ef,
		scheme:    scheme.Name(),
		intercept: ef.Intercept,
		responses: slices.Clone(ef.Response),
		refs:      refs,
		opts:      o,
	}
	if p.intercept {
		p.columns = append(p.columns, InterceptColumn)
		p.assign = append(p.assign, -1)
	}
	fullIn := make(map[string][]string)
	forceFirst := !ef.Intercept
	for ti, term := range ef.Terms {
		tp := termPlan{label: term.Label()}
		allCategorical, allFull := true, true
		for _, v := range term {
			if refs[v].Kind() != frame.Categorical {
				tp.factors = append(tp.factors, factorCode{name: v})
				allCategorical = false
				continue
			}
			full := false
			if scheme.AllowsFullCoding() {
				rest := term.Without(v)
				full = forceFirst || (len(rest) > 0 && !containedInEarlier(rest, ef.Terms[:ti]))
			}
			forceFirst = false
			if full {
				tp.factors = append(tp.factors, indicators[v])
				fullIn[v] = append(fullIn[v], tp.label)
			} else {
				tp.factors = append(tp.factors, contrasts[v])
				allFull = false
			}
		}
		tp.dropBaseline = ef.Intercept && allCategorical && allFull
		tp.enumerate()

		start := len(p.columns)
		p.columns = append(p.columns, tp.names...)
		for range tp.names {
			p.assign = append(p.assign, ti)
		}
		p.spans = append(p.spans, TermSpan{
			Label:   tp.label,
			Factors: slices.Clone([]string(term)),
			Start:   start,
			End:     len(p.columns),
		})
		p.terms = append(p.terms, tp)
	}

	p.codings = make(map[string]Coding, len(contrasts))
	for v, fc := range contrasts {
		col := refs[v]
		cm, err := matrix.NewDenseFromRows(fc.rows)
		if err != nil {
			return nil, designErrorf(opCompile, err)
		}
		centered, err := contrast.Centered(cm)
		if err != nil {
			return nil, designErrorf(opCompile, err)
		}
		p.codings[v] = Coding{
			Scheme:    scheme.Name(),
			Levels:    col.Levels(),
			Baseline:  col.Levels()[fc.baseline],
			Contrasts: cm,
			Centered:  centered,
			Suffixes:  slices.Clone(fc.suffixes),
			FullIn:    fullIn[v],
		}
		o.logger.Debug("design: factor coding",
			zap.String("factor", v),
			zap.String("scheme", scheme.Name()),
			zap.Strings("levels", col.Levels()),
			zap.String("baseline", col.Levels()[fc.baseline]),
			zap.Bool("centered", centered),
			zap.Strings("full_in", fullIn[v]))
	}
	o.logger.Debug("design: compiled",
		zap.String("formula", ef.String()),
		zap.Bool("intercept", p.intercept),
		zap.Int("terms", len(p.terms)),
		zap.Strings("columns", p.columns))

	return p, nil
}

// Formula is the expanded formula the plan was compiled from.
func (p *Plan) Formula() *formula.Formula { return p.formula }

// Scheme is the name of the contrast scheme.
func (p *Plan) Scheme() string { return p.scheme }

// Columns lists the model column names in X order.
func (p *Plan) Columns() []string { return slices.Clone(p.columns) }

// Terms returns the term→column spans.
func (p *Plan) Terms() []TermSpan { return cloneSpans(p.spans) }

// resolve looks up a formula name in the table and re-validates the column.
func resolve(tbl *frame.Table, name string) (*frame.Column, error) {
	col, err := tbl.Column(name)
	if errors.Is(err, frame.ErrUnknownColumn) {
		return nil, fmt.Errorf("column %q not in table: %w", name, ErrInvalidFormula)
	}
	if err != nil {
		return nil, err
	}
	if err = col.Validate(); err != nil {
		return nil, err
	}

	return col, nil
}

// checkFactor requires two or more declared levels, each observed.
func checkFactor(col *frame.Column) error {
	if col.NumLevels() < 2 {
		return fmt.Errorf("factor %q has %d level(s): %w", col.Name(), col.NumLevels(), ErrDegenerateFactor)
	}
	levels := col.Levels()
	for i, n := range col.Counts() {
		if n == 0 {
			return fmt.Errorf("factor %q: level %q has no observations: %w", col.Name(), levels[i], ErrDegenerateFactor)
		}
	}

	return nil
}

// codeFactor returns the contrast and indicator codings of a categorical column.
func codeFactor(col *frame.Column, scheme contrast.Scheme) (factorCode, factorCode, error) {
	levels := col.Levels()
	base := col.BaselineIndex()
	if ov, ok := scheme.(contrast.BaselineOverride); ok {
		if lvl, ok := ov.BaselineFor(col.Name()); ok {
			if base = slices.Index(levels, lvl); base < 0 {
				return factorCode{}, factorCode{}, fmt.Errorf(
					"baseline %q is not a level of %q: %w", lvl, col.Name(), ErrTypeMismatch)
			}
		}
	}

	c, suffixes, err := scheme.Coding(levels, base)
	if errors.Is(err, contrast.ErrTooFewLevels) {
		return factorCode{}, factorCode{}, fmt.Errorf("factor %q: %w: %w", col.Name(), ErrDegenerateFactor, err)
	}
	if err != nil {
		return factorCode{}, factorCode{}, err
	}
	ind, indSuffixes, err := contrast.Indicator(levels)
	if err != nil {
		return factorCode{}, factorCode{}, err
	}

	con := factorCode{name: col.Name(), categorical: true, baseline: base, suffixes: suffixes}
	full := factorCode{name: col.Name(), categorical: true, full: true, baseline: base, suffixes: indSuffixes}
	if con.rows, err = denseRows(c); err != nil {
		return factorCode{}, factorCode{}, err
	}
	if full.rows, err = denseRows(ind); err != nil {
		return factorCode{}, factorCode{}, err
	}

	return con, full, nil
}

func denseRows(m *matrix.Dense) ([][]float64, error) {
	out := make([][]float64, m.Rows())
	var err error
	for i := range out {
		if out[i], err = m.Row(i); err != nil {
			return nil, err
		}
	}

	return out, nil
}

// containedInEarlier reports whether rest is a subset of some earlier term.
func containedInEarlier(rest formula.Term, earlier []formula.Term) bool {
	for _, e := range earlier {
		if rest.SubsetOf(e) {
			return true
		}
	}

	return false
}

// enumerate lists the Cartesian combinations of the factors' coding columns,
// first factor varying fastest. Names quote variables the way term labels do. With dropBaseline the combination in which
// every factor sits on its baseline level is skipped; the intercept carries it.
func (tp *termPlan) enumerate() {
	d := len(tp.factors)
	total := 1
	for _, fc := range tp.factors {
		total *= fc.width()
	}

	idx := make([]int, d)
	parts := make([]string, d)
	for n := 0; n < total; n++ {
		if !(tp.dropBaseline && tp.atBaseline(idx)) {
			for i, fc := range tp.factors {
				parts[i] = formula.Term{fc.name}.Label()
				if fc.categorical {
					parts[i] += fc.suffixes[idx[i]]
				}
			}
			tp.names = append(tp.names, strings.Join(parts, ":"))
			tp.combos = append(tp.combos, slices.Clone(idx))
		}
		for i := 0; i < d; i++ {
			idx[i]++
			if idx[i] < tp.factors[i].width() {
				break
			}
			idx[i] = 0
		}
	}
}

func (tp *termPlan) atBaseline(idx []int) bool {
	for i, fc := range tp.factors {
		if idx[i] != fc.baseline {
			return false
		}
	}

	return true
}

func cloneSpans(in []TermSpan) []TermSpan {
	out := make([]TermSpan, len(in))
	for i, s := range in {
		s.Factors = slices.Clone(s.Factors)
		out[i] = s
	}

	return out
}
