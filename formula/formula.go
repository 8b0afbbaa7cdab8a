// SPDX-License-Identifier: MIT

package formula

import (
	"errors"
	"slices"
	"strings"
)

// Term is an ordered set of one or more variable names; a term of degree
// two or more is an interaction. Variables appear in formula order, so
// "b:a" after "a" is stored as [a b].
type Term []string

// Label is the conventional "a:b" rendering.
func (t Term) Label() string {
	parts := make([]string, len(t))
	for i, v := range t {
		parts[i] = quoteName(v)
	}

	return strings.Join(parts, ":")
}

// Degree is the number of variables in the term.
func (t Term) Degree() int { return len(t) }

// Contains reports whether name is one of the term's variables.
func (t Term) Contains(name string) bool { return slices.Contains(t, name) }

// Without returns the term minus name (possibly empty).
func (t Term) Without(name string) Term {
	return slices.DeleteFunc(slices.Clone(t), func(v string) bool { return v == name })
}

// SubsetOf reports whether every variable of t is a variable of o.
func (t Term) SubsetOf(o Term) bool {
	for _, v := range t {
		if !o.Contains(v) {
			return false
		}
	}

	return true
}

// Formula is a parsed and expanded model formula.
//
// Response holds zero, one or (via cbind) several response names. Terms is
// the ordered, de-duplicated list of model terms after *, /, ^ and -
// expansion; the intercept is tracked separately. A formula that uses '.'
// has no Terms until Expand supplies the table's column names.
type Formula struct {
	Response  []string
	Intercept bool
	Terms     []Term

	src    string
	rhs    *Node
	hasDot bool
}

// Parse lexes, parses and expands src.
//
// Errors: every failure wraps ErrInvalidFormula.
func Parse(src string) (*Formula, error) {
	toks, err := lex(src)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	lhs, rhs, err := p.parse()
	if err != nil {
		return nil, err
	}
	if err = checkResponses(lhs); err != nil {
		return nil, err
	}

	f := &Formula{Response: lhs, src: src, rhs: rhs}
	icpt, terms, err := newExpander(nil, lhs).run(rhs)
	switch {
	case errors.Is(err, errNeedColumns):
		f.hasDot = true
		return f, nil
	case err != nil:
		return nil, err
	}
	f.Intercept, f.Terms = icpt, terms
	if err = f.checkTerms(); err != nil {
		return nil, err
	}

	return f, nil
}

// MustParse is Parse that panics on error, for formulas fixed at compile time.
func MustParse(src string) *Formula {
	f, err := Parse(src)
	if err != nil {
		panic(err)
	}

	return f
}

// HasDot reports whether the formula uses '.' and still needs Expand.
func (f *Formula) HasDot() bool { return f.hasDot }

// Source returns the text the formula was parsed from.
func (f *Formula) Source() string { return f.src }

// RHS returns the right-hand-side syntax tree.
func (f *Formula) RHS() *Node { return f.rhs }

// Expand resolves '.' against columns (every column that is not a
// response, in the given order). A formula without '.' is returned as a copy.
func (f *Formula) Expand(columns []string) (*Formula, error) {
	if !f.hasDot {
		return f.clone(), nil
	}
	if columns == nil {
		columns = []string{}
	}
	icpt, terms, err := newExpander(columns, f.Response).run(f.rhs)
	if err != nil {
		return nil, err
	}
	out := &Formula{
		Response:  slices.Clone(f.Response),
		Intercept: icpt,
		Terms:     terms,
		src:       f.src,
		rhs:       f.rhs,
	}

	if err = out.checkTerms(); err != nil {
		return nil, err
	}

	return out, nil
}

// OrderByDegree returns a copy whose terms are stably sorted by degree:
// main effects first, then two-way interactions, and so on.
func (f *Formula) OrderByDegree() *Formula {
	out := f.clone()
	slices.SortStableFunc(out.Terms, func(a, b Term) int { return a.Degree() - b.Degree() })

	return out
}

// Variables lists every distinct variable used by the terms, in first-use
// order. Responses are not included.
func (f *Formula) Variables() []string {
	var out []string
	seen := make(map[string]bool)
	for _, t := range f.Terms {
		for _, v := range t {
			if !seen[v] {
				seen[v] = true
				out = append(out, v)
			}
		}
	}

	return out
}

// String renders the expanded formula canonically, e.g. "y ~ a + b + a:b"
// or "y ~ 0 + a". A formula still holding '.' renders its source.
func (f *Formula) String() string {
	if f.hasDot {
		return f.src
	}
	var sb strings.Builder
	switch len(f.Response) {
	case 0:
	case 1:
		sb.WriteString(quoteName(f.Response[0]))
		sb.WriteByte(' ')
	default:
		parts := make([]string, len(f.Response))
		for i, r := range f.Response {
			parts[i] = quoteName(r)
		}
		sb.WriteString("cbind(" + strings.Join(parts, ", ") + ") ")
	}
	sb.WriteString("~ ")

	parts := make([]string, 0, len(f.Terms)+1)
	if f.Intercept {
		if len(f.Terms) == 0 {
			parts = append(parts, "1")
		}
	} else {
		parts = append(parts, "0")
	}
	for _, t := range f.Terms {
		parts = append(parts, t.Label())
	}
	sb.WriteString(strings.Join(parts, " + "))

	return sb.String()
}

func (f *Formula) clone() *Formula {
	out := *f
	out.Response = slices.Clone(f.Response)
	out.Terms = make([]Term, len(f.Terms))
	for i, t := range f.Terms {
		out.Terms[i] = slices.Clone(t)
	}

	return &out
}

func checkResponses(names []string) error {
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		if seen[n] {
			return invalidf("response %q listed twice", n)
		}
		seen[n] = true
	}

	return nil
}

func (f *Formula) checkTerms() error {
	for _, r := range f.Response {
		for _, t := range f.Terms {
			if t.Contains(r) {
				return invalidf("response %q also used in term %s", r, t.Label())
			}
		}
	}

	return nil
}
