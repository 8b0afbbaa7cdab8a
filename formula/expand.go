// SPDX-License-Identifier: MIT

package formula

import (
	"errors"
	"slices"
	"strconv"
	"strings"
)

// errNeedColumns signals that a '.' was met while no column list was known.
var errNeedColumns = errors.New("formula: '.' needs the table's columns")

// intercept state carried by a partial expansion: unset, added or removed.
const (
	icptUnset int8 = iota
	icptAdd
	icptRemove
)

// termSet is the expansion of one subtree. Each term is a sorted list of
// variable ids; ids follow first appearance, so sorting puts a term's
// variables in formula order.
type termSet struct {
	terms [][]int
	icpt  int8
}

// expander turns a right-hand-side tree into an ordered, de-duplicated list
// of terms.
type expander struct {
	columns []string        // '.' expansion source; nil when unknown
	exclude map[string]bool // response names, never part of '.'
	ids     map[string]int
	names   []string
}

func newExpander(columns []string, responses []string) *expander {
	e := &expander{
		columns: columns,
		exclude: make(map[string]bool, len(responses)),
		ids:     make(map[string]int),
	}
	for _, r := range responses {
		e.exclude[r] = true
	}

	return e
}

func (e *expander) id(name string) int {
	if id, ok := e.ids[name]; ok {
		return id
	}
	id := len(e.names)
	e.ids[name] = id
	e.names = append(e.names, name)

	return id
}

// run expands root and returns the intercept flag plus the named terms.
func (e *expander) run(root *Node) (bool, []Term, error) {
	ts, err := e.eval(root)
	if err != nil {
		return false, nil, err
	}
	terms := make([]Term, len(ts.terms))
	for i, ids := range ts.terms {
		t := make(Term, len(ids))
		for j, id := range ids {
			t[j] = e.names[id]
		}
		terms[i] = t
	}

	return ts.icpt != icptRemove, terms, nil
}

func (e *expander) eval(n *Node) (termSet, error) {
	if n == nil {
		return termSet{}, nil
	}
	switch n.Kind {
	case NodeIntercept:
		return termSet{icpt: icptAdd}, nil

	case NodeZero:
		return termSet{icpt: icptRemove}, nil

	case NodeVar:
		return termSet{terms: [][]int{{e.id(n.Name)}}}, nil

	case NodeDot:
		if e.columns == nil {
			return termSet{}, errNeedColumns
		}
		var ts termSet
		for _, c := range e.columns {
			if !e.exclude[c] {
				ts.terms = append(ts.terms, []int{e.id(c)})
			}
		}
		return ts, nil

	case NodePower:
		base, err := e.eval(n.Left)
		if err != nil {
			return termSet{}, err
		}
		if base.icpt != icptUnset {
			return termSet{}, syntaxError(n.Pos, "intercept literal inside '^'")
		}
		// Crossing saturates once no new term appears, at the latest when
		// the degree reaches the number of distinct variables.
		out := base.terms
		for i := 1; i < n.Exp; i++ {
			next := union(out, interact(out, base.terms))
			if len(next) == len(out) {
				break
			}
			out = next
		}
		return termSet{terms: out}, nil

	case NodeBinary:
		return e.evalBinary(n)
	}

	return termSet{}, syntaxError(n.Pos, "unknown node kind %d", n.Kind)
}

func (e *expander) evalBinary(n *Node) (termSet, error) {
	l, err := e.eval(n.Left)
	if err != nil {
		return termSet{}, err
	}
	r, err := e.eval(n.Right)
	if err != nil {
		return termSet{}, err
	}

	switch n.Op {
	case OpAdd:
		icpt := l.icpt
		if r.icpt != icptUnset {
			icpt = r.icpt
		}
		return termSet{terms: union(l.terms, r.terms), icpt: icpt}, nil

	case OpRemove:
		icpt := l.icpt
		switch r.icpt {
		case icptAdd:
			icpt = icptRemove
		case icptRemove:
			icpt = icptAdd
		}
		return termSet{terms: subtract(l.terms, r.terms), icpt: icpt}, nil
	}

	if l.icpt != icptUnset || r.icpt != icptUnset {
		return termSet{}, syntaxError(n.Pos, "intercept literal inside '%c'", n.Op)
	}
	if len(l.terms) == 0 || len(r.terms) == 0 {
		return termSet{}, syntaxError(n.Pos, "empty operand of '%c'", n.Op)
	}

	switch n.Op {
	case OpInteract:
		return termSet{terms: interact(l.terms, r.terms)}, nil
	case OpCross:
		return termSet{terms: union(union(l.terms, r.terms), interact(l.terms, r.terms))}, nil
	case OpNest:
		// a/b is a + a:b; (a+b)/c is a + b + a:b:c.
		var all []int
		for _, t := range l.terms {
			all = mergeIDs(all, t)
		}
		return termSet{terms: union(l.terms, interact([][]int{all}, r.terms))}, nil
	}

	return termSet{}, syntaxError(n.Pos, "unknown operator %q", n.Op)
}

// mergeIDs returns the sorted union of two sorted id lists.
func mergeIDs(a, b []int) []int {
	out := make([]int, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) || j < len(b) {
		switch {
		case j == len(b) || (i < len(a) && a[i] < b[j]):
			out = append(out, a[i])
			i++
		case i == len(a) || b[j] < a[i]:
			out = append(out, b[j])
			j++
		default:
			out = append(out, a[i])
			i++
			j++
		}
	}

	return out
}

func termKey(ids []int) string {
	var sb strings.Builder
	for i, id := range ids {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.Itoa(id))
	}

	return sb.String()
}

// union keeps a's terms then b's unseen ones; first occurrence wins.
func union(a, b [][]int) [][]int {
	seen := make(map[string]bool, len(a)+len(b))
	out := make([][]int, 0, len(a)+len(b))
	for _, src := range [][][]int{a, b} {
		for _, t := range src {
			k := termKey(t)
			if seen[k] {
				continue
			}
			seen[k] = true
			out = append(out, t)
		}
	}

	return out
}

func interact(a, b [][]int) [][]int {
	out := make([][]int, 0, len(a)*len(b))
	for _, x := range a {
		for _, y := range b {
			out = append(out, mergeIDs(x, y))
		}
	}

	return union(out, nil)
}

func subtract(a, b [][]int) [][]int {
	drop := make(map[string]bool, len(b))
	for _, t := range b {
		drop[termKey(t)] = true
	}

	return slices.DeleteFunc(slices.Clone(a), func(t []int) bool { return drop[termKey(t)] })
}
