// SPDX-License-Identifier: MIT

package formula

import (
	"strconv"
	"strings"
)

// NodeKind tags the variant held by a Node.
type NodeKind int

const (
	// NodeIntercept is the literal 1.
	NodeIntercept NodeKind = iota
	// NodeZero is the literal 0.
	NodeZero
	// NodeVar is a column reference.
	NodeVar
	// NodeDot is '.', every non-response column of the table.
	NodeDot
	// NodeBinary is one of + - : * / applied to Left and Right.
	NodeBinary
	// NodePower is Left ^ Exp.
	NodePower
)

// Op is the operator of a NodeBinary.
type Op byte

const (
	OpAdd      Op = '+'
	OpRemove   Op = '-'
	OpInteract Op = ':'
	OpCross    Op = '*'
	OpNest     Op = '/'
)

// Node is one vertex of the right-hand-side syntax tree.
//
// A unary minus (as in "~ -1 + x") is a NodeBinary with OpRemove and a nil
// Left operand.
type Node struct {
	Kind  NodeKind
	Name  string // NodeVar
	Op    Op     // NodeBinary
	Left  *Node  // NodeBinary, NodePower
	Right *Node  // NodeBinary
	Exp   int    // NodePower
	Pos   int    // byte offset of the node's first token
}

// String renders the subtree with full parenthesization.
func (n *Node) String() string {
	var sb strings.Builder
	n.write(&sb)

	return sb.String()
}

func (n *Node) write(sb *strings.Builder) {
	if n == nil {
		return
	}
	switch n.Kind {
	case NodeIntercept:
		sb.WriteByte('1')
	case NodeZero:
		sb.WriteByte('0')
	case NodeVar:
		sb.WriteString(quoteName(n.Name))
	case NodeDot:
		sb.WriteByte('.')
	case NodeBinary:
		sb.WriteByte('(')
		if n.Left != nil {
			n.Left.write(sb)
			sb.WriteByte(' ')
		}
		sb.WriteByte(byte(n.Op))
		sb.WriteByte(' ')
		n.Right.write(sb)
		sb.WriteByte(')')
	case NodePower:
		sb.WriteByte('(')
		n.Left.write(sb)
		sb.WriteString(")^")
		sb.WriteString(strconv.Itoa(n.Exp))
	}
}

// quoteName back-quotes names that would not lex as a plain identifier.
func quoteName(name string) string {
	toks, err := lex(name)
	if err == nil && len(toks) == 2 && toks[0].kind == tokIdent && toks[0].text == name {
		return name
	}

	return "`" + name + "`"
}
