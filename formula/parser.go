// SPDX-License-Identifier: MIT

package formula

// parser is a recursive-descent parser over the token stream.
//
//	formula := [lhs] '~' sum
//	lhs     := name | 'cbind' '(' name {',' name} ')'
//	sum     := ['-'|'+'] prod { ('+' | '-') prod }
//	prod    := inter { ('*' | '/') inter }
//	inter   := power { ':' power }
//	power   := atom [ '^' integer ]
//	atom    := name | '0' | '1' | '.' | '(' sum ')'
type parser struct {
	toks []token
	i    int
}

func (p *parser) peek() token { return p.toks[p.i] }

func (p *parser) next() token {
	t := p.toks[p.i]
	if t.kind != tokEOF {
		p.i++
	}

	return t
}

func (p *parser) expect(k tokenKind) (token, error) {
	t := p.next()
	if t.kind != k {
		return t, p.unexpected(t, k.String())
	}

	return t, nil
}

func (p *parser) unexpected(t token, want string) error {
	if t.kind == tokBar {
		return syntaxError(t.pos, "random-effect terms ('|') are not supported")
	}
	if t.kind == tokEOF {
		return syntaxError(t.pos, "unexpected end of formula, expected %s", want)
	}

	return syntaxError(t.pos, "unexpected %s %q, expected %s", t.kind, t.text, want)
}

// parse reads the whole token stream and returns the response names and the
// right-hand-side tree.
func (p *parser) parse() ([]string, *Node, error) {
	var lhs []string
	if p.peek().kind != tokTilde {
		var err error
		if lhs, err = p.parseLHS(); err != nil {
			return nil, nil, err
		}
	}
	if _, err := p.expect(tokTilde); err != nil {
		return nil, nil, err
	}
	if p.peek().kind == tokEOF {
		return nil, nil, syntaxError(p.peek().pos, "empty right-hand side")
	}
	rhs, err := p.parseSum()
	if err != nil {
		return nil, nil, err
	}
	if t := p.peek(); t.kind != tokEOF {
		return nil, nil, p.unexpected(t, "operator or end of formula")
	}

	return lhs, rhs, nil
}

func (p *parser) parseLHS() ([]string, error) {
	t, err := p.expect(tokIdent)
	if err != nil {
		return nil, err
	}
	if t.text != "cbind" || p.peek().kind != tokLParen {
		return []string{t.text}, nil
	}
	p.next()

	var names []string
	for {
		name, err := p.expect(tokIdent)
		if err != nil {
			return nil, err
		}
		names = append(names, name.text)
		sep := p.next()
		if sep.kind == tokRParen {
			return names, nil
		}
		if sep.kind != tokComma {
			return nil, p.unexpected(sep, "',' or ')'")
		}
	}
}

func (p *parser) parseSum() (*Node, error) {
	var left *Node
	switch t := p.peek(); t.kind {
	case tokMinus:
		p.next()
		right, err := p.parseProd()
		if err != nil {
			return nil, err
		}
		left = &Node{Kind: NodeBinary, Op: OpRemove, Right: right, Pos: t.pos}
	case tokPlus:
		p.next()
		fallthrough
	default:
		var err error
		if left, err = p.parseProd(); err != nil {
			return nil, err
		}
	}

	for {
		t := p.peek()
		if t.kind != tokPlus && t.kind != tokMinus {
			return left, nil
		}
		p.next()
		right, err := p.parseProd()
		if err != nil {
			return nil, err
		}
		op := OpAdd
		if t.kind == tokMinus {
			op = OpRemove
		}
		left = &Node{Kind: NodeBinary, Op: op, Left: left, Right: right, Pos: t.pos}
	}
}

func (p *parser) parseProd() (*Node, error) {
	left, err := p.parseInter()
	if err != nil {
		return nil, err
	}
	for {
		t := p.peek()
		if t.kind != tokStar && t.kind != tokSlash {
			return left, nil
		}
		p.next()
		right, err := p.parseInter()
		if err != nil {
			return nil, err
		}
		op := OpCross
		if t.kind == tokSlash {
			op = OpNest
		}
		left = &Node{Kind: NodeBinary, Op: op, Left: left, Right: right, Pos: t.pos}
	}
}

func (p *parser) parseInter() (*Node, error) {
	left, err := p.parsePower()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokColon {
		t := p.next()
		right, err := p.parsePower()
		if err != nil {
			return nil, err
		}
		left = &Node{Kind: NodeBinary, Op: OpInteract, Left: left, Right: right, Pos: t.pos}
	}

	return left, nil
}

func (p *parser) parsePower() (*Node, error) {
	base, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	if p.peek().kind != tokCaret {
		return base, nil
	}
	caret := p.next()
	exp := p.next()
	if exp.kind != tokNumber {
		return nil, p.unexpected(exp, "integer exponent")
	}
	if exp.num < 1 {
		return nil, syntaxError(exp.pos, "exponent must be a positive integer, got %d", exp.num)
	}

	return &Node{Kind: NodePower, Left: base, Exp: exp.num, Pos: caret.pos}, nil
}

func (p *parser) parseAtom() (*Node, error) {
	t := p.next()
	switch t.kind {
	case tokIdent:
		if p.peek().kind == tokLParen {
			return nil, syntaxError(t.pos, "function calls such as %s(...) are not supported", t.text)
		}
		return &Node{Kind: NodeVar, Name: t.text, Pos: t.pos}, nil
	case tokDot:
		return &Node{Kind: NodeDot, Pos: t.pos}, nil
	case tokNumber:
		switch t.num {
		case 0:
			return &Node{Kind: NodeZero, Pos: t.pos}, nil
		case 1:
			return &Node{Kind: NodeIntercept, Pos: t.pos}, nil
		}
		return nil, syntaxError(t.pos, "numeric term %d (only 0 and 1 are allowed)", t.num)
	case tokLParen:
		inner, err := p.parseSum()
		if err != nil {
			return nil, err
		}
		if _, err = p.expect(tokRParen); err != nil {
			return nil, err
		}
		return inner, nil
	}

	return nil, p.unexpected(t, "term")
}
