// SPDX-License-Identifier: MIT

package formula

import (
	"strconv"
	"unicode"
	"unicode/utf8"
)

// tokenKind enumerates the lexical classes of the formula mini-language.
type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokNumber
	tokDot
	tokTilde
	tokPlus
	tokMinus
	tokStar
	tokSlash
	tokColon
	tokCaret
	tokLParen
	tokRParen
	tokComma
	tokBar
)

var tokenNames = [...]string{
	tokEOF:    "end of formula",
	tokIdent:  "name",
	tokNumber: "number",
	tokDot:    "'.'",
	tokTilde:  "'~'",
	tokPlus:   "'+'",
	tokMinus:  "'-'",
	tokStar:   "'*'",
	tokSlash:  "'/'",
	tokColon:  "':'",
	tokCaret:  "'^'",
	tokLParen: "'('",
	tokRParen: "')'",
	tokComma:  "','",
	tokBar:    "'|'",
}

func (k tokenKind) String() string { return tokenNames[k] }

// token is one lexeme with its byte offset in the source.
type token struct {
	kind tokenKind
	text string
	num  int
	pos  int
}

var punct = map[rune]tokenKind{
	'~': tokTilde,
	'+': tokPlus,
	'-': tokMinus,
	'*': tokStar,
	'/': tokSlash,
	':': tokColon,
	'^': tokCaret,
	'(': tokLParen,
	')': tokRParen,
	',': tokComma,
	'|': tokBar,
}

// lex splits src into tokens. Names follow the usual statistical-formula
// convention: letters, digits, '_' and '.', not starting with a digit; a
// lone '.' is the "all other columns" token. Back-quoted names may contain
// anything except a back quote.
func lex(src string) ([]token, error) {
	var toks []token
	i := 0
	for i < len(src) {
		r, w := utf8.DecodeRuneInString(src[i:])
		switch {
		case unicode.IsSpace(r):
			i += w

		case r == '`':
			end := i + 1
			for end < len(src) && src[end] != '`' {
				end++
			}
			if end >= len(src) {
				return nil, syntaxError(i, "unterminated back-quoted name")
			}
			if end == i+1 {
				return nil, syntaxError(i, "empty back-quoted name")
			}
			toks = append(toks, token{kind: tokIdent, text: src[i+1 : end], pos: i})
			i = end + 1

		case unicode.IsDigit(r):
			start := i
			for i < len(src) && src[i] >= '0' && src[i] <= '9' {
				i++
			}
			if i < len(src) && (isNameRune(rune(src[i])) || src[i] == '.') {
				return nil, syntaxError(start, "malformed number %q", src[start:i+1])
			}
			n, err := strconv.Atoi(src[start:i])
			if err != nil {
				return nil, syntaxError(start, "number %q out of range", src[start:i])
			}
			toks = append(toks, token{kind: tokNumber, text: src[start:i], num: n, pos: start})

		case r == '.' || isNameStart(r):
			start := i
			i += w
			for i < len(src) {
				r, w = utf8.DecodeRuneInString(src[i:])
				if !isNameRune(r) && r != '.' {
					break
				}
				i += w
			}
			text := src[start:i]
			if text == "." {
				toks = append(toks, token{kind: tokDot, text: text, pos: start})
				continue
			}
			if text[0] == '.' && len(text) > 1 && unicode.IsDigit(rune(text[1])) {
				return nil, syntaxError(start, "name %q starts with a number", text)
			}
			toks = append(toks, token{kind: tokIdent, text: text, pos: start})

		default:
			k, ok := punct[r]
			if !ok {
				return nil, syntaxError(i, "unexpected character %q", r)
			}
			toks = append(toks, token{kind: k, text: string(r), pos: i})
			i += w
		}
	}
	toks = append(toks, token{kind: tokEOF, pos: len(src)})

	return toks, nil
}

func isNameStart(r rune) bool { return unicode.IsLetter(r) || r == '_' }

func isNameRune(r rune) bool { return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' }
