package expr

import (
	"fmt"
	"strings"
	"unicode"
)

// Parse reads a complete expression.
func Parse(s string) (Expr, error) {
	p := &parser{lex: newLexer(s)}
	x, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if tok := p.lex.next(); tok.kind != tokEOF {
		return nil, fmt.Errorf("unexpected token %q", tok.text)
	}
	return x, nil
}

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokConst
	tokNot
	tokAnd
	tokOr
	tokXor
	tokLParen
	tokRParen
	tokBad
)

type token struct {
	kind tokenKind
	text string
}

type lexer struct {
	s string
	i int
}

func newLexer(s string) *lexer { return &lexer{s: s} }

func (l *lexer) peek() token {
	pos := l.i
	tok := l.next()
	l.i = pos
	return tok
}

func (l *lexer) next() token {
	for l.i < len(l.s) && unicode.IsSpace(rune(l.s[l.i])) {
		l.i++
	}
	if l.i >= len(l.s) {
		return token{kind: tokEOF}
	}
	ch := l.s[l.i]
	switch ch {
	case '!', '~':
		l.i++
		return token{kind: tokNot, text: string(ch)}
	case '&':
		l.i++
		return token{kind: tokAnd, text: "&"}
	case '|', '#':
		l.i++
		return token{kind: tokOr, text: string(ch)}
	case '$', '^':
		l.i++
		return token{kind: tokXor, text: string(ch)}
	case '(':
		l.i++
		return token{kind: tokLParen, text: "("}
	case ')':
		l.i++
		return token{kind: tokRParen, text: ")"}
	}

	rest := l.s[l.i:]
	for _, c := range []string{"1'b0", "1'b1", "'b'0", "'b'1"} {
		if strings.HasPrefix(rest, c) {
			l.i += len(c)
			return token{kind: tokConst, text: c[len(c)-1:]}
		}
	}
	if ch == '0' || ch == '1' {
		if l.i+1 >= len(l.s) || !isIdentPart(l.s[l.i+1]) {
			l.i++
			return token{kind: tokConst, text: string(ch)}
		}
	}

	if isIdentStart(ch) {
		start := l.i
		l.i++
		for l.i < len(l.s) && isIdentPart(l.s[l.i]) {
			l.i++
		}
		return token{kind: tokIdent, text: l.s[start:l.i]}
	}

	l.i++
	return token{kind: tokBad, text: string(ch)}
}

func isIdentStart(b byte) bool {
	return unicode.IsLetter(rune(b)) || b == '_'
}

func isIdentPart(b byte) bool {
	return isIdentStart(b) || unicode.IsDigit(rune(b))
}

type parser struct {
	lex *lexer
}

func (p *parser) binary(kind tokenKind, operand func() (Expr, error), join func(a, b Expr) Expr) (Expr, error) {
	left, err := operand()
	if err != nil {
		return nil, err
	}
	for p.lex.peek().kind == kind {
		p.lex.next()
		right, err := operand()
		if err != nil {
			return nil, err
		}
		left = join(left, right)
	}
	return left, nil
}

func (p *parser) parseOr() (Expr, error) {
	return p.binary(tokOr, p.parseXor, func(a, b Expr) Expr { return Or{A: a, B: b} })
}

func (p *parser) parseXor() (Expr, error) {
	return p.binary(tokXor, p.parseAnd, func(a, b Expr) Expr { return Xor{A: a, B: b} })
}

func (p *parser) parseAnd() (Expr, error) {
	return p.binary(tokAnd, p.parseUnary, func(a, b Expr) Expr { return And{A: a, B: b} })
}

func (p *parser) parseUnary() (Expr, error) {
	if p.lex.peek().kind == tokNot {
		p.lex.next()
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return Not{X: x}, nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (Expr, error) {
	tok := p.lex.next()
	switch tok.kind {
	case tokIdent:
		return Ident{Name: tok.text}, nil
	case tokConst:
		return Const{Value: tok.text == "1"}, nil
	case tokLParen:
		x, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if p.lex.next().kind != tokRParen {
			return nil, fmt.Errorf("expected )")
		}
		return x, nil
	case tokEOF:
		return nil, fmt.Errorf("unexpected end of expression")
	default:
		return nil, fmt.Errorf("unexpected token %q", tok.text)
	}
}
