// Package expr parses and evaluates Boolean expressions over named signals.
//
// Both CUPL-style (!a & b # c, a $ b) and Verilog-style (~a & b | c, a ^ b)
// operators are accepted, with constants 0, 1, 'b'0, 'b'1, 1'b0 and 1'b1.
// Precedence from loosest to tightest: or, xor, and, not.
package expr

import (
	"fmt"
)

type Expr interface{ isExpr() }

type Ident struct{ Name string }

func (Ident) isExpr() {}

type Not struct{ X Expr }

func (Not) isExpr() {}

type And struct{ A, B Expr }

func (And) isExpr() {}

type Or struct{ A, B Expr }

func (Or) isExpr() {}

type Xor struct{ A, B Expr }

func (Xor) isExpr() {}

type Const struct{ Value bool }

func (Const) isExpr() {}

// Idents lists the signal names in x in order of first appearance.
func Idents(x Expr) []string {
	var out []string
	seen := map[string]bool{}
	var walk func(Expr)
	walk = func(x Expr) {
		switch x := x.(type) {
		case Ident:
			if !seen[x.Name] {
				seen[x.Name] = true
				out = append(out, x.Name)
			}
		case Not:
			walk(x.X)
		case And:
			walk(x.A)
			walk(x.B)
		case Or:
			walk(x.A)
			walk(x.B)
		case Xor:
			walk(x.A)
			walk(x.B)
		}
	}
	walk(x)
	return out
}

// Eval computes x, resolving identifiers through lookup.
func Eval(x Expr, lookup func(name string) (bool, error)) (bool, error) {
	switch x := x.(type) {
	case Const:
		return x.Value, nil
	case Ident:
		return lookup(x.Name)
	case Not:
		v, err := Eval(x.X, lookup)
		return !v, err
	case And:
		return evalPair(x.A, x.B, lookup, func(a, b bool) bool { return a && b })
	case Or:
		return evalPair(x.A, x.B, lookup, func(a, b bool) bool { return a || b })
	case Xor:
		return evalPair(x.A, x.B, lookup, func(a, b bool) bool { return a != b })
	}
	return false, fmt.Errorf("unknown expression %T", x)
}

func evalPair(a, b Expr, lookup func(string) (bool, error), op func(a, b bool) bool) (bool, error) {
	va, err := Eval(a, lookup)
	if err != nil {
		return false, err
	}
	vb, err := Eval(b, lookup)
	if err != nil {
		return false, err
	}
	return op(va, vb), nil
}
