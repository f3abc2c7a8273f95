package input

import (
	"github.com/pkg/errors"

	"github.com/pborges/qmin/internal/expr"
	"github.com/pborges/qmin/internal/qm"
)

// FromExpression builds a function from a Boolean expression such as
// "!a & b # c" and an optional don't-care expression. names[i] is variable
// i; when names is empty the variables are taken in order of first
// appearance. The variable names used are returned alongside the function.
func FromExpression(on, dontCare string, names []string) (qm.Function, []string, error) {
	onX, err := expr.Parse(on)
	if err != nil {
		return qm.Function{}, nil, errors.Wrap(err, "expression")
	}
	var dcX expr.Expr = expr.Const{}
	if dontCare != "" {
		dcX, err = expr.Parse(dontCare)
		if err != nil {
			return qm.Function{}, nil, errors.Wrap(err, "don't-care expression")
		}
	}

	if len(names) == 0 {
		names = expr.Idents(onX)
		for _, n := range expr.Idents(dcX) {
			if !contains(names, n) {
				names = append(names, n)
			}
		}
	}
	if len(names) == 0 {
		return qm.Function{}, nil, errors.New("expression has no variables")
	}
	if len(names) > MaxWidth {
		return qm.Function{}, nil, errors.Errorf("number of variables must be between 1 and %d", MaxWidth)
	}
	index := make(map[string]int, len(names))
	for i, n := range names {
		if _, dup := index[n]; dup {
			return qm.Function{}, nil, errors.Errorf("variable %q listed twice", n)
		}
		index[n] = i
	}

	fn := qm.Function{Width: len(names)}
	for v := 0; v < 1<<uint(len(names)); v++ {
		lookup := func(name string) (bool, error) {
			i, ok := index[name]
			if !ok {
				return false, errors.Errorf("unknown variable %q", name)
			}
			return v>>uint(i)&1 == 1, nil
		}
		isOn, err := expr.Eval(onX, lookup)
		if err != nil {
			return qm.Function{}, nil, err
		}
		isDC, err := expr.Eval(dcX, lookup)
		if err != nil {
			return qm.Function{}, nil, err
		}
		switch {
		case isOn:
			fn.Minterms = append(fn.Minterms, v)
		case isDC:
			fn.DontCares = append(fn.DontCares, v)
		}
	}
	fn, err = fn.Normalize()
	return fn, names, err
}

func contains(xs []string, x string) bool {
	for _, s := range xs {
		if s == x {
			return true
		}
	}
	return false
}
