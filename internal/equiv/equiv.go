// Package equiv checks minimized covers against their functions with the
// gini SAT solver.
package equiv

import (
	"fmt"

	"github.com/go-air/gini"
	"github.com/go-air/gini/logic"
	"github.com/go-air/gini/z"
	"github.com/pkg/errors"

	"github.com/pborges/qmin/internal/qm"
)

// MaxVerifyWidth bounds the circuits built for a check.
const MaxVerifyWidth = 16

const (
	satisfiable   = 1
	unsatisfiable = -1
)

var ErrTooWide = errors.Errorf("functions wider than %d variables cannot be verified", MaxVerifyWidth)

// MismatchError reports one input on which a cover and its function disagree.
type MismatchError struct {
	Term int
	// Missing is set when the function requires Term but the cover is false
	// there; otherwise the cover is true on a term outside on-set and
	// don't-cares.
	Missing bool
}

func (e *MismatchError) Error() string {
	if e.Missing {
		return fmt.Sprintf("cover misses minterm %d", e.Term)
	}
	return fmt.Sprintf("cover is true on term %d outside the function", e.Term)
}

type circuit struct {
	c    *logic.C
	vars []z.Lit
}

func newCircuit(width int) (*circuit, error) {
	if width < 1 || width > MaxVerifyWidth {
		return nil, ErrTooWide
	}
	c := logic.NewC()
	vars := make([]z.Lit, width)
	for i := range vars {
		vars[i] = c.Lit()
	}
	return &circuit{c: c, vars: vars}, nil
}

func (ct *circuit) term(v int) z.Lit {
	lits := make([]z.Lit, len(ct.vars))
	for i, x := range ct.vars {
		if v>>uint(i)&1 == 1 {
			lits[i] = x
		} else {
			lits[i] = x.Not()
		}
	}
	return ct.c.Ands(lits...)
}

func (ct *circuit) terms(vs []int) z.Lit {
	lits := make([]z.Lit, len(vs))
	for i, v := range vs {
		lits[i] = ct.term(v)
	}
	return ct.c.Ors(lits...)
}

func (ct *circuit) product(imp qm.Implicant) z.Lit {
	var lits []z.Lit
	for _, l := range imp.Literals() {
		if l.Negated {
			lits = append(lits, ct.vars[l.Var].Not())
		} else {
			lits = append(lits, ct.vars[l.Var])
		}
	}
	return ct.c.Ands(lits...)
}

// solver translates the circuit into a fresh gini instance. Every input
// variable is mentioned once so its value can be read back from a model.
func (ct *circuit) solver() *gini.Gini {
	g := gini.New()
	ct.c.ToCnf(g)
	for _, x := range ct.vars {
		g.Add(x)
		g.Add(x.Not())
		g.Add(0)
	}
	return g
}

func (ct *circuit) model(g *gini.Gini) int {
	v := 0
	for i, x := range ct.vars {
		if g.Value(x) {
			v |= 1 << uint(i)
		}
	}
	return v
}

// Check proves that the cover, given as indices into primes, is true on
// every minterm of fn and false on every term that is neither a minterm nor
// a don't-care.
func Check(fn qm.Function, primes []qm.Implicant, cover []int) error {
	ct, err := newCircuit(fn.Width)
	if err != nil {
		return err
	}
	products := make([]z.Lit, 0, len(cover))
	for _, pi := range cover {
		if pi < 0 || pi >= len(primes) {
			return errors.Errorf("cover references prime %d of %d", pi, len(primes))
		}
		if primes[pi].Width() != fn.Width {
			return errors.Wrapf(qm.ErrWidthMismatch, "prime %d", pi)
		}
		products = append(products, ct.product(primes[pi]))
	}
	f := ct.c.Ors(products...)
	on := ct.terms(fn.Minterms)
	dc := ct.terms(fn.DontCares)
	missing := ct.c.And(on, f.Not())
	extra := ct.c.And(f, ct.c.Or(on, dc).Not())

	g := ct.solver()
	for _, q := range []struct {
		lit     z.Lit
		missing bool
	}{{missing, true}, {extra, false}} {
		g.Assume(q.lit)
		if g.Solve() == satisfiable {
			return &MismatchError{Term: ct.model(g), Missing: q.missing}
		}
	}
	return nil
}

// MinimumCover finds a smallest set of primes covering every minterm of fn
// by tightening a cardinality bound over prime selectors until the cover
// constraint becomes satisfiable.
func MinimumCover(fn qm.Function, primes []qm.Implicant) ([]int, error) {
	if len(fn.Minterms) == 0 {
		return []int{}, nil
	}
	ct, err := newCircuit(fn.Width)
	if err != nil {
		return nil, err
	}
	sel := make([]z.Lit, len(primes))
	for i := range sel {
		sel[i] = ct.c.Lit()
	}
	covered := make([]z.Lit, 0, len(fn.Minterms))
	for _, m := range fn.Minterms {
		var by []z.Lit
		for i, p := range primes {
			if p.Matches(m) {
				by = append(by, sel[i])
			}
		}
		if len(by) == 0 {
			return nil, errors.Wrapf(qm.ErrUncoverableTerm, "minterm %d", m)
		}
		covered = append(covered, ct.c.Ors(by...))
	}
	all := ct.c.Ands(covered...)
	cs := ct.c.CardSort(sel)

	g := ct.solver()
	for _, s := range sel {
		g.Add(s)
		g.Add(s.Not())
		g.Add(0)
	}
	for w := 1; w <= cs.N(); w++ {
		g.Assume(all, cs.Leq(w))
		switch g.Solve() {
		case satisfiable:
			var out []int
			for i, s := range sel {
				if g.Value(s) {
					out = append(out, i)
				}
			}
			return out, nil
		case unsatisfiable:
			continue
		default:
			return nil, errors.New("solver cancelled")
		}
	}
	return nil, errors.Wrap(qm.ErrUncoverableTerm, "no set of primes covers every minterm")
}

// MinimumCoverSize is the number of primes in a smallest cover.
func MinimumCoverSize(fn qm.Function, primes []qm.Implicant) (int, error) {
	cover, err := MinimumCover(fn, primes)
	if err != nil {
		return 0, err
	}
	return len(cover), nil
}
