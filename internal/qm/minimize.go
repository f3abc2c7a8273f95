// Package qm minimizes single-output Boolean functions into sum-of-products
// covers using Quine-McCluskey prime generation, Petrick's method and a gate
// cost model.
package qm

import (
	"io"
	"sort"

	"github.com/sirupsen/logrus"
)

// Function is a Boolean function over Width variables given by the terms
// that must be true and the terms whose value does not matter.
type Function struct {
	Width     int   `json:"width" yaml:"width"`
	Minterms  []int `json:"minterms" yaml:"minterms"`
	DontCares []int `json:"dontCares,omitempty" yaml:"dontCares,omitempty"`
}

// Normalize validates every term and returns a copy with sorted,
// deduplicated lists and with don't-cares that are also minterms removed.
func (fn Function) Normalize() (Function, error) {
	if err := checkWidth(fn.Width); err != nil {
		return Function{}, err
	}
	out := Function{Width: fn.Width}
	isMinterm := make(map[int]bool, len(fn.Minterms))
	for _, m := range fn.Minterms {
		if err := checkTerm(m, fn.Width); err != nil {
			return Function{}, err
		}
		if !isMinterm[m] {
			isMinterm[m] = true
			out.Minterms = append(out.Minterms, m)
		}
	}
	seen := make(map[int]bool, len(fn.DontCares))
	for _, d := range fn.DontCares {
		if err := checkTerm(d, fn.Width); err != nil {
			return Function{}, err
		}
		if !isMinterm[d] && !seen[d] {
			seen[d] = true
			out.DontCares = append(out.DontCares, d)
		}
	}
	sort.Ints(out.Minterms)
	sort.Ints(out.DontCares)
	return out, nil
}

// Config tunes a minimization run.
type Config struct {
	// PetrickCap bounds the products surviving one Petrick multiplication.
	// Zero means DefaultPetrickCap.
	PetrickCap int
	Logger     logrus.FieldLogger
}

func (c Config) logger() logrus.FieldLogger {
	if c.Logger != nil {
		return c.Logger
	}
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// Result holds every stage's output for one function.
type Result struct {
	Function  Function
	Primes    []Implicant
	Essential []bool
	// Uncovered lists the minterms left after removing essential primes.
	Uncovered []int
	// Covers are all minimum-size covers, as indices into Primes.
	Covers   [][]int
	Cheapest []CostedCover
}

// EssentialIndices returns the indices of the essential primes.
func (r *Result) EssentialIndices() []int {
	var out []int
	for i, e := range r.Essential {
		if e {
			out = append(out, i)
		}
	}
	return out
}

// Implicants resolves a cover to its primes.
func (r *Result) Implicants(cover []int) []Implicant {
	out := make([]Implicant, len(cover))
	for i, pi := range cover {
		out[i] = r.Primes[pi]
	}
	return out
}

// Minimize runs the whole pipeline: prime generation over minterms and
// don't-cares, essential detection, Petrick's method over what remains and
// cost selection among the resulting covers.
func Minimize(fn Function, cfg Config) (*Result, error) {
	fn, err := fn.Normalize()
	if err != nil {
		return nil, err
	}
	log := cfg.logger().WithField("width", fn.Width)

	terms := make([]int, 0, len(fn.Minterms)+len(fn.DontCares))
	terms = append(terms, fn.Minterms...)
	terms = append(terms, fn.DontCares...)
	primes, err := PrimeImplicants(fn.Width, terms)
	if err != nil {
		return nil, err
	}
	log.WithField("primes", len(primes)).Debug("collected prime implicants")

	essential := Essentials(primes, fn.Minterms)
	res := &Result{
		Function:  fn,
		Primes:    primes,
		Essential: essential,
		Uncovered: Uncovered(primes, essential, fn.Minterms),
	}
	log.WithFields(logrus.Fields{
		"essential": len(res.EssentialIndices()),
		"uncovered": len(res.Uncovered),
	}).Debug("essential prime implicants")

	res.Covers, err = Petrick(primes, essential, fn.Minterms, cfg.PetrickCap)
	if err != nil {
		return nil, err
	}
	res.Cheapest = CheapestCovers(primes, res.Covers)
	log.WithFields(logrus.Fields{
		"covers": len(res.Covers),
		"cost":   res.Cheapest[0].Cost,
	}).Debug("selected minimal-cost covers")
	return res, nil
}
