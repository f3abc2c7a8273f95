package qm

import (
	"sort"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/pkg/errors"
)

// DefaultPetrickCap bounds the number of products that may survive a single
// multiplication step of Petrick's method.
const DefaultPetrickCap = 4096

// product is a set of prime indices whose conjunction covers some terms.
type product = mapset.Set[int]

func newProduct(pis ...int) product {
	return mapset.NewThreadUnsafeSet(pis...)
}

// Petrick finds every minimum-size exact cover of minterms. Essential primes
// are taken as given; the remaining minterms are covered by expanding the
// product of sums of their covering primes into a sum of products with
// absorption after every insertion. Each returned cover lists prime indices
// in ascending order and includes the essentials. A limit of zero means
// DefaultPetrickCap.
func Petrick(primes []Implicant, essential []bool, minterms []int, limit int) ([][]int, error) {
	if limit <= 0 {
		limit = DefaultPetrickCap
	}
	var essentials []int
	for pi, e := range essential {
		if e {
			essentials = append(essentials, pi)
		}
	}

	remaining := Uncovered(primes, essential, minterms)
	if len(remaining) == 0 {
		return [][]int{essentials}, nil
	}

	sums := make([]product, 0, len(remaining))
	for _, m := range remaining {
		s := newProduct()
		for pi, p := range primes {
			if !essential[pi] && p.Covers(m) {
				s.Add(pi)
			}
		}
		if s.Cardinality() == 0 {
			return nil, errors.Wrapf(ErrUncoverableTerm, "minterm %d", m)
		}
		sums = append(sums, s)
	}
	sums = absorbSums(sums)

	// Each sum becomes a sum of single-prime products.
	level := make([][]product, len(sums))
	for i, s := range sums {
		for _, pi := range sortedSlice(s) {
			level[i] = append(level[i], newProduct(pi))
		}
	}
	for len(level) > 1 {
		next := make([][]product, 0, (len(level)+1)/2)
		for i := 0; i < len(level); i += 2 {
			if i+1 == len(level) {
				next = append(next, level[i])
				continue
			}
			sop, err := multiply(level[i], level[i+1], limit)
			if err != nil {
				if re, ok := err.(*ResourceExhaustedError); ok {
					re.Remaining = len(remaining)
				}
				return nil, err
			}
			next = append(next, sop)
		}
		level = next
	}

	best := -1
	for _, p := range level[0] {
		if n := p.Cardinality(); best < 0 || n < best {
			best = n
		}
	}
	var covers [][]int
	for _, p := range level[0] {
		if p.Cardinality() != best {
			continue
		}
		cover := append(sortedSlice(p), essentials...)
		sort.Ints(cover)
		covers = append(covers, cover)
	}
	sortCovers(covers)
	return covers, nil
}

// multiply distributes two sums of products and keeps only products that
// do not absorb another.
func multiply(a, b []product, limit int) ([]product, error) {
	var out []product
	for _, x := range a {
		for _, y := range b {
			out = insertAbsorbing(out, x.Union(y))
			if len(out) > limit {
				return nil, &ResourceExhaustedError{Cap: limit, Candidates: len(out)}
			}
		}
	}
	return out, nil
}

// insertAbsorbing adds p unless an existing product is a subset of it, and
// drops existing products that are supersets of p (X + XY = X).
func insertAbsorbing(sop []product, p product) []product {
	for _, q := range sop {
		if p.IsSuperset(q) {
			return sop
		}
	}
	kept := sop[:0]
	for _, q := range sop {
		if !q.IsSuperset(p) {
			kept = append(kept, q)
		}
	}
	return append(kept, p)
}

// absorbSums drops sums implied by a smaller one: X(X + Y) = X.
func absorbSums(sums []product) []product {
	sorted := append([]product(nil), sums...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Cardinality() < sorted[j].Cardinality()
	})
	var out []product
	for _, s := range sorted {
		implied := false
		for _, kept := range out {
			if s.IsSuperset(kept) {
				implied = true
				break
			}
		}
		if !implied {
			out = append(out, s)
		}
	}
	return out
}

func sortedSlice(s product) []int {
	out := s.ToSlice()
	sort.Ints(out)
	return out
}

func sortCovers(covers [][]int) {
	sort.Slice(covers, func(i, j int) bool {
		a, b := covers[i], covers[j]
		for k := 0; k < len(a) && k < len(b); k++ {
			if a[k] != b[k] {
				return a[k] < b[k]
			}
		}
		return len(a) < len(b)
	})
}
