package qm

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func patterns(imps []Implicant) []string {
	out := make([]string, len(imps))
	for i, imp := range imps {
		out[i] = imp.String()
	}
	return out
}

func TestMinimize_Tautology(t *testing.T) {
	res, err := Minimize(Function{Width: 2, Minterms: []int{0, 1, 2, 3}}, Config{})
	require.NoError(t, err)
	assert.Equal(t, []string{"--"}, patterns(res.Primes))
	assert.Equal(t, []int{0, 1, 2, 3}, res.Primes[0].Covering())
	assert.Equal(t, []bool{true}, res.Essential)
	assert.Equal(t, [][]int{{0}}, res.Covers)
	assert.Empty(t, res.Primes[0].Literals())
	assert.Equal(t, []CostedCover{{Cover: []int{0}, Cost: 0}}, res.Cheapest)
}

func TestMinimize_SingleVariable(t *testing.T) {
	res, err := Minimize(Function{Width: 2, Minterms: []int{3, 1}}, Config{})
	require.NoError(t, err)
	assert.Equal(t, []string{"-1"}, patterns(res.Primes))
	assert.Equal(t, []int{1, 3}, res.Primes[0].Covering())
	assert.Equal(t, []bool{true}, res.Essential)
	assert.Equal(t, []Literal{{Var: 0}}, res.Primes[0].Literals())
	assert.Equal(t, []CostedCover{{Cover: []int{0}, Cost: 4}}, res.Cheapest)
}

func TestMinimize_MostSignificantBitMerge(t *testing.T) {
	res, err := Minimize(Function{Width: 3, Minterms: []int{0, 4}}, Config{})
	require.NoError(t, err)
	assert.Equal(t, []string{"-00"}, patterns(res.Primes))
	assert.Equal(t, []int{0, 4}, res.Primes[0].Covering())
	assert.Equal(t, []bool{true}, res.Essential)
	assert.Equal(t, [][]int{{0}}, res.Covers)
}

func TestMinimize_DontCares(t *testing.T) {
	fn := Function{Width: 3, Minterms: []int{1, 3, 6, 7}, DontCares: []int{0, 5}}
	res, err := Minimize(fn, Config{})
	require.NoError(t, err)

	assert.Equal(t, []string{"--1", "00-", "11-"}, patterns(res.Primes))
	assert.Equal(t, []bool{true, false, true}, res.Essential)
	assert.Empty(t, res.Uncovered)
	assert.Equal(t, [][]int{{0, 2}}, res.Covers)
	assert.Equal(t, []CostedCover{{Cover: []int{0, 2}, Cost: 16}}, res.Cheapest)

	covered := map[int]bool{}
	for _, p := range res.Implicants(res.Covers[0]) {
		for _, term := range p.Covering() {
			covered[term] = true
		}
	}
	for _, m := range fn.Minterms {
		assert.True(t, covered[m], "minterm %d", m)
	}
}

func TestMinimize_CyclicCover(t *testing.T) {
	res, err := Minimize(Function{Width: 3, Minterms: []int{0, 1, 2, 5, 6, 7}}, Config{})
	require.NoError(t, err)
	assert.Equal(t, []string{"-01", "-10", "0-0", "00-", "1-1", "11-"}, patterns(res.Primes))
	assert.Equal(t, make([]bool, 6), res.Essential)
	assert.Equal(t, []int{0, 1, 2, 5, 6, 7}, res.Uncovered)
	assert.Equal(t, [][]int{{0, 2, 5}, {1, 3, 4}}, res.Covers)
	assert.Equal(t, []CostedCover{
		{Cover: []int{0, 2, 5}, Cost: 26},
		{Cover: []int{1, 3, 4}, Cost: 26},
	}, res.Cheapest)
}

func TestMinimize_ConstantZero(t *testing.T) {
	res, err := Minimize(Function{Width: 3, DontCares: []int{2}}, Config{})
	require.NoError(t, err)
	assert.Equal(t, []string{"010"}, patterns(res.Primes))
	assert.Equal(t, []bool{false}, res.Essential)
	require.Len(t, res.Covers, 1)
	assert.Empty(t, res.Covers[0])
	assert.Equal(t, 0, res.Cheapest[0].Cost)
}

func TestMinimize_Normalizes(t *testing.T) {
	res, err := Minimize(Function{Width: 3, Minterms: []int{7, 1, 7}, DontCares: []int{1, 0, 0}}, Config{})
	require.NoError(t, err)
	assert.Equal(t, Function{Width: 3, Minterms: []int{1, 7}, DontCares: []int{0}}, res.Function)
}

func TestMinimize_InvalidTerm(t *testing.T) {
	_, err := Minimize(Function{Width: 2, Minterms: []int{4}}, Config{})
	assert.True(t, errors.Is(err, ErrInvalidTermValue))
	_, err = Minimize(Function{Width: 2, Minterms: []int{1}, DontCares: []int{-1}}, Config{})
	assert.True(t, errors.Is(err, ErrInvalidTermValue))
}

func TestMinimize_ResourceExhausted(t *testing.T) {
	_, err := Minimize(Function{Width: 3, Minterms: []int{0, 1, 2, 5, 6, 7}}, Config{PetrickCap: 1})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrResourceExhausted))

	var re *ResourceExhaustedError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, 1, re.Cap)
	assert.Equal(t, 6, re.Remaining)
	assert.Contains(t, err.Error(), "cap 1")
}

func TestPetrick_UncoverableTerm(t *testing.T) {
	primes := []Implicant{MustParse("00")}
	_, err := Petrick(primes, Essentials(primes, []int{0, 3}), []int{0, 3}, 0)
	assert.True(t, errors.Is(err, ErrUncoverableTerm), "%v", err)
}

func TestAbsorption(t *testing.T) {
	sop := []product{set(1, 2)}
	sop = insertAbsorbing(sop, set(1, 2, 3))
	assert.Len(t, sop, 1)
	sop = insertAbsorbing(sop, set(1))
	require.Len(t, sop, 1)
	assert.True(t, sop[0].Equal(set(1)))
	sop = insertAbsorbing(sop, set(1))
	assert.Len(t, sop, 1)

	sums := absorbSums([]product{set(1, 2, 3), set(2), set(2, 4), set(5, 6)})
	require.Len(t, sums, 2)
	assert.True(t, sums[0].Equal(set(2)))
	assert.True(t, sums[1].Equal(set(5, 6)))
}

func set(vals ...int) product {
	s := newProduct()
	for _, v := range vals {
		s.Add(v)
	}
	return s
}

func TestGroupAndCombine(t *testing.T) {
	var imps []Implicant
	for _, v := range []int{0, 1, 2, 3} {
		imp, err := FromTerm(v, 2)
		require.NoError(t, err)
		imps = append(imps, imp)
	}
	buckets := Group(imps, 2)
	require.Len(t, buckets, 3)
	assert.Equal(t, []string{"00"}, patterns(buckets[0]))
	assert.Equal(t, []string{"01", "10"}, patterns(buckets[1]))
	assert.Equal(t, []string{"11"}, patterns(buckets[2]))

	merged, usedA, usedB := CombineAdjacent(buckets[0], buckets[1])
	assert.Equal(t, []string{"0-", "-0"}, patterns(merged))
	assert.Equal(t, []bool{true}, usedA)
	assert.Equal(t, []bool{true, true}, usedB)

	// "-0" and "0-" share no dash position: nothing merges
	merged, usedA, usedB = CombineAdjacent([]Implicant{MustParse("-0")}, []Implicant{MustParse("0-")})
	assert.Empty(t, merged)
	assert.Equal(t, []bool{false}, usedA)
	assert.Equal(t, []bool{false}, usedB)
}

func TestCombineAdjacent_Dedup(t *testing.T) {
	// "-0-" is reachable from two different pairs.
	a := []Implicant{MustParse("-00"), MustParse("00-")}
	b := []Implicant{MustParse("-01"), MustParse("10-")}
	merged, _, _ := CombineAdjacent(a, b)
	assert.Equal(t, []string{"-0-"}, patterns(merged))
	assert.Equal(t, []int{0, 1, 4, 5}, merged[0].Covering())
}

func TestCost(t *testing.T) {
	primes := []Implicant{MustParse("---"), MustParse("1--"), MustParse("01-"), MustParse("011")}
	cases := []struct {
		cover []int
		want  int
	}{
		{nil, 0},
		{[]int{0}, 0},
		{[]int{1}, 4},
		{[]int{3}, 8},
		{[]int{1, 2}, 4 + 6 + 6},
		{[]int{1, 2, 3}, 4 + 6 + 8 + 8},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Cost(primes, tc.cover), "%v", tc.cover)
	}
}

// The properties below are checked on random functions.

func randomFunction(r *rand.Rand, width int) Function {
	fn := Function{Width: width}
	for v := 0; v < 1<<uint(width); v++ {
		switch r.Intn(5) {
		case 0, 1:
			fn.Minterms = append(fn.Minterms, v)
		case 2:
			fn.DontCares = append(fn.DontCares, v)
		}
	}
	return fn
}

func TestMinimize_Properties(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for i := 0; i < 60; i++ {
		width := 2 + i%4
		fn := randomFunction(r, width)
		res, err := Minimize(fn, Config{})
		require.NoError(t, err, "%+v", fn)

		care := map[int]bool{}
		for _, m := range fn.Minterms {
			care[m] = true
		}
		allowed := map[int]bool{}
		for _, d := range fn.DontCares {
			allowed[d] = true
		}
		for m := range care {
			allowed[m] = true
		}

		// primality: each prime only holds allowed terms and widening any
		// resolved position would pull in a forbidden term.
		for _, p := range res.Primes {
			for _, term := range p.Covering() {
				assert.True(t, allowed[term])
			}
			assert.Len(t, p.Covering(), 1<<uint(p.Dashes()))
			for v := 0; v < width; v++ {
				bits := p.Bits()
				pos := width - 1 - v
				if bits[pos] == Dash {
					continue
				}
				bits[pos] = Dash
				wider, err := FromBits(bits)
				require.NoError(t, err)
				extendable := true
				for _, term := range wider.Covering() {
					if !allowed[term] {
						extendable = false
					}
				}
				assert.False(t, extendable, "%s can grow to %s", p, wider)
			}
		}

		// essentiality: essential iff it alone covers some minterm
		for pi, p := range res.Primes {
			sole := false
			for _, m := range fn.Minterms {
				if !p.Covers(m) {
					continue
				}
				others := 0
				for pj, q := range res.Primes {
					if pj != pi && q.Covers(m) {
						others++
					}
				}
				if others == 0 {
					sole = true
				}
			}
			assert.Equal(t, sole, res.Essential[pi], "prime %s", p)
		}

		// coverage and irredundancy of every cover, equal sizes
		size := len(res.Covers[0])
		for _, cover := range res.Covers {
			assert.Len(t, cover, size)
			assert.True(t, coversAll(res.Primes, cover, fn.Minterms))
			for drop := range cover {
				rest := append(append([]int(nil), cover[:drop]...), cover[drop+1:]...)
				assert.False(t, coversAll(res.Primes, rest, fn.Minterms), "cover %v is redundant", cover)
			}
		}

		// cheapest covers are a cost-minimal subset
		for _, c := range res.Cheapest {
			for _, cover := range res.Covers {
				assert.LessOrEqual(t, c.Cost, Cost(res.Primes, cover))
			}
		}

		// shuffled input gives the same answer
		shuffled := Function{Width: width}
		shuffled.Minterms = append(shuffled.Minterms, fn.Minterms...)
		shuffled.DontCares = append(shuffled.DontCares, fn.DontCares...)
		r.Shuffle(len(shuffled.Minterms), func(a, b int) {
			shuffled.Minterms[a], shuffled.Minterms[b] = shuffled.Minterms[b], shuffled.Minterms[a]
		})
		again, err := Minimize(shuffled, Config{})
		require.NoError(t, err)
		if diff := cmp.Diff(patterns(res.Primes), patterns(again.Primes)); diff != "" {
			t.Fatalf("primes differ (-first +second):\n%s", diff)
		}
		if diff := cmp.Diff(res.Covers, again.Covers); diff != "" {
			t.Fatalf("covers differ (-first +second):\n%s", diff)
		}
	}
}

func coversAll(primes []Implicant, cover []int, minterms []int) bool {
	for _, m := range minterms {
		ok := false
		for _, pi := range cover {
			if primes[pi].Covers(m) {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	return true
}

func TestPrimeImplicants_Sorted(t *testing.T) {
	primes, err := PrimeImplicants(4, []int{15, 0, 2, 8, 10, 5, 7, 13})
	require.NoError(t, err)
	got := patterns(primes)
	assert.True(t, sort.StringsAreSorted(got), "%v", got)
	assert.Equal(t, []string{"-0-0", "-1-1"}, got)
}
