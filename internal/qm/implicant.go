package qm

import (
	"math/bits"
	"sort"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/pkg/errors"
)

// MaxWidth is the widest function an Implicant can describe.
const MaxWidth = 32

// Bit is the state of one position of an implicant.
type Bit uint8

const (
	Zero Bit = iota
	One
	Dash
)

func (b Bit) String() string {
	switch b {
	case Zero:
		return "0"
	case One:
		return "1"
	default:
		return "-"
	}
}

// Literal is one variable of a product term. Var 0 is the least significant
// bit of a term value.
type Literal struct {
	Var     int
	Negated bool
}

// key identifies an implicant by its bit pattern alone.
// value holds the bit values for care positions; mask has 1=care, 0=dash.
type key struct {
	value uint64
	mask  uint64
}

// Implicant is an immutable product term over a fixed number of variables,
// together with the input terms it was built from.
type Implicant struct {
	width    int
	k        key
	covering mapset.Set[int]
}

func checkWidth(width int) error {
	if width < 1 || width > MaxWidth {
		return errors.Wrapf(ErrInvalidWidth, "width %d not in [1, %d]", width, MaxWidth)
	}
	return nil
}

func fullMask(width int) uint64 {
	return uint64(1)<<uint(width) - 1
}

func checkTerm(value, width int) error {
	if value < 0 || uint64(value) > fullMask(width) {
		return errors.Wrapf(ErrInvalidTermValue, "term %d with width %d", value, width)
	}
	return nil
}

// FromTerm builds the fully resolved implicant of a single term.
func FromTerm(value, width int) (Implicant, error) {
	if err := checkWidth(width); err != nil {
		return Implicant{}, err
	}
	if err := checkTerm(value, width); err != nil {
		return Implicant{}, err
	}
	return Implicant{
		width:    width,
		k:        key{value: uint64(value), mask: fullMask(width)},
		covering: mapset.NewThreadUnsafeSet(value),
	}, nil
}

// FromBits builds an implicant from an MSB-first bit sequence. Without an
// explicit covering, the implicant covers every term matching the pattern.
func FromBits(pattern []Bit, covering ...int) (Implicant, error) {
	width := len(pattern)
	if err := checkWidth(width); err != nil {
		return Implicant{}, err
	}
	var k key
	for pos, b := range pattern {
		bit := uint64(1) << uint(width-1-pos)
		switch b {
		case One:
			k.value |= bit
			k.mask |= bit
		case Zero:
			k.mask |= bit
		}
	}
	imp := Implicant{width: width, k: k}
	if len(covering) == 0 {
		imp.covering = mapset.NewThreadUnsafeSet(expand(k, width)...)
		return imp, nil
	}
	imp.covering = mapset.NewThreadUnsafeSet[int]()
	for _, t := range covering {
		if err := checkTerm(t, width); err != nil {
			return Implicant{}, err
		}
		imp.covering.Add(t)
	}
	return imp, nil
}

// MustParse builds an implicant from a pattern string such as "-01".
// It panics on malformed input and is meant for tests and constants.
func MustParse(pattern string, covering ...int) Implicant {
	bs := make([]Bit, len(pattern))
	for i, r := range pattern {
		switch r {
		case '0':
			bs[i] = Zero
		case '1':
			bs[i] = One
		case '-':
			bs[i] = Dash
		default:
			panic("qm: invalid pattern " + pattern)
		}
	}
	imp, err := FromBits(bs, covering...)
	if err != nil {
		panic(err)
	}
	return imp
}

// expand lists every term matching k over width variables.
func expand(k key, width int) []int {
	var dcBits []int
	for b := 0; b < width; b++ {
		if k.mask&(uint64(1)<<uint(b)) == 0 {
			dcBits = append(dcBits, b)
		}
	}
	base := k.value & k.mask
	n := 1 << uint(len(dcBits))
	out := make([]int, 0, n)
	for i := 0; i < n; i++ {
		m := base
		for j, bit := range dcBits {
			if i&(1<<uint(j)) != 0 {
				m |= uint64(1) << uint(bit)
			}
		}
		out = append(out, int(m))
	}
	return out
}

func (imp Implicant) Width() int { return imp.width }

// Bits returns the MSB-first bit pattern.
func (imp Implicant) Bits() []Bit {
	out := make([]Bit, imp.width)
	for pos := range out {
		out[pos] = imp.Bit(pos)
	}
	return out
}

// Bit returns the state at MSB-first position pos.
func (imp Implicant) Bit(pos int) Bit {
	bit := uint64(1) << uint(imp.width-1-pos)
	switch {
	case imp.k.mask&bit == 0:
		return Dash
	case imp.k.value&bit != 0:
		return One
	default:
		return Zero
	}
}

func (imp Implicant) String() string {
	var sb strings.Builder
	sb.Grow(imp.width)
	for pos := 0; pos < imp.width; pos++ {
		sb.WriteString(imp.Bit(pos).String())
	}
	return sb.String()
}

// Equal compares bit patterns only; covering sets do not take part.
func (imp Implicant) Equal(other Implicant) bool {
	return imp.width == other.width && imp.k == other.k
}

// Covering returns the covered terms in ascending order.
func (imp Implicant) Covering() []int {
	if imp.covering == nil {
		return nil
	}
	out := imp.covering.ToSlice()
	sort.Ints(out)
	return out
}

// Covers reports whether term was merged into this implicant.
func (imp Implicant) Covers(term int) bool {
	return imp.covering != nil && imp.covering.Contains(term)
}

// Matches reports whether term agrees with every resolved position.
func (imp Implicant) Matches(term int) bool {
	return uint64(term)&imp.k.mask == imp.k.value
}

// Ones counts the One positions, the grouping index of the implicant.
func (imp Implicant) Ones() int {
	return bits.OnesCount64(imp.k.value & imp.k.mask)
}

// Dashes counts the Dash positions.
func (imp Implicant) Dashes() int {
	return imp.width - bits.OnesCount64(imp.k.mask)
}

// Literals returns one literal per resolved position in ascending variable
// order. An empty result is the constant-true product.
func (imp Implicant) Literals() []Literal {
	var lits []Literal
	for v := 0; v < imp.width; v++ {
		bit := uint64(1) << uint(v)
		if imp.k.mask&bit == 0 {
			continue
		}
		lits = append(lits, Literal{Var: v, Negated: imp.k.value&bit == 0})
	}
	return lits
}

// Distance counts the positions whose states differ, including positions
// where only one side is a dash.
func Distance(a, b Implicant) (int, error) {
	if a.width != b.width {
		return 0, errors.Wrapf(ErrWidthMismatch, "%d != %d", a.width, b.width)
	}
	resolved := bits.OnesCount64((a.k.value ^ b.k.value) & a.k.mask & b.k.mask)
	return resolved + bits.OnesCount64(a.k.mask^b.k.mask), nil
}

// mergeable checks the standard QM rule: equal dash positions and exactly
// one differing resolved bit.
func mergeable(a, b key) (uint64, bool) {
	if a.mask != b.mask {
		return 0, false
	}
	diff := (a.value ^ b.value) & a.mask
	if diff == 0 || diff&(diff-1) != 0 {
		return 0, false
	}
	return diff, true
}

// Merge combines two implicants that share their dash positions and differ
// in exactly one resolved bit. The result has a dash at that bit and covers
// the union of both inputs.
func Merge(a, b Implicant) (Implicant, error) {
	d, err := Distance(a, b)
	if err != nil {
		return Implicant{}, err
	}
	diff, ok := mergeable(a.k, b.k)
	if !ok {
		return Implicant{}, errors.Wrapf(ErrIncompatibleMerge, "%s and %s (distance %d)", a, b, d)
	}
	return Implicant{
		width:    a.width,
		k:        key{value: a.k.value &^ diff, mask: a.k.mask &^ diff},
		covering: a.covering.Union(b.covering),
	}, nil
}
