// Package input reads Boolean function descriptions in the three-line
// term-list format:
//
//	3
//	m1,m3,m6,m7
//	d0,d5
//
// The first line is the variable count, the second the minterms (m) or
// maxterms (M), the optional third the don't-cares (d).
package input

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode"

	"github.com/pkg/errors"

	"github.com/pborges/qmin/internal/qm"
)

// MaxWidth is the largest variable count accepted from input files.
const MaxWidth = 20

func ParseFile(path string) (qm.Function, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return qm.Function{}, err
	}
	fn, err := Parse(data)
	if err != nil {
		return qm.Function{}, errors.Wrap(err, path)
	}
	return fn, nil
}

func Parse(src []byte) (qm.Function, error) {
	lines := contentLines(stripComments(string(src)))
	if len(lines) == 0 {
		return qm.Function{}, fmt.Errorf("missing number of variables")
	}
	if len(lines) > 3 {
		return qm.Function{}, fmt.Errorf("line %d: unexpected content %q", lines[3].num, lines[3].text)
	}

	width, err := strconv.Atoi(lines[0].text)
	if err != nil {
		return qm.Function{}, fmt.Errorf("line %d: invalid number of variables %q", lines[0].num, lines[0].text)
	}
	if width < 1 || width > MaxWidth {
		return qm.Function{}, fmt.Errorf("line %d: number of variables must be between 1 and %d", lines[0].num, MaxWidth)
	}

	if len(lines) < 2 {
		return qm.Function{}, fmt.Errorf("missing minterms/maxterms line")
	}
	prefix, terms, err := parseTermList(lines[1].text, "mM")
	if err != nil {
		return qm.Function{}, fmt.Errorf("line %d: %w", lines[1].num, err)
	}
	if len(terms) == 0 {
		return qm.Function{}, fmt.Errorf("line %d: empty minterms/maxterms list", lines[1].num)
	}
	if err := checkRange(terms, width); err != nil {
		return qm.Function{}, fmt.Errorf("line %d: %w", lines[1].num, err)
	}
	if prefix == 'M' {
		terms = complement(terms, width)
	}

	var dontCares []int
	if len(lines) == 3 {
		_, dontCares, err = parseTermList(lines[2].text, "dD")
		if err != nil {
			return qm.Function{}, fmt.Errorf("line %d: %w", lines[2].num, err)
		}
		if err := checkRange(dontCares, width); err != nil {
			return qm.Function{}, fmt.Errorf("line %d: %w", lines[2].num, err)
		}
	}

	return qm.Function{Width: width, Minterms: terms, DontCares: dontCares}.Normalize()
}

// FromLists validates and normalizes a function given as plain lists.
func FromLists(width int, minterms, dontCares []int) (qm.Function, error) {
	if width < 1 || width > MaxWidth {
		return qm.Function{}, fmt.Errorf("number of variables must be between 1 and %d", MaxWidth)
	}
	if err := checkRange(minterms, width); err != nil {
		return qm.Function{}, fmt.Errorf("minterms: %w", err)
	}
	if err := checkRange(dontCares, width); err != nil {
		return qm.Function{}, fmt.Errorf("don't cares: %w", err)
	}
	return qm.Function{Width: width, Minterms: minterms, DontCares: dontCares}.Normalize()
}

// Format writes fn back out in the format Parse reads.
func Format(fn qm.Function) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d\n", fn.Width)
	if len(fn.Minterms) == 0 {
		// an empty minterm line does not parse; list every maxterm instead
		sb.WriteString(joinTerms('M', complement(nil, fn.Width)))
	} else {
		sb.WriteString(joinTerms('m', fn.Minterms))
	}
	sb.WriteByte('\n')
	if len(fn.DontCares) > 0 {
		sb.WriteString(joinTerms('d', fn.DontCares))
		sb.WriteByte('\n')
	}
	return sb.String()
}

func joinTerms(prefix byte, terms []int) string {
	parts := make([]string, len(terms))
	for i, t := range terms {
		parts[i] = string(prefix) + strconv.Itoa(t)
	}
	return strings.Join(parts, ",")
}

// ParseIntList reads a comma or space separated list of integers, as given
// on the command line.
func ParseIntList(s string) ([]int, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
	out := make([]int, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("invalid integer %q", f)
		}
		out = append(out, v)
	}
	return out, nil
}

// parseTermList reads "m1,m3,m6" style lists. Every entry must carry one of
// the allowed prefixes and all entries must share it; m and M differ
// (minterms vs maxterms) while d and D are the same.
func parseTermList(s string, allowed string) (rune, []int, error) {
	caseSensitive := allowed == "mM"
	var cleaned strings.Builder
	for _, r := range s {
		if !unicode.IsSpace(r) {
			cleaned.WriteRune(r)
		}
	}
	if cleaned.Len() == 0 {
		return 0, nil, nil
	}
	var prefix rune
	var out []int
	for _, part := range strings.Split(cleaned.String(), ",") {
		if part == "" {
			return 0, nil, fmt.Errorf("empty list entry")
		}
		p := rune(part[0])
		if !strings.ContainsRune(allowed, p) {
			return 0, nil, fmt.Errorf("entry %q must start with one of %q", part, allowed)
		}
		if !caseSensitive {
			p = unicode.ToLower(p)
		}
		if prefix == 0 {
			prefix = p
		} else if p != prefix {
			return 0, nil, fmt.Errorf("entry %q mixes %c and %c terms", part, prefix, p)
		}
		v, err := strconv.Atoi(part[1:])
		if err != nil {
			return 0, nil, fmt.Errorf("invalid term %q", part)
		}
		out = append(out, v)
	}
	return prefix, out, nil
}

func checkRange(terms []int, width int) error {
	limit := 1 << uint(width)
	for _, t := range terms {
		if t < 0 || t >= limit {
			return errors.Wrapf(qm.ErrInvalidTermValue, "term %d not in [0, %d)", t, limit)
		}
	}
	return nil
}

// complement turns a maxterm list into the matching minterm list.
func complement(maxterms []int, width int) []int {
	isMax := make(map[int]bool, len(maxterms))
	for _, t := range maxterms {
		isMax[t] = true
	}
	var out []int
	for v := 0; v < 1<<uint(width); v++ {
		if !isMax[v] {
			out = append(out, v)
		}
	}
	return out
}

type line struct {
	num  int
	text string
}

func contentLines(s string) []line {
	var out []line
	for i, l := range strings.Split(s, "\n") {
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		out = append(out, line{num: i + 1, text: l})
	}
	return out
}

func stripComments(s string) string {
	var out strings.Builder
	i := 0
	for i < len(s) {
		if i+1 < len(s) && s[i] == '/' && s[i+1] == '*' {
			i += 2
			for i+1 < len(s) && !(s[i] == '*' && s[i+1] == '/') {
				if s[i] == '\n' {
					out.WriteByte('\n')
				}
				i++
			}
			if i+1 < len(s) {
				i += 2
			}
			continue
		}
		if i+1 < len(s) && s[i] == '/' && s[i+1] == '/' {
			i += 2
			for i < len(s) && s[i] != '\n' {
				i++
			}
			continue
		}
		out.WriteByte(s[i])
		i++
	}
	return out.String()
}
