// Package report renders minimization results as a human-readable text
// report or as JSON/YAML documents.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v2"

	"github.com/pborges/qmin/internal/qm"
)

type Format int

const (
	FormatText Format = iota
	FormatJSON
	FormatYAML
)

var formatNames = map[Format]string{
	FormatText: "text",
	FormatJSON: "json",
	FormatYAML: "yaml",
}

func Formats() []Format { return []Format{FormatText, FormatJSON, FormatYAML} }

func (f Format) String() string {
	if n, ok := formatNames[f]; ok {
		return n
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

func ParseFormat(name string) (Format, error) {
	for f, n := range formatNames {
		if strings.EqualFold(n, strings.TrimSpace(name)) {
			return f, nil
		}
	}
	return 0, fmt.Errorf("unknown report format %q", name)
}

// Ext is the file extension conventionally used for the format.
func (f Format) Ext() string {
	switch f {
	case FormatJSON:
		return ".json"
	case FormatYAML:
		return ".yaml"
	}
	return ".txt"
}

type Prime struct {
	Index     int    `json:"index" yaml:"index"`
	Pattern   string `json:"pattern" yaml:"pattern"`
	Algebraic string `json:"algebraic" yaml:"algebraic"`
	Covers    []int  `json:"covers" yaml:"covers"`
	Essential bool   `json:"essential" yaml:"essential"`
}

type Solution struct {
	Primes     []int  `json:"primes" yaml:"primes"`
	Expression string `json:"expression" yaml:"expression"`
	Cost       int    `json:"cost" yaml:"cost"`
}

// Document is the serializable form of a result.
type Document struct {
	Input     string      `json:"input,omitempty" yaml:"input,omitempty"`
	Function  qm.Function `json:"function" yaml:"function"`
	Primes    []Prime     `json:"primes" yaml:"primes"`
	Essential []int       `json:"essential" yaml:"essential"`
	Uncovered []int       `json:"uncovered" yaml:"uncovered"`
	Solutions []Solution  `json:"solutions" yaml:"solutions"`
	Cheapest  []Solution  `json:"cheapest" yaml:"cheapest"`
}

func NewDocument(input string, res *qm.Result) Document {
	doc := Document{
		Input:     input,
		Function:  res.Function,
		Essential: nonNil(res.EssentialIndices()),
		Uncovered: nonNil(res.Uncovered),
	}
	for i, p := range res.Primes {
		doc.Primes = append(doc.Primes, Prime{
			Index:     i,
			Pattern:   p.String(),
			Algebraic: Algebraic(p),
			Covers:    p.Covering(),
			Essential: res.Essential[i],
		})
	}
	for _, cover := range res.Covers {
		doc.Solutions = append(doc.Solutions, Solution{
			Primes:     nonNil(cover),
			Expression: SumOfProducts(res.Implicants(cover)),
			Cost:       qm.Cost(res.Primes, cover),
		})
	}
	for _, c := range res.Cheapest {
		doc.Cheapest = append(doc.Cheapest, Solution{
			Primes:     nonNil(c.Cover),
			Expression: SumOfProducts(res.Implicants(c.Cover)),
			Cost:       c.Cost,
		})
	}
	return doc
}

func nonNil(s []int) []int {
	if s == nil {
		return []int{}
	}
	return s
}

// Write renders doc in the given format.
func Write(w io.Writer, f Format, doc Document) error {
	switch f {
	case FormatText:
		return writeText(w, doc)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case FormatYAML:
		data, err := yaml.Marshal(doc)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	}
	return fmt.Errorf("unknown report format %d", int(f))
}

// Algebraic writes an implicant with letters for pattern positions, A being
// the most significant variable, and ' marking complement. The all-dash
// implicant is 1.
func Algebraic(imp qm.Implicant) string {
	lits := imp.Literals()
	if len(lits) == 0 {
		return "1"
	}
	var sb strings.Builder
	for i := len(lits) - 1; i >= 0; i-- {
		sb.WriteString(varName(imp.Width()-1-lits[i].Var, imp.Width()))
		if lits[i].Negated {
			sb.WriteByte('\'')
		}
	}
	return sb.String()
}

func varName(pos, width int) string {
	if width <= 26 {
		return string(rune('A' + pos))
	}
	return "v" + strconv.Itoa(pos)
}

// SumOfProducts joins products with " + "; an empty cover is 0.
func SumOfProducts(imps []qm.Implicant) string {
	if len(imps) == 0 {
		return "0"
	}
	parts := make([]string, len(imps))
	for i, imp := range imps {
		parts[i] = Algebraic(imp)
	}
	return strings.Join(parts, " + ")
}

func joinInts(xs []int) string {
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = strconv.Itoa(x)
	}
	return strings.Join(parts, ", ")
}

func section(w io.Writer, title string) {
	rule := strings.Repeat("=", 70)
	fmt.Fprintf(w, "\n%s\n%s\n%s\n", rule, title, rule)
}

func writeText(w io.Writer, doc Document) error {
	if doc.Input != "" {
		fmt.Fprintf(w, "Input: %s\n", doc.Input)
	}
	fmt.Fprintf(w, "Number of variables: %d\n", doc.Function.Width)
	fmt.Fprintf(w, "Minterms: %s\n", orNone(joinInts(doc.Function.Minterms)))
	fmt.Fprintf(w, "Don't cares: %s\n", orNone(joinInts(doc.Function.DontCares)))

	section(w, "PRIME IMPLICANTS")
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"PI#", "Binary", "Algebraic", "Covers", "Essential"})
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	for _, p := range doc.Primes {
		ess := ""
		if p.Essential {
			ess = "yes"
		}
		table.Append([]string{strconv.Itoa(p.Index), p.Pattern, p.Algebraic, "{" + joinInts(p.Covers) + "}", ess})
	}
	table.Render()

	section(w, "ESSENTIAL PRIME IMPLICANTS")
	if len(doc.Essential) == 0 {
		fmt.Fprintln(w, "   No essential prime implicants")
	}
	for _, i := range doc.Essential {
		fmt.Fprintf(w, "   %s\n", doc.Primes[i].Algebraic)
	}
	if len(doc.Uncovered) == 0 {
		fmt.Fprintln(w, "\nMinterms not covered by EPIs: None (all covered)")
	} else {
		fmt.Fprintf(w, "\nMinterms not covered by EPIs: {%s}\n", joinInts(doc.Uncovered))
	}

	section(w, "MINIMIZED BOOLEAN EXPRESSIONS")
	for i, s := range doc.Solutions {
		fmt.Fprintf(w, "Solution %d: F = %s\n", i+1, s.Expression)
	}

	section(w, "MINIMAL-COST EXPRESSIONS")
	for i, s := range doc.Cheapest {
		fmt.Fprintf(w, "Solution %d: F = %s (cost %d)\n", i+1, s.Expression, s.Cost)
	}
	_, err := fmt.Fprintln(w, strings.Repeat("=", 70))
	return err
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}
