package verilog

import (
	"fmt"
	"strings"

	"github.com/pborges/qmin/internal/qm"
)

// Style selects how the module body is written.
type Style int

const (
	StylePrimitives Style = iota // and/or/not gate instances
	StyleAssign                  // assign f = <expr>;
	StyleAlways                  // always @(*) f = <expr>;
	StyleCase                    // case over the input vector
)

var styleNames = map[Style]string{
	StylePrimitives: "primitives",
	StyleAssign:     "assign",
	StyleAlways:     "always",
	StyleCase:       "case",
}

// Styles lists every style in a stable order.
func Styles() []Style {
	return []Style{StylePrimitives, StyleAssign, StyleAlways, StyleCase}
}

func (s Style) String() string {
	if n, ok := styleNames[s]; ok {
		return n
	}
	return fmt.Sprintf("Style(%d)", int(s))
}

func ParseStyle(name string) (Style, error) {
	for s, n := range styleNames {
		if strings.EqualFold(n, strings.TrimSpace(name)) {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown verilog style %q", name)
}

type Config struct {
	ModuleName  string
	OutputName  string
	InputPrefix string
	// InputNames overrides InputPrefix; entry i names variable i.
	InputNames []string
	Style      Style
}

func DefaultConfig() Config {
	return Config{
		ModuleName:  "minimized_module",
		OutputName:  "f",
		InputPrefix: "x",
		Style:       StylePrimitives,
	}
}

// Design is the minimized function a module is generated for. The first
// cover drives the logic; any others are listed as comments.
type Design struct {
	Width    int
	Minterms []int
	Primes   []qm.Implicant
	Covers   [][]int
}

// DesignOf builds a Design from the cheapest covers of a result.
func DesignOf(res *qm.Result) Design {
	covers := make([][]int, len(res.Cheapest))
	for i, c := range res.Cheapest {
		covers[i] = c.Cover
	}
	return Design{
		Width:    res.Function.Width,
		Minterms: res.Function.Minterms,
		Primes:   res.Primes,
		Covers:   covers,
	}
}

// MakeVerilog generates a Verilog module for the given design.
func MakeVerilog(cfg Config, d Design) (string, error) {
	if d.Width < 1 {
		return "", fmt.Errorf("design has no inputs")
	}
	inputs, err := inputNames(cfg, d.Width)
	if err != nil {
		return "", err
	}
	for _, cover := range d.Covers {
		for _, pi := range cover {
			if pi < 0 || pi >= len(d.Primes) {
				return "", fmt.Errorf("cover references prime %d of %d", pi, len(d.Primes))
			}
		}
	}
	w := &writer{
		cfg:    cfg,
		d:      d,
		inputs: inputs,
		output: EscapeIdentifier(orDefault(cfg.OutputName, "f")),
	}
	switch cfg.Style {
	case StylePrimitives:
		w.primitives()
	case StyleAssign:
		w.assign()
	case StyleAlways:
		w.always()
	case StyleCase:
		w.caseTable()
	default:
		return "", fmt.Errorf("unknown verilog style %d", int(cfg.Style))
	}
	return w.buf.String(), nil
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

func inputNames(cfg Config, width int) ([]string, error) {
	if len(cfg.InputNames) > 0 {
		if len(cfg.InputNames) != width {
			return nil, fmt.Errorf("got %d input names for %d inputs", len(cfg.InputNames), width)
		}
		names := make([]string, width)
		seen := make(map[string]bool, width)
		for i, n := range cfg.InputNames {
			names[i] = EscapeIdentifier(n)
			if seen[names[i]] {
				return nil, fmt.Errorf("duplicate input name %q", names[i])
			}
			seen[names[i]] = true
		}
		return names, nil
	}
	prefix := orDefault(cfg.InputPrefix, "x")
	names := make([]string, width)
	for i := range names {
		names[i] = EscapeIdentifier(fmt.Sprintf("%s%d", prefix, i))
	}
	return names, nil
}

type writer struct {
	buf    strings.Builder
	cfg    Config
	d      Design
	inputs []string
	output string
}

func (w *writer) header(reg bool) {
	fmt.Fprintf(&w.buf, "module %s (\n", EscapeIdentifier(orDefault(w.cfg.ModuleName, "minimized_module")))
	fmt.Fprintf(&w.buf, "    input %s,\n", strings.Join(w.inputs, ", "))
	if reg {
		fmt.Fprintf(&w.buf, "    output reg %s\n", w.output)
	} else {
		fmt.Fprintf(&w.buf, "    output %s\n", w.output)
	}
	w.buf.WriteString(");\n\n")
	if len(w.d.Covers) > 1 {
		w.buf.WriteString("    // Alternative minimized solutions:\n")
		for i := range w.d.Covers {
			fmt.Fprintf(&w.buf, "    // Solution %d: %s\n", i+1, w.expression(i))
		}
		w.buf.WriteByte('\n')
	}
}

func (w *writer) footer() {
	w.buf.WriteString("\nendmodule\n")
}

func (w *writer) hasLogic() bool {
	return len(w.d.Covers) > 0 && len(w.d.Covers[0]) > 0
}

func (w *writer) assign() {
	w.header(false)
	fmt.Fprintf(&w.buf, "    assign %s = %s;\n", w.output, w.expression(0))
	w.footer()
}

func (w *writer) always() {
	w.header(true)
	w.buf.WriteString("    always @(*) begin\n")
	fmt.Fprintf(&w.buf, "        %s = %s;\n", w.output, w.expression(0))
	w.buf.WriteString("    end\n")
	w.footer()
}

func (w *writer) caseTable() {
	w.header(true)
	w.buf.WriteString("    always @(*) begin\n")
	fmt.Fprintf(&w.buf, "        case ({%s})\n", strings.Join(w.msbFirst(), ", "))
	for _, m := range w.d.Minterms {
		fmt.Fprintf(&w.buf, "            %d'b%0*b: %s = 1'b1;\n", w.d.Width, w.d.Width, m, w.output)
	}
	fmt.Fprintf(&w.buf, "            default: %s = 1'b0;\n", w.output)
	w.buf.WriteString("        endcase\n")
	w.buf.WriteString("    end\n")
	w.footer()
}

func (w *writer) primitives() {
	w.header(false)
	if !w.hasLogic() {
		w.buf.WriteString("    // No minterms - output always 0\n")
		fmt.Fprintf(&w.buf, "    assign %s = 1'b0;\n", w.output)
		w.footer()
		return
	}
	cover := w.d.Covers[0]

	needNot := make([]bool, w.d.Width)
	for _, pi := range cover {
		for _, l := range w.d.Primes[pi].Literals() {
			if l.Negated {
				needNot[l.Var] = true
			}
		}
	}
	w.buf.WriteString("    // Internal wires\n")
	for v, need := range needNot {
		if need {
			fmt.Fprintf(&w.buf, "    wire %s;\n", w.inverted(v))
		}
	}
	for i := range cover {
		fmt.Fprintf(&w.buf, "    wire product%d;\n", i)
	}
	w.buf.WriteByte('\n')

	wroteNot := false
	for v, need := range needNot {
		if !need {
			continue
		}
		if !wroteNot {
			w.buf.WriteString("    // NOT gates for inverted inputs\n")
			wroteNot = true
		}
		fmt.Fprintf(&w.buf, "    not(%s, %s);\n", w.inverted(v), w.inputs[v])
	}
	if wroteNot {
		w.buf.WriteByte('\n')
	}

	w.buf.WriteString("    // AND gates for product terms\n")
	for i, pi := range cover {
		lits := msbLiterals(w.d.Primes[pi])
		switch len(lits) {
		case 0:
			fmt.Fprintf(&w.buf, "    assign product%d = 1'b1;\n", i)
		case 1:
			fmt.Fprintf(&w.buf, "    assign product%d = %s;\n", i, w.gateInput(lits[0]))
		default:
			fmt.Fprintf(&w.buf, "    and(product%d", i)
			for _, l := range lits {
				fmt.Fprintf(&w.buf, ", %s", w.gateInput(l))
			}
			w.buf.WriteString(");\n")
		}
	}
	w.buf.WriteByte('\n')

	w.buf.WriteString("    // OR gate for sum of products\n")
	if len(cover) == 1 {
		fmt.Fprintf(&w.buf, "    assign %s = product0;\n", w.output)
	} else {
		fmt.Fprintf(&w.buf, "    or(%s", w.output)
		for i := range cover {
			fmt.Fprintf(&w.buf, ", product%d", i)
		}
		w.buf.WriteString(");\n")
	}
	w.footer()
}

func (w *writer) inverted(v int) string {
	return w.inputs[v] + "_n"
}

func (w *writer) gateInput(l qm.Literal) string {
	if l.Negated {
		return w.inverted(l.Var)
	}
	return w.inputs[l.Var]
}

func (w *writer) msbFirst() []string {
	out := make([]string, len(w.inputs))
	for i, n := range w.inputs {
		out[len(out)-1-i] = n
	}
	return out
}

// expression renders cover i as a Verilog sum of products.
func (w *writer) expression(i int) string {
	if i >= len(w.d.Covers) || len(w.d.Covers[i]) == 0 {
		return "1'b0"
	}
	terms := make([]string, 0, len(w.d.Covers[i]))
	for _, pi := range w.d.Covers[i] {
		p := ProductExpr(w.d.Primes[pi], w.inputs)
		if strings.Contains(p, "&") && len(w.d.Covers[i]) > 1 {
			p = "(" + p + ")"
		}
		terms = append(terms, p)
	}
	return strings.Join(terms, " | ")
}

// ProductExpr renders one implicant as a Verilog conjunction, most
// significant variable first. The all-dash implicant renders as 1'b1.
func ProductExpr(imp qm.Implicant, inputs []string) string {
	lits := msbLiterals(imp)
	if len(lits) == 0 {
		return "1'b1"
	}
	parts := make([]string, len(lits))
	for i, l := range lits {
		if l.Negated {
			parts[i] = "~" + inputs[l.Var]
		} else {
			parts[i] = inputs[l.Var]
		}
	}
	return strings.Join(parts, " & ")
}

func msbLiterals(imp qm.Implicant) []qm.Literal {
	lits := imp.Literals()
	for i, j := 0, len(lits)-1; i < j; i, j = i+1, j-1 {
		lits[i], lits[j] = lits[j], lits[i]
	}
	return lits
}

// EscapeIdentifier maps a name onto a legal Verilog identifier.
func EscapeIdentifier(id string) string {
	var out strings.Builder
	lastUnderscore := false
	for _, r := range id {
		ok := r < 128 && (r == '_' || r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z')
		if !ok {
			r = '_'
		}
		if r == '_' {
			if lastUnderscore {
				continue
			}
			lastUnderscore = true
		} else {
			lastUnderscore = false
		}
		out.WriteRune(r)
	}
	s := out.String()
	if strings.Trim(s, "_") == "" {
		return "id"
	}
	if s[0] >= '0' && s[0] <= '9' {
		s = "_" + s
	}
	return s
}
