// Package testutil simulates the small Verilog subset the generator emits so
// tests can check a module against its truth table.
package testutil

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/pborges/qmin/internal/expr"
)

// Module is a parsed single-output combinational module.
type Module struct {
	Name   string
	Inputs []string
	Output string

	nets map[string]expr.Expr

	caseSel     []string
	caseItems   map[uint64]expr.Expr
	caseDefault expr.Expr
}

var (
	headerRe   = regexp.MustCompile(`(?s)module\s+(\w+)\s*\((.*?)\)\s*;`)
	caseRe     = regexp.MustCompile(`(?s)case\s*\(\s*\{([^}]*)\}\s*\)(.*?)endcase`)
	itemRe     = regexp.MustCompile(`^(\d+)'b([01]+)\s*:\s*(\w+)\s*=\s*(.+)$`)
	gateRe     = regexp.MustCompile(`^(and|or|not)\s*\((.*)\)$`)
	alwaysRe   = regexp.MustCompile(`always\s*@\s*\(\s*\*\s*\)`)
	wordRe     = regexp.MustCompile(`\b(begin|end|wire|reg)\b`)
	nameListRe = regexp.MustCompile(`^[A-Za-z_]\w*(\s*,\s*[A-Za-z_]\w*)*$`)
)

func ParseModule(src []byte) (*Module, error) {
	s := stripLineComments(string(src))
	hdr := headerRe.FindStringSubmatchIndex(s)
	if hdr == nil {
		return nil, fmt.Errorf("missing module header")
	}
	m := &Module{Name: s[hdr[2]:hdr[3]], nets: map[string]expr.Expr{}}
	if err := m.parsePorts(s[hdr[4]:hdr[5]]); err != nil {
		return nil, err
	}
	body := s[hdr[1]:]
	end := strings.LastIndex(body, "endmodule")
	if end < 0 {
		return nil, fmt.Errorf("missing endmodule")
	}
	body = body[:end]

	if loc := caseRe.FindStringSubmatchIndex(body); loc != nil {
		if err := m.parseCase(body[loc[2]:loc[3]], body[loc[4]:loc[5]]); err != nil {
			return nil, err
		}
		body = body[:loc[0]] + body[loc[1]:]
	}

	body = alwaysRe.ReplaceAllString(body, "")
	body = wordRe.ReplaceAllString(body, "")
	for _, stmt := range strings.Split(body, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" || isNameList(stmt) {
			continue
		}
		if err := m.parseStatement(stmt); err != nil {
			return nil, fmt.Errorf("statement %q: %w", stmt, err)
		}
	}
	if m.caseSel == nil {
		if _, ok := m.nets[m.Output]; !ok {
			return nil, fmt.Errorf("output %s is never driven", m.Output)
		}
	}
	return m, nil
}

func (m *Module) parsePorts(s string) error {
	dir := ""
	for _, part := range strings.Split(s, ",") {
		fields := strings.Fields(part)
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "input", "output":
			dir = fields[0]
			fields = fields[1:]
		}
		if len(fields) > 0 && fields[0] == "reg" {
			fields = fields[1:]
		}
		if len(fields) != 1 {
			return fmt.Errorf("invalid port %q", part)
		}
		switch dir {
		case "input":
			m.Inputs = append(m.Inputs, fields[0])
		case "output":
			if m.Output != "" {
				return fmt.Errorf("more than one output")
			}
			m.Output = fields[0]
		default:
			return fmt.Errorf("port %q has no direction", fields[0])
		}
	}
	if m.Output == "" {
		return fmt.Errorf("module has no output")
	}
	return nil
}

func (m *Module) parseCase(sel, items string) error {
	for _, n := range strings.Split(sel, ",") {
		m.caseSel = append(m.caseSel, strings.TrimSpace(n))
	}
	m.caseItems = map[uint64]expr.Expr{}
	m.caseDefault = expr.Const{}
	for _, item := range strings.Split(items, ";") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if strings.HasPrefix(item, "default") {
			_, rhs, ok := strings.Cut(item, "=")
			if !ok {
				return fmt.Errorf("invalid default %q", item)
			}
			x, err := expr.Parse(rhs)
			if err != nil {
				return err
			}
			m.caseDefault = x
			continue
		}
		g := itemRe.FindStringSubmatch(item)
		if g == nil {
			return fmt.Errorf("invalid case item %q", item)
		}
		if n, _ := strconv.Atoi(g[1]); n != len(m.caseSel) || len(g[2]) != n {
			return fmt.Errorf("case item %q has the wrong width", item)
		}
		v, err := strconv.ParseUint(g[2], 2, 64)
		if err != nil {
			return err
		}
		x, err := expr.Parse(g[4])
		if err != nil {
			return err
		}
		m.caseItems[v] = x
	}
	return nil
}

func (m *Module) parseStatement(stmt string) error {
	if g := gateRe.FindStringSubmatch(stmt); g != nil {
		var ports []string
		for _, p := range strings.Split(g[2], ",") {
			ports = append(ports, strings.TrimSpace(p))
		}
		if len(ports) < 2 {
			return fmt.Errorf("gate needs an output and inputs")
		}
		var x expr.Expr = expr.Ident{Name: ports[1]}
		switch g[1] {
		case "not":
			if len(ports) != 2 {
				return fmt.Errorf("not takes one input")
			}
			x = expr.Not{X: x}
		case "and":
			for _, p := range ports[2:] {
				x = expr.And{A: x, B: expr.Ident{Name: p}}
			}
		case "or":
			for _, p := range ports[2:] {
				x = expr.Or{A: x, B: expr.Ident{Name: p}}
			}
		}
		return m.drive(ports[0], x)
	}
	stmt = strings.TrimSpace(strings.TrimPrefix(stmt, "assign "))
	lhs, rhs, ok := strings.Cut(stmt, "=")
	if !ok {
		return fmt.Errorf("unsupported statement")
	}
	x, err := expr.Parse(rhs)
	if err != nil {
		return err
	}
	return m.drive(strings.TrimSpace(lhs), x)
}

func (m *Module) drive(net string, x expr.Expr) error {
	if _, dup := m.nets[net]; dup {
		return fmt.Errorf("net %s driven twice", net)
	}
	m.nets[net] = x
	return nil
}

// Eval computes the output for one input assignment.
func (m *Module) Eval(in map[string]bool) (bool, error) {
	for _, n := range m.Inputs {
		if _, ok := in[n]; !ok {
			return false, fmt.Errorf("no value for input %s", n)
		}
	}
	if m.caseSel != nil {
		var sel uint64
		for _, n := range m.caseSel {
			v, err := m.net(n, in, 0)
			if err != nil {
				return false, err
			}
			sel <<= 1
			if v {
				sel |= 1
			}
		}
		if x, ok := m.caseItems[sel]; ok {
			return m.eval(x, in, 0)
		}
		return m.eval(m.caseDefault, in, 0)
	}
	return m.net(m.Output, in, 0)
}

// EvalTerm evaluates the module with input i taking bit i of term.
func (m *Module) EvalTerm(term int) (bool, error) {
	in := make(map[string]bool, len(m.Inputs))
	for i, n := range m.Inputs {
		in[n] = term>>uint(i)&1 == 1
	}
	return m.Eval(in)
}

func (m *Module) net(name string, in map[string]bool, depth int) (bool, error) {
	if v, ok := in[name]; ok {
		return v, nil
	}
	if depth > len(m.nets) {
		return false, fmt.Errorf("combinational loop through %s", name)
	}
	x, ok := m.nets[name]
	if !ok {
		return false, fmt.Errorf("undriven net %s", name)
	}
	return m.eval(x, in, depth+1)
}

func (m *Module) eval(x expr.Expr, in map[string]bool, depth int) (bool, error) {
	return expr.Eval(x, func(name string) (bool, error) {
		return m.net(name, in, depth)
	})
}

func isNameList(s string) bool {
	return nameListRe.MatchString(s)
}

func stripLineComments(s string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		if idx := strings.Index(l, "//"); idx >= 0 {
			lines[i] = l[:idx]
		}
	}
	return strings.Join(lines, "\n")
}
