package report

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v2"

	"github.com/pborges/qmin/internal/qm"
)

func dontCareResult(t *testing.T) *qm.Result {
	t.Helper()
	res, err := qm.Minimize(qm.Function{Width: 3, Minterms: []int{1, 3, 6, 7}, DontCares: []int{0, 5}}, qm.Config{})
	require.NoError(t, err)
	return res
}

func TestAlgebraic(t *testing.T) {
	cases := map[string]string{
		"---":  "1",
		"1-0":  "AC'",
		"--1":  "C",
		"0000": "A'B'C'D'",
		"11-":  "AB",
	}
	for pattern, want := range cases {
		assert.Equal(t, want, Algebraic(qm.MustParse(pattern)), pattern)
	}
	assert.Equal(t, "0", SumOfProducts(nil))
	assert.Equal(t, "C + AB", SumOfProducts([]qm.Implicant{qm.MustParse("--1"), qm.MustParse("11-")}))
}

func TestNewDocument(t *testing.T) {
	doc := NewDocument("f.qm", dontCareResult(t))
	want := Document{
		Input:    "f.qm",
		Function: qm.Function{Width: 3, Minterms: []int{1, 3, 6, 7}, DontCares: []int{0, 5}},
		Primes: []Prime{
			{Index: 0, Pattern: "--1", Algebraic: "C", Covers: []int{1, 3, 5, 7}, Essential: true},
			{Index: 1, Pattern: "00-", Algebraic: "A'B'", Covers: []int{0, 1}},
			{Index: 2, Pattern: "11-", Algebraic: "AB", Covers: []int{6, 7}, Essential: true},
		},
		Essential: []int{0, 2},
		Uncovered: []int{},
		Solutions: []Solution{{Primes: []int{0, 2}, Expression: "C + AB", Cost: 16}},
		Cheapest:  []Solution{{Primes: []int{0, 2}, Expression: "C + AB", Cost: 16}},
	}
	if diff := cmp.Diff(want, doc); diff != "" {
		t.Fatalf("document mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteJSON(t *testing.T) {
	doc := NewDocument("", dontCareResult(t))
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatJSON, doc))
	assert.NotContains(t, buf.String(), `"input"`)

	var back Document
	require.NoError(t, json.Unmarshal(buf.Bytes(), &back))
	assert.Equal(t, doc, back)
}

func TestWriteYAML(t *testing.T) {
	doc := NewDocument("f.qm", dontCareResult(t))
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatYAML, doc))
	assert.Contains(t, buf.String(), "dontCares:")
	assert.Contains(t, buf.String(), "expression: C + AB")

	var back Document
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &back))
	assert.Equal(t, doc, back)
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatText, NewDocument("f.qm", dontCareResult(t))))
	out := buf.String()
	for _, want := range []string{
		"Input: f.qm",
		"Don't cares: 0, 5",
		"PRIME IMPLICANTS",
		"PI#",
		"{1, 3, 5, 7}",
		"Minterms not covered by EPIs: None (all covered)",
		"Solution 1: F = C + AB\n",
		"Solution 1: F = C + AB (cost 16)",
	} {
		assert.Contains(t, out, want)
	}
}

func TestWriteText_NoEssentials(t *testing.T) {
	res, err := qm.Minimize(qm.Function{Width: 3, Minterms: []int{0, 1, 2, 5, 6, 7}}, qm.Config{})
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatText, NewDocument("", res)))
	out := buf.String()
	assert.Contains(t, out, "No essential prime implicants")
	assert.Contains(t, out, "Minterms not covered by EPIs: {0, 1, 2, 5, 6, 7}")
	assert.Contains(t, out, "Solution 2: F = ")
	assert.Contains(t, out, "Don't cares: none")
}

func TestParseFormat(t *testing.T) {
	for _, f := range Formats() {
		got, err := ParseFormat(f.String())
		require.NoError(t, err)
		assert.Equal(t, f, got)
	}
	_, err := ParseFormat("xml")
	assert.Error(t, err)
	assert.Equal(t, ".yaml", FormatYAML.Ext())
	assert.Error(t, Write(&bytes.Buffer{}, Format(7), Document{}))
}
