package input

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pborges/qmin/internal/qm"
)

func TestParse(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want qm.Function
	}{
		{
			name: "minterms and dont cares",
			src:  "3\nm1,m3,m6,m7\nd0,d5\n",
			want: qm.Function{Width: 3, Minterms: []int{1, 3, 6, 7}, DontCares: []int{0, 5}},
		},
		{
			name: "no dont care line",
			src:  "2\nm3, m1\n",
			want: qm.Function{Width: 2, Minterms: []int{1, 3}},
		},
		{
			name: "empty dont care line",
			src:  "2\nm0\n\n",
			want: qm.Function{Width: 2, Minterms: []int{0}},
		},
		{
			name: "maxterms",
			src:  "3\nM0,M2,M4,M5\n",
			want: qm.Function{Width: 3, Minterms: []int{1, 3, 6, 7}},
		},
		{
			name: "duplicates and overlap",
			src:  "3\nm1,m1,m3\nD3,d0,d0\n",
			want: qm.Function{Width: 3, Minterms: []int{1, 3}, DontCares: []int{0}},
		},
		{
			name: "comments and crlf",
			src:  "// example\r\n3 /* vars */\r\nm 1 , m 2\r\n",
			want: qm.Function{Width: 3, Minterms: []int{1, 2}},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Parse([]byte(tc.src))
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParse_Errors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		msg  string
	}{
		{"empty", "", "missing number of variables"},
		{"bad width", "x\nm1\n", "line 1: invalid number of variables"},
		{"width too large", "21\nm1\n", "line 1: number of variables must be between 1 and 20"},
		{"width zero", "0\nm1\n", "line 1: number of variables"},
		{"missing terms", "3\n", "missing minterms/maxterms line"},
		{"wrong prefix", "3\nx1,x2\n", "line 2: entry \"x1\""},
		{"mixed prefix", "3\nm1,M2\n", "line 2: entry \"M2\" mixes m and M"},
		{"bad number", "3\nm1,mz\n", "line 2: invalid term \"mz\""},
		{"dangling comma", "3\nm1,\n", "line 2: empty list entry"},
		{"bad dont care", "3\nm1\nm2\n", "line 3: entry \"m2\""},
		{"extra line", "3\nm1\nd2\nd3\n", "line 4: unexpected content"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.src))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.msg)
		})
	}
}

func TestParse_OutOfRange(t *testing.T) {
	_, err := Parse([]byte("2\nm1,m4\n"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, qm.ErrInvalidTermValue))
	assert.Contains(t, err.Error(), "line 2")

	_, err = Parse([]byte("2\nm1\nd9\n"))
	assert.True(t, errors.Is(err, qm.ErrInvalidTermValue))
}

func TestFromLists(t *testing.T) {
	fn, err := FromLists(3, []int{7, 1}, []int{1, 0})
	require.NoError(t, err)
	assert.Equal(t, qm.Function{Width: 3, Minterms: []int{1, 7}, DontCares: []int{0}}, fn)

	_, err = FromLists(3, []int{8}, nil)
	assert.True(t, errors.Is(err, qm.ErrInvalidTermValue))
	_, err = FromLists(0, nil, nil)
	assert.Error(t, err)
}

func TestFormatRoundTrip(t *testing.T) {
	for _, fn := range []qm.Function{
		{Width: 3, Minterms: []int{1, 3, 6, 7}, DontCares: []int{0, 5}},
		{Width: 2, Minterms: []int{2}},
		{Width: 2, DontCares: []int{1}},
	} {
		got, err := Parse([]byte(Format(fn)))
		require.NoError(t, err, Format(fn))
		assert.Equal(t, fn, got)
	}
}

func TestParseIntList(t *testing.T) {
	got, err := ParseIntList("1, 3 6,7")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3, 6, 7}, got)

	got, err = ParseIntList("")
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = ParseIntList("1,a")
	assert.EqualError(t, err, `invalid integer "a"`)
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f.qm")
	require.NoError(t, os.WriteFile(path, []byte("2\nm1\n"), 0o644))
	fn, err := ParseFile(path)
	require.NoError(t, err)
	assert.Equal(t, qm.Function{Width: 2, Minterms: []int{1}}, fn)

	require.NoError(t, os.WriteFile(path, []byte("2\nm7\n"), 0o644))
	_, err = ParseFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), path)

	_, err = ParseFile(filepath.Join(t.TempDir(), "missing.qm"))
	assert.Error(t, err)
}
