package docpath

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPath_String(t *testing.T) {
	testCases := []struct {
		name     string
		path     Path
		expected string
	}{
		{
			name:     "plain keys",
			path:     New("elements", "qubit", "intermediate_frequency"),
			expected: "elements.qubit.intermediate_frequency",
		},
		{
			name:     "quoted derived name with index",
			path:     Path{Key("mixers"), KeyIndex("qubit.mixer", 0), Key("lo_frequency")},
			expected: `mixers["qubit.mixer"][0].lo_frequency`,
		},
		{
			name:     "numeric key",
			path:     New("controllers", "con1", "analog_outputs", "3", "offset"),
			expected: "controllers.con1.analog_outputs.3.offset",
		},
		{
			name:     "empty path",
			path:     nil,
			expected: "",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.path.String())
		})
	}
}

func TestPath_RoundTrip(t *testing.T) {
	raws := []string{
		"a.b.c",
		`pulses["q.x90"].waveforms.I`,
		`mixers["q.mixer"][0].correction[2]`,
		`waveforms["q.x90.wf.I"]`,
		"version",
	}

	for _, raw := range raws {
		t.Run(raw, func(t *testing.T) {
			p, err := Parse(raw)
			require.NoError(t, err)
			assert.Equal(t, raw, p.String())

			again, err := Parse(p.String())
			require.NoError(t, err)
			assert.True(t, p.Equal(again))
		})
	}
}

func TestParse(t *testing.T) {
	testCases := []struct {
		name      string
		raw       string
		expectErr bool
		expected  Path
	}{
		{
			name:     "index on plain key",
			raw:      "mixers.m[0].x",
			expected: Path{Key("mixers"), KeyIndex("m", 0), Key("x")},
		},
		{
			name:     "quoted first segment",
			raw:      `["a.b"].c`,
			expected: Path{Key("a.b"), Key("c")},
		},
		{name: "error - empty", raw: "", expectErr: true},
		{name: "error - empty segment", raw: "a..b", expectErr: true},
		{name: "error - trailing dot", raw: "a.", expectErr: true},
		{name: "error - bad index", raw: "a[x]", expectErr: true},
		{name: "error - negative index", raw: "a[-1]", expectErr: true},
		{name: "error - unterminated quote", raw: `a["b`, expectErr: true},
		{name: "error - missing bracket", raw: `a["b"`, expectErr: true},
		{name: "error - double index", raw: "a[0][1]", expectErr: true},
		{name: "error - unquoted special", raw: "a.b c", expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := Parse(tc.raw)
			if tc.expectErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, p)
		})
	}
}

func TestPath_ChildDoesNotAlias(t *testing.T) {
	base := make(Path, 1, 4)
	base[0] = Key("pulses")
	a := base.Child("a")
	b := base.Child("b")
	assert.Equal(t, "pulses.a", a.String())
	assert.Equal(t, "pulses.b", b.String())
	assert.Equal(t, "pulses.a[1]", a.At(1).String())
	assert.Equal(t, "pulses.a", a.String())
}
