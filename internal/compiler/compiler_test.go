package compiler

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"testing"

	"github.com/specialistvlad/pulsegrid/internal/document"
	"github.com/specialistvlad/pulsegrid/internal/element"
	"github.com/specialistvlad/pulsegrid/internal/pulse"
	"github.com/specialistvlad/pulsegrid/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- fixtures ---

func iq(i, q int) element.Ports {
	return element.Ports{
		element.RoleI: {Index: i},
		element.RoleQ: {Index: q},
	}
}

func ramp(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 0.2 * float64(i) / float64(n)
	}
	return out
}

func newQubit() *element.Element {
	e := element.New("qubit", iq(1, 2))
	e.SetLOFrequency(6e9)
	e.SetIntermediateFrequency(-50e6)
	e.SetOperation("x90", pulse.New(40, pulse.Paired{I: ramp(40), Q: pulse.Flat(40, 0)}))
	return e
}

func readoutPulse() *pulse.Pulse {
	return pulse.New(200,
		pulse.Paired{I: pulse.Flat(200, 0.1), Q: pulse.Flat(200, 0)},
		pulse.AsMeasurement(map[string]pulse.Weight{
			"cos": {Cosine: pulse.Flat(50, 1), Sine: pulse.Flat(50, 0)},
		}),
	)
}

func newResonator() *element.Element {
	e := element.New("rr", element.Ports{
		element.RoleI:   {Index: 3},
		element.RoleQ:   {Index: 4},
		element.RoleOut: {Index: 1},
	})
	e.SetIntermediateFrequency(60e6)
	e.SetTimeOfFlight(180)
	e.SetOperation("readout", readoutPulse())
	return e
}

// recorder collects observer calls as "element.param".
type recorder struct {
	calls []string
}

func (r *recorder) observe(el, param string) {
	r.calls = append(r.calls, el+"."+param)
}

func (r *recorder) reset() { r.calls = nil }

func newCompiler(t *testing.T, elements ...*element.Element) (*Compiler, *recorder) {
	t.Helper()
	rec := &recorder{}
	c, err := New(elements, WithObserver(rec.observe))
	require.NoError(t, err)
	return c, rec
}

// mustCompile compiles and returns a detached copy of the document.
func mustCompile(t *testing.T, c *Compiler) *document.Document {
	t.Helper()
	doc, err := c.Compile(context.Background())
	require.NoError(t, err)
	return doc.Snapshot()
}

func diffPaths(a, b *document.Document) []string {
	var out []string
	for _, p := range document.Diff(a, b) {
		out = append(out, p.String())
	}
	return out
}

func ref(index int) document.PortRef {
	return document.PortRef{Controller: element.DefaultController, Index: index}
}

// --- lifecycle ---

func TestNew_RejectsDuplicateNames(t *testing.T) {
	_, err := New([]*element.Element{newQubit(), newQubit()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"qubit"`)
}

func TestCompile_RejectsDottedNames(t *testing.T) {
	// --- Arrange ---
	_, err := New([]*element.Element{element.New("a.b", iq(1, 2))})
	require.ErrorIs(t, err, validation.ErrInvalidName)

	a := element.New("a", element.Ports{element.RoleSingle: {Index: 1}})
	a.SetOperation("b.c", pulse.New(16, pulse.Single{Values: pulse.Flat(16, 0.1)}))
	c, _ := newCompiler(t, a)

	// --- Act ---
	doc, err := c.Compile(context.Background())

	// --- Assert ---
	require.ErrorIs(t, err, validation.ErrInvalidName)
	assert.Contains(t, err.Error(), "a.operations")
	assert.NotContains(t, doc.Pulses, "a.b.c")
}

func TestCompile_FirstPass(t *testing.T) {
	// --- Arrange ---
	c, _ := newCompiler(t, newQubit(), newResonator())
	require.Nil(t, c.Document(), "no document before the first compile")

	// --- Act ---
	doc := mustCompile(t, c)

	// --- Assert ---
	assert.Equal(t, document.Version, doc.Version)
	zero := doc.Waveforms[document.ZeroWaveform]
	require.NotNil(t, zero)
	assert.Equal(t, document.WaveformConstant, zero.Type)
	assert.Equal(t, 0.0, *zero.Sample)
	assert.Equal(t, [][2]int{{1, 0}}, doc.DigitalWaveforms[document.MarkerOn].Samples)

	con := doc.Controllers[element.DefaultController]
	require.NotNil(t, con)
	assert.Equal(t, DefaultControllerType, con.Type)
	assert.Equal(t, []int{1, 2, 3, 4}, slices.Sorted(maps.Keys(con.AnalogOutputs)))
	assert.Equal(t, []int{1}, slices.Sorted(maps.Keys(con.AnalogInputs)))
	for _, p := range con.AnalogOutputs {
		assert.Equal(t, 0.0, p.Offset)
	}

	qubit := doc.Elements["qubit"]
	require.NotNil(t, qubit)
	assert.Equal(t, &document.MixInputs{I: ref(1), Q: ref(2), LOFrequency: 6_000_000_000, Mixer: "qubit.mixer"}, qubit.MixInputs)
	assert.Nil(t, qubit.SingleInput)
	assert.Equal(t, int64(-50_000_000), qubit.IntermediateFrequency)
	assert.Equal(t, map[string]string{"x90": "qubit.x90"}, qubit.Operations)
	assert.Nil(t, qubit.TimeOfFlight)

	require.Len(t, doc.Mixers["qubit.mixer"], 1)
	assert.Equal(t, document.MixerEntry{
		IntermediateFrequency: -50_000_000,
		LOFrequency:           6_000_000_000,
		Correction:            []float64{1, 0, 0, 1},
	}, *doc.Mixers["qubit.mixer"][0])

	x90 := doc.Pulses["qubit.x90"]
	require.NotNil(t, x90)
	assert.Equal(t, "control", x90.Operation)
	assert.Equal(t, 40, x90.Length)
	assert.Equal(t, map[string]string{"I": "qubit.x90.wf.I", "Q": "qubit.x90.wf.Q"}, x90.Waveforms)
	assert.Empty(t, x90.DigitalMarker)
	assert.Empty(t, x90.IntegrationWeights)
	assert.Equal(t, document.WaveformArbitrary, doc.Waveforms["qubit.x90.wf.I"].Type)
	assert.Equal(t, ramp(40), doc.Waveforms["qubit.x90.wf.I"].Samples)
	assert.Equal(t, document.WaveformConstant, doc.Waveforms["qubit.x90.wf.Q"].Type)

	rr := doc.Elements["rr"]
	require.NotNil(t, rr)
	assert.Equal(t, map[string]document.PortRef{"out1": ref(1)}, rr.Outputs)
	require.NotNil(t, rr.TimeOfFlight)
	assert.Equal(t, 180, *rr.TimeOfFlight)
	require.NotNil(t, rr.Smearing)
	assert.Equal(t, 0, *rr.Smearing)

	readout := doc.Pulses["rr.readout"]
	require.NotNil(t, readout)
	assert.Equal(t, "measurement", readout.Operation)
	assert.Equal(t, document.MarkerOn, readout.DigitalMarker)
	assert.Equal(t, map[string]string{"cos": "rr.readout.iw.cos"}, readout.IntegrationWeights)
	assert.Equal(t, pulse.Flat(50, 1), doc.IntegrationWeights["rr.readout.iw.cos"].Cosine)
	assert.Equal(t, 0.1, *doc.Waveforms["rr.readout.wf.I"].Sample)
}

func TestCompile_Idempotent(t *testing.T) {
	// --- Arrange ---
	c, rec := newCompiler(t, newQubit(), newResonator())
	first := mustCompile(t, c)
	require.NotEmpty(t, rec.calls)
	rec.reset()

	// --- Act ---
	second := mustCompile(t, c)

	// --- Assert ---
	assert.Empty(t, rec.calls, "no routine runs when nothing changed")
	assert.True(t, document.Equal(first, second))
}

func TestCompile_DiffOnlyUpdate(t *testing.T) {
	// --- Arrange ---
	qubit := newQubit()
	c, rec := newCompiler(t, qubit)
	before := mustCompile(t, c)
	rec.reset()

	// --- Act ---
	qubit.SetIntermediateFrequency(-52e6)
	after := mustCompile(t, c)

	// --- Assert ---
	assert.Equal(t, []string{"qubit.intermediate_frequency"}, rec.calls)
	assert.Equal(t, []string{
		"elements.qubit.intermediate_frequency",
		`mixers["qubit.mixer"][0].intermediate_frequency`,
	}, diffPaths(before, after))
}

func TestCompile_AddThenRemoveOperation(t *testing.T) {
	// --- Arrange ---
	e := element.New("E", element.Ports{element.RoleSingle: {Index: 5}})
	c, _ := newCompiler(t, e)
	mustCompile(t, c)

	// --- Act & Assert: add ---
	e.SetOperation("op1", pulse.New(16, pulse.Single{Values: pulse.Flat(16, 0.2)}))
	doc := mustCompile(t, c)
	require.Contains(t, doc.Pulses, "E.op1")
	assert.Equal(t, map[string]string{"single": "E.op1.wf.single"}, doc.Pulses["E.op1"].Waveforms)
	require.Contains(t, doc.Waveforms, "E.op1.wf.single")
	assert.Equal(t, "E.op1", doc.Elements["E"].Operations["op1"])

	// --- Act & Assert: remove ---
	e.RemoveOperation("op1")
	doc = mustCompile(t, c)
	assert.NotContains(t, doc.Pulses, "E.op1")
	assert.NotContains(t, doc.Waveforms, "E.op1.wf.single")
	assert.Empty(t, doc.Elements["E"].Operations)
	assert.Contains(t, doc.Waveforms, document.ZeroWaveform, "static entries are never removed")
}

func TestCompile_RemoveMeasurementOperationDropsWeights(t *testing.T) {
	// --- Arrange ---
	rr := newResonator()
	c, _ := newCompiler(t, rr)
	mustCompile(t, c)

	// --- Act ---
	rr.RemoveOperation("readout")
	doc := mustCompile(t, c)

	// --- Assert ---
	assert.NotContains(t, doc.Pulses, "rr.readout")
	assert.NotContains(t, doc.Waveforms, "rr.readout.wf.I")
	assert.NotContains(t, doc.Waveforms, "rr.readout.wf.Q")
	assert.NotContains(t, doc.IntegrationWeights, "rr.readout.iw.cos")
}

func TestCompile_AddElementAfterBuild(t *testing.T) {
	// --- Arrange ---
	c, rec := newCompiler(t, newQubit())
	mustCompile(t, c)
	rec.reset()

	// --- Act ---
	require.NoError(t, c.Add(newResonator()))
	doc := mustCompile(t, c)

	// --- Assert ---
	assert.Contains(t, doc.Elements, "rr")
	assert.True(t, c.Compiled("rr"))
	for _, call := range rec.calls {
		assert.Contains(t, call, "rr.", "only the new element is compiled")
	}
	assert.Error(t, c.Add(newResonator()), "names stay unique")
	assert.Equal(t, []string{"qubit", "rr"}, c.Names())
}

// --- failure semantics ---

func TestCompile_FailureDoesNotAdvanceSnapshot(t *testing.T) {
	// --- Arrange ---
	qubit := newQubit()
	rr := newResonator()
	c, rec := newCompiler(t, qubit, rr)
	mustCompile(t, c)
	rec.reset()

	require.NoError(t, qubit.Set(element.ParamIntermediateFrequency, "fast"))
	rr.SetIntermediateFrequency(61e6)

	// --- Act ---
	doc, err := c.Compile(context.Background())

	// --- Assert ---
	require.Error(t, err)
	assert.ErrorIs(t, err, validation.ErrInvalidFrequency)
	assert.Equal(t, int64(-50_000_000), doc.Elements["qubit"].IntermediateFrequency)
	assert.Equal(t, int64(61_000_000), doc.Elements["rr"].IntermediateFrequency, "other elements still compile")

	// The failing parameter is retried on every call until it is fixed.
	rec.reset()
	_, err = c.Compile(context.Background())
	require.ErrorIs(t, err, validation.ErrInvalidFrequency)
	assert.Equal(t, []string{"qubit.intermediate_frequency"}, rec.calls)

	qubit.SetIntermediateFrequency(-52e6)
	rec.reset()
	mustCompile(t, c)
	assert.Equal(t, []string{"qubit.intermediate_frequency"}, rec.calls)

	rec.reset()
	mustCompile(t, c)
	assert.Empty(t, rec.calls)
}

func TestCompile_FrequencyBeyondInt64(t *testing.T) {
	testCases := []struct {
		param string
		value float64
	}{
		{param: element.ParamLOFrequency, value: 1e30},
		{param: element.ParamLOFrequency, value: -1e30},
		{param: element.ParamIntermediateFrequency, value: 1e30},
	}

	for _, tc := range testCases {
		t.Run(fmt.Sprintf("%s=%g", tc.param, tc.value), func(t *testing.T) {
			// --- Arrange ---
			qubit := newQubit()
			c, _ := newCompiler(t, qubit)
			before := mustCompile(t, c)

			// --- Act ---
			require.NoError(t, qubit.Set(tc.param, tc.value))
			doc, err := c.Compile(context.Background())

			// --- Assert ---
			require.ErrorIs(t, err, validation.ErrInvalidFrequency)
			assert.Equal(t, before.Elements["qubit"], doc.Snapshot().Elements["qubit"])
		})
	}
}

func TestCompile_ErrorsCarrySubject(t *testing.T) {
	qubit := newQubit()
	require.NoError(t, qubit.Set(element.ParamLOFrequency, true))
	c, _ := newCompiler(t, qubit)

	_, err := c.Compile(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), `element "qubit"`)
	assert.Contains(t, err.Error(), "qubit.lo_frequency")
}

func TestCompile_InvalidKeysetIsolated(t *testing.T) {
	// --- Arrange ---
	broken := element.New("broken", element.Ports{element.RoleI: {Index: 7}})
	c, _ := newCompiler(t, broken, newQubit())

	// --- Act ---
	doc, err := c.Compile(context.Background())

	// --- Assert ---
	require.ErrorIs(t, err, validation.ErrInvalidPortKeyset)
	assert.NotContains(t, doc.Elements, "broken")
	assert.Contains(t, doc.Elements, "qubit")
	assert.False(t, c.Compiled("broken"))
	assert.True(t, c.Compiled("qubit"))
}

func TestCompile_Quantization(t *testing.T) {
	testCases := []struct {
		name      string
		length    int
		tof       int
		wantLen   int
		wantTOF   int
		wantError error
	}{
		{name: "aligned", length: 40, tof: 180, wantLen: 40, wantTOF: 180},
		{name: "round down", length: 41, tof: 181, wantLen: 40, wantTOF: 180},
		{name: "round up", length: 42, tof: 183, wantLen: 44, wantTOF: 184},
		{name: "too short", length: 13, tof: 180, wantError: validation.ErrLengthTooShort},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// --- Arrange ---
			rr := element.New("rr", element.Ports{element.RoleSingle: {Index: 1}, element.RoleOut: {Index: 1}})
			rr.SetTimeOfFlight(tc.tof)
			rr.SetOperation("readout", pulse.New(tc.length, pulse.Single{Values: pulse.Flat(tc.length, 0.1)}))
			c, _ := newCompiler(t, rr)

			// --- Act ---
			doc, err := c.Compile(context.Background())

			// --- Assert ---
			if tc.wantError != nil {
				require.ErrorIs(t, err, tc.wantError)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantLen, doc.Pulses["rr.readout"].Length)
			assert.Equal(t, tc.wantTOF, *doc.Elements["rr"].TimeOfFlight)
			for name, p := range doc.Pulses {
				assert.Zero(t, p.Length%4, "pulse %s", name)
			}
			assert.Zero(t, *doc.Elements["rr"].TimeOfFlight%4)
		})
	}
}

func TestCompile_AcquisitionIgnoredWithoutInput(t *testing.T) {
	qubit := newQubit()
	require.NoError(t, qubit.Set(element.ParamTimeOfFlight, 100))
	c, _ := newCompiler(t, qubit)

	doc := mustCompile(t, c)

	assert.Nil(t, doc.Elements["qubit"].TimeOfFlight)
	assert.Nil(t, doc.Elements["qubit"].Smearing)
}

func TestCompile_AcquisitionValidation(t *testing.T) {
	testCases := []struct {
		param string
		value any
		want  error
	}{
		{param: element.ParamTimeOfFlight, value: "soon", want: validation.ErrTypeMismatch},
		{param: element.ParamTimeOfFlight, value: -8, want: validation.ErrLengthTooShort},
		{param: element.ParamSmearing, value: nil, want: validation.ErrTypeMismatch},
		{param: element.ParamSmearing, value: -1, want: validation.ErrLengthTooShort},
	}
	for _, tc := range testCases {
		t.Run(fmt.Sprintf("%s=%v", tc.param, tc.value), func(t *testing.T) {
			rr := newResonator()
			require.NoError(t, rr.Set(tc.param, tc.value))
			c, _ := newCompiler(t, rr)

			_, err := c.Compile(context.Background())

			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestCompile_SingleInputElement(t *testing.T) {
	e := element.New("flux", element.Ports{element.RoleSingle: {Controller: "con2", Index: 9}})
	e.SetLOFrequency(5e9)
	e.SetIntermediateFrequency(10e6)
	c, err := New([]*element.Element{e}, WithController("con2", "opx1000"))
	require.NoError(t, err)

	doc := mustCompile(t, c)

	flux := doc.Elements["flux"]
	require.NotNil(t, flux)
	assert.Nil(t, flux.MixInputs)
	assert.Equal(t, &document.SingleInput{Port: document.PortRef{Controller: "con2", Index: 9}}, flux.SingleInput)
	assert.Equal(t, int64(10_000_000), flux.IntermediateFrequency)
	assert.Empty(t, doc.Mixers)
	assert.Equal(t, "opx1000", doc.Controllers["con2"].Type)
	assert.Contains(t, doc.Controllers["con2"].AnalogOutputs, 9)
}

func TestCompile_DeclaredControllersWritten(t *testing.T) {
	c, err := New(nil, WithController("con3", "opx1"), WithControllerType("opx1000"))
	require.NoError(t, err)

	doc := mustCompile(t, c)

	require.Contains(t, doc.Controllers, "con3")
	assert.Equal(t, "opx1", doc.Controllers["con3"].Type)
	assert.Empty(t, doc.Controllers["con3"].AnalogOutputs)
}
