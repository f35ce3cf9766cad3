package validation

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumber(t *testing.T) {
	testCases := []struct {
		name    string
		in      any
		want    float64
		wantErr bool
	}{
		{name: "float64", in: 1.5, want: 1.5},
		{name: "int", in: 3, want: 3},
		{name: "uint8", in: uint8(7), want: 7},
		{name: "float32", in: float32(0.25), want: 0.25},
		{name: "string is rejected", in: "1.0", wantErr: true},
		{name: "bool is rejected", in: true, wantErr: true},
		{name: "nil is rejected", in: nil, wantErr: true},
		{name: "NaN is rejected", in: math.NaN(), wantErr: true},
		{name: "Inf is rejected", in: math.Inf(1), wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Number(tc.in)
			if tc.wantErr {
				require.ErrorIs(t, err, ErrTypeMismatch)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestFrequency(t *testing.T) {
	f, err := Frequency(-52e6)
	require.NoError(t, err)
	assert.Equal(t, int64(-52_000_000), f)

	f, err = Frequency(100.9)
	require.NoError(t, err)
	assert.Equal(t, int64(100), f, "frequencies are truncated to whole Hz")

	_, err = Frequency("6GHz")
	require.ErrorIs(t, err, ErrInvalidFrequency)
	assert.False(t, errors.Is(err, ErrTypeMismatch))

	for _, huge := range []float64{1e30, -1e30, math.MaxInt64} {
		_, err = Frequency(huge)
		require.ErrorIs(t, err, ErrInvalidFrequency, "%g does not fit in int64", huge)
	}
}

func TestInteger(t *testing.T) {
	testCases := []struct {
		name    string
		in      any
		want    int
		wantErr error
	}{
		{name: "int", in: 7, want: 7},
		{name: "truncates", in: -2.9, want: -2},
		{name: "too large", in: 1e30, wantErr: ErrTypeMismatch},
		{name: "too small", in: -1e30, wantErr: ErrTypeMismatch},
		{name: "not a number", in: "7", wantErr: ErrTypeMismatch},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Integer(tc.in)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestPorts(t *testing.T) {
	l := DefaultLimits()

	testCases := []struct {
		name    string
		check   func(any) (int, error)
		in      any
		want    int
		wantErr error
	}{
		{name: "output lower bound", check: l.OutputPort, in: 1, want: 1},
		{name: "output upper bound", check: l.OutputPort, in: 10, want: 10},
		{name: "output float index", check: l.OutputPort, in: 3.0, want: 3},
		{name: "output zero", check: l.OutputPort, in: 0, wantErr: ErrPortOutOfBounds},
		{name: "output too high", check: l.OutputPort, in: 11, wantErr: ErrPortOutOfBounds},
		{name: "output fractional", check: l.OutputPort, in: 2.5, wantErr: ErrTypeMismatch},
		{name: "input in range", check: l.InputPort, in: 2, want: 2},
		{name: "input too high", check: l.InputPort, in: 3, wantErr: ErrPortOutOfBounds},
		{name: "input non numeric", check: l.InputPort, in: "1", wantErr: ErrTypeMismatch},
		{name: "output beyond int range", check: l.OutputPort, in: 1e30, wantErr: ErrPortOutOfBounds},
		{name: "input beyond int range", check: l.InputPort, in: -1e30, wantErr: ErrPortOutOfBounds},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.check(tc.in)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestOffset_OpenInterval(t *testing.T) {
	l := DefaultLimits()

	_, err := l.Offset(0.5)
	require.ErrorIs(t, err, ErrVoltageOutOfBounds)
	_, err = l.Offset(-0.5)
	require.ErrorIs(t, err, ErrVoltageOutOfBounds)

	v, err := l.Offset(0.49)
	require.NoError(t, err)
	assert.Equal(t, 0.49, v)
}

func TestSamples_ReportsIndex(t *testing.T) {
	l := DefaultLimits()

	require.NoError(t, l.Samples([]float64{-0.5, 0, 0.499}))

	err := l.Samples([]float64{0.1, 0.2, 0.5})
	require.ErrorIs(t, err, ErrVoltageOutOfBounds)
	var vErr *Error
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "sample[2]", vErr.Subject)
}

func TestCorrection_OpenInterval(t *testing.T) {
	l := DefaultLimits()

	_, err := l.Correction(2.0)
	require.ErrorIs(t, err, ErrCorrectionOutOfBounds)
	_, err = l.Correction(-2.0)
	require.ErrorIs(t, err, ErrCorrectionOutOfBounds)

	v, err := l.Correction(1.999)
	require.NoError(t, err)
	assert.Equal(t, 1.999, v)
}

func TestLength(t *testing.T) {
	l := DefaultLimits()

	testCases := []struct {
		name        string
		in          any
		want        int
		wantRounded bool
		wantErr     error
	}{
		{name: "aligned", in: 40, want: 40},
		{name: "minimum", in: 16, want: 16},
		{name: "rounds down", in: 41, want: 40, wantRounded: true},
		{name: "rounds up", in: 43, want: 44, wantRounded: true},
		{name: "rounds into minimum", in: 15, want: 16, wantRounded: true},
		{name: "too short", in: 12, wantErr: ErrLengthTooShort},
		{name: "too short after rounding", in: 13.9, wantErr: ErrLengthTooShort},
		{name: "not a number", in: "40", wantErr: ErrTypeMismatch},
		{name: "beyond int range", in: 1e30, wantErr: ErrTypeMismatch},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, rounded, err := l.Length(tc.in)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.wantRounded, rounded)
			assert.Zero(t, got%l.ClockQuantum)
		})
	}
}

func TestQuantize(t *testing.T) {
	l := DefaultLimits()

	n, rounded, err := l.Quantize(182)
	require.NoError(t, err)
	assert.Equal(t, 184, n)
	assert.True(t, rounded)

	_, _, err = l.Quantize(1e30)
	require.ErrorIs(t, err, ErrTypeMismatch)
}

func TestName(t *testing.T) {
	testCases := []struct {
		in      string
		wantErr bool
	}{
		{in: "qubit"},
		{in: "x_90"},
		{in: "", wantErr: true},
		{in: "a.b", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			err := Name(tc.in)
			if tc.wantErr {
				require.ErrorIs(t, err, ErrInvalidName)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestError_Message(t *testing.T) {
	err := New(ErrPortOutOfBounds, "qubit.ports.I", 11, "[1, 10]")
	assert.Equal(t, "qubit.ports.I: port out of bounds: got 11 (want [1, 10])", err.Error())

	annotated := Annotate(New(ErrTypeMismatch, "", "x", ""), "rr.smearing")
	assert.Equal(t, "rr.smearing: type mismatch: got x", annotated.Error())

	plain := errors.New("boom")
	assert.Same(t, plain, Annotate(plain, "ignored"))
}
