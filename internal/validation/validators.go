package validation

import (
	"fmt"
	"math"
	"strings"
)

// Number coerces any Go numeric value to float64. Booleans, strings, nil and
// non-finite floats are rejected with ErrTypeMismatch.
func Number(v any) (float64, error) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int8:
		f = float64(n)
	case int16:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case uint:
		f = float64(n)
	case uint8:
		f = float64(n)
	case uint16:
		f = float64(n)
	case uint32:
		f = float64(n)
	case uint64:
		f = float64(n)
	default:
		return 0, New(ErrTypeMismatch, "", v, "a number")
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, New(ErrTypeMismatch, "", v, "a finite number")
	}
	return f, nil
}

// fitsInt reports whether f truncates to a value int can hold. float64(MaxInt)
// rounds up to 2^63 on 64-bit platforms, hence the strict comparison.
func fitsInt(f float64) bool {
	return f >= float64(math.MinInt) && f < float64(math.MaxInt)
}

// Integer coerces a numeric value to int, truncating toward zero.
func Integer(v any) (int, error) {
	f, err := Number(v)
	if err != nil {
		return 0, err
	}
	if !fitsInt(f) {
		return 0, New(ErrTypeMismatch, "", v, "an integer within the int range")
	}
	return int(f), nil
}

// Frequency coerces a frequency in Hz to an integer. Unlike the other
// validators, any non-numeric or out of range input is reported as
// ErrInvalidFrequency.
func Frequency(v any) (int64, error) {
	f, err := Number(v)
	if err != nil {
		return 0, New(ErrInvalidFrequency, "", v, "a finite number of Hz")
	}
	if f < float64(math.MinInt64) || f >= float64(math.MaxInt64) {
		return 0, New(ErrInvalidFrequency, "", v, "a frequency within the int64 range")
	}
	return int64(f), nil
}

// OutputPort checks an analog output port index.
func (l Limits) OutputPort(v any) (int, error) {
	return portIndex(v, l.MinAO, l.MaxAO)
}

// InputPort checks an analog input port index.
func (l Limits) InputPort(v any) (int, error) {
	return portIndex(v, l.MinAI, l.MaxAI)
}

func portIndex(v any, lo, hi int) (int, error) {
	f, err := Number(v)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) {
		return 0, New(ErrTypeMismatch, "", v, "an integer port index")
	}
	if f < float64(lo) || f > float64(hi) {
		return 0, New(ErrPortOutOfBounds, "", v, fmt.Sprintf("[%d, %d]", lo, hi))
	}
	n := int(f)
	if n < lo || n > hi {
		return 0, New(ErrPortOutOfBounds, "", n, fmt.Sprintf("[%d, %d]", lo, hi))
	}
	return n, nil
}

// Offset checks a DC offset voltage against the open interval (VMin, VMax).
func (l Limits) Offset(v any) (float64, error) {
	f, err := Number(v)
	if err != nil {
		return 0, err
	}
	if f <= l.VMin || f >= l.VMax {
		return 0, New(ErrVoltageOutOfBounds, "", f, fmt.Sprintf("(%g, %g)", l.VMin, l.VMax))
	}
	return f, nil
}

// Sample checks one waveform amplitude sample against [SampleMin, SampleMax).
func (l Limits) Sample(v any) (float64, error) {
	f, err := Number(v)
	if err != nil {
		return 0, err
	}
	if f < l.SampleMin || f >= l.SampleMax {
		return 0, New(ErrVoltageOutOfBounds, "", f, fmt.Sprintf("[%g, %g)", l.SampleMin, l.SampleMax))
	}
	return f, nil
}

// Samples checks every sample of a waveform and reports the first offender
// with its index.
func (l Limits) Samples(samples []float64) error {
	for i, s := range samples {
		if _, err := l.Sample(s); err != nil {
			return Annotate(err, fmt.Sprintf("sample[%d]", i))
		}
	}
	return nil
}

// Correction checks one mixer correction matrix entry against (CMin, CMax).
func (l Limits) Correction(v any) (float64, error) {
	f, err := Number(v)
	if err != nil {
		return 0, err
	}
	if f <= l.CMin || f >= l.CMax {
		return 0, New(ErrCorrectionOutOfBounds, "", f, fmt.Sprintf("(%g, %g)", l.CMin, l.CMax))
	}
	return f, nil
}

// Length rounds a pulse or weight-window length to the nearest multiple of
// the clock quantum. rounded reports whether the value changed, so callers
// can warn about the coercion. Lengths below the minimum after rounding fail
// with ErrLengthTooShort.
func (l Limits) Length(v any) (length int, rounded bool, err error) {
	f, err := Number(v)
	if err != nil {
		return 0, false, err
	}
	length, rounded, err = l.Quantize(f)
	if err != nil {
		return 0, false, err
	}
	if length < l.MinLength() {
		return 0, false, New(ErrLengthTooShort, "", v, fmt.Sprintf(">= %d", l.MinLength()))
	}
	return length, rounded, nil
}

// Quantize rounds f to the nearest multiple of the clock quantum. Values
// that do not fit in an int after rounding are rejected with ErrTypeMismatch.
func (l Limits) Quantize(f float64) (int, bool, error) {
	q := float64(l.ClockQuantum)
	r := math.Round(f/q) * q
	if !fitsInt(r) {
		return 0, false, New(ErrTypeMismatch, "", f, "a duration within the int range")
	}
	n := int(r)
	return n, float64(n) != f, nil
}

// Name checks an element or operation name. Derived entry names join names
// with '.', so a name containing one could collide with another entry.
func Name(name string) error {
	if name == "" || strings.Contains(name, ".") {
		return New(ErrInvalidName, "", name, "a non-empty name without '.'")
	}
	return nil
}
