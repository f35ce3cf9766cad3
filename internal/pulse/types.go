package pulse

import "fmt"

// Kind tells the sequencer whether a pulse only drives (Control) or also
// triggers acquisition and demodulation (Measurement).
type Kind int

const (
	Control Kind = iota
	Measurement
)

// String returns the name used by the configuration document.
func (k Kind) String() string {
	switch k {
	case Control:
		return "control"
	case Measurement:
		return "measurement"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "", "control":
		return Control, nil
	case "measurement":
		return Measurement, nil
	default:
		return Control, fmt.Errorf("unknown pulse kind %q, expected 'control' or 'measurement'", s)
	}
}

// Shape is the waveform of a pulse: either Single or Paired.
type Shape interface {
	// Keys lists the waveform keys the shape occupies in a pulse entry.
	Keys() []string
	// Samples returns the samples stored under key.
	Samples(key string) []float64
	isShape()
}

// Waveform keys.
const (
	KeyI      = "I"
	KeyQ      = "Q"
	KeySingle = "single"
)

// Single is the waveform of a pulse played on one analog output.
type Single struct {
	Values []float64
}

// Paired holds the I and Q waveforms of a pulse played through an IQ mixer.
type Paired struct {
	I []float64
	Q []float64
}

func (Single) isShape() {}
func (Paired) isShape() {}

// Keys implements Shape.
func (Single) Keys() []string { return []string{KeySingle} }

// Keys implements Shape.
func (Paired) Keys() []string { return []string{KeyI, KeyQ} }

// Samples implements Shape.
func (s Single) Samples(key string) []float64 {
	if key == KeySingle {
		return s.Values
	}
	return nil
}

// Samples implements Shape.
func (p Paired) Samples(key string) []float64 {
	switch key {
	case KeyI:
		return p.I
	case KeyQ:
		return p.Q
	default:
		return nil
	}
}

// Weight is one set of integration weights: per-sample cosine and sine
// coefficients used to demodulate the returned signal.
type Weight struct {
	Cosine []float64
	Sine   []float64
}

// Provider is the capability the compiler consumes.
type Provider interface {
	Length() int
	Kind() Kind
	Waveform() Shape
	// IntegrationWeights is nil for control pulses.
	IntegrationWeights() map[string]Weight
}
