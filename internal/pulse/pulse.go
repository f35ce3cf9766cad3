package pulse

import "maps"

// Pulse is a Provider backed by caller supplied samples. The zero value is
// not usable; construct with New.
type Pulse struct {
	length    int
	amplitude float64
	kind      Kind
	shape     Shape
	weights   map[string]Weight
}

// Option configures a Pulse at construction.
type Option func(*Pulse)

// WithAmplitude scales every sample by a when the waveform is read.
func WithAmplitude(a float64) Option {
	return func(p *Pulse) { p.amplitude = a }
}

// AsMeasurement marks the pulse as a measurement pulse with the given
// integration weights.
func AsMeasurement(weights map[string]Weight) Option {
	return func(p *Pulse) {
		p.kind = Measurement
		p.weights = maps.Clone(weights)
		if p.weights == nil {
			p.weights = make(map[string]Weight)
		}
	}
}

// New creates a control pulse of the given length and shape.
func New(length int, shape Shape, opts ...Option) *Pulse {
	p := &Pulse{
		length:    length,
		amplitude: 1,
		kind:      Control,
		shape:     shape,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Flat returns n copies of v. It is the only "shape" this package builds:
// a constant level, used for default and readout pulses.
func Flat(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

// Length implements Provider.
func (p *Pulse) Length() int { return p.length }

// Kind implements Provider.
func (p *Pulse) Kind() Kind { return p.kind }

// Amplitude returns the scaling applied to the samples.
func (p *Pulse) Amplitude() float64 { return p.amplitude }

// Waveform implements Provider. The returned samples are scaled copies.
func (p *Pulse) Waveform() Shape {
	switch s := p.shape.(type) {
	case Single:
		return Single{Values: scale(s.Values, p.amplitude)}
	case Paired:
		return Paired{I: scale(s.I, p.amplitude), Q: scale(s.Q, p.amplitude)}
	default:
		return nil
	}
}

// IntegrationWeights implements Provider.
func (p *Pulse) IntegrationWeights() map[string]Weight {
	if p.kind != Measurement {
		return nil
	}
	return maps.Clone(p.weights)
}

// SetLength changes the pulse length.
func (p *Pulse) SetLength(n int) { p.length = n }

// SetAmplitude changes the sample scaling.
func (p *Pulse) SetAmplitude(a float64) { p.amplitude = a }

// SetWaveform replaces the unscaled samples.
func (p *Pulse) SetWaveform(s Shape) { p.shape = s }

// SetKind changes the pulse kind. Switching to Measurement starts with no
// weights; switching to Control drops them.
func (p *Pulse) SetKind(k Kind) {
	p.kind = k
	if k == Measurement && p.weights == nil {
		p.weights = make(map[string]Weight)
	}
	if k == Control {
		p.weights = nil
	}
}

// SetWeight adds or replaces one set of integration weights. It has no
// effect on control pulses.
func (p *Pulse) SetWeight(key string, w Weight) {
	if p.kind != Measurement {
		return
	}
	p.weights[key] = w
}

// RemoveWeight deletes one set of integration weights.
func (p *Pulse) RemoveWeight(key string) {
	delete(p.weights, key)
}

func scale(in []float64, a float64) []float64 {
	if in == nil {
		return nil
	}
	out := make([]float64, len(in))
	for i, v := range in {
		out[i] = v * a
	}
	return out
}
