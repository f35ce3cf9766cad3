package pulse

import (
	"slices"
	"sort"
)

// Spec is an immutable, comparable copy of everything a Provider reports.
// Descriptors capture one per operation so the compiler can diff pulses by
// value instead of by identity.
type Spec struct {
	Length  int
	Kind    Kind
	Shape   Shape
	Weights map[string]Weight
}

// Capture copies the current state of p.
func Capture(p Provider) Spec {
	spec := Spec{
		Length: p.Length(),
		Kind:   p.Kind(),
	}
	switch s := p.Waveform().(type) {
	case Single:
		spec.Shape = Single{Values: slices.Clone(s.Values)}
	case Paired:
		spec.Shape = Paired{I: slices.Clone(s.I), Q: slices.Clone(s.Q)}
	}
	if spec.Kind == Measurement {
		spec.Weights = make(map[string]Weight)
		for k, w := range p.IntegrationWeights() {
			spec.Weights[k] = Weight{Cosine: slices.Clone(w.Cosine), Sine: slices.Clone(w.Sine)}
		}
	}
	return spec
}

// WeightKeys returns the integration weight keys in sorted order.
func (s Spec) WeightKeys() []string {
	keys := make([]string, 0, len(s.Weights))
	for k := range s.Weights {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// SameKeys reports whether two shapes occupy the same waveform keys.
func SameKeys(a, b Shape) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return slices.Equal(a.Keys(), b.Keys())
}
