package config

import (
	"fmt"
	"slices"
	"sort"

	"github.com/hashicorp/go-multierror"
	"github.com/specialistvlad/pulsegrid/internal/element"
	"github.com/specialistvlad/pulsegrid/internal/pulse"
)

// Build creates one descriptor per element block. Every operation gets its
// own pulse instantiated from the referenced template, so editing one
// element never changes another.
func (m *Model) Build() ([]*element.Element, error) {
	var result *multierror.Error
	seen := make(map[string]struct{}, len(m.Elements))
	out := make([]*element.Element, 0, len(m.Elements))

	for _, spec := range m.Elements {
		if _, dup := seen[spec.Name]; dup {
			result = multierror.Append(result, fmt.Errorf("element %q is defined more than once", spec.Name))
			continue
		}
		seen[spec.Name] = struct{}{}

		e, err := m.buildElement(spec)
		if err != nil {
			result = multierror.Append(result, err)
			continue
		}
		out = append(out, e)
	}
	if err := result.ErrorOrNil(); err != nil {
		return nil, err
	}
	return out, nil
}

func (m *Model) buildElement(s *Element) (*element.Element, error) {
	if len(s.Ports) == 0 {
		return nil, fmt.Errorf("element %q has no ports", s.Name)
	}
	e := element.New(s.Name, s.Ports)
	if s.LOFrequency != nil {
		e.SetLOFrequency(*s.LOFrequency)
	}
	if s.IntermediateFrequency != nil {
		e.SetIntermediateFrequency(*s.IntermediateFrequency)
	}
	if s.Mixer != nil {
		e.SetMixerOffsets(*s.Mixer)
	}
	if s.TimeOfFlight != nil {
		e.SetTimeOfFlight(*s.TimeOfFlight)
	}
	if s.Smearing != nil {
		e.SetSmearing(*s.Smearing)
	}

	ops := make([]string, 0, len(s.Operations))
	for op := range s.Operations {
		ops = append(ops, op)
	}
	sort.Strings(ops)
	for _, op := range ops {
		tpl, ok := m.Pulses[s.Operations[op]]
		if !ok {
			return nil, fmt.Errorf("element %q: operation %q references unknown pulse %q", s.Name, op, s.Operations[op])
		}
		p, err := tpl.Instantiate(s.Ports.Paired())
		if err != nil {
			return nil, fmt.Errorf("element %q: operation %q: %w", s.Name, op, err)
		}
		e.SetOperation(op, p)
	}
	return e, nil
}

// Instantiate creates a pulse from the template for an element with IQ
// (paired) or single outputs.
func (p *Pulse) Instantiate(paired bool) (*pulse.Pulse, error) {
	forms := 0
	for _, set := range []bool{p.Samples != nil, p.I != nil || p.Q != nil, p.Constant != nil} {
		if set {
			forms++
		}
	}
	if forms != 1 {
		return nil, fmt.Errorf("pulse %q must set exactly one of samples, i_samples/q_samples or constant", p.Name)
	}

	var shape pulse.Shape
	switch {
	case p.Constant != nil:
		n := max(p.Length, 1)
		if paired {
			shape = pulse.Paired{I: pulse.Flat(n, *p.Constant), Q: pulse.Flat(n, 0)}
		} else {
			shape = pulse.Single{Values: pulse.Flat(n, *p.Constant)}
		}
	case p.Samples != nil:
		shape = pulse.Single{Values: slices.Clone(p.Samples)}
	default:
		shape = pulse.Paired{I: slices.Clone(p.I), Q: slices.Clone(p.Q)}
	}

	opts := []pulse.Option{pulse.WithAmplitude(p.Amplitude)}
	if p.Kind == pulse.Measurement {
		opts = append(opts, pulse.AsMeasurement(p.Weights))
	}
	return pulse.New(p.Length, shape, opts...), nil
}

// Apply assigns every override to its element. All failures are reported
// together.
func Apply(elements []*element.Element, overrides []Override) error {
	byName := make(map[string]*element.Element, len(elements))
	for _, e := range elements {
		byName[e.Name()] = e
	}

	var result *multierror.Error
	for _, o := range overrides {
		e, ok := byName[o.Element]
		if !ok {
			result = multierror.Append(result, fmt.Errorf("override %s.%s: unknown element %q", o.Element, o.Key, o.Element))
			continue
		}
		if err := e.Set(o.Key, o.Value); err != nil {
			result = multierror.Append(result, fmt.Errorf("override %s.%s: %w", o.Element, o.Key, err))
		}
	}
	return result.ErrorOrNil()
}
