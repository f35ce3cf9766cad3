package hcl

import (
	"fmt"

	"github.com/specialistvlad/pulsegrid/internal/config"
	"github.com/specialistvlad/pulsegrid/internal/element"
	"github.com/specialistvlad/pulsegrid/internal/pulse"
	"github.com/specialistvlad/pulsegrid/internal/schema"
)

// merge translates the blocks of one file into the model. Names must be
// unique across all files.
func (l *Loader) merge(model *config.Model, root *schema.File) error {
	for _, c := range root.Controllers {
		if _, dup := model.Controllers[c.Name]; dup {
			return fmt.Errorf("controller %q is defined more than once", c.Name)
		}
		model.Controllers[c.Name] = c.Type
	}
	for _, s := range root.Pulses {
		if _, dup := model.Pulses[s.Name]; dup {
			return fmt.Errorf("pulse %q is defined more than once", s.Name)
		}
		p, err := translatePulse(s)
		if err != nil {
			return err
		}
		model.Pulses[p.Name] = p
	}
	for _, s := range root.Elements {
		e, err := l.translateElement(s)
		if err != nil {
			return err
		}
		model.Elements = append(model.Elements, e)
	}
	return nil
}

// translateElement converts the HCL-specific element schema into the
// agnostic model.
func (l *Loader) translateElement(s *schema.Element) (*config.Element, error) {
	ports, err := decodePorts(s.Ports, l.evalCtx)
	if err != nil {
		return nil, fmt.Errorf("element %q: %w", s.Name, err)
	}

	e := &config.Element{
		Name:                  s.Name,
		LOFrequency:           s.LOFrequency,
		IntermediateFrequency: s.IntermediateFrequency,
		Ports:                 ports,
		TimeOfFlight:          s.TimeOfFlight,
		Smearing:              s.Smearing,
		Operations:            make(map[string]string, len(s.Operations)),
	}
	if s.Mixer != nil {
		e.Mixer = &element.MixerOffsets{
			I:     s.Mixer.IOffset,
			Q:     s.Mixer.QOffset,
			Gain:  s.Mixer.Gain,
			Phase: s.Mixer.Phase,
		}
	}
	for _, op := range s.Operations {
		if _, dup := e.Operations[op.Name]; dup {
			return nil, fmt.Errorf("element %q: operation %q is defined more than once", s.Name, op.Name)
		}
		e.Operations[op.Name] = op.Pulse
	}
	return e, nil
}

// translatePulse converts the HCL-specific pulse schema into the agnostic
// model.
func translatePulse(s *schema.Pulse) (*config.Pulse, error) {
	kind, err := pulse.ParseKind(s.Kind)
	if err != nil {
		return nil, fmt.Errorf("pulse %q: %w", s.Name, err)
	}
	p := &config.Pulse{
		Name:      s.Name,
		Kind:      kind,
		Length:    s.Length,
		Amplitude: 1,
		Samples:   s.Samples,
		I:         s.ISamples,
		Q:         s.QSamples,
		Constant:  s.Constant,
	}
	if s.Amplitude != nil {
		p.Amplitude = *s.Amplitude
	}

	if kind != pulse.Measurement {
		if len(s.Weights) > 0 {
			return nil, fmt.Errorf("pulse %q: integration weights need kind = \"measurement\"", s.Name)
		}
		return p, nil
	}
	p.Weights = make(map[string]pulse.Weight, len(s.Weights))
	for _, w := range s.Weights {
		if _, dup := p.Weights[w.Name]; dup {
			return nil, fmt.Errorf("pulse %q: integration weight %q is defined more than once", s.Name, w.Name)
		}
		p.Weights[w.Name] = pulse.Weight{Cosine: w.Cosine, Sine: w.Sine}
	}
	return p, nil
}
