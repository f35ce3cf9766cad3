package element

import (
	"fmt"
	"maps"
	"strings"

	"github.com/specialistvlad/pulsegrid/internal/pulse"
	"github.com/specialistvlad/pulsegrid/internal/validation"
)

// Parameter keys, in the order the compiler applies them.
const (
	ParamLOFrequency           = "lo_frequency"
	ParamIntermediateFrequency = "intermediate_frequency"
	ParamPorts                 = "ports"
	ParamMixerOffsets          = "mixer_offsets"
	ParamOperations            = "operations"
	ParamTimeOfFlight          = "time_of_flight"
	ParamSmearing              = "smearing"
)

// Element is one control channel. It is not safe for concurrent use.
type Element struct {
	name       string
	params     map[string]any
	operations map[string]pulse.Provider
}

// New creates a descriptor with fresh defaults: zero frequencies, the given
// ports, zero mixer offsets for IQ elements and no operations.
func New(name string, ports Ports) *Element {
	e := &Element{
		name: name,
		params: map[string]any{
			ParamLOFrequency:           0.0,
			ParamIntermediateFrequency: 0.0,
			ParamPorts:                 ports.Clone(),
		},
		operations: make(map[string]pulse.Provider),
	}
	if ports.Paired() {
		e.params[ParamMixerOffsets] = MixerOffsets{}
	}
	if ports.Measures() {
		e.params[ParamTimeOfFlight] = 0
		e.params[ParamSmearing] = 0
	}
	return e
}

// Name returns the element name.
func (e *Element) Name() string { return e.name }

// LOFrequency returns the local oscillator frequency as assigned.
func (e *Element) LOFrequency() any { return e.params[ParamLOFrequency] }

// IntermediateFrequency returns the intermediate frequency as assigned.
func (e *Element) IntermediateFrequency() any { return e.params[ParamIntermediateFrequency] }

// Ports returns a copy of the port wiring. It is nil if ports were assigned a
// value of the wrong type.
func (e *Element) Ports() Ports {
	p, _ := e.params[ParamPorts].(Ports)
	return p.Clone()
}

// MixerOffsets returns the mixer calibration, if the element has one.
func (e *Element) MixerOffsets() (MixerOffsets, bool) {
	m, ok := e.params[ParamMixerOffsets].(MixerOffsets)
	return m, ok
}

// Operations returns the operation to pulse mapping. The map is a copy; the
// providers are shared.
func (e *Element) Operations() map[string]pulse.Provider {
	return maps.Clone(e.operations)
}

// TimeOfFlight returns the acquisition delay, if set.
func (e *Element) TimeOfFlight() (any, bool) {
	v, ok := e.params[ParamTimeOfFlight]
	return v, ok
}

// Smearing returns the acquisition window extension, if set.
func (e *Element) Smearing() (any, bool) {
	v, ok := e.params[ParamSmearing]
	return v, ok
}

func (e *Element) SetLOFrequency(hz float64)           { e.params[ParamLOFrequency] = hz }
func (e *Element) SetIntermediateFrequency(hz float64) { e.params[ParamIntermediateFrequency] = hz }
func (e *Element) SetPorts(p Ports)                    { e.params[ParamPorts] = p.Clone() }
func (e *Element) SetMixerOffsets(m MixerOffsets)      { e.params[ParamMixerOffsets] = m }
func (e *Element) ClearMixerOffsets()                  { delete(e.params, ParamMixerOffsets) }
func (e *Element) SetTimeOfFlight(ns int)              { e.params[ParamTimeOfFlight] = ns }
func (e *Element) SetSmearing(ns int)                  { e.params[ParamSmearing] = ns }

// SetOperation binds an operation name to a pulse.
func (e *Element) SetOperation(name string, p pulse.Provider) {
	e.operations[name] = p
}

// RemoveOperation unbinds an operation.
func (e *Element) RemoveOperation(name string) {
	delete(e.operations, name)
}

// Set assigns a parameter dynamically. Scalar parameters take any value and
// are validated at compile time. Mixer offsets can be addressed field by
// field ("mixer_offsets.gain"), ports role by role ("ports.I" with a port
// index).
func (e *Element) Set(key string, value any) error {
	head, field, nested := strings.Cut(key, ".")
	switch head {
	case ParamLOFrequency, ParamIntermediateFrequency, ParamTimeOfFlight, ParamSmearing:
		if nested {
			return fmt.Errorf("parameter %q has no field %q", head, field)
		}
		e.params[head] = value
		return nil
	case ParamMixerOffsets:
		return e.setMixerField(field, value)
	case ParamPorts:
		return e.setPort(field, value)
	default:
		return fmt.Errorf("element %q has no settable parameter %q", e.name, key)
	}
}

func (e *Element) setMixerField(field string, value any) error {
	v, err := validation.Number(value)
	if err != nil {
		return validation.Annotate(err, e.name+"."+ParamMixerOffsets+"."+field)
	}
	m, _ := e.MixerOffsets()
	switch field {
	case "i_offset", "I":
		m.I = v
	case "q_offset", "Q":
		m.Q = v
	case "gain":
		m.Gain = v
	case "phase":
		m.Phase = v
	default:
		return fmt.Errorf("mixer offsets have no field %q", field)
	}
	e.params[ParamMixerOffsets] = m
	return nil
}

func (e *Element) setPort(role string, value any) error {
	ports := e.Ports()
	port, ok := ports[Role(role)]
	if !ok {
		return fmt.Errorf("element %q has no %q port", e.name, role)
	}
	idx, err := validation.Integer(value)
	if err != nil {
		return validation.Annotate(err, e.name+".ports."+role)
	}
	port.Index = idx
	ports[Role(role)] = port
	e.params[ParamPorts] = ports
	return nil
}

// Replace copies every parameter and operation binding from other, which
// must describe the same element.
func (e *Element) Replace(other *Element) error {
	if other.name != e.name {
		return fmt.Errorf("cannot replace element %q with %q", e.name, other.name)
	}
	e.params = maps.Clone(other.params)
	if p, ok := e.params[ParamPorts].(Ports); ok {
		e.params[ParamPorts] = p.Clone()
	}
	e.operations = maps.Clone(other.operations)
	return nil
}
