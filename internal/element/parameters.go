package element

import "github.com/specialistvlad/pulsegrid/internal/pulse"

// Parameters is a detached snapshot of every settable attribute of an
// element, keyed by the Param* constants. Operations are captured as
// map[string]pulse.Spec so that later edits to a shared pulse are visible
// as changes.
type Parameters map[string]any

// Parameters returns a deep snapshot of the element's current state.
func (e *Element) Parameters() Parameters {
	out := make(Parameters, len(e.params)+1)
	for k, v := range e.params {
		if p, ok := v.(Ports); ok {
			v = p.Clone()
		}
		out[k] = v
	}
	ops := make(map[string]pulse.Spec, len(e.operations))
	for name, p := range e.operations {
		ops[name] = pulse.Capture(p)
	}
	out[ParamOperations] = ops
	return out
}

// Ports returns the snapshot's port wiring, or nil if it is missing or of
// the wrong type.
func (p Parameters) Ports() Ports {
	ports, _ := p[ParamPorts].(Ports)
	return ports
}

// Operations returns the snapshot's captured pulses.
func (p Parameters) Operations() map[string]pulse.Spec {
	ops, _ := p[ParamOperations].(map[string]pulse.Spec)
	return ops
}
