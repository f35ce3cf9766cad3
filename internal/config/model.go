package config

import (
	"github.com/specialistvlad/pulsegrid/internal/element"
	"github.com/specialistvlad/pulsegrid/internal/pulse"
)

// Model is the merged content of every descriptor file.
type Model struct {
	// Controllers maps a controller name to its type.
	Controllers map[string]string
	Elements    []*Element
	Pulses      map[string]*Pulse
}

// NewModel returns an empty model.
func NewModel() *Model {
	return &Model{
		Controllers: make(map[string]string),
		Pulses:      make(map[string]*Pulse),
	}
}

// Element is the format-agnostic representation of an `element` block.
// Optional scalars are nil when the file leaves them out.
type Element struct {
	Name                  string
	LOFrequency           *float64
	IntermediateFrequency *float64
	Ports                 element.Ports
	Mixer                 *element.MixerOffsets
	TimeOfFlight          *int
	Smearing              *int
	// Operations maps an operation name to a pulse template name.
	Operations map[string]string
}

// Pulse is a pulse template. Exactly one of Samples, I/Q or Constant is set;
// Constant is expanded to fit the outputs of each element that uses it.
type Pulse struct {
	Name      string
	Kind      pulse.Kind
	Length    int
	Amplitude float64
	Samples   []float64
	I, Q      []float64
	Constant  *float64
	Weights   map[string]pulse.Weight
}

// Override is one dynamic parameter assignment, applied with Element.Set.
type Override struct {
	Element string
	Key     string
	Value   any
}
