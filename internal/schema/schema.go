// Package schema holds the gohcl decoding targets of descriptor files.
package schema

import (
	"github.com/hashicorp/hcl/v2"
)

// File represents every top-level block a descriptor file may contain.
type File struct {
	Controllers []*Controller `hcl:"controller,block"`
	Elements    []*Element    `hcl:"element,block"`
	Pulses      []*Pulse      `hcl:"pulse,block"`
	Body        hcl.Body      `hcl:",remain"`
}

// Controller represents a `controller` block.
type Controller struct {
	Name string `hcl:"name,label"`
	Type string `hcl:"type,optional"`
}

// Element represents an `element` block: one control channel.
type Element struct {
	Name                  string   `hcl:"name,label"`
	LOFrequency           *float64 `hcl:"lo_frequency,optional"`
	IntermediateFrequency *float64 `hcl:"intermediate_frequency,optional"`
	// Ports maps roles to an index or a ["controller", index] tuple, so it
	// is decoded by hand.
	Ports        hcl.Expression `hcl:"ports"`
	TimeOfFlight *int           `hcl:"time_of_flight,optional"`
	Smearing     *int           `hcl:"smearing,optional"`
	Mixer        *Mixer         `hcl:"mixer,block"`
	Operations   []*Operation   `hcl:"operation,block"`
}

// Mixer represents the `mixer` calibration block of an IQ element.
type Mixer struct {
	IOffset float64 `hcl:"i_offset,optional"`
	QOffset float64 `hcl:"q_offset,optional"`
	Gain    float64 `hcl:"gain,optional"`
	Phase   float64 `hcl:"phase,optional"`
}

// Operation binds an operation name to a pulse template.
type Operation struct {
	Name  string `hcl:"name,label"`
	Pulse string `hcl:"pulse"`
}

// Pulse represents a `pulse` template block.
type Pulse struct {
	Name      string    `hcl:"name,label"`
	Kind      string    `hcl:"kind,optional"`
	Length    int       `hcl:"length"`
	Amplitude *float64  `hcl:"amplitude,optional"`
	Samples   []float64 `hcl:"samples,optional"`
	ISamples  []float64 `hcl:"i_samples,optional"`
	QSamples  []float64 `hcl:"q_samples,optional"`
	Constant  *float64  `hcl:"constant,optional"`
	Weights   []*Weight `hcl:"integration_weight,block"`
}

// Weight represents an `integration_weight` block of a measurement pulse.
type Weight struct {
	Name   string    `hcl:"name,label"`
	Cosine []float64 `hcl:"cosine"`
	Sine   []float64 `hcl:"sine"`
}
