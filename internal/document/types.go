package document

import (
	"encoding/json"
	"fmt"
)

// Version is the document format version.
const Version = 1

// Document is the compiled configuration.
type Document struct {
	Version            int                           `json:"version"`
	Controllers        map[string]*Controller        `json:"controllers"`
	Elements           map[string]*Element           `json:"elements"`
	Mixers             map[string][]*MixerEntry      `json:"mixers"`
	Pulses             map[string]*Pulse             `json:"pulses"`
	Waveforms          map[string]*Waveform          `json:"waveforms"`
	DigitalWaveforms   map[string]*DigitalWaveform   `json:"digital_waveforms"`
	IntegrationWeights map[string]*IntegrationWeight `json:"integration_weights"`
}

// Controller is one control unit and the bookkeeping of its analog ports.
type Controller struct {
	Type          string              `json:"type"`
	AnalogOutputs map[int]*AnalogPort `json:"analog_outputs"`
	AnalogInputs  map[int]*AnalogPort `json:"analog_inputs"`
}

// AnalogPort holds the DC offset of one analog connector.
type AnalogPort struct {
	Offset float64 `json:"offset"`
}

// PortRef references a controller port. It is encoded as a two element
// array: ["con1", 3].
type PortRef struct {
	Controller string
	Index      int
}

// MarshalJSON implements json.Marshaler.
func (p PortRef) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{p.Controller, p.Index})
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *PortRef) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw) != 2 {
		return fmt.Errorf("port reference must have 2 elements, got %d", len(raw))
	}
	if err := json.Unmarshal(raw[0], &p.Controller); err != nil {
		return fmt.Errorf("port reference controller: %w", err)
	}
	if err := json.Unmarshal(raw[1], &p.Index); err != nil {
		return fmt.Errorf("port reference index: %w", err)
	}
	return nil
}

// MixInputs wires an element through an IQ mixer.
type MixInputs struct {
	I           PortRef `json:"I"`
	Q           PortRef `json:"Q"`
	LOFrequency int64   `json:"lo_frequency"`
	Mixer       string  `json:"mixer"`
}

// SingleInput wires an element to one analog output.
type SingleInput struct {
	Port PortRef `json:"port"`
}

// Element is the compiled form of one control channel.
type Element struct {
	MixInputs             *MixInputs         `json:"mixInputs,omitempty"`
	SingleInput           *SingleInput       `json:"singleInput,omitempty"`
	IntermediateFrequency int64              `json:"intermediate_frequency"`
	Operations            map[string]string  `json:"operations"`
	Outputs               map[string]PortRef `json:"outputs,omitempty"`
	TimeOfFlight          *int               `json:"time_of_flight,omitempty"`
	Smearing              *int               `json:"smearing,omitempty"`
}

// MixerEntry is the calibration of a mixer at one (IF, LO) frequency pair.
type MixerEntry struct {
	IntermediateFrequency int64     `json:"intermediate_frequency"`
	LOFrequency           int64     `json:"lo_frequency"`
	Correction            []float64 `json:"correction"`
}

// Pulse references its waveforms and integration weights by name.
type Pulse struct {
	Operation          string            `json:"operation"`
	Length             int               `json:"length"`
	Waveforms          map[string]string `json:"waveforms"`
	IntegrationWeights map[string]string `json:"integration_weights,omitempty"`
	DigitalMarker      string            `json:"digital_marker,omitempty"`
}

// Waveform types.
const (
	WaveformConstant  = "constant"
	WaveformArbitrary = "arbitrary"
)

// Waveform is either constant (Sample) or arbitrary (Samples).
type Waveform struct {
	Type    string    `json:"type"`
	Sample  *float64  `json:"sample,omitempty"`
	Samples []float64 `json:"samples,omitempty"`
}

// DigitalWaveform is a list of (level, duration) pairs; duration 0 means
// "until the end of the pulse".
type DigitalWaveform struct {
	Samples [][2]int `json:"samples"`
}

// IntegrationWeight holds demodulation coefficients.
type IntegrationWeight struct {
	Cosine []float64 `json:"cosine"`
	Sine   []float64 `json:"sine"`
}
