package document

import (
	"encoding/json"
	"fmt"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// Category names, as they appear on the wire.
const (
	CategoryControllers        = "controllers"
	CategoryElements           = "elements"
	CategoryMixers             = "mixers"
	CategoryPulses             = "pulses"
	CategoryWaveforms          = "waveforms"
	CategoryDigitalWaveforms   = "digital_waveforms"
	CategoryIntegrationWeights = "integration_weights"
)

// New returns an empty document with every category allocated.
func New() *Document {
	return &Document{
		Version:            Version,
		Controllers:        make(map[string]*Controller),
		Elements:           make(map[string]*Element),
		Mixers:             make(map[string][]*MixerEntry),
		Pulses:             make(map[string]*Pulse),
		Waveforms:          make(map[string]*Waveform),
		DigitalWaveforms:   make(map[string]*DigitalWaveform),
		IntegrationWeights: make(map[string]*IntegrationWeight),
	}
}

// --- get-or-create accessors ---

// Controller returns the named controller, creating it if needed.
func (d *Document) Controller(name string) *Controller {
	c, ok := d.Controllers[name]
	if !ok {
		c = &Controller{
			AnalogOutputs: make(map[int]*AnalogPort),
			AnalogInputs:  make(map[int]*AnalogPort),
		}
		d.Controllers[name] = c
	}
	return c
}

// Output returns the analog output entry, creating it if needed.
func (c *Controller) Output(index int) *AnalogPort {
	p, ok := c.AnalogOutputs[index]
	if !ok {
		p = &AnalogPort{}
		c.AnalogOutputs[index] = p
	}
	return p
}

// Input returns the analog input entry, creating it if needed.
func (c *Controller) Input(index int) *AnalogPort {
	p, ok := c.AnalogInputs[index]
	if !ok {
		p = &AnalogPort{}
		c.AnalogInputs[index] = p
	}
	return p
}

// Element returns the named element entry, creating it if needed.
func (d *Document) Element(name string) *Element {
	e, ok := d.Elements[name]
	if !ok {
		e = &Element{Operations: make(map[string]string)}
		d.Elements[name] = e
	}
	return e
}

// Mixer returns the first (and only) calibration entry of a mixer,
// creating it with an identity correction if needed.
func (d *Document) Mixer(name string) *MixerEntry {
	entries := d.Mixers[name]
	if len(entries) == 0 {
		entries = []*MixerEntry{{Correction: []float64{1, 0, 0, 1}}}
		d.Mixers[name] = entries
	}
	return entries[0]
}

// Pulse returns the named pulse entry, creating it if needed.
func (d *Document) Pulse(name string) *Pulse {
	p, ok := d.Pulses[name]
	if !ok {
		p = &Pulse{Waveforms: make(map[string]string)}
		d.Pulses[name] = p
	}
	return p
}

// Waveform returns the named waveform entry, creating it if needed.
func (d *Document) Waveform(name string) *Waveform {
	w, ok := d.Waveforms[name]
	if !ok {
		w = &Waveform{}
		d.Waveforms[name] = w
	}
	return w
}

// DigitalWaveform returns the named digital waveform, creating it if needed.
func (d *Document) DigitalWaveform(name string) *DigitalWaveform {
	w, ok := d.DigitalWaveforms[name]
	if !ok {
		w = &DigitalWaveform{}
		d.DigitalWaveforms[name] = w
	}
	return w
}

// IntegrationWeight returns the named weight entry, creating it if needed.
func (d *Document) IntegrationWeight(name string) *IntegrationWeight {
	w, ok := d.IntegrationWeights[name]
	if !ok {
		w = &IntegrationWeight{}
		d.IntegrationWeights[name] = w
	}
	return w
}

// SetConstant turns w into a constant waveform.
func (w *Waveform) SetConstant(v float64) {
	w.Type = WaveformConstant
	w.Sample = &v
	w.Samples = nil
}

// SetArbitrary turns w into an arbitrary waveform holding a copy of samples.
func (w *Waveform) SetArbitrary(samples []float64) {
	w.Type = WaveformArbitrary
	w.Sample = nil
	w.Samples = append([]float64(nil), samples...)
}

// --- deletion ---

// DeleteEntry removes one entry of a category. It reports whether the entry
// existed.
func (d *Document) DeleteEntry(category, name string) (bool, error) {
	var ok bool
	switch category {
	case CategoryControllers:
		_, ok = d.Controllers[name]
		delete(d.Controllers, name)
	case CategoryElements:
		_, ok = d.Elements[name]
		delete(d.Elements, name)
	case CategoryMixers:
		_, ok = d.Mixers[name]
		delete(d.Mixers, name)
	case CategoryPulses:
		_, ok = d.Pulses[name]
		delete(d.Pulses, name)
	case CategoryWaveforms:
		_, ok = d.Waveforms[name]
		delete(d.Waveforms, name)
	case CategoryDigitalWaveforms:
		_, ok = d.DigitalWaveforms[name]
		delete(d.DigitalWaveforms, name)
	case CategoryIntegrationWeights:
		_, ok = d.IntegrationWeights[name]
		delete(d.IntegrationWeights, name)
	default:
		return false, fmt.Errorf("unknown document category %q", category)
	}
	return ok, nil
}

// --- snapshots and comparison ---

// Snapshot returns a deep copy that shares nothing with d.
func (d *Document) Snapshot() *Document {
	data, err := json.Marshal(d)
	if err != nil {
		// Every field type is a plain JSON value; this cannot fail.
		panic(fmt.Sprintf("document: snapshot marshal: %v", err))
	}
	out := &Document{}
	if err := json.Unmarshal(data, out); err != nil {
		panic(fmt.Sprintf("document: snapshot unmarshal: %v", err))
	}
	return out
}

// Equal compares two documents structurally. Nil and empty collections are
// considered equal.
func Equal(a, b *Document) bool {
	return cmp.Equal(a, b, cmpopts.EquateEmpty())
}

// JSON renders the document in its wire format.
func (d *Document) JSON(indent bool) ([]byte, error) {
	if indent {
		return json.MarshalIndent(d, "", "  ")
	}
	return json.Marshal(d)
}
