package compiler

import (
	"context"

	"github.com/specialistvlad/pulsegrid/internal/document"
	"github.com/specialistvlad/pulsegrid/internal/validation"
)

// updateLOFrequency writes the local oscillator frequency to the element
// wiring and the mixer. Single-input elements have neither, so the value is
// only validated.
func (c *Compiler) updateLOFrequency(ctx context.Context, name string, ch change) error {
	if !ch.hasCur {
		return nil
	}
	hz, err := validation.Frequency(ch.cur)
	if err != nil {
		return err
	}
	el := c.doc.Element(name)
	if el.MixInputs == nil {
		return nil
	}
	el.MixInputs.LOFrequency = hz
	c.doc.Mixer(el.MixInputs.Mixer).LOFrequency = hz
	return nil
}

// updateIntermediateFrequency writes the intermediate frequency to the
// element and, for IQ elements, to the mixer entry.
func (c *Compiler) updateIntermediateFrequency(ctx context.Context, name string, ch change) error {
	if !ch.hasCur {
		return nil
	}
	hz, err := validation.Frequency(ch.cur)
	if err != nil {
		return err
	}
	el := c.doc.Element(name)
	el.IntermediateFrequency = hz
	if el.MixInputs != nil {
		c.doc.Mixer(el.MixInputs.Mixer).IntermediateFrequency = hz
	}
	return nil
}

// mixerOf returns the mixer entry of an IQ element, or nil.
func (c *Compiler) mixerOf(name string) *document.MixerEntry {
	el := c.doc.Element(name)
	if el.MixInputs == nil {
		return nil
	}
	return c.doc.Mixer(el.MixInputs.Mixer)
}
