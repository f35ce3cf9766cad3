package compiler

import (
	"context"

	"github.com/specialistvlad/pulsegrid/internal/ctxlog"
	"github.com/specialistvlad/pulsegrid/internal/document"
	"github.com/specialistvlad/pulsegrid/internal/validation"
)

// updateTimeOfFlight writes the acquisition delay of a measuring element,
// rounded to the clock quantum.
func (c *Compiler) updateTimeOfFlight(ctx context.Context, name string, ch change) error {
	el, ok := c.measuring(ctx, name, ch)
	if !ok {
		return nil
	}
	if !ch.hasCur {
		el.TimeOfFlight = nil
		return nil
	}
	f, err := validation.Number(ch.cur)
	if err != nil {
		return err
	}
	ns, rounded, err := c.limits.Quantize(f)
	if err != nil {
		return err
	}
	if ns < 0 {
		return validation.New(validation.ErrLengthTooShort, "", ch.cur, ">= 0")
	}
	if rounded {
		ctxlog.FromContext(ctx).Warn("Time of flight rounded to the clock quantum.", "requested", ch.cur, "time_of_flight", ns)
	}
	el.TimeOfFlight = &ns
	return nil
}

// updateSmearing writes the acquisition window extension of a measuring
// element.
func (c *Compiler) updateSmearing(ctx context.Context, name string, ch change) error {
	el, ok := c.measuring(ctx, name, ch)
	if !ok {
		return nil
	}
	if !ch.hasCur {
		el.Smearing = nil
		return nil
	}
	ns, err := validation.Integer(ch.cur)
	if err != nil {
		return err
	}
	if ns < 0 {
		return validation.New(validation.ErrLengthTooShort, "", ch.cur, ">= 0")
	}
	el.Smearing = &ns
	return nil
}

// measuring returns the element entry if the element has an acquisition
// input. Acquisition parameters of other elements are ignored.
func (c *Compiler) measuring(ctx context.Context, name string, ch change) (*document.Element, bool) {
	if !c.wired[name].Measures() {
		if ch.hasCur {
			ctxlog.FromContext(ctx).Warn("Ignoring acquisition parameter of an element without an input.")
		}
		return nil, false
	}
	return c.doc.Element(name), true
}
