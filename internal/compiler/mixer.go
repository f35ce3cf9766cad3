package compiler

import (
	"context"

	"github.com/specialistvlad/pulsegrid/internal/ctxlog"
	"github.com/specialistvlad/pulsegrid/internal/element"
	"github.com/specialistvlad/pulsegrid/internal/mixer"
	"github.com/specialistvlad/pulsegrid/internal/validation"
)

// updateMixerOffsets writes the I and Q DC offsets to the controller outputs
// and the gain/phase correction to the mixer entry. Only the pieces that
// changed are recomputed. Removing the offsets restores zero offsets and an
// identity correction.
func (c *Compiler) updateMixerOffsets(ctx context.Context, name string, ch change) error {
	entry := c.mixerOf(name)
	if entry == nil {
		if ch.hasCur {
			ctxlog.FromContext(ctx).Warn("Ignoring mixer offsets of an element without a mixer.")
		}
		return nil
	}

	var cur element.MixerOffsets
	if ch.hasCur {
		var ok bool
		if cur, ok = ch.cur.(element.MixerOffsets); !ok {
			return validation.New(validation.ErrTypeMismatch, "", ch.cur, "mixer offsets")
		}
	}
	prev, full := ch.prev.(element.MixerOffsets)
	full = !full || !ch.hasPrev

	// 1. Validate everything that is about to be written.
	writeI := full || cur.I != prev.I
	writeQ := full || cur.Q != prev.Q
	writeCorrection := full || cur.Gain != prev.Gain || cur.Phase != prev.Phase

	if writeI {
		if _, err := c.limits.Offset(cur.I); err != nil {
			return validation.Annotate(err, name+".mixer_offsets.i_offset")
		}
	}
	if writeQ {
		if _, err := c.limits.Offset(cur.Q); err != nil {
			return validation.Annotate(err, name+".mixer_offsets.q_offset")
		}
	}
	var matrix mixer.Matrix
	if writeCorrection {
		var err error
		if matrix, err = mixer.Correction(c.limits, cur.Gain, cur.Phase); err != nil {
			return validation.Annotate(err, name+".mixer_offsets")
		}
	}

	// 2. Write.
	wired := c.wired[name]
	if writeI {
		c.setOutputOffset(wired, element.RoleI, cur.I)
	}
	if writeQ {
		c.setOutputOffset(wired, element.RoleQ, cur.Q)
	}
	if writeCorrection {
		entry.Correction = matrix.Slice()
	}
	return nil
}

func (c *Compiler) setOutputOffset(ports element.Ports, role element.Role, v float64) {
	p, ok := ports[role]
	if !ok {
		return
	}
	if ctrl, ok := c.doc.Controllers[p.Controller]; ok {
		ctrl.Output(p.Index).Offset = v
	}
}
