package compiler

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/google/go-cmp/cmp"
	"github.com/specialistvlad/pulsegrid/internal/ctxlog"
	"github.com/specialistvlad/pulsegrid/internal/docpath"
	"github.com/specialistvlad/pulsegrid/internal/document"
	"github.com/specialistvlad/pulsegrid/internal/pulse"
	"github.com/specialistvlad/pulsegrid/internal/validation"
)

// updateOperations reconciles the pulses of an element. Removed operations
// lose their pulse and every waveform and weight it owned; added ones get a
// full set of entries; changed ones get only the pieces that differ.
func (c *Compiler) updateOperations(ctx context.Context, name string, ch change) error {
	logger := ctxlog.FromContext(ctx)
	cur, ok := ch.cur.(map[string]pulse.Spec)
	if ch.hasCur && !ok {
		return validation.New(validation.ErrTypeMismatch, "", ch.cur, "an operation mapping")
	}
	prev, _ := ch.prev.(map[string]pulse.Spec)
	for op := range cur {
		if err := validation.Name(op); err != nil {
			return err
		}
	}

	for _, op := range sortedKeys(prev) {
		if _, keep := cur[op]; keep {
			continue
		}
		if err := c.removePulse(name, op); err != nil {
			return err
		}
		logger.Debug("Removed operation.", "operation", op)
	}

	for _, op := range sortedKeys(cur) {
		spec := cur[op]
		old, had := prev[op]
		if had && cmp.Equal(old, spec) {
			continue
		}
		if !had {
			old = pulse.Spec{}
		}
		if err := c.writePulse(ctx, name, op, spec, old); err != nil {
			return fmt.Errorf("operation %q: %w", op, err)
		}
	}
	return nil
}

// writePulse validates a pulse and then writes it. old is the spec written
// by the last successful compile, or the zero Spec for a new operation.
func (c *Compiler) writePulse(ctx context.Context, name, op string, spec, old pulse.Spec) error {
	pulseName := document.PulseName(name, op)

	// 1. Validate.
	length, rounded, err := c.limits.Length(spec.Length)
	if err != nil {
		return validation.Annotate(err, "length")
	}
	if err := c.checkShape(name, pulseName, spec); err != nil {
		return err
	}
	for _, key := range spec.Shape.Keys() {
		if err := c.checkSamples(spec.Shape.Samples(key), spec.Length); err != nil {
			return fmt.Errorf("waveform %s: %w", key, err)
		}
	}
	if spec.Kind == pulse.Measurement {
		for _, key := range spec.WeightKeys() {
			if err := c.checkWeight(spec.Weights[key], spec.Length); err != nil {
				return fmt.Errorf("integration weight %s: %w", key, err)
			}
		}
	}

	// 2. Write.
	logger := ctxlog.FromContext(ctx).With("operation", op)
	if rounded {
		logger.Warn("Pulse length rounded to the clock quantum; arbitrary samples and weights are zero-padded or trimmed to match.",
			"requested", spec.Length, "length", length)
	}
	p := c.doc.Pulse(pulseName)
	p.Operation = spec.Kind.String()
	p.Length = length

	for _, key := range spec.Shape.Keys() {
		samples := spec.Shape.Samples(key)
		if old.Shape != nil && slices.Equal(old.Shape.Samples(key), samples) && p.Waveforms[key] != "" {
			continue
		}
		wfName := document.WaveformName(pulseName, key)
		writeWaveform(c.doc.Waveform(wfName), samples, length)
		p.Waveforms[key] = wfName
	}

	if spec.Kind == pulse.Measurement {
		c.writeWeights(p, pulseName, spec, old, length/c.limits.ClockQuantum)
		p.DigitalMarker = document.MarkerOn
	}

	c.doc.Element(name).Operations[op] = pulseName
	logger.Debug("Pulse written.", "pulse", pulseName, "length", length)
	return nil
}

// checkShape enforces that a compiled pulse keeps its kind and waveform keys
// and that its waveform fits the element's outputs.
func (c *Compiler) checkShape(name, pulseName string, spec pulse.Spec) error {
	if spec.Shape == nil {
		return validation.New(validation.ErrTypeMismatch, "waveform", nil, "single or I/Q samples")
	}
	keys := strings.Join(spec.Shape.Keys(), ",")

	if existing, ok := c.doc.Pulses[pulseName]; ok {
		if existing.Operation != spec.Kind.String() {
			return validation.New(validation.ErrForbiddenPulseKindChange, "kind", spec.Kind.String(), existing.Operation)
		}
		if compiled := strings.Join(sortedKeys(existing.Waveforms), ","); compiled != keys {
			return validation.New(validation.ErrForbiddenWaveformKeysetChange, "waveform", keys, compiled)
		}
	}

	want := pulse.Shape(pulse.Single{})
	if c.wired[name].Paired() {
		want = pulse.Paired{}
	}
	if !pulse.SameKeys(spec.Shape, want) {
		return validation.New(validation.ErrWaveformKeysetMismatch, "waveform", keys, strings.Join(want.Keys(), ","))
	}
	return nil
}

// checkSamples validates amplitudes and, for non-constant waveforms, that
// there is one sample per nanosecond of the requested pulse length.
func (c *Compiler) checkSamples(samples []float64, length int) error {
	if len(samples) == 0 {
		return validation.New(validation.ErrSampleCountMismatch, "samples", 0, "at least one sample")
	}
	if err := c.limits.Samples(samples); err != nil {
		return err
	}
	if !constant(samples) && len(samples) != length {
		return validation.New(validation.ErrSampleCountMismatch, "samples", len(samples), fmt.Sprintf("%d samples", length))
	}
	return nil
}

// checkWeight validates one integration weight: one cosine and one sine
// coefficient per whole clock cycle of the requested pulse length.
func (c *Compiler) checkWeight(w pulse.Weight, length int) error {
	if len(w.Cosine) != len(w.Sine) {
		return validation.New(validation.ErrSampleCountMismatch, "sine", len(w.Sine), fmt.Sprintf("%d coefficients, as cosine", len(w.Cosine)))
	}
	if want := length / c.limits.ClockQuantum; len(w.Cosine) != want {
		return validation.New(validation.ErrSampleCountMismatch, "cosine", len(w.Cosine), fmt.Sprintf("%d coefficients", want))
	}
	for i, v := range append(slices.Clone(w.Cosine), w.Sine...) {
		if _, err := validation.Number(v); err != nil {
			return validation.Annotate(err, fmt.Sprintf("coefficient[%d]", i))
		}
	}
	return nil
}

// writeWeights rewrites changed integration weights and drops the ones the
// pulse no longer has. Written weights hold exactly windows coefficients.
func (c *Compiler) writeWeights(p *document.Pulse, pulseName string, spec, old pulse.Spec, windows int) {
	for _, key := range old.WeightKeys() {
		if _, keep := spec.Weights[key]; keep {
			continue
		}
		delete(c.doc.IntegrationWeights, p.IntegrationWeights[key])
		delete(p.IntegrationWeights, key)
	}
	if p.IntegrationWeights == nil {
		p.IntegrationWeights = make(map[string]string)
	}
	for _, key := range spec.WeightKeys() {
		w := spec.Weights[key]
		if prev, ok := old.Weights[key]; ok && cmp.Equal(prev, w) && old.Length == spec.Length && p.IntegrationWeights[key] != "" {
			continue
		}
		iwName := document.WeightName(pulseName, key)
		entry := c.doc.IntegrationWeight(iwName)
		entry.Cosine = fit(w.Cosine, windows)
		entry.Sine = fit(w.Sine, windows)
		p.IntegrationWeights[key] = iwName
	}
}

// removePulse deletes the pulse of an operation together with the waveforms
// and weights it references.
func (c *Compiler) removePulse(name, op string) error {
	pulseName := document.PulseName(name, op)
	if p, ok := c.doc.Pulses[pulseName]; ok {
		for _, wf := range sortedValues(p.Waveforms) {
			if _, err := c.doc.DeleteEntry(document.CategoryWaveforms, wf); err != nil {
				return err
			}
		}
		for _, iw := range sortedValues(p.IntegrationWeights) {
			if _, err := c.doc.DeleteEntry(document.CategoryIntegrationWeights, iw); err != nil {
				return err
			}
		}
	}
	if _, err := c.doc.Delete(docpath.New(document.CategoryPulses, pulseName)); err != nil {
		return err
	}
	_, err := c.doc.Delete(docpath.New(document.CategoryElements, name, "operations", op))
	return err
}

// writeWaveform writes a constant waveform as a single sample and an
// arbitrary one fitted to length.
func writeWaveform(w *document.Waveform, samples []float64, length int) {
	if constant(samples) {
		w.SetConstant(samples[0])
		return
	}
	w.SetArbitrary(fit(samples, length))
}

// fit returns a copy of values trimmed or zero-padded to n entries.
func fit(values []float64, n int) []float64 {
	out := make([]float64, n)
	copy(out, values)
	return out
}

// constant reports whether every sample has the same value.
func constant(samples []float64) bool {
	for _, s := range samples {
		if s != samples[0] {
			return false
		}
	}
	return true
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedValues(m map[string]string) []string {
	values := make([]string, 0, len(m))
	for _, v := range m {
		values = append(values, v)
	}
	sort.Strings(values)
	return values
}
