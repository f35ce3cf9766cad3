package compiler

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/go-cmp/cmp"
	"github.com/hashicorp/go-multierror"
	"github.com/specialistvlad/pulsegrid/internal/ctxlog"
	"github.com/specialistvlad/pulsegrid/internal/document"
	"github.com/specialistvlad/pulsegrid/internal/element"
	"github.com/specialistvlad/pulsegrid/internal/validation"
)

// DefaultControllerType is written to every controller entry unless
// overridden with WithControllerType.
const DefaultControllerType = "opx1"

// Observer is called before every update routine invocation.
type Observer func(element, param string)

// Option configures a Compiler.
type Option func(*Compiler)

// WithLimits replaces the hardware bounds used for validation.
func WithLimits(l validation.Limits) Option {
	return func(c *Compiler) { c.limits = l }
}

// WithControllerType sets the controller type written to the document.
func WithControllerType(t string) Option {
	return func(c *Compiler) { c.controllerType = t }
}

// WithController declares a controller and its type. Declared controllers
// are written on initialization even if no element uses them.
func WithController(name, typ string) Option {
	return func(c *Compiler) { c.controllerTypes[name] = typ }
}

// WithObserver registers a hook that sees every routine invocation.
func WithObserver(o Observer) Option {
	return func(c *Compiler) { c.observer = o }
}

// Compiler owns one configuration document and the parameter snapshots of
// the elements compiled into it. It is not safe for concurrent use.
type Compiler struct {
	limits          validation.Limits
	controllerType  string
	controllerTypes map[string]string
	observer        Observer

	// doc is nil while the compiler is uninitialized.
	doc      *document.Document
	elements map[string]*element.Element
	states   map[string]elementState

	// keysets holds the port roles each element was wired with. wired holds
	// the ports actually written, and claims maps every occupied connector
	// to the element owning it.
	keysets map[string]string
	wired   map[string]element.Ports
	claims  map[portKey]string
}

// New creates a compiler over the given descriptors. Element names must be
// unique.
func New(elements []*element.Element, opts ...Option) (*Compiler, error) {
	c := &Compiler{
		limits:          validation.DefaultLimits(),
		controllerType:  DefaultControllerType,
		controllerTypes: make(map[string]string),
		elements:        make(map[string]*element.Element, len(elements)),
		states:          make(map[string]elementState, len(elements)),
		keysets:         make(map[string]string),
		wired:           make(map[string]element.Ports),
		claims:          make(map[portKey]string),
	}
	for _, opt := range opts {
		opt(c)
	}
	for _, e := range elements {
		if err := c.Add(e); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Add registers another descriptor. It is compiled on the next Compile call.
func (c *Compiler) Add(e *element.Element) error {
	if e == nil {
		return fmt.Errorf("cannot add a nil element")
	}
	if err := validation.Name(e.Name()); err != nil {
		return validation.Annotate(err, "element")
	}
	if _, exists := c.elements[e.Name()]; exists {
		return fmt.Errorf("element %q is already registered", e.Name())
	}
	c.elements[e.Name()] = e
	c.states[e.Name()] = neverCompiled{}
	return nil
}

// Element returns a registered descriptor.
func (c *Compiler) Element(name string) (*element.Element, bool) {
	e, ok := c.elements[name]
	return e, ok
}

// Names returns the registered element names in compile order.
func (c *Compiler) Names() []string {
	names := make([]string, 0, len(c.elements))
	for name := range c.elements {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Document returns the live document, or nil before the first Compile.
func (c *Compiler) Document() *document.Document {
	return c.doc
}

// Compiled reports whether the element has been compiled successfully at
// least once.
func (c *Compiler) Compiled(name string) bool {
	_, ok := c.states[name].(compiledWith)
	return ok
}

// Compile reconciles every registered element into the document and returns
// it. The returned document is live: later Compile calls keep mutating it,
// so callers that need a stable copy should take a Snapshot.
//
// A failing element does not stop the others. All element errors are
// returned together; the document is still returned so that callers can
// inspect it, but it must not be handed downstream.
func (c *Compiler) Compile(ctx context.Context) (*document.Document, error) {
	logger := ctxlog.FromContext(ctx)

	if c.doc == nil {
		c.initialize()
		logger.Debug("Initialized configuration document.", "controller_type", c.controllerType)
	}

	var result *multierror.Error
	compiled := 0
	for _, name := range c.Names() {
		elCtx := ctxlog.With(ctx, "element", name)
		ran, err := c.compileElement(elCtx, c.elements[name])
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("element %q: %w", name, err))
			continue
		}
		if ran > 0 {
			compiled++
		}
	}

	if err := result.ErrorOrNil(); err != nil {
		logger.Error("Compile finished with errors.", "failed", len(result.Errors), "updated", compiled)
		return c.doc, err
	}
	logger.Info("Compile finished.", "elements", len(c.elements), "updated", compiled)
	return c.doc, nil
}

// initialize allocates the document and writes its static entries.
func (c *Compiler) initialize() {
	c.doc = document.New()
	c.doc.Waveform(document.ZeroWaveform).SetConstant(0)
	c.doc.DigitalWaveform(document.MarkerOn).Samples = [][2]int{{1, 0}}
	for name := range c.controllerTypes {
		c.controller(name)
	}
}

// routine applies one parameter to the document.
type routine func(c *Compiler, ctx context.Context, name string, ch change) error

// routines run in this order for every element. Ports and mixer offsets
// precede operations because pulse entries depend on the output keyset.
var routines = []struct {
	param string
	fn    routine
}{
	{element.ParamLOFrequency, (*Compiler).updateLOFrequency},
	{element.ParamIntermediateFrequency, (*Compiler).updateIntermediateFrequency},
	{element.ParamPorts, (*Compiler).updatePorts},
	{element.ParamMixerOffsets, (*Compiler).updateMixerOffsets},
	{element.ParamOperations, (*Compiler).updateOperations},
	{element.ParamTimeOfFlight, (*Compiler).updateTimeOfFlight},
	{element.ParamSmearing, (*Compiler).updateSmearing},
}

// compileElement runs the routines of every changed parameter. It returns
// the number of routines invoked.
func (c *Compiler) compileElement(ctx context.Context, e *element.Element) (int, error) {
	logger := ctxlog.FromContext(ctx)
	name := e.Name()
	current := e.Parameters()
	state := c.states[name]

	if _, wired := c.keysets[name]; !wired {
		if err := c.wire(ctx, name, current.Ports()); err != nil {
			return 0, err
		}
	}

	ran := 0
	// Ports written by a failed compile count as moved too.
	moved := mixerPortsMoved(c.previousPorts(state), c.wired[name])
	for _, r := range routines {
		cur, hasCur := current[r.param]
		prev, hasPrev := state.previous(r.param)
		changed := hasCur != hasPrev || !cmp.Equal(cur, prev)

		switch r.param {
		case element.ParamPorts:
			// A failed compile may have left the written ports out of step
			// with the snapshot.
			changed = changed || c.portsDiverged(name, current.Ports())
		case element.ParamMixerOffsets:
			// Moving I or Q to another connector leaves the DC offsets behind.
			if moved || mixerPortsMoved(c.previousPorts(state), c.wired[name]) {
				changed, hasPrev, prev = true, false, nil
			}
		}
		if !changed {
			continue
		}

		if c.observer != nil {
			c.observer(name, r.param)
		}
		logger.Debug("Applying parameter.", "param", r.param)
		ran++

		if err := r.fn(c, ctx, name, change{cur: cur, prev: prev, hasCur: hasCur, hasPrev: hasPrev}); err != nil {
			return ran, validation.Annotate(err, name+"."+r.param)
		}
	}

	c.states[name] = compiledWith{params: current}
	return ran, nil
}

// wire creates the element entry and, for IQ elements, its mixer, and fixes
// the element's port keyset. Port indices are written by the ports routine.
func (c *Compiler) wire(ctx context.Context, name string, ports element.Ports) error {
	if ports == nil {
		return validation.New(validation.ErrTypeMismatch, name+"."+element.ParamPorts, nil, "a port mapping")
	}
	if !ports.ValidKeyset() {
		return validation.New(validation.ErrInvalidPortKeyset, name+"."+element.ParamPorts, ports.Keyset(), "one of I,Q | single | I,Q,out | out,single")
	}

	el := c.doc.Element(name)
	if ports.Paired() {
		if el.MixInputs == nil {
			el.MixInputs = &document.MixInputs{Mixer: document.MixerName(name)}
		}
		c.doc.Mixer(document.MixerName(name))
	} else if el.SingleInput == nil {
		el.SingleInput = &document.SingleInput{}
	}
	c.keysets[name] = ports.Keyset()
	ctxlog.FromContext(ctx).Debug("Wired element.", "keyset", ports.Keyset())
	return nil
}

// portsDiverged reports whether the written ports differ from the current
// descriptor.
func (c *Compiler) portsDiverged(name string, ports element.Ports) bool {
	wired, ok := c.wired[name]
	return ok && !cmp.Equal(withDefaults(ports), wired)
}

// previousPorts returns the ports recorded after the last successful compile
// with default controllers filled in.
func (c *Compiler) previousPorts(state elementState) element.Ports {
	prev, _ := state.previous(element.ParamPorts)
	ports, _ := prev.(element.Ports)
	return withDefaults(ports)
}

// mixerPortsMoved reports whether I or Q is wired to a different connector
// in after than in before.
func mixerPortsMoved(before, after element.Ports) bool {
	if before == nil || after == nil {
		return false
	}
	for _, r := range []element.Role{element.RoleI, element.RoleQ} {
		if before[r] != after[r] {
			return true
		}
	}
	return false
}
