package compiler

import (
	"context"
	"fmt"

	"github.com/specialistvlad/pulsegrid/internal/ctxlog"
	"github.com/specialistvlad/pulsegrid/internal/document"
	"github.com/specialistvlad/pulsegrid/internal/element"
	"github.com/specialistvlad/pulsegrid/internal/validation"
)

// outputKey is the name of the acquisition input in an element's outputs.
const outputKey = "out1"

// updatePorts writes the connectors of an element. The first assignment
// writes every port; later ones rewrite only ports whose connector changed.
// Everything is validated before the first write, so a failure leaves the
// document untouched.
func (c *Compiler) updatePorts(ctx context.Context, name string, ch change) error {
	ports, ok := ch.cur.(element.Ports)
	if !ch.hasCur || !ok || ports == nil {
		return validation.New(validation.ErrTypeMismatch, "", ch.cur, "a port mapping")
	}
	if established := c.keysets[name]; ports.Keyset() != established {
		return validation.New(validation.ErrForbiddenPortKeysetChange, "", ports.Keyset(), established)
	}

	resolved, err := c.resolvePorts(name, ports)
	if err != nil {
		return err
	}

	wired := c.wired[name]
	var moved []element.Role
	for _, role := range resolved.Roles() {
		if old, ok := wired[role]; !ok || old != resolved[role] {
			moved = append(moved, role)
		}
	}

	// Release everything first so that swapping two ports never frees a
	// connector that was just claimed.
	for _, role := range moved {
		if old, ok := wired[role]; ok {
			c.release(name, role, old)
		}
	}
	for _, role := range moved {
		c.takeOver(ctx, name, role, resolved[role])
		c.claim(name, role, resolved[role])
	}
	c.wired[name] = resolved

	if len(moved) > 0 {
		ctxlog.FromContext(ctx).Debug("Ports written.", "ports", len(moved))
	}
	return nil
}

// resolvePorts fills in default controllers, checks every index against the
// hardware bounds and checks that no connector is owned by another element.
func (c *Compiler) resolvePorts(name string, ports element.Ports) (element.Ports, error) {
	resolved := make(element.Ports, len(ports))
	seen := make(map[portKey]element.Role, len(ports))
	for _, role := range ports.Roles() {
		p := ports[role]
		subject := name + "." + element.ParamPorts + "." + string(role)
		if p.Controller == "" {
			p.Controller = element.DefaultController
		}

		var err error
		if directionOf(role) == dirInput {
			p.Index, err = c.limits.InputPort(p.Index)
		} else {
			p.Index, err = c.limits.OutputPort(p.Index)
		}
		if err != nil {
			return nil, validation.Annotate(err, subject)
		}

		key := portKey{controller: p.Controller, index: p.Index, dir: directionOf(role)}
		if owner, taken := c.claims[key]; taken && owner != name && c.wanted(owner, key) {
			return nil, validation.New(validation.ErrDuplicatePortAssignment, subject, p.String(), fmt.Sprintf("a %s not used by %q", key.dir, owner))
		}
		if other, dup := seen[key]; dup {
			return nil, validation.New(validation.ErrDuplicatePortAssignment, subject, p.String(), fmt.Sprintf("a %s not used by role %s", key.dir, other))
		}
		seen[key] = role
		resolved[role] = p
	}
	return resolved, nil
}

// wanted reports whether the owner's current descriptor still uses the
// connector. An owner whose ports cannot be applied keeps its claims.
func (c *Compiler) wanted(owner string, key portKey) bool {
	e, ok := c.elements[owner]
	if !ok {
		return true
	}
	ports := withDefaults(e.Ports())
	if ports == nil || ports.Keyset() != c.keysets[owner] {
		return true
	}
	for role, p := range ports {
		if (portKey{controller: p.Controller, index: p.Index, dir: directionOf(role)}) == key {
			return true
		}
	}
	return false
}

// takeOver removes a connector from the written ports of another element
// that no longer wants it. That element rewrites the role on its next ports
// routine.
func (c *Compiler) takeOver(ctx context.Context, name string, role element.Role, p element.Port) {
	key := portKey{controller: p.Controller, index: p.Index, dir: directionOf(role)}
	owner, taken := c.claims[key]
	if !taken || owner == name {
		return
	}
	ports := c.wired[owner].Clone()
	for r, old := range ports {
		if old == p && directionOf(r) == key.dir {
			delete(ports, r)
		}
	}
	c.wired[owner] = ports
	ctxlog.FromContext(ctx).Debug("Took over a released connector.", "port", p.String(), "from", owner)
}

// claim records the owner of a connector and writes its bookkeeping entry
// with a zero DC offset.
func (c *Compiler) claim(name string, role element.Role, p element.Port) {
	dir := directionOf(role)
	c.claims[portKey{controller: p.Controller, index: p.Index, dir: dir}] = name

	ctrl := c.controller(p.Controller)
	ref := document.PortRef{Controller: p.Controller, Index: p.Index}
	el := c.doc.Element(name)
	if dir == dirInput {
		ctrl.Input(p.Index).Offset = 0
		if el.Outputs == nil {
			el.Outputs = make(map[string]document.PortRef)
		}
		el.Outputs[outputKey] = ref
		return
	}

	ctrl.Output(p.Index).Offset = 0
	switch role {
	case element.RoleI:
		el.MixInputs.I = ref
	case element.RoleQ:
		el.MixInputs.Q = ref
	case element.RoleSingle:
		el.SingleInput.Port = ref
	}
}

// release frees a connector owned by the element and removes its
// bookkeeping entry.
func (c *Compiler) release(name string, role element.Role, p element.Port) {
	key := portKey{controller: p.Controller, index: p.Index, dir: directionOf(role)}
	if c.claims[key] != name {
		return
	}
	delete(c.claims, key)
	ctrl, ok := c.doc.Controllers[p.Controller]
	if !ok {
		return
	}
	if key.dir == dirInput {
		delete(ctrl.AnalogInputs, p.Index)
	} else {
		delete(ctrl.AnalogOutputs, p.Index)
	}
}

// withDefaults returns a copy of ports with the default controller filled in.
func withDefaults(ports element.Ports) element.Ports {
	if ports == nil {
		return nil
	}
	out := make(element.Ports, len(ports))
	for role, p := range ports {
		if p.Controller == "" {
			p.Controller = element.DefaultController
		}
		out[role] = p
	}
	return out
}

// controller returns the named controller entry with its type set.
func (c *Compiler) controller(name string) *document.Controller {
	ctrl := c.doc.Controller(name)
	if t, ok := c.controllerTypes[name]; ok {
		ctrl.Type = t
	} else {
		ctrl.Type = c.controllerType
	}
	return ctrl
}
