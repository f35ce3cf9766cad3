package element

import (
	"fmt"
	"slices"
	"sort"
	"strings"
)

// Role names the function of a port within an element.
type Role string

const (
	RoleI      Role = "I"
	RoleQ      Role = "Q"
	RoleSingle Role = "single"
	RoleOut    Role = "out"
)

// DefaultController is used for ports that do not name a controller.
const DefaultController = "con1"

// Port is one physical controller connector.
type Port struct {
	Controller string
	Index      int
}

func (p Port) String() string {
	return fmt.Sprintf("%s:%d", p.Controller, p.Index)
}

// Ports maps each role of an element to its connector.
type Ports map[Role]Port

// allowedKeysets lists every legal combination of roles, canonicalised by
// Keyset.
var allowedKeysets = []string{
	"I,Q",
	"single",
	"I,Q,out",
	"out,single",
}

// Keyset returns the sorted, comma joined set of roles.
func (p Ports) Keyset() string {
	roles := make([]string, 0, len(p))
	for r := range p {
		roles = append(roles, string(r))
	}
	sort.Strings(roles)
	return strings.Join(roles, ",")
}

// ValidKeyset reports whether the role combination is one the hardware
// supports.
func (p Ports) ValidKeyset() bool {
	return slices.Contains(allowedKeysets, p.Keyset())
}

// Paired reports whether the element drives an IQ mixer.
func (p Ports) Paired() bool {
	_, ok := p[RoleI]
	return ok
}

// Measures reports whether the element has an acquisition input.
func (p Ports) Measures() bool {
	_, ok := p[RoleOut]
	return ok
}

// Roles returns the roles in a fixed order: outputs first, then the input.
func (p Ports) Roles() []Role {
	var roles []Role
	for _, r := range []Role{RoleI, RoleQ, RoleSingle, RoleOut} {
		if _, ok := p[r]; ok {
			roles = append(roles, r)
		}
	}
	return roles
}

// Clone returns an independent copy.
func (p Ports) Clone() Ports {
	if p == nil {
		return nil
	}
	out := make(Ports, len(p))
	for r, port := range p {
		out[r] = port
	}
	return out
}

// MixerOffsets are the calibration values of an IQ mixer: DC offsets of the I
// and Q outputs, plus gain and phase (radians) imbalance.
type MixerOffsets struct {
	I     float64
	Q     float64
	Gain  float64
	Phase float64
}
