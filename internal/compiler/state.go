package compiler

import (
	"github.com/specialistvlad/pulsegrid/internal/element"
)

// elementState is either neverCompiled or compiledWith.
type elementState interface {
	// previous returns the parameter value recorded after the last
	// successful compile.
	previous(key string) (any, bool)
	isElementState()
}

type neverCompiled struct{}

type compiledWith struct {
	params element.Parameters
}

func (neverCompiled) previous(string) (any, bool) { return nil, false }

func (s compiledWith) previous(key string) (any, bool) {
	v, ok := s.params[key]
	return v, ok
}

func (neverCompiled) isElementState() {}
func (compiledWith) isElementState()  {}

// change is the input of an update routine: the parameter value now and
// after the last successful compile, each possibly absent.
type change struct {
	cur, prev       any
	hasCur, hasPrev bool
}

// direction distinguishes analog outputs from analog inputs when claiming
// ports.
type direction string

const (
	dirOutput direction = "output"
	dirInput  direction = "input"
)

// portKey identifies one physical connector.
type portKey struct {
	controller string
	index      int
	dir        direction
}

func directionOf(r element.Role) direction {
	if r == element.RoleOut {
		return dirInput
	}
	return dirOutput
}
