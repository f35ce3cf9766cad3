package hcl

import (
	"fmt"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/pulsegrid/internal/element"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// portRefType is the long form of a port: ["con2", 3].
var portRefType = cty.Tuple([]cty.Type{cty.String, cty.Number})

// decodePorts evaluates a ports expression such as
//
//	{ I = 1, Q = ["con2", 2], out = 1 }
//
// Role names and index bounds are checked by the compiler, not here.
func decodePorts(expr hcl.Expression, evalCtx *hcl.EvalContext) (element.Ports, error) {
	val, diags := expr.Value(evalCtx)
	if diags.HasErrors() {
		return nil, diags
	}
	ty := val.Type()
	if val.IsNull() || !val.IsWhollyKnown() || !(ty.IsObjectType() || ty.IsMapType()) {
		return nil, fmt.Errorf("ports must be an object of role = index, got %s", ty.FriendlyName())
	}

	raw := val.AsValueMap()
	roles := make([]string, 0, len(raw))
	for role := range raw {
		roles = append(roles, role)
	}
	sort.Strings(roles)

	ports := make(element.Ports, len(raw))
	for _, role := range roles {
		p, err := decodePort(raw[role])
		if err != nil {
			return nil, fmt.Errorf("ports.%s: %w", role, err)
		}
		ports[element.Role(role)] = p
	}
	return ports, nil
}

func decodePort(v cty.Value) (element.Port, error) {
	var p element.Port
	if v.IsNull() {
		return p, fmt.Errorf("port must not be null")
	}

	if v.Type() == cty.Number {
		if err := gocty.FromCtyValue(v, &p.Index); err != nil {
			return p, err
		}
		return p, nil
	}

	ref, err := convert.Convert(v, portRefType)
	if err != nil {
		return p, fmt.Errorf(`expected an index or ["controller", index]: %w`, err)
	}
	parts := ref.AsValueSlice()
	if parts[0].IsNull() || parts[1].IsNull() {
		return p, fmt.Errorf(`expected an index or ["controller", index], got nulls`)
	}
	p.Controller = parts[0].AsString()
	if err := gocty.FromCtyValue(parts[1], &p.Index); err != nil {
		return p, err
	}
	return p, nil
}
