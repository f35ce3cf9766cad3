package hcl

import (
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/specialistvlad/pulsegrid/internal/config"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// ParseOverride parses an "element.param=value" assignment. The value is an
// HCL expression, so numbers, strings, lists and flat(...) all work:
//
//	qubit.intermediate_frequency=-52e6
//	qubit.mixer_offsets.gain=0.02
//	rr.ports.out=2
func (l *Loader) ParseOverride(raw string) (config.Override, error) {
	key, src, ok := strings.Cut(raw, "=")
	key = strings.TrimSpace(key)
	el, param, dotted := strings.Cut(key, ".")
	if !ok || !dotted || el == "" || param == "" {
		return config.Override{}, fmt.Errorf("override %q must have the form element.param=value", raw)
	}

	expr, diags := hclsyntax.ParseExpression([]byte(src), "-set "+key, hcl.InitialPos)
	if diags.HasErrors() {
		return config.Override{}, fmt.Errorf("override %s: %w", key, diags)
	}
	val, diags := expr.Value(l.evalCtx)
	if diags.HasErrors() {
		return config.Override{}, fmt.Errorf("override %s: %w", key, diags)
	}
	v, err := ToGo(val)
	if err != nil {
		return config.Override{}, fmt.Errorf("override %s: %w", key, err)
	}
	return config.Override{Element: el, Key: param, Value: v}, nil
}

// ToGo converts a cty value into its natural Go counterpart: float64,
// string, bool, []any, map[string]any or nil. Type checking is left to the
// compiler.
func ToGo(val cty.Value) (any, error) {
	if val.IsNull() {
		return nil, nil
	}
	if !val.IsWhollyKnown() {
		return nil, fmt.Errorf("value is not known")
	}

	ty := val.Type()
	switch {
	case ty == cty.String:
		return val.AsString(), nil

	case ty == cty.Number:
		var f float64
		if err := gocty.FromCtyValue(val, &f); err != nil {
			return nil, fmt.Errorf("could not convert number to float64: %w", err)
		}
		return f, nil

	case ty == cty.Bool:
		var b bool
		if err := gocty.FromCtyValue(val, &b); err != nil {
			return nil, err
		}
		return b, nil

	case ty.IsListType() || ty.IsTupleType() || ty.IsSetType():
		out := make([]any, 0, val.LengthInt())
		for it := val.ElementIterator(); it.Next(); {
			_, ev := it.Element()
			g, err := ToGo(ev)
			if err != nil {
				return nil, err
			}
			out = append(out, g)
		}
		return out, nil

	case ty.IsObjectType() || ty.IsMapType():
		out := make(map[string]any)
		for it := val.ElementIterator(); it.Next(); {
			k, ev := it.Element()
			g, err := ToGo(ev)
			if err != nil {
				return nil, fmt.Errorf("in attribute '%s': %w", k.AsString(), err)
			}
			out[k.AsString()] = g
		}
		return out, nil

	default:
		return nil, fmt.Errorf("unsupported value type %s", ty.FriendlyName())
	}
}
