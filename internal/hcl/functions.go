package hcl

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
	"github.com/zclconf/go-cty/cty/gocty"
)

// EvalContext returns the evaluation context of descriptor files and
// overrides. It provides flat(n, v) for constant sample lists and concat to
// join them.
func EvalContext() *hcl.EvalContext {
	return &hcl.EvalContext{
		Functions: map[string]function.Function{
			"flat":   FlatFunc,
			"concat": stdlib.ConcatFunc,
		},
	}
}

// FlatFunc returns a list of n copies of a number.
var FlatFunc = function.New(&function.Spec{
	Params: []function.Parameter{
		{Name: "count", Type: cty.Number},
		{Name: "value", Type: cty.Number},
	},
	Type: function.StaticReturnType(cty.List(cty.Number)),
	Impl: func(args []cty.Value, retType cty.Type) (cty.Value, error) {
		var n int
		if err := gocty.FromCtyValue(args[0], &n); err != nil {
			return cty.NilVal, function.NewArgError(0, err)
		}
		if n < 0 {
			return cty.NilVal, function.NewArgErrorf(0, "count must not be negative, got %d", n)
		}
		if n == 0 {
			return cty.ListValEmpty(cty.Number), nil
		}
		vals := make([]cty.Value, n)
		for i := range vals {
			vals[i] = args[1]
		}
		return cty.ListVal(vals), nil
	},
})
