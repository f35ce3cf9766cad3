package document

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strconv"

	"github.com/specialistvlad/pulsegrid/internal/docpath"
)

// Map returns the document as generic JSON values (map[string]any, []any,
// float64, string, bool).
func (d *Document) Map() map[string]any {
	data, err := json.Marshal(d)
	if err != nil {
		panic(fmt.Sprintf("document: marshal: %v", err))
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		panic(fmt.Sprintf("document: unmarshal: %v", err))
	}
	return out
}

// Get returns the value at path in wire form.
func (d *Document) Get(path docpath.Path) (any, bool) {
	var cur any = d.Map()
	for _, seg := range path {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[seg.Name]
		if !ok {
			return nil, false
		}
		if seg.HasIndex() {
			list, ok := cur.([]any)
			if !ok || seg.Index >= len(list) {
				return nil, false
			}
			cur = list[seg.Index]
		}
	}
	return cur, true
}

// Delete removes the node at path. Supported paths are category entries
// (`pulses["q.x"]`), element operations (`elements.q.operations.x`) and
// controller ports (`controllers.con1.analog_outputs.3`).
func (d *Document) Delete(path docpath.Path) (bool, error) {
	for _, seg := range path {
		if seg.HasIndex() {
			return false, fmt.Errorf("cannot delete indexed path %s", path)
		}
	}

	switch {
	case len(path) == 2:
		return d.DeleteEntry(path[0].Name, path[1].Name)

	case len(path) == 4 && path[0].Name == CategoryElements && path[2].Name == "operations":
		e, ok := d.Elements[path[1].Name]
		if !ok {
			return false, nil
		}
		_, ok = e.Operations[path[3].Name]
		delete(e.Operations, path[3].Name)
		return ok, nil

	case len(path) == 4 && path[0].Name == CategoryControllers:
		c, ok := d.Controllers[path[1].Name]
		if !ok {
			return false, nil
		}
		index, err := strconv.Atoi(path[3].Name)
		if err != nil {
			return false, fmt.Errorf("invalid port index in %s: %w", path, err)
		}
		var ports map[int]*AnalogPort
		switch path[2].Name {
		case "analog_outputs":
			ports = c.AnalogOutputs
		case "analog_inputs":
			ports = c.AnalogInputs
		default:
			return false, fmt.Errorf("cannot delete %s", path)
		}
		_, ok = ports[index]
		delete(ports, index)
		return ok, nil

	default:
		return false, fmt.Errorf("cannot delete %s", path)
	}
}

// Diff lists the leaf paths whose values differ between a and b, in sorted
// order. Lists of objects (mixer entries) are descended by index; every
// other list is compared as one value.
func Diff(a, b *Document) []docpath.Path {
	var out []docpath.Path
	diffValue(nil, a.Map(), b.Map(), &out)
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}

func diffValue(path docpath.Path, a, b any, out *[]docpath.Path) {
	am, aIsMap := a.(map[string]any)
	bm, bIsMap := b.(map[string]any)
	if aIsMap && bIsMap {
		keys := make(map[string]struct{}, len(am)+len(bm))
		for k := range am {
			keys[k] = struct{}{}
		}
		for k := range bm {
			keys[k] = struct{}{}
		}
		for k := range keys {
			diffValue(path.Child(k), am[k], bm[k], out)
		}
		return
	}

	al, aIsList := a.([]any)
	bl, bIsList := b.([]any)
	if aIsList && bIsList && len(al) == len(bl) && objectList(al) && objectList(bl) {
		for i := range al {
			diffValue(path.At(i), al[i], bl[i], out)
		}
		return
	}

	if !reflect.DeepEqual(a, b) {
		*out = append(*out, path)
	}
}

func objectList(l []any) bool {
	if len(l) == 0 {
		return false
	}
	for _, v := range l {
		if _, ok := v.(map[string]any); !ok {
			return false
		}
	}
	return true
}
