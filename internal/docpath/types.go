package docpath

// Segment is a single component of a path, e.g. `name[index]`.
type Segment struct {
	Name  string
	Index int // -1 indicates no index is present.
}

// Key creates a segment without an index.
func Key(name string) Segment {
	return Segment{Name: name, Index: -1}
}

// KeyIndex creates a segment that includes a list index.
func KeyIndex(name string, index int) Segment {
	return Segment{Name: name, Index: index}
}

// HasIndex returns true if the segment has an explicit index.
func (s Segment) HasIndex() bool {
	return s.Index != -1
}

// Path is the structured address of a document node.
type Path []Segment

// New builds a path from plain keys.
func New(keys ...string) Path {
	p := make(Path, len(keys))
	for i, k := range keys {
		p[i] = Key(k)
	}
	return p
}

// Child returns a new path extended by one key.
func (p Path) Child(name string) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, Key(name))
}

// At returns a copy of the path with the last segment indexed.
func (p Path) At(index int) Path {
	out := make(Path, len(p))
	copy(out, p)
	if len(out) > 0 {
		out[len(out)-1].Index = index
	}
	return out
}
