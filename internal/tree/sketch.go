package tree

import "github.com/cufyorg/jamplate-processor/internal/ref"

// Sketch is a mutable metadata record carrying a node's semantic kind/name
// plus a map of named child sketches. A child sketch may exist before the
// Tree node it describes has been parsed; SetTree binds it once that node
// exists.
//
// Sketches form their own small tree, separate from (but eventually bound
// onto) the OIT: the component map lets a parser publish "open", "close",
// "left", "right", "body", "type", "value", "key" sub-regions that
// analyzers/compilers retrieve by key instead of re-scanning the document.
//
// A component need not always be materialized as its own Tree node — e.g.
// DoublePattern's "body" is usually just the gap between open and close,
// published as a Range so later passes can query it without a dedicated
// arena entry.
type Sketch struct {
	Kind string
	Name string

	parent     *Sketch
	tree       NodeID
	hasRange   bool
	rangeVal   ref.Reference
	components map[string]*Sketch
}

// NewSketch creates a free-standing, unbound Sketch.
func NewSketch(kind string) *Sketch {
	return &Sketch{Kind: kind, tree: noNode, components: map[string]*Sketch{}}
}

// SetRange publishes r as this sketch's range without requiring a bound
// Tree node.
func (s *Sketch) SetRange(r ref.Reference) {
	s.hasRange = true
	s.rangeVal = r
}

// Range returns the sketch's published range, from either SetRange or (if
// never set explicitly) its bound Tree node.
func (s *Sketch) Range(f *Forest) (ref.Reference, bool) {
	if s == nil {
		return ref.Reference{}, false
	}
	if s.hasRange {
		return s.rangeVal, true
	}
	if s.tree != noNode {
		return f.Reference(s.tree), true
	}
	return ref.Reference{}, false
}

// Tree returns the bound node, or (noNode, false) if this sketch has not
// been bound to a real Tree node yet.
func (s *Sketch) Tree() (NodeID, bool) {
	if s == nil || s.tree == noNode {
		return noNode, false
	}
	return s.tree, true
}

// SetTree binds this sketch to a Tree node.
func (s *Sketch) SetTree(id NodeID) {
	s.tree = id
}

// Parent returns the sketch this one is a named component of, or nil for a
// root sketch.
func (s *Sketch) Parent() *Sketch {
	if s == nil {
		return nil
	}
	return s.parent
}

// Get returns the named child sketch, or nil if absent.
func (s *Sketch) Get(key string) *Sketch {
	if s == nil {
		return nil
	}
	return s.components[key]
}

// Put attaches child as this sketch's named component, overwriting any
// previous binding for that key.
func (s *Sketch) Put(key string, child *Sketch) {
	child.parent = s
	s.components[key] = child
}

// Keys returns the sketch's component keys in no particular order.
func (s *Sketch) Keys() []string {
	keys := make([]string, 0, len(s.components))
	for k := range s.components {
		keys = append(keys, k)
	}
	return keys
}

// Is reports whether the sketch's kind equals want.
func (s *Sketch) Is(want string) bool {
	return s != nil && s.Kind == want
}
