// Package tree implements the Ordered Interval Tree (OIT): a self-organizing
// hierarchical structure over half-open character ranges of a Document.
// Every syntactic or semantic fragment recognized anywhere in the pipeline is
// a node in some Forest; nodes are mutated exclusively through Offer and
// detached exclusively through Pop/Remove (see offer.go).
//
// Nodes live in an arena (Forest, a growable slice of node records) and
// reference each other by NodeID index rather than by pointer, so the whole
// structure can be transplanted or torn down without chasing cycles.
package tree

import (
	"github.com/cufyorg/jamplate-processor/internal/invariant"
	"github.com/cufyorg/jamplate-processor/internal/ref"
)

// NodeID indexes a node within a Forest. The zero value is not a valid node;
// use noNode to mean "no node" explicitly.
type NodeID int32

// noNode is the sentinel for "no link".
const noNode NodeID = -1

// Valid reports whether id refers to a real node.
func (id NodeID) Valid() bool { return id != noNode }

type record struct {
	document ref.Document
	refr     ref.Reference
	weight   int32
	sketch   *Sketch

	parent, previous, next, child NodeID
	detached                      bool
}

// Forest is the arena owning every node of one or more trees. A Forest is
// not safe for concurrent mutation: concurrent readers are fine as long as
// nothing is offering/popping/removing concurrently.
type Forest struct {
	records []record
}

// NewForest creates an empty arena.
func NewForest() *Forest {
	return &Forest{}
}

// New allocates a free-standing node (no parent/previous/next/child) over
// the given document range and weight, with an empty Sketch of the given
// kind. The returned node is not part of any structure until Offer'd.
func (f *Forest) New(doc ref.Document, r ref.Reference, weight int32, kind string) NodeID {
	id := NodeID(len(f.records))
	f.records = append(f.records, record{
		document: doc,
		refr:     r,
		weight:   weight,
		sketch:   NewSketch(kind),
		parent:   noNode,
		previous: noNode,
		next:     noNode,
		child:    noNode,
	})
	return id
}

func (f *Forest) rec(id NodeID) *record {
	if id == noNode {
		return nil
	}
	invariant.Check(id >= 0 && int(id) < len(f.records), "tree: NodeID %d out of range (%d records)", id, len(f.records))
	return &f.records[id]
}

// Document returns the node's document.
func (f *Forest) Document(id NodeID) ref.Document { return f.rec(id).document }

// Reference returns the node's range.
func (f *Forest) Reference(id NodeID) ref.Reference { return f.rec(id).refr }

// Weight returns the node's tie-breaker weight.
func (f *Forest) Weight(id NodeID) int32 { return f.rec(id).weight }

// Sketch returns the node's metadata record.
func (f *Forest) Sketch(id NodeID) *Sketch { return f.rec(id).sketch }

// Parent, Previous, Next, Child return the linked node, or (noNode, false).
// Only the first child of a sibling chain stores the parent link, so Parent
// reads it from the head of id's chain: every sibling reports the same
// parent.
func (f *Forest) Parent(id NodeID) (NodeID, bool)   { return valid(f.rec(f.Head(id)).parent) }
func (f *Forest) Previous(id NodeID) (NodeID, bool) { return valid(f.rec(id).previous) }
func (f *Forest) Next(id NodeID) (NodeID, bool)     { return valid(f.rec(id).next) }
func (f *Forest) Child(id NodeID) (NodeID, bool)    { return valid(f.rec(id).child) }

func valid(id NodeID) (NodeID, bool) { return id, id != noNode }

// IsDetached reports whether id is currently free-standing (not linked into
// any structure).
func (f *Forest) IsDetached(id NodeID) bool {
	r := f.rec(id)
	return r.parent == noNode && r.previous == noNode
}

// Head walks previous-links to the first sibling in id's chain.
func (f *Forest) Head(id NodeID) NodeID {
	if id == noNode {
		return noNode
	}
	for {
		r := f.rec(id)
		if r.previous == noNode {
			return id
		}
		id = r.previous
	}
}

// Tail walks next-links to the last sibling in id's chain.
func (f *Forest) Tail(id NodeID) NodeID {
	if id == noNode {
		return noNode
	}
	for {
		r := f.rec(id)
		if r.next == noNode {
			return id
		}
		id = r.next
	}
}

// Root walks parent-links to the outermost ancestor.
func (f *Forest) Root(id NodeID) NodeID {
	for {
		head := f.Head(id)
		r := f.rec(head)
		if r.parent == noNode {
			return head
		}
		id = r.parent
	}
}

// Children returns id's direct children, first to last.
func (f *Forest) Children(id NodeID) []NodeID {
	var out []NodeID
	child, ok := f.Child(id)
	if !ok {
		return nil
	}
	for n := f.Head(child); n != noNode; {
		out = append(out, n)
		r := f.rec(n)
		n = r.next
	}
	return out
}

// Walk visits id and every descendant, depth-first, pre-order — the
// traversal Analyzer's Hierarchy combinator relies on.
func (f *Forest) Walk(id NodeID, visit func(NodeID)) {
	if id == noNode {
		return
	}
	visit(id)
	for n := f.Head(f.rec(id).child); n != noNode; {
		f.Walk(n, visit)
		n = f.rec(n).next
	}
}
