package tree

// Query is a predicate over a node within a Forest, composable the way
// an Analyzer's Filter combinator expects: small boolean combinators
// (And/Or/Not) built on top of atomic shape/kind tests.
type Query func(f *Forest, id NodeID) bool

// Is matches nodes whose Sketch kind equals kind.
func Is(kind string) Query {
	return func(f *Forest, id NodeID) bool {
		return f.Sketch(id).Is(kind)
	}
}

// HasParent matches nodes whose parent satisfies q.
func HasParent(q Query) Query {
	return func(f *Forest, id NodeID) bool {
		parent, ok := f.Parent(id)
		return ok && q(f, parent)
	}
}

// HasChild matches nodes with at least one child satisfying q.
func HasChild(q Query) Query {
	return func(f *Forest, id NodeID) bool {
		for _, c := range f.Children(id) {
			if q(f, c) {
				return true
			}
		}
		return false
	}
}

// And matches nodes satisfying every given query.
func And(qs ...Query) Query {
	return func(f *Forest, id NodeID) bool {
		for _, q := range qs {
			if !q(f, id) {
				return false
			}
		}
		return true
	}
}

// Or matches nodes satisfying at least one given query.
func Or(qs ...Query) Query {
	return func(f *Forest, id NodeID) bool {
		for _, q := range qs {
			if q(f, id) {
				return true
			}
		}
		return false
	}
}

// Not negates q.
func Not(q Query) Query {
	return func(f *Forest, id NodeID) bool {
		return !q(f, id)
	}
}

// Find returns every descendant of id (id included) matching q, depth-first
// pre-order.
func Find(f *Forest, id NodeID, q Query) []NodeID {
	var out []NodeID
	f.Walk(id, func(n NodeID) {
		if q(f, n) {
			out = append(out, n)
		}
	})
	return out
}
