package tree

// Low-level link mutators. None of these validate dominance; by the time
// they run, offer.go has already decided the placement is legal. Every
// mutator preserves the invariant that exactly one of parent/previous is set
// on any linked node.

func (f *Forest) setParent(id, parent NodeID) { f.records[id].parent = parent }
func (f *Forest) setPrevious(id, prev NodeID)  { f.records[id].previous = prev }
func (f *Forest) setNext(id, next NodeID)      { f.records[id].next = next }
func (f *Forest) setChild(id, child NodeID)    { f.records[id].child = child }

// attachAsOnlyChild makes incoming the sole child of parent, replacing
// whatever child chain parent had (the caller is responsible for having
// already relocated any prior children).
func (f *Forest) attachAsOnlyChild(parent, incoming NodeID) {
	f.setChild(parent, incoming)
	f.setParent(incoming, parent)
	f.setPrevious(incoming, noNode)
	f.setNext(incoming, noNode)
}

// insertBefore splices incoming into the sibling chain immediately before
// mark, taking over mark's parent-link if mark was the first child.
func (f *Forest) insertBefore(mark, incoming NodeID) {
	if prev, ok := f.Previous(mark); ok {
		f.setNext(prev, incoming)
		f.setPrevious(incoming, prev)
		f.setParent(incoming, noNode)
	} else if parent, ok := f.Parent(mark); ok {
		f.setChild(parent, incoming)
		f.setParent(incoming, parent)
		f.setPrevious(incoming, noNode)
	} else {
		f.setParent(incoming, noNode)
		f.setPrevious(incoming, noNode)
	}
	f.setNext(incoming, mark)
	f.setPrevious(mark, incoming)
	f.setParent(mark, noNode)
}

// insertAfter splices incoming into the sibling chain immediately after
// mark.
func (f *Forest) insertAfter(mark, incoming NodeID) {
	if next, ok := f.Next(mark); ok {
		f.setPrevious(next, incoming)
		f.setNext(incoming, next)
	} else {
		f.setNext(incoming, noNode)
	}
	f.setNext(mark, incoming)
	f.setPrevious(incoming, mark)
	f.setParent(incoming, noNode)
}
