package tree

import "github.com/cufyorg/jamplate-processor/internal/ref"

// Offer is the sole mutation operation on a Forest. It places incoming
// relative to self, dispatching on dominance(self, incoming). incoming is
// first detached from any prior structure (as if by Pop) so that
// re-offering an already-placed node transplants it.
//
// Every fatal failure (*ErrIllegalTree) leaves the tree unchanged.
func (f *Forest) Offer(self, incoming NodeID) error {
	f.Pop(incoming)
	return f.offerInto(self, incoming)
}

func (f *Forest) offerInto(self, incoming NodeID) error {
	d := ref.DominanceOf(f.Reference(self), f.Reference(incoming))
	switch d {
	case ref.None:
		return f.offerIrrelative(self, incoming)
	case ref.Contain:
		return f.offerParent(self, incoming)
	case ref.Exact:
		return f.offerSame(self, incoming)
	case ref.Part:
		return f.offerChild(self, incoming)
	default: // ref.Share
		return f.clash(self, incoming)
	}
}

// offerIrrelative handles a NONE dispatch: self and incoming don't overlap
// at all, so we walk up self's ancestors until we find one that encloses
// incoming (PART-dominates it from the ancestor's perspective), then place
// incoming among that ancestor's children. Any ancestor that SHAREs with
// incoming along the way is fatal.
func (f *Forest) offerIrrelative(self, incoming NodeID) error {
	cur := self
	for {
		d := ref.DominanceOf(f.Reference(cur), f.Reference(incoming))
		switch d {
		case ref.Part:
			return f.offerChild(cur, incoming)
		case ref.Exact:
			return f.offerSame(cur, incoming)
		case ref.Share:
			return f.clash(cur, incoming)
		default: // None or Contain: keep climbing
			parent, ok := f.Parent(cur)
			if !ok {
				return &ErrIllegalTree{Kind: OutOfBounds, Incoming: f.Reference(incoming), Reference: f.Reference(self)}
			}
			cur = parent
		}
	}
}

// offerParent handles a CONTAIN dispatch: incoming encloses self. It
// collects the contiguous run of siblings around self that incoming also
// encloses, then makes that whole run incoming's children.
func (f *Forest) offerParent(self, incoming NodeID) error {
	incomingRef := f.Reference(incoming)

	left := self
	for {
		prev, ok := f.Previous(left)
		if !ok {
			break
		}
		switch ref.DominanceOf(f.Reference(prev), incomingRef) {
		case ref.Contain:
			left = prev
			continue
		case ref.Share:
			return f.clash(prev, incoming)
		}
		break
	}

	right := self
	for {
		next, ok := f.Next(right)
		if !ok {
			break
		}
		switch ref.DominanceOf(f.Reference(next), incomingRef) {
		case ref.Contain:
			right = next
			continue
		case ref.Share:
			return f.clash(next, incoming)
		}
		break
	}

	before, hasBefore := f.Previous(left)
	after, hasAfter := f.Next(right)
	parent, hasParent := f.Parent(left)

	if !hasBefore && hasParent {
		switch ref.DominanceOf(f.Reference(parent), incomingRef) {
		case ref.Contain:
			return f.offerParent(parent, incoming)
		case ref.Exact:
			return f.offerSame(parent, incoming)
		}
		// ref.Part (the parent strictly contains incoming, which strictly
		// contains [left..right]): fall through and splice incoming
		// between parent and the collected block.
	}

	f.setChild(incoming, left)
	f.setParent(left, incoming)
	f.setPrevious(left, noNode)
	f.setNext(right, noNode)

	switch {
	case hasBefore:
		f.setNext(before, incoming)
		f.setPrevious(incoming, before)
		f.setParent(incoming, noNode)
	case hasParent:
		f.setChild(parent, incoming)
		f.setParent(incoming, parent)
		f.setPrevious(incoming, noNode)
	default:
		f.setParent(incoming, noNode)
		f.setPrevious(incoming, noNode)
	}

	if hasAfter {
		f.setPrevious(after, incoming)
		f.setNext(incoming, after)
	} else {
		f.setNext(incoming, noNode)
	}

	return nil
}

// offerSame handles an EXACT dispatch: self and incoming cover the same
// range. Weight breaks the tie; equal weight is a fatal takeover.
func (f *Forest) offerSame(self, incoming NodeID) error {
	selfWeight, incomingWeight := f.Weight(self), f.Weight(incoming)
	if selfWeight == incomingWeight {
		return &ErrIllegalTree{Kind: Takeover, Incoming: f.Reference(incoming), Reference: f.Reference(self)}
	}
	if selfWeight < incomingWeight {
		// Higher weight nests inside lower weight: incoming goes inside self.
		return f.offerChild(self, incoming)
	}
	return f.offerParent(self, incoming)
}

// offerChild handles a PART dispatch: self encloses incoming. If self has
// no children yet, incoming attaches directly; otherwise it is dispatched
// against self's existing children in position order.
func (f *Forest) offerChild(self, incoming NodeID) error {
	child, ok := f.Child(self)
	if !ok {
		f.attachAsOnlyChild(self, incoming)
		return nil
	}
	return f.dispatchAgainstChild(child, incoming)
}

// dispatchAgainstChild walks self's existing children, starting at first,
// to find where incoming belongs: overlapping an existing child recurses
// into the matching offer* case for that relationship; falling strictly
// between two children (or before the first / after the last) inserts
// incoming as a new sibling there.
func (f *Forest) dispatchAgainstChild(first, incoming NodeID) error {
	incomingRef := f.Reference(incoming)
	cur := first
	for {
		curRef := f.Reference(cur)
		switch ref.DominanceOf(curRef, incomingRef) {
		case ref.Exact:
			return f.offerSame(cur, incoming)
		case ref.Contain:
			return f.offerParent(cur, incoming)
		case ref.Part:
			return f.offerChild(cur, incoming)
		case ref.Share:
			return f.clash(cur, incoming)
		default: // None
			if incomingRef.End() <= curRef.Position {
				f.insertBefore(cur, incoming)
				return nil
			}
			next, ok := f.Next(cur)
			if !ok {
				f.insertAfter(cur, incoming)
				return nil
			}
			cur = next
		}
	}
}

func (f *Forest) clash(against, incoming NodeID) error {
	return &ErrIllegalTree{Kind: Clash, Incoming: f.Reference(incoming), Reference: f.Reference(against)}
}
