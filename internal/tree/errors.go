package tree

import (
	"fmt"

	"github.com/cufyorg/jamplate-processor/internal/ref"
)

// IllegalTreeKind enumerates the ways an Offer can be rejected.
type IllegalTreeKind int

const (
	// OutOfBounds: the incoming node doesn't fit any ancestor.
	OutOfBounds IllegalTreeKind = iota
	// Takeover: EXACT placement with equal weight.
	Takeover
	// Clash: SHARE, or a NONE placement whose ancestor walk crosses SHARE.
	Clash
)

func (k IllegalTreeKind) String() string {
	switch k {
	case OutOfBounds:
		return "TreeOutOfBounds"
	case Takeover:
		return "TreeTakeover"
	case Clash:
		return "TreeClash"
	default:
		return "IllegalTree"
	}
}

// ErrIllegalTree is raised by Offer whenever a placement violates the
// tree's structural invariants. Every fatal Offer failure leaves the tree
// unchanged.
type ErrIllegalTree struct {
	Kind      IllegalTreeKind
	Incoming  ref.Reference
	Reference ref.Reference
}

func (e *ErrIllegalTree) Error() string {
	return fmt.Sprintf("%s: cannot place %s against %s", e.Kind, e.Incoming, e.Reference)
}
