package ref

import "fmt"

// Dom is the coarse {EXACT, CONTAIN, PART, SHARE, NONE} projection of
// Intersection used to drive Tree.offer's placement decisions.
type Dom int

const (
	// None: the ranges are disjoint or merely adjacent.
	None Dom = iota
	// Exact: the ranges are identical.
	Exact
	// Contain: the other range encloses this one (this range fits inside
	// it, or shares one boundary with it and is shorter).
	Contain
	// Part: the converse of Contain — the other range fits inside this one.
	Part
	// Share: the ranges cross without one containing the other.
	Share
)

func (d Dom) String() string {
	switch d {
	case None:
		return "NONE"
	case Exact:
		return "EXACT"
	case Contain:
		return "CONTAIN"
	case Part:
		return "PART"
	case Share:
		return "SHARE"
	default:
		return fmt.Sprintf("Dom(%d)", int(d))
	}
}

// Opposite returns the dominance of (B,A) given the dominance of (A,B),
// without recomputing geometry: EXACT<->EXACT, SHARE<->SHARE,
// CONTAIN<->PART, NONE<->NONE.
func (d Dom) Opposite() Dom {
	switch d {
	case Contain:
		return Part
	case Part:
		return Contain
	default:
		return d
	}
}

// Dominance computes the coarse dominance of A=[i,j) relative to B=[s,e).
func Dominance(i, j, s, e uint32) (Dom, error) {
	if err := validate(i, j); err != nil {
		return None, err
	}
	if err := validate(s, e); err != nil {
		return None, err
	}
	return dominance(i, j, s, e), nil
}

// DominanceOf computes the dominance of a relative to b.
func DominanceOf(a, b Reference) Dom {
	d, _ := Dominance(a.Position, a.End(), b.Position, b.End())
	return d
}

func dominance(i, j, s, e uint32) Dom {
	switch {
	case i == s && j == e:
		return Exact
	case share(i, j, s, e):
		return Share
	case contain(i, j, s, e):
		return Contain
	case contain(s, e, i, j):
		return Part
	default:
		return None
	}
}

// Test reports whether the dominance of a relative to b equals want — a
// small convenience mirroring the source's Dominance::test(...).
func Test(a, b Reference, want Dom) bool {
	return DominanceOf(a, b) == want
}
