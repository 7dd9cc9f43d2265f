package analyzer

import (
	"github.com/cufyorg/jamplate-processor/internal/ref"
	"github.com/cufyorg/jamplate-processor/internal/tree"
)

// unaryPrefix implements the UnaryPrefix combinator.
type unaryPrefix struct {
	kind string
	ctor Ctor
}

// UnaryPrefix builds an Analyzer that, given self with a next sibling,
// wraps the span from self to the end of next and annotates "operator"/
// "operand" Sketch components — the prefix-operator counterpart of
// BinaryOperator, needed for `!` (logical not) which has no left operand.
func UnaryPrefix(kind string, ctor Ctor) Analyzer {
	return &unaryPrefix{kind: kind, ctor: ctor}
}

func (u *unaryPrefix) Analyze(target Target, self tree.NodeID) (bool, error) {
	f := target.Forest()
	next, ok := f.Next(self)
	if !ok {
		return false, nil
	}
	// Defer while next is itself an unresolved instance of the same raw
	// operator kind as self — e.g. for "!!!false" this forces the rightmost
	// "!" to wrap its operand first, each later round peeling one more "!"
	// off the left, giving the chain right-associative nesting instead of
	// flattening all three into one wrapper.
	if f.Sketch(next).Kind == f.Sketch(self).Kind {
		return false, nil
	}

	operand := next
	selfRef := f.Reference(self)
	operandRef := f.Reference(operand)

	wrapperRef := ref.New(selfRef.Position, operandRef.End()-selfRef.Position)
	wrapper := f.New(target.Document(), wrapperRef, 0, u.kind)
	if err := f.Offer(self, wrapper); err != nil {
		return false, nil
	}

	sk := f.Sketch(wrapper)

	opSketch := tree.NewSketch("component:operator")
	opSketch.SetTree(self)
	sk.Put("operator", opSketch)

	operandCompRef := ref.New(selfRef.End(), operandRef.End()-selfRef.End())
	operandSketch := tree.NewSketch("component:operand")
	operandSketch.SetRange(operandCompRef)
	sk.Put("operand", operandSketch)

	if u.ctor != nil {
		u.ctor(f, sk, map[string]ref.Reference{
			"":        wrapperRef,
			"operator": selfRef,
			"operand":  operandCompRef,
		})
	}
	return true, nil
}
