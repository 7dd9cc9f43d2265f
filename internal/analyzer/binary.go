package analyzer

import (
	"github.com/cufyorg/jamplate-processor/internal/ref"
	"github.com/cufyorg/jamplate-processor/internal/tree"
)

// Ctor customizes a newly built wrapper (or component) Sketch once an
// Analyzer combinator has decided its placement. ranges maps component key
// (e.g. "left", "right", "start", "end", "body", or "" for the wrapper
// itself) to its absolute Reference.
type Ctor func(f *tree.Forest, sk *tree.Sketch, ranges map[string]ref.Reference)

// binaryOperator implements the BinaryOperator combinator.
type binaryOperator struct {
	kind string
	ctor Ctor
}

// BinaryOperator builds an Analyzer that, given a symbol tree with both a
// previous and a next sibling, wraps the span from head(previous) to
// tail(next), offers the wrapper, and annotates "operator"/"left"/"right"
// Sketch components. Left-associativity emerges from the fixed-point
// driver wrapping the leftmost eligible symbol first each pass.
func BinaryOperator(kind string, ctor Ctor) Analyzer {
	return &binaryOperator{kind: kind, ctor: ctor}
}

func (b *binaryOperator) Analyze(target Target, self tree.NodeID) (bool, error) {
	f := target.Forest()
	prev, okPrev := f.Previous(self)
	next, okNext := f.Next(self)
	if !okPrev || !okNext {
		return false, nil
	}

	left := f.Head(prev)
	right := f.Tail(next)
	selfRef := f.Reference(self)
	leftRef := f.Reference(left)
	rightRef := f.Reference(right)

	wrapperRef := ref.New(leftRef.Position, rightRef.End()-leftRef.Position)
	wrapper := f.New(target.Document(), wrapperRef, 0, b.kind)
	if err := f.Offer(self, wrapper); err != nil {
		return false, nil
	}

	sk := f.Sketch(wrapper)

	opSketch := tree.NewSketch("component:operator")
	opSketch.SetTree(self)
	sk.Put("operator", opSketch)

	leftCompRef := ref.New(leftRef.Position, selfRef.Position-leftRef.Position)
	leftSketch := tree.NewSketch("component:left")
	leftSketch.SetRange(leftCompRef)
	sk.Put("left", leftSketch)

	rightCompRef := ref.New(selfRef.End(), rightRef.End()-selfRef.End())
	rightSketch := tree.NewSketch("component:right")
	rightSketch.SetRange(rightCompRef)
	sk.Put("right", rightSketch)

	if b.ctor != nil {
		b.ctor(f, sk, map[string]ref.Reference{
			"":         wrapperRef,
			"operator":  selfRef,
			"left":      leftCompRef,
			"right":     rightCompRef,
		})
	}
	return true, nil
}

// binaryFlow implements the BinaryFlow combinator.
type binaryFlow struct {
	startKind string
	endKind   string
	kind      string
	ctor      Ctor
}

// BinaryFlow builds an Analyzer that, given self matching startKind, scans
// forward through self's siblings for the first one matching endKind,
// wraps the span between them, and annotates "start"/"end"/"body" Sketch
// components.
func BinaryFlow(startKind, endKind, kind string, ctor Ctor) Analyzer {
	return &binaryFlow{startKind: startKind, endKind: endKind, kind: kind, ctor: ctor}
}

func (b *binaryFlow) Analyze(target Target, self tree.NodeID) (bool, error) {
	f := target.Forest()
	if !f.Sketch(self).Is(b.startKind) {
		return false, nil
	}

	var end tree.NodeID
	found := false
	cur, ok := f.Next(self)
	for ok {
		if f.Sketch(cur).Is(b.endKind) {
			end, found = cur, true
			break
		}
		cur, ok = f.Next(cur)
	}
	if !found {
		return false, nil
	}

	selfRef := f.Reference(self)
	endRef := f.Reference(end)
	wrapperRef := ref.New(selfRef.Position, endRef.End()-selfRef.Position)
	wrapper := f.New(target.Document(), wrapperRef, 0, b.kind)
	if err := f.Offer(self, wrapper); err != nil {
		return false, nil
	}

	sk := f.Sketch(wrapper)

	startSketch := tree.NewSketch("component:start")
	startSketch.SetTree(self)
	sk.Put("start", startSketch)

	endSketch := tree.NewSketch("component:end")
	endSketch.SetTree(end)
	sk.Put("end", endSketch)

	bodyRef := ref.New(selfRef.End(), endRef.Position-selfRef.End())
	bodySketch := tree.NewSketch("component:body")
	bodySketch.SetRange(bodyRef)
	sk.Put("body", bodySketch)

	if b.ctor != nil {
		b.ctor(f, sk, map[string]ref.Reference{
			"":     wrapperRef,
			"start": selfRef,
			"end":   endRef,
			"body":  bodyRef,
		})
	}
	return true, nil
}
