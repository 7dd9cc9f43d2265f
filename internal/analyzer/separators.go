package analyzer

import (
	"github.com/cufyorg/jamplate-processor/internal/ref"
	"github.com/cufyorg/jamplate-processor/internal/tree"
)

// separators implements the Separators combinator.
type separators struct {
	sepQuery tree.Query
	slotKind string
	ctor     Ctor
}

// Separators builds an Analyzer that, applied to a body node, finds direct
// children matching sepQuery and emits a SLOT child of slotKind for each
// region between them (and before the first / after the last). Re-offering
// an already-materialized slot is a harmless TreeTakeover the driver
// swallows, so repeated passes are idempotent.
func Separators(sepQuery tree.Query, slotKind string, ctor Ctor) Analyzer {
	return &separators{sepQuery: sepQuery, slotKind: slotKind, ctor: ctor}
}

func (s *separators) Analyze(target Target, self tree.NodeID) (bool, error) {
	f := target.Forest()
	selfRef := f.Reference(self)

	var seps []tree.NodeID
	for _, c := range f.Children(self) {
		if s.sepQuery(f, c) {
			seps = append(seps, c)
		}
	}
	if len(seps) == 0 {
		return false, nil
	}

	bounds := []uint32{selfRef.Position}
	for _, sp := range seps {
		r := f.Reference(sp)
		bounds = append(bounds, r.Position, r.End())
	}
	bounds = append(bounds, selfRef.End())

	changed := false
	for i := 0; i+1 < len(bounds); i += 2 {
		start, end := bounds[i], bounds[i+1]
		if end <= start {
			continue
		}
		gapRef := ref.New(start, end-start)
		slot := f.New(target.Document(), gapRef, 0, s.slotKind)
		if err := f.Offer(self, slot); err != nil {
			continue
		}
		if s.ctor != nil {
			s.ctor(f, f.Sketch(slot), map[string]ref.Reference{"": gapRef})
		}
		changed = true
	}
	return changed, nil
}
