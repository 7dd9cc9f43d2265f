package parser

import (
	"regexp"

	"github.com/cufyorg/jamplate-processor/internal/ref"
	"github.com/cufyorg/jamplate-processor/internal/tree"
)

// Ctor customizes a newly allocated node's Sketch once a Parser has decided
// its placement. groups maps capture-group name (empty string for the
// whole match) to its absolute Reference into the Document.
type Ctor func(f *tree.Forest, self *tree.Sketch, groups map[string]ref.Reference)

// term finds the first uncovered match of pattern inside self and emits a
// single node of the given weight/kind.
type term struct {
	pattern *regexp.Regexp
	weight  int32
	kind    string
	ctor    Ctor
}

// Term builds a Parser that finds the first match of pattern inside the
// target node's range not already covered by an existing child, and emits
// one new tree of weight/kind spanning that match.
func Term(pattern *regexp.Regexp, weight int32, kind string, ctor Ctor) Parser {
	return &term{pattern: pattern, weight: weight, kind: kind, ctor: ctor}
}

func (t *term) Parse(target Target, self tree.NodeID) ([]tree.NodeID, error) {
	text, selfRef, err := readText(target, self)
	if err != nil {
		return nil, err
	}
	f := target.Forest()

	for _, loc := range t.pattern.FindAllStringIndex(text, -1) {
		matchRef := ref.New(selfRef.Position+uint32(loc[0]), uint32(loc[1]-loc[0]))
		if isCovered(f, self, matchRef) {
			continue
		}
		node := f.New(target.Document(), matchRef, t.weight, t.kind)
		if t.ctor != nil {
			t.ctor(f, f.Sketch(node), map[string]ref.Reference{"": matchRef})
		}
		return []tree.NodeID{node}, nil
	}
	return nil, nil
}
