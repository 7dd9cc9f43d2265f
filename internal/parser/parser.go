// Package parser implements the Parser framework: pattern-based tree
// growers that read a Document window and propose new, detached Tree
// nodes for the driver to offer.
package parser

import (
	"github.com/cufyorg/jamplate-processor/internal/ref"
	"github.com/cufyorg/jamplate-processor/internal/tree"
)

// Target is what a Parser needs from its Compilation: the arena it
// allocates new nodes in, and the Document it reads text from. Kept as an
// interface (rather than importing internal/spec's Compilation type
// directly) so parser has no dependency on spec — spec depends on parser.
type Target interface {
	Forest() *tree.Forest
	Document() ref.Document
}

// Parser consumes (target, self) and returns zero or more new, detached
// Trees to be offered into target by the driver. A Parser never offers
// its own result — that is always the driver's job, so that IllegalTree
// failures are handled uniformly in one place.
type Parser interface {
	Parse(target Target, self tree.NodeID) ([]tree.NodeID, error)
}

// idle is the parser that never produces anything.
type idle struct{}

// Idle is the Parser that always returns no new trees.
var Idle Parser = idle{}

func (idle) Parse(Target, tree.NodeID) ([]tree.NodeID, error) { return nil, nil }

// fallback implements the ordered-fallback composition a parent Spec uses
// for its effective Parser: try each in order, stopping at the first to
// produce a non-empty result.
type fallback struct{ parsers []Parser }

// Fallback composes parsers into a single Parser that tries each in turn,
// returning the first non-empty result (or the first error).
func Fallback(parsers ...Parser) Parser {
	return &fallback{parsers: parsers}
}

func (f *fallback) Parse(target Target, self tree.NodeID) ([]tree.NodeID, error) {
	for _, p := range f.parsers {
		out, err := p.Parse(target, self)
		if err != nil {
			return nil, err
		}
		if len(out) > 0 {
			return out, nil
		}
	}
	return nil, nil
}

// filterParser gates inner's invocation on a predicate over self.
type filterParser struct {
	inner Parser
	query tree.Query
}

// Filter builds a Parser that only invokes inner when query matches self —
// used to scope the expression-grammar families (numbers, operators,
// references, …) to the handful of directive positions that actually hold
// an expression, so they never misfire against plain document text.
func Filter(inner Parser, query tree.Query) Parser {
	return &filterParser{inner: inner, query: query}
}

func (fp *filterParser) Parse(target Target, self tree.NodeID) ([]tree.NodeID, error) {
	if !fp.query(target.Forest(), self) {
		return nil, nil
	}
	return fp.inner.Parse(target, self)
}

// readText returns the text covered by self, and self's absolute Reference.
func readText(target Target, self tree.NodeID) (string, ref.Reference, error) {
	f := target.Forest()
	r := f.Reference(self)
	s, err := target.Document().Read(r)
	if err != nil {
		return "", r, err
	}
	return s, r, nil
}

// isCovered reports whether candidate falls entirely within a range already
// occupied by one of self's existing children — Term's "skipping ranges
// already covered by any child".
func isCovered(f *tree.Forest, self tree.NodeID, candidate ref.Reference) bool {
	for _, child := range f.Children(self) {
		cr := f.Reference(child)
		if candidate.Position >= cr.Position && candidate.End() <= cr.End() {
			return true
		}
	}
	return false
}

// Drive runs parsers against every node reachable from root to a fixed
// point: each round, every parser is tried against every node currently in
// the tree; any IllegalTree offer failure is swallowed as "no progress"
// for that placement, and the round repeats until nothing new is offered
// successfully.
func Drive(target Target, root tree.NodeID, parsers []Parser) error {
	f := target.Forest()
	for {
		progressed := false
		var nodes []tree.NodeID
		f.Walk(root, func(id tree.NodeID) { nodes = append(nodes, id) })

		for _, self := range nodes {
			for _, p := range parsers {
				proposed, err := p.Parse(target, self)
				if err != nil {
					return err
				}
				for _, n := range proposed {
					if offerErr := f.Offer(self, n); offerErr == nil {
						progressed = true
					}
				}
			}
		}

		if !progressed {
			return nil
		}
	}
}
