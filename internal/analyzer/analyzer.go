// Package analyzer implements the Analyzer framework: tree-shape
// transformers that mutate an existing Tree in place, run to a fixed
// point.
package analyzer

import (
	"github.com/cufyorg/jamplate-processor/internal/ref"
	"github.com/cufyorg/jamplate-processor/internal/tree"
)

// Target is what an Analyzer needs from its Compilation.
type Target interface {
	Forest() *tree.Forest
	Document() ref.Document
}

// Analyzer mutates self (and, per combinator, its descendants) in place
// and reports whether it changed anything.
type Analyzer interface {
	Analyze(target Target, self tree.NodeID) (bool, error)
}

// hierarchy applies inner to self and to every descendant, depth-first.
type hierarchy struct{ inner Analyzer }

// Hierarchy builds an Analyzer that applies inner to the given tree and
// every descendant, depth-first.
func Hierarchy(inner Analyzer) Analyzer { return &hierarchy{inner: inner} }

func (h *hierarchy) Analyze(target Target, self tree.NodeID) (bool, error) {
	changed := false
	var nodes []tree.NodeID
	target.Forest().Walk(self, func(id tree.NodeID) { nodes = append(nodes, id) })
	for _, id := range nodes {
		ch, err := h.inner.Analyze(target, id)
		if err != nil {
			return changed, err
		}
		if ch {
			changed = true
		}
	}
	return changed, nil
}

// children applies inner to self's direct children only.
type children struct{ inner Analyzer }

// Children builds an Analyzer that applies inner to self's direct
// children only.
func Children(inner Analyzer) Analyzer { return &children{inner: inner} }

func (c *children) Analyze(target Target, self tree.NodeID) (bool, error) {
	changed := false
	for _, id := range target.Forest().Children(self) {
		ch, err := c.inner.Analyze(target, id)
		if err != nil {
			return changed, err
		}
		if ch {
			changed = true
		}
	}
	return changed, nil
}

// filter gates inner's invocation on a predicate over self.
type filter struct {
	inner Analyzer
	query tree.Query
}

// Filter builds an Analyzer that only invokes inner when query matches
// self.
func Filter(inner Analyzer, query tree.Query) Analyzer {
	return &filter{inner: inner, query: query}
}

func (fi *filter) Analyze(target Target, self tree.NodeID) (bool, error) {
	if !fi.query(target.Forest(), self) {
		return false, nil
	}
	return fi.inner.Analyze(target, self)
}

// fallback implements the ordered-fallback composition a parent Spec
// uses for its effective Analyzer.
type fallbackAnalyzer struct{ analyzers []Analyzer }

// Fallback composes analyzers into a single Analyzer that tries each in
// turn, stopping at the first that reports a change.
func Fallback(analyzers ...Analyzer) Analyzer {
	return &fallbackAnalyzer{analyzers: analyzers}
}

func (fa *fallbackAnalyzer) Analyze(target Target, self tree.NodeID) (bool, error) {
	for _, a := range fa.analyzers {
		changed, err := a.Analyze(target, self)
		if err != nil {
			return false, err
		}
		if changed {
			return true, nil
		}
	}
	return false, nil
}

// Drive runs analyzers against root to a fixed point: each round tries
// every analyzer in order; the round repeats until a full round reports no
// change. A per-pass change counter is what lets the round know to stop.
func Drive(target Target, root tree.NodeID, analyzers []Analyzer) error {
	for {
		changed := false
		for _, a := range analyzers {
			ch, err := a.Analyze(target, root)
			if err != nil {
				return err
			}
			if ch {
				changed = true
			}
		}
		if !changed {
			return nil
		}
	}
}
