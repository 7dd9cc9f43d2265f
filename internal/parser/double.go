package parser

import (
	"regexp"

	"github.com/cufyorg/jamplate-processor/internal/ref"
	"github.com/cufyorg/jamplate-processor/internal/tree"
)

// doublePattern scans for a balanced open/close pair: the nearest close
// after an open that keeps the enclosed substring free of other opens (a
// greedy, well-nested match). Matches are found one at a time, sequentially,
// rather than collecting all candidates up front.
type doublePattern struct {
	open  *regexp.Regexp
	close *regexp.Regexp
	kind  string
	ctor  Ctor
}

// DoublePattern builds a Parser that matches a balanced open...close pair
// and emits one wrapper tree plus "open"/"close"/"body" Sketch components.
func DoublePattern(open, close *regexp.Regexp, kind string, ctor Ctor) Parser {
	return &doublePattern{open: open, close: close, kind: kind, ctor: ctor}
}

func (d *doublePattern) Parse(target Target, self tree.NodeID) ([]tree.NodeID, error) {
	text, selfRef, err := readText(target, self)
	if err != nil {
		return nil, err
	}
	f := target.Forest()

	opens := d.open.FindAllStringIndex(text, -1)
	if len(opens) == 0 {
		return nil, nil
	}
	closes := d.close.FindAllStringIndex(text, -1)

	for _, o := range opens {
		closeLoc := d.findWellNestedClose(opens, closes, o)
		if closeLoc == nil {
			continue
		}
		wrapperRef := ref.New(selfRef.Position+uint32(o[0]), uint32(closeLoc[1]-o[0]))
		if isCovered(f, self, wrapperRef) {
			continue
		}

		wrapper := f.New(target.Document(), wrapperRef, 0, d.kind)
		sk := f.Sketch(wrapper)

		openRef := ref.New(selfRef.Position+uint32(o[0]), uint32(o[1]-o[0]))
		closeRef := ref.New(selfRef.Position+uint32(closeLoc[0]), uint32(closeLoc[1]-closeLoc[0]))
		bodyRef := ref.New(selfRef.Position+uint32(o[1]), uint32(closeLoc[0]-o[1]))

		openSketch := tree.NewSketch("component:open")
		openSketch.SetRange(openRef)
		sk.Put("open", openSketch)

		closeSketch := tree.NewSketch("component:close")
		closeSketch.SetRange(closeRef)
		sk.Put("close", closeSketch)

		bodySketch := tree.NewSketch("component:body")
		bodySketch.SetRange(bodyRef)
		sk.Put("body", bodySketch)

		if d.ctor != nil {
			d.ctor(f, sk, map[string]ref.Reference{
				"":     wrapperRef,
				"open":  openRef,
				"close": closeRef,
				"body":  bodyRef,
			})
		}
		return []tree.NodeID{wrapper}, nil
	}
	return nil, nil
}

// findWellNestedClose returns the nearest close (by start offset) after o
// such that no other open match falls strictly between o's end and that
// close's start.
func (d *doublePattern) findWellNestedClose(opens, closes [][]int, o []int) []int {
	for _, c := range closes {
		if c[0] < o[1] {
			continue
		}
		if d.hasOpenBetween(opens, o[1], c[0]) {
			continue
		}
		return c
	}
	return nil
}

func (d *doublePattern) hasOpenBetween(opens [][]int, start, end int) bool {
	for _, other := range opens {
		if other[0] >= start && other[0] < end {
			return true
		}
	}
	return false
}
