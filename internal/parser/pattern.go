package parser

import (
	"regexp"

	"github.com/cufyorg/jamplate-processor/internal/ref"
	"github.com/cufyorg/jamplate-processor/internal/tree"
)

// namedGroups runs pattern against text, which starts at document offset
// base, and takes the first match whose whole range skip does not reject.
// It returns the absolute Reference of that whole match (key "") and of
// every named capture group that participated.
func namedGroups(pattern *regexp.Regexp, text string, base uint32, skip func(ref.Reference) bool) (map[string]ref.Reference, bool) {
	for _, idx := range pattern.FindAllSubmatchIndex([]byte(text), -1) {
		whole := ref.New(base+uint32(idx[0]), uint32(idx[1]-idx[0]))
		if skip(whole) {
			continue
		}
		groups := map[string]ref.Reference{"": whole}
		names := pattern.SubexpNames()
		for i := 1; i < len(names); i++ {
			if names[i] == "" {
				continue
			}
			start, end := idx[2*i], idx[2*i+1]
			if start < 0 {
				continue
			}
			groups[names[i]] = ref.New(base+uint32(start), uint32(end-start))
		}
		return groups, true
	}
	return nil, false
}

// pattern matches pattern once against self's uncovered text, builds one
// wrapper node spanning the whole match, and lets ctor/groupCtors
// customize the wrapper's Sketch and its named-group Sketch components.
// Unlike Group, a pattern's named groups are published as Sketch
// components only (metadata), not as separate arena nodes.
type pattern struct {
	re         *regexp.Regexp
	kind       string
	ctor       Ctor
	groupCtors map[string]Ctor
}

// Pattern builds a Parser that captures named groups from a single
// pattern match against self's range (the first one no existing child of
// self already covers), emitting one wrapper tree for the whole match with
// named-group Sketch components.
func Pattern(re *regexp.Regexp, kind string, ctor Ctor, groupCtors map[string]Ctor) Parser {
	return &pattern{re: re, kind: kind, ctor: ctor, groupCtors: groupCtors}
}

func (p *pattern) Parse(target Target, self tree.NodeID) ([]tree.NodeID, error) {
	text, selfRef, err := readText(target, self)
	if err != nil {
		return nil, err
	}
	f := target.Forest()

	groups, ok := namedGroups(p.re, text, selfRef.Position, func(r ref.Reference) bool { return isCovered(f, self, r) })
	if !ok {
		return nil, nil
	}

	node := f.New(target.Document(), groups[""], 0, p.kind)
	sk := f.Sketch(node)
	for name, r := range groups {
		if name == "" {
			continue
		}
		child := tree.NewSketch("component:" + name)
		child.SetRange(r)
		sk.Put(name, child)
		if ctor, ok := p.groupCtors[name]; ok {
			ctor(f, child, map[string]ref.Reference{"": r})
		}
	}
	if p.ctor != nil {
		p.ctor(f, sk, groups)
	}
	return []tree.NodeID{node}, nil
}

// group is like pattern, but each named group is additionally materialized
// as its own detached Tree node bound into the wrapper's Sketch — used for
// anchored directives whose sub-ranges need to be independently parsed
// and analyzed.
type group struct {
	re         *regexp.Regexp
	kind       string
	ctor       Ctor
	groupCtors map[string]Ctor
}

// Group builds a Parser like Pattern, except every named capture group
// becomes a real sub-node, returned alongside the wrapper so the driver
// offers them all (the OIT's dominance rules nest them correctly once both
// are offered into self).
func Group(re *regexp.Regexp, kind string, ctor Ctor, groupCtors map[string]Ctor) Parser {
	return &group{re: re, kind: kind, ctor: ctor, groupCtors: groupCtors}
}

func (g *group) Parse(target Target, self tree.NodeID) ([]tree.NodeID, error) {
	text, selfRef, err := readText(target, self)
	if err != nil {
		return nil, err
	}
	f := target.Forest()

	groups, ok := namedGroups(g.re, text, selfRef.Position, func(r ref.Reference) bool { return isCovered(f, self, r) })
	if !ok {
		return nil, nil
	}

	wrapper := f.New(target.Document(), groups[""], 0, g.kind)
	sk := f.Sketch(wrapper)
	out := []tree.NodeID{wrapper}

	names := g.re.SubexpNames()
	seen := map[string]bool{}
	for _, name := range names {
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		r, ok := groups[name]
		if !ok {
			continue
		}
		child := f.New(target.Document(), r, 0, "component:"+name)
		childSketch := f.Sketch(child)
		childSketch.SetTree(child)
		sk.Put(name, childSketch)
		if ctor, ok := g.groupCtors[name]; ok {
			ctor(f, childSketch, map[string]ref.Reference{"": r})
		}
		out = append(out, child)
	}
	if g.ctor != nil {
		g.ctor(f, sk, groups)
	}
	return out, nil
}
