package builtin

import (
	"regexp"

	"github.com/cufyorg/jamplate-processor/internal/analyzer"
	"github.com/cufyorg/jamplate-processor/internal/compiler"
	"github.com/cufyorg/jamplate-processor/internal/instr"
	"github.com/cufyorg/jamplate-processor/internal/parser"
	"github.com/cufyorg/jamplate-processor/internal/spec"
	"github.com/cufyorg/jamplate-processor/internal/tree"
)

// Both markers eat one trailing newline along with their own line, so the
// loop body (everything between them) starts and ends cleanly on line
// boundaries instead of repeating a leading blank line every iteration.
var (
	forPattern    = regexp.MustCompile(`(?m)^#for\s+(?P<name>[A-Za-z_][A-Za-z0-9_]*)\s+(?P<iterable>[^\n]*)\n?`)
	endforPattern = regexp.MustCompile(`(?m)^#endfor[^\n]*\n?`)
)

// forSpec recognizes `#for NAME ITERABLE … #endfor`, lowered to
// instr.ForEach.
func forSpec() *spec.Spec {
	s := spec.New("directive:for")
	s.Parser = parser.Fallback(
		parser.Group(forPattern, "marker:for", nil, nil),
		parser.Term(endforPattern, 0, "marker:endfor", nil),
	)
	s.Analyzer = analyzer.Hierarchy(analyzer.Filter(
		analyzer.BinaryFlow("marker:for", "marker:endfor", "directive:for", nil),
		tree.Is("marker:for"),
	))
	s.Compiler = compiler.Filter(forCompiler, tree.Is("directive:for"))
	return s
}

func forCompiler(root compiler.Compiler, target compiler.Target, self tree.NodeID) (instr.Instruction, error) {
	f := target.Forest()
	marker := tree.NodeID(-1)
	for _, child := range f.Children(self) {
		if f.Sketch(child).Is("marker:for") {
			marker = child
			break
		}
	}
	if !marker.Valid() {
		return nil, &compiler.CompileError{Self: self, Kind: "directive:for"}
	}
	markerSketch := f.Sketch(marker)

	nameID, _ := markerSketch.Get("name").Tree()
	name, err := target.Document().Read(f.Reference(nameID))
	if err != nil {
		return nil, err
	}

	iterableID, _ := markerSketch.Get("iterable").Tree()
	iterInst, err := compileComponent(root, target, iterableID)
	if err != nil {
		return nil, err
	}
	if iterInst == nil {
		return nil, &compiler.CompileError{Self: self, Kind: "directive:for"}
	}

	var body []instr.Instruction
	for _, child := range f.Children(self) {
		if f.Sketch(child).Is("marker:for") || f.Sketch(child).Is("marker:endfor") {
			continue
		}
		inst, err := compileChild(root, target, child)
		if err != nil {
			return nil, err
		}
		if inst != nil {
			body = append(body, inst)
		}
	}

	at := srcOf(target, self)
	loop := instr.NewForEach(at, name, instr.NewBlock(at, body...))
	return instr.NewSeq(at, iterInst, loop), nil
}
