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
// loop body starts and ends cleanly on line boundaries.
var (
	whilePattern    = regexp.MustCompile(`(?m)^#while\s+(?P<cond>[^\n]*)\n?`)
	endwhilePattern = regexp.MustCompile(`(?m)^#endwhile[^\n]*\n?`)
)

// whileSpec recognizes `#while COND … #endwhile`, lowered to instr.Repeat.
// Repeat pops a fresh condition before every iteration, so the compiled
// body re-evaluates and re-pushes COND as its last step.
func whileSpec() *spec.Spec {
	s := spec.New("directive:while")
	s.Parser = parser.Fallback(
		parser.Group(whilePattern, "marker:while", nil, nil),
		parser.Term(endwhilePattern, 0, "marker:endwhile", nil),
	)
	s.Analyzer = analyzer.Hierarchy(analyzer.Filter(
		analyzer.BinaryFlow("marker:while", "marker:endwhile", "directive:while", nil),
		tree.Is("marker:while"),
	))
	s.Compiler = compiler.Filter(whileCompiler, tree.Is("directive:while"))
	return s
}

func whileCompiler(root compiler.Compiler, target compiler.Target, self tree.NodeID) (instr.Instruction, error) {
	f := target.Forest()
	marker := tree.NodeID(-1)
	for _, child := range f.Children(self) {
		if f.Sketch(child).Is("marker:while") {
			marker = child
			break
		}
	}
	if !marker.Valid() {
		return nil, &compiler.CompileError{Self: self, Kind: "directive:while"}
	}
	condID, _ := f.Sketch(marker).Get("cond").Tree()

	var body []instr.Instruction
	for _, child := range f.Children(self) {
		if f.Sketch(child).Is("marker:while") || f.Sketch(child).Is("marker:endwhile") {
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
	condInst, err := compileComponent(root, target, condID)
	if err != nil {
		return nil, err
	}
	if condInst == nil {
		return nil, &compiler.CompileError{Self: self, Kind: "directive:while"}
	}
	loopBody := instr.NewSeq(at, instr.NewBlock(at, body...), condInst)
	loop := instr.NewRepeat(at, loopBody)
	return instr.NewSeq(at, condInst, loop), nil
}
