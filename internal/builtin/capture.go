package builtin

import (
	"regexp"

	"github.com/cufyorg/jamplate-processor/internal/analyzer"
	"github.com/cufyorg/jamplate-processor/internal/compiler"
	"github.com/cufyorg/jamplate-processor/internal/instr"
	"github.com/cufyorg/jamplate-processor/internal/parser"
	"github.com/cufyorg/jamplate-processor/internal/spec"
	"github.com/cufyorg/jamplate-processor/internal/tree"
	"github.com/cufyorg/jamplate-processor/internal/value"
)

// Both markers eat one trailing newline along with their own line, so the
// captured body is exactly the lines between them, with no extra leading
// or trailing blank line from the marker lines themselves.
var (
	capturePattern    = regexp.MustCompile(`(?m)^#capture\s+(?P<name>[A-Za-z_][A-Za-z0-9_]*)[^\n]*\n?`)
	endcapturePattern = regexp.MustCompile(`(?m)^#endcapture[^\n]*\n?`)
)

// captureSpec recognizes `#capture NAME … #endcapture`: the body's console
// output, not its own operand stack, is bound to NAME instead of reaching
// the surrounding console.
func captureSpec() *spec.Spec {
	s := spec.New("directive:capture")
	s.Parser = parser.Fallback(
		parser.Group(capturePattern, "marker:capture", nil, nil),
		parser.Term(endcapturePattern, 0, "marker:endcapture", nil),
	)
	s.Analyzer = analyzer.Hierarchy(analyzer.Filter(
		analyzer.BinaryFlow("marker:capture", "marker:endcapture", "directive:capture", nil),
		tree.Is("marker:capture"),
	))
	s.Compiler = compiler.Filter(captureCompiler, tree.Is("directive:capture"))
	return s
}

func captureCompiler(root compiler.Compiler, target compiler.Target, self tree.NodeID) (instr.Instruction, error) {
	f := target.Forest()
	marker := tree.NodeID(-1)
	for _, child := range f.Children(self) {
		if f.Sketch(child).Is("marker:capture") {
			marker = child
			break
		}
	}
	if !marker.Valid() {
		return nil, &compiler.CompileError{Self: self, Kind: "directive:capture"}
	}
	nameID, _ := f.Sketch(marker).Get("name").Tree()
	name, err := target.Document().Read(f.Reference(nameID))
	if err != nil {
		return nil, err
	}

	var body []instr.Instruction
	for _, child := range f.Children(self) {
		if f.Sketch(child).Is("marker:capture") || f.Sketch(child).Is("marker:endcapture") {
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
	captureInst := instr.NewCapture(at, instr.NewBlock(at, body...))
	// Alloc, not Set: the whole-document program is a Block of top-level
	// children, each run in its own pushed-then-dumped frame, so a Set
	// here would bind NAME into a frame already gone before a sibling
	// directive could Access it.
	return instr.NewSeq(at, instr.NewPushConst(at, value.Text(name)), captureInst, instr.NewAlloc(at)), nil
}
