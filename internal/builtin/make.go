package builtin

import (
	"regexp"

	"github.com/cufyorg/jamplate-processor/internal/compiler"
	"github.com/cufyorg/jamplate-processor/internal/instr"
	"github.com/cufyorg/jamplate-processor/internal/parser"
	"github.com/cufyorg/jamplate-processor/internal/spec"
	"github.com/cufyorg/jamplate-processor/internal/tree"
	"github.com/cufyorg/jamplate-processor/internal/value"
)

var makePattern = regexp.MustCompile(`(?m)^#make\s+(?P<name>[A-Za-z_][A-Za-z0-9_]*)[^\n]*\n?`)

// makeSpec recognizes `#make NAME`, sugar for binding NAME to a fresh
// empty Object in the local heap — `#define NAME {}` spelled out as its
// own directive.
func makeSpec() *spec.Spec {
	s := spec.New("directive:make")
	s.Parser = parser.Group(makePattern, "directive:make", nil, nil)
	s.Compiler = compiler.Filter(makeCompiler, tree.Is("directive:make"))
	return s
}

func makeCompiler(root compiler.Compiler, target compiler.Target, self tree.NodeID) (instr.Instruction, error) {
	f := target.Forest()
	nameID, _ := f.Sketch(self).Get("name").Tree()
	name, err := target.Document().Read(f.Reference(nameID))
	if err != nil {
		return nil, err
	}
	at := srcOf(target, self)
	return instr.NewSeq(at,
		instr.NewPushConst(at, value.Text(name)),
		instr.NewPushConst(at, value.Object{}),
		instr.NewSet(at),
	), nil
}
