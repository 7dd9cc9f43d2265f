package builtin

import (
	"regexp"

	"github.com/cufyorg/jamplate-processor/internal/compiler"
	"github.com/cufyorg/jamplate-processor/internal/instr"
	"github.com/cufyorg/jamplate-processor/internal/parser"
	"github.com/cufyorg/jamplate-processor/internal/spec"
	"github.com/cufyorg/jamplate-processor/internal/tree"
)

var spreadPattern = regexp.MustCompile(`(?m)^#spread\s+(?P<value>[^\n]*)`)

// spreadSpec recognizes `#spread ARRAY`: evaluate ARRAY, then print the
// straight concatenation of its elements' text — Split un-folds the Array
// the way BuildArray folded it, and JoinFrame concatenates the result (the
// output shape is a design decision recorded in DESIGN.md).
func spreadSpec() *spec.Spec {
	s := spec.New("directive:spread")
	s.Parser = parser.Group(spreadPattern, "directive:spread", nil, nil)
	s.Compiler = compiler.Filter(spreadCompiler, tree.Is("directive:spread"))
	return s
}

func spreadCompiler(root compiler.Compiler, target compiler.Target, self tree.NodeID) (instr.Instruction, error) {
	f := target.Forest()
	valueID, _ := f.Sketch(self).Get("value").Tree()
	valInst, err := compileComponent(root, target, valueID)
	if err != nil {
		return nil, err
	}
	at := srcOf(target, self)
	if valInst == nil {
		return instr.NewIdle(at), nil
	}
	return instr.NewSeq(at,
		instr.NewPushFrame(at),
		valInst,
		instr.NewCastArray(at),
		instr.NewSplit(at),
		instr.NewJoinFrame(at),
		instr.NewPrint(at),
	), nil
}
