package builtin

import (
	"regexp"

	"github.com/cufyorg/jamplate-processor/internal/compiler"
	"github.com/cufyorg/jamplate-processor/internal/instr"
	"github.com/cufyorg/jamplate-processor/internal/parser"
	"github.com/cufyorg/jamplate-processor/internal/spec"
	"github.com/cufyorg/jamplate-processor/internal/tree"
)

var (
	injectionOpenPattern  = regexp.MustCompile(`#\{`)
	injectionClosePattern = regexp.MustCompile(`\}#`)
)

// injectionSpec recognizes the `#{ expr }#` form: evaluate the wrapped
// expression and print its text to the console in place.
func injectionSpec() *spec.Spec {
	s := spec.New("injection")
	s.Parser = parser.DoublePattern(injectionOpenPattern, injectionClosePattern, "injection", nil)
	s.Compiler = compiler.Filter(injectionCompiler, tree.Is("injection"))
	return s
}

func injectionCompiler(root compiler.Compiler, target compiler.Target, self tree.NodeID) (instr.Instruction, error) {
	at := srcOf(target, self)
	children := target.Forest().Children(self)
	if len(children) == 0 {
		return instr.NewIdle(at), nil
	}
	inner, err := compileExpressionGroup(root, target, children)
	if err != nil {
		return nil, err
	}
	if inner == nil {
		return instr.NewIdle(at), nil
	}
	return instr.NewSeq(at, inner, instr.NewCastText(at), instr.NewPrint(at)), nil
}
