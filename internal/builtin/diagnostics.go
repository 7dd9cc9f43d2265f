package builtin

import (
	"regexp"

	"github.com/cufyorg/jamplate-processor/internal/compiler"
	"github.com/cufyorg/jamplate-processor/internal/instr"
	"github.com/cufyorg/jamplate-processor/internal/parser"
	"github.com/cufyorg/jamplate-processor/internal/spec"
	"github.com/cufyorg/jamplate-processor/internal/tree"
)

// Each pattern eats one trailing newline along with its own line, so the
// directive's line does not leave a blank line behind in the rendered
// output.
var (
	errorPattern   = regexp.MustCompile(`(?m)^#error\s+(?P<value>[^\n]*)\n?`)
	messagePattern = regexp.MustCompile(`(?m)^#message\s+(?P<value>[^\n]*)\n?`)
	consolePattern = regexp.MustCompile(`(?m)^#console\s+(?P<value>[^\n]*)\n?`)
)

// errorSpec recognizes `#error EXPR`, reporting EXPR to the diagnostic
// sink at severity "error" — fatal, per Unit.Run's rule that a phase
// reporting an error is not advanced past.
func errorSpec() *spec.Spec {
	s := spec.New("directive:error")
	s.Parser = parser.Group(errorPattern, "directive:error", nil, nil)
	s.Compiler = compiler.Filter(diagnosticCompiler(func(at instr.Source) instr.Instruction { return instr.NewSerr(at) }), tree.Is("directive:error"))
	return s
}

// messageSpec recognizes `#message EXPR`, reporting EXPR to the
// diagnostic sink at severity "info" — non-fatal.
func messageSpec() *spec.Spec {
	s := spec.New("directive:message")
	s.Parser = parser.Group(messagePattern, "directive:message", nil, nil)
	s.Compiler = compiler.Filter(diagnosticCompiler(func(at instr.Source) instr.Instruction {
		return instr.NewSerrAt(at, "info")
	}), tree.Is("directive:message"))
	return s
}

// consoleSpec recognizes `#console EXPR`, printing EXPR's text straight
// into the document's rendered console — same mechanism as an injection,
// but spelled as its own directive and never routed through the
// diagnostic sink (unlike #error/#message).
func consoleSpec() *spec.Spec {
	s := spec.New("directive:console")
	s.Parser = parser.Group(consolePattern, "directive:console", nil, nil)
	s.Compiler = compiler.Filter(consoleCompiler, tree.Is("directive:console"))
	return s
}

func diagnosticCompiler(mk func(instr.Source) instr.Instruction) compiler.Compiler {
	return func(root compiler.Compiler, target compiler.Target, self tree.NodeID) (instr.Instruction, error) {
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
		return instr.NewSeq(at, valInst, mk(at)), nil
	}
}

func consoleCompiler(root compiler.Compiler, target compiler.Target, self tree.NodeID) (instr.Instruction, error) {
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
	return instr.NewSeq(at, valInst, instr.NewCastText(at), instr.NewPrint(at)), nil
}
