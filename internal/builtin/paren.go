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

var (
	parenOpenPattern  = regexp.MustCompile(`\(`)
	parenClosePattern = regexp.MustCompile(`\)`)
)

// parenSpec recognizes `( … )` grouping, relying on DoublePattern's
// well-nested close search to pick the matching close for a given open.
func parenSpec() *spec.Spec {
	s := spec.New("group:paren")
	s.Parser = exprParser(parser.DoublePattern(parenOpenPattern, parenClosePattern, "group:paren", nil))
	s.Compiler = compiler.Filter(parenCompiler, tree.Is("group:paren"))
	return s
}

// parenCompiler delegates to the single inner expression the parens wrap,
// once the analyzer passes have reduced it to one child.
func parenCompiler(root compiler.Compiler, target compiler.Target, self tree.NodeID) (instr.Instruction, error) {
	children := target.Forest().Children(self)
	at := srcOf(target, self)
	if len(children) == 0 {
		return instr.NewPushConst(at, value.Null), nil
	}
	if len(children) == 1 {
		return compileChild(root, target, children[0])
	}
	body, err := compileChildren(root, target, self)
	if err != nil {
		return nil, err
	}
	return instr.NewSeq(at, body...), nil
}
