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
	lineCommentPattern  = regexp.MustCompile(`//[^\n]*`)
	blockCommentPattern = regexp.MustCompile(`(?s)/\*.*?\*/`)
)

// commentSpec recognizes `// … EOL` and `/* … */` comments, both of which
// compile to nothing — a directive that survives parsing and analysis but
// contributes no instruction at all.
func commentSpec() *spec.Spec {
	s := spec.New("comment")
	s.Parser = parser.Fallback(
		parser.Term(lineCommentPattern, 0, "comment", nil),
		parser.Term(blockCommentPattern, 0, "comment", nil),
	)
	s.Compiler = compiler.Filter(commentCompiler, tree.Is("comment"))
	return s
}

func commentCompiler(root compiler.Compiler, target compiler.Target, self tree.NodeID) (instr.Instruction, error) {
	return instr.NewIdle(srcOf(target, self)), nil
}
