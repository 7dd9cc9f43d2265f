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

var referencePattern = regexp.MustCompile(`[A-Za-z][A-Za-z0-9_$]*`)

// referenceSpec recognizes bare heap-address references. It is declared
// after booleanSpec/nullSpec in Spec's Subs order so those
// keyword-shaped literals are always claimed first — the Fallback
// composition tries booleanSpec/nullSpec's Parser against every node
// before ever reaching this one, and only falls through once they report
// no further matches.
func referenceSpec() *spec.Spec {
	s := spec.New("reference")
	s.Parser = exprParser(parser.Term(referencePattern, 0, "reference", nil))
	s.Compiler = compiler.Filter(referenceCompiler, tree.Is("reference"))
	return s
}

func referenceCompiler(root compiler.Compiler, target compiler.Target, self tree.NodeID) (instr.Instruction, error) {
	f := target.Forest()
	raw, err := target.Document().Read(f.Reference(self))
	if err != nil {
		return nil, err
	}
	at := srcOf(target, self)
	return instr.NewSeq(at, instr.NewPushConst(at, value.Text(raw)), instr.NewAccess(at)), nil
}
