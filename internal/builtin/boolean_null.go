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

var booleanPattern = regexp.MustCompile(`\b(?:true|false)\b`)

func booleanSpec() *spec.Spec {
	s := spec.New("literal:boolean")
	s.Parser = exprParser(parser.Term(booleanPattern, 0, "literal:boolean", nil))
	s.Compiler = compiler.Filter(booleanCompiler, tree.Is("literal:boolean"))
	return s
}

func booleanCompiler(root compiler.Compiler, target compiler.Target, self tree.NodeID) (instr.Instruction, error) {
	f := target.Forest()
	raw, err := target.Document().Read(f.Reference(self))
	if err != nil {
		return nil, err
	}
	return instr.NewPushConst(srcOf(target, self), value.Boolean(raw == "true")), nil
}

var nullPattern = regexp.MustCompile(`\bnull\b`)

func nullSpec() *spec.Spec {
	s := spec.New("literal:null")
	s.Parser = exprParser(parser.Term(nullPattern, 0, "literal:null", nil))
	s.Compiler = compiler.Filter(nullCompiler, tree.Is("literal:null"))
	return s
}

func nullCompiler(root compiler.Compiler, target compiler.Target, self tree.NodeID) (instr.Instruction, error) {
	return instr.NewPushConst(srcOf(target, self), value.Null), nil
}
