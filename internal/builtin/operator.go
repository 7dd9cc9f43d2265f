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

// symbolPattern matches every recognized operator symbol in one pass,
// longest alternatives first so Go's regexp package (which prefers the
// first alternative matching at a given position, not the longest overall
// match) never mistakes "<=" for a lone "<" followed by a stray "=".
var symbolPattern = regexp.MustCompile(
	`&&|\|\||<=|>=|==|!=|\+|-|\*|/|%|<|>|!|\.`,
)

// symbolKind maps a matched operator's raw text to its specific tree kind.
var symbolKind = map[string]string{
	"&&": "op:and", "||": "op:or",
	"<=": "op:le", ">=": "op:ge", "==": "op:eq", "!=": "op:ne",
	"+": "op:add", "-": "op:sub", "*": "op:mul", "/": "op:div", "%": "op:mod",
	"<": "op:lt", ">": "op:gt", "!": "op:not", ".": "op:dot",
}

// symbolTagSpec recognizes every operator symbol as one generic "op:symbol"
// node, then retags each to its specific kind (op:add, op:dot, …) by
// re-reading its own text. A single combined pattern, rather than one Term
// per operator, sidesteps the ambiguity a naive per-operator Fallback would
// hit on inputs like "<=" (a lone "<" Term would otherwise claim the "<"
// before the "<=" Term ever got a turn). Declared first among the operator
// specs so every other operator family only ever sees already-specific
// kinds.
func symbolTagSpec() *spec.Spec {
	s := spec.New("op:symbol")
	s.Parser = exprParser(parser.Term(symbolPattern, 0, "op:symbol", nil))
	s.Analyzer = analyzer.Hierarchy(analyzer.Filter(symbolTagger{}, tree.Is("op:symbol")))
	return s
}

type symbolTagger struct{}

func (symbolTagger) Analyze(target analyzer.Target, self tree.NodeID) (bool, error) {
	f := target.Forest()
	raw, err := target.Document().Read(f.Reference(self))
	if err != nil {
		return false, err
	}
	kind, ok := symbolKind[raw]
	if !ok {
		return false, nil
	}
	f.Sketch(self).Kind = kind
	return true, nil
}

// binaryInstr builds a Compiler for a binary-operator wrapper kind: compile
// every child (the absorbed left operand, the now-inert operator symbol —
// which no Compiler matches, so compileChildren drops it — and the right
// operand), then append mk's instruction.
func binaryInstr(mk func(instr.Source) instr.Instruction) compiler.Compiler {
	return func(root compiler.Compiler, target compiler.Target, self tree.NodeID) (instr.Instruction, error) {
		at := srcOf(target, self)
		operands, err := compileChildren(root, target, self)
		if err != nil {
			return nil, err
		}
		return instr.NewSeq(at, append(operands, mk(at))...), nil
	}
}

func memberSpec() *spec.Spec {
	s := spec.New("expr:dot")
	s.Analyzer = analyzer.Hierarchy(analyzer.Filter(analyzer.BinaryOperator("expr:dot", nil), tree.Is("op:dot")))
	s.Compiler = compiler.Filter(memberCompiler, tree.Is("expr:dot"))
	return s
}

// memberCompiler compiles `a.b`: the left side pushes the Object, the right
// side contributes its literal name rather than a heap access.
func memberCompiler(root compiler.Compiler, target compiler.Target, self tree.NodeID) (instr.Instruction, error) {
	f := target.Forest()
	var operand []tree.NodeID
	for _, child := range f.Children(self) {
		if f.Sketch(child).Is("op:dot") {
			continue
		}
		operand = append(operand, child)
	}
	if len(operand) < 2 {
		return nil, &compiler.CompileError{Self: self, Kind: "expr:dot"}
	}
	key := operand[len(operand)-1]
	left := operand[:len(operand)-1]

	at := srcOf(target, self)
	leftInst, err := compileExpressionGroup(root, target, left)
	if err != nil {
		return nil, err
	}
	var keyInst instr.Instruction
	if f.Sketch(key).Is("reference") {
		raw, err := target.Document().Read(f.Reference(key))
		if err != nil {
			return nil, err
		}
		keyInst = instr.NewPushConst(at, value.Text(raw))
	} else {
		inner, err := compileChild(root, target, key)
		if err != nil {
			return nil, err
		}
		keyInst = instr.NewSeq(at, inner, instr.NewCastText(at))
	}
	return instr.NewSeq(at, leftInst, keyInst, instr.NewGet(at)), nil
}

func unarySpec() *spec.Spec {
	s := spec.New("expr:not")
	s.Analyzer = analyzer.Hierarchy(analyzer.Filter(analyzer.UnaryPrefix("expr:not", nil), tree.Is("op:not")))
	s.Compiler = compiler.Filter(binaryInstr(func(at instr.Source) instr.Instruction { return instr.NewNegate(at) }), tree.Is("expr:not"))
	return s
}

func multiplicativeSpec() *spec.Spec {
	s := spec.New("expr:mul")
	s.Analyzer = analyzer.Hierarchy(analyzer.Fallback(
		analyzer.Filter(analyzer.BinaryOperator("expr:mul", nil), tree.Is("op:mul")),
		analyzer.Filter(analyzer.BinaryOperator("expr:div", nil), tree.Is("op:div")),
		analyzer.Filter(analyzer.BinaryOperator("expr:mod", nil), tree.Is("op:mod")),
	))
	s.Compiler = compiler.First(
		compiler.Filter(binaryInstr(func(at instr.Source) instr.Instruction { return instr.NewMultiply(at) }), tree.Is("expr:mul")),
		compiler.Filter(binaryInstr(func(at instr.Source) instr.Instruction { return instr.NewQuotient(at) }), tree.Is("expr:div")),
		compiler.Filter(binaryInstr(func(at instr.Source) instr.Instruction { return instr.NewModulo(at) }), tree.Is("expr:mod")),
	)
	return s
}

func additiveSpec() *spec.Spec {
	s := spec.New("expr:add")
	s.Analyzer = analyzer.Hierarchy(analyzer.Fallback(
		analyzer.Filter(analyzer.BinaryOperator("expr:add", nil), tree.Is("op:add")),
		analyzer.Filter(analyzer.BinaryOperator("expr:sub", nil), tree.Is("op:sub")),
	))
	s.Compiler = compiler.First(
		compiler.Filter(binaryInstr(func(at instr.Source) instr.Instruction { return instr.NewSum(at) }), tree.Is("expr:add")),
		compiler.Filter(binaryInstr(func(at instr.Source) instr.Instruction { return instr.NewDifference(at) }), tree.Is("expr:sub")),
	)
	return s
}

func comparisonSpec() *spec.Spec {
	s := spec.New("expr:cmp")
	s.Analyzer = analyzer.Hierarchy(analyzer.Fallback(
		analyzer.Filter(analyzer.BinaryOperator("expr:lt", nil), tree.Is("op:lt")),
		analyzer.Filter(analyzer.BinaryOperator("expr:le", nil), tree.Is("op:le")),
		analyzer.Filter(analyzer.BinaryOperator("expr:gt", nil), tree.Is("op:gt")),
		analyzer.Filter(analyzer.BinaryOperator("expr:ge", nil), tree.Is("op:ge")),
	))
	s.Compiler = compiler.First(
		compiler.Filter(binaryInstr(func(at instr.Source) instr.Instruction { return instr.NewLess(at) }), tree.Is("expr:lt")),
		compiler.Filter(binaryInstr(func(at instr.Source) instr.Instruction { return instr.NewLessEqual(at) }), tree.Is("expr:le")),
		compiler.Filter(binaryInstr(func(at instr.Source) instr.Instruction { return instr.NewGreater(at) }), tree.Is("expr:gt")),
		compiler.Filter(binaryInstr(func(at instr.Source) instr.Instruction { return instr.NewGreaterEqual(at) }), tree.Is("expr:ge")),
	)
	return s
}

func equalitySpec() *spec.Spec {
	s := spec.New("expr:eq")
	s.Analyzer = analyzer.Hierarchy(analyzer.Fallback(
		analyzer.Filter(analyzer.BinaryOperator("expr:eq", nil), tree.Is("op:eq")),
		analyzer.Filter(analyzer.BinaryOperator("expr:ne", nil), tree.Is("op:ne")),
	))
	s.Compiler = compiler.First(
		compiler.Filter(binaryInstr(func(at instr.Source) instr.Instruction { return instr.NewEqual(at) }), tree.Is("expr:eq")),
		compiler.Filter(binaryInstr(func(at instr.Source) instr.Instruction { return instr.NewNotEqual(at) }), tree.Is("expr:ne")),
	)
	return s
}

func logicalAndSpec() *spec.Spec {
	s := spec.New("expr:and")
	s.Analyzer = analyzer.Hierarchy(analyzer.Filter(analyzer.BinaryOperator("expr:and", nil), tree.Is("op:and")))
	s.Compiler = compiler.Filter(binaryInstr(func(at instr.Source) instr.Instruction { return instr.NewAnd(at) }), tree.Is("expr:and"))
	return s
}

func logicalOrSpec() *spec.Spec {
	s := spec.New("expr:or")
	s.Analyzer = analyzer.Hierarchy(analyzer.Filter(analyzer.BinaryOperator("expr:or", nil), tree.Is("op:or")))
	s.Compiler = compiler.Filter(binaryInstr(func(at instr.Source) instr.Instruction { return instr.NewOr(at) }), tree.Is("expr:or"))
	return s
}
