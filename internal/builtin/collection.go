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
	arrayOpenPattern  = regexp.MustCompile(`\[`)
	arrayClosePattern = regexp.MustCompile(`\]`)
	objectOpenPattern = regexp.MustCompile(`\{`)
	objectClosePattern = regexp.MustCompile(`\}`)
	commaPattern      = regexp.MustCompile(`,`)
	colonPattern      = regexp.MustCompile(`:`)
)

// arraySpec recognizes `[ … ]` array literals: a flat, comma-separated
// element list. Nested array literals are not a scoped concern here —
// see DESIGN.md.
func arraySpec() *spec.Spec {
	s := spec.New("literal:array")
	s.Parser = parser.Fallback(
		exprParser(parser.DoublePattern(arrayOpenPattern, arrayClosePattern, "literal:array", nil)),
		parser.Filter(parser.Term(commaPattern, 0, "separator:comma", nil), tree.Is("literal:array")),
	)
	s.Compiler = compiler.Filter(arrayCompiler, tree.Is("literal:array"))
	return s
}

func arrayCompiler(root compiler.Compiler, target compiler.Target, self tree.NodeID) (instr.Instruction, error) {
	groups := splitByComma(target.Forest(), self)
	at := srcOf(target, self)
	body := make([]instr.Instruction, 0, len(groups)+1)
	for _, group := range groups {
		inst, err := compileExpressionGroup(root, target, group)
		if err != nil {
			return nil, err
		}
		if inst != nil {
			body = append(body, inst)
		}
	}
	body = append(body, instr.NewBuildArray(at))
	return instr.NewSeq(at, body...), nil
}

// objectSpec recognizes `{ key:value, … }` object literals: a flat,
// comma-separated list of colon-delimited pairs. A bare-word key compiles
// to its literal name, not a heap access.
func objectSpec() *spec.Spec {
	s := spec.New("literal:object")
	s.Parser = parser.Fallback(
		exprParser(parser.DoublePattern(objectOpenPattern, objectClosePattern, "literal:object", nil)),
		parser.Filter(parser.Term(commaPattern, 0, "separator:comma", nil), tree.Is("literal:object")),
		parser.Filter(parser.Term(colonPattern, 0, "separator:colon", nil), tree.Is("literal:object")),
	)
	s.Compiler = compiler.Filter(objectCompiler, tree.Is("literal:object"))
	return s
}

func objectCompiler(root compiler.Compiler, target compiler.Target, self tree.NodeID) (instr.Instruction, error) {
	f := target.Forest()
	groups := splitByComma(f, self)
	at := srcOf(target, self)
	body := make([]instr.Instruction, 0, len(groups)+1)
	for _, group := range groups {
		keyPart, valPart := splitByColon(f, group)
		keyInst, err := compileKey(root, target, keyPart)
		if err != nil {
			return nil, err
		}
		valInst, err := compileExpressionGroup(root, target, valPart)
		if err != nil {
			return nil, err
		}
		if keyInst == nil || valInst == nil {
			continue
		}
		body = append(body, keyInst, valInst, instr.NewCastPair(at))
	}
	body = append(body, instr.NewBuildObject(at))
	return instr.NewSeq(at, body...), nil
}

// splitByComma partitions self's direct children into runs delimited by
// "separator:comma" siblings, dropping the separators themselves.
func splitByComma(f *tree.Forest, self tree.NodeID) [][]tree.NodeID {
	var groups [][]tree.NodeID
	var cur []tree.NodeID
	for _, child := range f.Children(self) {
		if f.Sketch(child).Is("separator:comma") {
			if len(cur) > 0 {
				groups = append(groups, cur)
			}
			cur = nil
			continue
		}
		cur = append(cur, child)
	}
	if len(cur) > 0 {
		groups = append(groups, cur)
	}
	return groups
}

// splitByColon splits one comma-delimited group at its "separator:colon"
// child, if any, into a key part and a value part.
func splitByColon(f *tree.Forest, group []tree.NodeID) ([]tree.NodeID, []tree.NodeID) {
	for idx, id := range group {
		if f.Sketch(id).Is("separator:colon") {
			return group[:idx], group[idx+1:]
		}
	}
	return nil, group
}

// compileExpressionGroup compiles a run of sibling nodes as a single
// expression, combining more than one into a Block (defensive — after the
// analyzer passes settle, a group is ordinarily exactly one node).
func compileExpressionGroup(root compiler.Compiler, target compiler.Target, group []tree.NodeID) (instr.Instruction, error) {
	if len(group) == 0 {
		return nil, nil
	}
	if len(group) == 1 {
		return compileChild(root, target, group[0])
	}
	var out []instr.Instruction
	for _, id := range group {
		inst, err := compileChild(root, target, id)
		if err != nil {
			return nil, err
		}
		if inst != nil {
			out = append(out, inst)
		}
	}
	return instr.NewSeq(srcOf(target, group[0]), out...), nil
}

// compileKey compiles an object pair's key: a bare "reference" node
// contributes its literal name instead of a heap access, a "literal:string"
// node contributes its unescaped text, and anything else falls back to the
// normal expression compile forced to text.
func compileKey(root compiler.Compiler, target compiler.Target, keyPart []tree.NodeID) (instr.Instruction, error) {
	if len(keyPart) != 1 {
		return compileExpressionGroup(root, target, keyPart)
	}
	f := target.Forest()
	id := keyPart[0]
	at := srcOf(target, id)
	switch {
	case f.Sketch(id).Is("reference"):
		raw, err := target.Document().Read(f.Reference(id))
		if err != nil {
			return nil, err
		}
		return instr.NewPushConst(at, value.Text(raw)), nil
	case f.Sketch(id).Is("literal:string"):
		return stringCompiler(root, target, id)
	default:
		inst, err := compileChild(root, target, id)
		if err != nil {
			return nil, err
		}
		return instr.NewSeq(at, inst, instr.NewCastText(at)), nil
	}
}
