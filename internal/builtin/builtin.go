// Package builtin assembles the default Spec catalog: a representative
// set of directives (comments, strings, brackets, numeric literals, bare
// references, the operator set, the `#{ … }#` injection form, and the
// `#if/#for/#while/#capture/#declare/#define/#include/#message/#make/
// #spread/#console/#error` command set), one file per directive.
package builtin

import (
	"github.com/cufyorg/jamplate-processor/internal/compiler"
	"github.com/cufyorg/jamplate-processor/internal/instr"
	"github.com/cufyorg/jamplate-processor/internal/spec"
	"github.com/cufyorg/jamplate-processor/internal/tree"
)

// Spec assembles the default root Spec: every directive/expression family
// this package implements, as sub-specs in precedence order (Unary and
// Multiplicative families before Additive, before Comparison, before
// Equality, before Logical — see operator.go) so the Fallback composition
// naturally enforces operator precedence: EffectiveAnalyzer retries from
// the first sub-spec every round, so a lower-precedence family only gets
// a turn once every higher-precedence family has reached its own fixed
// point.
func Spec() *spec.Spec {
	root := spec.New("jamplate")
	root.Subs = append(root.Subs,
		commentSpec(),
		stringSpec(),
		numberSpec(),
		booleanSpec(),
		nullSpec(),
		referenceSpec(),
		symbolTagSpec(),
		parenSpec(),
		arraySpec(),
		objectSpec(),
		memberSpec(),
		unarySpec(),
		multiplicativeSpec(),
		additiveSpec(),
		comparisonSpec(),
		equalitySpec(),
		logicalAndSpec(),
		logicalOrSpec(),
		injectionSpec(),
		ifSpec(),
		forSpec(),
		whileSpec(),
		captureSpec(),
		declareSpec(),
		defineSpec(),
		makeSpec(),
		includeSpec(),
		spreadSpec(),
		errorSpec(),
		messageSpec(),
		consoleSpec(),
		textSpec(),
	)
	root.Compiler = compiler.Filter(compiler.Flatten(compiler.Fallback), isDocumentRoot)
	root.Initializer = seedHeap
	return root
}

// isDocumentRoot matches the one node with no parent — root.Compiler uses
// it so "lower every child into a Block" only ever fires once, for the
// whole-document node itself, never for an arbitrary directive's self.
func isDocumentRoot(f *tree.Forest, id tree.NodeID) bool {
	_, ok := f.Parent(id)
	return !ok
}

// compileChild delegates to the root compiler for one sub-node — the
// idiom every combinator here uses to lower an operand/body/branch
// sub-tree instead of hand-rolling its own dispatch.
func compileChild(root compiler.Compiler, target compiler.Target, id tree.NodeID) (instr.Instruction, error) {
	return root(root, target, id)
}

// compileChildren lowers every direct child of self, in order, dropping
// nil results.
func compileChildren(root compiler.Compiler, target compiler.Target, self tree.NodeID) ([]instr.Instruction, error) {
	var out []instr.Instruction
	for _, child := range target.Forest().Children(self) {
		inst, err := compileChild(root, target, child)
		if err != nil {
			return nil, err
		}
		if inst != nil {
			out = append(out, inst)
		}
	}
	return out, nil
}

// compileComponent compiles a Group-materialized "component:*" slot (the
// cond of an #if/#while, the iterable of a #for, the value of a #declare/
// #define/…) — the slot node itself carries no Compiler of its own, only
// whatever real expression nodes later parser rounds nested inside it.
func compileComponent(root compiler.Compiler, target compiler.Target, id tree.NodeID) (instr.Instruction, error) {
	if !id.Valid() {
		return nil, nil
	}
	return compileExpressionGroup(root, target, target.Forest().Children(id))
}

func srcOf(target compiler.Target, self tree.NodeID) instr.Source {
	return instr.Source{Document: target.Document(), Reference: target.Forest().Reference(self)}
}
