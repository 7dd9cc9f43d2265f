package compiler_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cufyorg/jamplate-processor/internal/compiler"
	"github.com/cufyorg/jamplate-processor/internal/instr"
	"github.com/cufyorg/jamplate-processor/internal/memory"
	"github.com/cufyorg/jamplate-processor/internal/ref"
	"github.com/cufyorg/jamplate-processor/internal/tree"
	"github.com/cufyorg/jamplate-processor/internal/value"
)

type fakeTarget struct {
	forest *tree.Forest
	doc    ref.Document
}

func (t *fakeTarget) Forest() *tree.Forest   { return t.forest }
func (t *fakeTarget) Document() ref.Document { return t.doc }

func newTarget(content string) (*fakeTarget, tree.NodeID) {
	f := tree.NewForest()
	doc := ref.NewPseudoDocument("doc", content)
	root := f.New(doc, ref.New(0, uint32(len(content))), 0, "document")
	return &fakeTarget{forest: f, doc: doc}, root
}

// runs an Instruction, returning the root frame's operand stack.
func execStack(t *testing.T, inst instr.Instruction) []value.Value {
	t.Helper()
	mem := memory.New()
	require.NoError(t, inst.Exec(context.Background(), nil, mem))
	return mem.Top().Stack
}

// runs an Instruction, returning whatever it printed. A Block executes
// each child under its own pushed-then-dumped Frame, which drops that
// child's operand stack but keeps its console — so Combine/Flatten
// results (both Blocks) are only observable through Print, not the stack.
func execConsole(t *testing.T, inst instr.Instruction) string {
	t.Helper()
	mem := memory.New()
	require.NoError(t, inst.Exec(context.Background(), nil, mem))
	return mem.Top().Console.String()
}

func pushConst(v value.Value) compiler.Compiler {
	return func(root compiler.Compiler, target compiler.Target, self tree.NodeID) (instr.Instruction, error) {
		return instr.NewPushConst(instr.Source{}, v), nil
	}
}

func printConst(v value.Value) compiler.Compiler {
	return func(root compiler.Compiler, target compiler.Target, self tree.NodeID) (instr.Instruction, error) {
		at := instr.Source{}
		return instr.NewSeq(at, instr.NewPushConst(at, v), instr.NewPrint(at)), nil
	}
}

var nilCompiler compiler.Compiler = func(compiler.Compiler, compiler.Target, tree.NodeID) (instr.Instruction, error) {
	return nil, nil
}

func TestFilterGatesOnQuery(t *testing.T) {
	target, root := newTarget("x")
	c := compiler.Filter(pushConst(value.Text("hit")), tree.Is("document"))
	inst, err := c(c, target, root)
	require.NoError(t, err)
	require.NotNil(t, inst)

	never := compiler.Filter(pushConst(value.Text("hit")), tree.Is("nonexistent"))
	inst, err = never(never, target, root)
	require.NoError(t, err)
	require.Nil(t, inst)
}

func TestFirstReturnsFirstNonNilResult(t *testing.T) {
	target, root := newTarget("x")
	c := compiler.First(nilCompiler, pushConst(value.Text("second")), pushConst(value.Text("third")))
	inst, err := c(c, target, root)
	require.NoError(t, err)
	require.NotNil(t, inst)

	stack := execStack(t, inst)
	require.Equal(t, []value.Value{value.Text("second")}, stack)
}

func TestFirstReturnsNilWhenAllNil(t *testing.T) {
	target, root := newTarget("x")
	c := compiler.First(nilCompiler, nilCompiler)
	inst, err := c(c, target, root)
	require.NoError(t, err)
	require.Nil(t, inst)
}

func TestCombineEmitsBlockOfEveryNonNilResult(t *testing.T) {
	target, root := newTarget("x")
	c := compiler.Combine(printConst(value.Text("a")), nilCompiler, printConst(value.Text("b")))
	inst, err := c(c, target, root)
	require.NoError(t, err)
	require.NotNil(t, inst)

	require.Equal(t, "ab", execConsole(t, inst))
}

func TestCombineReturnsNilWhenEveryChildIsNil(t *testing.T) {
	target, root := newTarget("x")
	c := compiler.Combine(nilCompiler, nilCompiler)
	inst, err := c(c, target, root)
	require.NoError(t, err)
	require.Nil(t, inst)
}

func TestFlattenCompilesEachDirectChildNotSelf(t *testing.T) {
	target, root := newTarget("ab")
	f := target.forest
	a := f.New(target.doc, ref.New(0, 1), 0, "leaf")
	b := f.New(target.doc, ref.New(1, 1), 0, "leaf")
	require.NoError(t, f.Offer(root, a))
	require.NoError(t, f.Offer(root, b))

	perLeaf := func(root compiler.Compiler, target compiler.Target, self tree.NodeID) (instr.Instruction, error) {
		text, err := target.Document().Read(target.Forest().Reference(self))
		if err != nil {
			return nil, err
		}
		at := instr.Source{}
		return instr.NewSeq(at, instr.NewPushConst(at, value.Text(text)), instr.NewPrint(at)), nil
	}
	c := compiler.Flatten(perLeaf)
	inst, err := c(c, target, root)
	require.NoError(t, err)

	require.Equal(t, "ab", execConsole(t, inst))
}

func TestFallbackReentersRootDispatcher(t *testing.T) {
	target, root := newTarget("x")
	rootDispatcher := pushConst(value.Text("dispatched"))
	inst, err := compiler.Fallback(rootDispatcher, target, root)
	require.NoError(t, err)
	require.NotNil(t, inst)

	stack := execStack(t, inst)
	require.Equal(t, []value.Value{value.Text("dispatched")}, stack)
}

func TestCompileRunsCAsItsOwnRoot(t *testing.T) {
	target, root := newTarget("x")
	var c compiler.Compiler
	c = func(rootArg compiler.Compiler, target compiler.Target, self tree.NodeID) (instr.Instruction, error) {
		require.NotNil(t, rootArg, "Compile must pass c as its own root")
		return instr.NewPushConst(instr.Source{}, value.Text("ok")), nil
	}
	inst, err := compiler.Compile(c, target, root)
	require.NoError(t, err)
	stack := execStack(t, inst)
	require.Equal(t, []value.Value{value.Text("ok")}, stack)
}

func TestCompileErrorMessage(t *testing.T) {
	err := &compiler.CompileError{Self: 3, Kind: "directive:weird"}
	require.Contains(t, err.Error(), "directive:weird")
}
