package spec_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cufyorg/jamplate-processor/internal/analyzer"
	"github.com/cufyorg/jamplate-processor/internal/compiler"
	"github.com/cufyorg/jamplate-processor/internal/instr"
	"github.com/cufyorg/jamplate-processor/internal/parser"
	"github.com/cufyorg/jamplate-processor/internal/ref"
	"github.com/cufyorg/jamplate-processor/internal/spec"
	"github.com/cufyorg/jamplate-processor/internal/tree"
)

func TestEffectiveParserFallsBackAcrossSubs(t *testing.T) {
	root := spec.New("root")
	root.Subs = []*spec.Spec{
		{Name: "a", Parser: parser.Idle},
		{Name: "b", Parser: stubParser{kind: "hit"}},
	}

	env := spec.NewEnvironment()
	c := env.NewCompilation(ref.NewPseudoDocument("doc", "x"))

	out, err := root.EffectiveParser().Parse(c, c.Root())
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.True(t, c.Forest().Sketch(out[0]).Is("hit"))
}

func TestEffectiveParserIdleWhenEmpty(t *testing.T) {
	root := spec.New("root")
	env := spec.NewEnvironment()
	c := env.NewCompilation(ref.NewPseudoDocument("doc", "x"))

	out, err := root.EffectiveParser().Parse(c, c.Root())
	require.NoError(t, err)
	require.Empty(t, out)
}

func TestEffectiveAnalyzerFallsBackAcrossSubs(t *testing.T) {
	root := spec.New("root")
	root.Subs = []*spec.Spec{
		{Name: "a"},
		{Name: "b", Analyzer: stubAnalyzer{result: true}},
	}
	env := spec.NewEnvironment()
	c := env.NewCompilation(ref.NewPseudoDocument("doc", "x"))

	changed, err := root.EffectiveAnalyzer().Analyze(c, c.Root())
	require.NoError(t, err)
	require.True(t, changed)
}

func TestEffectiveAnalyzerNoopWhenEmpty(t *testing.T) {
	root := spec.New("root")
	env := spec.NewEnvironment()
	c := env.NewCompilation(ref.NewPseudoDocument("doc", "x"))

	changed, err := root.EffectiveAnalyzer().Analyze(c, c.Root())
	require.NoError(t, err)
	require.False(t, changed)
}

func TestEffectiveCompilerFirstMatchAcrossSubs(t *testing.T) {
	root := spec.New("root")
	root.Subs = []*spec.Spec{
		{Name: "a"},
		{Name: "b", Compiler: pushConstCompiler("won")},
	}
	env := spec.NewEnvironment()
	c := env.NewCompilation(ref.NewPseudoDocument("doc", "x"))

	comp := root.EffectiveCompiler()
	inst, err := comp(comp, c, c.Root())
	require.NoError(t, err)
	require.NotNil(t, inst)
}

func TestInitializersFlattenInDeclarationOrder(t *testing.T) {
	var order []string
	mk := func(name string) *spec.Spec {
		return &spec.Spec{Name: name, Initializer: func(c *spec.Compilation) error {
			order = append(order, name)
			return nil
		}}
	}
	root := mk("root")
	root.Subs = []*spec.Spec{mk("a"), mk("b")}

	inits := root.Initializers()
	require.Len(t, inits, 3)
	env := spec.NewEnvironment()
	c := env.NewCompilation(ref.NewPseudoDocument("doc", "x"))
	for _, init := range inits {
		require.NoError(t, init(c))
	}
	require.Equal(t, []string{"root", "a", "b"}, order)
}

func TestPreAnalyzersAndPreCompilersFlatten(t *testing.T) {
	root := spec.New("root")
	sub := &spec.Spec{Name: "sub"}
	sub.PreAnalyze = []spec.Processor{func(c *spec.Compilation) (bool, error) { return false, nil }}
	sub.PreCompile = []spec.Processor{func(c *spec.Compilation) (bool, error) { return false, nil }}
	root.PreAnalyze = []spec.Processor{func(c *spec.Compilation) (bool, error) { return false, nil }}
	root.Subs = []*spec.Spec{sub}

	require.Len(t, root.PreAnalyzers(), 2)
	require.Len(t, root.PreCompilers(), 1)
}

func TestUnitRunStopsAdvancingAfterAPhaseReportsAnError(t *testing.T) {
	env := spec.NewEnvironment()
	root := spec.New("root")
	root.Analyzer = erroringDiagnosticAnalyzer{}
	root.Compiler = pushConstCompiler("should-not-run")

	u := spec.NewUnit(env, root)
	c := env.NewCompilation(ref.NewPseudoDocument("doc", "x"))

	err := u.Run(context.Background(), c)
	require.NoError(t, err, "Run itself returns nil — the Sink carries the failure")
	require.True(t, env.Sink().HasErrors())
	require.Nil(t, c.Program(), "Compile must not run once Analyze reported an Error diagnostic")
}

func TestUnitRunEndToEndWithPushConstProgram(t *testing.T) {
	env := spec.NewEnvironment()
	root := spec.New("root")
	root.Compiler = pushConstCompiler("done")

	u := spec.NewUnit(env, root)
	c := env.NewCompilation(ref.NewPseudoDocument("doc", "x"))

	require.NoError(t, u.Run(context.Background(), c))
	require.False(t, env.Sink().HasErrors())
	require.NotNil(t, c.Program())
}

func TestUnitCompileReportsCompileErrorWhenNothingMatches(t *testing.T) {
	env := spec.NewEnvironment()
	root := spec.New("root")

	u := spec.NewUnit(env, root)
	c := env.NewCompilation(ref.NewPseudoDocument("doc", "x"))

	err := u.Compile(c)
	require.Error(t, err)
	var compileErr *compiler.CompileError
	require.ErrorAs(t, err, &compileErr)
}

func TestUnitExecuteFailsWithoutACompiledProgram(t *testing.T) {
	env := spec.NewEnvironment()
	c := env.NewCompilation(ref.NewPseudoDocument("doc", "x"))
	u := spec.NewUnit(env, spec.New("root"))

	err := u.Execute(context.Background(), c)
	require.Error(t, err)
}

func TestUnitFiresListenersAroundEachAction(t *testing.T) {
	env := spec.NewEnvironment()
	root := spec.New("root")
	root.Compiler = pushConstCompiler("ok")

	var events []spec.EventKind
	u := spec.NewUnit(env, root)
	u.Listeners = []spec.Listener{func(kind spec.EventKind, c *spec.Compilation) {
		events = append(events, kind)
	}}
	c := env.NewCompilation(ref.NewPseudoDocument("doc", "x"))

	require.NoError(t, u.Run(context.Background(), c))
	require.Contains(t, events, spec.PreInitialize)
	require.Contains(t, events, spec.PostExecute)
}

func TestEnvironmentCompilationsPreservesRegistrationOrder(t *testing.T) {
	env := spec.NewEnvironment()
	env.NewCompilation(ref.NewPseudoDocument("first", "a"))
	env.NewCompilation(ref.NewPseudoDocument("second", "b"))

	names := make([]string, 0, 2)
	for _, c := range env.Compilations() {
		names = append(names, c.Document().Name())
	}
	require.Equal(t, []string{"first", "second"}, names)
}

func TestEnvironmentNewCompilationReplacesWithoutReordering(t *testing.T) {
	env := spec.NewEnvironment()
	env.NewCompilation(ref.NewPseudoDocument("first", "a"))
	env.NewCompilation(ref.NewPseudoDocument("second", "b"))
	replaced := env.NewCompilation(ref.NewPseudoDocument("first", "aa"))

	got, ok := env.Compilation("first")
	require.True(t, ok)
	require.Same(t, replaced, got)

	names := make([]string, 0, 2)
	for _, c := range env.Compilations() {
		names = append(names, c.Document().Name())
	}
	require.Equal(t, []string{"first", "second"}, names)
}

type stubParser struct{ kind string }

func (s stubParser) Parse(target parser.Target, self tree.NodeID) ([]tree.NodeID, error) {
	id := target.Forest().New(target.Document(), target.Forest().Reference(self), 1, s.kind)
	return []tree.NodeID{id}, nil
}

type stubAnalyzer struct{ result bool }

func (s stubAnalyzer) Analyze(analyzer.Target, tree.NodeID) (bool, error) { return s.result, nil }

func pushConstCompiler(label string) compiler.Compiler {
	return func(compiler.Compiler, compiler.Target, tree.NodeID) (instr.Instruction, error) {
		return instr.NewPushConst(instr.Source{}, nil), nil
	}
}

type erroringDiagnosticAnalyzer struct{}

func (erroringDiagnosticAnalyzer) Analyze(target analyzer.Target, self tree.NodeID) (bool, error) {
	c := target.(*spec.Compilation)
	c.Environment().Errorf("synthetic failure")
	return false, nil
}
