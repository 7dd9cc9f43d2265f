package builtin_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cufyorg/jamplate-processor/internal/builtin"
	"github.com/cufyorg/jamplate-processor/internal/ref"
	"github.com/cufyorg/jamplate-processor/internal/spec"
	"github.com/cufyorg/jamplate-processor/internal/value"
)

// render drives the full five-action pipeline against content using a
// fresh Environment and the default builtin Spec, returning the root
// frame's console text and whether the Sink ended up holding any errors.
// It requires the run itself not to fail outright — a #error directive
// reports through the Sink without aborting Execute, so most scenarios
// belong here; a genuine Instruction failure (e.g. a typed #declare's
// schema rejection) is a Go error from Run and needs renderErr instead.
func render(t *testing.T, name, content string) (string, bool) {
	t.Helper()
	console, hasErrors, err := renderErr(name, content)
	require.NoError(t, err)
	return console, hasErrors
}

func renderErr(name, content string) (string, bool, error) {
	env := spec.NewEnvironment()
	unit := spec.NewUnit(env, builtin.Spec())
	comp := env.NewCompilation(ref.NewPseudoDocument(name, content))
	err := unit.Run(context.Background(), comp)
	return comp.Memory().Root().Console.String(), env.Sink().HasErrors(), err
}

func TestEndToEndScenarios(t *testing.T) {
	// Bare arithmetic/comparison expressions only parse inside exprContext
	// (an injection body, a paren/array/object literal, or a directive's
	// own cond/iterable/value slot — see context.go) — number/operator
	// Parsers never fire against plain document text, so textSpec's
	// catch-all would otherwise just print them back verbatim. Wrapping
	// them in #{ … }# is what actually exercises the expression grammar.
	cases := []struct {
		name    string
		input   string
		console string
	}{
		{"arithmetic precedence", `#{1 + 2 * (3 + 5)}#`, "17"},
		{"chained unary not", `#{!!!false + !!!true}#`, "truefalse"},
		{"comparison greater", `#{5>3}#`, "true"},
		{"comparison greater false", `#{3>5}#`, "false"},
		{"comparison greater equal", `#{3>3}#`, "false"},
		{"for loop over array literal", "#for X [1,2,3]\nx=#{X}#\n#endfor", "x=1\nx=2\nx=3\n"},
		{"declare object and dot access", "#declare A {k:'v'}\n#{A.k}#", "v"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			console, hasErrors := render(t, tc.name, tc.input)
			require.False(t, hasErrors)
			require.Equal(t, tc.console, console)
		})
	}
}

func TestCaptureBindsConsoleNotOperand(t *testing.T) {
	console, hasErrors := render(t, "capture", "#capture X\nhello\n#endcapture\n#{X}#")
	require.False(t, hasErrors)
	require.Equal(t, "hello\n", console)
}

func TestIfElifElse(t *testing.T) {
	input := "#if false\na\n#elif true\nb\n#else\nc\n#endif"
	console, hasErrors := render(t, "if", input)
	require.False(t, hasErrors)
	require.Equal(t, "b\n", console)
}

func TestIfFallsThroughToElse(t *testing.T) {
	input := "#if false\na\n#else\nc\n#endif"
	console, hasErrors := render(t, "if-else", input)
	require.False(t, hasErrors)
	require.Equal(t, "c\n", console)
}

func TestWhileLoop(t *testing.T) {
	// #define's Set binds into the while body's own per-child frame,
	// which Block discards after each child runs — #declare's Alloc
	// writes straight to the root frame, so it is what survives across
	// iterations here.
	input := "#declare N 0\n#while N<3\n#{N}#\n#declare N N+1\n#endwhile"
	console, hasErrors := render(t, "while", input)
	require.False(t, hasErrors)
	require.Equal(t, "0\n1\n2\n", console)
}

func TestMakeBindsEmptyObject(t *testing.T) {
	input := "#make M\n#{M}#"
	console, hasErrors := render(t, "make", input)
	require.False(t, hasErrors)
	require.Equal(t, "{}", console)
}

func TestSpreadFlattensArrayOntoConsole(t *testing.T) {
	input := "#spread [1,2,3]"
	console, hasErrors := render(t, "spread", input)
	require.False(t, hasErrors)
	require.Equal(t, "123", console)
}

func TestSpreadWrapsScalarAsSingleton(t *testing.T) {
	console, hasErrors := render(t, "spread-scalar", "#spread 9")
	require.False(t, hasErrors)
	require.Equal(t, "9", console)
}

func TestMessageReportsWithoutFailingRender(t *testing.T) {
	console, hasErrors := render(t, "message", "#message 'heads up'\nbody")
	require.False(t, hasErrors)
	require.Equal(t, "body", console)
}

func TestErrorReportsAndFailsRender(t *testing.T) {
	_, hasErrors := render(t, "error", "#error 'boom'\nunreachable")
	require.True(t, hasErrors)
}

func TestConsoleDirectivePrintsInPlace(t *testing.T) {
	console, hasErrors := render(t, "console", "#console 'side text'\nmain")
	require.False(t, hasErrors)
	require.Equal(t, "side textmain", console)
}

func TestTypedDeclareAcceptsMatchingSchema(t *testing.T) {
	input := `#declare A: {"type":"string"} = 'hi'
#{A}#`
	console, hasErrors := render(t, "declare-typed-ok", input)
	require.False(t, hasErrors)
	require.Equal(t, "hi", console)
}

func TestTypedDeclareRejectsMismatchedSchema(t *testing.T) {
	input := `#declare A: {"type":"string"} = 1
#{A}#`
	_, _, err := renderErr("declare-typed-bad", input)
	require.Error(t, err)
}

func TestIncludeResolvesAgainstEnvironmentCompilation(t *testing.T) {
	env := spec.NewEnvironment()
	unit := spec.NewUnit(env, builtin.Spec())

	lib := env.NewCompilation(ref.NewPseudoDocument("lib", "shared"))
	require.NoError(t, unit.Run(context.Background(), lib))

	main := env.NewCompilation(ref.NewPseudoDocument("main", "#include lib"))
	require.NoError(t, unit.Run(context.Background(), main))

	require.False(t, env.Sink().HasErrors())
	require.Equal(t, "shared", main.Memory().Root().Console.String())
}

func TestTextPassesThroughLiterally(t *testing.T) {
	console, hasErrors := render(t, "text", "plain text, no directives here")
	require.False(t, hasErrors)
	require.Equal(t, "plain text, no directives here", console)
}

func TestTextAroundInjectionIsNotDuplicated(t *testing.T) {
	console, hasErrors := render(t, "text-injection", "a #{1+1}# b")
	require.False(t, hasErrors)
	require.Equal(t, "a 2 b", console)
}

func TestBuiltinHeapAddressesAreSeededFromDocumentPath(t *testing.T) {
	env := spec.NewEnvironment()
	unit := spec.NewUnit(env, builtin.Spec())
	comp := env.NewCompilation(ref.NewPseudoDocument("/tmp/proj/views/page.tpl", ""))

	require.NoError(t, unit.Initialize(comp))

	path, ok := comp.Memory().Access("__PATH__")
	require.True(t, ok)
	require.Equal(t, value.Text("/tmp/proj/views/page.tpl"), path)

	file, ok := comp.Memory().Access("__FILE__")
	require.True(t, ok)
	require.Equal(t, value.Text("page.tpl"), file)

	dir, ok := comp.Memory().Access("__DIR__")
	require.True(t, ok)
	require.Equal(t, value.Text("/tmp/proj/views"), dir)
}
