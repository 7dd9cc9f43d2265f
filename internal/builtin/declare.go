package builtin

import (
	"context"
	"regexp"

	"github.com/cufyorg/jamplate-processor/internal/compiler"
	"github.com/cufyorg/jamplate-processor/internal/instr"
	"github.com/cufyorg/jamplate-processor/internal/memory"
	"github.com/cufyorg/jamplate-processor/internal/parser"
	"github.com/cufyorg/jamplate-processor/internal/spec"
	"github.com/cufyorg/jamplate-processor/internal/tree"
	"github.com/cufyorg/jamplate-processor/internal/typecheck"
	"github.com/cufyorg/jamplate-processor/internal/value"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

var (
	// declareTypedPattern recognizes the annotated form:
	// `#declare NAME: {schema} = VALUE`. The schema fragment is matched as
	// a single level of balanced braces — nested-object schemas are not a
	// scoped concern here (see DESIGN.md).
	declareTypedPattern = regexp.MustCompile(`(?m)^#declare\s+(?P<name>[A-Za-z_][A-Za-z0-9_]*)\s*:\s*(?P<schema>\{[^{}]*\})\s*=\s*(?P<value>[^\n]*)\n?`)
	declarePattern       = regexp.MustCompile(`(?m)^#declare\s+(?P<name>[A-Za-z_][A-Za-z0-9_]*)\s+(?P<value>[^\n]*)\n?`)
)

// declareValidator compiles and caches every typed #declare's schema
// fragment for the whole process — one package-level Validator shared by
// every Spec and every Compilation, so the same schema text is never
// recompiled twice.
var declareValidator = typecheck.New()

// declareSpec recognizes `#declare NAME VALUE`, binding into the root
// (global) frame's heap via instr.Alloc, and its typed variant
// `#declare NAME: {schema} = VALUE`, which additionally validates VALUE
// against the compiled schema before Alloc runs.
func declareSpec() *spec.Spec {
	s := spec.New("directive:declare")
	s.Parser = parser.Fallback(
		parser.Group(declareTypedPattern, "directive:declare-typed", nil, nil),
		parser.Group(declarePattern, "directive:declare", nil, nil),
	)
	s.Compiler = compiler.First(
		compiler.Filter(declareTypedCompiler, tree.Is("directive:declare-typed")),
		compiler.Filter(bindCompiler(func(at instr.Source) instr.Instruction { return instr.NewAlloc(at) }), tree.Is("directive:declare")),
	)
	return s
}

// defineSpec recognizes `#define NAME VALUE`, binding into the current
// (local) frame's heap via instr.Set.
func defineSpec() *spec.Spec {
	s := spec.New("directive:define")
	s.Parser = parser.Group(definePattern, "directive:define", nil, nil)
	s.Compiler = compiler.Filter(bindCompiler(func(at instr.Source) instr.Instruction { return instr.NewSet(at) }), tree.Is("directive:define"))
	return s
}

var definePattern = regexp.MustCompile(`(?m)^#define\s+(?P<name>[A-Za-z_][A-Za-z0-9_]*)\s+(?P<value>[^\n]*)\n?`)

// bindCompiler builds a Compiler for the `#declare`/`#define` shape:
// compile NAME/VALUE off the wrapper's own Sketch components, then push
// name, value and finish with mk.
func bindCompiler(mk func(instr.Source) instr.Instruction) compiler.Compiler {
	return func(root compiler.Compiler, target compiler.Target, self tree.NodeID) (instr.Instruction, error) {
		f := target.Forest()
		sk := f.Sketch(self)
		at := srcOf(target, self)

		nameID, _ := sk.Get("name").Tree()
		name, err := target.Document().Read(f.Reference(nameID))
		if err != nil {
			return nil, err
		}
		valueID, _ := sk.Get("value").Tree()
		valInst, err := compileComponent(root, target, valueID)
		if err != nil {
			return nil, err
		}
		if valInst == nil {
			valInst = instr.NewPushConst(at, value.Null)
		}
		return instr.NewSeq(at, instr.NewPushConst(at, value.Text(name)), valInst, mk(at)), nil
	}
}

func declareTypedCompiler(root compiler.Compiler, target compiler.Target, self tree.NodeID) (instr.Instruction, error) {
	f := target.Forest()
	sk := f.Sketch(self)
	at := srcOf(target, self)

	nameID, _ := sk.Get("name").Tree()
	name, err := target.Document().Read(f.Reference(nameID))
	if err != nil {
		return nil, err
	}
	schemaID, _ := sk.Get("schema").Tree()
	schemaRaw, err := target.Document().Read(f.Reference(schemaID))
	if err != nil {
		return nil, err
	}
	schema, err := declareValidator.Compile("declare:"+name, schemaRaw)
	if err != nil {
		return nil, &compiler.CompileError{Self: self, Kind: "directive:declare-typed"}
	}

	valueID, _ := sk.Get("value").Tree()
	valInst, err := compileComponent(root, target, valueID)
	if err != nil {
		return nil, err
	}
	if valInst == nil {
		valInst = instr.NewPushConst(at, value.Null)
	}

	return instr.NewSeq(at,
		instr.NewPushConst(at, value.Text(name)),
		valInst,
		&validateInstr{at: at, schema: schema},
		instr.NewAlloc(at),
	), nil
}

// validateInstr peeks the operand stack's top Value (the already-pushed
// VALUE, left in place for the Alloc that follows) and rejects it with an
// ExecutionError if it fails the compiled schema.
type validateInstr struct {
	at     instr.Source
	schema *jsonschema.Schema
}

func (i *validateInstr) Source() instr.Source { return i.at }

func (i *validateInstr) Exec(_ context.Context, _ instr.Env, mem *memory.Memory) error {
	fr := mem.Top()
	v, err := fr.Peek()
	if err != nil {
		return err
	}
	j, err := value.ToJSON(v, mem)
	if err != nil {
		return err
	}
	if err := declareValidator.Validate(i.schema, j); err != nil {
		return &memory.ExecutionError{Message: "typed #declare: " + err.Error()}
	}
	return nil
}
