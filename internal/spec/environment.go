package spec

import (
	"fmt"
	"sync"

	"github.com/cufyorg/jamplate-processor/internal/diagnostic"
	"github.com/cufyorg/jamplate-processor/internal/instr"
	"github.com/cufyorg/jamplate-processor/internal/memory"
	"github.com/cufyorg/jamplate-processor/internal/ref"
	"github.com/cufyorg/jamplate-processor/internal/tree"
)

// Compilation is one Document's working state as it passes through the
// pipeline: its Forest, root node, compiled Instruction (once Compiled),
// and the Memory it executes against. Satisfies parser.Target,
// analyzer.Target and compiler.Target so a single type serves every phase.
type Compilation struct {
	name string
	doc  ref.Document
	env  *Environment

	forest *tree.Forest
	root   tree.NodeID

	program instr.Instruction
	memory  *memory.Memory
}

func newCompilation(env *Environment, doc ref.Document) *Compilation {
	f := tree.NewForest()
	root := f.New(doc, ref.New(0, doc.Len()), 0, "root")
	return &Compilation{
		name:   doc.Name(),
		doc:    doc,
		env:    env,
		forest: f,
		root:   root,
		memory: memory.New(),
	}
}

// Forest returns the Compilation's node arena.
func (c *Compilation) Forest() *tree.Forest { return c.forest }

// Document returns the Compilation's source Document.
func (c *Compilation) Document() ref.Document { return c.doc }

// Root returns the Compilation's top-level node.
func (c *Compilation) Root() tree.NodeID { return c.root }

// Memory returns the Compilation's execution state.
func (c *Compilation) Memory() *memory.Memory { return c.memory }

// Environment returns the owning Environment.
func (c *Compilation) Environment() *Environment { return c.env }

// Program returns the Instruction Compile produced, or nil if Compile
// has not run yet.
func (c *Compilation) Program() instr.Instruction { return c.program }

// SetProgram records the Instruction Compile produced.
func (c *Compilation) SetProgram(i instr.Instruction) { c.program = i }

// Environment owns a set of named Compilations plus one shared diagnostic
// Sink, so that every Compilation under it reports through one diagnostic
// channel and can resolve another Compilation by name (for #include).
type Environment struct {
	mu           sync.Mutex
	compilations map[string]*Compilation
	order        []string
	sink         *diagnostic.Sink
}

// NewEnvironment creates an empty Environment with a fresh Sink.
func NewEnvironment() *Environment {
	return &Environment{
		compilations: map[string]*Compilation{},
		sink:         diagnostic.NewSink(),
	}
}

// NewCompilation creates and registers a Compilation for doc, keyed by
// doc.Name(). Registering twice under the same name replaces the prior
// Compilation and preserves its position in Compilations()'s order.
func (e *Environment) NewCompilation(doc ref.Document) *Compilation {
	e.mu.Lock()
	defer e.mu.Unlock()
	name := doc.Name()
	c := newCompilation(e, doc)
	if _, exists := e.compilations[name]; !exists {
		e.order = append(e.order, name)
	}
	e.compilations[name] = c
	return c
}

// Compilation looks up a previously registered Compilation by document
// name.
func (e *Environment) Compilation(name string) (*Compilation, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	c, ok := e.compilations[name]
	return c, ok
}

// Compilations returns every registered Compilation, in registration
// order — the order #include and multi-document scenarios rely on.
func (e *Environment) Compilations() []*Compilation {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]*Compilation, 0, len(e.order))
	for _, name := range e.order {
		out = append(out, e.compilations[name])
	}
	return out
}

// Sink returns the Environment's shared diagnostic Sink.
func (e *Environment) Sink() *diagnostic.Sink { return e.sink }

// Diagnostic records severity/message, with src's location if it carries
// one, satisfying instr.Env so instructions (Serr, runtime faults) can
// report through the Environment directly.
func (e *Environment) Diagnostic(severity string, message string, src instr.Source) {
	sev := diagnostic.Severity(severity)
	if src.Document == nil {
		e.sink.Report(sev, message)
		return
	}
	e.sink.ReportAt(sev, message, src.Document, src.Reference)
}

// Errorf is a convenience used by Unit actions to report a pipeline-level
// failure (not tied to any one tree) through the same Sink.
func (e *Environment) Errorf(format string, args ...interface{}) {
	e.sink.Report(diagnostic.Error, fmt.Sprintf(format, args...))
}
