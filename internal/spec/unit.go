package spec

import (
	"context"

	"github.com/cufyorg/jamplate-processor/internal/analyzer"
	"github.com/cufyorg/jamplate-processor/internal/compiler"
	"github.com/cufyorg/jamplate-processor/internal/parser"
)

// maxProcessorRounds bounds a single pre-analyze/pre-compile Processor's
// own retry loop: a Processor that never settles is a bug in that
// Processor, not a license for an infinite loop.
const maxProcessorRounds = 1000

// EventKind names one of the events a Unit fires around its five actions.
type EventKind string

const (
	PreInitialize  EventKind = "PRE_INITIALIZE"
	PostInitialize EventKind = "POST_INITIALIZE"
	PreParse       EventKind = "PRE_PARSE"
	PostParse      EventKind = "POST_PARSE"
	PreAnalyze     EventKind = "PRE_ANALYZE"
	PostAnalyze    EventKind = "POST_ANALYZE"
	PreCompile     EventKind = "PRE_COMPILE"
	PostCompile    EventKind = "POST_COMPILE"
	PreExecute     EventKind = "PRE_EXECUTE"
	PostExecute    EventKind = "POST_EXECUTE"
)

// Listener observes a Unit's lifecycle events.
type Listener func(kind EventKind, c *Compilation)

// Unit drives one Root Spec's five pipeline actions — Initialize, Parse,
// Analyze, Compile, Execute — against one or more Compilations owned by
// Env, firing PRE_*/POST_* events around each.
type Unit struct {
	Env       *Environment
	Root      *Spec
	Listeners []Listener
}

// NewUnit builds a Unit for root, operating against env.
func NewUnit(env *Environment, root *Spec) *Unit {
	return &Unit{Env: env, Root: root}
}

func (u *Unit) fire(kind EventKind, c *Compilation) {
	for _, l := range u.Listeners {
		l(kind, c)
	}
}

// Initialize runs every Initializer contributed by Root and its sub-specs,
// in declaration order, against c.
func (u *Unit) Initialize(c *Compilation) error {
	u.fire(PreInitialize, c)
	for _, init := range u.Root.Initializers() {
		if err := init(c); err != nil {
			return err
		}
	}
	u.fire(PostInitialize, c)
	return nil
}

// Parse drives Root's EffectiveParser to a fixed point over c's tree.
func (u *Unit) Parse(c *Compilation) error {
	u.fire(PreParse, c)
	p := u.Root.EffectiveParser()
	if err := parser.Drive(c, c.Root(), []parser.Parser{p}); err != nil {
		return err
	}
	u.fire(PostParse, c)
	return nil
}

// Analyze runs PreAnalyze processors to their own fixed points, then
// drives Root's EffectiveAnalyzer to a fixed point over c's tree.
func (u *Unit) Analyze(c *Compilation) error {
	u.fire(PreAnalyze, c)
	if err := runProcessors(c, u.Root.PreAnalyzers()); err != nil {
		return err
	}
	a := u.Root.EffectiveAnalyzer()
	if err := analyzer.Drive(c, c.Root(), []analyzer.Analyzer{a}); err != nil {
		return err
	}
	u.fire(PostAnalyze, c)
	return nil
}

// Compile runs PreCompile processors to their own fixed points, then
// lowers c's tree with Root's EffectiveCompiler, storing the result on c.
func (u *Unit) Compile(c *Compilation) error {
	u.fire(PreCompile, c)
	if err := runProcessors(c, u.Root.PreCompilers()); err != nil {
		return err
	}
	comp := u.Root.EffectiveCompiler()
	inst, err := compiler.Compile(comp, c, c.Root())
	if err != nil {
		return err
	}
	if inst == nil {
		return &compiler.CompileError{Self: c.Root(), Kind: "root"}
	}
	c.SetProgram(inst)
	u.fire(PostCompile, c)
	return nil
}

// Execute runs c's compiled program against c's Memory.
func (u *Unit) Execute(ctx context.Context, c *Compilation) error {
	u.fire(PreExecute, c)
	prog := c.Program()
	if prog == nil {
		return &compiler.CompileError{Self: c.Root(), Kind: "uncompiled"}
	}
	if err := prog.Exec(ctx, c.Environment(), c.Memory()); err != nil {
		return err
	}
	u.fire(PostExecute, c)
	return nil
}

// Run drives all five actions against c in order, stopping at the first
// error and at the first action after which the Environment's Sink
// already holds an Error diagnostic — a Compilation never advances past a
// phase that reported an error.
func (u *Unit) Run(ctx context.Context, c *Compilation) error {
	steps := []func() error{
		func() error { return u.Initialize(c) },
		func() error { return u.Parse(c) },
		func() error { return u.Analyze(c) },
		func() error { return u.Compile(c) },
		func() error { return u.Execute(ctx, c) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
		if u.Env.Sink().HasErrors() {
			return nil
		}
	}
	return nil
}

// runProcessors drives every Processor to its own fixed point (false
// return, or maxProcessorRounds exhausted) independently — one
// Processor's exhaustion does not block another's retries.
func runProcessors(c *Compilation, procs []Processor) error {
	for _, p := range procs {
		for round := 0; round < maxProcessorRounds; round++ {
			ok, err := p(c)
			if err != nil {
				return err
			}
			if !ok {
				break
			}
		}
	}
	return nil
}
