// Package spec implements Spec composition and the Unit driver: the glue
// that assembles a catalog of pluggable Parsers/Analyzers/Compilers from
// nested Specs and runs the five pipeline actions to a fixed point.
package spec

import (
	"github.com/cufyorg/jamplate-processor/internal/analyzer"
	"github.com/cufyorg/jamplate-processor/internal/compiler"
	"github.com/cufyorg/jamplate-processor/internal/parser"
	"github.com/cufyorg/jamplate-processor/internal/tree"
)

// Initializer seeds a freshly created Compilation (e.g. builtin heap
// addresses).
type Initializer func(c *Compilation) error

// Processor runs as a pre-analyze or pre-compile hook; returning false
// stops that processor's own retry loop without aborting the surrounding
// action.
type Processor func(c *Compilation) (bool, error)

// Spec is a composable unit contributing one function of each pipeline
// phase, plus an ordered collection of sub-specs.
type Spec struct {
	Name string

	Initializer Initializer
	Parser      parser.Parser
	Analyzer    analyzer.Analyzer
	Compiler    compiler.Compiler

	PreAnalyze []Processor
	PreCompile []Processor

	Subs []*Spec
}

// New builds a named, otherwise-empty Spec — callers set the fields and
// Subs they need.
func New(name string) *Spec { return &Spec{Name: name} }

// EffectiveParser returns the ordered-fallback composition of s's own
// Parser with each sub-spec's EffectiveParser, in declaration order.
func (s *Spec) EffectiveParser() parser.Parser {
	var chain []parser.Parser
	if s.Parser != nil {
		chain = append(chain, s.Parser)
	}
	for _, sub := range s.Subs {
		chain = append(chain, sub.EffectiveParser())
	}
	if len(chain) == 0 {
		return parser.Idle
	}
	return parser.Fallback(chain...)
}

// EffectiveAnalyzer returns the ordered-fallback composition of s's own
// Analyzer with each sub-spec's EffectiveAnalyzer.
func (s *Spec) EffectiveAnalyzer() analyzer.Analyzer {
	var chain []analyzer.Analyzer
	if s.Analyzer != nil {
		chain = append(chain, s.Analyzer)
	}
	for _, sub := range s.Subs {
		chain = append(chain, sub.EffectiveAnalyzer())
	}
	if len(chain) == 0 {
		return noopAnalyzer{}
	}
	return analyzer.Fallback(chain...)
}

// EffectiveCompiler returns the first-match composition of s's own
// Compiler with each sub-spec's EffectiveCompiler.
func (s *Spec) EffectiveCompiler() compiler.Compiler {
	var chain []compiler.Compiler
	if s.Compiler != nil {
		chain = append(chain, s.Compiler)
	}
	for _, sub := range s.Subs {
		chain = append(chain, sub.EffectiveCompiler())
	}
	return compiler.First(chain...)
}

// Initializers flattens s and every sub-spec's own Initializer, in
// declaration order — every Initializer runs, unlike Parser/Analyzer/
// Compiler's fallback composition, since each typically seeds a distinct
// heap address.
func (s *Spec) Initializers() []Initializer {
	var out []Initializer
	if s.Initializer != nil {
		out = append(out, s.Initializer)
	}
	for _, sub := range s.Subs {
		out = append(out, sub.Initializers()...)
	}
	return out
}

// PreAnalyzers and PreCompilers flatten s and every sub-spec's Processors.
func (s *Spec) PreAnalyzers() []Processor {
	out := append([]Processor{}, s.PreAnalyze...)
	for _, sub := range s.Subs {
		out = append(out, sub.PreAnalyzers()...)
	}
	return out
}

func (s *Spec) PreCompilers() []Processor {
	out := append([]Processor{}, s.PreCompile...)
	for _, sub := range s.Subs {
		out = append(out, sub.PreCompilers()...)
	}
	return out
}

type noopAnalyzer struct{}

func (noopAnalyzer) Analyze(analyzer.Target, tree.NodeID) (bool, error) { return false, nil }
