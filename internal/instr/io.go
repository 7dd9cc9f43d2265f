package instr

import (
	"context"
	"strings"

	"github.com/cufyorg/jamplate-processor/internal/memory"
	"github.com/cufyorg/jamplate-processor/internal/value"
)

// Print pops the top Value, stringifies it, and appends it to the
// innermost frame's console.
type Print struct{ base }

func NewPrint(at Source) *Print { return &Print{base: With(at)} }

func (i *Print) Exec(_ context.Context, _ Env, mem *memory.Memory) error {
	fr := mem.Top()
	s, err := popText(fr, mem)
	if err != nil {
		return err
	}
	fr.Print(s)
	return nil
}

// FPrint pops an Object of `{key}`-placeholder replacements, then a Value,
// applies the replacements to the Value's text, and appends the result to
// the innermost frame's console.
type FPrint struct{ base }

func NewFPrint(at Source) *FPrint { return &FPrint{base: With(at)} }

func (i *FPrint) Exec(_ context.Context, _ Env, mem *memory.Memory) error {
	fr := mem.Top()
	replVal, err := fr.Pop()
	if err != nil {
		return err
	}
	repl, ok := replVal.(value.Object)
	if !ok {
		return &memory.ExecutionError{Message: "FPrint: expected an Object of replacements"}
	}
	s, err := popText(fr, mem)
	if err != nil {
		return err
	}
	for _, p := range repl {
		key, err := value.Eval(p.Key, mem)
		if err != nil {
			return toExecErr(err)
		}
		val, err := value.Eval(p.Val, mem)
		if err != nil {
			return toExecErr(err)
		}
		s = strings.ReplaceAll(s, "{"+key+"}", val)
	}
	fr.Print(s)
	return nil
}

// Serr pops the top Value and writes it to the diagnostic channel at the
// given Severity, attributed to this instruction's Source.
type Serr struct {
	base
	Severity string
}

// NewSerr builds a Serr reporting at severity "error". Use NewSerrAt for
// any other severity (#message uses "info").
func NewSerr(at Source) *Serr { return &Serr{base: With(at), Severity: "error"} }

// NewSerrAt builds a Serr reporting at the given severity.
func NewSerrAt(at Source, severity string) *Serr {
	return &Serr{base: With(at), Severity: severity}
}

func (i *Serr) Exec(_ context.Context, env Env, mem *memory.Memory) error {
	fr := mem.Top()
	s, err := popText(fr, mem)
	if err != nil {
		return err
	}
	if env != nil {
		env.Diagnostic(i.Severity, s, i.Source())
	}
	return nil
}
