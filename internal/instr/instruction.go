// Package instr implements the stack-machine instruction set: roughly sixty
// small operations, grouped by category, that a Compiler lowers a Tree into
// and an Executor runs against Memory.
package instr

import (
	"context"

	"github.com/cufyorg/jamplate-processor/internal/memory"
	"github.com/cufyorg/jamplate-processor/internal/ref"
)

// Source locates the Tree an instruction was compiled from, for diagnostic
// reporting. The zero Source (nil Document) means "no source" — some
// instructions (e.g. structural Block wrappers the compiler itself
// synthesizes) carry none.
type Source struct {
	Document  ref.Document
	Reference ref.Reference
}

// Env is what an instruction needs from its surrounding execution context
// beyond Memory: a diagnostic sink for Serr and runtime error reporting.
// Defined here (rather than imported from a higher package) so instr has
// no dependency on spec — spec depends on instr, not the reverse.
type Env interface {
	Diagnostic(severity string, message string, src Source)
}

// Instruction is the common interface of every instruction. Exec runs the
// instruction against env and mem; ctx carries cancellation for the
// enclosing Unit action (Repeat and ForEach check it on every iteration;
// no other instruction checks it).
type Instruction interface {
	Exec(ctx context.Context, env Env, mem *memory.Memory) error
	Source() Source
}

// base gives every concrete instruction its optional Source without
// repeating the accessor.
type base struct {
	at Source
}

func (b base) Source() Source { return b.at }

// With attaches src to an already-constructed instruction's base. Compilers
// call this after building an instruction from a Tree.
func With(at Source) base { return base{at: at} }
