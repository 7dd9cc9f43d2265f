package instr

import (
	"context"

	"github.com/cufyorg/jamplate-processor/internal/memory"
	"github.com/cufyorg/jamplate-processor/internal/value"
)

// PushConst pushes a compile-time constant Value.
type PushConst struct {
	base
	Const value.Value
}

// NewPushConst builds a PushConst carrying v, attributed to at.
func NewPushConst(at Source, v value.Value) *PushConst {
	return &PushConst{base: With(at), Const: v}
}

func (i *PushConst) Exec(_ context.Context, _ Env, mem *memory.Memory) error {
	mem.Top().Push(i.Const)
	return nil
}

// Idle does nothing. Used as a filler where a Compiler combinator needs a
// non-nil result but no work to do.
type Idle struct{ base }

// NewIdle builds an Idle instruction attributed to at.
func NewIdle(at Source) *Idle { return &Idle{base: With(at)} }

func (i *Idle) Exec(_ context.Context, _ Env, _ *memory.Memory) error { return nil }
