package instr

import (
	"context"

	"github.com/cufyorg/jamplate-processor/internal/memory"
	"github.com/cufyorg/jamplate-processor/internal/value"
)

// PushFrame pushes a new, empty Frame as the innermost frame.
type PushFrame struct{ base }

func NewPushFrame(at Source) *PushFrame { return &PushFrame{base: With(at)} }

func (i *PushFrame) Exec(_ context.Context, _ Env, mem *memory.Memory) error {
	mem.PushFrame(i)
	return nil
}

// PopFrame pops the innermost frame and discards it entirely — its operand
// stack, console, and heap are all dropped.
type PopFrame struct{ base }

func NewPopFrame(at Source) *PopFrame { return &PopFrame{base: With(at)} }

func (i *PopFrame) Exec(_ context.Context, _ Env, mem *memory.Memory) error {
	_, err := mem.PopFrame()
	return err
}

// DumpFrame pops the innermost frame, merging its console into the frame
// now on top.
type DumpFrame struct{ base }

func NewDumpFrame(at Source) *DumpFrame { return &DumpFrame{base: With(at)} }

func (i *DumpFrame) Exec(_ context.Context, _ Env, mem *memory.Memory) error {
	_, err := mem.DumpFrame()
	return err
}

// GlueFrame pops the innermost frame and replaces the frame now on top's
// pushed-back result with a single Glue of the popped frame's entire
// operand stack, in push order.
type GlueFrame struct{ base }

func NewGlueFrame(at Source) *GlueFrame { return &GlueFrame{base: With(at)} }

func (i *GlueFrame) Exec(_ context.Context, _ Env, mem *memory.Memory) error {
	popped, err := mem.PopFrame()
	if err != nil {
		return err
	}
	mem.Top().Console.WriteString(popped.Console.String())
	glue := make(value.Glue, len(popped.Stack))
	copy(glue, popped.Stack)
	mem.Top().Push(glue)
	return nil
}

// JoinFrame is like GlueFrame but eagerly concatenates the popped frame's
// operand stack to evaluated text instead of deferring through a Glue.
type JoinFrame struct{ base }

func NewJoinFrame(at Source) *JoinFrame { return &JoinFrame{base: With(at)} }

func (i *JoinFrame) Exec(_ context.Context, _ Env, mem *memory.Memory) error {
	popped, err := mem.PopFrame()
	if err != nil {
		return err
	}
	mem.Top().Console.WriteString(popped.Console.String())
	var joined string
	for _, v := range popped.Stack {
		s, err := value.Eval(v, mem)
		if err != nil {
			return toExecErr(err)
		}
		joined += s
	}
	mem.Top().Push(value.Text(joined))
	return nil
}
