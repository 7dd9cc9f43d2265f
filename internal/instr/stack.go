package instr

import (
	"context"

	"github.com/cufyorg/jamplate-processor/internal/memory"
	"github.com/cufyorg/jamplate-processor/internal/value"
)

// Pop discards the top of the operand stack.
type Pop struct{ base }

func NewPop(at Source) *Pop { return &Pop{base: With(at)} }

func (i *Pop) Exec(_ context.Context, _ Env, mem *memory.Memory) error {
	_, err := mem.Top().Pop()
	return err
}

// Dup duplicates the top of the operand stack.
type Dup struct{ base }

func NewDup(at Source) *Dup { return &Dup{base: With(at)} }

func (i *Dup) Exec(_ context.Context, _ Env, mem *memory.Memory) error {
	v, err := mem.Top().Peek()
	if err != nil {
		return err
	}
	mem.Top().Push(v)
	return nil
}

// Swap exchanges the top two operand stack entries.
type Swap struct{ base }

func NewSwap(at Source) *Swap { return &Swap{base: With(at)} }

func (i *Swap) Exec(_ context.Context, _ Env, mem *memory.Memory) error {
	fr := mem.Top()
	a, err := fr.Pop()
	if err != nil {
		return err
	}
	b, err := fr.Pop()
	if err != nil {
		return err
	}
	fr.Push(a)
	fr.Push(b)
	return nil
}

// Eval pops the top Value, forces it to text via the pipe protocol, and
// pushes the result back as Text — unless the popped Value is a Quote, in
// which case only the Quote's stringification barrier is removed (its
// inner Value is pushed back unevaluated).
type Eval struct{ base }

func NewEval(at Source) *Eval { return &Eval{base: With(at)} }

func (i *Eval) Exec(_ context.Context, _ Env, mem *memory.Memory) error {
	fr := mem.Top()
	v, err := fr.Pop()
	if err != nil {
		return err
	}
	if q, ok := v.(value.Quote); ok {
		fr.Push(q.Unwrap())
		return nil
	}
	s, err := value.Eval(v, mem)
	if err != nil {
		return toExecErr(err)
	}
	fr.Push(value.Text(s))
	return nil
}
