package instr

import (
	"context"

	"github.com/cufyorg/jamplate-processor/internal/memory"
	"github.com/cufyorg/jamplate-processor/internal/value"
)

// CastText forces the top Value to text and pushes it back as Text.
type CastText struct{ base }

func NewCastText(at Source) *CastText { return &CastText{base: With(at)} }

func (i *CastText) Exec(_ context.Context, _ Env, mem *memory.Memory) error {
	fr := mem.Top()
	s, err := popText(fr, mem)
	if err != nil {
		return err
	}
	fr.Push(value.Text(s))
	return nil
}

// CastBoolean casts the top Value to Boolean; a Boolean passes through
// unchanged, anything else is true iff its text equals "true".
type CastBoolean struct{ base }

func NewCastBoolean(at Source) *CastBoolean { return &CastBoolean{base: With(at)} }

func (i *CastBoolean) Exec(_ context.Context, _ Env, mem *memory.Memory) error {
	fr := mem.Top()
	v, err := fr.Pop()
	if err != nil {
		return err
	}
	if b, ok := v.(value.Boolean); ok {
		fr.Push(b)
		return nil
	}
	s, err := value.Eval(v, mem)
	if err != nil {
		return toExecErr(err)
	}
	fr.Push(value.Boolean(s == "true"))
	return nil
}

// CastNumber casts the top Value to Number, failing with an ExecutionError
// if its text does not parse.
type CastNumber struct{ base }

func NewCastNumber(at Source) *CastNumber { return &CastNumber{base: With(at)} }

func (i *CastNumber) Exec(_ context.Context, _ Env, mem *memory.Memory) error {
	fr := mem.Top()
	v, err := fr.Pop()
	if err != nil {
		return err
	}
	if n, ok := v.(value.Number); ok {
		fr.Push(n)
		return nil
	}
	s, err := value.Eval(v, mem)
	if err != nil {
		return toExecErr(err)
	}
	n, ok := toNumber(s)
	if !ok {
		return &memory.ExecutionError{Message: "cannot cast to number: " + s}
	}
	fr.Push(value.Number(n))
	return nil
}

// CastArray casts the top Value to Array: an Array passes through, anything
// else becomes a single-element Array.
type CastArray struct{ base }

func NewCastArray(at Source) *CastArray { return &CastArray{base: With(at)} }

func (i *CastArray) Exec(_ context.Context, _ Env, mem *memory.Memory) error {
	fr := mem.Top()
	v, err := fr.Pop()
	if err != nil {
		return err
	}
	if a, ok := v.(value.Array); ok {
		fr.Push(a)
		return nil
	}
	fr.Push(value.Array{v})
	return nil
}

// CastObject casts the top Value to Object: an Object passes through,
// anything else becomes an empty Object (it carries no key).
type CastObject struct{ base }

func NewCastObject(at Source) *CastObject { return &CastObject{base: With(at)} }

func (i *CastObject) Exec(_ context.Context, _ Env, mem *memory.Memory) error {
	fr := mem.Top()
	v, err := fr.Pop()
	if err != nil {
		return err
	}
	if o, ok := v.(value.Object); ok {
		fr.Push(o)
		return nil
	}
	fr.Push(value.Object{})
	return nil
}

// CastPair pops a value then a key, and pushes a Pair combining them.
type CastPair struct{ base }

func NewCastPair(at Source) *CastPair { return &CastPair{base: With(at)} }

func (i *CastPair) Exec(_ context.Context, _ Env, mem *memory.Memory) error {
	fr := mem.Top()
	val, err := fr.Pop()
	if err != nil {
		return err
	}
	key, err := fr.Pop()
	if err != nil {
		return err
	}
	fr.Push(value.Pair{Key: key, Val: val})
	return nil
}

// CastQuote wraps the top Value in a Quote, deferring its evaluation.
type CastQuote struct{ base }

func NewCastQuote(at Source) *CastQuote { return &CastQuote{base: With(at)} }

func (i *CastQuote) Exec(_ context.Context, _ Env, mem *memory.Memory) error {
	fr := mem.Top()
	v, err := fr.Pop()
	if err != nil {
		return err
	}
	fr.Push(value.Quote{Inner: v})
	return nil
}

// CastGlue casts the top Value to Glue: a Glue passes through, anything
// else becomes a single-element Glue.
type CastGlue struct{ base }

func NewCastGlue(at Source) *CastGlue { return &CastGlue{base: With(at)} }

func (i *CastGlue) Exec(_ context.Context, _ Env, mem *memory.Memory) error {
	fr := mem.Top()
	v, err := fr.Pop()
	if err != nil {
		return err
	}
	if g, ok := v.(value.Glue); ok {
		fr.Push(g)
		return nil
	}
	fr.Push(value.Glue{v})
	return nil
}

// BuildArray folds the entire current operand stack — in push order — into
// a single Array, then replaces the stack with just that Array.
type BuildArray struct{ base }

func NewBuildArray(at Source) *BuildArray { return &BuildArray{base: With(at)} }

func (i *BuildArray) Exec(_ context.Context, _ Env, mem *memory.Memory) error {
	fr := mem.Top()
	arr := make(value.Array, len(fr.Stack))
	copy(arr, fr.Stack)
	fr.Stack = fr.Stack[:0]
	fr.Push(arr)
	return nil
}

// BuildObject folds the entire current operand stack — expected to hold
// only Pairs, in push order — into a single Object, then replaces the
// stack with just that Object.
type BuildObject struct{ base }

func NewBuildObject(at Source) *BuildObject { return &BuildObject{base: With(at)} }

func (i *BuildObject) Exec(_ context.Context, _ Env, mem *memory.Memory) error {
	fr := mem.Top()
	obj := make(value.Object, 0, fr.Len())
	for _, v := range fr.Stack {
		p, ok := v.(value.Pair)
		if !ok {
			return &memory.ExecutionError{Message: "BuildObject: expected a Pair on the operand stack"}
		}
		obj = append(obj, p)
	}
	fr.Stack = fr.Stack[:0]
	fr.Push(obj)
	return nil
}
