package instr

import (
	"context"

	"github.com/cufyorg/jamplate-processor/internal/memory"
)

// Alloc pops a value then a name (forced to text), and binds name to that
// value in the outermost (root) frame's heap.
type Alloc struct{ base }

func NewAlloc(at Source) *Alloc { return &Alloc{base: With(at)} }

func (i *Alloc) Exec(_ context.Context, _ Env, mem *memory.Memory) error {
	fr := mem.Top()
	v, err := fr.Pop()
	if err != nil {
		return err
	}
	name, err := popText(fr, mem)
	if err != nil {
		return err
	}
	mem.Alloc(name, v)
	return nil
}

// Set is like Alloc but binds in the top frame only.
type Set struct{ base }

func NewSet(at Source) *Set { return &Set{base: With(at)} }

func (i *Set) Exec(_ context.Context, _ Env, mem *memory.Memory) error {
	fr := mem.Top()
	v, err := fr.Pop()
	if err != nil {
		return err
	}
	name, err := popText(fr, mem)
	if err != nil {
		return err
	}
	mem.Set(name, v)
	return nil
}

// Access pops a name (forced to text) and pushes the heap value bound to
// it, walking frames innermost-to-outermost (shadowed lookup).
type Access struct{ base }

func NewAccess(at Source) *Access { return &Access{base: With(at)} }

func (i *Access) Exec(_ context.Context, _ Env, mem *memory.Memory) error {
	fr := mem.Top()
	name, err := popText(fr, mem)
	if err != nil {
		return err
	}
	v, ok := mem.Access(name)
	if !ok {
		return &memory.ExecutionError{Message: "undefined heap address: " + name}
	}
	fr.Push(v)
	return nil
}
