package instr

import (
	"context"

	"github.com/cufyorg/jamplate-processor/internal/memory"
	"github.com/cufyorg/jamplate-processor/internal/value"
)

// Get pops a key then a struct (an Object), and pushes the value bound to
// that key, or NULL if absent.
type Get struct{ base }

func NewGet(at Source) *Get { return &Get{base: With(at)} }

func (i *Get) Exec(_ context.Context, _ Env, mem *memory.Memory) error {
	fr := mem.Top()
	key, err := popText(fr, mem)
	if err != nil {
		return err
	}
	s, err := fr.Pop()
	if err != nil {
		return err
	}
	obj, ok := s.(value.Object)
	if !ok {
		return &memory.ExecutionError{Message: "Get: expected an Object"}
	}
	if v, found := obj.Get(key); found {
		fr.Push(v)
		return nil
	}
	fr.Push(value.Null)
	return nil
}

// Put pops a value, then a key, then a struct (an Object), and pushes the
// Object with that key bound to that value.
type Put struct{ base }

func NewPut(at Source) *Put { return &Put{base: With(at)} }

func (i *Put) Exec(_ context.Context, _ Env, mem *memory.Memory) error {
	fr := mem.Top()
	val, err := fr.Pop()
	if err != nil {
		return err
	}
	key, err := popText(fr, mem)
	if err != nil {
		return err
	}
	s, err := fr.Pop()
	if err != nil {
		return err
	}
	obj, ok := s.(value.Object)
	if !ok {
		return &memory.ExecutionError{Message: "Put: expected an Object"}
	}
	fr.Push(obj.Put(key, val))
	return nil
}

// Touch pops a value, then a path (an Array of keys), then a struct, and
// performs a nested Put along that path, creating intermediate Objects as
// needed.
type Touch struct{ base }

func NewTouch(at Source) *Touch { return &Touch{base: With(at)} }

func (i *Touch) Exec(_ context.Context, _ Env, mem *memory.Memory) error {
	fr := mem.Top()
	val, err := fr.Pop()
	if err != nil {
		return err
	}
	pathVal, err := fr.Pop()
	if err != nil {
		return err
	}
	path, ok := pathVal.(value.Array)
	if !ok {
		return &memory.ExecutionError{Message: "Touch: expected an Array path"}
	}
	s, err := fr.Pop()
	if err != nil {
		return err
	}
	obj, ok := s.(value.Object)
	if !ok {
		return &memory.ExecutionError{Message: "Touch: expected an Object"}
	}
	keys := make([]string, len(path))
	for idx, k := range path {
		ks, err := value.Eval(k, mem)
		if err != nil {
			return toExecErr(err)
		}
		keys[idx] = ks
	}
	fr.Push(touch(obj, keys, val))
	return nil
}

func touch(obj value.Object, keys []string, val value.Value) value.Object {
	if len(keys) == 0 {
		return obj
	}
	if len(keys) == 1 {
		return obj.Put(keys[0], val)
	}
	child, _ := obj.Get(keys[0])
	childObj, ok := child.(value.Object)
	if !ok {
		childObj = value.Object{}
	}
	return obj.Put(keys[0], touch(childObj, keys[1:], val))
}

// Split pops an Array and pushes each of its elements back onto the
// operand stack, in order — the spread operation BuildObject reverses.
type Split struct{ base }

func NewSplit(at Source) *Split { return &Split{base: With(at)} }

func (i *Split) Exec(_ context.Context, _ Env, mem *memory.Memory) error {
	fr := mem.Top()
	v, err := fr.Pop()
	if err != nil {
		return err
	}
	arr, ok := v.(value.Array)
	if !ok {
		return &memory.ExecutionError{Message: "Split: expected an Array"}
	}
	for _, elem := range arr {
		fr.Push(elem)
	}
	return nil
}

// Reverse pops an Array and pushes a new Array with its elements reversed.
type Reverse struct{ base }

func NewReverse(at Source) *Reverse { return &Reverse{base: With(at)} }

func (i *Reverse) Exec(_ context.Context, _ Env, mem *memory.Memory) error {
	fr := mem.Top()
	v, err := fr.Pop()
	if err != nil {
		return err
	}
	arr, ok := v.(value.Array)
	if !ok {
		return &memory.ExecutionError{Message: "Reverse: expected an Array"}
	}
	out := make(value.Array, len(arr))
	for idx, elem := range arr {
		out[len(arr)-1-idx] = elem
	}
	fr.Push(out)
	return nil
}
