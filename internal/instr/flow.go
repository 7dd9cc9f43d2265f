package instr

import (
	"context"

	"github.com/cufyorg/jamplate-processor/internal/memory"
	"github.com/cufyorg/jamplate-processor/internal/value"
)

// Block executes each child instruction in turn, left to right, each under
// its own pushed-then-dumped Frame pair.
type Block struct {
	base
	Children []Instruction
}

func NewBlock(at Source, children ...Instruction) *Block {
	return &Block{base: With(at), Children: children}
}

func (i *Block) Exec(ctx context.Context, env Env, mem *memory.Memory) error {
	for _, child := range i.Children {
		mem.PushFrame(child)
		err := child.Exec(ctx, env, mem)
		if _, dumpErr := mem.DumpFrame(); dumpErr != nil && err == nil {
			err = dumpErr
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// Seq executes every child in order against the CURRENT frame — unlike
// Block, it pushes no frame of its own between children, so a value an
// earlier child pushes is still on the operand stack for a later child to
// pop. Compilers reach for this wherever several instructions must share
// one frame's stack — an operator's operands feeding its instruction, an
// object literal's key/value/CastPair triples feeding BuildObject — as
// opposed to Block's per-child frame isolation for independent statements.
type Seq struct {
	base
	Children []Instruction
}

func NewSeq(at Source, children ...Instruction) *Seq {
	return &Seq{base: With(at), Children: children}
}

func (i *Seq) Exec(ctx context.Context, env Env, mem *memory.Memory) error {
	for _, child := range i.Children {
		if err := child.Exec(ctx, env, mem); err != nil {
			return err
		}
	}
	return nil
}

// Branch pops a Boolean and executes Then if true, Else (if non-nil)
// otherwise.
type Branch struct {
	base
	Then Instruction
	Else Instruction
}

func NewBranch(at Source, then, els Instruction) *Branch {
	return &Branch{base: With(at), Then: then, Else: els}
}

func (i *Branch) Exec(ctx context.Context, env Env, mem *memory.Memory) error {
	cond, err := popBoolean(mem.Top(), mem)
	if err != nil {
		return err
	}
	if cond {
		return i.Then.Exec(ctx, env, mem)
	}
	if i.Else != nil {
		return i.Else.Exec(ctx, env, mem)
	}
	return nil
}

// Repeat pops a Boolean before every iteration (the first must already be
// on the stack when Repeat runs); while it is true, it runs Body, which
// must itself re-push the next iteration's continue condition.
type Repeat struct {
	base
	Body Instruction
}

func NewRepeat(at Source, body Instruction) *Repeat {
	return &Repeat{base: With(at), Body: body}
}

func (i *Repeat) Exec(ctx context.Context, env Env, mem *memory.Memory) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		cont, err := popBoolean(mem.Top(), mem)
		if err != nil {
			return err
		}
		if !cont {
			return nil
		}
		if err := i.Body.Exec(ctx, env, mem); err != nil {
			return err
		}
	}
}

// ForEach pops an Array and runs Body once per element, each under its own
// pushed-then-dumped Frame with Name bound in that frame's local heap —
// the #for loop's compiled form.
type ForEach struct {
	base
	Name string
	Body Instruction
}

func NewForEach(at Source, name string, body Instruction) *ForEach {
	return &ForEach{base: With(at), Name: name, Body: body}
}

func (i *ForEach) Exec(ctx context.Context, env Env, mem *memory.Memory) error {
	fr := mem.Top()
	v, err := fr.Pop()
	if err != nil {
		return err
	}
	arr, ok := v.(value.Array)
	if !ok {
		return &memory.ExecutionError{Message: "ForEach: expected an Array"}
	}
	for _, elem := range arr {
		if err := ctx.Err(); err != nil {
			return err
		}
		mem.PushFrame(i)
		mem.Set(i.Name, elem)
		err := i.Body.Exec(ctx, env, mem)
		if _, dumpErr := mem.DumpFrame(); dumpErr != nil && err == nil {
			err = dumpErr
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// Capture runs Body under its own Frame, then pushes the captured frame's
// console as a single Text Value onto the stack instead of merging it into
// the parent console.
type Capture struct {
	base
	Body Instruction
}

func NewCapture(at Source, body Instruction) *Capture {
	return &Capture{base: With(at), Body: body}
}

func (i *Capture) Exec(ctx context.Context, env Env, mem *memory.Memory) error {
	mem.PushFrame(i)
	err := i.Body.Exec(ctx, env, mem)
	popped, popErr := mem.PopFrame()
	if err == nil {
		err = popErr
	}
	if err != nil {
		return err
	}
	mem.Top().Push(value.Text(popped.Console.String()))
	return nil
}
