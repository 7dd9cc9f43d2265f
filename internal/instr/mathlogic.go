package instr

import (
	"context"

	"github.com/cufyorg/jamplate-processor/internal/memory"
	"github.com/cufyorg/jamplate-processor/internal/value"
)

// Sum pops b then a and pushes a+b: numeric addition if both operands
// parse as numbers, otherwise text concatenation.
type Sum struct{ base }

func NewSum(at Source) *Sum { return &Sum{base: With(at)} }

func (i *Sum) Exec(_ context.Context, _ Env, mem *memory.Memory) error {
	fr := mem.Top()
	b, err := fr.Pop()
	if err != nil {
		return err
	}
	a, err := fr.Pop()
	if err != nil {
		return err
	}
	as, err := value.Eval(a, mem)
	if err != nil {
		return toExecErr(err)
	}
	bs, err := value.Eval(b, mem)
	if err != nil {
		return toExecErr(err)
	}
	if an, aok := toNumber(as); aok {
		if bn, bok := toNumber(bs); bok {
			fr.Push(value.Number(an + bn))
			return nil
		}
	}
	fr.Push(value.Text(as + bs))
	return nil
}

func binaryNumeric(mem *memory.Memory, op func(a, b float64) float64) error {
	fr := mem.Top()
	b, err := popNumber(fr, mem)
	if err != nil {
		return err
	}
	a, err := popNumber(fr, mem)
	if err != nil {
		return err
	}
	fr.Push(value.Number(op(a, b)))
	return nil
}

// Difference pops b then a and pushes a-b.
type Difference struct{ base }

func NewDifference(at Source) *Difference { return &Difference{base: With(at)} }

func (i *Difference) Exec(_ context.Context, _ Env, mem *memory.Memory) error {
	return binaryNumeric(mem, func(a, b float64) float64 { return a - b })
}

// Multiply pops b then a and pushes a*b.
type Multiply struct{ base }

func NewMultiply(at Source) *Multiply { return &Multiply{base: With(at)} }

func (i *Multiply) Exec(_ context.Context, _ Env, mem *memory.Memory) error {
	return binaryNumeric(mem, func(a, b float64) float64 { return a * b })
}

// Quotient pops b then a and pushes a/b.
type Quotient struct{ base }

func NewQuotient(at Source) *Quotient { return &Quotient{base: With(at)} }

func (i *Quotient) Exec(_ context.Context, _ Env, mem *memory.Memory) error {
	fr := mem.Top()
	b, err := popNumber(fr, mem)
	if err != nil {
		return err
	}
	if b == 0 {
		return &memory.ExecutionError{Message: "division by zero"}
	}
	a, err := popNumber(fr, mem)
	if err != nil {
		return err
	}
	fr.Push(value.Number(a / b))
	return nil
}

// Modulo pops b then a and pushes a mod b.
type Modulo struct{ base }

func NewModulo(at Source) *Modulo { return &Modulo{base: With(at)} }

func (i *Modulo) Exec(_ context.Context, _ Env, mem *memory.Memory) error {
	fr := mem.Top()
	b, err := popNumber(fr, mem)
	if err != nil {
		return err
	}
	if b == 0 {
		return &memory.ExecutionError{Message: "modulo by zero"}
	}
	a, err := popNumber(fr, mem)
	if err != nil {
		return err
	}
	r := a - b*float64(int64(a/b))
	fr.Push(value.Number(r))
	return nil
}

// Negate pops a Boolean and pushes its logical negation.
type Negate struct{ base }

func NewNegate(at Source) *Negate { return &Negate{base: With(at)} }

func (i *Negate) Exec(_ context.Context, _ Env, mem *memory.Memory) error {
	fr := mem.Top()
	b, err := popBoolean(fr, mem)
	if err != nil {
		return err
	}
	fr.Push(value.Boolean(!b))
	return nil
}

// And pops b then a and pushes a&&b.
type And struct{ base }

func NewAnd(at Source) *And { return &And{base: With(at)} }

func (i *And) Exec(_ context.Context, _ Env, mem *memory.Memory) error {
	fr := mem.Top()
	b, err := popBoolean(fr, mem)
	if err != nil {
		return err
	}
	a, err := popBoolean(fr, mem)
	if err != nil {
		return err
	}
	fr.Push(value.Boolean(a && b))
	return nil
}

// Or pops b then a and pushes a||b.
type Or struct{ base }

func NewOr(at Source) *Or { return &Or{base: With(at)} }

func (i *Or) Exec(_ context.Context, _ Env, mem *memory.Memory) error {
	fr := mem.Top()
	b, err := popBoolean(fr, mem)
	if err != nil {
		return err
	}
	a, err := popBoolean(fr, mem)
	if err != nil {
		return err
	}
	fr.Push(value.Boolean(a || b))
	return nil
}

// Compare pops b then a and pushes -1/0/+1 as a Number, numerically if both
// operands parse as numbers, lexicographically otherwise. The four
// relational operators (<, <=, >, >=) do not use Compare: they compile to
// Less, LessEqual, Greater and GreaterEqual.
type Compare struct{ base }

func NewCompare(at Source) *Compare { return &Compare{base: With(at)} }

func (i *Compare) Exec(_ context.Context, _ Env, mem *memory.Memory) error {
	fr := mem.Top()
	b, err := fr.Pop()
	if err != nil {
		return err
	}
	a, err := fr.Pop()
	if err != nil {
		return err
	}
	as, err := value.Eval(a, mem)
	if err != nil {
		return toExecErr(err)
	}
	bs, err := value.Eval(b, mem)
	if err != nil {
		return toExecErr(err)
	}
	var cmp int
	if an, aok := toNumber(as); aok {
		if bn, bok := toNumber(bs); bok {
			switch {
			case an < bn:
				cmp = -1
			case an > bn:
				cmp = 1
			}
			fr.Push(value.Number(cmp))
			return nil
		}
	}
	switch {
	case as < bs:
		cmp = -1
	case as > bs:
		cmp = 1
	}
	fr.Push(value.Number(cmp))
	return nil
}

func compareNumbers(mem *memory.Memory) (int, error) {
	fr := mem.Top()
	b, err := fr.Pop()
	if err != nil {
		return 0, err
	}
	a, err := fr.Pop()
	if err != nil {
		return 0, err
	}
	as, err := value.Eval(a, mem)
	if err != nil {
		return 0, toExecErr(err)
	}
	bs, err := value.Eval(b, mem)
	if err != nil {
		return 0, toExecErr(err)
	}
	if an, aok := toNumber(as); aok {
		if bn, bok := toNumber(bs); bok {
			switch {
			case an < bn:
				return -1, nil
			case an > bn:
				return 1, nil
			}
			return 0, nil
		}
	}
	switch {
	case as < bs:
		return -1, nil
	case as > bs:
		return 1, nil
	}
	return 0, nil
}

// Less pops b then a and pushes a<b, each of the four relational operators
// being Compare's comparison folded into a range check cast to Boolean.
type Less struct{ base }

func NewLess(at Source) *Less { return &Less{base: With(at)} }

func (i *Less) Exec(_ context.Context, _ Env, mem *memory.Memory) error {
	cmp, err := compareNumbers(mem)
	if err != nil {
		return err
	}
	mem.Top().Push(value.Boolean(cmp < 0))
	return nil
}

// LessEqual pops b then a and pushes a<=b.
type LessEqual struct{ base }

func NewLessEqual(at Source) *LessEqual { return &LessEqual{base: With(at)} }

func (i *LessEqual) Exec(_ context.Context, _ Env, mem *memory.Memory) error {
	cmp, err := compareNumbers(mem)
	if err != nil {
		return err
	}
	mem.Top().Push(value.Boolean(cmp <= 0))
	return nil
}

// Greater pops b then a and pushes a>b.
type Greater struct{ base }

func NewGreater(at Source) *Greater { return &Greater{base: With(at)} }

func (i *Greater) Exec(_ context.Context, _ Env, mem *memory.Memory) error {
	cmp, err := compareNumbers(mem)
	if err != nil {
		return err
	}
	mem.Top().Push(value.Boolean(cmp > 0))
	return nil
}

// GreaterEqual pops b then a and pushes a>=b.
type GreaterEqual struct{ base }

func NewGreaterEqual(at Source) *GreaterEqual { return &GreaterEqual{base: With(at)} }

func (i *GreaterEqual) Exec(_ context.Context, _ Env, mem *memory.Memory) error {
	cmp, err := compareNumbers(mem)
	if err != nil {
		return err
	}
	mem.Top().Push(value.Boolean(cmp >= 0))
	return nil
}

// Equal pops b then a and pushes a==b, using the same numeric-or-lexical
// comparison as Compare.
type Equal struct{ base }

func NewEqual(at Source) *Equal { return &Equal{base: With(at)} }

func (i *Equal) Exec(_ context.Context, _ Env, mem *memory.Memory) error {
	cmp, err := compareNumbers(mem)
	if err != nil {
		return err
	}
	mem.Top().Push(value.Boolean(cmp == 0))
	return nil
}

// NotEqual pops b then a and pushes a!=b.
type NotEqual struct{ base }

func NewNotEqual(at Source) *NotEqual { return &NotEqual{base: With(at)} }

func (i *NotEqual) Exec(_ context.Context, _ Env, mem *memory.Memory) error {
	cmp, err := compareNumbers(mem)
	if err != nil {
		return err
	}
	mem.Top().Push(value.Boolean(cmp != 0))
	return nil
}

// Defined pops a Value and pushes whether it is not the NULL Value.
type Defined struct{ base }

func NewDefined(at Source) *Defined { return &Defined{base: With(at)} }

func (i *Defined) Exec(_ context.Context, _ Env, mem *memory.Memory) error {
	fr := mem.Top()
	v, err := fr.Pop()
	if err != nil {
		return err
	}
	fr.Push(value.Boolean(!value.IsNull(v)))
	return nil
}
