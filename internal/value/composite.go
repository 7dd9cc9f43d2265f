package value

import "strings"

// Array is an ordered list Value, rendered as a bracketed, comma-joined
// list of its elements' own text.
type Array []Value

func (a Array) eval(mem Resolver, depth int) (string, error) {
	if err := guardDepth(depth); err != nil {
		return "", err
	}
	parts := make([]string, len(a))
	for i, v := range a {
		s, err := v.eval(mem, depth+1)
		if err != nil {
			return "", err
		}
		parts[i] = s
	}
	return "[" + strings.Join(parts, ",") + "]", nil
}

func (a Array) Apply(transform func(string) string) Value { return applyPipe(a, transform) }

// Pair is a key/value Value, the element type of Object and the operand of
// the Struct Split/BuildObject instructions.
type Pair struct {
	Key Value
	Val Value
}

func (p Pair) eval(mem Resolver, depth int) (string, error) {
	if err := guardDepth(depth); err != nil {
		return "", err
	}
	k, err := p.Key.eval(mem, depth+1)
	if err != nil {
		return "", err
	}
	v, err := p.Val.eval(mem, depth+1)
	if err != nil {
		return "", err
	}
	return k + ":" + v, nil
}

func (p Pair) Apply(transform func(string) string) Value { return applyPipe(p, transform) }

// Object is an ordered list of Pairs, preserving insertion order. Split/
// BuildObject round-trips need not restore the exact original order.
type Object []Pair

func (o Object) eval(mem Resolver, depth int) (string, error) {
	if err := guardDepth(depth); err != nil {
		return "", err
	}
	parts := make([]string, len(o))
	for i, p := range o {
		s, err := p.eval(mem, depth+1)
		if err != nil {
			return "", err
		}
		parts[i] = s
	}
	return "{" + strings.Join(parts, ",") + "}", nil
}

func (o Object) Apply(transform func(string) string) Value { return applyPipe(o, transform) }

// Get returns the value bound to key, if any; used by the Struct Get
// instruction.
func (o Object) Get(key string) (Value, bool) {
	for _, p := range o {
		if s, ok := p.Key.(Text); ok && string(s) == key {
			return p.Val, true
		}
	}
	return nil, false
}

// Put returns a copy of o with key bound to val, overwriting any existing
// binding in place or appending a new Pair.
func (o Object) Put(key string, val Value) Object {
	out := make(Object, len(o))
	copy(out, o)
	for i, p := range out {
		if s, ok := p.Key.(Text); ok && string(s) == key {
			out[i] = Pair{Key: Text(key), Val: val}
			return out
		}
	}
	return append(out, Pair{Key: Text(key), Val: val})
}

// Glue is the concatenative splice used during frame folding: it renders as
// the straight concatenation of its elements' text, with no separator and
// no brackets.
type Glue []Value

func (g Glue) eval(mem Resolver, depth int) (string, error) {
	if err := guardDepth(depth); err != nil {
		return "", err
	}
	var b strings.Builder
	for _, v := range g {
		s, err := v.eval(mem, depth+1)
		if err != nil {
			return "", err
		}
		b.WriteString(s)
	}
	return b.String(), nil
}

func (g Glue) Apply(transform func(string) string) Value { return applyPipe(g, transform) }

// Quote wraps a Value, preserving its literal form as a stringification
// barrier: casts that would otherwise recursively re-stringify a nested
// Value stop at a Quote (see internal/instr's cast instructions). Eval
// itself simply forces the wrapped Value.
type Quote struct {
	Inner Value
}

func (q Quote) eval(mem Resolver, depth int) (string, error) {
	if err := guardDepth(depth); err != nil {
		return "", err
	}
	return q.Inner.eval(mem, depth+1)
}

func (q Quote) Apply(transform func(string) string) Value { return applyPipe(q, transform) }

// Unwrap returns the wrapped Value, peeling exactly one Quote layer.
func (q Quote) Unwrap() Value { return q.Inner }
