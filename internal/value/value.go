// Package value implements the polymorphic Value sum type: the lazy "pipe"
// values that flow through Memory during execution. Every Value exposes
// eval, which renders it to text against a Resolver
// (ordinarily a *memory.Memory), and Apply, which composes a text transform
// on top of it without forcing evaluation immediately.
package value

import "fmt"

// Resolver is the subset of Memory a Value needs to resolve itself: named
// heap lookups. Kept as an interface here (rather than importing the memory
// package directly) so value has no dependency on memory — memory depends
// on value, not the reverse.
type Resolver interface {
	Access(name string) (Value, bool)
}

// maxEvalDepth bounds recursive eval nesting, guarding against
// self-referential composite structures (an Array or Object that contains
// itself, directly or transitively) that would otherwise recurse forever.
const maxEvalDepth = 1000

// ErrEvalTooDeep is returned when a Value's eval recursion exceeds
// maxEvalDepth, most likely because of a cyclic composite structure.
var ErrEvalTooDeep = fmt.Errorf("value: eval recursion exceeded depth limit (%d)", maxEvalDepth)

// Value is the common interface of every variant: Text, Number, Boolean,
// Array, Object, Pair, Quote, Glue, and Null.
type Value interface {
	eval(mem Resolver, depth int) (string, error)

	// Apply composes transform on top of this Value's eventual text,
	// returning a new lazy Value rather than forcing evaluation now.
	Apply(transform func(string) string) Value
}

// Eval forces v to text against mem, starting recursion at depth zero. This
// is the external entry point; individual Value implementations call each
// other's unexported eval to thread the depth counter through.
func Eval(v Value, mem Resolver) (string, error) {
	return v.eval(mem, 0)
}

// piped wraps any Value with a pending text transform, implementing Apply
// generically so each concrete Value need not repeat the pattern.
type piped struct {
	inner     Value
	transform func(string) string
}

func (p *piped) eval(mem Resolver, depth int) (string, error) {
	if depth > maxEvalDepth {
		return "", ErrEvalTooDeep
	}
	s, err := p.inner.eval(mem, depth+1)
	if err != nil {
		return "", err
	}
	return p.transform(s), nil
}

func (p *piped) Apply(transform func(string) string) Value {
	return &piped{inner: p, transform: transform}
}

func applyPipe(v Value, transform func(string) string) Value {
	return &piped{inner: v, transform: transform}
}

func guardDepth(depth int) error {
	if depth > maxEvalDepth {
		return ErrEvalTooDeep
	}
	return nil
}
