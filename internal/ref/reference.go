// Package ref implements the geometric substrate of the pipeline: half-open
// character ranges over a Document, the Intersection/Dominance algebra
// between two ranges, and the Document abstraction itself.
package ref

import "fmt"

// Reference is an immutable half-open range [Position, Position+Length) into
// some Document. Two references are only meaningfully comparable when drawn
// from the same Document; this package never checks that on your behalf.
type Reference struct {
	Position uint32
	Length   uint32
}

// New builds a Reference, panicking if the inputs would violate the
// Position >= 0 && Length >= 0 invariant (impossible for uint32, but kept as
// a named constructor so call sites read as intentional).
func New(position, length uint32) Reference {
	return Reference{Position: position, Length: length}
}

// End returns the exclusive end of the range.
func (r Reference) End() uint32 {
	return r.Position + r.Length
}

// IsEmpty reports whether the range covers zero characters.
func (r Reference) IsEmpty() bool {
	return r.Length == 0
}

// String renders the range as "[position,end)".
func (r Reference) String() string {
	return fmt.Sprintf("[%d,%d)", r.Position, r.End())
}

// With returns a new Reference with the given position and length; r's own
// position and length are not used.
func (r Reference) With(position, length uint32) Reference {
	return Reference{Position: position, Length: length}
}
