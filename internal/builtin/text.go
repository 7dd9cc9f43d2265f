package builtin

import (
	"context"
	"strings"

	"github.com/cufyorg/jamplate-processor/internal/compiler"
	"github.com/cufyorg/jamplate-processor/internal/instr"
	"github.com/cufyorg/jamplate-processor/internal/memory"
	"github.com/cufyorg/jamplate-processor/internal/parser"
	"github.com/cufyorg/jamplate-processor/internal/ref"
	"github.com/cufyorg/jamplate-processor/internal/spec"
	"github.com/cufyorg/jamplate-processor/internal/tree"
)

// textlessContext matches every container where bytes are syntax, not
// document content: exprContext's expression-only positions (an
// injection's body, a paren group, an array/object literal — whose
// unconsumed whitespace is not meant to print) plus the Group-materialized
// component/marker slots gapParser must never split on.
var textlessContext = tree.Or(
	exprContext,
	func(f *tree.Forest, id tree.NodeID) bool {
		k := f.Sketch(id).Kind
		return strings.HasPrefix(k, "component:") || strings.HasPrefix(k, "marker:")
	},
)

// textSpec claims whatever span of a node's range no other Spec has
// claimed as plain document text, printed verbatim — it must be the last
// entry in Spec()'s Subs list so every directive and expression family
// gets first refusal over a span before textSpec fills what is left.
// Everything not part of a directive is plain text.
func textSpec() *spec.Spec {
	s := spec.New("text")
	s.Parser = gapParser{}
	s.Compiler = compiler.Filter(textCompiler, tree.Is("text"))
	return s
}

// gapParser emits one "text" node per maximal uncovered sub-range of
// self, skipping whatever its existing children already occupy — the
// mirror image of Term's single-match search.
type gapParser struct{}

func (gapParser) Parse(target parser.Target, self tree.NodeID) ([]tree.NodeID, error) {
	f := target.Forest()
	if f.Sketch(self).Is("text") || textlessContext(f, self) {
		return nil, nil
	}
	selfRef := f.Reference(self)
	children := f.Children(self)

	var out []tree.NodeID
	cursor := selfRef.Position
	emit := func(end uint32) {
		if end > cursor {
			r := ref.New(cursor, end-cursor)
			out = append(out, f.New(target.Document(), r, 0, "text"))
		}
	}
	for _, child := range children {
		cr := f.Reference(child)
		emit(cr.Position)
		if cr.End() > cursor {
			cursor = cr.End()
		}
	}
	emit(selfRef.End())
	return out, nil
}

func textCompiler(_ compiler.Compiler, target compiler.Target, self tree.NodeID) (instr.Instruction, error) {
	at := srcOf(target, self)
	s, err := target.Document().Read(target.Forest().Reference(self))
	if err != nil {
		return nil, err
	}
	return &printTextInstr{at: at, text: s}, nil
}

// printTextInstr prints a fixed literal string — no operand stack
// involvement, since the text to print is already known at compile time.
type printTextInstr struct {
	at   instr.Source
	text string
}

func (i *printTextInstr) Source() instr.Source { return i.at }

func (i *printTextInstr) Exec(_ context.Context, _ instr.Env, mem *memory.Memory) error {
	mem.Top().Print(i.text)
	return nil
}
