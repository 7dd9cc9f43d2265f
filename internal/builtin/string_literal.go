package builtin

import (
	"regexp"
	"strings"

	"github.com/cufyorg/jamplate-processor/internal/compiler"
	"github.com/cufyorg/jamplate-processor/internal/instr"
	"github.com/cufyorg/jamplate-processor/internal/parser"
	"github.com/cufyorg/jamplate-processor/internal/ref"
	"github.com/cufyorg/jamplate-processor/internal/spec"
	"github.com/cufyorg/jamplate-processor/internal/tree"
	"github.com/cufyorg/jamplate-processor/internal/value"
)

var (
	singleQuotedPattern = regexp.MustCompile(`'(?P<value>(?:\\.|[^'\\])*)'`)
	doubleQuotedPattern = regexp.MustCompile(`"(?P<value>(?:\\.|[^"\\])*)"`)
)

// stringSpec recognizes `'…'` and `"…"` string literals with `\\`/`\x`
// backslash escapes.
func stringSpec() *spec.Spec {
	s := spec.New("literal:string")
	s.Parser = exprParser(parser.Fallback(
		parser.Pattern(singleQuotedPattern, "literal:string", nil, nil),
		parser.Pattern(doubleQuotedPattern, "literal:string", nil, nil),
	))
	s.Compiler = compiler.Filter(stringCompiler, tree.Is("literal:string"))
	return s
}

func stringCompiler(root compiler.Compiler, target compiler.Target, self tree.NodeID) (instr.Instruction, error) {
	f := target.Forest()
	sk := f.Sketch(self)
	r, ok := sk.Get("value").Range(f)
	if !ok {
		r = ref.New(f.Reference(self).Position+1, 0)
	}
	raw, err := target.Document().Read(r)
	if err != nil {
		return nil, err
	}
	return instr.NewPushConst(srcOf(target, self), value.Text(unescape(raw))), nil
}

// unescape applies backslash escapes `\\`/`\x`: a backslash followed by any
// character yields that character literally.
func unescape(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
			b.WriteByte(s[i])
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
