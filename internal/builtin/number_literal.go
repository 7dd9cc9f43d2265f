package builtin

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/cufyorg/jamplate-processor/internal/compiler"
	"github.com/cufyorg/jamplate-processor/internal/instr"
	"github.com/cufyorg/jamplate-processor/internal/parser"
	"github.com/cufyorg/jamplate-processor/internal/spec"
	"github.com/cufyorg/jamplate-processor/internal/tree"
	"github.com/cufyorg/jamplate-processor/internal/value"
)

// numberPattern matches hex, binary, octal, or decimal numeric literals
// with an optional D/d/L/l/F/f suffix — alternative order matters here,
// since Go's regexp package prefers the first alternative that matches at
// a given starting position, so the prefixed forms must precede the bare
// decimal form.
var numberPattern = regexp.MustCompile(
	`0[xX][0-9a-fA-F]+[DdLlFf]*` +
		`|0[bB][01]+[DdLlFf]*` +
		`|0[0-7]+[DdLlFf]*` +
		`|\d+(?:\.\d+)?[DdLlFf]*`,
)

func numberSpec() *spec.Spec {
	s := spec.New("literal:number")
	s.Parser = exprParser(parser.Term(numberPattern, 0, "literal:number", nil))
	s.Compiler = compiler.Filter(numberCompiler, tree.Is("literal:number"))
	return s
}

func numberCompiler(root compiler.Compiler, target compiler.Target, self tree.NodeID) (instr.Instruction, error) {
	f := target.Forest()
	raw, err := target.Document().Read(f.Reference(self))
	if err != nil {
		return nil, err
	}
	n, err := parseNumberLiteral(raw)
	if err != nil {
		return nil, err
	}
	return instr.NewPushConst(srcOf(target, self), value.Number(n)), nil
}

// parseNumberLiteral interprets one of the hex/binary/octal/decimal
// literal forms numberPattern recognizes, ignoring any D/d/L/l/F/f suffix.
func parseNumberLiteral(s string) (float64, error) {
	for len(s) > 0 && strings.ContainsRune("DdLlFf", rune(s[len(s)-1])) {
		s = s[:len(s)-1]
	}
	switch {
	case strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X"):
		n, err := strconv.ParseInt(s[2:], 16, 64)
		return float64(n), err
	case strings.HasPrefix(s, "0b") || strings.HasPrefix(s, "0B"):
		n, err := strconv.ParseInt(s[2:], 2, 64)
		return float64(n), err
	case len(s) > 1 && s[0] == '0' && isOctalBody(s[1:]):
		n, err := strconv.ParseInt(s[1:], 8, 64)
		return float64(n), err
	default:
		return strconv.ParseFloat(s, 64)
	}
}

func isOctalBody(s string) bool {
	for _, r := range s {
		if r < '0' || r > '7' {
			return false
		}
	}
	return len(s) > 0
}
