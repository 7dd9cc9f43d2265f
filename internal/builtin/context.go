package builtin

import (
	"github.com/cufyorg/jamplate-processor/internal/parser"
	"github.com/cufyorg/jamplate-processor/internal/tree"
)

// exprContext matches every tree kind that actually holds an expression:
// an injection body, a parenthesized group, an array/object literal (whose
// elements are expressions), and the "cond"/"iterable"/"value" components
// Group materializes for #if/#while conditions, #for's iterable, and the
// value slot of #declare/#define/#make/#spread/#error/#message/#console.
//
// Every number/string/boolean/reference/operator Parser in this package is
// scoped behind this query so none of them ever fires against plain
// document text sitting outside any directive — only textSpec claims that.
var exprContext = tree.Or(
	tree.Is("injection"),
	tree.Is("group:paren"),
	tree.Is("literal:array"),
	tree.Is("literal:object"),
	tree.Is("component:cond"),
	tree.Is("component:iterable"),
	tree.Is("component:value"),
)

// exprParser scopes p to exprContext.
func exprParser(p parser.Parser) parser.Parser {
	return parser.Filter(p, exprContext)
}
