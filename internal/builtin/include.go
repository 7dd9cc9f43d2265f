package builtin

import (
	"regexp"
	"strings"

	"github.com/cufyorg/jamplate-processor/internal/compiler"
	"github.com/cufyorg/jamplate-processor/internal/instr"
	"github.com/cufyorg/jamplate-processor/internal/parser"
	"github.com/cufyorg/jamplate-processor/internal/spec"
	"github.com/cufyorg/jamplate-processor/internal/tree"
)

var includePattern = regexp.MustCompile(`(?m)^#include\s+(?P<name>[^\n]*)\n?`)

// includeGuard tracks the chain of document names currently being
// recursively compiled by #include, guarding against include cycles.
// Reset at the start of every Compile action by resetIncludeGuard — this
// Spec's #include does not support two Units compiling concurrently
// against the same root Spec value (see DESIGN.md).
var includeGuard []string

func resetIncludeGuard(c *spec.Compilation) (bool, error) {
	includeGuard = nil
	return false, nil
}

// envTarget is the subset of *spec.Compilation a #include needs beyond
// compiler.Target: access to the Environment holding every other
// Compilation registered alongside it.
type envTarget interface {
	compiler.Target
	Environment() *spec.Environment
}

// includeSpec recognizes `#include NAME`, resolving NAME against another
// Compilation already registered in the same Environment — no filesystem
// traversal.
func includeSpec() *spec.Spec {
	s := spec.New("directive:include")
	s.Parser = parser.Group(includePattern, "directive:include", nil, nil)
	s.PreCompile = []spec.Processor{resetIncludeGuard}
	s.Compiler = compiler.Filter(includeCompiler, tree.Is("directive:include"))
	return s
}

func includeCompiler(root compiler.Compiler, target compiler.Target, self tree.NodeID) (instr.Instruction, error) {
	f := target.Forest()
	sk := f.Sketch(self)
	at := srcOf(target, self)

	nameID, _ := sk.Get("name").Tree()
	raw, err := target.Document().Read(f.Reference(nameID))
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(raw)

	et, ok := target.(envTarget)
	if !ok {
		return nil, &compiler.CompileError{Self: self, Kind: "directive:include"}
	}
	included, found := et.Environment().Compilation(name)
	if !found {
		return nil, &compiler.CompileError{Self: self, Kind: "directive:include"}
	}

	for _, seen := range includeGuard {
		if seen == name {
			return instr.NewIdle(at), nil
		}
	}
	includeGuard = append(includeGuard, name)
	inst, err := compiler.Compile(root, included, included.Root())
	includeGuard = includeGuard[:len(includeGuard)-1]
	if err != nil {
		return nil, err
	}
	return inst, nil
}
