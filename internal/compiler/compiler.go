// Package compiler implements the Compiler framework: combinators that
// lower an annotated Tree to an Instruction.
package compiler

import (
	"fmt"

	"github.com/cufyorg/jamplate-processor/internal/instr"
	"github.com/cufyorg/jamplate-processor/internal/ref"
	"github.com/cufyorg/jamplate-processor/internal/tree"
)

// Target is what a Compiler needs from its Compilation.
type Target interface {
	Forest() *tree.Forest
	Document() ref.Document
}

// Compiler lowers self to an Instruction, or returns (nil, nil) if it has
// nothing to contribute for self. root is the top-level composed Compiler,
// passed through so a nested combinator can re-enter the full dispatcher
// (see Fallback).
type Compiler func(root Compiler, target Target, self tree.NodeID) (instr.Instruction, error)

// CompileError reports that no Compiler produced an instruction for a
// required sub-component, carrying the offending tree.
type CompileError struct {
	Self tree.NodeID
	Kind string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("compile error: no compiler matched tree %d (kind %q)", e.Self, e.Kind)
}

func source(target Target, self tree.NodeID) instr.Source {
	return instr.Source{Document: target.Document(), Reference: target.Forest().Reference(self)}
}

// Filter only invokes c when query matches self.
func Filter(c Compiler, query tree.Query) Compiler {
	return func(root Compiler, target Target, self tree.NodeID) (instr.Instruction, error) {
		if !query(target.Forest(), self) {
			return nil, nil
		}
		return c(root, target, self)
	}
}

// First returns the first non-nil result among cs, in order.
func First(cs ...Compiler) Compiler {
	return func(root Compiler, target Target, self tree.NodeID) (instr.Instruction, error) {
		for _, c := range cs {
			inst, err := c(root, target, self)
			if err != nil {
				return nil, err
			}
			if inst != nil {
				return inst, nil
			}
		}
		return nil, nil
	}
}

// Combine emits a Block of every cs result, dropping nil entries.
func Combine(cs ...Compiler) Compiler {
	return func(root Compiler, target Target, self tree.NodeID) (instr.Instruction, error) {
		var children []instr.Instruction
		for _, c := range cs {
			inst, err := c(root, target, self)
			if err != nil {
				return nil, err
			}
			if inst != nil {
				children = append(children, inst)
			}
		}
		if len(children) == 0 {
			return nil, nil
		}
		return instr.NewBlock(source(target, self), children...), nil
	}
}

// Flatten applies c to each direct child of self (not self) and returns
// their Block — "compile the body with the outer dispatcher".
func Flatten(c Compiler) Compiler {
	return func(root Compiler, target Target, self tree.NodeID) (instr.Instruction, error) {
		children := target.Forest().Children(self)
		out := make([]instr.Instruction, 0, len(children))
		for _, child := range children {
			inst, err := c(root, target, child)
			if err != nil {
				return nil, err
			}
			if inst != nil {
				out = append(out, inst)
			}
		}
		return instr.NewBlock(source(target, self), out...), nil
	}
}

// Fallback delegates to the root compiler, for re-entering the top-level
// dispatcher from inside a nested Flatten/First chain.
var Fallback Compiler = func(root Compiler, target Target, self tree.NodeID) (instr.Instruction, error) {
	return root(root, target, self)
}

// Compile runs c as its own root, the entry point a Unit driver calls.
func Compile(c Compiler, target Target, self tree.NodeID) (instr.Instruction, error) {
	return c(c, target, self)
}
