// Package memory implements the stack-machine execution state: Memory is a
// stack of Frames, each with its own operand stack, console buffer, and
// local heap.
package memory

import (
	"fmt"
	"strings"

	"github.com/cufyorg/jamplate-processor/internal/invariant"
	"github.com/cufyorg/jamplate-processor/internal/value"
)

// ExecutionError reports instruction misuse at runtime — wrong Value
// variant, stack underflow, an empty frame stack.
type ExecutionError struct {
	Message string
}

func (e *ExecutionError) Error() string { return "execution error: " + e.Message }

func errf(format string, args ...interface{}) error {
	return &ExecutionError{Message: fmt.Sprintf(format, args...)}
}

// Frame is one layer of the execution stack: an operand stack of Values, a
// console buffer, and a local heap of name→Value bindings. Source records
// whatever triggered this frame's creation (an instruction, a tree — kept
// as `any` so memory has no dependency on instr or tree).
type Frame struct {
	Stack   []value.Value
	Console strings.Builder
	Heap    map[string]value.Value
	Source  any
}

func newFrame(source any) *Frame {
	return &Frame{Heap: map[string]value.Value{}, Source: source}
}

// Push pushes v onto the frame's operand stack.
func (fr *Frame) Push(v value.Value) { fr.Stack = append(fr.Stack, v) }

// Pop pops the top of the frame's operand stack.
func (fr *Frame) Pop() (value.Value, error) {
	n := len(fr.Stack)
	if n == 0 {
		return nil, errf("stack underflow")
	}
	v := fr.Stack[n-1]
	fr.Stack = fr.Stack[:n-1]
	return v, nil
}

// Peek returns the top of the frame's operand stack without popping it.
func (fr *Frame) Peek() (value.Value, error) {
	n := len(fr.Stack)
	if n == 0 {
		return nil, errf("stack underflow")
	}
	return fr.Stack[n-1], nil
}

// Len reports the frame's operand stack depth.
func (fr *Frame) Len() int { return len(fr.Stack) }

// Print appends s to this frame's console.
func (fr *Frame) Print(s string) { fr.Console.WriteString(s) }

// Memory is a stack of Frames. The bottom (index 0) frame is the root
// frame; the top (last index) frame is the innermost.
type Memory struct {
	frames []*Frame
}

// New creates a Memory with a single root frame.
func New() *Memory {
	return &Memory{frames: []*Frame{newFrame(nil)}}
}

// PushFrame pushes a new, empty frame as the innermost frame.
func (m *Memory) PushFrame(source any) {
	m.frames = append(m.frames, newFrame(source))
}

// PopFrame pops the innermost frame, provided it is not the root frame.
func (m *Memory) PopFrame() (*Frame, error) {
	n := len(m.frames)
	if n <= 1 {
		return nil, errf("cannot pop the root frame")
	}
	fr := m.frames[n-1]
	m.frames = m.frames[:n-1]
	return fr, nil
}

// DumpFrame pops the innermost frame and merges its console into the
// frame now on top.
func (m *Memory) DumpFrame() (*Frame, error) {
	popped, err := m.PopFrame()
	if err != nil {
		return nil, err
	}
	m.Top().Console.WriteString(popped.Console.String())
	return popped, nil
}

// Top returns the innermost frame. There is always at least the root
// frame, so this never fails.
func (m *Memory) Top() *Frame {
	invariant.Check(len(m.frames) > 0, "memory: frame stack must never be empty")
	return m.frames[len(m.frames)-1]
}

// Root returns the outermost frame.
func (m *Memory) Root() *Frame {
	invariant.Check(len(m.frames) > 0, "memory: frame stack must never be empty")
	return m.frames[0]
}

// Depth reports the number of live frames.
func (m *Memory) Depth() int { return len(m.frames) }

// Print writes s to the innermost frame's console.
func (m *Memory) Print(s string) { m.Top().Print(s) }

// Alloc binds name to v in the outermost (root) frame's heap.
func (m *Memory) Alloc(name string, v value.Value) { m.Root().Heap[name] = v }

// Set binds name to v in the innermost (top) frame's heap only.
func (m *Memory) Set(name string, v value.Value) { m.Top().Heap[name] = v }

// Access looks up name by walking frames innermost-to-outermost, so inner
// frames shadow outer ones. It satisfies value.Resolver.
func (m *Memory) Access(name string) (value.Value, bool) {
	for i := len(m.frames) - 1; i >= 0; i-- {
		if v, ok := m.frames[i].Heap[name]; ok {
			return v, true
		}
	}
	return nil, false
}
