package memory_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cufyorg/jamplate-processor/internal/memory"
	"github.com/cufyorg/jamplate-processor/internal/value"
)

func TestNewHasOneRootFrame(t *testing.T) {
	mem := memory.New()
	require.Equal(t, 1, mem.Depth())
	require.Same(t, mem.Root(), mem.Top())
}

func TestPushPopFrame(t *testing.T) {
	mem := memory.New()
	mem.PushFrame(nil)
	require.Equal(t, 2, mem.Depth())
	require.NotSame(t, mem.Root(), mem.Top())

	fr, err := mem.PopFrame()
	require.NoError(t, err)
	require.NotNil(t, fr)
	require.Equal(t, 1, mem.Depth())
}

func TestPopFrameRefusesToPopRoot(t *testing.T) {
	mem := memory.New()
	_, err := mem.PopFrame()
	require.Error(t, err)
}

func TestDumpFrameMergesConsoleOnly(t *testing.T) {
	mem := memory.New()
	mem.Top().Print("outer-")
	mem.PushFrame(nil)
	mem.Top().Print("inner")
	mem.Top().Push(value.Text("operand"))
	mem.Set("x", value.Number(1))

	popped, err := mem.DumpFrame()
	require.NoError(t, err)
	require.Equal(t, "inner", popped.Console.String())

	require.Equal(t, "outer-inner", mem.Top().Console.String())
	require.Equal(t, 0, mem.Top().Len(), "DumpFrame must not carry over the popped frame's operand stack")
	_, ok := mem.Access("x")
	require.False(t, ok, "DumpFrame must not carry over the popped frame's heap")
}

func TestFrameStackPushPopPeek(t *testing.T) {
	fr := &memory.Frame{Heap: map[string]value.Value{}}
	_, err := fr.Pop()
	require.Error(t, err, "popping an empty stack is an underflow")

	fr.Push(value.Number(1))
	fr.Push(value.Number(2))
	require.Equal(t, 2, fr.Len())

	top, err := fr.Peek()
	require.NoError(t, err)
	require.Equal(t, value.Number(2), top)
	require.Equal(t, 2, fr.Len(), "Peek must not consume")

	v, err := fr.Pop()
	require.NoError(t, err)
	require.Equal(t, value.Number(2), v)
	require.Equal(t, 1, fr.Len())
}

func TestAllocWritesToRootFrameRegardlessOfDepth(t *testing.T) {
	mem := memory.New()
	mem.PushFrame(nil)
	mem.PushFrame(nil)
	mem.Alloc("g", value.Text("global"))

	v, ok := mem.Root().Heap["g"]
	require.True(t, ok)
	require.Equal(t, value.Text("global"), v)
}

func TestSetWritesOnlyToTopFrame(t *testing.T) {
	mem := memory.New()
	mem.PushFrame(nil)
	mem.Set("x", value.Text("local"))

	_, ok := mem.Root().Heap["x"]
	require.False(t, ok)

	v, ok := mem.Top().Heap["x"]
	require.True(t, ok)
	require.Equal(t, value.Text("local"), v)
}

func TestAccessShadowsInnerOverOuter(t *testing.T) {
	mem := memory.New()
	mem.Alloc("x", value.Text("outer"))
	mem.PushFrame(nil)
	mem.Set("x", value.Text("inner"))

	v, ok := mem.Access("x")
	require.True(t, ok)
	require.Equal(t, value.Text("inner"), v)

	_, err := mem.PopFrame()
	require.NoError(t, err)

	v, ok = mem.Access("x")
	require.True(t, ok)
	require.Equal(t, value.Text("outer"), v)
}

func TestAccessMissingNameReportsNotFound(t *testing.T) {
	mem := memory.New()
	_, ok := mem.Access("never-bound")
	require.False(t, ok)
}

func TestExecutionErrorMessage(t *testing.T) {
	err := &memory.ExecutionError{Message: "stack underflow"}
	require.Equal(t, "execution error: stack underflow", err.Error())
}
