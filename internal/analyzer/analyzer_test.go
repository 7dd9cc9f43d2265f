package analyzer_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cufyorg/jamplate-processor/internal/analyzer"
	"github.com/cufyorg/jamplate-processor/internal/ref"
	"github.com/cufyorg/jamplate-processor/internal/tree"
)

type fakeTarget struct {
	forest *tree.Forest
	doc    ref.Document
}

func (t *fakeTarget) Forest() *tree.Forest   { return t.forest }
func (t *fakeTarget) Document() ref.Document { return t.doc }

func newTarget(content string) (*fakeTarget, tree.NodeID) {
	f := tree.NewForest()
	doc := ref.NewPseudoDocument("doc", content)
	root := f.New(doc, ref.New(0, uint32(len(content))), 0, "document")
	return &fakeTarget{forest: f, doc: doc}, root
}

func TestBinaryOperatorWrapsLeftAndRight(t *testing.T) {
	target, root := newTarget("(1+2)")
	f := target.forest
	num1 := f.New(target.doc, ref.New(1, 1), 0, "number")
	op := f.New(target.doc, ref.New(2, 1), 0, "op")
	num2 := f.New(target.doc, ref.New(3, 1), 0, "number")
	require.NoError(t, f.Offer(root, num1))
	require.NoError(t, f.Offer(root, op))
	require.NoError(t, f.Offer(root, num2))

	a := analyzer.BinaryOperator("expr:add", nil)
	changed, err := a.Analyze(target, op)
	require.NoError(t, err)
	require.True(t, changed)

	kids := f.Children(root)
	require.Len(t, kids, 1)
	wrapper := kids[0]
	require.True(t, f.Sketch(wrapper).Is("expr:add"))
	require.Equal(t, []tree.NodeID{num1, op, num2}, f.Children(wrapper))

	leftRef, ok := f.Sketch(wrapper).Get("left").Range(f)
	require.True(t, ok)
	leftText, err := target.doc.Read(leftRef)
	require.NoError(t, err)
	require.Equal(t, "1", leftText)

	rightRef, ok := f.Sketch(wrapper).Get("right").Range(f)
	require.True(t, ok)
	rightText, err := target.doc.Read(rightRef)
	require.NoError(t, err)
	require.Equal(t, "2", rightText)
}

func TestBinaryOperatorNoOpWithoutBothSiblings(t *testing.T) {
	target, root := newTarget("(+2)")
	f := target.forest
	op := f.New(target.doc, ref.New(1, 1), 0, "op")
	num2 := f.New(target.doc, ref.New(2, 1), 0, "number")
	require.NoError(t, f.Offer(root, op))
	require.NoError(t, f.Offer(root, num2))

	a := analyzer.BinaryOperator("expr:add", nil)
	changed, err := a.Analyze(target, op)
	require.NoError(t, err)
	require.False(t, changed, "op has no previous sibling, so nothing to wrap")
}

func TestBinaryFlowWrapsStartThroughEnd(t *testing.T) {
	target, root := newTarget("(STARTEND)")
	f := target.forest
	start := f.New(target.doc, ref.New(1, 5), 0, "start")
	end := f.New(target.doc, ref.New(6, 3), 0, "end")
	require.NoError(t, f.Offer(root, start))
	require.NoError(t, f.Offer(root, end))

	a := analyzer.BinaryFlow("start", "end", "flow", nil)
	changed, err := a.Analyze(target, start)
	require.NoError(t, err)
	require.True(t, changed)

	kids := f.Children(root)
	require.Len(t, kids, 1)
	require.True(t, f.Sketch(kids[0]).Is("flow"))
	require.Equal(t, []tree.NodeID{start, end}, f.Children(kids[0]))
}

func TestBinaryFlowNoOpWhenNoMatchingEnd(t *testing.T) {
	target, root := newTarget("(START)")
	f := target.forest
	start := f.New(target.doc, ref.New(1, 5), 0, "start")
	require.NoError(t, f.Offer(root, start))

	a := analyzer.BinaryFlow("start", "end", "flow", nil)
	changed, err := a.Analyze(target, start)
	require.NoError(t, err)
	require.False(t, changed)
}

func TestSeparatorsCreatesSlotsBetweenAndAroundCommas(t *testing.T) {
	target, root := newTarget("[1,2,3]")
	f := target.forest
	body := f.New(target.doc, ref.New(1, 5), 0, "body")
	require.NoError(t, f.Offer(root, body))
	comma1 := f.New(target.doc, ref.New(2, 1), 0, "comma")
	comma2 := f.New(target.doc, ref.New(4, 1), 0, "comma")
	require.NoError(t, f.Offer(body, comma1))
	require.NoError(t, f.Offer(body, comma2))

	a := analyzer.Separators(tree.Is("comma"), "slot", nil)
	changed, err := a.Analyze(target, body)
	require.NoError(t, err)
	require.True(t, changed)

	var slots []tree.NodeID
	for _, c := range f.Children(body) {
		if f.Sketch(c).Is("slot") {
			slots = append(slots, c)
		}
	}
	require.Len(t, slots, 3)
	for i, want := range []string{"1", "2", "3"} {
		text, err := target.doc.Read(f.Reference(slots[i]))
		require.NoError(t, err)
		require.Equal(t, want, text)
	}
}

func TestSeparatorsNoOpWithoutAnySeparator(t *testing.T) {
	target, root := newTarget("[123]")
	f := target.forest
	body := f.New(target.doc, ref.New(1, 3), 0, "body")
	require.NoError(t, f.Offer(root, body))

	a := analyzer.Separators(tree.Is("comma"), "slot", nil)
	changed, err := a.Analyze(target, body)
	require.NoError(t, err)
	require.False(t, changed)
}

func TestUnaryPrefixWrapsOperatorAndOperand(t *testing.T) {
	target, root := newTarget("(!A)")
	f := target.forest
	bang := f.New(target.doc, ref.New(1, 1), 0, "bang")
	ident := f.New(target.doc, ref.New(2, 1), 0, "ident")
	require.NoError(t, f.Offer(root, bang))
	require.NoError(t, f.Offer(root, ident))

	a := analyzer.UnaryPrefix("expr:not", nil)
	changed, err := a.Analyze(target, bang)
	require.NoError(t, err)
	require.True(t, changed)

	kids := f.Children(root)
	require.Len(t, kids, 1)
	require.True(t, f.Sketch(kids[0]).Is("expr:not"))
	require.Equal(t, []tree.NodeID{bang, ident}, f.Children(kids[0]))
}

func TestUnaryPrefixDefersOnSameKindChain(t *testing.T) {
	target, root := newTarget("(!!A)")
	f := target.forest
	bang1 := f.New(target.doc, ref.New(1, 1), 0, "bang")
	bang2 := f.New(target.doc, ref.New(2, 1), 0, "bang")
	ident := f.New(target.doc, ref.New(3, 1), 0, "ident")
	require.NoError(t, f.Offer(root, bang1))
	require.NoError(t, f.Offer(root, bang2))
	require.NoError(t, f.Offer(root, ident))

	a := analyzer.UnaryPrefix("expr:not", nil)
	changed, err := a.Analyze(target, bang1)
	require.NoError(t, err)
	require.False(t, changed, "bang1's next is another bang, so it must defer to let bang2 resolve first")
}

func TestHierarchyVisitsSelfAndEveryDescendant(t *testing.T) {
	target, root := newTarget("(1+2)")
	f := target.forest
	num1 := f.New(target.doc, ref.New(1, 1), 0, "number")
	op := f.New(target.doc, ref.New(2, 1), 0, "op")
	num2 := f.New(target.doc, ref.New(3, 1), 0, "number")
	require.NoError(t, f.Offer(root, num1))
	require.NoError(t, f.Offer(root, op))
	require.NoError(t, f.Offer(root, num2))

	var visited []tree.NodeID
	recorder := recordingAnalyzer{visited: &visited}
	_, err := analyzer.Hierarchy(&recorder).Analyze(target, root)
	require.NoError(t, err)
	require.ElementsMatch(t, []tree.NodeID{root, num1, op, num2}, visited)
}

func TestChildrenVisitsDirectChildrenOnly(t *testing.T) {
	target, root := newTarget("(1+2)")
	f := target.forest
	num1 := f.New(target.doc, ref.New(1, 1), 0, "number")
	op := f.New(target.doc, ref.New(2, 1), 0, "op")
	num2 := f.New(target.doc, ref.New(3, 1), 0, "number")
	require.NoError(t, f.Offer(root, num1))
	require.NoError(t, f.Offer(root, op))
	require.NoError(t, f.Offer(root, num2))

	var visited []tree.NodeID
	recorder := recordingAnalyzer{visited: &visited}
	_, err := analyzer.Children(&recorder).Analyze(target, root)
	require.NoError(t, err)
	require.ElementsMatch(t, []tree.NodeID{num1, op, num2}, visited)
}

func TestFilterGatesOnQuery(t *testing.T) {
	target, root := newTarget("anything")
	var visited []tree.NodeID
	recorder := recordingAnalyzer{visited: &visited}

	_, err := analyzer.Filter(&recorder, tree.Is("nonexistent")).Analyze(target, root)
	require.NoError(t, err)
	require.Empty(t, visited)

	_, err = analyzer.Filter(&recorder, tree.Is("document")).Analyze(target, root)
	require.NoError(t, err)
	require.Len(t, visited, 1)
}

func TestFallbackStopsAtFirstChange(t *testing.T) {
	target, root := newTarget("anything")
	first := stubAnalyzer{result: true}
	second := neverCalledAnalyzer{t: t}

	changed, err := analyzer.Fallback(&first, &second).Analyze(target, root)
	require.NoError(t, err)
	require.True(t, changed)
}

func TestDriveRunsUntilNoAnalyzerReportsChange(t *testing.T) {
	target, root := newTarget("anything")
	counter := &countingAnalyzer{remaining: 3}

	err := analyzer.Drive(target, root, []analyzer.Analyzer{counter})
	require.NoError(t, err)
	require.Equal(t, 0, counter.remaining)
	require.Equal(t, 4, counter.calls, "three changing rounds plus one confirming round with no change")
}

type recordingAnalyzer struct{ visited *[]tree.NodeID }

func (r *recordingAnalyzer) Analyze(target analyzer.Target, self tree.NodeID) (bool, error) {
	*r.visited = append(*r.visited, self)
	return false, nil
}

type stubAnalyzer struct{ result bool }

func (s *stubAnalyzer) Analyze(analyzer.Target, tree.NodeID) (bool, error) { return s.result, nil }

type neverCalledAnalyzer struct{ t *testing.T }

func (n *neverCalledAnalyzer) Analyze(analyzer.Target, tree.NodeID) (bool, error) {
	n.t.Fatal("Fallback must not invoke an analyzer after an earlier one reported a change")
	return false, nil
}

type countingAnalyzer struct {
	remaining int
	calls     int
}

func (c *countingAnalyzer) Analyze(analyzer.Target, tree.NodeID) (bool, error) {
	c.calls++
	if c.remaining > 0 {
		c.remaining--
		return true, nil
	}
	return false, nil
}
