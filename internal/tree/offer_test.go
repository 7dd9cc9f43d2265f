package tree

import (
	"testing"

	"github.com/cufyorg/jamplate-processor/internal/ref"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOfferPartNestsInsideParent(t *testing.T) {
	f := NewForest()
	doc := ref.NewPseudoDocument("t", "0123456789")
	root := newTestNode(f, doc, 0, 10, 0)
	inner := newTestNode(f, doc, 2, 5, 0)

	require.NoError(t, f.Offer(root, inner))

	parent, ok := f.Parent(inner)
	require.True(t, ok)
	assert.Equal(t, root, parent)
}

func TestOfferContainBecomesNewAncestor(t *testing.T) {
	f := NewForest()
	doc := ref.NewPseudoDocument("t", "0123456789")
	inner := newTestNode(f, doc, 2, 5, 0)
	outer := newTestNode(f, doc, 0, 10, 0)

	// inner placed first, free-standing; outer offered against it should
	// become inner's parent (CONTAIN dispatch).
	require.NoError(t, f.Offer(inner, outer))

	parent, ok := f.Parent(inner)
	require.True(t, ok)
	assert.Equal(t, outer, parent)
}

func TestOfferContainAbsorbsContiguousSiblings(t *testing.T) {
	f := NewForest()
	doc := ref.NewPseudoDocument("t", "0123456789")
	root := newTestNode(f, doc, 0, 10, 0)
	a := newTestNode(f, doc, 0, 3, 0)
	b := newTestNode(f, doc, 3, 3, 0)
	c := newTestNode(f, doc, 6, 4, 0)
	require.NoError(t, f.Offer(root, a))
	require.NoError(t, f.Offer(root, b))
	require.NoError(t, f.Offer(root, c))

	// ab spans [0,6), CONTAIN-dominates a and b but not c.
	ab := newTestNode(f, doc, 0, 6, 0)
	require.NoError(t, f.Offer(root, ab))

	assert.Equal(t, []NodeID{ab, c}, f.Children(root))
	assert.Equal(t, []NodeID{a, b}, f.Children(ab))
}

func TestOfferExactEqualWeightIsTakeover(t *testing.T) {
	f := NewForest()
	doc := ref.NewPseudoDocument("t", "0123456789")
	a := newTestNode(f, doc, 0, 10, 0)
	b := newTestNode(f, doc, 0, 10, 0)

	err := f.Offer(a, b)
	require.Error(t, err)
	var treeErr *ErrIllegalTree
	require.ErrorAs(t, err, &treeErr)
	assert.Equal(t, Takeover, treeErr.Kind)
}

func TestOfferExactHigherWeightNestsInside(t *testing.T) {
	f := NewForest()
	doc := ref.NewPseudoDocument("t", "0123456789")
	low := newTestNode(f, doc, 0, 10, 0)
	high := newTestNode(f, doc, 0, 10, 1)

	require.NoError(t, f.Offer(low, high))

	parent, ok := f.Parent(high)
	require.True(t, ok)
	assert.Equal(t, low, parent)
}

func TestOfferShareIsFatalClash(t *testing.T) {
	f := NewForest()
	doc := ref.NewPseudoDocument("t", "0123456789")
	a := newTestNode(f, doc, 0, 5, 0)
	b := newTestNode(f, doc, 3, 5, 0)

	err := f.Offer(a, b)
	require.Error(t, err)
	var treeErr *ErrIllegalTree
	require.ErrorAs(t, err, &treeErr)
	assert.Equal(t, Clash, treeErr.Kind)
}

func TestOfferIsIdempotentOnReoffer(t *testing.T) {
	f := NewForest()
	doc := ref.NewPseudoDocument("t", "0123456789")
	root := newTestNode(f, doc, 0, 10, 0)
	a := newTestNode(f, doc, 2, 3, 0)

	require.NoError(t, f.Offer(root, a))
	require.NoError(t, f.Offer(root, a))

	assert.Equal(t, []NodeID{a}, f.Children(root))
}

func TestOfferNoneClimbsToEnclosingAncestor(t *testing.T) {
	f := NewForest()
	doc := ref.NewPseudoDocument("t", "0123456789")
	root := newTestNode(f, doc, 0, 10, 0)
	left := newTestNode(f, doc, 0, 4, 0)
	require.NoError(t, f.Offer(root, left))

	// right is disjoint from left (NONE) but fits inside root.
	right := newTestNode(f, doc, 6, 4, 0)
	require.NoError(t, f.Offer(left, right))

	parent, ok := f.Parent(right)
	require.True(t, ok)
	assert.Equal(t, root, parent)
}

func TestPopDetachesNodeAndPromotesChildren(t *testing.T) {
	f := NewForest()
	doc := ref.NewPseudoDocument("t", "0123456789")
	root := newTestNode(f, doc, 0, 10, 0)
	mid := newTestNode(f, doc, 2, 6, 0)
	leaf := newTestNode(f, doc, 3, 2, 0)
	require.NoError(t, f.Offer(root, mid))
	require.NoError(t, f.Offer(mid, leaf))

	f.Pop(mid)

	assert.True(t, f.IsDetached(mid))
	assert.Equal(t, []NodeID{leaf}, f.Children(root))
	parent, ok := f.Parent(leaf)
	require.True(t, ok)
	assert.Equal(t, root, parent)

	_, hasChild := f.Child(mid)
	assert.False(t, hasChild, "mid must not keep a stale pointer to a child it no longer owns")
}

func TestRemoveDetachesSubtreeWhole(t *testing.T) {
	f := NewForest()
	doc := ref.NewPseudoDocument("t", "0123456789")
	root := newTestNode(f, doc, 0, 10, 0)
	mid := newTestNode(f, doc, 2, 6, 0)
	leaf := newTestNode(f, doc, 3, 2, 0)
	require.NoError(t, f.Offer(root, mid))
	require.NoError(t, f.Offer(mid, leaf))

	f.Remove(mid)

	assert.True(t, f.IsDetached(mid))
	assert.Empty(t, f.Children(root))
	parent, ok := f.Parent(leaf)
	require.True(t, ok)
	assert.Equal(t, mid, parent)
}
