package dump_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vinivendra/Gryphon-sub003/pkg/dump"
)

func TestNode_FindAndVisit(t *testing.T) {
	t.Parallel()

	root, err := dump.Decode(`(a (b (c)) (c) (d (c x)))`)
	require.NoError(t, err)

	var order []string

	root.VisitPreOrder(func(n *dump.Node) {
		order = append(order, n.Name)
	})

	assert.Equal(t, []string{"a", "b", "c", "c", "d", "c"}, order)

	found := root.Find(func(n *dump.Node) bool { return n.Name == "c" })
	require.Len(t, found, 3)
	assert.True(t, found[2].HasFlag("x"))

	assert.Len(t, root.ChildrenNamed("c"), 1)
	assert.Nil(t, root.Child("missing"))
}

func TestNode_NilSafety(t *testing.T) {
	t.Parallel()

	var node *dump.Node

	_, ok := node.Attr("x")
	assert.False(t, ok)
	assert.Empty(t, node.FirstStandalone())
	assert.Nil(t, node.Child("x"))
	assert.Equal(t, "nil", node.String())
	assert.True(t, dump.Equal(nil, nil))
	assert.False(t, dump.Equal(nil, &dump.Node{}))
}

func TestNode_String(t *testing.T) {
	t.Parallel()

	root, err := dump.Decode(`(call_expr implicit (x))`)
	require.NoError(t, err)

	assert.Equal(t, "Node{Name:call_expr,Standalone:implicit,Children:1}", root.String())
}

func TestEqual_IgnoresPositions(t *testing.T) {
	t.Parallel()

	left, err := dump.Decode(`(a x (b))`)
	require.NoError(t, err)

	right, err := dump.Decode("\n\n   (a   x\n (b))")
	require.NoError(t, err)

	assert.True(t, dump.Equal(left, right))

	right.Children[0].Standalone = []string{"y"}
	assert.False(t, dump.Equal(left, right))
}
