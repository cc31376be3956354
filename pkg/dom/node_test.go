package dom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNodeClasses(t *testing.T) {
	n := NewNode("div", ClassMessage)

	assert.True(t, n.HasClass(ClassMessage))
	assert.False(t, n.HasClass(ClassContent))

	n.AddClass(ClassContent)
	assert.True(t, n.HasClass(ClassContent))

	// Adding twice must not duplicate
	n.AddClass(ClassContent)
	assert.Len(t, n.Classes(), 2)

	n.RemoveClass(ClassContent)
	assert.False(t, n.HasClass(ClassContent))
}

func TestTextIsDerivedFromSubtree(t *testing.T) {
	block := NewNode("div", ClassContent)
	para := NewNode("p")
	para.SetText("Hello ")
	code := NewNode("code")
	code.SetText("world")
	block.AppendChild(para)
	block.AppendChild(code)

	assert.Equal(t, "Hello world", block.Text())

	code.AppendText("!")
	assert.Equal(t, "Hello world!", block.Text())
	assert.Equal(t, "", block.OwnText())
}

func TestAttachmentFollowsDocumentMembership(t *testing.T) {
	doc := NewDocument()
	msg := NewNode("div", ClassMessage)
	inner := NewNode("div", ClassContent)
	msg.AppendChild(inner)

	assert.False(t, msg.Attached())
	assert.False(t, inner.Attached())

	doc.Root().AppendChild(msg)
	assert.True(t, msg.Attached())
	assert.True(t, inner.Attached(), "attachment must propagate to the subtree")

	doc.Root().RemoveChild(msg)
	assert.False(t, msg.Attached())
	assert.False(t, inner.Attached(), "detachment must propagate to the subtree")
}

func TestAppendChildReparents(t *testing.T) {
	doc := NewDocument()
	a := NewNode("div")
	b := NewNode("div")
	child := NewNode("span")
	doc.Root().AppendChild(a)
	doc.Root().AppendChild(b)

	a.AppendChild(child)
	require.Equal(t, a, child.Parent())

	b.AppendChild(child)
	assert.Equal(t, b, child.Parent())
	assert.Empty(t, a.Children())
}

func TestFindAllDocumentOrder(t *testing.T) {
	doc := NewDocument()
	first := NewNode("div", ClassContent)
	second := NewNode("div", ClassContent)
	wrapper := NewNode("div")
	wrapper.AppendChild(second)
	doc.Root().AppendChild(first)
	doc.Root().AppendChild(wrapper)

	blocks := doc.Root().FindAll(func(n *Node) bool { return n.HasClass(ClassContent) })
	require.Len(t, blocks, 2)
	assert.Equal(t, first, blocks[0])
	assert.Equal(t, second, blocks[1])
}

func TestClosestIsDepthBounded(t *testing.T) {
	top := NewNode("div", ClassConversation)
	mid := NewNode("div")
	leaf := NewNode("span")
	top.AppendChild(mid)
	mid.AppendChild(leaf)

	pred := func(n *Node) bool { return n.HasClass(ClassConversation) }
	assert.Equal(t, top, leaf.Closest(pred, 2))
	assert.Nil(t, leaf.Closest(pred, 1), "ancestor beyond the level bound must not match")
	assert.Equal(t, top, top.Closest(pred, 0), "level zero is the node itself")
}

func TestDescendantIsDepthBounded(t *testing.T) {
	root := NewNode("div")
	mid := NewNode("div")
	deep := NewNode("div", ClassContent)
	root.AppendChild(mid)
	mid.AppendChild(deep)

	pred := func(n *Node) bool { return n.HasClass(ClassContent) }
	assert.Equal(t, deep, root.Descendant(pred, 2))
	assert.Nil(t, root.Descendant(pred, 1))
}
