package dom

import (
	"strings"

	"github.com/google/uuid"
)

// Node is one element of the host-owned UI tree. Nodes carry a tag, a set of
// classes and their own text content; rendered text for a subtree is derived
// on demand via Text. Node identity is the pointer plus a stable ID that
// survives re-parenting but not replacement.
//
// A Document and the nodes attached to it must only be mutated from a single
// goroutine; the tree performs no locking of its own.
type Node struct {
	id       string
	tag      string
	classes  []string
	text     string
	parent   *Node
	children []*Node
	doc      *Document
}

// NewNode creates a detached node with the given tag and classes
func NewNode(tag string, classes ...string) *Node {
	return &Node{
		id:      uuid.NewString(),
		tag:     tag,
		classes: append([]string(nil), classes...),
	}
}

// ID returns the node's stable identifier
func (n *Node) ID() string {
	return n.id
}

// Tag returns the node's tag
func (n *Node) Tag() string {
	return n.tag
}

// Parent returns the node's parent, or nil for a root or detached node
func (n *Node) Parent() *Node {
	return n.parent
}

// Children returns a copy of the node's child list
func (n *Node) Children() []*Node {
	return append([]*Node(nil), n.children...)
}

// HasClass reports whether the node carries the given class
func (n *Node) HasClass(class string) bool {
	for _, c := range n.classes {
		if c == class {
			return true
		}
	}
	return false
}

// AddClass adds a class to the node. Adding a class does not produce a
// mutation record; the observer stream reports node additions and text
// changes only.
func (n *Node) AddClass(class string) {
	if n.HasClass(class) {
		return
	}
	n.classes = append(n.classes, class)
}

// RemoveClass removes a class from the node if present
func (n *Node) RemoveClass(class string) {
	for i, c := range n.classes {
		if c == class {
			n.classes = append(n.classes[:i], n.classes[i+1:]...)
			return
		}
	}
}

// Classes returns a copy of the node's class list
func (n *Node) Classes() []string {
	return append([]string(nil), n.classes...)
}

// OwnText returns only this node's text, excluding descendants
func (n *Node) OwnText() string {
	return n.text
}

// Text returns the node's text concatenated with all descendant text in
// document order. The snapshot is derived each call, never cached.
func (n *Node) Text() string {
	var sb strings.Builder
	n.collectText(&sb)
	return sb.String()
}

func (n *Node) collectText(sb *strings.Builder) {
	sb.WriteString(n.text)
	for _, c := range n.children {
		c.collectText(sb)
	}
}

// SetText replaces the node's own text and emits a text-change record
// carrying the node's parent (or the node itself at the tree root)
func (n *Node) SetText(text string) {
	n.text = text
	n.notifyTextChanged()
}

// AppendText appends to the node's own text and emits a text-change record
func (n *Node) AppendText(text string) {
	n.text += text
	n.notifyTextChanged()
}

func (n *Node) notifyTextChanged() {
	if n.doc == nil {
		return
	}
	target := n.parent
	if target == nil {
		target = n
	}
	n.doc.notify(MutationRecord{TextChanged: target})
}

// AppendChild attaches child (and its subtree) as the last child of n,
// detaching it from any previous parent first. If n is attached to a
// document, the addition is reported on the mutation stream.
func (n *Node) AppendChild(child *Node) {
	if child.parent != nil {
		child.parent.RemoveChild(child)
	}
	child.parent = n
	n.children = append(n.children, child)
	if n.doc != nil {
		child.setDocument(n.doc)
		n.doc.notify(MutationRecord{Added: []*Node{child}})
	}
}

// RemoveChild detaches child from n. Removals are not reported on the
// mutation stream; consumers detect disappearance lazily via Attached.
func (n *Node) RemoveChild(child *Node) {
	for i, c := range n.children {
		if c == child {
			n.children = append(n.children[:i], n.children[i+1:]...)
			child.parent = nil
			child.setDocument(nil)
			return
		}
	}
}

func (n *Node) setDocument(doc *Document) {
	n.doc = doc
	for _, c := range n.children {
		c.setDocument(doc)
	}
}

// Attached reports whether the node is currently reachable from a document
// root
func (n *Node) Attached() bool {
	return n.doc != nil
}

// Document returns the document the node is attached to, or nil
func (n *Node) Document() *Document {
	return n.doc
}

// Walk visits n and its descendants in document order. Returning false from
// the visitor stops the walk.
func (n *Node) Walk(visit func(*Node) bool) {
	n.walk(visit)
}

func (n *Node) walk(visit func(*Node) bool) bool {
	if !visit(n) {
		return false
	}
	for _, c := range n.children {
		if !c.walk(visit) {
			return false
		}
	}
	return true
}

// Find returns the first node in document order (including n itself) that
// satisfies pred, or nil
func (n *Node) Find(pred func(*Node) bool) *Node {
	var found *Node
	n.Walk(func(node *Node) bool {
		if pred(node) {
			found = node
			return false
		}
		return true
	})
	return found
}

// FindAll returns every node in document order (including n itself) that
// satisfies pred
func (n *Node) FindAll(pred func(*Node) bool) []*Node {
	var found []*Node
	n.Walk(func(node *Node) bool {
		if pred(node) {
			found = append(found, node)
		}
		return true
	})
	return found
}

// Closest walks from n upward through at most maxLevels ancestors (n itself
// is level zero) and returns the first node satisfying pred, or nil
func (n *Node) Closest(pred func(*Node) bool, maxLevels int) *Node {
	node := n
	for level := 0; node != nil && level <= maxLevels; level++ {
		if pred(node) {
			return node
		}
		node = node.parent
	}
	return nil
}

// Descendant returns the first descendant of n (n excluded) within maxDepth
// levels that satisfies pred, or nil
func (n *Node) Descendant(pred func(*Node) bool, maxDepth int) *Node {
	if maxDepth <= 0 {
		return nil
	}
	for _, c := range n.children {
		if pred(c) {
			return c
		}
		if found := c.Descendant(pred, maxDepth-1); found != nil {
			return found
		}
	}
	return nil
}
