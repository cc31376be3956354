package enhance

import (
	"github.com/killallgit/garnish/pkg/dom"
)

// Depth bounds for tree walks. Tunables, not magic: the climb bound is deep
// enough to reach the conversation container from any block in the
// transcripts we target, and the probe bound covers a message container's
// internal nesting.
const (
	// markerClimbLevels bounds the ancestor walk when searching for a
	// completion marker
	markerClimbLevels = 20

	// rootProbeDepth bounds the descendant search during scan-root
	// resolution
	rootProbeDepth = 6
)

// IsContentBlock reports whether a node has the content-block shape: the
// container of one streamed message's rendered text
func IsContentBlock(n *dom.Node) bool {
	return n.HasClass(dom.ClassContent)
}

// IsCompletionMarker reports whether a node is a completion marker, an
// element the host renders only once a message's output has finished
func IsCompletionMarker(n *dom.Node) bool {
	return n.HasClass(dom.ClassFeedback)
}

// IsDiagramFragment reports whether a node has the diagram-source shape
func IsDiagramFragment(n *dom.Node) bool {
	return n.HasClass(dom.ClassDiagram)
}

// IsProcessed reports whether the finalizing transforms already ran on this
// node. The marker lives on the node itself, so a host-replaced node is
// naturally unprocessed and gets re-detected.
func IsProcessed(n *dom.Node) bool {
	return n.HasClass(dom.ClassEnhanced)
}

// MarkProcessed records on the node that the finalizing transforms ran
func MarkProcessed(n *dom.Node) {
	n.AddClass(dom.ClassEnhanced)
}

// HasCopyButton reports whether a container already holds an injected copy
// affordance among its immediate children
func HasCopyButton(container *dom.Node) bool {
	for _, c := range container.Children() {
		if c.HasClass(dom.ClassCopyButton) {
			return true
		}
	}
	return false
}
