package enhance

import (
	"github.com/killallgit/garnish/pkg/dom"
	"github.com/killallgit/garnish/pkg/logger"
)

// Detector answers whether an authoritative "output finished" signal exists
// for a content block. It is a pure query over the current tree; it holds no
// state of its own.
type Detector struct {
	log *logger.Logger
}

// NewDetector creates a completion detector
func NewDetector() *Detector {
	return &Detector{
		log: logger.WithComponent("detector"),
	}
}

// HasCompletionMarker walks the block's ancestor chain up to
// markerClimbLevels looking for an ancestor that contains a completion
// marker. A marker certifies completion for the whole list under that
// ancestor, not per block: it appears once the most recent message has
// finished, so it proves completion only for the LAST content block there.
// Returns false when no marker is found within the bound (undetermined;
// the caller falls back to idle and timeout heuristics).
func (d *Detector) HasCompletionMarker(block *dom.Node) bool {
	ancestor := block
	for level := 0; ancestor != nil && level < markerClimbLevels; level++ {
		if ancestor.Find(IsCompletionMarker) != nil {
			blocks := ancestor.FindAll(IsContentBlock)
			if len(blocks) == 0 {
				return false
			}
			return blocks[len(blocks)-1] == block
		}
		ancestor = ancestor.Parent()
	}
	return false
}

// MarkersPresent reports whether any completion marker exists anywhere in
// the document. A tree with zero markers means the feedback mechanism is
// not in play this session and the idle heuristic alone decides stability.
func (d *Detector) MarkersPresent(doc *dom.Document) bool {
	return doc.Root().Find(IsCompletionMarker) != nil
}
