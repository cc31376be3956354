package enhance

import (
	"github.com/killallgit/garnish/pkg/dom"
	"github.com/killallgit/garnish/pkg/logger"
)

// Scanner walks one scan root, enumerates the content blocks and standalone
// diagram fragments it contains, and routes each to the right place: blocks
// go through completion detection and deferral, standalone diagrams render
// immediately since nothing streams into them.
type Scanner struct {
	detector  *Detector
	scheduler *DeferredScheduler
	dispatch  *Dispatcher
	log       *logger.Logger
}

// NewScanner creates a scanner
func NewScanner(detector *Detector, scheduler *DeferredScheduler, dispatch *Dispatcher) *Scanner {
	return &Scanner{
		detector:  detector,
		scheduler: scheduler,
		dispatch:  dispatch,
		log:       logger.WithComponent("scanner"),
	}
}

// Scan enumerates root (itself included) for content blocks and standalone
// diagram fragments and routes each
func (s *Scanner) Scan(root *dom.Node) {
	blocks := root.FindAll(IsContentBlock)
	for _, block := range blocks {
		s.enter(block)
	}

	// Diagram fragments inside a content block are handled by that block's
	// finalize pipeline; only fragments outside every block render here
	for _, frag := range root.FindAll(IsDiagramFragment) {
		if frag.Closest(IsContentBlock, markerClimbLevels) != nil {
			continue
		}
		s.dispatch.RenderDiagram(frag)
	}
}

// enter is the render-entry routine for one content block
func (s *Scanner) enter(block *dom.Node) {
	if IsProcessed(block) {
		return
	}
	if s.detector.HasCompletionMarker(block) {
		s.dispatch.Finalize(block)
		return
	}
	s.scheduler.Schedule(block)
}
