package enhance

import (
	"time"

	"github.com/killallgit/garnish/pkg/dom"
	"github.com/killallgit/garnish/pkg/logger"
)

// deferredEntry is the scheduling record for one armed content block
type deferredEntry struct {
	node       *dom.Node
	lastText   string
	lastChange time.Time
	timer      Timer
}

// DeferredScheduler decides when a streaming content block has finished by
// sampling its text on a fixed timer interval and applying idle-time and
// max-wait heuristics. At most one entry (and one timer chain) exists per
// block. Entries are keyed by node ID and hold no authority over the node's
// lifetime: a block that leaves the tree is detected on the next fire and
// dropped without rendering.
type DeferredScheduler struct {
	doc      *dom.Document
	detector *Detector
	clock    Clock
	post     func(func())
	finalize func(*dom.Node)

	idleDelay time.Duration
	maxWait   time.Duration

	entries map[string]*deferredEntry
	log     *logger.Logger
}

// NewDeferredScheduler creates a scheduler. Timer callbacks are delivered
// through post so all state changes happen on the run loop.
func NewDeferredScheduler(doc *dom.Document, detector *Detector, cfg Config, clock Clock, post func(func())) *DeferredScheduler {
	return &DeferredScheduler{
		doc:       doc,
		detector:  detector,
		clock:     clock,
		post:      post,
		idleDelay: cfg.IdleDelay,
		maxWait:   cfg.MaxWait,
		entries:   make(map[string]*deferredEntry),
		log:       logger.WithComponent("scheduler"),
	}
}

// SetFinalizer wires the render entry point invoked when a block is decided
// complete. Must be called before the first Schedule.
func (s *DeferredScheduler) SetFinalizer(fn func(*dom.Node)) {
	s.finalize = fn
}

// Schedule arms deferral for a block. If the block is already armed, only
// its comparison baseline is refreshed; a second timer is never created.
func (s *DeferredScheduler) Schedule(block *dom.Node) {
	if entry, ok := s.entries[block.ID()]; ok {
		text := block.Text()
		if text != entry.lastText {
			entry.lastText = text
			entry.lastChange = s.clock.Now()
		}
		return
	}

	entry := &deferredEntry{
		node:       block,
		lastText:   block.Text(),
		lastChange: s.clock.Now(),
	}
	s.entries[block.ID()] = entry
	s.arm(entry)
	s.log.Debug("block armed", "id", block.ID())
}

// Cancel drops a block's entry and stops its timer, if armed
func (s *DeferredScheduler) Cancel(block *dom.Node) {
	if entry, ok := s.entries[block.ID()]; ok {
		if entry.timer != nil {
			entry.timer.Stop()
		}
		delete(s.entries, block.ID())
	}
}

// Pending returns the number of armed blocks
func (s *DeferredScheduler) Pending() int {
	return len(s.entries)
}

// Sweep drops entries whose nodes are no longer reachable. The fire path
// already handles disappearance lazily; the sweep just keeps the side table
// from accumulating dead entries between fires.
func (s *DeferredScheduler) Sweep() {
	for id, entry := range s.entries {
		if !entry.node.Attached() {
			if entry.timer != nil {
				entry.timer.Stop()
			}
			delete(s.entries, id)
		}
	}
}

// arm starts the entry's timer for one idle-delay interval. The callback
// hops onto the run loop before touching any state.
func (s *DeferredScheduler) arm(entry *deferredEntry) {
	id := entry.node.ID()
	entry.timer = s.clock.AfterFunc(s.idleDelay, func() {
		s.post(func() {
			s.fire(id)
		})
	})
}

// fire evaluates the state machine for one block on a timer tick
func (s *DeferredScheduler) fire(id string) {
	entry, ok := s.entries[id]
	if !ok {
		// Cancelled or already finalized between arming and delivery
		return
	}
	block := entry.node

	// Rule 1: a block that left the tree is dropped without rendering
	if !block.Attached() {
		delete(s.entries, id)
		s.log.Debug("armed block detached, dropping", "id", id)
		return
	}

	// Rule 2: still streaming; take a fresh baseline and keep waiting
	now := s.clock.Now()
	text := block.Text()
	if text != entry.lastText {
		entry.lastText = text
		entry.lastChange = now
		s.arm(entry)
		return
	}

	// Rule 3: text is stable since the last sample; decide
	idle := now.Sub(entry.lastChange)
	markersInPlay := s.detector.MarkersPresent(s.doc)

	switch {
	case s.detector.HasCompletionMarker(block):
		s.finalizeEntry(entry, "marker")
	case !markersInPlay && idle >= s.idleDelay:
		s.finalizeEntry(entry, "idle")
	case markersInPlay && idle >= s.maxWait:
		// Possibly premature, but never stuck armed forever
		s.log.Warn("max wait exceeded, force finalizing", "id", id, "idle", idle)
		s.finalizeEntry(entry, "timeout")
	default:
		s.arm(entry)
	}
}

// finalizeEntry removes the entry and hands the block to the renderer
func (s *DeferredScheduler) finalizeEntry(entry *deferredEntry, reason string) {
	delete(s.entries, entry.node.ID())
	s.log.Debug("block finalized", "id", entry.node.ID(), "reason", reason)
	s.finalize(entry.node)
}
