package enhance

import (
	"github.com/killallgit/garnish/pkg/dom"
	"github.com/killallgit/garnish/pkg/logger"
)

// ScanCoordinator collapses a bursty mutation stream into at most one scan
// pass per paint tick. Raw mutation targets are resolved to scan roots,
// deduplicated by identity, and flushed in one batch when the paint
// callback arrives.
type ScanCoordinator struct {
	doc      *dom.Document
	scanner  *Scanner
	dispatch *Dispatcher
	cfg      Config

	// schedulePaint schedules fn to run once on the next paint tick
	schedulePaint func(fn func())

	// sweep is invoked once per flush to let the scheduler drop dead entries
	sweep func()

	pending        map[string]*dom.Node
	flushScheduled bool
	log            *logger.Logger
}

// NewScanCoordinator creates a coordinator
func NewScanCoordinator(doc *dom.Document, scanner *Scanner, dispatch *Dispatcher, cfg Config, schedulePaint func(func()), sweep func()) *ScanCoordinator {
	return &ScanCoordinator{
		doc:           doc,
		scanner:       scanner,
		dispatch:      dispatch,
		cfg:           cfg,
		schedulePaint: schedulePaint,
		sweep:         sweep,
		pending:       make(map[string]*dom.Node),
		log:           logger.WithComponent("scan_coordinator"),
	}
}

// Enqueue folds one mutation record into the pending root set
func (c *ScanCoordinator) Enqueue(rec dom.MutationRecord) {
	for _, added := range rec.Added {
		c.addRoot(c.resolveRoot(added))
	}
	if rec.TextChanged != nil {
		c.addRoot(c.resolveRoot(rec.TextChanged))
	}
}

// resolveRoot maps a raw mutation target to the node a scan should start
// from: the nearest enclosing content block if one exists, else the nearest
// content-block descendant within a bounded depth, else the target itself
func (c *ScanCoordinator) resolveRoot(target *dom.Node) *dom.Node {
	if enclosing := target.Closest(IsContentBlock, markerClimbLevels); enclosing != nil {
		return enclosing
	}
	if descendant := target.Descendant(IsContentBlock, rootProbeDepth); descendant != nil {
		return descendant
	}
	return target
}

// addRoot adds a resolved root to the pending set; the transition from
// empty to non-empty schedules exactly one flush on the next paint tick
func (c *ScanCoordinator) addRoot(root *dom.Node) {
	if root == nil {
		return
	}
	if _, ok := c.pending[root.ID()]; ok {
		return
	}
	c.pending[root.ID()] = root
	if !c.flushScheduled {
		c.flushScheduled = true
		c.schedulePaint(c.Flush)
	}
}

// Flush atomically drains the pending set, scans each unique root once, and
// runs the eager whole-document transforms. Mutations caused by the flush
// itself land in a fresh pending set and schedule a new paint.
func (c *ScanCoordinator) Flush() {
	c.flushScheduled = false
	roots := c.pending
	c.pending = make(map[string]*dom.Node)

	c.log.Debug("flush", "roots", len(roots))
	for _, root := range roots {
		if !root.Attached() {
			continue
		}
		c.scanner.Scan(root)
	}

	if c.cfg.CopyButtonEnabled {
		c.dispatch.InjectCopyButtons(c.doc.Root())
	}
	if c.sweep != nil {
		c.sweep()
	}
}

// PendingRoots returns how many scan roots await the next flush
func (c *ScanCoordinator) PendingRoots() int {
	return len(c.pending)
}
