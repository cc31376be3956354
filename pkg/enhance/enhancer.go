package enhance

import (
	"sync"
	"time"

	"github.com/killallgit/garnish/pkg/dom"
	"github.com/killallgit/garnish/pkg/logger"
	"github.com/killallgit/garnish/pkg/transforms"
)

// paintInterval approximates one UI paint tick; the coordinator flushes at
// most once per tick no matter how many mutations arrive in between
const paintInterval = 16 * time.Millisecond

// observerBuffer sizes the mutation channel for per-token burst rates
const observerBuffer = 1024

// Option customizes an Enhancer at Start
type Option func(*Enhancer)

// WithClock substitutes the clock, letting tests drive time manually
func WithClock(c Clock) Option {
	return func(e *Enhancer) { e.clock = c }
}

// WithTransforms replaces the default transform plugins
func WithTransforms(tf Transforms) Option {
	return func(e *Enhancer) { e.tf = tf; e.tfSet = true }
}

// WithObservedRoot overrides the default observed-root resolution
func WithObservedRoot(root *dom.Node) Option {
	return func(e *Enhancer) { e.root = root }
}

// Enhancer owns all enhancement state for one document: the run loop, the
// scan coordinator, the deferred scheduler and the renderer dispatch. There
// are no package-level singletons; everything hangs off this object.
type Enhancer struct {
	cfg   Config
	doc   *dom.Document
	root  *dom.Node
	clock Clock
	tf    Transforms
	tfSet bool

	loop        *Loop
	detector    *Detector
	scheduler   *DeferredScheduler
	dispatcher  *Dispatcher
	scanner     *Scanner
	coordinator *ScanCoordinator
	obs         *dom.Observer

	stopOnce sync.Once
	log      *logger.Logger
}

// Start begins enhancing the document: it performs one synchronous scan of
// the observed root, then subscribes to the mutation stream and processes
// everything on a single run loop. The returned Enhancer is the only handle;
// call Stop to shut down.
func Start(doc *dom.Document, cfg Config, opts ...Option) *Enhancer {
	e := &Enhancer{
		cfg: cfg.withDefaults(),
		doc: doc,
		log: logger.WithComponent("enhancer"),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.clock == nil {
		e.clock = SystemClock()
	}
	if !e.tfSet {
		e.tf = defaultTransforms()
	}
	if e.root == nil {
		e.root = resolveObservedRoot(doc)
	}

	e.loop = NewLoop()
	post := e.loop.Post

	e.detector = NewDetector()
	e.scheduler = NewDeferredScheduler(doc, e.detector, e.cfg, e.clock, post)
	e.dispatcher = NewDispatcher(e.cfg, e.scheduler, e.tf)
	e.scheduler.SetFinalizer(e.dispatcher.Finalize)
	e.scanner = NewScanner(e.detector, e.scheduler, e.dispatcher)

	schedulePaint := func(flush func()) {
		e.clock.AfterFunc(paintInterval, func() {
			post(flush)
		})
	}
	e.coordinator = NewScanCoordinator(doc, e.scanner, e.dispatcher, e.cfg, schedulePaint, e.scheduler.Sweep)

	// Subscribe before the initial scan so nothing mutated during the scan
	// is lost; those records are simply processed right after startup
	e.obs = doc.Observe(observerBuffer)

	// Initial scan runs synchronously, before any queued work
	e.scanner.Scan(e.root)
	e.dispatcher.InjectCopyButtons(doc.Root())

	e.loop.Start()
	go e.pump()

	e.log.Info("enhancer started",
		"idle_delay", e.cfg.IdleDelay,
		"max_wait", e.cfg.MaxWait,
		"diagrams", e.cfg.DiagramsEnabled,
		"math", e.cfg.MathEnabled,
		"copy_button", e.cfg.CopyButtonEnabled)
	return e
}

// pump moves mutation records from the observer channel onto the run loop
func (e *Enhancer) pump() {
	for rec := range e.obs.C {
		rec := rec
		e.loop.Post(func() {
			e.coordinator.Enqueue(rec)
		})
	}
}

// Post queues fn on the enhancer's run loop. All document access from other
// goroutines must go through Post or Do.
func (e *Enhancer) Post(fn func()) {
	e.loop.Post(fn)
}

// Do runs fn on the run loop and waits for it to finish
func (e *Enhancer) Do(fn func()) {
	e.loop.Call(fn)
}

// Quiescent reports whether no scan roots await a flush and no blocks are
// armed for deferral. Must run on the loop; callers wrap it in Do.
func (e *Enhancer) Quiescent() bool {
	return e.coordinator.PendingRoots() == 0 && e.scheduler.Pending() == 0
}

// ObservedRoot returns the node the enhancer watches
func (e *Enhancer) ObservedRoot() *dom.Node {
	return e.root
}

// Clock returns the enhancer's clock, shared with collaborators that need
// to schedule work in the same timeline
func (e *Enhancer) Clock() Clock {
	return e.clock
}

// Stop disconnects from the mutation stream and halts the run loop
func (e *Enhancer) Stop() {
	e.stopOnce.Do(func() {
		e.loop.Call(func() {
			e.obs.Disconnect()
		})
		e.loop.Stop()
		e.log.Info("enhancer stopped")
	})
}

// resolveObservedRoot picks the default observed root by a fixed fallback
// chain: the conversation container if present, else a main element, else
// the document root
func resolveObservedRoot(doc *dom.Document) *dom.Node {
	if conv := doc.Root().Find(func(n *dom.Node) bool { return n.HasClass(dom.ClassConversation) }); conv != nil {
		return conv
	}
	if main := doc.Root().Find(func(n *dom.Node) bool { return n.Tag() == "main" }); main != nil {
		return main
	}
	return doc.Root()
}

// defaultTransforms is the stock plugin set
func defaultTransforms() Transforms {
	return Transforms{
		Math:       transforms.NewMath(),
		Highlight:  transforms.NewHighlight(),
		Diagram:    transforms.NewDiagram(),
		CopyButton: transforms.NewCopyButton(),
	}
}
