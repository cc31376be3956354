package enhance

import (
	"fmt"

	"github.com/killallgit/garnish/pkg/dom"
	"github.com/killallgit/garnish/pkg/logger"
)

// Transform is a visual enhancement applied to a node. Implementations must
// be idempotent given unchanged input and should return errors rather than
// panic; the dispatcher contains both.
type Transform interface {
	Name() string
	Apply(node *dom.Node) error
}

// Injector creates a copy affordance inside a container. Separate from
// Transform because injection targets the block's container, not the block.
type Injector interface {
	Name() string
	Inject(container *dom.Node) error
}

// Transforms bundles the plugin set the dispatcher runs. Nil fields simply
// skip that enhancement.
type Transforms struct {
	Math       Transform
	Highlight  Transform
	Diagram    Transform
	CopyButton Injector
}

// Dispatcher applies enabled transforms to finalized blocks exactly once.
// A failing or panicking transform is logged and the block is still marked
// processed, so a permanently broken input cannot cause a retry storm.
type Dispatcher struct {
	cfg       Config
	tf        Transforms
	scheduler *DeferredScheduler
	log       *logger.Logger
}

// NewDispatcher creates a dispatcher
func NewDispatcher(cfg Config, scheduler *DeferredScheduler, tf Transforms) *Dispatcher {
	return &Dispatcher{
		cfg:       cfg,
		tf:        tf,
		scheduler: scheduler,
		log:       logger.WithComponent("dispatch"),
	}
}

// Finalize runs the full transform pipeline on a block and marks it
// processed. Any armed deferral for the block is cancelled first. Calling
// Finalize again on an unchanged block is a no-op.
func (d *Dispatcher) Finalize(block *dom.Node) {
	d.scheduler.Cancel(block)

	if IsProcessed(block) {
		return
	}

	if d.cfg.MathEnabled && d.tf.Math != nil {
		d.runSafe(d.tf.Math, block)
	}
	if d.cfg.HighlightEnabled && d.tf.Highlight != nil {
		d.runSafe(d.tf.Highlight, block)
	}
	if d.cfg.DiagramsEnabled && d.tf.Diagram != nil {
		for _, frag := range block.FindAll(IsDiagramFragment) {
			if IsProcessed(frag) {
				continue
			}
			d.runSafe(d.tf.Diagram, frag)
			MarkProcessed(frag)
		}
	}

	MarkProcessed(block)
	d.log.Debug("block processed", "id", block.ID())
}

// RenderDiagram renders one standalone diagram fragment, idempotently
func (d *Dispatcher) RenderDiagram(frag *dom.Node) {
	if !d.cfg.DiagramsEnabled || d.tf.Diagram == nil {
		return
	}
	if IsProcessed(frag) {
		return
	}
	d.runSafe(d.tf.Diagram, frag)
	MarkProcessed(frag)
}

// InjectCopyButtons adds a copy affordance next to every content block under
// root that does not already have one. Injection is eager: it has no
// dependency on completion, so it may run on blocks that are still
// streaming.
func (d *Dispatcher) InjectCopyButtons(root *dom.Node) {
	if !d.cfg.CopyButtonEnabled || d.tf.CopyButton == nil {
		return
	}
	for _, block := range root.FindAll(IsContentBlock) {
		container := block.Parent()
		if container == nil {
			container = block
		}
		if HasCopyButton(container) {
			continue
		}
		if err := d.injectSafe(container); err != nil {
			d.log.Error("copy button injection failed", "id", block.ID(), "error", err)
		}
	}
}

// runSafe applies one transform, containing both returned errors and panics
func (d *Dispatcher) runSafe(t Transform, node *dom.Node) {
	defer func() {
		if r := recover(); r != nil {
			d.log.Error("transform panicked", "transform", t.Name(), "id", node.ID(), "error", r)
		}
	}()
	if err := t.Apply(node); err != nil {
		d.log.Error("transform failed", "transform", t.Name(), "id", node.ID(), "error", err)
	}
}

// injectSafe runs the copy-button factory, containing panics
func (d *Dispatcher) injectSafe(container *dom.Node) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s panicked: %v", d.tf.CopyButton.Name(), r)
		}
	}()
	return d.tf.CopyButton.Inject(container)
}
