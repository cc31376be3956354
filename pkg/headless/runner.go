package headless

import (
	"context"
	"io"
	"time"

	"github.com/killallgit/garnish/pkg/config"
	"github.com/killallgit/garnish/pkg/dom"
	"github.com/killallgit/garnish/pkg/enhance"
	"github.com/killallgit/garnish/pkg/logger"
	"github.com/killallgit/garnish/pkg/stream"
)

// runner drives the demo transcript through the enhancement pipeline
type runner struct {
	doc          *dom.Document
	conversation *dom.Node
	enhancer     *enhance.Enhancer
	manager      *stream.Manager
	output       *Output
	config       *runConfig
	log          *logger.Logger
}

// runConfig contains headless runner configuration
type runConfig struct {
	tokenInterval time.Duration
	markerDelay   time.Duration
}

// newRunner builds the document shell, starts the enhancer on it and wires a
// stream manager onto the enhancer's run loop
func newRunner(w io.Writer) *runner {
	settings := config.Get()
	cfg := &runConfig{
		tokenInterval: time.Duration(settings.Demo.TokenIntervalMs) * time.Millisecond,
		markerDelay:   time.Duration(settings.Demo.MarkerDelayMs) * time.Millisecond,
	}

	doc := dom.NewDocument()
	main := dom.NewNode("main")
	conversation := dom.NewNode("div", dom.ClassConversation)
	main.AppendChild(conversation)
	doc.Root().AppendChild(main)

	enhancer := enhance.Start(doc, enhance.FromSettings(settings))
	manager := stream.NewManager(conversation, enhancer.Clock(), enhancer.Post)

	return &runner{
		doc:          doc,
		conversation: conversation,
		enhancer:     enhancer,
		manager:      manager,
		output:       NewOutput(w),
		config:       cfg,
		log:          logger.WithComponent("headless"),
	}
}

// run streams each demo message in turn, waits for the pipeline to settle and
// prints the enhanced transcript
func (r *runner) run(ctx context.Context) error {
	defer r.enhancer.Stop()

	for i, spec := range stream.DemoSpecs(r.config.tokenInterval, r.config.markerDelay) {
		r.log.Debug("streaming demo message", "index", i)
		r.enhancer.Do(func() {
			r.manager.StartStream(spec)
		})
		if err := r.waitSettled(ctx); err != nil {
			return err
		}
	}

	r.enhancer.Do(func() {
		r.output.Transcript(r.conversation)
	})
	return nil
}

// waitSettled polls on the run loop until no stream is in flight, no block is
// armed or awaiting a scan, and every block has been rendered
func (r *runner) waitSettled(ctx context.Context) error {
	ticker := time.NewTicker(25 * time.Millisecond)
	defer ticker.Stop()

	for {
		var settled bool
		r.enhancer.Do(func() {
			settled = r.manager.Idle() && r.enhancer.Quiescent() && r.allProcessed()
		})
		if settled {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// allProcessed reports whether every content block has been rendered
func (r *runner) allProcessed() bool {
	for _, block := range r.conversation.FindAll(enhance.IsContentBlock) {
		if !enhance.IsProcessed(block) {
			return false
		}
	}
	return true
}
