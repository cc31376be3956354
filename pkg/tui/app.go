package tui

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/killallgit/garnish/pkg/config"
	"github.com/killallgit/garnish/pkg/dom"
	"github.com/killallgit/garnish/pkg/enhance"
	"github.com/killallgit/garnish/pkg/logger"
	"github.com/killallgit/garnish/pkg/stream"
)

// redrawInterval paces the render loop; the document snapshot is taken on the
// enhancer's run loop each tick
const redrawInterval = 50 * time.Millisecond

// StartApp runs the interactive demo: a scripted conversation streams into
// the document while the enhancement pipeline works on it live, and the
// screen shows the tree as it converges. Quit with q, Esc or Ctrl-C.
func StartApp() error {
	log := logger.WithComponent("tui")
	settings := config.Get()

	doc := dom.NewDocument()
	main := dom.NewNode("main")
	conversation := dom.NewNode("div", dom.ClassConversation)
	main.AppendChild(conversation)
	doc.Root().AppendChild(main)

	enhancer := enhance.Start(doc, enhance.FromSettings(settings))
	defer enhancer.Stop()

	manager := stream.NewManager(conversation, enhancer.Clock(), enhancer.Post)
	script := stream.DemoSpecs(
		time.Duration(settings.Demo.TokenIntervalMs)*time.Millisecond,
		time.Duration(settings.Demo.MarkerDelayMs)*time.Millisecond,
	)

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer screen.Fini()

	events := make(chan tcell.Event, 16)
	quitPoll := make(chan struct{})
	go screen.ChannelEvents(events, quitPoll)
	defer close(quitPoll)

	ticker := time.NewTicker(redrawInterval)
	defer ticker.Stop()

	log.Info("demo started", "messages", len(script))
	nextSpec := 0
	for {
		select {
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if isQuitKey(ev) {
					log.Info("demo stopped by user")
					return nil
				}
			case *tcell.EventResize:
				screen.Sync()
			}
		case <-ticker.C:
			var snap snapshot
			enhancer.Do(func() {
				if manager.Idle() && nextSpec < len(script) {
					manager.StartStream(script[nextSpec])
					nextSpec++
				}
				snap = takeSnapshot(conversation, manager, enhancer)
			})
			snap.remaining = len(script) - nextSpec
			draw(screen, snap)
		}
	}
}

func isQuitKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
		return ev.Rune() == 'q'
	}
	return false
}
