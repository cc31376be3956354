package tui

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/killallgit/garnish/pkg/dom"
	"github.com/killallgit/garnish/pkg/enhance"
	"github.com/killallgit/garnish/pkg/stream"
)

// blockView is one content block flattened to printable lines
type blockView struct {
	lines     []string
	processed bool
}

// messageView is one message's render state
type messageView struct {
	blocks   []blockView
	finished bool
}

// snapshot is an immutable copy of everything the draw pass needs, taken on
// the run loop so drawing never touches the live tree
type snapshot struct {
	messages  []messageView
	streaming int
	settled   bool
	remaining int
}

func takeSnapshot(conversation *dom.Node, manager *stream.Manager, enhancer *enhance.Enhancer) snapshot {
	snap := snapshot{
		streaming: len(manager.Active()),
		settled:   enhancer.Quiescent(),
	}
	for _, msg := range conversation.Children() {
		if !msg.HasClass(dom.ClassMessage) {
			continue
		}
		view := messageView{
			finished: msg.Find(func(n *dom.Node) bool { return n.HasClass(dom.ClassFeedback) }) != nil,
		}
		for _, block := range msg.FindAll(enhance.IsContentBlock) {
			view.blocks = append(view.blocks, blockView{
				lines:     strings.Split(stripANSI(block.Text()), "\n"),
				processed: enhance.IsProcessed(block),
			})
		}
		snap.messages = append(snap.messages, view)
	}
	return snap
}

var (
	styleTitle    = tcell.StyleDefault.Bold(true)
	styleHeader   = tcell.StyleDefault.Foreground(tcell.ColorTeal)
	stylePending  = tcell.StyleDefault.Dim(true)
	styleRendered = tcell.StyleDefault
	styleStatus   = tcell.StyleDefault.Reverse(true)
)

func draw(screen tcell.Screen, snap snapshot) {
	screen.Clear()
	width, height := screen.Size()

	putLine(screen, 0, 0, width, "garnish demo — q to quit", styleTitle)

	row := 2
	for i, msg := range snap.messages {
		if row >= height-1 {
			break
		}
		putLine(screen, 0, row, width, messageHeader(i, msg), styleHeader)
		row++

		style := stylePending
		if allRendered(msg) {
			style = styleRendered
		}
		for _, block := range msg.blocks {
			for _, line := range block.lines {
				if row >= height-1 {
					break
				}
				putLine(screen, 2, row, width-2, line, style)
				row++
			}
		}
		row++
	}

	status := fmt.Sprintf(" streaming:%d  queued:%d  settled:%v ", snap.streaming, snap.remaining, snap.settled)
	putLine(screen, 0, height-1, width, status, styleStatus)
	screen.Show()
}

func messageHeader(i int, msg messageView) string {
	state := "streaming"
	switch {
	case allRendered(msg):
		state = "enhanced"
	case msg.finished:
		state = "finishing"
	}
	return fmt.Sprintf("assistant #%d [%s]", i+1, state)
}

func allRendered(msg messageView) bool {
	if len(msg.blocks) == 0 {
		return false
	}
	for _, b := range msg.blocks {
		if !b.processed {
			return false
		}
	}
	return true
}

func putLine(screen tcell.Screen, x, y, max int, text string, style tcell.Style) {
	col := x
	for _, r := range text {
		if col >= x+max {
			break
		}
		screen.SetContent(col, y, r, nil, style)
		col++
	}
}

// stripANSI removes escape sequences so highlighted text can be laid out as
// plain cells
func stripANSI(s string) string {
	var sb strings.Builder
	inEscape := false
	for _, r := range s {
		switch {
		case inEscape:
			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
				inEscape = false
			}
		case r == '\x1b':
			inEscape = true
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
