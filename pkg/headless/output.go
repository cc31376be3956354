package headless

import (
	"fmt"
	"io"
	"strings"

	"github.com/killallgit/garnish/pkg/dom"
	"github.com/killallgit/garnish/pkg/logger"
)

// Output handles console output for headless mode
type Output struct {
	w io.Writer
}

// NewOutput creates a new output handler
func NewOutput(w io.Writer) *Output {
	return &Output{w: w}
}

// Transcript prints each message's rendered content, separated by rules.
// Must be called on the run loop owning the conversation tree.
func (o *Output) Transcript(conversation *dom.Node) {
	rule := strings.Repeat("─", 60)
	for i, msg := range conversation.Children() {
		if !msg.HasClass(dom.ClassMessage) {
			continue
		}
		if i > 0 {
			fmt.Fprintln(o.w, rule)
		}
		for _, block := range msg.FindAll(func(n *dom.Node) bool { return n.HasClass(dom.ClassContent) }) {
			fmt.Fprintln(o.w, block.Text())
		}
	}
}

// Error prints an error message using the logger
func (o *Output) Error(msg string) {
	logger.Error(msg)
}
