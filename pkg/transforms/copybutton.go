package transforms

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/killallgit/garnish/pkg/dom"
)

// CopyButton is the copy-affordance factory: it appends a button node to a
// block's container. The dispatcher guarantees at most one injection per
// container; the factory itself only builds the node.
type CopyButton struct {
	style lipgloss.Style
}

// NewCopyButton creates the copy-button factory
func NewCopyButton() *CopyButton {
	return &CopyButton{
		style: lipgloss.NewStyle().Faint(true),
	}
}

// Name returns the injector name
func (c *CopyButton) Name() string {
	return "copy_button"
}

// Inject appends a copy button to the container
func (c *CopyButton) Inject(container *dom.Node) error {
	button := dom.NewNode("button", dom.ClassCopyButton)
	button.SetText(c.style.Render("⧉ copy"))
	container.AppendChild(button)
	return nil
}
