package transforms

import (
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2/quick"

	"github.com/killallgit/garnish/pkg/dom"
)

// Highlight applies terminal syntax colors to fenced code inside a block.
// Code nodes advertise their language with a language-<name> class, the
// same shape the diagram transform keys on for mermaid.
type Highlight struct {
	formatter string
	theme     string
}

// NewHighlight creates the syntax-highlight transform
func NewHighlight() *Highlight {
	return &Highlight{
		formatter: "terminal256",
		theme:     "monokai",
	}
}

// Name returns the transform name
func (h *Highlight) Name() string {
	return "highlight"
}

// Apply highlights every non-diagram code node in the block's subtree
func (h *Highlight) Apply(block *dom.Node) error {
	var firstErr error
	block.Walk(func(n *dom.Node) bool {
		lang, ok := codeLanguage(n)
		if !ok {
			return true
		}
		source := n.Text()
		if source == "" {
			return true
		}

		var sb strings.Builder
		if err := quick.Highlight(&sb, source, lang, h.formatter, h.theme); err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("highlight %s: %w", lang, err)
			}
			return true
		}

		for _, child := range n.Children() {
			n.RemoveChild(child)
		}
		n.SetText(sb.String())
		n.AddClass(dom.ClassEnhanced)
		return true
	})
	return firstErr
}

// codeLanguage extracts the language from a code node's classes; mermaid
// fences belong to the diagram transform and are skipped here
func codeLanguage(n *dom.Node) (string, bool) {
	if n.Tag() != "code" {
		return "", false
	}
	if n.HasClass(dom.ClassDiagram) || n.HasClass(dom.ClassEnhanced) {
		return "", false
	}
	for _, class := range n.Classes() {
		if lang, ok := strings.CutPrefix(class, "language-"); ok && lang != "" {
			return lang, true
		}
	}
	return "", false
}
