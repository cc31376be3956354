package transforms

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/killallgit/garnish/pkg/dom"
)

// Diagram renders mermaid-style flowchart sources into a bordered text
// drawing. Only the edge-list subset is understood; anything else is shown
// verbatim inside the frame so broken sources still get a stable rendering.
type Diagram struct {
	frame lipgloss.Style
}

// NewDiagram creates the diagram transform
func NewDiagram() *Diagram {
	return &Diagram{
		frame: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1),
	}
}

// Name returns the transform name
func (d *Diagram) Name() string {
	return "diagram"
}

// Apply replaces the fragment's source text with the rendered drawing
func (d *Diagram) Apply(frag *dom.Node) error {
	source := strings.TrimSpace(frag.Text())
	if source == "" {
		return fmt.Errorf("empty diagram source")
	}

	lines := renderEdges(source)
	if len(lines) == 0 {
		lines = strings.Split(source, "\n")
	}

	// Collapse any child text so the subtree snapshot equals the rendering
	for _, child := range frag.Children() {
		frag.RemoveChild(child)
	}
	frag.SetText(d.frame.Render(strings.Join(lines, "\n")))
	return nil
}

var edgePattern = regexp.MustCompile(`^\s*(\S+?)\s*-->(?:\|([^|]*)\|)?\s*(\S+)\s*$`)

// nodeLabel extracts the display label from a mermaid node reference:
// A[Start] renders as Start, B{Choice} as Choice, C(Step) as Step
var nodeLabel = regexp.MustCompile(`^[^\[{(]*[\[{(]([^\]})]*)[\]})]$`)

// renderEdges turns edge-list lines into "from ──▶ to" rows; non-edge lines
// (the graph header, styling) are skipped
func renderEdges(source string) []string {
	var lines []string
	for _, raw := range strings.Split(source, "\n") {
		m := edgePattern.FindStringSubmatch(raw)
		if m == nil {
			continue
		}
		from := labelOf(m[1])
		to := labelOf(m[3])
		if label := strings.TrimSpace(m[2]); label != "" {
			lines = append(lines, fmt.Sprintf("%s ──%s──▶ %s", from, label, to))
		} else {
			lines = append(lines, fmt.Sprintf("%s ──▶ %s", from, to))
		}
	}
	return lines
}

func labelOf(ref string) string {
	if m := nodeLabel.FindStringSubmatch(ref); m != nil {
		return m[1]
	}
	return ref
}
