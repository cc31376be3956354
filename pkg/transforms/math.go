package transforms

import (
	"regexp"
	"sort"
	"strings"

	"github.com/killallgit/garnish/pkg/dom"
)

// Math typesets TeX-style spans embedded in a block's text into plain
// unicode. It rewrites text in place; once a span is typeset the delimiters
// are gone, so re-applying is a no-op.
type Math struct{}

// NewMath creates the math transform
func NewMath() *Math {
	return &Math{}
}

// Name returns the transform name
func (m *Math) Name() string {
	return "math"
}

// Apply typesets every math span in the block's subtree
func (m *Math) Apply(block *dom.Node) error {
	block.Walk(func(n *dom.Node) bool {
		text := n.OwnText()
		if text == "" || !containsMathSpan(text) {
			return true
		}
		n.SetText(typesetSpans(text))
		return true
	})
	return nil
}

var (
	displaySpan = regexp.MustCompile(`\$\$([^$]+)\$\$|\\\[([^\[\]]+?)\\\]`)
	inlineSpan  = regexp.MustCompile(`\$([^$\n]+)\$|\\\(([^()]+?)\\\)`)
	fracPattern = regexp.MustCompile(`\\frac\{([^{}]*)\}\{([^{}]*)\}`)
	supPattern  = regexp.MustCompile(`\^\{([^{}]*)\}|\^(\w)`)
	subPattern  = regexp.MustCompile(`_\{([^{}]*)\}|_(\w)`)
)

func containsMathSpan(text string) bool {
	return displaySpan.MatchString(text) || inlineSpan.MatchString(text)
}

func typesetSpans(text string) string {
	text = displaySpan.ReplaceAllStringFunc(text, func(match string) string {
		return typesetTeX(stripSpanDelimiters(match))
	})
	text = inlineSpan.ReplaceAllStringFunc(text, func(match string) string {
		return typesetTeX(stripSpanDelimiters(match))
	})
	return text
}

func stripSpanDelimiters(span string) string {
	span = strings.TrimPrefix(span, "$$")
	span = strings.TrimSuffix(span, "$$")
	span = strings.TrimPrefix(span, "$")
	span = strings.TrimSuffix(span, "$")
	span = strings.TrimPrefix(span, `\[`)
	span = strings.TrimSuffix(span, `\]`)
	span = strings.TrimPrefix(span, `\(`)
	span = strings.TrimSuffix(span, `\)`)
	return strings.TrimSpace(span)
}

// commands maps TeX commands to their unicode renderings
var commands = map[string]string{
	`\alpha`: "α", `\beta`: "β", `\gamma`: "γ", `\delta`: "δ",
	`\epsilon`: "ε", `\theta`: "θ", `\lambda`: "λ", `\mu`: "μ",
	`\pi`: "π", `\sigma`: "σ", `\phi`: "φ", `\omega`: "ω",
	`\Delta`: "Δ", `\Sigma`: "Σ", `\Omega`: "Ω", `\Pi`: "Π",
	`\times`: "×", `\cdot`: "·", `\pm`: "±", `\div`: "÷",
	`\leq`: "≤", `\le`: "≤", `\geq`: "≥", `\ge`: "≥",
	`\neq`: "≠", `\ne`: "≠", `\approx`: "≈", `\equiv`: "≡",
	`\infty`: "∞", `\sum`: "∑", `\prod`: "∏", `\int`: "∫",
	`\sqrt`: "√", `\partial`: "∂", `\nabla`: "∇",
	`\rightarrow`: "→", `\to`: "→", `\leftarrow`: "←",
	`\in`: "∈", `\subset`: "⊂", `\cup`: "∪", `\cap`: "∩",
	`\,`: " ", `\;`: " ", `\!`: "",
}

var superscripts = map[rune]rune{
	'0': '⁰', '1': '¹', '2': '²', '3': '³', '4': '⁴',
	'5': '⁵', '6': '⁶', '7': '⁷', '8': '⁸', '9': '⁹',
	'n': 'ⁿ', 'i': 'ⁱ', '+': '⁺', '-': '⁻',
}

var subscripts = map[rune]rune{
	'0': '₀', '1': '₁', '2': '₂', '3': '₃', '4': '₄',
	'5': '₅', '6': '₆', '7': '₇', '8': '₈', '9': '₉',
	'+': '₊', '-': '₋',
}

// typesetTeX renders one expression body to unicode
func typesetTeX(expr string) string {
	expr = fracPattern.ReplaceAllString(expr, "$1/$2")

	// Longest command first so \leq wins over \le
	for _, cmd := range commandsByLength() {
		expr = strings.ReplaceAll(expr, cmd, commands[cmd])
	}

	expr = supPattern.ReplaceAllStringFunc(expr, func(match string) string {
		return mapScript(scriptBody(match, "^"), superscripts)
	})
	expr = subPattern.ReplaceAllStringFunc(expr, func(match string) string {
		return mapScript(scriptBody(match, "_"), subscripts)
	})

	expr = strings.ReplaceAll(expr, "{", "")
	expr = strings.ReplaceAll(expr, "}", "")
	return expr
}

func scriptBody(match, prefix string) string {
	body := strings.TrimPrefix(match, prefix)
	body = strings.TrimPrefix(body, "{")
	body = strings.TrimSuffix(body, "}")
	return body
}

// mapScript converts the body to super/subscript glyphs when every rune has
// a mapping; otherwise it keeps a caret/underscore-free plain fallback
func mapScript(body string, table map[rune]rune) string {
	mapped := make([]rune, 0, len(body))
	for _, r := range body {
		glyph, ok := table[r]
		if !ok {
			return body
		}
		mapped = append(mapped, glyph)
	}
	return string(mapped)
}

var commandOrder []string

func commandsByLength() []string {
	if commandOrder == nil {
		for cmd := range commands {
			commandOrder = append(commandOrder, cmd)
		}
		sort.Slice(commandOrder, func(i, j int) bool {
			return len(commandOrder[i]) > len(commandOrder[j])
		})
	}
	return commandOrder
}
