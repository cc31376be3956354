package transforms_test

import (
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/killallgit/garnish/pkg/dom"
	"github.com/killallgit/garnish/pkg/transforms"
)

var _ = Describe("Highlight", func() {
	var (
		highlight *transforms.Highlight
		block     *dom.Node
	)

	newFence := func(lang, source string) *dom.Node {
		code := dom.NewNode("code", "language-"+lang)
		code.SetText(source)
		pre := dom.NewNode("pre")
		pre.AppendChild(code)
		block.AppendChild(pre)
		return code
	}

	BeforeEach(func() {
		highlight = transforms.NewHighlight()
		block = dom.NewNode("div", dom.ClassContent)
	})

	Describe("Apply", func() {
		It("colors fenced go code", func() {
			code := newFence("go", `fmt.Println("hi")`)

			Expect(highlight.Apply(block)).To(Succeed())
			Expect(code.Text()).To(ContainSubstring("\x1b["))
			Expect(code.HasClass(dom.ClassEnhanced)).To(BeTrue())
		})

		It("keeps the source text visible inside the colors", func() {
			code := newFence("python", "print(42)")

			Expect(highlight.Apply(block)).To(Succeed())
			plain := stripANSI(code.Text())
			Expect(plain).To(ContainSubstring("print"))
			Expect(plain).To(ContainSubstring("42"))
		})

		It("skips mermaid fences", func() {
			code := newFence("mermaid", "graph TD\nA --> B")

			Expect(highlight.Apply(block)).To(Succeed())
			Expect(code.Text()).To(Equal("graph TD\nA --> B"))
		})

		It("does not re-highlight already colored code", func() {
			code := newFence("go", "var x int")

			Expect(highlight.Apply(block)).To(Succeed())
			once := code.Text()
			Expect(highlight.Apply(block)).To(Succeed())
			Expect(code.Text()).To(Equal(once))
		})

		It("ignores code nodes without a language class", func() {
			code := dom.NewNode("code")
			code.SetText("plain")
			block.AppendChild(code)

			Expect(highlight.Apply(block)).To(Succeed())
			Expect(code.Text()).To(Equal("plain"))
		})

		It("ignores empty fences", func() {
			code := newFence("go", "")
			Expect(highlight.Apply(block)).To(Succeed())
			Expect(code.Text()).To(Equal(""))
		})
	})
})

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
