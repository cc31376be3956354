package transforms_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/killallgit/garnish/pkg/dom"
	"github.com/killallgit/garnish/pkg/transforms"
)

var _ = Describe("Math", func() {
	var (
		math  *transforms.Math
		block *dom.Node
	)

	BeforeEach(func() {
		math = transforms.NewMath()
		block = dom.NewNode("div", dom.ClassContent)
	})

	typeset := func(text string) string {
		block.SetText(text)
		Expect(math.Apply(block)).To(Succeed())
		return block.Text()
	}

	Describe("Apply", func() {
		It("typesets inline dollar spans", func() {
			Expect(typeset("energy: $E = mc^2$ indeed")).To(Equal("energy: E = mc² indeed"))
		})

		It("typesets display spans", func() {
			Expect(typeset(`$$a^2 + b^2 = c^2$$`)).To(Equal("a² + b² = c²"))
		})

		It("typesets backslash-paren delimiters", func() {
			Expect(typeset(`before \(x_1 + x_2\) after`)).To(Equal("before x₁ + x₂ after"))
		})

		It("renders greek letters and operators", func() {
			Expect(typeset(`$\alpha \times \beta \leq \pi$`)).To(Equal("α × β ≤ π"))
		})

		It("renders fractions as slash pairs", func() {
			Expect(typeset(`$\frac{a}{b}$`)).To(Equal("a/b"))
		})

		It("keeps unmappable scripts as plain text", func() {
			Expect(typeset("$x^{abc}$")).To(Equal("xabc"))
		})

		It("leaves prose without math spans untouched", func() {
			Expect(typeset("just $100 in plain prose")).To(Equal("just $100 in plain prose"))
		})

		It("is idempotent once delimiters are consumed", func() {
			first := typeset("$E = mc^2$")
			Expect(math.Apply(block)).To(Succeed())
			Expect(block.Text()).To(Equal(first))
		})

		It("reaches text in nested nodes", func() {
			inner := dom.NewNode("p")
			inner.SetText(`$\sum x \to \infty$`)
			block.AppendChild(inner)

			Expect(math.Apply(block)).To(Succeed())
			Expect(inner.Text()).To(Equal("∑ x → ∞"))
		})
	})
})
