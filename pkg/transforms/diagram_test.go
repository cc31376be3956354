package transforms_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/killallgit/garnish/pkg/dom"
	"github.com/killallgit/garnish/pkg/transforms"
)

var _ = Describe("Diagram", func() {
	var (
		diagram *transforms.Diagram
		frag    *dom.Node
	)

	BeforeEach(func() {
		diagram = transforms.NewDiagram()
		frag = dom.NewNode("code", dom.ClassDiagram)
	})

	Describe("Apply", func() {
		It("renders edge lists as arrow rows", func() {
			frag.SetText("graph TD\nA[Start] --> B[Finish]")

			Expect(diagram.Apply(frag)).To(Succeed())
			Expect(frag.Text()).To(ContainSubstring("Start ──▶ Finish"))
		})

		It("renders edge labels inline", func() {
			frag.SetText("graph TD\nA -->|yes| B{Choice}")

			Expect(diagram.Apply(frag)).To(Succeed())
			Expect(frag.Text()).To(ContainSubstring("A ──yes──▶ Choice"))
		})

		It("extracts labels from bracket, brace and paren refs", func() {
			frag.SetText("graph TD\nA[One] --> B{Two}\nB --> C(Three)")

			Expect(diagram.Apply(frag)).To(Succeed())
			Expect(frag.Text()).To(ContainSubstring("One ──▶ Two"))
			Expect(frag.Text()).To(ContainSubstring("B ──▶ Three"))
		})

		It("falls back to the verbatim source when nothing parses", func() {
			frag.SetText("sequenceDiagram\nAlice->>Bob: hi")

			Expect(diagram.Apply(frag)).To(Succeed())
			Expect(frag.Text()).To(ContainSubstring("sequenceDiagram"))
			Expect(frag.Text()).To(ContainSubstring("Alice->>Bob: hi"))
		})

		It("frames the rendering", func() {
			frag.SetText("graph TD\nA --> B")

			Expect(diagram.Apply(frag)).To(Succeed())
			Expect(frag.Text()).To(ContainSubstring("╭"))
			Expect(frag.Text()).To(ContainSubstring("╰"))
		})

		It("collapses child text into the rendering", func() {
			child := dom.NewNode("span")
			child.SetText("A --> B")
			frag.AppendChild(child)

			Expect(diagram.Apply(frag)).To(Succeed())
			Expect(frag.Children()).To(BeEmpty())
			Expect(frag.Text()).To(ContainSubstring("A ──▶ B"))
		})

		It("rejects empty sources", func() {
			frag.SetText("   ")
			Expect(diagram.Apply(frag)).To(HaveOccurred())
		})
	})
})
