package transforms_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/killallgit/garnish/pkg/dom"
	"github.com/killallgit/garnish/pkg/transforms"
)

var _ = Describe("CopyButton", func() {
	var (
		copyButton *transforms.CopyButton
		container  *dom.Node
	)

	BeforeEach(func() {
		copyButton = transforms.NewCopyButton()
		container = dom.NewNode("div", dom.ClassMessage)
	})

	Describe("Inject", func() {
		It("appends a button node to the container", func() {
			Expect(copyButton.Inject(container)).To(Succeed())

			children := container.Children()
			Expect(children).To(HaveLen(1))
			Expect(children[0].Tag()).To(Equal("button"))
			Expect(children[0].HasClass(dom.ClassCopyButton)).To(BeTrue())
			Expect(children[0].Text()).To(ContainSubstring("copy"))
		})

		It("leaves existing children in place", func() {
			content := dom.NewNode("div", dom.ClassContent)
			container.AppendChild(content)

			Expect(copyButton.Inject(container)).To(Succeed())
			Expect(container.Children()).To(HaveLen(2))
			Expect(container.Children()[0]).To(Equal(content))
		})
	})
})
