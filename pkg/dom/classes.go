package dom

// Well-known classes of the transcript trees garnish observes. The host
// renders these; garnish only ever adds ClassEnhanced and ClassCopyButton.
const (
	// ClassConversation marks the scrollback container holding all messages
	ClassConversation = "conversation"

	// ClassMessage marks one message's outer container
	ClassMessage = "message"

	// ClassContent marks a content block: the container of one streamed
	// message's rendered text, the unit of completion detection
	ClassContent = "markdown"

	// ClassFeedback marks the feedback action bar the host renders only
	// once a message's output has fully finished (the completion marker)
	ClassFeedback = "feedback-actions"

	// ClassDiagram marks a diagram-source fragment (a mermaid code fence)
	ClassDiagram = "language-mermaid"

	// ClassEnhanced is the per-node already-processed marker garnish adds
	// after running the finalizing transforms
	ClassEnhanced = "enhanced"

	// ClassCopyButton marks an injected copy affordance
	ClassCopyButton = "copy-button"
)
