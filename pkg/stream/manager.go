package stream

import (
	"time"

	"github.com/google/uuid"

	"github.com/killallgit/garnish/pkg/dom"
	"github.com/killallgit/garnish/pkg/enhance"
	"github.com/killallgit/garnish/pkg/logger"
)

// Fence is a fenced block appended to a message after its prose tokens
type Fence struct {
	Lang   string
	Source string
}

// Spec describes one simulated assistant message: prose delivered token by
// token, then fenced blocks, then (after a short delay) the feedback marker
// the host shows once output is finished.
type Spec struct {
	Tokens        []string
	Fences        []Fence
	TokenInterval time.Duration
	MarkerDelay   time.Duration

	// OmitMarker leaves the message without a completion marker, forcing
	// consumers onto their idle heuristics
	OmitMarker bool
}

// ActiveStream tracks one in-flight simulated message
type ActiveStream struct {
	ID        string
	Message   *dom.Node
	Content   *dom.Node
	StartTime time.Time

	spec      Spec
	paragraph *dom.Node
	pos       int
	fencePos  int
	timer     enhance.Timer
}

// Manager drives simulated streaming messages into a conversation tree.
// All methods must run on the run loop the clock posts to; the manager does
// no locking of its own.
type Manager struct {
	conversation *dom.Node
	clock        enhance.Clock
	post         func(func())

	activeStreams map[string]*ActiveStream
	log           *logger.Logger
}

// NewManager creates a stream manager writing into conversation. Timer
// callbacks are delivered through post.
func NewManager(conversation *dom.Node, clock enhance.Clock, post func(func())) *Manager {
	return &Manager{
		conversation:  conversation,
		clock:         clock,
		post:          post,
		activeStreams: make(map[string]*ActiveStream),
		log:           logger.WithComponent("stream_manager"),
	}
}

// StartStream appends a fresh message container to the conversation and
// begins delivering the spec's tokens on the token interval
func (m *Manager) StartStream(spec Spec) *ActiveStream {
	if spec.TokenInterval <= 0 {
		spec.TokenInterval = 40 * time.Millisecond
	}
	if spec.MarkerDelay <= 0 {
		spec.MarkerDelay = 150 * time.Millisecond
	}

	message := dom.NewNode("div", dom.ClassMessage)
	content := dom.NewNode("div", dom.ClassContent)
	paragraph := dom.NewNode("p")
	content.AppendChild(paragraph)
	message.AppendChild(content)
	m.conversation.AppendChild(message)

	stream := &ActiveStream{
		ID:        uuid.NewString(),
		Message:   message,
		Content:   content,
		StartTime: m.clock.Now(),
		spec:      spec,
		paragraph: paragraph,
	}
	m.activeStreams[stream.ID] = stream
	m.log.Debug("stream started", "id", stream.ID, "tokens", len(spec.Tokens))

	m.arm(stream, spec.TokenInterval)
	return stream
}

// GetStream returns an active stream by ID
func (m *Manager) GetStream(streamID string) (*ActiveStream, bool) {
	stream, exists := m.activeStreams[streamID]
	return stream, exists
}

// Active returns the IDs of all in-flight streams
func (m *Manager) Active() []string {
	ids := make([]string, 0, len(m.activeStreams))
	for id := range m.activeStreams {
		ids = append(ids, id)
	}
	return ids
}

// Idle reports whether no streams are in flight
func (m *Manager) Idle() bool {
	return len(m.activeStreams) == 0
}

// EndStream finishes a stream immediately: remaining tokens and fences are
// flushed in one burst and the marker (unless omitted) appears right away
func (m *Manager) EndStream(streamID string) {
	stream, exists := m.activeStreams[streamID]
	if !exists {
		return
	}
	if stream.timer != nil {
		stream.timer.Stop()
	}
	for stream.pos < len(stream.spec.Tokens) {
		stream.paragraph.AppendText(stream.spec.Tokens[stream.pos])
		stream.pos++
	}
	for stream.fencePos < len(stream.spec.Fences) {
		m.appendFence(stream)
	}
	m.finish(stream)
}

// arm schedules the next delivery tick for a stream
func (m *Manager) arm(stream *ActiveStream, d time.Duration) {
	id := stream.ID
	stream.timer = m.clock.AfterFunc(d, func() {
		m.post(func() {
			m.tick(id)
		})
	})
}

// tick delivers the next unit: one prose token, then one fence per tick,
// then the completion marker after the marker delay
func (m *Manager) tick(streamID string) {
	stream, exists := m.activeStreams[streamID]
	if !exists {
		return
	}

	switch {
	case stream.pos < len(stream.spec.Tokens):
		stream.paragraph.AppendText(stream.spec.Tokens[stream.pos])
		stream.pos++
		m.arm(stream, stream.spec.TokenInterval)
	case stream.fencePos < len(stream.spec.Fences):
		m.appendFence(stream)
		m.arm(stream, stream.spec.TokenInterval)
	default:
		m.finish(stream)
	}
}

// appendFence attaches the next fenced block to the message content
func (m *Manager) appendFence(stream *ActiveStream) {
	fence := stream.spec.Fences[stream.fencePos]
	stream.fencePos++

	code := dom.NewNode("code", "language-"+fence.Lang)
	code.SetText(fence.Source)
	pre := dom.NewNode("pre")
	pre.AppendChild(code)
	stream.Content.AppendChild(pre)
}

// finish ends delivery; the marker appears after the marker delay unless
// the spec omits it
func (m *Manager) finish(stream *ActiveStream) {
	delete(m.activeStreams, stream.ID)
	m.log.Debug("stream finished", "id", stream.ID, "elapsed", m.clock.Now().Sub(stream.StartTime))

	if stream.spec.OmitMarker {
		return
	}
	message := stream.Message
	m.clock.AfterFunc(stream.spec.MarkerDelay, func() {
		m.post(func() {
			if !message.Attached() {
				return
			}
			marker := dom.NewNode("div", dom.ClassFeedback)
			marker.SetText("👍 👎 ⟳")
			message.AppendChild(marker)
		})
	})
}
