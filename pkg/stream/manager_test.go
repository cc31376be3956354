package stream

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/killallgit/garnish/pkg/dom"
	"github.com/killallgit/garnish/pkg/enhance"
)

func newTestManager() (*dom.Document, *dom.Node, *enhance.FakeClock, *Manager) {
	doc := dom.NewDocument()
	conv := dom.NewNode("div", dom.ClassConversation)
	doc.Root().AppendChild(conv)
	clock := enhance.NewFakeClock(time.Unix(0, 0))
	inline := func(fn func()) { fn() }
	return doc, conv, clock, NewManager(conv, clock, inline)
}

func TestStartStreamBuildsMessageShape(t *testing.T) {
	_, conv, _, m := newTestManager()

	s := m.StartStream(Spec{Tokens: []string{"hello"}})
	require.True(t, s.Message.HasClass(dom.ClassMessage))
	require.True(t, s.Content.HasClass(dom.ClassContent))
	require.Equal(t, 1, len(conv.Children()))
	require.False(t, m.Idle())

	got, ok := m.GetStream(s.ID)
	require.True(t, ok)
	require.Equal(t, s, got)
}

func TestTokensArriveOnInterval(t *testing.T) {
	_, _, clock, m := newTestManager()

	s := m.StartStream(Spec{
		Tokens:        []string{"one ", "two ", "three"},
		TokenInterval: 40 * time.Millisecond,
		OmitMarker:    true,
	})

	clock.Advance(40 * time.Millisecond)
	require.Equal(t, "one ", s.Content.Text())
	clock.Advance(40 * time.Millisecond)
	require.Equal(t, "one two ", s.Content.Text())
	clock.Advance(40 * time.Millisecond)
	require.Equal(t, "one two three", s.Content.Text())

	// One more tick finishes the stream without a marker
	clock.Advance(40 * time.Millisecond)
	require.True(t, m.Idle())
	require.Nil(t, s.Message.Find(func(n *dom.Node) bool { return n.HasClass(dom.ClassFeedback) }))
}

func TestFencesFollowProse(t *testing.T) {
	_, _, clock, m := newTestManager()

	s := m.StartStream(Spec{
		Tokens:        []string{"look: "},
		Fences:        []Fence{{Lang: "go", Source: "println(1)"}},
		TokenInterval: 10 * time.Millisecond,
		OmitMarker:    true,
	})

	clock.Advance(20 * time.Millisecond)
	code := s.Content.Find(func(n *dom.Node) bool { return n.Tag() == "code" })
	require.NotNil(t, code)
	require.True(t, code.HasClass("language-go"))
	require.Equal(t, "println(1)", code.Text())
}

func TestMarkerAppearsAfterDelay(t *testing.T) {
	_, _, clock, m := newTestManager()

	s := m.StartStream(Spec{
		Tokens:        []string{"done"},
		TokenInterval: 10 * time.Millisecond,
		MarkerDelay:   150 * time.Millisecond,
	})

	// Token tick, then the finishing tick
	clock.Advance(20 * time.Millisecond)
	require.True(t, m.Idle())

	isMarker := func(n *dom.Node) bool { return n.HasClass(dom.ClassFeedback) }
	require.Nil(t, s.Message.Find(isMarker))

	clock.Advance(150 * time.Millisecond)
	require.NotNil(t, s.Message.Find(isMarker))
}

func TestMarkerSkippedWhenMessageRemoved(t *testing.T) {
	_, conv, clock, m := newTestManager()

	s := m.StartStream(Spec{
		Tokens:        []string{"x"},
		TokenInterval: 10 * time.Millisecond,
		MarkerDelay:   100 * time.Millisecond,
	})
	clock.Advance(20 * time.Millisecond)
	require.True(t, m.Idle())

	conv.RemoveChild(s.Message)
	clock.Advance(time.Second)
	require.Nil(t, s.Message.Find(func(n *dom.Node) bool { return n.HasClass(dom.ClassFeedback) }))
}

func TestEndStreamFlushesEverything(t *testing.T) {
	_, _, clock, m := newTestManager()

	s := m.StartStream(Spec{
		Tokens: []string{"a", "b", "c"},
		Fences: []Fence{{Lang: "python", Source: "pass"}},
	})
	m.EndStream(s.ID)

	require.True(t, m.Idle())
	require.Contains(t, s.Content.Text(), "abc")
	require.Contains(t, s.Content.Text(), "pass")

	// Marker still honors its delay
	clock.Advance(time.Second)
	require.NotNil(t, s.Message.Find(func(n *dom.Node) bool { return n.HasClass(dom.ClassFeedback) }))
}

func TestActiveListsInFlightStreams(t *testing.T) {
	_, _, clock, m := newTestManager()

	a := m.StartStream(Spec{Tokens: []string{"a"}, TokenInterval: 10 * time.Millisecond, OmitMarker: true})
	b := m.StartStream(Spec{Tokens: []string{"b", "bb"}, TokenInterval: 10 * time.Millisecond, OmitMarker: true})
	require.ElementsMatch(t, []string{a.ID, b.ID}, m.Active())

	clock.Advance(20 * time.Millisecond)
	require.Equal(t, []string{b.ID}, m.Active())
}
