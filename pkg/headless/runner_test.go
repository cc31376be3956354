package headless

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/killallgit/garnish/pkg/dom"
)

func TestTranscriptOutput(t *testing.T) {
	conv := dom.NewNode("div", dom.ClassConversation)
	for _, text := range []string{"first answer", "second answer"} {
		msg := dom.NewNode("div", dom.ClassMessage)
		block := dom.NewNode("div", dom.ClassContent)
		block.SetText(text)
		msg.AppendChild(block)
		conv.AppendChild(msg)
	}

	var buf bytes.Buffer
	NewOutput(&buf).Transcript(conv)

	out := buf.String()
	require.Contains(t, out, "first answer")
	require.Contains(t, out, "second answer")
	require.Contains(t, out, "─")
}

func TestRunEnhancesWholeTranscript(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	var buf bytes.Buffer
	r := newRunner(&buf)
	r.config.tokenInterval = time.Millisecond
	r.config.markerDelay = 5 * time.Millisecond

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	require.NoError(t, r.run(ctx))

	out := buf.String()
	require.Contains(t, out, "mc²")
	require.Contains(t, out, "Tokens ──▶ Scan")
}
