package enhance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFakeClockFiresInDeadlineOrder(t *testing.T) {
	c := NewFakeClock(time.Unix(0, 0))

	var order []string
	c.AfterFunc(300*time.Millisecond, func() { order = append(order, "late") })
	c.AfterFunc(100*time.Millisecond, func() { order = append(order, "early") })

	c.Advance(time.Second)
	require.Equal(t, []string{"early", "late"}, order)
}

func TestFakeClockNowDuringCallback(t *testing.T) {
	start := time.Unix(0, 0)
	c := NewFakeClock(start)

	var seen time.Time
	c.AfterFunc(250*time.Millisecond, func() { seen = c.Now() })

	c.Advance(time.Second)
	require.Equal(t, start.Add(250*time.Millisecond), seen)
	require.Equal(t, start.Add(time.Second), c.Now())
}

func TestFakeClockRearmWithinWindow(t *testing.T) {
	c := NewFakeClock(time.Unix(0, 0))

	fires := 0
	var rearm func()
	rearm = func() {
		fires++
		if fires < 3 {
			c.AfterFunc(100*time.Millisecond, rearm)
		}
	}
	c.AfterFunc(100*time.Millisecond, rearm)

	c.Advance(time.Second)
	require.Equal(t, 3, fires)
}

func TestFakeClockStop(t *testing.T) {
	c := NewFakeClock(time.Unix(0, 0))

	fired := false
	timer := c.AfterFunc(100*time.Millisecond, func() { fired = true })
	require.True(t, timer.Stop())
	require.False(t, timer.Stop())

	c.Advance(time.Second)
	require.False(t, fired)
}

func TestFakeClockPendingBeyondWindow(t *testing.T) {
	c := NewFakeClock(time.Unix(0, 0))

	fired := false
	c.AfterFunc(500*time.Millisecond, func() { fired = true })

	c.Advance(499 * time.Millisecond)
	require.False(t, fired)
	c.Advance(1 * time.Millisecond)
	require.True(t, fired)
}
