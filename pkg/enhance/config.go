package enhance

import (
	"time"

	"github.com/killallgit/garnish/pkg/config"
)

// Config is the render configuration supplied once at Start. It is read-only
// for the life of the enhancer; every component may read it without
// synchronization.
type Config struct {
	DiagramsEnabled   bool
	MathEnabled       bool
	CopyButtonEnabled bool
	HighlightEnabled  bool

	// IdleDelay is the minimum quiet period with no text change before a
	// block is considered stable absent other signals. It is also the
	// scheduler's timer interval.
	IdleDelay time.Duration

	// MaxWait bounds deferral: a block whose completion cannot be confirmed
	// is force-finalized once it has been idle this long.
	MaxWait time.Duration
}

// DefaultConfig returns the default render configuration
func DefaultConfig() Config {
	return Config{
		DiagramsEnabled:   true,
		MathEnabled:       true,
		CopyButtonEnabled: true,
		HighlightEnabled:  true,
		IdleDelay:         360 * time.Millisecond,
		MaxWait:           2500 * time.Millisecond,
	}
}

// FromSettings builds a Config from the global settings
func FromSettings(s *config.Settings) Config {
	return Config{
		DiagramsEnabled:   s.Enhance.DiagramsEnabled,
		MathEnabled:       s.Enhance.MathEnabled,
		CopyButtonEnabled: s.Enhance.CopyButtonEnabled,
		HighlightEnabled:  s.Enhance.HighlightEnabled,
		IdleDelay:         time.Duration(s.Enhance.IdleDelayMs) * time.Millisecond,
		MaxWait:           time.Duration(s.Enhance.MaxWaitMs) * time.Millisecond,
	}
}

// withDefaults fills in unset durations
func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.IdleDelay <= 0 {
		c.IdleDelay = def.IdleDelay
	}
	if c.MaxWait <= 0 {
		c.MaxWait = def.MaxWait
	}
	return c
}
