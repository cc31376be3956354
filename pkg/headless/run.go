package headless

import (
	"context"
	"fmt"
	"os"
	"time"
)

// RunHeadless streams the demo conversation through the enhancement pipeline
// without a terminal UI and prints the enhanced transcript to stdout.
// This is the main entry point for headless/CLI execution.
func RunHeadless(timeout time.Duration) error {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	runner := newRunner(os.Stdout)
	if err := runner.run(ctx); err != nil {
		return fmt.Errorf("headless run failed: %w", err)
	}
	return nil
}
