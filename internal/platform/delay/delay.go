// Package delay pauses form submissions for a configured processing time.
package delay

import (
	"context"
	"time"
)

// Sleep waits for d or until ctx is done, whichever comes first. It returns ctx.Err() when the
// context ends the wait. d <= 0 returns immediately.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
