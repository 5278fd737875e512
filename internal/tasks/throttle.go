package tasks

import (
	"context"
	"time"
)

// Throttle is a fixed pause taken after every Every-th item. A zero Every disables it.
type Throttle struct {
	Every int
	Pause time.Duration
}

// Due reports whether the pause is taken after item i (zero-based). Item 0 never pauses.
func (t Throttle) Due(i int) bool {
	return t.Every > 0 && t.Pause > 0 && i > 0 && i%t.Every == 0
}

// Sleeper blocks for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
