package jobs

import (
	"context"
	"fmt"
	"time"
)

// ParseClock parses a UTC time of day written as HH:MM.
func ParseClock(at string) (hour, minute int, err error) {
	t, err := time.Parse("15:04", at)
	if err != nil {
		return 0, 0, fmt.Errorf("jobs: invalid time of day %q: %w", at, err)
	}
	return t.Hour(), t.Minute(), nil
}

// NextRun returns the first moment strictly after now at hour:minute UTC.
func NextRun(now time.Time, hour, minute int) time.Time {
	now = now.UTC()
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, time.UTC)
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// Daily calls fn once a day at the UTC time of day `at` until ctx is done.
// now may be nil, in which case time.Now is used.
func Daily(ctx context.Context, at string, now func() time.Time, fn func(ctx context.Context, tick time.Time)) error {
	hour, minute, err := ParseClock(at)
	if err != nil {
		return err
	}
	if now == nil {
		now = time.Now
	}

	for {
		next := NextRun(now(), hour, minute)
		timer := time.NewTimer(next.Sub(now()))
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-timer.C:
			fn(ctx, next)
		}
	}
}
