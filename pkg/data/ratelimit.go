package data

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/google/go-github/v83/github"
)

const (
	rateLimitThreshold = 10
	rateLimitJitterMs  = 2000
)

// waitForRateLimit blocks until the rate window resets when the
// remaining call budget drops below the threshold, or until the
// context is done. Jitter spreads concurrent page fetchers across
// the reset boundary.
func waitForRateLimit(ctx context.Context, resp *github.Response) error {
	if resp == nil || resp.Rate.Remaining > rateLimitThreshold {
		return nil
	}

	resetAt := resp.Rate.Reset.Time
	wait := time.Until(resetAt)
	if wait <= 0 {
		return nil
	}

	total := wait + time.Duration(rand.IntN(rateLimitJitterMs))*time.Millisecond

	slog.Info("rate limit approaching, waiting",
		"remaining", resp.Rate.Remaining,
		"reset_at", resetAt.Format(time.RFC3339),
		"wait", total.String(),
	)

	timer := time.NewTimer(total)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
