package data

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-github/v83/github"
	"github.com/stretchr/testify/assert"
)

func TestWaitForRateLimit_NilResponse(t *testing.T) {
	assert.NoError(t, waitForRateLimit(t.Context(), nil))
}

func TestWaitForRateLimit_BudgetRemaining(t *testing.T) {
	resp := &github.Response{
		Rate: github.Rate{
			Remaining: rateLimitThreshold + 1,
			Reset:     github.Timestamp{Time: time.Now().Add(time.Hour)},
		},
	}
	start := time.Now()
	assert.NoError(t, waitForRateLimit(t.Context(), resp))
	assert.Less(t, time.Since(start), time.Second)
}

func TestWaitForRateLimit_ResetInPast(t *testing.T) {
	resp := &github.Response{
		Rate: github.Rate{
			Remaining: 0,
			Reset:     github.Timestamp{Time: time.Now().Add(-time.Minute)},
		},
	}
	assert.NoError(t, waitForRateLimit(t.Context(), resp))
}

func TestWaitForRateLimit_CanceledContext(t *testing.T) {
	resp := &github.Response{
		Rate: github.Rate{
			Remaining: 0,
			Reset:     github.Timestamp{Time: time.Now().Add(time.Hour)},
		},
	}

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	start := time.Now()
	err := waitForRateLimit(ctx, resp)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), time.Second)
}
