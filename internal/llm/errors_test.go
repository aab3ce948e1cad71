package llm

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRetryAfter(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		value string
		want  time.Duration
	}{
		{"", 0},
		{"7", 7 * time.Second},
		{"-2", 0},
		{now.Add(90 * time.Second).Format(http.TimeFormat), 90 * time.Second},
		{now.Add(-time.Minute).Format(http.TimeFormat), 0},
		{"soon", 0},
	}
	for _, tt := range tests {
		h := http.Header{}
		if tt.value != "" {
			h.Set("Retry-After", tt.value)
		}
		assert.Equal(t, tt.want, retryAfter(h, now), "Retry-After %q", tt.value)
	}
	assert.Zero(t, retryAfter(nil, now))
}

func TestFromStatus(t *testing.T) {
	cause := errors.New("sdk error")

	var rl *ErrRateLimit
	assert.ErrorAs(t, fromStatus(http.StatusTooManyRequests, nil, cause), &rl)
	assert.Zero(t, rl.RetryAfter)

	var rejected *ErrRejected
	assert.ErrorAs(t, fromStatus(http.StatusNotFound, nil, cause), &rejected)
	assert.Equal(t, http.StatusNotFound, rejected.Status)

	var down *ErrProviderUnavailable
	assert.ErrorAs(t, fromStatus(http.StatusBadGateway, nil, cause), &down)
	assert.ErrorIs(t, fromStatus(http.StatusBadGateway, nil, cause), cause)
}
