package handlers

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/zatekoja/feedbackinsights/internal/domain/entities"
)

func TestLocalRateLimiter(t *testing.T) {
	limiter := newLocalRateLimiter(2, time.Minute)

	ok1, _ := limiter.allow("a")
	ok2, _ := limiter.allow("a")
	ok3, retryAfter := limiter.allow("a")
	okOther, _ := limiter.allow("b")

	assert.True(t, ok1)
	assert.True(t, ok2)
	assert.False(t, ok3)
	assert.True(t, okOther)
	assert.Greater(t, retryAfter, time.Duration(0))
	assert.LessOrEqual(t, retryAfter, time.Minute)
}

func TestSubmissionGuard_ClaimAndRelease(t *testing.T) {
	guard := newSubmissionGuard(nil)
	ctx := context.Background()

	assert.True(t, guard.claim(ctx, "fp"))
	assert.False(t, guard.claim(ctx, "fp"))

	guard.release(ctx, "fp")
	assert.True(t, guard.claim(ctx, "fp"))
}

func TestSubmissionFingerprint_NormalizesWhitespaceAndCase(t *testing.T) {
	a := entities.FeedbackSubmission{UserName: "Ada", Category: "Other", Rating: 3, Message: "Hello   World"}
	b := entities.FeedbackSubmission{UserName: "ada ", Category: "Other", Rating: 3, Message: "hello world"}
	c := b
	c.Rating = 4

	assert.Equal(t, submissionFingerprint(a, "1.1.1.1"), submissionFingerprint(b, "1.1.1.1"))
	assert.NotEqual(t, submissionFingerprint(a, "1.1.1.1"), submissionFingerprint(c, "1.1.1.1"))
	assert.NotEqual(t, submissionFingerprint(a, "1.1.1.1"), submissionFingerprint(a, "2.2.2.2"))
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "192.168.1.5:5555"
	assert.Equal(t, "192.168.1.5", clientIP(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	assert.Equal(t, "203.0.113.7", clientIP(req))
}
