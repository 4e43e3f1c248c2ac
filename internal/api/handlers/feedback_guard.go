package handlers

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/rs/zerolog/log"

	"github.com/zatekoja/feedbackinsights/internal/domain/entities"
	"github.com/zatekoja/feedbackinsights/internal/domain/providers"
)

const (
	feedbackRateLimit   = 5
	feedbackRateWindow  = time.Hour
	feedbackDedupWindow = 24 * time.Hour

	localGuardCapacity = 10000
)

// submissionGuard throttles submissions per client and suppresses identical
// resubmissions. It uses the shared cache when available and falls back to
// process-local state when the cache is absent or failing.
type submissionGuard struct {
	cache   providers.CacheProvider
	limiter *localRateLimiter
	deduper *localDeduper
}

func newSubmissionGuard(cache providers.CacheProvider) *submissionGuard {
	return &submissionGuard{
		cache:   cache,
		limiter: newLocalRateLimiter(feedbackRateLimit, feedbackRateWindow),
		deduper: newLocalDeduper(feedbackDedupWindow),
	}
}

func (g *submissionGuard) allow(ctx context.Context, clientKey string) (bool, time.Duration) {
	key := "feedback:rate:" + clientKey
	if g.cache != nil {
		count, remaining, err := g.cache.Increment(ctx, key, feedbackRateWindow)
		if err == nil {
			return count <= feedbackRateLimit, remaining
		}
		log.Warn().Err(err).Msg("Rate limit cache unavailable, using local limiter")
	}
	return g.limiter.allow(key)
}

// claim reports whether fingerprint is new and reserves it for the dedup window.
func (g *submissionGuard) claim(ctx context.Context, fingerprint string) bool {
	key := "feedback:dup:" + fingerprint
	if g.cache != nil {
		stored, err := g.cache.SetIfAbsent(ctx, key, []byte("1"), int(feedbackDedupWindow.Seconds()))
		if err == nil {
			return stored
		}
		log.Warn().Err(err).Msg("Dedup cache unavailable, using local window")
	}
	return g.deduper.claim(key)
}

// release frees a fingerprint whose submission was not stored, so a retry is accepted.
func (g *submissionGuard) release(ctx context.Context, fingerprint string) {
	key := "feedback:dup:" + fingerprint
	if g.cache != nil {
		if err := g.cache.Delete(ctx, key); err != nil && !errors.Is(err, providers.ErrCacheMiss) {
			log.Warn().Err(err).Msg("Failed to release dedup key")
		}
	}
	g.deduper.release(key)
}

type localRateState struct {
	count   int
	resetAt time.Time
}

type localRateLimiter struct {
	mu     sync.Mutex
	limit  int
	window time.Duration
	states *expirable.LRU[string, *localRateState]
}

func newLocalRateLimiter(limit int, window time.Duration) *localRateLimiter {
	return &localRateLimiter{
		limit:  limit,
		window: window,
		states: expirable.NewLRU[string, *localRateState](localGuardCapacity, nil, window),
	}
}

func (l *localRateLimiter) allow(key string) (bool, time.Duration) {
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	state, ok := l.states.Get(key)
	if !ok || now.After(state.resetAt) {
		state = &localRateState{resetAt: now.Add(l.window)}
		l.states.Add(key, state)
	}

	retryAfter := state.resetAt.Sub(now)
	if state.count >= l.limit {
		return false, retryAfter
	}
	state.count++
	return true, retryAfter
}

type localDeduper struct {
	mu      sync.Mutex
	entries *expirable.LRU[string, struct{}]
}

func newLocalDeduper(window time.Duration) *localDeduper {
	return &localDeduper{
		entries: expirable.NewLRU[string, struct{}](localGuardCapacity, nil, window),
	}
}

func (d *localDeduper) claim(key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.entries.Contains(key) {
		return false
	}
	d.entries.Add(key, struct{}{})
	return true
}

func (d *localDeduper) release(key string) {
	d.entries.Remove(key)
}

func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		return strings.TrimSpace(parts[0])
	}
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return strings.TrimSpace(realIP)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil {
		return host
	}
	return r.RemoteAddr
}

func submissionFingerprint(sub entities.FeedbackSubmission, ip string) string {
	normalized := []string{
		strconv.Itoa(sub.Rating),
		normalizeFeedback(sub.Message),
		strings.ToLower(strings.TrimSpace(sub.UserName)),
		strings.ToLower(strings.TrimSpace(sub.Email)),
		sub.Category,
		ip,
	}

	hash := sha256.Sum256([]byte(strings.Join(normalized, "|")))
	return hex.EncodeToString(hash[:])
}

func normalizeFeedback(value string) string {
	return strings.Join(strings.Fields(strings.ToLower(value)), " ")
}
