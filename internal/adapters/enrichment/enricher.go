package enrichment

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/zatekoja/feedbackinsights/internal/domain/entities"
	"github.com/zatekoja/feedbackinsights/internal/domain/providers"
	"github.com/zatekoja/feedbackinsights/internal/infrastructure/observability"
)

const defaultTimeout = 15 * time.Second

// Degradation reasons recorded in logs and metrics.
const (
	ReasonAPIKeyMissing = "api_key_missing"
	ReasonTimeout       = "timeout"
	ReasonTransport     = "transport"
	ReasonUnauthorized  = "status_401"
	ReasonRateLimited   = "status_429"
	ReasonEmptyBody     = "empty_body"
	ReasonUnparseable   = "unparseable"
)

// Options tunes the completion request.
type Options struct {
	Timeout     time.Duration
	Temperature float64
	MaxTokens   int
}

// Enricher turns a feedback message into an EnrichmentResult with one model call.
type Enricher struct {
	completion providers.CompletionProvider
	opts       Options
}

var _ providers.EnrichmentProvider = (*Enricher)(nil)

// NewEnricher creates an enricher. A nil provider means no credentials were
// configured and every call degrades immediately.
func NewEnricher(completion providers.CompletionProvider, opts Options) *Enricher {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = 500
	}
	return &Enricher{completion: completion, opts: opts}
}

// Enrich never returns an error; failures become a degraded result.
func (e *Enricher) Enrich(ctx context.Context, message, category string, rating int) entities.EnrichmentResult {
	logger := observability.LoggerFromContext(ctx)

	if e.completion == nil {
		logger.Warn().Str("reason", ReasonAPIKeyMissing).Msg("Enrichment skipped, no language model configured")
		return entities.DegradedEnrichment(ReasonAPIKeyMissing)
	}

	ctx, cancel := context.WithTimeout(ctx, e.opts.Timeout)
	defer cancel()

	start := time.Now()
	reply, err := e.completion.Complete(ctx, providers.CompletionRequest{
		SystemPrompt: feedbackSystemPrompt,
		UserPrompt:   buildFeedbackUserPrompt(message, category, rating),
		Temperature:  e.opts.Temperature,
		MaxTokens:    e.opts.MaxTokens,
	})
	if err != nil {
		reason := classifyError(ctx, err)
		logger.Warn().
			Err(err).
			Str("reason", reason).
			Dur("elapsed", time.Since(start)).
			Msg("Enrichment call failed, using fallback")
		return entities.DegradedEnrichment(reason)
	}

	result := parseSections(reply).toResult()
	switch result.Status {
	case entities.EnrichmentDegraded:
		logger.Warn().
			Str("reason", result.Reason).
			Int("reply_length", len(reply)).
			Msg("Enrichment reply could not be parsed, using fallback")
	case entities.EnrichmentPartial:
		logger.Info().Msg("Enrichment reply was missing sections, defaults applied")
	default:
		logger.Debug().Dur("elapsed", time.Since(start)).Msg("Enrichment completed")
	}
	return result
}

type httpStatusError interface {
	HTTPStatus() int
}

func classifyError(ctx context.Context, err error) string {
	var netErr net.Error
	var statusErr httpStatusError

	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(ctx.Err(), context.DeadlineExceeded):
		return ReasonTimeout
	case errors.As(err, &netErr) && netErr.Timeout():
		return ReasonTimeout
	case errors.Is(err, providers.ErrCompletionUnauthorized):
		return ReasonUnauthorized
	case errors.Is(err, providers.ErrCompletionRateLimited):
		return ReasonRateLimited
	case errors.Is(err, providers.ErrCompletionEmpty):
		return ReasonEmptyBody
	case errors.As(err, &statusErr):
		if statusErr.HTTPStatus() >= 500 {
			return "status_5xx"
		}
		return fmt.Sprintf("status_%d", statusErr.HTTPStatus())
	default:
		return ReasonTransport
	}
}
