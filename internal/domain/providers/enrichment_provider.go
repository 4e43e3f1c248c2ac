package providers

import (
	"context"

	"github.com/zatekoja/feedbackinsights/internal/domain/entities"
)

// EnrichmentProvider derives sentiment, summary, response and recommendations
// for a feedback message. Implementations never fail: errors are folded into a
// degraded result.
type EnrichmentProvider interface {
	Enrich(ctx context.Context, message, category string, rating int) entities.EnrichmentResult
}
