package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/zatekoja/feedbackinsights/internal/analytics"
	"github.com/zatekoja/feedbackinsights/internal/application/services"
	"github.com/zatekoja/feedbackinsights/internal/domain/entities"
	"github.com/zatekoja/feedbackinsights/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/feedbackinsights/pkg/errors"
)

// AnalyticsService defines the analytics operations used by the handler.
type AnalyticsService interface {
	Snapshot(ctx context.Context, q services.AnalyticsQuery) (entities.AnalyticsSnapshot, error)
}

// AnalyticsHandler serves aggregate metrics.
type AnalyticsHandler struct {
	service            AnalyticsService
	defaultGranularity entities.Granularity
	defaultTopN        int
}

// NewAnalyticsHandler creates a new analytics handler.
func NewAnalyticsHandler(service AnalyticsService, defaultGranularity entities.Granularity, defaultTopN int) *AnalyticsHandler {
	if !defaultGranularity.Valid() {
		defaultGranularity = entities.GranularityDay
	}
	return &AnalyticsHandler{
		service:            service,
		defaultGranularity: defaultGranularity,
		defaultTopN:        defaultTopN,
	}
}

// GetAnalytics handles GET /api/analytics
func (h *AnalyticsHandler) GetAnalytics(w http.ResponseWriter, r *http.Request) {
	query, err := h.parseQuery(r)
	if err != nil {
		respondWithAppError(w, err, "invalid query")
		return
	}

	snapshot, err := h.service.Snapshot(r.Context(), query)
	if err != nil {
		observability.LoggerFromContext(r.Context()).Error().Err(err).Msg("Failed to compute analytics")
		respondWithAppError(w, err, "failed to compute analytics")
		return
	}

	respondWithJSON(w, http.StatusOK, snapshot)
}

func (h *AnalyticsHandler) parseQuery(r *http.Request) (services.AnalyticsQuery, error) {
	q := r.URL.Query()

	filter, err := parseFeedbackFilter(q)
	if err != nil {
		return services.AnalyticsQuery{}, err
	}

	days, err := nonNegativeInt(q, "days")
	if err != nil {
		return services.AnalyticsQuery{}, err
	}

	granularity := h.defaultGranularity
	if raw := q.Get("granularity"); raw != "" {
		granularity = entities.Granularity(strings.ToLower(raw))
		if !granularity.Valid() {
			return services.AnalyticsQuery{}, apperrors.NewValidationError(fmt.Sprintf("granularity must be one of day, week, month; got %q", raw))
		}
	}

	fillGaps, err := boolParam(q, "fill_gaps")
	if err != nil {
		return services.AnalyticsQuery{}, err
	}

	topN := h.defaultTopN
	if q.Get("top") != "" {
		if topN, err = nonNegativeInt(q, "top"); err != nil {
			return services.AnalyticsQuery{}, err
		}
	}

	return services.AnalyticsQuery{
		Filter: filter,
		Days:   days,
		Options: analytics.Options{
			Granularity: granularity,
			FillGaps:    fillGaps,
			TopN:        topN,
		},
	}, nil
}
