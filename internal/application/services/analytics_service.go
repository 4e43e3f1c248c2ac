package services

import (
	"context"
	"time"

	"github.com/zatekoja/feedbackinsights/internal/analytics"
	"github.com/zatekoja/feedbackinsights/internal/domain/entities"
	"github.com/zatekoja/feedbackinsights/internal/domain/repositories"
	"github.com/zatekoja/feedbackinsights/internal/infrastructure/observability"
)

// AnalyticsQuery selects the records a snapshot is computed over.
type AnalyticsQuery struct {
	Filter entities.FeedbackFilter
	// Days restricts the snapshot to the last N days; 0 means no window.
	Days    int
	Options analytics.Options
}

// AnalyticsService reads a fresh store snapshot and aggregates it on every call.
type AnalyticsService struct {
	repo    repositories.FeedbackRepository
	metrics *observability.Metrics
	now     func() time.Time
}

// NewAnalyticsService creates a new analytics service.
func NewAnalyticsService(repo repositories.FeedbackRepository, metrics *observability.Metrics) *AnalyticsService {
	return &AnalyticsService{repo: repo, metrics: metrics, now: time.Now}
}

// Snapshot computes metrics over the records selected by q.
func (s *AnalyticsService) Snapshot(ctx context.Context, q AnalyticsQuery) (entities.AnalyticsSnapshot, error) {
	ctx, span := observability.StartSpan(ctx, "AnalyticsService.Snapshot")
	defer span.End()

	now := s.now().UTC()
	filter := q.Filter
	if q.Days > 0 {
		windowStart := now.AddDate(0, 0, -q.Days)
		if filter.From.IsZero() || windowStart.After(filter.From) {
			filter.From = windowStart
		}
	}

	start := time.Now()
	records, err := s.repo.ListAll(ctx, filter)
	if err != nil {
		observability.RecordError(span, err)
		return entities.AnalyticsSnapshot{}, err
	}
	observability.RecordStoreMetric(ctx, s.metrics, "list", time.Since(start))

	snapshot := analytics.ComputeMetrics(records, q.Options)
	snapshot.GeneratedAt = now

	observability.LoggerFromContext(ctx).Debug().
		Int("total", snapshot.Total).
		Str("granularity", string(snapshot.Granularity)).
		Msg("Analytics snapshot computed")
	return snapshot, nil
}
