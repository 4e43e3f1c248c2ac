package services

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/zatekoja/feedbackinsights/internal/domain/entities"
	"github.com/zatekoja/feedbackinsights/internal/domain/providers"
	"github.com/zatekoja/feedbackinsights/internal/domain/repositories"
	"github.com/zatekoja/feedbackinsights/internal/infrastructure/observability"
	"github.com/zatekoja/feedbackinsights/pkg/config"
	apperrors "github.com/zatekoja/feedbackinsights/pkg/errors"
)

const (
	maxUserNameLength = 120
	maxEmailLength    = 200
	publishTimeout    = 3 * time.Second
)

// FeedbackService runs the submission pipeline: validate, enrich, store, publish.
type FeedbackService struct {
	repo     repositories.FeedbackRepository
	enricher providers.EnrichmentProvider
	events   providers.EventBus
	rules    config.FeedbackConfig
	metrics  *observability.Metrics
}

// NewFeedbackService creates a new feedback service. events and metrics may be nil.
func NewFeedbackService(
	repo repositories.FeedbackRepository,
	enricher providers.EnrichmentProvider,
	events providers.EventBus,
	rules config.FeedbackConfig,
	metrics *observability.Metrics,
) *FeedbackService {
	if rules.MaxMessageLength <= 0 {
		rules.MaxMessageLength = 5000
	}
	if len(rules.Categories) == 0 {
		rules.Categories = config.DefaultCategories
	}
	return &FeedbackService{
		repo:     repo,
		enricher: enricher,
		events:   events,
		rules:    rules,
		metrics:  metrics,
	}
}

// Categories returns the accepted category names in display order.
func (s *FeedbackService) Categories() []string {
	out := make([]string, len(s.rules.Categories))
	copy(out, s.rules.Categories)
	return out
}

// Validate trims the submission and checks every field constraint.
func (s *FeedbackService) Validate(sub entities.FeedbackSubmission) (entities.FeedbackSubmission, error) {
	sub.UserName = strings.TrimSpace(sub.UserName)
	sub.Email = strings.TrimSpace(sub.Email)
	sub.Category = strings.TrimSpace(sub.Category)
	sub.Message = strings.TrimSpace(sub.Message)

	switch {
	case sub.UserName == "":
		return sub, apperrors.NewValidationError("user name is required")
	case utf8.RuneCountInString(sub.UserName) > maxUserNameLength:
		return sub, apperrors.NewValidationError(fmt.Sprintf("user name must be at most %d characters", maxUserNameLength))
	case utf8.RuneCountInString(sub.Email) > maxEmailLength:
		return sub, apperrors.NewValidationError(fmt.Sprintf("email must be at most %d characters", maxEmailLength))
	case sub.Rating < entities.MinRating || sub.Rating > entities.MaxRating:
		return sub, apperrors.NewValidationError(fmt.Sprintf("rating must be between %d and %d", entities.MinRating, entities.MaxRating))
	case !s.knownCategory(sub.Category):
		return sub, apperrors.NewValidationError(fmt.Sprintf("unknown category %q", sub.Category))
	case sub.Message == "":
		return sub, apperrors.NewValidationError("message is required")
	}

	length := utf8.RuneCountInString(sub.Message)
	if length < s.rules.MinMessageLength {
		return sub, apperrors.NewValidationError(fmt.Sprintf("message must be at least %d characters", s.rules.MinMessageLength))
	}
	if length > s.rules.MaxMessageLength {
		return sub, apperrors.NewValidationError(fmt.Sprintf("message must be at most %d characters", s.rules.MaxMessageLength))
	}
	return sub, nil
}

func (s *FeedbackService) knownCategory(category string) bool {
	for _, c := range s.rules.Categories {
		if c == category {
			return true
		}
	}
	return false
}

// Submit validates, enriches and stores a submission. Enrichment failures never
// fail the call; a store failure is returned as a persistence error.
func (s *FeedbackService) Submit(ctx context.Context, sub entities.FeedbackSubmission) (*entities.FeedbackRecord, error) {
	ctx, span := observability.StartSpan(ctx, "FeedbackService.Submit")
	defer span.End()
	logger := observability.LoggerFromContext(ctx)

	sub, err := s.Validate(sub)
	if err != nil {
		return nil, err
	}

	enrichment := s.enricher.Enrich(ctx, sub.Message, sub.Category, sub.Rating)
	observability.SetSpanAttributes(span,
		attribute.String("feedback.category", sub.Category),
		attribute.String("feedback.enrichment_status", string(enrichment.Status)),
	)

	record := entities.NewFeedbackRecord(sub, enrichment)

	start := time.Now()
	if _, err := s.repo.Insert(ctx, record); err != nil {
		observability.RecordError(span, err)
		logger.Error().
			Err(err).
			Str("category", sub.Category).
			Str("enrichment_status", string(enrichment.Status)).
			Msg("Feedback was enriched but could not be stored")
		return nil, err
	}
	observability.RecordStoreMetric(ctx, s.metrics, "insert", time.Since(start))
	observability.RecordSubmission(ctx, s.metrics, record.Category, string(record.EnrichmentStatus), enrichment.Reason)

	logger.Info().
		Int64("feedback_id", record.ID).
		Str("category", record.Category).
		Int("rating", record.Rating).
		Str("sentiment", string(record.Sentiment)).
		Str("enrichment_status", string(record.EnrichmentStatus)).
		Msg("Feedback stored")

	s.publishCreated(ctx, record)
	return record, nil
}

// publishCreated notifies subscribers in the background; failures are only logged.
func (s *FeedbackService) publishCreated(ctx context.Context, record *entities.FeedbackRecord) {
	if s.events == nil {
		return
	}

	event := &entities.FeedbackEvent{
		ID:               uuid.New().String(),
		Type:             entities.FeedbackEventCreated,
		FeedbackID:       record.ID,
		Category:         record.Category,
		Rating:           record.Rating,
		Sentiment:        record.Sentiment,
		EnrichmentStatus: record.EnrichmentStatus,
		Timestamp:        record.CreatedAt,
	}
	logger := observability.LoggerFromContext(ctx)
	pubCtx := context.WithoutCancel(ctx)

	go func() {
		pubCtx, cancel := context.WithTimeout(pubCtx, publishTimeout)
		defer cancel()

		for _, channel := range []string{
			providers.EventChannelFeedbackCreated,
			providers.GetCategoryChannel(event.Category),
		} {
			if err := s.events.Publish(pubCtx, channel, event); err != nil {
				logger.Warn().Err(err).Str("channel", channel).Int64("feedback_id", event.FeedbackID).Msg("Failed to publish feedback event")
			}
		}
	}()
}

// List returns stored feedback matching filter.
func (s *FeedbackService) List(ctx context.Context, filter entities.FeedbackFilter) ([]*entities.FeedbackRecord, error) {
	ctx, span := observability.StartSpan(ctx, "FeedbackService.List")
	defer span.End()

	start := time.Now()
	records, err := s.repo.ListAll(ctx, filter)
	if err != nil {
		observability.RecordError(span, err)
		return nil, err
	}
	observability.RecordStoreMetric(ctx, s.metrics, "list", time.Since(start))
	return records, nil
}

// Get returns one stored record.
func (s *FeedbackService) Get(ctx context.Context, id int64) (*entities.FeedbackRecord, error) {
	start := time.Now()
	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	observability.RecordStoreMetric(ctx, s.metrics, "get", time.Since(start))
	return record, nil
}

// Count returns the number of stored records matching filter.
func (s *FeedbackService) Count(ctx context.Context, filter entities.FeedbackFilter) (int, error) {
	start := time.Now()
	count, err := s.repo.Count(ctx, filter)
	if err != nil {
		return 0, err
	}
	observability.RecordStoreMetric(ctx, s.metrics, "count", time.Since(start))
	return count, nil
}
