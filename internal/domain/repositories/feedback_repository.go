package repositories

import (
	"context"

	"github.com/zatekoja/feedbackinsights/internal/domain/entities"
)

// FeedbackRepository is the append-only feedback store.
type FeedbackRepository interface {
	// Insert assigns ID and CreatedAt to record, persists it atomically and returns the new ID.
	Insert(ctx context.Context, record *entities.FeedbackRecord) (int64, error)

	// ListAll returns the records matching filter, ordered by CreatedAt ascending
	// unless filter.SortDesc is set. Every call is a fresh read.
	ListAll(ctx context.Context, filter entities.FeedbackFilter) ([]*entities.FeedbackRecord, error)

	// GetByID returns a not-found error when no record has id.
	GetByID(ctx context.Context, id int64) (*entities.FeedbackRecord, error)

	// Count returns len(ListAll(filter)).
	Count(ctx context.Context, filter entities.FeedbackFilter) (int, error)
}
