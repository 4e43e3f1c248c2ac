package database

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/zatekoja/feedbackinsights/internal/domain/entities"
	"github.com/zatekoja/feedbackinsights/internal/domain/repositories"
	apperrors "github.com/zatekoja/feedbackinsights/pkg/errors"
)

// MemoryFeedbackAdapter is a process-local feedback store used by tests and
// STORE_DRIVER=memory. Records are copied on the way in and out.
type MemoryFeedbackAdapter struct {
	mu      sync.RWMutex
	records []*entities.FeedbackRecord
	nextID  int64
	now     func() time.Time
}

var _ repositories.FeedbackRepository = (*MemoryFeedbackAdapter)(nil)

// NewMemoryFeedbackAdapter creates an empty in-memory store.
func NewMemoryFeedbackAdapter() *MemoryFeedbackAdapter {
	return &MemoryFeedbackAdapter{now: time.Now}
}

// WithClock replaces the time source; used to build deterministic histories.
func (a *MemoryFeedbackAdapter) WithClock(now func() time.Time) *MemoryFeedbackAdapter {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.now = now
	return a
}

func (a *MemoryFeedbackAdapter) Insert(ctx context.Context, record *entities.FeedbackRecord) (int64, error) {
	if record == nil {
		return 0, apperrors.NewPersistenceError("feedback record is nil", nil)
	}
	if err := ctx.Err(); err != nil {
		return 0, apperrors.NewPersistenceError("failed to insert feedback", err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	a.nextID++
	record.ID = a.nextID
	record.CreatedAt = a.now().UTC().Truncate(time.Microsecond)
	a.records = append(a.records, record.Clone())

	return record.ID, nil
}

func (a *MemoryFeedbackAdapter) ListAll(ctx context.Context, filter entities.FeedbackFilter) ([]*entities.FeedbackRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.NewPersistenceError("failed to list feedback", err)
	}

	a.mu.RLock()
	matched := make([]*entities.FeedbackRecord, 0, len(a.records))
	for _, r := range a.records {
		if filter.Matches(r) {
			matched = append(matched, r.Clone())
		}
	}
	a.mu.RUnlock()

	sort.SliceStable(matched, func(i, j int) bool {
		if filter.SortDesc {
			i, j = j, i
		}
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.Before(matched[j].CreatedAt)
		}
		return matched[i].ID < matched[j].ID
	})

	if filter.Limit > 0 && len(matched) > filter.Limit {
		matched = matched[:filter.Limit]
	}
	return matched, nil
}

func (a *MemoryFeedbackAdapter) GetByID(ctx context.Context, id int64) (*entities.FeedbackRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.NewPersistenceError("failed to get feedback", err)
	}

	a.mu.RLock()
	defer a.mu.RUnlock()

	// IDs are dense and assigned in insertion order.
	if id < 1 || id > int64(len(a.records)) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("feedback %d not found", id))
	}
	return a.records[id-1].Clone(), nil
}

func (a *MemoryFeedbackAdapter) Count(ctx context.Context, filter entities.FeedbackFilter) (int, error) {
	records, err := a.ListAll(ctx, filter)
	if err != nil {
		return 0, err
	}
	return len(records), nil
}
