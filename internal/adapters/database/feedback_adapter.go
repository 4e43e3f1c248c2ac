package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/doug-martin/goqu/v9/exp"

	"github.com/zatekoja/feedbackinsights/internal/domain/entities"
	"github.com/zatekoja/feedbackinsights/internal/domain/repositories"
	"github.com/zatekoja/feedbackinsights/internal/infrastructure/clients/postgres"
	apperrors "github.com/zatekoja/feedbackinsights/pkg/errors"
)

const feedbackTable = "feedback"

var feedbackColumns = []interface{}{
	"id", "user_name", "email", "category", "rating", "message",
	"sentiment", "summary", "ai_response", "recommendations",
	"enrichment_status", "created_at",
}

// FeedbackAdapter implements feedback persistence in Postgres.
type FeedbackAdapter struct {
	client *postgres.Client
	db     *goqu.Database
	now    func() time.Time
}

// NewFeedbackAdapter creates a new feedback adapter.
func NewFeedbackAdapter(client *postgres.Client) repositories.FeedbackRepository {
	return &FeedbackAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
		now:    time.Now,
	}
}

// NewFeedbackAdapterWithClock creates a feedback adapter whose CreatedAt
// values come from now. The seed tool uses it to backfill history.
func NewFeedbackAdapterWithClock(client *postgres.Client, now func() time.Time) *FeedbackAdapter {
	return &FeedbackAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
		now:    now,
	}
}

// Insert stores a feedback record and assigns its ID and CreatedAt.
func (a *FeedbackAdapter) Insert(ctx context.Context, record *entities.FeedbackRecord) (int64, error) {
	if record == nil {
		return 0, apperrors.NewPersistenceError("feedback record is nil", fmt.Errorf("nil record"))
	}

	// Postgres keeps microsecond precision; truncating keeps the returned
	// record identical to what a later read yields.
	createdAt := a.now().UTC().Truncate(time.Microsecond)

	query, args, err := a.db.Insert(feedbackTable).
		Rows(goqu.Record{
			"user_name":         record.UserName,
			"email":             record.Email,
			"category":          record.Category,
			"rating":            record.Rating,
			"message":           record.Message,
			"sentiment":         string(record.Sentiment),
			"summary":           record.Summary,
			"ai_response":       record.AIResponse,
			"recommendations":   record.Recommendations,
			"enrichment_status": string(record.EnrichmentStatus),
			"created_at":        createdAt,
		}).
		Returning("id").
		ToSQL()
	if err != nil {
		return 0, apperrors.NewPersistenceError("failed to build feedback insert query", err)
	}

	var id int64
	if err := a.client.DB().QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		return 0, apperrors.NewPersistenceError("failed to insert feedback", err)
	}

	record.ID = id
	record.CreatedAt = createdAt
	return id, nil
}

// ListAll returns every record matching filter.
func (a *FeedbackAdapter) ListAll(ctx context.Context, filter entities.FeedbackFilter) ([]*entities.FeedbackRecord, error) {
	ds := applyFeedbackFilter(a.db.From(feedbackTable).Select(feedbackColumns...), filter)
	if filter.SortDesc {
		ds = ds.Order(goqu.C("created_at").Desc(), goqu.C("id").Desc())
	} else {
		ds = ds.Order(goqu.C("created_at").Asc(), goqu.C("id").Asc())
	}
	if filter.Limit > 0 {
		ds = ds.Limit(uint(filter.Limit))
	}

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewPersistenceError("failed to build feedback list query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewPersistenceError("failed to list feedback", err)
	}
	defer rows.Close()

	records := make([]*entities.FeedbackRecord, 0)
	for rows.Next() {
		record, err := scanFeedback(rows)
		if err != nil {
			return nil, apperrors.NewPersistenceError("failed to scan feedback", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewPersistenceError("failed to iterate feedback", err)
	}

	return records, nil
}

// GetByID returns the record with the given id.
func (a *FeedbackAdapter) GetByID(ctx context.Context, id int64) (*entities.FeedbackRecord, error) {
	query, args, err := a.db.From(feedbackTable).
		Select(feedbackColumns...).
		Where(goqu.C("id").Eq(id)).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewPersistenceError("failed to build feedback get query", err)
	}

	record, err := scanFeedback(a.client.DB().QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("feedback %d not found", id))
		}
		return nil, apperrors.NewPersistenceError("failed to get feedback", err)
	}
	return record, nil
}

// Count returns the number of records matching filter, capped by filter.Limit.
func (a *FeedbackAdapter) Count(ctx context.Context, filter entities.FeedbackFilter) (int, error) {
	query, args, err := applyFeedbackFilter(
		a.db.From(feedbackTable).Select(goqu.COUNT("*")),
		filter,
	).ToSQL()
	if err != nil {
		return 0, apperrors.NewPersistenceError("failed to build feedback count query", err)
	}

	var count int
	if err := a.client.DB().QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, apperrors.NewPersistenceError("failed to count feedback", err)
	}

	if filter.Limit > 0 && count > filter.Limit {
		count = filter.Limit
	}
	return count, nil
}

func applyFeedbackFilter(ds *goqu.SelectDataset, filter entities.FeedbackFilter) *goqu.SelectDataset {
	var conds []exp.Expression

	if len(filter.Categories) > 0 {
		conds = append(conds, goqu.C("category").In(filter.Categories))
	}
	if len(filter.Sentiments) > 0 {
		values := make([]string, len(filter.Sentiments))
		for i, s := range filter.Sentiments {
			values[i] = string(s)
		}
		conds = append(conds, goqu.C("sentiment").In(values))
	}
	if filter.MinRating > 0 {
		conds = append(conds, goqu.C("rating").Gte(filter.MinRating))
	}
	if filter.MaxRating > 0 {
		conds = append(conds, goqu.C("rating").Lte(filter.MaxRating))
	}
	if !filter.From.IsZero() {
		conds = append(conds, goqu.C("created_at").Gte(filter.From.UTC()))
	}
	if !filter.To.IsZero() {
		conds = append(conds, goqu.C("created_at").Lt(filter.To.UTC()))
	}

	if len(conds) == 0 {
		return ds
	}
	return ds.Where(conds...)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanFeedback(row rowScanner) (*entities.FeedbackRecord, error) {
	var (
		record           entities.FeedbackRecord
		sentiment        string
		enrichmentStatus string
		email            sql.NullString
	)

	err := row.Scan(
		&record.ID,
		&record.UserName,
		&email,
		&record.Category,
		&record.Rating,
		&record.Message,
		&sentiment,
		&record.Summary,
		&record.AIResponse,
		&record.Recommendations,
		&enrichmentStatus,
		&record.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	record.Email = email.String
	record.Sentiment = entities.ParseSentiment(sentiment)
	record.EnrichmentStatus = entities.EnrichmentStatus(enrichmentStatus)
	record.CreatedAt = record.CreatedAt.UTC()
	return &record, nil
}
