package database

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/feedbackinsights/internal/domain/entities"
	apperrors "github.com/zatekoja/feedbackinsights/pkg/errors"
)

func steppingClock(start time.Time, step time.Duration) func() time.Time {
	var mu sync.Mutex
	current := start.Add(-step)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		current = current.Add(step)
		return current
	}
}

func TestMemoryFeedbackAdapter_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryFeedbackAdapter()

	in := &entities.FeedbackRecord{
		UserName:         "Ada",
		Category:         "Bug Report",
		Rating:           2,
		Message:          "Export button does nothing",
		Sentiment:        entities.SentimentNegative,
		Summary:          "Export is broken.",
		AIResponse:       "Sorry about that.",
		Recommendations:  "Fix export",
		EnrichmentStatus: entities.EnrichmentComplete,
	}

	id, err := store.Insert(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)
	assert.False(t, in.CreatedAt.IsZero())

	records, err := store.ListAll(ctx, entities.FeedbackFilter{})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, *in, *records[0])

	records[0].Message = "mutated"
	again, err := store.ListAll(ctx, entities.FeedbackFilter{})
	require.NoError(t, err)
	assert.Equal(t, "Export button does nothing", again[0].Message)
}

func TestMemoryFeedbackAdapter_GetByID(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryFeedbackAdapter()
	for _, msg := range []string{"first message", "second message"} {
		_, err := store.Insert(ctx, &entities.FeedbackRecord{UserName: "Ada", Category: "Other", Rating: 3, Message: msg})
		require.NoError(t, err)
	}

	record, err := store.GetByID(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "second message", record.Message)

	record.Message = "mutated"
	again, err := store.GetByID(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "second message", again.Message)

	for _, id := range []int64{0, 3, -1} {
		_, err := store.GetByID(ctx, id)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound), "id=%d", id)
	}
}

func TestMemoryFeedbackAdapter_ConcurrentInsertsGetUniqueIDs(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryFeedbackAdapter()

	const n = 50
	ids := make(chan int64, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, err := store.Insert(ctx, &entities.FeedbackRecord{UserName: "u", Category: "Other", Rating: 3, Message: "concurrent"})
			assert.NoError(t, err)
			ids <- id
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[int64]bool)
	for id := range ids {
		assert.False(t, seen[id], "duplicate id %d", id)
		seen[id] = true
	}
	assert.Len(t, seen, n)

	records, err := store.ListAll(ctx, entities.FeedbackFilter{})
	require.NoError(t, err)
	for i := 1; i < len(records); i++ {
		assert.Less(t, records[i-1].ID, records[i].ID)
	}
}

func TestMemoryFeedbackAdapter_Filtering(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	store := NewMemoryFeedbackAdapter().WithClock(steppingClock(start, time.Hour))

	seed := []struct {
		category  string
		rating    int
		sentiment entities.Sentiment
	}{
		{"Support", 5, entities.SentimentPositive},
		{"Support", 2, entities.SentimentNegative},
		{"Billing", 4, entities.SentimentPositive},
		{"Support", 4, entities.SentimentNeutral},
	}
	for _, s := range seed {
		_, err := store.Insert(ctx, &entities.FeedbackRecord{
			UserName: "u", Category: s.category, Rating: s.rating, Message: "message body", Sentiment: s.sentiment,
		})
		require.NoError(t, err)
	}

	records, err := store.ListAll(ctx, entities.FeedbackFilter{Categories: []string{"Support"}, MinRating: 4})
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, int64(1), records[0].ID)
	assert.Equal(t, int64(4), records[1].ID)

	count, err := store.Count(ctx, entities.FeedbackFilter{Categories: []string{"Support"}, MinRating: 4})
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	desc, err := store.ListAll(ctx, entities.FeedbackFilter{SortDesc: true, Limit: 2})
	require.NoError(t, err)
	require.Len(t, desc, 2)
	assert.Equal(t, int64(4), desc[0].ID)
	assert.Equal(t, int64(3), desc[1].ID)

	windowed, err := store.ListAll(ctx, entities.FeedbackFilter{From: start.Add(time.Hour), To: start.Add(3 * time.Hour)})
	require.NoError(t, err)
	require.Len(t, windowed, 2)
	assert.Equal(t, int64(2), windowed[0].ID)

	none, err := store.ListAll(ctx, entities.FeedbackFilter{Sentiments: []entities.Sentiment{entities.SentimentNegative}, MinRating: 3})
	require.NoError(t, err)
	assert.Empty(t, none)
	assert.NotNil(t, none)
}

func TestMemoryFeedbackAdapter_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewMemoryFeedbackAdapter().Insert(ctx, &entities.FeedbackRecord{})

	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypePersistence))
}
