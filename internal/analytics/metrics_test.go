package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/feedbackinsights/internal/domain/entities"
)

var baseTime = time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC) // Monday

func record(category string, rating int, sentiment entities.Sentiment, at time.Time) *entities.FeedbackRecord {
	return &entities.FeedbackRecord{
		Category:  category,
		Rating:    rating,
		Sentiment: sentiment,
		CreatedAt: at,
	}
}

func TestComputeMetrics_Empty(t *testing.T) {
	snapshot := ComputeMetrics(nil, Options{})

	assert.Zero(t, snapshot.Total)
	assert.Zero(t, snapshot.AverageRating)
	assert.Zero(t, snapshot.SatisfactionRate)
	assert.Equal(t, map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}, snapshot.RatingDistribution)
	assert.Equal(t, map[entities.Sentiment]int{
		entities.SentimentPositive: 0,
		entities.SentimentNegative: 0,
		entities.SentimentNeutral:  0,
	}, snapshot.SentimentBreakdown)
	assert.Empty(t, snapshot.CategoryPerformance)
	assert.Empty(t, snapshot.TopCategories)
	assert.NotNil(t, snapshot.TopCategories)
	assert.Empty(t, snapshot.TimeTrend)
	assert.NotNil(t, snapshot.TimeTrend)
	assert.Len(t, snapshot.SentimentByRating, 5)
	assert.Equal(t, entities.GranularityDay, snapshot.Granularity)
}

func TestComputeMetrics_RatingAggregates(t *testing.T) {
	var records []*entities.FeedbackRecord
	for _, rating := range []int{5, 5, 4, 2, 1} {
		records = append(records, record("General Feedback", rating, entities.SentimentNeutral, baseTime))
	}

	snapshot := ComputeMetrics(records, Options{})

	assert.Equal(t, 5, snapshot.Total)
	assert.InDelta(t, 3.4, snapshot.AverageRating, 1e-9)
	assert.InDelta(t, 0.6, snapshot.SatisfactionRate, 1e-9)
	assert.Equal(t, map[int]int{1: 1, 2: 1, 3: 0, 4: 1, 5: 2}, snapshot.RatingDistribution)
}

func TestComputeMetrics_SentimentBreakdown(t *testing.T) {
	var records []*entities.FeedbackRecord
	add := func(n int, s entities.Sentiment) {
		for i := 0; i < n; i++ {
			records = append(records, record("Other", 3, s, baseTime))
		}
	}
	add(6, entities.SentimentPositive)
	add(3, entities.SentimentNegative)
	add(1, entities.SentimentNeutral)

	snapshot := ComputeMetrics(records, Options{})

	assert.Equal(t, map[entities.Sentiment]int{
		entities.SentimentPositive: 6,
		entities.SentimentNegative: 3,
		entities.SentimentNeutral:  1,
	}, snapshot.SentimentBreakdown)
	assert.Equal(t, 6, snapshot.SentimentByRating[3][entities.SentimentPositive])
	assert.Equal(t, 0, snapshot.SentimentByRating[5][entities.SentimentPositive])
}

func TestComputeMetrics_CategoryPerformanceAndRanking(t *testing.T) {
	records := []*entities.FeedbackRecord{
		record("UI/UX", 5, entities.SentimentPositive, baseTime),
		record("UI/UX", 3, entities.SentimentNeutral, baseTime),
		record("Bug Report", 1, entities.SentimentNegative, baseTime),
		record("Bug Report", 2, entities.SentimentNegative, baseTime),
		record("Performance", 4, entities.SentimentPositive, baseTime),
	}

	snapshot := ComputeMetrics(records, Options{})

	require.Len(t, snapshot.CategoryPerformance, 3)
	assert.Equal(t, 2, snapshot.CategoryPerformance["UI/UX"].Count)
	assert.InDelta(t, 4.0, snapshot.CategoryPerformance["UI/UX"].AverageRating, 1e-9)
	assert.InDelta(t, 0.5, snapshot.CategoryPerformance["UI/UX"].SatisfactionRate, 1e-9)
	assert.InDelta(t, 1.5, snapshot.CategoryPerformance["Bug Report"].AverageRating, 1e-9)

	assert.Equal(t, []entities.CategoryCount{
		{Category: "Bug Report", Count: 2},
		{Category: "UI/UX", Count: 2},
		{Category: "Performance", Count: 1},
	}, snapshot.TopCategories)

	capped := ComputeMetrics(records, Options{TopN: 1})
	assert.Equal(t, []entities.CategoryCount{{Category: "Bug Report", Count: 2}}, capped.TopCategories)
	assert.Len(t, capped.CategoryPerformance, 3)
}

func TestComputeMetrics_UnknownSentimentCountsAsNeutral(t *testing.T) {
	snapshot := ComputeMetrics([]*entities.FeedbackRecord{record("Other", 3, "", baseTime)}, Options{})

	assert.Equal(t, 1, snapshot.SentimentBreakdown[entities.SentimentNeutral])
}
