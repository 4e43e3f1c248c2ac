package entities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseSentiment(t *testing.T) {
	tests := []struct {
		raw  string
		want Sentiment
	}{
		{"positive", SentimentPositive},
		{" NEGATIVE ", SentimentNegative},
		{"Neutral", SentimentNeutral},
		{"happy", SentimentNeutral},
		{"", SentimentNeutral},
		{"mixed", SentimentNeutral},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseSentiment(tt.raw), "raw=%q", tt.raw)
	}
}

func TestFeedbackFilter_Matches(t *testing.T) {
	base := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	record := &FeedbackRecord{Category: "Support", Rating: 4, Sentiment: SentimentPositive, CreatedAt: base}

	tests := []struct {
		name   string
		filter FeedbackFilter
		want   bool
	}{
		{name: "empty filter", filter: FeedbackFilter{}, want: true},
		{name: "category and min rating", filter: FeedbackFilter{Categories: []string{"Support"}, MinRating: 4}, want: true},
		{name: "other category", filter: FeedbackFilter{Categories: []string{"Billing"}}, want: false},
		{name: "min rating too high", filter: FeedbackFilter{MinRating: 5}, want: false},
		{name: "max rating too low", filter: FeedbackFilter{MaxRating: 3}, want: false},
		{name: "sentiment mismatch", filter: FeedbackFilter{Sentiments: []Sentiment{SentimentNegative}}, want: false},
		{name: "from inclusive", filter: FeedbackFilter{From: base}, want: true},
		{name: "to exclusive", filter: FeedbackFilter{To: base}, want: false},
		{name: "inside range", filter: FeedbackFilter{From: base.Add(-time.Hour), To: base.Add(time.Hour)}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.Matches(record))
		})
	}
}

func TestDegradedEnrichment(t *testing.T) {
	result := DegradedEnrichment("timeout")

	assert.True(t, result.Degraded())
	assert.Equal(t, SentimentNeutral, result.Sentiment)
	assert.Empty(t, result.Summary)
	assert.Empty(t, result.Recommendations)
	assert.Equal(t, FallbackAIResponse, result.AIResponse)
	assert.Equal(t, "timeout", result.Reason)
}

func TestFeedbackRecord_CloneIsIndependent(t *testing.T) {
	original := &FeedbackRecord{ID: 1, Message: "hello"}
	clone := original.Clone()
	clone.Message = "changed"

	assert.Equal(t, "hello", original.Message)
}
