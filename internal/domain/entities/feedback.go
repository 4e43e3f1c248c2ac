package entities

import (
	"strings"
	"time"
)

// Sentiment is the normalized tone of a feedback message.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

// Sentiments lists every valid sentiment in display order.
var Sentiments = []Sentiment{SentimentPositive, SentimentNegative, SentimentNeutral}

// Valid reports whether s is one of the three known sentiments.
func (s Sentiment) Valid() bool {
	switch s {
	case SentimentPositive, SentimentNegative, SentimentNeutral:
		return true
	}
	return false
}

// ParseSentiment maps free text onto a sentiment. Only the three exact
// tokens (case-insensitive) are accepted; everything else is neutral.
func ParseSentiment(raw string) Sentiment {
	s := Sentiment(strings.ToLower(strings.TrimSpace(raw)))
	if s.Valid() {
		return s
	}
	return SentimentNeutral
}

const (
	MinRating = 1
	MaxRating = 5
)

// FeedbackSubmission is what the presentation layer posts.
type FeedbackSubmission struct {
	UserName string `json:"user_name"`
	Email    string `json:"email"`
	Category string `json:"category"`
	Rating   int    `json:"rating"`
	Message  string `json:"message"`
}

// FeedbackRecord is one stored submission plus its enrichment.
// ID and CreatedAt are assigned by the store and never change afterwards.
type FeedbackRecord struct {
	ID               int64            `json:"id" db:"id"`
	UserName         string           `json:"user_name" db:"user_name"`
	Email            string           `json:"email" db:"email"`
	Category         string           `json:"category" db:"category"`
	Rating           int              `json:"rating" db:"rating"`
	Message          string           `json:"message" db:"message"`
	Sentiment        Sentiment        `json:"sentiment" db:"sentiment"`
	Summary          string           `json:"summary" db:"summary"`
	AIResponse       string           `json:"ai_response" db:"ai_response"`
	Recommendations  string           `json:"recommendations" db:"recommendations"`
	EnrichmentStatus EnrichmentStatus `json:"enrichment_status" db:"enrichment_status"`
	CreatedAt        time.Time        `json:"created_at" db:"created_at"`
}

// NewFeedbackRecord builds the pre-persistence payload from a submission and its enrichment.
func NewFeedbackRecord(sub FeedbackSubmission, enrichment EnrichmentResult) *FeedbackRecord {
	return &FeedbackRecord{
		UserName:         sub.UserName,
		Email:            sub.Email,
		Category:         sub.Category,
		Rating:           sub.Rating,
		Message:          sub.Message,
		Sentiment:        enrichment.Sentiment,
		Summary:          enrichment.Summary,
		AIResponse:       enrichment.AIResponse,
		Recommendations:  enrichment.Recommendations,
		EnrichmentStatus: enrichment.Status,
	}
}

// Clone returns a copy that shares no state with r.
func (r *FeedbackRecord) Clone() *FeedbackRecord {
	if r == nil {
		return nil
	}
	c := *r
	return &c
}

// FeedbackFilter narrows a store read. Zero values mean "no predicate";
// all supplied predicates are combined with AND.
type FeedbackFilter struct {
	Categories []string
	Sentiments []Sentiment
	MinRating  int
	MaxRating  int
	From       time.Time // inclusive
	To         time.Time // exclusive
	SortDesc   bool
	Limit      int
}

// Matches reports whether r satisfies every predicate of f (Limit and order are ignored).
func (f FeedbackFilter) Matches(r *FeedbackRecord) bool {
	if len(f.Categories) > 0 && !containsString(f.Categories, r.Category) {
		return false
	}
	if len(f.Sentiments) > 0 && !containsSentiment(f.Sentiments, r.Sentiment) {
		return false
	}
	if f.MinRating > 0 && r.Rating < f.MinRating {
		return false
	}
	if f.MaxRating > 0 && r.Rating > f.MaxRating {
		return false
	}
	if !f.From.IsZero() && r.CreatedAt.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && !r.CreatedAt.Before(f.To) {
		return false
	}
	return true
}

func containsString(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}

func containsSentiment(values []Sentiment, v Sentiment) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
