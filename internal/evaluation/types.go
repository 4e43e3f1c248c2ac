package evaluation

import (
	"time"

	"github.com/zatekoja/feedbackinsights/internal/domain/entities"
)

// GoldenFeedback is a labeled feedback message with the sentiment a reviewer assigned to it.
type GoldenFeedback struct {
	ID                string             `json:"id"`
	Message           string             `json:"message"`
	Category          string             `json:"category"`
	Rating            int                `json:"rating"`
	ExpectedSentiment entities.Sentiment `json:"expected_sentiment"`
	Difficulty        string             `json:"difficulty"` // easy, medium, hard
}

// EvalResult holds the evaluation outcome for a single labeled message.
type EvalResult struct {
	FeedbackID string
	Expected   entities.Sentiment
	Predicted  entities.Sentiment
	Status     entities.EnrichmentStatus
	Reason     string
	Latency    time.Duration
}

// Correct reports whether the predicted sentiment matches the label.
func (r EvalResult) Correct() bool {
	return r.Expected == r.Predicted
}

// EvalSummary holds aggregate metrics across the golden set.
type EvalSummary struct {
	Total       int                                    `json:"total"`
	Accuracy    float64                                `json:"accuracy"`
	Complete    int                                    `json:"complete"`
	Partial     int                                    `json:"partial"`
	Degraded    int                                    `json:"degraded"`
	AvgLatency  time.Duration                          `json:"avg_latency"`
	BySentiment map[entities.Sentiment]*SentimentScore `json:"by_sentiment"`
	Reasons     map[string]int                         `json:"degradation_reasons,omitempty"`
}

// SentimentScore holds per-label precision and recall.
type SentimentScore struct {
	Support   int     `json:"support"`
	Predicted int     `json:"predicted"`
	Correct   int     `json:"correct"`
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
}
