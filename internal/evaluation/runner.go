package evaluation

import (
	"context"
	"time"

	"github.com/zatekoja/feedbackinsights/internal/domain/entities"
	"github.com/zatekoja/feedbackinsights/internal/domain/providers"
)

// Runner runs the enrichment client across a labeled feedback set.
type Runner struct {
	enricher providers.EnrichmentProvider
}

func NewRunner(enricher providers.EnrichmentProvider) *Runner {
	return &Runner{enricher: enricher}
}

// Run enriches every item sequentially and scores the predicted sentiments.
// It stops early with ctx.Err() if the context is cancelled.
func (r *Runner) Run(ctx context.Context, items []GoldenFeedback) (*EvalSummary, []EvalResult, error) {
	results := make([]EvalResult, 0, len(items))

	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}

		start := time.Now()
		enrichment := r.enricher.Enrich(ctx, item.Message, item.Category, item.Rating)

		results = append(results, EvalResult{
			FeedbackID: item.ID,
			Expected:   item.ExpectedSentiment,
			Predicted:  enrichment.Sentiment,
			Status:     enrichment.Status,
			Reason:     enrichment.Reason,
			Latency:    time.Since(start),
		})
	}

	return Summarize(results), results, nil
}

// Summarize folds per-item results into aggregate scores.
func Summarize(results []EvalResult) *EvalSummary {
	s := &EvalSummary{
		Total:       len(results),
		Accuracy:    Accuracy(results),
		BySentiment: make(map[entities.Sentiment]*SentimentScore, len(entities.Sentiments)),
		Reasons:     make(map[string]int),
	}
	for _, sentiment := range entities.Sentiments {
		s.BySentiment[sentiment] = &SentimentScore{}
	}

	var totalLatency time.Duration
	for _, res := range results {
		totalLatency += res.Latency

		switch res.Status {
		case entities.EnrichmentComplete:
			s.Complete++
		case entities.EnrichmentPartial:
			s.Partial++
		case entities.EnrichmentDegraded:
			s.Degraded++
			if res.Reason != "" {
				s.Reasons[res.Reason]++
			}
		}

		if score, ok := s.BySentiment[res.Expected]; ok {
			score.Support++
			if res.Correct() {
				score.Correct++
			}
		}
		if score, ok := s.BySentiment[res.Predicted]; ok {
			score.Predicted++
		}
	}

	for _, score := range s.BySentiment {
		score.Precision, score.Recall = PrecisionRecall(score.Correct, score.Predicted, score.Support)
	}
	if s.Total > 0 {
		s.AvgLatency = totalLatency / time.Duration(s.Total)
	}

	return s
}
