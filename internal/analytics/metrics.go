// Package analytics computes aggregate metrics over a snapshot of feedback records.
// Everything here is a pure function of its input.
package analytics

import (
	"sort"

	"github.com/zatekoja/feedbackinsights/internal/domain/entities"
)

// satisfiedRating is the lowest rating that counts as a satisfied customer.
const satisfiedRating = 4

// Options controls the shape of a snapshot.
type Options struct {
	// Granularity is the time-trend bucket width. Defaults to day.
	Granularity entities.Granularity
	// FillGaps emits zero-count buckets between the first and last non-empty bucket.
	FillGaps bool
	// TopN caps TopCategories; 0 keeps every category.
	TopN int
}

// ComputeMetrics aggregates records into an AnalyticsSnapshot. It returns a
// zero-valued snapshot (with zero-filled distributions) for empty input.
func ComputeMetrics(records []*entities.FeedbackRecord, opts Options) entities.AnalyticsSnapshot {
	granularity := opts.Granularity
	if !granularity.Valid() {
		granularity = entities.GranularityDay
	}

	snapshot := entities.AnalyticsSnapshot{
		RatingDistribution:  make(map[int]int, entities.MaxRating),
		SentimentBreakdown:  make(map[entities.Sentiment]int, len(entities.Sentiments)),
		CategoryPerformance: make(map[string]entities.CategoryStats),
		TopCategories:       []entities.CategoryCount{},
		TimeTrend:           []entities.TrendBucket{},
		SentimentByRating:   make(map[int]map[entities.Sentiment]int, entities.MaxRating),
		Granularity:         granularity,
	}
	for r := entities.MinRating; r <= entities.MaxRating; r++ {
		snapshot.RatingDistribution[r] = 0
		snapshot.SentimentByRating[r] = make(map[entities.Sentiment]int, len(entities.Sentiments))
		for _, s := range entities.Sentiments {
			snapshot.SentimentByRating[r][s] = 0
		}
	}
	for _, s := range entities.Sentiments {
		snapshot.SentimentBreakdown[s] = 0
	}

	if len(records) == 0 {
		return snapshot
	}

	type categoryAccumulator struct {
		count     int
		ratingSum int
		satisfied int
	}

	var ratingSum, satisfied int
	categories := make(map[string]*categoryAccumulator)

	for _, r := range records {
		if r == nil {
			continue
		}
		snapshot.Total++
		ratingSum += r.Rating
		isSatisfied := r.Rating >= satisfiedRating
		if isSatisfied {
			satisfied++
		}

		snapshot.RatingDistribution[r.Rating]++

		sentiment := r.Sentiment
		if !sentiment.Valid() {
			sentiment = entities.SentimentNeutral
		}
		snapshot.SentimentBreakdown[sentiment]++
		if byRating, ok := snapshot.SentimentByRating[r.Rating]; ok {
			byRating[sentiment]++
		}

		acc, ok := categories[r.Category]
		if !ok {
			acc = &categoryAccumulator{}
			categories[r.Category] = acc
		}
		acc.count++
		acc.ratingSum += r.Rating
		if isSatisfied {
			acc.satisfied++
		}
	}

	if snapshot.Total == 0 {
		return snapshot
	}

	snapshot.AverageRating = ratio(ratingSum, snapshot.Total)
	snapshot.SatisfactionRate = ratio(satisfied, snapshot.Total)

	for name, acc := range categories {
		snapshot.CategoryPerformance[name] = entities.CategoryStats{
			Count:            acc.count,
			AverageRating:    ratio(acc.ratingSum, acc.count),
			SatisfactionRate: ratio(acc.satisfied, acc.count),
		}
		snapshot.TopCategories = append(snapshot.TopCategories, entities.CategoryCount{
			Category: name,
			Count:    acc.count,
		})
	}
	snapshot.TopCategories = rankCategories(snapshot.TopCategories, opts.TopN)
	snapshot.TimeTrend = buildTrend(records, granularity, opts.FillGaps)

	return snapshot
}

// rankCategories orders by count descending, then name ascending, and applies the cap.
func rankCategories(counts []entities.CategoryCount, topN int) []entities.CategoryCount {
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Category < counts[j].Category
	})
	if topN > 0 && len(counts) > topN {
		counts = counts[:topN]
	}
	return counts
}

func ratio(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole)
}
