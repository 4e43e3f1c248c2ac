package entities

import "time"

// Granularity is the width of a time-trend bucket.
type Granularity string

const (
	GranularityDay   Granularity = "day"
	GranularityWeek  Granularity = "week"
	GranularityMonth Granularity = "month"
)

// Valid reports whether g is a supported bucket width.
func (g Granularity) Valid() bool {
	switch g {
	case GranularityDay, GranularityWeek, GranularityMonth:
		return true
	}
	return false
}

// CategoryStats aggregates the records of one category.
type CategoryStats struct {
	Count            int     `json:"count"`
	AverageRating    float64 `json:"average_rating"`
	SatisfactionRate float64 `json:"satisfaction_rate"`
}

// CategoryCount is one entry of the ranked category list.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// TrendBucket counts the records whose CreatedAt falls in [Start, Start+granularity).
type TrendBucket struct {
	Start time.Time `json:"start"`
	Label string    `json:"label"`
	Count int       `json:"count"`
}

// AnalyticsSnapshot is recomputed from a store read on every request.
type AnalyticsSnapshot struct {
	Total               int                       `json:"total"`
	AverageRating       float64                   `json:"average_rating"`
	SatisfactionRate    float64                   `json:"satisfaction_rate"`
	RatingDistribution  map[int]int               `json:"rating_distribution"`
	SentimentBreakdown  map[Sentiment]int         `json:"sentiment_breakdown"`
	CategoryPerformance map[string]CategoryStats  `json:"category_performance"`
	TopCategories       []CategoryCount           `json:"top_categories"`
	TimeTrend           []TrendBucket             `json:"time_trend"`
	SentimentByRating   map[int]map[Sentiment]int `json:"sentiment_by_rating"`
	Granularity         Granularity               `json:"granularity"`
	GeneratedAt         time.Time                 `json:"generated_at"`
}
