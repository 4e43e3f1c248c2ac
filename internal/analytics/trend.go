package analytics

import (
	"fmt"
	"sort"
	"time"

	"github.com/zatekoja/feedbackinsights/internal/domain/entities"
)

// BucketStart returns the UTC start of the bucket containing t. Weeks are ISO
// weeks starting Monday 00:00.
func BucketStart(t time.Time, g entities.Granularity) time.Time {
	t = t.UTC()
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)

	switch g {
	case entities.GranularityWeek:
		offset := (int(day.Weekday()) + 6) % 7
		return day.AddDate(0, 0, -offset)
	case entities.GranularityMonth:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	default:
		return day
	}
}

func nextBucket(start time.Time, g entities.Granularity) time.Time {
	switch g {
	case entities.GranularityWeek:
		return start.AddDate(0, 0, 7)
	case entities.GranularityMonth:
		return start.AddDate(0, 1, 0)
	default:
		return start.AddDate(0, 0, 1)
	}
}

// BucketLabel formats a bucket start for display: 2026-03-09, 2026-W11 or 2026-03.
func BucketLabel(start time.Time, g entities.Granularity) string {
	switch g {
	case entities.GranularityWeek:
		year, week := start.ISOWeek()
		return fmt.Sprintf("%d-W%02d", year, week)
	case entities.GranularityMonth:
		return start.Format("2006-01")
	default:
		return start.Format("2006-01-02")
	}
}

func buildTrend(records []*entities.FeedbackRecord, g entities.Granularity, fillGaps bool) []entities.TrendBucket {
	counts := make(map[time.Time]int)
	for _, r := range records {
		if r == nil {
			continue
		}
		counts[BucketStart(r.CreatedAt, g)]++
	}
	if len(counts) == 0 {
		return []entities.TrendBucket{}
	}

	starts := make([]time.Time, 0, len(counts))
	for start := range counts {
		starts = append(starts, start)
	}
	sort.Slice(starts, func(i, j int) bool { return starts[i].Before(starts[j]) })

	if fillGaps {
		first, last := starts[0], starts[len(starts)-1]
		starts = starts[:0]
		for cur := first; !cur.After(last); cur = nextBucket(cur, g) {
			starts = append(starts, cur)
		}
	}

	trend := make([]entities.TrendBucket, 0, len(starts))
	for _, start := range starts {
		trend = append(trend, entities.TrendBucket{
			Start: start,
			Label: BucketLabel(start, g),
			Count: counts[start],
		})
	}
	return trend
}
