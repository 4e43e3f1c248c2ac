package handlers

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/zatekoja/feedbackinsights/internal/domain/entities"
	apperrors "github.com/zatekoja/feedbackinsights/pkg/errors"
)

const dateOnlyLayout = "2006-01-02"

// parseFeedbackFilter reads the shared listing filters from a query string.
func parseFeedbackFilter(q url.Values) (entities.FeedbackFilter, error) {
	var filter entities.FeedbackFilter

	filter.Categories = multiValue(q, "category")

	for _, raw := range multiValue(q, "sentiment") {
		s := entities.Sentiment(strings.ToLower(raw))
		if !s.Valid() {
			return filter, apperrors.NewValidationError(fmt.Sprintf("invalid sentiment %q", raw))
		}
		filter.Sentiments = append(filter.Sentiments, s)
	}

	var err error
	if filter.MinRating, err = ratingParam(q, "min_rating"); err != nil {
		return filter, err
	}
	if filter.MaxRating, err = ratingParam(q, "max_rating"); err != nil {
		return filter, err
	}
	if filter.MinRating > 0 && filter.MaxRating > 0 && filter.MinRating > filter.MaxRating {
		return filter, apperrors.NewValidationError("min_rating must not exceed max_rating")
	}

	if filter.From, _, err = timeParam(q, "from"); err != nil {
		return filter, err
	}
	var toDateOnly bool
	if filter.To, toDateOnly, err = timeParam(q, "to"); err != nil {
		return filter, err
	}
	// A bare date in "to" includes that whole day.
	if toDateOnly {
		filter.To = filter.To.AddDate(0, 0, 1)
	}
	if !filter.From.IsZero() && !filter.To.IsZero() && !filter.From.Before(filter.To) {
		return filter, apperrors.NewValidationError("from must be before to")
	}

	switch strings.ToLower(q.Get("order")) {
	case "", "asc":
	case "desc":
		filter.SortDesc = true
	default:
		return filter, apperrors.NewValidationError("order must be asc or desc")
	}

	if filter.Limit, err = nonNegativeInt(q, "limit"); err != nil {
		return filter, err
	}

	return filter, nil
}

// multiValue accepts both repeated keys and comma-separated values.
func multiValue(q url.Values, key string) []string {
	var out []string
	for _, raw := range q[key] {
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func ratingParam(q url.Values, key string) (int, error) {
	raw := q.Get(key)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < entities.MinRating || v > entities.MaxRating {
		return 0, apperrors.NewValidationError(fmt.Sprintf("%s must be an integer between %d and %d", key, entities.MinRating, entities.MaxRating))
	}
	return v, nil
}

func nonNegativeInt(q url.Values, key string) (int, error) {
	raw := q.Get(key)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, apperrors.NewValidationError(fmt.Sprintf("%s must be a non-negative integer", key))
	}
	return v, nil
}

func boolParam(q url.Values, key string) (bool, error) {
	raw := q.Get(key)
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, apperrors.NewValidationError(fmt.Sprintf("%s must be a boolean", key))
	}
	return v, nil
}

func timeParam(q url.Values, key string) (time.Time, bool, error) {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return time.Time{}, false, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), false, nil
	}
	if t, err := time.Parse(dateOnlyLayout, raw); err == nil {
		return t, true, nil
	}
	return time.Time{}, false, apperrors.NewValidationError(fmt.Sprintf("%s must be RFC3339 or YYYY-MM-DD", key))
}
