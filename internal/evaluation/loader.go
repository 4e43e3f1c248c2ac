package evaluation

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/zatekoja/feedbackinsights/internal/domain/entities"
)

// LoadGoldenFeedback reads and parses a labeled feedback set from a JSON file.
func LoadGoldenFeedback(path string) ([]GoldenFeedback, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read golden feedback file: %w", err)
	}

	var items []GoldenFeedback
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to parse golden feedback: %w", err)
	}

	return items, nil
}

var validDifficulties = map[string]bool{
	"easy":   true,
	"medium": true,
	"hard":   true,
}

// ValidateGoldenFeedback checks that every item has the required fields and valid values.
func ValidateGoldenFeedback(items []GoldenFeedback) error {
	seen := make(map[string]struct{}, len(items))

	for i, item := range items {
		if item.ID == "" {
			return fmt.Errorf("item at index %d: missing id", i)
		}
		if _, dup := seen[item.ID]; dup {
			return fmt.Errorf("item at index %d: duplicate id %q", i, item.ID)
		}
		seen[item.ID] = struct{}{}

		if item.Message == "" {
			return fmt.Errorf("item %q: missing message", item.ID)
		}
		if item.Rating < entities.MinRating || item.Rating > entities.MaxRating {
			return fmt.Errorf("item %q: rating %d out of range", item.ID, item.Rating)
		}
		if !item.ExpectedSentiment.Valid() {
			return fmt.Errorf("item %q: invalid expected sentiment %q", item.ID, item.ExpectedSentiment)
		}
		if !validDifficulties[item.Difficulty] {
			return fmt.Errorf("item %q: invalid difficulty %q (must be easy/medium/hard)", item.ID, item.Difficulty)
		}
	}

	return nil
}
