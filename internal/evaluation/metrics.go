package evaluation

// Accuracy is the fraction of results whose predicted sentiment matches the label.
// Returns 0.0 for an empty slice.
func Accuracy(results []EvalResult) float64 {
	if len(results) == 0 {
		return 0.0
	}

	correct := 0
	for _, r := range results {
		if r.Correct() {
			correct++
		}
	}

	return float64(correct) / float64(len(results))
}

// PrecisionRecall computes precision and recall for a single label.
// A denominator of zero yields 0.0 for that measure.
func PrecisionRecall(correct, predicted, support int) (precision, recall float64) {
	if predicted > 0 {
		precision = float64(correct) / float64(predicted)
	}
	if support > 0 {
		recall = float64(correct) / float64(support)
	}
	return precision, recall
}
