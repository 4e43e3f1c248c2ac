package entities

// EnrichmentStatus tells how much of an enrichment came from the model.
type EnrichmentStatus string

const (
	// EnrichmentComplete means every section was parsed from the model reply.
	EnrichmentComplete EnrichmentStatus = "complete"
	// EnrichmentPartial means some sections were missing and were defaulted.
	EnrichmentPartial EnrichmentStatus = "partial"
	// EnrichmentDegraded means the call failed or nothing was parseable.
	EnrichmentDegraded EnrichmentStatus = "degraded"
)

// FallbackAIResponse is returned to the user whenever no model response is available.
const FallbackAIResponse = "Thank you for your feedback! We're sorry we couldn't generate a detailed response right now, but our team has received your message and will review it."

// EnrichmentResult is the transient output of the enrichment client.
// The four content fields are always populated with usable defaults.
type EnrichmentResult struct {
	Sentiment       Sentiment        `json:"sentiment"`
	Summary         string           `json:"summary"`
	AIResponse      string           `json:"ai_response"`
	Recommendations string           `json:"recommendations"`
	Status          EnrichmentStatus `json:"status"`
	Reason          string           `json:"reason,omitempty"`
}

// Degraded reports whether the result is the canned fallback.
func (r EnrichmentResult) Degraded() bool {
	return r.Status == EnrichmentDegraded
}

// DegradedEnrichment returns the canned result used when the model is unavailable.
func DegradedEnrichment(reason string) EnrichmentResult {
	return EnrichmentResult{
		Sentiment:  SentimentNeutral,
		AIResponse: FallbackAIResponse,
		Status:     EnrichmentDegraded,
		Reason:     reason,
	}
}
