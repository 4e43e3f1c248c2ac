package enrichment

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/feedbackinsights/internal/domain/entities"
)

func TestParseSections_WellFormed(t *testing.T) {
	reply := "SENTIMENT: positive\nSUMMARY: Customer loves the new dashboard.\nRESPONSE: Thank you so much!\nWe are glad it helps.\nRECOMMENDATIONS: Keep iterating; add dark mode"

	result := parseSections(reply).toResult()

	assert.Equal(t, entities.EnrichmentComplete, result.Status)
	assert.Equal(t, entities.SentimentPositive, result.Sentiment)
	assert.Equal(t, "Customer loves the new dashboard.", result.Summary)
	assert.Equal(t, "Thank you so much!\nWe are glad it helps.", result.AIResponse)
	assert.Equal(t, "Keep iterating; add dark mode", result.Recommendations)
	assert.Empty(t, result.Reason)
}

func TestParseSections_MarkdownDecoration(t *testing.T) {
	reply := "```\n**Sentiment:** Negative.\n## Summary\nCheckout keeps failing.\n- **Response:** We're sorry about that.\n2. Recommendations: Fix the payment retry\n```"

	result := parseSections(reply).toResult()

	assert.Equal(t, entities.EnrichmentComplete, result.Status)
	assert.Equal(t, entities.SentimentNegative, result.Sentiment)
	assert.Equal(t, "Checkout keeps failing.", result.Summary)
	assert.Equal(t, "We're sorry about that.", result.AIResponse)
	assert.Equal(t, "Fix the payment retry", result.Recommendations)
}

func TestParseSections_MissingSectionsDefaultIndependently(t *testing.T) {
	reply := "SENTIMENT: negative\nSUMMARY: The app crashes on login."

	result := parseSections(reply).toResult()

	assert.Equal(t, entities.EnrichmentPartial, result.Status)
	assert.Equal(t, entities.SentimentNegative, result.Sentiment)
	assert.Equal(t, "The app crashes on login.", result.Summary)
	assert.Equal(t, entities.FallbackAIResponse, result.AIResponse)
	assert.Empty(t, result.Recommendations)
}

func TestParseSections_UnknownSentimentIsNeutral(t *testing.T) {
	tests := []struct {
		raw  string
		want entities.Sentiment
	}{
		{"Positive", entities.SentimentPositive},
		{"NEGATIVE - very upset", entities.SentimentNegative},
		{"mixed", entities.SentimentNeutral},
		{"somewhat positive", entities.SentimentNeutral},
		{"", entities.SentimentNeutral},
	}

	for _, tt := range tests {
		got, _ := normalizeSentiment(tt.raw)
		assert.Equal(t, tt.want, got, "raw=%q", tt.raw)
	}
}

func TestParseSections_InvalidSentimentMakesResultPartial(t *testing.T) {
	reply := "SENTIMENT: ambivalent\nSUMMARY: s\nRESPONSE: r\nRECOMMENDATIONS: x"

	result := parseSections(reply).toResult()

	assert.Equal(t, entities.EnrichmentPartial, result.Status)
	assert.Equal(t, entities.SentimentNeutral, result.Sentiment)
}

func TestParseSections_Unparseable(t *testing.T) {
	result := parseSections("I'm sorry, I can't help with that.").toResult()

	assert.True(t, result.Degraded())
	assert.Equal(t, ReasonUnparseable, result.Reason)
	assert.Equal(t, entities.FallbackAIResponse, result.AIResponse)
	assert.Equal(t, entities.SentimentNeutral, result.Sentiment)
}

func TestParseSections_Truncation(t *testing.T) {
	long := strings.Repeat("é", 1000)
	reply := "SENTIMENT: neutral\nSUMMARY: " + long + "\nRESPONSE: " + long + "\nRECOMMENDATIONS: " + long

	result := parseSections(reply).toResult()

	require.Equal(t, entities.EnrichmentComplete, result.Status)
	assert.Equal(t, maxSummaryRunes, utf8.RuneCountInString(result.Summary))
	assert.Equal(t, maxResponseRunes, utf8.RuneCountInString(result.AIResponse))
	assert.Equal(t, maxRecommendationsRunes, utf8.RuneCountInString(result.Recommendations))
	assert.True(t, utf8.ValidString(result.Summary))
}

func TestParseSections_RepeatedHeadingKeepsContent(t *testing.T) {
	reply := "SENTIMENT: neutral\nSUMMARY: first\nSUMMARY: second\nRESPONSE: Thanks.\nRECOMMENDATIONS: None"

	sections := parseSections(reply)

	require.True(t, sections[sectionSummary].present)
	assert.Equal(t, "first\nSUMMARY: second", sections[sectionSummary].text)
	assert.Equal(t, "Thanks.", sections[sectionResponse].text)
	assert.Equal(t, "None", sections[sectionRecommendations].text)
}

func TestParseSections_ProseLinesInsideSectionAreContent(t *testing.T) {
	reply := "SENTIMENT: negative\n" +
		"SUMMARY: CSV export is broken.\n" +
		"RESPONSE: Sorry about the export bug.\n" +
		"Actions: we have escalated it to engineering.\n" +
		"RECOMMENDATIONS: Fix CSV export; add a regression test"

	result := parseSections(reply).toResult()

	assert.Equal(t, entities.EnrichmentComplete, result.Status)
	assert.Equal(t, "Sorry about the export bug.\nActions: we have escalated it to engineering.", result.AIResponse)
	assert.Equal(t, "Fix CSV export; add a regression test", result.Recommendations)
}

func TestParseSections_BulletStartingWithMarkerWordIsContent(t *testing.T) {
	reply := "SENTIMENT: neutral\n" +
		"SUMMARY: Pages load slowly.\n" +
		"RESPONSE: Thanks for the report.\n" +
		"RECOMMENDATIONS:\n" +
		"- Cache results\n" +
		"- Response - time budget per page\n" +
		"- Add monitoring"

	result := parseSections(reply).toResult()

	assert.Equal(t, entities.EnrichmentComplete, result.Status)
	assert.Equal(t, "Thanks for the report.", result.AIResponse)
	assert.Equal(t, "- Cache results\n- Response - time budget per page\n- Add monitoring", result.Recommendations)
}

func TestMatchMarker(t *testing.T) {
	tests := []struct {
		line    string
		heading bool
		sec     section
		rest    string
	}{
		{line: "SUMMARY: short", heading: true, sec: sectionSummary, rest: "short"},
		{line: "## Response", heading: true, sec: sectionResponse},
		{line: "- **Response:** Sorry", heading: true, sec: sectionResponse, rest: "Sorry"},
		{line: "3) Recommendations:", heading: true, sec: sectionRecommendations},
		{line: "Summary of issues: many", heading: false},
		{line: "- Response - time budget per page", heading: false},
		{line: "Actions: escalate", heading: false},
		{line: "Reply: thanks", heading: false},
		{line: "Recommended actions: none", heading: false},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			sec, rest, ok := matchMarker(tt.line)
			require.Equal(t, tt.heading, ok)
			if tt.heading {
				assert.Equal(t, tt.sec, sec)
				assert.Equal(t, tt.rest, rest)
			}
		})
	}
}
