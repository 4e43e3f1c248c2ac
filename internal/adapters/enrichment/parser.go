package enrichment

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/zatekoja/feedbackinsights/internal/domain/entities"
)

const (
	maxSummaryRunes         = 200
	maxResponseRunes        = 600
	maxRecommendationsRunes = 600
)

type section int

const (
	sectionSentiment section = iota
	sectionSummary
	sectionResponse
	sectionRecommendations
	sectionCount
)

// markerAliases maps the lower-cased heading text a model may emit to a section.
var markerAliases = map[string]section{
	"sentiment":            sectionSentiment,
	"summary":              sectionSummary,
	"one-sentence summary": sectionSummary,
	"response":             sectionResponse,
	"ai response":          sectionResponse,
	"customer response":    sectionResponse,
	"recommendations":      sectionRecommendations,
	"recommendation":       sectionRecommendations,
}

// optionalText is a parsed section: either present with text or absent.
type optionalText struct {
	text    string
	present bool
}

func present(text string) optionalText { return optionalText{text: text, present: true} }

func (o optionalText) orElse(fallback string) string {
	if o.present {
		return o.text
	}
	return fallback
}

type parsedSections [sectionCount]optionalText

// parseSections splits a model reply into its four sections. Missing or empty
// sections stay absent; the remaining sections are still returned.
func parseSections(raw string) parsedSections {
	var (
		result  parsedSections
		buffers [sectionCount][]string
		seen    [sectionCount]bool
	)

	current := section(-1)
	for _, line := range strings.Split(stripCodeFence(raw), "\n") {
		if sec, rest, ok := matchMarker(line); ok {
			if seen[sec] {
				// Repeated headings are kept as content of the open section.
				if current >= 0 {
					buffers[current] = append(buffers[current], strings.TrimSpace(line))
				}
				continue
			}
			seen[sec] = true
			current = sec
			if rest != "" {
				buffers[sec] = append(buffers[sec], rest)
			}
			continue
		}
		if current >= 0 {
			buffers[current] = append(buffers[current], line)
		}
	}

	for sec := section(0); sec < sectionCount; sec++ {
		text := strings.TrimSpace(strings.Join(buffers[sec], "\n"))
		if text != "" {
			result[sec] = present(text)
		}
	}
	return result
}

// matchMarker recognizes lines such as "SUMMARY: ...", "**Summary:** ...",
// "## Response" or "2. Recommendations:". Inline content must follow a colon,
// so list items like "- Response time budget" stay content.
func matchMarker(line string) (section, string, bool) {
	trimmed := strings.TrimSpace(line)
	trimmed = stripListPrefix(trimmed)
	trimmed = strings.TrimLeft(trimmed, "#*_` \t")
	if trimmed == "" {
		return 0, "", false
	}

	lower := strings.ToLower(trimmed)
	for alias, sec := range markerAliases {
		if !strings.HasPrefix(lower, alias) {
			continue
		}
		rest := strings.TrimLeft(trimmed[len(alias):], "*_` \t")
		switch {
		case rest == "":
			return sec, "", true
		case rest[0] == ':':
			rest = strings.TrimLeft(rest[1:], "*_` \t")
			return sec, strings.TrimSpace(rest), true
		}
	}
	return 0, "", false
}

// stripListPrefix drops a leading "- ", "* ", "+ ", "• ", "1. " or "1) ".
func stripListPrefix(s string) string {
	for _, bullet := range []string{"- ", "* ", "+ ", "• "} {
		if strings.HasPrefix(s, bullet) {
			return strings.TrimSpace(s[len(bullet):])
		}
	}
	digits := strings.IndexFunc(s, func(r rune) bool { return !unicode.IsDigit(r) })
	if digits > 0 && (s[digits] == '.' || s[digits] == ')') {
		return strings.TrimSpace(s[digits+1:])
	}
	return s
}

func stripCodeFence(raw string) string {
	cleaned := strings.TrimSpace(raw)
	if strings.HasPrefix(cleaned, "```") {
		if idx := strings.Index(cleaned, "\n"); idx >= 0 {
			cleaned = cleaned[idx+1:]
		} else {
			cleaned = strings.TrimPrefix(cleaned, "```")
		}
		cleaned = strings.TrimSuffix(strings.TrimSpace(cleaned), "```")
	}
	return cleaned
}

// normalizeSentiment reduces free text to one of the three sentiments using its first word.
func normalizeSentiment(text string) (entities.Sentiment, bool) {
	words := strings.FieldsFunc(text, func(r rune) bool { return !unicode.IsLetter(r) })
	if len(words) == 0 {
		return entities.SentimentNeutral, false
	}
	s := entities.Sentiment(strings.ToLower(words[0]))
	if !s.Valid() {
		return entities.SentimentNeutral, false
	}
	return s, true
}

// toResult defaults each absent section independently and classifies the outcome.
func (p parsedSections) toResult() entities.EnrichmentResult {
	sentiment, sentimentOK := entities.SentimentNeutral, false
	if p[sectionSentiment].present {
		sentiment, sentimentOK = normalizeSentiment(p[sectionSentiment].text)
	}

	found := 0
	if sentimentOK {
		found++
	}
	for _, sec := range []section{sectionSummary, sectionResponse, sectionRecommendations} {
		if p[sec].present {
			found++
		}
	}

	if found == 0 {
		return entities.DegradedEnrichment(ReasonUnparseable)
	}

	status := entities.EnrichmentComplete
	if found < int(sectionCount) {
		status = entities.EnrichmentPartial
	}

	return entities.EnrichmentResult{
		Sentiment:       sentiment,
		Summary:         truncateRunes(p[sectionSummary].orElse(""), maxSummaryRunes),
		AIResponse:      truncateRunes(p[sectionResponse].orElse(entities.FallbackAIResponse), maxResponseRunes),
		Recommendations: truncateRunes(p[sectionRecommendations].orElse(""), maxRecommendationsRunes),
		Status:          status,
	}
}

func truncateRunes(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return strings.TrimSpace(string(runes[:limit]))
}
