package analysis

import (
	"fmt"
	"strings"
)

// InsightExtractor turns generated code into short human-readable observations.
type InsightExtractor interface {
	Extract(code, docURL string) []string
}

type insightMarker struct {
	marker string
	line   string
}

// Checked in this order regardless of where markers occur in the text.
var insightMarkers = []insightMarker{
	{marker: "oauth", line: "Detected OAuth 2.0 with refresh token flow"},
	{marker: "cursor", line: "Pagination uses cursor-based method"},
	{marker: "offset", line: "Pagination uses offset-based method"},
	{marker: "rate_limit", line: "Rate limiting implemented with backoff"},
	{marker: "retry", line: "Automatic retry logic included"},
}

var retrievalMethodPatterns = []string{"def get_", "def list_"}

// KeywordInsightExtractor is the marker-based InsightExtractor.
type KeywordInsightExtractor struct{}

func NewKeywordInsightExtractor() *KeywordInsightExtractor {
	return &KeywordInsightExtractor{}
}

// Extract ignores docURL; it is part of the contract for extractors that
// cross-reference the documentation.
func (KeywordInsightExtractor) Extract(code, docURL string) []string {
	lower := strings.ToLower(code)
	insights := make([]string, 0, len(insightMarkers)+1)
	for _, m := range insightMarkers {
		if strings.Contains(lower, m.marker) {
			insights = append(insights, m.line)
		}
	}
	if n := CountRetrievalMethods(code); n > 0 {
		insights = append(insights, fmt.Sprintf("Found %d data retrieval methods", n))
	}
	return insights
}

// CountRetrievalMethods counts "def get_" and "def list_" definitions.
func CountRetrievalMethods(code string) int {
	total := 0
	for _, p := range retrievalMethodPatterns {
		total += strings.Count(code, p)
	}
	return total
}
