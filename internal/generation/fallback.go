package generation

import (
	_ "embed"

	"apiforge/internal/models"
)

// referenceIntegration is the canned OAuth2 client returned in fallback mode.
//
//go:embed reference/calendly_integration.py
var referenceIntegration string

var referenceInsights = []string{
	"Detected OAuth 2.0 with refresh token flow",
	"Found 12 relevant endpoints for user data",
	"Pagination uses cursor-based method",
	"Rate limit: 500 requests/minute",
}

// Synthesizer produces code without the generation capability.
type Synthesizer interface {
	Synthesize(docURL string, auth models.AuthMethod) (code string, insights []string)
}

// ReferenceSynthesizer always returns the same reference implementation: a
// Calendly OAuth2 client with token refresh, cursor pagination, retry with
// exponential backoff and 429 handling. Neither the doc URL nor the auth
// method influence the output.
type ReferenceSynthesizer struct{}

func NewReferenceSynthesizer() *ReferenceSynthesizer {
	return &ReferenceSynthesizer{}
}

func (ReferenceSynthesizer) Synthesize(docURL string, auth models.AuthMethod) (string, []string) {
	return ReferenceCode(), ReferenceInsights()
}

// ReferenceCode returns the canned reference implementation.
func ReferenceCode() string {
	return referenceIntegration
}

// ReferenceInsights returns a fresh copy of the fixed fallback insights.
func ReferenceInsights() []string {
	out := make([]string, len(referenceInsights))
	copy(out, referenceInsights)
	return out
}
