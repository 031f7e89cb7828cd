package generation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"apiforge/internal/analysis"
	"apiforge/internal/models"
)

func TestReferenceSynthesizer_IgnoresParameters(t *testing.T) {
	s := NewReferenceSynthesizer()
	codeA, insightsA := s.Synthesize("https://a.example.com", models.AuthOAuth2)
	codeB, insightsB := s.Synthesize("https://b.example.com", models.AuthAPIKey)

	assert.Equal(t, codeA, codeB)
	assert.Equal(t, insightsA, insightsB)
}

func TestReferenceInsights_ReturnsCopy(t *testing.T) {
	first := ReferenceInsights()
	first[0] = "mutated"
	assert.Equal(t, "Detected OAuth 2.0 with refresh token flow", ReferenceInsights()[0])
}

func TestReferenceCode_ModelsResilientOAuthClient(t *testing.T) {
	code := ReferenceCode()
	for _, want := range []string{
		"class CalendlyAuth",
		"class CalendlyClient",
		"time_until_expiry < 300",
		"next_page_token",
		"max_retries = 3",
		"wait_time = 2 ** attempt",
		"response.status_code == 429",
		"Retry-After",
		`os.environ.get("CALENDLY_CLIENT_ID")`,
	} {
		assert.Contains(t, code, want)
	}
}

func TestReferenceCode_PassesEveryQualityCheck(t *testing.T) {
	report := analysis.NewKeywordQualityAnalyzer().Analyze(ReferenceCode())

	assert.Equal(t, 6, report.PassedCount())
	assert.Equal(t, 10.0, report.Score)
	for _, c := range report.Checks {
		assert.Equal(t, models.CheckPassed, c.Status, c.Name)
	}
}

func TestReferenceCode_ExtractedInsights(t *testing.T) {
	got := analysis.NewKeywordInsightExtractor().Extract(ReferenceCode(), "")
	assert.Equal(t, "Detected OAuth 2.0 with refresh token flow", got[0])
	assert.True(t, strings.HasPrefix(got[len(got)-1], "Found 6 data retrieval methods"))
}
