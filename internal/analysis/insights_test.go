package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtract_FixedOrderRegardlessOfPosition(t *testing.T) {
	code := "retry()\nrate_limit = 5\noffset = 0\ncursor = None\nOAuth flow\n"
	got := NewKeywordInsightExtractor().Extract(code, "https://example.com")

	assert.Equal(t, []string{
		"Detected OAuth 2.0 with refresh token flow",
		"Pagination uses cursor-based method",
		"Pagination uses offset-based method",
		"Rate limiting implemented with backoff",
		"Automatic retry logic included",
	}, got)
}

func TestExtract_CaseInsensitiveMarkers(t *testing.T) {
	got := NewKeywordInsightExtractor().Extract("OAUTH CURSOR RATE_LIMIT", "")
	assert.Equal(t, []string{
		"Detected OAuth 2.0 with refresh token flow",
		"Pagination uses cursor-based method",
		"Rate limiting implemented with backoff",
	}, got)
}

func TestExtract_MethodCountLast(t *testing.T) {
	code := "def get_user():\n    pass\ndef list_users():\n    retry = 1\ndef list_events():\n    pass\n"
	got := NewKeywordInsightExtractor().Extract(code, "")

	assert.Equal(t, []string{
		"Automatic retry logic included",
		"Found 3 data retrieval methods",
	}, got)
}

func TestExtract_NoMarkers(t *testing.T) {
	assert.Empty(t, NewKeywordInsightExtractor().Extract("print('hello')", ""))
}

func TestExtract_Idempotent(t *testing.T) {
	e := NewKeywordInsightExtractor()
	code := "def get_a(): oauth cursor"
	assert.Equal(t, e.Extract(code, ""), e.Extract(code, ""))
}

func TestCountRetrievalMethods(t *testing.T) {
	assert.Equal(t, 0, CountRetrievalMethods("get_user()"))
	assert.Equal(t, 2, CountRetrievalMethods("def get_a\ndef list_b"))
}
