package analysis

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"apiforge/internal/models"
)

func statusOf(t *testing.T, r models.QualityReport, name string) models.CheckStatus {
	t.Helper()
	s, ok := r.Status(name)
	require.True(t, ok, "missing check %s", name)
	return s
}

func TestAnalyze_ChecksInFixedOrder(t *testing.T) {
	r := NewKeywordQualityAnalyzer().Analyze("")
	require.Len(t, r.Checks, 6)
	got := make([]string, len(r.Checks))
	for i, c := range r.Checks {
		got[i] = c.Name
	}
	assert.Equal(t, CheckNames(), got)
	assert.Equal(t, []string{"security", "error_handling", "pagination", "rate_limiting", "logging", "best_practices"}, got)
}

func TestAnalyze_EmptyCodeScoresZero(t *testing.T) {
	r := NewKeywordQualityAnalyzer().Analyze("")
	assert.Equal(t, 0.0, r.Score)
	assert.Equal(t, 0, r.PassedCount())
}

func TestAnalyze_Security(t *testing.T) {
	a := NewKeywordQualityAnalyzer()
	assert.Equal(t, models.CheckPassed, statusOf(t, a.Analyze(`key = os.environ["KEY"]`), CheckSecurity))
	assert.Equal(t, models.CheckWarning, statusOf(t, a.Analyze(`key = os.environ["KEY"]  # HardCoded fallback`), CheckSecurity))
	assert.Equal(t, models.CheckWarning, statusOf(t, a.Analyze(`key = "abc"`), CheckSecurity))
}

func TestAnalyze_ErrorHandlingNeedsBoth(t *testing.T) {
	a := NewKeywordQualityAnalyzer()
	assert.Equal(t, models.CheckWarning, statusOf(t, a.Analyze("try:\n    pass"), CheckErrorHandling))
	assert.Equal(t, models.CheckPassed, statusOf(t, a.Analyze("try:\n    pass\nexcept ValueError:\n    pass"), CheckErrorHandling))
}

func TestAnalyze_RateLimiting(t *testing.T) {
	a := NewKeywordQualityAnalyzer()
	assert.Equal(t, models.CheckPassed, statusOf(t, a.Analyze("if status == 429"), CheckRateLimiting))
	assert.Equal(t, models.CheckPassed, statusOf(t, a.Analyze("RATE_LIMIT = 10"), CheckRateLimiting))
	assert.Equal(t, models.CheckWarning, statusOf(t, a.Analyze("RateLimit = 10"), CheckRateLimiting))
}

func TestAnalyze_Logging(t *testing.T) {
	a := NewKeywordQualityAnalyzer()
	assert.Equal(t, models.CheckPassed, statusOf(t, a.Analyze("import Logging"), CheckLogging))
	assert.Equal(t, models.CheckPassed, statusOf(t, a.Analyze("logger.info()"), CheckLogging))
	assert.Equal(t, models.CheckWarning, statusOf(t, a.Analyze("Logger.info()"), CheckLogging))
}

func TestAnalyze_BestPracticesColonWindow(t *testing.T) {
	a := NewKeywordQualityAnalyzer()
	early := "x: int = 1"
	late := strings.Repeat("a", 1000) + ":"
	assert.Equal(t, models.CheckPassed, statusOf(t, a.Analyze(early), CheckBestPractices))
	assert.Equal(t, models.CheckWarning, statusOf(t, a.Analyze(late), CheckBestPractices))
	assert.Equal(t, models.CheckPassed, statusOf(t, a.Analyze(late+" uses type hints"), CheckBestPractices))
}

func TestAnalyze_Deterministic(t *testing.T) {
	a := NewKeywordQualityAnalyzer()
	code := "import logging\ntry:\n    x\nexcept:\n    pass\ncursor"
	assert.Equal(t, a.Analyze(code), a.Analyze(code))
}

func TestScore_BoundsAndSteps(t *testing.T) {
	for passed := 0; passed <= 6; passed++ {
		s := Score(passed, 6)
		assert.GreaterOrEqual(t, s, 0.0)
		assert.LessOrEqual(t, s, 10.0)
		want := math.Round(float64(passed)*10/6*10) / 10
		assert.Equal(t, want, s)
	}
	assert.Equal(t, 8.3, Score(5, 6))
	assert.Equal(t, 1.7, Score(1, 6))
	assert.Equal(t, 0.0, Score(1, 0))
}

func TestLeadingChars_CountsRunes(t *testing.T) {
	assert.Equal(t, "héé", leadingChars("héééé", 3))
	assert.Equal(t, "ab", leadingChars("ab", 5))
}
