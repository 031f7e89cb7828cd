package analysis

import (
	"math"
	"strings"

	"apiforge/internal/models"
)

// QualityAnalyzer scores generated code.
type QualityAnalyzer interface {
	Analyze(code string) models.QualityReport
}

const (
	CheckSecurity      = "security"
	CheckErrorHandling = "error_handling"
	CheckPagination    = "pagination"
	CheckRateLimiting  = "rate_limiting"
	CheckLogging       = "logging"
	CheckBestPractices = "best_practices"
)

// bestPracticesWindow is how many leading characters the best_practices check
// scans for a colon.
const bestPracticesWindow = 1000

type qualityCheck struct {
	name string
	pass func(code, lower string) bool
}

var qualityChecks = []qualityCheck{
	{CheckSecurity, func(code, lower string) bool {
		return strings.Contains(code, "os.environ") && !strings.Contains(lower, "hardcode")
	}},
	{CheckErrorHandling, func(code, _ string) bool {
		return strings.Contains(code, "try:") && strings.Contains(code, "except")
	}},
	{CheckPagination, func(_, lower string) bool {
		return strings.Contains(lower, "pagination") || strings.Contains(lower, "cursor")
	}},
	{CheckRateLimiting, func(code, lower string) bool {
		return strings.Contains(lower, "rate_limit") || strings.Contains(code, "429")
	}},
	{CheckLogging, func(code, lower string) bool {
		return strings.Contains(lower, "logging") || strings.Contains(code, "logger")
	}},
	// Weak proxy for type-hint usage; kept as-is pending a product decision.
	{CheckBestPractices, func(code, _ string) bool {
		return strings.Contains(code, "type hints") || strings.Contains(leadingChars(code, bestPracticesWindow), ":")
	}},
}

// CheckNames lists the check names in report order.
func CheckNames() []string {
	names := make([]string, len(qualityChecks))
	for i, c := range qualityChecks {
		names[i] = c.name
	}
	return names
}

// KeywordQualityAnalyzer is the keyword-based QualityAnalyzer.
type KeywordQualityAnalyzer struct{}

func NewKeywordQualityAnalyzer() *KeywordQualityAnalyzer {
	return &KeywordQualityAnalyzer{}
}

func (KeywordQualityAnalyzer) Analyze(code string) models.QualityReport {
	lower := strings.ToLower(code)
	report := models.QualityReport{Checks: make([]models.QualityCheck, 0, len(qualityChecks))}
	for _, c := range qualityChecks {
		status := models.CheckWarning
		if c.pass(code, lower) {
			status = models.CheckPassed
		}
		report.Checks = append(report.Checks, models.QualityCheck{Name: c.name, Status: status})
	}
	report.Score = Score(report.PassedCount(), len(qualityChecks))
	return report
}

// Score maps passed/total onto 0-10 with one decimal.
func Score(passed, total int) float64 {
	if total <= 0 {
		return 0
	}
	raw := float64(passed) / float64(total) * 10
	return math.Round(raw*10) / 10
}

func leadingChars(s string, n int) string {
	if len(s) <= n {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
