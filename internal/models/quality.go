package models

// CheckStatus is the outcome of one heuristic quality check.
type CheckStatus string

const (
	CheckPassed  CheckStatus = "Passed"
	CheckWarning CheckStatus = "Warning"
)

// QualityCheck is a single named check in a report.
type QualityCheck struct {
	Name   string      `json:"name"`
	Status CheckStatus `json:"status"`
}

// QualityReport is the ordered result of the six quality checks.
type QualityReport struct {
	Checks []QualityCheck `json:"checks"`
	Score  float64        `json:"score"`
}

// Status returns the status recorded for name and whether it exists.
func (r QualityReport) Status(name string) (CheckStatus, bool) {
	for _, c := range r.Checks {
		if c.Name == name {
			return c.Status, true
		}
	}
	return "", false
}

// PassedCount counts the checks that passed.
func (r QualityReport) PassedCount() int {
	n := 0
	for _, c := range r.Checks {
		if c.Status == CheckPassed {
			n++
		}
	}
	return n
}
