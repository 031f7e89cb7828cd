package models

import "time"

// TestStatus is the outcome of one sandbox test case.
type TestStatus string

const (
	TestPassed TestStatus = "Passed"
	TestFailed TestStatus = "Failed"
)

// TestCase is a single sandbox test result.
type TestCase struct {
	Name    string     `json:"name"`
	Status  TestStatus `json:"status"`
	Details string     `json:"details"`
}

// TestReport is produced by a sandbox run.
type TestReport struct {
	Cases      []TestCase `json:"cases"`
	FinishedAt time.Time  `json:"finishedAt"`
}

// Passed reports whether the run had cases and every case passed.
func (r TestReport) Passed() bool {
	if len(r.Cases) == 0 {
		return false
	}
	for _, c := range r.Cases {
		if c.Status != TestPassed {
			return false
		}
	}
	return true
}
