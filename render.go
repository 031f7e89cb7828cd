package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"apiforge/internal/events"
	"apiforge/internal/models"
	"apiforge/internal/workflow"
)

var (
	headerColor  = color.New(color.FgCyan, color.Bold)
	successColor = color.New(color.FgGreen)
	warnColor    = color.New(color.FgYellow)
	errorColor   = color.New(color.FgRed)
	faintColor   = color.New(color.Faint)
	boldColor    = color.New(color.Bold)
)

func renderStepper(w io.Writer, current models.Step) {
	parts := make([]string, 0, len(models.AllSteps()))
	for _, step := range models.AllSteps() {
		label := fmt.Sprintf("%d. %s", step, step)
		switch {
		case step < current:
			parts = append(parts, successColor.Sprint("✓ "+label))
		case step == current:
			parts = append(parts, headerColor.Sprint("▶ "+label))
		default:
			parts = append(parts, faintColor.Sprint(label))
		}
	}
	fmt.Fprintln(w, strings.Join(parts, "  "))
	fmt.Fprintln(w)
}

func renderProgress(w io.Writer, stage workflow.ProgressStage) {
	fmt.Fprintf(w, "%s %s\n", faintColor.Sprintf("[%3d%%]", stage.Percent), stage.Label)
}

func renderInsights(w io.Writer, insights []string) {
	if len(insights) == 0 {
		return
	}
	boldColor.Fprintln(w, "AI Insights")
	for _, line := range insights {
		fmt.Fprintf(w, "  • %s\n", line)
	}
	fmt.Fprintln(w)
}

func renderQuality(w io.Writer, report models.QualityReport) {
	boldColor.Fprintln(w, "Code Quality Report")
	fmt.Fprintf(w, "  Score: %s\n", headerColor.Sprintf("%.1f/10", report.Score))
	for _, c := range report.Checks {
		name := strings.ReplaceAll(c.Name, "_", " ")
		if c.Status == models.CheckPassed {
			fmt.Fprintf(w, "  %s %s\n", successColor.Sprint("✓"), name)
		} else {
			fmt.Fprintf(w, "  %s %s\n", warnColor.Sprint("!"), name)
		}
	}
	fmt.Fprintln(w)
}

func renderTestCase(w io.Writer, c models.TestCase) {
	mark := successColor.Sprint("✓")
	if c.Status != models.TestPassed {
		mark = errorColor.Sprint("✗")
	}
	fmt.Fprintf(w, "  %s %s: %s\n", mark, c.Name, c.Details)
}

func renderTestReport(w io.Writer, report models.TestReport) {
	if report.Passed() {
		successColor.Fprintf(w, "All Tests Passed! (%d/%d)\n\n", len(report.Cases), len(report.Cases))
		return
	}
	failed := 0
	for _, c := range report.Cases {
		if c.Status != models.TestPassed {
			failed++
		}
	}
	errorColor.Fprintf(w, "%d of %d tests failed\n\n", failed, len(report.Cases))
}

func renderChecklist(w io.Writer, items []models.ChecklistItem) {
	boldColor.Fprintln(w, "Pre-deployment Checklist")
	for _, item := range items {
		box := "[ ]"
		if item.Checked {
			box = successColor.Sprint("[x]")
		}
		fmt.Fprintf(w, "  %s %s\n", box, item.Label)
	}
	fmt.Fprintln(w)
}

func renderDeployment(w io.Writer, res models.DeploymentResult) {
	if res.Success {
		successColor.Fprintln(w, res.Message)
	} else {
		errorColor.Fprintln(w, res.Message)
	}
	fmt.Fprintf(w, "  Deployment: %s\n  Environment: %s\n  Rollout: %s\n", res.ID, res.Environment, res.Rollout)
	if len(res.NextSteps) > 0 {
		boldColor.Fprintln(w, "Next steps")
		for i, step := range res.NextSteps {
			fmt.Fprintf(w, "  %d. %s\n", i+1, step)
		}
	}
	fmt.Fprintln(w)
}

func renderEvent(w io.Writer, evt events.Event) {
	switch evt.Type {
	case events.EventSuccess:
		successColor.Fprintln(w, evt.Message)
	case events.EventWarn:
		warnColor.Fprintln(w, evt.Message)
	case events.EventError:
		errorColor.Fprintln(w, evt.Message)
	default:
		faintColor.Fprintln(w, evt.Message)
	}
}

func renderError(w io.Writer, err error) {
	errorColor.Fprintf(w, "%v\n", err)
}

func renderModelGroups(w io.Writer, groups []models.LLMModelGroup, defaultKey string) {
	for _, g := range groups {
		boldColor.Fprintln(w, g.ProviderName)
		for _, m := range g.Models {
			state := successColor.Sprint("enabled ")
			if !m.Enabled {
				state = faintColor.Sprint("disabled")
			}
			marker := " "
			if m.Key == defaultKey {
				marker = headerColor.Sprint("*")
			}
			fmt.Fprintf(w, " %s %s  %-20s %s\n", marker, state, m.DisplayName, faintColor.Sprint(m.Key))
		}
	}
}
