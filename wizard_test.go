package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"apiforge/internal/generation"
	"apiforge/internal/models"
	"apiforge/internal/services"
	"apiforge/internal/tui"
	"apiforge/internal/workflow"
)

func newTestWizard(t *testing.T, input string) (*wizard, *bytes.Buffer) {
	t.Helper()
	color.NoColor = true

	engine, err := workflow.NewEngine(workflow.Config{
		Generator: generation.NewOrchestrator(generation.OrchestratorConfig{}),
	})
	require.NoError(t, err)

	var out bytes.Buffer
	prompt := tui.NewLinePrompter(strings.NewReader(input), &out)
	return newWizard(engine, services.NewExportService(nil, nil), prompt, &out), &out
}

func lines(parts ...string) string {
	return strings.Join(parts, "\n") + "\n"
}

func TestWizard_FullRun(t *testing.T) {
	input := lines(
		"https://developer.calendly.com/api-docs", "", "", "", "", // configure
		"c",      // review
		"r", "d", // sandbox
		"2", "", "", "", "y", "", // deploy options
		"q",
	)
	w, out := newTestWizard(t, input)

	err := w.run(context.Background(), workflow.ConfigureInput{}, "")

	require.NoError(t, err)
	text := out.String()
	assert.Contains(t, text, "Analyzing API documentation...")
	assert.Contains(t, text, "Detected OAuth 2.0 with refresh token flow")
	assert.Contains(t, text, "10.0/10")
	assert.Contains(t, text, "All Tests Passed!")
	assert.Contains(t, text, "[x] Code review approved (Optional)")
	assert.Contains(t, text, "Successfully deployed to staging!")
}

func TestWizard_DeployGateBlocksAdvance(t *testing.T) {
	input := lines(
		"https://developer.calendly.com/api-docs", "", "", "", "",
		"c",
		"d",
	)
	w, out := newTestWizard(t, input)

	require.NoError(t, w.run(context.Background(), workflow.ConfigureInput{}, ""))

	assert.Contains(t, out.String(), "sandbox tests have not passed")
	assert.NotContains(t, out.String(), "Successfully deployed")
}

func TestWizard_ValidationErrorRepromptsConfigure(t *testing.T) {
	w, out := newTestWizard(t, lines("", "", "", "", ""))

	require.NoError(t, w.run(context.Background(), workflow.ConfigureInput{}, ""))

	assert.Contains(t, out.String(), "invalid doc_url")
	assert.Equal(t, 2, strings.Count(out.String(), "Configure Integration"))
}

func TestWizard_PrefilledDefaultsAndBack(t *testing.T) {
	input := lines(
		"", "3", "", "", "", // accept prefilled URL, pick Bearer Token
		"b",     // back to configure
		"", "q", // keep URL, then an invalid choice
	)
	w, out := newTestWizard(t, input)
	defaults := workflow.ConfigureInput{DocURL: "https://api.example.com/docs", AuthMethod: models.AuthAPIKey}

	require.NoError(t, w.run(context.Background(), defaults, ""))

	text := out.String()
	assert.Contains(t, text, "[https://api.example.com/docs]")
	assert.Contains(t, text, "Choice [2]")
	assert.Contains(t, text, "Choice [3]")
	assert.Contains(t, text, "Enter a number between 1 and 4")
}

func TestWizard_SaveArtifacts(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "export")
	input := lines(
		"https://developer.calendly.com/api-docs", "", "", "", "",
		"s", dir, "n",
		"q",
	)
	w, out := newTestWizard(t, input)

	require.NoError(t, w.run(context.Background(), workflow.ConfigureInput{}, ""))

	assert.Contains(t, out.String(), "Wrote calendly_integration.py, README.md")
	readme, err := os.ReadFile(filepath.Join(dir, workflow.ReadmeFileName))
	require.NoError(t, err)
	assert.Contains(t, string(readme), "CALENDLY_CLIENT_SECRET")
}

func TestWizard_AsksSessionKeyOnceWhenNoCredential(t *testing.T) {
	input := lines(
		"https://developer.calendly.com/api-docs", "", "", "", "", "sk-session", // configure with key
		"b",                     // back to configure
		"", "", "", "", "", "q", // configure again, no key prompt
	)
	w, out := newTestWizard(t, input)
	calls := 0
	w.missingCredential = func(ctx context.Context) *models.LLMModel {
		calls++
		return &models.LLMModel{Key: "anthropic|claude-sonnet-4-20250514", ProviderID: "anthropic", ProviderName: "Anthropic"}
	}

	require.NoError(t, w.run(context.Background(), workflow.ConfigureInput{}, ""))

	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, strings.Count(out.String(), "Anthropic API key: "))
	assert.Contains(t, out.String(), "No Anthropic API key configured")
}

func TestWizard_SkipsSessionKeyWhenFlagGiven(t *testing.T) {
	w, out := newTestWizard(t, lines("https://developer.calendly.com/api-docs", "", "", "", "", "q"))
	w.missingCredential = func(ctx context.Context) *models.LLMModel {
		t.Fatal("credential lookup should be skipped")
		return nil
	}

	require.NoError(t, w.run(context.Background(), workflow.ConfigureInput{}, "sk-flag"))

	assert.NotContains(t, out.String(), "Enter one for this session")
}
