package generation

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"apiforge/internal/events"
	"apiforge/internal/models"
)

type stubModel struct {
	out    string
	err    error
	delay  time.Duration
	prompt string
}

func (m *stubModel) Generate(ctx context.Context, prompt string) (string, error) {
	m.prompt = prompt
	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return m.out, m.err
}

type stubResolver struct {
	model      CodeModel
	modelKey   string
	err        error
	gotSession string
}

func (r *stubResolver) Resolve(ctx context.Context, sessionAPIKey string) (CodeModel, string, error) {
	r.gotSession = sessionAPIKey
	return r.model, r.modelKey, r.err
}

func request() models.GenerationRequest {
	return models.NewGenerationRequest("https://developer.calendly.com/api-docs", models.AuthOAuth2, "")
}

func TestGenerate_NoCredentialUsesDemoMode(t *testing.T) {
	o := NewOrchestrator(OrchestratorConfig{Resolver: &stubResolver{err: ErrNoCredential}})

	got := o.Generate(context.Background(), request(), models.IntegrationOptions{}, "")

	assert.Equal(t, models.ModeFallback, got.Mode)
	assert.Equal(t, ReferenceCode(), got.Code)
	assert.Equal(t, []string{
		"Detected OAuth 2.0 with refresh token flow",
		"Found 12 relevant endpoints for user data",
		"Pagination uses cursor-based method",
		"Rate limit: 500 requests/minute",
	}, got.Insights)
	assert.Contains(t, got.Diagnostic, "demo mode")
}

func TestGenerate_NilResolverUsesDemoMode(t *testing.T) {
	got := NewOrchestrator(OrchestratorConfig{}).Generate(context.Background(), request(), models.IntegrationOptions{}, "")
	assert.Equal(t, models.ModeFallback, got.Mode)
	assert.NotEmpty(t, got.Code)
}

func TestGenerate_UsesModelAndExtractsInsights(t *testing.T) {
	code := "import os\nclass Client:\n    def list_users(self):\n        cursor = None\n    def get_user(self):\n        retry = 3\n"
	mdl := &stubModel{out: code}
	resolver := &stubResolver{model: mdl, modelKey: "anthropic|claude-sonnet-4-20250514"}
	o := NewOrchestrator(OrchestratorConfig{Resolver: resolver})

	got := o.Generate(context.Background(), request(), models.IntegrationOptions{}, "sk-session")

	assert.Equal(t, models.ModeAI, got.Mode)
	assert.Equal(t, code, got.Code)
	assert.Equal(t, "anthropic|claude-sonnet-4-20250514", got.ModelKey)
	assert.Empty(t, got.Diagnostic)
	assert.Equal(t, []string{
		"Pagination uses cursor-based method",
		"Automatic retry logic included",
		"Found 2 data retrieval methods",
	}, got.Insights)
	assert.Equal(t, "sk-session", resolver.gotSession)
	assert.Contains(t, mdl.prompt, "Authentication Method: OAuth 2.0")
}

func TestGenerate_CapabilityFailureFallsBack(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	var emitted []events.Event
	events.SetCustomEmitter(func(ctx context.Context, name string, evt events.Event) {
		emitted = append(emitted, evt)
	})
	t.Cleanup(func() { events.SetCustomEmitter(nil) })

	o := NewOrchestrator(OrchestratorConfig{
		Resolver: &stubResolver{model: &stubModel{err: errors.New("connection reset")}},
		Logger:   zap.New(core),
	})

	got := o.Generate(context.Background(), request(), models.IntegrationOptions{}, "")

	assert.Equal(t, models.ModeFallback, got.Mode)
	assert.Equal(t, ReferenceCode(), got.Code)
	assert.Len(t, got.Insights, 4)
	assert.Contains(t, got.Diagnostic, "connection reset")
	assert.Equal(t, 1, logs.Len())
	require.Len(t, emitted, 1)
	assert.Equal(t, events.EventError, emitted[0].Type)
}

func TestGenerate_ResolverErrorFallsBack(t *testing.T) {
	o := NewOrchestrator(OrchestratorConfig{Resolver: &stubResolver{err: errors.New("model anthropic|x not found")}})

	got := o.Generate(context.Background(), request(), models.IntegrationOptions{}, "")

	assert.Equal(t, models.ModeFallback, got.Mode)
	assert.Contains(t, got.Diagnostic, "client setup")
}

func TestGenerate_EmptyResponseFallsBack(t *testing.T) {
	o := NewOrchestrator(OrchestratorConfig{Resolver: &stubResolver{model: &stubModel{out: "  \n"}}})

	got := o.Generate(context.Background(), request(), models.IntegrationOptions{}, "")

	assert.Equal(t, models.ModeFallback, got.Mode)
	assert.Contains(t, got.Diagnostic, "empty response")
}

func TestGenerate_TimeoutFallsBack(t *testing.T) {
	o := NewOrchestrator(OrchestratorConfig{
		Resolver: &stubResolver{model: &stubModel{out: "late", delay: time.Second}},
		Timeout:  10 * time.Millisecond,
	})

	got := o.Generate(context.Background(), request(), models.IntegrationOptions{}, "")

	assert.Equal(t, models.ModeFallback, got.Mode)
	assert.Contains(t, got.Diagnostic, "timed out")
}

func TestGenerate_PromptErrorFallsBack(t *testing.T) {
	o := NewOrchestrator(OrchestratorConfig{
		Resolver: &stubResolver{model: &stubModel{out: "code"}},
		Prompt: func(models.GenerationRequest, models.IntegrationOptions) (string, error) {
			return "", errors.New("template missing")
		},
	})

	got := o.Generate(context.Background(), request(), models.IntegrationOptions{}, "")
	assert.Equal(t, models.ModeFallback, got.Mode)
	assert.Contains(t, got.Diagnostic, "prompt")
}

func TestGenerate_NeverReturnsEmptyCode(t *testing.T) {
	resolvers := []ModelResolver{
		nil,
		&stubResolver{err: ErrNoCredential},
		&stubResolver{err: errors.New("boom")},
		&stubResolver{model: &stubModel{err: errors.New("boom")}},
		&stubResolver{model: &stubModel{out: "x = 1"}},
	}
	for _, auth := range models.AuthMethods() {
		for _, r := range resolvers {
			o := NewOrchestrator(OrchestratorConfig{Resolver: r})
			req := models.NewGenerationRequest("https://example.com/docs", auth, "")
			got := o.Generate(context.Background(), req, models.IntegrationOptions{}, "")
			assert.NotEmpty(t, strings.TrimSpace(got.Code))
		}
	}
}

func TestCapabilityError_Unwraps(t *testing.T) {
	cause := errors.New("401")
	err := error(&CapabilityError{Stage: "generate", Err: cause})
	assert.ErrorIs(t, err, cause)
	var capErr *CapabilityError
	assert.True(t, errors.As(err, &capErr))
	assert.Equal(t, "generate", capErr.Stage)
}
