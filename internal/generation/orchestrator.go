package generation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"apiforge/internal/analysis"
	"apiforge/internal/events"
	"apiforge/internal/llm/client"
	"apiforge/internal/models"
)

// DefaultTimeout bounds one call to the generation capability.
const DefaultTimeout = 120 * time.Second

const demoModeDiagnostic = "Generation API key not configured. Using demo mode with pre-generated code."

// CodeModel is the external text-generation capability.
type CodeModel interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ModelResolver finds the configured capability. It returns ErrNoCredential
// when no credential exists in configuration, the keyring or sessionAPIKey.
type ModelResolver interface {
	Resolve(ctx context.Context, sessionAPIKey string) (CodeModel, string, error)
}

// PromptBuilder renders the generation prompt.
type PromptBuilder func(req models.GenerationRequest, opts models.IntegrationOptions) (string, error)

type OrchestratorConfig struct {
	Resolver ModelResolver
	Insights analysis.InsightExtractor
	Fallback Synthesizer
	Prompt   PromptBuilder
	Timeout  time.Duration
	Logger   *zap.Logger
}

// Orchestrator chooses between the generation capability and the fallback
// synthesizer. Its Generate never fails.
type Orchestrator struct {
	resolver ModelResolver
	insights analysis.InsightExtractor
	fallback Synthesizer
	prompt   PromptBuilder
	timeout  time.Duration
	logger   *zap.Logger
}

func NewOrchestrator(cfg OrchestratorConfig) *Orchestrator {
	o := &Orchestrator{
		resolver: cfg.Resolver,
		insights: cfg.Insights,
		fallback: cfg.Fallback,
		prompt:   cfg.Prompt,
		timeout:  cfg.Timeout,
		logger:   cfg.Logger,
	}
	if o.insights == nil {
		o.insights = analysis.NewKeywordInsightExtractor()
	}
	if o.fallback == nil {
		o.fallback = NewReferenceSynthesizer()
	}
	if o.prompt == nil {
		o.prompt = client.BuildIntegrationPrompt
	}
	if o.timeout <= 0 {
		o.timeout = DefaultTimeout
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	return o
}

// Generate produces code for req. Any capability failure is logged, emitted
// as a warning and replaced by the fallback sample.
func (o *Orchestrator) Generate(ctx context.Context, req models.GenerationRequest, opts models.IntegrationOptions, sessionAPIKey string) models.GeneratedCode {
	log := o.logger.With(
		zap.String("doc_url", req.DocURL),
		zap.String("auth_method", string(req.AuthMethod)),
		zap.String("language", string(req.Language)),
	)

	if o.resolver == nil {
		return o.demo(ctx, log, req)
	}
	mdl, modelKey, err := o.resolver.Resolve(ctx, sessionAPIKey)
	if errors.Is(err, ErrNoCredential) {
		return o.demo(ctx, log, req)
	}
	if err != nil {
		return o.recover(ctx, log, req, &CapabilityError{Stage: "client setup", Err: err})
	}

	code, err := o.invoke(ctx, mdl, req, opts)
	if err != nil {
		return o.recover(ctx, log, req, err)
	}

	log.Info("generated integration code", zap.String("model", modelKey), zap.Int("bytes", len(code)))
	events.Emit(ctx, events.GenerationStatus, events.NewSuccess("Code generation complete").With("mode", string(models.ModeAI)))
	return models.GeneratedCode{
		Code:     code,
		Insights: o.insights.Extract(code, req.DocURL),
		Mode:     models.ModeAI,
		ModelKey: modelKey,
	}
}

func (o *Orchestrator) invoke(ctx context.Context, mdl CodeModel, req models.GenerationRequest, opts models.IntegrationOptions) (string, error) {
	if mdl == nil {
		return "", &CapabilityError{Stage: "client setup", Err: fmt.Errorf("resolver returned no model")}
	}
	prompt, err := o.prompt(req, opts)
	if err != nil {
		return "", &CapabilityError{Stage: "prompt", Err: err}
	}

	callCtx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	code, err := mdl.Generate(callCtx, prompt)
	if err != nil {
		if errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			err = fmt.Errorf("timed out after %s: %w", o.timeout, err)
		}
		return "", &CapabilityError{Stage: "generate", Err: err}
	}
	if strings.TrimSpace(code) == "" {
		return "", &CapabilityError{Stage: "generate", Err: client.ErrEmptyResponse}
	}
	return code, nil
}

func (o *Orchestrator) demo(ctx context.Context, log *zap.Logger, req models.GenerationRequest) models.GeneratedCode {
	log.Info("no generation credential configured, using demo mode")
	events.Emit(ctx, events.GenerationStatus, events.NewWarn(demoModeDiagnostic).With("mode", string(models.ModeFallback)))
	code, insights := o.fallback.Synthesize(req.DocURL, req.AuthMethod)
	return models.GeneratedCode{
		Code:       code,
		Insights:   insights,
		Mode:       models.ModeFallback,
		Diagnostic: demoModeDiagnostic,
	}
}

func (o *Orchestrator) recover(ctx context.Context, log *zap.Logger, req models.GenerationRequest, err error) models.GeneratedCode {
	diagnostic := fmt.Sprintf("Error generating code: %v. Falling back to demo mode.", err)
	log.Warn("generation failed, falling back to reference implementation", zap.Error(err))
	events.Emit(ctx, events.GenerationStatus, events.NewError(diagnostic).With("mode", string(models.ModeFallback)))
	code, insights := o.fallback.Synthesize(req.DocURL, req.AuthMethod)
	return models.GeneratedCode{
		Code:       code,
		Insights:   insights,
		Mode:       models.ModeFallback,
		Diagnostic: diagnostic,
	}
}
