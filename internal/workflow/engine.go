// Package workflow sequences an integration through configure, generate,
// review, sandbox test and deploy, enforcing the gate between each stage.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"apiforge/internal/analysis"
	"apiforge/internal/deploy"
	"apiforge/internal/events"
	"apiforge/internal/models"
	"apiforge/internal/sandbox"
)

// Generator produces code for a request. Implementations must always return
// non-empty code.
type Generator interface {
	Generate(ctx context.Context, req models.GenerationRequest, opts models.IntegrationOptions, sessionAPIKey string) models.GeneratedCode
}

type Config struct {
	Generator Generator
	Analyzer  analysis.QualityAnalyzer
	Tests     sandbox.TestRunner
	Deployer  deploy.Deployer
	Logger    *zap.Logger
	Now       func() time.Time
}

// Engine holds no per-session state; every operation acts on the session it
// is given.
type Engine struct {
	generator Generator
	analyzer  analysis.QualityAnalyzer
	tests     sandbox.TestRunner
	deployer  deploy.Deployer
	logger    *zap.Logger
	now       func() time.Time
}

func NewEngine(cfg Config) (*Engine, error) {
	if cfg.Generator == nil {
		return nil, fmt.Errorf("generator is required")
	}
	e := &Engine{
		generator: cfg.Generator,
		analyzer:  cfg.Analyzer,
		tests:     cfg.Tests,
		deployer:  cfg.Deployer,
		logger:    cfg.Logger,
		now:       cfg.Now,
	}
	if e.analyzer == nil {
		e.analyzer = analysis.NewKeywordQualityAnalyzer()
	}
	if e.tests == nil {
		e.tests = sandbox.NewScriptedRunner()
	}
	if e.deployer == nil {
		e.deployer = deploy.NewSimulatedDeployer()
	}
	if e.logger == nil {
		e.logger = zap.NewNop()
	}
	if e.now == nil {
		e.now = time.Now
	}
	return e, nil
}

// NewSession starts an integration at the configure step.
func (e *Engine) NewSession() *models.Session {
	return &models.Session{
		ID:         uuid.NewString(),
		Step:       models.StepConfigure,
		AuthMethod: models.DefaultAuthMethod,
		Language:   models.DefaultLanguage,
		CreatedAt:  e.now(),
	}
}

// ConfigureInput carries the configure form. Empty AuthMethod and Language
// keep the session's current selection.
type ConfigureInput struct {
	DocURL     string
	AuthMethod models.AuthMethod
	Language   models.Language
	Options    models.IntegrationOptions
}

// Configure validates the form and moves the session to the generate step.
func (e *Engine) Configure(ctx context.Context, s *models.Session, in ConfigureInput) error {
	if s.Step != models.StepConfigure {
		return precondition("configure", s, ErrWrongStep)
	}
	docURL := strings.TrimSpace(in.DocURL)
	if docURL == "" {
		return &ValidationError{Field: "doc_url", Message: "API documentation URL is required"}
	}
	auth := in.AuthMethod
	if auth == "" {
		auth = s.AuthMethod
	}
	if !auth.Valid() {
		return &ValidationError{Field: "auth_method", Message: fmt.Sprintf("unsupported auth method %q", auth)}
	}
	lang := in.Language
	if lang == "" {
		lang = s.Language
	}
	if lang == "" {
		lang = models.DefaultLanguage
	}

	s.APIDocURL = docURL
	s.AuthMethod = auth
	s.Language = lang
	s.Options = in.Options
	e.transition(ctx, s, models.StepGenerate)
	return nil
}

// Generate runs the generation pipeline for the configured session. It only
// fails on precondition; generation itself always yields code.
func (e *Engine) Generate(ctx context.Context, s *models.Session) (models.GeneratedCode, error) {
	if s.Step != models.StepGenerate {
		return models.GeneratedCode{}, precondition("generate", s, ErrWrongStep)
	}
	if strings.TrimSpace(s.APIDocURL) == "" {
		return models.GeneratedCode{}, &ValidationError{Field: "doc_url", Message: "API documentation URL is required"}
	}

	ctx = events.WithSession(ctx, s.ID)
	req := models.NewGenerationRequest(s.APIDocURL, s.AuthMethod, s.Language)
	result := e.generator.Generate(ctx, req, s.Options, s.SessionAPIKey)
	if strings.TrimSpace(result.Code) == "" {
		// Generators promise non-empty code; guard the session anyway.
		return models.GeneratedCode{}, fmt.Errorf("generator returned no code")
	}

	insights := make([]string, len(result.Insights))
	copy(insights, result.Insights)
	result.Insights = insights

	s.GeneratedCode = result.Code
	s.Insights = insights
	s.GenerationMode = result.Mode

	e.logger.Info("integration code generated",
		zap.String("session", s.ID),
		zap.String("mode", string(result.Mode)),
		zap.Int("insights", len(insights)),
	)
	return result, nil
}

// Advance is the forward button of the current stage.
func (e *Engine) Advance(ctx context.Context, s *models.Session) error {
	switch s.Step {
	case models.StepConfigure:
		if strings.TrimSpace(s.APIDocURL) == "" {
			return &ValidationError{Field: "doc_url", Message: "API documentation URL is required"}
		}
		e.transition(ctx, s, models.StepGenerate)
	case models.StepGenerate:
		if !s.HasGeneratedCode() {
			return precondition("advance", s, ErrNoGeneratedCode)
		}
		e.transition(ctx, s, models.StepReview)
	case models.StepReview:
		e.transition(ctx, s, models.StepSandbox)
	case models.StepSandbox:
		if !s.SandboxPassed {
			return precondition("advance", s, ErrSandboxNotPassed)
		}
		e.transition(ctx, s, models.StepDeploy)
	case models.StepDeploy:
		return precondition("advance", s, ErrFinalStep)
	default:
		return precondition("advance", s, ErrWrongStep)
	}
	return nil
}

// Back returns from review to configure, or from sandbox to review. Generated
// code and the sandbox result are kept.
func (e *Engine) Back(ctx context.Context, s *models.Session) error {
	switch s.Step {
	case models.StepReview:
		e.transition(ctx, s, models.StepConfigure)
	case models.StepSandbox:
		e.transition(ctx, s, models.StepReview)
	default:
		return precondition("go back", s, ErrWrongStep)
	}
	return nil
}

// ReviewMetrics scores the session's most recent code.
func (e *Engine) ReviewMetrics(s *models.Session) (models.QualityReport, error) {
	if !s.HasGeneratedCode() {
		return models.QualityReport{}, precondition("review metrics", s, ErrNoGeneratedCode)
	}
	return e.analyzer.Analyze(s.GeneratedCode), nil
}

// RunSandboxTests runs the test suite; a passing report opens the deploy gate.
func (e *Engine) RunSandboxTests(ctx context.Context, s *models.Session) (models.TestReport, error) {
	if s.Step != models.StepSandbox {
		return models.TestReport{}, precondition("run sandbox tests", s, ErrWrongStep)
	}
	if !s.HasGeneratedCode() {
		return models.TestReport{}, precondition("run sandbox tests", s, ErrNoGeneratedCode)
	}

	ctx = events.WithSession(ctx, s.ID)
	report, err := e.tests.Run(ctx, s.GeneratedCode)
	if err != nil {
		return models.TestReport{}, fmt.Errorf("run sandbox tests: %w", err)
	}
	if report.Passed() {
		s.SandboxPassed = true
		events.Emit(ctx, events.SandboxStatus, events.NewSuccess("All Tests Passed!"))
	} else {
		events.Emit(ctx, events.SandboxStatus, events.NewWarn("Sandbox tests failed"))
	}
	return report, nil
}

// Deploy requires a passed sandbox run; it moves the session to the deploy
// step if it is not already there.
func (e *Engine) Deploy(ctx context.Context, s *models.Session, opts models.DeployOptions) (models.DeploymentResult, error) {
	if !s.SandboxPassed {
		return models.DeploymentResult{}, precondition("deploy", s, ErrSandboxNotPassed)
	}
	if !s.HasGeneratedCode() {
		return models.DeploymentResult{}, precondition("deploy", s, ErrNoGeneratedCode)
	}

	ctx = events.WithSession(ctx, s.ID)
	res, err := e.deployer.Deploy(ctx, deploy.Request{SessionID: s.ID, Code: s.GeneratedCode, Options: opts})
	if err != nil {
		return models.DeploymentResult{}, fmt.Errorf("deploy: %w", err)
	}
	if s.Step != models.StepDeploy {
		e.transition(ctx, s, models.StepDeploy)
	}
	events.Emit(ctx, events.DeployStatus, events.NewSuccess(res.Message).With("environment", string(res.Environment)))
	return res, nil
}

// Reset starts a new integration. The doc URL, auth method, language and
// options survive so the configure form is prefilled.
func (e *Engine) Reset(ctx context.Context, s *models.Session) {
	s.GeneratedCode = ""
	s.Insights = nil
	s.GenerationMode = ""
	s.SandboxPassed = false
	e.transition(ctx, s, models.StepConfigure)
}

// Artifacts returns the downloadable contents of the integration.
func (e *Engine) Artifacts(s *models.Session) (models.Artifacts, error) {
	if !s.HasGeneratedCode() {
		return models.Artifacts{}, precondition("export artifacts", s, ErrNoGeneratedCode)
	}
	return models.Artifacts{
		Code:   s.GeneratedCode,
		Readme: RenderReadme(e.now()),
	}, nil
}

func (e *Engine) transition(ctx context.Context, s *models.Session, to models.Step) {
	from := s.Step
	s.Step = to
	e.logger.Debug("workflow transition",
		zap.String("session", s.ID),
		zap.Stringer("from", from),
		zap.Stringer("to", to),
	)
	evt := events.NewInfo(fmt.Sprintf("%s -> %s", from, to)).
		With("from", from.String()).
		With("to", to.String())
	events.Emit(events.WithSession(ctx, s.ID), events.WorkflowTransition, evt)
}

// IsPrecondition reports whether err is a PreconditionError.
func IsPrecondition(err error) bool {
	var pe *PreconditionError
	return errors.As(err, &pe)
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
