package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"apiforge/internal/models"
	"apiforge/internal/services"
	"apiforge/internal/tui"
	"apiforge/internal/workflow"
)

// errQuit ends the wizard without an error.
var errQuit = errors.New("quit")

// wizard drives one session through the workflow from terminal input.
type wizard struct {
	engine   *workflow.Engine
	exporter *services.ExportService
	prompt   tui.Prompter
	out      io.Writer

	// missingCredential names the model a session key would serve when no
	// configured or stored key exists. The key is asked for once.
	missingCredential func(ctx context.Context) *models.LLMModel
	askedKey          bool
}

func newWizard(engine *workflow.Engine, exporter *services.ExportService, prompt tui.Prompter, out io.Writer) *wizard {
	return &wizard{engine: engine, exporter: exporter, prompt: prompt, out: out}
}

func (w *wizard) run(ctx context.Context, defaults workflow.ConfigureInput, sessionAPIKey string) error {
	s := w.engine.NewSession()
	s.SessionAPIKey = sessionAPIKey
	s.APIDocURL = defaults.DocURL
	if defaults.AuthMethod != "" {
		s.AuthMethod = defaults.AuthMethod
	}
	if defaults.Language != "" {
		s.Language = defaults.Language
	}
	s.Options = defaults.Options

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		renderStepper(w.out, s.Step)

		var err error
		switch s.Step {
		case models.StepConfigure:
			err = w.configure(ctx, s)
		case models.StepGenerate:
			err = w.generate(ctx, s)
		case models.StepReview:
			err = w.review(ctx, s)
		case models.StepSandbox:
			err = w.sandbox(ctx, s)
		case models.StepDeploy:
			err = w.deploy(ctx, s)
		default:
			return fmt.Errorf("session in unknown step %d", s.Step)
		}

		switch {
		case errors.Is(err, errQuit), errors.Is(err, io.EOF), errors.Is(err, tui.ErrCancelled):
			return nil
		case workflow.IsValidation(err), workflow.IsPrecondition(err):
			renderError(w.out, err)
		case err != nil:
			return err
		}
	}
}

func (w *wizard) configure(ctx context.Context, s *models.Session) error {
	headerColor.Fprintln(w.out, "Configure Integration")

	docURL, err := w.prompt.Input(ctx, "API documentation URL", s.APIDocURL)
	if err != nil {
		return err
	}

	methods := models.AuthMethods()
	labels := make([]string, len(methods))
	current := 0
	for i, m := range methods {
		labels[i] = m.Label()
		if m == s.AuthMethod {
			current = i
		}
	}
	choice, err := w.prompt.Select(ctx, "Authentication method", labels, current)
	if err != nil {
		return err
	}

	opts := s.Options
	if opts.CustomRateLimit, err = w.prompt.Confirm(ctx, "Custom rate limit handling?", opts.CustomRateLimit); err != nil {
		return err
	}
	if opts.Webhooks, err = w.prompt.Confirm(ctx, "Webhook support?", opts.Webhooks); err != nil {
		return err
	}
	if opts.CustomRetry, err = w.prompt.Confirm(ctx, "Custom retry logic?", opts.CustomRetry); err != nil {
		return err
	}

	if err := w.askSessionKey(ctx, s); err != nil {
		return err
	}

	return w.engine.Configure(ctx, s, workflow.ConfigureInput{
		DocURL:     docURL,
		AuthMethod: methods[choice],
		Language:   s.Language,
		Options:    opts,
	})
}

// askSessionKey offers a session-only credential when nothing else can reach
// a model. A blank answer keeps demo mode.
func (w *wizard) askSessionKey(ctx context.Context, s *models.Session) error {
	if w.askedKey || s.SessionAPIKey != "" || w.missingCredential == nil {
		return nil
	}
	w.askedKey = true
	mdl := w.missingCredential(ctx)
	if mdl == nil {
		return nil
	}
	warnColor.Fprintf(w.out, "No %s API key configured. Enter one for this session, or leave blank for demo mode.\n", mdl.ProviderName)
	key, err := w.prompt.Secret(ctx, mdl.ProviderName+" API key")
	if err != nil {
		return err
	}
	s.SessionAPIKey = key
	return nil
}

func (w *wizard) generate(ctx context.Context, s *models.Session) error {
	headerColor.Fprintln(w.out, "Generating Integration Code")
	for _, stage := range workflow.GenerationProgress() {
		renderProgress(w.out, stage)
	}

	result, err := w.engine.Generate(ctx, s)
	if err != nil {
		return err
	}
	fmt.Fprintln(w.out)
	renderInsights(w.out, result.Insights)
	return w.engine.Advance(ctx, s)
}

func (w *wizard) review(ctx context.Context, s *models.Session) error {
	headerColor.Fprintln(w.out, "Review Generated Code")
	report, err := w.engine.ReviewMetrics(s)
	if err != nil {
		return err
	}
	renderQuality(w.out, report)

	for {
		action, err := w.prompt.Menu(ctx, "Next", reviewActions, "c")
		if err != nil {
			return err
		}
		sections := workflow.SplitSections(s.GeneratedCode)
		switch action {
		case "c":
			return w.engine.Advance(ctx, s)
		case "v":
			fmt.Fprintln(w.out, s.GeneratedCode)
		case "a":
			fmt.Fprintln(w.out, sections.Auth)
		case "l":
			if sections.Client == "" {
				faintColor.Fprintln(w.out, "No client class found")
			} else {
				fmt.Fprintln(w.out, sections.Client)
			}
		case "s":
			if err := w.save(ctx, s); err != nil {
				renderError(w.out, err)
			}
		case "b":
			return w.engine.Back(ctx, s)
		case "q":
			return errQuit
		}
	}
}

func (w *wizard) sandbox(ctx context.Context, s *models.Session) error {
	headerColor.Fprintln(w.out, "Sandbox Testing")
	fmt.Fprintln(w.out, "Test Environment: Sandbox API")
	fmt.Fprintln(w.out, "Test Data: 100 sample records")

	for {
		def, actions := "r", sandboxActions
		if s.SandboxPassed {
			def, actions = "d", sandboxPassedActions
		}
		action, err := w.prompt.Menu(ctx, "Next", actions, def)
		if err != nil {
			return err
		}
		switch action {
		case "r":
			report, err := w.engine.RunSandboxTests(ctx, s)
			if err != nil {
				return err
			}
			renderTestReport(w.out, report)
		case "d":
			return w.engine.Advance(ctx, s)
		case "b":
			return w.engine.Back(ctx, s)
		case "q":
			return errQuit
		}
	}
}

func (w *wizard) deploy(ctx context.Context, s *models.Session) error {
	headerColor.Fprintln(w.out, "Deploy to Production")

	opts := models.DefaultDeployOptions()
	env, err := w.prompt.Select(ctx, "Environment", []string{string(models.EnvironmentProduction), string(models.EnvironmentStaging)}, 0)
	if err != nil {
		return err
	}
	if env == 1 {
		opts.Environment = models.EnvironmentStaging
	}
	rollout, err := w.prompt.Select(ctx, "Rollout strategy", []string{string(models.RolloutFull), string(models.RolloutGradual)}, 0)
	if err != nil {
		return err
	}
	if rollout == 1 {
		opts.Rollout = models.RolloutGradual
	}
	if opts.AlertOnErrors, err = w.prompt.Confirm(ctx, "Alert on >5% error rate?", true); err != nil {
		return err
	}
	if opts.AutoRollback, err = w.prompt.Confirm(ctx, "Auto-rollback on failure?", true); err != nil {
		return err
	}
	if opts.CodeReviewed, err = w.prompt.Confirm(ctx, "Code review approved?", false); err != nil {
		return err
	}

	proceed, err := w.prompt.Confirm(ctx, "Deploy now?", true)
	if err != nil {
		return err
	}
	if proceed {
		res, err := w.engine.Deploy(ctx, s, opts)
		if err != nil {
			return err
		}
		renderChecklist(w.out, res.Checklist)
		renderDeployment(w.out, res)
	}

	for {
		action, err := w.prompt.Menu(ctx, "Next", deployedActions, "q")
		if err != nil {
			return err
		}
		switch action {
		case "s":
			if err := w.save(ctx, s); err != nil {
				renderError(w.out, err)
			}
		case "n":
			w.engine.Reset(ctx, s)
			return nil
		case "q":
			return errQuit
		}
	}
}

func (w *wizard) save(ctx context.Context, s *models.Session) error {
	dir, err := w.prompt.Input(ctx, "Output directory", "integration")
	if err != nil {
		return err
	}
	commit, err := w.prompt.Confirm(ctx, "Commit to a git repository there?", false)
	if err != nil {
		return err
	}
	return exportSession(ctx, w.engine, w.exporter, w.out, s, dir, commit, "")
}

var (
	reviewActions = []tui.Option{
		{Key: "c", Label: "[c]ontinue to sandbox"},
		{Key: "v", Label: "[v]iew code"},
		{Key: "a", Label: "[a]uth section"},
		{Key: "l", Label: "[l] client section"},
		{Key: "s", Label: "[s]ave"},
		{Key: "b", Label: "[b]ack"},
		{Key: "q", Label: "[q]uit"},
	}
	sandboxActions = []tui.Option{
		{Key: "r", Label: "[r]un tests"},
		{Key: "b", Label: "[b]ack"},
		{Key: "q", Label: "[q]uit"},
	}
	sandboxPassedActions = []tui.Option{
		{Key: "d", Label: "[d]eploy"},
		{Key: "r", Label: "[r]un again"},
		{Key: "b", Label: "[b]ack"},
		{Key: "q", Label: "[q]uit"},
	}
	deployedActions = []tui.Option{
		{Key: "s", Label: "[s]ave artifacts"},
		{Key: "n", Label: "[n]ew integration"},
		{Key: "q", Label: "[q]uit"},
	}
)
