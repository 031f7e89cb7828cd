package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"apiforge/internal/analysis"
	"apiforge/internal/models"
	"apiforge/internal/services"
	"apiforge/internal/tui"
	"apiforge/internal/utils"
	"apiforge/internal/workflow"
)

func newRootCmd(app *App) *cobra.Command {
	opts := &startupOptions{}
	root := &cobra.Command{
		Use:   "apiforge",
		Short: "Build API integrations from documentation",
		Long: `apiforge turns an API documentation URL into a ready-to-run integration.

It walks through five stages: configure, generate, review, sandbox test and
deploy. Code is generated by the configured LLM provider; without a
credential a reference integration is used instead.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.startup(cmd.Context(), *opts)
		},
	}
	root.SetOut(app.out)
	root.SetErr(app.out)
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default ~/.config/apiforge/config.yaml)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	root.AddCommand(
		newRunCmd(app, opts),
		newGenerateCmd(app),
		newAnalyzeCmd(app),
		newKeyCmd(app),
		newModelsCmd(app),
		newSettingsCmd(app),
	)
	return root
}

type sessionFlags struct {
	docURL     string
	auth       string
	language   string
	apiKey     string
	rateLimit  bool
	webhooks   bool
	retryLogic bool
}

func (f *sessionFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.docURL, "url", "", "API documentation URL")
	cmd.Flags().StringVar(&f.auth, "auth", string(models.DefaultAuthMethod), "authentication method (OAuth2, APIKey, BearerToken, AutoDetect)")
	cmd.Flags().StringVar(&f.language, "language", "", "target language (default from settings)")
	cmd.Flags().StringVar(&f.apiKey, "api-key", "", "generation API key for this session only")
	cmd.Flags().BoolVar(&f.rateLimit, "rate-limit", false, "add custom rate limit handling")
	cmd.Flags().BoolVar(&f.webhooks, "webhooks", false, "add webhook support")
	cmd.Flags().BoolVar(&f.retryLogic, "retry", false, "add custom retry logic")
}

func (f *sessionFlags) input(ctx context.Context, app *App) (workflow.ConfigureInput, error) {
	auth, err := models.ParseAuthMethod(f.auth)
	if err != nil {
		return workflow.ConfigureInput{}, err
	}
	lang := app.defaultLanguage(ctx)
	if f.language != "" {
		if lang, err = models.ParseLanguage(f.language); err != nil {
			return workflow.ConfigureInput{}, err
		}
	}
	return workflow.ConfigureInput{
		DocURL:     f.docURL,
		AuthMethod: auth,
		Language:   lang,
		Options: models.IntegrationOptions{
			CustomRateLimit: f.rateLimit,
			Webhooks:        f.webhooks,
			CustomRetry:     f.retryLogic,
		},
	}, nil
}

func newRunCmd(app *App, opts *startupOptions) *cobra.Command {
	flags := &sessionFlags{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Walk through the integration workflow interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			in, err := flags.input(ctx, app)
			if err != nil {
				return err
			}
			app.emitter.StartStream()
			defer app.emitter.StopStream()

			w := newWizard(app.engine, app.exporter, tui.NewPrompter(app.in, app.out), app.out)
			w.missingCredential = app.clients.MissingCredential
			return w.run(ctx, in, flags.apiKey)
		},
	}
	flags.register(cmd)
	cmd.Flags().DurationVar(&opts.sandboxDelay, "sandbox-delay", 500*time.Millisecond, "pause between sandbox test cases")
	return cmd
}

func newGenerateCmd(app *App) *cobra.Command {
	flags := &sessionFlags{}
	var (
		outDir string
		commit bool
		msg    string
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate an integration without prompts",
		Long: `Generate an integration and report its insights and quality score.

Without --out the generated code is written to stdout. With --out the code
and README are written to that directory, and --commit records them in a git
repository there.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			in, err := flags.input(ctx, app)
			if err != nil {
				return err
			}

			s := app.engine.NewSession()
			s.SessionAPIKey = flags.apiKey
			if err := app.engine.Configure(ctx, s, in); err != nil {
				return err
			}
			result, err := app.engine.Generate(ctx, s)
			if err != nil {
				return err
			}
			if result.Diagnostic != "" {
				warnColor.Fprintln(cmd.ErrOrStderr(), result.Diagnostic)
			}

			if outDir == "" {
				fmt.Fprintln(app.out, s.GeneratedCode)
				return nil
			}

			renderInsights(app.out, s.Insights)
			report, err := app.engine.ReviewMetrics(s)
			if err != nil {
				return err
			}
			renderQuality(app.out, report)
			return exportSession(ctx, app.engine, app.exporter, app.out, s, outDir, commit, msg)
		},
	}
	flags.register(cmd)
	_ = cmd.MarkFlagRequired("url")
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "directory to write the code and README to")
	cmd.Flags().BoolVar(&commit, "commit", false, "commit the exported files to a git repository in --out")
	cmd.Flags().StringVarP(&msg, "message", "m", "", "commit message")
	return cmd
}

func exportSession(ctx context.Context, engine *workflow.Engine, exporter *services.ExportService, w io.Writer, s *models.Session, dir string, commit bool, msg string) error {
	artifacts, err := engine.Artifacts(s)
	if err != nil {
		return err
	}
	existing := utils.HasGitRepo(dir)
	res, err := exporter.Export(ctx, dir, artifacts, services.ExportOptions{Commit: commit, Message: msg})
	if err != nil {
		return err
	}
	if res.CreatedDir {
		faintColor.Fprintf(w, "Created %s\n", res.Dir)
	}
	successColor.Fprintf(w, "Wrote %s to %s\n", strings.Join(res.Files, ", "), res.Dir)
	switch {
	case res.CommitHash != "" && existing:
		fmt.Fprintf(w, "Committed %s to existing repository\n", shortHash(res.CommitHash))
	case res.CommitHash != "":
		fmt.Fprintf(w, "Committed %s\n", shortHash(res.CommitHash))
	case commit && res.Head != "":
		faintColor.Fprintf(w, "No changes to commit (HEAD %s)\n", shortHash(res.Head))
	case commit:
		faintColor.Fprintln(w, "No changes to commit")
	}
	return nil
}

func shortHash(h string) string {
	return h[:min(len(h), 12)]
}

func newAnalyzeCmd(app *App) *cobra.Command {
	var docURL string
	cmd := &cobra.Command{
		Use:   "analyze <file|->",
		Short: "Score existing integration code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				data []byte
				err  error
			)
			if args[0] == "-" {
				data, err = io.ReadAll(app.in)
			} else {
				data, err = os.ReadFile(args[0])
			}
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}
			code := string(data)
			renderInsights(app.out, analysis.NewKeywordInsightExtractor().Extract(code, docURL))
			renderQuality(app.out, analysis.NewKeywordQualityAnalyzer().Analyze(code))
			return nil
		},
	}
	cmd.Flags().StringVar(&docURL, "url", "", "documentation URL the code was generated from")
	return cmd
}

func newKeyCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "key",
		Short: "Manage provider API keys in the system keyring",
	}

	var fromFile string
	set := &cobra.Command{
		Use:   "set <provider>",
		Short: "Store an API key (read from stdin unless --from-file is given)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ring, err := app.requireKeyring()
			if err != nil {
				return err
			}
			key, err := readSecret(app.in, fromFile)
			if err != nil {
				return err
			}
			if err := ring.StoreApiKey(args[0], []byte(key)); err != nil {
				return fmt.Errorf("store %s key: %w", args[0], err)
			}
			successColor.Fprintf(app.out, "Stored %s API key\n", args[0])
			return nil
		},
	}
	set.Flags().StringVar(&fromFile, "from-file", "", "read the key from the first non-comment line of a file")

	del := &cobra.Command{
		Use:   "delete <provider>",
		Short: "Remove a stored API key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ring, err := app.requireKeyring()
			if err != nil {
				return err
			}
			if err := ring.DeleteApiKey(args[0]); err != nil {
				return fmt.Errorf("delete %s key: %w", args[0], err)
			}
			successColor.Fprintf(app.out, "Deleted %s API key\n", args[0])
			return nil
		},
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List providers with a stored API key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ring, err := app.requireKeyring()
			if err != nil {
				return err
			}
			keys, err := ring.ListApiKeys()
			if err != nil {
				return err
			}
			if len(keys) == 0 {
				faintColor.Fprintln(app.out, "No API keys stored")
			}
			for _, k := range keys {
				fmt.Fprintf(app.out, "%-12s %s\n", k["provider"], faintColor.Sprint(k["description"]))
			}
			return nil
		},
	}

	cmd.AddCommand(set, del, list)
	return cmd
}

func readSecret(in io.Reader, fromFile string) (string, error) {
	if fromFile != "" {
		lines, err := utils.ReadNonEmptyLines(fromFile)
		if err != nil {
			return "", fmt.Errorf("read key file: %w", err)
		}
		if len(lines) == 0 {
			return "", errors.New("key file is empty")
		}
		return lines[0], nil
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return "", errors.New("API key is empty")
	}
	return line, nil
}

func newModelsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "models",
		Short: "List and configure generation models",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List catalog models (* marks the default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			groups, err := app.dbServices.Models.ListModelGroups()
			if err != nil {
				return err
			}
			settings, err := app.dbServices.AppSettings.Get(cmd.Context())
			if err != nil {
				return err
			}
			renderModelGroups(app.out, groups, settings.DefaultModelKey)
			return nil
		},
	}

	toggle := func(enabled bool) func(cmd *cobra.Command, args []string) error {
		return func(cmd *cobra.Command, args []string) error {
			target := args[0]
			if !strings.Contains(target, "|") {
				updated, err := app.dbServices.Models.SetProviderEnabled(target, enabled)
				if err != nil {
					return err
				}
				successColor.Fprintf(app.out, "Updated %d %s models\n", len(updated), target)
				return nil
			}
			mdl, err := app.dbServices.Models.SetModelEnabled(target, enabled)
			if err != nil {
				return err
			}
			successColor.Fprintf(app.out, "%s enabled=%t\n", mdl.DisplayName, mdl.Enabled)
			return nil
		}
	}
	enable := &cobra.Command{
		Use:   "enable <model-key|provider>",
		Short: "Enable a model or every model of a provider",
		Args:  cobra.ExactArgs(1),
		RunE:  toggle(true),
	}
	disable := &cobra.Command{
		Use:   "disable <model-key|provider>",
		Short: "Disable a model or every model of a provider",
		Args:  cobra.ExactArgs(1),
		RunE:  toggle(false),
	}

	def := &cobra.Command{
		Use:   "default [model-key]",
		Short: "Set the default model; without an argument, clear it",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := ""
			if len(args) == 1 {
				key = args[0]
			}
			settings, err := app.dbServices.AppSettings.SetDefaultModel(cmd.Context(), key)
			if err != nil {
				return err
			}
			if settings.DefaultModelKey == "" {
				successColor.Fprintln(app.out, "Default model cleared")
			} else {
				successColor.Fprintf(app.out, "Default model set to %s\n", settings.DefaultModelKey)
			}
			return nil
		},
	}

	cmd.AddCommand(list, enable, disable, def)
	return cmd
}

func newSettingsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change persisted preferences",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := app.dbServices.AppSettings.Get(cmd.Context())
			if err != nil {
				return err
			}
			defaultModel := settings.DefaultModelKey
			if defaultModel == "" {
				defaultModel = "(first enabled model with a credential)"
			}
			fmt.Fprintf(app.out, "Default model: %s\nLanguage:      %s\nDatabase:      %s\n", defaultModel, settings.Language, app.cfg.Database.Path)
			return nil
		},
	}

	language := &cobra.Command{
		Use:   "language <name>",
		Short: "Set the default target language",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := app.dbServices.AppSettings.SetLanguage(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			successColor.Fprintf(app.out, "Language set to %s\n", settings.Language)
			if lang := models.Language(settings.Language); !lang.Implemented() {
				warnColor.Fprintf(app.out, "Only the prompt changes for %s; the reference integration is Python.\n", lang)
			}
			return nil
		},
	}

	cmd.AddCommand(language)
	return cmd
}
