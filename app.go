package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"apiforge/internal/config"
	"apiforge/internal/database"
	"apiforge/internal/events"
	"apiforge/internal/generation"
	"apiforge/internal/logging"
	"apiforge/internal/models"
	"apiforge/internal/sandbox"
	"apiforge/internal/services"
	"apiforge/internal/utils"
	"apiforge/internal/workflow"
)

// App holds the wired services for one CLI invocation.
type App struct {
	ctx        context.Context
	cfg        *config.Config
	logger     *zap.Logger
	db         *gorm.DB
	dbServices *services.DbServices
	keyring    *services.KeyringService
	clients    *services.ClientService
	exporter   *services.ExportService
	emitter    *services.EventEmitterService
	engine     *workflow.Engine

	in  io.Reader
	out io.Writer
}

type startupOptions struct {
	configPath string
	logLevel   string
	// sandboxDelay paces the scripted sandbox run.
	sandboxDelay time.Duration
}

func NewApp(in io.Reader, out io.Writer) *App {
	return &App{in: in, out: out, logger: zap.NewNop()}
}

// startup loads configuration and wires every service.
func (a *App) startup(ctx context.Context, opts startupOptions) error {
	a.ctx = ctx

	envErr := utils.LoadEnv()

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	a.cfg = cfg

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	a.logger = logger
	if envErr != nil && !errors.Is(envErr, os.ErrNotExist) {
		logger.Warn("failed to load .env", zap.Error(envErr))
	}

	db, err := database.Init(database.Config{Path: cfg.Database.Path, Logger: logger})
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	a.db = db

	a.dbServices = services.NewDbServices(db)
	if err := a.dbServices.Models.Startup(ctx); err != nil {
		return fmt.Errorf("start model catalog: %w", err)
	}

	var keys services.ApiKeyStore
	if ring, err := services.OpenKeyring(cfg.Keyring); err != nil {
		logger.Warn("keyring unavailable, stored API keys will be ignored", zap.Error(err))
	} else {
		a.keyring = services.NewKeyringService(ring)
		keys = a.keyring
	}

	a.clients = services.NewClientService(cfg, keys, a.dbServices.Models, a.dbServices.AppSettings,
		services.WithClientLogger(logger.Named("client")))
	a.exporter = services.NewExportService(services.NewGitService(), logger.Named("export"))
	a.emitter = services.NewEventEmitterService(logger.Named("events"), a.printEvent)

	orchestrator := generation.NewOrchestrator(generation.OrchestratorConfig{
		Resolver: a.clients,
		Timeout:  cfg.Generation.Timeout,
		Logger:   logger.Named("generation"),
	})
	engine, err := workflow.NewEngine(workflow.Config{
		Generator: orchestrator,
		Tests: &sandbox.ScriptedRunner{
			StepDelay: opts.sandboxDelay,
			Progress: func(done, total int, c models.TestCase) {
				renderTestCase(a.out, c)
			},
		},
		Logger: logger.Named("workflow"),
	})
	if err != nil {
		return err
	}
	a.engine = engine
	return nil
}

// shutdown releases resources acquired by startup.
func (a *App) shutdown() {
	if a.emitter != nil {
		a.emitter.StopStream()
	}
	if a.db != nil {
		if err := database.Close(a.db); err != nil {
			a.logger.Error("failed to close database", zap.Error(err))
		}
	}
	_ = logging.Sync(a.logger)
}

// defaultLanguage returns the persisted language preference.
func (a *App) defaultLanguage(ctx context.Context) models.Language {
	if a.dbServices == nil {
		return models.DefaultLanguage
	}
	settings, err := a.dbServices.AppSettings.Get(ctx)
	if err != nil {
		a.logger.Warn("failed to load app settings", zap.Error(err))
		return models.DefaultLanguage
	}
	lang, err := models.ParseLanguage(settings.Language)
	if err != nil {
		return models.DefaultLanguage
	}
	return lang
}

func (a *App) printEvent(ctx context.Context, name string, evt events.Event) {
	if name == events.WorkflowTransition {
		return
	}
	renderEvent(a.out, evt)
}

func (a *App) requireKeyring() (*services.KeyringService, error) {
	if a.keyring == nil {
		return nil, errors.New("no keyring backend is available; set the provider key in the environment or config file instead")
	}
	return a.keyring, nil
}
