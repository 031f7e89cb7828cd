package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"apiforge/internal/config"
	"apiforge/internal/generation"
	"apiforge/internal/llm/client"
	"apiforge/internal/models"
)

// ApiKeyStore is the subset of KeyringService the client service reads.
type ApiKeyStore interface {
	GetApiKey(provider string) (string, error)
}

// ClientFactory builds a code model for a catalog entry.
type ClientFactory func(ctx context.Context, model models.LLMModel, apiKey string, opts client.GenerationOptions) (generation.CodeModel, error)

// ClientService picks the generation model and its credential. It satisfies
// generation.ModelResolver.
//
// Model selection: generation.model_key from config, then the persisted
// default model, then the first enabled catalog model whose provider has a
// credential. Credentials are looked up in config, then the keyring, then
// the key entered for the current session.
type ClientService struct {
	cfg      *config.Config
	keys     ApiKeyStore
	catalog  ModelConfigService
	settings AppSettingsService
	factory  ClientFactory
	logger   *zap.Logger
}

type ClientServiceOption func(*ClientService)

func WithClientFactory(f ClientFactory) ClientServiceOption {
	return func(s *ClientService) { s.factory = f }
}

func WithClientLogger(logger *zap.Logger) ClientServiceOption {
	return func(s *ClientService) { s.logger = logger }
}

func NewClientService(cfg *config.Config, keys ApiKeyStore, catalog ModelConfigService, settings AppSettingsService, opts ...ClientServiceOption) *ClientService {
	if cfg == nil {
		cfg = &config.Config{}
	}
	s := &ClientService{
		cfg:      cfg,
		keys:     keys,
		catalog:  catalog,
		settings: settings,
		factory:  instantiateLLMClient,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Resolve returns a ready model and its key, or generation.ErrNoCredential
// when no credential is available for the selected model.
func (s *ClientService) Resolve(ctx context.Context, sessionAPIKey string) (generation.CodeModel, string, error) {
	if s.catalog == nil {
		return nil, "", fmt.Errorf("model catalog not configured")
	}

	mdl, apiKey, err := s.selectModel(ctx, strings.TrimSpace(sessionAPIKey))
	if err != nil {
		return nil, "", err
	}

	codeModel, err := s.factory(ctx, *mdl, apiKey, client.GenerationOptions{
		MaxTokens:   s.cfg.Generation.MaxTokens,
		Temperature: s.cfg.Generation.TemperatureValue(),
	})
	if err != nil {
		return nil, "", fmt.Errorf("create %s client: %w", mdl.ProviderID, err)
	}
	s.logger.Debug("resolved generation model", zap.String("model", mdl.Key), zap.String("provider", mdl.ProviderID))
	return codeModel, mdl.Key, nil
}

// MissingCredential returns the model a session key would be used for when no
// configured or stored credential can serve generation, or nil otherwise.
func (s *ClientService) MissingCredential(ctx context.Context) *models.LLMModel {
	if s.catalog == nil {
		return nil
	}
	if _, _, err := s.selectModel(ctx, ""); !errors.Is(err, generation.ErrNoCredential) {
		return nil
	}
	if key, err := s.preferredModelKey(ctx); err == nil && key != "" {
		if mdl, err := s.catalog.GetModel(key); err == nil {
			return mdl
		}
	}
	enabled := s.catalog.EnabledModels()
	if len(enabled) == 0 {
		return nil
	}
	return &enabled[0]
}

func (s *ClientService) selectModel(ctx context.Context, sessionAPIKey string) (*models.LLMModel, string, error) {
	key, err := s.preferredModelKey(ctx)
	if err != nil {
		return nil, "", err
	}
	if key != "" {
		mdl, err := s.catalog.GetModel(key)
		if err != nil {
			return nil, "", err
		}
		if !mdl.Enabled {
			return nil, "", fmt.Errorf("model %s is disabled", mdl.DisplayName)
		}
		apiKey, err := s.credential(mdl.ProviderID, sessionAPIKey)
		if err != nil {
			return nil, "", err
		}
		return mdl, apiKey, nil
	}

	enabled := s.catalog.EnabledModels()
	if len(enabled) == 0 {
		return nil, "", fmt.Errorf("no enabled models")
	}
	for i := range enabled {
		apiKey, err := s.credential(enabled[i].ProviderID, "")
		if errors.Is(err, generation.ErrNoCredential) {
			continue
		}
		if err != nil {
			return nil, "", err
		}
		return &enabled[i], apiKey, nil
	}
	if sessionAPIKey != "" {
		return &enabled[0], sessionAPIKey, nil
	}
	return nil, "", generation.ErrNoCredential
}

func (s *ClientService) preferredModelKey(ctx context.Context) (string, error) {
	if key := strings.TrimSpace(s.cfg.Generation.ModelKey); key != "" {
		return key, nil
	}
	if s.settings == nil {
		return "", nil
	}
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return "", fmt.Errorf("load app settings: %w", err)
	}
	return strings.TrimSpace(settings.DefaultModelKey), nil
}

func (s *ClientService) credential(providerID, sessionAPIKey string) (string, error) {
	if key := s.cfg.APIKey(providerID); key != "" {
		return key, nil
	}
	if s.keys != nil {
		key, err := s.keys.GetApiKey(providerID)
		switch {
		case err == nil && strings.TrimSpace(key) != "":
			return strings.TrimSpace(key), nil
		case err != nil && !errors.Is(err, ErrApiKeyNotFound):
			s.logger.Warn("keyring lookup failed", zap.String("provider", providerID), zap.Error(err))
		}
	}
	if sessionAPIKey != "" {
		return sessionAPIKey, nil
	}
	return "", generation.ErrNoCredential
}

func instantiateLLMClient(ctx context.Context, model models.LLMModel, apiKey string, opts client.GenerationOptions) (generation.CodeModel, error) {
	providerID := strings.TrimSpace(model.ProviderID)
	if providerID == "" {
		return nil, fmt.Errorf("model %s is missing provider information", model.DisplayName)
	}

	var (
		llmClient *client.LLMClient
		createErr error
	)
	switch providerID {
	case "anthropic":
		llmClient, createErr = client.NewClaudeClient(ctx, apiKey, client.ClaudeModelOptions{
			Model:             model.APIName,
			Thinking:          model.Thinking != nil && *model.Thinking,
			GenerationOptions: opts,
		})
	case "openai":
		llmClient, createErr = client.NewOpenAIClient(ctx, apiKey, client.OpenAIModelOptions{
			Model:             model.APIName,
			ReasoningEffort:   model.ReasoningEffort,
			GenerationOptions: opts,
		})
	case "gemini":
		llmClient, createErr = client.NewGeminiClient(ctx, apiKey, client.GeminiModelOptions{
			Model:             model.APIName,
			Thinking:          model.Thinking != nil && *model.Thinking,
			GenerationOptions: opts,
		})
	default:
		return nil, fmt.Errorf("unsupported provider %s", providerID)
	}
	if createErr != nil {
		return nil, createErr
	}
	return llmClient, nil
}
