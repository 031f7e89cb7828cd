package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"apiforge/internal/models"
	"apiforge/internal/repositories"
)

type AppSettingsService interface {
	Get(ctx context.Context) (*models.AppSettings, error)
	// SetDefaultModel persists the model used when no model is configured
	// explicitly. An empty key clears it.
	SetDefaultModel(ctx context.Context, modelKey string) (*models.AppSettings, error)
	SetLanguage(ctx context.Context, language string) (*models.AppSettings, error)
}

type appSettingsService struct {
	appSettings repositories.AppSettingsRepository
	catalog     ModelConfigService
	now         func() time.Time
}

// NewAppSettingsService validates model keys against catalog when it is
// non-nil.
func NewAppSettingsService(appSettings repositories.AppSettingsRepository, catalog ModelConfigService) AppSettingsService {
	return &appSettingsService{appSettings: appSettings, catalog: catalog, now: time.Now}
}

func (s *appSettingsService) Get(ctx context.Context) (*models.AppSettings, error) {
	return s.appSettings.Get(ctx)
}

func (s *appSettingsService) SetDefaultModel(ctx context.Context, modelKey string) (*models.AppSettings, error) {
	modelKey = strings.TrimSpace(modelKey)
	if modelKey != "" && s.catalog != nil {
		mdl, err := s.catalog.GetModel(modelKey)
		if err != nil {
			return nil, err
		}
		if !mdl.Enabled {
			return nil, fmt.Errorf("model %s is disabled", mdl.DisplayName)
		}
	}

	return s.update(ctx, func(current *models.AppSettings) {
		current.DefaultModelKey = modelKey
	})
}

func (s *appSettingsService) SetLanguage(ctx context.Context, language string) (*models.AppSettings, error) {
	if strings.TrimSpace(language) == "" {
		return nil, errors.New("language is required")
	}
	matched, err := models.ParseLanguage(language)
	if err != nil {
		return nil, err
	}

	return s.update(ctx, func(current *models.AppSettings) {
		current.Language = string(matched)
	})
}

func (s *appSettingsService) update(ctx context.Context, apply func(*models.AppSettings)) (*models.AppSettings, error) {
	current, err := s.appSettings.Get(ctx)
	if err != nil {
		return nil, err
	}

	apply(current)
	current.UpdatedAt = s.now()

	if err := s.appSettings.Update(ctx, current); err != nil {
		return nil, err
	}
	return current, nil
}
