package unit_tests

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"apiforge/internal/models"
	"apiforge/internal/services"
	"apiforge/internal/tests/mocks"
)

func startedCatalog(t *testing.T) (services.ModelConfigService, *mocks.ModelSettingRepositoryMock) {
	t.Helper()
	repo := &mocks.ModelSettingRepositoryMock{}
	catalog := services.NewModelConfigService(repo)
	require.NoError(t, catalog.Startup(context.Background()))
	return catalog, repo
}

func TestAppSettingsService_Get_RepositoryError(t *testing.T) {
	mockRepo := &mocks.AppSettingsRepositoryMock{
		GetFunc: func(ctx context.Context) (*models.AppSettings, error) {
			return nil, errors.New("database error")
		},
	}
	service := services.NewAppSettingsService(mockRepo, nil)

	_, err := service.Get(context.Background())
	assert.EqualError(t, err, "database error")
}

func TestAppSettingsService_SetDefaultModel(t *testing.T) {
	catalog, _ := startedCatalog(t)

	var saved *models.AppSettings
	mockRepo := &mocks.AppSettingsRepositoryMock{
		UpdateFunc: func(ctx context.Context, settings *models.AppSettings) error {
			saved = settings
			return nil
		},
	}
	service := services.NewAppSettingsService(mockRepo, catalog)

	got, err := service.SetDefaultModel(context.Background(), " openai|gpt-4.1 ")
	require.NoError(t, err)
	assert.Equal(t, "openai|gpt-4.1", got.DefaultModelKey)
	require.NotNil(t, saved)
	assert.Equal(t, "openai|gpt-4.1", saved.DefaultModelKey)
	assert.False(t, saved.UpdatedAt.IsZero())
}

func TestAppSettingsService_SetDefaultModel_Rejects(t *testing.T) {
	catalog, _ := startedCatalog(t)
	service := services.NewAppSettingsService(&mocks.AppSettingsRepositoryMock{}, catalog)
	ctx := context.Background()

	_, err := service.SetDefaultModel(ctx, "openai|nope")
	assert.Error(t, err)

	_, err = catalog.SetModelEnabled("openai|gpt-4.1", false)
	require.NoError(t, err)
	_, err = service.SetDefaultModel(ctx, "openai|gpt-4.1")
	assert.ErrorContains(t, err, "disabled")
}

func TestAppSettingsService_SetDefaultModel_ClearsWithEmptyKey(t *testing.T) {
	mockRepo := &mocks.AppSettingsRepositoryMock{
		GetFunc: func(ctx context.Context) (*models.AppSettings, error) {
			return &models.AppSettings{ID: 1, DefaultModelKey: "anthropic|claude-sonnet-4-20250514"}, nil
		},
	}
	service := services.NewAppSettingsService(mockRepo, nil)

	got, err := service.SetDefaultModel(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, got.DefaultModelKey)
}

func TestAppSettingsService_SetLanguage(t *testing.T) {
	service := services.NewAppSettingsService(&mocks.AppSettingsRepositoryMock{}, nil)
	ctx := context.Background()

	got, err := service.SetLanguage(ctx, "node.js")
	require.NoError(t, err)
	assert.Equal(t, "Node.js", got.Language)

	_, err = service.SetLanguage(ctx, "")
	assert.EqualError(t, err, "language is required")

	_, err = service.SetLanguage(ctx, "COBOL")
	assert.Error(t, err)
}

func TestAppSettingsService_UpdateError(t *testing.T) {
	mockRepo := &mocks.AppSettingsRepositoryMock{
		UpdateFunc: func(ctx context.Context, settings *models.AppSettings) error {
			return errors.New("disk full")
		},
	}
	service := services.NewAppSettingsService(mockRepo, nil)

	_, err := service.SetLanguage(context.Background(), "Go")
	assert.EqualError(t, err, "disk full")
}
