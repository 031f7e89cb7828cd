package services

import (
	"apiforge/internal/repositories"

	"gorm.io/gorm"
)

// DbServices aggregates all domain services backed by the database.
type DbServices struct {
	Models      ModelConfigService
	AppSettings AppSettingsService
}

// NewDbServices constructs the service container using repositories backed by db.
// Models must be started before use.
func NewDbServices(db *gorm.DB) *DbServices {
	modelRepo := repositories.NewModelSettingRepository(db)
	appSettingsRepo := repositories.NewAppSettingsRepository(db)

	modelConfigs := NewModelConfigService(modelRepo)
	return &DbServices{
		Models:      modelConfigs,
		AppSettings: NewAppSettingsService(appSettingsRepo, modelConfigs),
	}
}
