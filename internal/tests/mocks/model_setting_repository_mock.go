package mocks

import (
	"apiforge/internal/models"
)

// ModelSettingRepositoryMock keeps settings in memory unless a func field
// overrides the call.
type ModelSettingRepositoryMock struct {
	ListFunc               func() ([]models.ModelSetting, error)
	GetByKeyFunc           func(modelKey string) (*models.ModelSetting, error)
	UpsertFunc             func(modelKey, provider string, enabled bool) (*models.ModelSetting, error)
	SetProviderEnabledFunc func(provider string, enabled bool) error

	Settings map[string]models.ModelSetting
}

func (m *ModelSettingRepositoryMock) List() ([]models.ModelSetting, error) {
	if m.ListFunc != nil {
		return m.ListFunc()
	}
	out := make([]models.ModelSetting, 0, len(m.Settings))
	for _, s := range m.Settings {
		out = append(out, s)
	}
	return out, nil
}

func (m *ModelSettingRepositoryMock) GetByKey(modelKey string) (*models.ModelSetting, error) {
	if m.GetByKeyFunc != nil {
		return m.GetByKeyFunc(modelKey)
	}
	if s, ok := m.Settings[modelKey]; ok {
		return &s, nil
	}
	return nil, nil
}

func (m *ModelSettingRepositoryMock) Upsert(modelKey, provider string, enabled bool) (*models.ModelSetting, error) {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(modelKey, provider, enabled)
	}
	if m.Settings == nil {
		m.Settings = make(map[string]models.ModelSetting)
	}
	s := models.ModelSetting{ModelKey: modelKey, Provider: provider, Enabled: enabled}
	m.Settings[modelKey] = s
	return &s, nil
}

func (m *ModelSettingRepositoryMock) SetProviderEnabled(provider string, enabled bool) error {
	if m.SetProviderEnabledFunc != nil {
		return m.SetProviderEnabledFunc(provider, enabled)
	}
	for k, s := range m.Settings {
		if s.Provider == provider {
			s.Enabled = enabled
			m.Settings[k] = s
		}
	}
	return nil
}
