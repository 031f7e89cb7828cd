package mocks

import "apiforge/internal/services"

type ApiKeyStoreMock struct {
	GetApiKeyFunc func(provider string) (string, error)
	Keys          map[string]string
}

func (m *ApiKeyStoreMock) GetApiKey(provider string) (string, error) {
	if m.GetApiKeyFunc != nil {
		return m.GetApiKeyFunc(provider)
	}
	if key, ok := m.Keys[provider]; ok {
		return key, nil
	}
	return "", services.ErrApiKeyNotFound
}
