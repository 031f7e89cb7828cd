package services

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/99designs/keyring"

	"apiforge/internal/config"
)

const serviceName = "apiforge"

// ErrApiKeyNotFound is returned when no credential is stored for a provider.
var ErrApiKeyNotFound = errors.New("API key not found")

// OpenKeyring opens the platform keyring, or the backend named in cfg.
func OpenKeyring(cfg config.KeyringConfig) (keyring.Keyring, error) {
	kcfg := keyring.Config{
		ServiceName:      serviceName,
		FileDir:          cfg.FileDir,
		FilePasswordFunc: keyring.TerminalPrompt,
	}
	if kcfg.FileDir == "" {
		if dir, err := os.UserConfigDir(); err == nil {
			kcfg.FileDir = filepath.Join(dir, serviceName, "keys")
		}
	}
	if backend := strings.TrimSpace(cfg.Backend); backend != "" {
		kcfg.AllowedBackends = []keyring.BackendType{keyring.BackendType(backend)}
	}
	ring, err := keyring.Open(kcfg)
	if err != nil {
		return nil, fmt.Errorf("open keyring: %w", err)
	}
	return ring, nil
}

type KeyringService struct {
	ring keyring.Keyring
}

func NewKeyringService(ring keyring.Keyring) *KeyringService {
	return &KeyringService{ring: ring}
}

func (s *KeyringService) StoreApiKey(provider string, apiKey []byte) error {
	if len(apiKey) == 0 {
		return errors.New("API key is empty")
	}
	if provider == "" {
		return errors.New("provider is required")
	}

	return s.ring.Set(keyring.Item{
		Key:         provider,
		Data:        apiKey,
		Label:       provider + " API key",
		Description: "API key for " + provider + " used by apiforge",
	})
}

func (s *KeyringService) GetApiKey(provider string) (string, error) {
	if provider == "" {
		return "", errors.New("provider is required")
	}
	item, err := s.ring.Get(provider)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return "", ErrApiKeyNotFound
	}
	if err != nil {
		return "", err
	}
	return string(item.Data), nil
}

func (s *KeyringService) DeleteApiKey(provider string) error {
	if provider == "" {
		return errors.New("provider is required")
	}
	err := s.ring.Remove(provider)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return ErrApiKeyNotFound
	}
	return err
}

func (s *KeyringService) ListApiKeys() ([]map[string]string, error) {
	keys, err := s.ring.Keys()
	if err != nil {
		return nil, err
	}
	sort.Strings(keys)

	results := make([]map[string]string, 0, len(keys))
	for _, provider := range keys {
		results = append(results, map[string]string{
			"provider":    provider,
			"label":       provider + " API key",
			"description": "API key for " + provider + " used by apiforge",
		})
	}
	return results, nil
}
