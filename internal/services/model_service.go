package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"apiforge/internal/assets"
	"apiforge/internal/models"
	"apiforge/internal/repositories"
)

// ModelConfigService exposes the embedded model catalog merged with the
// persisted enable toggles.
type ModelConfigService interface {
	Startup(ctx context.Context) error
	ListModelGroups() ([]models.LLMModelGroup, error)
	SetModelEnabled(modelKey string, enabled bool) (*models.LLMModel, error)
	SetProviderEnabled(provider string, enabled bool) ([]models.LLMModel, error)
	GetModel(modelKey string) (*models.LLMModel, error)
	// EnabledModels lists enabled models in catalog order.
	EnabledModels() []models.LLMModel
}

type modelConfigService struct {
	repo repositories.ModelSettingRepository
	data []byte

	mu        sync.RWMutex
	providers []catalogProvider
	entries   []models.LLMModel
	index     map[string]int
}

type catalogProvider struct {
	id   string
	name string
}

// catalogFile is the JSON shape of assets/models.json.
type catalogFile struct {
	Providers []struct {
		ID          string `json:"id"`
		DisplayName string `json:"displayName"`
		Models      []struct {
			DisplayName     string `json:"displayName"`
			APIName         string `json:"apiName"`
			ReasoningEffort string `json:"reasoningEffort,omitempty"`
			Thinking        *bool  `json:"thinking,omitempty"`
		} `json:"models"`
	} `json:"providers"`
}

func NewModelConfigService(repo repositories.ModelSettingRepository) ModelConfigService {
	return NewModelConfigServiceWithCatalog(repo, assets.ModelsData)
}

// NewModelConfigServiceWithCatalog reads the catalog from data instead of the
// embedded asset.
func NewModelConfigServiceWithCatalog(repo repositories.ModelSettingRepository, data []byte) ModelConfigService {
	return &modelConfigService{repo: repo, data: data, index: map[string]int{}}
}

// parseCatalog flattens the catalog into entries in file order. Models
// without an API name are skipped and a repeated key keeps its first entry.
func parseCatalog(data []byte) ([]catalogProvider, []models.LLMModel, map[string]int, error) {
	var file catalogFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, nil, nil, fmt.Errorf("parse models asset: %w", err)
	}

	var (
		providers []catalogProvider
		entries   []models.LLMModel
		index     = map[string]int{}
	)
	for _, p := range file.Providers {
		id := strings.TrimSpace(p.ID)
		if id == "" {
			continue
		}
		name := strings.TrimSpace(p.DisplayName)
		if name == "" {
			name = id
		}
		providers = append(providers, catalogProvider{id: id, name: name})

		for _, m := range p.Models {
			apiName := strings.TrimSpace(m.APIName)
			if apiName == "" {
				continue
			}
			effort := strings.TrimSpace(m.ReasoningEffort)
			key := modelKey(id, apiName, effort, m.Thinking)
			if _, dup := index[key]; dup {
				continue
			}
			index[key] = len(entries)
			entries = append(entries, models.LLMModel{
				Key:             key,
				DisplayName:     strings.TrimSpace(m.DisplayName),
				APIName:         apiName,
				ProviderID:      id,
				ProviderName:    name,
				ReasoningEffort: effort,
				Thinking:        m.Thinking,
				Enabled:         true,
			})
		}
	}
	return providers, entries, index, nil
}

// modelKey identifies a catalog entry as provider|apiName, followed by
// |reasoning=x,thinking=y when either variant attribute is set.
func modelKey(providerID, apiName, reasoningEffort string, thinking *bool) string {
	key := providerID + "|" + apiName

	var attrs []string
	if reasoningEffort != "" {
		attrs = append(attrs, "reasoning="+reasoningEffort)
	}
	if thinking != nil {
		attrs = append(attrs, fmt.Sprintf("thinking=%t", *thinking))
	}
	if len(attrs) > 0 {
		key += "|" + strings.Join(attrs, ",")
	}
	return key
}

// Startup loads the catalog and applies the stored toggles. Models with no
// stored toggle are persisted as enabled.
func (s *modelConfigService) Startup(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	providers, entries, index, err := parseCatalog(s.data)
	if err != nil {
		return err
	}

	stored, err := s.repo.List()
	if err != nil {
		return fmt.Errorf("load model settings: %w", err)
	}
	toggles := make(map[string]bool, len(stored))
	for _, setting := range stored {
		toggles[setting.ModelKey] = setting.Enabled
	}

	for i := range entries {
		e := &entries[i]
		if enabled, ok := toggles[e.Key]; ok {
			e.Enabled = enabled
			continue
		}
		if _, err := s.repo.Upsert(e.Key, e.ProviderID, true); err != nil {
			return fmt.Errorf("seed model setting for %s: %w", e.Key, err)
		}
	}

	s.mu.Lock()
	s.providers, s.entries, s.index = providers, entries, index
	s.mu.Unlock()
	return nil
}

func (s *modelConfigService) ListModelGroups() ([]models.LLMModelGroup, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	groups := make([]models.LLMModelGroup, len(s.providers))
	slot := make(map[string]int, len(s.providers))
	for i, p := range s.providers {
		groups[i] = models.LLMModelGroup{ProviderID: p.id, ProviderName: p.name}
		slot[p.id] = i
	}
	for _, e := range s.entries {
		i := slot[e.ProviderID]
		groups[i].Models = append(groups[i].Models, e)
	}
	return groups, nil
}

func (s *modelConfigService) SetModelEnabled(modelKey string, enabled bool) (*models.LLMModel, error) {
	modelKey = strings.TrimSpace(modelKey)
	if modelKey == "" {
		return nil, fmt.Errorf("model key is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[modelKey]
	if !ok {
		return nil, fmt.Errorf("model %s not found", modelKey)
	}
	if _, err := s.repo.Upsert(modelKey, s.entries[i].ProviderID, enabled); err != nil {
		return nil, err
	}
	s.entries[i].Enabled = enabled
	mdl := s.entries[i]
	return &mdl, nil
}

// SetProviderEnabled toggles every model of provider and returns them in
// catalog order.
func (s *modelConfigService) SetProviderEnabled(provider string, enabled bool) ([]models.LLMModel, error) {
	provider = strings.TrimSpace(provider)
	if provider == "" {
		return nil, fmt.Errorf("provider is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.SetProviderEnabled(provider, enabled); err != nil {
		return nil, err
	}

	updated := make([]models.LLMModel, 0)
	for i := range s.entries {
		if s.entries[i].ProviderID != provider {
			continue
		}
		s.entries[i].Enabled = enabled
		updated = append(updated, s.entries[i])
	}
	return updated, nil
}

func (s *modelConfigService) GetModel(modelKey string) (*models.LLMModel, error) {
	modelKey = strings.TrimSpace(modelKey)
	if modelKey == "" {
		return nil, fmt.Errorf("model key is required")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.index[modelKey]
	if !ok {
		return nil, fmt.Errorf("model %s not found", modelKey)
	}
	mdl := s.entries[i]
	return &mdl, nil
}

func (s *modelConfigService) EnabledModels() []models.LLMModel {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var enabled []models.LLMModel
	for _, e := range s.entries {
		if e.Enabled {
			enabled = append(enabled, e)
		}
	}
	return enabled
}
