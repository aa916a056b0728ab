package services

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/custodia-labs/docrag/internal/core/domain"
	"github.com/custodia-labs/docrag/internal/core/ports/driven"
	"github.com/custodia-labs/docrag/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	KeyEmbedProvider   = "embedding.provider"
	KeyEmbedModel      = "embedding.model"
	KeyEmbedBaseURL    = "embedding.base_url"
	KeyEmbedAPIKey     = "embedding.api_key"
	KeyEmbedDimensions = "embedding.dimensions"
	KeyEmbedRate       = "embedding.requests_per_second"
	KeyChunkStrategy   = "chunking.strategy"
	KeyChunkSize       = "chunking.chunk_size"
	KeyTopK            = "retrieval.top_k"
	KeyStoreBackend    = "store.backend"
	KeyStorePath       = "store.path"
)

// SettingKeys lists every key accepted by Set, in display order.
func SettingKeys() []string {
	return []string{
		KeyEmbedProvider, KeyEmbedModel, KeyEmbedBaseURL, KeyEmbedAPIKey,
		KeyEmbedDimensions, KeyEmbedRate,
		KeyChunkStrategy, KeyChunkSize,
		KeyTopK,
		KeyStoreBackend, KeyStorePath,
	}
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
	}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Embedding: domain.EmbeddingSettings{
			Provider:          getEnum(s, KeyEmbedProvider, defaults.Embedding.Provider),
			Model:             s.configStore.GetString(KeyEmbedModel),
			BaseURL:           s.configStore.GetString(KeyEmbedBaseURL),
			APIKey:            s.configStore.GetString(KeyEmbedAPIKey),
			Dimensions:        s.getInt(KeyEmbedDimensions, 0),
			RequestsPerSecond: s.getFloat(KeyEmbedRate, defaults.Embedding.RequestsPerSecond),
		},
		Chunking: domain.ChunkingSettings{
			Strategy:  getEnum(s, KeyChunkStrategy, defaults.Chunking.Strategy),
			ChunkSize: s.getInt(KeyChunkSize, defaults.Chunking.ChunkSize),
		},
		Retrieval: domain.RetrievalSettings{
			TopK: s.getInt(KeyTopK, defaults.Retrieval.TopK),
		},
		Store: domain.StoreSettings{
			Backend: getEnum(s, KeyStoreBackend, defaults.Store.Backend),
			Path:    s.configStore.GetString(KeyStorePath),
		},
	}

	if settings.Embedding.Dimensions == 0 && settings.Embedding.Provider == domain.AIProviderHashing {
		settings.Embedding.Dimensions = defaults.Embedding.Dimensions
	}
	if settings.Embedding.Model == "" {
		settings.Embedding.Model = domain.DefaultEmbeddingModels()[settings.Embedding.Provider]
	}
	if settings.Store.Path == "" && s.configStore.Path() != "" {
		settings.Store.Path = filepath.Join(filepath.Dir(s.configStore.Path()), domain.DefaultStoreFileName)
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	values := []struct {
		key   string
		value any
	}{
		{KeyEmbedProvider, settings.Embedding.Provider.String()},
		{KeyEmbedModel, settings.Embedding.Model},
		{KeyEmbedBaseURL, settings.Embedding.BaseURL},
		{KeyEmbedDimensions, settings.Embedding.Dimensions},
		{KeyEmbedRate, settings.Embedding.RequestsPerSecond},
		{KeyChunkStrategy, string(settings.Chunking.Strategy)},
		{KeyChunkSize, settings.Chunking.ChunkSize},
		{KeyTopK, settings.Retrieval.TopK},
		{KeyStoreBackend, string(settings.Store.Backend)},
		{KeyStorePath, settings.Store.Path},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}
	if settings.Embedding.APIKey != "" {
		if err := s.configStore.Set(KeyEmbedAPIKey, settings.Embedding.APIKey); err != nil {
			return fmt.Errorf("save %s: %w", KeyEmbedAPIKey, err)
		}
	}
	return nil
}

// Set updates a single setting, validating the value for its key.
func (s *SettingsService) Set(key, value string) error {
	var stored any = value

	switch key {
	case KeyEmbedProvider:
		if !domain.AIProvider(value).IsValid() {
			return fmt.Errorf("%w: embedding provider %q", domain.ErrUnsupportedType, value)
		}
	case KeyChunkStrategy:
		if !domain.ChunkingStrategy(value).IsValid() {
			return fmt.Errorf("%w: chunking strategy %q", domain.ErrUnsupportedType, value)
		}
	case KeyStoreBackend:
		if !domain.StoreBackend(value).IsValid() {
			return fmt.Errorf("%w: store backend %q", domain.ErrUnsupportedType, value)
		}
	case KeyEmbedDimensions, KeyChunkSize, KeyTopK:
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("%w: %s must be a positive integer", domain.ErrInvalidInput, key)
		}
		stored = n
	case KeyEmbedRate:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f <= 0 {
			return fmt.Errorf("%w: %s must be a positive number", domain.ErrInvalidInput, key)
		}
		stored = f
	case KeyEmbedModel, KeyEmbedBaseURL, KeyEmbedAPIKey, KeyStorePath:
	default:
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	if err := s.configStore.Set(key, stored); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Keys lists the keys accepted by Set.
func (s *SettingsService) Keys() []string {
	return SettingKeys()
}

// SetEmbeddingProvider configures the embedding provider.
func (s *SettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("%w: embedding provider %q", domain.ErrUnsupportedType, provider)
	}

	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("%w: API key required for %s", domain.ErrInvalidInput, provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	emb := &settings.Embedding
	if model == "" {
		model = domain.DefaultEmbeddingModels()[provider]
	}
	emb.Provider, emb.Model, emb.APIKey = provider, model, apiKey

	// Only Ollama has a configurable endpoint. Dimensions belong to the old
	// model, so they are reset to the new model's native size.
	if provider != domain.AIProviderOllama {
		emb.BaseURL = ""
	} else if emb.BaseURL == "" {
		emb.BaseURL = domain.DefaultOllamaBaseURL
	}
	if provider != domain.AIProviderHashing {
		emb.Dimensions = 0
	}

	return s.Save(settings)
}

// Validate checks that current settings are usable.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	if !settings.Embedding.IsConfigured() {
		return fmt.Errorf("embedding provider %q is not configured", settings.Embedding.Provider)
	}
	if settings.Chunking.ChunkSize <= 0 {
		return fmt.Errorf("%w: chunk size must be positive", domain.ErrInvalidInput)
	}
	if settings.Retrieval.TopK <= 0 {
		return fmt.Errorf("%w: top_k must be positive", domain.ErrInvalidInput)
	}
	if settings.Store.Backend == domain.StoreBackendSQLite && settings.Store.Path == "" {
		return fmt.Errorf("%w: sqlite backend requires store.path", domain.ErrInvalidInput)
	}

	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ValidateEmbeddingConfig checks the saved embedding settings against the provider.
func (s *SettingsService) ValidateEmbeddingConfig(ctx context.Context) error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateEmbedding(ctx, &settings.Embedding)
}

// GetPipelineConfig returns the post-processor pipeline configuration
// for the current chunking settings.
func (s *SettingsService) GetPipelineConfig() domain.PipelineConfig {
	settings, err := s.Get()
	if err != nil {
		return domain.DefaultPipelineConfig()
	}
	return domain.PipelineConfigFor(settings.Chunking)
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val <= 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	val := s.configStore.GetFloat(key)
	if val <= 0 {
		return defaultVal
	}
	return val
}

// enum is satisfied by the string-backed setting types in domain.
type enum interface {
	~string
	IsValid() bool
}

// getEnum reads key, falling back to def when the stored value is unknown.
func getEnum[T enum](s *SettingsService, key string, def T) T {
	if v := T(s.configStore.GetString(key)); v.IsValid() {
		return v
	}
	return def
}
