package domain

const unknownDescription = "Unknown"

// AIProvider names the service that turns text into vectors.
type AIProvider string

const (
	AIProviderHashing AIProvider = "hashing" // built in, no network
	AIProviderOllama  AIProvider = "ollama"
	AIProviderOpenAI  AIProvider = "openai"
)

// IsValid reports whether p is one of the providers above.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderHashing, AIProviderOllama, AIProviderOpenAI:
		return true
	default:
		return false
	}
}

// RequiresAPIKey reports whether requests carry a bearer key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI
}

// IsLocal reports whether documents stay on this machine.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderHashing || p == AIProviderOllama
}

func (p AIProvider) String() string {
	return string(p)
}

// Description is the label shown in settings output.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderHashing:
		return "Hashing (built-in, offline)"
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	default:
		return unknownDescription
	}
}

// ChunkingStrategy selects how documents are split before indexing.
// Fixed cuts non-overlapping character windows; sentence packs whole sentences
// up to the chunk size.
type ChunkingStrategy string

const (
	ChunkingFixed    ChunkingStrategy = "fixed"
	ChunkingSentence ChunkingStrategy = "sentence"
)

func (s ChunkingStrategy) IsValid() bool {
	return s == ChunkingFixed || s == ChunkingSentence
}

// ProcessorName is the postprocessors registry entry implementing s.
func (s ChunkingStrategy) ProcessorName() string {
	if s == ChunkingSentence {
		return "sentence"
	}
	return "chunker"
}

// StoreBackend selects where indexed passages live.
type StoreBackend string

const (
	StoreBackendMemory StoreBackend = "memory"
	StoreBackendSQLite StoreBackend = "sqlite"
)

func (b StoreBackend) IsValid() bool {
	return b == StoreBackendMemory || b == StoreBackendSQLite
}

// Description is the label shown in settings output.
func (b StoreBackend) Description() string {
	switch b {
	case StoreBackendMemory:
		return "Memory (lost on exit)"
	case StoreBackendSQLite:
		return "SQLite (persistent file)"
	default:
		return unknownDescription
	}
}

// EmbeddingSettings is the [embedding] table.
type EmbeddingSettings struct {
	Provider AIProvider
	Model    string
	BaseURL  string
	APIKey   string

	// Dimensions is the vector size. Zero selects the model's native size.
	Dimensions int

	// RequestsPerSecond throttles network providers. Zero disables it.
	RequestsPerSecond float64
}

// IsConfigured reports whether a service can be built from e.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// ChunkingSettings is the [chunking] table. ChunkSize counts characters (runes).
type ChunkingSettings struct {
	Strategy  ChunkingStrategy
	ChunkSize int
}

// RetrievalSettings is the [retrieval] table.
type RetrievalSettings struct {
	TopK int
}

// StoreSettings is the [store] table. Path is only read by sqlite.
type StoreSettings struct {
	Backend StoreBackend
	Path    string
}

// AppSettings mirrors config.toml.
type AppSettings struct {
	Embedding EmbeddingSettings
	Chunking  ChunkingSettings
	Retrieval RetrievalSettings
	Store     StoreSettings
}

const (
	DefaultChunkSize           = 500
	DefaultHashingDimensions   = 256
	DefaultRequestsPerSecond   = 10.0
	DefaultEmbeddingProvider   = AIProviderHashing
	DefaultStoreBackend        = StoreBackendSQLite
	DefaultChunkingStrategy    = ChunkingFixed
	DefaultStoreFileName       = "vectors.db"
	DefaultOllamaBaseURL       = "http://localhost:11434"
	DefaultOpenAIEmbeddingsURL = "https://api.openai.com/v1"
)

// DefaultAppSettings returns settings that work offline with no configuration.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Embedding: EmbeddingSettings{
			Provider:          DefaultEmbeddingProvider,
			Dimensions:        DefaultHashingDimensions,
			RequestsPerSecond: DefaultRequestsPerSecond,
		},
		Chunking: ChunkingSettings{
			Strategy:  DefaultChunkingStrategy,
			ChunkSize: DefaultChunkSize,
		},
		Retrieval: RetrievalSettings{
			TopK: DefaultTopK,
		},
		Store: StoreSettings{
			Backend: DefaultStoreBackend,
		},
	}
}

// AllEmbeddingProviders lists providers in the order settings prompts offer them.
func AllEmbeddingProviders() []AIProvider {
	return []AIProvider{
		AIProviderHashing,
		AIProviderOllama,
		AIProviderOpenAI,
	}
}

// DefaultEmbeddingModels maps network providers to the model used when none is set.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama: "nomic-embed-text",
		AIProviderOpenAI: "text-embedding-3-small",
	}
}

// EmbeddingDimensions is the native vector size of well-known models.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		"nomic-embed-text":       768,
		"mxbai-embed-large":      1024,
		"all-minilm":             384,
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
	}
}

// PipelineConfig names the chunking stages to run, in order, with each
// stage's options keyed by stage name.
type PipelineConfig struct {
	Processors       []string
	ProcessorConfigs map[string]map[string]any
}

// GetProcessorConfig returns the options for name, or nil.
func (c *PipelineConfig) GetProcessorConfig(name string) map[string]any {
	if c.ProcessorConfigs == nil {
		return nil
	}
	return c.ProcessorConfigs[name]
}

// PipelineConfigFor builds the pipeline configuration for chunking settings.
func PipelineConfigFor(c ChunkingSettings) PipelineConfig {
	name := c.Strategy.ProcessorName()
	size := c.ChunkSize
	if size <= 0 {
		size = DefaultChunkSize
	}
	return PipelineConfig{
		Processors: []string{name},
		ProcessorConfigs: map[string]map[string]any{
			name: {"chunk_size": size},
		},
	}
}

// DefaultPipelineConfig returns the fixed-size chunker at the default size.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfigFor(DefaultAppSettings().Chunking)
}
