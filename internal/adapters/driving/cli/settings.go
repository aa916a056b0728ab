package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/docrag/internal/core/domain"
	"github.com/custodia-labs/docrag/internal/postprocessors"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure the embedding provider, chunking, retrieval and store options.

Settings are stored in config.toml under the docrag home directory.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a single setting",
	Long: `Persist one setting by dotted key.

Examples:
  docrag settings set retrieval.top_k 5
  docrag settings set chunking.strategy sentence
  docrag settings set store.path /data/docrag/vectors.db`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List setting keys",
	RunE:  runSettingsKeys,
}

var settingsEmbeddingCmd = &cobra.Command{
	Use:   "embedding",
	Short: "Configure embedding provider",
	Long:  `Interactively choose the embedding provider, model and API key, then ping the provider.`,
	RunE:  runSettingsEmbedding,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsKeysCmd)
	settingsCmd.AddCommand(settingsEmbeddingCmd)
	rootCmd.AddCommand(settingsCmd)
}

type settingsView struct {
	Embedding struct {
		Provider          string  `json:"provider" yaml:"provider"`
		Model             string  `json:"model,omitempty" yaml:"model,omitempty"`
		BaseURL           string  `json:"base_url,omitempty" yaml:"base_url,omitempty"`
		APIKey            string  `json:"api_key,omitempty" yaml:"api_key,omitempty"`
		Dimensions        int     `json:"dimensions,omitempty" yaml:"dimensions,omitempty"`
		RequestsPerSecond float64 `json:"requests_per_second" yaml:"requests_per_second"`
	} `json:"embedding" yaml:"embedding"`
	Chunking struct {
		Strategy  string `json:"strategy" yaml:"strategy"`
		ChunkSize int    `json:"chunk_size" yaml:"chunk_size"`
	} `json:"chunking" yaml:"chunking"`
	Retrieval struct {
		TopK int `json:"top_k" yaml:"top_k"`
	} `json:"retrieval" yaml:"retrieval"`
	Store struct {
		Backend string `json:"backend" yaml:"backend"`
		Path    string `json:"path,omitempty" yaml:"path,omitempty"`
	} `json:"store" yaml:"store"`
	Valid bool   `json:"valid" yaml:"valid"`
	Issue string `json:"issue,omitempty" yaml:"issue,omitempty"`
}

func newSettingsView(s *domain.AppSettings) settingsView {
	var v settingsView
	v.Embedding.Provider = string(s.Embedding.Provider)
	v.Embedding.Model = s.Embedding.Model
	v.Embedding.BaseURL = s.Embedding.BaseURL
	if s.Embedding.APIKey != "" {
		v.Embedding.APIKey = maskAPIKey(s.Embedding.APIKey)
	}
	v.Embedding.Dimensions = s.Embedding.Dimensions
	v.Embedding.RequestsPerSecond = s.Embedding.RequestsPerSecond
	v.Chunking.Strategy = string(s.Chunking.Strategy)
	v.Chunking.ChunkSize = s.Chunking.ChunkSize
	v.Retrieval.TopK = s.Retrieval.TopK
	v.Store.Backend = string(s.Store.Backend)
	v.Store.Path = s.Store.Path
	return v
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if err := requireSettings(); err != nil {
		return err
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	view := newSettingsView(settings)
	validationErr := settingsService.Validate()
	view.Valid = validationErr == nil
	if validationErr != nil {
		view.Issue = validationErr.Error()
	}

	return render(cmd, view, func(w io.Writer) {
		writeSettings(w, settings, validationErr)
	})
}

// settingsSection collects "label: value" lines under a [Name] header.
type settingsSection struct {
	name  string
	lines []string
}

func (s *settingsSection) add(label, format string, args ...any) {
	s.lines = append(s.lines, fmt.Sprintf("  %s: "+format, append([]any{label}, args...)...))
}

func writeSettings(w io.Writer, settings *domain.AppSettings, validationErr error) {
	emb := settings.Embedding

	embedding := settingsSection{name: "Embedding"}
	embedding.add("Provider", "%s", emb.Provider.Description())
	if emb.Model != "" {
		embedding.add("Model", "%s", emb.Model)
	}
	if emb.Provider.IsLocal() && emb.BaseURL != "" {
		embedding.add("Base URL", "%s", emb.BaseURL)
	}
	if emb.Provider.RequiresAPIKey() {
		key := "(not set)"
		if emb.APIKey != "" {
			key = maskAPIKey(emb.APIKey)
		}
		embedding.add("API Key", "%s", key)
	}
	if emb.Dimensions > 0 {
		embedding.add("Dimensions", "%d", emb.Dimensions)
	}
	embedding.add("Requests/sec", "%g", emb.RequestsPerSecond)
	if emb.IsConfigured() {
		embedding.add("Status", "configured")
	} else {
		embedding.add("Status", "not configured")
	}

	chunking := settingsSection{name: "Chunking"}
	chunking.add("Strategy", "%s%s", settings.Chunking.Strategy, processorNote(settings.Chunking.Strategy))
	chunking.add("Chunk size", "%d characters", settings.Chunking.ChunkSize)

	retrieval := settingsSection{name: "Retrieval"}
	retrieval.add("Top K", "%d", settings.Retrieval.TopK)

	store := settingsSection{name: "Store"}
	store.add("Backend", "%s", settings.Store.Backend.Description())
	if settings.Store.Path != "" {
		store.add("Path", "%s", settings.Store.Path)
	}

	fmt.Fprint(w, "Current Settings\n================\n\n")
	for _, sec := range []settingsSection{embedding, chunking, retrieval, store} {
		fmt.Fprintf(w, "[%s]\n%s\n\n", sec.name, strings.Join(sec.lines, "\n"))
	}

	if validationErr != nil {
		fmt.Fprintf(w, "Warning: %v\n", validationErr)
		fmt.Fprintln(w, "Run 'docrag settings embedding' or 'docrag settings set' to fix configuration issues.")
		return
	}
	fmt.Fprintln(w, "Configuration is valid.")
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if err := requireSettings(); err != nil {
		return err
	}

	key, value := args[0], args[1]
	if err := settingsService.Set(key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}

	shown := value
	if strings.HasSuffix(key, "api_key") {
		shown = maskAPIKey(value)
	}
	cmd.Printf("Set %s = %s\n", key, shown)
	return nil
}

func runSettingsKeys(cmd *cobra.Command, _ []string) error {
	if err := requireSettings(); err != nil {
		return err
	}

	keys := settingsService.Keys()
	return render(cmd, keys, func(w io.Writer) {
		for _, k := range keys {
			fmt.Fprintln(w, k)
		}
	})
}

func runSettingsEmbedding(cmd *cobra.Command, _ []string) error {
	if err := requireSettings(); err != nil {
		return err
	}

	reader := bufio.NewReader(cmd.InOrStdin())
	return configureEmbeddingProvider(cmd, reader)
}

func configureEmbeddingProvider(cmd *cobra.Command, reader *bufio.Reader) error {
	cmd.Println("Select Embedding Provider")
	providers := domain.AllEmbeddingProviders()
	for i, p := range providers {
		cmd.Printf("  %d. %s\n", i+1, p.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	input := readLine(reader)
	idx := parseChoice(input, len(providers), 1)
	selectedProvider := providers[idx-1]

	// The hashing embedder has no model to choose.
	var model string
	if selectedProvider != domain.AIProviderHashing {
		defaultModel := domain.DefaultEmbeddingModels()[selectedProvider]
		cmd.Printf("Enter model name [%s]: ", defaultModel)
		model = readLine(reader)
		if model == "" {
			model = defaultModel
		}
	}

	var apiKey string
	if selectedProvider.RequiresAPIKey() {
		cmd.Print("Enter API key: ")
		apiKey = readPassword(reader)
		cmd.Println()
		if apiKey == "" {
			return errors.New("API key is required for this provider")
		}
	}

	if err := settingsService.SetEmbeddingProvider(selectedProvider, model, apiKey); err != nil {
		return fmt.Errorf("failed to configure embedding provider: %w", err)
	}

	cmd.Print("Validating configuration... ")
	if err := settingsService.ValidateEmbeddingConfig(cmd.Context()); err != nil {
		cmd.Printf("FAILED: %v\n", err)
		return fmt.Errorf("embedding configuration validation failed: %w", err)
	}
	cmd.Println("OK")

	if model != "" {
		cmd.Printf("Embedding provider configured: %s (%s)\n", selectedProvider.Description(), model)
	} else {
		cmd.Printf("Embedding provider configured: %s\n", selectedProvider.Description())
	}
	cmd.Println("Vectors from different models cannot share a store. Re-index after switching.")
	return nil
}

// Helper functions.

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

// readPassword reads without echo on a terminal, otherwise from reader.
func readPassword(reader *bufio.Reader) string {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return strings.TrimSpace(string(password))
		}
	}
	return readLine(reader)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

// processorNote describes the processor behind a chunking strategy.
func processorNote(strategy domain.ChunkingStrategy) string {
	name := strategy.ProcessorName()
	for _, info := range postprocessors.Defaults().List() {
		if info.Name == name {
			return " (" + info.Description + ")"
		}
	}
	return ""
}
