// Package cli provides the cobra command tree for docrag.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/custodia-labs/docrag/internal/core/ports/driving"
	"github.com/custodia-labs/docrag/internal/logger"
)

// annotationNoServices marks commands that run without the service graph.
const annotationNoServices = "docrag/no-services"

// EnvHome overrides the configuration directory.
const EnvHome = "DOCRAG_HOME"

// Options are the global flag values the composition root needs.
type Options struct {
	// Home is the configuration directory. Empty selects the default.
	Home string

	// Ephemeral keeps settings and documents in memory only.
	Ephemeral bool
}

// Services is the set of driving ports the commands use.
type Services struct {
	Retrieval driving.RetrievalService
	Document  driving.DocumentService
	Settings  driving.SettingsService

	// Supports reports whether a file can be ingested. Used by watch.
	Supports func(path string) bool

	// Extensions lists the file extensions that can be ingested.
	Extensions []string

	// Err records why Retrieval and Document could not be built.
	// Settings stays usable so the configuration can be repaired.
	Err error

	// Close releases stores. May be nil.
	Close func() error
}

// ServiceFactory builds services once global flags are parsed.
type ServiceFactory func(ctx context.Context, opts Options) (*Services, error)

var (
	version = "dev"

	retrievalService driving.RetrievalService
	documentService  driving.DocumentService
	settingsService  driving.SettingsService
	supportsFile     func(path string) bool
	extensions       []string

	servicesErr   error
	closeServices func() error

	serviceFactory ServiceFactory
	// fromFactory is set when the installed services belong to one run.
	fromFactory bool
)

var (
	verboseFlag   bool
	ephemeralFlag bool
	homeFlag      string
	outputFlag    string
)

var rootCmd = &cobra.Command{
	Use:   "docrag",
	Short: "Ask questions against your own documents",
	Long: `docrag indexes local documents into a vector store and retrieves the
passages most relevant to a natural-language question.

Embeddings are computed locally by default, so indexing and search work
offline. Configure Ollama or OpenAI with 'docrag settings embedding'.`,
	SilenceUsage:      true,
	PersistentPreRunE: setupServices,
	PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
		return teardownServices()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "print pipeline details to stderr")
	rootCmd.PersistentFlags().BoolVar(&ephemeralFlag, "ephemeral", false, "keep settings and documents in memory only")
	rootCmd.PersistentFlags().StringVar(&homeFlag, "home", "", "configuration directory (default ~/.docrag, env "+EnvHome+")")
	rootCmd.PersistentFlags().StringVarP(&outputFlag, "output", "o", string(outputText), "output format: text, json or yaml")
}

// ExecuteArgs runs one invocation of the command tree. Flags start from their
// defaults and services built by the factory are released afterwards, even
// when the command fails, so consecutive calls behave like separate processes.
func ExecuteArgs(ctx context.Context, args []string, out, errOut io.Writer) error {
	resetFlags(rootCmd)
	rootCmd.SetArgs(args)
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.ExecuteContext(ctx)
	if cerr := teardownServices(); err == nil {
		err = cerr
	}
	return err
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if f.Changed {
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		}
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// SetVersion sets the version reported by 'docrag version'.
func SetVersion(v string) {
	version = v
}

// SetServiceFactory registers the composition root.
func SetServiceFactory(f ServiceFactory) {
	serviceFactory = f
}

// SetServices installs services directly, bypassing the factory.
func SetServices(s *Services) {
	if s == nil {
		retrievalService, documentService, settingsService = nil, nil, nil
		supportsFile, extensions = nil, nil
		servicesErr, closeServices = nil, nil
		return
	}
	retrievalService = s.Retrieval
	documentService = s.Document
	settingsService = s.Settings
	supportsFile = s.Supports
	extensions = s.Extensions
	servicesErr = s.Err
	closeServices = s.Close
}

func setupServices(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verboseFlag)

	if _, err := parseOutputFormat(outputFlag); err != nil {
		return err
	}
	if cmd.Annotations[annotationNoServices] == "true" {
		return nil
	}
	if serviceFactory == nil || settingsService != nil {
		return nil
	}

	loadDotEnv()

	opts := Options{Home: homeFlag, Ephemeral: ephemeralFlag}
	if opts.Home == "" {
		opts.Home = os.Getenv(EnvHome)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	services, err := serviceFactory(ctx, opts)
	if err != nil {
		return fmt.Errorf("initialising services: %w", err)
	}
	SetServices(services)
	fromFactory = true
	if services.Err != nil {
		logger.Warn("Retrieval unavailable: %v", services.Err)
	}
	return nil
}

func teardownServices() error {
	closer := closeServices
	closeServices = nil
	if fromFactory {
		SetServices(nil)
		fromFactory = false
	}
	if closer == nil {
		return nil
	}
	return closer()
}

// loadDotEnv loads .env from the working directory. A missing file is fine.
func loadDotEnv() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Warn("Loading .env: %v", err)
	}
}

func requireRetrieval() error {
	if retrievalService != nil {
		return nil
	}
	if servicesErr != nil {
		return fmt.Errorf("retrieval service not configured: %w", servicesErr)
	}
	return errors.New("retrieval service not configured")
}

func requireDocuments() error {
	if documentService != nil {
		return nil
	}
	if servicesErr != nil {
		return fmt.Errorf("document service not configured: %w", servicesErr)
	}
	return errors.New("document service not configured")
}

func requireSettings() error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	return nil
}
