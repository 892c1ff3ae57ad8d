package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/KartikeyShuklaDev/HireSense-AI/internal/core/domain"
)

var (
	embeddingProvider string
	embeddingModel    string
	embeddingAPIKey   string
	embeddingNoCheck  bool
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change configuration",
	Long: `View the configuration stored in ~/.hiresense/config.toml (or --config-dir)
and configure the embedding provider.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runConfigShow,
}

var configEmbeddingCmd = &cobra.Command{
	Use:   "embedding",
	Short: "Configure the embedding provider",
	Long: `Configure the embedding provider used to build and query the index.

Without --provider the command asks interactively. Changing the provider or
model requires rebuilding the index with 'hiresense build'.`,
	Example: `  hiresense config embedding --provider hashing
  hiresense config embedding --provider openai --model text-embedding-3-small
  hiresense config embedding --provider ollama --model nomic-embed-text`,
	RunE: runConfigEmbedding,
}

func init() {
	configEmbeddingCmd.Flags().StringVar(&embeddingProvider, "provider", "", "embedding provider (hashing, ollama, openai)")
	configEmbeddingCmd.Flags().StringVar(&embeddingModel, "model", "", "embedding model (default depends on provider)")
	configEmbeddingCmd.Flags().StringVar(&embeddingAPIKey, "api-key", "", "API key for remote providers")
	configEmbeddingCmd.Flags().BoolVar(&embeddingNoCheck, "skip-validation", false, "do not contact the provider")
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configEmbeddingCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	svc, err := connect(cmd, true)
	if err != nil {
		return err
	}
	if err := needService("settings", svc.Settings); err != nil {
		return err
	}

	settings, err := svc.Settings.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Paths]")
	cmd.Printf("  Books: %s\n", settings.Paths.BooksDir)
	cmd.Printf("  Data:  %s\n", settings.Paths.DataDir)
	cmd.Println()

	cmd.Println("[Chunking]")
	cmd.Printf("  Size:    %d\n", settings.Chunking.Size)
	cmd.Printf("  Overlap: %d\n", settings.Chunking.Overlap)
	cmd.Println()

	e := settings.Embedding
	cmd.Println("[Embedding]")
	cmd.Printf("  Provider: %s\n", e.Provider.Description())
	cmd.Printf("  Model: %s\n", e.Model)
	if e.Provider.IsLocal() && e.BaseURL != "" {
		cmd.Printf("  Base URL: %s\n", e.BaseURL)
	}
	if e.Provider.RequiresAPIKey() {
		if e.APIKey != "" {
			cmd.Printf("  API Key: %s\n", maskAPIKey(e.APIKey))
		} else {
			cmd.Printf("  API Key: (not set)\n")
		}
	}
	if len(e.Fallback) > 0 {
		names := make([]string, len(e.Fallback))
		for i, p := range e.Fallback {
			names[i] = p.String()
		}
		cmd.Printf("  Fallback: %s\n", strings.Join(names, ", "))
	}
	cmd.Printf("  Batch size: %d\n", e.BatchSize)
	cmd.Printf("  Rate limit: %g/s (burst %d)\n", e.RequestsPerSecond, e.Burst)
	cmd.Println()

	cmd.Println("[Retrieval]")
	cmd.Printf("  Top K:       %d\n", settings.Retrieval.TopK)
	cmd.Printf("  Sample size: %d\n", settings.Retrieval.SampleSize)
	cmd.Println()

	if err := svc.Settings.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
		cmd.Println("Run 'hiresense config embedding' to fix configuration issues.")
	} else {
		cmd.Println("Configuration is valid.")
	}
	return nil
}

func runConfigEmbedding(cmd *cobra.Command, _ []string) error {
	svc, err := connect(cmd, true)
	if err != nil {
		return err
	}
	if err := needService("settings", svc.Settings); err != nil {
		return err
	}

	selected := domain.AIProvider(embeddingProvider)
	model, apiKey := embeddingModel, embeddingAPIKey
	if embeddingProvider == "" {
		selected, model, apiKey = promptEmbedding(cmd, bufio.NewReader(cmd.InOrStdin()))
	} else if !selected.IsValid() {
		return fmt.Errorf("unknown provider %q: %w", embeddingProvider, domain.ErrInvalidInput)
	}

	if err := svc.Settings.SetEmbeddingProvider(selected, model, apiKey); err != nil {
		return fmt.Errorf("failed to configure embedding provider: %w", err)
	}

	if !embeddingNoCheck {
		cmd.Print("Validating configuration... ")
		if err := svc.Settings.ValidateEmbeddingConfig(); err != nil {
			cmd.Printf("FAILED: %v\n", err)
			return fmt.Errorf("embedding configuration validation failed: %w", err)
		}
		cmd.Println("OK")
	}

	settings, err := svc.Settings.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	cmd.Printf("Embedding provider configured: %s (%s)\n",
		settings.Embedding.Provider.Description(), settings.Embedding.Model)
	cmd.Println("Run 'hiresense build' to rebuild the index with the new provider.")
	return nil
}

func promptEmbedding(cmd *cobra.Command, reader *bufio.Reader) (provider domain.AIProvider, model, apiKey string) {
	cmd.Println("Select Embedding Provider")
	providers := domain.AllEmbeddingProviders()
	for i, p := range providers {
		cmd.Printf("  %d. %s\n", i+1, p.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	idx := parseChoice(readLine(reader), len(providers), 1)
	provider = providers[idx-1]

	defaultModel := domain.DefaultEmbeddingModels()[provider]
	cmd.Printf("Enter model name [%s]: ", defaultModel)
	model = readLine(reader)
	if model == "" {
		model = defaultModel
	}

	if provider.RequiresAPIKey() {
		cmd.Print("Enter API key (empty to use OPENAI_API_KEY): ")
		apiKey = readPassword(cmd.InOrStdin(), reader)
		cmd.Println()
	}
	return provider, model, apiKey
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

// readPassword reads without echo when in is a terminal, otherwise a line
// from reader.
func readPassword(in io.Reader, reader *bufio.Reader) string {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		password, err := term.ReadPassword(int(f.Fd()))
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
