// Package cli provides the cobra command tree for hiresense. It is a driving
// adapter: commands call core services through driving ports supplied by a
// Bootstrap function registered from main.
package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/KartikeyShuklaDev/HireSense-AI/internal/core/domain"
	"github.com/KartikeyShuklaDev/HireSense-AI/internal/core/ports/driving"
	"github.com/KartikeyShuklaDev/HireSense-AI/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Services are the core services the commands drive.
type Services struct {
	Settings   driving.SettingsService
	Index      driving.IndexService
	Retrieval  driving.RetrievalService
	Interview  driving.InterviewService
	Evaluation driving.EvaluationService

	// SourceCounts reports stored chunks per source; optional.
	SourceCounts func(ctx context.Context) (map[string]int, error)

	// DataDir is the artifact directory and ArtifactFiles the file names
	// inside it that a rebuild replaces.
	DataDir       string
	ArtifactFiles []string

	// Close releases adapter resources; optional.
	Close func() error
}

// Options are passed to Bootstrap.
type Options struct {
	// ConfigDir overrides the configuration directory.
	ConfigDir string

	// Progress receives index build progress.
	Progress func(domain.BuildProgress)

	// SettingsOnly skips the embedding provider and index services.
	SettingsOnly bool
}

// Bootstrap builds the services for a command invocation.
type Bootstrap func(ctx context.Context, opts Options) (*Services, error)

// ErrNotConfigured is returned when a command runs without services.
var ErrNotConfigured = errors.New("services not configured")

var (
	bootstrap    Bootstrap
	services     *Services
	progressSink func(domain.BuildProgress)

	verbose   bool
	configDir string
)

var rootCmd = &cobra.Command{
	Use:   "hiresense",
	Short: "Textbook retrieval for mock interviews",
	Long: `hiresense indexes a directory of textbooks and retrieves passages by
semantic similarity or at random. The passages ground interview questions
and the evaluation of answers.

Build the index once with 'hiresense build', then search it from the CLI,
the terminal UI or over MCP.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log build and retrieval stages")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "configuration directory (default ~/.hiresense)")
}

// SetBootstrap registers the function that wires services.
func SetBootstrap(b Bootstrap) {
	bootstrap = b
}

// SetVersion sets the version reported by 'hiresense version'.
func SetVersion(v string) {
	version = v
}

// Execute runs the root command until it finishes or the process is
// interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer closeServices()

	return rootCmd.ExecuteContext(ctx)
}

// connect returns the services for this invocation, bootstrapping them on
// first use.
func connect(cmd *cobra.Command, settingsOnly bool) (*Services, error) {
	if services != nil {
		return services, nil
	}
	if bootstrap == nil {
		return nil, ErrNotConfigured
	}
	s, err := bootstrap(cmd.Context(), Options{
		ConfigDir:    configDir,
		Progress:     reportProgress,
		SettingsOnly: settingsOnly,
	})
	if err != nil {
		return nil, err
	}
	services = s
	return s, nil
}

func closeServices() {
	if services == nil || services.Close == nil {
		return
	}
	if err := services.Close(); err != nil {
		logger.Warn("closing services: %v", err)
	}
	services = nil
}

func reportProgress(p domain.BuildProgress) {
	if progressSink != nil {
		progressSink(p)
	}
}

// needService returns an error naming the missing service when svc is nil.
func needService(name string, svc any) error {
	if svc == nil {
		return errors.New(name + " service not configured")
	}
	return nil
}
