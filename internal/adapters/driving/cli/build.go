package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/KartikeyShuklaDev/HireSense-AI/internal/core/domain"
)

var buildJSON bool

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the retrieval index from the books directory",
	Long: `Loads every supported file in the books directory (PDF, text, Markdown),
splits it into overlapping chunks, embeds the chunks with the configured
provider and replaces the index artifacts in the data directory.

Files that cannot be read, normalised or embedded are skipped and listed
in the report. The previous index is kept when nothing could be indexed.`,
	Args: cobra.NoArgs,
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().BoolVar(&buildJSON, "json", false, "output the build report as JSON")
	rootCmd.AddCommand(buildCmd)
}

type skippedOutput struct {
	Source string `json:"source"`
	Stage  string `json:"stage"`
	Reason string `json:"reason"`
}

type buildOutput struct {
	Manifest   domain.IndexManifest `json:"manifest"`
	Documents  int                  `json:"documents"`
	Chunks     int                  `json:"chunks"`
	Skipped    []skippedOutput      `json:"skipped"`
	DurationMS int64                `json:"duration_ms"`
}

func runBuild(cmd *cobra.Command, _ []string) error {
	if !buildJSON && term.IsTerminal(int(os.Stderr.Fd())) {
		printed := false
		progressSink = func(p domain.BuildProgress) {
			printed = true
			fmt.Fprintf(cmd.ErrOrStderr(), "\rEmbedding %d/%d chunks", p.Done, p.Total)
		}
		defer func() {
			progressSink = nil
			if printed {
				fmt.Fprintln(cmd.ErrOrStderr())
			}
		}()
	}

	svc, err := connect(cmd, false)
	if err != nil {
		return err
	}
	if err := needService("index", svc.Index); err != nil {
		return err
	}

	report, err := svc.Index.Build(cmd.Context())
	if err != nil {
		return fmt.Errorf("build failed: %w", err)
	}

	if buildJSON {
		return printJSON(cmd, toBuildOutput(report))
	}

	m := report.Manifest
	cmd.Printf("Indexed %d chunks from %d documents in %s\n",
		report.Chunks, report.Documents, report.Duration.Round(time.Millisecond))
	cmd.Printf("  Generation: %s\n", m.Generation)
	cmd.Printf("  Model:      %s (%d dimensions)\n", m.Model, m.Dimensions)
	cmd.Printf("  Chunking:   %d characters, %d overlap\n", m.ChunkSize, m.Overlap)

	if len(report.Skipped) > 0 {
		cmd.Printf("\nSkipped %d items:\n", len(report.Skipped))
		for _, s := range report.Skipped {
			cmd.Printf("  %s [%s]: %s\n", s.Source, s.Stage, s.Reason)
		}
	}
	return nil
}

func toBuildOutput(r *domain.BuildReport) buildOutput {
	out := buildOutput{
		Manifest:   r.Manifest,
		Documents:  r.Documents,
		Chunks:     r.Chunks,
		Skipped:    make([]skippedOutput, 0, len(r.Skipped)),
		DurationMS: r.Duration.Milliseconds(),
	}
	for _, s := range r.Skipped {
		out.Skipped = append(out.Skipped, skippedOutput{Source: s.Source, Stage: string(s.Stage), Reason: s.Reason})
	}
	return out
}
