package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/KartikeyShuklaDev/HireSense-AI/internal/core/domain"
)

var infoJSON bool

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Describe the built index",
	Long:  `Prints the manifest of the index artifacts and the number of chunks per source.`,
	Args:  cobra.NoArgs,
	RunE:  runInfo,
}

func init() {
	infoCmd.Flags().BoolVar(&infoJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(infoCmd)
}

type infoOutput struct {
	Manifest *domain.IndexManifest `json:"manifest"`
	Sources  map[string]int        `json:"sources,omitempty"`
}

func runInfo(cmd *cobra.Command, _ []string) error {
	svc, err := connect(cmd, false)
	if err != nil {
		return err
	}
	if err := needService("retrieval", svc.Retrieval); err != nil {
		return err
	}

	m, err := svc.Retrieval.Info(cmd.Context())
	if err != nil {
		return fmt.Errorf("reading index: %w", err)
	}

	var counts map[string]int
	if svc.SourceCounts != nil {
		if counts, err = svc.SourceCounts(cmd.Context()); err != nil {
			return fmt.Errorf("reading chunk sources: %w", err)
		}
	}

	if infoJSON {
		return printJSON(cmd, infoOutput{Manifest: m, Sources: counts})
	}

	cmd.Println("Index")
	cmd.Println("=====")
	cmd.Printf("  Generation: %s\n", m.Generation)
	cmd.Printf("  Model:      %s\n", m.Model)
	cmd.Printf("  Dimensions: %d\n", m.Dimensions)
	cmd.Printf("  Chunks:     %d\n", m.Count)
	cmd.Printf("  Chunking:   %d characters, %d overlap\n", m.ChunkSize, m.Overlap)
	cmd.Printf("  Built:      %s\n", m.CreatedAt.Local().Format("2006-01-02 15:04:05"))
	if svc.DataDir != "" {
		cmd.Printf("  Location:   %s\n", svc.DataDir)
	}

	if len(counts) > 0 {
		sources := make([]string, 0, len(counts))
		for s := range counts {
			sources = append(sources, s)
		}
		sort.Strings(sources)

		cmd.Println()
		cmd.Println("Sources")
		cmd.Println("=======")
		for _, s := range sources {
			cmd.Printf("  %-40s %d\n", s, counts[s])
		}
	}
	return nil
}
