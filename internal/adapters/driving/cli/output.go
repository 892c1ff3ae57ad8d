package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KartikeyShuklaDev/HireSense-AI/internal/core/domain"
)

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

// retrievalOutput is the --json form of a search or sample. It matches
// the MCP tool output so scripts see the same sources field.
type retrievalOutput struct {
	*domain.Retrieval
	Sources []string `json:"sources"`
	Count   int      `json:"count"`
}

func newRetrievalOutput(r *domain.Retrieval) retrievalOutput {
	if r.Chunks == nil {
		r.Chunks = []domain.RankedChunk{}
	}
	return retrievalOutput{Retrieval: r, Sources: r.Sources(), Count: r.Len()}
}

// printChunks lists passages with their provenance, followed by the
// distinct sources.
func printChunks(cmd *cobra.Command, r *domain.Retrieval) {
	for i, c := range r.Chunks {
		if r.Mode == domain.RetrievalModeSearch {
			cmd.Printf("  [%d] %s #%d (%.3f)\n", i+1, c.Source, c.Position, c.Similarity)
		} else {
			cmd.Printf("  [%d] %s #%d\n", i+1, c.Source, c.Position)
		}
		cmd.Printf("      %s\n\n", c.Text)
	}
	cmd.Printf("Sources: %s\n", strings.Join(r.Sources(), ", "))
}
