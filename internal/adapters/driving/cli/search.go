package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	searchLimit int
	searchJSON  bool
	sampleCount int
	sampleJSON  bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the index for passages similar to a query",
	Long: `Embeds the query and ranks indexed passages by cosine similarity.
Each result carries its source file and position within it.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Show random passages from the index",
	Long:  `Draws distinct passages uniformly at random, for open-ended interview questions.`,
	Args:  cobra.NoArgs,
	RunE:  runSample,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 0, "maximum number of results (0 = configured default)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	sampleCmd.Flags().IntVarP(&sampleCount, "count", "n", 0, "number of passages (0 = configured default)")
	sampleCmd.Flags().BoolVar(&sampleJSON, "json", false, "output passages as JSON")
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(sampleCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	svc, err := connect(cmd, false)
	if err != nil {
		return err
	}
	if err := needService("retrieval", svc.Retrieval); err != nil {
		return err
	}

	result, err := svc.Retrieval.Search(cmd.Context(), args[0], searchLimit)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return printJSON(cmd, newRetrievalOutput(result))
	}
	if result.Len() == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	printChunks(cmd, result)
	return nil
}

func runSample(cmd *cobra.Command, _ []string) error {
	svc, err := connect(cmd, false)
	if err != nil {
		return err
	}
	if err := needService("retrieval", svc.Retrieval); err != nil {
		return err
	}

	result, err := svc.Retrieval.SampleRandom(cmd.Context(), sampleCount)
	if err != nil {
		return fmt.Errorf("sample failed: %w", err)
	}

	if sampleJSON {
		return printJSON(cmd, newRetrievalOutput(result))
	}
	if result.Len() == 0 {
		cmd.Println("The index is empty.")
		return nil
	}

	cmd.Println("Random passages:")
	cmd.Println()
	printChunks(cmd, result)
	return nil
}
