package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var (
	evaluateReference string
	evaluateJSON      bool
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate [query]",
	Short: "Score retrieval for a query against a reference answer",
	Long: `Retrieves passages for the query, extracts concepts from them and from
the reference answer, and reports precision, recall and F1 of the concept
overlap. Hard negatives (close but unretrieved passages) count towards the
retrieved concepts.`,
	Args: cobra.ExactArgs(1),
	RunE: runEvaluate,
}

func init() {
	evaluateCmd.Flags().StringVarP(&evaluateReference, "reference", "r", "", "reference answer text")
	evaluateCmd.Flags().BoolVar(&evaluateJSON, "json", false, "output the evaluation as JSON")
	_ = evaluateCmd.MarkFlagRequired("reference")
	rootCmd.AddCommand(evaluateCmd)
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	svc, err := connect(cmd, false)
	if err != nil {
		return err
	}
	if err := needService("evaluation", svc.Evaluation); err != nil {
		return err
	}

	ev, err := svc.Evaluation.Evaluate(cmd.Context(), args[0], evaluateReference)
	if err != nil {
		return fmt.Errorf("evaluation failed: %w", err)
	}

	if evaluateJSON {
		return printJSON(cmd, ev)
	}

	cmd.Printf("Query: %s\n\n", ev.Query)
	cmd.Printf("  Precision: %.3f\n", ev.Metrics.Precision)
	cmd.Printf("  Recall:    %.3f\n", ev.Metrics.Recall)
	cmd.Printf("  F1:        %.3f\n\n", ev.Metrics.F1)
	cmd.Printf("Positives: %d, hard negatives: %d\n", len(ev.Positives), len(ev.HardNegatives))
	cmd.Printf("Reference concepts: %s\n", strings.Join(ev.ReferenceConcepts, ", "))
	cmd.Printf("Retrieved concepts: %s\n", strings.Join(ev.RetrievedConcepts, ", "))
	return nil
}
