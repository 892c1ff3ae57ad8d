package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KartikeyShuklaDev/HireSense-AI/internal/core/domain"
)

var (
	contextRandom   bool
	contextQuestion string
	contextJSON     bool
)

var contextCmd = &cobra.Command{
	Use:   "context [topic]",
	Short: "Assemble textbook context for an interview question",
	Long: `Prints the passages used to ground an interview question.

With a topic, the closest passages are retrieved; without one the default
topic "data structures" is used. --random samples passages instead.
--question retrieves the context used to evaluate an answer to a question.`,
	Example: `  hiresense context "hash tables"
  hiresense context --random
  hiresense context --question "How does a min-heap insert work?"`,
	Args: cobra.MaximumNArgs(1),
	RunE: runContext,
}

func init() {
	contextCmd.Flags().BoolVar(&contextRandom, "random", false, "sample random passages instead of searching")
	contextCmd.Flags().StringVar(&contextQuestion, "question", "", "retrieve answer-evaluation context for this question")
	contextCmd.Flags().BoolVar(&contextJSON, "json", false, "output the context as JSON")
	contextCmd.MarkFlagsMutuallyExclusive("random", "question")
	rootCmd.AddCommand(contextCmd)
}

func runContext(cmd *cobra.Command, args []string) error {
	if contextQuestion != "" && len(args) > 0 {
		return fmt.Errorf("a topic cannot be combined with --question: %w", domain.ErrInvalidInput)
	}

	svc, err := connect(cmd, false)
	if err != nil {
		return err
	}
	if err := needService("interview", svc.Interview); err != nil {
		return err
	}

	var ic *domain.InterviewContext
	if contextQuestion != "" {
		ic, err = svc.Interview.AnswerContext(cmd.Context(), contextQuestion)
	} else {
		topic := ""
		if len(args) > 0 {
			topic = args[0]
		}
		ic, err = svc.Interview.QuestionContext(cmd.Context(), topic, contextRandom)
	}
	if err != nil {
		return fmt.Errorf("context failed: %w", err)
	}

	if contextJSON {
		return printJSON(cmd, ic)
	}

	if ic.Topic != "" {
		cmd.Printf("Topic:   %s\n", ic.Topic)
	}
	cmd.Printf("Sources: %s\n", strings.Join(ic.Sources, ", "))
	cmd.Printf("Chunks:  %d\n\n", len(ic.Chunks))
	cmd.Println(ic.Text)
	return nil
}
