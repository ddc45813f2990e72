package main

import (
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/docrag/internal/generate"
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize <topic>",
	Short: "Summarize a topic from the ingested corpus",
	Long: `Retrieve the chunks most relevant to the topic and produce a concise
summary grounded in them.

Examples:
  docrag summarize "deployment process"
  docrag summarize incident postmortems --config prod.yaml`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSummarize,
}

func runSummarize(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	topic := strings.Join(args, " ")

	a, err := newApp(configPath)
	if err != nil {
		return err
	}
	defer a.close()

	model, err := a.newChatModel()
	if err != nil {
		return err
	}
	gen := generate.NewSummaryGenerator(model, a.logger)

	out := cmd.OutOrStdout()
	spin := startSpinner(out, "Summarizing...")

	chunks, err := a.retriever.Retrieve(ctx, topic, a.cfg.Retrieval.TopK)
	if err != nil {
		spin.Stop()
		return fmt.Errorf("retrieving context: %w", err)
	}

	summary, err := gen.Generate(ctx, topic, chunks)
	spin.Stop()
	if err != nil {
		return fmt.Errorf("summarization failed: %w", err)
	}

	fmt.Fprintln(out, titleStyle.Render("Summary"))
	fmt.Fprintln(out, answerStyle.Render(summary))
	return nil
}
