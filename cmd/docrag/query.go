package main

import (
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
)

var queryTopK int

var queryCmd = &cobra.Command{
	Use:   "query <text>",
	Short: "Show raw retrieval results for a query",
	Long: `Retrieve the stored chunks most similar to the query and print them
ranked, without any generation step. Useful for inspecting what context the
chat and summarize commands would be grounded in.

Examples:
  docrag query "error budgets"
  docrag query "error budgets" --top-k 5`,
	Args: cobra.MinimumNArgs(1),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().IntVar(&queryTopK, "top-k", 0, "number of chunks to retrieve (default from config)")
}

func runQuery(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	query := strings.Join(args, " ")

	a, err := newApp(configPath)
	if err != nil {
		return err
	}
	defer a.close()

	k := queryTopK
	if k <= 0 {
		k = a.cfg.Retrieval.TopK
	}

	chunks, err := a.retriever.Retrieve(ctx, query, k)
	if err != nil {
		return fmt.Errorf("retrieval failed: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(chunks) == 0 {
		fmt.Fprintln(out, dimStyle.Render("No matching chunks found."))
		return nil
	}

	for i, chunk := range chunks {
		fmt.Fprintln(out, promptStyle.Render(fmt.Sprintf("[%d]", i+1)))
		fmt.Fprintln(out, chunk)
	}
	return nil
}
