package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Ingest documents into the vector store",
	Long: `Load all documents from the configured directory, skip the ones already
present in the vector store, then chunk, embed and store the rest.

Examples:
  # Ingest with the default config.yaml
  docrag ingest

  # Ingest with an alternate config
  docrag ingest --config prod.yaml`,
	RunE: runIngest,
}

func runIngest(cmd *cobra.Command, _ []string) error {
	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	a, err := newApp(configPath)
	if err != nil {
		return err
	}
	defer a.close()

	orchestrator, err := a.newOrchestrator()
	if err != nil {
		return err
	}

	spin := startSpinner(cmd.OutOrStdout(), "Ingesting documents...")
	count, err := orchestrator.Ingest(ctx)
	spin.Stop()
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	if count == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), dimStyle.Render("No new documents to ingest."))
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), answerStyle.Render(fmt.Sprintf("Ingested %d new chunk(s).", count)))
	return nil
}
