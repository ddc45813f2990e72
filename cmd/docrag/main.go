// Docrag is a retrieval-augmented generation pipeline over a local document
// directory.
//
// Documents are chunked, embedded via OpenAI and stored in a local vector
// database. Retrieval feeds a chat-completion model for grounded question
// answering and topic summaries.
//
// Usage:
//
//	# Ingest documents from the configured directory
//	docrag ingest
//
//	# Interactive question answering over the ingested corpus
//	docrag chat
//
//	# Summarize a topic from the corpus
//	docrag summarize "release process"
//
//	# Inspect raw retrieval results
//	docrag query "error budgets" --top-k 5
//
// Configuration is loaded from config.yaml and DOCRAG_* environment
// variables. The OpenAI credential comes from OPENAI_API_KEY only.
package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// version information (set via ldflags during build)
var version = "dev"

// configPath is the config file location, shared by all subcommands.
var configPath string

func main() {
	// Missing .env is fine, the environment may already be populated.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "docrag",
	Short: "Retrieval-augmented generation over local documents",
	Long: `docrag ingests a directory of txt, pdf and docx documents into a local
vector database and answers questions grounded in the retrieved content.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.yaml", "path to configuration file")
	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(summarizeCmd)
	rootCmd.AddCommand(queryCmd)
}
