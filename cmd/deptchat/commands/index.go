// ABOUTME: CLI command to build or rebuild the document index
// ABOUTME: Rebuild is always a full replacement of the persisted index
package commands

import (
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"deptchat/internal/config"
	"deptchat/internal/llm"
	"deptchat/internal/models"
	"deptchat/internal/rag"
	"deptchat/internal/storage/sqlite"
)

var indexDocument string

// NewIndexCmd creates the index command
func NewIndexCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index",
		Short: "Build the retrieval index from the reference document",
		Long: `Chunk the reference document, embed every chunk via the OpenAI
embeddings API, and persist the index. Running it again fully replaces
the previous index; there are no incremental updates.

Examples:
  deptchat index
  deptchat index --document handbook.txt`,
		RunE: runIndex,
	}

	cmd.Flags().StringVar(&indexDocument, "document", "", "Reference document path (defaults to DEPTCHAT_DOCUMENT)")

	return cmd
}

func runIndex(cmd *cobra.Command, args []string) error {
	// Load .env for API keys
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if indexDocument != "" {
		cfg.DocumentPath = indexDocument
	}

	doc, err := models.LoadDocument(cfg.DocumentPath)
	if err != nil {
		return err
	}

	db, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() { _ = db.Close() }()

	client, err := llm.NewClientWithConfig(&llm.ClientConfig{
		APIKey:         cfg.OpenAIKey,
		ChatModel:      cfg.ChatModel,
		EmbeddingModel: cfg.EmbeddingModel,
		Timeout:        cfg.Timeout,
		MaxRetries:     cfg.MaxRetries,
		RetryDelay:     cfg.RetryDelay,
	})
	if err != nil {
		return err
	}

	builder := rag.NewBuilder(client, sqlite.NewIndexStore(db), cfg.VectorDimension)

	if verbose {
		log.Printf("indexing %s (chunk size %d, overlap %d)", cfg.DocumentPath, cfg.ChunkSize, cfg.ChunkOverlap)
	}

	index, err := builder.Build(cmd.Context(), doc, cfg.ChunkSize, cfg.ChunkOverlap)
	if err != nil {
		return fmt.Errorf("building index: %w", err)
	}

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "Indexed %d chunks from %s (generation %d)\n",
			index.Len(), cfg.DocumentPath, index.Generation())
	}
	return nil
}
