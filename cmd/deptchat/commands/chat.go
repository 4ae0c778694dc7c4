// ABOUTME: CLI command launching the login-gated chat TUI
// ABOUTME: Constructs the index, retriever, and generator once and injects them
package commands

import (
	"fmt"
	"log"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"deptchat/internal/auth"
	"deptchat/internal/chat"
	"deptchat/internal/config"
	"deptchat/internal/llm"
	"deptchat/internal/rag"
	"deptchat/internal/storage/sqlite"
	"deptchat/internal/tui"
)

// NewChatCmd creates the chat command
func NewChatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Sign in and chat with the department assistant",
		Long: `Open the chat interface. Requires a registered account and an
OPENAI_API_KEY. If the index has not been built yet, questions will
report that the index is unavailable until 'deptchat index' is run.`,
		RunE: runChat,
	}

	return cmd
}

func runChat(cmd *cobra.Command, args []string) error {
	// Load .env for API keys
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
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

	// Load the persisted index snapshot once; every session shares it
	// read-only. A nil index surfaces as a per-question error.
	builder := rag.NewBuilder(client, sqlite.NewIndexStore(db), cfg.VectorDimension)
	index, err := builder.Load()
	if err != nil {
		return err
	}
	if index == nil && !quiet {
		log.Println("no index found; run 'deptchat index' to enable grounded answers")
	}

	authSvc := auth.NewService(sqlite.NewUserStore(db), sqlite.NewSessionStore(db), cfg.SessionTTL)
	_ = authSvc.Sweep()

	retriever := rag.NewRetriever(client)
	generator := chat.NewGenerator(client)
	messages := sqlite.NewMessageStore(db)
	template := rag.DefaultTemplate()

	factory := func(username string) (*chat.Session, error) {
		return chat.NewSession(username, index, retriever, generator, messages, template, cfg.TopK)
	}

	program := tea.NewProgram(tui.New(authSvc, factory), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("running chat UI: %w", err)
	}
	return nil
}
