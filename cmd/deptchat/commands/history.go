// ABOUTME: CLI command to show or clear a user's persisted chat history
// ABOUTME: Supports table and JSON output like the other commands
package commands

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"deptchat/internal/config"
	"deptchat/internal/storage/sqlite"
)

var historyClear bool

// NewHistoryCmd creates the history command
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history <username>",
		Short: "Show or clear a user's chat history",
		Long: `Show the persisted conversation for a user, oldest first.

Examples:
  deptchat history alice
  deptchat history --format json alice
  deptchat history --clear alice`,
		Args: cobra.ExactArgs(1),
		RunE: runHistory,
	}

	cmd.Flags().BoolVar(&historyClear, "clear", false, "Delete the user's chat history")

	return cmd
}

func runHistory(cmd *cobra.Command, args []string) error {
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

	username := args[0]
	store := sqlite.NewMessageStore(db)

	if historyClear {
		if err := store.Clear(username); err != nil {
			return fmt.Errorf("clearing history: %w", err)
		}
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared history for %s\n", username)
		}
		return nil
	}

	turns, err := store.Messages(username)
	if err != nil {
		return fmt.Errorf("loading history: %w", err)
	}

	if len(turns) == 0 {
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "No messages for %s\n", username)
		}
		return nil
	}

	if outputFormat == "json" {
		jsonData, err := json.MarshalIndent(turns, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", jsonData)
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "WHEN\tROLE\tMESSAGE\n")
	fmt.Fprintf(w, "----\t----\t-------\n")
	for _, turn := range turns {
		fmt.Fprintf(w, "%s\t%s\t%s\n", formatTime(turn.Timestamp), turn.Role, truncate(turn.Content, 60))
	}
	return w.Flush()
}
