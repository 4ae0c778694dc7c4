// ABOUTME: CLI command to register a new chat user
// ABOUTME: Collects profile fields and a password, stored as a bcrypt hash
package commands

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"deptchat/internal/auth"
	"deptchat/internal/config"
	"deptchat/internal/models"
	"deptchat/internal/storage/sqlite"
)

var (
	registerName  string
	registerEmail string
	registerPhone string
)

// NewRegisterCmd creates the register command
func NewRegisterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "register <username>",
		Short: "Register a new user account",
		Long: `Register a new user account for the chat assistant.

Profile fields not given as flags are prompted for interactively; the
password is always read without echo.

Examples:
  deptchat register alice --name "Alice Moore" --email alice@example.edu
  deptchat register bob`,
		Args: cobra.ExactArgs(1),
		RunE: runRegister,
	}

	cmd.Flags().StringVar(&registerName, "name", "", "Full name")
	cmd.Flags().StringVar(&registerEmail, "email", "", "Email address")
	cmd.Flags().StringVar(&registerPhone, "phone", "", "Phone number (optional)")

	return cmd
}

func runRegister(cmd *cobra.Command, args []string) error {
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

	reader := bufio.NewReader(cmd.InOrStdin())

	profile := &models.Profile{
		Username: args[0],
		Name:     registerName,
		Email:    registerEmail,
		Phone:    registerPhone,
	}

	if profile.Name == "" {
		profile.Name, err = promptLine(reader, "Full name: ")
		if err != nil {
			return err
		}
	}
	if profile.Email == "" {
		profile.Email, err = promptLine(reader, "Email: ")
		if err != nil {
			return err
		}
	}

	fmt.Fprint(cmd.OutOrStdout(), "Password: ")
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(cmd.OutOrStdout())
	if err != nil {
		return fmt.Errorf("reading password: %w", err)
	}

	svc := auth.NewService(sqlite.NewUserStore(db), sqlite.NewSessionStore(db), cfg.SessionTTL)
	if err := svc.Register(profile, string(password)); err != nil {
		return fmt.Errorf("registering user: %w", err)
	}

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "Registered %s. Run 'deptchat chat' to sign in.\n", profile.Username)
	}
	return nil
}

func promptLine(reader *bufio.Reader, prompt string) (string, error) {
	fmt.Fprint(os.Stdout, prompt)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("reading input: %w", err)
	}
	return strings.TrimSpace(line), nil
}
