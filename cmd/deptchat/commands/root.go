// ABOUTME: Root CLI command with global flags
// ABOUTME: Wires up all subcommands for the deptchat CLI
package commands

import (
	"github.com/spf13/cobra"
)

var (
	verbose      bool
	quiet        bool
	outputFormat string
)

const banner = `
██████╗ ███████╗██████╗ ████████╗ ██████╗██╗  ██╗ █████╗ ████████╗
██╔══██╗██╔════╝██╔══██╗╚══██╔══╝██╔════╝██║  ██║██╔══██╗╚══██╔══╝
██║  ██║█████╗  ██████╔╝   ██║   ██║     ███████║███████║   ██║
██║  ██║██╔══╝  ██╔═══╝    ██║   ██║     ██╔══██║██╔══██║   ██║
██████╔╝███████╗██║        ██║   ╚██████╗██║  ██║██║  ██║   ██║
╚═════╝ ╚══════╝╚═╝        ╚═╝    ╚═════╝╚═╝  ╚═╝╚═╝  ╚═╝   ╚═╝
`

// NewRootCmd creates the root command with all subcommands
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deptchat",
		Short: "Login-gated chat assistant for the department",
		Long: banner + `
deptchat answers questions about the department using retrieval-augmented
generation: the reference document is chunked, embedded, and indexed once;
each question retrieves the closest chunks and grounds the answer on them.

Register an account, build the index, then chat:

  deptchat register
  deptchat index --document department.txt
  deptchat chat`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-essential output")
	cmd.PersistentFlags().StringVar(&outputFormat, "format", "auto", "Output format (auto, json, table)")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	cmd.AddCommand(NewRegisterCmd())
	cmd.AddCommand(NewIndexCmd())
	cmd.AddCommand(NewChatCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}
