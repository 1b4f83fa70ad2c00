// Package commands provides the healthchat CLI.
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/diogo/healthchat/internal/tui"
)

var (
	// Global flags
	modelFlag    string
	themeFlag    string
	logLevelFlag string
	envFileFlag  string

	// Version info (set at build time)
	Version   = "0.1.0"
	BuildTime = "unknown"
)

// NewRootCmd builds the command tree over deps
func NewRootCmd(deps *Dependencies) *cobra.Command {
	root := &cobra.Command{
		Use:   "healthchat",
		Short: "Terminal health assistant chat backed by Gemini",
		Long: `healthchat is a first-contact health assistant for the terminal.
Questions are answered in Burmese by a Gemini model; replies stream in as
they are generated.

The API key is read from API_KEY (or GEMINI_API_KEY), optionally loaded
from a .env file.

Examples:
  healthchat                          Start the interactive chat
  healthchat ask "I have a headache"  Ask a single question
  healthchat ask -f symptoms.txt      Read the question from a file
  echo "fever for 3 days" | healthchat ask
  healthchat config set tui_theme clinic`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if v, _ := cmd.Flags().GetBool("version"); v {
				fmt.Fprintf(deps.Stdout, "healthchat %s (built %s)\n", Version, BuildTime)
				return nil
			}
			return runChat(cmd.Context(), deps)
		},
	}

	root.PersistentFlags().StringVarP(&modelFlag, "model", "m", "", "Model to use (e.g., gemini-2.5-flash)")
	root.PersistentFlags().StringVar(&themeFlag, "theme", "", "TUI theme (tokyonight, dracula, clinic)")
	root.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Log level (trace, debug, info, warn, error, disabled)")
	root.PersistentFlags().StringVar(&envFileFlag, "env-file", "", "Path to a .env file holding API_KEY")
	root.Flags().BoolP("version", "v", false, "Show version and exit")

	root.AddCommand(newChatCmd(deps))
	root.AddCommand(newAskCmd(deps))
	root.AddCommand(newConfigCmd(deps))

	return root
}

// rootCmd is the production command tree
var rootCmd = NewRootCmd(NewDependencies())

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, formatErrorMessage(err, "healthchat"))
		os.Exit(1)
	}
}

// formatErrorMessage prefixes the styled error with context
func formatErrorMessage(err error, context string) string {
	if err == nil {
		return ""
	}
	return context + ": " + tui.FormatError(err)
}
