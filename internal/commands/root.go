package commands

import (
	"github.com/spf13/cobra"

	"github.com/magic-gear/calcifer"
	"github.com/magic-gear/calcifer/internal/logging"
	"github.com/magic-gear/calcifer/output"
)

// RootCmd creates and returns the root command for the calcifer CLI
func RootCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "calcifer",
		Short: "Scaffold React applications from composable features",
		Long: `Calcifer creates React projects with a webpack setup and the
features you pick:
• TypeScript, routing, a UI library and CSS tooling
• ESLint with Prettier, Jest and Cypress
• Config in dedicated files or inline in package.json

Defaults are read from ~/.calcifer.yml and CALCIFER_* environment variables.`,
		Version:       calcifer.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			output.SetVerbose(verbose)
			logging.Setup(verbose)
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output for debugging")
	cmd.PersistentFlags().String("config", "", "Config file (default ~/.calcifer.yml)")

	return cmd
}
