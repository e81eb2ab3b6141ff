package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "loandeskctl",
	Short: "Run and administer the loandesk server",
	Long: `loandeskctl runs the loandesk loan application server and provides
commands to manage its database, configuration and admin roster.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func main() {
	Execute()
}
