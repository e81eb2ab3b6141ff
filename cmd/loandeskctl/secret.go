package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// secretCmd represents the secret command
var secretCmd = &cobra.Command{
	Use:   "secret",
	Short: "Manage the token signing secret",
	Long:  `Manage the token signing secret`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("error: Command 'secret' requires a subcommand generate")
		fmt.Println()
		_ = cmd.Help()
		os.Exit(1)
	},
}

func init() {
	rootCmd.AddCommand(secretCmd)
}
