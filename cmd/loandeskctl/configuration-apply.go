package main

import (
	"fmt"
	"os"
	"os/exec"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/loandesk/loandesk/pkg/config"
	"github.com/loandesk/loandesk/pkg/db"
)

// configurationApplyCmd represents the configuration apply command
var configurationApplyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Signal the loandesk server to reload its configuration",
	Long: `Validate the current state of the configuration file and then signal the
running loandesk server to reload it.

Note that this will NOT incorporate changes to environment variables because
Linux process environments are static once a process has started.

Use --test to validate configuration without signaling the server.

Example:
  loandeskctl configuration apply
  loandeskctl configuration apply --test`,
	Run: func(cmd *cobra.Command, args []string) {
		testMode, _ := cmd.Flags().GetBool("test")

		if err := applyConfiguration(testMode); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to apply configuration: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	configurationCmd.AddCommand(configurationApplyCmd)
	configurationApplyCmd.Flags().Bool("test", false, "Validate configuration without reloading")
}

func applyConfiguration(testMode bool) error {
	fmt.Println("Validating configuration...")

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	fmt.Printf("Config file: %s\n", cfg.ConfigFilePath())

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	if db.URL() == "" {
		return fmt.Errorf("DATABASE_URL is not set")
	}

	fmt.Println("Configuration is valid.")

	if testMode {
		fmt.Println("Test mode: not signaling server.")
		return nil
	}

	fmt.Println("Sending reload signal to server...")

	pgrep := exec.Command("pgrep", "-f", "loandeskctl server")
	output, err := pgrep.Output()
	if err != nil {
		return fmt.Errorf("no running loandeskctl server found")
	}

	var pid int
	if _, err := fmt.Sscanf(string(output), "%d", &pid); err != nil {
		return fmt.Errorf("failed to parse PID: %w", err)
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		return fmt.Errorf("failed to find process: %w", err)
	}
	if err := process.Signal(syscall.SIGHUP); err != nil {
		return fmt.Errorf("failed to send signal: %w", err)
	}

	fmt.Printf("Sent reload signal to process %d\n", pid)
	return nil
}
