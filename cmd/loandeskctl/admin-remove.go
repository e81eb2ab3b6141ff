package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/loandesk/loandesk/pkg/audit"
)

// adminRemoveCmd represents the admin remove command
var adminRemoveCmd = &cobra.Command{
	Use:   "remove [id]",
	Short: "Remove an admin",
	Long: `Remove an account holding the admin role.

Example:
  loandeskctl admin remove 6f1c2a4e-0b7d-4d3e-9a51-2f7a0c9e8b11`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := removeAdmin(cmd.Context(), args[0]); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to remove admin: %v\n", err)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Removed admin '%s'\n", args[0])
	},
}

func init() {
	adminCmd.AddCommand(adminRemoveCmd)
}

func removeAdmin(ctx context.Context, id string) error {
	r, err := openRoster()
	if err != nil {
		return err
	}

	if _, err := r.Remove(ctx, operator(), id); err != nil {
		return err
	}

	audit.Log(audit.AdminEvent{
		UserID:    operatorID,
		Operation: "remove",
		AdminID:   id,
		Success:   true,
	})
	return nil
}
