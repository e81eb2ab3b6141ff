package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/loandesk/loandesk/pkg/audit"
	"github.com/loandesk/loandesk/pkg/roster"
)

// adminAddCmd represents the admin add command
var adminAddCmd = &cobra.Command{
	Use:   "add [name] [email]",
	Short: "Add an admin",
	Long: `Add an account with the admin role.

The password is read from --password or, when omitted, from the
LOANDESK_ADMIN_PASSWORD environment variable.

Example:
  loandeskctl admin add Ada ada@example.com
  loandeskctl admin add --name "Ada Lovelace" --email ada@example.com`,
	Args: cobra.MaximumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		name, _ := cmd.Flags().GetString("name")
		email, _ := cmd.Flags().GetString("email")
		if len(args) > 0 {
			name = args[0]
		}
		if len(args) > 1 {
			email = args[1]
		}
		password, _ := cmd.Flags().GetString("password")
		if password == "" {
			password = os.Getenv("LOANDESK_ADMIN_PASSWORD")
		}

		id, err := addAdmin(cmd.Context(), roster.NewAdmin{Name: name, Email: email, Password: password})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to add admin: %v\n", err)
			os.Exit(1)
		}

		fmt.Fprintf(os.Stderr, "Added admin '%s'\n", email)
		fmt.Println(id)
	},
}

func init() {
	adminCmd.AddCommand(adminAddCmd)
	adminAddCmd.Flags().StringP("name", "n", "", "Admin display name")
	adminAddCmd.Flags().StringP("email", "e", "", "Admin email")
	adminAddCmd.Flags().String("password", "", "Admin password (default: $LOANDESK_ADMIN_PASSWORD)")
}

func addAdmin(ctx context.Context, in roster.NewAdmin) (string, error) {
	r, err := openRoster()
	if err != nil {
		return "", err
	}

	admin, err := r.Add(ctx, operator(), in)
	if err != nil {
		return "", err
	}

	audit.Log(audit.AdminEvent{
		UserID:     operatorID,
		Operation:  "add",
		AdminID:    admin.ID,
		AdminEmail: admin.Email,
		Success:    true,
	})
	return admin.ID, nil
}
