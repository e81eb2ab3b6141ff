package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/loandesk/loandesk/pkg/authz"
	"github.com/loandesk/loandesk/pkg/identity"
	"github.com/loandesk/loandesk/pkg/model"
	"github.com/loandesk/loandesk/pkg/roster"
)

// operatorID identifies changes made from the command line in the audit log.
const operatorID = "loandeskctl"

// adminCmd represents the admin command
var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Manage the admin roster",
	Long: `Manage the admin roster directly against the database.

These commands act with super-admin authority and require DATABASE_URL.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("error: Command 'admin' requires a subcommand (list, add, remove)")
		fmt.Println()
		_ = cmd.Help()
		os.Exit(1)
	},
}

func init() {
	rootCmd.AddCommand(adminCmd)
}

func openRoster() (*roster.Roster, error) {
	stores, err := openStores(storePostgres)
	if err != nil {
		return nil, err
	}
	return roster.New(stores.Identities, authz.MustNew(), bcryptCost), nil
}

func operator() *identity.Identity {
	return &identity.Identity{SubjectID: operatorID, Role: model.RoleSuperAdmin}
}
