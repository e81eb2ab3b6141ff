package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// adminListCmd represents the admin list command
var adminListCmd = &cobra.Command{
	Use:   "list",
	Short: "List admins",
	Long: `List every account holding the admin role.

Example:
  loandeskctl admin list
  loandeskctl admin list --output json`,
	Run: func(cmd *cobra.Command, args []string) {
		output, _ := cmd.Flags().GetString("output")

		if err := listAdmins(cmd.Context(), output); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to list admins: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	adminCmd.AddCommand(adminListCmd)
	adminListCmd.Flags().StringP("output", "o", "text", "Output format (text or json)")
}

func listAdmins(ctx context.Context, output string) error {
	r, err := openRoster()
	if err != nil {
		return err
	}

	admins, err := r.List(ctx, operator())
	if err != nil {
		return err
	}

	if output == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(admins)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tEMAIL\tCREATED")
	for _, a := range admins {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", a.ID, a.Name, a.Email, a.CreatedAt.Format("2006-01-02"))
	}
	return w.Flush()
}
