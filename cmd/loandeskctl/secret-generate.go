package main

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const secretBytes = 32

// secretGenerateCmd represents the secret > generate command
var secretGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a token signing secret",
	Long: `
Generate a token signing secret

Use this command to generate a new Base64-encoded 256 bit secret. Once
generated, this secret should be placed into the environment of the loandesk
server. It signs every session token, so rotating it logs every user out.

Example:

$ export JWT_SECRET="$(loandeskctl secret generate)"
`,
	Run: func(cmd *cobra.Command, args []string) {
		secret, err := generateSecret()
		if err != nil {
			fmt.Fprintln(os.Stderr, "Failed to generate secret:", err)
			os.Exit(1)
		}
		fmt.Print(secret)
	},
}

func init() {
	secretCmd.AddCommand(secretGenerateCmd)
}

func generateSecret() (string, error) {
	b := make([]byte, secretBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.StdEncoding.Strict().EncodeToString(b), nil
}
