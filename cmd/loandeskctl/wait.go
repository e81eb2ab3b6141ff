package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var waitCmd = &cobra.Command{
	Use:   "wait",
	Short: "Block until the loandesk server reports healthy",
	Long: `Block until GET /health on the loandesk server answers 200, which
means the server is listening and its store is reachable.

Examples:
  loandeskctl wait
  loandeskctl wait --port 3000 --timeout 2m
  loandeskctl wait --url http://loandesk:8000`,
	Run: func(cmd *cobra.Command, args []string) {
		base, _ := cmd.Flags().GetString("url")
		if base == "" {
			port, _ := cmd.Flags().GetInt("port")
			base = fmt.Sprintf("http://localhost:%d", port)
		}
		timeout, _ := cmd.Flags().GetDuration("timeout")
		interval, _ := cmd.Flags().GetDuration("interval")

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		fmt.Fprintf(cmd.OutOrStdout(), "Waiting for %s ", base)
		if err := waitHealthy(ctx, http.DefaultClient, base, interval, cmd.OutOrStdout()); err != nil {
			fmt.Fprintln(os.Stderr, "\nServer did not become healthy:", err)
			os.Exit(1)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "\nloandesk is healthy")
	},
}

func init() {
	rootCmd.AddCommand(waitCmd)
	waitCmd.Flags().IntP("port", "p", defaultPortInt(), "server port on localhost")
	waitCmd.Flags().String("url", "", "server base URL, overrides --port")
	waitCmd.Flags().Duration("timeout", 90*time.Second, "give up after this long")
	waitCmd.Flags().Duration("interval", time.Second, "delay between attempts")
}

// waitHealthy polls base+"/health" until it answers 200 or ctx ends. A dot
// is written to progress after every failed attempt.
func waitHealthy(ctx context.Context, client *http.Client, base string, interval time.Duration, progress io.Writer) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var last error
	for {
		last = checkHealth(ctx, client, base+"/health")
		if last == nil {
			return nil
		}
		fmt.Fprint(progress, ".")

		select {
		case <-ctx.Done():
			return fmt.Errorf("%w (last attempt: %v)", ctx.Err(), last)
		case <-ticker.C:
		}
	}
}

func checkHealth(ctx context.Context, client *http.Client, url string) error {
	attemptCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health returned %s", resp.Status)
	}
	return nil
}
