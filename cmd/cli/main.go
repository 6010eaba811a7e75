package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

type options struct {
	baseURL string
	token   string
	timeout time.Duration
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "feefines-cli",
		Short:         "Fee/fine engine CLI tool",
		Long:          `A command line interface for charging, paying, waiving, transferring, cancelling and refunding fees/fines.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.baseURL, "url", envOr("FEEFINES_URL", "http://localhost:8080"), "Base URL of the fee/fine API")
	rootCmd.PersistentFlags().StringVar(&opts.token, "token", os.Getenv("FEEFINES_TOKEN"), "Bearer token for the API")
	rootCmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 10*time.Second, "Request timeout")

	rootCmd.AddCommand(
		migrateCmd(),
		tokenCmd(),
		accountCmd(opts),
		reconcileCmd(opts),
		bulkCmd(opts),
		checkCmd(opts),
	)
	for _, action := range []string{"pay", "waive", "transfer", "cancel", "refund"} {
		rootCmd.AddCommand(actionCmd(opts, action))
	}

	return rootCmd
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
