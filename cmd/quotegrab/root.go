// Package main provides the entry point for the quotegrab CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for quotegrab.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quotegrab",
		Short: "Collect quotes from paginated quote sites",
		Long: `quotegrab collects quotes from paginated quote sites.

It follows each seed URL's next-page chain one page at a time, extracts
quote text, author, and tags with configurable CSS selectors, validates
and deduplicates the records, and exports the result as JSON, CSV, and
a Markdown report.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewCrawlCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
