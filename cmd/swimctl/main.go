// swimctl is the operations companion to the API server: it runs CSV
// imports and standard-sheet seeding straight against the database,
// which is handy for large backfills and for CI fixtures.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "swimctl",
		Short:         "Administrative CLI for the swim cut times service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(newImportCmd())
	rootCmd.AddCommand(newStandardsCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
