// Package cli holds the command line entry points.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "campus-events",
	Short: "Campus event manager API",
	Long: `Campus event manager API. Usage:

	campus-events serve
	campus-events seed
	campus-events promote admin@college.edu
`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
