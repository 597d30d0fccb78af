package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "lrtab",
	Short: "Build canonical LR parsing tables and drive them over test input",
	Long: `lrtab provides two features:
- Builds a canonical LR(0) or LR(1) parsing table from a grammar file and
  describes its states, actions, and any conflicts.
- Parses a file of test input lines against a grammar, reporting a
  per-line pass/fail count.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return err
	}
	return nil
}
