// Command extsort is the CLI entry point for the external-sort engine
// (A6 in SPEC_FULL.md): sort, generate, and verify subcommands over
// spf13/cobra.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dutov-ivan/extsort/internal/xerrors"
)

var rootCmd = &cobra.Command{
	Use:   "extsort",
	Short: "External merge sort over line-oriented KEY-PAYLOAD files",
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(xerrors.ExitCode(err))
	}
}
