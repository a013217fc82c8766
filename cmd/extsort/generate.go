package main

import (
	"github.com/spf13/cobra"

	"github.com/dutov-ivan/extsort/internal/genfile"
)

func init() {
	var opts genfile.Options
	var out string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a synthetic KEY-PAYLOAD input file",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.MinKey = -opts.MaxKey
			if err := genfile.Generate(out, opts); err != nil {
				return err
			}
			cmd.Printf("wrote %d lines to %s\n", opts.Lines, out)
			return nil
		},
	}

	cmd.Flags().StringVar(&out, "out", "input.txt", "output path")
	cmd.Flags().IntVar(&opts.Lines, "lines", 1_000_000, "number of lines to generate")
	cmd.Flags().Int64Var(&opts.MaxKey, "key-max", 1_000_000_000, "keys are drawn uniformly from [-key-max, key-max]")
	cmd.Flags().Int64Var(&opts.Seed, "seed", 1, "random seed, for reproducible files")
	cmd.Flags().IntVar(&opts.PayloadSize, "payload-size", 16, "payload length in bytes")

	rootCmd.AddCommand(cmd)
}
