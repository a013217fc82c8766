package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dutov-ivan/extsort/internal/lineio"
	"github.com/dutov-ivan/extsort/internal/order"
	"github.com/dutov-ivan/extsort/internal/record"
)

func init() {
	var descending bool

	cmd := &cobra.Command{
		Use:   "verify FILE",
		Short: "Check a file is sorted by key, reporting the first offending pair",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ord := order.Ascending
			if descending {
				ord = order.Descending
			}
			return verifyFile(cmd, args[0], ord)
		},
	}
	cmd.Flags().BoolVar(&descending, "descending", false, "expect descending order instead of ascending")

	rootCmd.AddCommand(cmd)
}

func verifyFile(cmd *cobra.Command, path string, ord order.Order) error {
	reader, err := lineio.NewBufReader(path, 0)
	if err != nil {
		return err
	}
	defer reader.Close()

	lastKey := ord.Sentinel()
	lineNo := 0
	for {
		line, ok, err := reader.NextLine()
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		lineNo++
		if len(line) == 0 {
			continue
		}
		key, err := record.KeyOf(line)
		if err != nil {
			return err
		}
		if lineNo > 1 && !ord.Continues(lastKey, key) {
			return fmt.Errorf("line %d breaks order: key %d follows key %d", lineNo, key, lastKey)
		}
		lastKey = key
	}
	cmd.Printf("%s is sorted (%d lines)\n", path, lineNo)
	return nil
}
