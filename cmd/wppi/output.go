package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bioc/wppi/pkg/prioritize"
	"github.com/bioc/wppi/pkg/tabular"
)

// collectSeeds merges --seeds and --seeds-file.
func collectSeeds(flagSeeds []string, file string) ([]string, error) {
	var seeds []string
	for _, s := range flagSeeds {
		seeds = append(seeds, tabular.SplitSeeds(s)...)
	}
	if file != "" {
		fromFile, err := tabular.ReadSeedsFile(file)
		if err != nil {
			return nil, err
		}
		seeds = append(seeds, fromFile...)
	}
	return seeds, nil
}

// writeTable writes t to path, or to the command's stdout when path is empty.
func writeTable(cmd *cobra.Command, path string, t *prioritize.Table, format string) error {
	if path == "" {
		return prioritize.Write(cmd.OutOrStdout(), t, format)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output: %w", err)
	}
	err = prioritize.Write(f, t, format)
	if cerr := f.Close(); cerr != nil {
		err = errors.Join(err, fmt.Errorf("failed to close output: %w", cerr))
	}
	return err
}
