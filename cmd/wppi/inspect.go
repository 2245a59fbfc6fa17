package main

import (
	"fmt"
	"math"

	"github.com/spf13/cobra"

	"github.com/bioc/wppi/pkg/matrixio"
)

func newInspectCmd() *cobra.Command {
	var rows bool

	cmd := &cobra.Command{
		Use:   "inspect <snapshot>",
		Short: "Print the dimensions and row sums of a matrix snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := matrixio.Open(args[0])
			if err != nil {
				return err
			}
			defer snap.Close()

			sums, err := snap.RowSums()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			r, c := snap.Dims()
			fmt.Fprintf(out, "snapshot:  %s\n", snap.Path())
			fmt.Fprintf(out, "dims:      %d x %d\n", r, c)

			lo, hi, total := math.Inf(1), math.Inf(-1), 0.0
			for _, s := range sums {
				lo = math.Min(lo, s)
				hi = math.Max(hi, s)
				total += s
			}
			if len(sums) > 0 {
				fmt.Fprintf(out, "row sums:  min %.6g  max %.6g  mean %.6g\n", lo, hi, total/float64(len(sums)))
			}

			if rows {
				ids := snap.NodeIDs()
				for i, s := range sums {
					fmt.Fprintf(out, "%s\t%.9g\n", ids[i], s)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&rows, "rows", false, "also print every row sum")
	return cmd
}
