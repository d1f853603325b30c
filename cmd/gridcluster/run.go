package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

func newRunCmd() *cobra.Command {
	var (
		flags  clusterFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Cluster points and write them annotated with cluster ids",
		Long: `Cluster points and write them annotated with cluster ids.

The input and output formats follow the file extension: .csv or .json,
optionally compressed as .zst or .lz4. Standard input and output use CSV.

Examples:
  gridcluster run -i points.csv -x 0.5 -y 10 -o clusters.csv
  gridcluster run -c gridcluster.yaml -i points.json.zst -o clusters.json.lz4
  cat points.csv | gridcluster run -x 1 -y 1 --metrics-file run.prom`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd, &flags)
			if err != nil {
				return err
			}

			res, err := s.clusterer.Partition(cmd.Context())
			if err != nil {
				return err
			}

			out, format, err := createOutput(output, cmd.OutOrStdout())
			if err != nil {
				return fmt.Errorf("create output: %w", err)
			}
			if err := errors.Join(WritePoints(out, format, res.Points), out.Close()); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}

			accepted := 0
			for _, r := range res.Regions {
				if r.Accepted {
					accepted++
				}
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "points=%d regions=%d split=%d clusters=%d\n",
				len(res.Points), len(res.Regions), accepted, len(res.Clusters))

			return s.flushMetrics()
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", stdio, "Output file (.csv or .json, optionally .zst or .lz4); - writes stdout")
	return cmd
}
