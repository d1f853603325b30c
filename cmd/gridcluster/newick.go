package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hupe1980/gridcluster/model"
)

func newNewickCmd() *cobra.Command {
	var (
		flags     clusterFlags
		region    uint64
		distances bool
	)

	cmd := &cobra.Command{
		Use:   "newick",
		Short: "Print the merge tree of every region in Newick format",
		Long: `Print the merge tree of every region in Newick format.

Each line holds the canonical id of a region, a tab and its tree.

Examples:
  gridcluster newick -i points.csv -x 1 -y 1
  gridcluster newick -i points.csv -x 1 -y 1 --region 17 --distances=false`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd, &flags)
			if err != nil {
				return err
			}

			var canonicals []model.PointID
			if cmd.Flags().Changed("region") {
				canonicals = []model.PointID{model.PointID(region)}
			} else {
				regions, err := s.clusterer.Regions()
				if err != nil {
					return err
				}
				for _, r := range regions {
					canonicals = append(canonicals, r.Canonical)
				}
			}

			for _, id := range canonicals {
				tree, err := s.clusterer.Newick(id, distances)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\n", id, tree)
			}
			return s.flushMetrics()
		},
	}

	flags.register(cmd)
	cmd.Flags().Uint64VarP(&region, "region", "r", 0, "Only print the region with this canonical id")
	cmd.Flags().BoolVar(&distances, "distances", true, "Annotate branches with merge distances")
	return cmd
}
