package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "gridcluster",
		Short: "Grid-accelerated hierarchical clustering of 2D points",
		Long: `gridcluster groups 2D observations by greedy centroid agglomeration on a
spatial grid and splits every resulting region at its best silhouette cut.`,
		SilenceUsage: true,
	}

	root.AddCommand(newRunCmd(), newNewickCmd(), newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "gridcluster %s\n", version)
		},
	}
}
