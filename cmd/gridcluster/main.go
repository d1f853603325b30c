// Command gridcluster clusters 2D points read from CSV or JSON files.
//
// Usage:
//
//	gridcluster run --input points.csv.zst --threshold-x 0.5 --threshold-y 10
//	gridcluster newick --input points.json --config gridcluster.yaml
//	gridcluster version
package main

import (
	"context"
	"os"
	"os/signal"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
