// Package gridcluster provides grid-accelerated hierarchical clustering of
// 2D observations.
//
// Points are bucketed on a grid whose cell size is given per axis. Only
// clusters in neighbouring cells are ever compared, so a run never
// evaluates all O(n²) pairs. The closest pair is merged greedily until no
// neighbouring pair is left; what remains are spatially isolated regions,
// each with its own merge history.
//
// Every region is then split at the cut with the best average silhouette
// width among the last merge steps, provided that width reaches an
// acceptance threshold. Otherwise the region stays one cluster.
//
// # Quick Start
//
//	points := []model.Point{
//	    model.NewPoint(1, 10.0, 500.1),
//	    model.NewPoint(2, 10.2, 500.2),
//	    model.NewPoint(3, 40.0, 800.0),
//	}
//	res, err := gridcluster.Cluster(ctx, points, gridcluster.WithThresholds(1, 1))
//	for _, c := range res.Clusters {
//	    fmt.Println(c.ID, c.IDs())
//	}
//
// # Step by Step
//
//	c, _ := gridcluster.Grid(1, 1).Euclidean().Workers(4).Build(points)
//	_ = c.Run()                  // agglomerate
//	res, _ := c.Partition(ctx)   // silhouette cut per region
//	tree, _ := c.Newick(res.Regions[0].Canonical, true)
//
// Merges always run on a single goroutine. Regions are independent after
// convergence, so scoring them can be spread over workers.
package gridcluster
