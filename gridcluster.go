package gridcluster

import (
	"context"
	"fmt"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/gridcluster/distance"
	"github.com/hupe1980/gridcluster/internal/hac"
	"github.com/hupe1980/gridcluster/internal/silhouette"
	"github.com/hupe1980/gridcluster/model"
)

// Region is a spatially isolated group of points left after agglomeration,
// together with its merge history.
type Region struct {
	// Canonical is the id of the region's first point.
	Canonical model.PointID
	// Centroid is the mean position of all points in the region.
	Centroid distance.Centroid
	// Points are the members in absorption order.
	Points []model.Point
	// Dendrogram lists the merges that built the region, in merge order.
	Dendrogram []model.MergeEvent
}

// RegionReport describes how a region was partitioned.
type RegionReport struct {
	Canonical model.PointID
	Leaves    int
	// Curve is the average silhouette width after each merge step of the
	// distance-sorted dendrogram. Empty for singleton regions.
	Curve []float64
	// Quality is the best width in the search window.
	Quality float64
	// Clusters is the number of clusters the region was split into.
	Clusters int
	// Accepted reports whether Quality reached the acceptance threshold.
	Accepted bool
}

// Result is the flat clustering of all points.
type Result struct {
	// Clusters are ordered by region and then by smallest point id.
	Clusters []model.Cluster
	// Points are the input points in input order, annotated with their
	// cluster id and size.
	Points []model.Point
	// Regions holds one report per region, ordered by canonical id.
	Regions []RegionReport
}

// Clusterer groups 2D points by greedy agglomeration on a spatial grid and
// splits each resulting region at its best silhouette cut.
//
// A Clusterer is not safe for concurrent use.
type Clusterer struct {
	points  []model.Point
	opts    options
	driver  *hac.Driver
	regions []hac.Region
	index   map[model.PointID]int
	byID    map[model.PointID]model.Point
}

// New validates points and options and builds the grid and the initial
// neighbour distances. It does not merge anything yet; call Run.
func New(points []model.Point, optFns ...Option) (*Clusterer, error) {
	o, err := applyOptions(optFns)
	if err != nil {
		return nil, err
	}

	d, err := hac.New(points, hac.Config{ThresholdX: o.thresholdX, ThresholdY: o.thresholdY}, o.strategy,
		hac.WithLogger(o.logger.Logger),
	)
	if err != nil {
		return nil, translateError(err)
	}

	byID := make(map[model.PointID]model.Point, len(points))
	for _, p := range points {
		byID[p.ID] = p
	}

	return &Clusterer{
		points: slices.Clone(points),
		opts:   o,
		driver: d,
		byID:   byID,
	}, nil
}

// Cluster is a convenience wrapper that runs the full pipeline.
func Cluster(ctx context.Context, points []model.Point, optFns ...Option) (*Result, error) {
	c, err := New(points, optFns...)
	if err != nil {
		return nil, err
	}
	if err := c.Run(); err != nil {
		return nil, err
	}
	return c.Partition(ctx)
}

// Run merges the closest pair of clusters until no neighbouring pair is
// left. Calling Run again after convergence is a no-op. After a failure
// every later Run returns the same error and no regions are published.
func (c *Clusterer) Run() error {
	start := time.Now()
	before := c.driver.Merges()

	err := translateError(c.driver.Run())

	merges := c.driver.Merges() - before
	c.opts.metricsCollector.RecordRun(len(c.points), merges, time.Since(start), err)
	c.opts.logger.LogRun(context.Background(), len(c.points), merges, c.driver.Live(), err)
	if err != nil {
		return err
	}

	c.regions = c.driver.Regions()
	c.index = make(map[model.PointID]int, len(c.regions))
	for i, r := range c.regions {
		c.index[r.Canonical] = i
	}
	return nil
}

// Regions returns the converged regions ordered by canonical id.
func (c *Clusterer) Regions() ([]Region, error) {
	if c.regions == nil {
		return nil, ErrNotRun
	}
	out := make([]Region, len(c.regions))
	for i, r := range c.regions {
		out[i] = Region{
			Canonical:  r.Canonical,
			Centroid:   r.Centroid,
			Points:     slices.Clone(r.Points),
			Dendrogram: slices.Clone(r.Dendrogram),
		}
	}
	return out, nil
}

// Clusters partitions every region and returns the flat clusters.
func (c *Clusterer) Clusters(ctx context.Context) ([]model.Cluster, error) {
	res, err := c.Partition(ctx)
	if err != nil {
		return nil, err
	}
	return res.Clusters, nil
}

// Partition splits each region at its best silhouette cut. Regions with a
// single point become clusters directly. Calling it repeatedly yields the
// same result.
func (c *Clusterer) Partition(ctx context.Context) (*Result, error) {
	if c.regions == nil {
		return nil, ErrNotRun
	}

	parts := make([]partition, len(c.regions))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.opts.workers)
	for i := range c.regions {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			p, err := c.partition(ctx, c.regions[i])
			if err != nil {
				return fmt.Errorf("region %d: %w", c.regions[i].Canonical, err)
			}
			parts[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, translateError(err)
	}

	res := c.assemble(parts)
	c.opts.logger.WithCount(len(res.Clusters)).DebugContext(ctx, "partition completed", "regions", len(parts))
	return res, nil
}

// Cut splits one region, named by its canonical id, into exactly k clusters
// by replaying its distance-sorted dendrogram.
func (c *Clusterer) Cut(canonical model.PointID, k int) ([]model.Cluster, error) {
	r, err := c.region(canonical)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	groups, err := silhouette.Cut(k, model.SortByDistance(r.Dendrogram), pointIDs(r.Points))
	if err != nil {
		return nil, translateError(err)
	}
	c.opts.metricsCollector.RecordCut(k, time.Since(start))

	clusters := make([]model.Cluster, len(groups))
	for i, grp := range groups {
		clusters[i] = model.Cluster{ID: i, Points: c.members(grp, i)}
	}
	return clusters, nil
}

// Newick renders the dendrogram of one region in Newick format.
func (c *Clusterer) Newick(canonical model.PointID, withDistance bool) (string, error) {
	r, err := c.region(canonical)
	if err != nil {
		return "", err
	}
	s, err := silhouette.Newick(r.Dendrogram, pointIDs(r.Points), withDistance)
	return s, translateError(err)
}

// DunnIndices returns the Dunn index of one region after every step of its
// distance-sorted dendrogram. Higher values mean compact, well separated
// clusters. Single-point regions fail with ErrEmptyDendrogram.
func (c *Clusterer) DunnIndices(canonical model.PointID) ([]float64, error) {
	r, err := c.region(canonical)
	if err != nil {
		return nil, err
	}
	m, err := silhouette.NewMatrix(r.Points, c.opts.strategy)
	if err != nil {
		return nil, translateError(err)
	}
	curve, err := silhouette.DunnIndices(model.SortByDistance(r.Dendrogram), m)
	return curve, translateError(err)
}

func (c *Clusterer) region(canonical model.PointID) (hac.Region, error) {
	if c.regions == nil {
		return hac.Region{}, ErrNotRun
	}
	i, ok := c.index[canonical]
	if !ok {
		return hac.Region{}, fmt.Errorf("%w: %d", ErrUnknownRegion, canonical)
	}
	return c.regions[i], nil
}

type partition struct {
	report RegionReport
	groups [][]model.PointID
}

func (c *Clusterer) partition(ctx context.Context, r hac.Region) (partition, error) {
	ids := pointIDs(r.Points)
	p := partition{
		report: RegionReport{Canonical: r.Canonical, Leaves: len(ids), Clusters: 1},
	}
	if len(ids) < 2 {
		slices.Sort(ids)
		p.groups = [][]model.PointID{ids}
		return p, nil
	}

	events := model.SortByDistance(r.Dendrogram)
	m, err := silhouette.NewMatrix(r.Points, c.opts.strategy)
	if err != nil {
		return p, err
	}
	curve, err := silhouette.AverageWidth(events, m)
	if err != nil {
		return p, err
	}
	sel := silhouette.Select(curve, c.opts.criteria)

	start := time.Now()
	groups, err := silhouette.Cut(sel.Clusters, events, ids)
	if err != nil {
		return p, err
	}
	c.opts.metricsCollector.RecordCut(sel.Clusters, time.Since(start))
	c.opts.metricsCollector.RecordRegion(len(ids), len(groups), sel.Quality, sel.Accepted)
	c.opts.logger.WithRegion(r.Canonical).LogRegion(ctx, len(ids), len(groups), sel.Quality, sel.Accepted)

	p.report.Curve = curve
	p.report.Quality = sel.Quality
	p.report.Clusters = len(groups)
	p.report.Accepted = sel.Accepted
	p.groups = groups
	return p, nil
}

// assemble numbers the clusters and annotates copies of the points.
func (c *Clusterer) assemble(parts []partition) *Result {
	res := &Result{
		Points:  slices.Clone(c.points),
		Regions: make([]RegionReport, len(parts)),
	}
	for i := range res.Points {
		res.Points[i].ClusterID = model.Unassigned
		res.Points[i].ClusterSize = 0
	}
	pos := make(map[model.PointID]int, len(res.Points))
	for i, p := range res.Points {
		pos[p.ID] = i
	}

	for i, part := range parts {
		res.Regions[i] = part.report
		for _, grp := range part.groups {
			id := len(res.Clusters)
			members := c.members(grp, id)
			for _, p := range members {
				res.Points[pos[p.ID]] = p
			}
			res.Clusters = append(res.Clusters, model.Cluster{ID: id, Points: members})
		}
	}
	return res
}

// members resolves ids into annotated point copies.
func (c *Clusterer) members(ids []model.PointID, clusterID int) []model.Point {
	out := make([]model.Point, len(ids))
	for i, id := range ids {
		p := c.byID[id]
		p.ClusterID = clusterID
		p.ClusterSize = len(ids)
		out[i] = p
	}
	return out
}

func pointIDs(points []model.Point) []model.PointID {
	ids := make([]model.PointID, len(points))
	for i, p := range points {
		ids[i] = p.ID
	}
	return ids
}
