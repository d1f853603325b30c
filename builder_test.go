package gridcluster_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/gridcluster"
	"github.com/hupe1980/gridcluster/distance"
	"github.com/hupe1980/gridcluster/model"
	"github.com/hupe1980/gridcluster/testutil"
)

func TestBuilder_Basic(t *testing.T) {
	c, err := gridcluster.Grid(1, 1).Build(testutil.Line(0, 0.5))
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if err := c.Run(); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	clusters, err := c.Clusters(context.Background())
	require.NoError(t, err)
	require.Len(t, clusters, 1)
	assert.Equal(t, []model.PointID{1, 2}, clusters[0].IDs())
}

func TestBuilder_FullOptions(t *testing.T) {
	metrics := &gridcluster.BasicMetricsCollector{}

	c, err := gridcluster.Grid(2, 2).
		Manhattan().
		Acceptance(0.5).
		SearchFraction(0.5).
		Tolerance(5).
		Workers(2).
		Logger(gridcluster.NoopLogger()).
		Metrics(metrics).
		Build(testutil.Line(0, 1, 2, 10))
	require.NoError(t, err)
	require.NoError(t, c.Run())

	_, err = c.Partition(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), metrics.GetStats().RunCount)
}

func TestBuilder_Immutable(t *testing.T) {
	base := gridcluster.Grid(10, 10)
	strict := base.Acceptance(0.99)
	loose := base.Acceptance(0.1)

	points := testutil.Line(0, 1, 2)
	for _, tt := range []struct {
		name string
		b    gridcluster.GridBuilder
		want int
	}{
		{"base", base, 1},
		{"strict", strict, 1},
		{"loose", loose, 2},
	} {
		t.Run(tt.name, func(t *testing.T) {
			c := tt.b.MustBuild(points)
			require.NoError(t, c.Run())
			clusters, err := c.Clusters(context.Background())
			require.NoError(t, err)
			assert.Len(t, clusters, tt.want)
		})
	}
}

func TestBuilder_Strategy(t *testing.T) {
	// Scaling changes the merge distance, not the bucketing.
	c, err := gridcluster.Grid(1, 1).Scaled(10, 1).Build(testutil.Line(0, 0.5))
	require.NoError(t, err)
	require.NoError(t, c.Run())

	regions, err := c.Regions()
	require.NoError(t, err)
	require.Len(t, regions, 1)
	assert.InDelta(t, 5, regions[0].Dendrogram[0].Distance, 1e-12)

	calls := 0
	custom := distance.Func(func(ax, ay, bx, by float64) float64 {
		calls++
		return distance.Chebyshev{}.Clusters(distance.Centroid{X: ax, Y: ay}, distance.Centroid{X: bx, Y: by})
	})
	c, err = gridcluster.Grid(1, 1).Euclidean().Strategy(custom).Build(testutil.Line(0, 0.5))
	require.NoError(t, err)
	require.NoError(t, c.Run())
	assert.Positive(t, calls)
}

func TestBuilder_Errors(t *testing.T) {
	_, err := gridcluster.Grid(0, 1).Build(testutil.Line(0, 1))
	assert.ErrorIs(t, err, gridcluster.ErrInvalidThreshold)

	_, err = gridcluster.Grid(1, 1).SearchFraction(2).Build(testutil.Line(0, 1))
	assert.ErrorIs(t, err, gridcluster.ErrInvalidOption)

	assert.Panics(t, func() {
		gridcluster.Grid(1, 1).MustBuild(testutil.Line(0))
	})
}

func TestBuilder_Options(t *testing.T) {
	opts := gridcluster.Grid(1, 1).Chebyshev().Options()
	res, err := gridcluster.Cluster(context.Background(), testutil.Line(0, 0.5), opts...)
	require.NoError(t, err)
	assert.Len(t, res.Clusters, 1)
}
