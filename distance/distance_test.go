package distance

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/gridcluster/model"
)

func TestStrategies(t *testing.T) {
	a := model.NewPoint(1, 0, 0)
	b := model.NewPoint(2, 3, 4)

	tests := []struct {
		name     string
		strategy Strategy
		expected float64
	}{
		{"Euclidean", Euclidean{}, 5},
		{"Manhattan", Manhattan{}, 7},
		{"Chebyshev", Chebyshev{}, 4},
		{"Scaled", Scaled{ScaleX: 2, ScaleY: 0.5}, math.Sqrt(36 + 4)},
		{"Func", Func(func(ax, ay, bx, by float64) float64 { return math.Abs(bx - ax) }), 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, tt.strategy.Points(a, b), 1e-12)
			assert.InDelta(t, tt.expected, tt.strategy.Points(b, a), 1e-12)

			ca := Centroid{X: a.X, Y: a.Y, Size: 3}
			cb := Centroid{X: b.X, Y: b.Y, Size: 1}
			assert.InDelta(t, tt.expected, tt.strategy.Clusters(ca, cb), 1e-12)
		})
	}
}

func TestStrategies_NoAllocs(t *testing.T) {
	a := model.NewPoint(1, 0, 0)
	b := model.NewPoint(2, 3, 4)
	ca, cb := Centroid{X: 1, Y: 2, Size: 2}, Centroid{X: 4, Y: -1, Size: 1}

	tests := []struct {
		name     string
		strategy Strategy
	}{
		{"Euclidean", Euclidean{}},
		{"Manhattan", Manhattan{}},
		{"Chebyshev", Chebyshev{}},
		{"Scaled", Scaled{ScaleX: 2, ScaleY: 0.5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var sink float64
			allocs := testing.AllocsPerRun(100, func() {
				sink += tt.strategy.Points(a, b)
				sink += tt.strategy.Clusters(ca, cb)
			})
			assert.Zero(t, allocs)
			assert.Positive(t, sink)
		})
	}
}

func TestIdentical(t *testing.T) {
	p := model.NewPoint(1, 2.5, 7)
	assert.Zero(t, Euclidean{}.Points(p, p))
	assert.Zero(t, Manhattan{}.Points(p, p))
}

func TestIsFinite(t *testing.T) {
	assert.True(t, IsFinite(0))
	assert.True(t, IsFinite(-1))
	assert.False(t, IsFinite(math.NaN()))
	assert.False(t, IsFinite(math.Inf(1)))
	assert.False(t, IsFinite(math.Inf(-1)))
}

func TestMetric_String(t *testing.T) {
	assert.Equal(t, "Euclidean", MetricEuclidean.String())
	assert.Equal(t, "Manhattan", MetricManhattan.String())
	assert.Equal(t, "Chebyshev", MetricChebyshev.String())
	assert.Equal(t, "Unknown(99)", Metric(99).String())
}

func TestParseMetric(t *testing.T) {
	tests := []struct {
		in       string
		expected Metric
	}{
		{"euclidean", MetricEuclidean},
		{"L2", MetricEuclidean},
		{"", MetricEuclidean},
		{"Manhattan", MetricManhattan},
		{"l1", MetricManhattan},
		{" chebyshev ", MetricChebyshev},
	}

	for _, tt := range tests {
		m, err := ParseMetric(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.expected, m, tt.in)
	}

	_, err := ParseMetric("cosine")
	assert.Error(t, err)
}

func TestProvider(t *testing.T) {
	s, err := Provider(MetricManhattan)
	require.NoError(t, err)
	assert.IsType(t, Manhattan{}, s)

	_, err = Provider(Metric(999))
	assert.Error(t, err)
}
