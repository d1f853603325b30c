package silhouette

import (
	"math"
	"math/rand"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/gridcluster/distance"
	"github.com/hupe1980/gridcluster/model"
)

func line(xs ...float64) []model.Point {
	pts := make([]model.Point, len(xs))
	for i, x := range xs {
		pts[i] = model.NewPoint(model.PointID(i+1), x, 0)
	}
	return pts
}

func ids(points []model.Point) []model.PointID {
	out := make([]model.PointID, len(points))
	for i, p := range points {
		out[i] = p.ID
	}
	return out
}

// chain merges leaves 1..n left to right.
func chain(n int) []model.MergeEvent {
	events := make([]model.MergeEvent, 0, n-1)
	for i := 2; i <= n; i++ {
		events = append(events, model.MergeEvent{Left: 1, Right: model.PointID(i), Distance: float64(i)})
	}
	return events
}

// bruteWidth computes the average silhouette width of a partition from
// scratch.
func bruteWidth(groups [][]model.PointID, m *Matrix) float64 {
	var total float64
	var counted int
	for gi, g := range groups {
		if len(g) < 2 {
			continue
		}
		for _, id := range g {
			i, _ := m.Index(id)
			var a float64
			for _, o := range g {
				if o == id {
					continue
				}
				j, _ := m.Index(o)
				a += m.At(i, j)
			}
			a /= float64(len(g) - 1)

			b := math.Inf(1)
			for hi, h := range groups {
				if hi == gi {
					continue
				}
				var s float64
				for _, o := range h {
					j, _ := m.Index(o)
					s += m.At(i, j)
				}
				b = math.Min(b, s/float64(len(h)))
			}
			counted++
			total += width(a, b)
		}
	}
	if counted == 0 {
		return 0
	}
	return total / float64(counted)
}

func TestMatrix(t *testing.T) {
	pts := []model.Point{model.NewPoint(3, 0, 0), model.NewPoint(1, 3, 4), model.NewPoint(2, 0, 1)}

	m, err := NewMatrix(pts, distance.Euclidean{})
	require.NoError(t, err)
	assert.Equal(t, 3, m.Len())
	assert.Equal(t, []model.PointID{1, 2, 3}, m.IDs())

	i, ok := m.Index(3)
	require.True(t, ok)
	j, _ := m.Index(1)
	assert.Equal(t, 5.0, m.At(i, j))
	assert.Equal(t, m.At(i, j), m.At(j, i))
	assert.Equal(t, 0.0, m.At(i, i))
	assert.InDelta(t, (5+1+math.Sqrt(18))/3, m.Mean(), 1e-12)

	_, err = NewMatrix(pts, distance.Func(func(_, _, _, _ float64) float64 { return math.NaN() }))
	assert.ErrorIs(t, err, ErrNonFiniteDistance)
}

func TestAverageWidth_ThreeColinearPoints(t *testing.T) {
	pts := line(0, 1, 2)
	m, err := NewMatrix(pts, distance.Euclidean{})
	require.NoError(t, err)

	events := []model.MergeEvent{{Left: 1, Right: 2, Distance: 1}, {Left: 1, Right: 3, Distance: 1.5}}
	curve, err := AverageWidth(events, m)
	require.NoError(t, err)
	require.Len(t, curve, 2)
	assert.InDelta(t, 0.25, curve[0], 1e-12)
	assert.Equal(t, 0.0, curve[1])
}

func TestAverageWidth_TwoWellSeparatedGroups(t *testing.T) {
	pts := line(0, 0.1, 0.2, 10, 10.1, 10.2)
	m, err := NewMatrix(pts, distance.Euclidean{})
	require.NoError(t, err)

	events := []model.MergeEvent{
		{Left: 1, Right: 2}, {Left: 4, Right: 5},
		{Left: 1, Right: 3}, {Left: 4, Right: 6},
		{Left: 1, Right: 4},
	}
	curve, err := AverageWidth(events, m)
	require.NoError(t, err)
	require.Len(t, curve, 5)
	assert.Greater(t, curve[3], 0.95)
	assert.Equal(t, 0.0, curve[4])

	sel := Select(curve, DefaultCriteria())
	assert.True(t, sel.Accepted)
	assert.Equal(t, 2, sel.Clusters)

	groups, err := Cut(sel.Clusters, events, ids(pts))
	require.NoError(t, err)
	assert.Equal(t, [][]model.PointID{{1, 2, 3}, {4, 5, 6}}, groups)
}

func TestAverageWidth_MatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for trial := range 5 {
		n := 6 + trial*3
		pts := make([]model.Point, n)
		for i := range pts {
			pts[i] = model.NewPoint(model.PointID(i+1), rng.Float64()*10, rng.Float64()*10)
		}
		m, err := NewMatrix(pts, distance.Euclidean{})
		require.NoError(t, err)

		// Random spanning merge order.
		perm := rng.Perm(n)
		events := make([]model.MergeEvent, 0, n-1)
		for i := 1; i < n; i++ {
			a := perm[rng.Intn(i)]
			events = append(events, model.MergeEvent{
				Left:     model.PointID(a + 1),
				Right:    model.PointID(perm[i] + 1),
				Distance: float64(i),
			})
		}

		curve, err := AverageWidth(events, m)
		require.NoError(t, err)
		require.Len(t, curve, n-1)

		for step := 0; step < n-2; step++ {
			groups, err := Cut(n-step-1, events, ids(pts))
			require.NoError(t, err)
			assert.InDelta(t, bruteWidth(groups, m), curve[step], 1e-9, "trial %d step %d", trial, step)
		}
	}
}

func TestAverageWidth_Errors(t *testing.T) {
	m, err := NewMatrix(line(0, 1, 2), distance.Euclidean{})
	require.NoError(t, err)

	_, err = AverageWidth(nil, m)
	assert.ErrorIs(t, err, ErrEmptyDendrogram)

	_, err = AverageWidth([]model.MergeEvent{{Left: 1, Right: 9}, {Left: 1, Right: 3}}, m)
	assert.ErrorIs(t, err, ErrInvalidDendrogram)

	_, err = AverageWidth([]model.MergeEvent{{Left: 1, Right: 2}, {Left: 2, Right: 1}}, m)
	assert.ErrorIs(t, err, ErrInvalidDendrogram)
}

// bruteDunn computes the Dunn index of a partition from scratch.
func bruteDunn(groups [][]model.PointID, m *Matrix) float64 {
	diameter, separation := 0.0, math.Inf(1)
	for gi, g := range groups {
		for _, a := range g {
			i, _ := m.Index(a)
			for hi, h := range groups {
				for _, b := range h {
					j, _ := m.Index(b)
					if hi == gi {
						diameter = math.Max(diameter, m.At(i, j))
					} else {
						separation = math.Min(separation, m.At(i, j))
					}
				}
			}
		}
	}
	return dunn(separation, diameter)
}

func TestDunnIndices(t *testing.T) {
	tests := []struct {
		name   string
		points []model.Point
		events []model.MergeEvent
		want   []float64
	}{
		{
			name:   "three colinear points",
			points: line(0, 1, 2),
			events: []model.MergeEvent{{Left: 1, Right: 2, Distance: 1}, {Left: 1, Right: 3, Distance: 1.5}},
			want:   []float64{1, 0},
		},
		{
			name:   "two well separated groups",
			points: line(0, 0.1, 0.2, 10, 10.1, 10.2),
			events: []model.MergeEvent{
				{Left: 1, Right: 2}, {Left: 4, Right: 5},
				{Left: 1, Right: 3}, {Left: 4, Right: 6},
				{Left: 1, Right: 4},
			},
			want: []float64{0.1 / 0.1, 0.1 / 0.1, 0.1 / 0.2, 9.8 / 0.2, 0},
		},
		{
			name:   "coincident leaves",
			points: line(3, 3, 3),
			events: chain(3),
			want:   []float64{0, 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewMatrix(tt.points, distance.Euclidean{})
			require.NoError(t, err)

			got, err := DunnIndices(tt.events, m)
			require.NoError(t, err)
			require.Len(t, got, len(tt.want))
			for i := range tt.want {
				assert.InDelta(t, tt.want[i], got[i], 1e-9, "step %d", i)
			}
		})
	}
}

func TestDunnIndices_MatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(11))

	for trial := range 5 {
		n := 5 + trial*4
		pts := make([]model.Point, n)
		for i := range pts {
			pts[i] = model.NewPoint(model.PointID(i+1), rng.Float64()*10, rng.Float64()*10)
		}
		m, err := NewMatrix(pts, distance.Euclidean{})
		require.NoError(t, err)

		perm := rng.Perm(n)
		events := make([]model.MergeEvent, 0, n-1)
		for i := 1; i < n; i++ {
			a := perm[rng.Intn(i)]
			events = append(events, model.MergeEvent{
				Left:     model.PointID(a + 1),
				Right:    model.PointID(perm[i] + 1),
				Distance: float64(i),
			})
		}

		curve, err := DunnIndices(events, m)
		require.NoError(t, err)
		require.Len(t, curve, n-1)
		assert.Equal(t, 0.0, curve[n-2])

		for step := 0; step < n-2; step++ {
			groups, err := Cut(n-step-1, events, ids(pts))
			require.NoError(t, err)
			assert.InDelta(t, bruteDunn(groups, m), curve[step], 1e-9, "trial %d step %d", trial, step)
		}
	}
}

func TestDunnIndices_Errors(t *testing.T) {
	m, err := NewMatrix(line(0, 1, 2), distance.Euclidean{})
	require.NoError(t, err)

	_, err = DunnIndices(nil, m)
	assert.ErrorIs(t, err, ErrEmptyDendrogram)

	_, err = DunnIndices([]model.MergeEvent{{Left: 1, Right: 9}, {Left: 1, Right: 3}}, m)
	assert.ErrorIs(t, err, ErrInvalidDendrogram)

	_, err = DunnIndices([]model.MergeEvent{{Left: 1, Right: 2}, {Left: 2, Right: 1}}, m)
	assert.ErrorIs(t, err, ErrInvalidDendrogram)
}

func TestCut_EveryK(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	const n = 12

	leaves := make([]model.PointID, n)
	for i := range leaves {
		leaves[i] = model.PointID(100 + i)
	}
	perm := rng.Perm(n)
	events := make([]model.MergeEvent, 0, n-1)
	for i := 1; i < n; i++ {
		events = append(events, model.MergeEvent{Left: leaves[perm[rng.Intn(i)]], Right: leaves[perm[i]]})
	}

	for k := 1; k <= n; k++ {
		groups, err := Cut(k, events, leaves)
		require.NoError(t, err)
		require.Len(t, groups, k)

		var all []model.PointID
		for _, g := range groups {
			require.NotEmpty(t, g)
			assert.True(t, slices.IsSorted(g))
			all = append(all, g...)
		}
		slices.Sort(all)
		assert.Equal(t, leaves, all, "k=%d", k)

		for i := 1; i < len(groups); i++ {
			assert.Less(t, groups[i-1][0], groups[i][0])
		}
	}
}

func TestCut_OrderIndependentOfSurvivor(t *testing.T) {
	// Sorting by distance can put an event whose left leaf is not the
	// canonical id of its cluster first; membership replay still works.
	events := model.SortByDistance([]model.MergeEvent{
		{Left: 1, Right: 2, Distance: 3},
		{Left: 2, Right: 3, Distance: 1},
	})
	groups, err := Cut(2, events, []model.PointID{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, [][]model.PointID{{1}, {2, 3}}, groups)
}

func TestCut_Errors(t *testing.T) {
	events := chain(4)
	leaves := []model.PointID{1, 2, 3, 4}

	for _, k := range []int{0, 5, -1} {
		_, err := Cut(k, events, leaves)
		assert.ErrorIs(t, err, ErrInvalidClusterCount, "k=%d", k)
	}

	_, err := Cut(1, events[:2], leaves)
	assert.ErrorIs(t, err, ErrInvalidClusterCount)
}

func TestSelect(t *testing.T) {
	tests := []struct {
		name     string
		curve    []float64
		criteria Criteria
		want     Selection
	}{
		{
			name:     "two leaves",
			curve:    []float64{0},
			criteria: DefaultCriteria(),
			want:     Selection{Step: -1, Clusters: 1},
		},
		{
			name:     "below acceptance",
			curve:    []float64{0.25, 0},
			criteria: DefaultCriteria(),
			want:     Selection{Step: 0, Quality: 0.25, Clusters: 1},
		},
		{
			name:     "accepted",
			curve:    []float64{0.1, 0.2, 0.9, 0},
			criteria: DefaultCriteria(),
			want:     Selection{Step: 2, Quality: 0.9, Clusters: 2, Accepted: true},
		},
		{
			name:     "window excludes early maximum",
			curve:    []float64{0.99, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.8, 0.78, 0},
			criteria: DefaultCriteria(),
			want:     Selection{Step: 10, Quality: 0.8, Clusters: 3, Accepted: true},
		},
		{
			name:     "tolerance prefers more clusters",
			curve:    []float64{0.99, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.78, 0.8, 0},
			criteria: Criteria{Acceptance: 0.75, Fraction: 0.1, Tolerance: 5},
			want:     Selection{Step: 10, Quality: 0.8, Clusters: 3, Accepted: true},
		},
		{
			name:     "zero tolerance takes first maximum",
			curve:    []float64{0.99, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.78, 0.8, 0},
			criteria: DefaultCriteria(),
			want:     Selection{Step: 11, Quality: 0.8, Clusters: 2, Accepted: true},
		},
		{
			name:     "full window",
			curve:    []float64{0.99, 0.5, 0.5, 0},
			criteria: Criteria{Acceptance: 0.75, Fraction: 1},
			want:     Selection{Step: 0, Quality: 0.99, Clusters: 4, Accepted: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Select(tt.curve, tt.criteria))
		})
	}
}

func TestCohesion(t *testing.T) {
	pts := line(0, 1, 5)
	m, err := NewMatrix(pts, distance.Euclidean{})
	require.NoError(t, err)

	got, err := Cohesion([][]model.PointID{{1, 2}, {3}}, m)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 1.0, got[0])
	assert.InDelta(t, (1.0+5+4)/3, got[1], 1e-12)

	_, err = Cohesion(nil, m)
	assert.ErrorIs(t, err, ErrInvalidClusterCount)

	_, err = Cohesion([][]model.PointID{{1, 42}}, m)
	assert.ErrorIs(t, err, ErrInvalidDendrogram)
}

func TestPopulationAberration(t *testing.T) {
	leaves := []model.PointID{1, 2, 3, 4}

	got, err := PopulationAberration(2, chain(4), leaves)
	require.NoError(t, err)
	// Groups {1,2,3} and {4} against an ideal size of 2.
	assert.Equal(t, 1.0, got)

	events := []model.MergeEvent{{Left: 1, Right: 2}, {Left: 3, Right: 4}, {Left: 1, Right: 3}}
	got, err = PopulationAberration(2, events, leaves)
	require.NoError(t, err)
	assert.Equal(t, 0.0, got)

	_, err = PopulationAberration(4, events, leaves)
	assert.ErrorIs(t, err, ErrInvalidClusterCount)
}

func TestNewick(t *testing.T) {
	events := []model.MergeEvent{{Left: 1, Right: 2, Distance: 0.5}, {Left: 1, Right: 3, Distance: 2}}
	leaves := []model.PointID{3, 1, 2}

	got, err := Newick(events, leaves, false)
	require.NoError(t, err)
	assert.Equal(t, "( ( 1 , 2 ) , 3 );", got)

	got, err = Newick(events, leaves, true)
	require.NoError(t, err)
	assert.Equal(t, "( ( 1:0.5 , 2:0.5 ):2 , 3:2 );", got)

	got, err = Newick(events[:1], leaves, true)
	require.NoError(t, err)
	assert.Equal(t, "( ( 1:0.5 , 2:0.5 ):1 , 3:1 );", got)

	_, err = Newick(nil, nil, false)
	assert.ErrorIs(t, err, ErrEmptyDendrogram)
}
