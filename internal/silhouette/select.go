package silhouette

import "math"

// Criteria controls how a cut is chosen from a quality curve.
type Criteria struct {
	// Acceptance is the smallest best quality that justifies a cut.
	Acceptance float64
	// Fraction is the share of steps, counted from the end of the curve,
	// that is searched for the best quality.
	Fraction float64
	// Tolerance in percent. Steps within this distance of the best
	// quality count as optimal; the one with the most clusters wins.
	Tolerance float64
}

// DefaultCriteria returns the default selection criteria.
func DefaultCriteria() Criteria {
	return Criteria{
		Acceptance: 0.75,
		Fraction:   0.10,
		Tolerance:  0,
	}
}

// Selection is the outcome of Select.
type Selection struct {
	// Step is the chosen curve index, or -1 if there was nothing to search.
	Step int
	// Quality is the best quality in the search window.
	Quality float64
	// Clusters is the number of groups to cut into; 1 means no cut.
	Clusters int
	// Accepted reports whether Quality reached the acceptance threshold.
	Accepted bool
}

// Select searches the last steps of curve for the best quality. A curve of
// m-1 entries belongs to a dendrogram of m leaves; its last entry is the
// full collapse and is never chosen. Step t leaves len(curve)-t clusters.
func Select(curve []float64, c Criteria) Selection {
	candidates := len(curve) - 1
	if candidates < 1 {
		return Selection{Step: -1, Clusters: 1}
	}

	window := int(math.Ceil(c.Fraction*float64(len(curve)) - 1e-9))
	window = max(1, min(window, candidates))
	lo := candidates - window

	best := math.Inf(-1)
	for _, q := range curve[lo:candidates] {
		best = math.Max(best, q)
	}

	threshold := best - math.Abs(best)*c.Tolerance/100
	step := lo
	for t := lo; t < candidates; t++ {
		if curve[t] >= threshold {
			step = t
			break
		}
	}

	sel := Selection{
		Step:     step,
		Quality:  best,
		Clusters: 1,
		Accepted: best >= c.Acceptance,
	}
	if sel.Accepted {
		sel.Clusters = len(curve) - step
	}
	return sel
}
