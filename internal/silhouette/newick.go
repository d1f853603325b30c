package silhouette

import (
	"slices"
	"strconv"
	"strings"

	"github.com/hupe1980/gridcluster/model"
)

// Newick renders events as a Newick tree over leaves. With withDistance
// every branch carries the merge distance. Leaves the events never join
// are attached to the root with branch length 1.
func Newick(events []model.MergeEvent, leaves []model.PointID, withDistance bool) (string, error) {
	ids := slices.Clone(leaves)
	slices.Sort(ids)
	ids = slices.Compact(ids)
	if len(ids) == 0 {
		return "", ErrEmptyDendrogram
	}

	r := newReplay(len(ids), indexOf(ids))
	trees := make([]string, len(ids))
	for i, id := range ids {
		trees[i] = strconv.FormatUint(uint64(id), 10)
	}

	join := func(a, b, length string) string {
		var sb strings.Builder
		sb.WriteString("( ")
		sb.WriteString(a)
		if length != "" {
			sb.WriteString(":" + length)
		}
		sb.WriteString(" , ")
		sb.WriteString(b)
		if length != "" {
			sb.WriteString(":" + length)
		}
		sb.WriteString(" )")
		return sb.String()
	}

	for _, ev := range events {
		keep, gone, err := r.clusters(ev)
		if err != nil {
			return "", err
		}
		length := ""
		if withDistance {
			length = strconv.FormatFloat(ev.Distance, 'g', -1, 64)
		}
		trees[keep] = join(trees[keep], trees[gone], length)
		trees[gone] = ""
		r.apply(keep, gone)
	}

	root := ""
	for _, t := range trees {
		if t == "" {
			continue
		}
		if root == "" {
			root = t
			continue
		}
		length := ""
		if withDistance {
			length = "1"
		}
		root = join(root, t, length)
	}
	return root + ";", nil
}
