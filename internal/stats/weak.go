package stats

import (
	"sort"

	"github.com/sinkbrookstein/Cryptography/internal/model"
)

// UncertainPositions returns up to top key positions whose winning shift led
// the runner-up by the smallest margin, in ascending position order.
// Unrecovered positions always come first.
func UncertainPositions(positions []model.PositionScore, top int) []int {
	if len(positions) == 0 || top <= 0 {
		return nil
	}
	ranked := make([]model.PositionScore, len(positions))
	copy(ranked, positions)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Recovered != ranked[j].Recovered {
			return !ranked[i].Recovered
		}
		mi, mj := ranked[i].Margin(), ranked[j].Margin()
		if mi == mj {
			return ranked[i].Position < ranked[j].Position
		}
		return mi < mj
	})
	if top > len(ranked) {
		top = len(ranked)
	}
	out := make([]int, 0, top)
	for _, p := range ranked[:top] {
		out = append(out, p.Position)
	}
	sort.Ints(out)
	return out
}
