package stats

import (
	"sort"

	"github.com/sinkbrookstein/Cryptography/internal/model"
)

// TopCandidates returns the n key lengths with the highest average IC. Equal
// scores keep the shorter length first.
func TopCandidates(cands []model.KeyLengthCandidate, n int) []model.KeyLengthCandidate {
	if n <= 0 || len(cands) == 0 {
		return nil
	}
	items := make([]model.KeyLengthCandidate, len(cands))
	copy(items, cands)
	sort.Slice(items, func(i, j int) bool {
		if items[i].AvgIC == items[j].AvgIC {
			return items[i].Length < items[j].Length
		}
		return items[i].AvgIC > items[j].AvgIC
	})
	if n > len(items) {
		n = len(items)
	}
	return items[:n]
}
