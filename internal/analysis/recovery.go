package analysis

import (
	"golang.org/x/sync/errgroup"

	"github.com/sinkbrookstein/Cryptography/internal/alphabet"
	"github.com/sinkbrookstein/Cryptography/internal/freq"
	"github.com/sinkbrookstein/Cryptography/internal/model"
)

// KeySolver recovers one shift per ciphertext partition. Partition j was
// enciphered with key position j.
type KeySolver interface {
	Solve(partitions []string) []model.PositionScore
}

// IndependentSolver searches each partition on its own for the shift whose
// realigned distribution best matches the reference.
type IndependentSolver struct {
	Reference *model.ReferenceModel
	Workers   int
}

// Solve implements KeySolver.
func (s IndependentSolver) Solve(partitions []string) []model.PositionScore {
	scores := make([]model.PositionScore, len(partitions))
	var g errgroup.Group
	if s.Workers > 0 {
		g.SetLimit(s.Workers)
	}
	for j, part := range partitions {
		g.Go(func() error {
			score := BestShift(part, s.Reference.Frequencies)
			score.Position = j
			scores[j] = score
			return nil
		})
	}
	// Scoring never fails.
	_ = g.Wait()
	return scores
}

// BestShift finds the shift s maximising the mutual IC between the text's
// distribution rotated by s and the reference. Ties keep the lowest shift.
// When no shift scores above zero the result is not Recovered and Shift is 0.
func BestShift(text string, reference freq.Distribution) model.PositionScore {
	d := freq.Frequency(text)
	score := model.PositionScore{Shift: -1}
	for s := 0; s < alphabet.Size; s++ {
		mic := freq.IndexOfCoincidence(d.Rotate(s), reference)
		switch {
		case mic > score.MutualIC:
			score.RunnerUp = score.MutualIC
			score.MutualIC = mic
			score.Shift = s
		case mic > score.RunnerUp:
			score.RunnerUp = mic
		}
	}
	if score.Shift < 0 {
		score.Shift = 0
		return score
	}
	score.Recovered = true
	return score
}

// RecoverKey partitions ciphertext by length and solves each position. A
// *NoKeyRecoveredError is returned together with the best-effort key when
// some positions could not be solved.
func RecoverKey(ciphertext string, length int, solver KeySolver) ([]int, []model.PositionScore, error) {
	scores := solver.Solve(Partition(ciphertext, length))
	key := make([]int, len(scores))
	var failed []int
	for j, score := range scores {
		key[j] = score.Shift
		if !score.Recovered {
			failed = append(failed, j)
		}
	}
	if len(failed) > 0 {
		return key, scores, &NoKeyRecoveredError{Positions: failed}
	}
	return key, scores, nil
}
