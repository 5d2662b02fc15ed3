package analysis

import (
	"fmt"
	"math"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sinkbrookstein/Cryptography/internal/freq"
	"github.com/sinkbrookstein/Cryptography/internal/model"
)

// Estimator guesses the key length of a Vigenère ciphertext from the average
// self-IC of its interleaved partitions.
type Estimator struct {
	ref     *model.ReferenceModel
	workers int
	logger  *zap.Logger
}

// NewEstimator returns an Estimator scoring against ref.
func NewEstimator(ref *model.ReferenceModel, workers int, logger *zap.Logger) *Estimator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Estimator{ref: ref, workers: workers, logger: logger}
}

// Bound returns the exclusive upper bound on candidate key lengths for a
// ciphertext of n letters.
func (e *Estimator) Bound(n int) int {
	return n / e.ref.MinSamples
}

// Estimate scores every candidate length below the bound and picks the most
// likely true key length.
//
// A key of length L also lifts the score of every multiple of L, so after the
// raw best length is found its divisors are reconsidered: a divisor qualifies
// when it was recorded as weaker during the scan and its score sits at least
// as close to the English IC as the raw best. The qualifying divisor with the
// highest score wins; with none, the raw best stands.
func (e *Estimator) Estimate(ciphertext string) (model.Estimate, error) {
	bound := e.Bound(len(ciphertext))
	if bound <= 1 {
		return model.Estimate{}, fmt.Errorf("%w: %d letters, need at least %d",
			ErrInsufficientData, len(ciphertext), 2*e.ref.MinSamples)
	}

	ics := e.scoreLengths(ciphertext, bound)

	var high float64
	rawBest := 0
	// A length that does not improve on the running best records its
	// predecessor, not itself.
	weaker := map[int]struct{}{}
	for i := 1; i < bound; i++ {
		if ics[i] > high {
			high = ics[i]
			rawBest = i
		} else {
			weaker[i-1] = struct{}{}
		}
	}
	if rawBest == 0 {
		return model.Estimate{}, fmt.Errorf("%w: no candidate length scored above zero", ErrInsufficientData)
	}

	var shortlist []int
	bestDist := math.Abs(ics[rawBest] - e.ref.EnglishIC)
	for d := 2; d < rawBest; d++ {
		if rawBest%d != 0 {
			continue
		}
		div := rawBest / d
		if _, ok := weaker[div]; !ok {
			continue
		}
		if bestDist >= math.Abs(ics[div]-e.ref.EnglishIC) {
			shortlist = append(shortlist, div)
		}
	}

	length := rawBest
	var greatest float64
	for _, k := range shortlist {
		if ics[k] > greatest {
			greatest = ics[k]
			length = k
		}
	}

	candidates := make([]model.KeyLengthCandidate, 0, bound-1)
	for i := 1; i < bound; i++ {
		candidates = append(candidates, model.KeyLengthCandidate{Length: i, AvgIC: ics[i]})
	}

	e.logger.Debug("estimated key length",
		zap.Int("bound", bound),
		zap.Int("raw_best", rawBest),
		zap.Ints("shortlist", shortlist),
		zap.Int("length", length),
		zap.Float64("avg_ic", ics[length]))

	return model.Estimate{
		Length:     length,
		RawBest:    rawBest,
		Shortlist:  shortlist,
		Candidates: candidates,
	}, nil
}

// scoreLengths returns the average self-IC for each length in [1, bound),
// indexed by length. Each length is scored independently, so the work is
// spread over the configured number of workers.
func (e *Estimator) scoreLengths(ciphertext string, bound int) []float64 {
	ics := make([]float64, bound)
	var g errgroup.Group
	if e.workers > 0 {
		g.SetLimit(e.workers)
	}
	for i := 1; i < bound; i++ {
		g.Go(func() error {
			ics[i] = averageSelfIC(ciphertext, i)
			return nil
		})
	}
	// Scoring never fails.
	_ = g.Wait()
	return ics
}

func averageSelfIC(ciphertext string, length int) float64 {
	parts := Partition(ciphertext, length)
	var sum float64
	for _, p := range parts {
		d := freq.Frequency(p)
		sum += freq.IndexOfCoincidence(d, d)
	}
	return sum / float64(len(parts))
}
