// Package reference provides the language model analysis is scored against.
package reference

import (
	"fmt"
	"math"

	"github.com/sinkbrookstein/Cryptography/internal/alphabet"
	"github.com/sinkbrookstein/Cryptography/internal/freq"
	"github.com/sinkbrookstein/Cryptography/internal/model"
)

const (
	// DefaultEnglishIC is the self-IC of English text.
	DefaultEnglishIC = 0.065
	// DefaultMinSamples bounds candidate key lengths to len(ciphertext)/40.
	DefaultMinSamples = 40
)

// EnglishFrequencies are the expected English letter frequencies, a..z.
var EnglishFrequencies = freq.Distribution{
	0.082, 0.015, 0.028, 0.043, 0.127, 0.022, 0.020, // a-g
	0.061, 0.070, 0.002, 0.008, 0.040, 0.024, 0.067, // h-n
	0.075, 0.019, 0.001, 0.060, 0.063, 0.091, 0.028, // o-u
	0.010, 0.023, 0.001, 0.020, 0.001, // v-z
}

var english = model.ReferenceModel{
	Frequencies: EnglishFrequencies,
	EnglishIC:   DefaultEnglishIC,
	MinSamples:  DefaultMinSamples,
}

// English returns the default English reference model.
func English() *model.ReferenceModel {
	ref := english
	return &ref
}

// New builds a reference model from explicit values and validates it.
func New(frequencies []float64, englishIC float64, minSamples int) (*model.ReferenceModel, error) {
	if len(frequencies) != alphabet.Size {
		return nil, fmt.Errorf("reference table needs %d values, got %d", alphabet.Size, len(frequencies))
	}
	ref := &model.ReferenceModel{
		EnglishIC:  englishIC,
		MinSamples: minSamples,
	}
	copy(ref.Frequencies[:], frequencies)
	if err := Validate(ref); err != nil {
		return nil, err
	}
	return ref, nil
}

// FromText derives a reference table from sample text, keeping the default
// English IC and sample bound.
func FromText(text string) (*model.ReferenceModel, error) {
	d := freq.Frequency(text)
	if d.Sum() == 0 {
		return nil, fmt.Errorf("sample text contains no letters")
	}
	ref := English()
	ref.Frequencies = d
	return ref, nil
}

// Validate checks that a reference model can drive an analysis.
func Validate(ref *model.ReferenceModel) error {
	if ref == nil {
		return fmt.Errorf("reference model is nil")
	}
	var sum float64
	for i, v := range ref.Frequencies {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("reference frequency for %q is invalid: %v", rune('a'+i), v)
		}
		sum += v
	}
	if sum <= 0 {
		return fmt.Errorf("reference frequencies must not all be zero")
	}
	if ref.EnglishIC <= 0 || ref.EnglishIC > 1 {
		return fmt.Errorf("english IC must be in (0, 1], got %v", ref.EnglishIC)
	}
	if ref.MinSamples <= 0 {
		return fmt.Errorf("min samples must be > 0, got %d", ref.MinSamples)
	}
	return nil
}
