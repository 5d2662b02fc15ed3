// Package freq computes letter-frequency distributions and coincidence scores.
package freq

import "github.com/sinkbrookstein/Cryptography/internal/alphabet"

// Distribution holds the relative frequency of each letter, indexed a=0..z=25.
type Distribution [alphabet.Size]float64

// Frequency returns the letter distribution of text. Case is ignored and
// non-letters are skipped. Text without letters yields the zero distribution.
func Frequency(text string) Distribution {
	var counts [alphabet.Size]int
	total := 0
	for _, r := range text {
		idx, ok := alphabet.Index(r)
		if !ok {
			continue
		}
		counts[idx]++
		total++
	}
	var d Distribution
	if total == 0 {
		return d
	}
	for i, c := range counts {
		d[i] = float64(c) / float64(total)
	}
	return d
}

// Sum returns the total mass of the distribution.
func (d Distribution) Sum() float64 {
	var s float64
	for _, v := range d {
		s += v
	}
	return s
}

// Rotate returns the distribution shifted so that entry i holds d[i+s].
// Rotating a ciphertext distribution by the key shift realigns it with the
// plaintext alphabet.
func (d Distribution) Rotate(s int) Distribution {
	var out Distribution
	for i := range d {
		out[i] = d[(i+s%alphabet.Size+alphabet.Size)%alphabet.Size]
	}
	return out
}
