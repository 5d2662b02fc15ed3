package freq

// IndexOfCoincidence returns the dot product of two distributions: the
// probability that a letter drawn from each is the same letter.
func IndexOfCoincidence(a, b Distribution) float64 {
	var ic float64
	for i := range a {
		ic += a[i] * b[i]
	}
	return ic
}

// SelfIC is the index of coincidence of the text's distribution with itself.
func SelfIC(text string) float64 {
	d := Frequency(text)
	return IndexOfCoincidence(d, d)
}
