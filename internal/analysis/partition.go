package analysis

import "strings"

// Partition splits text into n interleaved subsequences; subsequence j holds
// the letters at positions congruent to j mod n.
func Partition(text string, n int) []string {
	if n <= 0 {
		return nil
	}
	builders := make([]strings.Builder, n)
	per := len(text)/n + 1
	for i := range builders {
		builders[i].Grow(per)
	}
	for i := 0; i < len(text); i++ {
		builders[i%n].WriteByte(text[i])
	}
	parts := make([]string, n)
	for i := range builders {
		parts[i] = builders[i].String()
	}
	return parts
}
