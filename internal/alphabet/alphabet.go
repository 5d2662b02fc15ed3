// Package alphabet maps Latin letters to and from shift values.
package alphabet

import (
	"fmt"
	"strings"
)

// Size is the number of letters in the alphabet.
const Size = 26

// IsLetter reports whether r is an ASCII Latin letter of either case.
func IsLetter(r rune) bool {
	return ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z')
}

// Index returns the rank of a letter (a=0..z=25) regardless of case.
func Index(r rune) (int, bool) {
	switch {
	case 'a' <= r && r <= 'z':
		return int(r - 'a'), true
	case 'A' <= r && r <= 'Z':
		return int(r - 'A'), true
	default:
		return 0, false
	}
}

// ShiftEncode advances letter by key positions and returns it upper case.
// The result for non-letters is unspecified.
func ShiftEncode(letter rune, key int) rune {
	idx, _ := Index(letter)
	return rune('A' + mod(idx+key))
}

// ShiftDecode moves letter back by key positions and returns it lower case.
// The result for non-letters is unspecified.
func ShiftDecode(letter rune, key int) rune {
	idx, _ := Index(letter)
	return rune('a' + mod(idx-key))
}

// Clean keeps only the letters of s, lower-cased.
func Clean(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if idx, ok := Index(r); ok {
			b.WriteByte(byte('a' + idx))
		}
	}
	return b.String()
}

// ParseKey converts a keyword such as "lemon" into its shift values.
func ParseKey(key string) ([]int, error) {
	if key == "" {
		return nil, fmt.Errorf("key is empty")
	}
	shifts := make([]int, 0, len(key))
	for _, r := range key {
		idx, ok := Index(r)
		if !ok {
			return nil, fmt.Errorf("key contains non-letter %q", r)
		}
		shifts = append(shifts, idx)
	}
	return shifts, nil
}

// FormatKey renders shift values as a lower-case keyword.
func FormatKey(shifts []int) string {
	var b strings.Builder
	b.Grow(len(shifts))
	for _, s := range shifts {
		b.WriteByte(byte('a' + mod(s)))
	}
	return b.String()
}

func mod(n int) int {
	n %= Size
	if n < 0 {
		n += Size
	}
	return n
}
