// Package cipher applies a Vigenère key to letter-only text.
package cipher

import (
	"fmt"
	"strings"

	"github.com/sinkbrookstein/Cryptography/internal/alphabet"
)

// Encrypt enciphers plaintext with a keyword. Output is upper case.
func Encrypt(plaintext, key string) (string, error) {
	shifts, err := alphabet.ParseKey(key)
	if err != nil {
		return "", err
	}
	return EncryptShifts(plaintext, shifts)
}

// Decrypt deciphers ciphertext with a keyword. Output is lower case.
func Decrypt(ciphertext, key string) (string, error) {
	shifts, err := alphabet.ParseKey(key)
	if err != nil {
		return "", err
	}
	return DecryptShifts(ciphertext, shifts)
}

// EncryptShifts enciphers plaintext, using shifts[i mod len(shifts)] for
// the letter at position i.
func EncryptShifts(plaintext string, shifts []int) (string, error) {
	return transform(plaintext, shifts, alphabet.ShiftEncode)
}

// DecryptShifts is the inverse of EncryptShifts.
func DecryptShifts(ciphertext string, shifts []int) (string, error) {
	return transform(ciphertext, shifts, alphabet.ShiftDecode)
}

func transform(text string, shifts []int, shift func(rune, int) rune) (string, error) {
	if len(shifts) == 0 {
		return "", fmt.Errorf("key is empty")
	}
	var b strings.Builder
	b.Grow(len(text))
	i := 0
	for _, r := range text {
		if !alphabet.IsLetter(r) {
			return "", fmt.Errorf("text contains non-letter %q at position %d", r, i)
		}
		b.WriteRune(shift(r, shifts[i%len(shifts)]))
		i++
	}
	return b.String(), nil
}
