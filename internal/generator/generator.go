// Package generator builds random keys for test ciphertexts.
package generator

import (
	"math/rand"
	"strings"
	"time"

	"github.com/sinkbrookstein/Cryptography/internal/alphabet"
)

// Generator produces random keywords.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewSeeded(time.Now().UnixNano())
}

// NewSeeded returns a Generator with a fixed seed.
func NewSeeded(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// Key returns a lower-case keyword of the given length.
func (g *Generator) Key(length int) string {
	var b strings.Builder
	b.Grow(length)
	for i := 0; i < length; i++ {
		b.WriteByte(byte('a' + g.rnd.Intn(alphabet.Size)))
	}
	return b.String()
}

// PrimitiveKey returns a keyword of the given length that is not a repetition
// of a shorter keyword, so its period equals its length.
func (g *Generator) PrimitiveKey(length int) string {
	for {
		key := g.Key(length)
		if isPrimitive(key) {
			return key
		}
	}
}

func isPrimitive(key string) bool {
	n := len(key)
	for p := 1; p < n; p++ {
		if n%p != 0 {
			continue
		}
		if strings.Repeat(key[:p], n/p) == key {
			return false
		}
	}
	return true
}
