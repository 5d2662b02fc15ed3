// Package loader reads ciphertext and sample text from files.
package loader

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sinkbrookstein/Cryptography/internal/alphabet"
)

// Load reads the file at path and returns its letters, lower-cased.
func Load(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only input.
			_ = cerr
		}
	}()
	return Read(file)
}

// Read returns the letters of r, lower-cased. Whitespace, digits and
// punctuation are dropped. Input without letters is an error.
func Read(r io.Reader) (string, error) {
	var text strings.Builder
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		text.WriteString(alphabet.Clean(scanner.Text()))
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	if text.Len() == 0 {
		return "", fmt.Errorf("input contains no letters")
	}
	return text.String(), nil
}
