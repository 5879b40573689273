package testutil

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// GenerateNumberFile writes numLines pseudo-random numbers, one per line,
// to a file in a test-scoped temp directory and returns its path. Every
// tenth line is a comment or a blank line so readers have to skip them.
func GenerateNumberFile(t testing.TB, numLines int) string {
	t.Helper()

	rng := rand.New(rand.NewSource(int64(numLines)))

	var content strings.Builder
	content.WriteString("# generated numbers\n")
	for i := 0; i < numLines; i++ {
		switch {
		case i%10 == 9 && i%20 == 19:
			content.WriteString("\n")
		case i%10 == 9:
			content.WriteString("# comment line\n")
		default:
			fmt.Fprintf(&content, "%g\n", float64(rng.Intn(2000)-1000)/4)
		}
	}

	path := filepath.Join(t.TempDir(), "numbers.txt")
	if err := os.WriteFile(path, []byte(content.String()), 0644); err != nil {
		t.Fatalf("Failed to write number file: %v", err)
	}
	return path
}

// TempFilePath returns a cross-platform temporary file path
// with the given pattern. Does not create the file.
func TempFilePath(t testing.TB, pattern string) string {
	t.Helper()

	tmpFile, err := os.CreateTemp("", pattern)
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}

	path := tmpFile.Name()
	tmpFile.Close()
	os.Remove(path) // Remove immediately, just need the path

	return path
}
