package ingestor

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
)

func isSeparator(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\v', '\f', ',', ';':
		return true
	}
	return false
}

// ParseNumbers splits text on whitespace, commas and semicolons and returns
// the tokens that parse as finite numbers, in order. Everything else is
// returned as rejected.
func ParseNumbers(text string) ([]float64, []string) {
	var values []float64
	var rejected []string
	for _, tok := range strings.FieldsFunc(text, isSeparator) {
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			rejected = append(rejected, tok)
			continue
		}
		values = append(values, v)
	}
	return values, rejected
}

// ParseNumberFile reads numbers from path. Lines starting with '#' are
// comments.
func ParseNumberFile(path string) ([]float64, []string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	var values []float64
	var rejected []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		v, r := ParseNumbers(line)
		values = append(values, v...)
		rejected = append(rejected, r...)
	}

	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return values, rejected, nil
}
