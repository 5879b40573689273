package ingestor

import (
	"math"
	"testing"
)

func FuzzParseNumbers(f *testing.F) {
	f.Add("64 34 25 12 22 11 90")
	f.Add("5,3;8\t1")
	f.Add("NaN Inf -0 1e308 1e309")
	f.Add("")

	f.Fuzz(func(t *testing.T, text string) {
		values, rejected := ParseNumbers(text)
		for _, v := range values {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				t.Fatalf("non-finite value %v accepted from %q", v, text)
			}
		}
		for _, r := range rejected {
			if r == "" {
				t.Fatalf("empty rejected token from %q", text)
			}
		}
	})
}
