package textutil

import (
	"math"
	"strings"
)

// Fingerprint represents a term-frequency vector for text similarity comparison.
type Fingerprint struct {
	tokens map[string]float64
	norm   float64
}

// NewFingerprint creates a fingerprint from the provided text.
// Returns nil if the text produces no tokens.
func NewFingerprint(text string) *Fingerprint {
	tokens := Tokenize(text)
	if len(tokens) == 0 {
		return nil
	}
	counts := make(map[string]float64, len(tokens))
	for _, token := range tokens {
		counts[token]++
	}
	var sum float64
	for _, count := range counts {
		sum += count * count
	}
	return &Fingerprint{
		tokens: counts,
		norm:   math.Sqrt(sum),
	}
}

// Tokenize splits normalized text into its word tokens.
func Tokenize(text string) []string {
	normalized := Normalize(text)
	if normalized == "" {
		return nil
	}
	return strings.Fields(normalized)
}
