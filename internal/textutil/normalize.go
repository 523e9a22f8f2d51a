package textutil

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// nonWordPattern matches runs of characters that are neither letters, numbers,
// combining marks, nor underscores.
var nonWordPattern = regexp.MustCompile(`[^\pL\pN\pM_]+`)

var lowerCaser = cases.Lower(language.Und)

// NFC returns text in Unicode canonical composition form.
func NFC(text string) string {
	return norm.NFC.String(text)
}

// Normalize canonicalizes text for equality comparison: NFC, lowercase,
// every non-word run collapsed to a single space, trimmed.
// Normalize(Normalize(s)) == Normalize(s) for every s.
func Normalize(text string) string {
	lowered := lowerCaser.String(norm.NFC.String(text))
	// Lowercasing can produce decomposed sequences for a few code points.
	lowered = norm.NFC.String(lowered)
	return strings.TrimSpace(nonWordPattern.ReplaceAllString(lowered, " "))
}

// FormatTitle produces the display form of a title used in output names.
// Non-word runs become single spaces and the result is trimmed. When
// capitalize is set, each token gets an upper-case first letter and a
// lower-case remainder.
func FormatTitle(text string, capitalize bool) string {
	collapsed := strings.TrimSpace(nonWordPattern.ReplaceAllString(norm.NFC.String(text), " "))
	if !capitalize || collapsed == "" {
		return collapsed
	}
	tokens := strings.Split(collapsed, " ")
	for i, token := range tokens {
		tokens[i] = capitalizeToken(token)
	}
	return strings.Join(tokens, " ")
}

func capitalizeToken(token string) string {
	first, size := utf8.DecodeRuneInString(token)
	if first == utf8.RuneError {
		return token
	}
	return string(unicode.ToTitle(first)) + lowerCaser.String(token[size:])
}
