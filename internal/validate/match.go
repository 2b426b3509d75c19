package validate

import (
	"regexp"
	"strings"

	"github.com/texttheater/golang-levenshtein/levenshtein"
)

// nonWordRe strips punctuation from transcripts; word characters and spaces
// survive normalisation.
var nonWordRe = regexp.MustCompile(`[^\w\s]`)

// NormalizeTranscript lower-cases, trims and strips punctuation so the
// matcher compares bare words.
func NormalizeTranscript(transcribed string) string {
	return nonWordRe.ReplaceAllString(strings.ToLower(strings.TrimSpace(transcribed)), "")
}

// MatchesLetter reports whether a transcript is an acceptable rendering of
// the expected letter. Containment is checked in both directions: a variant
// inside the transcript tolerates padded output ("the letter bee"), the
// transcript inside a variant tolerates truncated output ("be" for "bee").
// A single-character transcript equal to the letter always matches.
func MatchesLetter(transcribed, expectedLetter string) bool {
	if transcribed == "" {
		return false
	}

	clean := NormalizeTranscript(transcribed)

	for _, variant := range VariantsFor(expectedLetter) {
		if strings.Contains(clean, variant) || (clean != "" && strings.Contains(variant, clean)) {
			return true
		}
	}

	return len(clean) == 1 && clean == strings.ToLower(expectedLetter)
}

// NearestVariant finds the accepted variant closest to the transcript by
// character edit distance. Diagnostic only: it annotates mismatches in the
// report so reviewers can see near misses, and never influences the match
// decision.
func NearestVariant(transcribed, expectedLetter string) (variant string, distance int) {
	clean := []rune(NormalizeTranscript(transcribed))

	best := ""
	bestDist := -1
	for _, v := range VariantsFor(expectedLetter) {
		d := levenshtein.DistanceForStrings(clean, []rune(v), levenshtein.DefaultOptions)
		if bestDist < 0 || d < bestDist {
			best, bestDist = v, d
		}
	}
	return best, bestDist
}
