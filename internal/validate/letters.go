package validate

import "strings"

// letterVariants maps each letter to the spellings accepted as a correct
// rendering of its pronunciation. The lists are curated from transcripts of
// real ASR output on short letter utterances: canonical spellings plus the
// confusions the recognisers actually produce (homophones like "sea", padded
// renderings like "eff"). Data-driven so the lists can grow without touching
// the matching algorithm.
var letterVariants = map[string][]string{
	"A": {"a", "ay", "eh", "aye"},
	"B": {"b", "be", "bee"},
	"C": {"c", "see", "sea"},
	"D": {"d", "de", "dee"},
	"E": {"e", "ee", "ea"},
	"F": {"f", "ef", "eff"},
	"G": {"g", "ge", "gee", "jee"},
	"H": {"h", "aych", "aitch", "ache"},
	"I": {"i", "eye", "aye"},
	"J": {"j", "jay", "jey"},
	"K": {"k", "kay", "kaye"},
	"L": {"l", "el", "ell"},
	"M": {"m", "em", "emm"},
	"N": {"n", "en", "enn"},
	"O": {"o", "oh", "owe"},
	"P": {"p", "pe", "pee"},
	"Q": {"q", "que", "queue", "cue"},
	"R": {"r", "ar", "arr"},
	"S": {"s", "es", "ess"},
	"T": {"t", "te", "tee"},
	"U": {"u", "you", "yoo"},
	"V": {"v", "ve", "vee"},
	"W": {"w", "double u", "double you", "dub"},
	"X": {"x", "ex", "eks"},
	"Y": {"y", "why", "wy"},
	"Z": {"z", "ze", "zee", "zed"},
}

// VariantsFor returns the accepted spellings for a letter. Letters outside
// the table (malformed filename tokens reach here) fall back to the
// lower-cased letter itself.
func VariantsFor(letter string) []string {
	if variants, ok := letterVariants[letter]; ok {
		return variants
	}
	return []string{strings.ToLower(letter)}
}
