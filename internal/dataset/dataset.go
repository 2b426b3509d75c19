// Package dataset handles the on-disk layout of the generated letter corpus:
// per-letter directories of WAV files whose names encode engine, variant and
// target letter. Filenames are an untyped convention from the generation
// subsystem, so every parse here has an explicit fallback.
package dataset

import (
	"fmt"
	"io/fs"
	"math/rand"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// Letters is the set of per-letter subdirectories a dataset root may contain.
const Letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// UnknownField is the fallback for filename tokens that cannot be parsed.
const UnknownField = "unknown"

// letterSuffixRe matches filenames ending in underscore + one lowercase letter,
// e.g. kokoro_english_female_01_a.wav.
var letterSuffixRe = regexp.MustCompile(`_([a-z])$`)

// ClipName holds the metadata tokens encoded in a clip filename
// ({engine}_{variant}_{index}_{letter}.wav).
type ClipName struct {
	Engine  string
	Variant string
	Letter  string // upper-cased last token, not validated as A-Z
}

// ParseClipName extracts engine/variant/letter tokens from a clip path.
// Malformed names degrade to UnknownField rather than failing; downstream
// consumers must tolerate letters that are not a single A-Z character.
func ParseClipName(path string) ClipName {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	parts := strings.Split(stem, "_")

	name := ClipName{
		Engine:  UnknownField,
		Variant: UnknownField,
		Letter:  UnknownField,
	}
	if len(parts) > 0 && parts[0] != "" {
		name.Engine = parts[0]
	}
	if len(parts) > 1 {
		name.Variant = parts[1]
	}
	if last := parts[len(parts)-1]; last != "" {
		name.Letter = strings.ToUpper(last)
	}
	return name
}

// ExpectedLetter extracts the target letter a clip is supposed to contain.
// Unlike ParseClipName this is strict: the stem must end with exactly one
// lowercase letter after an underscore. Returns "", false otherwise.
func ExpectedLetter(path string) (string, bool) {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	m := letterSuffixRe.FindStringSubmatch(strings.ToLower(stem))
	if m == nil {
		return "", false
	}
	return strings.ToUpper(m[1]), true
}

// Scan walks root recursively and returns all WAV file paths in lexicographic
// order. Non-WAV files are ignored. Returns an error if the root is missing.
func Scan(root string) ([]string, error) {
	if _, err := os.Stat(root); err != nil {
		return nil, fmt.Errorf("directory not found: %s", root)
	}

	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && isWAV(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", root, err)
	}

	sort.Strings(files)
	return files, nil
}

// ListLetterDir returns the WAV files directly inside root/letter, sorted.
// A missing letter directory is not an error; it returns ok=false so the
// caller can skip letters the generator never produced.
func ListLetterDir(root, letter string) (files []string, ok bool, err error) {
	dir := filepath.Join(root, letter)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read %s: %w", dir, err)
	}

	for _, e := range entries {
		if !e.IsDir() && isWAV(e.Name()) {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)
	return files, true, nil
}

// Sample reduces a file list per the CLI sampling controls: fraction picks a
// random subset (at least one file), max then caps the count. Zero values
// disable the respective control. The result is re-sorted so batch traversal
// order stays deterministic for a given selection.
func Sample(files []string, fraction float64, max int, rng *rand.Rand) []string {
	out := files
	if fraction > 0 && fraction < 1.0 && len(files) > 0 {
		size := int(float64(len(files)) * fraction)
		if size < 1 {
			size = 1
		}
		picked := make([]string, 0, size)
		for _, i := range rng.Perm(len(files))[:size] {
			picked = append(picked, files[i])
		}
		sort.Strings(picked)
		out = picked
	}
	if max > 0 && len(out) > max {
		out = out[:max]
	}
	return out
}

// RelPath returns path relative to base, or the path unchanged when it cannot
// be made relative (clips outside the dataset root keep their full path).
func RelPath(base, path string) string {
	rel, err := filepath.Rel(base, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}

func isWAV(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".wav")
}
