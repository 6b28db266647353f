// Package mp3 holds file-level helpers for the station's MP3 library:
// filename sanitization and ID3 tag rewriting.
package mp3

import (
	"sort"
	"strings"
)

// deleted lists every character that MakeSafe drops outright: ASCII
// punctuation, whitespace, en/em dashes and the handful of ideographs seen
// in the catalog so far. The table is open by design; characters outside it
// and outside the transliteration table pass through and are caught by
// BadChars at the call site.
const deleted = " !\"#%&'()*+,-./:;<=>?@[\\]^_`{|}~–—あいごま고말싶은하"

// transliterations maps accented, extended Latin and Cyrillic characters to
// their closest bare-ASCII equivalent. Keep both strings aligned.
const (
	translitFrom = "²ÉÜàáâãäçèéêíðñóöúüşКСавеийкмност"
	translitTo   = "2EUaaaaaceeeidnoouusKSaveijkmnost"
)

var (
	deleteSet    map[rune]struct{}
	translitions map[rune]rune
)

func init() {
	deleteSet = make(map[rune]struct{})
	for _, r := range deleted {
		deleteSet[r] = struct{}{}
	}

	from := []rune(translitFrom)
	to := []rune(translitTo)
	if len(from) != len(to) {
		panic("mp3: transliteration tables are misaligned")
	}
	translitions = make(map[rune]rune, len(from))
	for i, r := range from {
		translitions[r] = to[i]
	}
}

// MakeSafe converts a string to a safe string with no spaces or special
// characters, for use as a filesystem path segment.
func MakeSafe(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if _, drop := deleteSet[r]; drop {
			continue
		}
		if repl, ok := translitions[r]; ok {
			b.WriteRune(repl)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isAllowed(r rune) bool {
	return (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
}

// BadChars returns the distinct characters of s outside [A-Za-z0-9], sorted
// by code point ascending. Callers report the first entry with its numeric
// code point when rejecting input.
func BadChars(s string) []rune {
	seen := make(map[rune]struct{})
	for _, r := range s {
		if !isAllowed(r) {
			seen[r] = struct{}{}
		}
	}
	if len(seen) == 0 {
		return nil
	}
	out := make([]rune, 0, len(seen))
	for r := range seen {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
