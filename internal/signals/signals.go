// Package signals extracts stylistic text signals (formality cues, emoji,
// vocabulary) from profile free text. All functions are pure.
package signals

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold strips diacritics and case-folds s so that keyword matching is
// accent- and case-insensitive ("Señor Diréctor" -> "senor director").
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC, cases.Fold())
	out, _, err := transform.String(t, s)
	if err != nil {
		return strings.ToLower(s)
	}
	return strings.ReplaceAll(out, "’", "'")
}

// Words splits folded text into word tokens. Apostrophes and '+' stay
// inside tokens so contractions and "10+" survive.
func Words(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\'' && r != '’' && r != '+'
	})
}

// ContainsPhrase reports whether the token sequence of phrase occurs in
// text on word boundaries, after folding both.
func ContainsPhrase(text, phrase string) bool {
	return containsTokens(Words(Fold(text)), Words(Fold(phrase)))
}

func containsTokens(hay, needle []string) bool {
	if len(needle) == 0 || len(needle) > len(hay) {
		return false
	}
outer:
	for i := 0; i+len(needle) <= len(hay); i++ {
		for j, w := range needle {
			if hay[i+j] != w {
				continue outer
			}
		}
		return true
	}
	return false
}

// IsEmoji reports whether r falls in one of the pictographic ranges counted
// as emoji.
func IsEmoji(r rune) bool {
	switch {
	case r >= 0x1F600 && r <= 0x1F64F: // emoticons
	case r >= 0x1F300 && r <= 0x1F5FF: // symbols & pictographs
	case r >= 0x1F680 && r <= 0x1F6FF: // transport & map
	case r >= 0x1F1E0 && r <= 0x1F1FF: // flags
	case r >= 0x1F900 && r <= 0x1F9FF: // supplemental symbols
	case r >= 0x2600 && r <= 0x27BF: // misc symbols, dingbats
	default:
		return false
	}
	return true
}

// CountEmoji returns the number of emoji runes in s.
func CountEmoji(s string) int {
	n := 0
	for _, r := range s {
		if IsEmoji(r) {
			n++
		}
	}
	return n
}
