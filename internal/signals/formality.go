package signals

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

var slang = map[string]bool{
	"lol": true, "omg": true, "tbh": true, "ngl": true, "idk": true,
	"gonna": true, "wanna": true, "kinda": true, "dunno": true, "gotta": true,
	"btw": true, "imo": true, "imho": true, "fyi": true, "asap": true,
	"lmk": true, "u": true, "ur": true, "thx": true, "pls": true,
}

var formalVocabulary = map[string]bool{
	"professional": true, "expertise": true, "leverage": true, "strategic": true,
	"initiative": true, "implement": true, "experienced": true, "passionate": true,
	"proven": true, "responsible": true, "specializing": true, "delivering": true,
}

var contractionSuffixes = []string{"n't", "'re", "'ve", "'ll", "'m", "'d"}

// Counts is the raw signal tally for a piece of free text.
type Counts struct {
	Words          int
	Sentences      int
	TitleSentences int
	Contractions   int
	Emoji          int
	Exclamations   int
	Slang          int
	Formal         int
}

// Empty reports whether the text carried no words at all.
func (c Counts) Empty() bool { return c.Words == 0 && c.Emoji == 0 }

// Analyze tallies formality signals in text.
func Analyze(text string) Counts {
	var c Counts
	c.Emoji = CountEmoji(text)
	c.Exclamations = strings.Count(text, "!")

	for _, w := range Words(Fold(text)) {
		c.Words++
		if slang[w] {
			c.Slang++
		}
		if formalVocabulary[w] {
			c.Formal++
		}
		for _, suf := range contractionSuffixes {
			if strings.HasSuffix(w, suf) {
				c.Contractions++
				break
			}
		}
	}

	for _, s := range Sentences(text) {
		c.Sentences++
		r, _ := utf8.DecodeRuneInString(s)
		if unicode.IsUpper(r) {
			c.TitleSentences++
		}
	}
	return c
}

// Sentences splits text on sentence terminators, newlines, and the "|"
// separator common in profile headlines. Empty fragments are dropped.
func Sentences(text string) []string {
	parts := strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?' || r == '\n' || r == '|' || r == '•'
	})
	out := parts[:0]
	for _, p := range parts {
		p = strings.TrimLeftFunc(p, func(r rune) bool { return !unicode.IsLetter(r) && !unicode.IsDigit(r) })
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Weights for the formality score. Each negative signal is capped so a
// single noisy field cannot dominate.
const (
	formalityBase      = 0.5
	titlecaseWeight    = 0.15
	formalWordWeight   = 0.05
	formalWordCap      = 0.2
	cleanProseBonus    = 0.05
	contractionPenalty = 0.08
	contractionCap     = 0.24
	emojiPenalty       = 0.1
	emojiCap           = 0.3
	exclaimPenalty     = 0.06
	exclaimCap         = 0.18
	slangPenalty       = 0.08
	slangCap           = 0.24
)

// Formality maps the counts into [0,1]; higher means more formal. The
// score is non-increasing in contractions, emoji, exclamations and slang,
// and non-decreasing in formal vocabulary and titlecase sentence starts.
func (c Counts) Formality() float64 {
	score := formalityBase
	if c.Sentences > 0 {
		score += titlecaseWeight * float64(c.TitleSentences) / float64(c.Sentences)
	}
	score += capped(formalWordWeight*float64(c.Formal), formalWordCap)
	if c.Contractions == 0 && c.Emoji == 0 && c.Exclamations == 0 && c.Slang == 0 && c.Words >= 10 {
		score += cleanProseBonus
	}
	score -= capped(contractionPenalty*float64(c.Contractions), contractionCap)
	score -= capped(emojiPenalty*float64(c.Emoji), emojiCap)
	score -= capped(exclaimPenalty*float64(c.Exclamations), exclaimCap)
	score -= capped(slangPenalty*float64(c.Slang), slangCap)
	return Clamp01(score)
}

func capped(v, limit float64) float64 {
	if v > limit {
		return limit
	}
	return v
}

// Clamp01 clips v into [0,1].
func Clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
