// Package insight derives style and targeting signals from a Profile.
package insight

import (
	"github.com/kalambet/coldreach/internal/profile"
	"github.com/kalambet/coldreach/internal/signals"
)

// EmojiUsage buckets how heavily a profile uses emoji.
type EmojiUsage string

const (
	EmojiNone       EmojiUsage = "none"
	EmojiOccasional EmojiUsage = "occasional"
	EmojiFrequent   EmojiUsage = "frequent"
)

// Insights is derived from exactly one Profile and recomputed per request.
type Insights struct {
	FormalityScore float64           `json:"formality_score"`
	EmojiUsage     EmojiUsage        `json:"emoji_usage"`
	PainPoints     []string          `json:"pain_points"`
	Channels       []profile.Channel `json:"preferred_channels"`
}

// Extractor computes Insights from a Profile using fixed lookup tables.
// It holds no mutable state and is safe for concurrent use.
type Extractor struct {
	t Tables
}

// New creates an Extractor over a private copy of t.
func New(t Tables) *Extractor {
	return &Extractor{t: copyTables(t)}
}

// Default creates an Extractor over DefaultTables.
func Default() *Extractor { return New(DefaultTables()) }

// Extract derives Insights from p. It never fails; unknown inputs fall back
// to defaults.
func (e *Extractor) Extract(p profile.Profile) Insights {
	text := p.FreeText()
	return Insights{
		FormalityScore: formality(text, p.Style),
		EmojiUsage:     emojiLevel(signals.CountEmoji(text)),
		PainPoints:     e.painPoints(p.Role),
		Channels:       e.channels(p.Seniority, p.Style),
	}
}

// styleFormality is used when a profile has no free text to analyze.
var styleFormality = map[profile.Style]float64{
	profile.Formal: 0.8,
	profile.Mixed:  0.5,
	profile.Casual: 0.3,
}

func formality(text string, style profile.Style) float64 {
	c := signals.Analyze(text)
	if c.Empty() {
		if f, ok := styleFormality[style]; ok {
			return f
		}
		return 0.5
	}
	return c.Formality()
}

func emojiLevel(n int) EmojiUsage {
	switch {
	case n == 0:
		return EmojiNone
	case n <= 2:
		return EmojiOccasional
	default:
		return EmojiFrequent
	}
}

func (e *Extractor) painPoints(role string) []string {
	if profile.Known(role) {
		for _, rule := range e.t.RoleRules {
			for _, kw := range rule.Keywords {
				if signals.ContainsPhrase(role, kw) {
					return append([]string(nil), rule.PainPoints...)
				}
			}
		}
	}
	return append([]string(nil), e.t.GenericPainPoints...)
}

func (e *Extractor) channels(s profile.Seniority, st profile.Style) []profile.Channel {
	ranked, ok := e.t.ChannelRanking[RankKey{Seniority: s, Style: st}]
	if !ok || len(ranked) == 0 {
		ranked = e.t.DefaultChannels
	}
	out := make([]profile.Channel, 0, len(ranked))
	seen := make(map[profile.Channel]bool, len(ranked))
	for _, c := range ranked {
		if !c.Valid() || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	if len(out) == 0 {
		out = append(out, profile.Email)
	}
	return out
}

func copyTables(t Tables) Tables {
	cp := Tables{
		GenericPainPoints: append([]string(nil), t.GenericPainPoints...),
		DefaultChannels:   append([]profile.Channel(nil), t.DefaultChannels...),
		ChannelRanking:    make(map[RankKey][]profile.Channel, len(t.ChannelRanking)),
	}
	for _, r := range t.RoleRules {
		cp.RoleRules = append(cp.RoleRules, RoleRule{
			Keywords:   append([]string(nil), r.Keywords...),
			PainPoints: append([]string(nil), r.PainPoints...),
		})
	}
	for k, v := range t.ChannelRanking {
		cp.ChannelRanking[k] = append([]profile.Channel(nil), v...)
	}
	return cp
}
