package composer

import (
	"math"

	"github.com/kalambet/coldreach/internal/insight"
	"github.com/kalambet/coldreach/internal/profile"
	"github.com/kalambet/coldreach/internal/signals"
)

var channelBaseRate = map[profile.Channel]float64{
	profile.Email:       0.25,
	profile.LinkedInDM:  0.30,
	profile.WhatsApp:    0.40,
	profile.SMS:         0.35,
	profile.InstagramDM: 0.20,
}

var toneFormality = map[profile.Style]float64{
	profile.Formal: 0.85,
	profile.Mixed:  0.5,
	profile.Casual: 0.2,
}

var seniorityBonus = map[profile.Seniority]float64{
	profile.Junior:    0,
	profile.Mid:       0.03,
	profile.Senior:    0.06,
	profile.Executive: 0.09,
}

const (
	formalityMatchWeight = 0.15
	personalizationBonus = 0.05
)

// EstimateReplyRate is the closed-form reply-probability heuristic: a base
// rate per channel, raised when the chosen tone matches the profile's
// formality, raised with seniority, raised when the content names the
// person or company, and clipped to [0,1].
func EstimateReplyRate(p profile.Profile, in insight.Insights, ch profile.Channel, tone profile.Style, content string) float64 {
	rate := channelBaseRate[ch]

	tf, ok := toneFormality[tone]
	if !ok {
		tf = toneFormality[profile.Mixed]
	}
	rate += formalityMatchWeight * (1 - math.Abs(signals.Clamp01(in.FormalityScore)-tf))
	rate += seniorityBonus[p.Seniority]

	if profile.Known(p.Name) && signals.ContainsPhrase(content, p.FirstName()) {
		rate += personalizationBonus
	}
	if profile.Known(p.Company) && signals.ContainsPhrase(content, p.Company) {
		rate += personalizationBonus
	}
	return signals.Clamp01(rate)
}
