package composer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kalambet/coldreach/internal/insight"
	"github.com/kalambet/coldreach/internal/profile"
)

func TestEstimateReplyRate(t *testing.T) {
	p := profile.Profile{Name: "Jane Roe", Company: "Acme", Seniority: profile.Mid}
	in := insight.Insights{FormalityScore: 0.5}

	generic := EstimateReplyRate(p, in, profile.Email, profile.Mixed, "Hello there.")
	personal := EstimateReplyRate(p, in, profile.Email, profile.Mixed, "Hi Jane, I saw what Acme is doing.")
	assert.InDelta(t, 0.25+0.15+0.03, generic, 1e-9)
	assert.InDelta(t, generic+0.10, personal, 1e-9)

	mismatched := EstimateReplyRate(p, in, profile.Email, profile.Formal, "Hello there.")
	assert.Less(t, mismatched, generic)

	p.Seniority = profile.Executive
	assert.Greater(t, EstimateReplyRate(p, in, profile.Email, profile.Mixed, "Hello there."), generic)
}

func TestEstimateReplyRateChannelOrder(t *testing.T) {
	p := profile.Profile{Seniority: profile.Junior}
	in := insight.Insights{FormalityScore: 0.5}
	rate := func(ch profile.Channel) float64 { return EstimateReplyRate(p, in, ch, profile.Mixed, "") }
	assert.Greater(t, rate(profile.WhatsApp), rate(profile.SMS))
	assert.Greater(t, rate(profile.SMS), rate(profile.LinkedInDM))
	assert.Greater(t, rate(profile.LinkedInDM), rate(profile.Email))
	assert.Greater(t, rate(profile.Email), rate(profile.InstagramDM))
}

func TestEstimateReplyRateClipped(t *testing.T) {
	p := profile.Profile{Name: "A B", Company: "C", Seniority: profile.Executive}
	for _, f := range []float64{-3, 0, 1, 7} {
		r := EstimateReplyRate(p, insight.Insights{FormalityScore: f}, profile.WhatsApp, profile.Casual, "A at C")
		assert.GreaterOrEqual(t, r, 0.0)
		assert.LessOrEqual(t, r, 1.0)
	}
}
