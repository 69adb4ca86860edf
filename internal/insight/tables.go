package insight

import "github.com/kalambet/coldreach/internal/profile"

// RoleRule maps role keywords to ranked pain points. A rule matches when
// any of its keywords occurs in the folded role title.
type RoleRule struct {
	Keywords   []string
	PainPoints []string
}

// RankKey selects a channel ranking.
type RankKey struct {
	Seniority profile.Seniority
	Style     profile.Style
}

// Tables is the static configuration consumed by the Extractor. Rules are
// evaluated in order; the first match wins.
type Tables struct {
	RoleRules         []RoleRule
	GenericPainPoints []string
	ChannelRanking    map[RankKey][]profile.Channel
	DefaultChannels   []profile.Channel
}

// DefaultTables returns a fresh copy of the built-in lookup tables.
func DefaultTables() Tables {
	return Tables{
		RoleRules: []RoleRule{
			{
				Keywords:   []string{"product manager", "product owner", "product lead", "head of product", "cpo"},
				PainPoints: []string{"user retention", "feature prioritization", "cross-functional coordination"},
			},
			{
				Keywords:   []string{"founder", "cofounder", "ceo", "startup"},
				PainPoints: []string{"team scaling", "product-market fit", "fundraising"},
			},
			{
				Keywords:   []string{"engineer", "developer", "cto", "programmer", "architect", "devops"},
				PainPoints: []string{"technical debt", "team productivity", "system reliability"},
			},
			{
				Keywords:   []string{"marketing", "growth", "sales", "marketer", "cmo"},
				PainPoints: []string{"lead generation", "conversion optimization", "customer acquisition cost"},
			},
			{
				Keywords:   []string{"design", "designer", "ux", "ui"},
				PainPoints: []string{"design consistency", "user research bandwidth", "handoff to engineering"},
			},
			{
				Keywords:   []string{"investor", "venture", "capitalist", "vc"},
				PainPoints: []string{"deal flow quality", "portfolio support", "due diligence speed"},
			},
			{
				Keywords:   []string{"data scientist", "analyst", "data"},
				PainPoints: []string{"data quality", "stakeholder alignment", "time to insight"},
			},
			{
				Keywords:   []string{"recruiter", "talent", "hr", "people"},
				PainPoints: []string{"candidate pipeline", "time to hire", "employer branding"},
			},
		},
		GenericPainPoints: []string{"operational efficiency", "growth", "team collaboration"},
		ChannelRanking: map[RankKey][]profile.Channel{
			{profile.Executive, profile.Formal}: {profile.Email, profile.LinkedInDM, profile.SMS},
			{profile.Executive, profile.Mixed}:  {profile.Email, profile.LinkedInDM, profile.WhatsApp},
			{profile.Executive, profile.Casual}: {profile.WhatsApp, profile.InstagramDM, profile.LinkedInDM, profile.Email},
			{profile.Senior, profile.Formal}:    {profile.Email, profile.LinkedInDM, profile.SMS},
			{profile.Senior, profile.Mixed}:     {profile.LinkedInDM, profile.Email, profile.WhatsApp},
			{profile.Senior, profile.Casual}:    {profile.WhatsApp, profile.LinkedInDM, profile.InstagramDM, profile.Email},
			{profile.Mid, profile.Formal}:       {profile.LinkedInDM, profile.Email, profile.SMS},
			{profile.Mid, profile.Mixed}:        {profile.LinkedInDM, profile.Email, profile.WhatsApp},
			{profile.Mid, profile.Casual}:       {profile.WhatsApp, profile.InstagramDM, profile.LinkedInDM},
			{profile.Junior, profile.Formal}:    {profile.LinkedInDM, profile.Email},
			{profile.Junior, profile.Mixed}:     {profile.LinkedInDM, profile.WhatsApp, profile.InstagramDM},
			{profile.Junior, profile.Casual}:    {profile.InstagramDM, profile.WhatsApp, profile.LinkedInDM},
		},
		DefaultChannels: []profile.Channel{profile.Email, profile.LinkedInDM},
	}
}
