package profile

import (
	"fmt"
	"strings"
)

// Unknown marks a field the normalizer could not recover.
const Unknown = "unknown"

// Seniority is the closed set of career levels.
type Seniority string

const (
	Junior    Seniority = "junior"
	Mid       Seniority = "mid"
	Senior    Seniority = "senior"
	Executive Seniority = "executive"
)

// Valid reports whether s is one of the defined levels.
func (s Seniority) Valid() bool {
	switch s {
	case Junior, Mid, Senior, Executive:
		return true
	}
	return false
}

// Style is the closed set of communication styles.
type Style string

const (
	Formal Style = "formal"
	Casual Style = "casual"
	Mixed  Style = "mixed"
)

// Valid reports whether s is one of the defined styles.
func (s Style) Valid() bool {
	switch s {
	case Formal, Casual, Mixed:
		return true
	}
	return false
}

// ParseStyle converts a user-supplied tone label into a Style.
func ParseStyle(v string) (Style, error) {
	s := Style(strings.ToLower(strings.TrimSpace(v)))
	if !s.Valid() {
		return "", fmt.Errorf("invalid style %q: must be one of formal, casual, mixed", v)
	}
	return s, nil
}

// Channel identifies an outreach medium.
type Channel string

const (
	Email       Channel = "email"
	LinkedInDM  Channel = "linkedin_dm"
	WhatsApp    Channel = "whatsapp"
	SMS         Channel = "sms"
	InstagramDM Channel = "instagram_dm"
)

// AllChannels returns the five channels in canonical order.
func AllChannels() []Channel {
	return []Channel{Email, LinkedInDM, WhatsApp, SMS, InstagramDM}
}

// Valid reports whether c is one of the five outreach channels.
func (c Channel) Valid() bool {
	switch c {
	case Email, LinkedInDM, WhatsApp, SMS, InstagramDM:
		return true
	}
	return false
}

// HasSubject reports whether messages on c carry a subject line.
func (c Channel) HasSubject() bool { return c == Email }

// ParseChannel converts a channel identifier into a Channel.
func ParseChannel(v string) (Channel, error) {
	c := Channel(strings.ToLower(strings.TrimSpace(v)))
	if !c.Valid() {
		return "", fmt.Errorf("invalid channel %q: must be one of email, linkedin_dm, whatsapp, sms, instagram_dm", v)
	}
	return c, nil
}

// ParseChannels parses a list of channel identifiers, dropping duplicates.
func ParseChannels(vs []string) ([]Channel, error) {
	seen := make(map[Channel]bool, len(vs))
	out := make([]Channel, 0, len(vs))
	for _, v := range vs {
		c, err := ParseChannel(v)
		if err != nil {
			return nil, err
		}
		if seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out, nil
}

// Source names where a profile came from.
type Source string

const (
	SourceDemo     Source = "demo"
	SourceLinkedIn Source = "linkedin"
	SourceGitHub   Source = "github"
	SourceText     Source = "text"
	SourcePDF      Source = "pdf"
)

// Profile is a structured description of an outreach target. Profiles are
// produced by the Normalizer and treated as immutable afterwards; use Clone
// before handing one to code that may modify its slices.
type Profile struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Role            string    `json:"role"`
	Company         string    `json:"company"`
	Industry        string    `json:"industry"`
	Seniority       Seniority `json:"seniority"`
	Style           Style     `json:"communication_style"`
	Skills          []string  `json:"skills"`
	Interests       []string  `json:"interests"`
	Education       string    `json:"education,omitempty"`
	Email           string    `json:"email,omitempty"`
	Location        string    `json:"location,omitempty"`
	Bio             string    `json:"bio,omitempty"`
	About           string    `json:"about,omitempty"`
	YearsExperience int       `json:"years_experience,omitempty"`
	ProfileURL      string    `json:"profile_url,omitempty"`
	Source          Source    `json:"source"`
}

// Clone returns a deep copy of p.
func (p Profile) Clone() Profile {
	cp := p
	cp.Skills = cloneStrings(p.Skills)
	cp.Interests = cloneStrings(p.Interests)
	return cp
}

// FirstName returns the first word of the name, or the whole name.
func (p Profile) FirstName() string {
	if i := strings.IndexByte(p.Name, ' '); i > 0 {
		return p.Name[:i]
	}
	return p.Name
}

// FreeText returns the profile's self-written text (bio and about).
func (p Profile) FreeText() string {
	switch {
	case p.Bio == "":
		return p.About
	case p.About == "":
		return p.Bio
	default:
		return p.Bio + "\n" + p.About
	}
}

// Known reports whether v is a recovered value rather than the sentinel.
func Known(v string) bool { return v != "" && v != Unknown }

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}
