package profile

import (
	"fmt"
	"hash/fnv"
	"strings"
	"unicode"

	"github.com/kalambet/coldreach/internal/signals"
)

// Fields is the loosely-typed input to FromFields: whatever a demo entry,
// remote fetch, PDF, or text parse managed to recover.
type Fields struct {
	Name            string
	Role            string
	Company         string
	Industry        string
	Skills          []string
	Interests       []string
	Education       string
	Email           string
	Location        string
	Bio             string
	About           string
	YearsExperience int
	ProfileURL      string
	Source          Source
}

// Normalizer turns identifiers and freeform text into Profiles. It holds
// only the immutable demo table and is safe for concurrent use.
type Normalizer struct {
	demos map[string]Profile
	keys  []string
}

// NewNormalizer builds a Normalizer over the given demo profiles.
func NewNormalizer(demos []Demo) *Normalizer {
	n := &Normalizer{demos: make(map[string]Profile)}
	for _, d := range demos {
		n.keys = append(n.keys, d.Key)
		for _, alias := range d.Aliases() {
			n.demos[strings.ToLower(alias)] = d.Profile.Clone()
		}
	}
	return n
}

// DefaultNormalizer returns a Normalizer over the built-in demo profiles.
func DefaultNormalizer() *Normalizer { return NewNormalizer(Demos()) }

// DemoKeys lists the primary demo keys in declaration order.
func (n *Normalizer) DemoKeys() []string {
	out := make([]string, len(n.keys))
	copy(out, n.keys)
	return out
}

// Demo returns the canned profile for a demo key, alias, or profile URL.
func (n *Normalizer) Demo(identifier string) (Profile, bool) {
	p, ok := n.demos[strings.ToLower(strings.TrimSpace(identifier))]
	if !ok {
		return Profile{}, false
	}
	return p.Clone(), true
}

// Normalize returns the demo profile matching input, or a best-effort
// profile parsed from input as freeform text. Fields that cannot be
// recovered are set to Unknown. Only empty or whitespace-only input fails.
func (n *Normalizer) Normalize(input string) (Profile, error) {
	text := strings.TrimSpace(input)
	if text == "" {
		return Profile{}, &NormalizationError{Input: input, Reason: "input is empty"}
	}
	if p, ok := n.Demo(text); ok {
		return p, nil
	}

	f := ParseText(text)
	f.Source = SourceText
	id := DeriveID(f.Email, f.Name, f.Company)
	if id == "" {
		id = textID(text)
	}
	return FromFields(id, f)
}

// ParseText recovers whatever profile fields it can from freeform text,
// such as a pasted bio or the text layer of a profile PDF.
func ParseText(text string) Fields {
	f := parseText(text)
	if f.About == "" {
		f.About = text
	}
	return f
}

// FromFields builds a Profile from pre-extracted fields, filling gaps with
// Unknown and inferring seniority and style. It fails only when f carries
// nothing that identifies a person.
func FromFields(id string, f Fields) (Profile, error) {
	f.Name = strings.TrimSpace(f.Name)
	f.Role = strings.TrimSpace(f.Role)
	f.Company = strings.TrimSpace(f.Company)
	f.Bio = strings.TrimSpace(f.Bio)
	f.About = strings.TrimSpace(f.About)
	if f.Name == "" && f.Role == "" && f.Company == "" && f.Bio == "" && f.About == "" {
		return Profile{}, &NormalizationError{Input: id, Reason: "no usable profile fields"}
	}

	if f.Industry == "" {
		f.Industry = inferIndustry(strings.Join([]string{f.Role, f.Company, f.Bio, f.About}, "\n"))
	}
	if id == "" {
		id = DeriveID(f.Email, f.Name, f.Company)
	}
	if f.Source == "" {
		f.Source = SourceText
	}

	p := Profile{
		ID:              id,
		Name:            orUnknown(f.Name),
		Role:            orUnknown(f.Role),
		Company:         orUnknown(f.Company),
		Industry:        orUnknown(strings.TrimSpace(f.Industry)),
		Seniority:       InferSeniority(f.Role, f.YearsExperience),
		Skills:          dedupe(f.Skills),
		Interests:       dedupe(f.Interests),
		Education:       strings.TrimSpace(f.Education),
		Email:           strings.ToLower(strings.TrimSpace(f.Email)),
		Location:        strings.TrimSpace(f.Location),
		Bio:             f.Bio,
		About:           f.About,
		YearsExperience: f.YearsExperience,
		ProfileURL:      strings.TrimSpace(f.ProfileURL),
		Source:          f.Source,
	}
	p.Style = InferStyle(p.FreeText())
	if p.ID == "" {
		p.ID = textID(p.FreeText())
	}
	return p, nil
}

var (
	executiveMarkers = []string{
		"founder", "cofounder", "ceo", "cto", "cfo", "coo", "cmo", "cpo",
		"president", "chief", "vp", "vice president", "director", "head of",
	}
	// ownerMarkers only signal an executive when no other level keyword
	// is present, and never as part of "product owner".
	ownerMarkers  = []string{"partner", "owner"}
	seniorMarkers = []string{"senior", "sr", "lead", "principal", "staff", "architect"}
	juniorMarkers = []string{"junior", "jr", "intern", "student", "graduate", "trainee", "apprentice"}
	midMarkers    = []string{"mid", "intermediate", "specialist", "associate"}
)

// InferSeniority classifies a role title, falling back to years of
// experience when the title carries no level keyword.
func InferSeniority(role string, years int) Seniority {
	switch {
	case containsAny(role, executiveMarkers):
		return Executive
	case containsAny(role, juniorMarkers):
		return Junior
	case containsAny(role, seniorMarkers):
		return Senior
	case containsAny(role, midMarkers):
		return Mid
	case containsAny(role, ownerMarkers) && !signals.ContainsPhrase(role, "product owner"):
		return Executive
	}
	switch {
	case years >= 12:
		return Executive
	case years >= 6:
		return Senior
	case years >= 3:
		return Mid
	case years > 0:
		return Junior
	default:
		return Mid
	}
}

// InferStyle maps the formality of free text to a Style. Text with no
// signals at all is Mixed.
func InferStyle(text string) Style {
	c := signals.Analyze(text)
	if c.Empty() {
		return Mixed
	}
	switch f := c.Formality(); {
	case f >= 0.6:
		return Formal
	case f <= 0.4:
		return Casual
	default:
		return Mixed
	}
}

// DeriveID picks a stable identifier: the lowercased email when known,
// otherwise a name_company slug. Returns "" when neither is available.
func DeriveID(email, name, company string) string {
	if e := strings.ToLower(strings.TrimSpace(email)); e != "" {
		return e
	}
	if !Known(name) {
		return ""
	}
	if Known(company) {
		return Slug(name + "_" + company)
	}
	return Slug(name)
}

// Slug lowercases s and replaces runs of non-alphanumerics with "_".
func Slug(s string) string {
	var b strings.Builder
	pendingSep := false
	for _, r := range signals.Fold(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(r)
			continue
		}
		pendingSep = true
	}
	return b.String()
}

func textID(text string) string {
	h := fnv.New32a()
	h.Write([]byte(text))
	return fmt.Sprintf("text_%08x", h.Sum32())
}

func orUnknown(v string) string {
	if v == "" {
		return Unknown
	}
	return v
}

func containsAny(text string, phrases []string) bool {
	for _, p := range phrases {
		if signals.ContainsPhrase(text, p) {
			return true
		}
	}
	return false
}

// dedupe trims entries and removes case- and accent-insensitive duplicates,
// keeping the first occurrence.
func dedupe(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		k := signals.Fold(s)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, s)
	}
	return out
}
