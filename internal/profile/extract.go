package profile

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/kalambet/coldreach/internal/signals"
)

var (
	emailRe     = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	yearsRe     = regexp.MustCompile(`(?i)(\d{1,2})\s*\+?\s*(?:years?|yrs?)\b`)
	locationRe  = regexp.MustCompile(`(?i)(?:based in|located in|living in|location:)\s*([^.;|\n]+)`)
	skillsRe    = regexp.MustCompile(`(?i)\bskills?\s*(?::|include|-)\s*([^.\n|]+)`)
	interestsRe = regexp.MustCompile(`(?i)(?:\binterests?\s*:|\binterested in|\bpassionate about)\s*([^.\n|]+)`)
	labelRe     = regexp.MustCompile(`(?im)^\s*(name|role|title|company|industry|education)\s*:\s*(.+?)\s*$`)
	nameIntroRe = regexp.MustCompile(`(?:[Mm]y name is|I'm|I am)\s+((?:[A-Z][\p{L}'\-]+\s?){1,3})`)
	listSplitRe = regexp.MustCompile(`\s*(?:,|/|;|\band\b|&)\s*`)
)

var roleKeywords = map[string]bool{
	"manager": true, "engineer": true, "developer": true, "designer": true,
	"director": true, "founder": true, "cofounder": true, "ceo": true, "cto": true,
	"cfo": true, "coo": true, "cmo": true, "cpo": true, "vp": true,
	"president": true, "scientist": true, "analyst": true, "consultant": true,
	"marketer": true, "architect": true, "investor": true, "capitalist": true,
	"recruiter": true, "student": true, "intern": true, "specialist": true,
	"officer": true, "partner": true, "lead": true, "head": true, "owner": true,
	"writer": true, "researcher": true, "administrator": true, "coordinator": true,
	"executive": true, "strategist": true, "chief": true, "programmer": true,
	"accountant": true, "entrepreneur": true,
}

var roleModifiers = map[string]bool{
	"senior": true, "sr": true, "junior": true, "jr": true, "staff": true,
	"principal": true, "associate": true, "assistant": true, "product": true,
	"software": true, "data": true, "marketing": true, "design": true, "sales": true,
	"growth": true, "engineering": true, "technical": true, "frontend": true,
	"backend": true, "fullstack": true, "full": true, "stack": true, "ux": true,
	"ui": true, "general": true, "managing": true, "venture": true, "machine": true,
	"learning": true, "ml": true, "ai": true, "devops": true, "cloud": true,
	"security": true, "platform": true, "research": true, "content": true,
	"brand": true, "operations": true, "people": true, "hr": true, "finance": true,
	"financial": true, "vice": true, "project": true, "program": true,
	"community": true, "creative": true, "business": true, "solutions": true,
	"qa": true, "mobile": true, "web": true, "regional": true, "account": true,
	"customer": true, "success": true, "digital": true, "co": true,
}

var acronyms = map[string]string{
	"ceo": "CEO", "cto": "CTO", "cfo": "CFO", "coo": "COO", "cmo": "CMO", "cpo": "CPO",
	"vp": "VP", "ux": "UX", "ui": "UI", "ai": "AI", "ml": "ML", "qa": "QA", "hr": "HR",
}

var stopWords = map[string]bool{
	"a": true, "an": true, "the": true, "i": true, "am": true, "is": true,
	"as": true, "i'm": true, "im": true, "my": true, "at": true, "in": true,
	"and": true, "of": true, "for": true, "with": true, "to": true,
}

var industryRules = []struct {
	phrase   string
	industry string
}{
	{"saas", "SaaS"},
	{"fintech", "Finance"},
	{"venture", "Finance"},
	{"investment", "Finance"},
	{"investing", "Finance"},
	{"bank", "Finance"},
	{"banking", "Finance"},
	{"finance", "Finance"},
	{"marketing", "Marketing"},
	{"advertising", "Marketing"},
	{"design", "Design"},
	{"ux", "Design"},
	{"healthcare", "Healthcare"},
	{"health", "Healthcare"},
	{"medical", "Healthcare"},
	{"biotech", "Healthcare"},
	{"edtech", "Education"},
	{"teaching", "Education"},
	{"retail", "Retail"},
	{"ecommerce", "Retail"},
	{"e commerce", "Retail"},
	{"software", "Technology"},
	{"tech", "Technology"},
	{"technology", "Technology"},
	{"ai", "Technology"},
	{"machine learning", "Technology"},
	{"cloud", "Technology"},
	{"engineer", "Technology"},
	{"engineering", "Technology"},
	{"developer", "Technology"},
	{"data", "Technology"},
}

var skillVocabulary = []string{
	"Python", "Go", "Golang", "Java", "JavaScript", "TypeScript", "Rust", "C++",
	"Kubernetes", "Docker", "AWS", "GCP", "Azure", "SQL", "React", "Figma",
	"Product Management", "Machine Learning", "Data Analysis", "System Design",
	"DevOps", "Leadership", "Fundraising", "Sales", "SEO", "Analytics",
	"User Research", "Strategy",
}

var educationMarkers = []string{
	"university", "college", "school", "institute", "academy", "mit",
	"stanford", "harvard", "mba", "phd", "bsc", "msc",
}

// parseText applies field-extraction heuristics to freeform profile text.
// Fields it cannot find are left empty.
func parseText(text string) Fields {
	var f Fields

	if m := emailRe.FindString(text); m != "" {
		f.Email = m
	}
	if m := yearsRe.FindStringSubmatch(text); m != nil {
		f.YearsExperience, _ = strconv.Atoi(m[1])
	}
	if m := locationRe.FindStringSubmatch(text); m != nil {
		f.Location = clip(strings.TrimSpace(m[1]), 60)
	}

	for _, m := range labelRe.FindAllStringSubmatch(text, -1) {
		val := strings.TrimSpace(m[2])
		switch strings.ToLower(m[1]) {
		case "name":
			f.Name = val
		case "role", "title":
			f.Role = val
		case "company":
			f.Company = val
		case "industry":
			f.Industry = val
		case "education":
			f.Education = val
		}
	}

	clauses := splitClauses(text)

	if f.Name == "" {
		if m := nameIntroRe.FindStringSubmatch(text); m != nil {
			f.Name = leadingName(strings.Fields(m[1]))
		}
	}
	if f.Name == "" && len(clauses) > 0 {
		f.Name = leadingName(strings.Fields(clauses[0]))
	}

	if f.Role == "" || f.Company == "" {
		role, company := roleAndCompany(clauses)
		if f.Role == "" {
			f.Role = role
		}
		if f.Company == "" {
			f.Company = company
		}
	}

	f.Skills = listField(skillsRe, text)
	if len(f.Skills) == 0 {
		f.Skills = vocabularyHits(text, skillVocabulary)
	}
	f.Interests = listField(interestsRe, text)

	if f.Education == "" {
		for _, c := range clauses {
			if containsAny(c, educationMarkers) {
				f.Education = clip(c, 80)
				break
			}
		}
	}
	return f
}

// splitClauses breaks text on headline separators, sentence ends, commas
// and newlines.
func splitClauses(text string) []string {
	r := strings.NewReplacer(" - ", "\n", " – ", "\n", " — ", "\n", "|", "\n", ";", "\n", "•", "\n",
		". ", "\n", "! ", "\n", "? ", "\n", ",", "\n")
	var out []string
	for _, c := range strings.Split(r.Replace(text), "\n") {
		c = strings.TrimSpace(strings.TrimRight(strings.TrimSpace(c), ".!?"))
		if c != "" {
			out = append(out, c)
		}
	}
	return out
}

func leadingName(words []string) string {
	var run []string
	for _, w := range words {
		w = strings.Trim(w, ",.:;()")
		k := signals.Fold(w)
		if !isCapitalizedWord(w) || roleKeywords[k] || roleModifiers[k] || stopWords[k] {
			break
		}
		run = append(run, w)
		if len(run) == 3 {
			break
		}
	}
	if len(run) < 2 {
		return ""
	}
	return strings.Join(run, " ")
}

func isCapitalizedWord(w string) bool {
	if w == "" {
		return false
	}
	for i, r := range w {
		if i == 0 {
			if !unicode.IsUpper(r) {
				return false
			}
			continue
		}
		if !unicode.IsLetter(r) && r != '\'' && r != '-' {
			return false
		}
	}
	return true
}

// roleAndCompany scans clauses for "Role at Company" / "Role @Company"
// first, then for any clause holding a role keyword.
func roleAndCompany(clauses []string) (role, company string) {
	for _, c := range clauses {
		tokens := strings.Fields(c)
		for i, tok := range tokens {
			k := strings.ToLower(tok)
			switch {
			case k == "at" || k == "@":
				if r := roleFromTokens(tokens[:i]); r != "" {
					return r, companyFromTokens(tokens[i+1:])
				}
			case strings.HasPrefix(tok, "@") && len(tok) > 1:
				if r := roleFromTokens(tokens[:i]); r != "" {
					rest := append([]string{tok[1:]}, tokens[i+1:]...)
					return r, companyFromTokens(rest)
				}
			}
		}
	}
	for _, c := range clauses {
		if r := roleFromTokens(strings.Fields(c)); r != "" {
			return r, ""
		}
	}
	return "", ""
}

// roleFromTokens finds the last role keyword and grows a title around it:
// backwards through modifiers, forwards through "& CEO" or "of Product".
func roleFromTokens(tokens []string) string {
	clean := make([]string, len(tokens))
	folded := make([]string, len(tokens))
	for i, t := range tokens {
		clean[i] = strings.Trim(t, ",.:;()\"")
		folded[i] = signals.Fold(clean[i])
	}

	head := -1
	for i := len(folded) - 1; i >= 0; i-- {
		if isRoleWord(folded[i]) {
			head = i
			break
		}
	}
	if head < 0 {
		return ""
	}

	start := head
	for start > 0 {
		prev := folded[start-1]
		if roleModifiers[prev] || isRoleWord(prev) || prev == "&" {
			start--
			continue
		}
		break
	}
	for start < head && folded[start] == "&" {
		start++
	}

	end := head
	for end+1 < len(folded) {
		next := folded[end+1]
		switch {
		case isRoleWord(next) || roleModifiers[next]:
			end++
		case (next == "&" || next == "and" || next == "/") && end+2 < len(folded) && isRoleWord(folded[end+2]):
			end += 2
		case next == "of" && end+2 < len(folded) && isCapitalizedWord(clean[end+2]):
			end += 2
			for end+1 < len(folded) && end+1-head < 5 && isCapitalizedWord(clean[end+1]) {
				end++
			}
		default:
			return titleRole(clean[start : end+1])
		}
	}
	return titleRole(clean[start : end+1])
}

func isRoleWord(folded string) bool {
	if roleKeywords[folded] {
		return true
	}
	// co-founder, vice-president
	if i := strings.IndexByte(folded, '-'); i > 0 {
		return roleKeywords[folded[i+1:]]
	}
	return false
}

func titleRole(words []string) string {
	caser := cases.Title(language.English)
	out := make([]string, 0, len(words))
	for _, w := range words {
		if a, ok := acronyms[signals.Fold(w)]; ok {
			out = append(out, a)
			continue
		}
		if w == strings.ToLower(w) && w != "&" && w != "of" && w != "and" {
			w = caser.String(w)
		}
		out = append(out, w)
	}
	return strings.Join(out, " ")
}

var companyTails = map[string]bool{
	"inc": true, "llc": true, "ltd": true, "gmbh": true, "co": true, "corp": true, "&": true, "and": true, "of": true,
}

func companyFromTokens(tokens []string) string {
	var out []string
	for _, t := range tokens {
		c := strings.Trim(t, ",.:;()\"")
		if c == "" {
			break
		}
		r := []rune(c)
		k := signals.Fold(c)
		if !unicode.IsUpper(r[0]) && !unicode.IsDigit(r[0]) && !companyTails[k] {
			break
		}
		out = append(out, c)
		if len(out) == 5 || strings.HasSuffix(t, ",") || strings.HasSuffix(t, ".") && !companyTails[k] {
			break
		}
	}
	for len(out) > 0 && (signals.Fold(out[len(out)-1]) == "&" || signals.Fold(out[len(out)-1]) == "and" || signals.Fold(out[len(out)-1]) == "of") {
		out = out[:len(out)-1]
	}
	return strings.Join(out, " ")
}

func listField(re *regexp.Regexp, text string) []string {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	var out []string
	for _, item := range listSplitRe.Split(m[1], -1) {
		item = strings.TrimSpace(item)
		if item != "" && len(item) <= 40 {
			out = append(out, item)
		}
	}
	return out
}

func vocabularyHits(text string, vocab []string) []string {
	type hit struct {
		term string
		pos  int
	}
	words := signals.Words(signals.Fold(text))
	var hits []hit
	for _, term := range vocab {
		needle := signals.Words(signals.Fold(term))
		if len(needle) == 0 {
			continue
		}
		for i := 0; i+len(needle) <= len(words); i++ {
			match := true
			for j := range needle {
				if words[i+j] != needle[j] {
					match = false
					break
				}
			}
			if match {
				hits = append(hits, hit{term, i})
				break
			}
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].pos < hits[j].pos })
	out := make([]string, len(hits))
	for i, h := range hits {
		out[i] = h.term
	}
	return out
}

func inferIndustry(text string) string {
	for _, r := range industryRules {
		if signals.ContainsPhrase(text, r.phrase) {
			return r.industry
		}
	}
	return ""
}

func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	cut := n
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return strings.TrimSpace(s[:cut])
}
