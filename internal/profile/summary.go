package profile

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// maxSummaryChars caps the summary to stay under ~500 tokens (4 chars/token).
const maxSummaryChars = 2000

// Summary returns a compact one-paragraph description of p, used as the
// embedding text for semantic search and as cross-profile prompt context.
func Summary(p Profile) string {
	var parts []string

	if Known(p.Name) {
		head := p.Name
		if Known(p.Role) {
			head += ", " + p.Role
		}
		if Known(p.Company) {
			head += " at " + p.Company
		}
		parts = append(parts, head+".")
	} else if Known(p.Role) {
		parts = append(parts, p.Role+".")
	}
	if Known(p.Industry) {
		parts = append(parts, fmt.Sprintf("Industry: %s.", p.Industry))
	}
	if p.Seniority != "" {
		parts = append(parts, fmt.Sprintf("Seniority: %s.", p.Seniority))
	}
	if len(p.Skills) > 0 {
		parts = append(parts, fmt.Sprintf("Skills: %s.", strings.Join(p.Skills, ", ")))
	}
	if len(p.Interests) > 0 {
		parts = append(parts, fmt.Sprintf("Interests: %s.", strings.Join(p.Interests, ", ")))
	}
	if p.Bio != "" {
		parts = append(parts, p.Bio)
	}

	if len(parts) == 0 {
		return "Profile: no details available."
	}

	summary := strings.Join(parts, " ")
	if len(summary) > maxSummaryChars {
		// Ensure we don't split a multi-byte UTF-8 character.
		end := maxSummaryChars
		for end > 0 && !utf8.RuneStart(summary[end]) {
			end--
		}
		if idx := strings.LastIndex(summary[:end], " "); idx > 0 {
			summary = summary[:idx]
		} else {
			summary = summary[:end]
		}
	}
	return summary
}
