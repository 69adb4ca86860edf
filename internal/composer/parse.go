package composer

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/kalambet/coldreach/internal/profile"
)

var (
	labelRe = regexp.MustCompile(`(?im)^[ \t*#>]*(SUBJECT|MESSAGE|CTA)[ \t*]*:[ \t]*`)
	endRe   = regexp.MustCompile(`(?im)^[ \t*#>]*END[ \t*.]*$`)
)

const smsMaxChars = 300

type parsed struct {
	Subject string
	Content string
	CTA     string
}

// parseCompletion splits a completion into the labeled sections requested
// by the prompt. The END marker is optional; MESSAGE and CTA are required,
// SUBJECT is required for email and discarded for every other channel.
func parseCompletion(text string, ch profile.Channel) (parsed, error) {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = stripCodeFence(text)
	if loc := endRe.FindStringIndex(text); loc != nil {
		text = text[:loc[0]]
	}

	sections := map[string]string{}
	matches := labelRe.FindAllStringSubmatchIndex(text, -1)
	for i, m := range matches {
		label := strings.ToUpper(text[m[2]:m[3]])
		end := len(text)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		if _, dup := sections[label]; dup {
			continue
		}
		sections[label] = strings.TrimSpace(text[m[1]:end])
	}

	var out parsed
	out.Content = sections["MESSAGE"]
	if out.Content == "" {
		return parsed{}, fmt.Errorf("%w: missing MESSAGE section", errMalformed)
	}
	out.CTA = firstLine(sections["CTA"])
	if out.CTA == "" {
		return parsed{}, fmt.Errorf("%w: missing CTA section", errMalformed)
	}
	if ch.HasSubject() {
		out.Subject = strings.Trim(firstLine(sections["SUBJECT"]), `"'`)
		if out.Subject == "" {
			return parsed{}, fmt.Errorf("%w: missing SUBJECT section", errMalformed)
		}
	}
	if ch == profile.SMS {
		out.Content = clipWords(out.Content, smsMaxChars)
	}
	return out, nil
}

func stripCodeFence(s string) string {
	t := strings.TrimSpace(s)
	if !strings.HasPrefix(t, "```") {
		return s
	}
	if i := strings.IndexByte(t, '\n'); i >= 0 {
		t = t[i+1:]
	}
	t = strings.TrimSuffix(strings.TrimSpace(t), "```")
	return t
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

// clipWords shortens s to at most n bytes, cutting at a word boundary.
func clipWords(s string, n int) string {
	if len(s) <= n {
		return s
	}
	cut := n
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	if i := strings.LastIndexAny(s[:cut], " \n"); i > 0 {
		cut = i
	}
	return strings.TrimSpace(s[:cut])
}
