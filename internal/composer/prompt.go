package composer

import (
	"fmt"
	"strings"

	"github.com/kalambet/coldreach/internal/insight"
	"github.com/kalambet/coldreach/internal/profile"
)

const defaultContextBudget = 400

var channelLabels = map[profile.Channel]string{
	profile.Email:       "email",
	profile.LinkedInDM:  "LinkedIn direct message",
	profile.WhatsApp:    "WhatsApp message",
	profile.SMS:         "SMS",
	profile.InstagramDM: "Instagram direct message",
}

var channelInstructions = map[profile.Channel]string{
	profile.Email: "Write a professional but personalized email. Open with a personal greeting, " +
		"give one relevant value proposition, and close with a specific call-to-action. " +
		"Length: 150-200 words. A subject line is required.",
	profile.LinkedInDM: "Write a LinkedIn message. Professional but friendly; LinkedIn users expect " +
		"concise, direct messages. Length: 100-150 words. No subject line.",
	profile.WhatsApp: "Write a friendly WhatsApp message. A casual greeting is fine. " +
		"Keep it short and conversational. Length: 50-100 words. No subject line.",
	profile.SMS: "Write a short SMS. Plain text, under 300 characters in total, " +
		"with exactly one call-to-action. No subject line.",
	profile.InstagramDM: "Write an Instagram DM. Casual and warm; engage with their work or interests. " +
		"Length: 80-120 words. No subject line.",
}

var exampleCTAs = map[profile.Channel][]string{
	profile.Email:       {"Would you be open to a brief chat?", "Quick 15-minute call next week?"},
	profile.LinkedInDM:  {"Would you be open to connecting?", "Happy to discuss further."},
	profile.WhatsApp:    {"Interested in chatting?", "Open to discussing this?"},
	profile.SMS:         {"Reply if interested?", "Interested?"},
	profile.InstagramDM: {"Would love to collaborate!", "Up for a quick chat?"},
}

var styleDescriptions = map[profile.Style]string{
	profile.Formal: "Very professional: formal language, no slang, structured sentences.",
	profile.Mixed:  "Professional but approachable: clear and organized with a few casual touches.",
	profile.Casual: "Conversational: everyday language, relaxed and approachable.",
}

var emojiGuidance = map[insight.EmojiUsage]string{
	insight.EmojiNone:       "Do not use emoji.",
	insight.EmojiOccasional: "At most one emoji.",
	insight.EmojiFrequent:   "They use emoji often; one or two fit naturally.",
}

const strictInstruction = "\n\nIMPORTANT: your previous reply did not follow the required format. " +
	"Reply again using ONLY the labeled sections shown under OUTPUT FORMAT, each label at the start " +
	"of its own line, and finish with END. Do not add explanations or any other text."

// promptInput carries everything buildPrompt interpolates.
type promptInput struct {
	Profile  profile.Profile
	Insights insight.Insights
	Channel  profile.Channel
	Tone     profile.Style
	Similar  []profile.Profile
	Extra    string
	Budget   int
}

func buildPrompt(in promptInput) string {
	p := in.Profile
	var sb strings.Builder

	fmt.Fprintf(&sb, "You are an expert cold outreach writer. Write a personalized %s.\n\n", channelLabels[in.Channel])

	sb.WriteString("TARGET PERSON:\n")
	writeField(&sb, "Name", p.Name)
	writeField(&sb, "Role", p.Role)
	writeField(&sb, "Company", p.Company)
	writeField(&sb, "Industry", p.Industry)
	writeField(&sb, "Seniority", string(p.Seniority))
	writeField(&sb, "Skills", strings.Join(firstN(p.Skills, 5), ", "))
	writeField(&sb, "Interests", strings.Join(firstN(p.Interests, 5), ", "))

	sb.WriteString("\nCOMMUNICATION STYLE:\n")
	sb.WriteString(styleDescriptions[in.Tone])
	if g := emojiGuidance[in.Insights.EmojiUsage]; g != "" {
		sb.WriteString(" " + g)
	}
	fmt.Fprintf(&sb, " (formality %.2f on a 0-1 scale)\n", in.Insights.FormalityScore)

	fmt.Fprintf(&sb, "\nCHANNEL INSTRUCTIONS (%s):\n%s\n", strings.ToUpper(string(in.Channel)), channelInstructions[in.Channel])
	if ctas := exampleCTAs[in.Channel]; len(ctas) > 0 {
		fmt.Fprintf(&sb, "Example calls-to-action: %s\n", strings.Join(quoteAll(ctas), ", "))
	}

	sb.WriteString("\nPAIN POINTS TO ADDRESS:\n")
	if len(in.Insights.PainPoints) == 0 {
		sb.WriteString("- general improvement\n")
	}
	for _, pp := range in.Insights.PainPoints {
		sb.WriteString("- " + pp + "\n")
	}
	if in.Channel == profile.Email {
		if s := subjectHint(p, in.Insights); s != "" {
			fmt.Fprintf(&sb, "Suggested subject angle: %s\n", s)
		}
	}

	if similar := similarSection(in.Similar, in.Budget); similar != "" {
		sb.WriteString("\nSIMILAR PROFILES WE HAVE CONTACTED:\n")
		sb.WriteString(similar)
	}

	if extra := strings.TrimSpace(in.Extra); extra != "" {
		sb.WriteString("\nADDITIONAL CONTEXT:\n" + extra + "\n")
	}

	sb.WriteString("\nREQUIREMENTS:\n")
	sb.WriteString("1. Be specific and personalized; mention their role or company.\n")
	sb.WriteString("2. Match the communication style exactly.\n")
	sb.WriteString("3. Include exactly one clear call-to-action.\n")
	sb.WriteString("4. Sound human; avoid generic corporate language.\n")

	sb.WriteString("\nOUTPUT FORMAT:\nReply with exactly these labeled sections and nothing else:\n")
	if in.Channel.HasSubject() {
		sb.WriteString("SUBJECT: <one-line subject>\n")
	}
	sb.WriteString("MESSAGE:\n<the message body>\n")
	sb.WriteString("CTA: <the call-to-action sentence>\n")
	sb.WriteString("END\n")

	return sb.String()
}

func writeField(sb *strings.Builder, label, value string) {
	if !profile.Known(value) {
		return
	}
	fmt.Fprintf(sb, "- %s: %s\n", label, value)
}

// subjectHint suggests "How we help {company} with {pain point}".
func subjectHint(p profile.Profile, in insight.Insights) string {
	if !profile.Known(p.Company) || len(in.PainPoints) == 0 {
		return ""
	}
	return fmt.Sprintf("How we help %s with %s", p.Company, strings.ToLower(in.PainPoints[0]))
}

// similarSection renders profile summaries until the token budget is spent.
func similarSection(similar []profile.Profile, budget int) string {
	if len(similar) == 0 || budget <= 0 {
		return ""
	}
	var sb strings.Builder
	remaining := budget
	for _, s := range similar {
		entry := "- " + profile.Summary(s) + "\n"
		tokens := EstimateTokens(entry)
		if tokens > remaining {
			continue
		}
		sb.WriteString(entry)
		remaining -= tokens
	}
	return sb.String()
}

// EstimateTokens provides a rough token count using 4 chars per token heuristic.
func EstimateTokens(text string) int {
	return (len(text) + 3) / 4
}

func firstN(s []string, n int) []string {
	if len(s) > n {
		return s[:n]
	}
	return s
}

func quoteAll(s []string) []string {
	out := make([]string, len(s))
	for i, v := range s {
		out[i] = fmt.Sprintf("%q", v)
	}
	return out
}
