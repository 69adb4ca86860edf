package composer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kalambet/coldreach/internal/profile"
)

func TestParseCompletion(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		ch      profile.Channel
		want    parsed
		wantErr string
	}{
		{
			name: "email",
			text: "SUBJECT: Idea for TechCorp\nMESSAGE:\nHi John,\nShort note.\nCTA: Quick call?\nEND",
			ch:   profile.Email,
			want: parsed{Subject: "Idea for TechCorp", Content: "Hi John,\nShort note.", CTA: "Quick call?"},
		},
		{
			name: "markdown decorated labels and crlf",
			text: "**SUBJECT:** \"Hello\"\r\n**MESSAGE:**\r\nBody text\r\n**CTA:** Chat?\r\n",
			ch:   profile.Email,
			want: parsed{Subject: "Hello", Content: "Body text", CTA: "Chat?"},
		},
		{
			name: "code fence",
			text: "```\nMESSAGE:\nHey there\nCTA: Thoughts?\nEND\n```",
			ch:   profile.WhatsApp,
			want: parsed{Content: "Hey there", CTA: "Thoughts?"},
		},
		{
			name: "text after END dropped",
			text: "MESSAGE:\nHi\nCTA: Interested?\nEND\nLet me know if you want changes!",
			ch:   profile.SMS,
			want: parsed{Content: "Hi", CTA: "Interested?"},
		},
		{
			name:    "missing message",
			text:    "CTA: Interested?",
			ch:      profile.SMS,
			wantErr: "missing MESSAGE",
		},
		{
			name:    "missing cta",
			text:    "MESSAGE:\nHi",
			ch:      profile.LinkedInDM,
			wantErr: "missing CTA",
		},
		{
			name:    "email missing subject",
			text:    "MESSAGE:\nHi\nCTA: Chat?",
			ch:      profile.Email,
			wantErr: "missing SUBJECT",
		},
		{
			name:    "empty",
			text:    "",
			ch:      profile.Email,
			wantErr: "missing MESSAGE",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseCompletion(tt.text, tt.ch)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.ErrorIs(t, err, errMalformed)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseCompletion_SMSClipped(t *testing.T) {
	body := strings.Repeat("word ", 100)
	got, err := parseCompletion("MESSAGE:\n"+body+"\nCTA: Interested?", profile.SMS)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(got.Content), smsMaxChars)
	assert.True(t, strings.HasSuffix(got.Content, "word"))
}

func TestBuildPrompt(t *testing.T) {
	p, _ := profile.DefaultNormalizer().Demo("john_doe")
	in := promptInput{Profile: p, Channel: profile.Email, Tone: profile.Formal, Budget: defaultContextBudget}
	in.Insights.PainPoints = []string{"user retention", "feature prioritization"}

	prompt := buildPrompt(in)
	for _, want := range []string{
		"TARGET PERSON:",
		"- Name: John Doe",
		"- Role: Senior Product Manager",
		"CHANNEL INSTRUCTIONS (EMAIL)",
		"- user retention",
		"Suggested subject angle: How we help TechCorp Inc with user retention",
		"SUBJECT: <one-line subject>",
		"MESSAGE:",
		"CTA:",
		"END",
	} {
		assert.Contains(t, prompt, want)
	}
	assert.NotContains(t, prompt, "SIMILAR PROFILES")

	in.Channel = profile.SMS
	assert.NotContains(t, buildPrompt(in), "SUBJECT:")
}

func TestSimilarSectionRespectsBudget(t *testing.T) {
	var sims []profile.Profile
	for _, d := range profile.Demos() {
		sims = append(sims, d.Profile)
	}
	full := similarSection(sims, 100000)
	small := similarSection(sims, 60)
	assert.Greater(t, len(full), len(small))
	assert.LessOrEqual(t, EstimateTokens(small), 60+len(sims))
	assert.Empty(t, similarSection(sims, 0))
}

func TestEstimateTokens(t *testing.T) {
	assert.Equal(t, 0, EstimateTokens(""))
	assert.Equal(t, 1, EstimateTokens("abcd"))
	assert.Equal(t, 2, EstimateTokens("abcde"))
}
