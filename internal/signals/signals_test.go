package signals

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFold(t *testing.T) {
	assert.Equal(t, "senor director", Fold("Señor Diréctor"))
	assert.Equal(t, "i'm here", Fold("I’m HERE"))
}

func TestContainsPhrase(t *testing.T) {
	tests := []struct {
		text, phrase string
		want         bool
	}{
		{"Senior Product Manager", "product manager", true},
		{"Head of Growth", "head of", true},
		{"Co-Founder & CEO", "founder", true},
		{"Productive manager", "product manager", false},
		{"Ingeniería de Producto", "ingenieria", true},
		{"anything", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.text+"/"+tt.phrase, func(t *testing.T) {
			assert.Equal(t, tt.want, ContainsPhrase(tt.text, tt.phrase))
		})
	}
}

func TestCountEmoji(t *testing.T) {
	assert.Equal(t, 0, CountEmoji("plain text"))
	assert.Equal(t, 1, CountEmoji("Building the future 🚀"))
	assert.Equal(t, 3, CountEmoji("☕ 😀 🤖"))
}

func TestAnalyze(t *testing.T) {
	c := Analyze("I'm gonna ship it! Can't wait 😀. Professional stuff")
	assert.Equal(t, 2, c.Contractions)
	assert.Equal(t, 1, c.Slang)
	assert.Equal(t, 1, c.Exclamations)
	assert.Equal(t, 1, c.Emoji)
	assert.Equal(t, 1, c.Formal)
	assert.Equal(t, 3, c.Sentences)
}

func TestFormalityBounds(t *testing.T) {
	inputs := []string{
		"",
		"lol omg tbh ngl idk gonna wanna!!!!! 😀😀😀😀 can't won't",
		"Experienced professional delivering strategic initiatives. Proven expertise. Responsible leadership.",
		"x",
	}
	for _, in := range inputs {
		f := Analyze(in).Formality()
		assert.GreaterOrEqual(t, f, 0.0, in)
		assert.LessOrEqual(t, f, 1.0, in)
	}
}

func TestFormalityMonotone(t *testing.T) {
	base := Counts{Words: 20, Sentences: 2, TitleSentences: 2, Formal: 1}

	worse := []func(Counts) Counts{
		func(c Counts) Counts { c.Contractions++; return c },
		func(c Counts) Counts { c.Emoji++; return c },
		func(c Counts) Counts { c.Exclamations++; return c },
		func(c Counts) Counts { c.Slang++; return c },
	}
	for i, f := range worse {
		assert.Less(t, f(base).Formality(), base.Formality(), "negative signal %d", i)
	}

	better := base
	better.Formal++
	assert.GreaterOrEqual(t, better.Formality(), base.Formality())

	lower := base
	lower.TitleSentences = 0
	assert.Less(t, lower.Formality(), base.Formality())
}

func TestFormalityOrdering(t *testing.T) {
	formal := Analyze("Passionate about data-driven decisions. Experienced in leading cross-functional teams across three continents.")
	casual := Analyze("hey!! i'm kinda into coffee lol 😀 gonna build stuff")
	assert.Greater(t, formal.Formality(), 0.6)
	assert.Less(t, casual.Formality(), 0.4)
}
