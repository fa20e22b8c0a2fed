package news

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type mapDetector map[string]string

func (m mapDetector) Detect(text string) (string, error) {
	return m[text], nil
}

func TestHintLanguage(t *testing.T) {
	assert.Equal(t, "en", HintLanguage(""))
	assert.Equal(t, "fr", HintLanguage("fr-FR"))
	assert.Equal(t, "ar", HintLanguage(" AR "))
}

func TestFilterLanguage(t *testing.T) {
	e := newTestEnricher(t, mapDetector{
		"Bonjour le monde": "fr",
		"Hallo Welt ":      "de",
	})
	in := []Entry{
		{Title: "Bonjour", Summary: "le monde"},
		{Title: "Hallo Welt"},
		{Title: "???", LanguageHint: "en-GB"},
		{Title: "!!!", LanguageHint: "ar"},
	}
	got := e.FilterLanguage(in, []string{"FR", "en"})

	assert.Equal(t, []string{"Bonjour", "???"}, titles(got))
	assert.Equal(t, "fr", got[0].Language)
	assert.Equal(t, "en", got[1].Language)
}

func TestFilterLanguageEmptyAllowlistKeepsAll(t *testing.T) {
	e := newTestEnricher(t, mapDetector{})
	got := e.FilterLanguage([]Entry{{Title: "x", LanguageHint: "ru"}}, nil)
	assert.Len(t, got, 1)
	assert.Equal(t, "ru", got[0].Language)
}

func TestFilterBlocked(t *testing.T) {
	in := []Entry{
		{Title: "Football results", Summary: ""},
		{Title: "Strike on depot", Summary: "Horoscope inside"},
		{Title: "Talks in Doha", Summary: "a (rare) event"},
	}
	got := FilterBlocked(in, []string{"football", "HOROSCOPE", "(rare"})
	assert.Empty(t, got)

	got = FilterBlocked(in, []string{"football"})
	assert.Equal(t, []string{"Strike on depot", "Talks in Doha"}, titles(got))

	assert.Len(t, FilterBlocked(in, nil), 3)
	assert.Len(t, FilterBlocked(in, []string{""}), 3)
}
