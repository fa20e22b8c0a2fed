package news

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/abadojack/whatlanggo"
)

// LanguageDetector identifies the language of a text as an ISO 639-1 code.
type LanguageDetector interface {
	Detect(text string) (string, error)
}

type whatlangDetector struct{}

var errUnknownLanguage = errors.New("language not identified")

// Detect is deterministic: identical input always yields the same code.
func (whatlangDetector) Detect(text string) (string, error) {
	info := whatlanggo.Detect(text)
	code := info.Lang.Iso6391()
	if code == "" {
		return "", errUnknownLanguage
	}
	return code, nil
}

// NewLanguageDetector returns the trigram-based detector used in production.
func NewLanguageDetector() LanguageDetector {
	return whatlangDetector{}
}

type entityPattern struct {
	label string
	re    *regexp.Regexp
}

// Enricher tags entries with a country, a theme and entity acronyms.
type Enricher struct {
	countries       []KeywordGroup
	themes          []KeywordGroup
	entities        []entityPattern
	countryFallback string
	themeFallback   string
	detector        LanguageDetector
}

// NewEnricher compiles the tables. A nil detector selects the default one.
func NewEnricher(t Tables, detector LanguageDetector) (*Enricher, error) {
	if detector == nil {
		detector = NewLanguageDetector()
	}
	e := &Enricher{
		countries:       lowerGroups(t.Countries),
		themes:          lowerGroups(t.Themes),
		countryFallback: t.CountryFallback,
		themeFallback:   t.ThemeFallback,
		detector:        detector,
	}
	if e.countryFallback == "" {
		e.countryFallback = FallbackCountry
	}
	if e.themeFallback == "" {
		e.themeFallback = FallbackTheme
	}
	for _, p := range t.EntityPatterns {
		re, err := regexp.Compile("(?i)" + p)
		if err != nil {
			return nil, fmt.Errorf("entity pattern %q: %w", p, err)
		}
		label := strings.ToUpper(strings.ReplaceAll(p, `\b`, ""))
		e.entities = append(e.entities, entityPattern{label: label, re: re})
	}
	return e, nil
}

func lowerGroups(groups []KeywordGroup) []KeywordGroup {
	out := make([]KeywordGroup, len(groups))
	for i, g := range groups {
		kws := make([]string, len(g.Keywords))
		for j, k := range g.Keywords {
			kws[j] = strings.ToLower(k)
		}
		out[i] = KeywordGroup{Tag: g.Tag, Keywords: kws}
	}
	return out
}

func firstMatch(groups []KeywordGroup, title, summary, fallback string) string {
	text := strings.ToLower(title + " " + summary)
	for _, g := range groups {
		for _, k := range g.Keywords {
			if strings.Contains(text, k) {
				return g.Tag
			}
		}
	}
	return fallback
}

func (e *Enricher) TagCountry(title, summary string) string {
	return firstMatch(e.countries, title, summary, e.countryFallback)
}

func (e *Enricher) TagTheme(title, summary string) string {
	return firstMatch(e.themes, title, summary, e.themeFallback)
}

// ExtractEntities returns the sorted labels of every entity pattern found.
func (e *Enricher) ExtractEntities(text string) []string {
	seen := map[string]bool{}
	out := []string{}
	for _, p := range e.entities {
		if seen[p.label] || !p.re.MatchString(text) {
			continue
		}
		seen[p.label] = true
		out = append(out, p.label)
	}
	sort.Strings(out)
	return out
}

// DetectLanguage never fails: any detector error, or a panic inside it,
// yields defaultLang.
func (e *Enricher) DetectLanguage(text, defaultLang string) (lang string) {
	if strings.TrimSpace(text) == "" {
		return defaultLang
	}
	defer func() {
		if r := recover(); r != nil {
			lang = defaultLang
		}
	}()
	code, err := e.detector.Detect(text)
	if err != nil || code == "" {
		return defaultLang
	}
	return strings.ToLower(code)
}

// Enrich returns copies of entries with Country, Theme and Entities set.
func (e *Enricher) Enrich(entries []Entry) []Entry {
	out := make([]Entry, len(entries))
	for i, it := range entries {
		it.Country = e.TagCountry(it.Title, it.Summary)
		it.Theme = e.TagTheme(it.Title, it.Summary)
		it.Entities = e.ExtractEntities(it.Text())
		out[i] = it
	}
	return out
}
