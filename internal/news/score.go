package news

import (
	"math"
	"regexp"
	"strings"
	"time"
)

const (
	undatedRecency  = 0.3
	defaultPriority = 0.6
	boostIncrement  = 0.3
	boostCap        = 1.5
)

// Editorial bonuses applied on top of configuration.
var (
	ruleThemes = map[string]float64{
		"Nuclear":             0.3,
		"Diplomacy/Sanctions": 0.3,
	}
	ruleCountries = map[string]float64{
		"Iran":             0.2,
		"Israel/Palestine": 0.2,
		"Lebanon":          0.2,
		"Yemen":            0.2,
	}
)

type ScorerConfig struct {
	HalfLifeHours    float64
	SourcePriorities map[string]float64
	BoostKeywords    []string
}

// boostTerm matches when any of its alternatives matches.
type boostTerm []*regexp.Regexp

func (b boostTerm) match(text string) bool {
	for _, re := range b {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

// compileBoost understands "a OR b" alternation and "*" wildcards; any other
// term is a case-insensitive regular expression, or a literal when it does
// not compile.
func compileBoost(term string) boostTerm {
	if strings.Contains(term, " OR ") {
		var out boostTerm
		for _, alt := range strings.Split(term, " OR ") {
			if alt = strings.TrimSpace(alt); alt != "" {
				out = append(out, compileLenient(alt))
			}
		}
		return out
	}
	if strings.Contains(term, "*") {
		pat := strings.ReplaceAll(regexp.QuoteMeta(term), `\*`, ".*")
		return boostTerm{regexp.MustCompile("(?i)" + pat)}
	}
	return boostTerm{compileLenient(term)}
}

func compileLenient(pat string) *regexp.Regexp {
	if re, err := regexp.Compile("(?i)" + pat); err == nil {
		return re
	}
	return regexp.MustCompile("(?i)" + regexp.QuoteMeta(pat))
}

// Scorer assigns the relevance score. It is safe for concurrent use.
type Scorer struct {
	halfLife   float64
	priorities map[string]float64
	boosts     []boostTerm
	now        func() time.Time
}

// NewScorer prepares a scorer; now may be nil to use the wall clock.
func NewScorer(cfg ScorerConfig, now func() time.Time) *Scorer {
	if now == nil {
		now = time.Now
	}
	s := &Scorer{
		halfLife:   math.Max(1e-6, cfg.HalfLifeHours),
		priorities: make(map[string]float64, len(cfg.SourcePriorities)),
		now:        now,
	}
	for domain, p := range cfg.SourcePriorities {
		s.priorities[strings.ToLower(domain)] = p
	}
	for _, term := range cfg.BoostKeywords {
		if strings.TrimSpace(term) == "" {
			continue
		}
		s.boosts = append(s.boosts, compileBoost(term))
	}
	return s
}

func (s *Scorer) Recency(publishedAt *time.Time) float64 {
	if publishedAt == nil {
		return undatedRecency
	}
	age := s.now().UTC().Sub(publishedAt.UTC()).Hours()
	if age < 0 {
		age = 0
	}
	return math.Pow(0.5, age/s.halfLife)
}

func (s *Scorer) SourcePriority(e Entry) float64 {
	if p, ok := s.priorities[e.SourceDomain()]; ok {
		return p
	}
	return defaultPriority
}

func (s *Scorer) KeywordBoost(text string) float64 {
	total := 0.0
	for _, b := range s.boosts {
		if b.match(text) {
			total += boostIncrement
		}
	}
	return math.Min(total, boostCap)
}

func RuleBoost(country, theme string) float64 {
	return ruleThemes[theme] + ruleCountries[country]
}

// Score computes max(0, recency*priority) + keyword boost + rule boost.
func (s *Scorer) Score(e Entry) float64 {
	base := s.Recency(e.PublishedAt) * s.SourcePriority(e)
	if math.IsNaN(base) || math.IsInf(base, 0) || base < 0 {
		base = 0
	}
	return base + s.KeywordBoost(e.Text()) + RuleBoost(e.Country, e.Theme)
}

// ScoreAll returns copies of entries with Score assigned.
func (s *Scorer) ScoreAll(entries []Entry) []Entry {
	out := make([]Entry, len(entries))
	for i, it := range entries {
		it.Score = s.Score(it)
		out[i] = it
	}
	return out
}
