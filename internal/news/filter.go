package news

import (
	"regexp"
	"strings"
)

const defaultLanguage = "en"

// HintLanguage reduces a feed language hint such as "en-US" to its primary
// subtag, defaulting to "en".
func HintLanguage(hint string) string {
	hint = strings.TrimSpace(hint)
	if hint == "" {
		return defaultLanguage
	}
	return strings.ToLower(strings.Split(hint, "-")[0])
}

// FilterLanguage sets Entry.Language on every entry and keeps those whose
// language is allowed. An empty allowlist keeps everything.
func (e *Enricher) FilterLanguage(entries []Entry, allow []string) []Entry {
	allowed := make(map[string]bool, len(allow))
	for _, a := range allow {
		allowed[strings.ToLower(strings.TrimSpace(a))] = true
	}
	kept := make([]Entry, 0, len(entries))
	for _, it := range entries {
		it.Language = e.DetectLanguage(it.Text(), HintLanguage(it.LanguageHint))
		if len(allowed) == 0 || allowed[it.Language] {
			kept = append(kept, it)
		}
	}
	return kept
}

// BlockPattern builds one case-insensitive alternation of the literal block
// words. It returns nil when there is nothing to block.
func BlockPattern(words []string) *regexp.Regexp {
	parts := make([]string, 0, len(words))
	for _, w := range words {
		if w == "" {
			continue
		}
		parts = append(parts, regexp.QuoteMeta(w))
	}
	if len(parts) == 0 {
		return nil
	}
	return regexp.MustCompile("(?i)" + strings.Join(parts, "|"))
}

// FilterBlocked drops entries whose title or summary mention a block word.
func FilterBlocked(entries []Entry, words []string) []Entry {
	pat := BlockPattern(words)
	if pat == nil {
		return entries
	}
	kept := make([]Entry, 0, len(entries))
	for _, it := range entries {
		if !pat.MatchString(it.Text()) {
			kept = append(kept, it)
		}
	}
	return kept
}
