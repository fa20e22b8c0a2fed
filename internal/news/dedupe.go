package news

import (
	"crypto/sha1"
	"encoding/hex"
	"math"
	"regexp"
	"strings"
	"time"
)

// DedupeMode selects the components of the composite identity key.
type DedupeMode struct {
	Title  bool // title with non-word characters removed, lower-cased
	URL    bool // canonical URL, lower-cased
	Domain bool // source domain
}

// ParseDedupeMode reads modes such as "title+url+canonical". The
// "canonical" component is the source domain; "domain" is accepted too.
func ParseDedupeMode(mode string) DedupeMode {
	mode = strings.ToLower(mode)
	return DedupeMode{
		Title:  strings.Contains(mode, "title"),
		URL:    strings.Contains(mode, "url"),
		Domain: strings.Contains(mode, "canonical") || strings.Contains(mode, "domain"),
	}
}

func (m DedupeMode) empty() bool {
	return !m.Title && !m.URL && !m.Domain
}

func (m DedupeMode) String() string {
	var parts []string
	if m.Title {
		parts = append(parts, "title")
	}
	if m.URL {
		parts = append(parts, "url")
	}
	if m.Domain {
		parts = append(parts, "canonical")
	}
	return strings.Join(parts, "+")
}

var nonWordRe = regexp.MustCompile(`[^\p{L}\p{N}_]+`)

// Key derives the identity of an entry under the mode.
func (m DedupeMode) Key(e Entry) string {
	var parts []string
	if m.Title {
		parts = append(parts, strings.ToLower(nonWordRe.ReplaceAllString(e.Title, "")))
	}
	if m.URL {
		parts = append(parts, strings.ToLower(CanonicalURL(e.URL)))
	}
	if m.Domain {
		parts = append(parts, e.SourceDomain())
	}
	h := sha1.Sum([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(h[:])
}

type Deduplicator struct {
	mode        DedupeMode
	windowHours float64
	now         func() time.Time
}

// NewDeduplicator builds a deduplicator. Only a +Inf (or NaN) window
// disables the recency window; zero keeps dated entries no older than now.
func NewDeduplicator(mode DedupeMode, windowHours float64, now func() time.Time) *Deduplicator {
	if now == nil {
		now = time.Now
	}
	return &Deduplicator{mode: mode, windowHours: windowHours, now: now}
}

func (d *Deduplicator) bounded() bool {
	return !math.IsInf(d.windowHours, 1) && !math.IsNaN(d.windowHours)
}

// InWindow reports whether the entry survives the recency window. Undated
// entries always do.
func (d *Deduplicator) InWindow(e Entry, ref time.Time) bool {
	if !d.bounded() || e.PublishedAt == nil {
		return true
	}
	return ref.Sub(e.PublishedAt.UTC()).Hours() <= d.windowHours
}

// Dedupe drops entries outside the window, then keeps one entry per key:
// the first seen unless a later one scores strictly higher. Survivors keep
// the position of the first entry seen for their key.
func (d *Deduplicator) Dedupe(entries []Entry) []Entry {
	ref := d.now().UTC()
	out := make([]Entry, 0, len(entries))
	index := map[string]int{}
	for _, it := range entries {
		if !d.InWindow(it, ref) {
			continue
		}
		if d.mode.empty() {
			out = append(out, it)
			continue
		}
		k := d.mode.Key(it)
		i, seen := index[k]
		if !seen {
			index[k] = len(out)
			out = append(out, it)
			continue
		}
		if it.Score > out[i].Score {
			out[i] = it
		}
	}
	return out
}
