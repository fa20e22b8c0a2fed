package metrics

import (
	"sync"
	"time"
)

// Metrics collects counters for one process. Runs are short-lived, so the
// values describe the current invocation.
type Metrics struct {
	mu sync.RWMutex

	// Counters
	FeedsFetched       int64
	FeedsFailed        int64
	EntriesFetched     int64
	LanguageFiltered   int64
	Blocked            int64
	DuplicatesFiltered int64
	EntriesKept        int64
	CommentaryRequests int64
	CommentaryFailures int64

	// Timings
	LastProcessingTime  time.Duration
	TotalProcessingTime time.Duration
	ProcessingCount     int64

	// Status
	LastRunTime   time.Time
	LastErrorTime time.Time
	LastError     string
	IsHealthy     bool
}

var Global = New()

func New() *Metrics {
	return &Metrics{IsHealthy: true}
}

func (m *Metrics) RecordFeed(ok bool, entries int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ok {
		m.FeedsFetched++
		m.EntriesFetched += int64(entries)
		return
	}
	m.FeedsFailed++
}

func (m *Metrics) AddLanguageFiltered(n int) {
	m.add(&m.LanguageFiltered, n)
}

func (m *Metrics) AddBlocked(n int) {
	m.add(&m.Blocked, n)
}

func (m *Metrics) AddDuplicatesFiltered(n int) {
	m.add(&m.DuplicatesFiltered, n)
}

func (m *Metrics) SetEntriesKept(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.EntriesKept = int64(n)
}

func (m *Metrics) RecordCommentary(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CommentaryRequests++
	if err != nil {
		m.CommentaryFailures++
	}
}

func (m *Metrics) add(counter *int64, n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	*counter += int64(n)
}

func (m *Metrics) RecordProcessingTime(duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.LastProcessingTime = duration
	m.TotalProcessingTime += duration
	m.ProcessingCount++
}

func (m *Metrics) SetLastRun() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastRunTime = time.Now()
	m.IsHealthy = true
}

func (m *Metrics) SetError(err string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastError = err
	m.LastErrorTime = time.Now()
	m.IsHealthy = false
}

// Attrs flattens the counters into slog key/value pairs.
func (m *Metrics) Attrs() []any {
	stats := m.GetStats()
	keys := []string{
		"feeds_fetched", "feeds_failed", "entries_fetched", "language_filtered",
		"blocked", "duplicates_filtered", "entries_kept", "commentary_requests",
		"commentary_failures", "last_processing_time_ms",
	}
	out := make([]any, 0, len(keys)*2)
	for _, k := range keys {
		out = append(out, k, stats[k])
	}
	return out
}

func (m *Metrics) GetStats() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return map[string]interface{}{
		"feeds_fetched":           m.FeedsFetched,
		"feeds_failed":            m.FeedsFailed,
		"entries_fetched":         m.EntriesFetched,
		"language_filtered":       m.LanguageFiltered,
		"blocked":                 m.Blocked,
		"duplicates_filtered":     m.DuplicatesFiltered,
		"entries_kept":            m.EntriesKept,
		"commentary_requests":     m.CommentaryRequests,
		"commentary_failures":     m.CommentaryFailures,
		"last_processing_time_ms": m.LastProcessingTime.Milliseconds(),
		"last_run_time":           m.LastRunTime.Format(time.RFC3339),
		"last_error_time":         m.LastErrorTime.Format(time.RFC3339),
		"last_error":              m.LastError,
		"is_healthy":              m.IsHealthy,
	}
}
