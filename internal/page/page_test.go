package page

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPage = `<!DOCTYPE html>
<html><head><title>Chamsin</title></head>
<body>
<header>Live</header>
<section id="live-digest"><p>Loading…</p></section>
<footer>chamsin</footer>
</body></html>`

var stamp = time.Date(2025, 6, 1, 12, 0, 0, 0, time.FixedZone("CEST", 2*3600))

func writePage(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "index.html")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestInjectReplacesMarkerContent(t *testing.T) {
	path := writePage(t, testPage)

	require.NoError(t, Inject(path, "#live-digest", "<h3>Iran</h3><p>Talks resume.</p>", stamp))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	html := string(data)
	assert.True(t, strings.HasPrefix(html, "<!DOCTYPE html>"), html)
	assert.Contains(t, html, `<section id="live-digest" data-updated="2025-06-01T10:00:00Z"><h3>Iran</h3><p>Talks resume.</p></section>`)
	assert.NotContains(t, html, "Loading")
	assert.Contains(t, html, "<header>Live</header>")
	assert.Contains(t, html, "<footer>chamsin</footer>")
}

func TestInjectTwiceKeepsOneDigest(t *testing.T) {
	path := writePage(t, testPage)

	require.NoError(t, Inject(path, "#live-digest", "<p>first</p>", stamp))
	require.NoError(t, Inject(path, "#live-digest", "<p>second</p>", stamp.Add(time.Hour)))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	html := string(data)
	assert.NotContains(t, html, "first")
	assert.Contains(t, html, `data-updated="2025-06-01T11:00:00Z"><p>second</p>`)
	assert.Equal(t, 1, strings.Count(html, "data-updated"))
}

func TestInjectMissingMarker(t *testing.T) {
	path := writePage(t, testPage)

	err := Inject(path, "#nope", "<p>x</p>", stamp)
	assert.ErrorIs(t, err, ErrMarkerNotFound)

	data, readErr := os.ReadFile(path)
	require.NoError(t, readErr)
	assert.Equal(t, testPage, string(data))
}

func TestInjectMissingPage(t *testing.T) {
	err := Inject(filepath.Join(t.TempDir(), "missing.html"), "#live-digest", "<p>x</p>", stamp)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
