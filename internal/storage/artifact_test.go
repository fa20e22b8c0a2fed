package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chamsin/digest/internal/news"
)

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scripts", "news_cache.json")
	a := NewArtifact(path)

	rows := news.Project([]news.Entry{
		{Title: "Gaza <ceasefire> & talks", URL: "https://u/1", Country: "Israel/Palestine", Score: 1.5},
		{Title: "Beyrouth: l'armée déployée", URL: "https://u/2"},
	}, []string{"title", "url", "country_guess"})
	require.NoError(t, a.Save(rows))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.True(t, strings.HasPrefix(text, "[\n  {\n    \"title\": "), text)
	assert.Contains(t, text, "Gaza <ceasefire> & talks")
	assert.Contains(t, text, "l'armée déployée")
	assert.Less(t, strings.Index(text, `"title"`), strings.Index(text, `"url"`))

	loaded, err := a.Load()
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, "Israel/Palestine", loaded[0]["country_guess"])
	assert.Equal(t, 1.5, loaded[0]["score"])
}

func TestSaveReplacesWholeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	a := NewArtifact(path)

	require.NoError(t, a.Save([]map[string]string{{"title": strings.Repeat("x", 500)}}))
	require.NoError(t, a.Save([]map[string]string{}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(data))

	leftovers, err := filepath.Glob(filepath.Join(filepath.Dir(path), ".*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := NewArtifact(filepath.Join(dir, "missing.json")).Load()
	assert.ErrorIs(t, err, os.ErrNotExist)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{not json"), 0o644))
	_, err = NewArtifact(bad).Load()
	assert.Error(t, err)

	empty := filepath.Join(dir, "empty.json")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))
	rows, err := NewArtifact(empty).Load()
	assert.NoError(t, err)
	assert.Empty(t, rows)
}
