package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Artifact is the JSON file a run produces. Every write replaces the whole
// file; readers never observe a partial document.
type Artifact struct {
	filePath string
}

func NewArtifact(filePath string) *Artifact {
	return &Artifact{filePath: filePath}
}

func (a *Artifact) Path() string {
	return a.filePath
}

// Save encodes rows as an indented JSON array and atomically replaces the
// artifact. HTML characters are written as-is.
func (a *Artifact) Save(rows any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rows); err != nil {
		return fmt.Errorf("failed to marshal artifact: %w", err)
	}
	return WriteFileAtomic(a.filePath, buf.Bytes(), 0o644)
}

// Load decodes the artifact into generic rows.
func (a *Artifact) Load() ([]map[string]any, error) {
	data, err := os.ReadFile(a.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read artifact: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	var rows []map[string]any
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to unmarshal artifact: %w", err)
	}
	return rows, nil
}

// WriteFileAtomic writes data to a temporary file next to path and renames
// it over path. Missing parent directories are created.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", tmpName, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", tmpName, err)
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		return fmt.Errorf("failed to chmod %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}

// WriteArtifact is shorthand for NewArtifact(path).Save(rows).
func WriteArtifact(path string, rows any) error {
	return NewArtifact(path).Save(rows)
}

// LoadArtifact is shorthand for NewArtifact(path).Load().
func LoadArtifact(path string) ([]map[string]any, error) {
	return NewArtifact(path).Load()
}
