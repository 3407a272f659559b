package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadBatchManifest(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "jobs.toml")
	content := `[[job]]
name = "rename-widget"
glob = "**/*.go"
pattern = "OldWidget"
replacement = "NewWidget"
regex = false
case_sensitive = true

[[job]]
name = "normalize-header"
glob = "**/*.md"
pattern = "(?i)^# .*$"
replacement = "# Title"
regex = true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	manifest, err := LoadBatchManifest(path)
	require.NoError(t, err)
	require.Len(t, manifest.Job, 2)
	assert.Equal(t, "rename-widget", manifest.Job[0].Name)
	assert.True(t, manifest.Job[0].CaseSensitive)
	assert.True(t, manifest.Job[1].IsRegex)
}

func TestLoadBatchManifestRejectsMissingPattern(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "jobs.toml")
	require.NoError(t, os.WriteFile(path, []byte(`[[job]]
name = "broken"
glob = "**/*.go"
`), 0644))

	_, err := LoadBatchManifest(path)
	require.Error(t, err)
}

func TestLoadBatchManifestMissingFileErrors(t *testing.T) {
	_, err := LoadBatchManifest("/nonexistent/jobs.toml")
	require.Error(t, err)
}
