package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadKDLMissingFileYieldsDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := LoadKDL(dir)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadKDLOverridesEngineSettings(t *testing.T) {
	dir := t.TempDir()
	content := `engine {
    sample_period 512
    count_batch_size "8MB"
    workers 4
    default_encoding "windows-1252"
}
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".ltv.kdl"), []byte(content), 0644))

	cfg, err := LoadKDL(dir)
	require.NoError(t, err)
	assert.Equal(t, 512, cfg.SamplePeriod)
	assert.EqualValues(t, 8*1024*1024, cfg.CountBatchSize)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, "windows-1252", cfg.DefaultEncoding)
}

func TestParseSizeUnits(t *testing.T) {
	cases := map[string]int64{
		"10MB": 10 * 1024 * 1024,
		"1GB":  1024 * 1024 * 1024,
		"512KB": 512 * 1024,
		"100":  100,
	}
	for in, want := range cases {
		got, err := parseSize(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}
