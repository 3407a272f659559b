package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// BatchJob describes one find/replace job against a glob of files, as
// loaded from a TOML manifest for the batch CLI command.
type BatchJob struct {
	Name          string `toml:"name"`
	Glob          string `toml:"glob"`
	Pattern       string `toml:"pattern"`
	Replacement   string `toml:"replacement"`
	IsRegex       bool   `toml:"regex"`
	CaseSensitive bool   `toml:"case_sensitive"`
}

// BatchManifest is the top-level shape of a batch job TOML file:
//
//	[[job]]
//	name = "rename-widget"
//	glob = "**/*.go"
//	pattern = "OldWidget"
//	replacement = "NewWidget"
type BatchManifest struct {
	Job []BatchJob `toml:"job"`
}

// LoadBatchManifest reads and parses a TOML batch manifest from path.
func LoadBatchManifest(path string) (*BatchManifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read batch manifest %s: %w", path, err)
	}

	var manifest BatchManifest
	if err := toml.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("parse batch manifest %s: %w", path, err)
	}
	for i, job := range manifest.Job {
		if job.Glob == "" {
			return nil, fmt.Errorf("batch manifest %s: job %d (%q) is missing a glob", path, i, job.Name)
		}
		if job.Pattern == "" {
			return nil, fmt.Errorf("batch manifest %s: job %d (%q) is missing a pattern", path, i, job.Name)
		}
	}
	return &manifest, nil
}
