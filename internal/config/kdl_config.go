// Package config loads engine tuning parameters from a `.ltv.kdl` file
// (sample period, batch/chunk sizes, worker count, channel capacity,
// default encoding) and batch-job manifests from TOML.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	kdl "github.com/sblinch/kdl-go"
	"github.com/sblinch/kdl-go/document"

	"github.com/largefile/ltv/internal/lineindex"
	"github.com/largefile/ltv/internal/replace"
	"github.com/largefile/ltv/internal/search"
)

// Config holds every tunable that §9's design notes leave as a constant
// in the reference implementation but that a consumer may reasonably
// want to override per project.
type Config struct {
	SamplePeriod    int
	CountBatchSize  int64
	FetchChunkSize  int64
	RewriteBuffer   int64
	RewriteOverlap  int64
	Workers         int
	ChannelCapacity int
	DefaultEncoding string
}

// Default returns the configuration matching the constants the search
// and replace packages fall back to when unconfigured.
func Default() *Config {
	return &Config{
		SamplePeriod:    lineindex.DefaultSamplePeriod,
		CountBatchSize:  search.CountBatchSize,
		FetchChunkSize:  search.FetchChunkSize,
		RewriteBuffer:   replace.RewriteBufferSize,
		RewriteOverlap:  replace.RewriteOverlapSize,
		Workers:         0, // 0 means "use available parallelism"
		ChannelCapacity: 10000,
		DefaultEncoding: "utf-8",
	}
}

// LoadKDL reads `.ltv.kdl` from projectRoot, if present, layering
// overrides onto Default(). A missing file is not an error; it simply
// yields the defaults.
func LoadKDL(projectRoot string) (*Config, error) {
	path := filepath.Join(projectRoot, ".ltv.kdl")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	return parseKDL(string(content))
}

func parseKDL(content string) (*Config, error) {
	cfg := Default()

	doc, err := kdl.Parse(strings.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("parse kdl config: %w", err)
	}

	for _, n := range doc.Nodes {
		if nodeName(n) != "engine" {
			continue
		}
		for _, cn := range n.Children {
			switch nodeName(cn) {
			case "sample_period":
				if v, ok := firstIntArg(cn); ok {
					cfg.SamplePeriod = v
				}
			case "count_batch_size":
				if v, ok := firstSizeArg(cn); ok {
					cfg.CountBatchSize = v
				}
			case "fetch_chunk_size":
				if v, ok := firstSizeArg(cn); ok {
					cfg.FetchChunkSize = v
				}
			case "rewrite_buffer_size":
				if v, ok := firstSizeArg(cn); ok {
					cfg.RewriteBuffer = v
				}
			case "rewrite_overlap_size":
				if v, ok := firstSizeArg(cn); ok {
					cfg.RewriteOverlap = v
				}
			case "workers":
				if v, ok := firstIntArg(cn); ok {
					cfg.Workers = v
				}
			case "channel_capacity":
				if v, ok := firstIntArg(cn); ok {
					cfg.ChannelCapacity = v
				}
			case "default_encoding":
				if s, ok := firstStringArg(cn); ok {
					cfg.DefaultEncoding = s
				}
			}
		}
	}

	return cfg, nil
}

func firstSizeArg(n *document.Node) (int64, bool) {
	if v, ok := firstIntArg(n); ok {
		return int64(v), true
	}
	if s, ok := firstStringArg(n); ok {
		if sz, err := parseSize(s); err == nil {
			return sz, true
		}
	}
	return 0, false
}

func nodeName(n *document.Node) string {
	if n == nil || n.Name == nil {
		return ""
	}
	return n.Name.NodeNameString()
}

func firstIntArg(n *document.Node) (int, bool) {
	if len(n.Arguments) == 0 {
		return 0, false
	}
	switch v := n.Arguments[0].Value.(type) {
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

func firstStringArg(n *document.Node) (string, bool) {
	if len(n.Arguments) == 0 {
		return "", false
	}
	if s, ok := n.Arguments[0].Value.(string); ok {
		return s, true
	}
	return "", false
}

// parseSize handles size strings like "4MB", "1024KB", "1GB".
func parseSize(s string) (int64, error) {
	s = strings.ToUpper(strings.TrimSpace(s))

	var multiplier int64 = 1
	var numStr string

	switch {
	case strings.HasSuffix(s, "GB"):
		multiplier = 1024 * 1024 * 1024
		numStr = strings.TrimSuffix(s, "GB")
	case strings.HasSuffix(s, "MB"):
		multiplier = 1024 * 1024
		numStr = strings.TrimSuffix(s, "MB")
	case strings.HasSuffix(s, "KB"):
		multiplier = 1024
		numStr = strings.TrimSuffix(s, "KB")
	case strings.HasSuffix(s, "B"):
		multiplier = 1
		numStr = strings.TrimSuffix(s, "B")
	default:
		numStr = s
	}

	num, err := strconv.ParseInt(numStr, 10, 64)
	if err != nil {
		return 0, err
	}
	return num * multiplier, nil
}
