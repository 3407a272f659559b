package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/urfave/cli/v2"

	"github.com/largefile/ltv/internal/config"
	lerrors "github.com/largefile/ltv/internal/errors"
	"github.com/largefile/ltv/internal/events"
	"github.com/largefile/ltv/internal/replace"
	"github.com/largefile/ltv/pkg/globset"
)

var batchCommand = &cli.Command{
	Name:      "batch",
	Usage:     "run every job in a TOML manifest against its glob of matching files",
	ArgsUsage: "<manifest.toml> <root>",
	Action:    runBatch,
}

func runBatch(c *cli.Context) error {
	if c.NArg() < 2 {
		return cli.Exit("usage: ltv batch <manifest.toml> <root>", 1)
	}
	manifestPath := c.Args().Get(0)
	root := c.Args().Get(1)

	manifest, err := config.LoadBatchManifest(manifestPath)
	if err != nil {
		return err
	}

	var errs []error
	for _, job := range manifest.Job {
		files, err := globset.Expand(root, job.Glob)
		if err != nil {
			errs = append(errs, fmt.Errorf("job %q: %w", job.Name, err))
			continue
		}
		if len(files) == 0 {
			fmt.Printf("job %q: no files matched %s\n", job.Name, job.Glob)
			continue
		}
		for _, file := range files {
			if err := runBatchJob(file, job); err != nil {
				errs = append(errs, err)
				continue
			}
			fmt.Printf("job %q: rewrote %s\n", job.Name, file)
		}
	}

	if len(errs) > 0 {
		return lerrors.NewMultiError(errs)
	}
	return nil
}

func runBatchJob(file string, job config.BatchJob) error {
	tmp, err := os.CreateTemp(filepath.Dir(file), "ltv-batch-*")
	if err != nil {
		return err
	}
	outputPath := tmp.Name()
	tmp.Close()
	defer os.Remove(outputPath)

	sink := make(chan events.Message, 10000)
	cancel := &atomic.Bool{}
	go func() {
		replace.Rewrite(context.Background(), file, outputPath, job.Pattern, job.Replacement, job.IsRegex, sink, cancel)
		close(sink)
	}()

	for msg := range sink {
		if msg.ErrMsg != nil {
			return fmt.Errorf("job %q on %s: %s", job.Name, file, msg.ErrMsg.Message)
		}
	}

	return os.Rename(outputPath, file)
}
