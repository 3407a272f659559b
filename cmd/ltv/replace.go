package main

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"

	"github.com/urfave/cli/v2"

	"github.com/largefile/ltv/internal/events"
	"github.com/largefile/ltv/internal/replace"
)

var replaceCommand = &cli.Command{
	Name:      "replace",
	Aliases:   []string{"r"},
	Usage:     "stream a find/replace over a file, writing the result to a new file or in place",
	ArgsUsage: "<file> <pattern> <replacement>",
	Flags: []cli.Flag{
		&cli.BoolFlag{Name: "regex", Aliases: []string{"E"}, Usage: "interpret pattern as a regular expression"},
		&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "write result here instead of replacing the input in place"},
	},
	Action: runReplace,
}

func runReplace(c *cli.Context) error {
	if c.NArg() < 3 {
		return cli.Exit("usage: ltv replace <file> <pattern> <replacement>", 1)
	}
	inputPath := c.Args().Get(0)
	pattern := c.Args().Get(1)
	replacement := c.Args().Get(2)

	inPlace := c.String("output") == ""
	outputPath := c.String("output")
	if inPlace {
		tmp, err := os.CreateTemp("", "ltv-replace-*")
		if err != nil {
			return err
		}
		outputPath = tmp.Name()
		tmp.Close()
		defer os.Remove(outputPath)
	}

	sink := make(chan events.Message, 10000)
	cancel := &atomic.Bool{}
	go func() {
		replace.Rewrite(context.Background(), inputPath, outputPath, pattern, replacement, c.Bool("regex"), sink, cancel)
		close(sink)
	}()

	var lastErr error
	for msg := range sink {
		switch {
		case msg.Prog != nil:
			fmt.Fprintf(os.Stderr, "\rreplacing... %d/%d bytes", msg.Prog.ProcessedBytes, msg.Prog.TotalBytes)
		case msg.ErrMsg != nil:
			lastErr = cli.Exit(msg.ErrMsg.Message, 1)
		case msg.Done != nil:
			fmt.Fprintln(os.Stderr)
		}
	}
	if lastErr != nil {
		return lastErr
	}

	if inPlace {
		if err := os.Rename(outputPath, inputPath); err != nil {
			return err
		}
		fmt.Printf("Replaced in place: %s\n", inputPath)
	} else {
		fmt.Printf("Wrote result to: %s\n", outputPath)
	}
	return nil
}
