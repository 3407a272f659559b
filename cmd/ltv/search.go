package main

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/urfave/cli/v2"

	"github.com/largefile/ltv/internal/events"
	"github.com/largefile/ltv/internal/lineindex"
	"github.com/largefile/ltv/internal/search"
)

var searchCommand = &cli.Command{
	Name:      "search",
	Aliases:   []string{"s"},
	Usage:     "count and list matches of a pattern in a file",
	ArgsUsage: "<file> <pattern>",
	Flags: []cli.Flag{
		&cli.BoolFlag{Name: "case-sensitive", Aliases: []string{"i"}},
		&cli.BoolFlag{Name: "regex", Aliases: []string{"E"}, Usage: "interpret pattern as a regular expression"},
		&cli.IntFlag{Name: "max-results", Value: 20, Usage: "how many matches to list (0 shows only the count)"},
	},
	Action: runSearch,
}

func runSearch(c *cli.Context) error {
	if c.NArg() < 2 {
		return cli.Exit("usage: ltv search <file> <pattern>", 1)
	}
	path := c.Args().Get(0)
	pattern := c.Args().Get(1)

	h, err := openHandle(c, path)
	if err != nil {
		return err
	}
	defer h.Close()

	eng := &search.Engine{}
	if err := eng.Configure(pattern, c.Bool("regex"), c.Bool("case-sensitive")); err != nil {
		return err
	}

	idx := lineindex.Build(h, 0)
	maxResults := c.Int("max-results")

	sink := make(chan events.Message, 10000)
	cancel := &atomic.Bool{}
	go func() {
		eng.FindAll(context.Background(), h, sink, maxResults, cancel)
		close(sink)
	}()

	var total int64
	var matches []events.Match
	for msg := range sink {
		switch {
		case msg.Count != nil:
			total += msg.Count.Count
		case msg.Chunk != nil:
			matches = append(matches, msg.Chunk.Matches...)
		case msg.ErrMsg != nil:
			return cli.Exit(msg.ErrMsg.Message, 1)
		}
	}

	if total == 0 {
		fmt.Println("No matches found.")
		return nil
	}

	fmt.Printf("Found %d match(es):\n", total)
	fmt.Println(strings.Repeat("=", 80))
	for i, m := range matches {
		if maxResults > 0 && i >= maxResults {
			break
		}
		line := idx.LineAtOffset(h, m.ByteOffset)
		start, end, _ := idx.LineRange(h, line)
		text := strings.TrimRight(h.Decode(start, end), "\r\n")
		fmt.Printf("%6d | %s\n", line+1, text)
	}
	return nil
}
