package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/largefile/ltv/internal/lineindex"
)

var infoCommand = &cli.Command{
	Name:      "info",
	Usage:     "print path, size, encoding, and line count for a file",
	ArgsUsage: "<file>",
	Action:    runInfo,
}

func runInfo(c *cli.Context) error {
	if c.NArg() < 1 {
		return cli.Exit("usage: ltv info <file>", 1)
	}
	path := c.Args().Get(0)

	h, err := openHandle(c, path)
	if err != nil {
		return err
	}
	defer h.Close()

	idx := lineindex.Build(h, 0)

	fmt.Printf("Path:     %s\n", h.Path())
	fmt.Printf("Size:     %d bytes\n", h.Len())
	fmt.Printf("Encoding: %s\n", h.Encoding())
	fmt.Printf("Lines:    %d\n", idx.TotalLines())
	return nil
}
