package main

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/largefile/ltv/internal/lineindex"
	"github.com/largefile/ltv/internal/mmapfile"
	"github.com/largefile/ltv/internal/textenc"
)

const viewPageSize = 50

var viewCommand = &cli.Command{
	Name:      "view",
	Usage:     "print a page of lines starting at a given line number",
	ArgsUsage: "<file> [start-line]",
	Action:    runView,
}

func runView(c *cli.Context) error {
	if c.NArg() < 1 {
		return cli.Exit("usage: ltv view <file> [start-line]", 1)
	}
	path := c.Args().Get(0)
	startLine := 0
	if c.NArg() > 1 {
		fmt.Sscanf(c.Args().Get(1), "%d", &startLine)
	}

	h, err := openHandle(c, path)
	if err != nil {
		return err
	}
	defer h.Close()

	idx := lineindex.Build(h, 0)
	total := idx.TotalLines()
	endLine := int64(startLine) + viewPageSize
	if endLine > total {
		endLine = total
	}

	fmt.Printf("File: %s\n", path)
	fmt.Printf("Total lines: %d\n", total)
	fmt.Printf("Showing lines %d-%d\n", startLine+1, endLine)
	fmt.Println(strings.Repeat("=", 80))

	for line := int64(startLine); line < endLine; line++ {
		start, end, ok := idx.LineRange(h, line)
		if !ok {
			break
		}
		text := strings.TrimRight(h.Decode(start, end), "\r\n")
		fmt.Printf("%6d | %s\n", line+1, text)
	}

	fmt.Println(strings.Repeat("=", 80))
	return nil
}

func openHandle(c *cli.Context, path string) (*mmapfile.Handle, error) {
	if enc := c.String("encoding"); enc != "" {
		return mmapfile.Open(path, textenc.ParseEncoding(enc))
	}
	return mmapfile.OpenDetectEncoding(path)
}
