package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/largefile/ltv/internal/debug"
	"github.com/largefile/ltv/internal/version"
)

func main() {
	app := &cli.App{
		Name:    "ltv",
		Usage:   "view, search, and replace inside large text files without loading them into memory",
		Version: version.Version,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "write a debug trace log and print its path to stderr at startup",
			},
			&cli.StringFlag{
				Name:  "encoding",
				Usage: "force a text encoding (utf-8, utf-16le, utf-16be, windows-1252) instead of sniffing",
			},
		},
		Before: func(c *cli.Context) error {
			if c.Bool("verbose") {
				debug.EnableDebug = "true"
				path, err := debug.InitDebugLogFile()
				if err != nil {
					return err
				}
				fmt.Fprintf(os.Stderr, "debug trace: %s\n", path)
			}
			return nil
		},
		After: func(c *cli.Context) error {
			return debug.CloseDebugLog()
		},
		Commands: []*cli.Command{
			viewCommand,
			searchCommand,
			replaceCommand,
			infoCommand,
			batchCommand,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "ltv: %v\n", err)
		os.Exit(1)
	}
}
