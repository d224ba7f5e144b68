package main

import (
	"fmt"
	"log"
	"os"

	"github.com/coreos/pkg/capnslog"
	"github.com/urfave/cli/v2"
	"github.com/ztrue/tracerr"

	"github.com/pontaoski/leanparse/lexer"
)

var plog = capnslog.NewPackageLogger("github.com/pontaoski/leanparse", "main")

// settings loads the project file and applies the command line overrides on
// top of it.
func settings(c *cli.Context) (projectConfig, error) {
	var (
		cfg projectConfig
		err error
	)
	if path := c.String("config"); path != "" {
		cfg, err = loadConfigFile(path)
	} else {
		cfg, err = loadConfig(".")
	}
	if err != nil {
		return cfg, err
	}

	if c.IsSet("workers") {
		cfg.Workers = c.Int("workers")
	}
	if c.IsSet("ext") {
		cfg.Extensions = c.StringSlice("ext")
	}
	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}
	if c.IsSet("format") {
		cfg.Format = c.String("format")
	}
	if err := cfg.validate(); err != nil {
		return cfg, err
	}

	level, _ := cfg.level()
	capnslog.SetGlobalLogLevel(level)
	plog.Debugf("settings: %s", cfg)
	return cfg, nil
}

func parseArgs(c *cli.Context) (projectConfig, []parseResult, error) {
	cfg, err := settings(c)
	if err != nil {
		return cfg, nil, err
	}
	if c.NArg() == 0 {
		return cfg, nil, cli.Exit("no files given", 1)
	}

	paths, err := collectSources(c.Args().Slice(), cfg.Extensions)
	if err != nil {
		return cfg, nil, err
	}
	return cfg, parseAll(paths, cfg.Workers), nil
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "leanparse",
		Usage: "parse Lean source files",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "project file to use instead of ./leanparse.yaml or ./leanparse.toml",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "CRITICAL, ERROR, WARNING, NOTICE, INFO, DEBUG or TRACE",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "files parsed at the same time",
			},
			&cli.StringSliceFlag{
				Name:  "ext",
				Usage: "extensions picked up when walking directories",
			},
			&cli.BoolFlag{
				Name:  "trace",
				Usage: "print errors with their stack trace and source",
				Value: false,
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "init",
				Usage:     "write a default leanparse.yaml",
				ArgsUsage: "[dir]",
				Action: func(c *cli.Context) error {
					dir := c.Args().First()
					if dir == "" {
						dir = "."
					}
					path, err := writeDefaultConfig(dir)
					if err != nil {
						return err
					}
					fmt.Fprintf(c.App.Writer, "wrote %s\n", path)
					return nil
				},
			},
			{
				Name:      "parse",
				Usage:     "parse files and print their syntax trees",
				ArgsUsage: "paths...",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "format",
						Usage: "repr, json, yaml or lean",
					},
				},
				Action: func(c *cli.Context) error {
					cfg, results, err := parseArgs(c)
					if err != nil {
						return err
					}
					if err := writeResults(c.App.Writer, cfg.Format, results); err != nil {
						return err
					}

					failed := 0
					for _, r := range results {
						if r.Err != nil {
							failed++
							reportError(c.App.ErrWriter, r, c.Bool("trace"))
						}
					}
					if failed > 0 {
						return cli.Exit(fmt.Sprintf("%d of %d files failed to parse", failed, len(results)), 1)
					}
					return nil
				},
			},
			{
				Name:      "check",
				Usage:     "report whether files parse",
				ArgsUsage: "paths...",
				Action: func(c *cli.Context) error {
					_, results, err := parseArgs(c)
					if err != nil {
						return err
					}

					failed := 0
					for _, r := range results {
						if r.Err != nil {
							failed++
							reportError(c.App.Writer, r, c.Bool("trace"))
							continue
						}
						fmt.Fprintf(c.App.Writer, "%s: ok (%d declarations)\n", r.Path, r.Declarations())
					}
					if failed > 0 {
						return cli.Exit(fmt.Sprintf("%d of %d files failed to parse", failed, len(results)), 1)
					}
					return nil
				},
			},
			{
				Name:      "tokens",
				Usage:     "print the token stream of a file",
				ArgsUsage: "path",
				Action: func(c *cli.Context) error {
					if _, err := settings(c); err != nil {
						return err
					}
					path := c.Args().First()
					if path == "" {
						return cli.Exit("no file given", 1)
					}

					handle, err := os.Open(path)
					if err != nil {
						return tracerr.Wrap(err)
					}
					defer handle.Close()

					l, err := lexer.FromReader(handle, path)
					if err != nil {
						return err
					}
					toks, err := l.Tokens()
					for _, tok := range toks {
						fmt.Fprintf(c.App.Writer, "%s\t%s\n", tok.Location, tok)
					}
					if err != nil {
						reportError(c.App.ErrWriter, parseResult{Path: path, Err: err}, c.Bool("trace"))
						return cli.Exit("", 1)
					}
					return nil
				},
			},
		},
	}
}

func main() {
	capnslog.SetFormatter(capnslog.NewPrettyFormatter(os.Stderr, false))
	capnslog.SetGlobalLogLevel(capnslog.INFO)

	app := newApp()
	app.ExitErrHandler = func(context *cli.Context, err error) {
		if exit, ok := err.(cli.ExitCoder); ok {
			if msg := exit.Error(); msg != "" {
				fmt.Fprintln(os.Stderr, msg)
			}
			os.Exit(exit.ExitCode())
		}
		if context.Bool("trace") {
			tracerr.PrintSourceColor(err)
			os.Exit(1)
		}
		log.Fatalf("leanparse: %v", tracerr.Unwrap(err))
	}
	app.Run(os.Args)
}
