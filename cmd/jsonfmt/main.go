// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

// Program jsonfmt validates, formats, minifies, and shares JSON documents,
// and maintains a persistent workspace of named documents.
//
// Usage:
//
//	jsonfmt format [--indent 2|4] [--tabs] [-w] [file ...]
//	jsonfmt minify [-w] [file ...]
//	jsonfmt check [file ...]
//	jsonfmt watch file
//	jsonfmt share [--base url] [file]
//	jsonfmt unshare url
//	jsonfmt open file ...
//	jsonfmt tabs [new|close|select|rename|dup|clear|format|minify]
//	jsonfmt export [--dir d] [tab]
//	jsonfmt prefs [--indent n] [--tabs|--spaces] [--theme t] [--auto-format]
//	jsonfmt reset
//
// With no file arguments, commands that read documents read standard input.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/creachadair/jsonfmt/workspace"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	e := &env{stdin: os.Stdin, stdout: os.Stdout, stderr: os.Stderr}
	if err := newApp(e).Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "jsonfmt: %v\n", err)
		os.Exit(1)
	}
}

// env carries the I/O streams and shared settings of a command invocation.
type env struct {
	stdin          io.Reader
	stdout, stderr io.Writer

	log   *zap.Logger // if nil, set up by the app from flags
	store workspace.Store
}

// errInvalid is reported when one or more inputs are not valid JSON. The
// details have already been printed.
var errInvalid = cli.Exit("", 1)

func newApp(e *env) *cli.App {
	return &cli.App{
		Name:      "jsonfmt",
		Usage:     "Validate, format, and share JSON documents",
		Reader:    e.stdin,
		Writer:    e.stdout,
		ErrWriter: e.stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "state",
				Usage:   "path of the workspace state file",
				EnvVars: []string{"JSONFMT_STATE"},
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "enable verbose logging",
			},
		},
		Before: e.setup,
		After: func(*cli.Context) error {
			if e.log != nil {
				e.log.Sync()
			}
			return nil
		},
		Commands: []*cli.Command{
			formatCommand(e),
			minifyCommand(e),
			checkCommand(e),
			watchCommand(e),
			shareCommand(e),
			unshareCommand(e),
			openCommand(e),
			tabsCommand(e),
			exportCommand(e),
			prefsCommand(e),
			resetCommand(e),
		},
	}
}

// setup initializes the logger and the state store from global flags.
func (e *env) setup(c *cli.Context) error {
	if e.log == nil {
		log, err := newLogger(c.Bool("debug"))
		if err != nil {
			return err
		}
		e.log = log
	}
	path := c.String("state")
	if path == "" {
		var err error
		path, err = workspace.DefaultPath()
		if err != nil {
			return err
		}
	}
	e.store = workspace.Store{Path: path, Logger: e.log.Named("store")}
	return nil
}

// newLogger returns a logger writing to stderr. By default only warnings and
// errors are logged.
func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.DisableStacktrace = true
	return cfg.Build()
}
