// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/creachadair/jsonfmt/format"
	"github.com/creachadair/jsonfmt/workspace"
	"github.com/fsnotify/fsnotify"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

func watchCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:      "watch",
		Usage:     "Reformat a file whenever it changes",
		ArgsUsage: "file",
		Description: `
Watch a file and reformat it in place once writes to it have paused. The file
is only rewritten when it contains valid JSON; errors are logged.`[1:],
		Flags: []cli.Flag{
			indentFlag(),
			tabsFlag(),
			&cli.DurationFlag{
				Name:  "delay",
				Value: workspace.DefaultDebounce,
				Usage: "period of inactivity before reformatting",
			},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return errors.New("usage: watch file")
			}
			cfg, err := e.config(c)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(c.Context, os.Interrupt)
			defer stop()
			return watchFile(ctx, c.Args().First(), cfg, c.Duration("delay"), e.log.Named("watch"))
		},
	}
}

// watchFile reformats the file at path after each burst of changes to it,
// until ctx ends.
func watchFile(ctx context.Context, path string, cfg format.Config, delay time.Duration, log *zap.Logger) error {
	path = filepath.Clean(path)
	if _, err := os.Stat(path); err != nil {
		return err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()

	// Watch the directory rather than the file, since many editors save by
	// replacing the file.
	if err := w.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watch %q: %w", path, err)
	}
	deb := workspace.NewDebouncer(delay)
	defer deb.Stop()

	log.Info("watching", zap.String("path", path), zap.Duration("delay", delay))
	reformat := func() {
		if _, err := reformatFile(path, cfg, log); err != nil {
			log.Error("reformat failed", zap.String("path", path), zap.Error(err))
		}
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != path {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) {
				log.Debug("change", zap.Stringer("event", ev))
				deb.Trigger(reformat)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn("watcher error", zap.Error(err))
		}
	}
}

// reformatFile rewrites the file at path in formatted form, if it is valid,
// non-blank JSON and not already formatted. It reports whether the file was
// rewritten.
func reformatFile(path string, cfg format.Config, log *zap.Logger) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}
	text := string(data)
	if strings.TrimSpace(text) == "" {
		return false, nil
	}
	res := format.Format(text, cfg)
	if !res.Valid {
		log.Info("not reformatting invalid JSON", zap.String("path", path), zap.String("error", res.Error))
		return false, nil
	}
	out := res.Formatted + "\n"
	if out == text {
		return false, nil
	}
	if err := os.WriteFile(path, []byte(out), 0o644); err != nil {
		return false, err
	}
	log.Info("reformatted", zap.String("path", path))
	return true, nil
}
