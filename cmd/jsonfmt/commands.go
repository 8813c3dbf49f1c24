// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/creachadair/jsonfmt/format"
	"github.com/creachadair/jsonfmt/workspace"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

// sharedTabName is the name of a tab created from a share link.
const sharedTabName = "Shared JSON"

const defaultShareBase = "https://jsonfmt.app/"

// An input is a document read from a file or from standard input.
type input struct {
	name string // for messages
	path string // empty for standard input
	text string
}

func (e *env) readInputs(args []string) ([]input, error) {
	if len(args) == 0 {
		data, err := io.ReadAll(e.stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return []input{{name: "<stdin>", text: string(data)}}, nil
	}
	var out []input
	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		out = append(out, input{name: path, path: path, text: string(data)})
	}
	return out, nil
}

// emit writes text for in to its file if write is set and in came from a
// file, otherwise to stdout.
func (e *env) emit(in input, text string, write bool) error {
	if text != "" {
		text += "\n"
	}
	if write && in.path != "" {
		if text == in.text {
			return nil
		}
		e.log.Debug("rewriting file", zap.String("path", in.path))
		return os.WriteFile(in.path, []byte(text), 0o644)
	}
	_, err := io.WriteString(e.stdout, text)
	return err
}

// Flags shared by several commands. Each command gets its own copy.

func indentFlag() cli.Flag {
	return &cli.IntFlag{
		Name:  "indent",
		Usage: "indent size in spaces (2 or 4); default from preferences",
	}
}

func tabsFlag() cli.Flag {
	return &cli.BoolFlag{Name: "tabs", Usage: "indent with tabs"}
}

func writeFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:    "write",
		Aliases: []string{"w"},
		Usage:   "rewrite files in place instead of printing",
	}
}

// config returns the formatting configuration from stored preferences,
// overridden by command-line flags.
func (e *env) config(c *cli.Context) (format.Config, error) {
	cfg := e.store.Load().Preferences.Config()
	if c.IsSet("indent") {
		n := c.Int("indent")
		if n != 2 && n != 4 {
			return cfg, fmt.Errorf("invalid indent size %d (want 2 or 4)", n)
		}
		cfg.Size, cfg.Kind = n, format.Spaces
	}
	if c.Bool("tabs") {
		cfg.Kind = format.Tabs
	}
	return cfg, nil
}

func formatCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:      "format",
		Aliases:   []string{"fmt"},
		Usage:     "Format JSON documents",
		ArgsUsage: "[file ...]",
		Description: `
Format each file, or standard input, with canonical indentation. Invalid
input is reported on stderr, and a best-effort re-indentation is written in
its place.`[1:],
		Flags: []cli.Flag{indentFlag(), tabsFlag(), writeFlag()},
		Action: func(c *cli.Context) error {
			cfg, err := e.config(c)
			if err != nil {
				return err
			}
			ins, err := e.readInputs(c.Args().Slice())
			if err != nil {
				return err
			}
			var invalid bool
			for _, in := range ins {
				res := format.Format(in.text, cfg)
				if !res.Valid {
					fmt.Fprintf(e.stderr, "%s: %s\n", in.name, res.Error)
					invalid = true
				}
				if err := e.emit(in, res.Formatted, c.Bool("write")); err != nil {
					return err
				}
			}
			if invalid {
				return errInvalid
			}
			return nil
		},
	}
}

func minifyCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:      "minify",
		Usage:     "Remove insignificant whitespace from JSON documents",
		ArgsUsage: "[file ...]",
		Flags:     []cli.Flag{writeFlag()},
		Action: func(c *cli.Context) error {
			ins, err := e.readInputs(c.Args().Slice())
			if err != nil {
				return err
			}
			var invalid bool
			for _, in := range ins {
				if !format.IsValid(in.text) {
					fmt.Fprintf(e.stderr, "%s: not valid JSON, left unchanged\n", in.name)
					invalid = true
					continue
				}
				if err := e.emit(in, format.Minify(in.text), c.Bool("write")); err != nil {
					return err
				}
			}
			if invalid {
				return errInvalid
			}
			return nil
		},
	}
}

func checkCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:      "check",
		Usage:     "Report whether JSON documents are valid",
		ArgsUsage: "[file ...]",
		Action: func(c *cli.Context) error {
			ins, err := e.readInputs(c.Args().Slice())
			if err != nil {
				return err
			}
			var invalid bool
			for _, in := range ins {
				if msg := format.Validate(in.text); msg == "" {
					fmt.Fprintf(e.stdout, "%s: ok\n", in.name)
				} else {
					fmt.Fprintf(e.stdout, "%s: %s\n", in.name, msg)
					invalid = true
				}
			}
			if invalid {
				return errInvalid
			}
			return nil
		},
	}
}

func shareCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:      "share",
		Usage:     "Print a link that carries a JSON document",
		ArgsUsage: "[file]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "base",
				Value:   defaultShareBase,
				Usage:   "base URL of the link",
				EnvVars: []string{"JSONFMT_SHARE_BASE"},
			},
			&cli.StringFlag{
				Name:  "tab",
				Usage: "share the named tab instead of a file",
			},
		},
		Action: func(c *cli.Context) error {
			var content string
			if ref := c.String("tab"); ref != "" {
				tab, err := workspace.New(e.store.Load()).Lookup(ref)
				if err != nil {
					return fmt.Errorf("tab %q: %w", ref, err)
				}
				content = tab.Content
			} else {
				if c.NArg() > 1 {
					return errors.New("share accepts at most one file")
				}
				ins, err := e.readInputs(c.Args().Slice())
				if err != nil {
					return err
				}
				content = ins[0].text
			}
			fmt.Fprintln(e.stdout, workspace.ShareURL(c.String("base"), content))
			return nil
		},
	}
}

func unshareCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:      "unshare",
		Usage:     "Print the JSON document carried by a share link",
		ArgsUsage: "url",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "save",
				Usage: "also add the document to the workspace as a new tab",
			},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return errors.New("usage: unshare url")
			}
			content, ok := workspace.FromShareURL(c.Args().First())
			if !ok {
				return errors.New("no shared content in link")
			}
			st := e.store.Load()
			res := format.Format(content, st.Preferences.Config())
			if !res.Valid {
				fmt.Fprintf(e.stderr, "Invalid JSON in shared link: %s\n", res.Error)
				return errInvalid
			}
			fmt.Fprintln(e.stdout, res.Formatted)
			if !c.Bool("save") {
				return nil
			}
			return e.update(func(ws *workspace.Workspace) error {
				ws.AddTab(sharedTabName, res.Formatted)
				return nil
			})
		},
	}
}

// update loads the stored workspace, applies f to it, and saves the result
// if f succeeds.
func (e *env) update(f func(*workspace.Workspace) error) error {
	ws := workspace.New(e.store.Load())
	if err := f(ws); err != nil {
		return err
	}
	return e.store.Save(ws.Snapshot())
}

// resolveTab returns the tab named by the first argument of c, or the active
// tab if there are no arguments.
func resolveTab(ws *workspace.Workspace, c *cli.Context) (workspace.Tab, error) {
	if c.NArg() == 0 {
		return ws.Active(), nil
	}
	ref := c.Args().First()
	tab, err := ws.Lookup(ref)
	if err != nil {
		return tab, fmt.Errorf("tab %q: %w", ref, err)
	}
	return tab, nil
}

func openCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:      "open",
		Usage:     "Add files to the workspace as new tabs",
		ArgsUsage: "file ...",
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return errors.New("no files to open")
			}
			return e.update(func(ws *workspace.Workspace) error {
				for _, path := range c.Args().Slice() {
					name, content, err := workspace.ImportFile(path)
					if err != nil {
						return err
					}
					id := ws.AddTab(name, content)
					if tab, _ := ws.Lookup(id); !tab.Valid {
						fmt.Fprintf(e.stderr, "%s: %s\n", path, tab.Error)
					}
					fmt.Fprintf(e.stdout, "opened %q as %s\n", name, id)
				}
				return nil
			})
		},
	}
}

func tabsCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:  "tabs",
		Usage: "List and edit the tabs of the workspace",
		Description: `
With no subcommand, list the tabs of the workspace. The active tab is marked
with "*". Subcommands that take a tab accept its ID or name, and default to
the active tab.`[1:],
		Action: func(c *cli.Context) error {
			return e.listTabs(workspace.New(e.store.Load()))
		},
		Subcommands: []*cli.Command{
			{
				Name:      "new",
				Usage:     "Add a tab and make it active",
				ArgsUsage: "[file]",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Usage: "name of the new tab"},
				},
				Action: func(c *cli.Context) error {
					var content string
					if c.NArg() > 0 {
						ins, err := e.readInputs(c.Args().Slice()[:1])
						if err != nil {
							return err
						}
						content = ins[0].text
					}
					return e.update(func(ws *workspace.Workspace) error {
						fmt.Fprintln(e.stdout, ws.AddTab(c.String("name"), content))
						return nil
					})
				},
			},
			{
				Name:      "close",
				Usage:     "Close a tab",
				ArgsUsage: "[tab]",
				Action: func(c *cli.Context) error {
					return e.update(func(ws *workspace.Workspace) error {
						tab, err := resolveTab(ws, c)
						if err != nil {
							return err
						}
						return ws.CloseTab(tab.ID)
					})
				},
			},
			{
				Name:      "select",
				Usage:     "Make a tab active",
				ArgsUsage: "tab",
				Action: func(c *cli.Context) error {
					if c.NArg() != 1 {
						return errors.New("usage: tabs select tab")
					}
					return e.update(func(ws *workspace.Workspace) error {
						tab, err := resolveTab(ws, c)
						if err != nil {
							return err
						}
						return ws.SetActive(tab.ID)
					})
				},
			},
			{
				Name:      "rename",
				Usage:     "Rename a tab",
				ArgsUsage: "tab name",
				Action: func(c *cli.Context) error {
					if c.NArg() != 2 {
						return errors.New("usage: tabs rename tab name")
					}
					return e.update(func(ws *workspace.Workspace) error {
						tab, err := resolveTab(ws, c)
						if err != nil {
							return err
						}
						return ws.Rename(tab.ID, c.Args().Get(1))
					})
				},
			},
			{
				Name:      "dup",
				Usage:     "Duplicate a tab",
				ArgsUsage: "[tab]",
				Action: func(c *cli.Context) error {
					return e.update(func(ws *workspace.Workspace) error {
						tab, err := resolveTab(ws, c)
						if err != nil {
							return err
						}
						id, err := ws.Duplicate(tab.ID)
						if err == nil {
							fmt.Fprintln(e.stdout, id)
						}
						return err
					})
				},
			},
			{
				Name:  "clear",
				Usage: "Discard the content of the active tab",
				Action: func(c *cli.Context) error {
					return e.update(func(ws *workspace.Workspace) error {
						ws.ClearActive()
						return nil
					})
				},
			},
			{
				Name:  "format",
				Usage: "Format the content of the active tab",
				Action: func(c *cli.Context) error {
					return e.update(func(ws *workspace.Workspace) error {
						if tab := ws.FormatActive(); !tab.Valid {
							fmt.Fprintln(e.stderr, tab.Error)
						}
						return nil
					})
				},
			},
			{
				Name:  "minify",
				Usage: "Minify the content of the active tab",
				Action: func(c *cli.Context) error {
					return e.update(func(ws *workspace.Workspace) error {
						if tab := ws.MinifyActive(); !tab.Valid {
							fmt.Fprintln(e.stderr, tab.Error)
						}
						return nil
					})
				},
			},
		},
	}
}

func (e *env) listTabs(ws *workspace.Workspace) error {
	active := ws.Active().ID
	tw := tabwriter.NewWriter(e.stdout, 0, 4, 2, ' ', 0)
	for _, tab := range ws.Tabs() {
		mark := " "
		if tab.ID == active {
			mark = "*"
		}
		status := "ok"
		if !tab.Valid {
			status = tab.Error
		}
		lines := strings.Count(tab.Content, "\n") + 1
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d lines, %d chars\t%s\n",
			mark, tab.ID, tab.Name, lines, len([]rune(tab.Content)), status)
	}
	return tw.Flush()
}

func exportCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:      "export",
		Usage:     "Write a tab to a file",
		ArgsUsage: "[tab]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "dir",
				Value: ".",
				Usage: "directory to write to",
			},
		},
		Action: func(c *cli.Context) error {
			tab, err := resolveTab(workspace.New(e.store.Load()), c)
			if err != nil {
				return err
			}
			path, err := workspace.ExportFile(c.String("dir"), tab.Name, tab.Content)
			if err != nil {
				return err
			}
			fmt.Fprintln(e.stdout, path)
			return nil
		},
	}
}

func prefsCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:  "prefs",
		Usage: "Print or update formatting preferences",
		Flags: []cli.Flag{
			indentFlag(),
			tabsFlag(),
			&cli.BoolFlag{Name: "spaces", Usage: "indent with spaces"},
			&cli.StringFlag{Name: "theme", Usage: `color theme ("dark" or "light")`},
			&cli.BoolFlag{Name: "toggle-theme", Usage: "switch between dark and light themes"},
			&cli.BoolFlag{Name: "auto-format", Usage: "format valid documents automatically"},
		},
		Action: func(c *cli.Context) error {
			if c.Bool("tabs") && c.Bool("spaces") {
				return errors.New("--tabs and --spaces are mutually exclusive")
			}
			if c.IsSet("indent") {
				if n := c.Int("indent"); n != 2 && n != 4 {
					return fmt.Errorf("invalid indent size %d (want 2 or 4)", n)
				}
			}
			if t := c.String("theme"); t != "" && t != "dark" && t != "light" {
				return fmt.Errorf("invalid theme %q", t)
			}
			var prefs workspace.Preferences
			err := e.update(func(ws *workspace.Workspace) error {
				prefs = ws.UpdatePreferences(func(p *workspace.Preferences) {
					if c.IsSet("indent") {
						p.IndentSize = c.Int("indent")
					}
					if c.Bool("tabs") {
						p.IndentType = format.Tabs.String()
					} else if c.Bool("spaces") {
						p.IndentType = format.Spaces.String()
					}
					if t := c.String("theme"); t != "" {
						p.Theme = t
					}
					if c.Bool("toggle-theme") {
						p.ToggleTheme()
					}
					if c.IsSet("auto-format") {
						p.AutoFormat = c.Bool("auto-format")
					}
				})
				return nil
			})
			if err != nil {
				return err
			}
			data, err := json.Marshal(prefs)
			if err != nil {
				return err
			}
			fmt.Fprintln(e.stdout, format.Format(string(data), format.DefaultConfig).Formatted)
			return nil
		},
	}
}

func resetCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:  "reset",
		Usage: "Discard the stored workspace and preferences",
		Action: func(c *cli.Context) error {
			return e.store.Clear()
		},
	}
}
