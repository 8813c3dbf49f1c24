// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

// Package format validates and pretty-prints JSON text.
//
// Format parses its input strictly and, if it is valid, renders it with the
// indentation chosen by a Config. If the input is not valid, Format does not
// fail: it reports where the first error occurred, and re-indents the text
// by bracket structure alone so that it remains readable while it is being
// fixed:
//
//	res := format.Format(text, format.Config{Size: 4, Kind: format.Spaces})
//	if !res.Valid {
//	   log.Print(res.Error) // e.g., Invalid JSON at line 3, column 7: ...
//	}
//	fmt.Println(res.Formatted)
//
// Valid input is rendered from its parsed value. Object members keep their
// order, and a key repeated within an object keeps its first position and
// takes its last value. Number literals keep their source text, so 1.0, -0,
// and 1E+2 are written as given rather than as 1, 0, and 100.
//
// All the functions in this package are pure and safe for concurrent use.
package format

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/creachadair/jsonfmt"
	"github.com/creachadair/jsonfmt/ast"
)

// Kind is the kind of character used for indentation.
type Kind int

const (
	Spaces Kind = iota // indent with spaces
	Tabs               // indent with a single tab per level
)

func (k Kind) String() string {
	switch k {
	case Spaces:
		return "spaces"
	case Tabs:
		return "tabs"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind returns the Kind named by s, which must be "spaces" or "tabs".
func ParseKind(s string) (Kind, error) {
	switch s {
	case "spaces":
		return Spaces, nil
	case "tabs":
		return Tabs, nil
	default:
		return 0, fmt.Errorf("unknown indent kind %q", s)
	}
}

// A Config describes the unit of indentation for formatted output.
// Size is expected to be 2 or 4; other values are not checked.
type Config struct {
	Size int
	Kind Kind
}

// DefaultConfig indents by two spaces per level.
var DefaultConfig = Config{Size: 2, Kind: Spaces}

// Unit returns the text written once per level of nesting: Size spaces if the
// kind is Spaces, otherwise a single tab regardless of Size.
func (c Config) Unit() string {
	if c.Kind == Tabs {
		return "\t"
	}
	return strings.Repeat(" ", max(c.Size, 0))
}

// A Result reports the outcome of formatting.
type Result struct {
	// Valid reports whether the input was valid JSON. Blank input is valid.
	Valid bool

	// Error describes the first syntax error in the input, including its line
	// and column when known. It is empty if Valid is true.
	Error string

	// Formatted is the formatted text. For valid input it is the canonical
	// indented form (empty for blank input). For invalid input it is the
	// structural re-indentation of the input produced by Reindent, except when
	// the input nests more than jsonfmt.MaxDepth levels deep: then it is the
	// input with surrounding whitespace removed.
	Formatted string
}

// Format validates input and formats it according to cfg.
//
// If input is valid JSON, the result holds its canonical indentation: members
// retain their order, and number literals retain their text. Otherwise, the
// result holds a description of the first error and the output of Reindent.
// Format never panics.
func Format(input string, cfg Config) Result {
	if isBlank(input) {
		return Result{Valid: true}
	}
	v, err := ast.ParseString(input)
	if errors.Is(err, jsonfmt.ErrTooDeep) {
		// Re-indenting grows with the square of the depth.
		return Result{
			Error:     describe(input, err),
			Formatted: strings.TrimSpace(input),
		}
	} else if err != nil {
		return Result{
			Error:     describe(input, err),
			Formatted: Reindent(input, cfg),
		}
	}
	f := ast.Formatter{Indent: cfg.Unit()}
	return Result{Valid: true, Formatted: f.FormatToString(v)}
}

// Validate checks input without formatting it. It returns "" if input is
// blank or valid JSON, and otherwise the same description of the first error
// that Format reports.
func Validate(input string) string {
	if isBlank(input) {
		return ""
	}
	if _, err := ast.ParseString(input); err != nil {
		return describe(input, err)
	}
	return ""
}

// IsValid reports whether input is blank or valid JSON.
func IsValid(input string) bool { return Validate(input) == "" }

func isBlank(s string) bool { return strings.TrimSpace(s) == "" }

// describe renders a human-readable message for a parse error of input.
func describe(input string, err error) string {
	var serr *jsonfmt.SyntaxError
	if errors.As(err, &serr) {
		line, col := lineColumn(input, serr.Offset)
		return fmt.Sprintf("Invalid JSON at line %d, column %d: %s", line, col, serr.Message)
	}
	return "Invalid JSON: " + err.Error()
}

// lineColumn converts a byte offset in text into a 1-based line number and a
// 1-based column counted in characters.
func lineColumn(text string, offset int) (line, col int) {
	offset = min(max(offset, 0), len(text))
	prefix := text[:offset]
	line = 1 + strings.Count(prefix, "\n")
	start := strings.LastIndexByte(prefix, '\n') + 1
	return line, utf8.RuneCountInString(prefix[start:]) + 1
}
