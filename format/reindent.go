// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package format

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Reindent re-indents input according to cfg using only the nesting of its
// braces and brackets. It does not require input to be valid JSON, and is
// used to keep invalid input readable. It never panics.
//
// The indentation depth increases after an opening brace or bracket, and
// decreases before a closing one. Each element following a comma is placed
// on a new line. Whitespace following punctuation is replaced by the new
// indentation, and other text is copied unchanged. Quoted strings are copied
// verbatim, honoring backslash escapes; an unterminated string extends to the
// end of the input. Empty containers such as "{}" and "[ ]" are written on one
// line. A mismatched or unbalanced closer is indented like a matching one, or
// copied without indentation at depth zero.
//
// The result has leading and trailing whitespace removed.
func Reindent(input string, cfg Config) string {
	r := reindenter{input: input, unit: cfg.Unit()}
	r.buf.Grow(len(input) + len(input)/4)
	r.run()
	return strings.TrimSpace(r.buf.String())
}

type reindenter struct {
	input string
	pos   int
	depth int
	unit  string
	buf   strings.Builder
}

func (r *reindenter) run() {
	for r.pos < len(r.input) {
		switch c := r.input[r.pos]; c {
		case '{', '[':
			r.emit(c)
			r.skipSpace()
			if r.pos >= len(r.input) {
				return
			} else if next := r.input[r.pos]; next == closerFor(c) {
				r.emit(next) // empty container
				r.afterClose()
			} else {
				r.depth++
				r.newline()
			}

		case '}', ']':
			if r.depth > 0 {
				r.depth--
				r.newline()
			}
			r.emit(c)
			r.afterClose()

		case ',':
			r.emit(c)
			r.skipSpace()
			if r.pos < len(r.input) {
				r.newline()
			}

		case '"':
			r.emit(c)
			r.copyString()

		default:
			r.emit(c)
		}
	}
}

// emit writes c to the output and advances past it.
func (r *reindenter) emit(c byte) {
	r.buf.WriteByte(c)
	r.pos++
}

// afterClose handles the text following a closing brace or bracket. If the
// next non-space is a comma, the comma is kept on the closer's line.
func (r *reindenter) afterClose() {
	r.skipSpace()
	if r.pos < len(r.input) && r.input[r.pos] == ',' {
		r.emit(',')
		r.newline()
		r.skipSpace()
	}
}

// copyString copies the body of a quoted string through its closing quote,
// or through the end of the input if the string is unterminated.
func (r *reindenter) copyString() {
	for r.pos < len(r.input) {
		switch c := r.input[r.pos]; c {
		case '\\':
			r.emit(c)
			if r.pos < len(r.input) {
				r.emit(r.input[r.pos])
			}
		case '"':
			r.emit(c)
			return
		default:
			r.emit(c)
		}
	}
}

// skipSpace discards whitespace at the current position.
func (r *reindenter) skipSpace() {
	for r.pos < len(r.input) {
		ch, n := utf8.DecodeRuneInString(r.input[r.pos:])
		if !unicode.IsSpace(ch) {
			return
		}
		r.pos += n
	}
}

func (r *reindenter) newline() {
	r.buf.WriteByte('\n')
	for range r.depth {
		r.buf.WriteString(r.unit)
	}
}

func closerFor(c byte) byte {
	if c == '{' {
		return '}'
	}
	return ']'
}
