// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package ast

import (
	"io"
	"strings"
)

// A Formatter carries the settings for pretty-printing JSON values.
// A zero value renders values in compact form.
type Formatter struct {
	// Indent is the text written once per level of nesting, for example two
	// spaces or a single tab. If it is empty, values are rendered compactly.
	Indent string
}

// Format renders a pretty-printed representation of v to w using the settings
// from f.
func (f Formatter) Format(w io.Writer, v Value) error {
	_, err := w.Write(f.appendValue(nil, v, 0))
	return err
}

// FormatToString renders a pretty-printed representation of v as a string.
//
// Each element of a non-empty object or array is written on its own line,
// indented one level deeper than its container, and the closing bracket is
// written at the container's level. Empty objects and arrays are written as
// "{}" and "[]". Members are written as "key": value.
func (f Formatter) FormatToString(v Value) string { return string(f.appendValue(nil, v, 0)) }

func (f Formatter) appendValue(buf []byte, v Value, depth int) []byte {
	if f.Indent == "" {
		return appendCompact(buf, v)
	}
	switch t := v.(type) {
	case Object:
		if len(t) == 0 {
			return append(buf, "{}"...)
		}
		buf = append(buf, '{')
		for i, m := range t {
			if i > 0 {
				buf = append(buf, ',')
			}
			buf = f.newline(buf, depth+1)
			buf = m.Key.appendCanonical(buf)
			buf = append(buf, ": "...)
			buf = f.appendValue(buf, m.Value, depth+1)
		}
		buf = f.newline(buf, depth)
		return append(buf, '}')

	case Array:
		if len(t) == 0 {
			return append(buf, "[]"...)
		}
		buf = append(buf, '[')
		for i, elt := range t {
			if i > 0 {
				buf = append(buf, ',')
			}
			buf = f.newline(buf, depth+1)
			buf = f.appendValue(buf, elt, depth+1)
		}
		buf = f.newline(buf, depth)
		return append(buf, ']')

	default:
		return appendCompact(buf, v)
	}
}

// newline appends a line break followed by depth copies of the indent.
func (f Formatter) newline(buf []byte, depth int) []byte {
	buf = append(buf, '\n')
	return append(buf, strings.Repeat(f.Indent, depth)...)
}
