// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package escape_test

import (
	"testing"

	"github.com/creachadair/jsonfmt/internal/escape"
	"go4.org/mem"
)

func TestQuote(t *testing.T) {
	tests := []struct {
		input, want string
	}{
		{"", `""`},
		{"abc", `"abc"`},
		{"a/b", `"a/b"`},
		{"tab\there", `"tab\there"`},
		{"\x1f", `"\u001f"`},
		{`say "hi" \o/`, `"say \"hi\" \\o/"`},
		{"caf\u00e9 \u2028", "\"caf\u00e9 \u2028\""},
		{"\ufffd", "\"\ufffd\""}, // a genuine replacement rune is kept
		{"a\xffb", `"a\ufffdb"`}, // an invalid byte is replaced
	}
	for _, tc := range tests {
		if got := string(escape.Quote(nil, mem.S(tc.input))); got != tc.want {
			t.Errorf("Quote(%q): got %#q, want %#q", tc.input, got, tc.want)
		}
	}
}

func TestUnquote(t *testing.T) {
	tests := []struct {
		input, want string
		fail        bool
	}{
		{``, ``, false},
		{`plain`, `plain`, false},
		{`a\/b`, `a/b`, false},
		{`\u0041\u00e9`, "A\u00e9", false},
		{`\ud83d\ude00!`, "\U0001F600!", false},   // surrogate pair
		{`\ud83d x`, "\ufffd x", false},            // unpaired high surrogate
		{`\ude00`, "\ufffd", false},                // unpaired low surrogate
		{`\ud83d\u0041`, "\ufffdA", false},         // high surrogate, then a plain escape
		{`\q`, "\ufffd", false},                    // unknown escape
		{`\u12`, ``, true},                         // incomplete Unicode escape
		{`abc\`, ``, true},                         // incomplete escape
		{`\u00zz`, "\ufffd", false},                // invalid hex
		{`line\nbreak\ttab`, "line\nbreak\ttab", false},
	}
	for _, tc := range tests {
		got, err := escape.Unquote(mem.S(tc.input))
		if tc.fail {
			if err == nil {
				t.Errorf("Unquote(%#q): got %q, want error", tc.input, got)
			}
			continue
		} else if err != nil {
			t.Errorf("Unquote(%#q): unexpected error: %v", tc.input, err)
			continue
		}
		if string(got) != tc.want {
			t.Errorf("Unquote(%#q): got %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestCanonical(t *testing.T) {
	tests := []struct {
		input, want string
		fail        bool
	}{
		{``, `""`, false},
		{`plain`, `"plain"`, false},
		{`\u0041\/\u00e9`, "\"A/\u00e9\"", false},
		{`\ud83d\ude00`, "\"\U0001F600\"", false},
		{`\u001F\u0008`, `"\u001f\b"`, false},
		{`\"\\`, `"\"\\"`, false},

		// Unpaired surrogates are kept as escapes, in lower case.
		{`\ud800`, `"\ud800"`, false},
		{`\uDBFFx`, `"\udbffx"`, false},
		{`\ude00\ud83d`, `"\ude00\ud83d"`, false},
		{`\ud83d\u0041`, `"\ud83dA"`, false},

		{`\q`, "\"\ufffd\"", false},
		{`\u12`, ``, true},
		{`abc\`, ``, true},
	}
	for _, tc := range tests {
		got, err := escape.Canonical(nil, mem.S(tc.input))
		if tc.fail {
			if err == nil {
				t.Errorf("Canonical(%#q): got %#q, want error", tc.input, got)
			}
			continue
		} else if err != nil {
			t.Errorf("Canonical(%#q): unexpected error: %v", tc.input, err)
			continue
		}
		if string(got) != tc.want {
			t.Errorf("Canonical(%#q): got %#q, want %#q", tc.input, got, tc.want)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	for _, s := range []string{"", "x", "\"\\\b\f\n\r\t", "\x00\x7f", "日本語", "\U0001F600"} {
		q := escape.Quote(nil, mem.S(s))
		u, err := escape.Unquote(mem.B(q[1 : len(q)-1]))
		if err != nil {
			t.Errorf("Unquote(%#q): %v", q, err)
		} else if string(u) != s {
			t.Errorf("Round trip %q: got %q", s, u)
		}
	}
}
