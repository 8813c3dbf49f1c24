// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package format

import (
	"github.com/creachadair/jsonfmt/ast"
	"github.com/creachadair/jsonfmt/internal/escape"
	"github.com/tailscale/hujson"
	"go4.org/mem"
)

// Minify returns the compact form of input, with all insignificant whitespace
// removed. Literals are preserved exactly as written. A repeated object key
// keeps its first position and its last value, as in Format. If input is not
// valid JSON, Minify returns it unchanged. Blank input is returned unchanged.
func Minify(input string) string {
	v, err := ast.ParseString(input)
	if err != nil {
		return input
	}
	hv, err := hujson.Parse([]byte(input))
	if err != nil {
		// The strict parser accepts some inputs hujson does not, notably
		// strings containing invalid UTF-8. Fall back to the canonical form.
		return v.JSON()
	}
	for sub := range hv.All() {
		if obj, ok := sub.Value.(*hujson.Object); ok {
			mergeDuplicates(obj)
		}
	}
	hv.Minimize()
	return string(hv.Pack())
}

// mergeDuplicates removes repeated keys from obj. The first member with a
// given key is kept in place, and takes the value of the last one.
func mergeDuplicates(obj *hujson.Object) {
	if len(obj.Members) < 2 {
		return
	}
	seen := make(map[string]int, len(obj.Members))
	out := obj.Members[:0]
	for _, m := range obj.Members {
		key := keyText(m.Name.Value.(hujson.Literal))
		if i, ok := seen[key]; ok {
			out[i].Value = m.Value
			continue
		}
		seen[key] = len(out)
		out = append(out, m)
	}
	obj.Members = out
}

// keyText returns the canonical text of a quoted object key, so that keys
// spelled with different escapes compare equal.
func keyText(lit hujson.Literal) string {
	if len(lit) < 2 {
		return string(lit)
	}
	key, err := escape.Canonical(nil, mem.B(lit[1:len(lit)-1]))
	if err != nil {
		return string(lit) // not reached for input the strict parser accepted
	}
	return string(key)
}
