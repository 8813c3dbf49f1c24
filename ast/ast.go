// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

// Package ast defines an abstract syntax tree for JSON values, a strict parser
// that constructs syntax trees from JSON source, and a formatter that renders
// them in canonical indented form.
//
// Object members retain the order in which they occurred in the source.
// Numbers retain their source text, so rendering a parsed value does not
// round-trip through floating point.
package ast

import (
	"strconv"

	"github.com/creachadair/jsonfmt/internal/escape"

	"go4.org/mem"
)

// A Value is an arbitrary JSON value. The concrete type is one of Object,
// Array, Quoted, Number, Bool, or the type of Null.
type Value interface {
	// JSON returns the compact canonical JSON encoding of the value.
	JSON() string
}

// An Object is a collection of key-value members, in source order.
type Object []*Member

// Find returns the first member of o with the given key, or nil.
func (o Object) Find(key string) *Member {
	for _, m := range o {
		if m.Key.Unquote() == key {
			return m
		}
	}
	return nil
}

// Len reports the number of members in o.
func (o Object) Len() int { return len(o) }

// JSON satisfies the Value interface.
func (o Object) JSON() string { return string(appendCompact(nil, o)) }

// A Member is a single key-value pair belonging to an Object.
type Member struct {
	Key   Quoted
	Value Value
}

// Field constructs an object member with the given key and value.
func Field(key string, v Value) *Member { return &Member{Key: String(key), Value: v} }

// An Array is a sequence of values.
type Array []Value

// Len reports the number of elements in a.
func (a Array) Len() int { return len(a) }

// JSON satisfies the Value interface.
func (a Array) JSON() string { return string(appendCompact(nil, a)) }

// A Quoted is a string value. It retains the quoted text of the string as it
// appeared in the source.
type Quoted struct{ text []byte }

// String constructs a Quoted value for the given unquoted string.
func String(s string) Quoted { return Quoted{text: escape.Quote(nil, mem.S(s))} }

// Unquote returns the decoded contents of q.
func (q Quoted) Unquote() string {
	if len(q.text) < 2 {
		return ""
	}
	dec, err := escape.Unquote(mem.B(q.text[1 : len(q.text)-1]))
	if err != nil {
		panic(err)
	}
	return string(dec)
}

// Source returns the quoted text of q as it appeared in the source.
func (q Quoted) Source() string { return string(q.text) }

// JSON satisfies the Value interface. The string is re-encoded in canonical
// form: escapes are decoded, and only quotation marks, backslashes, and
// control characters are escaped. An escaped surrogate with no partner is
// kept as an escape.
func (q Quoted) JSON() string { return string(q.appendCanonical(nil)) }

func (q Quoted) appendCanonical(buf []byte) []byte {
	if len(q.text) < 2 {
		return append(buf, `""`...)
	}
	out, err := escape.Canonical(buf, mem.B(q.text[1:len(q.text)-1]))
	if err != nil {
		panic(err)
	}
	return out
}

// A Number is a numeric value. It retains the text of the number as it
// appeared in the source.
type Number struct{ text []byte }

// Int constructs a Number for the given integer.
func Int(z int64) Number { return Number{text: strconv.AppendInt(nil, z, 10)} }

// Float constructs a Number for the given floating-point value.
func Float(f float64) Number { return Number{text: strconv.AppendFloat(nil, f, 'g', -1, 64)} }

// IsInt reports whether n is written as an integer, with no fraction or
// exponent.
func (n Number) IsInt() bool {
	for _, b := range n.text {
		if b == '.' || b == 'e' || b == 'E' {
			return false
		}
	}
	return len(n.text) != 0
}

// Float64 returns the value of n as a float64.
func (n Number) Float64() float64 {
	v, err := strconv.ParseFloat(string(n.text), 64)
	if err != nil {
		panic(err)
	}
	return v
}

// JSON satisfies the Value interface.
func (n Number) JSON() string { return string(n.text) }

// A Bool is a Boolean constant, true or false.
type Bool bool

// JSON satisfies the Value interface.
func (b Bool) JSON() string { return strconv.FormatBool(bool(b)) }

type nullValue struct{}

// JSON satisfies the Value interface.
func (nullValue) JSON() string { return "null" }

// Null is the null constant.
var Null Value = nullValue{}

// appendCompact appends the compact encoding of v to buf.
func appendCompact(buf []byte, v Value) []byte {
	switch t := v.(type) {
	case Object:
		buf = append(buf, '{')
		for i, m := range t {
			if i > 0 {
				buf = append(buf, ',')
			}
			buf = m.Key.appendCanonical(buf)
			buf = append(buf, ':')
			buf = appendCompact(buf, m.Value)
		}
		return append(buf, '}')
	case Array:
		buf = append(buf, '[')
		for i, elt := range t {
			if i > 0 {
				buf = append(buf, ',')
			}
			buf = appendCompact(buf, elt)
		}
		return append(buf, ']')
	case Quoted:
		return t.appendCanonical(buf)
	default:
		return append(buf, v.JSON()...)
	}
}
