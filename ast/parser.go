// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package ast

import (
	"fmt"
	"io"
	"strings"

	"github.com/creachadair/jsonfmt"
)

// ErrExtraInput is reported by Parse when the input contains data after the
// first value, apart from whitespace.
var ErrExtraInput = jsonfmt.ErrExtraInput

// Parse parses and returns a single JSON value from r. The input must contain
// exactly one value, optionally surrounded by whitespace. A syntax error has
// concrete type *jsonfmt.SyntaxError, and if the error is caused by input
// following the value it wraps ErrExtraInput.
func Parse(r io.Reader) (Value, error) {
	h := new(parseHandler)
	if err := jsonfmt.NewStream(r).ParseSingle(h); err != nil {
		return nil, err
	}
	return h.root, nil
}

// ParseString is shorthand for Parse on the contents of s.
func ParseString(s string) (Value, error) { return Parse(strings.NewReader(s)) }

// A parseHandler implements the jsonfmt.Handler interface to construct
// abstract syntax trees for JSON values.
//
// The stack holds *objectFrame, *Array, and *Member values under construction.
type parseHandler struct {
	stk  []any
	root Value
}

func (h *parseHandler) top() any { return h.stk[len(h.stk)-1] }

func (h *parseHandler) pop() any {
	last := h.top()
	h.stk = h.stk[:len(h.stk)-1]
	return last
}

func (h *parseHandler) push(v any) { h.stk = append(h.stk, v) }

// reduceValue attaches a completed value v to the value under construction
// atop the stack, or records it as the root if the stack is empty.
func (h *parseHandler) reduceValue(v Value) error {
	if len(h.stk) == 0 {
		h.root = v
		return nil
	}
	switch prev := h.top().(type) {
	case *Member:
		prev.Value = v
	case *Array:
		*prev = append(*prev, v)
	default:
		return fmt.Errorf("unexpected value in %T", prev)
	}
	return nil
}

// An objectFrame is an object under construction. The keys map is populated
// lazily, and indexes the members of obj by the canonical text of their key.
type objectFrame struct {
	obj  Object
	keys map[string]*Member
}

func (h *parseHandler) BeginObject(loc jsonfmt.Anchor) error {
	h.push(new(objectFrame))
	return nil
}

func (h *parseHandler) EndObject(loc jsonfmt.Anchor) error {
	f := h.pop().(*objectFrame)
	if f.obj == nil {
		f.obj = Object{}
	}
	return h.reduceValue(f.obj)
}

func (h *parseHandler) BeginArray(loc jsonfmt.Anchor) error {
	h.push(new(Array))
	return nil
}

func (h *parseHandler) EndArray(loc jsonfmt.Anchor) error {
	a := h.pop().(*Array)
	if *a == nil {
		*a = Array{}
	}
	return h.reduceValue(*a)
}

func (h *parseHandler) BeginMember(loc jsonfmt.Anchor) error {
	// The object this member belongs to is atop the stack.  Add a pointer to
	// the new member into its collection eagerly, so that when reducing the
	// stack after the value is known, we don't have to reduce multiple times.
	//
	// A repeated key reuses the earlier member, so it keeps its original
	// position but takes the later value.
	key := Quoted{text: loc.Copy()}
	f := h.top().(*objectFrame)
	name := key.JSON()
	if m, ok := f.keys[name]; ok {
		h.push(m)
		return nil
	}
	if f.keys == nil {
		f.keys = make(map[string]*Member)
	}
	m := &Member{Key: key}
	f.obj = append(f.obj, m)
	f.keys[name] = m
	h.push(m)
	return nil
}

func (h *parseHandler) EndMember(loc jsonfmt.Anchor) error {
	h.pop()
	return nil
}

func (h *parseHandler) Value(loc jsonfmt.Anchor) error {
	var v Value
	switch loc.Token() {
	case jsonfmt.String:
		v = Quoted{text: loc.Copy()}
	case jsonfmt.Integer, jsonfmt.Number:
		v = Number{text: loc.Copy()}
	case jsonfmt.True:
		v = Bool(true)
	case jsonfmt.False:
		v = Bool(false)
	case jsonfmt.Null:
		v = Null
	default:
		return fmt.Errorf("unknown value %v", loc.Token())
	}
	return h.reduceValue(v)
}

func (h *parseHandler) EndOfInput(loc jsonfmt.Anchor) {}
