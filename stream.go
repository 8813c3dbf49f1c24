// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jsonfmt

import (
	"cmp"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
)

// ErrExtraInput is wrapped by the syntax error reported by ParseSingle when
// non-whitespace input follows the first value.
var ErrExtraInput = errors.New("extra input after value")

// MaxDepth is the maximum nesting depth of objects and arrays accepted by a
// Stream.
const MaxDepth = 10000

// ErrTooDeep is wrapped by the syntax error reported when the input nests
// objects and arrays more than MaxDepth levels deep.
var ErrTooDeep = errors.New("nesting too deep")

// An Anchor represents a location in source text. The methods of an Anchor
// will report the location, token type, and contents of the anchor.
type Anchor interface {
	Token() Token       // Returns the token type of the anchor
	Text() []byte       // Returns a view of the raw (undecoded) text of the anchor
	Copy() []byte       // Returns a copy of the raw text of the anchor
	Location() Location // Returns the full location of the anchor
}

// A Handler handles events from parsing an input stream.  If a method reports
// an error, parsing stops and that error is returned to the caller.
// The parser ensures objects and arrays are correctly balanced.
//
// The Anchor argument to a Handler method is only valid for the duration of
// that method call. If the method needs to retain information about the
// location after it returns, it must copy the relevant data.
type Handler interface {
	// Begin a new object, whose open brace is at loc.
	BeginObject(loc Anchor) error

	// End the most-recently-opened object, whose close brace is at loc.
	EndObject(loc Anchor) error

	// Begin a new array, whose open bracket is at loc.
	BeginArray(loc Anchor) error

	// End the most-recently-opened array, whose close bracket is at loc.
	EndArray(loc Anchor) error

	// Begin a new object member, whose key is at loc.  The text of the key is
	// still quoted; the handler is responsible for unescaping key values if the
	// plain string is required (see jsonfmt.Unquote).
	BeginMember(loc Anchor) error

	// End the current object member giving the location and type of the token
	// that terminated the member (either Comma or RBrace).
	EndMember(loc Anchor) error

	// Report a data value at the given location. The type of the value can be
	// recovered from the token. String tokens are quoted.
	Value(loc Anchor) error

	// EndOfInput reports the end of the input stream.
	EndOfInput(loc Anchor)
}

// Stream is a stream parser that consumes input and delivers events to a
// Handler corresponding with the structure of the input.
type Stream struct {
	s     *Scanner
	depth int
}

// NewStream constructs a new Stream that consumes input from r.
func NewStream(r io.Reader) *Stream { return &Stream{s: NewScanner(r)} }

// NewStreamWithScanner constructs a new Stream that consumes input from s.
func NewStreamWithScanner(s *Scanner) *Stream { return &Stream{s: s} }

func (s *Stream) recoverParseError(errp *error) {
	if serr := recover(); serr != nil {
		switch err := serr.(type) {
		case *SyntaxError:
			*errp = err
		case handlerError:
			*errp = err.error
		default:
			panic(serr)
		}
	}
}

// Parse parses the input stream and delivers events to h until either an error
// occurs or the input is exhausted. In case of a syntax error, the returned
// error has type [*SyntaxError].
func (s *Stream) Parse(h Handler) (err error) {
	defer s.recoverParseError(&err)
	s.depth = 0

	for {
		if s.first() == io.EOF {
			h.EndOfInput(s.s)
			return nil
		}
		s.parseElement(h)
	}
}

// ParseOne parses a single value from the input stream and delivers events to
// h until the value is complete or an error occurs. If no further value is
// available from the input, ParseOne returns io.EOF. In case of a syntax
// error, the returned error has type [*SyntaxError].
func (s *Stream) ParseOne(h Handler) (err error) {
	defer s.recoverParseError(&err)
	s.depth = 0

	if s.first() == io.EOF {
		h.EndOfInput(s.s)
		return io.EOF
	}
	s.parseElement(h)
	return nil
}

// ParseSingle parses exactly one value from the input stream and delivers
// events to h. Unlike ParseOne, the input must contain a value, and nothing
// but whitespace may follow it. In case of a syntax error, the returned error
// has type [*SyntaxError]; if the error is due to trailing input, it wraps
// [ErrExtraInput].
func (s *Stream) ParseSingle(h Handler) (err error) {
	defer s.recoverParseError(&err)
	s.depth = 0

	if s.first() == io.EOF {
		s.syntaxError(nil, "unexpected end of input")
	}
	s.parseElement(h)
	if s.first() != io.EOF {
		s.syntaxError(ErrExtraInput, "unexpected %v after top-level value", s.s.Token())
	}
	h.EndOfInput(s.s)
	return nil
}

// first advances to the first token of a top-level value. It returns io.EOF
// if the input is exhausted, and panics for a lexical error.
func (s *Stream) first() error {
	err := s.nextToken()
	if err != nil && err != io.EOF {
		s.lexicalError(err)
	}
	return err
}

// parseElement consumes a single value of any type.
// Precondition: token != Invalid.
func (s *Stream) parseElement(h Handler) {
	switch tok := s.s.Token(); tok {
	case LBrace:
		s.enter()
		s.checkError(h.BeginObject(s.s))
		s.parseMembers(h)
		s.require(RBrace)
		s.checkError(h.EndObject(s.s))
		s.depth--
	case LSquare:
		s.enter()
		s.checkError(h.BeginArray(s.s))
		s.parseElements(h)
		s.require(RSquare)
		s.checkError(h.EndArray(s.s))
		s.depth--
	case Integer, Number, String, True, False, Null:
		s.checkError(h.Value(s.s))
	case RBrace, RSquare, Comma, Colon:
		s.syntaxError(nil, "unexpected %v", tok)
	default:
		s.syntaxError(nil, "unknown token %v", tok)
	}
}

// enter records the start of a nested object or array at the current token.
func (s *Stream) enter() {
	s.depth++
	if s.depth > MaxDepth {
		s.syntaxError(ErrTooDeep, "nesting too deep")
	}
}

// parseMembers consumes zero of more key:value object members.
// Precondition: token == LBrace.
// Postcondition: token == RBrace.
func (s *Stream) parseMembers(h Handler) {
	tok := s.advance(RBrace, String)
	if tok == RBrace {
		return // end of object
	}
	for {
		// Parse a single member: "key": value
		s.checkError(h.BeginMember(s.s))
		s.advance(Colon)
		s.advance()
		s.parseElement(h)

		// Check whether we have more members (",") or are done ("}").
		tok := s.advance(RBrace, Comma)
		s.checkError(h.EndMember(s.s))
		if tok == RBrace {
			return // end of object
		}
		s.advance(String) // advance to next key
	}
}

// parseElements consumes zero or more comma-separated array values.
// Precondition: token == LSquare.
// Postcondition: token == RSquare.
func (s *Stream) parseElements(h Handler) {
	if tok := s.advance(); tok == RSquare {
		return // end of array
	}
	s.parseElement(h)
	for {
		tok := s.advance(RSquare, Comma)
		if tok == RSquare {
			return // end of array
		}
		s.advance()
		s.parseElement(h)
	}
}

func (s *Stream) nextToken() error {
	if s.s.Next() {
		return nil
	}
	return cmp.Or(s.s.Err(), io.EOF)
}

func (s *Stream) advance(tokens ...Token) Token {
	if err := s.nextToken(); err == io.EOF {
		s.syntaxError(nil, "%v", tokLabel(tokens, "end of input"))
	} else if err != nil {
		s.lexicalError(err)
	}
	tok := s.s.Token()
	if len(tokens) != 0 && !tokOneOf(tok, tokens) {
		s.syntaxError(nil, "%v", tokLabel(tokens, tok))
	}
	return tok
}

func (s *Stream) require(token Token) {
	if tok := s.s.Token(); tok != token {
		s.syntaxError(nil, "expected %v, got %v", token, tok)
	}
}

// syntaxError reports a grammar error at the start of the current token.
func (s *Stream) syntaxError(err error, msg string, args ...any) {
	panic(&SyntaxError{
		Location: s.s.Location().First,
		Offset:   s.s.Span().Pos,
		Message:  fmt.Sprintf(msg, args...),
		err:      err,
	})
}

// lexicalError reports a scanner error at the offset the scanner recorded.
func (s *Stream) lexicalError(err error) {
	pos, ok := errorOffset(err)
	if !ok {
		pos = s.s.Span().Pos
	}
	panic(&SyntaxError{
		Location: s.s.Location().First,
		Offset:   pos,
		Message:  errorText(err),
		err:      err,
	})
}

func (s *Stream) checkError(err error) {
	if err != nil {
		panic(handlerError{err})
	}
}

type handlerError struct{ error }

func (h handlerError) Unwrap() error { return h.error }

// tokLabel makes a human-readable summary string for the given token types.
func tokLabel(tokens []Token, got any) string {
	if len(tokens) == 0 {
		return fmt.Sprintf("unexpected %v", got)
	}
	var exp string
	if len(tokens) == 1 {
		exp = tokens[0].String()
	} else {
		last := len(tokens) - 1
		ss := make([]string, len(tokens)-1)
		for i, tok := range tokens[:last] {
			ss[i] = tok.String()
		}
		exp = strings.Join(ss, ", ") + " or " + tokens[last].String()
	}
	return fmt.Sprintf("expected %s, got %v", exp, got)
}

// tokOneOf reports whether cur is an element of tokens.
func tokOneOf(cur Token, tokens []Token) bool {
	return slices.Contains(tokens, cur)
}

// SyntaxError is the concrete type of errors reported by the stream parser.
type SyntaxError struct {
	Location LineCol // the start of the token where the error occurred
	Offset   int     // the byte offset where the error was detected, 0-based
	Message  string

	err error
}

// Error satisfies the error interface.
func (s *SyntaxError) Error() string {
	return fmt.Sprintf("at %s: %s", s.Location, s.Message)
}

// Unwrap supports error wrapping.
func (s *SyntaxError) Unwrap() error { return s.err }
