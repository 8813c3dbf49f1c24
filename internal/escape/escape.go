// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

// Package escape handles quoting and unquoting of JSON strings.
package escape

import (
	"errors"
	"fmt"
	"unicode/utf16"
	"unicode/utf8"

	"go4.org/mem"
)

var controlEsc = [...]byte{
	'\b': 'b',
	'\f': 'f',
	'\n': 'n',
	'\r': 'r',
	'\t': 't',
	' ':  ' ', // sentinel
}

var hexDigit = []byte("0123456789abcdef")

// Quote appends the JSON encoding of src to dst, including the enclosing
// double quotation marks, and returns the extended slice.
//
// Quotation marks, backslashes, and control characters are escaped; other
// runes are copied as UTF-8. Bytes that are not valid UTF-8 are replaced by
// the escaped Unicode replacement rune.
func Quote(dst []byte, src mem.RO) []byte {
	dst = append(dst, '"')
	dst = appendText(dst, src)
	return append(dst, '"')
}

// appendText appends the escaped form of the unescaped text src to dst.
func appendText(dst []byte, src mem.RO) []byte {
	for src.Len() != 0 {
		r, n := mem.DecodeRune(src)
		switch {
		case r == utf8.RuneError && n <= 1:
			dst = append(dst, `\ufffd`...)
			n = max(n, 1)
		case r < ' ' || r == '\\' || r == '"':
			dst = appendRune(dst, r)
		default:
			dst = mem.Append(dst, src.SliceTo(n))
		}
		src = src.SliceFrom(n)
	}
	return dst
}

// appendRune appends the escaped form of r to dst.
func appendRune(dst []byte, r rune) []byte {
	switch {
	case r < ' ':
		if b := controlEsc[r]; b != 0 {
			return append(dst, '\\', b)
		}
		return append(dst, '\\', 'u', '0', '0', hexDigit[r>>4], hexDigit[r&15])
	case r == '\\' || r == '"':
		return append(dst, '\\', byte(r))
	default:
		return utf8.AppendRune(dst, r)
	}
}

// Canonical appends to dst the canonical JSON encoding of a string whose
// encoded form is src, without its enclosing quotation marks. The result is
// what Quote gives for the decoded string, except that an escaped UTF-16
// surrogate with no partner is kept as an escape rather than replaced, so
// that no information is lost. Canonical reports an error for an incomplete
// escape sequence.
func Canonical(dst []byte, src mem.RO) ([]byte, error) {
	dst = append(dst, '"')
	for {
		i := mem.IndexByte(src, '\\')
		if i < 0 {
			dst = appendText(dst, src)
			return append(dst, '"'), nil
		}
		dst = appendText(dst, src.SliceTo(i))
		r, lone, rest, err := decodeEscape(src.SliceFrom(i + 1))
		if err != nil {
			return nil, err
		}
		if lone {
			dst = append(dst, '\\', 'u',
				hexDigit[r>>12&15], hexDigit[r>>8&15], hexDigit[r>>4&15], hexDigit[r&15])
		} else {
			dst = appendRune(dst, r)
		}
		src = rest
	}
}

// Unquote decodes a byte slice containing the JSON encoding of a string. The
// input must have the enclosing double quotation marks already removed.
//
// Escape sequences are replaced with their unescaped equivalents, and escaped
// UTF-16 surrogate pairs are combined. Invalid escapes and unpaired surrogates
// are replaced by the Unicode replacement rune. Unquote reports an error for
// an incomplete escape sequence.
func Unquote(src mem.RO) ([]byte, error) {
	dec := make([]byte, 0, src.Len())
	i := mem.IndexByte(src, '\\')
	if i < 0 {
		return mem.Append(dec, src), nil
	}

	for {
		dec = mem.Append(dec, src.SliceTo(i))
		r, lone, rest, err := decodeEscape(src.SliceFrom(i + 1))
		if err != nil {
			return nil, err
		}
		if lone {
			r = utf8.RuneError
		}
		dec = utf8.AppendRune(dec, r)
		src = rest

		// Look for the next escape sequence, and if one is not found we can blit
		// the rest of the input and go home.
		i = mem.IndexByte(src, '\\')
		if i < 0 {
			return mem.Append(dec, src), nil
		}
	}
}

// decodeEscape decodes the escape sequence at the start of src, which follows
// a backslash. It returns the rune denoted and the remaining input. If the
// escape is a UTF-16 surrogate without a partner, lone is true and r is the
// surrogate code. Invalid escapes denote the Unicode replacement rune.
func decodeEscape(src mem.RO) (r rune, lone bool, rest mem.RO, err error) {
	if src.Len() == 0 {
		return 0, false, src, errors.New("incomplete escape sequence")
	}
	c, n := mem.DecodeRune(src)
	src = src.SliceFrom(max(n, 1))

	switch c {
	case '"', '\\', '/':
		return c, false, src, nil
	case 'b':
		return '\b', false, src, nil
	case 'f':
		return '\f', false, src, nil
	case 'n':
		return '\n', false, src, nil
	case 'r':
		return '\r', false, src, nil
	case 't':
		return '\t', false, src, nil
	case 'u':
		if src.Len() < 4 {
			return 0, false, src, errors.New("incomplete Unicode escape")
		}
		v, err := parseHex(src.SliceTo(4))
		src = src.SliceFrom(4)
		if err != nil {
			return utf8.RuneError, false, src, nil
		}
		cr := rune(v)
		if !utf16.IsSurrogate(cr) {
			return cr, false, src, nil
		}
		if lo, ok := lowSurrogate(src); ok {
			if pr := utf16.DecodeRune(cr, lo); pr != utf8.RuneError {
				return pr, false, src.SliceFrom(6), nil
			}
		}
		return cr, true, src, nil
	default:
		return utf8.RuneError, false, src, nil
	}
}

// lowSurrogate reports whether src begins with a \u escape, and if so returns
// the code it denotes.
func lowSurrogate(src mem.RO) (rune, bool) {
	if src.Len() < 6 || src.At(0) != '\\' || src.At(1) != 'u' {
		return 0, false
	}
	v, err := parseHex(src.Slice(2, 6))
	if err != nil {
		return 0, false
	}
	return rune(v), true
}

func parseHex(data mem.RO) (int64, error) {
	var v int64
	for i := 0; i < data.Len(); i++ {
		b := data.At(i)
		v <<= 4
		if '0' <= b && b <= '9' {
			v += int64(b - '0')
		} else if 'a' <= b && b <= 'f' {
			v += int64(b - 'a' + 10)
		} else if 'A' <= b && b <= 'F' {
			v += int64(b - 'A' + 10)
		} else {
			return 0, fmt.Errorf("invalid hex digit %q", b)
		}
	}
	return v, nil
}
