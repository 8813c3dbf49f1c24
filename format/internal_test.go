// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package format

import (
	"errors"
	"testing"
)

func TestLineColumn(t *testing.T) {
	const text = "ab\ncdé\n\nxyz"
	tests := []struct {
		offset    int
		line, col int
	}{
		{-5, 1, 1},
		{0, 1, 1},
		{2, 1, 3},
		{3, 2, 1},
		{5, 2, 3},
		{7, 2, 4}, // after the two-byte character
		{8, 3, 1},
		{9, 4, 1},
		{12, 4, 4},
		{100, 4, 4},
	}
	for _, tc := range tests {
		line, col := lineColumn(text, tc.offset)
		if line != tc.line || col != tc.col {
			t.Errorf("lineColumn(%d): got %d:%d, want %d:%d", tc.offset, line, col, tc.line, tc.col)
		}
	}
}

func TestDescribe(t *testing.T) {
	if got, want := describe("x", errors.New("handler failed")), "Invalid JSON: handler failed"; got != want {
		t.Errorf("describe: got %q, want %q", got, want)
	}
}
