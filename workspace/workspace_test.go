// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package workspace

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/creachadair/jsonfmt/format"
	"github.com/creachadair/mds/mtest"
	"github.com/google/go-cmp/cmp"
)

// fixedIDs makes tab IDs predictable for the duration of the test.
func fixedIDs(t *testing.T) {
	t.Helper()
	var n int
	mtest.Swap(t, &newID, func() string {
		n++
		return fmt.Sprintf("tab-%d", n)
	})
}

func checkTabs(t *testing.T, w *Workspace, want []Tab) {
	t.Helper()
	if diff := cmp.Diff(want, w.Tabs()); diff != "" {
		t.Errorf("Tabs (-want, +got):\n%s", diff)
	}
}

func checkActive(t *testing.T, w *Workspace, want string) {
	t.Helper()
	if got := w.Active().ID; got != want {
		t.Errorf("Active: got %q, want %q", got, want)
	}
}

func TestNew(t *testing.T) {
	fixedIDs(t)

	t.Run("Empty", func(t *testing.T) {
		w := New(DefaultState())
		checkTabs(t, w, []Tab{{ID: "tab-1", Name: Untitled, Valid: true}})
		checkActive(t, w, "tab-1")
		if diff := cmp.Diff(DefaultPreferences(), w.Preferences()); diff != "" {
			t.Errorf("Preferences (-want, +got):\n%s", diff)
		}
	})

	t.Run("BadActive", func(t *testing.T) {
		tabs := []Tab{{ID: "a", Name: "A", Valid: true}, {ID: "b", Name: "B", Valid: true}}
		w := New(State{Tabs: tabs, ActiveTabID: "nonesuch"})
		checkActive(t, w, "a")

		// The workspace does not share storage with its input.
		tabs[0].Name = "changed"
		if got := w.Active().Name; got != "A" {
			t.Errorf("Active name: got %q, want A", got)
		}
	})
}

func TestAddTab(t *testing.T) {
	fixedIDs(t)
	w := New(DefaultState())

	if id := w.AddTab("", `{"a":1}`); id != "tab-2" {
		t.Errorf("AddTab: got ID %q, want tab-2", id)
	}
	w.AddTab("bad", `{"a":}`)
	w.AddTab("blank", "  ")
	checkTabs(t, w, []Tab{
		{ID: "tab-1", Name: Untitled, Valid: true},
		{ID: "tab-2", Name: Untitled, Content: "{\n  \"a\": 1\n}", Valid: true},
		{ID: "tab-3", Name: "bad", Content: "{\n  \"a\":\n}",
			Error: `Invalid JSON at line 1, column 6: unexpected "}"`},
		{ID: "tab-4", Name: "blank", Content: "  ", Valid: true},
	})
	checkActive(t, w, "tab-4")

	// Tabs are formatted using the current preferences.
	w.UpdatePreferences(func(p *Preferences) { p.IndentType = "tabs" })
	id := w.AddTab("tabbed", `[1]`)
	if got, err := w.Lookup(id); err != nil {
		t.Errorf("Lookup %q: unexpected error: %v", id, err)
	} else if got.Content != "[\n\t1\n]" {
		t.Errorf("Content: got %q, want tab indentation", got.Content)
	}
}

func TestCloseTab(t *testing.T) {
	fixedIDs(t)
	w := New(DefaultState())
	w.AddTab("two", "")
	w.AddTab("three", "")
	checkActive(t, w, "tab-3")

	// Closing the active tab selects the one before it.
	if err := w.CloseTab("tab-3"); err != nil {
		t.Fatalf("CloseTab: unexpected error: %v", err)
	}
	checkActive(t, w, "tab-2")

	// Closing an inactive tab does not change the active tab.
	if err := w.CloseTab("tab-1"); err != nil {
		t.Fatalf("CloseTab: unexpected error: %v", err)
	}
	checkActive(t, w, "tab-2")

	// Closing the last tab clears it.
	if err := w.UpdateContent("tab-2", "junk", true); err != nil {
		t.Fatalf("UpdateContent: unexpected error: %v", err)
	}
	if err := w.CloseTab("tab-2"); err != nil {
		t.Fatalf("CloseTab: unexpected error: %v", err)
	}
	checkTabs(t, w, []Tab{{ID: "tab-2", Name: "two", Valid: true}})

	if err := w.CloseTab("nonesuch"); !errors.Is(err, ErrNoSuchTab) {
		t.Errorf("CloseTab(nonesuch): got %v, want %v", err, ErrNoSuchTab)
	}
}

func TestCloseFirstActive(t *testing.T) {
	fixedIDs(t)
	w := New(DefaultState())
	w.AddTab("two", "")
	if err := w.SetActive("tab-1"); err != nil {
		t.Fatalf("SetActive: unexpected error: %v", err)
	}
	if err := w.CloseTab("tab-1"); err != nil {
		t.Fatalf("CloseTab: unexpected error: %v", err)
	}
	checkActive(t, w, "tab-2")
}

func TestSetActiveRename(t *testing.T) {
	fixedIDs(t)
	w := New(DefaultState())
	w.AddTab("two", "")

	if err := w.SetActive("nonesuch"); !errors.Is(err, ErrNoSuchTab) {
		t.Errorf("SetActive(nonesuch): got %v, want %v", err, ErrNoSuchTab)
	}
	checkActive(t, w, "tab-2")

	if err := w.Rename("tab-1", "first"); err != nil {
		t.Errorf("Rename: unexpected error: %v", err)
	}
	if err := w.Rename("tab-2", "   "); err != nil {
		t.Errorf("Rename: unexpected error: %v", err)
	}
	if err := w.Rename("nonesuch", "x"); !errors.Is(err, ErrNoSuchTab) {
		t.Errorf("Rename(nonesuch): got %v, want %v", err, ErrNoSuchTab)
	}
	checkTabs(t, w, []Tab{
		{ID: "tab-1", Name: "first", Valid: true},
		{ID: "tab-2", Name: Untitled, Valid: true},
	})

	if tab, err := w.Lookup("first"); err != nil || tab.ID != "tab-1" {
		t.Errorf("Lookup(first): got (%+v, %v), want tab-1", tab, err)
	}
	if tab, err := w.Lookup("tab-2"); err != nil || tab.ID != "tab-2" {
		t.Errorf("Lookup(tab-2): got (%+v, %v), want tab-2", tab, err)
	}
	if _, err := w.Lookup("nonesuch"); !errors.Is(err, ErrNoSuchTab) {
		t.Errorf("Lookup(nonesuch): got %v, want %v", err, ErrNoSuchTab)
	}
}

func TestUpdateContent(t *testing.T) {
	fixedIDs(t)
	w := New(DefaultState())

	tests := []struct {
		content  string
		validate bool
		want     Tab
	}{
		{`{"ok": true}`, true, Tab{Content: `{"ok": true}`, Valid: true}},
		{`[1,]`, true, Tab{Content: `[1,]`,
			Error: `Invalid JSON at line 1, column 4: unexpected "]"`}},
		{`[1,]`, false, Tab{Content: `[1,]`, Valid: true}},
		{" \n", true, Tab{Content: " \n", Valid: true}},
	}
	for _, tc := range tests {
		if err := w.UpdateContent("tab-1", tc.content, tc.validate); err != nil {
			t.Fatalf("UpdateContent: unexpected error: %v", err)
		}
		tc.want.ID, tc.want.Name = "tab-1", Untitled
		if diff := cmp.Diff(tc.want, w.Active()); diff != "" {
			t.Errorf("UpdateContent(%#q, %v) (-want, +got):\n%s", tc.content, tc.validate, diff)
		}
	}

	if err := w.UpdateContent("nonesuch", "", true); !errors.Is(err, ErrNoSuchTab) {
		t.Errorf("UpdateContent(nonesuch): got %v, want %v", err, ErrNoSuchTab)
	}
}

func TestFormatMinifyActive(t *testing.T) {
	fixedIDs(t)
	w := New(DefaultState())

	// Blank content is left alone.
	w.UpdateContent("tab-1", "  ", false)
	if got := w.FormatActive(); got.Content != "  " || !got.Valid {
		t.Errorf("FormatActive(blank): got %+v", got)
	}

	w.UpdateContent("tab-1", `{"a": [1, 2]}`, false)
	got := w.FormatActive()
	want := Tab{ID: "tab-1", Name: Untitled, Content: "{\n  \"a\": [\n    1,\n    2\n  ]\n}", Valid: true}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("FormatActive (-want, +got):\n%s", diff)
	}

	got = w.MinifyActive()
	want.Content = `{"a":[1,2]}`
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("MinifyActive (-want, +got):\n%s", diff)
	}

	// Invalid content is re-indented, and the error is recorded.
	w.UpdateContent("tab-1", `{"a": [1, 2}`, false)
	got = w.FormatActive()
	if got.Valid || got.Error == "" {
		t.Errorf("FormatActive(invalid): got %+v, want error", got)
	}
	if want := "{\n  \"a\": [\n    1,\n    2\n  }"; got.Content != want {
		t.Errorf("FormatActive(invalid): content %q, want %q", got.Content, want)
	}

	// Minify leaves invalid content alone.
	before := got.Content
	if got := w.MinifyActive(); got.Content != before || got.Valid {
		t.Errorf("MinifyActive(invalid): got %+v", got)
	}

	// Content nested too deeply to parse is kept, with the error recorded.
	deep := strings.Repeat("[", 100_000)
	if err := w.UpdateContent("tab-1", deep, true); err != nil {
		t.Fatalf("UpdateContent(deep): unexpected error: %v", err)
	}
	got = w.MinifyActive()
	if got.Content != deep || got.Valid {
		t.Errorf("MinifyActive(deep): got valid=%v, %d bytes; want invalid, unchanged", got.Valid, len(got.Content))
	}
	if want := "Invalid JSON at line 1, column 10001: nesting too deep"; got.Error != want {
		t.Errorf("MinifyActive(deep): error %q, want %q", got.Error, want)
	}
}

func TestAutoFormat(t *testing.T) {
	fixedIDs(t)
	w := New(DefaultState())

	const valid = `{"x":[true]}`
	const pretty = "{\n  \"x\": [\n    true\n  ]\n}"
	tests := []struct {
		auto    bool
		content string
		want    Tab
	}{
		{true, valid, Tab{Content: pretty, Valid: true}},
		{true, `{"x":`, Tab{Content: `{"x":`,
			Error: "Invalid JSON at line 1, column 6: unexpected end of input"}},
		{true, "", Tab{Valid: true}},
		{false, valid, Tab{Content: valid, Valid: true}},
		{false, `{"x":`, Tab{Content: `{"x":`,
			Error: "Invalid JSON at line 1, column 6: unexpected end of input"}},
	}
	for _, tc := range tests {
		w.UpdatePreferences(func(p *Preferences) { p.AutoFormat = tc.auto })
		if err := w.AutoFormat("tab-1", tc.content); err != nil {
			t.Fatalf("AutoFormat: unexpected error: %v", err)
		}
		tc.want.ID, tc.want.Name = "tab-1", Untitled
		if diff := cmp.Diff(tc.want, w.Active()); diff != "" {
			t.Errorf("AutoFormat(%v, %#q) (-want, +got):\n%s", tc.auto, tc.content, diff)
		}
	}
	if err := w.AutoFormat("nonesuch", valid); !errors.Is(err, ErrNoSuchTab) {
		t.Errorf("AutoFormat(nonesuch): got %v, want %v", err, ErrNoSuchTab)
	}
}

func TestDuplicateClear(t *testing.T) {
	fixedIDs(t)
	w := New(DefaultState())
	w.Rename("tab-1", "data")
	w.UpdateContent("tab-1", `[`, true)

	id, err := w.Duplicate("tab-1")
	if err != nil {
		t.Fatalf("Duplicate: unexpected error: %v", err)
	}
	checkActive(t, w, id)
	orig, _ := w.Lookup("tab-1")
	want := orig
	want.ID, want.Name = id, "data (copy)"
	if diff := cmp.Diff(want, w.Active()); diff != "" {
		t.Errorf("Duplicate (-want, +got):\n%s", diff)
	}

	w.ClearActive()
	checkTabs(t, w, []Tab{orig, {ID: id, Name: "data (copy)", Valid: true}})

	if _, err := w.Duplicate("nonesuch"); !errors.Is(err, ErrNoSuchTab) {
		t.Errorf("Duplicate(nonesuch): got %v, want %v", err, ErrNoSuchTab)
	}
}

func TestPreferences(t *testing.T) {
	tests := []struct {
		prefs Preferences
		want  format.Config
	}{
		{DefaultPreferences(), format.Config{Size: 2, Kind: format.Spaces}},
		{Preferences{IndentSize: 4, IndentType: "spaces"}, format.Config{Size: 4, Kind: format.Spaces}},
		{Preferences{IndentSize: 2, IndentType: "tabs"}, format.Config{Size: 2, Kind: format.Tabs}},
		{Preferences{IndentType: "bogus"}, format.Config{Size: 2, Kind: format.Spaces}},
	}
	for _, tc := range tests {
		if diff := cmp.Diff(tc.want, tc.prefs.Config()); diff != "" {
			t.Errorf("Config %+v (-want, +got):\n%s", tc.prefs, diff)
		}
	}

	w := New(DefaultState())
	got := w.UpdatePreferences(func(p *Preferences) {
		p.IndentSize = 4
		p.ToggleTheme()
	})
	want := Preferences{IndentSize: 4, IndentType: "spaces", Theme: "light", AutoFormat: true}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("UpdatePreferences (-want, +got):\n%s", diff)
	}
	if diff := cmp.Diff(want, w.Snapshot().Preferences); diff != "" {
		t.Errorf("Snapshot preferences (-want, +got):\n%s", diff)
	}
	w.UpdatePreferences((*Preferences).ToggleTheme)
	if got := w.Preferences().Theme; got != "dark" {
		t.Errorf("Theme: got %q, want dark", got)
	}
}

func TestSnapshotIsolation(t *testing.T) {
	fixedIDs(t)
	w := New(DefaultState())
	snap := w.Snapshot()
	snap.Tabs[0].Content = "changed"
	if got := w.Active().Content; got != "" {
		t.Errorf("Workspace shares storage with snapshot: content %q", got)
	}
}

func TestDebouncer(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)
	calls := make(chan int, 10)
	for i := range 5 {
		d.Trigger(func() { calls <- i })
	}
	select {
	case got := <-calls:
		if got != 4 {
			t.Errorf("Debounced call: got %d, want 4", got)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Timed out waiting for debounced call")
	}
	select {
	case got := <-calls:
		t.Errorf("Unexpected extra call %d", got)
	case <-time.After(100 * time.Millisecond):
	}

	d.Trigger(func() { calls <- -1 })
	if !d.Stop() {
		t.Error("Stop: got false, want true")
	}
	if d.Stop() {
		t.Error("Stop again: got true, want false")
	}
	select {
	case got := <-calls:
		t.Errorf("Unexpected call %d after Stop", got)
	case <-time.After(100 * time.Millisecond):
	}

	if d := NewDebouncer(0); d.delay != DefaultDebounce {
		t.Errorf("Default delay: got %v, want %v", d.delay, DefaultDebounce)
	}
}
