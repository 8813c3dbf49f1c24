// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

// Package workspace manages a set of named JSON documents ("tabs") together
// with the user's formatting preferences.
//
// A Workspace is an in-memory state that is safe for concurrent use. A Store
// persists the state of a workspace to a file between sessions.
package workspace

import (
	"errors"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/creachadair/jsonfmt/format"
	"github.com/google/uuid"
)

// Untitled is the name given to tabs that have no other name.
const Untitled = "Untitled"

// DefaultDebounce is the period of inactivity after an edit before automatic
// formatting is applied.
const DefaultDebounce = 300 * time.Millisecond

// ErrNoSuchTab is reported when a tab ID is not known to the workspace.
var ErrNoSuchTab = errors.New("no such tab")

// Preferences are the user's editor settings.
type Preferences struct {
	IndentSize int    `json:"indentSize"` // 2 or 4
	IndentType string `json:"indentType"` // "spaces" or "tabs"
	Theme      string `json:"theme"`      // "dark" or "light"
	AutoFormat bool   `json:"autoFormat"`
}

// DefaultPreferences returns the preferences used when none are stored.
func DefaultPreferences() Preferences {
	return Preferences{
		IndentSize: 2,
		IndentType: format.Spaces.String(),
		Theme:      "dark",
		AutoFormat: true,
	}
}

// Config returns the formatting configuration selected by p. An unknown
// indent type is treated as spaces, and a non-positive size as the default.
func (p Preferences) Config() format.Config {
	kind, err := format.ParseKind(p.IndentType)
	if err != nil {
		kind = format.Spaces
	}
	size := p.IndentSize
	if size <= 0 {
		size = format.DefaultConfig.Size
	}
	return format.Config{Size: size, Kind: kind}
}

// ToggleTheme switches the theme between "dark" and "light".
func (p *Preferences) ToggleTheme() {
	if p.Theme == "dark" {
		p.Theme = "light"
	} else {
		p.Theme = "dark"
	}
}

// A Tab is a single named JSON document.
type Tab struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Content string `json:"content"`
	Valid   bool   `json:"isValid"`
	Error   string `json:"error,omitempty"`
}

// newID returns a fresh tab ID.
var newID = uuid.NewString

func newTab(name, content string) Tab {
	if strings.TrimSpace(name) == "" {
		name = Untitled
	}
	return Tab{ID: newID(), Name: name, Content: content, Valid: true}
}

// clear discards the content of t.
func (t *Tab) clear() { t.Content, t.Valid, t.Error = "", true, "" }

// setContent stores content verbatim. If validate is true, the tab records
// whether content is blank or valid JSON; otherwise it is marked valid.
func (t *Tab) setContent(content string, validate bool) {
	t.Content, t.Valid, t.Error = content, true, ""
	if validate {
		t.Error = format.Validate(content)
		t.Valid = t.Error == ""
	}
}

// State is the complete state of a workspace.
type State struct {
	Tabs        []Tab       `json:"tabs"`
	ActiveTabID string      `json:"activeTabId"`
	Preferences Preferences `json:"preferences"`
}

// DefaultState returns a state with one empty tab and default preferences.
func DefaultState() State {
	var st State
	st.Preferences = DefaultPreferences()
	st.normalize()
	return st
}

// normalize ensures st has at least one tab and that its active tab exists.
func (st *State) normalize() {
	if len(st.Tabs) == 0 {
		st.Tabs = []Tab{newTab(Untitled, "")}
	}
	if st.index(st.ActiveTabID) < 0 {
		st.ActiveTabID = st.Tabs[0].ID
	}
}

func (st *State) index(id string) int {
	return slices.IndexFunc(st.Tabs, func(t Tab) bool { return t.ID == id })
}

func (st *State) clone() State {
	cp := *st
	cp.Tabs = slices.Clone(st.Tabs)
	return cp
}

// A Workspace holds a collection of tabs, one of which is active, and the
// preferences used to format them. A Workspace always has at least one tab.
// It is safe for concurrent use by multiple goroutines.
type Workspace struct {
	mu    sync.Mutex
	state State
}

// New constructs a workspace with a copy of the given initial state. If st
// has no tabs, an empty tab is added. If its active tab ID does not match any
// tab, the first tab is made active.
func New(st State) *Workspace {
	w := &Workspace{state: st.clone()}
	w.state.normalize()
	return w
}

// Snapshot returns a copy of the current state.
func (w *Workspace) Snapshot() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state.clone()
}

// Tabs returns a copy of the tabs in order.
func (w *Workspace) Tabs() []Tab {
	w.mu.Lock()
	defer w.mu.Unlock()
	return slices.Clone(w.state.Tabs)
}

// Active returns a copy of the active tab.
func (w *Workspace) Active() Tab {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state.Tabs[w.state.index(w.state.ActiveTabID)]
}

// Lookup returns the tab whose ID is ref, or failing that the first tab whose
// name is ref.
func (w *Workspace) Lookup(ref string) (Tab, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if i := w.state.index(ref); i >= 0 {
		return w.state.Tabs[i], nil
	}
	for _, t := range w.state.Tabs {
		if t.Name == ref {
			return t, nil
		}
	}
	return Tab{}, ErrNoSuchTab
}

// Preferences returns the current preferences.
func (w *Workspace) Preferences() Preferences {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state.Preferences
}

// UpdatePreferences calls f with the current preferences, and stores any
// modifications f makes. It returns the updated preferences.
func (w *Workspace) UpdatePreferences(f func(*Preferences)) Preferences {
	w.mu.Lock()
	defer w.mu.Unlock()
	f(&w.state.Preferences)
	return w.state.Preferences
}

// AddTab adds a new tab with the given name and content, and makes it active.
// If name is blank the tab is named Untitled. Non-blank content is formatted
// with the current preferences, and the tab records whether it was valid.
// AddTab returns the ID of the new tab.
func (w *Workspace) AddTab(name, content string) string {
	w.mu.Lock()
	defer w.mu.Unlock()
	tab := newTab(name, content)
	if strings.TrimSpace(content) != "" {
		res := format.Format(content, w.state.Preferences.Config())
		tab.Content, tab.Valid, tab.Error = res.Formatted, res.Valid, res.Error
	}
	w.state.Tabs = append(w.state.Tabs, tab)
	w.state.ActiveTabID = tab.ID
	return tab.ID
}

// CloseTab removes the specified tab. If it is the only tab, its content is
// cleared instead. If the closed tab was active, the tab before it becomes
// active, or the first tab if it was first.
func (w *Workspace) CloseTab(id string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	i := w.state.index(id)
	if i < 0 {
		return ErrNoSuchTab
	}
	if len(w.state.Tabs) == 1 {
		w.state.Tabs[0].clear()
		return nil
	}
	w.state.Tabs = slices.Delete(w.state.Tabs, i, i+1)
	if w.state.ActiveTabID == id {
		w.state.ActiveTabID = w.state.Tabs[max(0, i-1)].ID
	}
	return nil
}

// SetActive makes the specified tab active.
func (w *Workspace) SetActive(id string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state.index(id) < 0 {
		return ErrNoSuchTab
	}
	w.state.ActiveTabID = id
	return nil
}

// Rename changes the name of the specified tab. A blank name is replaced by
// Untitled.
func (w *Workspace) Rename(id, name string) error {
	return w.edit(id, func(t *Tab) {
		if strings.TrimSpace(name) == "" {
			name = Untitled
		}
		t.Name = name
	})
}

// UpdateContent replaces the content of the specified tab verbatim. If
// validate is true and content is not blank, the tab records whether the
// content is valid JSON; otherwise the tab is marked valid.
func (w *Workspace) UpdateContent(id, content string, validate bool) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.updateLocked(id, content, validate)
}

func (w *Workspace) updateLocked(id, content string, validate bool) error {
	i := w.state.index(id)
	if i < 0 {
		return ErrNoSuchTab
	}
	w.state.Tabs[i].setContent(content, validate)
	return nil
}

// FormatActive formats the content of the active tab with the current
// preferences. If the content is invalid it is replaced by its best-effort
// re-indentation, and the tab records the error. Blank content is not
// changed. FormatActive returns the updated tab.
func (w *Workspace) FormatActive() Tab {
	w.mu.Lock()
	defer w.mu.Unlock()
	t := &w.state.Tabs[w.state.index(w.state.ActiveTabID)]
	if strings.TrimSpace(t.Content) != "" {
		res := format.Format(t.Content, w.state.Preferences.Config())
		t.Content, t.Valid, t.Error = res.Formatted, res.Valid, res.Error
	}
	return *t
}

// MinifyActive replaces the content of the active tab with its minified
// form, and returns the updated tab. Invalid content is not changed.
func (w *Workspace) MinifyActive() Tab {
	w.mu.Lock()
	defer w.mu.Unlock()
	t := &w.state.Tabs[w.state.index(w.state.ActiveTabID)]
	t.setContent(format.Minify(t.Content), true)
	return *t
}

// AutoFormat applies the automatic formatting policy to an edit of the
// specified tab. If automatic formatting is enabled and content is valid,
// non-blank JSON, the tab receives the formatted text. Otherwise the tab
// receives content verbatim along with its validation verdict.
//
// Callers are expected to invoke AutoFormat after DefaultDebounce has elapsed
// since the most recent edit (see Debouncer).
func (w *Workspace) AutoFormat(id, content string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	prefs := w.state.Preferences
	if prefs.AutoFormat && strings.TrimSpace(content) != "" {
		if res := format.Format(content, prefs.Config()); res.Valid {
			return w.updateLocked(id, res.Formatted, true)
		}
	}
	return w.updateLocked(id, content, true)
}

// Duplicate adds a copy of the specified tab named "<name> (copy)" and makes
// it active. It returns the ID of the new tab.
func (w *Workspace) Duplicate(id string) (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	i := w.state.index(id)
	if i < 0 {
		return "", ErrNoSuchTab
	}
	src := w.state.Tabs[i]
	cp := newTab(src.Name+" (copy)", src.Content)
	cp.Valid, cp.Error = src.Valid, src.Error
	w.state.Tabs = append(w.state.Tabs, cp)
	w.state.ActiveTabID = cp.ID
	return cp.ID, nil
}

// ClearActive discards the content of the active tab.
func (w *Workspace) ClearActive() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.state.Tabs[w.state.index(w.state.ActiveTabID)].clear()
}

func (w *Workspace) edit(id string, f func(*Tab)) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	i := w.state.index(id)
	if i < 0 {
		return ErrNoSuchTab
	}
	f(&w.state.Tabs[i])
	return nil
}
