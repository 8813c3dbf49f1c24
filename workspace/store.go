// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package workspace

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/creachadair/jsonfmt/format"
	"github.com/tailscale/hujson"
	"go.uber.org/zap"
)

// A Store persists workspace state in a file. The file holds JSON, but may
// also contain comments and trailing commas so that it can be edited by hand.
type Store struct {
	// Path is the location of the state file.
	Path string

	// Logger receives diagnostics about the state file. If nil, nothing is
	// logged.
	Logger *zap.Logger
}

// DefaultPath returns the default location of the state file, in the user's
// configuration directory.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate config directory: %w", err)
	}
	return filepath.Join(dir, "jsonfmt", "state.json"), nil
}

func (s Store) log() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

// Load reads the stored state. Stored preferences are merged over the
// defaults, so that settings missing from the file take their default values.
// If the file does not exist, Load returns DefaultState. If the file cannot
// be read or decoded, the problem is logged and Load returns DefaultState.
func (s Store) Load() State {
	data, err := os.ReadFile(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		s.log().Debug("no stored state", zap.String("path", s.Path))
		return DefaultState()
	} else if err != nil {
		s.log().Warn("reading state failed", zap.String("path", s.Path), zap.Error(err))
		return DefaultState()
	}
	st, err := decodeState(data)
	if err != nil {
		s.log().Warn("ignoring corrupt state", zap.String("path", s.Path), zap.Error(err))
		return DefaultState()
	}
	s.log().Debug("loaded state", zap.String("path", s.Path), zap.Int("tabs", len(st.Tabs)))
	return st
}

func decodeState(data []byte) (State, error) {
	std, err := hujson.Standardize(data)
	if err != nil {
		return State{}, fmt.Errorf("parse state: %w", err)
	}
	st := State{Preferences: DefaultPreferences()}
	if err := json.Unmarshal(std, &st); err != nil {
		return State{}, fmt.Errorf("decode state: %w", err)
	}
	st.normalize()
	return st, nil
}

// Save writes st to the state file, creating its directory if necessary.
// The file is replaced atomically.
func (s Store) Save(st State) error {
	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	res := format.Format(string(data), format.DefaultConfig)
	if !res.Valid {
		return fmt.Errorf("encode state: %s", res.Error)
	}

	if err := os.MkdirAll(filepath.Dir(s.Path), 0o755); err != nil {
		return err
	}
	tmp := s.Path + ".tmp"
	if err := os.WriteFile(tmp, []byte(res.Formatted+"\n"), 0o644); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, s.Path); err != nil {
		os.Remove(tmp)
		return err
	}
	s.log().Debug("saved state", zap.String("path", s.Path), zap.Int("tabs", len(st.Tabs)))
	return nil
}

// Clear removes the state file. It is not an error if the file does not exist.
func (s Store) Clear() error {
	if err := os.Remove(s.Path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
