// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package workspace

import (
	"os"
	"path/filepath"
	"strings"
)

const jsonExt = ".json"

// ImportFile reads the file at path and returns a tab name derived from its
// base name, without a ".json" extension, together with its contents.
func ImportFile(path string) (name, content string, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", "", err
	}
	return strings.TrimSuffix(filepath.Base(path), jsonExt), string(data), nil
}

// ExportFile writes content to a file in dir named for name, and returns the
// path of the file. A ".json" extension is added to the name if it lacks one.
// Path separators in name are replaced, so the file is always created in dir.
// A blank name is exported as "data.json".
func ExportFile(dir, name, content string) (string, error) {
	path := filepath.Join(dir, ExportName(name))
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// ExportName returns the file name used by ExportFile for a tab name.
func ExportName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		name = "data"
	}
	name = strings.Map(func(r rune) rune {
		if r == '/' || r == os.PathSeparator {
			return '_'
		}
		return r
	}, name)
	if !strings.HasSuffix(name, jsonExt) {
		name += jsonExt
	}
	return name
}
