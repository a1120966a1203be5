// SPDX-License-Identifier: Unlicense OR MIT

package app

import (
	"os"
	"path/filepath"
)

// ID is the app id. It names the directory returned by DataDir, under
// which relative webview data directories are resolved.
//
// ID is set manually with the -X linker flag. For example,
//
//	go build -ldflags="-X 'github.com/loomui/loom/app.ID=org.example.Notes'" .
//
// Note that ID is treated as a constant, and that changing it at runtime
// is not supported. The default value of ID is filepath.Base(os.Args[0]).
var ID = ""

// DataDir returns a path to use for application-specific
// configuration data. DataDir uses os.UserConfigDir.
func DataDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ID), nil
}

// WebviewDataDir resolves a webview data directory. Relative paths are
// taken relative to DataDir; the empty path is returned unchanged and
// selects the default browser state.
func WebviewDataDir(path string) (string, error) {
	if path == "" || filepath.IsAbs(path) {
		return path, nil
	}
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, path), nil
}

func init() {
	if ID == "" {
		ID = filepath.Base(os.Args[0])
	}
}
