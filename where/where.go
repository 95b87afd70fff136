// Package where implements a cross-platform resolver for application-specific filesystem paths.
package where

import (
	"os"
	"path/filepath"

	"github.com/gurbani-cli/gurbani/constant"
	"github.com/gurbani-cli/gurbani/filesystem"
	"github.com/samber/lo"
)

// EnvConfigPath is the environment variable used to override the default configuration directory.
const EnvConfigPath = "GURBANI_CONFIG_PATH"

func ensureDir(path string) string {
	lo.Must0(filesystem.API().MkdirAll(path, os.ModePerm))
	return path
}

// Config resolves the absolute path to the primary application configuration directory.
// The path can be overridden with the GURBANI_CONFIG_PATH environment variable.
func Config() string {
	if custom, ok := os.LookupEnv(EnvConfigPath); ok {
		return ensureDir(custom)
	}

	base := lo.Must(os.UserConfigDir())
	return ensureDir(filepath.Join(base, constant.Gurbani))
}

// Cache resolves the absolute path to the application's persistent cache directory.
func Cache() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = filepath.Join(".", "cache")
	}
	return ensureDir(filepath.Join(base, constant.Gurbani))
}

// Logs resolves the directory used for diagnostic logs.
func Logs() string {
	return ensureDir(filepath.Join(Config(), "logs"))
}

// Progress resolves the reading progress file.
func Progress() string {
	return filepath.Join(Config(), "progress.json")
}

// Bookmarks resolves the verse bookmarks file.
func Bookmarks() string {
	return filepath.Join(Config(), "bookmarks.json")
}

// Listening resolves the per-track listening history file.
func Listening() string {
	return filepath.Join(Config(), "listening.json")
}

// Temp resolves a volatile directory for transient artifacts such as player IPC sockets.
func Temp() string {
	return ensureDir(filepath.Join(os.TempDir(), constant.Gurbani))
}
