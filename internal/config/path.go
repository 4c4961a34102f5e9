package config

import (
	"os"
	"path/filepath"
)

const dataDirName = "aesdsocket"

// DefaultDataDir returns where the pebble mirror keeps its files when no
// dataDir is configured. The retained window is service state, so the
// lookup follows XDG state conventions: $XDG_STATE_HOME, then /var/lib when
// the process may write there, then ~/.local/state, and finally the
// system temp dir next to the plain data file.
func DefaultDataDir() string {
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, dataDirName)
	}
	if writable("/var/lib") {
		return filepath.Join("/var/lib", dataDirName)
	}
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		return filepath.Join(home, ".local", "state", dataDirName)
	}
	return filepath.Join(os.TempDir(), dataDirName)
}

// writable reports whether dir exists and a file can be created in it.
func writable(dir string) bool {
	f, err := os.CreateTemp(dir, ".aesd-probe-*")
	if err != nil {
		return false
	}
	name := f.Name()
	_ = f.Close()
	_ = os.Remove(name)
	return true
}
