// Package filesystem holds the afero backend used for every file the app touches:
// config, logs and the progress stores. Tests swap in an in-memory backend.
package filesystem

import (
	"sync"

	"github.com/spf13/afero"
)

var (
	mu      sync.RWMutex
	backend = afero.Afero{Fs: afero.NewOsFs()}
)

// API returns the active backend.
func API() afero.Afero {
	mu.RLock()
	defer mu.RUnlock()

	return backend
}

func set(fs afero.Fs) {
	mu.Lock()
	defer mu.Unlock()

	backend = afero.Afero{Fs: fs}
}

// SetOsFs switches to the operating system filesystem.
func SetOsFs() {
	set(afero.NewOsFs())
}

// SetMemMapFs switches to an empty in-memory filesystem.
func SetMemMapFs() {
	set(afero.NewMemMapFs())
}
