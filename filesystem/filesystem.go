// Package filesystem routes every file operation through a swappable afero backend.
package filesystem

import (
	"io"
	"os"

	"github.com/spf13/afero"
)

var backend = afero.Afero{Fs: afero.NewOsFs()}

// API returns the active backend.
func API() afero.Afero {
	return backend
}

// SetOsFs restores the native operating system backend.
func SetOsFs() {
	SetFs(afero.NewOsFs())
}

// SetMemMapFs switches to a volatile in-memory backend, used by tests.
func SetMemMapFs() {
	SetFs(afero.NewMemMapFs())
}

// SetFs installs an arbitrary backend.
func SetFs(fs afero.Fs) {
	backend = afero.Afero{Fs: fs}
}

// Within returns a view of the backend rooted at dir.
// Paths outside dir are rejected by the view.
func Within(dir string) afero.Afero {
	return afero.Afero{Fs: afero.NewBasePathFs(backend.Fs, dir)}
}

// GacheFs lets gache caches persist through the active backend.
type GacheFs struct{}

func (GacheFs) OpenFile(name string, flag int, perm os.FileMode) (io.ReadWriteCloser, error) {
	return backend.OpenFile(name, flag, perm)
}

func (GacheFs) MkdirAll(path string, perm os.FileMode) error {
	return backend.MkdirAll(path, perm)
}
