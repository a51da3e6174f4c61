package filesystem

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// TemporaryFile is a writable scratch file that is later renamed into place.
type TemporaryFile interface {
	io.Writer
	Name() string
	Sync() error
	Close() error
}

// OSFileSystem implements filesystem access using the operating system primitives.
type OSFileSystem struct{}

// Stat retrieves file metadata.
func (OSFileSystem) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

// ReadFile reads file contents.
func (OSFileSystem) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// CreateTemp creates a uniquely named file inside directory.
func (OSFileSystem) CreateTemp(directory string, pattern string) (TemporaryFile, error) {
	return os.CreateTemp(directory, pattern)
}

// Chmod changes file permissions.
func (OSFileSystem) Chmod(path string, permissions fs.FileMode) error {
	return os.Chmod(path, permissions)
}

// Rename renames a path.
func (OSFileSystem) Rename(oldPath string, newPath string) error {
	return os.Rename(oldPath, newPath)
}

// Remove deletes a path.
func (OSFileSystem) Remove(path string) error {
	return os.Remove(path)
}

// Abs resolves an absolute path.
func (OSFileSystem) Abs(path string) (string, error) {
	return filepath.Abs(path)
}

// EvalSymlinks resolves symbolic links in path.
func (OSFileSystem) EvalSymlinks(path string) (string, error) {
	return filepath.EvalSymlinks(path)
}
