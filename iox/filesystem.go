// Package iox provides the file I/O primitives the rest of the build pipeline treats
// as an external collaborator: byte-level read/write of whole files sits below this
// system's own conceptual scope, but something has to implement it. The pluggable
// FileSystem interface mirrors oxy-go's loaderBackend swapping pattern
// (engine/loader/loader_backend.go) so every atomic-write call site can be exercised
// against an in-memory fake without touching disk.
package iox

import (
	"os"
	"path/filepath"

	"github.com/vultra/vshaderc/vserr"
)

// FileSystem is the minimal file I/O surface the build pipeline depends on: read,
// write, rename, and remove whole files. buildcache and the vshbin/vshlib writers take
// a FileSystem rather than calling os.* directly.
type FileSystem interface {
	ReadFile(path string) ([]byte, error)
	WriteFile(path string, data []byte, perm os.FileMode) error
	Rename(oldPath, newPath string) error
	Remove(path string) error
}

// OSFileSystem is the default FileSystem, backed directly by the os package.
type OSFileSystem struct{}

var _ FileSystem = OSFileSystem{}

func (OSFileSystem) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

func (OSFileSystem) WriteFile(path string, data []byte, perm os.FileMode) error {
	return os.WriteFile(path, data, perm)
}

func (OSFileSystem) Rename(oldPath, newPath string) error {
	return os.Rename(oldPath, newPath)
}

func (OSFileSystem) Remove(path string) error {
	return os.Remove(path)
}

// AtomicWrite writes data to path by first writing to a temp sibling file, then
// renaming it into place — binary and library writers must never leave a
// partially-written file at the final path. The temp file is removed when the rename
// fails; a failed write of the temp file removes nothing.
func AtomicWrite(fs FileSystem, path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp := filepath.Join(dir, "."+filepath.Base(path)+".tmp")

	if err := fs.WriteFile(tmp, data, 0o644); err != nil {
		return vserr.Wrap(vserr.IO, err, "atomic write: stage %q", tmp)
	}
	if err := fs.Rename(tmp, path); err != nil {
		_ = fs.Remove(tmp)
		return vserr.Wrap(vserr.IO, err, "atomic write: rename %q to %q", tmp, path)
	}
	return nil
}
