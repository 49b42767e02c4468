package iox

import (
	"os"
	"sync"

	"github.com/vultra/vshaderc/vserr"
)

// MemFS is an in-memory FileSystem fake for tests, grounded on oxy-go's pattern of
// swapping loaderBackend implementations to isolate model-loading tests from real glTF
// files (engine/loader/gltf_loader_backend.go).
type MemFS struct {
	mu    sync.Mutex
	files map[string][]byte
}

var _ FileSystem = (*MemFS)(nil)

// NewMemFS returns an empty in-memory filesystem.
func NewMemFS() *MemFS {
	return &MemFS{files: make(map[string][]byte)}
}

func (m *MemFS) ReadFile(path string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.files[path]
	if !ok {
		return nil, vserr.New(vserr.IO, "memfs: no such file %q", path)
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (m *MemFS) WriteFile(path string, data []byte, _ os.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := make([]byte, len(data))
	copy(stored, data)
	m.files[path] = stored
	return nil
}

func (m *MemFS) Rename(oldPath, newPath string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.files[oldPath]
	if !ok {
		return vserr.New(vserr.IO, "memfs: no such file %q", oldPath)
	}
	m.files[newPath] = data
	delete(m.files, oldPath)
	return nil
}

func (m *MemFS) Remove(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.files[path]; !ok {
		return vserr.New(vserr.IO, "memfs: no such file %q", path)
	}
	delete(m.files, path)
	return nil
}

// Has reports whether path exists, for test assertions.
func (m *MemFS) Has(path string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.files[path]
	return ok
}
