// Package buildcache implements the on-disk compile cache: a directory of
// `<hex(buildHash, 16 nibbles)>.vshbin` files, read-through on lookup, written via an
// atomic temp-file-plus-rename. Grounded on oxy-go's loader map-cache
// (engine/loader/loader.go's keyed, read-through, builder-populated cache),
// generalized from an in-memory map to a directory of content-addressed files.
package buildcache

import (
	"fmt"
	"path/filepath"

	"github.com/vultra/vshaderc/iox"
	"github.com/vultra/vshaderc/vshbin"
)

// Cache is a read-through directory cache keyed by build hash.
type Cache struct {
	dir string
	fs  iox.FileSystem
}

// New returns a Cache rooted at dir, using fs for all file access.
func New(dir string, fs iox.FileSystem) *Cache {
	return &Cache{dir: dir, fs: fs}
}

// pathFor returns the cache file path for a build hash: 16 lowercase hex nibbles plus
// the `.vshbin` extension.
func (c *Cache) pathFor(buildHash uint64) string {
	return filepath.Join(c.dir, fmt.Sprintf("%016x.vshbin", buildHash))
}

// Lookup returns the cached ShaderBinary for buildHash, and ok=true on a cache hit. A
// cache miss (file absent, or a present-but-corrupt file) returns ok=false with no
// error — a corrupt cache entry is treated as a miss and silently rebuilt, since the
// cache is a content-addressed optimization, not a source of truth.
func (c *Cache) Lookup(buildHash uint64) (vshbin.ShaderBinary, bool) {
	data, err := c.fs.ReadFile(c.pathFor(buildHash))
	if err != nil {
		return vshbin.ShaderBinary{}, false
	}
	bin, err := vshbin.Decode(data)
	if err != nil {
		return vshbin.ShaderBinary{}, false
	}
	return bin, true
}

// Store atomically writes bin into the cache under buildHash's key.
func (c *Cache) Store(buildHash uint64, bin vshbin.ShaderBinary) error {
	data, err := vshbin.Encode(bin)
	if err != nil {
		return err
	}
	return iox.AtomicWrite(c.fs, c.pathFor(buildHash), data)
}
