package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/vultra/vshaderc/buildcache"
	"github.com/vultra/vshaderc/frontend"
	"github.com/vultra/vshaderc/iox"
	"github.com/vultra/vshaderc/keyword"
	"github.com/vultra/vshaderc/nagafrontend"
)

// compilerReflector is the pairing runCompile/runBuild need from a frontend: a
// single value satisfying both collaborator interfaces, the same shape
// nagafrontend.Adapter provides.
type compilerReflector interface {
	frontend.Compiler
	frontend.Reflector
}

// newFrontend constructs the frontend.Compiler/Reflector pair used by the compile
// and build verbs. It defaults to nagafrontend.Adapter; tests substitute a fake
// here to exercise verb dispatch, flag parsing, and exit codes independently of
// which frontend is plugged in (mirroring driver_test.go's fakeCompiler/fakeReflector).
var newFrontend = func() compilerReflector { return nagafrontend.New() }

// loadKeywordsFile parses an optional --keywords-file path. An empty path returns a
// zero-value EngineKeywordsFile (no engine-wide keywords), not an error.
//
// Parameters:
//   - path: the --keywords-file flag value, or "" if omitted
//
// Returns:
//   - keyword.EngineKeywordsFile: the parsed manifest, or a valueless one if path is ""
//   - error: non-nil if path is set but cannot be read or parsed
func loadKeywordsFile(path string) (keyword.EngineKeywordsFile, error) {
	if path == "" {
		return keyword.EngineKeywordsFile{Values: map[string]string{}}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return keyword.EngineKeywordsFile{}, fmt.Errorf("reading keywords file %q: %w", path, err)
	}
	return keyword.ParseEngineKeywordsFile(path, string(data))
}

// openCache builds the on-disk cache for --cache <dir>, or nil if caching is disabled
// via --no-cache, or simply by omitting --cache: there is no default cache
// directory.
//
// Parameters:
//   - dir: the --cache flag value, or "" if omitted
//   - noCache: whether --no-cache was given
//
// Returns:
//   - *buildcache.Cache: the cache to use, or nil if caching is disabled
func openCache(dir string, noCache bool) *buildcache.Cache {
	if noCache || dir == "" {
		return nil
	}
	return buildcache.New(dir, iox.OSFileSystem{})
}

// ensureOutputDir makes the parent directory of outputPath, mapping any failure to
// exit code 6 (internal/output-dir failure).
//
// Parameters:
//   - outputPath: the output file path whose parent directory must exist
//
// Returns:
//   - error: non-nil if the parent directory could not be created
func ensureOutputDir(outputPath string) error {
	dir := filepath.Dir(outputPath)
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory %q: %w", dir, err)
	}
	return nil
}

// writeFileAtomic writes data to path via iox.AtomicWrite over the real filesystem,
// mapping a failure to exit code 7 (write failure).
//
// Parameters:
//   - path: the destination file path
//   - data: the bytes to write
//
// Returns:
//   - error: non-nil if the atomic write failed
func writeFileAtomic(path string, data []byte) error {
	return iox.AtomicWrite(iox.OSFileSystem{}, path, data)
}
