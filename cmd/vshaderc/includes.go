package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// dirIncludeResolver resolves a `#include` path against an ordered list of search
// directories, the concrete realization of frontend.IncludeResolver for a real
// filesystem-backed CLI invocation.
type dirIncludeResolver struct {
	dirs []string
}

// Resolve searches dirs in order for includePath and returns the first match.
//
// Parameters:
//   - ctx: unused; present to satisfy frontend.IncludeResolver
//   - fromVirtualPath: the virtual path of the file containing the #include, for error messages
//   - includePath: the path named by the #include directive
//
// Returns:
//   - string: the resolved filesystem path of the matching file
//   - string: the matching file's contents
//   - error: non-nil if includePath was not found in any search directory
func (r dirIncludeResolver) Resolve(ctx context.Context, fromVirtualPath, includePath string) (string, string, error) {
	for _, dir := range r.dirs {
		candidate := filepath.Join(dir, includePath)
		data, err := os.ReadFile(candidate)
		if err == nil {
			return candidate, string(data), nil
		}
	}
	return "", "", fmt.Errorf("include %q not found (searched from %q)", includePath, fromVirtualPath)
}
