package driver

import "github.com/vultra/vshaderc/keyword"

// MergeKeywordFiles composes two parsed engine-keywords manifests into one (the
// manifest-merging utility), delegating entirely to
// keyword.MergeEngineKeywordsFiles — the driver adds no logic of its own here, since
// the merge semantics belong to the `.vkw` grammar, not to composition.
//
// Parameters:
//   - base: the manifest being overridden
//   - override: the manifest whose declarations win on conflict
//
// Returns:
//   - keyword.EngineKeywordsFile: the merged manifest
//   - error: always nil; a keyword declared in both manifests takes the override's
//     declaration
func MergeKeywordFiles(base, override keyword.EngineKeywordsFile) (keyword.EngineKeywordsFile, error) {
	return keyword.MergeEngineKeywordsFiles(base, override)
}
