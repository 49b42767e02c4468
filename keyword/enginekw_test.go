package keyword

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEngineKeywordsFile(t *testing.T) {
	text := `# engine defaults
keyword permute global USE_SHADOW=1
keyword runtime pass QUALITY=LOW|MEDIUM|HIGH
set USE_SHADOW=0
set QUALITY=MEDIUM # inline comment
`
	file, err := ParseEngineKeywordsFile("engine.vkw", text)
	require.NoError(t, err)
	require.Len(t, file.Decls, 2)
	assert.Equal(t, "USE_SHADOW", file.Decls[0].Name)
	assert.Equal(t, DispatchPermutation, file.Decls[0].Dispatch)
	assert.Equal(t, ScopeGlobal, file.Decls[0].Scope)
	assert.Equal(t, KindBool, file.Decls[0].Kind)
	assert.Equal(t, uint32(1), file.Decls[0].DefaultValue)

	assert.Equal(t, "QUALITY", file.Decls[1].Name)
	assert.Equal(t, []string{"LOW", "MEDIUM", "HIGH"}, file.Decls[1].Enumerants)

	assert.Equal(t, "0", file.Values["USE_SHADOW"])
	assert.Equal(t, "MEDIUM", file.Values["QUALITY"])
}

func TestParseEngineKeywordsFileUnknownDirective(t *testing.T) {
	_, err := ParseEngineKeywordsFile("engine.vkw", "bogus FOO=1\n")
	require.Error(t, err)
}

func TestParseEngineKeywordsFileMalformedSet(t *testing.T) {
	_, err := ParseEngineKeywordsFile("engine.vkw", "set NOVALUE\n")
	require.Error(t, err)
}

func TestMergeEngineKeywordsFilesOverrideWins(t *testing.T) {
	base, err := ParseEngineKeywordsFile("base.vkw", "keyword permute global A=0\nset A=0\n")
	require.NoError(t, err)
	override, err := ParseEngineKeywordsFile("override.vkw", "keyword permute global A=1\nset A=1\nkeyword permute global B=1\n")
	require.NoError(t, err)

	merged, err := MergeEngineKeywordsFiles(base, override)
	require.NoError(t, err)

	require.Len(t, merged.Decls, 2)
	assert.Equal(t, uint32(1), merged.Decls[0].DefaultValue)
	assert.Equal(t, "1", merged.Values["A"])
	assert.Equal(t, "B", merged.Decls[1].Name)
}

func TestMergeEngineKeywordsFilesIdempotentWithEmptyOverride(t *testing.T) {
	base, err := ParseEngineKeywordsFile("base.vkw", "keyword permute global A=0\nset A=0\n")
	require.NoError(t, err)

	merged, err := MergeEngineKeywordsFiles(base, EngineKeywordsFile{Values: map[string]string{}})
	require.NoError(t, err)
	assert.Equal(t, base.Decls, merged.Decls)
	assert.Equal(t, base.Values, merged.Values)
}

func TestEngineKeywordsFileFormatRoundTrips(t *testing.T) {
	text := "keyword permute global USE_SHADOW=1\nkeyword runtime pass QUALITY=LOW|MEDIUM|HIGH\nset QUALITY=MEDIUM\nset USE_SHADOW=0\n"
	file, err := ParseEngineKeywordsFile("engine.vkw", text)
	require.NoError(t, err)

	reparsed, err := ParseEngineKeywordsFile("engine.vkw", file.Format())
	require.NoError(t, err)
	assert.Equal(t, file.Decls, reparsed.Decls)
	assert.Equal(t, file.Values, reparsed.Values)
}

func TestEngineKeywordsFileFormatOmitsDefaultScopeAndPreservesOnlyIf(t *testing.T) {
	file, err := ParseEngineKeywordsFile("x.vkw", "keyword permute local ALPHA_CLIP=0 only_if(SURFACE==CUTOUT)\n")
	require.NoError(t, err)

	text := file.Format()
	assert.Equal(t, "keyword permute ALPHA_CLIP only_if(SURFACE==CUTOUT)\n", text)
}
