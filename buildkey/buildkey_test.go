package buildkey

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vultra/vshaderc/hashing"
	"github.com/vultra/vshaderc/keyword"
	"github.com/vultra/vshaderc/metadata"
	"github.com/vultra/vshaderc/shaderdef"
)

func TestSourceHashDeterministic(t *testing.T) {
	assert.Equal(t, SourceHash("void main(){}"), SourceHash("void main(){}"))
	assert.NotEqual(t, SourceHash("a"), SourceHash("b"))
}

func TestSpirvWordsHashMatchesHashing(t *testing.T) {
	words := []uint32{1, 2, 3}
	assert.Equal(t, SpirvWordsHash(words), SpirvWordsHash(words))
	assert.NotEqual(t, SpirvWordsHash(words), SpirvWordsHash([]uint32{3, 2, 1}))
}

func emptyMetadata(t *testing.T) *metadata.Metadata {
	t.Helper()
	md, err := metadata.Parse("x.frag", "void main(){}")
	require.NoError(t, err)
	return md
}

func TestBuildHashDeterministic(t *testing.T) {
	opts := shaderdef.CompileOptions{Stage: shaderdef.StageFragment}
	md := emptyMetadata(t)
	h1 := BuildHash("x.frag", "void main(){}", opts, md)
	h2 := BuildHash("x.frag", "void main(){}", opts, md)
	assert.Equal(t, h1, h2)
}

func TestBuildHashDefineOrderIndependence(t *testing.T) {
	md := emptyMetadata(t)
	optsA := shaderdef.CompileOptions{
		Stage: shaderdef.StageFragment,
		Defines: []shaderdef.Define{
			{Name: "A", HasValue: true, Value: "1"},
			{Name: "B", HasValue: true, Value: "2"},
		},
	}
	optsB := shaderdef.CompileOptions{
		Stage: shaderdef.StageFragment,
		Defines: []shaderdef.Define{
			{Name: "B", HasValue: true, Value: "2"},
			{Name: "A", HasValue: true, Value: "1"},
		},
	}
	assert.Equal(t, BuildHash("x.frag", "void main(){}", optsA, md), BuildHash("x.frag", "void main(){}", optsB, md))
}

func TestBuildHashDiffersOnVirtualPath(t *testing.T) {
	md := emptyMetadata(t)
	opts := shaderdef.CompileOptions{Stage: shaderdef.StageFragment}
	h1 := BuildHash("a.frag", "void main(){}", opts, md)
	h2 := BuildHash("b.frag", "void main(){}", opts, md)
	assert.NotEqual(t, h1, h2)
}

func TestBuildHashDiffersOnMetadata(t *testing.T) {
	opts := shaderdef.CompileOptions{Stage: shaderdef.StageFragment}
	mdA := emptyMetadata(t)
	mdB, err := metadata.Parse("x.frag", "#pragma vultra material\nvoid main(){}")
	require.NoError(t, err)
	assert.NotEqual(t, BuildHash("x.frag", "void main(){}", opts, mdA), BuildHash("x.frag", "void main(){}", opts, mdB))
}

func TestBuildHashDiffersOnOptimizeDebugInfoStripDebugInfo(t *testing.T) {
	md := emptyMetadata(t)
	base := shaderdef.CompileOptions{Stage: shaderdef.StageFragment}
	withOptimize := shaderdef.CompileOptions{Stage: shaderdef.StageFragment, Optimize: true}
	withDebugInfo := shaderdef.CompileOptions{Stage: shaderdef.StageFragment, DebugInfo: true}
	withStripDebugInfo := shaderdef.CompileOptions{Stage: shaderdef.StageFragment, StripDebugInfo: true}

	baseHash := BuildHash("x.frag", "void main(){}", base, md)
	assert.NotEqual(t, baseHash, BuildHash("x.frag", "void main(){}", withOptimize, md))
	assert.NotEqual(t, baseHash, BuildHash("x.frag", "void main(){}", withDebugInfo, md))
	assert.NotEqual(t, baseHash, BuildHash("x.frag", "void main(){}", withStripDebugInfo, md))
}

func TestBuildHashDiffersOnSpirvVersion(t *testing.T) {
	md := emptyMetadata(t)
	opts13 := shaderdef.CompileOptions{Stage: shaderdef.StageFragment, SpirvVersion: 0x00010300}
	opts15 := shaderdef.CompileOptions{Stage: shaderdef.StageFragment, SpirvVersion: 0x00010500}
	assert.NotEqual(t,
		BuildHash("x.frag", "void main(){}", opts13, md),
		BuildHash("x.frag", "void main(){}", opts15, md))
}

func TestBuildHashDiffersOnEntryPoint(t *testing.T) {
	md := emptyMetadata(t)
	base := shaderdef.CompileOptions{Stage: shaderdef.StageFragment}
	explicitMain := shaderdef.CompileOptions{Stage: shaderdef.StageFragment, EntryPoint: "main"}
	altEntry := shaderdef.CompileOptions{Stage: shaderdef.StageFragment, EntryPoint: "altMain"}

	assert.Equal(t,
		BuildHash("x.frag", "void main(){}", base, md),
		BuildHash("x.frag", "void main(){}", explicitMain, md),
		"an unset EntryPoint must hash the same as an explicit default")
	assert.NotEqual(t,
		BuildHash("x.frag", "void main(){}", base, md),
		BuildHash("x.frag", "void main(){}", altEntry, md))
}

func TestVariantHashZeroWithNoPermutationKeywords(t *testing.T) {
	h, err := VariantHash(VariantInputs{SourceHash: 123, Stage: shaderdef.StageFragment})
	require.NoError(t, err)
	assert.Equal(t, uint64(0), h)
}

func TestVariantHashResolutionOrder(t *testing.T) {
	decl := keyword.Decl{Name: "USE_SHADOW", Dispatch: keyword.DispatchPermutation, Scope: keyword.ScopeGlobal, Kind: keyword.KindBool, DefaultValue: 0}

	// declaration default only
	base, err := VariantHash(VariantInputs{SourceHash: 1, Stage: shaderdef.StageFragment, Decls: []keyword.Decl{decl}})
	require.NoError(t, err)

	// engine-wide global value wins over default
	fromEngine, err := VariantHash(VariantInputs{
		SourceHash: 1, Stage: shaderdef.StageFragment, Decls: []keyword.Decl{decl},
		EngineValues: map[string]string{"USE_SHADOW": "1"},
	})
	require.NoError(t, err)
	assert.NotEqual(t, base, fromEngine)

	// explicit define wins over engine-wide value
	fromDefine, err := VariantHash(VariantInputs{
		SourceHash: 1, Stage: shaderdef.StageFragment, Decls: []keyword.Decl{decl},
		EngineValues: map[string]string{"USE_SHADOW": "0"},
		Defines:      []shaderdef.Define{{Name: "USE_SHADOW", HasValue: true, Value: "1"}},
	})
	require.NoError(t, err)
	assert.Equal(t, fromEngine, fromDefine)
}

func TestVariantHashIgnoresRuntimeAndSpecializationDispatch(t *testing.T) {
	permute := keyword.Decl{Name: "A", Dispatch: keyword.DispatchPermutation, Kind: keyword.KindBool}
	runtime := keyword.Decl{Name: "B", Dispatch: keyword.DispatchRuntime, Kind: keyword.KindBool}

	withRuntime, err := VariantHash(VariantInputs{SourceHash: 1, Stage: shaderdef.StageFragment, Decls: []keyword.Decl{permute, runtime}})
	require.NoError(t, err)
	withoutRuntime, err := VariantHash(VariantInputs{SourceHash: 1, Stage: shaderdef.StageFragment, Decls: []keyword.Decl{permute}})
	require.NoError(t, err)
	assert.Equal(t, withRuntime, withoutRuntime)
}

func TestVariantKeyBuildMatchesOfflineVariantHash(t *testing.T) {
	decl := keyword.Decl{Name: "QUALITY", Dispatch: keyword.DispatchPermutation, Kind: keyword.KindEnum, Enumerants: []string{"LOW", "MEDIUM", "HIGH"}}

	offline, err := VariantHash(VariantInputs{
		ShaderIDHash: 42, Stage: shaderdef.StageFragment, Decls: []keyword.Decl{decl},
		Defines: []shaderdef.Define{{Name: "QUALITY", HasValue: true, Value: "HIGH"}},
	})
	require.NoError(t, err)

	key := VariantKey{
		ShaderIDHash: 42,
		Stage:        shaderdef.StageFragment,
		Entries:      []VariantKeyEntry{{NameHash: hashing.Hash64Text(0, "QUALITY"), Value: 2}},
	}
	assert.Equal(t, offline, key.Build())
}

func TestVariantKeyBuildEmptyEntriesIsZero(t *testing.T) {
	assert.Equal(t, uint64(0), VariantKey{}.Build())
}

func TestVariantHashUnresolvedDefineValueFails(t *testing.T) {
	decl := keyword.Decl{Name: "MODE", Dispatch: keyword.DispatchPermutation, Kind: keyword.KindEnum, Enumerants: []string{"A", "B"}}
	_, err := VariantHash(VariantInputs{
		SourceHash: 1, Stage: shaderdef.StageFragment, Decls: []keyword.Decl{decl},
		Defines: []shaderdef.Define{{Name: "MODE", HasValue: true, Value: "NOPE"}},
	})
	require.Error(t, err)
}
