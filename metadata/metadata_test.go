package metadata

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMaterialAndParamsAndTextures(t *testing.T) {
	src := `
#version 450
#pragma vultra material
#pragma vultra param baseColorFactor semantic(BaseColor) default(1,1,1,1)
#pragma vultra param roughness semantic(Roughness) default(0.5) range(0,1)
#pragma vultra texture baseColorTex semantic(BaseColor)
void main() {}
`
	md, err := Parse("test.frag", src)
	require.NoError(t, err)
	assert.True(t, md.HasMaterialDecl)

	require.Contains(t, md.Params, "baseColorFactor")
	bc := md.Params["baseColorFactor"]
	assert.True(t, bc.HasDefault)
	for i := 0; i < 4; i++ {
		bits := binary.LittleEndian.Uint32(bc.Default.Buffer[i*4 : i*4+4])
		assert.Equal(t, float32(1), math.Float32frombits(bits))
	}

	rough := md.Params["roughness"]
	assert.True(t, rough.HasRange)
	assert.Equal(t, 0.0, rough.Range.Min)
	assert.Equal(t, 1.0, rough.Range.Max)

	require.Contains(t, md.Textures, "baseColorTex")
}

func TestParseStatePragmas(t *testing.T) {
	src := `
#pragma vultra state Cull None
#pragma vultra state ZWrite Off
#pragma vultra state Blend SrcAlpha OneMinusSrcAlpha
#pragma vultra state CompareOp Always
#pragma vultra state ColorMask RGB
#pragma vultra state DepthBias 1.5 2.0
`
	md, err := Parse("test.frag", src)
	require.NoError(t, err)
	require.True(t, md.RenderStateExplicit)
	assert.Equal(t, wgpu.CullModeNone, md.RenderState.Cull)
	assert.False(t, md.RenderState.DepthWrite)
	assert.True(t, md.RenderState.BlendEnable)
	assert.Equal(t, wgpu.BlendFactorSrcAlpha, md.RenderState.SrcColor)
	assert.Equal(t, wgpu.BlendFactorOneMinusSrcAlpha, md.RenderState.DstColor)
	assert.Equal(t, wgpu.CompareFunctionAlways, md.RenderState.DepthFunc)
	assert.Equal(t, float32(1.5), md.RenderState.DepthBiasFactor)
	assert.Equal(t, float32(2.0), md.RenderState.DepthBiasUnits)
}

func TestParseKeywordPragma(t *testing.T) {
	src := "#pragma keyword permute global USE_SHADOW=1\n"
	md, err := Parse("test.frag", src)
	require.NoError(t, err)
	require.Len(t, md.Keywords, 1)
	assert.Equal(t, "USE_SHADOW", md.Keywords[0].Name)
}

func TestParseUnknownPragmaFails(t *testing.T) {
	_, err := Parse("test.frag", "#pragma vultra bogus\n")
	require.Error(t, err)
}

func TestParseMalformedParamAttributeFails(t *testing.T) {
	_, err := Parse("test.frag", "#pragma vultra param foo unknownAttr(1)\n")
	require.Error(t, err)
}

func TestParseTrailingLineCommentStripped(t *testing.T) {
	src := "#pragma vultra material // this enables a material block\n"
	md, err := Parse("test.frag", src)
	require.NoError(t, err)
	assert.True(t, md.HasMaterialDecl)
}

func TestParseNonPragmaLinesIgnored(t *testing.T) {
	src := "layout(location = 0) out vec4 fragColor;\nvoid main() { fragColor = vec4(1.0); }\n"
	md, err := Parse("test.frag", src)
	require.NoError(t, err)
	assert.False(t, md.HasMaterialDecl)
	assert.Empty(t, md.Params)
}

func TestSortedParamAndTextureNames(t *testing.T) {
	src := `
#pragma vultra param zeta semantic(Custom)
#pragma vultra param alpha semantic(Custom)
#pragma vultra texture zTex semantic(Custom)
#pragma vultra texture aTex semantic(Custom)
`
	md, err := Parse("test.frag", src)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "zeta"}, md.SortedParamNames())
	assert.Equal(t, []string{"aTex", "zTex"}, md.SortedTextureNames())
}

func TestParseDefaultOutOfArityFails(t *testing.T) {
	seventeen := "1,1,1,1,1,1,1,1,1,1,1,1,1,1,1,1,1"
	_, err := Parse("test.frag", "#pragma vultra param p default("+seventeen+")\n")
	require.Error(t, err)
}

func TestParseRangeRequiresTwoValues(t *testing.T) {
	_, err := Parse("test.frag", "#pragma vultra param p range(0)\n")
	require.Error(t, err)
}
