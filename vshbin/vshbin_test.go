package vshbin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vultra/vshaderc/shaderdef"
)

func sampleBinary() ShaderBinary {
	return ShaderBinary{
		ContentHash: 111,
		Stage:       shaderdef.StageFragment,
		Spirv:       []uint32{0x07230203, 1, 2, 3},
		Reflection: shaderdef.Reflection{
			Descriptors: []shaderdef.Descriptor{
				{Name: "baseColorTex", Set: 0, Binding: 0, Count: 1, Kind: shaderdef.DescriptorCombinedImageSampler},
			},
			Blocks: []shaderdef.Block{
				{
					Name: "Material", Set: 0, Binding: 1, Size: 16,
					Members: []shaderdef.BlockMember{{Name: "roughness", Offset: 0, Size: 4, Type: shaderdef.ParamFloat}},
				},
			},
		},
		MaterialDesc: shaderdef.MaterialDescription{
			MaterialBlockName: "Material",
			MaterialParamSize: 16,
			Params: []shaderdef.MaterialParam{
				{Name: "roughness", Offset: 0, Size: 4, Type: shaderdef.ParamFloat, Semantic: shaderdef.SemanticRoughness, HasRange: true, Range: shaderdef.Range{Min: 0, Max: 1}},
			},
			Textures: []shaderdef.MaterialTexture{
				{Name: "baseColorTex", Semantic: shaderdef.SemanticBaseColor},
			},
			RenderState: shaderdef.DefaultRenderState(),
		},
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	b := sampleBinary()
	data, err := Encode(b)
	require.NoError(t, err)

	decoded, err := Decode(data)
	require.NoError(t, err)

	assert.Equal(t, b.Stage, decoded.Stage)
	assert.Equal(t, b.Spirv, decoded.Spirv)
	assert.Equal(t, b.Reflection, decoded.Reflection)
	assert.Equal(t, b.MaterialDesc, decoded.MaterialDesc)
	assert.Equal(t, b.ContentHash, decoded.ContentHash)
}

func TestEncodeDecodeRoundTripPreservesComputeLocalSize(t *testing.T) {
	b := sampleBinary()
	b.Stage = shaderdef.StageCompute
	b.Reflection.HasLocalSize = true
	b.Reflection.LocalSizeX = 8
	b.Reflection.LocalSizeY = 8
	b.Reflection.LocalSizeZ = 1

	data, err := Encode(b)
	require.NoError(t, err)

	decoded, err := Decode(data)
	require.NoError(t, err)

	assert.Equal(t, b.Reflection, decoded.Reflection)
	assert.True(t, decoded.Reflection.HasLocalSize)
	assert.Equal(t, uint32(8), decoded.Reflection.LocalSizeX)
	assert.Equal(t, uint32(8), decoded.Reflection.LocalSizeY)
	assert.Equal(t, uint32(1), decoded.Reflection.LocalSizeZ)
}

func TestEncodeOmitsOptionalChunksWhenZero(t *testing.T) {
	b := sampleBinary()
	b.ShaderIDHash = 0
	b.VariantHash = 0
	data, err := Encode(b)
	require.NoError(t, err)

	decoded, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), decoded.ShaderIDHash)
	assert.Equal(t, uint64(0), decoded.VariantHash)
}

func TestEncodeIncludesOptionalChunksWhenNonZero(t *testing.T) {
	b := sampleBinary()
	b.ShaderIDHash = 99
	b.VariantHash = 77
	data, err := Encode(b)
	require.NoError(t, err)

	decoded, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, uint64(99), decoded.ShaderIDHash)
	assert.Equal(t, uint64(77), decoded.VariantHash)
}

func TestDecodeBadMagicFails(t *testing.T) {
	data, err := Encode(sampleBinary())
	require.NoError(t, err)
	data[0] = 'X'
	_, err = Decode(data)
	require.Error(t, err)
}

func TestDecodeUnsupportedVersionFails(t *testing.T) {
	data, err := Encode(sampleBinary())
	require.NoError(t, err)
	data[8] = 99
	_, err = Decode(data)
	require.Error(t, err)
}

func TestDecodeTamperedSpirvFailsHashCheck(t *testing.T) {
	data, err := Encode(sampleBinary())
	require.NoError(t, err)

	// flip a byte inside the SPRV chunk payload (after the 32-byte header + 8-byte
	// chunk header of the first chunk).
	data[headerSize+8] ^= 0xFF

	_, err = Decode(data)
	require.Error(t, err)
}

func TestDecodeMissingRequiredChunkFails(t *testing.T) {
	b := sampleBinary()
	data, err := Encode(b)
	require.NoError(t, err)

	// truncate to just the header, dropping every chunk.
	_, err = Decode(data[:headerSize])
	require.Error(t, err)
}

func TestDecodeSkipsUnknownChunkTags(t *testing.T) {
	data, err := Encode(sampleBinary())
	require.NoError(t, err)

	extra := encodeChunk("XTRA", []byte("future-proof"))
	withExtra := append(append([]byte{}, data...), extra...)

	decoded, err := Decode(withExtra)
	require.NoError(t, err)
	assert.Equal(t, sampleBinary().Spirv, decoded.Spirv)
}

func TestDecodeSprvSizeNotMultipleOf4Fails(t *testing.T) {
	// hand-build a minimal stream with a malformed SPRV chunk size.
	b := sampleBinary()
	data, err := Encode(b)
	require.NoError(t, err)

	// the SPRV chunk's size field sits right after its 4-byte tag at headerSize+4.
	data[headerSize+4] = 3 // not a multiple of 4, and shrinks the chunk
	_, err = Decode(data)
	require.Error(t, err)
}
