package shaderdef

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRenderStateEncodeDecodeRoundTrip(t *testing.T) {
	rs := DefaultRenderState()
	wire, err := EncodeRenderState(rs)
	require.NoError(t, err)

	back, err := DecodeRenderState(wire)
	require.NoError(t, err)
	assert.Equal(t, rs, back)
}

func TestEncodeRenderStateUnsupportedValue(t *testing.T) {
	rs := DefaultRenderState()
	rs.Cull = 255 // not a valid wgpu.CullMode wire tag
	_, err := EncodeRenderState(rs)
	require.Error(t, err)
}

func TestDecodeRenderStateOutOfRangeTag(t *testing.T) {
	wire := WireRenderState{DepthFunc: 200}
	_, err := DecodeRenderState(wire)
	require.Error(t, err)
}

func TestParseColorMask(t *testing.T) {
	m, ok := ParseColorMask("RGB")
	require.True(t, ok)
	assert.Equal(t, ColorMaskR|ColorMaskG|ColorMaskB, m)

	_, ok = ParseColorMask("X")
	assert.False(t, ok)
}

func TestParseStage(t *testing.T) {
	s, ok := ParseStage("frag")
	require.True(t, ok)
	assert.Equal(t, StageFragment, s)

	_, ok = ParseStage("bogus")
	assert.False(t, ok)
}

func TestBlendFactorTokenRoundTrip(t *testing.T) {
	for tok := range blendFactorTokens {
		v, ok := ParseBlendFactor(tok)
		require.True(t, ok)
		idx, ok := indexOfBlendFactor(v)
		require.True(t, ok)
		assert.Equal(t, v, blendFactorWire[idx])
	}
}
