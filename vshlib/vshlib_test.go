package vshlib

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vultra/vshaderc/shaderdef"
)

func TestEncodeDecodeRoundTripSortsEntries(t *testing.T) {
	lib := Library{
		Entries: []Entry{
			{KeyHash: 300, Stage: shaderdef.StageFragment, Blob: []byte("frag-blob")},
			{KeyHash: 100, Stage: shaderdef.StageVertex, Blob: []byte("vert-blob")},
			{KeyHash: 100, Stage: shaderdef.StageFragment, Blob: []byte("another")},
		},
	}
	data, err := Encode(lib)
	require.NoError(t, err)

	decoded, err := Decode(data)
	require.NoError(t, err)
	require.Len(t, decoded.Entries, 3)
	assert.Equal(t, uint64(100), decoded.Entries[0].KeyHash)
	assert.Equal(t, uint64(100), decoded.Entries[1].KeyHash)
	assert.Equal(t, uint64(300), decoded.Entries[2].KeyHash)
	assert.Equal(t, []byte("vert-blob"), decoded.Entries[0].Blob)
	assert.Equal(t, []byte("another"), decoded.Entries[1].Blob)
}

func TestEncodeRejectsZeroKeyHash(t *testing.T) {
	_, err := Encode(Library{Entries: []Entry{{KeyHash: 0, Stage: shaderdef.StageFragment}}})
	require.Error(t, err)
}

func TestEncodeRejectsUnknownStage(t *testing.T) {
	_, err := Encode(Library{Entries: []Entry{{KeyHash: 1, Stage: shaderdef.StageUnknown}}})
	require.Error(t, err)
}

func TestEncodeRejectsDuplicateEntry(t *testing.T) {
	_, err := Encode(Library{Entries: []Entry{
		{KeyHash: 1, Stage: shaderdef.StageFragment, Blob: []byte("a")},
		{KeyHash: 1, Stage: shaderdef.StageFragment, Blob: []byte("b")},
	}})
	require.Error(t, err)
}

func TestEncodeDecodeWithEngineKeywordsBytes(t *testing.T) {
	lib := Library{
		Entries:             []Entry{{KeyHash: 1, Stage: shaderdef.StageFragment, Blob: []byte("x")}},
		EngineKeywordsBytes: []byte("keyword permute global A=0\n"),
	}
	data, err := Encode(lib)
	require.NoError(t, err)

	decoded, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, lib.EngineKeywordsBytes, decoded.EngineKeywordsBytes)
}

func TestLookupHitAndMiss(t *testing.T) {
	lib := Library{Entries: []Entry{
		{KeyHash: 10, Stage: shaderdef.StageVertex, Blob: []byte("v")},
		{KeyHash: 10, Stage: shaderdef.StageFragment, Blob: []byte("f")},
	}}
	data, err := Encode(lib)
	require.NoError(t, err)
	decoded, err := Decode(data)
	require.NoError(t, err)

	blob, err := decoded.Lookup(10, shaderdef.StageFragment)
	require.NoError(t, err)
	assert.Equal(t, []byte("f"), blob)

	_, err = decoded.Lookup(999, shaderdef.StageFragment)
	require.Error(t, err)
}

func TestDecodeBadMagicFails(t *testing.T) {
	data, err := Encode(Library{Entries: []Entry{{KeyHash: 1, Stage: shaderdef.StageFragment, Blob: []byte("x")}}})
	require.NoError(t, err)
	data[0] = 'Z'
	_, err = Decode(data)
	require.Error(t, err)
}

func TestDecodeEmptyLibraryRoundTrips(t *testing.T) {
	data, err := Encode(Library{})
	require.NoError(t, err)
	decoded, err := Decode(data)
	require.NoError(t, err)
	assert.Empty(t, decoded.Entries)
	assert.Nil(t, decoded.EngineKeywordsBytes)
}
