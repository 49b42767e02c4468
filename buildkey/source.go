// Package buildkey derives the four content-addressed hashes the pipeline depends on:
// the source hash, the cache-key build hash, the SPIR-V words hash, and the
// permutation-only variant hash, plus the runtime VariantKey helper that must
// reproduce the variant hash bit-for-bit.
package buildkey

import (
	"github.com/vultra/vshaderc/hashing"
)

// SourceHash is hash64(sourceText) with seed 0. It anchors variant hashing when a
// shader has no stable shader-id of its own.
func SourceHash(sourceText string) uint64 {
	return hashing.Hash64Text(0, sourceText)
}

// SpirvWordsHash is hash64 over the SPIR-V word array reinterpreted as little-endian
// bytes. It is written into the binary and re-verified on read.
func SpirvWordsHash(words []uint32) uint64 {
	return hashing.Hash64Words(0, words)
}
