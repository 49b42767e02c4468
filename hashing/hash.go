// Package hashing implements the single 64-bit non-cryptographic digest used
// throughout the shader build pipeline for content identity: source hashing,
// build-cache keys, SPIR-V word hashing, and variant-key derivation.
//
// The digest is FNV-1a/64 with the seed chained in as the running hash's initial
// state (seed XOR offset-basis), so repeated calls with different seeds compose the
// way the spec's "seed chaining" requires: hashing A then B with seed s0 gives a
// different result than hashing B then A, and Hash64Seed(Hash64Seed(s0, a), b) chains
// two buffers deterministically.
package hashing

const (
	offsetBasis64 uint64 = 14695981039346656037
	prime64       uint64 = 1099511628211
)

// Hash64Seed computes the FNV-1a/64 digest of data, chained from seed.
func Hash64Seed(seed uint64, data []byte) uint64 {
	h := seed ^ offsetBasis64
	for _, b := range data {
		h ^= uint64(b)
		h *= prime64
	}
	return h
}

// Hash64 computes the digest of data with seed 0.
func Hash64(data []byte) uint64 {
	return Hash64Seed(0, data)
}

// Hash64Text is Hash64Seed over the UTF-8 bytes of s.
func Hash64Text(seed uint64, s string) uint64 {
	return Hash64Seed(seed, []byte(s))
}

// Hash64Words hashes a sequence of 32-bit little-endian words (e.g. SPIR-V code) by
// expanding each word to 4 bytes, little-endian, before folding it into the digest.
func Hash64Words(seed uint64, words []uint32) uint64 {
	h := seed ^ offsetBasis64
	var buf [4]byte
	for _, w := range words {
		buf[0] = byte(w)
		buf[1] = byte(w >> 8)
		buf[2] = byte(w >> 16)
		buf[3] = byte(w >> 24)
		for _, b := range buf {
			h ^= uint64(b)
			h *= prime64
		}
	}
	return h
}

// Chain folds an already-computed digest back into the running state as if it were
// an 8-byte little-endian buffer, composing hashes of heterogeneous fields without
// re-serializing the original bytes. buildkey's variant hash does not use it; it
// serializes its own entry buffer.
func Chain(seed uint64, value uint64) uint64 {
	var buf [8]byte
	buf[0] = byte(value)
	buf[1] = byte(value >> 8)
	buf[2] = byte(value >> 16)
	buf[3] = byte(value >> 24)
	buf[4] = byte(value >> 32)
	buf[5] = byte(value >> 40)
	buf[6] = byte(value >> 48)
	buf[7] = byte(value >> 56)
	return Hash64Seed(seed, buf[:])
}
