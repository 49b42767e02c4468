// Package vshbin implements the `.vshbin` single-shader binary codec: a fixed 32-byte
// header followed by a sequence of tagged, forward-compatible chunks. Grounded on
// oxy-go's loader/serialization conventions (small, explicit encode/decode functions
// over a byte buffer, no reflection-based marshaling).
package vshbin

import (
	"encoding/binary"

	"github.com/vultra/vshaderc/hashing"
	"github.com/vultra/vshaderc/shaderdef"
	"github.com/vultra/vshaderc/vserr"
)

const (
	magic          = "VSHBIN\x00\x00"
	currentVersion = uint32(2)
	headerSize     = 32
)

const (
	tagSIDH = "SIDH"
	tagVKEY = "VKEY"
	tagSPRV = "SPRV"
	tagREFL = "REFL"
	tagMDES = "MDES"
)

// ShaderBinary is the in-memory form of a `.vshbin` file.
type ShaderBinary struct {
	ContentHash  uint64
	SpirvHash    uint64
	ShaderIDHash uint64 // 0 if absent
	VariantHash  uint64 // 0 iff no permutation keywords
	Stage        shaderdef.Stage

	Reflection  shaderdef.Reflection
	MaterialDesc shaderdef.MaterialDescription
	Spirv       []uint32
}

// Encode serializes b into the `.vshbin` byte layout. It recomputes
// SpirvHash from b.Spirv via hash64_words before writing the header, keeping the
// invariant `spirvHash == hash64_words(spirv)` true by construction — callers that want
// a different invariant-breaking value for a negative test should mutate the bytes
// after Encode, not the struct before it.
func Encode(b ShaderBinary) ([]byte, error) {
	var chunks [][]byte

	if b.ShaderIDHash != 0 {
		chunks = append(chunks, encodeChunk(tagSIDH, encodeU64(b.ShaderIDHash)))
	}
	if b.VariantHash != 0 {
		chunks = append(chunks, encodeChunk(tagVKEY, encodeU64(b.VariantHash)))
	}

	spirvBytes := make([]byte, len(b.Spirv)*4)
	for i, w := range b.Spirv {
		binary.LittleEndian.PutUint32(spirvBytes[i*4:i*4+4], w)
	}
	chunks = append(chunks, encodeChunk(tagSPRV, spirvBytes))

	reflBytes, err := encodeReflection(b.Reflection)
	if err != nil {
		return nil, err
	}
	chunks = append(chunks, encodeChunk(tagREFL, reflBytes))

	mdesBytes, err := encodeMaterialDescription(b.MaterialDesc)
	if err != nil {
		return nil, err
	}
	chunks = append(chunks, encodeChunk(tagMDES, mdesBytes))

	total := headerSize
	for _, c := range chunks {
		total += len(c)
	}
	out := make([]byte, total)
	copy(out[0:8], []byte(magic))
	binary.LittleEndian.PutUint32(out[8:12], currentVersion)
	binary.LittleEndian.PutUint32(out[12:16], uint32(b.Stage)&0xFF)
	binary.LittleEndian.PutUint64(out[16:24], b.ContentHash)
	binary.LittleEndian.PutUint64(out[24:32], hashing.Hash64Words(0, b.Spirv))

	off := headerSize
	for _, c := range chunks {
		copy(out[off:], c)
		off += len(c)
	}
	return out, nil
}

func encodeU64(v uint64) []byte {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, v)
	return buf
}

func encodeChunk(tag string, payload []byte) []byte {
	buf := make([]byte, 8+len(payload))
	copy(buf[0:4], []byte(tag))
	binary.LittleEndian.PutUint32(buf[4:8], uint32(len(payload)))
	copy(buf[8:], payload)
	return buf
}

// Decode parses a `.vshbin` byte stream back into a ShaderBinary, failing with
// DeserializeError on any structural violation: bad magic, unsupported version, a
// chunk size exceeding remaining bytes, a missing required chunk, an SPRV size that
// isn't a multiple of 4, or a words-hash mismatch.
func Decode(data []byte) (ShaderBinary, error) {
	if len(data) < headerSize {
		return ShaderBinary{}, vserr.New(vserr.DeserializeError, "vshbin: truncated header")
	}
	if string(data[0:8]) != magic {
		return ShaderBinary{}, vserr.New(vserr.DeserializeError, "vshbin: bad magic")
	}
	version := binary.LittleEndian.Uint32(data[8:12])
	if version != currentVersion {
		return ShaderBinary{}, vserr.New(vserr.DeserializeError, "vshbin: unsupported version %d", version)
	}
	flags := binary.LittleEndian.Uint32(data[12:16])
	stage := shaderdef.Stage(flags & 0xFF)
	contentHash := binary.LittleEndian.Uint64(data[16:24])
	spirvHash := binary.LittleEndian.Uint64(data[24:32])

	b := ShaderBinary{ContentHash: contentHash, SpirvHash: spirvHash, Stage: stage}

	var sawSPRV, sawREFL, sawMDES bool
	var spirvBytes []byte

	off := headerSize
	for off < len(data) {
		if off+8 > len(data) {
			return ShaderBinary{}, vserr.New(vserr.DeserializeError, "vshbin: truncated chunk header")
		}
		tag := string(data[off : off+4])
		size := binary.LittleEndian.Uint32(data[off+4 : off+8])
		off += 8
		if off+int(size) > len(data) {
			return ShaderBinary{}, vserr.New(vserr.DeserializeError, "vshbin: chunk %q size exceeds remaining bytes", tag)
		}
		payload := data[off : off+int(size)]
		off += int(size)

		switch tag {
		case tagSIDH:
			if len(payload) != 8 {
				return ShaderBinary{}, vserr.New(vserr.DeserializeError, "vshbin: SIDH chunk must be 8 bytes")
			}
			b.ShaderIDHash = binary.LittleEndian.Uint64(payload)
		case tagVKEY:
			if len(payload) != 8 {
				return ShaderBinary{}, vserr.New(vserr.DeserializeError, "vshbin: VKEY chunk must be 8 bytes")
			}
			b.VariantHash = binary.LittleEndian.Uint64(payload)
		case tagSPRV:
			if len(payload)%4 != 0 {
				return ShaderBinary{}, vserr.New(vserr.DeserializeError, "vshbin: SPRV size %d not a multiple of 4", len(payload))
			}
			spirvBytes = payload
			sawSPRV = true
		case tagREFL:
			refl, err := decodeReflection(payload)
			if err != nil {
				return ShaderBinary{}, err
			}
			b.Reflection = refl
			sawREFL = true
		case tagMDES:
			md, err := decodeMaterialDescription(payload)
			if err != nil {
				return ShaderBinary{}, err
			}
			b.MaterialDesc = md
			sawMDES = true
		default:
			// unknown tags are forward-compatibility placeholders; skip silently.
		}
	}

	if !sawSPRV {
		return ShaderBinary{}, vserr.New(vserr.DeserializeError, "vshbin: missing required SPRV chunk")
	}
	if !sawREFL {
		return ShaderBinary{}, vserr.New(vserr.DeserializeError, "vshbin: missing required REFL chunk")
	}
	if !sawMDES {
		return ShaderBinary{}, vserr.New(vserr.DeserializeError, "vshbin: missing required MDES chunk")
	}

	b.Spirv = make([]uint32, len(spirvBytes)/4)
	for i := range b.Spirv {
		b.Spirv[i] = binary.LittleEndian.Uint32(spirvBytes[i*4 : i*4+4])
	}

	if b.SpirvHash != 0 && hashing.Hash64Words(0, b.Spirv) != b.SpirvHash {
		return ShaderBinary{}, vserr.New(vserr.DeserializeError, "vshbin: spirv words hash mismatch")
	}

	return b, nil
}
