package vshbin

import (
	"encoding/binary"

	"github.com/vultra/vshaderc/shaderdef"
	"github.com/vultra/vshaderc/vserr"
)

// string codec shared by the reflection and material-description payloads: a
// u32-prefixed UTF-8 byte string.

func appendString(buf []byte, s string) []byte {
	lenBuf := make([]byte, 4)
	binary.LittleEndian.PutUint32(lenBuf, uint32(len(s)))
	buf = append(buf, lenBuf...)
	buf = append(buf, s...)
	return buf
}

func readString(data []byte, off int) (string, int, error) {
	if off+4 > len(data) {
		return "", 0, vserr.New(vserr.DeserializeError, "vshbin: truncated string length")
	}
	n := int(binary.LittleEndian.Uint32(data[off : off+4]))
	off += 4
	if n < 0 || off+n > len(data) {
		return "", 0, vserr.New(vserr.DeserializeError, "vshbin: truncated string payload")
	}
	return string(data[off : off+n]), off + n, nil
}

func appendU32(buf []byte, v uint32) []byte {
	tmp := make([]byte, 4)
	binary.LittleEndian.PutUint32(tmp, v)
	return append(buf, tmp...)
}

func appendU8(buf []byte, v uint8) []byte {
	return append(buf, v)
}

func readU32(data []byte, off int) (uint32, int, error) {
	if off+4 > len(data) {
		return 0, 0, vserr.New(vserr.DeserializeError, "vshbin: truncated u32")
	}
	return binary.LittleEndian.Uint32(data[off : off+4]), off + 4, nil
}

func readU8(data []byte, off int) (uint8, int, error) {
	if off+1 > len(data) {
		return 0, 0, vserr.New(vserr.DeserializeError, "vshbin: truncated u8")
	}
	return data[off], off + 1, nil
}

// encodeReflection serializes the REFL chunk payload: descriptor array, then block
// array (each block carrying its own member array), then a trailing fixed-size
// compute-workgroup block (hasLocalSize byte plus the three local-size dimensions).
// The workgroup fields sit last and unconditionally, rather than behind their own
// optional chunk tag, since every REFL payload already carries them regardless of
// stage — a non-compute shader's reflection simply has hasLocalSize false and all
// three dimensions zero.
func encodeReflection(r shaderdef.Reflection) ([]byte, error) {
	var buf []byte
	buf = appendU32(buf, uint32(len(r.Descriptors)))
	for _, d := range r.Descriptors {
		buf = appendString(buf, d.Name)
		buf = appendU32(buf, d.Set)
		buf = appendU32(buf, d.Binding)
		buf = appendU32(buf, d.Count)
		buf = appendU8(buf, uint8(d.Kind))
		buf = appendU32(buf, d.StageFlags)
		buf = appendU8(buf, boolToU8(d.RuntimeSized))
	}

	buf = appendU32(buf, uint32(len(r.Blocks)))
	for _, blk := range r.Blocks {
		buf = appendString(buf, blk.Name)
		buf = appendU32(buf, blk.Set)
		buf = appendU32(buf, blk.Binding)
		buf = appendU32(buf, blk.Size)
		buf = appendU8(buf, boolToU8(blk.IsPushConstant))
		buf = appendU32(buf, blk.StageFlags)
		buf = appendU32(buf, uint32(len(blk.Members)))
		for _, m := range blk.Members {
			buf = appendString(buf, m.Name)
			buf = appendU32(buf, m.Offset)
			buf = appendU32(buf, m.Size)
			buf = appendU8(buf, uint8(m.Type))
		}
	}

	buf = appendU8(buf, boolToU8(r.HasLocalSize))
	buf = appendU32(buf, r.LocalSizeX)
	buf = appendU32(buf, r.LocalSizeY)
	buf = appendU32(buf, r.LocalSizeZ)
	return buf, nil
}

func decodeReflection(data []byte) (shaderdef.Reflection, error) {
	var r shaderdef.Reflection
	off := 0

	descCount, off, err := readU32(data, off)
	if err != nil {
		return r, err
	}
	r.Descriptors = make([]shaderdef.Descriptor, 0, descCount)
	for i := uint32(0); i < descCount; i++ {
		var d shaderdef.Descriptor
		var name string
		var kind, runtimeSized uint8
		if name, off, err = readString(data, off); err != nil {
			return r, err
		}
		d.Name = name
		if d.Set, off, err = readU32(data, off); err != nil {
			return r, err
		}
		if d.Binding, off, err = readU32(data, off); err != nil {
			return r, err
		}
		if d.Count, off, err = readU32(data, off); err != nil {
			return r, err
		}
		if kind, off, err = readU8(data, off); err != nil {
			return r, err
		}
		d.Kind = shaderdef.DescriptorKind(kind)
		if d.StageFlags, off, err = readU32(data, off); err != nil {
			return r, err
		}
		if runtimeSized, off, err = readU8(data, off); err != nil {
			return r, err
		}
		d.RuntimeSized = runtimeSized != 0
		r.Descriptors = append(r.Descriptors, d)
	}

	blockCount, off, err := readU32(data, off)
	if err != nil {
		return r, err
	}
	r.Blocks = make([]shaderdef.Block, 0, blockCount)
	for i := uint32(0); i < blockCount; i++ {
		var blk shaderdef.Block
		var name string
		var isPush uint8
		if name, off, err = readString(data, off); err != nil {
			return r, err
		}
		blk.Name = name
		if blk.Set, off, err = readU32(data, off); err != nil {
			return r, err
		}
		if blk.Binding, off, err = readU32(data, off); err != nil {
			return r, err
		}
		if blk.Size, off, err = readU32(data, off); err != nil {
			return r, err
		}
		if isPush, off, err = readU8(data, off); err != nil {
			return r, err
		}
		blk.IsPushConstant = isPush != 0
		if blk.StageFlags, off, err = readU32(data, off); err != nil {
			return r, err
		}
		var memberCount uint32
		if memberCount, off, err = readU32(data, off); err != nil {
			return r, err
		}
		blk.Members = make([]shaderdef.BlockMember, 0, memberCount)
		for j := uint32(0); j < memberCount; j++ {
			var m shaderdef.BlockMember
			var typeTag uint8
			if m.Name, off, err = readString(data, off); err != nil {
				return r, err
			}
			if m.Offset, off, err = readU32(data, off); err != nil {
				return r, err
			}
			if m.Size, off, err = readU32(data, off); err != nil {
				return r, err
			}
			if typeTag, off, err = readU8(data, off); err != nil {
				return r, err
			}
			m.Type = shaderdef.ParamType(typeTag)
			blk.Members = append(blk.Members, m)
		}
		r.Blocks = append(r.Blocks, blk)
	}

	var hasLocalSize uint8
	if hasLocalSize, off, err = readU8(data, off); err != nil {
		return r, err
	}
	r.HasLocalSize = hasLocalSize != 0
	if r.LocalSizeX, off, err = readU32(data, off); err != nil {
		return r, err
	}
	if r.LocalSizeY, off, err = readU32(data, off); err != nil {
		return r, err
	}
	if r.LocalSizeZ, off, err = readU32(data, off); err != nil {
		return r, err
	}

	if off != len(data) {
		return shaderdef.Reflection{}, vserr.New(vserr.DeserializeError, "vshbin: trailing bytes in REFL chunk")
	}
	return r, nil
}

func boolToU8(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
