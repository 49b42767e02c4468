package vshbin

import (
	"encoding/binary"
	"math"

	"github.com/vultra/vshaderc/shaderdef"
	"github.com/vultra/vshaderc/vserr"
)

// encodeMaterialDescription serializes the MDES chunk payload: name, paramSize, the
// render state's wire tags, then the param and texture arrays.
func encodeMaterialDescription(md shaderdef.MaterialDescription) ([]byte, error) {
	wire, err := shaderdef.EncodeRenderState(md.RenderState)
	if err != nil {
		return nil, vserr.Wrap(vserr.SerializeError, err, "vshbin: encoding render state")
	}

	var buf []byte
	buf = appendString(buf, md.MaterialBlockName)
	buf = appendU32(buf, md.MaterialParamSize)

	buf = appendU8(buf, wire.DepthTest)
	buf = appendU8(buf, wire.DepthWrite)
	buf = appendU8(buf, wire.DepthFunc)
	buf = appendU8(buf, wire.Cull)
	buf = appendU8(buf, wire.BlendEnable)
	buf = appendU8(buf, wire.SrcColor)
	buf = appendU8(buf, wire.DstColor)
	buf = appendU8(buf, wire.ColorOp)
	buf = appendU8(buf, wire.SrcAlpha)
	buf = appendU8(buf, wire.DstAlpha)
	buf = appendU8(buf, wire.AlphaOp)
	buf = appendU8(buf, wire.ColorMask)
	buf = appendU8(buf, wire.AlphaToCoverage)
	buf = appendF32(buf, wire.DepthBiasFactor)
	buf = appendF32(buf, wire.DepthBiasUnits)

	buf = appendU32(buf, uint32(len(md.Params)))
	for _, p := range md.Params {
		buf = appendString(buf, p.Name)
		buf = appendU8(buf, uint8(p.Type))
		buf = appendU32(buf, p.Offset)
		buf = appendU32(buf, p.Size)
		buf = appendU32(buf, uint32(p.Semantic))
		buf = appendU8(buf, boolToU8(p.HasDefault))
		if p.HasDefault {
			buf = appendU8(buf, uint8(p.Default.Type))
			buf = append(buf, p.Default.Buffer[:]...)
		}
		buf = appendU8(buf, boolToU8(p.HasRange))
		if p.HasRange {
			buf = appendF64(buf, p.Range.Min)
			buf = appendF64(buf, p.Range.Max)
		}
	}

	buf = appendU32(buf, uint32(len(md.Textures)))
	for _, t := range md.Textures {
		buf = appendString(buf, t.Name)
		buf = appendU8(buf, uint8(t.Type))
		buf = appendU32(buf, t.Set)
		buf = appendU32(buf, t.Binding)
		buf = appendU32(buf, t.Count)
		buf = appendU32(buf, uint32(t.Semantic))
	}

	return buf, nil
}

func decodeMaterialDescription(data []byte) (shaderdef.MaterialDescription, error) {
	var md shaderdef.MaterialDescription
	off := 0
	var err error

	if md.MaterialBlockName, off, err = readString(data, off); err != nil {
		return md, err
	}
	if md.MaterialParamSize, off, err = readU32(data, off); err != nil {
		return md, err
	}

	var wire shaderdef.WireRenderState
	if wire.DepthTest, off, err = readU8(data, off); err != nil {
		return md, err
	}
	if wire.DepthWrite, off, err = readU8(data, off); err != nil {
		return md, err
	}
	if wire.DepthFunc, off, err = readU8(data, off); err != nil {
		return md, err
	}
	if wire.Cull, off, err = readU8(data, off); err != nil {
		return md, err
	}
	if wire.BlendEnable, off, err = readU8(data, off); err != nil {
		return md, err
	}
	if wire.SrcColor, off, err = readU8(data, off); err != nil {
		return md, err
	}
	if wire.DstColor, off, err = readU8(data, off); err != nil {
		return md, err
	}
	if wire.ColorOp, off, err = readU8(data, off); err != nil {
		return md, err
	}
	if wire.SrcAlpha, off, err = readU8(data, off); err != nil {
		return md, err
	}
	if wire.DstAlpha, off, err = readU8(data, off); err != nil {
		return md, err
	}
	if wire.AlphaOp, off, err = readU8(data, off); err != nil {
		return md, err
	}
	if wire.ColorMask, off, err = readU8(data, off); err != nil {
		return md, err
	}
	if wire.AlphaToCoverage, off, err = readU8(data, off); err != nil {
		return md, err
	}
	if wire.DepthBiasFactor, off, err = readF32(data, off); err != nil {
		return md, err
	}
	if wire.DepthBiasUnits, off, err = readF32(data, off); err != nil {
		return md, err
	}

	rs, err := shaderdef.DecodeRenderState(wire)
	if err != nil {
		return md, vserr.Wrap(vserr.DeserializeError, err, "vshbin: decoding render state")
	}
	md.RenderState = rs

	var paramCount uint32
	if paramCount, off, err = readU32(data, off); err != nil {
		return md, err
	}
	md.Params = make([]shaderdef.MaterialParam, 0, paramCount)
	for i := uint32(0); i < paramCount; i++ {
		var p shaderdef.MaterialParam
		var typeTag, semTag uint8
		var semantic32 uint32
		if p.Name, off, err = readString(data, off); err != nil {
			return md, err
		}
		if typeTag, off, err = readU8(data, off); err != nil {
			return md, err
		}
		p.Type = shaderdef.ParamType(typeTag)
		if p.Offset, off, err = readU32(data, off); err != nil {
			return md, err
		}
		if p.Size, off, err = readU32(data, off); err != nil {
			return md, err
		}
		if semantic32, off, err = readU32(data, off); err != nil {
			return md, err
		}
		p.Semantic = shaderdef.Semantic(semantic32)
		var hasDefault uint8
		if hasDefault, off, err = readU8(data, off); err != nil {
			return md, err
		}
		p.HasDefault = hasDefault != 0
		if p.HasDefault {
			if semTag, off, err = readU8(data, off); err != nil {
				return md, err
			}
			p.Default.Type = shaderdef.ParamType(semTag)
			if off+64 > len(data) {
				return md, vserr.New(vserr.DeserializeError, "vshbin: truncated default buffer")
			}
			copy(p.Default.Buffer[:], data[off:off+64])
			off += 64
		}
		var hasRange uint8
		if hasRange, off, err = readU8(data, off); err != nil {
			return md, err
		}
		p.HasRange = hasRange != 0
		if p.HasRange {
			if p.Range.Min, off, err = readF64(data, off); err != nil {
				return md, err
			}
			if p.Range.Max, off, err = readF64(data, off); err != nil {
				return md, err
			}
		}
		md.Params = append(md.Params, p)
	}

	var texCount uint32
	if texCount, off, err = readU32(data, off); err != nil {
		return md, err
	}
	md.Textures = make([]shaderdef.MaterialTexture, 0, texCount)
	for i := uint32(0); i < texCount; i++ {
		var t shaderdef.MaterialTexture
		var typeTag uint8
		var semantic32 uint32
		if t.Name, off, err = readString(data, off); err != nil {
			return md, err
		}
		if typeTag, off, err = readU8(data, off); err != nil {
			return md, err
		}
		t.Type = shaderdef.TextureType(typeTag)
		if t.Set, off, err = readU32(data, off); err != nil {
			return md, err
		}
		if t.Binding, off, err = readU32(data, off); err != nil {
			return md, err
		}
		if t.Count, off, err = readU32(data, off); err != nil {
			return md, err
		}
		if semantic32, off, err = readU32(data, off); err != nil {
			return md, err
		}
		t.Semantic = shaderdef.Semantic(semantic32)
		md.Textures = append(md.Textures, t)
	}

	if off != len(data) {
		return shaderdef.MaterialDescription{}, vserr.New(vserr.DeserializeError, "vshbin: trailing bytes in MDES chunk")
	}
	return md, nil
}

func appendF32(buf []byte, v float32) []byte {
	tmp := make([]byte, 4)
	binary.LittleEndian.PutUint32(tmp, math.Float32bits(v))
	return append(buf, tmp...)
}

func appendF64(buf []byte, v float64) []byte {
	tmp := make([]byte, 8)
	binary.LittleEndian.PutUint64(tmp, math.Float64bits(v))
	return append(buf, tmp...)
}

func readF32(data []byte, off int) (float32, int, error) {
	if off+4 > len(data) {
		return 0, 0, vserr.New(vserr.DeserializeError, "vshbin: truncated f32")
	}
	return math.Float32frombits(binary.LittleEndian.Uint32(data[off : off+4])), off + 4, nil
}

func readF64(data []byte, off int) (float64, int, error) {
	if off+8 > len(data) {
		return 0, 0, vserr.New(vserr.DeserializeError, "vshbin: truncated f64")
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(data[off : off+8])), off + 8, nil
}
