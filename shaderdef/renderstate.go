package shaderdef

import (
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/vultra/vshaderc/vserr"
)

// RenderState is the declarative render-state block of a material description. It is
// expressed with oxy-go's own wgpu enum types (wgpu.CullMode, wgpu.BlendFactor, ...;
// wgpu.FrontFace is intentionally omitted — the material description's consumer, a
// render pipeline builder like oxy-go's engine/renderer/pipeline, derives front-face
// and topology from the mesh/material binding convention, not from per-shader
// metadata) so that a renderer can hand this struct's fields straight to a pipeline
// builder's functional options (pipeline.WithCullMode, pipeline.WithBlendState, ...)
// without a translation layer.
//
// The on-disk wire format (the MDES chunk) is a fixed set of u8 tags independent of
// wgpu's own numeric enum values; EncodeRenderState/DecodeRenderState convert between
// the two representations.
type RenderState struct {
	DepthTest  bool
	DepthWrite bool
	DepthFunc  wgpu.CompareFunction

	Cull wgpu.CullMode

	BlendEnable bool
	SrcColor    wgpu.BlendFactor
	DstColor    wgpu.BlendFactor
	ColorOp     wgpu.BlendOperation
	SrcAlpha    wgpu.BlendFactor
	DstAlpha    wgpu.BlendFactor
	AlphaOp     wgpu.BlendOperation

	ColorMask       ColorMask
	AlphaToCoverage bool

	DepthBiasFactor float32
	DepthBiasUnits  float32
}

// DefaultRenderState returns the default render state applied when a shader carries
// no explicit `#pragma vultra state` directives: depth test/write on, LessOrEqual
// depth func, back-face cull, blending off, additive-identity blend factors, full
// color mask, no alpha-to-coverage, zero depth bias.
func DefaultRenderState() RenderState {
	return RenderState{
		DepthTest:  true,
		DepthWrite: true,
		DepthFunc:  wgpu.CompareFunctionLessEqual,
		Cull:       wgpu.CullModeBack,

		BlendEnable: false,
		SrcColor:    wgpu.BlendFactorOne,
		DstColor:    wgpu.BlendFactorZero,
		ColorOp:     wgpu.BlendOperationAdd,
		SrcAlpha:    wgpu.BlendFactorOne,
		DstAlpha:    wgpu.BlendFactorZero,
		AlphaOp:     wgpu.BlendOperationAdd,

		ColorMask:       ColorMaskRGBA,
		AlphaToCoverage: false,
	}
}

// ── wire tag tables ─────────────────────────────────────────────────────────────
// Fixed u8 values for the MDES chunk layout. These never change once shipped; unlike
// wgpu's own enum numbering, they are this module's on-disk contract.

var compareOpWire = []wgpu.CompareFunction{
	wgpu.CompareFunctionNever,
	wgpu.CompareFunctionLess,
	wgpu.CompareFunctionEqual,
	wgpu.CompareFunctionLessEqual,
	wgpu.CompareFunctionGreater,
	wgpu.CompareFunctionNotEqual,
	wgpu.CompareFunctionGreaterEqual,
	wgpu.CompareFunctionAlways,
}

var cullModeWire = []wgpu.CullMode{
	wgpu.CullModeNone,
	wgpu.CullModeBack,
	wgpu.CullModeFront,
}

var blendFactorWire = []wgpu.BlendFactor{
	wgpu.BlendFactorZero,
	wgpu.BlendFactorOne,
	wgpu.BlendFactorSrcColor,
	wgpu.BlendFactorOneMinusSrcColor,
	wgpu.BlendFactorDstColor,
	wgpu.BlendFactorOneMinusDstColor,
	wgpu.BlendFactorSrcAlpha,
	wgpu.BlendFactorOneMinusSrcAlpha,
	wgpu.BlendFactorDstAlpha,
	wgpu.BlendFactorOneMinusDstAlpha,
}

var blendOpWire = []wgpu.BlendOperation{
	wgpu.BlendOperationAdd,
	wgpu.BlendOperationSubtract,
	wgpu.BlendOperationReverseSubtract,
	wgpu.BlendOperationMin,
	wgpu.BlendOperationMax,
}

func indexOfCompareOp(v wgpu.CompareFunction) (uint8, bool) {
	for i, c := range compareOpWire {
		if c == v {
			return uint8(i), true
		}
	}
	return 0, false
}

func indexOfCullMode(v wgpu.CullMode) (uint8, bool) {
	for i, c := range cullModeWire {
		if c == v {
			return uint8(i), true
		}
	}
	return 0, false
}

func indexOfBlendFactor(v wgpu.BlendFactor) (uint8, bool) {
	for i, c := range blendFactorWire {
		if c == v {
			return uint8(i), true
		}
	}
	return 0, false
}

func indexOfBlendOp(v wgpu.BlendOperation) (uint8, bool) {
	for i, c := range blendOpWire {
		if c == v {
			return uint8(i), true
		}
	}
	return 0, false
}

// WireRenderState is the flat, already-tagged representation of RenderState matching
// the MDES chunk's byte layout exactly.
type WireRenderState struct {
	DepthTest       uint8
	DepthWrite      uint8
	DepthFunc       uint8
	Cull            uint8
	BlendEnable     uint8
	SrcColor        uint8
	DstColor        uint8
	ColorOp         uint8
	SrcAlpha        uint8
	DstAlpha        uint8
	AlphaOp         uint8
	ColorMask       uint8
	AlphaToCoverage uint8
	DepthBiasFactor float32
	DepthBiasUnits  float32
}

func boolToU8(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

// EncodeRenderState converts a RenderState to its wire tags, failing with
// InvalidArgument if any wgpu enum value has no corresponding wire tag.
func EncodeRenderState(rs RenderState) (WireRenderState, error) {
	depthFunc, ok := indexOfCompareOp(rs.DepthFunc)
	if !ok {
		return WireRenderState{}, vserr.New(vserr.InvalidArgument, "render state: unsupported depth compare function")
	}
	cull, ok := indexOfCullMode(rs.Cull)
	if !ok {
		return WireRenderState{}, vserr.New(vserr.InvalidArgument, "render state: unsupported cull mode")
	}
	srcColor, ok := indexOfBlendFactor(rs.SrcColor)
	if !ok {
		return WireRenderState{}, vserr.New(vserr.InvalidArgument, "render state: unsupported src color blend factor")
	}
	dstColor, ok := indexOfBlendFactor(rs.DstColor)
	if !ok {
		return WireRenderState{}, vserr.New(vserr.InvalidArgument, "render state: unsupported dst color blend factor")
	}
	colorOp, ok := indexOfBlendOp(rs.ColorOp)
	if !ok {
		return WireRenderState{}, vserr.New(vserr.InvalidArgument, "render state: unsupported color blend op")
	}
	srcAlpha, ok := indexOfBlendFactor(rs.SrcAlpha)
	if !ok {
		return WireRenderState{}, vserr.New(vserr.InvalidArgument, "render state: unsupported src alpha blend factor")
	}
	dstAlpha, ok := indexOfBlendFactor(rs.DstAlpha)
	if !ok {
		return WireRenderState{}, vserr.New(vserr.InvalidArgument, "render state: unsupported dst alpha blend factor")
	}
	alphaOp, ok := indexOfBlendOp(rs.AlphaOp)
	if !ok {
		return WireRenderState{}, vserr.New(vserr.InvalidArgument, "render state: unsupported alpha blend op")
	}

	return WireRenderState{
		DepthTest:       boolToU8(rs.DepthTest),
		DepthWrite:      boolToU8(rs.DepthWrite),
		DepthFunc:       depthFunc,
		Cull:            cull,
		BlendEnable:     boolToU8(rs.BlendEnable),
		SrcColor:        srcColor,
		DstColor:        dstColor,
		ColorOp:         colorOp,
		SrcAlpha:        srcAlpha,
		DstAlpha:        dstAlpha,
		AlphaOp:         alphaOp,
		ColorMask:       uint8(rs.ColorMask),
		AlphaToCoverage: boolToU8(rs.AlphaToCoverage),
		DepthBiasFactor: rs.DepthBiasFactor,
		DepthBiasUnits:  rs.DepthBiasUnits,
	}, nil
}

// DecodeRenderState converts a wire-tagged WireRenderState back to a RenderState,
// failing with DeserializeError if any tag is out of range.
func DecodeRenderState(w WireRenderState) (RenderState, error) {
	if int(w.DepthFunc) >= len(compareOpWire) {
		return RenderState{}, vserr.New(vserr.DeserializeError, "render state: depth func tag %d out of range", w.DepthFunc)
	}
	if int(w.Cull) >= len(cullModeWire) {
		return RenderState{}, vserr.New(vserr.DeserializeError, "render state: cull mode tag %d out of range", w.Cull)
	}
	factors := [4]uint8{w.SrcColor, w.DstColor, w.SrcAlpha, w.DstAlpha}
	for _, f := range factors {
		if int(f) >= len(blendFactorWire) {
			return RenderState{}, vserr.New(vserr.DeserializeError, "render state: blend factor tag %d out of range", f)
		}
	}
	ops := [2]uint8{w.ColorOp, w.AlphaOp}
	for _, o := range ops {
		if int(o) >= len(blendOpWire) {
			return RenderState{}, vserr.New(vserr.DeserializeError, "render state: blend op tag %d out of range", o)
		}
	}

	return RenderState{
		DepthTest:       w.DepthTest != 0,
		DepthWrite:      w.DepthWrite != 0,
		DepthFunc:       compareOpWire[w.DepthFunc],
		Cull:            cullModeWire[w.Cull],
		BlendEnable:     w.BlendEnable != 0,
		SrcColor:        blendFactorWire[w.SrcColor],
		DstColor:        blendFactorWire[w.DstColor],
		ColorOp:         blendOpWire[w.ColorOp],
		SrcAlpha:        blendFactorWire[w.SrcAlpha],
		DstAlpha:        blendFactorWire[w.DstAlpha],
		AlphaOp:         blendOpWire[w.AlphaOp],
		ColorMask:       ColorMask(w.ColorMask),
		AlphaToCoverage: w.AlphaToCoverage != 0,
		DepthBiasFactor: w.DepthBiasFactor,
		DepthBiasUnits:  w.DepthBiasUnits,
	}, nil
}

// ParseCompareOp / ParseBlendFactor / ParseBlendOp parse the pragma grammar's textual
// enumerants into wgpu types, for use by the metadata parser.

var compareOpTokens = map[string]wgpu.CompareFunction{
	"Never": wgpu.CompareFunctionNever, "Less": wgpu.CompareFunctionLess,
	"Equal": wgpu.CompareFunctionEqual, "LessOrEqual": wgpu.CompareFunctionLessEqual,
	"Greater": wgpu.CompareFunctionGreater, "NotEqual": wgpu.CompareFunctionNotEqual,
	"GreaterOrEqual": wgpu.CompareFunctionGreaterEqual, "Always": wgpu.CompareFunctionAlways,
}

var blendFactorTokens = map[string]wgpu.BlendFactor{
	"Zero": wgpu.BlendFactorZero, "One": wgpu.BlendFactorOne,
	"SrcColor": wgpu.BlendFactorSrcColor, "OneMinusSrcColor": wgpu.BlendFactorOneMinusSrcColor,
	"DstColor": wgpu.BlendFactorDstColor, "OneMinusDstColor": wgpu.BlendFactorOneMinusDstColor,
	"SrcAlpha": wgpu.BlendFactorSrcAlpha, "OneMinusSrcAlpha": wgpu.BlendFactorOneMinusSrcAlpha,
	"DstAlpha": wgpu.BlendFactorDstAlpha, "OneMinusDstAlpha": wgpu.BlendFactorOneMinusDstAlpha,
}

var blendOpTokens = map[string]wgpu.BlendOperation{
	"Add": wgpu.BlendOperationAdd, "Subtract": wgpu.BlendOperationSubtract,
	"ReverseSubtract": wgpu.BlendOperationReverseSubtract,
	"Min":             wgpu.BlendOperationMin, "Max": wgpu.BlendOperationMax,
}

// ParseCompareOp maps a pragma CompareOp token to its wgpu.CompareFunction.
func ParseCompareOp(token string) (wgpu.CompareFunction, bool) {
	v, ok := compareOpTokens[token]
	return v, ok
}

// ParseBlendFactor maps a pragma Blend factor token to its wgpu.BlendFactor.
func ParseBlendFactor(token string) (wgpu.BlendFactor, bool) {
	v, ok := blendFactorTokens[token]
	return v, ok
}

// ParseBlendOp maps a pragma BlendOp token to its wgpu.BlendOperation.
func ParseBlendOp(token string) (wgpu.BlendOperation, bool) {
	v, ok := blendOpTokens[token]
	return v, ok
}
