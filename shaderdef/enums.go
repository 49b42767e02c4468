// Package shaderdef holds the shared vocabulary of the shader build pipeline: stage,
// descriptor, and parameter enumerations, the reflection record types produced by the
// external SPIR-V reflector, and the material description consumed by a renderer's
// pipeline builder. Every other component in this module produces or consumes these
// types; none of them carry behavior beyond small conversions, matching oxy-go's
// "plain structs that express commonly used data types" design (see oxy-go's common
// package doc comment).
package shaderdef

// Stage identifies a shader's pipeline stage. The zero value, StageUnknown, is never
// valid on a persisted ShaderBinary or ShaderLibrary entry.
type Stage uint8

const (
	StageUnknown Stage = iota
	StageVertex
	StageFragment
	StageCompute
	StageTask
	StageMesh
	StageRayGen
	StageRayMiss
	StageRayClosestHit
	StageRayAnyHit
	StageRayIntersect
)

// stageTokens mirrors the CLI's filename-suffix and -S flag vocabulary: a stage is
// either given explicitly via -S or inferred from a shader's .<stage>.vshader
// filename suffix.
var stageTokens = map[string]Stage{
	"vert":  StageVertex,
	"frag":  StageFragment,
	"comp":  StageCompute,
	"task":  StageTask,
	"mesh":  StageMesh,
	"rgen":  StageRayGen,
	"rmiss": StageRayMiss,
	"rchit": StageRayClosestHit,
	"rahit": StageRayAnyHit,
	"rint":  StageRayIntersect,
}

// ParseStage maps a CLI/filename stage token to a Stage. ok is false for an unknown
// token; callers are expected to surface that as an InvalidArgument error.
func ParseStage(token string) (Stage, bool) {
	s, ok := stageTokens[token]
	return s, ok
}

// String returns the canonical token for a stage, or "" for StageUnknown.
func (s Stage) String() string {
	for tok, v := range stageTokens {
		if v == s {
			return tok
		}
	}
	return ""
}

// DescriptorKind identifies the resource kind of a reflected descriptor binding.
type DescriptorKind uint8

const (
	DescriptorUnknown DescriptorKind = iota
	DescriptorUniformBuffer
	DescriptorStorageBuffer
	DescriptorCombinedImageSampler
	DescriptorSampledImage
	DescriptorStorageImage
	DescriptorSampler
	DescriptorInputAttachment
	DescriptorAccelerationStructure
)

// ParamType identifies the scalar/vector/matrix type of a reflected UBO member, used
// both for material parameter typing and for reinterpreting a pragma's packed default
// value buffer.
type ParamType uint8

const (
	ParamUnknown ParamType = iota
	ParamFloat
	ParamVec2
	ParamVec3
	ParamVec4
	ParamInt
	ParamIVec2
	ParamIVec3
	ParamIVec4
	ParamUInt
	ParamUVec2
	ParamUVec3
	ParamUVec4
	ParamBool
	ParamMat3
	ParamMat4
)

// componentCounts gives the number of 4-byte float/int lanes each ParamType occupies,
// used to size the reinterpretation of a pragma's 1-16 value default() list.
var componentCounts = map[ParamType]int{
	ParamFloat: 1, ParamVec2: 2, ParamVec3: 3, ParamVec4: 4,
	ParamInt: 1, ParamIVec2: 2, ParamIVec3: 3, ParamIVec4: 4,
	ParamUInt: 1, ParamUVec2: 2, ParamUVec3: 3, ParamUVec4: 4,
	ParamBool: 1, ParamMat3: 9, ParamMat4: 16,
}

// ComponentCount returns the number of scalar lanes for t, or 0 for ParamUnknown.
func (t ParamType) ComponentCount() int {
	return componentCounts[t]
}

// TextureType refines a reflected texture/sampler descriptor's dimensionality. Every
// assembled material texture currently leaves this as TextureUnknown (refining it
// from reflection data is out of scope); the enumeration exists so the wire format and
// a future reflector upgrade have somewhere to put a real answer.
type TextureType uint8

const (
	TextureUnknown TextureType = iota
	Texture1D
	Texture2D
	Texture3D
	TextureCube
	Texture2DArray
	TextureCubeArray
)

// Semantic is the fixed set of material-parameter/texture semantic tokens recognized
// by the metadata pragma grammar.
type Semantic uint8

const (
	SemanticUnknown Semantic = iota
	SemanticBaseColor
	SemanticMetallic
	SemanticRoughness
	SemanticNormal
	SemanticEmissive
	SemanticOcclusion
	SemanticOpacity
	SemanticAlphaClip
	SemanticCustom
)

var semanticTokens = map[string]Semantic{
	"BaseColor": SemanticBaseColor,
	"Metallic":  SemanticMetallic,
	"Roughness": SemanticRoughness,
	"Normal":    SemanticNormal,
	"Emissive":  SemanticEmissive,
	"Occlusion": SemanticOcclusion,
	"Opacity":   SemanticOpacity,
	"AlphaClip": SemanticAlphaClip,
	"Custom":    SemanticCustom,
	"Unknown":   SemanticUnknown,
}

// ParseSemantic maps a pragma semantic() token to a Semantic.
func ParseSemantic(token string) (Semantic, bool) {
	s, ok := semanticTokens[token]
	return s, ok
}

// ColorMask is a bitmask over the RGBA write channels, matching the render state's
// "bitmask of RGBA" field and oxy-go's wgpu.ColorWriteMask usage.
type ColorMask uint8

const (
	ColorMaskR ColorMask = 1 << iota
	ColorMaskG
	ColorMaskB
	ColorMaskA
	ColorMaskRGBA = ColorMaskR | ColorMaskG | ColorMaskB | ColorMaskA
)

// ParseColorMask parses a ColorMask pragma's letter set (e.g. "RGB", "A") into a
// ColorMask bitmask. Any letter outside R, G, B, A yields ColorMask(0) with ok=false;
// an empty string yields ColorMask(0) with ok=true.
func ParseColorMask(letters string) (ColorMask, bool) {
	var m ColorMask
	for _, r := range letters {
		switch r {
		case 'R':
			m |= ColorMaskR
		case 'G':
			m |= ColorMaskG
		case 'B':
			m |= ColorMaskB
		case 'A':
			m |= ColorMaskA
		default:
			return 0, false
		}
	}
	return m, true
}
