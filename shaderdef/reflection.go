package shaderdef

// Descriptor is one reflected resource binding. Count is 0 iff RuntimeSized is true —
// an unbounded descriptor array.
type Descriptor struct {
	Name         string
	Set          uint32
	Binding      uint32
	Count        uint32
	Kind         DescriptorKind
	StageFlags   uint32
	RuntimeSized bool
}

// BlockMember is one field of a reflected uniform/storage/push-constant block. Type is
// the reflector's scalar/vector/matrix classification of the member — supplemented
// from the original vshadersystem's BlockMember.type, since without it the artifact
// assembler (a material parameter's type comes from its reflected member type) would
// have no member type to read.
type BlockMember struct {
	Name   string
	Offset uint32
	Size   uint32
	Type   ParamType
}

// Block is one reflected uniform buffer, storage buffer, or push-constant block.
type Block struct {
	Name            string
	Set             uint32
	Binding         uint32
	Size            uint32
	IsPushConstant  bool
	StageFlags      uint32
	Members         []BlockMember
}

// Reflection is the full descriptor/block table produced by the external SPIR-V
// reflector for one compiled shader.
type Reflection struct {
	Descriptors []Descriptor
	Blocks      []Block

	HasLocalSize bool
	LocalSizeX   uint32
	LocalSizeY   uint32
	LocalSizeZ   uint32
}

// FindBlock returns the block with the given name, or nil if absent.
func (r *Reflection) FindBlock(name string) *Block {
	for i := range r.Blocks {
		if r.Blocks[i].Name == name {
			return &r.Blocks[i]
		}
	}
	return nil
}

// FindMember returns the member with the given name within the block, or nil.
func (b *Block) FindMember(name string) *BlockMember {
	for i := range b.Members {
		if b.Members[i].Name == name {
			return &b.Members[i]
		}
	}
	return nil
}

// IsTextureKind reports whether a descriptor kind is one of the two texture kinds the
// artifact assembler matches metadata textures against.
func (k DescriptorKind) IsTextureKind() bool {
	return k == DescriptorCombinedImageSampler || k == DescriptorSampledImage
}

// DefaultValue holds a pragma param's packed default() list: up to 16 32-bit lanes,
// reinterpreted once the param's real ParamType is known from reflection.
type DefaultValue struct {
	Type   ParamType
	Buffer [64]byte // little-endian packed lanes, 4 bytes each, up to 16 lanes
}

// Range holds a pragma param's range(min,max) attribute.
type Range struct {
	Min float64
	Max float64
}

// MaterialParam is one assembled, reflection-validated material parameter.
type MaterialParam struct {
	Name     string
	Offset   uint32
	Size     uint32
	Type     ParamType
	Semantic Semantic

	HasDefault bool
	Default    DefaultValue

	HasRange bool
	Range    Range
}

// MaterialTexture is one assembled, reflection-validated material texture.
type MaterialTexture struct {
	Name     string
	Set      uint32
	Binding  uint32
	Count    uint32
	Semantic Semantic
	Type     TextureType
}

// MaterialDescription is the declarative, renderer-facing view of a shader's
// configurable surface.
type MaterialDescription struct {
	MaterialBlockName string
	MaterialParamSize uint32
	Params            []MaterialParam
	Textures          []MaterialTexture
	RenderState       RenderState
}

// DefaultMaterialBlockName is the UBO block name the artifact assembler looks for when
// a shader declares no explicit name.
const DefaultMaterialBlockName = "Material"
