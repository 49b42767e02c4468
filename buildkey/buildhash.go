package buildkey

import (
	"fmt"
	"strings"

	"github.com/vultra/vshaderc/hashing"
	"github.com/vultra/vshaderc/metadata"
	"github.com/vultra/vshaderc/shaderdef"
)

// BuildHash is the compile cache's key: it chains seed 0 through sourceText,
// virtualPath, the stage byte, the normalized define list, each include directory in
// order, the optimize/debugInfo/stripDebugInfo/spirvVersion flags, the entry point
// name, and a stable serialization of metadata. Two builds with identical inputs
// modulo define order or metadata map iteration order produce an identical
// BuildHash (include directories are hashed as given, so their spelling counts); two builds differing only in, say,
// --optimize must not, since that flag changes the compiled binary the cache would
// otherwise serve stale.
func BuildHash(virtualPath string, sourceText string, opts shaderdef.CompileOptions, md *metadata.Metadata) uint64 {
	seed := hashing.Hash64Text(0, sourceText)
	seed = hashing.Hash64Text(seed, virtualPath)
	seed = hashing.Hash64Seed(seed, []byte{byte(opts.Stage)})
	seed = hashing.Hash64Text(seed, strings.Join(opts.NormalizedDefines(), "\n"))
	for _, dir := range opts.IncludeDirs {
		seed = hashing.Hash64Text(seed, dir)
	}
	seed = hashing.Hash64Seed(seed, []byte{
		boolToByte(opts.Optimize), boolToByte(opts.DebugInfo), boolToByte(opts.StripDebugInfo),
	})
	seed = hashing.Hash64Words(seed, []uint32{opts.SpirvVersion})
	seed = hashing.Hash64Text(seed, opts.ResolvedEntryPoint())
	seed = hashing.Hash64Text(seed, serializeMetadataForHash(md))
	return seed
}

func boolToByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}

// serializeMetadataForHash renders the parts of Metadata that affect compiled binary
// contents into a fixed, deterministic textual schema: material-decl flag, every
// render-state scalar, and lex-sorted params/textures. Keyword declarations are
// excluded — they only affect the variant hash, not the compiled binary.
func serializeMetadataForHash(md *metadata.Metadata) string {
	var b strings.Builder

	fmt.Fprintf(&b, "material=%d\n", boolToInt(md.HasMaterialDecl))

	wire, err := shaderdef.EncodeRenderState(md.RenderState)
	if err != nil {
		// An un-encodable render state cannot have passed metadata parsing (every
		// pragma token maps to a wire tag by construction); if it somehow did, fold the
		// failure into the hash rather than panic, so the caller still gets a stable
		// (if wrong) hash and the real error surfaces later when the binary is encoded.
		fmt.Fprintf(&b, "renderstate=invalid:%s\n", err.Error())
	} else {
		fmt.Fprintf(&b, "renderstate=%d %d %d %d %d %d %d %d %d %d %d %d %d %.6f %.6f\n",
			wire.DepthTest, wire.DepthWrite, wire.DepthFunc, wire.Cull, wire.BlendEnable,
			wire.SrcColor, wire.DstColor, wire.ColorOp, wire.SrcAlpha, wire.DstAlpha, wire.AlphaOp,
			wire.ColorMask, wire.AlphaToCoverage, wire.DepthBiasFactor, wire.DepthBiasUnits)
	}

	for _, name := range md.SortedParamNames() {
		p := md.Params[name]
		fmt.Fprintf(&b, "param %s semantic=%d", name, p.Semantic)
		if p.HasDefault {
			fmt.Fprintf(&b, " default=%x", p.Default.Buffer)
		} else {
			b.WriteString(" default=none")
		}
		if p.HasRange {
			fmt.Fprintf(&b, " range=%v,%v", p.Range.Min, p.Range.Max)
		} else {
			b.WriteString(" range=none")
		}
		b.WriteByte('\n')
	}

	for _, name := range md.SortedTextureNames() {
		t := md.Textures[name]
		fmt.Fprintf(&b, "texture %s semantic=%d\n", name, t.Semantic)
	}

	return b.String()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
