// Package nagafrontend adapts github.com/gogpu/naga's WGSL→IR→SPIR-V pipeline to the
// frontend.Compiler and frontend.Reflector interfaces — vshaderc only depends on
// those two interfaces, never on naga directly. It is the concrete frontend
// cmd/vshaderc wires by default; any embedder that needs a different source
// language wires its own implementation behind the same two interfaces instead,
// exactly the way oxy-go's Loader takes a renderer.Renderer it never constructs
// itself (engine/loader/loader_builder.go's WithRenderer option).
//
// naga's only source-language frontend is WGSL, not GLSL — its lexer has no concept
// of a C-preprocessor `#pragma` token, so the vultra/keyword pragma lines that
// package metadata deliberately leaves untouched in the source text (they pass
// through to the external frontend untouched) are blanked out here before parsing.
// A shader authored in WGSL with vultra pragma lines compiles through this adapter
// end to end; a shader whose body is GLSL rather than WGSL does not, the same way
// feeding malformed WGSL to any WGSL compiler does not — that is a source-language
// choice the caller makes when it picks this adapter over a different one.
package nagafrontend

import (
	"context"
	"sync"

	naga "github.com/gogpu/naga"
	"github.com/gogpu/naga/ir"
	"github.com/gogpu/naga/spirv"

	"github.com/vultra/vshaderc/frontend"
	"github.com/vultra/vshaderc/hashing"
	"github.com/vultra/vshaderc/shaderdef"
	"github.com/vultra/vshaderc/vserr"
)

// Adapter wires naga as both the Compiler and Reflector collaborator. Reflection is
// derived directly from naga's IR during Compile — walking the richer, already-typed
// global variable/struct declarations — rather than re-parsing the emitted SPIR-V
// words, which would mean reimplementing the out-of-scope SPIR-V reflector by hand.
// The derived shaderdef.Reflection is cached by the resulting words' content hash so
// a later Reflect call retrieves it by lookup.
type Adapter struct {
	mu    sync.Mutex
	cache map[uint64]shaderdef.Reflection
}

// New returns a ready-to-use Adapter.
func New() *Adapter {
	return &Adapter{cache: make(map[uint64]shaderdef.Reflection)}
}

var (
	_ frontend.Compiler  = (*Adapter)(nil)
	_ frontend.Reflector = (*Adapter)(nil)
)

// Compile implements frontend.Compiler. includes is accepted to satisfy the
// interface but unused: naga's WGSL frontend resolves no `#include` directives, and
// the include resolution hook is meaningful only to a C-preprocessor-style frontend.
func (a *Adapter) Compile(ctx context.Context, virtualPath, source string, opts shaderdef.CompileOptions, includes frontend.IncludeResolver) ([]uint32, error) {
	wgslSource := blankPragmaLines(source)

	ast, err := naga.Parse(wgslSource)
	if err != nil {
		return nil, vserr.Wrap(vserr.CompileError, err, "nagafrontend: parse %s", virtualPath)
	}
	module, err := naga.LowerWithSource(ast, wgslSource)
	if err != nil {
		return nil, vserr.Wrap(vserr.CompileError, err, "nagafrontend: lower %s", virtualPath)
	}
	if err := selectEntryPoint(module, opts.ResolvedEntryPoint()); err != nil {
		return nil, vserr.Wrap(vserr.CompileError, err, "nagafrontend: %s", virtualPath)
	}

	spirvBytes, err := naga.GenerateSPIRV(module, spirv.Options{Version: spirvVersionFor(opts.SpirvVersion), Debug: opts.DebugInfo})
	if err != nil {
		return nil, vserr.Wrap(vserr.CompileError, err, "nagafrontend: codegen %s", virtualPath)
	}
	words := bytesToWords(spirvBytes)

	refl := reflectModule(module)
	a.mu.Lock()
	a.cache[hashing.Hash64Words(0, words)] = refl
	a.mu.Unlock()

	return words, nil
}

// Reflect implements frontend.Reflector by looking up the reflection derived during
// the Compile call that produced spirvWords. stage is accepted to satisfy the
// interface but unused: the cached reflection already carries everything Compile
// observed about the module regardless of which stage's entry point is queried.
func (a *Adapter) Reflect(ctx context.Context, spirvWords []uint32, stage shaderdef.Stage) (shaderdef.Reflection, error) {
	key := hashing.Hash64Words(0, spirvWords)
	a.mu.Lock()
	refl, ok := a.cache[key]
	a.mu.Unlock()
	if !ok {
		return shaderdef.Reflection{}, vserr.New(vserr.ReflectError,
			"nagafrontend: no cached reflection for this SPIR-V module (Compile must run first)")
	}
	return refl, nil
}

// selectEntryPoint narrows module's entry points down to the one named name,
// mutating module in place before codegen. WGSL identifies entry points by their
// `@vertex`/`@fragment`/`@compute` function name rather than a single per-file
// `main`, so naga's module can carry more than one; a shader with exactly one entry
// point matching name (almost always true in practice) is left untouched in effect,
// while a module with several is pared down to just the requested one so
// naga.GenerateSPIRV only ever emits the caller's chosen entry point.
func selectEntryPoint(module *ir.Module, name string) error {
	if len(module.EntryPoints) == 0 {
		return nil
	}
	var matched []ir.EntryPoint
	for _, ep := range module.EntryPoints {
		if ep.Name == name {
			matched = append(matched, ep)
		}
	}
	if len(matched) == 0 {
		return vserr.New(vserr.CompileError, "no entry point named %q", name)
	}
	module.EntryPoints = matched
	return nil
}

// blankPragmaLines replaces every vultra/keyword pragma line with a blank line of
// the same line count, mirroring package metadata's own line-classification rule
// (lines whose first two fields are "#pragma vultra" or "#pragma keyword") so
// diagnostics from naga's lexer still report correct line numbers.
func blankPragmaLines(source string) string {
	lines := splitLines(source)
	for i, line := range lines {
		if isPragmaLine(line) {
			lines[i] = ""
		}
	}
	return joinLines(lines)
}

func isPragmaLine(line string) bool {
	fields := fieldsOf(line)
	if len(fields) < 2 || fields[0] != "#pragma" {
		return false
	}
	return fields[1] == "vultra" || fields[1] == "keyword"
}

func fieldsOf(s string) []string {
	var fields []string
	start := -1
	for i, r := range s {
		if r == ' ' || r == '\t' {
			if start >= 0 {
				fields = append(fields, s[start:i])
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		fields = append(fields, s[start:])
	}
	return fields
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			lines = append(lines, s[start:i])
			start = i + 1
		}
	}
	lines = append(lines, s[start:])
	return lines
}

func joinLines(lines []string) string {
	out := lines[0]
	for _, l := range lines[1:] {
		out += "\n" + l
	}
	return out
}

// spirvVersionFor maps shaderdef.CompileOptions.SpirvVersion — the SPIR-V module
// header's own packed version word, major in bits 16-23 and minor in bits 8-15 — to
// the matching spirv.Version. An unset (zero) option defaults to spirv.Version1_3,
// the version this adapter has always generated; any other value is honored exactly,
// since spirv.Version is a plain {Major, Minor} struct and every combination naga's
// generator accepts is representable this way, not just the named VersionX_Y
// constants spirv/spirv.go declares for convenience.
func spirvVersionFor(packed uint32) spirv.Version {
	if packed == 0 {
		return spirv.Version1_3
	}
	return spirv.Version{Major: uint8(packed >> 16), Minor: uint8(packed >> 8)}
}

func bytesToWords(b []byte) []uint32 {
	words := make([]uint32, len(b)/4)
	for i := range words {
		words[i] = uint32(b[4*i]) | uint32(b[4*i+1])<<8 | uint32(b[4*i+2])<<16 | uint32(b[4*i+3])<<24
	}
	return words
}

// reflectModule derives a shaderdef.Reflection from an IR module's global variable
// declarations: every bound uniform/storage struct becomes a Block plus a matching
// Descriptor, every bound image/sampler becomes a Descriptor, and a compute entry
// point's workgroup size becomes the local-size fields.
func reflectModule(module *ir.Module) shaderdef.Reflection {
	var refl shaderdef.Reflection

	for _, gv := range module.GlobalVariables {
		if gv.Binding == nil {
			continue
		}
		set, binding := gv.Binding.Group, gv.Binding.Binding

		t := typeAt(module, gv.Type)
		switch inner := t.Inner.(type) {
		case ir.StructType:
			if gv.Space != ir.SpaceUniform && gv.Space != ir.SpaceStorage {
				continue
			}
			block := shaderdef.Block{Name: blockName(t.Name, gv.Name), Set: set, Binding: binding, Size: inner.Span}
			for _, m := range inner.Members {
				block.Members = append(block.Members, shaderdef.BlockMember{
					Name:   m.Name,
					Offset: m.Offset,
					Size:   sizeOfType(module, m.Type),
					Type:   paramTypeOf(module, m.Type),
				})
			}
			refl.Blocks = append(refl.Blocks, block)

			kind := shaderdef.DescriptorUniformBuffer
			if gv.Space == ir.SpaceStorage {
				kind = shaderdef.DescriptorStorageBuffer
			}
			refl.Descriptors = append(refl.Descriptors, shaderdef.Descriptor{
				Name: block.Name, Set: set, Binding: binding, Count: 1, Kind: kind,
			})

		case ir.ImageType:
			kind := shaderdef.DescriptorSampledImage
			if inner.Class == ir.ImageClassStorage {
				kind = shaderdef.DescriptorStorageImage
			}
			refl.Descriptors = append(refl.Descriptors, shaderdef.Descriptor{
				Name: gv.Name, Set: set, Binding: binding, Count: 1, Kind: kind,
			})

		case ir.SamplerType:
			refl.Descriptors = append(refl.Descriptors, shaderdef.Descriptor{
				Name: gv.Name, Set: set, Binding: binding, Count: 1, Kind: shaderdef.DescriptorSampler,
			})
		}
	}

	for _, ep := range module.EntryPoints {
		if ep.Stage == ir.StageCompute {
			refl.HasLocalSize = true
			refl.LocalSizeX, refl.LocalSizeY, refl.LocalSizeZ = ep.Workgroup[0], ep.Workgroup[1], ep.Workgroup[2]
		}
	}

	return refl
}

func blockName(typeName, varName string) string {
	if typeName != "" {
		return typeName
	}
	return varName
}

func typeAt(module *ir.Module, h ir.TypeHandle) ir.Type {
	if int(h) < len(module.Types) {
		return module.Types[h]
	}
	return ir.Type{}
}

// sizeOfType computes a member's byte size from its IR type, since ir.StructMember
// carries an offset but not a size, and assembling a material description needs both
// to validate a param against its reflected member.
func sizeOfType(module *ir.Module, h ir.TypeHandle) uint32 {
	t := typeAt(module, h)
	switch inner := t.Inner.(type) {
	case ir.ScalarType:
		return uint32(inner.Width)
	case ir.VectorType:
		return uint32(inner.Size) * uint32(inner.Scalar.Width)
	case ir.MatrixType:
		return uint32(inner.Columns) * uint32(inner.Rows) * uint32(inner.Scalar.Width)
	case ir.ArrayType:
		count := uint32(1)
		if inner.Size.Constant != nil {
			count = *inner.Size.Constant
		}
		stride := inner.Stride
		if stride == 0 {
			stride = sizeOfType(module, inner.Base)
		}
		return stride * count
	case ir.StructType:
		return inner.Span
	default:
		return 0
	}
}

func paramTypeOf(module *ir.Module, h ir.TypeHandle) shaderdef.ParamType {
	t := typeAt(module, h)
	switch inner := t.Inner.(type) {
	case ir.ScalarType:
		switch inner.Kind {
		case ir.ScalarFloat:
			return shaderdef.ParamFloat
		case ir.ScalarSint:
			return shaderdef.ParamInt
		case ir.ScalarUint:
			return shaderdef.ParamUInt
		case ir.ScalarBool:
			return shaderdef.ParamBool
		}
	case ir.VectorType:
		switch inner.Scalar.Kind {
		case ir.ScalarFloat:
			return vecParamType(inner.Size, shaderdef.ParamVec2, shaderdef.ParamVec3, shaderdef.ParamVec4)
		case ir.ScalarSint:
			return vecParamType(inner.Size, shaderdef.ParamIVec2, shaderdef.ParamIVec3, shaderdef.ParamIVec4)
		case ir.ScalarUint:
			return vecParamType(inner.Size, shaderdef.ParamUVec2, shaderdef.ParamUVec3, shaderdef.ParamUVec4)
		}
	case ir.MatrixType:
		if inner.Columns == 3 && inner.Rows == 3 {
			return shaderdef.ParamMat3
		}
		if inner.Columns == 4 && inner.Rows == 4 {
			return shaderdef.ParamMat4
		}
	}
	return shaderdef.ParamUnknown
}

func vecParamType(size ir.VectorSize, v2, v3, v4 shaderdef.ParamType) shaderdef.ParamType {
	switch size {
	case ir.Vec2:
		return v2
	case ir.Vec3:
		return v3
	case ir.Vec4:
		return v4
	default:
		return shaderdef.ParamUnknown
	}
}
