// Package driver composes the rest of the module into its three top-level
// operations — Compile, Build, PackLib — plus the MergeKeywordFiles utility. It is a
// thin composition layer; the interesting logic lives in metadata, buildkey,
// assemble, variant, vshbin, and vshlib. Grounded on oxy-go's Loader (a struct built
// via functional options around collaborators it never constructs itself, exposing a
// handful of named operations over them): engine/loader/loader.go and
// loader_builder.go.
package driver

import (
	"context"
	"log"

	"github.com/vultra/vshaderc/assemble"
	"github.com/vultra/vshaderc/buildcache"
	"github.com/vultra/vshaderc/buildkey"
	"github.com/vultra/vshaderc/frontend"
	"github.com/vultra/vshaderc/keyword"
	"github.com/vultra/vshaderc/metadata"
	"github.com/vultra/vshaderc/shaderdef"
	"github.com/vultra/vshaderc/vshbin"
)

// Driver owns no collaborator it did not receive: compiler and reflector are supplied
// by the caller, the same way oxy-go's Loader takes a renderer.Renderer it never
// constructs (loader_builder.go's WithRenderer).
type Driver struct {
	compiler  frontend.Compiler
	reflector frontend.Reflector
	includes  frontend.IncludeResolver
	cache     *buildcache.Cache
	gate      *frontend.InitGate
	initFn    func() error
	verbose   bool
}

// Option is a functional option for configuring a Driver via New.
type Option func(*Driver)

// WithIncludeResolver sets the IncludeResolver passed through to the Compiler on every
// call, letting `#include` directives resolve against caller-supplied search paths.
//
// Parameters:
//   - r: the include resolver to pass to the Compiler on every Compile/Build call
//
// Returns:
//   - Option: a function that sets the include resolver on a Driver
func WithIncludeResolver(r frontend.IncludeResolver) Option {
	return func(d *Driver) { d.includes = r }
}

// WithCache enables the on-disk compile cache. Without this option every Compile/Build
// call behaves as if --no-cache were given.
//
// Parameters:
//   - c: the cache to consult and populate on every Compile/Build call, or nil to disable caching
//
// Returns:
//   - Option: a function that sets the cache on a Driver
func WithCache(c *buildcache.Cache) Option {
	return func(d *Driver) { d.cache = c }
}

// WithFrontendInit supplies the external frontend's one-time initialization routine.
// It runs at most once across this Driver's lifetime, through the shared InitGate, the
// same way oxy-go guards shutdown with a sync.Once (engine/engine.go's quitOnce).
//
// Parameters:
//   - init: the one-time initialization routine to run before the first Compile/Build
//
// Returns:
//   - Option: a function that sets the init routine on a Driver
func WithFrontendInit(init func() error) Option {
	return func(d *Driver) { d.initFn = init }
}

// WithVerbose enables progress narration via the standard library `log` package,
// matching oxy-go's `log.Printf`-gated progress lines in engine/engine.go. Library
// packages below driver never log directly; this is the one place the pipeline
// narrates its own progress.
//
// Parameters:
//   - verbose: whether to enable progress logging
//
// Returns:
//   - Option: a function that sets the verbose flag on a Driver
func WithVerbose(verbose bool) Option {
	return func(d *Driver) { d.verbose = verbose }
}

// New constructs a Driver around compiler and reflector, applying opts.
//
// Parameters:
//   - compiler: the external compiler collaborator invoked on every cache miss
//   - reflector: the external reflector collaborator invoked on every cache miss
//   - opts: functional options for Driver configuration (cache, include resolver, verbosity, ...)
//
// Returns:
//   - *Driver: the newly constructed Driver
func New(compiler frontend.Compiler, reflector frontend.Reflector, opts ...Option) *Driver {
	d := &Driver{compiler: compiler, reflector: reflector, gate: &frontend.InitGate{}}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Driver) ensureInit() error {
	if d.initFn == nil {
		return nil
	}
	return d.gate.Do(d.initFn)
}

// CompileRequest is everything the single-shader build operation needs: a compile
// options entity plus the source text itself.
type CompileRequest struct {
	VirtualPath    string
	SourceText     string
	Stage          shaderdef.Stage
	Defines        []shaderdef.Define
	IncludeDirs    []string
	Optimize       bool
	DebugInfo      bool
	StripDebugInfo bool
	SpirvVersion   uint32
	EntryPoint     string
	ShaderIDHash   uint64 // 0 if this shader has no stable identity of its own
	EngineKeywords keyword.EngineKeywordsFile
}

// CompileResult is the outcome of a single-shader build.
type CompileResult struct {
	Binary    vshbin.ShaderBinary
	FromCache bool
}

// Compile runs the single-shader build: parse metadata, derive the build hash, check
// the cache, invoke the external compiler and reflector on a miss, assemble the
// material description, derive the variant hash, and (on a miss) populate the cache.
//
// Parameters:
//   - ctx: governs cancellation of the external compiler/reflector calls on a cache miss
//   - req: the single-shader build request, including source text and compile options
//
// Returns:
//   - CompileResult: the compiled binary and whether it was served from cache
//   - error: non-nil if metadata parsing, compilation, reflection, or assembly fails
func (d *Driver) Compile(ctx context.Context, req CompileRequest) (CompileResult, error) {
	if err := d.ensureInit(); err != nil {
		return CompileResult{}, err
	}

	md, err := metadata.Parse(req.VirtualPath, req.SourceText)
	if err != nil {
		return CompileResult{}, err
	}

	bin, fromCache, err := d.compileWithMetadata(ctx, md, singleBuildInput{
		VirtualPath:    req.VirtualPath,
		SourceText:     req.SourceText,
		Stage:          req.Stage,
		Defines:        req.Defines,
		IncludeDirs:    req.IncludeDirs,
		Optimize:       req.Optimize,
		DebugInfo:      req.DebugInfo,
		StripDebugInfo: req.StripDebugInfo,
		SpirvVersion:   req.SpirvVersion,
		EntryPoint:     req.EntryPoint,
		ShaderIDHash:   req.ShaderIDHash,
		EngineValues:   req.EngineKeywords.Values,
	})
	if err != nil {
		return CompileResult{}, err
	}
	return CompileResult{Binary: bin, FromCache: fromCache}, nil
}

// singleBuildInput is the internal, already-metadata-resolved form of a single-shader
// build request, shared by Compile and Build so a source's metadata is parsed once
// per source, not once per enumerated variant.
type singleBuildInput struct {
	VirtualPath    string
	SourceText     string
	Stage          shaderdef.Stage
	Defines        []shaderdef.Define
	IncludeDirs    []string
	Optimize       bool
	DebugInfo      bool
	StripDebugInfo bool
	SpirvVersion   uint32
	EntryPoint     string
	ShaderIDHash   uint64
	EngineValues   map[string]string
}

// compileWithMetadata implements the shared core of the single-shader build path.
func (d *Driver) compileWithMetadata(ctx context.Context, md *metadata.Metadata, req singleBuildInput) (vshbin.ShaderBinary, bool, error) {
	opts := shaderdef.CompileOptions{
		Stage:          req.Stage,
		Defines:        req.Defines,
		IncludeDirs:    req.IncludeDirs,
		Optimize:       req.Optimize,
		DebugInfo:      req.DebugInfo,
		StripDebugInfo: req.StripDebugInfo,
		SpirvVersion:   req.SpirvVersion,
		EntryPoint:     req.EntryPoint,
	}
	buildHash := buildkey.BuildHash(req.VirtualPath, req.SourceText, opts, md)

	if d.cache != nil {
		if bin, ok := d.cache.Lookup(buildHash); ok {
			if d.verbose {
				log.Printf("vshaderc: %s: cache hit (buildHash=%016x)", req.VirtualPath, buildHash)
			}
			return bin, true, nil
		}
	}

	if d.verbose {
		log.Printf("vshaderc: %s: compiling stage=%s", req.VirtualPath, req.Stage)
	}
	spirv, err := d.compiler.Compile(ctx, req.VirtualPath, req.SourceText, opts, d.includes)
	if err != nil {
		return vshbin.ShaderBinary{}, false, err
	}

	refl, err := d.reflector.Reflect(ctx, spirv, req.Stage)
	if err != nil {
		return vshbin.ShaderBinary{}, false, err
	}

	desc, err := assemble.Assemble(req.VirtualPath, refl, md)
	if err != nil {
		return vshbin.ShaderBinary{}, false, err
	}

	sourceHash := buildkey.SourceHash(req.SourceText)
	variantHash, err := buildkey.VariantHash(buildkey.VariantInputs{
		ShaderIDHash: req.ShaderIDHash,
		SourceHash:   sourceHash,
		Stage:        req.Stage,
		Decls:        md.Keywords,
		Defines:      req.Defines,
		EngineValues: req.EngineValues,
	})
	if err != nil {
		return vshbin.ShaderBinary{}, false, err
	}

	// ContentHash is the source hash, not the composite build hash — the build hash is
	// cache-key-only and never written to the binary itself.
	bin := vshbin.ShaderBinary{
		ContentHash:  sourceHash,
		ShaderIDHash: req.ShaderIDHash,
		VariantHash:  variantHash,
		Stage:        req.Stage,
		Spirv:        spirv,
		Reflection:   refl,
		MaterialDesc: desc,
	}

	if d.cache != nil {
		if err := d.cache.Store(buildHash, bin); err != nil {
			return vshbin.ShaderBinary{}, false, err
		}
	}
	return bin, false, nil
}
