package driver

import (
	"context"
	"log"

	"github.com/vultra/vshaderc/keyword"
	"github.com/vultra/vshaderc/metadata"
	"github.com/vultra/vshaderc/shaderdef"
	"github.com/vultra/vshaderc/variant"
	"github.com/vultra/vshaderc/vshbin"
	"github.com/vultra/vshaderc/vshlib"
)

// SourceFile is one already-resolved input to Build: a virtual path, its source text,
// and the stage inferred from its `.<stage>.vshader` filename suffix. Recursively
// scanning a shader root directory is a cmd-layer concern, part of the CLI surface
// rather than the driver's, so Build takes the resolved list rather than a root path.
type SourceFile struct {
	VirtualPath string
	SourceText  string
	Stage       shaderdef.Stage
}

// BuildRequest is the library-build operation's input.
type BuildRequest struct {
	Sources        []SourceFile
	IncludeDirs    []string
	EngineKeywords keyword.EngineKeywordsFile
	// EngineKeywordsRaw, when non-nil, is embedded verbatim as the library's trailing
	// engine-keywords bytes.
	EngineKeywordsRaw []byte
	// SkipInvalid selects ModeSkipInvalid over the default ModeStrict for only_if
	// pruning (the CLI's --skip-invalid flag).
	SkipInvalid bool
	// Optimize, DebugInfo, StripDebugInfo, and SpirvVersion apply uniformly to every
	// source in this build, the same compile options threaded through Compile.
	Optimize       bool
	DebugInfo      bool
	StripDebugInfo bool
	SpirvVersion   uint32
	EntryPoint     string
}

// BuildResult is the library-build operation's output: the assembled library plus the
// pruned-variant and duplicate-entry counts. The counts are filled in only when Build
// succeeds; every error return carries a zero BuildResult, so no counts are reported
// for a failed build.
type BuildResult struct {
	Library vshlib.Library
	Pruned  int
	Skipped int
}

// Build runs the variant generator and library builder over req.Sources: for each
// source, enumerate its permutation keywords to a cartesian product, prune by
// only_if, compile every surviving variant, dedupe by (keyHash, stage), and assemble
// the sorted library.
//
// Parameters:
//   - ctx: governs cancellation of the per-variant compile calls
//   - req: the sources to build, plus the compile options and engine keywords shared across them
//
// Returns:
//   - BuildResult: the assembled library plus the pruned and duplicate-entry counts
//   - error: non-nil if metadata parsing, variant resolution, or compilation fails
func (d *Driver) Build(ctx context.Context, req BuildRequest) (BuildResult, error) {
	if err := d.ensureInit(); err != nil {
		return BuildResult{}, err
	}

	mode := variant.ModeStrict
	if req.SkipInvalid {
		mode = variant.ModeSkipInvalid
	}

	var bins []vshbin.ShaderBinary
	totalPruned := 0

	for _, src := range req.Sources {
		md, err := metadata.Parse(src.VirtualPath, src.SourceText)
		if err != nil {
			return BuildResult{}, err
		}

		candidates := variant.Enumerate(md.Keywords)
		retained, pruned, err := variant.Resolve(md.Keywords, candidates, req.EngineKeywords.Values, mode)
		if err != nil {
			return BuildResult{}, err
		}
		totalPruned += pruned
		if d.verbose {
			log.Printf("vshaderc: %s: %d variant(s) enumerated, %d retained, %d pruned",
				src.VirtualPath, len(candidates), len(retained), pruned)
		}

		for _, r := range retained {
			bin, _, err := d.compileWithMetadata(ctx, md, singleBuildInput{
				VirtualPath:    src.VirtualPath,
				SourceText:     src.SourceText,
				Stage:          src.Stage,
				Defines:        r.Defines,
				IncludeDirs:    req.IncludeDirs,
				Optimize:       req.Optimize,
				DebugInfo:      req.DebugInfo,
				StripDebugInfo: req.StripDebugInfo,
				SpirvVersion:   req.SpirvVersion,
				EntryPoint:     req.EntryPoint,
				EngineValues:   req.EngineKeywords.Values,
			})
			if err != nil {
				return BuildResult{}, err
			}
			bins = append(bins, bin)
		}
	}

	keys := make([]variant.Keyed, len(bins))
	for i, b := range bins {
		keys[i] = variant.Keyed{KeyHash: libraryKeyHash(b), Stage: b.Stage}
	}
	kept, skipped := variant.Dedupe(keys)
	order := variant.SortKeys(selectKeys(keys, kept))

	entries := make([]vshlib.Entry, 0, len(kept))
	for _, pos := range order {
		i := kept[pos]
		blob, err := vshbin.Encode(bins[i])
		if err != nil {
			return BuildResult{}, err
		}
		entries = append(entries, vshlib.Entry{KeyHash: keys[i].KeyHash, Stage: keys[i].Stage, Blob: blob})
	}

	lib := vshlib.Library{Entries: entries, EngineKeywordsBytes: req.EngineKeywordsRaw}
	return BuildResult{Library: lib, Pruned: totalPruned, Skipped: skipped}, nil
}

// libraryKeyHash derives a built binary's library identity: variantHash if non-zero,
// otherwise contentHash.
func libraryKeyHash(b vshbin.ShaderBinary) uint64 {
	if b.VariantHash != 0 {
		return b.VariantHash
	}
	return b.ContentHash
}

func selectKeys(keys []variant.Keyed, kept []int) []variant.Keyed {
	out := make([]variant.Keyed, len(kept))
	for i, idx := range kept {
		out[i] = keys[idx]
	}
	return out
}
