package main

import (
	"context"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/vultra/vshaderc/driver"
	"github.com/vultra/vshaderc/shaderdef"
	"github.com/vultra/vshaderc/vshlib"
)

const shaderSourceSuffix = ".vshader"

// runBuild implements the `build` verb:
//
//	build --shader_root <dir> [--shader <relpath>]* [-I <dir>]* [--keywords-file <p.vkw>]
//	      -o <out.vshlib> [--no-cache] [--cache <dir>] [--skip-invalid] [--optimize]
//	      [--debug-info] [--strip-debug-info] [--spirv-version <major.minor>]
//	      [--entry <name>] [--verbose]
//
// Parameters:
//   - args: the verb's arguments, excluding the "build" token itself
//
// Returns:
//   - int: the process exit code
func runBuild(args []string) int {
	flagSet := flag.NewFlagSet("build", flag.ContinueOnError)
	shaderRoot := flagSet.String("shader_root", "", "root directory to scan for .<stage>.vshader files")
	output := flagSet.String("o", "", "output .vshlib path")
	keywordsFile := flagSet.String("keywords-file", "", "path to an engine-wide .vkw file")
	noCache := flagSet.Bool("no-cache", false, "disable the on-disk compile cache")
	cacheDir := flagSet.String("cache", "", "on-disk compile cache directory")
	skipInvalid := flagSet.Bool("skip-invalid", false, "prune only_if-false variants instead of failing")
	optimize := flagSet.Bool("optimize", false, "enable compiler optimization")
	debugInfo := flagSet.Bool("debug-info", false, "emit debug info into the SPIR-V module")
	stripDebugInfo := flagSet.Bool("strip-debug-info", false, "strip debug info from the SPIR-V module")
	spirvVersionFlag := flagSet.String("spirv-version", "", "target SPIR-V version, e.g. 1.3")
	entry := flagSet.String("entry", shaderdef.DefaultEntryPoint, "entry point function name")
	verbose := flagSet.Bool("verbose", false, "enable progress logging")
	var includeDirs, shaders stringSlice
	flagSet.Var(&includeDirs, "I", "include search directory (repeatable)")
	flagSet.Var(&shaders, "shader", "explicit shader relpath (repeatable; disables scanning)")

	if err := flagSet.Parse(args); err != nil {
		return exitFlag
	}
	if *shaderRoot == "" || *output == "" {
		fmt.Fprintln(os.Stderr, "vshaderc build: --shader_root and -o are required")
		return exitFlag
	}

	spirvVersion, err := parseSpirvVersion(*spirvVersionFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "vshaderc build: %v\n", err)
		return exitParse
	}

	relpaths := []string(shaders)
	if len(relpaths) == 0 {
		var err error
		relpaths, err = scanShaderRoot(*shaderRoot)
		if err != nil {
			fmt.Fprintf(os.Stderr, "vshaderc build: %v\n", err)
			return exitInput
		}
	}
	if len(relpaths) == 0 {
		fmt.Fprintln(os.Stderr, "vshaderc build: no shader sources found")
		return exitInput
	}

	sources := make([]driver.SourceFile, 0, len(relpaths))
	for _, rel := range relpaths {
		stage, ok := stageFromFilename(rel)
		if !ok {
			fmt.Fprintf(os.Stderr, "vshaderc build: cannot infer stage from %q\n", rel)
			return exitParse
		}
		full := filepath.Join(*shaderRoot, rel)
		data, err := os.ReadFile(full)
		if err != nil {
			fmt.Fprintf(os.Stderr, "vshaderc build: reading %q: %v\n", full, err)
			return exitInput
		}
		sources = append(sources, driver.SourceFile{VirtualPath: rel, SourceText: string(data), Stage: stage})
	}

	engineKeywords, err := loadKeywordsFile(*keywordsFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "vshaderc build: %v\n", err)
		return exitParse
	}

	allIncludeDirs := append([]string(nil), includeDirs...)
	allIncludeDirs = append(allIncludeDirs, *shaderRoot)
	if includeSubdir := filepath.Join(*shaderRoot, "include"); dirExists(includeSubdir) {
		allIncludeDirs = append(allIncludeDirs, includeSubdir)
	}

	adapter := newFrontend()
	d := driver.New(adapter, adapter,
		driver.WithCache(openCache(*cacheDir, *noCache)),
		driver.WithIncludeResolver(dirIncludeResolver{dirs: allIncludeDirs}),
		driver.WithVerbose(*verbose))

	result, err := d.Build(context.Background(), driver.BuildRequest{
		Sources:        sources,
		IncludeDirs:    allIncludeDirs,
		EngineKeywords: engineKeywords,
		SkipInvalid:    *skipInvalid,
		Optimize:       *optimize,
		DebugInfo:      *debugInfo,
		StripDebugInfo: *stripDebugInfo,
		SpirvVersion:   spirvVersion,
		EntryPoint:     *entry,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "vshaderc build: %v\n", err)
		return exitBuild
	}

	if *verbose {
		log.Printf("vshaderc: %d entries, %d pruned, %d duplicate-skipped", len(result.Library.Entries), result.Pruned, result.Skipped)
	}

	data, err := vshlib.Encode(result.Library)
	if err != nil {
		fmt.Fprintf(os.Stderr, "vshaderc build: %v\n", err)
		return exitInternal
	}
	if err := ensureOutputDir(*output); err != nil {
		fmt.Fprintf(os.Stderr, "vshaderc build: %v\n", err)
		return exitInternal
	}
	if err := writeFileAtomic(*output, data); err != nil {
		fmt.Fprintf(os.Stderr, "vshaderc build: %v\n", err)
		return exitWrite
	}
	return exitSuccess
}

// scanShaderRoot recursively finds every file under root ending in .<stage>.vshader,
// returning paths relative to root. Uses filepath.WalkDir since no third-party
// directory-walking library appears anywhere in the example pack.
//
// Parameters:
//   - root: the directory to scan
//
// Returns:
//   - []string: matching file paths, relative to root
//   - error: non-nil if walking root failed
func scanShaderRoot(root string) ([]string, error) {
	var relpaths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if _, ok := stageFromFilename(path); !ok {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		relpaths = append(relpaths, rel)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return relpaths, nil
}

// stageFromFilename infers a shader's stage from its `.<stage>.vshader` filename
// suffix.
//
// Parameters:
//   - path: the shader source path to infer a stage from
//
// Returns:
//   - shaderdef.Stage: the inferred stage
//   - bool: whether path matched the `.<stage>.vshader` naming convention
func stageFromFilename(path string) (shaderdef.Stage, bool) {
	base := filepath.Base(path)
	if !strings.HasSuffix(base, shaderSourceSuffix) {
		return shaderdef.StageUnknown, false
	}
	trimmed := strings.TrimSuffix(base, shaderSourceSuffix)
	ext := filepath.Ext(trimmed)
	if ext == "" {
		return shaderdef.StageUnknown, false
	}
	return shaderdef.ParseStage(strings.TrimPrefix(ext, "."))
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
