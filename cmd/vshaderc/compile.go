package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/vultra/vshaderc/driver"
	"github.com/vultra/vshaderc/shaderdef"
	"github.com/vultra/vshaderc/vshbin"
)

// runCompile implements the `compile` verb:
//
//	compile -i <input> -o <output.vshbin> -S <stage> [-I <dir>]* [-D <NAME[=VALUE]>]*
//	        [--keywords-file <p.vkw>] [--no-cache] [--cache <dir>] [--optimize]
//	        [--debug-info] [--strip-debug-info] [--spirv-version <major.minor>]
//	        [--entry <name>] [--verbose]
//
// Parameters:
//   - args: the verb's arguments, excluding the "compile" token itself
//
// Returns:
//   - int: the process exit code
func runCompile(args []string) int {
	fs := flag.NewFlagSet("compile", flag.ContinueOnError)
	input := fs.String("i", "", "input shader source path")
	output := fs.String("o", "", "output .vshbin path")
	stageFlag := fs.String("S", "", "shader stage")
	keywordsFile := fs.String("keywords-file", "", "path to an engine-wide .vkw file")
	noCache := fs.Bool("no-cache", false, "disable the on-disk compile cache")
	cacheDir := fs.String("cache", "", "on-disk compile cache directory")
	optimize := fs.Bool("optimize", false, "enable compiler optimization")
	debugInfo := fs.Bool("debug-info", false, "emit debug info into the SPIR-V module")
	stripDebugInfo := fs.Bool("strip-debug-info", false, "strip debug info from the SPIR-V module")
	spirvVersionFlag := fs.String("spirv-version", "", "target SPIR-V version, e.g. 1.3")
	entry := fs.String("entry", shaderdef.DefaultEntryPoint, "entry point function name")
	verbose := fs.Bool("verbose", false, "enable progress logging")
	var includeDirs, defines stringSlice
	fs.Var(&includeDirs, "I", "include search directory (repeatable)")
	fs.Var(&defines, "D", "preprocessor define NAME[=VALUE] (repeatable)")

	if err := fs.Parse(args); err != nil {
		return exitFlag
	}
	if *input == "" || *output == "" || *stageFlag == "" {
		fmt.Fprintln(os.Stderr, "vshaderc compile: -i, -o, and -S are required")
		return exitFlag
	}

	stage, err := parseStageFlag(*stageFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "vshaderc compile: %v\n", err)
		return exitParse
	}

	spirvVersion, err := parseSpirvVersion(*spirvVersionFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "vshaderc compile: %v\n", err)
		return exitParse
	}

	source, err := os.ReadFile(*input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "vshaderc compile: reading %q: %v\n", *input, err)
		return exitInput
	}

	engineKeywords, err := loadKeywordsFile(*keywordsFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "vshaderc compile: %v\n", err)
		return exitParse
	}

	adapter := newFrontend()
	d := driver.New(adapter, adapter,
		driver.WithCache(openCache(*cacheDir, *noCache)),
		driver.WithIncludeResolver(dirIncludeResolver{dirs: includeDirs}),
		driver.WithVerbose(*verbose))

	result, err := d.Compile(context.Background(), driver.CompileRequest{
		VirtualPath:    *input,
		SourceText:     string(source),
		Stage:          stage,
		Defines:        parseDefines(defines),
		IncludeDirs:    includeDirs,
		Optimize:       *optimize,
		DebugInfo:      *debugInfo,
		StripDebugInfo: *stripDebugInfo,
		SpirvVersion:   spirvVersion,
		EntryPoint:     *entry,
		EngineKeywords: engineKeywords,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "vshaderc compile: %v\n", err)
		return exitBuild
	}

	data, err := vshbin.Encode(result.Binary)
	if err != nil {
		fmt.Fprintf(os.Stderr, "vshaderc compile: %v\n", err)
		return exitInternal
	}

	if err := ensureOutputDir(*output); err != nil {
		fmt.Fprintf(os.Stderr, "vshaderc compile: %v\n", err)
		return exitInternal
	}
	if err := writeFileAtomic(*output, data); err != nil {
		fmt.Fprintf(os.Stderr, "vshaderc compile: %v\n", err)
		return exitWrite
	}

	if *verbose {
		log.Printf("vshaderc: wrote %s (fromCache=%v)", *output, result.FromCache)
	}
	return exitSuccess
}
