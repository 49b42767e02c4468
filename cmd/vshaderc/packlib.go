package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/vultra/vshaderc/driver"
	"github.com/vultra/vshaderc/vshlib"
)

// runPacklib implements the `packlib` verb:
//
//	packlib -o <out.vshlib> [--keywords-file <p.vkw>] <in.vshbin>+ [--verbose]
//
// Parameters:
//   - args: the verb's arguments, excluding the "packlib" token itself
//
// Returns:
//   - int: the process exit code
func runPacklib(args []string) int {
	flagSet := flag.NewFlagSet("packlib", flag.ContinueOnError)
	output := flagSet.String("o", "", "output .vshlib path")
	keywordsFile := flagSet.String("keywords-file", "", "path to an engine-wide .vkw file")
	verbose := flagSet.Bool("verbose", false, "enable progress logging")

	if err := flagSet.Parse(args); err != nil {
		return exitFlag
	}
	if *output == "" {
		fmt.Fprintln(os.Stderr, "vshaderc packlib: -o is required")
		return exitFlag
	}
	inputs := flagSet.Args()
	if len(inputs) == 0 {
		fmt.Fprintln(os.Stderr, "vshaderc packlib: at least one input .vshbin is required")
		return exitInput
	}

	var engineKeywordsRaw []byte
	if *keywordsFile != "" {
		data, err := os.ReadFile(*keywordsFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "vshaderc packlib: reading %q: %v\n", *keywordsFile, err)
			return exitInput
		}
		if _, err := loadKeywordsFile(*keywordsFile); err != nil {
			fmt.Fprintf(os.Stderr, "vshaderc packlib: %v\n", err)
			return exitParse
		}
		engineKeywordsRaw = data
	}

	blobs := make([][]byte, 0, len(inputs))
	for _, in := range inputs {
		data, err := os.ReadFile(in)
		if err != nil {
			fmt.Fprintf(os.Stderr, "vshaderc packlib: reading %q: %v\n", in, err)
			return exitInput
		}
		blobs = append(blobs, data)
	}

	lib, err := driver.PackLib(blobs, engineKeywordsRaw)
	if err != nil {
		fmt.Fprintf(os.Stderr, "vshaderc packlib: %v\n", err)
		return exitBuild
	}
	if *verbose {
		log.Printf("vshaderc: packed %d entries into %s", len(lib.Entries), *output)
	}

	data, err := vshlib.Encode(lib)
	if err != nil {
		fmt.Fprintf(os.Stderr, "vshaderc packlib: %v\n", err)
		return exitInternal
	}
	if err := ensureOutputDir(*output); err != nil {
		fmt.Fprintf(os.Stderr, "vshaderc packlib: %v\n", err)
		return exitInternal
	}
	if err := writeFileAtomic(*output, data); err != nil {
		fmt.Fprintf(os.Stderr, "vshaderc packlib: %v\n", err)
		return exitWrite
	}
	return exitSuccess
}
