package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/vultra/vshaderc/driver"
)

// runMergekw implements the `mergekw` verb:
//
//	mergekw -o <out.vkw> <base.vkw> <override.vkw>
//
// Parameters:
//   - args: the verb's arguments, excluding the "mergekw" token itself
//
// Returns:
//   - int: the process exit code
func runMergekw(args []string) int {
	flagSet := flag.NewFlagSet("mergekw", flag.ContinueOnError)
	output := flagSet.String("o", "", "output .vkw path")

	if err := flagSet.Parse(args); err != nil {
		return exitFlag
	}
	if *output == "" {
		fmt.Fprintln(os.Stderr, "vshaderc mergekw: -o is required")
		return exitFlag
	}
	positional := flagSet.Args()
	if len(positional) != 2 {
		fmt.Fprintln(os.Stderr, "vshaderc mergekw: expected exactly <base.vkw> <override.vkw>")
		return exitFlag
	}
	basePath, overridePath := positional[0], positional[1]

	base, err := loadKeywordsFile(basePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "vshaderc mergekw: %v\n", err)
		return exitParse
	}
	override, err := loadKeywordsFile(overridePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "vshaderc mergekw: %v\n", err)
		return exitParse
	}

	merged, err := driver.MergeKeywordFiles(base, override)
	if err != nil {
		fmt.Fprintf(os.Stderr, "vshaderc mergekw: %v\n", err)
		return exitBuild
	}

	formatted := merged.Format()
	if err := ensureOutputDir(*output); err != nil {
		fmt.Fprintf(os.Stderr, "vshaderc mergekw: %v\n", err)
		return exitInternal
	}
	if err := writeFileAtomic(*output, []byte(formatted)); err != nil {
		fmt.Fprintf(os.Stderr, "vshaderc mergekw: %v\n", err)
		return exitWrite
	}
	return exitSuccess
}
