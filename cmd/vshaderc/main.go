// Command vshaderc is the offline shader build pipeline's CLI: it exposes the
// driver's Compile, Build, and PackLib operations plus the MergeKeywordFiles utility
// as four verbs. Flag parsing follows github.com/gogpu/naga's cmd/nagac and
// cmd/texture_compile convention of the standard library `flag` package exclusively,
// with one flag.FlagSet per verb.
package main

import (
	"fmt"
	"os"
)

const (
	exitSuccess = 0
	exitUsage   = 1
	exitFlag    = 2
	exitParse   = 3
	exitInput   = 4
	exitBuild   = 5
	exitInternal = 6
	exitWrite   = 7
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run dispatches args to the matching verb and returns the process exit code.
//
// Parameters:
//   - args: the command-line arguments following the program name (os.Args[1:])
//
// Returns:
//   - int: the process exit code
func run(args []string) int {
	if len(args) == 0 {
		usage()
		return exitUsage
	}

	verb := args[0]
	if len(verb) > 0 && verb[0] == '-' {
		// An argument beginning with - in verb position is treated as an implicit
		// compile, letting `vshaderc -i x.frag ...` skip naming the verb.
		return runCompile(args)
	}

	switch verb {
	case "compile":
		return runCompile(args[1:])
	case "build":
		return runBuild(args[1:])
	case "packlib":
		return runPacklib(args[1:])
	case "mergekw":
		return runMergekw(args[1:])
	default:
		fmt.Fprintf(os.Stderr, "vshaderc: unknown verb %q\n", verb)
		usage()
		return exitFlag
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: vshaderc <verb> [flags]

Verbs:
  compile -i <input> -o <output.vshbin> -S <stage> [-I <dir>]* [-D <NAME[=VALUE]>]*
          [--keywords-file <p.vkw>] [--no-cache] [--cache <dir>] [--verbose]
  build   --shader_root <dir> [--shader <relpath>]* [-I <dir>]* [--keywords-file <p.vkw>]
          -o <out.vshlib> [--no-cache] [--cache <dir>] [--skip-invalid] [--verbose]
  packlib -o <out.vshlib> [--keywords-file <p.vkw>] <in.vshbin>+ [--verbose]
  mergekw -o <out.vkw> <base.vkw> <override.vkw>`)
}
