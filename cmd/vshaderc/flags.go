package main

import (
	"fmt"
	"strings"

	"github.com/vultra/vshaderc/shaderdef"
)

// stringSlice accumulates repeated flag occurrences (-I, -D, --shader): each of
// these three flags may be given any number of times, so flag.Var needs a Value
// that appends rather than overwrites.
type stringSlice []string

func (s *stringSlice) String() string {
	if s == nil {
		return ""
	}
	return strings.Join(*s, ",")
}

func (s *stringSlice) Set(v string) error {
	*s = append(*s, v)
	return nil
}

// parseDefines converts repeated -D NAME[=VALUE] flags into shaderdef.Define values.
//
// Parameters:
//   - raw: the raw -D flag values, in the order given on the command line
//
// Returns:
//   - []shaderdef.Define: the parsed defines, in the same order
func parseDefines(raw []string) []shaderdef.Define {
	defines := make([]shaderdef.Define, 0, len(raw))
	for _, d := range raw {
		name, value, hasValue := strings.Cut(d, "=")
		defines = append(defines, shaderdef.Define{Name: name, Value: value, HasValue: hasValue})
	}
	return defines
}

// parseStageFlag maps a -S token to a shaderdef.Stage, returning an error whose
// presence the caller maps to exit code 3 (invalid stage).
//
// Parameters:
//   - token: the raw -S flag value
//
// Returns:
//   - shaderdef.Stage: the parsed stage
//   - error: non-nil if token does not name a known stage
func parseStageFlag(token string) (shaderdef.Stage, error) {
	stage, ok := shaderdef.ParseStage(token)
	if !ok {
		return shaderdef.StageUnknown, fmt.Errorf("unknown stage %q", token)
	}
	return stage, nil
}

// parseSpirvVersion maps a --spirv-version "major.minor" token to the packed u32 form
// shaderdef.CompileOptions.SpirvVersion carries (the SPIR-V module header's own
// version-word encoding: major in bits 16-23, minor in bits 8-15). An empty token
// leaves the option unset (0), letting the frontend pick its own default.
//
// Parameters:
//   - token: the raw --spirv-version flag value, either "" or "MAJOR.MINOR"
//
// Returns:
//   - uint32: the packed version, or 0 if token is empty
//   - error: non-nil if token is non-empty and not of the form "MAJOR.MINOR"
func parseSpirvVersion(token string) (uint32, error) {
	if token == "" {
		return 0, nil
	}
	majorStr, minorStr, ok := strings.Cut(token, ".")
	if !ok {
		return 0, fmt.Errorf("malformed --spirv-version %q, expected MAJOR.MINOR", token)
	}
	var major, minor uint32
	if _, err := fmt.Sscanf(majorStr, "%d", &major); err != nil {
		return 0, fmt.Errorf("malformed --spirv-version %q: %w", token, err)
	}
	if _, err := fmt.Sscanf(minorStr, "%d", &minor); err != nil {
		return 0, fmt.Errorf("malformed --spirv-version %q: %w", token, err)
	}
	return major<<16 | minor<<8, nil
}
