package shaderdef

import "sort"

// Define is one compile-time `-D` entry: either a bare name or a name=value pair.
type Define struct {
	Name     string
	Value    string
	HasValue bool
}

// DefaultEntryPoint is the entry point name a CompileOptions with an unset
// EntryPoint resolves to.
const DefaultEntryPoint = "main"

// CompileOptions is everything a single-shader build needs beyond the source text
// itself. Defines is user-facing order; callers that need a hash-stable view must go
// through NormalizedDefines.
type CompileOptions struct {
	Stage          Stage
	Defines        []Define
	IncludeDirs    []string
	Optimize       bool
	DebugInfo      bool
	StripDebugInfo bool
	SpirvVersion   uint32
	// EntryPoint names the shader function the frontend should compile as the
	// stage's entry point. Empty means DefaultEntryPoint.
	EntryPoint string
}

// ResolvedEntryPoint returns EntryPoint, or DefaultEntryPoint if it is unset.
func (o CompileOptions) ResolvedEntryPoint() string {
	if o.EntryPoint == "" {
		return DefaultEntryPoint
	}
	return o.EntryPoint
}

// NormalizedDefines returns Defines in the canonical form required before they
// contribute to any hash: one line per define, `name` or `name=value`, lex-sorted,
// independent of input order.
func (o CompileOptions) NormalizedDefines() []string {
	lines := make([]string, len(o.Defines))
	for i, d := range o.Defines {
		if d.HasValue {
			lines[i] = d.Name + "=" + d.Value
		} else {
			lines[i] = d.Name
		}
	}
	sort.Strings(lines)
	return lines
}
