// Package keyword implements the keyword declaration model, the engine-wide keywords
// file grammar, and the only_if constraint expression evaluator.
package keyword

import "github.com/vultra/vshaderc/vserr"

// Dispatch identifies when a keyword's value is resolved and how many artifacts it can
// generate.
type Dispatch uint8

const (
	DispatchPermutation Dispatch = iota
	DispatchRuntime
	DispatchSpecialization
)

var dispatchTokens = map[string]Dispatch{
	"permute":        DispatchPermutation,
	"permutation":    DispatchPermutation,
	"runtime":        DispatchRuntime,
	"specialization": DispatchSpecialization,
	"spec":           DispatchSpecialization,
}

// ParseDispatch maps a pragma/`.vkw` dispatch token to a Dispatch.
func ParseDispatch(token string) (Dispatch, bool) {
	d, ok := dispatchTokens[token]
	return d, ok
}

// Scope identifies how widely a keyword's value is shared.
type Scope uint8

const (
	ScopeShaderLocal Scope = iota
	ScopeGlobal
	ScopeMaterial
	ScopePass
)

var scopeTokens = map[string]Scope{
	"local":  ScopeShaderLocal,
	"global": ScopeGlobal,
	"material": ScopeMaterial,
	"pass":     ScopePass,
}

// ParseScope maps a pragma/`.vkw` scope token to a Scope. ScopeShaderLocal is also the
// default when no scope token is present in the pragma's optional "[<scope>]" slot.
func ParseScope(token string) (Scope, bool) {
	s, ok := scopeTokens[token]
	return s, ok
}

// Kind identifies a keyword's value domain.
type Kind uint8

const (
	KindBool Kind = iota
	KindEnum
)

// Decl is one keyword declaration.
type Decl struct {
	Name         string
	Dispatch     Dispatch
	Scope        Scope
	Kind         Kind
	DefaultValue uint32
	Enumerants   []string
	Constraint   string
}

// Validate enforces a keyword declaration's structural invariants: a bool keyword's
// default must be 0 or 1 and it must declare no enumerants; an enum keyword must
// declare at least one enumerant and its default index must be in range.
func (d Decl) Validate() error {
	switch d.Kind {
	case KindBool:
		if d.DefaultValue > 1 {
			return vserr.New(vserr.ParseError, "keyword %q: bool default must be 0 or 1, got %d", d.Name, d.DefaultValue)
		}
		if len(d.Enumerants) != 0 {
			return vserr.New(vserr.ParseError, "keyword %q: bool keyword must not declare enumerants", d.Name)
		}
	case KindEnum:
		if len(d.Enumerants) == 0 {
			return vserr.New(vserr.ParseError, "keyword %q: enum keyword must declare at least one enumerant", d.Name)
		}
		if int(d.DefaultValue) >= len(d.Enumerants) {
			return vserr.New(vserr.ParseError, "keyword %q: default value %d out of range for %d enumerants", d.Name, d.DefaultValue, len(d.Enumerants))
		}
	default:
		return vserr.New(vserr.ParseError, "keyword %q: unknown kind", d.Name)
	}
	return nil
}

// EnumerantIndex returns the index of name within d.Enumerants, or -1 if not found or
// d is not an enum keyword.
func (d Decl) EnumerantIndex(name string) int {
	if d.Kind != KindEnum {
		return -1
	}
	for i, e := range d.Enumerants {
		if e == name {
			return i
		}
	}
	return -1
}

// IsPermutation reports whether this declaration generates variant artifacts: only
// Permutation-dispatch keywords are enumerated by the variant generator.
func (d Decl) IsPermutation() bool {
	return d.Dispatch == DispatchPermutation
}

// ValueSpace returns the full set of u32 values this declaration can take: {0,1} for
// Bool, {0..len(Enumerants)-1} for Enum. Used by the variant generator's cartesian
// product.
func (d Decl) ValueSpace() []uint32 {
	switch d.Kind {
	case KindBool:
		return []uint32{0, 1}
	case KindEnum:
		vals := make([]uint32, len(d.Enumerants))
		for i := range vals {
			vals[i] = uint32(i)
		}
		return vals
	default:
		return nil
	}
}
