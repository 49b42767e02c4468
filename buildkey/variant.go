package buildkey

import (
	"encoding/binary"
	"sort"
	"strconv"

	"github.com/vultra/vshaderc/hashing"
	"github.com/vultra/vshaderc/keyword"
	"github.com/vultra/vshaderc/shaderdef"
	"github.com/vultra/vshaderc/vserr"
)

// variantEntry is one (nameHash, resolvedValue) pair contributing to a variant hash.
type variantEntry struct {
	nameHash uint64
	value    uint32
}

func sortEntries(entries []variantEntry) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].nameHash != entries[j].nameHash {
			return entries[i].nameHash < entries[j].nameHash
		}
		return entries[i].value < entries[j].value
	})
}

// serializeVariantBuffer renders the fixed little-endian buffer layout both VariantHash
// and VariantKey.Build hash: u64 idHash, u32 stage, u32 count, then per entry u64
// nameHash, u32 value, u32 reserved=0.
func serializeVariantBuffer(idHash uint64, stage shaderdef.Stage, entries []variantEntry) []byte {
	buf := make([]byte, 16+len(entries)*16)
	binary.LittleEndian.PutUint64(buf[0:8], idHash)
	binary.LittleEndian.PutUint32(buf[8:12], uint32(stage))
	binary.LittleEndian.PutUint32(buf[12:16], uint32(len(entries)))
	off := 16
	for _, e := range entries {
		binary.LittleEndian.PutUint64(buf[off:off+8], e.nameHash)
		binary.LittleEndian.PutUint32(buf[off+8:off+12], e.value)
		binary.LittleEndian.PutUint32(buf[off+12:off+16], 0)
		off += 16
	}
	return buf
}

// VariantInputs is everything VariantHash needs to resolve and hash a build's
// permutation-scope keyword assignment.
type VariantInputs struct {
	// ShaderIDHash is the shader's stable identity hash, or 0 if the shader has none —
	// in which case SourceHash is used instead.
	ShaderIDHash uint64
	SourceHash   uint64
	Stage        shaderdef.Stage

	// Decls is the full set of keyword declarations in scope for this build (shader-
	// local plus merged engine-wide); only Dispatch==Permutation entries contribute.
	Decls []keyword.Decl
	// Defines is this build's explicit -D list; the highest-priority value source.
	Defines []shaderdef.Define
	// EngineValues is the engine-keywords file's raw name→value map; consulted only for
	// declarations with Scope==Global.
	EngineValues map[string]string
}

// VariantHash computes the variant hash: 0 if there are no permutation keywords at
// all, otherwise hash64 of the serialized buffer over every permutation declaration's
// resolved value, sorted ascending by (nameHash, value).
func VariantHash(in VariantInputs) (uint64, error) {
	var permutes []keyword.Decl
	for _, d := range in.Decls {
		if d.Dispatch == keyword.DispatchPermutation {
			permutes = append(permutes, d)
		}
	}
	if len(permutes) == 0 {
		return 0, nil
	}

	entries := make([]variantEntry, 0, len(permutes))
	for _, d := range permutes {
		value, err := resolvePermutationValue(d, in.Defines, in.EngineValues)
		if err != nil {
			return 0, err
		}
		entries = append(entries, variantEntry{nameHash: hashing.Hash64Text(0, d.Name), value: value})
	}
	sortEntries(entries)

	idHash := in.ShaderIDHash
	if idHash == 0 {
		idHash = in.SourceHash
	}
	buf := serializeVariantBuffer(idHash, in.Stage, entries)
	return hashing.Hash64(buf), nil
}

// ResolveKeywordValue is the exported form of resolvePermutationValue, used by package
// variant to build the only_if evaluation context with the exact same resolution order
// used by the offline variant hash, so pruning and hashing can never disagree about a
// keyword's resolved value.
func ResolveKeywordValue(d keyword.Decl, defines []shaderdef.Define, engineValues map[string]string) (uint32, error) {
	return resolvePermutationValue(d, defines, engineValues)
}

// resolvePermutationValue resolves a permutation keyword's value in priority order:
// explicit define → engine-keywords values[name] iff scope=Global → declaration
// default.
func resolvePermutationValue(d keyword.Decl, defines []shaderdef.Define, engineValues map[string]string) (uint32, error) {
	for _, def := range defines {
		if def.Name != d.Name {
			continue
		}
		if !def.HasValue {
			return 1, nil
		}
		return resolveRawValue(d, def.Value)
	}
	if d.Scope == keyword.ScopeGlobal {
		if raw, ok := engineValues[d.Name]; ok {
			return resolveRawValue(d, raw)
		}
	}
	return d.DefaultValue, nil
}

// resolveRawValue interprets a define's or engine-keywords value text against a keyword
// declaration: a decimal integer literal, or (for Enum declarations) an enumerant name.
func resolveRawValue(d keyword.Decl, raw string) (uint32, error) {
	if n, err := strconv.ParseUint(raw, 10, 32); err == nil {
		return uint32(n), nil
	}
	if d.Kind == keyword.KindEnum {
		if idx := d.EnumerantIndex(raw); idx >= 0 {
			return uint32(idx), nil
		}
	}
	return 0, vserr.New(vserr.InvalidArgument, "keyword %q: cannot resolve value %q", d.Name, raw)
}

// VariantKeyEntry is one resolved (nameHash, value) pair in a runtime VariantKey.
type VariantKeyEntry struct {
	NameHash uint64
	Value    uint32
}

// VariantKey is the runtime helper: given a stable shader identity, stage, and the
// already-resolved permutation entries, Build() reproduces the offline variantHash
// bit-for-bit using the identical buffer layout.
type VariantKey struct {
	ShaderIDHash uint64
	Stage        shaderdef.Stage
	Entries      []VariantKeyEntry
}

// Build computes the variant hash for k, matching VariantHash's output for the same
// logical inputs. An empty entry list yields 0, matching VariantHash's own "0 iff no
// permutation keywords" rule.
func (k VariantKey) Build() uint64 {
	if len(k.Entries) == 0 {
		return 0
	}
	entries := make([]variantEntry, len(k.Entries))
	for i, e := range k.Entries {
		entries[i] = variantEntry{nameHash: e.NameHash, value: e.Value}
	}
	sortEntries(entries)
	buf := serializeVariantBuffer(k.ShaderIDHash, k.Stage, entries)
	return hashing.Hash64(buf)
}
