// Package variant implements the variant generator: cartesian-product expansion of a
// source's permutation-dispatch keywords, only_if pruning against a resolved value
// context, and the (keyHash, stage) dedupe/sort used by the library builder (packlib
// runs its own duplicate check). Grounded on oxy-go's scene-graph enumeration helpers (engine/scene's
// flattening passes), which share the same shape of "expand a small declarative tree
// into a flat list, then filter" — generalized here from a scene graph to a keyword
// declaration set.
package variant

import (
	"sort"
	"strconv"

	"github.com/vultra/vshaderc/buildkey"
	"github.com/vultra/vshaderc/keyword"
	"github.com/vultra/vshaderc/shaderdef"
	"github.com/vultra/vshaderc/vserr"
)

// Mode controls pruning behavior when an only_if constraint evaluates false.
type Mode int

const (
	// ModeStrict fails the whole build on the first constraint violation.
	ModeStrict Mode = iota
	// ModeSkipInvalid discards the violating variant and keeps going.
	ModeSkipInvalid
)

// Candidate is one cartesian-product permutation assignment, expressed as the
// explicit defines a single-shader build would need to reproduce it.
type Candidate struct {
	Defines []shaderdef.Define
}

// Enumerate expands decls' permutation-dispatch declarations into the cartesian
// product: a Bool keyword contributes {0,1}, an Enum keyword contributes its
// enumerant indices. A decl set with no permutation keywords yields a single empty
// Candidate, matching "if none are present, produce a single empty variant".
func Enumerate(decls []keyword.Decl) []Candidate {
	var permutes []keyword.Decl
	for _, d := range decls {
		if d.IsPermutation() {
			permutes = append(permutes, d)
		}
	}
	if len(permutes) == 0 {
		return []Candidate{{}}
	}

	combos := [][]uint32{{}}
	for _, d := range permutes {
		space := d.ValueSpace()
		next := make([][]uint32, 0, len(combos)*len(space))
		for _, c := range combos {
			for _, v := range space {
				nc := make([]uint32, len(c)+1)
				copy(nc, c)
				nc[len(c)] = v
				next = append(next, nc)
			}
		}
		combos = next
	}

	candidates := make([]Candidate, len(combos))
	for i, combo := range combos {
		defines := make([]shaderdef.Define, len(permutes))
		for j, d := range permutes {
			defines[j] = shaderdef.Define{Name: d.Name, Value: strconv.FormatUint(uint64(combo[j]), 10), HasValue: true}
		}
		candidates[i] = Candidate{Defines: defines}
	}
	return candidates
}

// Resolved is one candidate that survived only_if pruning, carrying the defines a
// single-shader build needs to reproduce it.
type Resolved struct {
	Defines []shaderdef.Define
}

// Resolve builds each candidate's value context (explicit define → engine-keywords
// global value → declaration default, earliest wins) and evaluates the only_if
// constraint of every declaration whose resolved value is non-zero against it; a
// keyword resolved to 0 (off) is never pruned by its own constraint. A false
// constraint increments pruned;
// in ModeStrict it then fails immediately with ParseError, in ModeSkipInvalid it
// discards that candidate and evaluation continues.
func Resolve(decls []keyword.Decl, candidates []Candidate, engineValues map[string]string, mode Mode) ([]Resolved, int, error) {
	var retained []Resolved
	pruned := 0

	for _, cand := range candidates {
		ctx := keyword.Context{
			Values: make(map[string]uint32, len(decls)),
			Decls:  make(map[string]keyword.Decl, len(decls)),
		}
		for _, d := range decls {
			ctx.Decls[d.Name] = d
			value, err := buildkey.ResolveKeywordValue(d, cand.Defines, engineValues)
			if err != nil {
				return nil, 0, err
			}
			ctx.Values[d.Name] = value
		}

		ok := true
		for _, d := range decls {
			if d.Constraint == "" || ctx.Values[d.Name] == 0 {
				continue
			}
			satisfied, err := keyword.EvalOnlyIf(d.Constraint, ctx)
			if err != nil {
				return nil, 0, err
			}
			if !satisfied {
				ok = false
				break
			}
		}

		if !ok {
			pruned++
			if mode == ModeStrict {
				return nil, 0, vserr.New(vserr.ParseError, "variant violates an only_if constraint")
			}
			continue
		}
		retained = append(retained, Resolved{Defines: cand.Defines})
	}
	return retained, pruned, nil
}

// Keyed is a built variant's library identity, (KeyHash, Stage), for dedup and sort
// ahead of writing a .vshlib; Dedupe and SortKeys report positions as indices into
// the slice they are given.
type Keyed struct {
	KeyHash uint64
	Stage   shaderdef.Stage
}

// Dedupe returns, in original order, the indices of keys whose (KeyHash, Stage) pair
// has not already appeared, plus the count of duplicates skipped. Order of arrival
// determines which of a duplicate pair is kept.
func Dedupe(keys []Keyed) (kept []int, skipped int) {
	seen := make(map[Keyed]bool, len(keys))
	for i, k := range keys {
		if seen[k] {
			skipped++
			continue
		}
		seen[k] = true
		kept = append(kept, i)
	}
	return kept, skipped
}

// SortKeys returns indices into keys ordered ascending by (KeyHash, Stage), matching
// the .vshlib TOC's required ordering.
func SortKeys(keys []Keyed) []int {
	idx := make([]int, len(keys))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool {
		ka, kb := keys[idx[a]], keys[idx[b]]
		if ka.KeyHash != kb.KeyHash {
			return ka.KeyHash < kb.KeyHash
		}
		return ka.Stage < kb.Stage
	})
	return idx
}
