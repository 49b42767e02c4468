// Package metadata implements the line-oriented #pragma vultra / #pragma keyword
// scanner. Only lines whose first non-whitespace tokens are "#pragma vultra" or
// "#pragma keyword" are interpreted; everything else is opaque GLSL text that passes
// through to the external frontend untouched — mirroring oxy-go's shader
// pre-processor's line-by-line pass-through of non-annotation lines
// (engine/renderer/shader/pre_processor.go's Process loop).
package metadata

import (
	"encoding/binary"
	"math"
	"strconv"
	"strings"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/vultra/vshaderc/keyword"
	"github.com/vultra/vshaderc/shaderdef"
	"github.com/vultra/vshaderc/vserr"
)

// ParamMeta is one #pragma vultra param entry, prior to reflection-based type
// resolution.
type ParamMeta struct {
	Semantic shaderdef.Semantic

	HasDefault bool
	Default    shaderdef.DefaultValue

	HasRange bool
	Range    shaderdef.Range
}

// TextureMeta is one #pragma vultra texture entry.
type TextureMeta struct {
	Semantic shaderdef.Semantic
}

// Metadata is the parsed result of scanning one shader source for pragmas.
type Metadata struct {
	HasMaterialDecl bool
	Params          map[string]ParamMeta
	Textures        map[string]TextureMeta
	Keywords        []keyword.Decl

	RenderState         shaderdef.RenderState
	RenderStateExplicit bool
}

// SortedParamNames returns Params' keys in lexical order, required wherever hashing or
// serialization must iterate params deterministically.
func (m *Metadata) SortedParamNames() []string {
	names := make([]string, 0, len(m.Params))
	for k := range m.Params {
		names = append(names, k)
	}
	sortStrings(names)
	return names
}

// SortedTextureNames returns Textures' keys in lexical order.
func (m *Metadata) SortedTextureNames() []string {
	names := make([]string, 0, len(m.Textures))
	for k := range m.Textures {
		names = append(names, k)
	}
	sortStrings(names)
	return names
}

func sortStrings(s []string) {
	// small, allocation-free insertion sort is adequate here: param/texture counts per
	// shader are always small (single digits to low tens).
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}

// Parse scans sourceText line by line for #pragma vultra / #pragma keyword directives.
// path is used only for error messages, which always include the source path and the
// 1-based line number so a build failure points straight at the offending pragma.
func Parse(path string, sourceText string) (*Metadata, error) {
	md := &Metadata{
		Params:      make(map[string]ParamMeta),
		Textures:    make(map[string]TextureMeta),
		RenderState: shaderdef.DefaultRenderState(),
	}

	lines := strings.Split(sourceText, "\n")
	for i, raw := range lines {
		lineNum := i + 1
		line := stripTrailingLineComment(raw)
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		fields := strings.Fields(trimmed)
		if len(fields) < 2 || fields[0] != "#pragma" {
			continue
		}
		switch fields[1] {
		case "vultra":
			if err := parseVultraPragma(md, fields[2:], path, lineNum); err != nil {
				return nil, err
			}
		case "keyword":
			decl, err := keyword.ParseKeywordPragma(fields[2:], path, lineNum)
			if err != nil {
				return nil, err
			}
			md.Keywords = append(md.Keywords, decl)
		default:
			continue
		}
	}
	return md, nil
}

// stripTrailingLineComment trims a trailing "//" GLSL comment from a pragma line,
// restoring a convenience the original metadata.cpp provides: authors can annotate a
// pragma line inline without the comment text being parsed as an attribute token.
func stripTrailingLineComment(line string) string {
	if idx := strings.Index(line, "//"); idx >= 0 {
		return line[:idx]
	}
	return line
}

func parseVultraPragma(md *Metadata, fields []string, path string, lineNum int) error {
	if len(fields) == 0 {
		return vserr.AtLine(vserr.ParseError, path, lineNum, "empty #pragma vultra directive")
	}
	switch fields[0] {
	case "material":
		if len(fields) != 1 {
			return vserr.AtLine(vserr.ParseError, path, lineNum, "#pragma vultra material takes no arguments")
		}
		md.HasMaterialDecl = true
		return nil
	case "param":
		return parseParamPragma(md, fields[1:], path, lineNum)
	case "texture":
		return parseTexturePragma(md, fields[1:], path, lineNum)
	case "state":
		return parseStatePragma(md, fields[1:], path, lineNum)
	default:
		return vserr.AtLine(vserr.ParseError, path, lineNum, "unknown #pragma vultra directive %q", fields[0])
	}
}

func parseParamPragma(md *Metadata, fields []string, path string, lineNum int) error {
	if len(fields) == 0 {
		return vserr.AtLine(vserr.ParseError, path, lineNum, "#pragma vultra param requires a name")
	}
	name := fields[0]
	pm := ParamMeta{}

	for _, attr := range fields[1:] {
		switch {
		case strings.HasPrefix(attr, "semantic("):
			token, err := unwrapAttr(attr, "semantic", path, lineNum)
			if err != nil {
				return err
			}
			sem, ok := shaderdef.ParseSemantic(token)
			if !ok {
				return vserr.AtLine(vserr.ParseError, path, lineNum, "unknown semantic %q", token)
			}
			pm.Semantic = sem
		case strings.HasPrefix(attr, "default("):
			token, err := unwrapAttr(attr, "default", path, lineNum)
			if err != nil {
				return err
			}
			def, err := parseDefaultList(token, path, lineNum)
			if err != nil {
				return err
			}
			pm.HasDefault = true
			pm.Default = def
		case strings.HasPrefix(attr, "range("):
			token, err := unwrapAttr(attr, "range", path, lineNum)
			if err != nil {
				return err
			}
			rng, err := parseRange(token, path, lineNum)
			if err != nil {
				return err
			}
			pm.HasRange = true
			pm.Range = rng
		default:
			return vserr.AtLine(vserr.ParseError, path, lineNum, "unknown param attribute %q", attr)
		}
	}

	md.Params[name] = pm
	return nil
}

func parseTexturePragma(md *Metadata, fields []string, path string, lineNum int) error {
	if len(fields) == 0 {
		return vserr.AtLine(vserr.ParseError, path, lineNum, "#pragma vultra texture requires a name")
	}
	name := fields[0]
	tm := TextureMeta{}
	for _, attr := range fields[1:] {
		if !strings.HasPrefix(attr, "semantic(") {
			return vserr.AtLine(vserr.ParseError, path, lineNum, "unknown texture attribute %q", attr)
		}
		token, err := unwrapAttr(attr, "semantic", path, lineNum)
		if err != nil {
			return err
		}
		sem, ok := shaderdef.ParseSemantic(token)
		if !ok {
			return vserr.AtLine(vserr.ParseError, path, lineNum, "unknown semantic %q", token)
		}
		tm.Semantic = sem
	}
	md.Textures[name] = tm
	return nil
}

func parseStatePragma(md *Metadata, fields []string, path string, lineNum int) error {
	if len(fields) == 0 {
		return vserr.AtLine(vserr.ParseError, path, lineNum, "#pragma vultra state requires a subkind")
	}
	md.RenderStateExplicit = true
	rs := &md.RenderState

	switch fields[0] {
	case "Blend":
		if len(fields) != 3 {
			return vserr.AtLine(vserr.ParseError, path, lineNum, "Blend requires exactly two arguments")
		}
		src, ok := shaderdef.ParseBlendFactor(fields[1])
		if !ok {
			return vserr.AtLine(vserr.ParseError, path, lineNum, "unknown blend factor %q", fields[1])
		}
		dst, ok := shaderdef.ParseBlendFactor(fields[2])
		if !ok {
			return vserr.AtLine(vserr.ParseError, path, lineNum, "unknown blend factor %q", fields[2])
		}
		rs.BlendEnable = true
		rs.SrcColor, rs.DstColor = src, dst
		rs.SrcAlpha, rs.DstAlpha = src, dst
	case "BlendOp":
		if len(fields) != 3 {
			return vserr.AtLine(vserr.ParseError, path, lineNum, "BlendOp requires exactly two arguments")
		}
		colorOp, ok := shaderdef.ParseBlendOp(fields[1])
		if !ok {
			return vserr.AtLine(vserr.ParseError, path, lineNum, "unknown blend op %q", fields[1])
		}
		alphaOp, ok := shaderdef.ParseBlendOp(fields[2])
		if !ok {
			return vserr.AtLine(vserr.ParseError, path, lineNum, "unknown blend op %q", fields[2])
		}
		rs.BlendEnable = true
		rs.ColorOp, rs.AlphaOp = colorOp, alphaOp
	case "ZTest":
		on, err := parseOnOff(fields, path, lineNum, "ZTest")
		if err != nil {
			return err
		}
		rs.DepthTest = on
	case "ZWrite":
		on, err := parseOnOff(fields, path, lineNum, "ZWrite")
		if err != nil {
			return err
		}
		rs.DepthWrite = on
	case "CompareOp":
		if len(fields) != 2 {
			return vserr.AtLine(vserr.ParseError, path, lineNum, "CompareOp requires exactly one argument")
		}
		op, ok := shaderdef.ParseCompareOp(fields[1])
		if !ok {
			return vserr.AtLine(vserr.ParseError, path, lineNum, "unknown compare op %q", fields[1])
		}
		rs.DepthFunc = op
	case "Cull":
		if len(fields) != 2 {
			return vserr.AtLine(vserr.ParseError, path, lineNum, "Cull requires exactly one argument")
		}
		switch fields[1] {
		case "None":
			rs.Cull = wgpu.CullModeNone
		case "Back":
			rs.Cull = wgpu.CullModeBack
		case "Front":
			rs.Cull = wgpu.CullModeFront
		default:
			return vserr.AtLine(vserr.ParseError, path, lineNum, "unknown cull mode %q", fields[1])
		}
	case "AlphaToCoverage":
		on, err := parseOnOff(fields, path, lineNum, "AlphaToCoverage")
		if err != nil {
			return err
		}
		rs.AlphaToCoverage = on
	case "ColorMask":
		if len(fields) != 2 {
			return vserr.AtLine(vserr.ParseError, path, lineNum, "ColorMask requires exactly one argument")
		}
		mask, ok := shaderdef.ParseColorMask(fields[1])
		if !ok {
			return vserr.AtLine(vserr.ParseError, path, lineNum, "invalid color mask %q", fields[1])
		}
		rs.ColorMask = mask
	case "DepthBias":
		if len(fields) != 3 {
			return vserr.AtLine(vserr.ParseError, path, lineNum, "DepthBias requires exactly two arguments")
		}
		factor, err := strconv.ParseFloat(fields[1], 32)
		if err != nil {
			return vserr.AtLine(vserr.ParseError, path, lineNum, "invalid depth bias factor %q", fields[1])
		}
		units, err := strconv.ParseFloat(fields[2], 32)
		if err != nil {
			return vserr.AtLine(vserr.ParseError, path, lineNum, "invalid depth bias units %q", fields[2])
		}
		rs.DepthBiasFactor = float32(factor)
		rs.DepthBiasUnits = float32(units)
	default:
		return vserr.AtLine(vserr.ParseError, path, lineNum, "unknown state subkind %q", fields[0])
	}
	return nil
}

func parseOnOff(fields []string, path string, lineNum int, subkind string) (bool, error) {
	if len(fields) != 2 {
		return false, vserr.AtLine(vserr.ParseError, path, lineNum, "%s requires exactly one argument", subkind)
	}
	switch fields[1] {
	case "On":
		return true, nil
	case "Off":
		return false, nil
	default:
		return false, vserr.AtLine(vserr.ParseError, path, lineNum, "%s expects On or Off, got %q", subkind, fields[1])
	}
}

func unwrapAttr(attr, name, path string, lineNum int) (string, error) {
	prefix := name + "("
	if !strings.HasSuffix(attr, ")") {
		return "", vserr.AtLine(vserr.ParseError, path, lineNum, "malformed %s attribute %q", name, attr)
	}
	return strings.TrimSuffix(strings.TrimPrefix(attr, prefix), ")"), nil
}

func parseDefaultList(csv string, path string, lineNum int) (shaderdef.DefaultValue, error) {
	parts := strings.Split(csv, ",")
	if len(parts) == 0 || len(parts) > 16 {
		return shaderdef.DefaultValue{}, vserr.AtLine(vserr.ParseError, path, lineNum, "default() takes 1-16 values, got %d", len(parts))
	}
	var dv shaderdef.DefaultValue
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return shaderdef.DefaultValue{}, vserr.AtLine(vserr.ParseError, path, lineNum, "invalid default() value %q", p)
		}
		binary.LittleEndian.PutUint32(dv.Buffer[i*4:i*4+4], math.Float32bits(float32(v)))
	}
	return dv, nil
}

func parseRange(csv string, path string, lineNum int) (shaderdef.Range, error) {
	parts := strings.Split(csv, ",")
	if len(parts) != 2 {
		return shaderdef.Range{}, vserr.AtLine(vserr.ParseError, path, lineNum, "range() requires exactly two values")
	}
	min, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return shaderdef.Range{}, vserr.AtLine(vserr.ParseError, path, lineNum, "invalid range() min %q", parts[0])
	}
	max, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return shaderdef.Range{}, vserr.AtLine(vserr.ParseError, path, lineNum, "invalid range() max %q", parts[1])
	}
	return shaderdef.Range{Min: min, Max: max}, nil
}
