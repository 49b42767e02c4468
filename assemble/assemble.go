// Package assemble implements the artifact assembler: it combines compiled SPIR-V
// reflection with parsed pragma metadata into a material description, validating that
// every metadata token resolves to a reflected symbol — a param or texture pragma
// naming a binding the shader never declared is an authoring error, not silently
// dropped. Grounded on oxy-go's material_builder.go, which performs the analogous job
// of turning loose texture/factor inputs into a validated material.Material via a
// functional builder.
package assemble

import (
	"github.com/vultra/vshaderc/metadata"
	"github.com/vultra/vshaderc/shaderdef"
	"github.com/vultra/vshaderc/vserr"
)

// Assemble combines refl and md into a MaterialDescription. path is used only for
// diagnostics.
func Assemble(path string, refl shaderdef.Reflection, md *metadata.Metadata) (shaderdef.MaterialDescription, error) {
	desc := shaderdef.MaterialDescription{
		MaterialBlockName: shaderdef.DefaultMaterialBlockName,
		RenderState:       md.RenderState,
	}

	block := refl.FindBlock(desc.MaterialBlockName)
	params, paramSize, err := assembleParams(path, block, md)
	if err != nil {
		return shaderdef.MaterialDescription{}, err
	}
	desc.Params = params
	desc.MaterialParamSize = paramSize

	textures, err := assembleTextures(path, refl, md)
	if err != nil {
		return shaderdef.MaterialDescription{}, err
	}
	desc.Textures = textures

	return desc, nil
}

func assembleParams(path string, block *shaderdef.Block, md *metadata.Metadata) ([]shaderdef.MaterialParam, uint32, error) {
	if block == nil {
		if len(md.Params) != 0 {
			return nil, 0, vserr.New(vserr.ParseError, "%s: metadata declares params but no %q block was reflected", path, shaderdef.DefaultMaterialBlockName)
		}
		return nil, 0, nil
	}

	params := make([]shaderdef.MaterialParam, 0, len(md.Params))
	for _, name := range md.SortedParamNames() {
		pm := md.Params[name]
		member := block.FindMember(name)
		if member == nil {
			return nil, 0, vserr.New(vserr.ParseError, "%s: param %q has no matching member in %q", path, name, block.Name)
		}

		param := shaderdef.MaterialParam{
			Name:     name,
			Offset:   member.Offset,
			Size:     member.Size,
			Type:     member.Type,
			Semantic: pm.Semantic,
			HasRange: pm.HasRange,
			Range:    pm.Range,
		}
		if pm.HasDefault {
			param.HasDefault = true
			param.Default = pm.Default
			param.Default.Type = member.Type
		}
		params = append(params, param)
	}
	return params, block.Size, nil
}

func assembleTextures(path string, refl shaderdef.Reflection, md *metadata.Metadata) ([]shaderdef.MaterialTexture, error) {
	textures := make([]shaderdef.MaterialTexture, 0, len(md.Textures))
	for _, name := range md.SortedTextureNames() {
		tm := md.Textures[name]
		desc := findTextureDescriptor(refl, name)
		if desc == nil {
			return nil, vserr.New(vserr.ParseError, "%s: texture %q has no matching reflected descriptor", path, name)
		}
		textures = append(textures, shaderdef.MaterialTexture{
			Name:     name,
			Set:      desc.Set,
			Binding:  desc.Binding,
			Count:    desc.Count,
			Semantic: tm.Semantic,
			Type:     shaderdef.TextureUnknown,
		})
	}
	return textures, nil
}

func findTextureDescriptor(refl shaderdef.Reflection, name string) *shaderdef.Descriptor {
	for i := range refl.Descriptors {
		d := &refl.Descriptors[i]
		if d.Name == name && d.Kind.IsTextureKind() {
			return d
		}
	}
	return nil
}
