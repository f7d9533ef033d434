package glb

import "strings"

// TextureRef is a resolved base color texture with its sampler parameters.
type TextureRef struct {
	URL       string
	MagFilter SamplerParam
	MinFilter SamplerParam
	WrapS     SamplerParam
	WrapT     SamplerParam
}

// ResolveTexture returns the base color texture of material, or nil when there is none.
// material may be nil. Image URIs are resolved against basePath.
func ResolveTexture(doc *Document, material *int, basePath string) (*TextureRef, error) {
	if material == nil {
		return nil, nil
	}
	if *material < 0 || *material >= len(doc.Materials) {
		return nil, validationf("material %d out of range (have %d)", *material, len(doc.Materials))
	}

	pbr := doc.Materials[*material].PBRMetallicRoughness
	if pbr == nil || pbr.BaseColorTexture == nil {
		return nil, nil
	}

	ti := pbr.BaseColorTexture.Index
	if ti < 0 || ti >= len(doc.Textures) {
		return nil, validationf("material %d: texture %d out of range (have %d)", *material, ti, len(doc.Textures))
	}
	tex := &doc.Textures[ti]

	if tex.Source == nil {
		return nil, nil
	}
	if *tex.Source < 0 || *tex.Source >= len(doc.Images) {
		return nil, validationf("texture %d: image %d out of range (have %d)", ti, *tex.Source, len(doc.Images))
	}
	img := &doc.Images[*tex.Source]
	if img.URI == "" {
		// Embedded images are not supported; the primitive renders untextured.
		return nil, nil
	}

	ref := &TextureRef{URL: ResolveURI(basePath, img.URI)}

	if tex.Sampler != nil {
		if *tex.Sampler < 0 || *tex.Sampler >= len(doc.Samplers) {
			return nil, validationf("texture %d: sampler %d out of range (have %d)", ti, *tex.Sampler, len(doc.Samplers))
		}
		s := &doc.Samplers[*tex.Sampler]
		ref.MagFilter = s.MagFilter
		ref.MinFilter = s.MinFilter
		ref.WrapS = s.WrapS
		ref.WrapT = s.WrapT
	}

	return ref, nil
}

// BasePath returns the directory part of an asset id, including the trailing slash.
func BasePath(id string) string {
	if i := strings.LastIndexByte(id, '/'); i >= 0 {
		return id[:i+1]
	}
	return ""
}

// ResolveURI joins a relative URI onto basePath. Absolute URIs are returned unchanged.
func ResolveURI(basePath, uri string) string {
	if strings.HasPrefix(uri, "/") || strings.HasPrefix(uri, "data:") || strings.Contains(uri, "://") {
		return uri
	}
	return basePath + uri
}
