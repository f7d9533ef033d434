package texture

import (
	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/glbkit/pkg/glb"
)

// Params are the GL sampling parameters of a texture.
type Params struct {
	MagFilter int32
	MinFilter int32
	WrapS     int32
	WrapT     int32
}

// DefaultParams are applied where a sampler leaves a parameter unset.
var DefaultParams = Params{
	MagFilter: gl.LINEAR,
	MinFilter: gl.LINEAR_MIPMAP_LINEAR,
	WrapS:     gl.REPEAT,
	WrapT:     gl.REPEAT,
}

// ParamsFor maps a texture reference's sampler codes to GL parameters.
// Unset or invalid codes fall back to DefaultParams.
func ParamsFor(ref glb.TextureRef) Params {
	return Params{
		MagFilter: magFilter(ref.MagFilter),
		MinFilter: minFilter(ref.MinFilter),
		WrapS:     wrap(ref.WrapS, DefaultParams.WrapS),
		WrapT:     wrap(ref.WrapT, DefaultParams.WrapT),
	}
}

func magFilter(p glb.SamplerParam) int32 {
	switch p {
	case glb.FilterNearest:
		return gl.NEAREST
	case glb.FilterLinear:
		return gl.LINEAR
	}
	return DefaultParams.MagFilter
}

func minFilter(p glb.SamplerParam) int32 {
	switch p {
	case glb.FilterNearest:
		return gl.NEAREST
	case glb.FilterLinear:
		return gl.LINEAR
	case glb.FilterNearestMipmapNearest:
		return gl.NEAREST_MIPMAP_NEAREST
	case glb.FilterLinearMipmapNearest:
		return gl.LINEAR_MIPMAP_NEAREST
	case glb.FilterNearestMipmapLinear:
		return gl.NEAREST_MIPMAP_LINEAR
	case glb.FilterLinearMipmapLinear:
		return gl.LINEAR_MIPMAP_LINEAR
	}
	return DefaultParams.MinFilter
}

func wrap(p glb.SamplerParam, def int32) int32 {
	switch p {
	case glb.WrapRepeat:
		return gl.REPEAT
	case glb.WrapClampToEdge:
		return gl.CLAMP_TO_EDGE
	case glb.WrapMirroredRepeat:
		return gl.MIRRORED_REPEAT
	}
	return def
}

// mipmapped reports whether the min filter samples mip levels.
func (p Params) mipmapped() bool {
	switch p.MinFilter {
	case gl.NEAREST, gl.LINEAR:
		return false
	}
	return true
}
