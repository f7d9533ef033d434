package glb

import "fmt"

// Options configures Decode.
type Options struct {
	Semantics SemanticTable
	Skip      SkipSet
	// BasePath is prepended to relative image URIs.
	BasePath string
}

// DefaultOptions returns the engine defaults with the given base path.
func DefaultOptions(basePath string) Options {
	return Options{
		Semantics: DefaultSemantics(),
		Skip:      DefaultSkipSet(),
		BasePath:  basePath,
	}
}

// PrimitiveData is one decoded primitive, ready for the geometry backend.
type PrimitiveData struct {
	Mesh     int
	Index    int
	Vertices *VertexBuffer
	Indices  *IndexBuffer
	Mode     DrawMode
	Texture  *TextureRef
}

// Asset is the decoded content of a container.
type Asset struct {
	Primitives []PrimitiveData
}

// Decode parses data and builds every primitive of every mesh.
// Any failing primitive fails the whole asset.
func Decode(data []byte, opts Options) (*Asset, error) {
	c, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return DecodeContainer(c, opts)
}

// DecodeContainer builds every primitive of an already parsed container.
func DecodeContainer(c *Container, opts Options) (*Asset, error) {
	if opts.Semantics == nil {
		opts.Semantics = DefaultSemantics()
	}
	if opts.Skip == nil {
		opts.Skip = DefaultSkipSet()
	}

	r := NewResolver(c)
	asset := &Asset{}

	for mi := range c.Document.Meshes {
		mesh := &c.Document.Meshes[mi]
		for pi := range mesh.Primitives {
			prim, err := decodePrimitive(c.Document, r, &mesh.Primitives[pi], opts)
			if err != nil {
				return nil, fmt.Errorf("mesh %d primitive %d: %w", mi, pi, err)
			}
			prim.Mesh = mi
			prim.Index = pi
			asset.Primitives = append(asset.Primitives, *prim)
		}
	}

	if len(asset.Primitives) == 0 {
		return nil, validationf("no primitives")
	}

	return asset, nil
}

func decodePrimitive(doc *Document, r *Resolver, p *Primitive, opts Options) (*PrimitiveData, error) {
	mode := p.DrawMode()
	if mode > ModeTriangleFan {
		return nil, validationf("draw mode %d", uint32(mode))
	}

	vb, err := Interleave(p.Attributes, r, opts.Semantics, opts.Skip)
	if err != nil {
		return nil, err
	}

	if p.Indices == nil {
		return nil, validationf("primitive is not indexed")
	}
	iv, err := r.Resolve(*p.Indices, UsageIndex)
	if err != nil {
		return nil, err
	}
	ib, err := NormalizeIndices(iv, vb.VertexCount)
	if err != nil {
		return nil, err
	}

	tex, err := ResolveTexture(doc, p.Material, opts.BasePath)
	if err != nil {
		return nil, err
	}

	return &PrimitiveData{
		Vertices: vb,
		Indices:  ib,
		Mode:     mode,
		Texture:  tex,
	}, nil
}
