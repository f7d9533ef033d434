// Package glbtest builds binary glTF containers for tests.
package glbtest

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"math"

	"github.com/Faultbox/glbkit/pkg/glb"
)

// Chunk is a raw container chunk.
type Chunk struct {
	Type uint32
	Data []byte
}

// Container assembles a container from raw chunks, padding each payload to 4 bytes.
// The header length is computed from the chunks.
func Container(magic uint32, version uint32, chunks ...Chunk) []byte {
	var body bytes.Buffer
	for _, c := range chunks {
		pad := byte(0)
		if c.Type == glb.ChunkJSON {
			pad = ' '
		}
		payload := append([]byte(nil), c.Data...)
		for len(payload)%4 != 0 {
			payload = append(payload, pad)
		}
		binary.Write(&body, binary.LittleEndian, uint32(len(payload)))
		binary.Write(&body, binary.LittleEndian, c.Type)
		body.Write(payload)
	}

	var out bytes.Buffer
	binary.Write(&out, binary.LittleEndian, magic)
	binary.Write(&out, binary.LittleEndian, version)
	binary.Write(&out, binary.LittleEndian, uint32(12+body.Len()))
	out.Write(body.Bytes())
	return out.Bytes()
}

// Builder accumulates a document and its binary block.
type Builder struct {
	Doc *glb.Document
	bin bytes.Buffer
}

// New returns a builder with an empty 2.0 document.
func New() *Builder {
	return &Builder{
		Doc: &glb.Document{Asset: glb.AssetInfo{Version: "2.0", Generator: "glbtest"}},
	}
}

// AddView appends raw bytes as a new buffer view and returns its index.
func (b *Builder) AddView(data []byte, stride int) int {
	for b.bin.Len()%4 != 0 {
		b.bin.WriteByte(0)
	}
	b.Doc.BufferViews = append(b.Doc.BufferViews, glb.BufferView{
		Buffer:     0,
		ByteOffset: b.bin.Len(),
		ByteLength: len(data),
		ByteStride: stride,
	})
	b.bin.Write(data)
	return len(b.Doc.BufferViews) - 1
}

// AddAccessor appends an accessor over raw bytes and returns its index.
func (b *Builder) AddAccessor(typ glb.AccessorType, ct glb.ComponentType, count int, data []byte) int {
	view := b.AddView(data, 0)
	b.Doc.Accessors = append(b.Doc.Accessors, glb.Accessor{
		BufferView:    &view,
		ComponentType: ct,
		Count:         count,
		Type:          typ,
	})
	return len(b.Doc.Accessors) - 1
}

// AddFloats appends a FLOAT accessor. The element count is len(values)/arity.
func (b *Builder) AddFloats(typ glb.AccessorType, values []float32) int {
	arity, _ := typ.Arity()
	if arity == 0 {
		arity = 1
	}
	return b.AddAccessor(typ, glb.ComponentFloat, len(values)/arity, Floats(values))
}

// AddUint16 appends an UNSIGNED_SHORT scalar accessor.
func (b *Builder) AddUint16(values []uint16) int {
	buf := make([]byte, 2*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint16(buf[2*i:], v)
	}
	return b.AddAccessor(glb.TypeScalar, glb.ComponentUshort, len(values), buf)
}

// AddUint32 appends an UNSIGNED_INT scalar accessor.
func (b *Builder) AddUint32(values []uint32) int {
	buf := make([]byte, 4*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint32(buf[4*i:], v)
	}
	return b.AddAccessor(glb.TypeScalar, glb.ComponentUint, len(values), buf)
}

// AddMesh appends a mesh with the given primitives and returns its index.
func (b *Builder) AddMesh(prims ...glb.Primitive) int {
	b.Doc.Meshes = append(b.Doc.Meshes, glb.Mesh{Primitives: prims})
	return len(b.Doc.Meshes) - 1
}

// AddTexturedMaterial appends an image, a sampler, a texture and a material
// using them as base color, and returns the material index.
func (b *Builder) AddTexturedMaterial(uri string, sampler glb.Sampler) int {
	b.Doc.Images = append(b.Doc.Images, glb.Image{URI: uri})
	b.Doc.Samplers = append(b.Doc.Samplers, sampler)
	img := len(b.Doc.Images) - 1
	smp := len(b.Doc.Samplers) - 1
	b.Doc.Textures = append(b.Doc.Textures, glb.Texture{Source: &img, Sampler: &smp})
	return b.AddMaterial(&glb.TextureInfo{Index: len(b.Doc.Textures) - 1})
}

// AddMaterial appends a material with an optional base color texture.
func (b *Builder) AddMaterial(base *glb.TextureInfo) int {
	m := glb.Material{}
	if base != nil {
		m.PBRMetallicRoughness = &glb.PBRMetallicRoughness{BaseColorTexture: base}
	}
	b.Doc.Materials = append(b.Doc.Materials, m)
	return len(b.Doc.Materials) - 1
}

// Bytes encodes the document and binary block as a container.
func (b *Builder) Bytes() []byte {
	doc := *b.Doc
	chunks := []Chunk{}
	if b.bin.Len() > 0 {
		if len(doc.Buffers) == 0 {
			doc.Buffers = []glb.Buffer{{ByteLength: b.bin.Len()}}
		}
	}
	js, err := json.Marshal(&doc)
	if err != nil {
		panic(err)
	}
	chunks = append(chunks, Chunk{Type: glb.ChunkJSON, Data: js})
	if b.bin.Len() > 0 {
		chunks = append(chunks, Chunk{Type: glb.ChunkBIN, Data: b.bin.Bytes()})
	}
	return Container(glb.Magic, glb.Version, chunks...)
}

// Floats encodes values as little-endian float32.
func Floats(values []float32) []byte {
	buf := make([]byte, 4*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint32(buf[4*i:], math.Float32bits(v))
	}
	return buf
}

// Index returns a pointer to i, for optional document references.
func Index(i int) *int {
	return &i
}

// Triangle builds a single indexed triangle with POSITION and TEXCOORD_0,
// optionally textured, and returns the encoded container.
func Triangle(textureURI string) []byte {
	b := New()
	pos := b.AddFloats(glb.TypeVec3, []float32{0, 0, 0, 1, 0, 0, 0, 1, 0})
	uv := b.AddFloats(glb.TypeVec2, []float32{0, 0, 1, 0, 0, 1})
	idx := b.AddUint16([]uint16{0, 1, 2})
	prim := glb.Primitive{
		Attributes: glb.Attributes{{Semantic: "POSITION", Accessor: pos}, {Semantic: "TEXCOORD_0", Accessor: uv}},
		Indices:    Index(idx),
	}
	if textureURI != "" {
		prim.Material = Index(b.AddTexturedMaterial(textureURI, glb.Sampler{}))
	}
	b.AddMesh(prim)
	return b.Bytes()
}
