package glb

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ComponentType is an accessor component type code, as stored on the wire.
type ComponentType uint32

// Component type codes.
const (
	ComponentByte   ComponentType = 5120
	ComponentUbyte  ComponentType = 5121
	ComponentShort  ComponentType = 5122
	ComponentUshort ComponentType = 5123
	ComponentUint   ComponentType = 5125
	ComponentFloat  ComponentType = 5126
)

// Size returns the byte size of one component, or 0 for an unknown code.
func (c ComponentType) Size() int {
	switch c {
	case ComponentByte, ComponentUbyte:
		return 1
	case ComponentShort, ComponentUshort:
		return 2
	case ComponentUint, ComponentFloat:
		return 4
	default:
		return 0
	}
}

// String returns the GL name of the component type.
func (c ComponentType) String() string {
	switch c {
	case ComponentByte:
		return "BYTE"
	case ComponentUbyte:
		return "UNSIGNED_BYTE"
	case ComponentShort:
		return "SHORT"
	case ComponentUshort:
		return "UNSIGNED_SHORT"
	case ComponentUint:
		return "UNSIGNED_INT"
	case ComponentFloat:
		return "FLOAT"
	default:
		return fmt.Sprintf("Unknown(%d)", uint32(c))
	}
}

// AccessorType is the element type tag of an accessor ("SCALAR", "VEC3", ...).
type AccessorType string

// Accessor element types.
const (
	TypeScalar AccessorType = "SCALAR"
	TypeVec2   AccessorType = "VEC2"
	TypeVec3   AccessorType = "VEC3"
	TypeVec4   AccessorType = "VEC4"
	TypeMat2   AccessorType = "MAT2"
	TypeMat3   AccessorType = "MAT3"
	TypeMat4   AccessorType = "MAT4"
)

var arities = map[AccessorType]int{
	TypeScalar: 1,
	TypeVec2:   2,
	TypeVec3:   3,
	TypeVec4:   4,
	TypeMat2:   4,
	TypeMat3:   9,
	TypeMat4:   16,
}

// Arity returns the number of components per element and whether the tag is known.
func (t AccessorType) Arity() (int, bool) {
	n, ok := arities[t]
	return n, ok
}

// DrawMode is a primitive topology code.
type DrawMode uint32

// Draw modes.
const (
	ModePoints DrawMode = iota
	ModeLines
	ModeLineLoop
	ModeLineStrip
	ModeTriangles
	ModeTriangleStrip
	ModeTriangleFan
)

// String returns the GL name of the draw mode.
func (m DrawMode) String() string {
	switch m {
	case ModePoints:
		return "POINTS"
	case ModeLines:
		return "LINES"
	case ModeLineLoop:
		return "LINE_LOOP"
	case ModeLineStrip:
		return "LINE_STRIP"
	case ModeTriangles:
		return "TRIANGLES"
	case ModeTriangleStrip:
		return "TRIANGLE_STRIP"
	case ModeTriangleFan:
		return "TRIANGLE_FAN"
	default:
		return fmt.Sprintf("Unknown(%d)", uint32(m))
	}
}

// SamplerParam is a sampler filter or wrap code. Zero means unset: the renderer default applies.
type SamplerParam uint32

// Sampler codes.
const (
	SamplerUnset SamplerParam = 0

	FilterNearest              SamplerParam = 9728
	FilterLinear               SamplerParam = 9729
	FilterNearestMipmapNearest SamplerParam = 9984
	FilterLinearMipmapNearest  SamplerParam = 9985
	FilterNearestMipmapLinear  SamplerParam = 9986
	FilterLinearMipmapLinear   SamplerParam = 9987

	WrapRepeat         SamplerParam = 10497
	WrapClampToEdge    SamplerParam = 33071
	WrapMirroredRepeat SamplerParam = 33648
)

// Document is the JSON metadata of a container. Only the parts the pipeline reads are modeled.
type Document struct {
	Asset       AssetInfo    `json:"asset"`
	Accessors   []Accessor   `json:"accessors,omitempty"`
	BufferViews []BufferView `json:"bufferViews,omitempty"`
	Buffers     []Buffer     `json:"buffers,omitempty"`
	Meshes      []Mesh       `json:"meshes,omitempty"`
	Materials   []Material   `json:"materials,omitempty"`
	Textures    []Texture    `json:"textures,omitempty"`
	Samplers    []Sampler    `json:"samplers,omitempty"`
	Images      []Image      `json:"images,omitempty"`
}

// AssetInfo is the document's asset header.
type AssetInfo struct {
	Version   string `json:"version"`
	Generator string `json:"generator,omitempty"`
}

// Accessor describes how to read typed elements from a buffer view.
type Accessor struct {
	Name          string        `json:"name,omitempty"`
	BufferView    *int          `json:"bufferView,omitempty"`
	ByteOffset    int           `json:"byteOffset,omitempty"`
	ComponentType ComponentType `json:"componentType"`
	Normalized    bool          `json:"normalized,omitempty"`
	Count         int           `json:"count"`
	Type          AccessorType  `json:"type"`
}

// BufferView is a byte range of a buffer.
type BufferView struct {
	Buffer     int `json:"buffer"`
	ByteOffset int `json:"byteOffset,omitempty"`
	ByteLength int `json:"byteLength"`
	ByteStride int `json:"byteStride,omitempty"`
	Target     int `json:"target,omitempty"`
}

// Buffer is a binary buffer. In a container, buffer 0 without a URI is the BIN chunk.
type Buffer struct {
	ByteLength int    `json:"byteLength"`
	URI        string `json:"uri,omitempty"`
}

// Mesh is a list of primitives.
type Mesh struct {
	Name       string      `json:"name,omitempty"`
	Primitives []Primitive `json:"primitives"`
}

// Primitive is one drawable unit of a mesh.
type Primitive struct {
	Attributes Attributes `json:"attributes"`
	Indices    *int       `json:"indices,omitempty"`
	Material   *int       `json:"material,omitempty"`
	Mode       *DrawMode  `json:"mode,omitempty"`
}

// DrawMode returns the primitive's mode, TRIANGLES when absent.
func (p *Primitive) DrawMode() DrawMode {
	if p.Mode == nil {
		return ModeTriangles
	}
	return *p.Mode
}

// Attribute binds a semantic name to an accessor index.
type Attribute struct {
	Semantic string
	Accessor int
}

// Attributes is a primitive's attribute set in declaration order.
type Attributes []Attribute

// UnmarshalJSON decodes the attribute object keeping key order.
func (a *Attributes) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("attributes: expected object, got %v", tok)
	}

	out := Attributes{}
	seen := make(map[string]bool)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("attributes: expected key, got %v", tok)
		}
		if seen[name] {
			return fmt.Errorf("attributes: duplicate semantic %q", name)
		}
		seen[name] = true

		var idx int
		if err := dec.Decode(&idx); err != nil {
			return fmt.Errorf("attributes: %s: %w", name, err)
		}
		out = append(out, Attribute{Semantic: name, Accessor: idx})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*a = out
	return nil
}

// MarshalJSON encodes the attributes as an object in declaration order.
func (a Attributes) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, attr := range a {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(attr.Semantic)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		fmt.Fprintf(&buf, ":%d", attr.Accessor)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Material is the subset of a glTF material the pipeline understands.
type Material struct {
	Name                 string                `json:"name,omitempty"`
	PBRMetallicRoughness *PBRMetallicRoughness `json:"pbrMetallicRoughness,omitempty"`
}

// PBRMetallicRoughness holds the base color texture slot.
type PBRMetallicRoughness struct {
	BaseColorTexture *TextureInfo `json:"baseColorTexture,omitempty"`
}

// TextureInfo references a texture from a material slot.
type TextureInfo struct {
	Index    int `json:"index"`
	TexCoord int `json:"texCoord,omitempty"`
}

// Texture pairs an image source with a sampler.
type Texture struct {
	Sampler *int `json:"sampler,omitempty"`
	Source  *int `json:"source,omitempty"`
}

// Sampler holds filter and wrap parameters.
type Sampler struct {
	MagFilter SamplerParam `json:"magFilter,omitempty"`
	MinFilter SamplerParam `json:"minFilter,omitempty"`
	WrapS     SamplerParam `json:"wrapS,omitempty"`
	WrapT     SamplerParam `json:"wrapT,omitempty"`
}

// Image is an image source. Only URI images are resolved.
type Image struct {
	Name       string `json:"name,omitempty"`
	URI        string `json:"uri,omitempty"`
	MimeType   string `json:"mimeType,omitempty"`
	BufferView *int   `json:"bufferView,omitempty"`
}
