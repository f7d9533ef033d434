// Package geometry uploads decoded primitives into OpenGL vertex arrays.
package geometry

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/glbkit/internal/models"
	"github.com/Faultbox/glbkit/pkg/glb"
)

const floatSize = 4

// colorSlot is the vertex slot of COLOR_0; meshes without colors draw white.
const colorSlot = 1

// Pointer is one vertex attribute pointer, in bytes.
type Pointer struct {
	Slot   uint32
	Size   int32
	Stride int32
	Offset uintptr
}

// Pointers computes the attribute pointers of an interleaved buffer.
func Pointers(vb *glb.VertexBuffer) []Pointer {
	out := make([]Pointer, len(vb.Format))
	for i, f := range vb.Format {
		out[i] = Pointer{
			Slot:   uint32(f.Slot),
			Size:   int32(f.Size),
			Stride: int32(vb.Stride * floatSize),
			Offset: uintptr(f.Offset * floatSize),
		}
	}
	return out
}

// Mesh is an uploaded primitive. It implements models.Drawable.
type Mesh struct {
	vao, vbo, ebo uint32
	mode          uint32
	indexCount    int32
	hasColor      bool
}

// Backend creates meshes. It implements models.GeometryBackend.
// All methods must be called from the GL thread.
type Backend struct{}

// NewBackend returns a backend. A GL context must be current.
func NewBackend() *Backend {
	return &Backend{}
}

// Create uploads vertices and indices into a new vertex array.
func (b *Backend) Create(vb *glb.VertexBuffer, ib *glb.IndexBuffer, mode glb.DrawMode) (models.Drawable, error) {
	if vb == nil || len(vb.Data) == 0 {
		return nil, errors.New("geometry: empty vertex buffer")
	}
	if ib == nil || len(ib.Data) == 0 {
		return nil, errors.New("geometry: empty index buffer")
	}
	if mode > glb.ModeTriangleFan {
		return nil, fmt.Errorf("geometry: unsupported draw mode %d", mode)
	}

	m := &Mesh{
		// glTF mode codes equal the GL primitive enums
		mode:       uint32(mode),
		indexCount: int32(len(ib.Data)),
	}

	gl.GenVertexArrays(1, &m.vao)
	gl.BindVertexArray(m.vao)

	gl.GenBuffers(1, &m.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vb.Data)*floatSize, unsafe.Pointer(&vb.Data[0]), gl.STATIC_DRAW)

	for _, p := range Pointers(vb) {
		gl.VertexAttribPointerWithOffset(p.Slot, p.Size, gl.FLOAT, false, p.Stride, p.Offset)
		gl.EnableVertexAttribArray(p.Slot)
		if p.Slot == colorSlot {
			m.hasColor = true
		}
	}

	gl.GenBuffers(1, &m.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(ib.Data)*2, unsafe.Pointer(&ib.Data[0]), gl.STATIC_DRAW)

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	if errCode := gl.GetError(); errCode != gl.NO_ERROR {
		m.Release()
		return nil, fmt.Errorf("geometry: upload failed with GL error 0x%x", errCode)
	}
	return m, nil
}

// Draw draws the mesh with the current program.
func (m *Mesh) Draw() {
	if m.vao == 0 {
		return
	}
	if !m.hasColor {
		gl.VertexAttrib4f(colorSlot, 1, 1, 1, 1)
	}
	gl.BindVertexArray(m.vao)
	gl.DrawElementsWithOffset(m.mode, m.indexCount, gl.UNSIGNED_SHORT, 0)
	gl.BindVertexArray(0)
}

// Release deletes the GL objects. The mesh draws nothing afterwards.
func (m *Mesh) Release() {
	if m.ebo != 0 {
		gl.DeleteBuffers(1, &m.ebo)
		m.ebo = 0
	}
	if m.vbo != 0 {
		gl.DeleteBuffers(1, &m.vbo)
		m.vbo = 0
	}
	if m.vao != 0 {
		gl.DeleteVertexArrays(1, &m.vao)
		m.vao = 0
	}
}
