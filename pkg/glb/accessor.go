package glb

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Usage selects which component types an accessor may carry.
type Usage int

const (
	// UsageVertex is a per-vertex attribute stream.
	UsageVertex Usage = iota
	// UsageIndex is a primitive's index list.
	UsageIndex
)

// String returns the usage name.
func (u Usage) String() string {
	if u == UsageIndex {
		return "index"
	}
	return "vertex"
}

// maxByteStride is the largest stride a buffer view may declare.
const maxByteStride = 252

// Accepted component types per usage. Anything else fails; nothing is reinterpreted.
var acceptedComponents = map[Usage]map[ComponentType]bool{
	UsageVertex: {ComponentFloat: true},
	UsageIndex:  {ComponentUshort: true, ComponentUint: true},
}

// View is a typed, bounds-checked window over a container's binary block.
type View struct {
	Type      AccessorType
	Component ComponentType
	Arity     int
	Count     int

	data   []byte
	stride int
}

// Float returns component c of element i of a FLOAT view.
func (v *View) Float(i, c int) float32 {
	off := i*v.stride + c*4
	return math.Float32frombits(binary.LittleEndian.Uint32(v.data[off:]))
}

// Uint returns the scalar value of element i of an index view.
// Index views are UNSIGNED_SHORT or UNSIGNED_INT.
func (v *View) Uint(i int) uint32 {
	off := i * v.stride
	if v.Component == ComponentUshort {
		return uint32(binary.LittleEndian.Uint16(v.data[off:]))
	}
	return binary.LittleEndian.Uint32(v.data[off:])
}

// Resolver maps accessor indices of one container to typed views.
type Resolver struct {
	doc *Document
	bin []byte
}

// NewResolver creates a resolver over a parsed container.
func NewResolver(c *Container) *Resolver {
	return &Resolver{doc: c.Document, bin: c.Binary}
}

// Resolve validates accessor index against usage and returns a view of its data.
func (r *Resolver) Resolve(index int, usage Usage) (*View, error) {
	if index < 0 || index >= len(r.doc.Accessors) {
		return nil, validationf("accessor %d out of range (have %d)", index, len(r.doc.Accessors))
	}
	acc := &r.doc.Accessors[index]

	arity, ok := acc.Type.Arity()
	if !ok {
		return nil, validationf("accessor %d: unknown element type %q", index, acc.Type)
	}
	if !acceptedComponents[usage][acc.ComponentType] {
		return nil, validationf("accessor %d: component type %s not supported for %s data", index, acc.ComponentType, usage)
	}
	if acc.Count <= 0 {
		return nil, validationf("accessor %d: count %d", index, acc.Count)
	}
	if acc.BufferView == nil {
		return nil, validationf("accessor %d: no buffer view", index)
	}

	bv := *acc.BufferView
	if bv < 0 || bv >= len(r.doc.BufferViews) {
		return nil, validationf("accessor %d: buffer view %d out of range", index, bv)
	}
	view := &r.doc.BufferViews[bv]

	block, err := r.buffer(view.Buffer)
	if err != nil {
		return nil, fmt.Errorf("accessor %d: %w", index, err)
	}
	if view.ByteOffset < 0 || view.ByteLength < 0 || view.ByteOffset > len(block) || view.ByteLength > len(block)-view.ByteOffset {
		return nil, validationf("accessor %d: buffer view %d [%d,+%d) exceeds buffer of %d bytes",
			index, bv, view.ByteOffset, view.ByteLength, len(block))
	}
	data := block[view.ByteOffset : view.ByteOffset+view.ByteLength]

	elemSize := acc.ComponentType.Size() * arity
	stride := elemSize
	if view.ByteStride != 0 {
		if view.ByteStride < elemSize || view.ByteStride > maxByteStride {
			return nil, validationf("accessor %d: byte stride %d invalid for element size %d", index, view.ByteStride, elemSize)
		}
		stride = view.ByteStride
	}

	if acc.ByteOffset < 0 || acc.ByteOffset > len(data) {
		return nil, validationf("accessor %d: byte offset %d outside buffer view %d", index, acc.ByteOffset, bv)
	}
	if acc.Count > len(data) {
		return nil, validationf("accessor %d: count %d exceeds buffer view %d of %d bytes", index, acc.Count, bv, len(data))
	}
	end := acc.ByteOffset + (acc.Count-1)*stride + elemSize
	if end > len(data) {
		return nil, validationf("accessor %d: needs %d bytes, buffer view %d has %d", index, end, bv, len(data))
	}

	return &View{
		Type:      acc.Type,
		Component: acc.ComponentType,
		Arity:     arity,
		Count:     acc.Count,
		data:      data[acc.ByteOffset:end],
		stride:    stride,
	}, nil
}

func (r *Resolver) buffer(index int) ([]byte, error) {
	if index < 0 || index >= len(r.doc.Buffers) {
		return nil, validationf("buffer %d out of range (have %d)", index, len(r.doc.Buffers))
	}
	if index != 0 || r.doc.Buffers[0].URI != "" {
		return nil, validationf("buffer %d is external; only the embedded BIN chunk is supported", index)
	}
	if r.bin == nil {
		return nil, validationf("buffer 0 references a missing BIN chunk")
	}
	if r.doc.Buffers[0].ByteLength > len(r.bin) {
		return nil, validationf("buffer 0 declares %d bytes, BIN chunk has %d", r.doc.Buffers[0].ByteLength, len(r.bin))
	}
	return r.bin, nil
}
