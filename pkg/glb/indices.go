package glb

// MaxNarrowVertices is the number of vertices a 16-bit index can address.
const MaxNarrowVertices = 1 << 16

// IndexBuffer holds 16-bit indices for one primitive.
type IndexBuffer struct {
	// VertexCount is the size of the vertex buffer the indices address.
	VertexCount int
	Data        []uint16
}

// NormalizeIndices converts an index view to 16 bits.
// 32-bit sources are accepted only when every value fits; nothing is truncated.
func NormalizeIndices(v *View, vertexCount int) (*IndexBuffer, error) {
	if v.Type != TypeScalar {
		return nil, validationf("index accessor type %s, expected %s", v.Type, TypeScalar)
	}

	switch v.Component {
	case ComponentUshort:
	case ComponentUint:
		if vertexCount >= MaxNarrowVertices {
			return nil, outOfRangef("%d vertices cannot be addressed by 16-bit indices", vertexCount)
		}
	default:
		return nil, validationf("index component type %s", v.Component)
	}

	data := make([]uint16, v.Count)
	for i := range data {
		idx := v.Uint(i)
		if idx >= MaxNarrowVertices {
			return nil, outOfRangef("index %d has value %d", i, idx)
		}
		if int(idx) >= vertexCount {
			return nil, validationf("index %d has value %d, only %d vertices", i, idx, vertexCount)
		}
		data[i] = uint16(idx)
	}

	return &IndexBuffer{VertexCount: vertexCount, Data: data}, nil
}
