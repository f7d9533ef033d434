package glb

// AttributeFormat describes one attribute inside an interleaved vertex.
type AttributeFormat struct {
	Semantic string
	Slot     int
	// Size is the number of float components.
	Size int
	// Offset is the attribute's first component within a vertex.
	Offset int
}

// VertexBuffer is an interleaved, vertex-major float buffer.
type VertexBuffer struct {
	Format      []AttributeFormat
	Stride      int // in components
	VertexCount int
	Data        []float32
}

// Interleave resolves the kept attributes and packs them into one buffer.
// Attributes are laid out in declaration order; skipped semantics are ignored.
func Interleave(attrs Attributes, r *Resolver, semantics SemanticTable, skip SkipSet) (*VertexBuffer, error) {
	var (
		format []AttributeFormat
		views  []*View
		stride int
		count  int
	)

	for _, attr := range attrs {
		if skip.Contains(attr.Semantic) {
			continue
		}
		slot, ok := semantics.Slot(attr.Semantic)
		if !ok {
			return nil, validationf("attribute %s: unknown semantic", attr.Semantic)
		}

		view, err := r.Resolve(attr.Accessor, UsageVertex)
		if err != nil {
			return nil, err
		}
		if len(views) == 0 {
			count = view.Count
		} else if view.Count != count {
			return nil, validationf("attribute %s: %d vertices, expected %d", attr.Semantic, view.Count, count)
		}

		format = append(format, AttributeFormat{
			Semantic: attr.Semantic,
			Slot:     slot,
			Size:     view.Arity,
			Offset:   stride,
		})
		views = append(views, view)
		stride += view.Arity
	}

	if len(views) == 0 {
		return nil, validationf("no vertex attributes")
	}

	data := make([]float32, 0, stride*count)
	for v := 0; v < count; v++ {
		for _, view := range views {
			for c := 0; c < view.Arity; c++ {
				data = append(data, view.Float(v, c))
			}
		}
	}

	return &VertexBuffer{
		Format:      format,
		Stride:      stride,
		VertexCount: count,
		Data:        data,
	}, nil
}
