package geometry

import (
	"testing"

	"github.com/Faultbox/glbkit/pkg/glb"
)

func TestPointers(t *testing.T) {
	vb := &glb.VertexBuffer{
		Format: []glb.AttributeFormat{
			{Semantic: "POSITION", Slot: 0, Size: 3, Offset: 0},
			{Semantic: "TEXCOORD_0", Slot: 2, Size: 2, Offset: 3},
			{Semantic: "NORMAL", Slot: 3, Size: 3, Offset: 5},
		},
		Stride:      8,
		VertexCount: 1,
		Data:        make([]float32, 8),
	}

	want := []Pointer{
		{Slot: 0, Size: 3, Stride: 32, Offset: 0},
		{Slot: 2, Size: 2, Stride: 32, Offset: 12},
		{Slot: 3, Size: 3, Stride: 32, Offset: 20},
	}

	got := Pointers(vb)
	if len(got) != len(want) {
		t.Fatalf("got %d pointers, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("pointer %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestCreateRejectsInvalid(t *testing.T) {
	vb := &glb.VertexBuffer{Stride: 3, VertexCount: 1, Data: []float32{0, 0, 0}}
	ib := &glb.IndexBuffer{VertexCount: 1, Data: []uint16{0}}

	tests := []struct {
		name string
		vb   *glb.VertexBuffer
		ib   *glb.IndexBuffer
		mode glb.DrawMode
	}{
		{"nil vertices", nil, ib, glb.ModeTriangles},
		{"empty vertices", &glb.VertexBuffer{}, ib, glb.ModeTriangles},
		{"nil indices", vb, nil, glb.ModeTriangles},
		{"bad mode", vb, ib, glb.DrawMode(7)},
	}

	// These fail before any GL call, so no context is needed.
	b := NewBackend()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := b.Create(tt.vb, tt.ib, tt.mode); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestReleasedMeshIsInert(t *testing.T) {
	m := &Mesh{}
	m.Release()
	m.Draw()
}
