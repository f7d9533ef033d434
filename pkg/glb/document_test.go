package glb_test

import (
	"encoding/json"
	"testing"

	"github.com/Faultbox/glbkit/pkg/glb"
)

func TestAttributes_KeepDeclarationOrder(t *testing.T) {
	var p glb.Primitive
	src := `{"attributes":{"TEXCOORD_0":2,"POSITION":0,"NORMAL":1,"COLOR_0":3},"indices":4}`
	if err := json.Unmarshal([]byte(src), &p); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	want := glb.Attributes{
		{Semantic: "TEXCOORD_0", Accessor: 2},
		{Semantic: "POSITION", Accessor: 0},
		{Semantic: "NORMAL", Accessor: 1},
		{Semantic: "COLOR_0", Accessor: 3},
	}
	if len(p.Attributes) != len(want) {
		t.Fatalf("expected %d attributes, got %d", len(want), len(p.Attributes))
	}
	for i := range want {
		if p.Attributes[i] != want[i] {
			t.Errorf("attribute %d = %+v, want %+v", i, p.Attributes[i], want[i])
		}
	}

	out, err := json.Marshal(p.Attributes)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(out) != `{"TEXCOORD_0":2,"POSITION":0,"NORMAL":1,"COLOR_0":3}` {
		t.Errorf("unexpected encoding %s", out)
	}
}

func TestAttributes_Invalid(t *testing.T) {
	tests := []string{
		`{"attributes":{"POSITION":0,"POSITION":1}}`,
		`{"attributes":[0,1]}`,
		`{"attributes":{"POSITION":"zero"}}`,
	}
	for _, src := range tests {
		var p glb.Primitive
		if err := json.Unmarshal([]byte(src), &p); err == nil {
			t.Errorf("expected error for %s", src)
		}
	}
}

func TestPrimitive_DrawMode(t *testing.T) {
	var p glb.Primitive
	if p.DrawMode() != glb.ModeTriangles {
		t.Errorf("expected TRIANGLES by default, got %s", p.DrawMode())
	}
	lines := glb.ModeLines
	p.Mode = &lines
	if p.DrawMode() != glb.ModeLines {
		t.Errorf("expected LINES, got %s", p.DrawMode())
	}
}

func TestComponentType_String(t *testing.T) {
	tests := []struct {
		ct   glb.ComponentType
		want string
		size int
	}{
		{glb.ComponentFloat, "FLOAT", 4},
		{glb.ComponentUshort, "UNSIGNED_SHORT", 2},
		{glb.ComponentUint, "UNSIGNED_INT", 4},
		{glb.ComponentUbyte, "UNSIGNED_BYTE", 1},
		{glb.ComponentType(7), "Unknown(7)", 0},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.ct.String(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
			if got := tt.ct.Size(); got != tt.size {
				t.Errorf("Size() = %d, want %d", got, tt.size)
			}
		})
	}
}

func TestSemanticTable(t *testing.T) {
	sem := glb.DefaultSemantics()
	for name, want := range map[string]int{"POSITION": 0, "COLOR_0": 1, "TEXCOORD_0": 2, "NORMAL": 3, "TEXCOORD_1": 4} {
		if got, ok := sem.Slot(name); !ok || got != want {
			t.Errorf("Slot(%s) = %d, %v; want %d", name, got, ok, want)
		}
	}
	if _, ok := sem.Slot("TANGENT"); ok {
		t.Error("TANGENT should have no default slot")
	}

	custom := sem.With(map[string]int{"TANGENT": 6, "NORMAL": 7})
	if got, _ := custom.Slot("NORMAL"); got != 7 {
		t.Errorf("override not applied, NORMAL = %d", got)
	}
	if got, _ := sem.Slot("NORMAL"); got != 3 {
		t.Errorf("With must not modify the receiver, NORMAL = %d", got)
	}
}
