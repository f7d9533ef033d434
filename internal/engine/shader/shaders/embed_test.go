package shaders

import (
	"regexp"
	"strconv"
	"strings"
	"testing"

	"github.com/Faultbox/glbkit/pkg/glb"
)

var locationRe = regexp.MustCompile(`layout \(location = (\d+)\) in \w+ (\w+);`)

func TestModelShaderLocations(t *testing.T) {
	want := map[string]string{
		"aPosition": "POSITION",
		"aColor":    "COLOR_0",
		"aTexCoord": "TEXCOORD_0",
		"aNormal":   "NORMAL",
	}

	semantics := glb.DefaultSemantics()
	found := 0
	for _, m := range locationRe.FindAllStringSubmatch(ModelVertexShader, -1) {
		loc, _ := strconv.Atoi(m[1])
		semantic, ok := want[m[2]]
		if !ok {
			t.Errorf("unexpected input %s", m[2])
			continue
		}
		slot, _ := semantics.Slot(semantic)
		if slot != loc {
			t.Errorf("%s at location %d, %s is bound to slot %d", m[2], loc, semantic, slot)
		}
		found++
	}
	if found != len(want) {
		t.Errorf("found %d inputs, want %d", found, len(want))
	}
}

func TestShaderVersions(t *testing.T) {
	for name, src := range map[string]string{"vertex": ModelVertexShader, "fragment": ModelFragmentShader} {
		if !strings.HasPrefix(src, "#version 410 core") {
			t.Errorf("%s shader does not start with #version 410 core", name)
		}
	}
}
