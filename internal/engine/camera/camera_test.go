package camera

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func testCamera() *OrbitCamera {
	return NewOrbitCamera(Settings{
		FOV:         45,
		Distance:    4,
		MinDistance: 1,
		MaxDistance: 10,
		FPS:         60,
		Frequency:   6,
		Damping:     1,
	})
}

func settle(c *OrbitCamera) {
	for i := 0; i < 600; i++ {
		c.Update()
	}
}

func TestZoomClampsAndEases(t *testing.T) {
	c := testCamera()

	c.HandleZoom(100)
	if c.Distance() != 4 {
		t.Errorf("distance moved before Update: %f", c.Distance())
	}
	c.Update()
	if d := c.Distance(); d >= 4 || d <= 1 {
		t.Errorf("distance after one frame = %f, want between 1 and 4", d)
	}
	settle(c)
	if d := c.Distance(); mgl32.Abs(d-1) > 1e-3 {
		t.Errorf("settled distance = %f, want 1", d)
	}

	c.HandleZoom(-1000)
	settle(c)
	if d := c.Distance(); mgl32.Abs(d-10) > 1e-3 {
		t.Errorf("settled distance = %f, want 10", d)
	}
}

func TestDragClampsPitch(t *testing.T) {
	c := testCamera()
	c.HandleDrag(0, 10000)
	settle(c)

	pos := c.Position()
	// At the pitch limit the camera is almost straight above the center.
	if pos.Y() < 3.9 {
		t.Errorf("camera Y = %f, want close to distance 4", pos.Y())
	}
	if d := pos.Sub(c.Center).Len(); mgl32.Abs(d-4) > 1e-3 {
		t.Errorf("distance from center = %f, want 4", d)
	}
}

func TestFrame(t *testing.T) {
	c := testCamera()
	c.Frame(mgl32.Vec3{-1, -1, -1}, mgl32.Vec3{3, 1, 1})

	if !c.Center.ApproxEqual(mgl32.Vec3{1, 0, 0}) {
		t.Errorf("center = %v, want (1,0,0)", c.Center)
	}
	settle(c)
	if d := c.Distance(); d <= 4 || d > 10 {
		t.Errorf("framed distance = %f", d)
	}
}

func TestViewProjLooksAtCenter(t *testing.T) {
	c := testCamera()
	c.Center = mgl32.Vec3{2, 0, 0}

	clip := c.ViewProj(16.0 / 9.0).Mul4x1(c.Center.Vec4(1))
	ndc := clip.Vec3().Mul(1 / clip.W())
	if mgl32.Abs(ndc.X()) > 1e-4 || mgl32.Abs(ndc.Y()) > 1e-4 {
		t.Errorf("center projects to %v, want screen center", ndc)
	}
}
