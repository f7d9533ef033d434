// Package camera provides the orbit camera of the model viewer.
package camera

import (
	"math"

	"github.com/charmbracelet/harmonica"
	"github.com/go-gl/mathgl/mgl32"
)

// smoothed is a value that follows its target through a spring.
type smoothed struct {
	value, velocity, target float64
	spring                  harmonica.Spring
}

func newSmoothed(v float64, spring harmonica.Spring) smoothed {
	return smoothed{value: v, target: v, spring: spring}
}

func (s *smoothed) update() {
	s.value, s.velocity = s.spring.Update(s.value, s.velocity, s.target)
}

// Settings configures an OrbitCamera.
type Settings struct {
	FOV         float32 // degrees
	Distance    float32
	MinDistance float32
	MaxDistance float32
	// FPS is the expected Update rate.
	FPS       int
	Frequency float64
	Damping   float64
}

// OrbitCamera orbits around a center point. Input moves targets; Update
// eases the actual position toward them.
type OrbitCamera struct {
	Center mgl32.Vec3
	FOV    float32

	distance smoothed
	pitch    smoothed // radians
	yaw      smoothed // radians

	MinDistance float32
	MaxDistance float32
	MinPitch    float32
	MaxPitch    float32

	DragSensitivity float32
	ZoomSensitivity float32
}

// NewOrbitCamera creates an orbit camera looking slightly down at the origin.
func NewOrbitCamera(s Settings) *OrbitCamera {
	if s.FPS <= 0 {
		s.FPS = 60
	}
	spring := harmonica.NewSpring(harmonica.FPS(s.FPS), s.Frequency, s.Damping)
	return &OrbitCamera{
		FOV:             s.FOV,
		distance:        newSmoothed(float64(s.Distance), spring),
		pitch:           newSmoothed(0.4, spring),
		yaw:             newSmoothed(0.6, spring),
		MinDistance:     s.MinDistance,
		MaxDistance:     s.MaxDistance,
		MinPitch:        -1.5,
		MaxPitch:        1.5,
		DragSensitivity: 0.01,
		ZoomSensitivity: 0.1,
	}
}

// HandleDrag rotates the target orientation by a mouse drag delta in pixels.
func (c *OrbitCamera) HandleDrag(deltaX, deltaY float32) {
	c.yaw.target -= float64(deltaX * c.DragSensitivity)
	c.pitch.target = float64(clamp(float32(c.pitch.target)+deltaY*c.DragSensitivity, c.MinPitch, c.MaxPitch))
}

// HandleZoom changes the target distance by scroll wheel steps.
func (c *OrbitCamera) HandleZoom(delta float32) {
	d := float32(c.distance.target)
	d -= delta * d * c.ZoomSensitivity
	c.distance.target = float64(clamp(d, c.MinDistance, c.MaxDistance))
}

// Frame centers the camera on a box and sets the distance to fit it.
func (c *OrbitCamera) Frame(min, max mgl32.Vec3) {
	c.Center = min.Add(max).Mul(0.5)
	radius := max.Sub(min).Len() / 2
	fov := mgl32.DegToRad(c.FOV)
	d := radius / float32(math.Sin(float64(fov/2)))
	c.distance.target = float64(clamp(d, c.MinDistance, c.MaxDistance))
}

// Update advances the springs by one frame.
func (c *OrbitCamera) Update() {
	c.distance.update()
	c.pitch.update()
	c.yaw.update()
}

// Distance returns the current distance from the center.
func (c *OrbitCamera) Distance() float32 {
	return float32(c.distance.value)
}

// Position returns the camera position in world space.
func (c *OrbitCamera) Position() mgl32.Vec3 {
	pitch, yaw := c.pitch.value, c.yaw.value
	d := c.distance.value
	offset := mgl32.Vec3{
		float32(d * math.Cos(pitch) * math.Sin(yaw)),
		float32(d * math.Sin(pitch)),
		float32(d * math.Cos(pitch) * math.Cos(yaw)),
	}
	return c.Center.Add(offset)
}

// ViewMatrix returns the view matrix for this camera.
func (c *OrbitCamera) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position(), c.Center, mgl32.Vec3{0, 1, 0})
}

// ViewProj returns projection times view for the given aspect ratio.
func (c *OrbitCamera) ViewProj(aspect float32) mgl32.Mat4 {
	far := float32(c.distance.value)*4 + 10
	proj := mgl32.Perspective(mgl32.DegToRad(c.FOV), aspect, 0.05, far)
	return proj.Mul4(c.ViewMatrix())
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
