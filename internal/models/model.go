package models

import (
	"fmt"
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl32"
)

// State is the lifecycle state of a Model.
type State int

const (
	StateLoading State = iota
	StateReady
	StateFailed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateLoading:
		return "Loading"
	case StateReady:
		return "Ready"
	case StateFailed:
		return "Failed"
	default:
		return fmt.Sprintf("Unknown(%d)", int(s))
	}
}

// Part is one drawable primitive with its optional base color texture.
type Part struct {
	Drawable Drawable
	Texture  Texture
}

// Geometry is the drawable content of a model.
type Geometry struct {
	Parts []Part
	// Placeholder marks the builtin stand-in geometry.
	Placeholder bool
}

func (g *Geometry) release() {
	for _, p := range g.Parts {
		p.Drawable.Release()
	}
}

// snapshot is swapped as a whole; readers never see a partially built geometry.
type snapshot struct {
	state    State
	geometry *Geometry
	err      error
}

// Model is a handle to a model whose geometry may still be loading.
type Model struct {
	ID       string
	BasePath string

	shading Shading
	current atomic.Pointer[snapshot]
}

func newModel(id, basePath string, shading Shading, s *snapshot) *Model {
	m := &Model{ID: id, BasePath: basePath, shading: shading}
	m.current.Store(s)
	return m
}

// State returns the current lifecycle state.
func (m *Model) State() State {
	return m.current.Load().state
}

// Err returns the failure of a Failed model, nil otherwise.
func (m *Model) Err() error {
	return m.current.Load().err
}

// Geometry returns the geometry to draw: the placeholder until the model is Ready.
func (m *Model) Geometry() *Geometry {
	return m.current.Load().geometry
}

func (m *Model) ready(g *Geometry) {
	m.current.Store(&snapshot{state: StateReady, geometry: g})
}

func (m *Model) fail(err error) {
	prev := m.current.Load()
	m.current.Store(&snapshot{state: StateFailed, geometry: prev.geometry, err: err})
}

// Draw binds the default shading state with transform and draws every part,
// binding its texture first when it has one.
func (m *Model) Draw(transform mgl32.Mat4) {
	g := m.Geometry()
	if m.shading != nil {
		m.shading.Bind(transform, mgl32.Vec4{1, 1, 1, 1})
	}
	for _, p := range g.Parts {
		if p.Texture != nil {
			p.Texture.Bind(0)
		}
		p.Drawable.Draw()
	}
}

// DrawGeometry draws every part without binding any state.
func (m *Model) DrawGeometry() {
	for _, p := range m.Geometry().Parts {
		p.Drawable.Draw()
	}
}
