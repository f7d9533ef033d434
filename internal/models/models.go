// Package models provides the process-wide model registry: asynchronous,
// single-flight loading of binary glTF models with placeholder substitution.
package models

import (
	"context"
	"errors"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/glbkit/pkg/glb"
)

var (
	// ErrTransport wraps failures of the Fetcher.
	ErrTransport = errors.New("models: transport error")
	// ErrClosed is carried by models requested after Close.
	ErrClosed = errors.New("models: cache closed")
)

// Fetcher retrieves the raw bytes of a model or texture by URL.
// Fetch is called from background goroutines and must be safe for concurrent use.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Drawable is a GPU-resident primitive.
type Drawable interface {
	Draw()
	Release()
}

// GeometryBackend turns decoded buffers into drawables. Called only from Update.
type GeometryBackend interface {
	Create(vertices *glb.VertexBuffer, indices *glb.IndexBuffer, mode glb.DrawMode) (Drawable, error)
}

// Texture is a handle that can be bound for drawing.
type Texture interface {
	Bind(unit int)
}

// TextureLoader returns texture handles for resolved references. Called only from Update.
type TextureLoader interface {
	Load(ref glb.TextureRef) Texture
}

// Shading binds the default program state before a model draws.
type Shading interface {
	Bind(transform mgl32.Mat4, color mgl32.Vec4)
}

// ErrorReporter receives every load failure.
type ErrorReporter interface {
	Report(id string, err error)
}
