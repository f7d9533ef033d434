package shader

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/glbkit/internal/engine/shader/shaders"
)

// Program is the default model program. It implements models.Shading.
type Program struct {
	id       uint32
	fallback uint32

	locModel    int32
	locViewProj int32
	locColor    int32
	locTexture  int32
	locLightDir int32
}

// NewProgram compiles the default model program. A GL context must be current.
func NewProgram() (*Program, error) {
	id, err := CompileProgram(shaders.ModelVertexShader, shaders.ModelFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("model program: %w", err)
	}

	p := &Program{
		id:          id,
		locModel:    MustGetUniform(id, "uModel"),
		locViewProj: MustGetUniform(id, "uViewProj"),
		locColor:    MustGetUniform(id, "uColor"),
		locTexture:  MustGetUniform(id, "uTexture"),
		locLightDir: MustGetUniform(id, "uLightDir"),
	}

	gl.UseProgram(id)
	gl.Uniform1i(p.locTexture, 0)
	p.SetLightDir(mgl32.Vec3{-0.4, -1, -0.6})
	gl.UseProgram(0)

	return p, nil
}

// ID returns the GL program name.
func (p *Program) ID() uint32 {
	return p.id
}

// SetFallbackTexture sets the texture bound to unit 0 before each model draw,
// so untextured parts sample it instead of whatever was bound last.
func (p *Program) SetFallbackTexture(id uint32) {
	p.fallback = id
}

// SetViewProj sets the camera matrix for subsequent draws.
func (p *Program) SetViewProj(m mgl32.Mat4) {
	gl.UseProgram(p.id)
	gl.UniformMatrix4fv(p.locViewProj, 1, false, &m[0])
}

// SetLightDir sets the direction light travels in world space.
func (p *Program) SetLightDir(dir mgl32.Vec3) {
	dir = dir.Normalize()
	gl.UseProgram(p.id)
	gl.Uniform3f(p.locLightDir, dir[0], dir[1], dir[2])
}

// Bind makes the program current with the given model transform and tint.
func (p *Program) Bind(transform mgl32.Mat4, color mgl32.Vec4) {
	gl.UseProgram(p.id)
	gl.UniformMatrix4fv(p.locModel, 1, false, &transform[0])
	gl.Uniform4f(p.locColor, color[0], color[1], color[2], color[3])
	if p.fallback != 0 {
		gl.ActiveTexture(gl.TEXTURE0)
		gl.BindTexture(gl.TEXTURE_2D, p.fallback)
	}
}

// Delete releases the program.
func (p *Program) Delete() {
	if p.id != 0 {
		gl.DeleteProgram(p.id)
		p.id = 0
	}
}
