package render

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
)

// Uniform names understood by every Shader. Other names are forwarded to
// the Kage program as-is and must match a declared uniform.
const (
	SamplerUniform = "u_texture"   // texture slot index (always 0), SetUniformi
	MVPUniform     = "u_projTrans" // projection, SetUniform4x4f
)

// Kage's vertex stage is fixed, so the projection is applied to vertices on
// the CPU by the batcher rather than in the shader.
const coloredTexturedShaderSrc = `//kage:unit pixels
package main

var Premultiplied float

func Fragment(dst vec4, src vec2, color vec4) vec4 {
	c := imageSrc0At(src)
	// Textures authored with premultiplied alpha were premultiplied a second
	// time on upload; undo one of them.
	if Premultiplied > 0 && c.a > 0 {
		c.rgb /= c.a
	}
	return c * color
}
`

// Shader is a bindable program plus its uniform state.
type Shader interface {
	Bind()
	Unbind()
	Bound() bool
	SetUniformi(name string, v int)
	SetUniformf(name string, v float32)
	SetUniform4x4f(name string, m Matrix4)

	// Program returns the Kage program, or nil to draw with Ebitengine's
	// default vertex-color * texture shading.
	Program() *ebiten.Shader
	// Projection is the last value set for MVPUniform.
	Projection() Matrix4
	// Sampler is the last value set for SamplerUniform.
	Sampler() int
	// Uniforms returns the Kage uniforms. The map MUST NOT be mutated.
	Uniforms() map[string]any
}

// KageShader is the colored-textured program used to draw skeletons.
type KageShader struct {
	program  *ebiten.Shader
	bound    bool
	sampler  int
	mvp      Matrix4
	uniforms map[string]any
}

// NewColoredTexturedShader compiles the default skeleton shader.
func NewColoredTexturedShader() (*KageShader, error) {
	prog, err := ebiten.NewShader([]byte(coloredTexturedShaderSrc))
	if err != nil {
		return nil, fmt.Errorf("render: failed to compile shader: %w", err)
	}
	return newKageShader(prog), nil
}

func newKageShader(prog *ebiten.Shader) *KageShader {
	return &KageShader{
		program:  prog,
		mvp:      Identity4(),
		uniforms: map[string]any{"Premultiplied": float32(0)},
	}
}

// Bind implements Shader.
func (s *KageShader) Bind() { s.bound = true }

// Unbind implements Shader.
func (s *KageShader) Unbind() { s.bound = false }

// Bound implements Shader.
func (s *KageShader) Bound() bool { return s.bound }

// SetUniformi implements Shader.
func (s *KageShader) SetUniformi(name string, v int) {
	if name == SamplerUniform {
		if v != 0 {
			panic(fmt.Sprintf("render: sampler slot %d unsupported, the skeleton program samples slot 0", v))
		}
		s.sampler = v
		return
	}
	s.uniforms[name] = int32(v)
}

// SetUniformf implements Shader.
func (s *KageShader) SetUniformf(name string, v float32) {
	s.uniforms[name] = v
}

// SetUniform4x4f implements Shader.
func (s *KageShader) SetUniform4x4f(name string, m Matrix4) {
	if name == MVPUniform {
		s.mvp = m
		return
	}
	s.uniforms[name] = m[:]
}

// Program implements Shader.
func (s *KageShader) Program() *ebiten.Shader { return s.program }

// Projection implements Shader.
func (s *KageShader) Projection() Matrix4 { return s.mvp }

// Sampler implements Shader.
func (s *KageShader) Sampler() int { return s.sampler }

// Uniforms implements Shader.
func (s *KageShader) Uniforms() map[string]any { return s.uniforms }

// Dispose releases the compiled program.
func (s *KageShader) Dispose() {
	if s.program != nil {
		s.program.Deallocate()
		s.program = nil
	}
}
