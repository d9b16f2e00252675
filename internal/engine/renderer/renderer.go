// Package renderer draws the lit, shadowed scene into the current framebuffer.
package renderer

import (
	"errors"
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/penumbra/internal/engine/shader"
	"github.com/Faultbox/penumbra/internal/engine/shaders"
	"github.com/Faultbox/penumbra/internal/logger"
	"github.com/Faultbox/penumbra/internal/scene"
	"github.com/Faultbox/penumbra/pkg/math"
)

// Texture units used by the main pass.
const (
	ColorUnit  = 0
	ShadowUnit = 1
)

// ErrNoContext is returned when GL function pointers cannot be loaded.
var ErrNoContext = errors.New("no OpenGL context")

// Init loads GL function pointers for the current context and sets the
// default state. It must run after the window creates its context.
func Init() error {
	if err := gl.Init(); err != nil {
		return fmt.Errorf("%w: %v", ErrNoContext, err)
	}

	logger.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
		zap.String("glsl", gl.GoStr(gl.GetString(gl.SHADING_LANGUAGE_VERSION))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.ClearColor(0.1, 0.1, 0.15, 1.0)
	return nil
}

// ShadowSource is the part of the shadow pipeline the main pass samples.
type ShadowSource interface {
	BindTexture(unit uint32)
}

// Config holds the main pass settings.
type Config struct {
	Width      int
	Height     int
	ShadowBias float32 // subtracted from the compared depth
}

// Pass is the Blinn-Phong main pass.
type Pass struct {
	config  Config
	program *shader.Program
	log     *zap.Logger
	warned  bool
}

// New compiles the shading program.
func New(cfg Config) (*Pass, error) {
	program, err := shader.New("phong", shaders.PhongVertexShader, shaders.PhongFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("creating main pass: %w", err)
	}
	return &Pass{
		config:  cfg,
		program: program,
		log:     logger.Named("renderer"),
	}, nil
}

// Resize handles window resize.
func (p *Pass) Resize(width, height int) {
	p.config.Width = width
	p.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	p.log.Debug("viewport resized", zap.Int("width", width), zap.Int("height", height))
}

// Size returns the current viewport size.
func (p *Pass) Size() (int, int) {
	return p.config.Width, p.config.Height
}

// Draw clears the bound framebuffer and draws every model of s once.
func (p *Pass) Draw(s *scene.Scene, shadows ShadowSource) {
	f := BuildFrame(s, p.config.Width, p.config.Height)
	if f.Dropped > 0 && !p.warned {
		p.log.Warn("lights beyond the shader limit are ignored",
			zap.Int("lights", len(s.Lights)), zap.Int("max", shaders.MaxLights))
		p.warned = true
	}

	gl.Enable(gl.DEPTH_TEST)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	pr := p.program
	pr.Use()
	pr.SetMat4("uView", f.View)
	pr.SetMat4("uProjection", f.Projection)
	pr.SetVec3("uEye", f.Eye)

	pr.SetInt("uLightCount", int32(len(f.LightPositions)))
	pr.SetVec3Array("uLightPositions", f.LightPositions)
	pr.SetVec3Array("uLightIntensities", f.LightIntensities)
	pr.SetMat4Array("uShadowMatrices", f.ShadowMatrices)
	pr.SetFloat("uShadowBias", p.config.ShadowBias)

	pr.SetVec3("uAmbient", s.Material.Ambient)
	pr.SetVec3("uKa", s.Material.Ka)
	pr.SetVec3("uKd", s.Material.Kd)
	pr.SetVec3("uKs", s.Material.Ks)
	pr.SetFloat("uShininess", s.Material.Shininess)

	pr.SetInt("uTexture", ColorUnit)
	pr.SetInt("uShadowMap", ShadowUnit)
	if shadows != nil {
		shadows.BindTexture(ShadowUnit)
	}

	for _, m := range s.Models {
		mesh := &s.Meshes[m.Mesh]
		if mesh.Buffer == nil {
			continue
		}
		textured := m.Texture != scene.NoTexture && s.Textures[m.Texture].Sampler != nil
		if textured {
			s.Textures[m.Texture].Sampler.Bind(ColorUnit)
		}
		pr.SetBool("uHasTexture", textured)
		pr.SetMat4("uModel", m.World())
		mesh.Buffer.Draw()
	}
}

// Destroy deletes the shading program.
func (p *Pass) Destroy() {
	p.log.Info("closing main pass")
	if p.program != nil {
		p.program.Destroy()
		p.program = nil
	}
}

// Frame is the per-frame uniform data of the main pass.
type Frame struct {
	View             math.Mat4
	Projection       math.Mat4
	Eye              math.Vec3
	LightPositions   []math.Vec3
	LightIntensities []math.Vec3
	ShadowMatrices   []math.Mat4
	Dropped          int // lights past the shader limit
}

// BuildFrame gathers the camera and light uniforms for one frame.
func BuildFrame(s *scene.Scene, width, height int) Frame {
	n := len(s.Lights)
	dropped := 0
	if n > shaders.MaxLights {
		dropped = n - shaders.MaxLights
		n = shaders.MaxLights
	}

	f := Frame{
		View:             s.Camera.View(),
		Projection:       s.Camera.Projection(width, height),
		Eye:              s.Camera.Eye,
		LightPositions:   make([]math.Vec3, n),
		LightIntensities: make([]math.Vec3, n),
		ShadowMatrices:   make([]math.Mat4, n),
		Dropped:          dropped,
	}
	for i := 0; i < n; i++ {
		l := &s.Lights[i]
		f.LightPositions[i] = l.Position()
		f.LightIntensities[i] = l.Intensity
		f.ShadowMatrices[i] = l.ShadowTransform()
	}
	return f
}
