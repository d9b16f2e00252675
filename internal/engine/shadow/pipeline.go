// Package shadow renders per-light depth maps into one layered depth texture.
//
// Light i owns layer i of a GL_TEXTURE_2D_ARRAY. The texture is configured
// for hardware depth comparison so the main pass can sample it through a
// sampler2DArrayShadow.
package shadow

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

// Pipeline errors.
var (
	ErrIncompleteFramebuffer = errors.New("shadow framebuffer incomplete")
	ErrBadSize               = errors.New("shadow layer size must be positive")
	ErrTooManyLights         = errors.New("more lights than shadow layers")
	ErrLayerRange            = errors.New("shadow layer out of range")
)

// Config sizes the layered depth texture.
type Config struct {
	Width  int
	Height int
	Layers int // one per light; at least one layer is always allocated

	// CullFront draws only back faces into the depth map, which keeps lit
	// front faces from shadowing themselves.
	CullFront bool
}

func (c Config) validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrBadSize, c.Width, c.Height)
	}
	return nil
}

func (c Config) layers() int {
	if c.Layers < 1 {
		return 1
	}
	return c.Layers
}

// Drawable is anything that can issue its own draw call.
type Drawable interface {
	Draw()
}

// Caster is one object drawn into every depth layer.
type Caster struct {
	World    math.Mat4
	Geometry Drawable
}

// Pipeline owns the depth program, the layered depth texture and the
// framebuffer used to render into it.
type Pipeline struct {
	cfg     Config
	program *shader.Program
	fbo     uint32
	depth   uint32
	fresh   bool
	log     *zap.Logger
}

// NewPipeline compiles the depth program and allocates the depth texture.
func NewPipeline(cfg Config) (*Pipeline, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	program, err := shader.New("depth", shaders.DepthVertexShader, shaders.DepthFragmentShader)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		cfg:     cfg,
		program: program,
		log:     logger.Named("shadow"),
	}

	layers := int32(cfg.layers())
	gl.GenTextures(1, &p.depth)
	gl.BindTexture(gl.TEXTURE_2D_ARRAY, p.depth)
	gl.TexImage3D(gl.TEXTURE_2D_ARRAY, 0, gl.DEPTH_COMPONENT32,
		int32(cfg.Width), int32(cfg.Height), layers,
		0, gl.DEPTH_COMPONENT, gl.FLOAT, nil)
	gl.TexParameteri(gl.TEXTURE_2D_ARRAY, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D_ARRAY, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D_ARRAY, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D_ARRAY, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D_ARRAY, gl.TEXTURE_COMPARE_MODE, gl.COMPARE_REF_TO_TEXTURE)
	gl.TexParameteri(gl.TEXTURE_2D_ARRAY, gl.TEXTURE_COMPARE_FUNC, gl.LEQUAL)
	gl.BindTexture(gl.TEXTURE_2D_ARRAY, 0)

	gl.GenFramebuffers(1, &p.fbo)
	gl.BindFramebuffer(gl.FRAMEBUFFER, p.fbo)
	gl.FramebufferTextureLayer(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, p.depth, 0, 0)
	gl.DrawBuffer(gl.NONE)
	gl.ReadBuffer(gl.NONE)
	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	if status != gl.FRAMEBUFFER_COMPLETE {
		p.Destroy()
		return nil, fmt.Errorf("%w: 0x%x", ErrIncompleteFramebuffer, status)
	}

	p.log.Info("shadow pipeline ready",
		zap.Int("width", cfg.Width),
		zap.Int("height", cfg.Height),
		zap.Int32("layers", layers),
		zap.Bool("cull_front", cfg.CullFront))
	return p, nil
}

// Config returns the configuration the pipeline was built with.
func (p *Pipeline) Config() Config {
	return p.cfg
}

// Stale reports whether the depth layers need rendering.
func (p *Pipeline) Stale() bool {
	return !p.fresh
}

// Invalidate marks every layer for re-rendering on the next frame.
func (p *Pipeline) Invalidate() {
	p.fresh = false
}

// Render draws every caster into the depth layer of every light. The
// caller's viewport and framebuffer binding are restored afterwards.
func (p *Pipeline) Render(lights []scene.Light, casters []Caster) error {
	if len(lights) > p.cfg.layers() {
		return fmt.Errorf("%w: %d lights, %d layers", ErrTooManyLights, len(lights), p.cfg.layers())
	}

	var prevFBO int32
	var prevViewport [4]int32
	gl.GetIntegerv(gl.FRAMEBUFFER_BINDING, &prevFBO)
	gl.GetIntegerv(gl.VIEWPORT, &prevViewport[0])

	gl.BindFramebuffer(gl.FRAMEBUFFER, p.fbo)
	gl.Viewport(0, 0, int32(p.cfg.Width), int32(p.cfg.Height))
	p.program.Use()

	for i := range lights {
		l := &lights[i]
		gl.FramebufferTextureLayer(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, p.depth, 0, int32(i))
		gl.Clear(gl.DEPTH_BUFFER_BIT)
		gl.Enable(gl.DEPTH_TEST)
		gl.DepthFunc(gl.LESS)
		if p.cfg.CullFront {
			gl.Enable(gl.CULL_FACE)
			gl.CullFace(gl.FRONT)
		}

		p.program.SetMat4("uLightView", l.View())
		p.program.SetMat4("uLightProjection", l.Projection())
		for _, c := range casters {
			p.program.SetMat4("uModel", c.World)
			c.Geometry.Draw()
		}

		gl.CullFace(gl.BACK)
		gl.Disable(gl.CULL_FACE)
		gl.Disable(gl.DEPTH_TEST)
	}

	gl.BindFramebuffer(gl.FRAMEBUFFER, uint32(prevFBO))
	gl.Viewport(prevViewport[0], prevViewport[1], prevViewport[2], prevViewport[3])

	p.fresh = true
	p.log.Debug("depth layers rendered", zap.Int("lights", len(lights)), zap.Int("casters", len(casters)))
	return nil
}

// BindTexture binds the depth array to the given texture unit.
func (p *Pipeline) BindTexture(unit uint32) {
	gl.ActiveTexture(gl.TEXTURE0 + unit)
	gl.BindTexture(gl.TEXTURE_2D_ARRAY, p.depth)
}

// ReadLayer reads the depth values of one layer, bottom row first.
func (p *Pipeline) ReadLayer(layer int) ([]float32, error) {
	if layer < 0 || layer >= p.cfg.layers() {
		return nil, fmt.Errorf("%w: %d", ErrLayerRange, layer)
	}

	var prevFBO int32
	gl.GetIntegerv(gl.FRAMEBUFFER_BINDING, &prevFBO)

	depth := make([]float32, p.cfg.Width*p.cfg.Height)
	gl.BindFramebuffer(gl.FRAMEBUFFER, p.fbo)
	gl.FramebufferTextureLayer(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, p.depth, 0, int32(layer))
	gl.PixelStorei(gl.PACK_ALIGNMENT, 4)
	gl.ReadPixels(0, 0, int32(p.cfg.Width), int32(p.cfg.Height), gl.DEPTH_COMPONENT, gl.FLOAT, gl.Ptr(depth))
	gl.BindFramebuffer(gl.FRAMEBUFFER, uint32(prevFBO))
	return depth, nil
}

// Destroy releases the framebuffer, depth texture and program.
func (p *Pipeline) Destroy() {
	if p.fbo != 0 {
		gl.DeleteFramebuffers(1, &p.fbo)
		p.fbo = 0
	}
	if p.depth != 0 {
		gl.DeleteTextures(1, &p.depth)
		p.depth = 0
	}
	if p.program != nil {
		p.program.Destroy()
		p.program = nil
	}
}

// Casters builds one caster per model of s, in model order.
func Casters(s *scene.Scene) []Caster {
	out := make([]Caster, 0, len(s.Models))
	for _, m := range s.Models {
		g := s.Meshes[m.Mesh].Buffer
		if g == nil {
			continue
		}
		out = append(out, Caster{World: m.World(), Geometry: g})
	}
	return out
}
