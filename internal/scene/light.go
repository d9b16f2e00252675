package scene

import "github.com/Faultbox/penumbra/pkg/math"

// ShadowParams is the frustum every light renders its depth layer with.
type ShadowParams struct {
	Width  int
	Height int
	FovY   float32 // degrees
	Near   float32
	Far    float32
}

// DefaultShadowParams returns a 30 degree frustum from 1 to 100 units.
func DefaultShadowParams(width, height int) ShadowParams {
	return ShadowParams{
		Width:  width,
		Height: height,
		FovY:   30,
		Near:   1,
		Far:    100,
	}
}

// Light is a point light aimed at the world origin. Its matrices are
// computed once and reused until the position or up vector changes.
type Light struct {
	position  math.Vec3
	Intensity math.Vec3

	up     math.Vec3
	params ShadowParams

	valid      bool
	view       math.Mat4
	projection math.Mat4
	shadow     math.Mat4
}

// NewLight creates a light at position looking at the origin.
func NewLight(position, intensity, up math.Vec3, params ShadowParams) Light {
	return Light{
		position:  position,
		Intensity: intensity,
		up:        up,
		params:    params,
	}
}

// Position returns the light position.
func (l *Light) Position() math.Vec3 {
	return l.position
}

// SetPosition moves the light and drops its cached matrices.
func (l *Light) SetPosition(p math.Vec3) {
	if p == l.position {
		return
	}
	l.position = p
	l.valid = false
}

// Gaze returns the direction from the light to the origin.
func (l *Light) Gaze() math.Vec3 {
	return l.position.Negate()
}

// View returns the light's world-to-light matrix.
func (l *Light) View() math.Mat4 {
	l.update()
	return l.view
}

// Projection returns the light's perspective matrix.
func (l *Light) Projection() math.Mat4 {
	l.update()
	return l.projection
}

// ShadowTransform returns bias * projection * view, which maps a world
// position into the light's depth layer as (s, t, depth) in [0,1].
func (l *Light) ShadowTransform() math.Mat4 {
	l.update()
	return l.shadow
}

func (l *Light) update() {
	if l.valid {
		return
	}
	p := l.params
	l.view = math.ViewMatrix(l.Gaze(), l.up, l.position)
	l.projection = math.PerspectiveMatrix(p.Width, p.Height, p.Near, p.Far, p.FovY)
	l.shadow = math.ShadowBias().Mul(l.projection).Mul(l.view)
	l.valid = true
}

// degenerate reports whether the light cannot build a view basis: it sits at
// the origin or looks along the up vector.
func (l *Light) degenerate() bool {
	g := l.Gaze().Normalize()
	if g == (math.Vec3{}) {
		return true
	}
	return l.up.Normalize().Cross(g).Length() < 1e-6
}
