package scene

import "github.com/Faultbox/penumbra/pkg/math"

// Orientation is the camera: where it sits, where it looks and its frustum.
// Gaze is always stored normalized. View and projection are derived on every
// call so interactive changes take effect immediately.
type Orientation struct {
	Eye  math.Vec3
	Gaze math.Vec3
	Up   math.Vec3
	FovY float32 // degrees
	Near float32
	Far  float32
}

// NewOrientation returns a camera with its gaze normalized.
func NewOrientation(eye, gaze, up math.Vec3, fovY, near, far float32) Orientation {
	return Orientation{
		Eye:  eye,
		Gaze: gaze.Normalize(),
		Up:   up,
		FovY: fovY,
		Near: near,
		Far:  far,
	}
}

// View returns the world-to-camera matrix.
func (o *Orientation) View() math.Mat4 {
	return math.ViewMatrix(o.Gaze, o.Up, o.Eye)
}

// Projection returns the perspective matrix for a width x height viewport.
func (o *Orientation) Projection(width, height int) math.Mat4 {
	return math.PerspectiveMatrix(width, height, o.Near, o.Far, o.FovY)
}

// LookAt points the camera from its eye towards target.
func (o *Orientation) LookAt(target math.Vec3) {
	o.Gaze = target.Sub(o.Eye).Normalize()
}
