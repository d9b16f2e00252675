package math

import "math"

// RotationAbout returns the rotation by angle radians about axis.
//
// It builds an orthonormal basis {u, v, w} with w along the axis, rotates in
// the u-v plane and maps back with the basis transpose. axis must be non-zero;
// a zero axis yields an undefined (degenerate) matrix.
func RotationAbout(angle float32, axis Vec3) Mat3 {
	w := axis.Normalize()

	// Replacing the smallest-magnitude component with 1 can never leave the
	// helper parallel to w.
	k := 0
	for i := 1; i < 3; i++ {
		if abs32(w.At(i)) < abs32(w.At(k)) {
			k = i
		}
	}
	helper := w.With(k, 1)

	u := helper.Cross(w).Normalize()
	v := w.Cross(u)
	basis := Mat3FromColumns(u, v, w)

	c := float32(math.Cos(float64(angle)))
	s := float32(math.Sin(float64(angle)))
	plane := Mat3{
		c, s, 0,
		-s, c, 0,
		0, 0, 1,
	}

	return basis.Mul(plane).Mul(basis.Transpose())
}

// CameraToWorld returns the matrix whose columns are the camera basis and eye:
// [u 0; v 0; w 0; eye 1] with w = -normalize(gaze), u = normalize(up x w), v = w x u.
func CameraToWorld(gaze, up, eye Vec3) Mat4 {
	u, v, w := cameraBasis(gaze, up)
	return FromColumns(
		Vec4{u.X, u.Y, u.Z, 0},
		Vec4{v.X, v.Y, v.Z, 0},
		Vec4{w.X, w.Y, w.Z, 0},
		Vec4{eye.X, eye.Y, eye.Z, 1},
	)
}

// ViewMatrix returns the world-to-camera matrix, the inverse of CameraToWorld.
// The basis is orthonormal, so the inverse is its transpose plus the rotated
// negative eye offset.
func ViewMatrix(gaze, up, eye Vec3) Mat4 {
	u, v, w := cameraBasis(gaze, up)
	return Mat4{
		u.X, v.X, w.X, 0,
		u.Y, v.Y, w.Y, 0,
		u.Z, v.Z, w.Z, 0,
		-u.Dot(eye), -v.Dot(eye), -w.Dot(eye), 1,
	}
}

func cameraBasis(gaze, up Vec3) (u, v, w Vec3) {
	w = gaze.Normalize().Negate()
	u = up.Cross(w).Normalize()
	v = w.Cross(u)
	return u, v, w
}

// PerspectiveMatrix returns a symmetric perspective projection for a
// viewport of width x height and a vertical field of view in degrees.
func PerspectiveMatrix(width, height int, near, far, fovDegrees float32) Mat4 {
	aspect := float32(width) / float32(height)
	return Perspective(Radians(fovDegrees), aspect, near, far)
}

// ShadowBias maps clip space [-1,1] into texture space [0,1] on x, y and z.
func ShadowBias() Mat4 {
	return Mat4{
		0.5, 0, 0, 0,
		0, 0.5, 0, 0,
		0, 0, 0.5, 0,
		0.5, 0.5, 0.5, 1,
	}
}

func abs32(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
