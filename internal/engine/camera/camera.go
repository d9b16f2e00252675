// Package camera turns mouse input into camera motion around the origin.
package camera

import (
	"github.com/Faultbox/penumbra/internal/scene"
	"github.com/Faultbox/penumbra/pkg/math"
)

// Settings tune how far one input step moves the camera.
type Settings struct {
	ScrollStep     float32 // world units per wheel notch along the gaze
	DragDivisor    float32 // pixels of drag per degree, times this divisor
	MaxDragRadians float32 // upper bound on one drag step
}

// DefaultSettings returns the stock step sizes.
func DefaultSettings() Settings {
	return Settings{
		ScrollStep:     0.2,
		DragDivisor:    10,
		MaxDragRadians: 0.5,
	}
}

// Controller moves a camera in response to wheel and drag input. The camera
// orbits the world origin: after every drag the gaze is re-aimed at it.
type Controller struct {
	cam      *scene.Orientation
	settings Settings

	dragging bool
	hasLast  bool
	lastX    float32
	lastY    float32
}

// NewController creates a controller driving cam.
func NewController(cam *scene.Orientation, settings Settings) *Controller {
	if settings.DragDivisor == 0 {
		settings.DragDivisor = 1
	}
	return &Controller{cam: cam, settings: settings}
}

// Zoom moves the eye one step along the gaze: forward for dir > 0,
// backward otherwise.
func (c *Controller) Zoom(dir int) {
	step := c.cam.Gaze.Normalize().Scale(c.settings.ScrollStep)
	if dir > 0 {
		c.cam.Eye = c.cam.Eye.Add(step)
	} else {
		c.cam.Eye = c.cam.Eye.Sub(step)
	}
}

// Press starts a drag.
func (c *Controller) Press() {
	c.dragging = true
}

// Release ends a drag and forgets the last cursor position.
func (c *Controller) Release() {
	c.dragging = false
	c.hasLast = false
}

// Dragging reports whether a drag is in progress.
func (c *Controller) Dragging() bool {
	return c.dragging
}

// Move feeds a cursor position. While dragging, the camera rotates by the
// delta from the previous position. It reports whether the camera moved.
func (c *Controller) Move(x, y float32) bool {
	if !c.dragging {
		return false
	}
	if !c.hasLast {
		c.lastX, c.lastY, c.hasLast = x, y, true
	}
	dx, dy := x-c.lastX, y-c.lastY
	c.lastX, c.lastY = x, y
	if dx == 0 && dy == 0 {
		return false
	}
	return c.Drag(dx, dy)
}

// Drag rotates the eye about the origin. A mostly horizontal drag turns
// around world Y; a mostly vertical one turns around gaze x up. One pixel
// counts as one degree, divided by DragDivisor and capped at
// MaxDragRadians.
func (c *Controller) Drag(dx, dy float32) bool {
	var delta float32
	var axis math.Vec3
	if abs(dx) > abs(dy) {
		delta = dx
		axis = math.Vec3{Y: 1}
	} else {
		delta = dy
		axis = c.cam.Gaze.Cross(c.cam.Up).Normalize()
		if axis == (math.Vec3{}) {
			return false
		}
	}

	rad := math.Radians(-delta) / c.settings.DragDivisor
	if rad > c.settings.MaxDragRadians {
		rad = c.settings.MaxDragRadians
	}

	eye := math.RotationAbout(rad, axis).MulVec3(c.cam.Eye)
	gaze := eye.Negate().Normalize()
	if gaze == (math.Vec3{}) {
		return false
	}
	c.cam.Eye = eye
	c.cam.Gaze = gaze
	return true
}

func abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
