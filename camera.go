package cubefield

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// glToWebGPU remaps OpenGL clip depth [-1, 1] to the [0, 1] range WebGPU expects.
var glToWebGPU = mgl32.Mat4{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 0.5, 0,
	0, 0, 0.5, 1,
}

// Camera is a perspective camera orbiting a target.
type Camera struct {
	Fov    float32 // vertical, degrees
	Aspect float32
	Near   float32
	Far    float32

	Target    mgl32.Vec3
	Radius    float32
	Azimuth   float32 // radians around Y
	Elevation float32 // radians above the XZ plane
}

// NewCamera places the camera at (-70, 0, 70) looking at the origin.
func NewCamera(aspect float32) *Camera {
	return &Camera{
		Fov:       60,
		Aspect:    aspect,
		Near:      0.1,
		Far:       1000,
		Radius:    float32(math.Hypot(70, 70)),
		Azimuth:   float32(-math.Pi / 4),
		Elevation: 0,
	}
}

// SetAspect keeps the projection in sync with the surface size. Degenerate sizes are ignored.
func (c *Camera) SetAspect(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.Aspect = float32(width) / float32(height)
}

func (c *Camera) Position() mgl32.Vec3 {
	ce := float32(math.Cos(float64(c.Elevation)))
	return c.Target.Add(mgl32.Vec3{
		c.Radius * ce * float32(math.Sin(float64(c.Azimuth))),
		c.Radius * float32(math.Sin(float64(c.Elevation))),
		c.Radius * ce * float32(math.Cos(float64(c.Azimuth))),
	})
}

// Orbit rotates around the target; elevation stays short of the poles.
func (c *Camera) Orbit(dAzimuth, dElevation float32) {
	c.Azimuth += dAzimuth
	limit := float32(math.Pi/2 - 0.01)
	c.Elevation = mgl32.Clamp(c.Elevation+dElevation, -limit, limit)
}

func (c *Camera) View() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position(), c.Target, mgl32.Vec3{0, 1, 0})
}

func (c *Camera) Projection() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.Fov), c.Aspect, c.Near, c.Far)
}

// ViewProjection is the clip transform for a WebGPU surface.
func (c *Camera) ViewProjection() mgl32.Mat4 {
	return glToWebGPU.Mul4(c.Projection()).Mul4(c.View())
}
