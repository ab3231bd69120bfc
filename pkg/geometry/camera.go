package geometry

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/df07/go-direct-raytracer/pkg/core"
)

// Camera is a pinhole camera described by a world position, yaw/pitch angles
// and a vertical field of view.
//
// The camera-to-world matrix and the field of view tangent are cached and only
// rebuilt when the state they depend on changed. Mutate the camera between
// render passes only; during a pass it is read concurrently.
type Camera struct {
	origin   core.Vec3
	yaw      float64 // Radians around the world Y axis
	pitch    float64 // Radians around the camera X axis
	fovAngle float64 // Full vertical field of view in degrees

	fov         float64 // tan(fovAngle/2), valid when fovAngle == prevFovAngle
	prevFovSet  bool
	prevFov     float64
	toWorld     mgl64.Mat4
	matrixDirty bool
}

// NewCamera creates a camera at origin looking down +Z with the given vertical FOV in degrees
func NewCamera(origin core.Vec3, fovAngle float64) *Camera {
	c := &Camera{
		origin:      origin,
		fovAngle:    fovAngle,
		matrixDirty: true,
	}
	c.Update()
	return c
}

// Origin returns the camera's world position
func (c *Camera) Origin() core.Vec3 {
	return c.origin
}

// Yaw returns the yaw angle in radians
func (c *Camera) Yaw() float64 {
	return c.yaw
}

// Pitch returns the pitch angle in radians
func (c *Camera) Pitch() float64 {
	return c.pitch
}

// FOVAngle returns the vertical field of view in degrees
func (c *Camera) FOVAngle() float64 {
	return c.fovAngle
}

// SetOrigin moves the camera to a new world position
func (c *Camera) SetOrigin(origin core.Vec3) {
	if origin != c.origin {
		c.origin = origin
		c.matrixDirty = true
	}
}

// Translate moves the camera by a world-space offset
func (c *Camera) Translate(offset core.Vec3) {
	c.SetOrigin(c.origin.Add(offset))
}

// SetYawPitch sets both orientation angles (radians)
func (c *Camera) SetYawPitch(yaw, pitch float64) {
	if yaw != c.yaw || pitch != c.pitch {
		c.yaw = yaw
		c.pitch = pitch
		c.matrixDirty = true
	}
}

// Rotate adds to the current yaw and pitch (radians)
func (c *Camera) Rotate(deltaYaw, deltaPitch float64) {
	c.SetYawPitch(c.yaw+deltaYaw, c.pitch+deltaPitch)
}

// SetFOVAngle changes the vertical field of view in degrees
func (c *Camera) SetFOVAngle(degrees float64) {
	c.fovAngle = degrees
}

// FOV returns tan(fov/2), recomputing it only when the angle changed
func (c *Camera) FOV() float64 {
	if !c.prevFovSet || c.prevFov != c.fovAngle {
		c.prevFov = c.fovAngle
		c.prevFovSet = true
		c.fov = math.Tan(mgl64.DegToRad(c.fovAngle) * 0.5)
	}
	return c.fov
}

// CalculateCameraToWorld rebuilds and returns the camera-to-world matrix.
// Pitch is applied first in camera space, then yaw, then the translation to the origin.
func (c *Camera) CalculateCameraToWorld() mgl64.Mat4 {
	rotation := mgl64.HomogRotate3DY(c.yaw).Mul4(mgl64.HomogRotate3DX(c.pitch))
	translation := mgl64.Translate3D(c.origin.X, c.origin.Y, c.origin.Z)

	c.toWorld = translation.Mul4(rotation)
	c.matrixDirty = false
	return c.toWorld
}

// CameraToWorld returns the cached matrix, rebuilding it only if the camera moved
func (c *Camera) CameraToWorld() mgl64.Mat4 {
	if c.matrixDirty {
		return c.CalculateCameraToWorld()
	}
	return c.toWorld
}

// Update refreshes every cached value. Call it once per frame before rendering
// so the render pass itself only reads.
func (c *Camera) Update() {
	c.FOV()
	c.CameraToWorld()
}

// TransformVector rotates a camera-space direction into world space (no translation)
func (c *Camera) TransformVector(v core.Vec3) core.Vec3 {
	m := c.toWorld
	if c.matrixDirty {
		m = c.CalculateCameraToWorld()
	}
	w := m.Mul4x1(mgl64.Vec4{v.X, v.Y, v.Z, 0})
	return core.NewVec3(w.X(), w.Y(), w.Z())
}

// TransformPoint maps a camera-space point into world space
func (c *Camera) TransformPoint(p core.Vec3) core.Vec3 {
	w := c.CameraToWorld().Mul4x1(mgl64.Vec4{p.X, p.Y, p.Z, 1})
	return core.NewVec3(w.X(), w.Y(), w.Z())
}

// Forward returns the world-space viewing direction
func (c *Camera) Forward() core.Vec3 {
	return c.TransformVector(core.UnitZ)
}
