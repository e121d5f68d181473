// Package physics implements the per-area rigid body registry: body
// state, constraints, a synchronous simulation step, and ray casting.
package physics

import "github.com/Faultbox/eclipse/pkg/math"

// Body is the physics representation of one entity within an area. One
// body per physics-enabled entity; the registry owns it and destroys it
// when the entity leaves the area.
type Body struct {
	Entity          uint32
	Position        math.Vec3
	Velocity        math.Vec3
	AngularVelocity math.Vec3
	Mass            float32
	HalfExtents     math.Vec3
	Dynamic         bool
}

// Static reports whether the body never moves. Zero mass means static.
func (b *Body) Static() bool {
	return b.Mass == 0
}

// AABB returns the body's axis-aligned bounds at its current position.
func (b *Body) AABB() (min, max math.Vec3) {
	return b.Position.Sub(b.HalfExtents), b.Position.Add(b.HalfExtents)
}
