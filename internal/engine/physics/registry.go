package physics

import (
	gomath "math"

	"go.uber.org/zap"

	"github.com/Faultbox/eclipse/internal/logger"
	"github.com/Faultbox/eclipse/pkg/math"
)

// State is the transferable portion of a body: what survives an area
// transition. Constraints are those with the entity as primary.
type State struct {
	Velocity        math.Vec3
	AngularVelocity math.Vec3
	Mass            float32
	Constraints     []Constraint
}

// Registry owns the rigid bodies and constraints of one area. All
// operations are synchronous; the simulation advances only when the
// caller invokes StepSimulation.
type Registry struct {
	gravity float32
	damping float32

	bodies      map[uint32]*Body
	order       []uint32 // Insertion order, for a deterministic step
	constraints []Constraint
}

// NewRegistry creates an empty registry. gravity is the downward
// acceleration applied to dynamic bodies; damping is the per-second
// velocity decay (0 for none).
func NewRegistry(gravity, damping float32) *Registry {
	return &Registry{
		gravity: gravity,
		damping: damping,
		bodies:  make(map[uint32]*Body),
	}
}

// AddBody registers a body for an entity. No-op if the entity already
// has one. A zero mass makes the body static regardless of isDynamic.
func (r *Registry) AddBody(entity uint32, position math.Vec3, mass float32, halfExtents math.Vec3, isDynamic bool) {
	if _, exists := r.bodies[entity]; exists {
		return
	}
	r.bodies[entity] = &Body{
		Entity:      entity,
		Position:    position,
		Mass:        mass,
		HalfExtents: halfExtents,
		Dynamic:     isDynamic && mass > 0,
	}
	r.order = append(r.order, entity)
}

// RemoveBody destroys an entity's body and every constraint referencing
// the entity as primary or secondary. No-op if the entity has no body.
func (r *Registry) RemoveBody(entity uint32) {
	if _, exists := r.bodies[entity]; !exists {
		return
	}
	delete(r.bodies, entity)
	for i, id := range r.order {
		if id == entity {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}

	kept := r.constraints[:0]
	for _, c := range r.constraints {
		if !c.References(entity) {
			kept = append(kept, c)
		}
	}
	r.constraints = kept
}

// Has reports whether the entity has a body.
func (r *Registry) Has(entity uint32) bool {
	_, ok := r.bodies[entity]
	return ok
}

// Body returns the entity's body for direct inspection or mutation.
func (r *Registry) Body(entity uint32) (*Body, bool) {
	b, ok := r.bodies[entity]
	return b, ok
}

// Len returns the number of bodies.
func (r *Registry) Len() int {
	return len(r.bodies)
}

// GetState returns a copy of the entity's transferable state, including
// deep copies of the constraints it is primary on. found is false if the
// entity has no body.
func (r *Registry) GetState(entity uint32) (State, bool) {
	b, ok := r.bodies[entity]
	if !ok {
		return State{}, false
	}
	return State{
		Velocity:        b.Velocity,
		AngularVelocity: b.AngularVelocity,
		Mass:            b.Mass,
		Constraints:     r.constraintsFor(entity),
	}, true
}

// SetState overwrites the entity's velocity, angular velocity, and mass,
// and re-adds each given constraint with the entity bound as primary.
// Returns false if the entity has no body; callers are expected to add
// the body and retry once rather than treat this as an error.
func (r *Registry) SetState(entity uint32, s State) bool {
	b, ok := r.bodies[entity]
	if !ok {
		return false
	}
	b.Velocity = s.Velocity
	b.AngularVelocity = s.AngularVelocity
	b.Mass = s.Mass
	b.Dynamic = b.Dynamic && b.Mass > 0

	for _, c := range s.Constraints {
		bound := c.Clone()
		bound.Primary = entity
		r.AddConstraint(bound)
	}
	return true
}

// AddConstraint registers a joint. The primary entity need not have a
// body yet; constraints are inert until the bodies they reference exist.
func (r *Registry) AddConstraint(c Constraint) {
	r.constraints = append(r.constraints, c)
}

// constraintsFor returns deep copies of constraints with the entity as
// primary.
func (r *Registry) constraintsFor(entity uint32) []Constraint {
	var out []Constraint
	for _, c := range r.constraints {
		if c.Primary == entity {
			out = append(out, c.Clone())
		}
	}
	return out
}

// Constraints returns a copy of every registered constraint.
func (r *Registry) Constraints() []Constraint {
	out := make([]Constraint, 0, len(r.constraints))
	for _, c := range r.constraints {
		out = append(out, c.Clone())
	}
	return out
}

// StepSimulation advances all dynamic bodies by one timestep using
// semi-implicit Euler with gravity and linear damping. Static bodies
// (zero mass) never move. Invoked synchronously once per frame by the
// area's update.
func (r *Registry) StepSimulation(dt float32) {
	if dt <= 0 {
		return
	}

	decay := 1 - r.damping*dt
	if decay < 0 {
		decay = 0
	}

	for _, id := range r.order {
		b := r.bodies[id]
		if b.Static() || !b.Dynamic {
			continue
		}
		b.Velocity.Y -= r.gravity * dt
		b.Velocity = b.Velocity.Scale(decay)
		b.AngularVelocity = b.AngularVelocity.Scale(decay)
		b.Position = b.Position.Add(b.Velocity.Scale(dt))
	}
}

// RayCast finds the nearest body whose bounds the ray hits. Returns the
// hit point and the owning entity; hit is false if the ray misses
// everything.
func (r *Registry) RayCast(origin, direction math.Vec3) (point math.Vec3, entity uint32, hit bool) {
	dir := direction.Normalize()
	if dir == (math.Vec3{}) {
		return math.Vec3{}, 0, false
	}

	bestT := float32(gomath.MaxFloat32)
	for _, id := range r.order {
		b := r.bodies[id]
		min, max := b.AABB()
		t, ok := rayAABB(origin, dir, min, max)
		if ok && t < bestT {
			bestT = t
			entity = id
			hit = true
		}
	}

	if !hit {
		return math.Vec3{}, 0, false
	}

	point = origin.Add(dir.Scale(bestT))
	logger.Debug("ray cast hit",
		zap.Uint32("entity", entity),
		zap.Float32("distance", bestT))
	return point, entity, true
}

// rayAABB is the slab-method ray/box intersection. Returns the entry
// distance, or the exit distance when the origin is inside the box.
func rayAABB(origin, dir, min, max math.Vec3) (float32, bool) {
	tmin := float32(-gomath.MaxFloat32)
	tmax := float32(gomath.MaxFloat32)

	for axis := 0; axis < 3; axis++ {
		o := pick(origin, axis)
		d := pick(dir, axis)
		lo := pick(min, axis)
		hi := pick(max, axis)

		if d != 0 {
			t1 := (lo - o) / d
			t2 := (hi - o) / d
			if t1 > t2 {
				t1, t2 = t2, t1
			}
			if t1 > tmin {
				tmin = t1
			}
			if t2 < tmax {
				tmax = t2
			}
		} else if o < lo || o > hi {
			return 0, false
		}
	}

	if tmax < tmin || tmax < 0 {
		return 0, false
	}
	if tmin < 0 {
		return tmax, true // Origin inside the box
	}
	return tmin, true
}

func pick(v math.Vec3, axis int) float32 {
	switch axis {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}
