// Package movement drives entities across an area's navigation mesh.
package movement

import (
	gomath "math"

	"github.com/Faultbox/eclipse/internal/engine/nav"
	"github.com/Faultbox/eclipse/internal/game/entity"
	"github.com/Faultbox/eclipse/pkg/math"
)

// ArrivalThreshold is the distance at which an entity is considered to
// have arrived.
const ArrivalThreshold = 0.25

// DefaultSpeed is the default movement speed in world units per second.
const DefaultSpeed = 4.0

// Mover walks one entity toward a goal point, one step per tick. The
// entity stays glued to the walkable surface; a step onto an unwalkable
// or missing face stops the move short.
type Mover struct {
	Speed float32

	goal    math.Vec3
	hasGoal bool
}

// NewMover creates a mover with the given speed; zero or negative means
// DefaultSpeed.
func NewMover(speed float32) *Mover {
	if speed <= 0 {
		speed = DefaultSpeed
	}
	return &Mover{Speed: speed}
}

// SetGoal sets the point the entity walks toward.
func (m *Mover) SetGoal(p math.Vec3) {
	m.goal = p
	m.hasGoal = true
}

// ClearGoal cancels the current move.
func (m *Mover) ClearGoal() {
	m.hasGoal = false
}

// Moving reports whether a goal is pending.
func (m *Mover) Moving() bool {
	return m.hasGoal
}

// Step advances the entity toward the goal by one tick. Returns true if
// the entity moved. Arrival and blocked steps both clear the goal.
func (m *Mover) Step(mesh *nav.Mesh, e *entity.Entity, dt float32) bool {
	if !m.hasGoal || dt <= 0 {
		return false
	}

	dx := m.goal.X - e.Position.X
	dz := m.goal.Z - e.Position.Z
	dist := float32(gomath.Sqrt(float64(dx*dx + dz*dz)))

	if dist < ArrivalThreshold {
		m.hasGoal = false
		return false
	}

	dx /= dist
	dz /= dist

	amount := m.Speed * dt
	if amount > dist {
		amount = dist
	}

	candidate := e.Position.Add(math.Vec3{X: dx * amount, Z: dz * amount})
	projected, _, ok := mesh.ProjectToSurface(candidate)
	if !ok {
		// Hit an edge, hole, or obstacle; stop short.
		m.hasGoal = false
		return false
	}

	e.Position = projected
	e.Bearing = DirectionFromVector(dx, dz).Degrees()
	return true
}
