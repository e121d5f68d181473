package physics

import "github.com/Faultbox/eclipse/pkg/math"

// ConstraintType enumerates the supported joint kinds.
type ConstraintType uint8

const (
	ConstraintPointToPoint ConstraintType = iota
	ConstraintHinge
	ConstraintDistance
	ConstraintSpring
	ConstraintFixed
	ConstraintSlider
	ConstraintConeTwist
)

// String returns the joint kind name.
func (t ConstraintType) String() string {
	switch t {
	case ConstraintPointToPoint:
		return "point-to-point"
	case ConstraintHinge:
		return "hinge"
	case ConstraintDistance:
		return "distance"
	case ConstraintSpring:
		return "spring"
	case ConstraintFixed:
		return "fixed"
	case ConstraintSlider:
		return "slider"
	case ConstraintConeTwist:
		return "cone-twist"
	default:
		return "unknown"
	}
}

// WorldAnchor as a secondary entity means the constraint is anchored to
// the world rather than to another body.
const WorldAnchor uint32 = 0

// Constraint is a typed joint between a primary entity and either a
// secondary entity or the world. Params carries joint-specific values
// (spring constants, limits) keyed by name.
type Constraint struct {
	Type      ConstraintType
	Primary   uint32
	Secondary uint32 // WorldAnchor if anchored to the world
	AnchorA   math.Vec3
	AnchorB   math.Vec3
	Params    map[string]float32
}

// Clone returns a deep copy; the parameter map is not shared.
func (c Constraint) Clone() Constraint {
	out := c
	if c.Params != nil {
		out.Params = make(map[string]float32, len(c.Params))
		for k, v := range c.Params {
			out.Params[k] = v
		}
	}
	return out
}

// References reports whether the constraint involves the entity as
// primary or secondary.
func (c Constraint) References(entity uint32) bool {
	return c.Primary == entity || (c.Secondary != WorldAnchor && c.Secondary == entity)
}
