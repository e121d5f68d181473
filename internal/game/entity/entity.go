// Package entity implements area-resident game objects.
package entity

import (
	"github.com/Faultbox/eclipse/pkg/math"
)

// Category is the closed set of object kinds an area can hold.
type Category uint8

const (
	CategoryCreature Category = iota
	CategoryPlaceable
	CategoryDoor
	CategoryTrigger
	CategoryWaypoint
	CategorySound

	// CategoryCount is the number of categories; keep last.
	CategoryCount
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryCreature:
		return "creature"
	case CategoryPlaceable:
		return "placeable"
	case CategoryDoor:
		return "door"
	case CategoryTrigger:
		return "trigger"
	case CategoryWaypoint:
		return "waypoint"
	case CategorySound:
		return "sound"
	default:
		return "unknown"
	}
}

// Well-known data bag keys. The bag is free-form; the engine reads these.
const (
	KeyPhysics      = "physics"      // Nonzero: entity gets a rigid body
	KeyMass         = "mass"         // Rigid body mass; 0 means static
	KeyObstacle     = "obstacle"     // Nonzero: entity is a dynamic nav obstacle
	KeyDestructible = "destructible" // Nonzero: entity can be destroyed
	KeyDebrisCount  = "debris_count" // Debris pieces spawned on destruction
	KeyHalfX        = "half_x"       // Bounds half extents; default 0.5 each
	KeyHalfY        = "half_y"
	KeyHalfZ        = "half_z"
)

// DefaultHalfExtent is used when an entity declares no bounds.
const DefaultHalfExtent float32 = 0.5

// Entity is one object placed in an area. Entities reference their
// owning area and world only by identifier lookups held elsewhere; they
// carry no back-pointers.
type Entity struct {
	ID       uint32
	Category Category
	Tag      string
	Name     string
	Position math.Vec3
	Bearing  float32 // Facing, degrees about the vertical axis

	// Data is the generic numeric bag attached by placement resources
	// and scripts. Flags are nonzero values.
	Data map[string]float32
}

// New creates an entity with an empty data bag.
func New(id uint32, category Category, tag string) *Entity {
	return &Entity{
		ID:       id,
		Category: category,
		Tag:      tag,
		Data:     make(map[string]float32),
	}
}

// DataValue returns a bag value and whether it was set.
func (e *Entity) DataValue(key string) (float32, bool) {
	v, ok := e.Data[key]
	return v, ok
}

// SetData stores a bag value, allocating the bag if needed.
func (e *Entity) SetData(key string, value float32) {
	if e.Data == nil {
		e.Data = make(map[string]float32)
	}
	e.Data[key] = value
}

// Flag reports whether a bag value is set and nonzero.
func (e *Entity) Flag(key string) bool {
	return e.Data[key] != 0
}

// HalfExtents returns the entity's declared bounds half extents, with
// defaults for axes it does not declare.
func (e *Entity) HalfExtents() math.Vec3 {
	out := math.Vec3{X: DefaultHalfExtent, Y: DefaultHalfExtent, Z: DefaultHalfExtent}
	if v, ok := e.Data[KeyHalfX]; ok && v > 0 {
		out.X = v
	}
	if v, ok := e.Data[KeyHalfY]; ok && v > 0 {
		out.Y = v
	}
	if v, ok := e.Data[KeyHalfZ]; ok && v > 0 {
		out.Z = v
	}
	return out
}
