package nav

import (
	"go.uber.org/zap"

	"github.com/Faultbox/eclipse/internal/logger"
	"github.com/Faultbox/eclipse/pkg/math"
)

// Region is an axis-aligned rectangle in the horizontal plane.
type Region struct {
	Min, Max math.Vec2
}

// NewRegionAround returns the region centered on a point with the given
// half extents.
func NewRegionAround(center math.Vec3, halfX, halfZ float32) Region {
	return Region{
		Min: math.Vec2{X: center.X - halfX, Y: center.Z - halfZ},
		Max: math.Vec2{X: center.X + halfX, Y: center.Z + halfZ},
	}
}

// Obstacle is a moving or toggleable region that suppresses walkability
// on the faces it covers without altering mesh geometry.
type Obstacle struct {
	Entity uint32
	Bounds Region
	Active bool

	// State at the last update pass.
	lastBounds Region
	lastActive bool
	recorded   bool
	overlap    []int32 // Faces this obstacle currently blocks
}

// ObstacleRegistry tracks dynamic obstacles for one navigation mesh and
// keeps per-face block state consistent when obstacles move, toggle, or
// overlap each other.
type ObstacleRegistry struct {
	mesh       *Mesh
	obstacles  map[uint32]*Obstacle
	blockCount map[int32]int // Active obstacles covering each face
}

// NewObstacleRegistry creates an empty registry bound to a mesh.
func NewObstacleRegistry(mesh *Mesh) *ObstacleRegistry {
	return &ObstacleRegistry{
		mesh:       mesh,
		obstacles:  make(map[uint32]*Obstacle),
		blockCount: make(map[int32]int),
	}
}

// Add registers an obstacle for an entity. No-op if one already exists;
// face blocking takes effect on the next Update pass.
func (r *ObstacleRegistry) Add(entity uint32, bounds Region, active bool) {
	if _, exists := r.obstacles[entity]; exists {
		return
	}
	r.obstacles[entity] = &Obstacle{
		Entity: entity,
		Bounds: bounds,
		Active: active,
	}
}

// Has reports whether the entity has a registered obstacle.
func (r *ObstacleRegistry) Has(entity uint32) bool {
	_, ok := r.obstacles[entity]
	return ok
}

// SetBounds moves an obstacle. Takes effect on the next Update pass.
func (r *ObstacleRegistry) SetBounds(entity uint32, bounds Region) {
	if o, ok := r.obstacles[entity]; ok {
		o.Bounds = bounds
	}
}

// SetActive toggles an obstacle. Takes effect on the next Update pass.
func (r *ObstacleRegistry) SetActive(entity uint32, active bool) {
	if o, ok := r.obstacles[entity]; ok {
		o.Active = active
	}
}

// Remove unregisters an entity's obstacle, releasing any faces it blocks
// immediately.
func (r *ObstacleRegistry) Remove(entity uint32) {
	o, ok := r.obstacles[entity]
	if !ok {
		return
	}
	released := o.overlap
	r.release(o)
	for _, faceID := range released {
		r.mesh.markDirty(faceID)
	}
	delete(r.obstacles, entity)
}

// Update runs the per-frame obstacle pass: for every obstacle whose
// bounds or active state changed since the last pass, release its old
// face overlap (unless another active obstacle still covers a face),
// recompute the overlap from the spatial index, block the new set if
// active, and mark the symmetric difference dirty.
func (r *ObstacleRegistry) Update() {
	for _, o := range r.obstacles {
		if o.recorded && o.Bounds == o.lastBounds && o.Active == o.lastActive {
			continue
		}

		oldOverlap := o.overlap
		r.release(o)

		if o.Active {
			o.overlap = r.mesh.index.queryRect(o.Bounds.Min.X, o.Bounds.Min.Y, o.Bounds.Max.X, o.Bounds.Max.Y)
			for _, faceID := range o.overlap {
				r.blockCount[faceID]++
				r.mesh.setBlocked(faceID, true)
			}
		}

		for _, faceID := range symmetricDifference(oldOverlap, o.overlap) {
			r.mesh.markDirty(faceID)
		}

		o.lastBounds = o.Bounds
		o.lastActive = o.Active
		o.recorded = true

		logger.Debug("obstacle updated",
			zap.Uint32("entity", o.Entity),
			zap.Bool("active", o.Active),
			zap.Int("faces", len(o.overlap)))
	}
}

// release drops an obstacle's current overlap, unblocking faces no other
// active obstacle covers.
func (r *ObstacleRegistry) release(o *Obstacle) {
	for _, faceID := range o.overlap {
		r.blockCount[faceID]--
		if r.blockCount[faceID] <= 0 {
			delete(r.blockCount, faceID)
			r.mesh.setBlocked(faceID, false)
		}
	}
	o.overlap = nil
}

func symmetricDifference(a, b []int32) []int32 {
	inA := make(map[int32]struct{}, len(a))
	for _, v := range a {
		inA[v] = struct{}{}
	}

	var out []int32
	for _, v := range b {
		if _, ok := inA[v]; ok {
			delete(inA, v)
		} else {
			out = append(out, v)
		}
	}
	for v := range inA {
		out = append(out, v)
	}
	return out
}
