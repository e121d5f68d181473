package world

import (
	"fmt"
	gomath "math"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Faultbox/eclipse/internal/engine/physics"
	"github.com/Faultbox/eclipse/internal/game/area"
	"github.com/Faultbox/eclipse/internal/game/entity"
	"github.com/Faultbox/eclipse/internal/logger"
	"github.com/Faultbox/eclipse/pkg/math"
)

// Radial search parameters for arrival placement: when projection fails
// at the entity's raw position, sample increasing rings around it.
const (
	searchRadii      = 10
	searchStep       = 1.0
	searchDirections = 8
)

// Transfer moves an entity from one area to another, preserving its
// physics state. The departure completes fully before the arrival
// begins; the two areas' state never interleaves.
//
// Failure policy: an unresolvable destination aborts and restores the
// entity to the source; a projection failure only degrades the arrival
// position; a physics-restore failure only degrades physics continuity.
func (w *World) Transfer(entityID uint32, fromID, toID string) error {
	trace := uuid.NewString()

	src, ok := w.areas[fromID]
	if !ok {
		return fmt.Errorf("transfer %s: source area %q not loaded", trace, fromID)
	}

	// Departing. Capture physics before removal destroys the body; an
	// entity with no body yields a "no physics" snapshot.
	snapshot := src.Physics.Snapshot(entityID)
	e, present := src.RemoveEntity(entityID)
	if !present {
		return fmt.Errorf("transfer %s: entity %d not in area %q", trace, entityID, fromID)
	}

	logger.Debug("transition departing",
		zap.String("trace", trace),
		zap.Uint32("entity", entityID),
		zap.String("from", fromID),
		zap.Bool("physics", snapshot.HasPhysics))

	dst, ok := w.areas[toID]
	if !ok {
		// Roll back the departure; the source area must not lose the
		// entity over a missing destination.
		if err := src.AddEntity(e); err != nil {
			logger.Error("transition rollback failed",
				zap.String("trace", trace), zap.Error(err))
		} else if snapshot.HasPhysics {
			restorePhysics(src, e, snapshot, trace)
		}
		return fmt.Errorf("transfer %s: destination area %q not loaded", trace, toID)
	}

	// Arriving. Place the entity on the destination mesh, searching
	// outward if its raw position projects onto nothing. Exhausting the
	// search leaves the position unchanged rather than blocking the
	// transition.
	if projected, _, ok := dst.Mesh.ProjectToSurface(e.Position); ok {
		e.Position = projected
	} else if sampled, found := radialSearch(dst, e.Position); found {
		e.Position = sampled
	} else {
		logger.Warn("transition arrival position off-mesh",
			zap.String("trace", trace),
			zap.Uint32("entity", entityID),
			zap.String("to", toID))
	}

	if snapshot.HasPhysics {
		restorePhysics(dst, e, snapshot, trace)
	}

	if err := dst.AddEntity(e); err != nil {
		return fmt.Errorf("transfer %s: inserting entity %d into %q: %w", trace, entityID, toID, err)
	}

	logger.Info("transition complete",
		zap.String("trace", trace),
		zap.Uint32("entity", entityID),
		zap.String("from", fromID),
		zap.String("to", toID))
	return nil
}

// radialSearch retries projection on rings of increasing radius around
// the point: searchRadii rings one step apart, searchDirections samples
// 45 degrees apart on each. First success wins.
func radialSearch(dst *area.Area, p math.Vec3) (math.Vec3, bool) {
	for ring := 1; ring <= searchRadii; ring++ {
		radius := float32(ring) * searchStep
		for d := 0; d < searchDirections; d++ {
			angle := float64(d) * (2 * gomath.Pi / searchDirections)
			sample := math.Vec3{
				X: p.X + radius*float32(gomath.Cos(angle)),
				Y: p.Y,
				Z: p.Z + radius*float32(gomath.Sin(angle)),
			}
			if projected, _, ok := dst.Mesh.ProjectToSurface(sample); ok {
				return projected, true
			}
		}
	}
	return math.Vec3{}, false
}

// restorePhysics rebuilds the entity's body in the destination registry
// from its snapshot. A failed SetState means the body was missing: add
// it and retry exactly once; a second failure is dropped and the entity
// keeps default physics.
func restorePhysics(dst *area.Area, e *entity.Entity, snap physics.Snapshot, trace string) {
	addBody := func() {
		dst.Physics.AddBody(e.ID, e.Position, snap.State.Mass, e.HalfExtents(), snap.State.Mass > 0)
	}

	addBody()
	if dst.Physics.SetState(e.ID, snap.State) {
		return
	}

	addBody()
	if !dst.Physics.SetState(e.ID, snap.State) {
		logger.Warn("physics restore dropped after retry",
			zap.String("trace", trace),
			zap.Uint32("entity", e.ID))
	}
}
