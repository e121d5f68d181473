// Package area implements loaded levels: the combined navigation mesh,
// typed entity collections, the rigid body registry, lights, and the
// runtime modification protocol that mutates all of them.
package area

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/eclipse/internal/engine/lighting"
	"github.com/Faultbox/eclipse/internal/engine/nav"
	"github.com/Faultbox/eclipse/internal/engine/physics"
	"github.com/Faultbox/eclipse/internal/game/entity"
	"github.com/Faultbox/eclipse/internal/logger"
)

// Properties are the runtime-modifiable area settings.
type Properties struct {
	DisplayName string
	Tag         string
	Unescapable bool
}

// Destroyer receives world-level entity destruction requests issued by
// area modifications. The world implements it; areas hold it as a
// non-owning reference.
type Destroyer interface {
	RequestDestroy(entityID uint32)
}

// Config tunes area construction.
type Config struct {
	Nav     nav.Options
	Gravity float32
	Damping float32
}

// DefaultConfig returns the construction defaults.
func DefaultConfig() Config {
	return Config{
		Nav:     nav.DefaultOptions(),
		Gravity: 9.81,
		Damping: 0.05,
	}
}

// Area is one loaded level. Its navigation mesh, physics registry, and
// lights are owned here and released together when the area unloads; two
// areas never share state.
type Area struct {
	ID    string
	Props Properties

	Mesh      *nav.Mesh
	Obstacles *nav.ObstacleRegistry
	Physics   *physics.Registry
	Lights    *lighting.Set

	// One container per category; the routing table is the map itself.
	collections map[entity.Category][]*entity.Entity
	byID        map[uint32]*entity.Entity

	world Destroyer

	// IDs handed to engine-spawned entities (debris). High range so they
	// never collide with placement-assigned IDs.
	nextSpawnID uint32
}

// New builds an area from placed rooms. Rooms with nil surfaces
// contribute no geometry; zero rooms produce a valid area that is
// walkable nowhere.
func New(id string, rooms []nav.Room, cfg Config) (*Area, error) {
	mesh, err := nav.NewMesh(rooms, cfg.Nav)
	if err != nil {
		return nil, fmt.Errorf("area %s: %w", id, err)
	}

	a := &Area{
		ID:          id,
		Mesh:        mesh,
		Physics:     physics.NewRegistry(cfg.Gravity, cfg.Damping),
		Lights:      lighting.NewSet(),
		collections: make(map[entity.Category][]*entity.Entity),
		byID:        make(map[uint32]*entity.Entity),
		nextSpawnID: 1 << 24,
	}
	a.Obstacles = nav.NewObstacleRegistry(mesh)

	logger.Info("area loaded",
		zap.String("area", id),
		zap.Int("rooms", len(rooms)))

	return a, nil
}

// SetWorld binds the world-level destroyer. Optional; destruction
// requests are dropped with a warning if unset.
func (a *Area) SetWorld(d Destroyer) {
	a.world = d
}

// AddEntity inserts an entity into its category's collection. Entities
// flagged for physics get a rigid body; entities flagged as obstacles
// are registered with the obstacle registry. Returns an error on a
// duplicate ID.
func (a *Area) AddEntity(e *entity.Entity) error {
	if e.Category >= entity.CategoryCount {
		return fmt.Errorf("entity %d: unknown category %d", e.ID, e.Category)
	}
	if _, dup := a.byID[e.ID]; dup {
		return fmt.Errorf("entity %d already present in area %s", e.ID, a.ID)
	}

	a.collections[e.Category] = append(a.collections[e.Category], e)
	a.byID[e.ID] = e

	if e.Flag(entity.KeyPhysics) {
		mass, _ := e.DataValue(entity.KeyMass)
		a.Physics.AddBody(e.ID, e.Position, mass, e.HalfExtents(), mass > 0)
	}
	if e.Flag(entity.KeyObstacle) {
		he := e.HalfExtents()
		a.Obstacles.Add(e.ID, nav.NewRegionAround(e.Position, he.X, he.Z), true)
	}
	return nil
}

// RemoveEntity removes an entity from its collection, the obstacle
// registry, and the physics registry. Returns the removed entity, or
// false if the ID is not present.
func (a *Area) RemoveEntity(id uint32) (*entity.Entity, bool) {
	e, ok := a.byID[id]
	if !ok {
		return nil, false
	}

	col := a.collections[e.Category]
	for i, candidate := range col {
		if candidate.ID == id {
			a.collections[e.Category] = append(col[:i], col[i+1:]...)
			break
		}
	}
	delete(a.byID, id)

	a.Obstacles.Remove(id)
	a.Physics.RemoveBody(id)
	return e, true
}

// EntityByID looks up an entity.
func (a *Area) EntityByID(id uint32) (*entity.Entity, bool) {
	e, ok := a.byID[id]
	return e, ok
}

// EntitiesByCategory returns the category's collection in insertion
// order. The slice is shared; callers must not mutate it.
func (a *Area) EntitiesByCategory(c entity.Category) []*entity.Entity {
	return a.collections[c]
}

// EntityByTag returns the nth entity with the given tag (0-based),
// scanning categories in declaration order and each collection in
// insertion order.
func (a *Area) EntityByTag(tag string, nth int) (*entity.Entity, bool) {
	seen := 0
	for c := entity.Category(0); c < entity.CategoryCount; c++ {
		for _, e := range a.collections[c] {
			if e.Tag != tag {
				continue
			}
			if seen == nth {
				return e, true
			}
			seen++
		}
	}
	return nil, false
}

// EntityCount returns the total number of entities across categories.
func (a *Area) EntityCount() int {
	return len(a.byID)
}

// allocSpawnID hands out IDs for engine-spawned entities such as debris.
func (a *Area) allocSpawnID() uint32 {
	id := a.nextSpawnID
	a.nextSpawnID++
	return id
}

// Update runs one frame of area simulation: the obstacle pass first, so
// walkability is current before anything queries it, then the physics
// step.
func (a *Area) Update(dt float32) {
	a.Obstacles.Update()
	a.Physics.StepSimulation(dt)
}

// refreshNav runs the obstacle pass so face blocking reflects the
// modification that just applied. The dirty-face set is left for
// pathfinding caches to consume.
func (a *Area) refreshNav() {
	a.Obstacles.Update()
	logger.Debug("nav refresh",
		zap.String("area", a.ID),
		zap.Int("dirty_faces", len(a.Mesh.DirtyFaces())))
}

// refreshPhysics syncs entity positions from their rigid bodies so
// modifications that disturbed the physics state (debris, holes under
// stacked objects) leave entities where their bodies are.
func (a *Area) refreshPhysics() {
	for id, e := range a.byID {
		if b, ok := a.Physics.Body(id); ok {
			e.Position = b.Position
		}
	}
}

// refreshLighting rebuilds the packed light buffers.
func (a *Area) refreshLighting() {
	a.Lights.Refresh()
}
