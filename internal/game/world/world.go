// Package world ties loaded areas together: area lookup by identifier,
// world-level entity destruction, and transitions that move an entity
// from one area's navigation and physics state to another's.
package world

import (
	"go.uber.org/zap"

	"github.com/Faultbox/eclipse/internal/game/area"
	"github.com/Faultbox/eclipse/internal/logger"
)

// World is the registry of loaded areas. Areas reference it only through
// the narrow interfaces it implements; it owns no area internals.
type World struct {
	areas map[string]*area.Area
}

// New creates an empty world.
func New() *World {
	return &World{
		areas: make(map[string]*area.Area),
	}
}

// AddArea registers a loaded area and binds the world as its destroyer.
func (w *World) AddArea(a *area.Area) {
	w.areas[a.ID] = a
	a.SetWorld(w)
}

// RemoveArea unloads an area. Its mesh, bodies, and lights go with it.
func (w *World) RemoveArea(id string) {
	delete(w.areas, id)
}

// Area resolves an area by identifier.
func (w *World) Area(id string) (*area.Area, bool) {
	a, ok := w.areas[id]
	return a, ok
}

// RequestDestroy removes the entity from whichever area holds it.
// Implements area.Destroyer.
func (w *World) RequestDestroy(entityID uint32) {
	for _, a := range w.areas {
		if _, ok := a.EntityByID(entityID); ok {
			a.RemoveEntity(entityID)
			logger.Debug("entity destroyed",
				zap.Uint32("entity", entityID),
				zap.String("area", a.ID))
			return
		}
	}
	logger.Debug("destroy request for unknown entity",
		zap.Uint32("entity", entityID))
}
