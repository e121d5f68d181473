// Package main is a small driver that loads a demo module and runs the
// area runtime: navigation mesh queries, obstacle updates, physics
// steps, runtime modifications, and an area transition.
package main

import (
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/eclipse/internal/assets"
	"github.com/Faultbox/eclipse/internal/config"
	"github.com/Faultbox/eclipse/internal/engine/lighting"
	"github.com/Faultbox/eclipse/internal/engine/nav"
	"github.com/Faultbox/eclipse/internal/game/area"
	"github.com/Faultbox/eclipse/internal/game/entity"
	"github.com/Faultbox/eclipse/internal/game/movement"
	"github.com/Faultbox/eclipse/internal/game/world"
	"github.com/Faultbox/eclipse/internal/logger"
	"github.com/Faultbox/eclipse/pkg/math"
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== Eclipse area runtime ===")

	areaCfg := area.Config{
		Nav: nav.Options{
			CellSize:            cfg.Nav.CellSize,
			ProjectionTolerance: cfg.Nav.ProjectionTolerance,
		},
		Gravity: cfg.Simulation.Gravity,
		Damping: cfg.Simulation.LinearDamping,
	}

	if err := run(cfg, areaCfg); err != nil {
		logger.Error("runtime error", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("shut down normally")
}

func run(cfg *config.Config, areaCfg area.Config) error {
	// Packed room surfaces come from the configured module archives; the
	// demo falls back to built-in floors when none resolve.
	mgr := assets.NewManager()
	defer mgr.Close()
	for _, p := range cfg.Data.ModulePaths {
		if err := mgr.AddArchive(p); err != nil {
			logger.Warn("skipping module archive",
				zap.String("path", p), zap.Error(err))
		}
	}

	// Two areas: a two-room tavern and a single-room cellar.
	tavernRooms := area.LoadRooms(mgr, []area.RoomPlacement{
		{Resource: "rooms/tavern_main"},
		{Resource: "rooms/tavern_annex", Position: math.Vec3{X: 20}},
	})
	if tavernRooms[0].Surface == nil {
		tavernRooms = []nav.Room{
			{Surface: floorSurface(20, 20)},
			{Surface: floorSurface(20, 20), Position: math.Vec3{X: 20}},
		}
	}

	tavern, err := area.New("tavern", tavernRooms, areaCfg)
	if err != nil {
		return err
	}

	cellar, err := area.New("cellar", []nav.Room{
		{Surface: floorSurface(20, 20), Position: math.Vec3{Y: -5}},
	}, areaCfg)
	if err != nil {
		return err
	}

	w := world.New()
	w.AddArea(tavern)
	w.AddArea(cellar)

	// A creature with physics and a destructible crate blocking a doorway.
	hero := entity.New(1, entity.CategoryCreature, "hero")
	hero.Position = math.Vec3{X: 5, Y: 0.2, Z: 5}
	hero.SetData(entity.KeyPhysics, 1)
	hero.SetData(entity.KeyMass, 80)

	crate := entity.New(2, entity.CategoryPlaceable, "crate")
	crate.Position = math.Vec3{X: 10, Y: 0, Z: 10}
	crate.SetData(entity.KeyObstacle, 1)
	crate.SetData(entity.KeyDestructible, 1)
	crate.SetData(entity.KeyDebrisCount, 4)

	// A patron without physics, walked across the room by a mover.
	patron := entity.New(3, entity.CategoryCreature, "patron")
	patron.Position = math.Vec3{X: 3, Y: 0, Z: 3}
	mover := movement.NewMover(2)
	mover.SetGoal(math.Vec3{X: 17, Y: 0, Z: 15})

	for _, e := range []*entity.Entity{hero, crate, patron} {
		if err := tavern.ApplyModification(area.AddEntity{Entity: e}); err != nil {
			return err
		}
	}

	if err := tavern.ApplyModification(area.AddLight{Light: lighting.Light{
		ID:       1,
		Position: math.Vec3{X: 10, Y: 3, Z: 10},
		Color:    [3]float32{1, 0.9, 0.7},
		Range:    15,
	}}); err != nil {
		return err
	}

	dt := 1.0 / float32(cfg.Simulation.TickRate)
	tickEvery := time.Second / time.Duration(cfg.Simulation.TickRate)

	for tick := 0; tick < cfg.Simulation.TickRate*2; tick++ {
		tavern.Update(dt)
		cellar.Update(dt)
		mover.Step(tavern.Mesh, patron, dt)

		switch tick {
		case cfg.Simulation.TickRate / 2:
			// Blow up the crate halfway through.
			destroy, err := area.NewDestroyObject(crate.ID, crate.Position, 2.0)
			if err != nil {
				return err
			}
			if err := tavern.ApplyModification(destroy); err != nil {
				return err
			}
		case cfg.Simulation.TickRate:
			if err := w.Transfer(hero.ID, "tavern", "cellar"); err != nil {
				return err
			}
		}

		time.Sleep(tickEvery)
	}

	logger.Info("simulation finished",
		zap.Int("tavern_entities", tavern.EntityCount()),
		zap.Int("cellar_entities", cellar.EntityCount()),
		zap.Int("tavern_dirty_faces", len(tavern.Mesh.DirtyFaces())))
	return nil
}

// floorSurface builds a flat rectangular walkmesh of two triangles.
func floorSurface(width, depth float32) *nav.Surface {
	return &nav.Surface{
		Vertices: []math.Vec3{
			{X: 0, Y: 0, Z: 0},
			{X: width, Y: 0, Z: 0},
			{X: width, Y: 0, Z: depth},
			{X: 0, Y: 0, Z: depth},
		},
		Faces: []nav.Face{
			{Verts: [3]int32{0, 1, 2}, Material: nav.MaterialStone, Adjacent: [3]int32{nav.NoAdjacent, nav.NoAdjacent, 1}},
			{Verts: [3]int32{0, 2, 3}, Material: nav.MaterialStone, Adjacent: [3]int32{0, nav.NoAdjacent, nav.NoAdjacent}},
		},
	}
}
