package world

import (
	"testing"

	"github.com/Faultbox/eclipse/internal/engine/nav"
	"github.com/Faultbox/eclipse/internal/engine/physics"
	"github.com/Faultbox/eclipse/internal/game/area"
	"github.com/Faultbox/eclipse/internal/game/entity"
	"github.com/Faultbox/eclipse/pkg/math"
)

// floorSurface builds a flat stone rectangle spanning [0,w] x [0,d].
func floorSurface(w, d float32) *nav.Surface {
	return &nav.Surface{
		Vertices: []math.Vec3{
			{X: 0, Y: 0, Z: 0},
			{X: w, Y: 0, Z: 0},
			{X: w, Y: 0, Z: d},
			{X: 0, Y: 0, Z: d},
		},
		Faces: []nav.Face{
			{Verts: [3]int32{0, 1, 2}, Material: nav.MaterialStone, Adjacent: [3]int32{nav.NoAdjacent, nav.NoAdjacent, 1}},
			{Verts: [3]int32{0, 2, 3}, Material: nav.MaterialStone, Adjacent: [3]int32{0, nav.NoAdjacent, nav.NoAdjacent}},
		},
	}
}

// newFloorArea builds an area whose single room is a w-by-d floor placed
// at the given offset.
func newFloorArea(t *testing.T, id string, w, d float32, at math.Vec3) *area.Area {
	t.Helper()
	a, err := area.New(id, []nav.Room{{Surface: floorSurface(w, d), Position: at}}, area.DefaultConfig())
	if err != nil {
		t.Fatalf("area %s: %v", id, err)
	}
	return a
}

// physicsEntity builds an entity with a rigid body of the given mass.
func physicsEntity(id uint32, mass float32, at math.Vec3) *entity.Entity {
	e := entity.New(id, entity.CategoryCreature, "traveler")
	e.Position = at
	e.SetData(entity.KeyPhysics, 1)
	e.SetData(entity.KeyMass, mass)
	return e
}

func TestWorld_AreaLookup(t *testing.T) {
	w := New()
	a := newFloorArea(t, "tavern", 16, 16, math.Vec3{})
	w.AddArea(a)

	if got, ok := w.Area("tavern"); !ok || got != a {
		t.Error("registered area not resolvable")
	}

	w.RemoveArea("tavern")
	if _, ok := w.Area("tavern"); ok {
		t.Error("area still resolvable after removal")
	}
}

func TestWorld_RequestDestroy(t *testing.T) {
	w := New()
	a := newFloorArea(t, "tavern", 16, 16, math.Vec3{})
	w.AddArea(a)

	e := entity.New(1, entity.CategoryPlaceable, "crate")
	if err := a.AddEntity(e); err != nil {
		t.Fatal(err)
	}

	w.RequestDestroy(1)
	if _, ok := a.EntityByID(1); ok {
		t.Error("entity survived destruction request")
	}

	// Unknown IDs are logged and dropped.
	w.RequestDestroy(99)
}

func TestTransfer_PreservesPhysics(t *testing.T) {
	w := New()
	src := newFloorArea(t, "tavern", 16, 16, math.Vec3{})
	dst := newFloorArea(t, "cellar", 16, 16, math.Vec3{})
	w.AddArea(src)
	w.AddArea(dst)

	e := physicsEntity(1, 5, math.Vec3{X: 4, Y: 0, Z: 4})
	if err := src.AddEntity(e); err != nil {
		t.Fatal(err)
	}
	if b, ok := src.Physics.Body(1); ok {
		b.Velocity = math.Vec3{X: 1}
	}
	src.Physics.AddConstraint(physics.Constraint{
		Type:      physics.ConstraintPointToPoint,
		Primary:   1,
		Secondary: physics.WorldAnchor,
		Params:    map[string]float32{"stiffness": 0.5},
	})

	if err := w.Transfer(1, "tavern", "cellar"); err != nil {
		t.Fatalf("Transfer: %v", err)
	}

	if _, ok := src.EntityByID(1); ok {
		t.Error("entity still in source area")
	}
	moved, ok := dst.EntityByID(1)
	if !ok {
		t.Fatal("entity missing from destination area")
	}
	if moved.Position.Y != 0 {
		t.Errorf("arrival not projected onto floor: %v", moved.Position)
	}

	state, found := dst.Physics.GetState(1)
	if !found {
		t.Fatal("no physics state in destination")
	}
	if state.Velocity != (math.Vec3{X: 1}) {
		t.Errorf("velocity = %v, want (1,0,0)", state.Velocity)
	}
	if state.Mass != 5 {
		t.Errorf("mass = %v, want 5", state.Mass)
	}
	if len(state.Constraints) != 1 {
		t.Fatalf("got %d constraints, want 1", len(state.Constraints))
	}
	c := state.Constraints[0]
	if c.Primary != 1 || c.Type != physics.ConstraintPointToPoint {
		t.Errorf("constraint = %+v", c)
	}
	if c.Params["stiffness"] != 0.5 {
		t.Error("constraint params lost in transfer")
	}

	if src.Physics.Has(1) {
		t.Error("body left behind in source registry")
	}
}

func TestTransfer_RadialSearchArrival(t *testing.T) {
	w := New()
	src := newFloorArea(t, "tavern", 16, 16, math.Vec3{})
	// The only walkable patch sits three units north of the arrival
	// point, too small for the raw position or the inner rings to hit.
	dst := newFloorArea(t, "ledge", 0.8, 0.8, math.Vec3{X: -0.4, Z: 2.6})
	w.AddArea(src)
	w.AddArea(dst)

	e := entity.New(1, entity.CategoryCreature, "traveler")
	e.Position = math.Vec3{}
	if err := src.AddEntity(e); err != nil {
		t.Fatal(err)
	}

	if err := w.Transfer(1, "tavern", "ledge"); err != nil {
		t.Fatalf("Transfer: %v", err)
	}

	moved, ok := dst.EntityByID(1)
	if !ok {
		t.Fatal("entity missing from destination area")
	}
	if moved.Position.DistanceXZ(math.Vec3{Z: 3}) > 0.01 {
		t.Errorf("arrival = %v, want the ring sample at (0,0,3)", moved.Position)
	}
	if !dst.Mesh.IsWalkable(moved.Position.Add(math.Vec3{Y: 0.1})) {
		t.Error("arrival position is off the destination mesh")
	}
}

func TestTransfer_OffMeshArrivalKeepsPosition(t *testing.T) {
	w := New()
	src := newFloorArea(t, "tavern", 16, 16, math.Vec3{})
	// Destination floor far beyond the search horizon.
	dst := newFloorArea(t, "island", 4, 4, math.Vec3{X: 100, Z: 100})
	w.AddArea(src)
	w.AddArea(dst)

	e := entity.New(1, entity.CategoryCreature, "traveler")
	e.Position = math.Vec3{X: 2, Y: 0, Z: 2}
	if err := src.AddEntity(e); err != nil {
		t.Fatal(err)
	}

	if err := w.Transfer(1, "tavern", "island"); err != nil {
		t.Fatalf("Transfer: %v", err)
	}

	moved, ok := dst.EntityByID(1)
	if !ok {
		t.Fatal("entity missing from destination area")
	}
	if moved.Position != (math.Vec3{X: 2, Y: 0, Z: 2}) {
		t.Errorf("unplaceable arrival moved the entity: %v", moved.Position)
	}
}

func TestTransfer_MissingDestinationRollsBack(t *testing.T) {
	w := New()
	src := newFloorArea(t, "tavern", 16, 16, math.Vec3{})
	w.AddArea(src)

	e := physicsEntity(1, 5, math.Vec3{X: 4, Y: 0, Z: 4})
	if err := src.AddEntity(e); err != nil {
		t.Fatal(err)
	}
	if b, ok := src.Physics.Body(1); ok {
		b.Velocity = math.Vec3{X: 2}
	}

	if err := w.Transfer(1, "tavern", "nowhere"); err == nil {
		t.Fatal("expected error for missing destination")
	}

	restored, ok := src.EntityByID(1)
	if !ok {
		t.Fatal("entity lost from source after failed transfer")
	}
	if restored.Position != (math.Vec3{X: 4, Y: 0, Z: 4}) {
		t.Errorf("rollback moved the entity: %v", restored.Position)
	}
	state, found := src.Physics.GetState(1)
	if !found {
		t.Fatal("physics state lost in rollback")
	}
	if state.Velocity != (math.Vec3{X: 2}) || state.Mass != 5 {
		t.Errorf("rolled-back state = %+v", state)
	}
}

func TestTransfer_MissingSourceOrEntity(t *testing.T) {
	w := New()
	src := newFloorArea(t, "tavern", 16, 16, math.Vec3{})
	dst := newFloorArea(t, "cellar", 16, 16, math.Vec3{})
	w.AddArea(src)
	w.AddArea(dst)

	if err := w.Transfer(1, "nowhere", "cellar"); err == nil {
		t.Error("expected error for missing source area")
	}
	if err := w.Transfer(1, "tavern", "cellar"); err == nil {
		t.Error("expected error for entity absent from source")
	}
}

func TestTransfer_NoPhysicsEntity(t *testing.T) {
	w := New()
	src := newFloorArea(t, "tavern", 16, 16, math.Vec3{})
	dst := newFloorArea(t, "cellar", 16, 16, math.Vec3{})
	w.AddArea(src)
	w.AddArea(dst)

	e := entity.New(1, entity.CategoryWaypoint, "marker")
	e.Position = math.Vec3{X: 4, Y: 0, Z: 4}
	if err := src.AddEntity(e); err != nil {
		t.Fatal(err)
	}

	if err := w.Transfer(1, "tavern", "cellar"); err != nil {
		t.Fatalf("Transfer: %v", err)
	}
	if _, ok := dst.EntityByID(1); !ok {
		t.Error("entity missing from destination area")
	}
	if dst.Physics.Has(1) {
		t.Error("physics body invented for a body-less entity")
	}
}
