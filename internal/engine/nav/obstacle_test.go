package nav

import (
	"testing"

	"github.com/Faultbox/eclipse/pkg/math"
)

// obstacleFixture builds an 8x8 grid of one-unit floor tiles so obstacle
// overlap resolves to individual faces rather than one huge quad.
func obstacleFixture(t *testing.T) (*Mesh, *ObstacleRegistry) {
	t.Helper()
	var rooms []Room
	for x := 0; x < 8; x++ {
		for z := 0; z < 8; z++ {
			rooms = append(rooms, Room{
				Surface:  quadSurface(1, 1, 0),
				Position: math.Vec3{X: float32(x), Z: float32(z)},
			})
		}
	}
	m := buildMesh(t, rooms)
	return m, NewObstacleRegistry(m)
}

func TestObstacleRegistry_BlocksFaces(t *testing.T) {
	m, r := obstacleFixture(t)
	p := math.Vec3{X: 4, Y: 0.1, Z: 4}

	if !m.IsWalkable(p) {
		t.Fatal("point should start walkable")
	}

	r.Add(1, NewRegionAround(p, 1, 1), true)
	r.Update()

	if m.IsWalkable(p) {
		t.Error("point under active obstacle should not be walkable")
	}
	if len(m.DirtyFaces()) == 0 {
		t.Error("blocking should mark faces dirty")
	}
}

func TestObstacleRegistry_ToggleRestoresWalkability(t *testing.T) {
	m, r := obstacleFixture(t)
	p := math.Vec3{X: 4, Y: 0.1, Z: 4}

	r.Add(1, NewRegionAround(p, 1, 1), false)
	r.Update()
	if m.IsWalkable(p) != true {
		t.Fatal("inactive obstacle should not block")
	}

	r.SetActive(1, true)
	r.Update()
	if m.IsWalkable(p) {
		t.Fatal("active obstacle should block")
	}

	r.SetActive(1, false)
	r.Update()
	if !m.IsWalkable(p) {
		t.Error("deactivating should restore pre-activation walkability")
	}
}

func TestObstacleRegistry_OverlappingObstacles(t *testing.T) {
	m, r := obstacleFixture(t)
	p := math.Vec3{X: 4, Y: 0.1, Z: 4}

	r.Add(1, NewRegionAround(p, 1, 1), true)
	r.Add(2, NewRegionAround(p, 2, 2), true)
	r.Update()

	if m.IsWalkable(p) {
		t.Fatal("point under two obstacles should not be walkable")
	}

	// One obstacle leaves; the other still covers the faces.
	r.SetActive(1, false)
	r.Update()
	if m.IsWalkable(p) {
		t.Error("faces covered by a remaining active obstacle must stay blocked")
	}

	r.SetActive(2, false)
	r.Update()
	if !m.IsWalkable(p) {
		t.Error("faces should unblock once no active obstacle covers them")
	}
}

func TestObstacleRegistry_MoveRelocatesBlocking(t *testing.T) {
	m, r := obstacleFixture(t)
	oldPos := math.Vec3{X: 1, Y: 0.1, Z: 1}
	newPos := math.Vec3{X: 7, Y: 0.1, Z: 7}

	r.Add(1, NewRegionAround(oldPos, 0.5, 0.5), true)
	r.Update()
	m.ClearDirty()

	r.SetBounds(1, NewRegionAround(newPos, 0.5, 0.5))
	r.Update()

	if !m.IsWalkable(oldPos) {
		t.Error("vacated position should be walkable again")
	}
	if m.IsWalkable(newPos) {
		t.Error("new position should be blocked")
	}
	if len(m.DirtyFaces()) == 0 {
		t.Error("moving an obstacle should mark faces dirty")
	}
}

func TestObstacleRegistry_NoChangeNoDirty(t *testing.T) {
	m, r := obstacleFixture(t)
	p := math.Vec3{X: 4, Y: 0.1, Z: 4}

	r.Add(1, NewRegionAround(p, 1, 1), true)
	r.Update()
	m.ClearDirty()

	// Nothing changed; a second pass is a no-op.
	r.Update()
	if len(m.DirtyFaces()) != 0 {
		t.Error("unchanged obstacle dirtied faces")
	}
}

func TestObstacleRegistry_RemoveReleasesFaces(t *testing.T) {
	m, r := obstacleFixture(t)
	p := math.Vec3{X: 4, Y: 0.1, Z: 4}

	r.Add(1, NewRegionAround(p, 1, 1), true)
	r.Update()

	r.Remove(1)
	if m.IsWalkable(p) != true {
		t.Error("removal should release blocked faces immediately")
	}
	if r.Has(1) {
		t.Error("obstacle still registered after removal")
	}
}

func TestObstacleRegistry_AddDuplicateIgnored(t *testing.T) {
	_, r := obstacleFixture(t)
	r.Add(1, NewRegionAround(math.Vec3{X: 1, Z: 1}, 1, 1), true)
	r.Add(1, NewRegionAround(math.Vec3{X: 7, Z: 7}, 1, 1), false)

	if !r.obstacles[1].Active {
		t.Error("duplicate Add overwrote the original obstacle")
	}
}
