package nav

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/eclipse/internal/logger"
	"github.com/Faultbox/eclipse/pkg/math"
)

// Room pairs a walkmesh surface with its placement in area space. A nil
// Surface is a room with no walkable geometry (failed or absent read).
type Room struct {
	Surface     *Surface
	Position    math.Vec3
	RotationDeg float32 // Rotation about the vertical axis
}

// Options tunes mesh construction.
type Options struct {
	CellSize            float32 // Spatial index cell size in world units
	ProjectionTolerance float32 // How far above a floor a query point may sit
}

// DefaultOptions returns the construction defaults.
func DefaultOptions() Options {
	return Options{
		CellSize:            8.0,
		ProjectionTolerance: 0.5,
	}
}

// Mesh is the combined navigation mesh for an entire area: every room's
// surface transformed into area space and rebased into one index space,
// plus runtime walkability state. Geometry is immutable once built; holes
// and obstacles only flip per-face flags.
type Mesh struct {
	verts []math.Vec3
	faces []Face

	// Runtime walkability flags, indexed by face ID.
	destroyed []bool
	blocked   []bool

	index     *faceIndex
	tolerance float32

	// Faces whose walkability changed since the caller last cleared the
	// set. Pathfinding caches key off this; clearing is their job.
	dirty map[int32]struct{}
}

// NewMesh builds the combined mesh from zero or more placed rooms. Each
// room's vertices are rotated about Y then translated; vertex and
// adjacency indices are rebased by running offsets. Rooms stay
// independent pathing islands unless their surfaces already encode
// cross-room adjacency. Zero rooms (or all-nil surfaces) produce a valid
// empty mesh that is walkable nowhere.
func NewMesh(rooms []Room, opts Options) (*Mesh, error) {
	m := &Mesh{
		tolerance: opts.ProjectionTolerance,
		dirty:     make(map[int32]struct{}),
	}
	if m.tolerance <= 0 {
		m.tolerance = DefaultOptions().ProjectionTolerance
	}

	for i, room := range rooms {
		if room.Surface == nil {
			continue
		}
		if err := room.Surface.Validate(); err != nil {
			return nil, fmt.Errorf("room %d: %w", i, err)
		}

		vertOffset := int32(len(m.verts))
		faceOffset := int32(len(m.faces))

		for _, v := range room.Surface.Vertices {
			m.verts = append(m.verts, v.RotatedY(room.RotationDeg).Add(room.Position))
		}
		for _, f := range room.Surface.Faces {
			nf := Face{Material: f.Material}
			for e := 0; e < 3; e++ {
				nf.Verts[e] = f.Verts[e] + vertOffset
				if f.Adjacent[e] == NoAdjacent {
					nf.Adjacent[e] = NoAdjacent
				} else {
					nf.Adjacent[e] = f.Adjacent[e] + faceOffset
				}
			}
			m.faces = append(m.faces, nf)
		}
	}

	m.destroyed = make([]bool, len(m.faces))
	m.blocked = make([]bool, len(m.faces))

	bounds := make([]faceBounds, len(m.faces))
	for i, f := range m.faces {
		bounds[i] = m.faceBoundsOf(f)
	}
	m.index = newFaceIndex(opts.CellSize, bounds)

	logger.Debug("navigation mesh built",
		zap.Int("rooms", len(rooms)),
		zap.Int("vertices", len(m.verts)),
		zap.Int("faces", len(m.faces)))

	return m, nil
}

func (m *Mesh) faceBoundsOf(f Face) faceBounds {
	v0 := m.verts[f.Verts[0]]
	v1 := m.verts[f.Verts[1]]
	v2 := m.verts[f.Verts[2]]

	b := faceBounds{
		minX: v0.X, maxX: v0.X,
		minZ: v0.Z, maxZ: v0.Z,
		minY: v0.Y, maxY: v0.Y,
	}
	for _, v := range []math.Vec3{v1, v2} {
		b.minX = min32(b.minX, v.X)
		b.maxX = max32(b.maxX, v.X)
		b.minZ = min32(b.minZ, v.Z)
		b.maxZ = max32(b.maxZ, v.Z)
		b.minY = min32(b.minY, v.Y)
		b.maxY = max32(b.maxY, v.Y)
	}
	return b
}

func min32(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func max32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

// Counts returns the vertex and face counts. Invariant across hole and
// obstacle operations; only full reconstruction changes them.
func (m *Mesh) Counts() (verts, faces int) {
	return len(m.verts), len(m.faces)
}

// Face returns the face with the given ID.
func (m *Mesh) Face(faceID int32) Face {
	return m.faces[faceID]
}

// FaceCenter returns the centroid of a face.
func (m *Mesh) FaceCenter(faceID int32) math.Vec3 {
	f := m.faces[faceID]
	v0 := m.verts[f.Verts[0]]
	v1 := m.verts[f.Verts[1]]
	v2 := m.verts[f.Verts[2]]
	return v0.Add(v1).Add(v2).Scale(1.0 / 3.0)
}

// Destroyed reports whether the face has been removed from the walkable
// set by a destructible hole.
func (m *Mesh) Destroyed(faceID int32) bool {
	return m.destroyed[faceID]
}

// Blocked reports whether a dynamic obstacle currently covers the face.
func (m *Mesh) Blocked(faceID int32) bool {
	return m.blocked[faceID]
}

// FaceWalkable reports whether the face can be stood on: walkable
// material, not destroyed, not obstacle-blocked.
func (m *Mesh) FaceWalkable(faceID int32) bool {
	return m.faces[faceID].Material.Walkable() &&
		!m.destroyed[faceID] &&
		!m.blocked[faceID]
}

// barycentric computes the barycentric weights of (x, z) on the face's
// horizontal projection. ok is false for degenerate (vertical) faces.
func (m *Mesh) barycentric(faceID int32, x, z float32) (w0, w1, w2 float32, ok bool) {
	f := m.faces[faceID]
	v0 := m.verts[f.Verts[0]]
	v1 := m.verts[f.Verts[1]]
	v2 := m.verts[f.Verts[2]]

	denom := (v1.Z-v2.Z)*(v0.X-v2.X) + (v2.X-v1.X)*(v0.Z-v2.Z)
	if denom > -1e-7 && denom < 1e-7 {
		return 0, 0, 0, false
	}

	w0 = ((v1.Z-v2.Z)*(x-v2.X) + (v2.X-v1.X)*(z-v2.Z)) / denom
	w1 = ((v2.Z-v0.Z)*(x-v2.X) + (v0.X-v2.X)*(z-v2.Z)) / denom
	w2 = 1 - w0 - w1
	return w0, w1, w2, true
}

const baryEpsilon = 1e-4

// faceContains reports whether (x, z) lies on the face's horizontal
// projection, and if so, the interpolated surface height there.
func (m *Mesh) faceContains(faceID int32, x, z float32) (height float32, on bool) {
	w0, w1, w2, ok := m.barycentric(faceID, x, z)
	if !ok {
		return 0, false
	}
	if w0 < -baryEpsilon || w0 > 1+baryEpsilon ||
		w1 < -baryEpsilon || w1 > 1+baryEpsilon ||
		w2 < -baryEpsilon || w2 > 1+baryEpsilon {
		return 0, false
	}

	f := m.faces[faceID]
	height = w0*m.verts[f.Verts[0]].Y +
		w1*m.verts[f.Verts[1]].Y +
		w2*m.verts[f.Verts[2]].Y
	return height, true
}

// IsWalkable reports whether at least one walkable face lies under the
// point's horizontal position. An empty mesh is walkable nowhere.
func (m *Mesh) IsWalkable(p math.Vec3) bool {
	for _, faceID := range m.index.queryPoint(p.X, p.Z) {
		if _, on := m.faceContains(faceID, p.X, p.Z); on && m.FaceWalkable(faceID) {
			return true
		}
	}
	return false
}

// ProjectToSurface drops the point onto the best walkable floor under it:
// among faces containing the point's horizontal position, the one whose
// surface height is greatest without exceeding the point's height by more
// than the projection tolerance. Multi-level geometry therefore resolves
// to the floor the point stands on, not a surface overhead. ok is false
// if no face qualifies; callers fall back to a radial search.
func (m *Mesh) ProjectToSurface(p math.Vec3) (projected math.Vec3, height float32, ok bool) {
	bestID := int32(-1)
	var bestHeight float32

	for _, faceID := range m.index.queryPoint(p.X, p.Z) {
		if !m.FaceWalkable(faceID) {
			continue
		}
		h, on := m.faceContains(faceID, p.X, p.Z)
		if !on {
			continue
		}
		if h > p.Y+m.tolerance {
			continue
		}
		if bestID == -1 || h > bestHeight {
			bestID = faceID
			bestHeight = h
		}
	}

	if bestID == -1 {
		return p, 0, false
	}
	return p.WithY(bestHeight), bestHeight, true
}

// FaceAt returns the face a point would project onto, using the same
// floor selection as ProjectToSurface.
func (m *Mesh) FaceAt(p math.Vec3) (int32, bool) {
	bestID := int32(-1)
	var bestHeight float32

	for _, faceID := range m.index.queryPoint(p.X, p.Z) {
		h, on := m.faceContains(faceID, p.X, p.Z)
		if !on || h > p.Y+m.tolerance {
			continue
		}
		if bestID == -1 || h > bestHeight {
			bestID = faceID
			bestHeight = h
		}
	}

	if bestID == -1 {
		return 0, false
	}
	return bestID, true
}

// CreateHole permanently marks every face intersecting the cylinder of
// the given radius at center as destroyed and records them in the dirty
// set. Geometry and adjacency are untouched; there is no undo. The radius
// must be positive (validated when the hole command is constructed).
// Returns the affected face IDs.
func (m *Mesh) CreateHole(center math.Vec3, radius float32) []int32 {
	if radius < 0 {
		return nil
	}

	var affected []int32
	for _, faceID := range m.index.queryCircle(center.X, center.Z, radius) {
		if m.destroyed[faceID] {
			continue
		}
		m.destroyed[faceID] = true
		m.dirty[faceID] = struct{}{}
		affected = append(affected, faceID)
	}

	logger.Debug("walkmesh hole created",
		zap.Float32("radius", radius),
		zap.Int("faces", len(affected)))

	return affected
}

// setBlocked flips a face's obstacle flag and records it dirty. Called by
// the obstacle registry only.
func (m *Mesh) setBlocked(faceID int32, blocked bool) {
	if m.blocked[faceID] == blocked {
		return
	}
	m.blocked[faceID] = blocked
	m.dirty[faceID] = struct{}{}
}

// markDirty records a walkability change for pathfinding caches.
func (m *Mesh) markDirty(faceID int32) {
	m.dirty[faceID] = struct{}{}
}

// DirtyFaces returns the faces whose walkability changed since the last
// ClearDirty. Order is unspecified.
func (m *Mesh) DirtyFaces() []int32 {
	out := make([]int32, 0, len(m.dirty))
	for faceID := range m.dirty {
		out = append(out, faceID)
	}
	return out
}

// ClearDirty empties the dirty-face set. Callers that maintain pathfinding
// caches call this once their caches are rebuilt.
func (m *Mesh) ClearDirty() {
	clear(m.dirty)
}
