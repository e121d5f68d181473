package nav

// faceBounds is the axis-aligned bounding volume of one face.
type faceBounds struct {
	minX, minZ float32
	maxX, maxZ float32
	minY, maxY float32
}

func (b faceBounds) containsXZ(x, z float32) bool {
	return x >= b.minX && x <= b.maxX && z >= b.minZ && z <= b.maxZ
}

// overlapsRect tests horizontal-plane overlap with a rectangle.
func (b faceBounds) overlapsRect(minX, minZ, maxX, maxZ float32) bool {
	return b.minX <= maxX && b.maxX >= minX && b.minZ <= maxZ && b.maxZ >= minZ
}

// overlapsCircle tests horizontal-plane overlap with a circle by clamping
// the center to the rectangle.
func (b faceBounds) overlapsCircle(cx, cz, radius float32) bool {
	nx := clamp(cx, b.minX, b.maxX)
	nz := clamp(cz, b.minZ, b.maxZ)
	dx := cx - nx
	dz := cz - nz
	return dx*dx+dz*dz <= radius*radius
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

type cellKey struct {
	x, z int32
}

// faceIndex is a uniform grid over face bounding volumes in the XZ plane.
// It is built once after all rooms are appended and never rebuilt; runtime
// walkability changes are flag flips that do not move geometry.
type faceIndex struct {
	cellSize float32
	cells    map[cellKey][]int32
	bounds   []faceBounds // indexed by face ID
}

func newFaceIndex(cellSize float32, bounds []faceBounds) *faceIndex {
	if cellSize <= 0 {
		cellSize = 8.0
	}
	idx := &faceIndex{
		cellSize: cellSize,
		cells:    make(map[cellKey][]int32),
		bounds:   bounds,
	}
	for i, b := range bounds {
		idx.insert(int32(i), b)
	}
	return idx
}

func (idx *faceIndex) cellOf(x, z float32) cellKey {
	return cellKey{
		x: int32(floorDiv(x, idx.cellSize)),
		z: int32(floorDiv(z, idx.cellSize)),
	}
}

func floorDiv(v, size float32) float32 {
	q := v / size
	f := float32(int32(q))
	if q < 0 && q != f {
		f--
	}
	return f
}

func (idx *faceIndex) insert(faceID int32, b faceBounds) {
	lo := idx.cellOf(b.minX, b.minZ)
	hi := idx.cellOf(b.maxX, b.maxZ)
	for cx := lo.x; cx <= hi.x; cx++ {
		for cz := lo.z; cz <= hi.z; cz++ {
			key := cellKey{cx, cz}
			idx.cells[key] = append(idx.cells[key], faceID)
		}
	}
}

// queryPoint returns faces whose horizontal bounds contain (x, z).
func (idx *faceIndex) queryPoint(x, z float32) []int32 {
	var out []int32
	for _, faceID := range idx.cells[idx.cellOf(x, z)] {
		if idx.bounds[faceID].containsXZ(x, z) {
			out = append(out, faceID)
		}
	}
	return out
}

// queryRect returns faces whose horizontal bounds overlap the rectangle.
func (idx *faceIndex) queryRect(minX, minZ, maxX, maxZ float32) []int32 {
	lo := idx.cellOf(minX, minZ)
	hi := idx.cellOf(maxX, maxZ)

	var out []int32
	seen := make(map[int32]struct{})
	for cx := lo.x; cx <= hi.x; cx++ {
		for cz := lo.z; cz <= hi.z; cz++ {
			for _, faceID := range idx.cells[cellKey{cx, cz}] {
				if _, dup := seen[faceID]; dup {
					continue
				}
				seen[faceID] = struct{}{}
				if idx.bounds[faceID].overlapsRect(minX, minZ, maxX, maxZ) {
					out = append(out, faceID)
				}
			}
		}
	}
	return out
}

// queryCircle returns faces whose horizontal bounds overlap the circle.
func (idx *faceIndex) queryCircle(cx, cz, radius float32) []int32 {
	candidates := idx.queryRect(cx-radius, cz-radius, cx+radius, cz+radius)

	var out []int32
	for _, faceID := range candidates {
		if idx.bounds[faceID].overlapsCircle(cx, cz, radius) {
			out = append(out, faceID)
		}
	}
	return out
}
