// Package nav implements the navigable-surface engine: room walkmesh
// surfaces, the combined area navigation mesh with spatial indexing and
// point projection, destructible holes, and dynamic obstacles.
package nav

import (
	"fmt"

	"github.com/Faultbox/eclipse/pkg/math"
)

// Material identifies the surface type of a walkmesh face.
type Material uint8

const (
	MaterialUndefined Material = iota
	MaterialDirt
	MaterialObscuring
	MaterialGrass
	MaterialStone
	MaterialWood
	MaterialWater
	MaterialNonWalk
	MaterialTransparent
	MaterialCarpet
	MaterialMetal
	MaterialPuddles
	MaterialSwamp
	MaterialMud
	MaterialLeaves
	MaterialLava
	MaterialBottomlessPit
	MaterialDeepWater
	MaterialDoor
	MaterialSnow
	MaterialSand
)

// Walkable reports whether the material denotes a surface entities can
// stand on. Destruction and obstacle state are tracked per mesh face, not
// here.
func (m Material) Walkable() bool {
	switch m {
	case MaterialDirt, MaterialGrass, MaterialStone, MaterialWood,
		MaterialWater, MaterialCarpet, MaterialMetal, MaterialPuddles,
		MaterialSwamp, MaterialMud, MaterialLeaves, MaterialSnow, MaterialSand:
		return true
	default:
		return false
	}
}

// NoAdjacent marks a face edge with no neighboring face.
const NoAdjacent int32 = -1

// Face is one triangle of a walkmesh. Verts index into the owning
// surface's (or mesh's) vertex list; winding defines the normal. Adjacent
// holds the neighboring face across each edge, NoAdjacent for open edges.
type Face struct {
	Verts    [3]int32
	Material Material
	Adjacent [3]int32
}

// Surface is a room-local triangulated walkmesh, as produced by the
// binary room-resource reader.
type Surface struct {
	Vertices []math.Vec3
	Faces    []Face
}

// SurfaceReader loads a room's walkmesh by resource name. Implemented by
// the resource pipeline; the nav package only consumes the result.
type SurfaceReader interface {
	ReadSurface(name string) (*Surface, error)
}

// Validate checks vertex/adjacency index ranges and adjacency symmetry:
// if face A lists B as a neighbor, B must list A. Surfaces failing
// validation are rejected whole rather than patched.
func (s *Surface) Validate() error {
	nVerts := int32(len(s.Vertices))
	nFaces := int32(len(s.Faces))

	for i, f := range s.Faces {
		for _, v := range f.Verts {
			if v < 0 || v >= nVerts {
				return fmt.Errorf("face %d: vertex index %d out of range [0,%d)", i, v, nVerts)
			}
		}
		for _, adj := range f.Adjacent {
			if adj == NoAdjacent {
				continue
			}
			if adj < 0 || adj >= nFaces {
				return fmt.Errorf("face %d: adjacent face %d out of range [0,%d)", i, adj, nFaces)
			}
			if !listsAdjacent(s.Faces[adj], int32(i)) {
				return fmt.Errorf("face %d: adjacency to face %d is not symmetric", i, adj)
			}
		}
	}
	return nil
}

func listsAdjacent(f Face, target int32) bool {
	return f.Adjacent[0] == target || f.Adjacent[1] == target || f.Adjacent[2] == target
}
