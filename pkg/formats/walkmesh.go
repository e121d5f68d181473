// Package formats provides parsers for Eclipse module file formats.
package formats

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
)

// Walkmesh format errors.
var (
	ErrInvalidWalkmeshMagic       = errors.New("invalid walkmesh magic: expected 'EWMF'")
	ErrUnsupportedWalkmeshVersion = errors.New("unsupported walkmesh version")
	ErrTruncatedWalkmesh          = errors.New("truncated walkmesh data")
)

const walkmeshMagic = "EWMF"

// Mesh size limits; reject garbage counts before allocating.
const (
	maxWalkmeshVertices = 1 << 20
	maxWalkmeshFaces    = 1 << 20
)

// NoAdjacency marks a face edge with no neighbor.
const NoAdjacency int32 = -1

// WalkmeshVersion represents the walkmesh file version.
type WalkmeshVersion struct {
	Major uint8
	Minor uint8
}

// String returns the version as "Major.Minor".
func (v WalkmeshVersion) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// WalkmeshFace is one triangle of the walkable surface. Verts index the
// mesh's vertex list; Adjacent holds the neighbor face across each edge,
// or NoAdjacency.
type WalkmeshFace struct {
	Verts    [3]int32
	Adjacent [3]int32
	Material uint32
}

// Walkmesh represents a parsed walkmesh file: the triangulated walkable
// surface of one room.
type Walkmesh struct {
	Version  WalkmeshVersion
	Vertices [][3]float32
	Faces    []WalkmeshFace
}

// ParseWalkmesh parses a walkmesh file from raw bytes.
func ParseWalkmesh(data []byte) (*Walkmesh, error) {
	if len(data) < 14 {
		return nil, ErrTruncatedWalkmesh
	}

	if string(data[0:4]) != walkmeshMagic {
		return nil, ErrInvalidWalkmeshMagic
	}

	version := WalkmeshVersion{
		Major: data[4],
		Minor: data[5],
	}
	if version.Major != 1 {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedWalkmeshVersion, version)
	}

	r := bytes.NewReader(data[6:])

	var vertexCount, faceCount uint32
	if err := binary.Read(r, binary.LittleEndian, &vertexCount); err != nil {
		return nil, fmt.Errorf("%w: reading vertex count", ErrTruncatedWalkmesh)
	}
	if err := binary.Read(r, binary.LittleEndian, &faceCount); err != nil {
		return nil, fmt.Errorf("%w: reading face count", ErrTruncatedWalkmesh)
	}

	if vertexCount > maxWalkmeshVertices || faceCount > maxWalkmeshFaces {
		return nil, fmt.Errorf("invalid walkmesh size: %d vertices, %d faces", vertexCount, faceCount)
	}

	mesh := &Walkmesh{
		Version:  version,
		Vertices: make([][3]float32, vertexCount),
		Faces:    make([]WalkmeshFace, faceCount),
	}

	for i := range mesh.Vertices {
		if err := binary.Read(r, binary.LittleEndian, &mesh.Vertices[i]); err != nil {
			return nil, fmt.Errorf("%w: reading vertex %d", ErrTruncatedWalkmesh, i)
		}
	}
	for i := range mesh.Faces {
		if err := binary.Read(r, binary.LittleEndian, &mesh.Faces[i]); err != nil {
			return nil, fmt.Errorf("%w: reading face %d", ErrTruncatedWalkmesh, i)
		}
	}

	return mesh, nil
}

// ParseWalkmeshFile parses a walkmesh file from disk.
func ParseWalkmeshFile(path string) (*Walkmesh, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading walkmesh file: %w", err)
	}
	return ParseWalkmesh(data)
}

// EncodeWalkmesh serializes a walkmesh in the current format version.
// Used by module packing tools and test fixtures.
func EncodeWalkmesh(mesh *Walkmesh) []byte {
	var buf bytes.Buffer
	buf.WriteString(walkmeshMagic)
	buf.WriteByte(1)
	buf.WriteByte(0)

	binary.Write(&buf, binary.LittleEndian, uint32(len(mesh.Vertices)))
	binary.Write(&buf, binary.LittleEndian, uint32(len(mesh.Faces)))
	for i := range mesh.Vertices {
		binary.Write(&buf, binary.LittleEndian, &mesh.Vertices[i])
	}
	for i := range mesh.Faces {
		binary.Write(&buf, binary.LittleEndian, &mesh.Faces[i])
	}
	return buf.Bytes()
}
