package movement

import (
	gomath "math"
)

// Direction is an eight-way facing, north being +Z.
type Direction uint8

const (
	North Direction = iota
	NorthEast
	East
	SouthEast
	South
	SouthWest
	West
	NorthWest

	directionCount
)

// String returns the compass name.
func (d Direction) String() string {
	switch d {
	case North:
		return "N"
	case NorthEast:
		return "NE"
	case East:
		return "E"
	case SouthEast:
		return "SE"
	case South:
		return "S"
	case SouthWest:
		return "SW"
	case West:
		return "W"
	case NorthWest:
		return "NW"
	default:
		return "?"
	}
}

// Degrees returns the facing as degrees about the vertical axis,
// clockwise from north.
func (d Direction) Degrees() float32 {
	return float32(d) * 45
}

// DirectionFromVector quantizes a horizontal movement vector into the
// nearest eight-way facing. A zero vector yields North.
func DirectionFromVector(dx, dz float32) Direction {
	if dx == 0 && dz == 0 {
		return North
	}

	angle := float32(gomath.Atan2(float64(dx), float64(dz)))
	for angle < 0 {
		angle += 2 * gomath.Pi
	}

	// 45 degree sectors with a 22.5 degree offset so each facing owns
	// the arc centered on it.
	sectorSize := float32(gomath.Pi / 4)
	sector := Direction((angle + sectorSize/2) / sectorSize)
	return sector % directionCount
}
