// Package lighting holds the per-area point light set mutated by the
// area modification protocol. Rendering consumes the packed buffers; this
// package does not model light transport.
package lighting

import (
	"github.com/Faultbox/eclipse/pkg/math"
)

// MaxLights is the maximum number of point lights an area carries.
const MaxLights = 32

// Light is one point light source.
type Light struct {
	ID        uint32
	Position  math.Vec3
	Color     [3]float32 // RGB, 0-1 range
	Range     float32    // Falloff distance
	Intensity float32
}

// Set is an area's light collection. Adds and removes mark the packed
// buffers stale; Refresh rebuilds them.
type Set struct {
	lights []Light
	stale  bool

	positions   []float32
	colors      []float32
	ranges      []float32
	intensities []float32
}

// NewSet creates an empty light set.
func NewSet() *Set {
	return &Set{
		lights: make([]Light, 0, MaxLights),
	}
}

// Count returns the number of lights.
func (s *Set) Count() int {
	return len(s.lights)
}

// Add inserts a light. Returns false if the set is full or the ID is
// already present.
func (s *Set) Add(l Light) bool {
	if len(s.lights) >= MaxLights {
		return false
	}
	for _, existing := range s.lights {
		if existing.ID == l.ID {
			return false
		}
	}

	// Clamp color to 0-1; some source data exceeds it.
	for i := 0; i < 3; i++ {
		if l.Color[i] > 1 {
			l.Color[i] = 1
		}
		if l.Color[i] < 0 {
			l.Color[i] = 0
		}
	}
	if l.Range <= 0 {
		l.Range = 100.0
	}
	if l.Intensity <= 0 {
		l.Intensity = 1.0
	}

	s.lights = append(s.lights, l)
	s.stale = true
	return true
}

// Remove deletes a light by ID. Returns false if not present.
func (s *Set) Remove(id uint32) bool {
	for i, l := range s.lights {
		if l.ID == id {
			s.lights = append(s.lights[:i], s.lights[i+1:]...)
			s.stale = true
			return true
		}
	}
	return false
}

// Stale reports whether the packed buffers are out of date.
func (s *Set) Stale() bool {
	return s.stale
}

// Refresh rebuilds the packed buffers. Called by the modification
// protocol after any lighting-flagged change.
func (s *Set) Refresh() {
	s.positions = s.positions[:0]
	s.colors = s.colors[:0]
	s.ranges = s.ranges[:0]
	s.intensities = s.intensities[:0]

	for _, l := range s.lights {
		s.positions = append(s.positions, l.Position.X, l.Position.Y, l.Position.Z)
		s.colors = append(s.colors, l.Color[0], l.Color[1], l.Color[2])
		s.ranges = append(s.ranges, l.Range)
		s.intensities = append(s.intensities, l.Intensity)
	}
	s.stale = false
}

// Positions returns packed light positions [x0, y0, z0, x1, ...].
func (s *Set) Positions() []float32 {
	return s.positions
}

// Colors returns packed light colors [r0, g0, b0, r1, ...].
func (s *Set) Colors() []float32 {
	return s.colors
}

// Ranges returns packed falloff distances.
func (s *Set) Ranges() []float32 {
	return s.ranges
}

// Intensities returns packed intensity multipliers.
func (s *Set) Intensities() []float32 {
	return s.intensities
}
