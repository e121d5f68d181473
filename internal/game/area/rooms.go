package area

import (
	"go.uber.org/zap"

	"github.com/Faultbox/eclipse/internal/engine/nav"
	"github.com/Faultbox/eclipse/internal/logger"
	"github.com/Faultbox/eclipse/pkg/math"
)

// RoomPlacement names a room's surface resource and its transform in
// area space, as read from the area's layout data.
type RoomPlacement struct {
	Resource    string
	Position    math.Vec3
	RotationDeg float32
}

// LoadRooms resolves placements through a surface reader. A failed or
// absent read is not an error: the room simply contributes no walkable
// geometry, and the area stays loadable.
func LoadRooms(reader nav.SurfaceReader, placements []RoomPlacement) []nav.Room {
	rooms := make([]nav.Room, 0, len(placements))
	for _, p := range placements {
		var surface *nav.Surface
		if reader != nil {
			s, err := reader.ReadSurface(p.Resource)
			if err != nil {
				logger.Warn("room surface unavailable",
					zap.String("resource", p.Resource),
					zap.Error(err))
			} else {
				surface = s
			}
		}
		rooms = append(rooms, nav.Room{
			Surface:     surface,
			Position:    p.Position,
			RotationDeg: p.RotationDeg,
		})
	}
	return rooms
}
