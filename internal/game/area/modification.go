package area

import (
	"fmt"
	gomath "math"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/eclipse/internal/engine/lighting"
	"github.com/Faultbox/eclipse/internal/game/entity"
	"github.com/Faultbox/eclipse/internal/logger"
	"github.com/Faultbox/eclipse/pkg/math"
)

// Modification is one runtime mutation command for an area. The command
// set is closed: the variants in this file are all there are. Each
// declares which subsystems must refresh after it applies; the refresh
// flags are functions of the command, not of global state.
type Modification interface {
	Apply(a *Area) error
	RefreshNav() bool
	RefreshPhysics() bool
	RefreshLighting() bool
}

// ApplyModification applies a command and then, in this fixed order,
// refreshes navigation, physics, and lighting as the command requires.
// Refreshes complete before this returns; there is no deferred mode.
// Mutations already made by a failed command are not rolled back.
func (a *Area) ApplyModification(m Modification) error {
	if err := m.Apply(a); err != nil {
		return err
	}
	if m.RefreshNav() {
		a.refreshNav()
	}
	if m.RefreshPhysics() {
		a.refreshPhysics()
	}
	if m.RefreshLighting() {
		a.refreshLighting()
	}
	return nil
}

// AddEntity inserts an entity into the area, registering a rigid body
// and obstacle as the entity's flags demand.
type AddEntity struct {
	Entity *entity.Entity
}

// Apply implements Modification.
func (m AddEntity) Apply(a *Area) error {
	return a.AddEntity(m.Entity)
}

// RefreshNav implements Modification.
func (m AddEntity) RefreshNav() bool { return false }

// RefreshPhysics implements Modification.
func (m AddEntity) RefreshPhysics() bool {
	return m.Entity != nil && m.Entity.Flag(entity.KeyPhysics)
}

// RefreshLighting implements Modification.
func (m AddEntity) RefreshLighting() bool { return false }

// RemoveEntity removes an entity from the area's collections, obstacle
// registry, and physics registry.
type RemoveEntity struct {
	EntityID uint32

	// Resolved during Apply; drive the refresh flags.
	wasObstacle bool
	hadPhysics  bool
}

// Apply implements Modification.
func (m *RemoveEntity) Apply(a *Area) error {
	m.wasObstacle = a.Obstacles.Has(m.EntityID)
	m.hadPhysics = a.Physics.Has(m.EntityID)

	if _, ok := a.RemoveEntity(m.EntityID); !ok {
		return fmt.Errorf("entity %d not present in area %s", m.EntityID, a.ID)
	}
	return nil
}

// RefreshNav implements Modification.
func (m *RemoveEntity) RefreshNav() bool { return m.wasObstacle }

// RefreshPhysics implements Modification.
func (m *RemoveEntity) RefreshPhysics() bool { return m.hadPhysics }

// RefreshLighting implements Modification.
func (m *RemoveEntity) RefreshLighting() bool { return false }

// AddLight forwards a new light to the lighting subsystem.
type AddLight struct {
	Light lighting.Light
}

// Apply implements Modification.
func (m AddLight) Apply(a *Area) error {
	if !a.Lights.Add(m.Light) {
		return fmt.Errorf("light %d rejected (duplicate or set full)", m.Light.ID)
	}
	return nil
}

// RefreshNav implements Modification.
func (m AddLight) RefreshNav() bool { return false }

// RefreshPhysics implements Modification.
func (m AddLight) RefreshPhysics() bool { return false }

// RefreshLighting implements Modification.
func (m AddLight) RefreshLighting() bool { return true }

// RemoveLight removes a light by ID.
type RemoveLight struct {
	LightID uint32
}

// Apply implements Modification.
func (m RemoveLight) Apply(a *Area) error {
	if !a.Lights.Remove(m.LightID) {
		return fmt.Errorf("light %d not present", m.LightID)
	}
	return nil
}

// RefreshNav implements Modification.
func (m RemoveLight) RefreshNav() bool { return false }

// RefreshPhysics implements Modification.
func (m RemoveLight) RefreshPhysics() bool { return false }

// RefreshLighting implements Modification.
func (m RemoveLight) RefreshLighting() bool { return true }

// CreateHole permanently marks walkmesh faces within a radius as
// destroyed. Construct with NewCreateHole; the radius must be positive.
type CreateHole struct {
	Center math.Vec3
	Radius float32
}

// NewCreateHole validates the hole parameters. A non-positive radius is
// a caller error, rejected here rather than tolerated at apply time.
func NewCreateHole(center math.Vec3, radius float32) (CreateHole, error) {
	if radius <= 0 {
		return CreateHole{}, fmt.Errorf("hole radius must be positive, got %v", radius)
	}
	return CreateHole{Center: center, Radius: radius}, nil
}

// Apply implements Modification.
func (m CreateHole) Apply(a *Area) error {
	affected := a.Mesh.CreateHole(m.Center, m.Radius)
	logger.Info("walkmesh hole",
		zap.String("area", a.ID),
		zap.Float32("radius", m.Radius),
		zap.Int("faces", len(affected)))
	return nil
}

// RefreshNav implements Modification.
func (m CreateHole) RefreshNav() bool { return true }

// RefreshPhysics implements Modification. Debris resting on the
// destroyed faces may be affected.
func (m CreateHole) RefreshPhysics() bool { return true }

// RefreshLighting implements Modification.
func (m CreateHole) RefreshLighting() bool { return false }

// Area property names accepted by ChangeProperty.
const (
	PropUnescapable = "unescapable"
	PropDisplayName = "name"
	PropTag         = "tag"
)

// ChangeProperty sets one named area property. Unknown names are
// silently ignored (logged at debug) so stale script data cannot break
// an area.
type ChangeProperty struct {
	Name  string
	Value string
}

// Apply implements Modification.
func (m ChangeProperty) Apply(a *Area) error {
	switch strings.ToLower(m.Name) {
	case PropUnescapable:
		v, err := strconv.ParseBool(m.Value)
		if err != nil {
			return fmt.Errorf("property %q: %w", m.Name, err)
		}
		a.Props.Unescapable = v
	case PropDisplayName:
		a.Props.DisplayName = m.Value
	case PropTag:
		a.Props.Tag = m.Value
	default:
		logger.Debug("ignoring unknown area property",
			zap.String("area", a.ID),
			zap.String("property", m.Name))
	}
	return nil
}

// RefreshNav implements Modification.
func (m ChangeProperty) RefreshNav() bool { return false }

// RefreshPhysics implements Modification.
func (m ChangeProperty) RefreshPhysics() bool { return false }

// RefreshLighting implements Modification.
func (m ChangeProperty) RefreshLighting() bool { return false }

// DebrisSpeed is the initial outward speed of spawned debris pieces.
const DebrisSpeed float32 = 3.0

// DestroyObject removes a destructible entity, spawns its debris,
// punches a walkmesh hole where it stood, and requests world-level
// destruction. Construct with NewDestroyObject.
type DestroyObject struct {
	EntityID   uint32
	HoleCenter math.Vec3
	HoleRadius float32
}

// NewDestroyObject validates the destruction parameters.
func NewDestroyObject(entityID uint32, holeCenter math.Vec3, holeRadius float32) (DestroyObject, error) {
	if holeRadius <= 0 {
		return DestroyObject{}, fmt.Errorf("hole radius must be positive, got %v", holeRadius)
	}
	return DestroyObject{EntityID: entityID, HoleCenter: holeCenter, HoleRadius: holeRadius}, nil
}

// Apply implements Modification.
func (m DestroyObject) Apply(a *Area) error {
	e, ok := a.RemoveEntity(m.EntityID)
	if !ok {
		return fmt.Errorf("entity %d not present in area %s", m.EntityID, a.ID)
	}

	if count, _ := e.DataValue(entity.KeyDebrisCount); count > 0 {
		a.spawnDebris(e, int(count))
	}

	hole := CreateHole{Center: m.HoleCenter, Radius: m.HoleRadius}
	if err := hole.Apply(a); err != nil {
		return err
	}

	if a.world != nil {
		a.world.RequestDestroy(m.EntityID)
	} else {
		logger.Warn("no world bound; destruction request dropped",
			zap.Uint32("entity", m.EntityID))
	}
	return nil
}

// RefreshNav implements Modification.
func (m DestroyObject) RefreshNav() bool { return true }

// RefreshPhysics implements Modification.
func (m DestroyObject) RefreshPhysics() bool { return true }

// RefreshLighting implements Modification. Destruction effects may emit
// light.
func (m DestroyObject) RefreshLighting() bool { return true }

// spawnDebris places dynamic placeables flying outward from the
// destroyed entity's position.
func (a *Area) spawnDebris(source *entity.Entity, count int) {
	for i := 0; i < count; i++ {
		d := entity.New(a.allocSpawnID(), entity.CategoryPlaceable, source.Tag+"_debris")
		d.Position = source.Position
		d.SetData(entity.KeyPhysics, 1)
		d.SetData(entity.KeyMass, 1)
		if err := a.AddEntity(d); err != nil {
			logger.Warn("debris spawn failed", zap.Error(err))
			continue
		}

		angle := float64(i) / float64(count) * 2 * gomath.Pi
		if b, ok := a.Physics.Body(d.ID); ok {
			b.Velocity = math.Vec3{
				X: float32(gomath.Cos(angle)) * DebrisSpeed,
				Y: DebrisSpeed * 0.5,
				Z: float32(gomath.Sin(angle)) * DebrisSpeed,
			}
		}
	}

	logger.Debug("debris spawned",
		zap.String("area", a.ID),
		zap.Uint32("source", source.ID),
		zap.Int("count", count))
}
