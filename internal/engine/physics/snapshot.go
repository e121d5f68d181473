package physics

// Snapshot is an immutable copy of a body's transferable state, taken at
// the moment an entity begins an area transition and discarded when the
// transition completes. HasPhysics is false when the entity had no body;
// such a snapshot carries no velocity or constraints.
type Snapshot struct {
	HasPhysics bool
	State      State
}

// Snapshot captures the entity's current state, or a "no physics"
// snapshot if the entity has no body.
func (r *Registry) Snapshot(entity uint32) Snapshot {
	state, found := r.GetState(entity)
	if !found {
		return Snapshot{}
	}
	return Snapshot{HasPhysics: true, State: state}
}
