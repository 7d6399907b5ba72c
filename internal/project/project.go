package project

// Project is the single shared mutable state of the editor: trajectories,
// variables, robot parameters, and chain group display names.
type Project struct {
	Name string

	Trajectories []*Trajectory

	Robot RobotParams

	// GroupNames maps a chain root's trajectory id to a user-assigned
	// display name for the whole chain.
	GroupNames map[string]string

	// LinkedFrom names the project the variable set was last imported from,
	// "" when nothing is linked.
	LinkedFrom string

	variables map[string]*Variable
}

// New returns an empty project with default robot parameters.
func New(name string) *Project {
	return &Project{
		Name:       name,
		Robot:      DefaultRobotParams(),
		GroupNames: make(map[string]string),
		variables:  make(map[string]*Variable),
	}
}

// Trajectory resolves a trajectory by id. Missing ids are a normal
// condition for re-evaluation writes (the binding may outlive its target),
// so this returns ok=false rather than an error.
func (p *Project) Trajectory(id string) (*Trajectory, bool) {
	for _, t := range p.Trajectories {
		if t.ID == id {
			return t, true
		}
	}
	return nil, false
}

// AddTrajectory appends a trajectory to the project.
func (p *Project) AddTrajectory(t *Trajectory) {
	p.Trajectories = append(p.Trajectories, t)
}

// RemoveTrajectory deletes a trajectory, clears every follows edge pointing
// at it, and transfers its group name to its immediate follower if it was a
// chain root with one (otherwise the name is discarded).
func (p *Project) RemoveTrajectory(id string) bool {
	index := -1
	for i, t := range p.Trajectories {
		if t.ID == id {
			index = i
			break
		}
	}
	if index < 0 {
		return false
	}

	var follower *Trajectory
	for _, t := range p.Trajectories {
		if t.ID != id && t.Follows == id {
			follower = t
			t.Follows = ""
		}
	}

	if name, ok := p.GroupNames[id]; ok {
		delete(p.GroupNames, id)
		if follower != nil {
			p.GroupNames[follower.ID] = name
		}
	}

	p.Trajectories = append(p.Trajectories[:index], p.Trajectories[index+1:]...)
	return true
}

// HasFollower reports whether any trajectory follows the given id.
func (p *Project) HasFollower(id string) bool {
	for _, t := range p.Trajectories {
		if t.Follows == id {
			return true
		}
	}
	return false
}

// waypointLocked reports whether a field of a waypoint is controlled by
// chain synchronization rather than direct edits: the first waypoint's pose
// while the trajectory follows another.
func waypointLocked(t *Trajectory, index int, field string) bool {
	if t.Follows == "" || index != 0 {
		return false
	}
	return field == "x" || field == "y" || field == "heading"
}

// EditWaypointField is the user-facing write path for a waypoint's numeric
// fields. It enforces the chained-waypoint lock and reports whether the
// value actually changed, so the caller can decide about invalidating the
// trajectory's cached solve.
func (p *Project) EditWaypointField(trajectoryID string, index int, field string, value float64) (changed bool, err error) {
	t, ok := p.Trajectory(trajectoryID)
	if !ok {
		return false, modelErr(ErrCodeNotFound, "trajectory %q not found", trajectoryID)
	}
	if index < 0 || index >= len(t.Waypoints) {
		return false, modelErr(ErrCodeNotFound, "trajectory %q has no waypoint %d", trajectoryID, index)
	}
	if _, known := waypointFields[field]; !known {
		return false, modelErr(ErrCodeInvalidField, "waypoint has no numeric field %q", field)
	}
	if waypointLocked(t, index, field) {
		return false, modelErr(ErrCodeLockedWaypoint,
			"waypoint 0 of %q is synchronized from the trajectory it follows", trajectoryID)
	}

	w := &t.Waypoints[index]
	old, _ := w.FieldValue(field)
	w.SetFieldValue(field, value)
	return old != value, nil
}

// ApplyWaypointField is the internal write path used by re-evaluation and
// chain synchronization. No lock check; reports whether the target existed
// and whether the value changed.
func (p *Project) ApplyWaypointField(trajectoryID string, index int, field string, value float64) (changed, applied bool) {
	t, ok := p.Trajectory(trajectoryID)
	if !ok || index < 0 || index >= len(t.Waypoints) {
		return false, false
	}
	w := &t.Waypoints[index]
	old, known := w.FieldValue(field)
	if !known {
		return false, false
	}
	w.SetFieldValue(field, value)
	return old != value, true
}

// ApplyConstraintParam writes a constraint parameter by key. Missing
// trajectory or constraint is a no-op, matching the re-evaluation contract.
func (p *Project) ApplyConstraintParam(trajectoryID, constraintID, key string, value float64) (changed, applied bool) {
	t, ok := p.Trajectory(trajectoryID)
	if !ok {
		return false, false
	}
	c, ok := t.Constraint(constraintID)
	if !ok {
		return false, false
	}
	if c.Params == nil {
		c.Params = make(map[string]float64)
	}
	old, had := c.Params[key]
	c.Params[key] = value
	return !had || old != value, true
}

// ApplyRobotParam writes a robot parameter by field name.
func (p *Project) ApplyRobotParam(field string, value float64) (changed, applied bool) {
	old, known := p.Robot.FieldValue(field)
	if !known {
		return false, false
	}
	p.Robot.SetFieldValue(field, value)
	return old != value, true
}

// ApplySolverSetting writes a solver setting of one trajectory.
func (p *Project) ApplySolverSetting(trajectoryID, field string, value float64) (changed, applied bool) {
	t, ok := p.Trajectory(trajectoryID)
	if !ok {
		return false, false
	}
	old, known := t.Settings.FieldValue(field)
	if !known {
		return false, false
	}
	t.Settings.SetFieldValue(field, value)
	return old != value, true
}

// NormalizeStops enforces the endpoint rest invariant: the first waypoint of
// a trajectory that follows nothing, and the last waypoint of a trajectory
// nothing follows, must be stop points. Interior waypoints are left alone.
func (p *Project) NormalizeStops() {
	for _, t := range p.Trajectories {
		if len(t.Waypoints) == 0 {
			continue
		}
		if t.Follows == "" {
			t.Waypoints[0].Stop = true
		}
		if !p.HasFollower(t.ID) {
			t.Waypoints[len(t.Waypoints)-1].Stop = true
		}
	}
}
