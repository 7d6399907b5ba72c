package project

import "github.com/google/uuid"

// WaypointType constrains how the solver treats a waypoint's heading.
type WaypointType string

const (
	// WaypointConstrained fixes position and heading.
	WaypointConstrained WaypointType = "constrained"

	// WaypointUnconstrained fixes position; heading is chosen by the solver.
	WaypointUnconstrained WaypointType = "unconstrained"

	// WaypointIntake constrains the robot relative to an intake point.
	WaypointIntake WaypointType = "intake"
)

// Waypoint is a single pose along a trajectory plus the limits for the
// segment starting at it. Defaults follow NewWaypoint.
type Waypoint struct {
	X       float64
	Y       float64
	Heading float64

	// Stop marks whether the robot comes to rest here. Chain endpoints that
	// do not participate in a follows edge are normalized to Stop=true.
	Stop bool

	VMax     float64
	OmegaMax float64

	Type WaypointType

	// Intake fields are meaningful only for Type == WaypointIntake.
	IntakeX             float64
	IntakeY             float64
	IntakeDistance      float64
	IntakeVelocityMax   float64
	IntakeVelocitySlack float64
}

// NewWaypoint returns a constrained waypoint at the given pose with the
// default segment limits.
func NewWaypoint(x, y, heading float64) Waypoint {
	return Waypoint{
		X:                   x,
		Y:                   y,
		Heading:             heading,
		VMax:                3.0,
		OmegaMax:            10.0,
		Type:                WaypointConstrained,
		IntakeDistance:      0.5,
		IntakeVelocityMax:   1.0,
		IntakeVelocitySlack: 0.1,
	}
}

// waypointFieldNames is the bindable numeric field set of a waypoint, in
// document order.
var waypointFieldNames = []string{
	"x", "y", "heading",
	"v_max", "omega_max",
	"intake_x", "intake_y", "intake_distance",
	"intake_velocity_max", "intake_velocity_slack",
}

var waypointFields = func() map[string]struct{} {
	m := make(map[string]struct{}, len(waypointFieldNames))
	for _, name := range waypointFieldNames {
		m[name] = struct{}{}
	}
	return m
}()

// WaypointFields returns the bindable numeric waypoint field names.
func WaypointFields() []string {
	return append([]string(nil), waypointFieldNames...)
}

// FieldValue returns a bindable numeric field by name.
func (w *Waypoint) FieldValue(name string) (float64, bool) {
	switch name {
	case "x":
		return w.X, true
	case "y":
		return w.Y, true
	case "heading":
		return w.Heading, true
	case "v_max":
		return w.VMax, true
	case "omega_max":
		return w.OmegaMax, true
	case "intake_x":
		return w.IntakeX, true
	case "intake_y":
		return w.IntakeY, true
	case "intake_distance":
		return w.IntakeDistance, true
	case "intake_velocity_max":
		return w.IntakeVelocityMax, true
	case "intake_velocity_slack":
		return w.IntakeVelocitySlack, true
	}
	return 0, false
}

// SetFieldValue writes a bindable numeric field by name. Reports whether the
// name was recognized. Lock enforcement happens at the Project level; this
// is the raw dispatch shared by user edits, re-evaluation, and chain sync.
func (w *Waypoint) SetFieldValue(name string, value float64) bool {
	switch name {
	case "x":
		w.X = value
	case "y":
		w.Y = value
	case "heading":
		w.Heading = value
	case "v_max":
		w.VMax = value
	case "omega_max":
		w.OmegaMax = value
	case "intake_x":
		w.IntakeX = value
	case "intake_y":
		w.IntakeY = value
	case "intake_distance":
		w.IntakeDistance = value
	case "intake_velocity_max":
		w.IntakeVelocityMax = value
	case "intake_velocity_slack":
		w.IntakeVelocitySlack = value
	default:
		return false
	}
	return true
}

// ConstraintType identifies a path constraint family.
type ConstraintType string

const (
	ConstraintCircleObstacle ConstraintType = "circle-obstacle"
	ConstraintRectObstacle   ConstraintType = "rect-obstacle"
	ConstraintStayInRect     ConstraintType = "stay-in-rect"
	ConstraintStayInLane     ConstraintType = "stay-in-lane"
	ConstraintHeadingTangent ConstraintType = "heading-tangent"
	ConstraintMaxVelocity    ConstraintType = "max-velocity"
	ConstraintMaxOmega       ConstraintType = "max-omega"
)

// AdjacencyOnly reports whether the constraint type may only span a single
// segment (ToWaypoint = FromWaypoint + 1).
func (t ConstraintType) AdjacencyOnly() bool {
	return t == ConstraintStayInLane || t == ConstraintHeadingTangent
}

// Constraint restricts the solution over a waypoint range. Params carries
// the type-specific numeric parameters (cx/cy/radius for circle obstacles,
// x/y/width/height for rectangles, v_max, omega_max, and so on).
type Constraint struct {
	ID           string
	Type         ConstraintType
	FromWaypoint int
	ToWaypoint   int
	Params       map[string]float64
	Enabled      bool
}

// NewConstraint mints an enabled constraint with a fresh id covering the
// given waypoint range.
func NewConstraint(ctype ConstraintType, from, to int) *Constraint {
	return &Constraint{
		ID:           uuid.Must(uuid.NewV7()).String(),
		Type:         ctype,
		FromWaypoint: from,
		ToWaypoint:   to,
		Params:       make(map[string]float64),
		Enabled:      true,
	}
}

// SolverSettings are the per-trajectory sampling and weighting knobs passed
// through to the solver.
type SolverSettings struct {
	SamplesPerMeter      float64
	MinSamplesPerSegment int
	ControlEffortWeight  float64
}

// DefaultSolverSettings mirrors the solver's defaults: one sample per 5cm,
// at least 3 samples per segment, time-optimal objective.
func DefaultSolverSettings() SolverSettings {
	return SolverSettings{
		SamplesPerMeter:      20.0,
		MinSamplesPerSegment: 3,
		ControlEffortWeight:  0.0,
	}
}

// SolverSettingFields returns the bindable solver setting field names.
func SolverSettingFields() []string {
	return []string{"samples_per_meter", "min_samples_per_segment", "control_effort_weight"}
}

// FieldValue returns a bindable solver setting by name.
func (s *SolverSettings) FieldValue(name string) (float64, bool) {
	switch name {
	case "samples_per_meter":
		return s.SamplesPerMeter, true
	case "min_samples_per_segment":
		return float64(s.MinSamplesPerSegment), true
	case "control_effort_weight":
		return s.ControlEffortWeight, true
	}
	return 0, false
}

func (s *SolverSettings) SetFieldValue(name string, value float64) bool {
	switch name {
	case "samples_per_meter":
		s.SamplesPerMeter = value
	case "min_samples_per_segment":
		s.MinSamplesPerSegment = int(value)
	case "control_effort_weight":
		s.ControlEffortWeight = value
	default:
		return false
	}
	return true
}

// SolverStats summarizes a completed solve.
type SolverStats struct {
	Iterations  int
	SolveTimeMS float64
}

// SolvedResult is the cached output of the external solver for one
// trajectory. The core never computes one; it only stores results handed in
// by the solver collaborator and clears them when inputs change.
type SolvedResult struct {
	Times []float64

	// States holds one [vx, vy, omega, px, py, theta] sample per knot.
	States [][6]float64

	// Controls holds one [drive, strafe, turn] sample per interval.
	Controls [][3]float64

	TotalTime float64
	Stats     SolverStats
}

// FinalHeading returns theta from the last state sample. Used to chain a
// follower off an unconstrained endpoint whose heading the solver chose.
func (r *SolvedResult) FinalHeading() (float64, bool) {
	if r == nil || len(r.States) == 0 {
		return 0, false
	}
	return r.States[len(r.States)-1][5], true
}

// Trajectory is one path through the field. Follows points at the
// trajectory whose end this one continues from ("" for a chain root); it is
// the single outgoing edge of the dependency graph.
type Trajectory struct {
	ID          string
	Name        string
	Waypoints   []Waypoint
	Constraints []*Constraint
	Follows     string
	Settings    SolverSettings
	Solved      *SolvedResult
}

// NewTrajectory mints an empty trajectory with default solver settings.
func NewTrajectory(name string) *Trajectory {
	return &Trajectory{
		ID:       uuid.Must(uuid.NewV7()).String(),
		Name:     name,
		Settings: DefaultSolverSettings(),
	}
}

// Constraint finds a constraint by id.
func (t *Trajectory) Constraint(id string) (*Constraint, bool) {
	for _, c := range t.Constraints {
		if c.ID == id {
			return c, true
		}
	}
	return nil, false
}

// InvalidateSolve discards the cached solve result, if any. Reports whether
// a result was present.
func (t *Trajectory) InvalidateSolve() bool {
	if t.Solved == nil {
		return false
	}
	t.Solved = nil
	return true
}

// FirstWaypoint and LastWaypoint return nil on an empty trajectory.
func (t *Trajectory) FirstWaypoint() *Waypoint {
	if len(t.Waypoints) == 0 {
		return nil
	}
	return &t.Waypoints[0]
}

func (t *Trajectory) LastWaypoint() *Waypoint {
	if len(t.Waypoints) == 0 {
		return nil
	}
	return &t.Waypoints[len(t.Waypoints)-1]
}
