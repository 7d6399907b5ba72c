package binding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veratay/mecanum-trajopt/internal/expr"
	"github.com/Veratay/mecanum-trajopt/internal/project"
)

func solvedProject(t *testing.T) (*project.Project, *project.Trajectory) {
	t.Helper()
	p := project.New("test")
	require.NoError(t, p.DefineVariable("width", 4.0))

	traj := project.NewTrajectory("path")
	traj.Waypoints = []project.Waypoint{
		project.NewWaypoint(0, 0, 0),
		project.NewWaypoint(2, 1, 0.5),
	}
	traj.Solved = &project.SolvedResult{TotalTime: 1.5}
	p.AddTrajectory(traj)
	return p, traj
}

func TestReevaluateAll_WritesAndPublishesChanges(t *testing.T) {
	p, traj := solvedProject(t)
	reg := NewRegistry()
	key := WaypointKey(traj.ID, 1, "x")
	reg.Bind(key, "width / 2 + 1")

	res := ReevaluateAll(p, reg)

	assert.Empty(t, res.Errors)
	assert.Equal(t, []Key{key}, res.Changed)
	assert.Equal(t, 3.0, traj.Waypoints[1].X)
	assert.Equal(t, []string{traj.ID}, res.Invalidated)
	assert.Nil(t, traj.Solved)
}

func TestReevaluateAll_Idempotent(t *testing.T) {
	p, traj := solvedProject(t)
	reg := NewRegistry()
	reg.Bind(WaypointKey(traj.ID, 0, "y"), "width - 1")
	reg.Bind(WaypointKey(traj.ID, 1, "heading"), "width / 4")

	first := ReevaluateAll(p, reg)
	require.Len(t, first.Changed, 2)
	afterFirst := append([]project.Waypoint(nil), traj.Waypoints...)

	second := ReevaluateAll(p, reg)
	assert.Empty(t, second.Changed)
	assert.Empty(t, second.Invalidated)
	assert.Empty(t, second.Errors)
	assert.Equal(t, afterFirst, traj.Waypoints)
}

func TestReevaluateAll_FailSoft(t *testing.T) {
	p, traj := solvedProject(t)
	reg := NewRegistry()
	bad := WaypointKey(traj.ID, 0, "x")
	good := WaypointKey(traj.ID, 1, "x")
	reg.Bind(bad, "missing_var * 2")
	reg.Bind(good, "width + 1")

	before := traj.Waypoints[0].X
	res := ReevaluateAll(p, reg)

	// The bad binding is reported and its field untouched.
	require.Len(t, res.Errors, 1)
	assert.Equal(t, bad, res.Errors[0].Key)
	assert.Equal(t, expr.ErrCodeUnknownVariable, res.Errors[0].Err.Code)
	assert.Equal(t, before, traj.Waypoints[0].X)

	// The good binding was still applied.
	assert.Equal(t, 5.0, traj.Waypoints[1].X)
	assert.Equal(t, []Key{good}, res.Changed)
}

func TestReevaluateAll_MissingTargetIsNoOp(t *testing.T) {
	p, _ := solvedProject(t)
	reg := NewRegistry()
	reg.Bind(WaypointKey("ghost-trajectory", 0, "x"), "width")
	reg.Bind(ConstraintKey("ghost-trajectory", "c-1", "radius"), "width")

	res := ReevaluateAll(p, reg)

	assert.Empty(t, res.Errors)
	assert.Empty(t, res.Changed)
	assert.Empty(t, res.Invalidated)
}

func TestReevaluateAll_EpsilonGate(t *testing.T) {
	p, traj := solvedProject(t)
	key := WaypointKey(traj.ID, 1, "x")
	reg := NewRegistry()

	// Within 1e-9 of the current value: no write, solve kept.
	traj.Waypoints[1].X = 2.0
	require.NoError(t, p.SetVariableValue("width", 4.0000000004)) // width/2 = 2.0000000002
	reg.Bind(key, "width / 2")
	res := ReevaluateAll(p, reg)
	assert.Empty(t, res.Changed)
	assert.NotNil(t, traj.Solved)
	assert.Equal(t, 2.0, traj.Waypoints[1].X)

	// A 1e-6-scale change writes and invalidates.
	require.NoError(t, p.SetVariableValue("width", 4.000002))
	res = ReevaluateAll(p, reg)
	assert.Equal(t, []Key{key}, res.Changed)
	assert.Nil(t, traj.Solved)
	assert.InDelta(t, 2.000001, traj.Waypoints[1].X, 1e-12)
}

func TestReevaluateAll_RobotParamInvalidatesEverySolve(t *testing.T) {
	p, traj := solvedProject(t)
	other := project.NewTrajectory("other")
	other.Waypoints = []project.Waypoint{project.NewWaypoint(0, 0, 0)}
	other.Solved = &project.SolvedResult{TotalTime: 2}
	p.AddTrajectory(other)

	reg := NewRegistry()
	reg.Bind(RobotParamKey("mass"), "width * 5")

	res := ReevaluateAll(p, reg)

	assert.Equal(t, 20.0, p.Robot.Mass)
	assert.ElementsMatch(t, []string{traj.ID, other.ID}, res.Invalidated)
	assert.Nil(t, traj.Solved)
	assert.Nil(t, other.Solved)
}

func TestReevaluateAll_SolverSettingAndConstraint(t *testing.T) {
	p, traj := solvedProject(t)
	c := project.NewConstraint(project.ConstraintCircleObstacle, 0, 1)
	traj.Constraints = append(traj.Constraints, c)

	reg := NewRegistry()
	reg.Bind(SolverSettingKey(traj.ID, "samples_per_meter"), "width * 10")
	reg.Bind(ConstraintKey(traj.ID, c.ID, "radius"), "width / 8")

	res := ReevaluateAll(p, reg)

	assert.Empty(t, res.Errors)
	assert.Equal(t, 40.0, traj.Settings.SamplesPerMeter)
	assert.Equal(t, 0.5, c.Params["radius"])
	assert.Equal(t, []string{traj.ID}, res.Invalidated)
}

func TestReevaluateAll_DivisionByZeroLeavesFieldUntouched(t *testing.T) {
	p, traj := solvedProject(t)
	require.NoError(t, p.DefineVariable("zero", 0))

	reg := NewRegistry()
	reg.Bind(WaypointKey(traj.ID, 1, "x"), "width / zero")

	before := traj.Waypoints[1].X
	res := ReevaluateAll(p, reg)

	require.Len(t, res.Errors, 1)
	assert.Equal(t, expr.ErrCodeDivisionByZero, res.Errors[0].Err.Code)
	assert.Equal(t, before, traj.Waypoints[1].X)
	assert.NotNil(t, traj.Solved)
}
