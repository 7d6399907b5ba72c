package solverio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veratay/mecanum-trajopt/internal/graph"
	"github.com/Veratay/mecanum-trajopt/internal/project"
)

func solveReadyProject(t *testing.T) (*project.Project, *project.Trajectory) {
	t.Helper()
	p := project.New("test")
	traj := project.NewTrajectory("path")
	traj.Waypoints = []project.Waypoint{
		project.NewWaypoint(0, 0, 0),
		project.NewWaypoint(2, 1, 0.5),
	}
	enabled := project.NewConstraint(project.ConstraintCircleObstacle, 0, 1)
	enabled.Params["radius"] = 0.5
	disabled := project.NewConstraint(project.ConstraintMaxVelocity, 0, 1)
	disabled.Enabled = false
	traj.Constraints = append(traj.Constraints, enabled, disabled)
	p.AddTrajectory(traj)
	return p, traj
}

func TestBuildRequest(t *testing.T) {
	p, traj := solveReadyProject(t)

	req, err := BuildRequest(p, traj.ID)
	require.NoError(t, err)

	require.Len(t, req.Waypoints, 2)
	assert.Equal(t, 2.0, req.Waypoints[1].X)
	assert.Equal(t, "constrained", req.Waypoints[1].Type)

	// Disabled constraints are dropped from the payload.
	require.Len(t, req.Constraints, 1)
	assert.Equal(t, 0.5, req.Constraints[0].Params["radius"])

	assert.Equal(t, 15.0, req.RobotParams.Mass)
	assert.Equal(t, 20.0, req.SamplesPerMeter)
	assert.Equal(t, 3, req.MinSamplesPerSegment)
}

func TestBuildRequest_Errors(t *testing.T) {
	p, _ := solveReadyProject(t)

	_, err := BuildRequest(p, "ghost")
	assert.Error(t, err)

	short := project.NewTrajectory("short")
	short.Waypoints = []project.Waypoint{project.NewWaypoint(0, 0, 0)}
	p.AddTrajectory(short)
	_, err = BuildRequest(p, short.ID)
	assert.Error(t, err)
}

func TestAcceptResult_SyncsFollowersWithoutInvalidating(t *testing.T) {
	p, pred := solveReadyProject(t)
	pred.Waypoints[1].Type = project.WaypointUnconstrained

	follower := project.NewTrajectory("follower")
	follower.Waypoints = []project.Waypoint{
		project.NewWaypoint(0, 0, 0),
		project.NewWaypoint(5, 5, 0),
	}
	p.AddTrajectory(follower)
	require.Nil(t, graph.SetFollows(p, follower.ID, pred.ID))
	follower.Solved = &project.SolvedResult{TotalTime: 2}

	result := &project.SolvedResult{
		TotalTime: 1.5,
		States:    [][6]float64{{0, 0, 0, 0, 0, 0}, {0, 0, 0, 2, 1, 0.9}},
	}
	require.NoError(t, AcceptResult(p, pred.ID, result))

	assert.Same(t, result, pred.Solved)

	// The follower picked up the solver-chosen heading but kept its solve.
	assert.Equal(t, 0.9, follower.Waypoints[0].Heading)
	assert.NotNil(t, follower.Solved)
}

func TestAcceptResult_MissingTrajectory(t *testing.T) {
	p := project.New("test")
	assert.Error(t, AcceptResult(p, "ghost", &project.SolvedResult{}))
}
