package persist

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veratay/mecanum-trajopt/internal/binding"
	"github.com/Veratay/mecanum-trajopt/internal/project"
)

// goldenProject builds a small project with fixed ids so serialization is
// reproducible across runs.
func goldenProject(t *testing.T) (*project.Project, *binding.Registry) {
	t.Helper()
	p := project.New("Golden Run")
	require.NoError(t, p.DefineVariable("width", 4))

	traj := &project.Trajectory{
		ID:       "traj-a",
		Name:     "path",
		Settings: project.DefaultSolverSettings(),
	}
	first := project.NewWaypoint(0, 0, 0)
	first.Stop = true
	traj.Waypoints = []project.Waypoint{first, project.NewWaypoint(2, 1, 0.5)}
	p.AddTrajectory(traj)

	reg := binding.NewRegistry()
	reg.Bind(binding.WaypointKey("traj-a", 1, "x"), "width / 2")
	binding.ReevaluateAll(p, reg)

	return p, reg
}

func TestMarshal_Golden(t *testing.T) {
	p, reg := goldenProject(t)

	data, err := Marshal(p, reg, "2026-01-02T03:04:05Z")
	require.NoError(t, err)

	g := goldie.New(t)
	g.Assert(t, "project_document", data)
}

func TestMarshal_Deterministic(t *testing.T) {
	p, reg := goldenProject(t)

	first, err := Marshal(p, reg, "2026-01-02T03:04:05Z")
	require.NoError(t, err)
	second, err := Marshal(p, reg, "2026-01-02T03:04:05Z")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRoundTrip_MarshalLoadMarshal(t *testing.T) {
	p, reg := goldenProject(t)

	data, err := Marshal(p, reg, "2026-01-02T03:04:05Z")
	require.NoError(t, err)

	loaded, loadedReg, _, err := Load(data)
	require.NoError(t, err)

	again, err := Marshal(loaded, loadedReg, "2026-01-02T03:04:05Z")
	require.NoError(t, err)
	assert.Equal(t, string(data), string(again))
}

func TestLoad_RebuildsModelAndBindings(t *testing.T) {
	p, reg := goldenProject(t)
	data, err := Marshal(p, reg, "")
	require.NoError(t, err)

	loaded, loadedReg, result, err := Load(data)
	require.NoError(t, err)

	assert.Equal(t, "Golden Run", loaded.Name)

	value, ok := loaded.VariableValue("width")
	require.True(t, ok)
	assert.Equal(t, 4.0, value)

	traj, ok := loaded.Trajectory("traj-a")
	require.True(t, ok)
	require.Len(t, traj.Waypoints, 2)
	assert.True(t, traj.Waypoints[0].Stop)
	assert.Equal(t, 0.5, traj.Waypoints[1].Heading)

	// The shadow key was re-extracted into the registry.
	e, ok := loadedReg.Get(binding.WaypointKey("traj-a", 1, "x"))
	require.True(t, ok)
	assert.Equal(t, "width / 2", e)

	// The load-time re-evaluation found everything already in sync.
	assert.Empty(t, result.Changed)
	assert.Empty(t, result.Errors)
}

func TestLoad_ReevaluatesStaleComputedValues(t *testing.T) {
	// A document whose literal value disagrees with its expression: the
	// variable was edited but the file predates the re-evaluation. Load must
	// resynchronize the field.
	doc := `{
		"name": "stale",
		"variables": [{"name": "width", "value": 10}],
		"trajectories": [{
			"id": "traj-a",
			"name": "path",
			"waypoints": [
				{"x": 0, "y": 0, "heading": 0, "type": "constrained"},
				{"x": 2, "x_exp": "width / 2", "y": 1, "heading": 0, "type": "constrained"}
			],
			"constraints": []
		}]
	}`

	p, _, result, err := Load([]byte(doc))
	require.NoError(t, err)

	traj, ok := p.Trajectory("traj-a")
	require.True(t, ok)
	assert.Equal(t, 5.0, traj.Waypoints[1].X)
	assert.Equal(t, []binding.Key{binding.WaypointKey("traj-a", 1, "x")}, result.Changed)
}

func TestLoad_SyncsFollowersAfterEndpointChange(t *testing.T) {
	// The bound field is a chain endpoint: when the load-time pass moves
	// it, the follower's first waypoint must track it.
	doc := `{
		"name": "stale-chain",
		"variables": [{"name": "w", "value": 9}],
		"trajectories": [{
			"id": "traj-pred",
			"name": "pred",
			"waypoints": [
				{"x": 0, "y": 0, "heading": 0, "type": "constrained"},
				{"x": 1, "x_exp": "w", "y": 0, "heading": 0, "type": "constrained"}
			],
			"constraints": []
		}, {
			"id": "traj-fol",
			"name": "fol",
			"follows": "traj-pred",
			"waypoints": [
				{"x": 1, "y": 0, "heading": 0, "type": "constrained"},
				{"x": 4, "y": 2, "heading": 0, "type": "constrained"}
			],
			"constraints": []
		}]
	}`

	p, _, result, err := Load([]byte(doc))
	require.NoError(t, err)
	require.Equal(t, []binding.Key{binding.WaypointKey("traj-pred", 1, "x")}, result.Changed)

	pred, ok := p.Trajectory("traj-pred")
	require.True(t, ok)
	fol, ok := p.Trajectory("traj-fol")
	require.True(t, ok)

	assert.Equal(t, 9.0, pred.Waypoints[1].X)
	assert.Equal(t, pred.Waypoints[1].X, fol.Waypoints[0].X)
}

func TestLoad_CollectsBindingErrorsWithoutFailing(t *testing.T) {
	doc := `{
		"name": "broken-binding",
		"trajectories": [{
			"id": "traj-a",
			"name": "path",
			"waypoints": [{"x": 3, "x_exp": "missing_var", "y": 0, "heading": 0, "type": "constrained"}],
			"constraints": []
		}]
	}`

	p, _, result, err := Load([]byte(doc))
	require.NoError(t, err)

	// The literal value survives; the error is reported for display.
	traj, _ := p.Trajectory("traj-a")
	assert.Equal(t, 3.0, traj.Waypoints[0].X)
	require.Len(t, result.Errors, 1)
}

func TestLoad_ConstraintParamsAndShadows(t *testing.T) {
	doc := `{
		"name": "constraints",
		"variables": [{"name": "r", "value": 0.75}],
		"trajectories": [{
			"id": "traj-a",
			"name": "path",
			"waypoints": [
				{"x": 0, "y": 0, "heading": 0, "type": "constrained"},
				{"x": 1, "y": 0, "heading": 0, "type": "constrained"}
			],
			"constraints": [{
				"id": "c-1",
				"type": "circle-obstacle",
				"fromWaypoint": 0,
				"toWaypoint": 1,
				"enabled": true,
				"params": {"cx": 2, "cy": 3, "radius": 0.5, "radius_exp": "r"}
			}]
		}]
	}`

	p, reg, result, err := Load([]byte(doc))
	require.NoError(t, err)
	assert.Empty(t, result.Errors)

	traj, _ := p.Trajectory("traj-a")
	c, ok := traj.Constraint("c-1")
	require.True(t, ok)
	assert.Equal(t, project.ConstraintCircleObstacle, c.Type)
	assert.Equal(t, 2.0, c.Params["cx"])

	// radius resynchronized from the expression, shadow key not treated as
	// a literal param.
	assert.Equal(t, 0.75, c.Params["radius"])
	_, hasShadowParam := c.Params["radius_exp"]
	assert.False(t, hasShadowParam)

	e, ok := reg.Get(binding.ConstraintKey("traj-a", "c-1", "radius"))
	require.True(t, ok)
	assert.Equal(t, "r", e)
}

func TestLoad_MalformedDocument(t *testing.T) {
	_, _, _, err := Load([]byte("not json"))
	assert.Error(t, err)
}

func TestCanonicalNumbers(t *testing.T) {
	data, err := marshalCanonical(map[string]any{
		"int":   20.0,
		"frac":  0.15,
		"small": 0.05,
	})
	require.NoError(t, err)
	assert.Equal(t, `{"frac":0.15,"int":20,"small":0.05}`, string(data))
}
