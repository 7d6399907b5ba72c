package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_WellFormedDocument(t *testing.T) {
	doc := `{
		"name": "auto-left",
		"updatedAt": "2026-01-02T03:04:05Z",
		"variables": [{"name": "width", "value": 4}],
		"groupNames": {"traj-a": "Main"},
		"trajectories": [{
			"id": "traj-a",
			"name": "path",
			"waypoints": [
				{"x": 0, "y": 0, "heading": 0, "stop": true, "type": "constrained"},
				{"x": 2, "x_exp": "width / 2", "y": 1, "heading": 0.5, "type": "unconstrained"}
			],
			"constraints": [{
				"id": "c-1",
				"type": "circle-obstacle",
				"fromWaypoint": 0,
				"toWaypoint": 1,
				"params": {"cx": 1, "cy": 1, "radius": 0.5}
			}]
		}]
	}`

	issues, err := Validate([]byte(doc))
	require.NoError(t, err)
	assert.Empty(t, issues)
}

func TestValidate_MinimalDocument(t *testing.T) {
	issues, err := Validate([]byte(`{"name": "empty", "trajectories": []}`))
	require.NoError(t, err)
	assert.Empty(t, issues)
}

func TestValidate_ReportsViolations(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"missing name", `{"trajectories": []}`},
		{"bad waypoint type", `{"name": "p", "trajectories": [{"id": "t", "waypoints": [{"x": 0, "y": 0, "heading": 0, "type": "diagonal"}]}]}`},
		{"non-numeric coordinate", `{"name": "p", "trajectories": [{"id": "t", "waypoints": [{"x": "wide", "y": 0, "heading": 0}]}]}`},
		{"bad variable name", `{"name": "p", "variables": [{"name": "1bad", "value": 0}], "trajectories": []}`},
		{"negative constraint index", `{"name": "p", "trajectories": [{"id": "t", "waypoints": [], "constraints": [{"id": "c", "type": "x", "fromWaypoint": -1, "toWaypoint": 0}]}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issues, err := Validate([]byte(tt.doc))
			require.NoError(t, err)
			assert.NotEmpty(t, issues)
		})
	}
}

func TestValidate_NotJSON(t *testing.T) {
	_, err := Validate([]byte("definitely not json"))
	assert.Error(t, err)
}
